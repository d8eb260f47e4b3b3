package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/wordscan/internal/backend"
	"github.com/Aman-CERP/wordscan/internal/logging"
	"github.com/Aman-CERP/wordscan/internal/worker"
)

// newWorkerCmd creates the hidden command the process backend runs in each
// child. stdout carries exactly one protocol response; logs go to stderr.
func newWorkerCmd() *cobra.Command {
	return &cobra.Command{
		Use:    backend.WorkerCommand,
		Short:  "Serve one scan_batch request on stdin/stdout",
		Hidden: true,
		Args:   cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logging.SetupWorkerMode(workerLogLevel())
			return backend.Serve(cmd.Context(), os.Stdin, os.Stdout, worker.New())
		},
	}
}
