// Package main provides the entry point for the wordscan CLI.
package main

import (
	"os"

	"github.com/Aman-CERP/wordscan/cmd/wordscan/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
