package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
)

// Serve answers a single scan_batch request read from r, writing the
// response to w. It is the body of the hidden batch-worker command.
// A request that cannot be served still gets an error response, and the
// same failure is returned so the process exits non-zero.
func Serve(ctx context.Context, r io.Reader, w io.Writer, scanner BatchScanner) error {
	enc := json.NewEncoder(w)

	var req Request
	if err := json.NewDecoder(r).Decode(&req); err != nil {
		_ = enc.Encode(NewErrorResponse("", ErrCodeParseError, err.Error()))
		return fmt.Errorf("decode request: %w", err)
	}
	if rpcErr := req.Validate(); rpcErr != nil {
		_ = enc.Encode(NewErrorResponse(req.ID, rpcErr.Code, rpcErr.Message))
		return rpcErr
	}
	if err := ctx.Err(); err != nil {
		_ = enc.Encode(NewErrorResponse(req.ID, ErrCodeInternalError, err.Error()))
		return err
	}

	files, words := req.Params.Strings()
	partial := scanner.Scan(files, words)

	if err := enc.Encode(NewSuccessResponse(req.ID, Index(partial, files, words))); err != nil {
		return fmt.Errorf("encode response: %w", err)
	}
	return nil
}
