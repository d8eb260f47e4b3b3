package backend

import (
	"fmt"
	"sort"

	"github.com/Aman-CERP/wordscan/internal/result"
)

// MethodScanBatch is the only method a batch worker serves.
const MethodScanBatch = "scan_batch"

// Standard JSON-RPC 2.0 error codes.
const (
	ErrCodeParseError     = -32700
	ErrCodeInvalidRequest = -32600
	ErrCodeMethodNotFound = -32601
	ErrCodeInvalidParams  = -32602
	ErrCodeInternalError  = -32603
)

// Request is the JSON-RPC 2.0 request sent to a batch worker on stdin.
type Request struct {
	JSONRPC string     `json:"jsonrpc"`
	Method  string     `json:"method"`
	Params  ScanParams `json:"params"`
	ID      string     `json:"id"`
}

// ScanParams are the parameters of scan_batch. Paths and words travel as raw
// bytes (base64 in JSON) because file names need not be valid UTF-8.
type ScanParams struct {
	Files [][]byte `json:"files"`
	Words [][]byte `json:"words"`
}

// BatchResult is the scan_batch result. It refers to files and words by
// their position in the request, so the parent maps them back onto its own
// strings and never sees a re-encoded path.
type BatchResult struct {
	// Matches maps a word index to the indices of the files containing it.
	Matches  map[int][]int `json:"matches"`
	Failures []FileFailure `json:"failures,omitempty"`
}

// FileFailure reports a file of the batch that could not be scanned.
type FileFailure struct {
	File  int    `json:"file"`
	Code  string `json:"code,omitempty"`
	Error string `json:"error"`
}

// Response is the JSON-RPC 2.0 response a batch worker writes to stdout.
type Response struct {
	JSONRPC string       `json:"jsonrpc"`
	Result  *BatchResult `json:"result,omitempty"`
	Error   *Error       `json:"error,omitempty"`
	ID      string       `json:"id"`
}

// Error represents a JSON-RPC 2.0 error.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("worker error %d: %s", e.Code, e.Message)
}

// NewScanRequest builds the request for batch index.
func NewScanRequest(index int, files, words []string) Request {
	return Request{
		JSONRPC: "2.0",
		Method:  MethodScanBatch,
		Params:  ScanParams{Files: toBytes(files), Words: toBytes(words)},
		ID:      fmt.Sprintf("batch-%d", index),
	}
}

// Validate checks the envelope and method.
func (r *Request) Validate() *Error {
	if r.JSONRPC != "2.0" {
		return &Error{Code: ErrCodeInvalidRequest, Message: fmt.Sprintf("unsupported jsonrpc version %q", r.JSONRPC)}
	}
	if r.Method != MethodScanBatch {
		return &Error{Code: ErrCodeMethodNotFound, Message: fmt.Sprintf("unknown method %q", r.Method)}
	}
	return nil
}

// NewSuccessResponse creates a successful response.
func NewSuccessResponse(id string, res BatchResult) Response {
	return Response{
		JSONRPC: "2.0",
		Result:  &res,
		ID:      id,
	}
}

// Strings returns the request's files and words as Go strings, byte for byte.
func (p ScanParams) Strings() (files, words []string) {
	return fromBytes(p.Files), fromBytes(p.Words)
}

// Index converts a partial produced for files and words into positions.
func Index(partial result.Partial, files, words []string) BatchResult {
	filePos := positions(files)
	wordPos := positions(words)

	res := BatchResult{Matches: make(map[int][]int, len(partial.Matches))}
	for word, set := range partial.Matches {
		var hits []int
		for path := range set {
			hits = append(hits, filePos[path]...)
		}
		if len(hits) == 0 {
			continue
		}
		sort.Ints(hits)
		for _, wi := range wordPos[word] {
			res.Matches[wi] = hits
		}
	}
	for _, f := range partial.Failures {
		for _, fi := range filePos[f.Path] {
			res.Failures = append(res.Failures, FileFailure{File: fi, Code: f.Code, Error: f.Error})
		}
	}
	return res
}

// Resolve maps an indexed result back onto files and words. Indices out of
// range are a protocol error.
func (b BatchResult) Resolve(files, words []string) (result.Partial, error) {
	partial := result.Partial{Matches: make(result.Result)}
	for wi, hits := range b.Matches {
		if wi < 0 || wi >= len(words) {
			return result.Partial{}, fmt.Errorf("word index %d out of range", wi)
		}
		for _, fi := range hits {
			if fi < 0 || fi >= len(files) {
				return result.Partial{}, fmt.Errorf("file index %d out of range", fi)
			}
			partial.Matches.Add(words[wi], files[fi])
		}
	}
	for _, f := range b.Failures {
		if f.File < 0 || f.File >= len(files) {
			return result.Partial{}, fmt.Errorf("file index %d out of range", f.File)
		}
		partial.Failures = append(partial.Failures, result.Failure{Path: files[f.File], Code: f.Code, Error: f.Error})
	}
	return partial, nil
}

func positions(items []string) map[string][]int {
	pos := make(map[string][]int, len(items))
	for i, s := range items {
		pos[s] = append(pos[s], i)
	}
	return pos
}

func toBytes(items []string) [][]byte {
	out := make([][]byte, len(items))
	for i, s := range items {
		out[i] = []byte(s)
	}
	return out
}

func fromBytes(items [][]byte) []string {
	out := make([]string, len(items))
	for i, b := range items {
		out[i] = string(b)
	}
	return out
}

// NewErrorResponse creates an error response.
func NewErrorResponse(id string, code int, message string) Response {
	return Response{
		JSONRPC: "2.0",
		Error:   &Error{Code: code, Message: message},
		ID:      id,
	}
}
