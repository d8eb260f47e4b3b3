package corpus

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"regexp"
	"slices"
	"strings"
	"time"

	scanerrors "github.com/Aman-CERP/wordscan/internal/errors"
)

// maxSourceSize caps how much of a word list source is read.
const maxSourceSize = 64 << 20

var wordPattern = regexp.MustCompile(`[a-z]+`)

// ExtractWords returns the distinct lowercase [a-z]+ tokens of text, sorted
// so that a seeded generator sees the same vocabulary order every time.
func ExtractWords(text string) []string {
	tokens := wordPattern.FindAllString(strings.ToLower(text), -1)
	slices.Sort(tokens)
	return slices.Compact(tokens)
}

// LoadWords reads source (an http(s) URL or a local file path) and extracts
// its vocabulary. Network failures are retried per retry.
func LoadWords(ctx context.Context, source string, client *http.Client, retry scanerrors.RetryConfig) ([]string, error) {
	var (
		text string
		err  error
	)
	if isURL(source) {
		text, err = scanerrors.RetryWithResult(ctx, retry, func() (string, error) {
			return fetch(ctx, client, source)
		})
	} else {
		text, err = readFile(source)
	}
	if err != nil {
		return nil, err
	}

	words := ExtractWords(text)
	if len(words) == 0 {
		return nil, scanerrors.ValidationError(fmt.Sprintf("word list source %s contains no words", source), nil)
	}
	return words, nil
}

func isURL(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

func fetch(ctx context.Context, client *http.Client, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", scanerrors.ValidationError(fmt.Sprintf("invalid word list URL %s", url), err)
	}
	req.Header.Set("User-Agent", "wordscan/1.0")

	resp, err := client.Do(req)
	if err != nil {
		return "", scanerrors.NetworkError(fmt.Sprintf("failed to fetch %s", url), err).
			WithSuggestion("Check your connection or pass --source with a local file")
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests:
		return "", scanerrors.NetworkError(fmt.Sprintf("fetch %s: %s", url, resp.Status), nil)
	default:
		return "", scanerrors.ValidationError(fmt.Sprintf("fetch %s: %s", url, resp.Status), nil)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxSourceSize))
	if err != nil {
		return "", scanerrors.NetworkError(fmt.Sprintf("failed to read %s", url), err)
	}
	return string(body), nil
}

func readFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", scanerrors.FileError(path, err)
	}
	defer func() { _ = f.Close() }()

	body, err := io.ReadAll(io.LimitReader(f, maxSourceSize))
	if err != nil {
		return "", scanerrors.FileError(path, err)
	}
	return string(body), nil
}

// defaultClient returns the client used when Options.Client is nil.
func defaultClient(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout}
}
