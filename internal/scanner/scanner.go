// Package scanner lists the files a scan will read.
// It validates the input directory and applies include/exclude patterns,
// returning paths in a stable order so batching is reproducible.
package scanner

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	scanerrors "github.com/Aman-CERP/wordscan/internal/errors"
)

// Options configures a listing.
type Options struct {
	// Dir is the directory to list.
	Dir string

	// Recursive descends into subdirectories (default: top level only).
	Recursive bool

	// Include keeps only files whose base name matches one of these globs (empty = all).
	Include []string

	// Exclude drops files whose base name matches one of these globs.
	Exclude []string

	// MaxFileSize skips files larger than this many bytes (0 = unlimited).
	MaxFileSize int64

	// FollowSymlinks lists symlinks that resolve to regular files.
	FollowSymlinks bool
}

// List returns the regular files in opts.Dir, sorted by path.
func List(ctx context.Context, opts Options) ([]string, error) {
	if err := validatePatterns(opts.Include, opts.Exclude); err != nil {
		return nil, err
	}

	info, err := os.Stat(opts.Dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, scanerrors.New(scanerrors.ErrCodeFileNotFound,
				fmt.Sprintf("input directory %s does not exist", opts.Dir), err).
				WithDetail("path", opts.Dir).
				WithSuggestion("Create it with 'wordscan gen -o " + opts.Dir + "' or pass an existing directory with -i")
		}
		return nil, scanerrors.FileError(opts.Dir, err)
	}
	if !info.IsDir() {
		return nil, scanerrors.New(scanerrors.ErrCodeInvalidPath,
			fmt.Sprintf("%s is not a directory", opts.Dir), nil).WithDetail("path", opts.Dir)
	}

	// WalkDir does not descend into a symlinked root, so walk its target and
	// report paths under the name the caller gave.
	root, err := filepath.EvalSymlinks(opts.Dir)
	if err != nil {
		return nil, scanerrors.FileError(opts.Dir, err)
	}

	var files []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err != nil {
			if path == root {
				return err
			}
			slog.Debug("skipping unreadable entry", slog.String("path", path), slog.String("error", err.Error()))
			return nil
		}

		if d.IsDir() {
			if path != root && !opts.Recursive {
				return filepath.SkipDir
			}
			return nil
		}

		if keep, err := keepFile(path, d, opts); err != nil || !keep {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		files = append(files, filepath.Join(opts.Dir, rel))
		return nil
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, scanerrors.FileError(opts.Dir, err)
	}

	if len(files) == 0 {
		return nil, scanerrors.New(scanerrors.ErrCodeNoFiles,
			fmt.Sprintf("no files to scan in %s", opts.Dir), nil).
			WithDetail("path", opts.Dir).
			WithSuggestion("Check --include/--exclude patterns or use --recursive")
	}

	sort.Strings(files)
	return files, nil
}

// keepFile reports whether a non-directory entry belongs in the listing.
func keepFile(path string, d fs.DirEntry, opts Options) (bool, error) {
	mode := d.Type()
	if mode&fs.ModeSymlink != 0 {
		if !opts.FollowSymlinks {
			return false, nil
		}
		target, err := os.Stat(path)
		if err != nil {
			return false, err
		}
		mode = target.Mode().Type()
	}
	if !mode.IsRegular() {
		return false, nil
	}

	name := d.Name()
	if len(opts.Include) > 0 && !matchesAny(name, opts.Include) {
		return false, nil
	}
	if matchesAny(name, opts.Exclude) {
		return false, nil
	}

	if opts.MaxFileSize > 0 {
		info, err := os.Stat(path)
		if err != nil {
			return false, err
		}
		if info.Size() > opts.MaxFileSize {
			slog.Debug("skipping large file",
				slog.String("path", path),
				slog.Int64("size", info.Size()),
				slog.Int64("max", opts.MaxFileSize))
			return false, nil
		}
	}
	return true, nil
}

// matchesAny checks a base name against glob patterns.
func matchesAny(name string, patterns []string) bool {
	for _, pattern := range patterns {
		// Patterns are validated up front, so Match cannot fail here.
		if ok, _ := filepath.Match(pattern, name); ok {
			return true
		}
	}
	return false
}

func validatePatterns(groups ...[]string) error {
	for _, patterns := range groups {
		for _, p := range patterns {
			if _, err := filepath.Match(p, ""); err != nil {
				return scanerrors.ValidationError(fmt.Sprintf("invalid pattern %q", p), err)
			}
		}
	}
	return nil
}
