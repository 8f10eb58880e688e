// Package batch resolves build order files and runs a validator over each of them.
package batch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/jonathan/buildorder-validator/internal/types"
	"golang.org/x/sync/errgroup"
)

// CheckFunc validates the content of one syntactically valid JSON file
type CheckFunc func(file string, content []byte) types.ValidationResult

// ErrNoFiles is returned when nothing matched the requested inputs
var ErrNoFiles = errors.New("no JSON files found to validate")

// ResolveFiles returns the files named on the command line, or every *.json
// file directly inside directory when it is set. The directory is not walked recursively.
func ResolveFiles(args []string, directory string) ([]string, error) {
	if directory == "" {
		if len(args) == 0 {
			return nil, ErrNoFiles
		}
		return append([]string(nil), args...), nil
	}
	if len(args) > 0 {
		return nil, fmt.Errorf("--directory cannot be combined with file arguments")
	}

	matches, err := filepath.Glob(filepath.Join(directory, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", directory, err)
	}

	files := make([]string, 0, len(matches))
	for _, m := range matches {
		info, err := os.Stat(m)
		if err == nil && info.IsDir() {
			continue
		}
		files = append(files, m)
	}
	sort.Strings(files)

	if len(files) == 0 {
		return nil, ErrNoFiles
	}
	return files, nil
}

// LoadFile reads a file and checks that it holds well-formed JSON.
// It returns a *FileReadError or *ParseError on failure.
func LoadFile(path string) ([]byte, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, &FileReadError{
			Path:     path,
			NotFound: errors.Is(err, fs.ErrNotExist),
			Cause:    err,
		}
	}

	var probe interface{}
	if err := json.Unmarshal(content, &probe); err != nil {
		parseErr := &ParseError{Path: path, Cause: err}
		var syntaxErr *json.SyntaxError
		if errors.As(err, &syntaxErr) {
			parseErr.Line, parseErr.Column = position(content, syntaxErr.Offset)
		}
		return nil, parseErr
	}
	return content, nil
}

// position converts a json.SyntaxError offset into the 1-based line and column
// of the offending byte. The offset counts bytes read, including that byte.
func position(content []byte, offset int64) (int, int) {
	idx := int(offset) - 1
	if idx < 0 {
		idx = 0
	}
	if idx > len(content) {
		idx = len(content)
	}
	before := content[:idx]
	line := bytes.Count(before, []byte("\n")) + 1
	column := idx - bytes.LastIndexByte(before, '\n')
	return line, column
}

// CheckFile loads one file and validates it. Read and parse failures become
// a single file-level error in the result.
func CheckFile(path string, check CheckFunc) types.ValidationResult {
	content, err := LoadFile(path)
	if err != nil {
		return types.FileError(path, err.Error())
	}
	return check(path, content)
}

// Run validates every file and returns the results in input order.
// Files are independent, so up to workers of them are checked concurrently;
// a failing file never stops the others.
func Run(ctx context.Context, files []string, check CheckFunc, workers int) ([]types.ValidationResult, error) {
	results := make([]types.ValidationResult, len(files))
	if workers < 1 {
		workers = 1
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, file := range files {
		i, file := i, file
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			results[i] = CheckFile(file, check)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// AllValid reports whether every result is clean. With strict set, warnings count as failures.
func AllValid(results []types.ValidationResult, strict bool) bool {
	for _, r := range results {
		if !r.Clean(strict) {
			return false
		}
	}
	return true
}
