// Package export serializes a computed projection into Excel and Word
// documents. It consumes the immutable ProjectionResult snapshot only; it
// never recomputes and never touches the engine.
package export

import (
	"fmt"
	"os"
	"path/filepath"
)

// Content types for HTTP responses.
const (
	ExcelContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	WordContentType  = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// ExportError reports a failed document build or write. The operation is
// retryable; a previously written export is never corrupted.
type ExportError struct {
	Format string
	Err    error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("%s export failed: %v", e.Format, e.Err)
}

func (e *ExportError) Unwrap() error {
	return e.Err
}

// WriteFile writes an exported document atomically: the bytes go to a
// temporary file first and replace the target with a rename, so a failure
// part-way never truncates an earlier successful export.
func WriteFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return &ExportError{Format: "file", Err: err}
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return &ExportError{Format: "file", Err: err}
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return &ExportError{Format: "file", Err: err}
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return &ExportError{Format: "file", Err: err}
	}
	return nil
}
