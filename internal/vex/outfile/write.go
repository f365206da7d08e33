// Package outfile writes generated sources.
package outfile

import (
	"bytes"
	"os"
)

// Write writes src to outPath, overwriting any existing file. An unchanged
// file is left untouched so watch mode does not churn mtimes.
func Write(outPath string, src []byte) error {
	if old, err := os.ReadFile(outPath); err == nil && bytes.Equal(old, src) {
		return nil
	}
	return os.WriteFile(outPath, src, 0o644)
}
