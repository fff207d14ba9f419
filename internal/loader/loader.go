// Package loader reads the raw text inputs — count tables and
// annotation — from local files or stdin.
//
// The pipeline tolerates any subset of its inputs being absent, so the
// optional entry point degrades a missing or unreadable file to "not
// loaded" instead of failing the command.
package loader

import (
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
)

// ReadFile returns the text content of path, transparently
// decompressing gzip input detected by magic bytes. "-" reads stdin.
func ReadFile(path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}

	// Gzip magic number (0x1f, 0x8b).
	if len(data) >= 2 && data[0] == 0x1f && data[1] == 0x8b {
		gz, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return "", fmt.Errorf("open gzip reader for %s: %w", path, err)
		}
		defer gz.Close()
		plain, err := io.ReadAll(gz)
		if err != nil {
			return "", fmt.Errorf("decompress %s: %w", path, err)
		}
		return string(plain), nil
	}

	return string(data), nil
}

// ReadOptional returns the content of path, or "" when path is empty
// or the file cannot be read. Failures are logged, not propagated.
func ReadOptional(path string, logger *zap.Logger) string {
	if path == "" {
		return ""
	}
	text, err := ReadFile(path)
	if err != nil {
		logger.Warn("input not loaded", zap.String("path", path), zap.Error(err))
		return ""
	}
	return text
}
