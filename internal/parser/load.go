package parser

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/verte-zerg/runboard/internal/model"
)

// DefaultMaxBytes caps the size of a file accepted by LoadAndParse.
const DefaultMaxBytes int64 = 10 << 20

// LoadAndParse reads a CSV file and parses it. maxBytes <= 0 uses DefaultMaxBytes.
func LoadAndParse(ctx context.Context, path string, maxBytes int64) (model.Dataset, error) {
	text, err := ReadFile(ctx, path, maxBytes)
	if err != nil {
		return nil, err
	}
	return Parse(text)
}

// ReadFile reads a CSV file into memory after checking its extension and size.
func ReadFile(ctx context.Context, path string, maxBytes int64) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if !strings.EqualFold(filepath.Ext(path), ".csv") {
		return "", fmt.Errorf("%s: %w", path, ErrNotCSV)
	}
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}

	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(io.LimitReader(file, maxBytes+1))
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	if int64(len(data)) > maxBytes {
		return "", fmt.Errorf("%s exceeds %d bytes: %w", path, maxBytes, ErrTooLarge)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return string(data), nil
}
