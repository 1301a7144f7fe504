// Package storage keeps exported report files, either on local disk or in S3.
package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// ReportSink stores a finished export under key and returns where it can be fetched from.
type ReportSink interface {
	Put(ctx context.Context, key, contentType string, data []byte) (string, error)
}

// DirSink writes exports below a local directory.
type DirSink struct {
	root string
}

func NewDirSink(root string) *DirSink {
	return &DirSink{root: root}
}

func (s *DirSink) Put(_ context.Context, key, _ string, data []byte) (string, error) {
	path := filepath.Join(s.root, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write export: %w", err)
	}
	return path, nil
}
