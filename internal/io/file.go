package ioutils

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// CopyFile copies a file from source to destination.
//
// The destination is created with the source's permission bits, or truncated
// if it exists. The copy is synced before CopyFile returns so that a backup
// taken before a risky write is durable.
//
// Returns ctx.Err() without touching dst when the context is already done.
//
// Example:
//
//	err := CopyFile(ctx, "/music/Album/01.flac", "/tmp/work/backup-01.flac")
func CopyFile(ctx context.Context, src, dst string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	sourceFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer sourceFile.Close()

	info, err := sourceFile.Stat()
	if err != nil {
		return err
	}

	destFile, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}

	if _, err := io.Copy(destFile, sourceFile); err != nil {
		destFile.Close()
		return err
	}
	if err := destFile.Sync(); err != nil {
		destFile.Close()
		return err
	}
	return destFile.Close()
}

// WriteFileAtomic replaces path with data.
//
// The data is written to a temporary file in the same directory and renamed
// over path, so readers see either the old or the new content and never a
// partial write. When path already exists its permission bits are kept;
// otherwise perm is used.
//
// Example:
//
//	err := WriteFileAtomic(ctx, "/music/Album/01.flac", encoded, 0o644)
func WriteFileAtomic(ctx context.Context, path string, data []byte, perm os.FileMode) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if info, err := os.Stat(path); err == nil {
		perm = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		cleanup()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		cleanup()
		return err
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return err
	}
	if err := os.Chmod(tmpName, perm); err != nil {
		cleanup()
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		cleanup()
		return err
	}
	return nil
}

// EnsureDir creates a directory and all parent directories if they don't exist.
//
// Directories are created with mode 0755 (rwxr-xr-x).
// If the directory already exists, no error is returned.
//
// Example:
//
//	err := EnsureDir("/var/log/artnorm")
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0o755)
}
