// Copyright The Callstash Authors.
// SPDX-License-Identifier: MIT

// Package storage persists recording byte streams on local disk under a
// date-partitioned layout.
package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/callstash/cc-recording-service/internal/domain"
)

// DefaultExtension is used when upstream metadata carries no file extension.
const DefaultExtension = ".mp3"

// LocalStorage writes recordings as plain files under root, partitioned by
// the recording's start date: {root}/{yyyy}/{mm}/{dd}/{engagementID}{ext}.
type LocalStorage struct {
	root         string
	publicPrefix string
}

var _ domain.RecordingStorage = (*LocalStorage)(nil)

// NewLocalStorage creates a local storage backend. publicPrefix is the URL
// path prefix the HTTP layer serves the same partition tree under.
func NewLocalStorage(root, publicPrefix string) *LocalStorage {
	return &LocalStorage{
		root:         root,
		publicPrefix: publicPrefix,
	}
}

// Plan computes the date-partitioned destination for a recording.
func (s *LocalStorage) Plan(startTime time.Time, engagementID, extension string) domain.RecordingLocation {
	partition, file := partitionPath(startTime, engagementID, extension)
	return domain.RecordingLocation{
		LocalPath: filepath.Join(s.root, partition, file),
		PublicURL: path.Join("/", s.publicPrefix, partition, file),
	}
}

// Save streams r into the planned location. The bytes go to a temp file in
// the destination directory first and are renamed into place only after a
// clean copy, so the destination is complete or absent.
func (s *LocalStorage) Save(ctx context.Context, location domain.RecordingLocation, r io.Reader) (int64, error) {
	return atomicWrite(ctx, location.LocalPath, func(dst io.Writer) (int64, error) {
		return io.Copy(dst, r)
	})
}

// Open returns the raw file bytes.
func (s *LocalStorage) Open(_ context.Context, localPath string) (io.ReadCloser, error) {
	f, err := os.Open(localPath)
	if err != nil {
		return nil, domain.NewNotFoundError(fmt.Sprintf("recording file not found at %s", localPath), err)
	}
	return f, nil
}

// partitionPath builds the {yyyy}/{mm}/{dd} partition segment and file name.
func partitionPath(startTime time.Time, engagementID, extension string) (partition, file string) {
	if extension == "" {
		extension = DefaultExtension
	}
	if !strings.HasPrefix(extension, ".") {
		extension = "." + extension
	}

	t := startTime.UTC()
	partition = fmt.Sprintf("%04d/%02d/%02d", t.Year(), int(t.Month()), t.Day())
	file = engagementID + extension
	return partition, file
}

// atomicWrite copies into a temp file next to dest and renames it into
// place. Any failure removes the temp file and leaves dest untouched.
func atomicWrite(ctx context.Context, dest string, write func(io.Writer) (int64, error)) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, domain.NewStorageError("recording write canceled", err)
	}

	dir := filepath.Dir(dest)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, domain.NewStorageError(fmt.Sprintf("creating recording directory %s", dir), err)
	}

	tmp, err := os.CreateTemp(dir, ".partial-*")
	if err != nil {
		return 0, domain.NewStorageError("creating temp recording file", err)
	}
	tmpName := tmp.Name()

	n, err := write(tmp)
	if err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return 0, domain.NewStorageError("writing recording stream", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return 0, domain.NewStorageError("closing temp recording file", err)
	}

	if err := os.Rename(tmpName, dest); err != nil {
		_ = os.Remove(tmpName)
		return 0, domain.NewStorageError(fmt.Sprintf("moving recording into place at %s", dest), err)
	}
	return n, nil
}
