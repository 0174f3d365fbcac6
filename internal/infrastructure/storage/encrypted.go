// Copyright The Callstash Authors.
// SPDX-License-Identifier: MIT

package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/klauspost/compress/gzip"

	"github.com/callstash/cc-recording-service/internal/domain"
	"github.com/callstash/cc-recording-service/internal/infrastructure/secrets"
)

// encryptedSuffix marks files stored compressed-then-encrypted.
const encryptedSuffix = ".gz.age"

// EncryptedStorage stores the same logical recordings as LocalStorage but
// gzip-compresses and age-encrypts them at rest. Files are not servable as
// static bytes; the authenticated download route decodes them through Open,
// so Plan points the public URL at that route instead of the static prefix.
type EncryptedStorage struct {
	root   string
	sealer *secrets.Sealer
}

var _ domain.RecordingStorage = (*EncryptedStorage)(nil)

// NewEncryptedStorage creates the compressed-encrypted backend.
func NewEncryptedStorage(root string, sealer *secrets.Sealer) *EncryptedStorage {
	return &EncryptedStorage{
		root:   root,
		sealer: sealer,
	}
}

// Plan computes the on-disk destination with the encrypted suffix appended
// after the audio extension, and an authenticated public path.
func (s *EncryptedStorage) Plan(startTime time.Time, engagementID, extension string) domain.RecordingLocation {
	partition, file := partitionPath(startTime, engagementID, extension)
	return domain.RecordingLocation{
		LocalPath: filepath.Join(s.root, partition, file+encryptedSuffix),
		PublicURL: "/api/recordings/" + engagementID,
	}
}

// Save gzips then encrypts the stream into the destination, with the same
// complete-or-absent guarantee as the plain backend. The returned count is
// the number of recording bytes consumed, not the on-disk size.
func (s *EncryptedStorage) Save(ctx context.Context, location domain.RecordingLocation, r io.Reader) (int64, error) {
	return atomicWrite(ctx, location.LocalPath, func(dst io.Writer) (int64, error) {
		encWriter, err := s.sealer.EncryptStream(dst)
		if err != nil {
			return 0, err
		}
		gzWriter := gzip.NewWriter(encWriter)

		n, err := io.Copy(gzWriter, r)
		if err != nil {
			return n, err
		}
		if err := gzWriter.Close(); err != nil {
			return n, fmt.Errorf("flushing gzip stream: %w", err)
		}
		if err := encWriter.Close(); err != nil {
			return n, fmt.Errorf("flushing encrypted stream: %w", err)
		}
		return n, nil
	})
}

// Open decrypts and decompresses the stored file into a plain audio stream.
func (s *EncryptedStorage) Open(_ context.Context, localPath string) (io.ReadCloser, error) {
	f, err := os.Open(localPath)
	if err != nil {
		return nil, domain.NewNotFoundError(fmt.Sprintf("recording file not found at %s", localPath), err)
	}

	decrypted, err := s.sealer.DecryptStream(f)
	if err != nil {
		_ = f.Close()
		return nil, domain.NewStorageError("decrypting stored recording", err)
	}
	gzReader, err := gzip.NewReader(decrypted)
	if err != nil {
		_ = f.Close()
		return nil, domain.NewStorageError("decompressing stored recording", err)
	}

	return &decodedFile{Reader: gzReader, file: f, gz: gzReader}, nil
}

// decodedFile closes both the gzip layer and the underlying file.
type decodedFile struct {
	io.Reader
	file *os.File
	gz   *gzip.Reader
}

func (d *decodedFile) Close() error {
	gzErr := d.gz.Close()
	if err := d.file.Close(); err != nil {
		return err
	}
	return gzErr
}
