// Copyright The Callstash Authors.
// SPDX-License-Identifier: MIT

package domain

import (
	"context"
	"io"
	"time"
)

// RecordingLocation is a planned destination for a recording file: the
// absolute on-disk path and the date-partitioned public path clients use to
// stream it. Both contain the same {yyyy}/{mm}/{dd}/{engagementID}{ext}
// partition segment.
type RecordingLocation struct {
	LocalPath string
	PublicURL string
}

// RecordingStorage persists recording byte streams on local disk.
// Implementations guarantee complete-or-absent: after a failed Save the
// destination path does not exist, so a record can never reference a
// partially written file.
type RecordingStorage interface {
	// Plan computes the date-partitioned destination from the recording's
	// start time. Extension comes from upstream metadata, defaulted by the
	// caller when absent.
	Plan(startTime time.Time, engagementID, extension string) RecordingLocation

	// Save streams r to the planned location, creating parent directories
	// as needed, and returns the number of recording bytes consumed.
	Save(ctx context.Context, location RecordingLocation, r io.Reader) (int64, error)

	// Open returns the decoded recording bytes for serving. For encrypted
	// backends this is the decrypt-and-decompress stream, not the raw file.
	Open(ctx context.Context, localPath string) (io.ReadCloser, error)
}
