// Copyright The Callstash Authors.
// SPDX-License-Identifier: MIT

package secrets

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSealer_RoundTrip(t *testing.T) {
	sealer, err := NewSealer("test-passphrase")
	require.NoError(t, err)

	tests := []struct {
		name      string
		plaintext string
	}{
		{name: "client id", plaintext: "abc123-client-id"},
		{name: "empty string", plaintext: ""},
		{name: "unicode", plaintext: "sécrét-ßtring"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sealed, err := sealer.SealString(tt.plaintext)
			require.NoError(t, err)
			assert.NotEqual(t, tt.plaintext, sealed)

			opened, err := sealer.OpenString(sealed)
			require.NoError(t, err)
			assert.Equal(t, tt.plaintext, opened)
		})
	}
}

func TestSealer_WrongPassphrase(t *testing.T) {
	sealer, err := NewSealer("correct-passphrase")
	require.NoError(t, err)

	sealed, err := sealer.SealString("secret")
	require.NoError(t, err)

	other, err := NewSealer("wrong-passphrase")
	require.NoError(t, err)

	_, err = other.OpenString(sealed)
	assert.Error(t, err)
}

func TestSealer_EmptyPassphraseRejected(t *testing.T) {
	_, err := NewSealer("")
	assert.Error(t, err)
}

func TestSealer_StreamRoundTrip(t *testing.T) {
	sealer, err := NewSealer("stream-passphrase")
	require.NoError(t, err)

	payload := bytes.Repeat([]byte("audio-bytes-"), 4096)

	var sealed bytes.Buffer
	w, err := sealer.EncryptStream(&sealed)
	require.NoError(t, err)
	_, err = w.Write(payload)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	r, err := sealer.DecryptStream(&sealed)
	require.NoError(t, err)
	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}
