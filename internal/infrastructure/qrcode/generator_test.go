package qrcode

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngMagic = []byte{0x89, 'P', 'N', 'G'}

type memoryStore struct {
	key string
	png []byte
	err error
}

func (m *memoryStore) PutPNG(_ context.Context, key string, png []byte) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	m.key, m.png = key, png
	return "http://minio:9000/qr/" + key, nil
}

func TestGenerateDataURL(t *testing.T) {
	gen := NewGenerator("http://localhost:3000/", nil)

	code, err := gen.Generate(context.Background(), "65f0c0ffee")
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:3000/feedback/65f0c0ffee", code.FeedbackURL)
	require.True(t, strings.HasPrefix(code.ImageURL, "data:image/png;base64,"))
	png, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(code.ImageURL, "data:image/png;base64,"))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, pngMagic))
}

func TestGenerateUploadsToStore(t *testing.T) {
	store := &memoryStore{}
	gen := NewGenerator("https://reviews.example.com", store)

	code, err := gen.Generate(context.Background(), "abc")
	require.NoError(t, err)
	assert.Equal(t, "qrcodes/abc.png", store.key)
	assert.True(t, bytes.HasPrefix(store.png, pngMagic))
	assert.Equal(t, "http://minio:9000/qr/qrcodes/abc.png", code.ImageURL)
}

func TestGenerateErrors(t *testing.T) {
	_, err := NewGenerator("http://x", nil).Generate(context.Background(), " ")
	assert.Error(t, err)

	_, err = NewGenerator("http://x", &memoryStore{err: errors.New("bucket gone")}).Generate(context.Background(), "abc")
	assert.Error(t, err)
}
