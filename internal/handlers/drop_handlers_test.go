package handlers

import (
	"bytes"
	"mime/multipart"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadPhoto(t *testing.T) {
	photo := []byte("fake-jpeg-bytes")

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("photo", "drop.jpg")
	require.NoError(t, err)
	_, err = part.Write(photo)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest("POST", "/api/drops/submit", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	url, err := readPhoto(req)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "data:"))
	assert.Contains(t, url, ";base64,")
}

func TestReadPhotoRejectsOversizedUpload(t *testing.T) {
	// One byte over the cap must be refused, not truncated into a corrupt image
	photo := bytes.Repeat([]byte("x"), maxPhotoBytes+1)

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("photo", "drop.jpg")
	require.NoError(t, err)
	_, err = part.Write(photo)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest("POST", "/api/drops/submit", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	_, err = readPhoto(req)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds")
}

func TestReadPhotoMissingFile(t *testing.T) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	require.NoError(t, writer.WriteField("binId", "ECO-001"))
	require.NoError(t, writer.Close())

	req := httptest.NewRequest("POST", "/api/drops/submit", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	_, err := readPhoto(req)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required")
}
