package server

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	pngBytes  = append([]byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}, make([]byte, 16)...)
	jpegBytes = append([]byte{0xFF, 0xD8, 0xFF, 0xE0}, make([]byte, 16)...)
	gifBytes  = append([]byte("GIF89a"), make([]byte, 16)...)
)

func doUpload(t *testing.T, app *fiber.App, token string, file []byte, oldPath string) *http.Response {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	if file != nil {
		part, err := writer.CreateFormFile("image", "upload.bin")
		require.NoError(t, err)
		_, err = part.Write(file)
		require.NoError(t, err)
	}
	if oldPath != "" {
		require.NoError(t, writer.WriteField("oldPath", oldPath))
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPut, "/api/upload-image", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func TestUploadImage_RequiresAuth(t *testing.T) {
	_, app := newTestServer(t)

	resp := doUpload(t, app, "", pngBytes, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestUploadImage_StoresAcceptedTypes(t *testing.T) {
	s, app := newTestServer(t)
	_, token := registerTestUser(t, s, "uploader@example.com")

	tests := []struct {
		name    string
		content []byte
		wantExt string
	}{
		{"PNG", pngBytes, ".png"},
		{"JPEG", jpegBytes, ".jpg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := doUpload(t, app, token, tt.content, "")
			assert.Equal(t, http.StatusCreated, resp.StatusCode)

			var body struct {
				Message  string `json:"message"`
				FilePath string `json:"filePath"`
			}
			decodeBody(t, resp, &body)
			assert.NotEmpty(t, body.FilePath)
			assert.Equal(t, tt.wantExt, filepath.Ext(body.FilePath))

			stored, err := os.ReadFile(filepath.Join(s.config.UploadDir, body.FilePath))
			require.NoError(t, err)
			assert.Equal(t, tt.content, stored)
		})
	}
}

func TestUploadImage_DropsOtherTypes(t *testing.T) {
	s, app := newTestServer(t)
	_, token := registerTestUser(t, s, "uploader@example.com")

	tests := []struct {
		name    string
		content []byte
	}{
		{"GIF", gifBytes},
		{"Plain Text", []byte("definitely not an image")},
		{"Missing File", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := doUpload(t, app, token, tt.content, "")
			assert.Equal(t, http.StatusOK, resp.StatusCode, "dropped, not rejected")

			var body map[string]any
			decodeBody(t, resp, &body)
			assert.Equal(t, "No file provided", body["message"])
			assert.NotContains(t, body, "filePath")
		})
	}
}

func TestUploadImage_RemovesReplacedFile(t *testing.T) {
	s, app := newTestServer(t)
	_, token := registerTestUser(t, s, "uploader@example.com")

	first := doUpload(t, app, token, pngBytes, "")
	require.Equal(t, http.StatusCreated, first.StatusCode)
	var firstBody struct {
		FilePath string `json:"filePath"`
	}
	decodeBody(t, first, &firstBody)

	second := doUpload(t, app, token, jpegBytes, firstBody.FilePath)
	require.Equal(t, http.StatusCreated, second.StatusCode)
	var secondBody struct {
		FilePath string `json:"filePath"`
	}
	decodeBody(t, second, &secondBody)

	_, err := os.Stat(filepath.Join(s.config.UploadDir, firstBody.FilePath))
	assert.True(t, os.IsNotExist(err), "replaced file removed")
	_, err = os.Stat(filepath.Join(s.config.UploadDir, secondBody.FilePath))
	assert.NoError(t, err, "new file kept")
}

func TestUploadImage_InvalidOldPathIsNotFatal(t *testing.T) {
	s, app := newTestServer(t)
	_, token := registerTestUser(t, s, "uploader@example.com")

	resp := doUpload(t, app, token, pngBytes, "../outside/secret.png")
	var body struct {
		FilePath string `json:"filePath"`
	}
	decodeBody(t, resp, &body)

	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.NotEmpty(t, body.FilePath)
}
