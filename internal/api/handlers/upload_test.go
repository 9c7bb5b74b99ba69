package handlers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uploadRequest(t *testing.T, filename, mime string, content []byte) *http.Request {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="image"; filename="`+filename+`"`)
	header.Set("Content-Type", mime)

	part, err := writer.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/upload", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func newUploadRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	handler := NewUploadHandler(logrus.New())
	router.POST("/api/upload", handler.HandleUpload)
	return router
}

func TestHandleUpload_AcceptsImage(t *testing.T) {
	router := newUploadRouter()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, uploadRequest(t, "shot.png", "image/png", []byte("fakepng")))

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool          `json:"success"`
		Data    UploadPreview `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "shot.png", resp.Data.Name)
	assert.Equal(t, "image/png", resp.Data.Mime)
	assert.Equal(t, int64(7), resp.Data.Size)
}

func TestHandleUpload_RejectsUnsupportedType(t *testing.T) {
	router := newUploadRouter()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, uploadRequest(t, "doc.pdf", "application/pdf", []byte("%PDF-")))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleUpload_MissingFile(t *testing.T) {
	router := newUploadRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/upload", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
