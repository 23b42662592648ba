package controller

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	apperrors "github.com/prostore/prostore-backend/internal/errors"
	"github.com/prostore/prostore-backend/internal/storage"
	"github.com/stretchr/testify/assert"
)

type fakeImageStorage struct {
	err error
}

func (f *fakeImageStorage) PresignProductImage(_ context.Context, filename, contentType string) (*storage.PresignedUpload, error) {
	if f.err != nil {
		return nil, f.err
	}
	if !strings.HasPrefix(contentType, "image/") {
		return nil, storage.ErrUnsupportedContentType
	}
	key := storage.ProductImageFolder + "/" + filename
	return &storage.PresignedUpload{
		UploadURL: "https://bucket.example.com/" + key + "?X-Amz-Signature=abc",
		FileURL:   "https://cdn.example.com/" + key,
		Key:       key,
	}, nil
}

func TestUploadController_GeneratePresignedURL(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name   string
		store  *fakeImageStorage
		body   string
		status int
		code   string
	}{
		{"image", &fakeImageStorage{}, `{"filename":"shirt.png","content_type":"image/png"}`, http.StatusOK, ""},
		{"not an image", &fakeImageStorage{}, `{"filename":"a.pdf","content_type":"application/pdf"}`, http.StatusBadRequest, apperrors.UploadInvalidFileType},
		{"missing fields", &fakeImageStorage{}, `{"filename":"a.png"}`, http.StatusBadRequest, apperrors.ValidationInvalidInput},
		{"bucket failure", &fakeImageStorage{err: errors.New("boom")}, `{"filename":"a.png","content_type":"image/png"}`, http.StatusInternalServerError, apperrors.UploadFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.POST("/upload", NewUploadController(tt.store).GeneratePresignedURL)

			req := httptest.NewRequest(http.MethodPost, "/upload", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
			if tt.code == "" {
				var upload storage.PresignedUpload
				decode(t, w, &upload)
				assert.Equal(t, "products/shirt.png", upload.Key)
				assert.Equal(t, "https://cdn.example.com/products/shirt.png", upload.FileURL)
				return
			}

			var body apperrors.ErrorResponse
			decode(t, w, &body)
			assert.Equal(t, tt.code, body.Error)
		})
	}
}
