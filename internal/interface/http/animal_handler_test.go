package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/pet-adoption-api/internal/application"
	"github.com/oksasatya/pet-adoption-api/internal/domain/entity"
	"github.com/oksasatya/pet-adoption-api/internal/infrastructure/memory"
	"github.com/oksasatya/pet-adoption-api/pkg/helpers"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

type memImages struct{ objects map[string]int }

func (m *memImages) Upload(_ context.Context, objectPath, _ string, r io.Reader) (string, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	m.objects[objectPath] = len(b)
	return "https://cdn.example.org/" + objectPath, nil
}

func newAnimalRouter(t *testing.T, images application.ImageStore) (*gin.Engine, int64) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := memory.NewStore()
	a := &entity.Animal{
		Name: "Rex", Species: "Dog", Age: "1 year", Size: "Small", Temperament: "calm",
		City: "Recife", Status: entity.AnimalAvailable, Description: "d", History: "h",
	}
	require.NoError(t, store.Repos().Animals.Create(context.Background(), a))

	log := helpers.NewNopLogger()
	h := NewAnimalHandler(application.NewAnimalService(store, images, nil, log), log)
	r := gin.New()
	r.GET("/animals/:id", h.Get)
	r.POST("/animals/:id/image", h.UploadImage)
	return r, a.ID
}

func upload(t *testing.T, r http.Handler, path string, field string, content []byte) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if content != nil {
		fw, err := mw.CreateFormFile(field, "photo.bin")
		require.NoError(t, err)
		_, err = fw.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestUploadImageStoresSniffedPNG(t *testing.T) {
	images := &memImages{objects: map[string]int{}}
	r, id := newAnimalRouter(t, images)

	w := upload(t, r, "/animals/1/image", "image", append(pngHeader, make([]byte, 100)...))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.Equal(t, int64(1), id)

	var env struct {
		Data struct {
			Image string `json:"image"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.Regexp(t, `^https://cdn\.example\.org/animals/1/[0-9a-f-]{36}\.png$`, env.Data.Image)
	require.Len(t, images.objects, 1)
	for _, size := range images.objects {
		assert.Equal(t, len(pngHeader)+100, size, "sniffed bytes must reach the store")
	}
}

func TestUploadImageRejections(t *testing.T) {
	r, _ := newAnimalRouter(t, &memImages{objects: map[string]int{}})

	w := upload(t, r, "/animals/1/image", "image", []byte("just some text, not a picture"))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = upload(t, r, "/animals/1/image", "photo", pngHeader)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = upload(t, r, "/animals/1/image", "image", append(pngHeader, make([]byte, MaxImageBytes)...))
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)

	w = upload(t, r, "/animals/99/image", "image", pngHeader)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = upload(t, r, "/animals/abc/image", "image", pngHeader)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUploadImageWithoutStoreHidesDetails(t *testing.T) {
	r, _ := newAnimalRouter(t, nil)

	w := upload(t, r, "/animals/1/image", "image", pngHeader)
	require.Equal(t, http.StatusInternalServerError, w.Code)

	var env struct {
		Success bool            `json:"success"`
		Message string          `json:"message"`
		Data    json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.False(t, env.Success)
	assert.Equal(t, "internal server error", env.Message)
	assert.Equal(t, "null", string(env.Data))
}
