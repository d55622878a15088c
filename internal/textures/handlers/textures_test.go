package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gofiber/fiber/v3"
	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"planviewer/internal/textures/models"
	"planviewer/internal/textures/repository"
	"planviewer/internal/textures/service"
)

func newApp(t *testing.T) *fiber.App {
	t.Helper()

	dir := t.TempDir()
	db, err := repository.OpenSQLite(filepath.Join(dir, "textures.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := repository.New(db)
	require.NoError(t, repo.Init(context.Background()))

	svc := service.NewTextures(repo, service.NewFileStorage(filepath.Join(dir, "static")), service.NewCatalog("/static"))
	app := fiber.New()
	NewTextureHandler(svc).Register(app)
	return app
}

func upload(t *testing.T, app *fiber.App, handle, filename string, data []byte) (int, models.Texture) {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	require.NoError(t, w.WriteField("handle", handle))
	part, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/textures", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var tex models.Texture
	if resp.StatusCode < 300 {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&tex))
	}
	return resp.StatusCode, tex
}

func TestUploadAndList(t *testing.T) {
	app := newApp(t)

	status, tex := upload(t, app, "parquet", "parquet.jpg", []byte("jpg"))
	require.Equal(t, 201, status)
	assert.Equal(t, "/static/textures/parquet.jpg", tex.URL)

	status, again := upload(t, app, "parquet", "other.png", []byte("png"))
	assert.Equal(t, 200, status)
	assert.Equal(t, tex.ID, again.ID)

	status, _ = upload(t, app, "Bad Handle", "x.png", []byte("png"))
	assert.Equal(t, 400, status)

	resp, err := app.Test(httptest.NewRequest("GET", "/textures", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	var list []models.Texture
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
	require.Len(t, list, 1)
	assert.Equal(t, "parquet", list[0].Handle)
	assert.Equal(t, tex.URL, list[0].URL)
}

func TestUploadWithoutFile(t *testing.T) {
	app := newApp(t)

	resp, err := app.Test(httptest.NewRequest("POST", "/textures", nil))
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)
}
