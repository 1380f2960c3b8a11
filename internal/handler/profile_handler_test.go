package handler_test

import (
	"bytes"
	"image"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kilat-Pet-Delivery/service-pawconnect/internal/application"
)

func TestProfile_NotFoundUntilSaved(t *testing.T) {
	srv := newTestServer(t)

	w := srv.doJSON(t, http.MethodGet, "/api/v1/profile", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = srv.doJSON(t, http.MethodPut, "/api/v1/profile", map[string]any{
		"pet_name":   "Biscuit",
		"pet_breed":  "Corgi",
		"pet_age":    "3",
		"owner_name": "Sam",
		"interests":  []string{"fetch", "naps"},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	p := decode[application.ProfileDTO](t, w)
	assert.Equal(t, "Biscuit", p.PetName)
	assert.Equal(t, []string{"fetch", "naps"}, p.Interests)
}

func TestProfile_PatchAndInterests(t *testing.T) {
	srv := newTestServer(t)

	w := srv.doJSON(t, http.MethodPatch, "/api/v1/profile", map[string]any{"pet_name": "Mochi"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Mochi", decode[application.ProfileDTO](t, w).PetName)

	w = srv.doJSON(t, http.MethodPost, "/api/v1/profile/interests", map[string]any{"interest": "swimming"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, []string{"swimming"}, decode[application.ProfileDTO](t, w).Interests)

	w = srv.doJSON(t, http.MethodPut, "/api/v1/profile/interests", map[string]any{"interests": []string{"a", "b"}})
	require.Equal(t, http.StatusOK, w.Code)

	w = srv.doJSON(t, http.MethodDelete, "/api/v1/profile/interests/a", nil)
	require.Equal(t, http.StatusOK, w.Code)
	p := decode[application.ProfileDTO](t, w)
	assert.Equal(t, []string{"b"}, p.Interests)
	assert.Equal(t, "Mochi", p.PetName)
}

func TestProfileImage_UploadReplacesAndDownscales(t *testing.T) {
	srv := newTestServer(t)

	w := srv.do(t, multipartRequest(t, "/api/v1/profile/image", "me.png", pngBytes(t, 200, 100), nil))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	first := decode[application.ProfileDTO](t, w)
	require.NotEmpty(t, first.ProfileImagePath)

	w = srv.doJSON(t, http.MethodGet, "/api/v1/profile/image", nil)
	require.Equal(t, http.StatusOK, w.Code)
	cfg, format, err := image.DecodeConfig(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
	assert.Equal(t, 64, cfg.Width)
	assert.Equal(t, 32, cfg.Height)

	w = srv.do(t, multipartRequest(t, "/api/v1/profile/image", "me2.png", pngBytes(t, 10, 10), nil))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	second := decode[application.ProfileDTO](t, w)

	assert.NotEqual(t, first.ProfileImagePath, second.ProfileImagePath)
	assert.NoFileExists(t, first.ProfileImagePath)
	assert.FileExists(t, second.ProfileImagePath)
}

func TestProfileImage_GarbageIsUnprocessable(t *testing.T) {
	srv := newTestServer(t)

	w := srv.do(t, multipartRequest(t, "/api/v1/profile/image", "x.png", []byte("nope"), nil))
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	code, _ := decodeError(t, w)
	assert.Equal(t, "DECODE", code)
}

func TestClearProfile_RemovesImage(t *testing.T) {
	srv := newTestServer(t)

	w := srv.do(t, multipartRequest(t, "/api/v1/profile/image", "me.png", pngBytes(t, 8, 8), nil))
	require.Equal(t, http.StatusOK, w.Code)
	p := decode[application.ProfileDTO](t, w)

	w = srv.doJSON(t, http.MethodDelete, "/api/v1/profile", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NoFileExists(t, p.ProfileImagePath)

	w = srv.doJSON(t, http.MethodGet, "/api/v1/profile", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestStatsAndHealth(t *testing.T) {
	srv := newTestServer(t)

	require.Equal(t, http.StatusCreated, srv.doJSON(t, http.MethodPost, "/api/v1/bookmarks", map[string]any{"url": "https://x.example"}).Code)
	require.Equal(t, http.StatusOK, srv.doJSON(t, http.MethodPatch, "/api/v1/profile", map[string]any{"owner_name": "Sam"}).Code)

	stats := decode[application.StatsDTO](t, srv.doJSON(t, http.MethodGet, "/api/v1/stats", nil))
	assert.Equal(t, int64(1), stats.Bookmarks)
	assert.Zero(t, stats.Photos)
	assert.True(t, stats.HasProfile)

	w := srv.doJSON(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "healthy")
}
