package handler_test

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Kilat-Pet-Delivery/service-pawconnect/internal/application"
	"github.com/Kilat-Pet-Delivery/service-pawconnect/internal/config"
	"github.com/Kilat-Pet-Delivery/service-pawconnect/internal/database"
	"github.com/Kilat-Pet-Delivery/service-pawconnect/internal/filestore"
	"github.com/Kilat-Pet-Delivery/service-pawconnect/internal/handler"
	"github.com/Kilat-Pet-Delivery/service-pawconnect/internal/media"
	"github.com/Kilat-Pet-Delivery/service-pawconnect/internal/middleware"
	"github.com/Kilat-Pet-Delivery/service-pawconnect/internal/repository"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testServer struct {
	router *gin.Engine
	db     *gorm.DB
	files  *filestore.Local
	dir    string
}

// newTestServer wires every handler against a temporary SQLite file and
// file store, the same way the server binary does.
func newTestServer(t *testing.T) *testServer {
	t.Helper()
	dir := t.TempDir()
	log := zap.NewNop()

	db, err := database.Open(config.DatabaseConfig{
		Driver: database.DriverSQLite,
		Path:   filepath.Join(dir, "paw.db"),
	}, log)
	require.NoError(t, err)
	require.NoError(t, database.RunMigrations(t.Context(), db, log))

	files, err := filestore.NewLocal(filepath.Join(dir, "media"))
	require.NoError(t, err)

	photoRepo := repository.NewGormPhotoRepository(db, log)
	videoRepo := repository.NewGormVideoRepository(db, log)
	bookmarkRepo := repository.NewGormBookmarkRepository(db, log)
	profileRepo := repository.NewGormProfileRepository(db, log)
	t.Cleanup(func() {
		photoRepo.Close()
		videoRepo.Close()
		bookmarkRepo.Close()
		profileRepo.Close()
		_ = database.Close(db)
	})

	probe := func(string) (string, error) { return "00:07", nil }

	router := gin.New()
	router.Use(middleware.RecoveryMiddleware(log), middleware.RequestIDMiddleware())

	handler.NewHealthHandler(db, "service-pawconnect").RegisterRoutes(router)
	api := router.Group("")
	handler.NewPhotoHandler(application.NewPhotoService(photoRepo, files, log)).RegisterRoutes(api)
	handler.NewVideoHandler(application.NewVideoService(videoRepo, files, probe, log)).RegisterRoutes(api)
	handler.NewBookmarkHandler(application.NewBookmarkService(bookmarkRepo, log)).RegisterRoutes(api)
	handler.NewProfileHandler(application.NewProfileService(profileRepo, files, media.NewProcessor(64, 80), log)).RegisterRoutes(api)
	handler.NewStatsHandler(application.NewLibraryService(photoRepo, videoRepo, bookmarkRepo, profileRepo)).RegisterRoutes(api)

	return &testServer{router: router, db: db, files: files, dir: dir}
}

func (s *testServer) do(t *testing.T, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *testServer) doJSON(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return s.do(t, req)
}

// envelope mirrors response.Envelope with Data left raw for decoding.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	require.True(t, env.Success, w.Body.String())
	var out T
	require.NoError(t, json.Unmarshal(env.Data, &out))
	return out
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) (string, string) {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	require.False(t, env.Success)
	require.NotNil(t, env.Error)
	return env.Error.Code, env.Error.Message
}

// multipartRequest builds a POST with a "file" part and extra form fields.
func multipartRequest(t *testing.T, path, filename string, content []byte, fields map[string]string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	part, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 30, G: 140, B: 220, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}
