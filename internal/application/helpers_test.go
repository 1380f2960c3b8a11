package application_test

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/abema/go-mp4"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Kilat-Pet-Delivery/service-pawconnect/internal/application"
	"github.com/Kilat-Pet-Delivery/service-pawconnect/internal/config"
	"github.com/Kilat-Pet-Delivery/service-pawconnect/internal/database"
	"github.com/Kilat-Pet-Delivery/service-pawconnect/internal/domain"
	photoDomain "github.com/Kilat-Pet-Delivery/service-pawconnect/internal/domain/photo"
	profileDomain "github.com/Kilat-Pet-Delivery/service-pawconnect/internal/domain/profile"
	"github.com/Kilat-Pet-Delivery/service-pawconnect/internal/filestore"
	"github.com/Kilat-Pet-Delivery/service-pawconnect/internal/media"
	"github.com/Kilat-Pet-Delivery/service-pawconnect/internal/repository"
)

// testEnv wires real repositories on a temporary SQLite file to a temporary
// file store.
type testEnv struct {
	db        *gorm.DB
	files     *filestore.Local
	photos    *repository.GormPhotoRepository
	videos    *repository.GormVideoRepository
	bookmarks *repository.GormBookmarkRepository
	profile   *repository.GormProfileRepository
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dir := t.TempDir()

	db, err := database.Open(config.DatabaseConfig{
		Driver: database.DriverSQLite,
		Path:   filepath.Join(dir, "paw.db"),
	}, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, repository.AutoMigrate(db))
	t.Cleanup(func() { _ = database.Close(db) })

	files, err := filestore.NewLocal(filepath.Join(dir, "media"))
	require.NoError(t, err)

	log := zap.NewNop()
	return &testEnv{
		db:        db,
		files:     files,
		photos:    repository.NewGormPhotoRepository(db, log),
		videos:    repository.NewGormVideoRepository(db, log),
		bookmarks: repository.NewGormBookmarkRepository(db, log),
		profile:   repository.NewGormProfileRepository(db, log),
	}
}

// writeSource writes data to a file outside the store and returns it as a
// source with the given media type.
func writeSource(t *testing.T, name string, data []byte, mediaType string) filestore.Source {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return filestore.FileSource{Path: path, Type: mediaType}
}

// movieSource writes a minimal mp4 whose movie header declares the given
// timescale and duration.
func movieSource(t *testing.T, timescale, duration uint32) filestore.Source {
	t.Helper()
	path := filepath.Join(t.TempDir(), "clip.mp4")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	w := mp4.NewWriter(f)
	boxes := []struct {
		info *mp4.BoxInfo
		body mp4.IImmutableBox
		end  int
	}{
		{&mp4.BoxInfo{Type: mp4.BoxTypeFtyp()}, &mp4.Ftyp{
			MajorBrand:       [4]byte{'i', 's', 'o', 'm'},
			CompatibleBrands: []mp4.CompatibleBrandElem{{CompatibleBrand: [4]byte{'m', 'p', '4', '2'}}},
		}, 1},
		{&mp4.BoxInfo{Type: mp4.BoxTypeMoov()}, nil, 0},
		{&mp4.BoxInfo{Type: mp4.BoxTypeMvhd()}, &mp4.Mvhd{
			Timescale:   timescale,
			DurationV0:  duration,
			Rate:        0x10000,
			Volume:      0x100,
			NextTrackID: 1,
		}, 2},
	}
	for _, b := range boxes {
		_, err := w.StartBox(b.info)
		require.NoError(t, err)
		if b.body != nil {
			_, err = mp4.Marshal(w, b.body, mp4.Context{})
			require.NoError(t, err)
		}
		for i := 0; i < b.end; i++ {
			_, err = w.EndBox()
			require.NoError(t, err)
		}
	}
	return filestore.FileSource{Path: path, Type: "video/mp4"}
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 90, G: 160, B: 220, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func dirEntries(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func recv[T any](t *testing.T, ch <-chan T) T {
	t.Helper()
	select {
	case v, ok := <-ch:
		require.True(t, ok, "stream closed")
		return v
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for stream value")
	}
	var zero T
	return zero
}

var errInjected = errors.New("injected failure")

// failingPhotoRepo fails every insert.
type failingPhotoRepo struct {
	photoDomain.PhotoRepository
}

func (failingPhotoRepo) Save(context.Context, *photoDomain.Photo) error {
	return domain.NewStorageError("insert photo", errInjected)
}

// failingProfileRepo fails every partial update.
type failingProfileRepo struct {
	profileDomain.ProfileRepository
}

func (failingProfileRepo) UpdateFields(context.Context, map[string]string) error {
	return domain.NewStorageError("update profile", errInjected)
}

// undeletableStore refuses to delete files.
type undeletableStore struct {
	application.MediaStore
}

func (undeletableStore) Delete(string) error {
	return domain.NewIOError("could not delete file", errInjected)
}

func newProcessor() *media.Processor {
	return media.NewProcessor(800, 85)
}
