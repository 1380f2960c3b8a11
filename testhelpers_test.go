//go:build integration

package main_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Kilat-Pet-Delivery/service-pawconnect/internal/application"
	"github.com/Kilat-Pet-Delivery/service-pawconnect/internal/config"
	"github.com/Kilat-Pet-Delivery/service-pawconnect/internal/database"
	"github.com/Kilat-Pet-Delivery/service-pawconnect/internal/filestore"
	"github.com/Kilat-Pet-Delivery/service-pawconnect/internal/media"
	"github.com/Kilat-Pet-Delivery/service-pawconnect/internal/repository"
)

// testInfra holds shared test infrastructure.
type testInfra struct {
	DB      *gorm.DB
	Cleanup func()
}

// pawStack holds wired-up PawConnect components.
type pawStack struct {
	Files     *filestore.Local
	Photos    *application.PhotoService
	Videos    *application.VideoService
	Bookmarks *application.BookmarkService
	Profile   *application.ProfileService
	Library   *application.LibraryService
	Close     func()
}

// setupContainers starts a PostgreSQL testcontainer, connects to it and
// applies the embedded SQL migrations.
func setupContainers(t *testing.T) *testInfra {
	t.Helper()
	ctx := context.Background()

	pgReq := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "test_pawconnect",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}
	pgContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: pgReq,
		Started:          true,
	})
	require.NoError(t, err, "failed to start PostgreSQL container")

	pgHost, err := pgContainer.Host(ctx)
	require.NoError(t, err)
	pgPort, err := pgContainer.MappedPort(ctx, "5432")
	require.NoError(t, err)

	dbCfg := config.DatabaseConfig{
		Driver:   database.DriverPostgres,
		Host:     pgHost,
		Port:     pgPort.Port(),
		User:     "test",
		Password: "test",
		DBName:   "test_pawconnect",
		SSLMode:  "disable",
	}

	// Poll until GORM can actually connect and ping.
	var db *gorm.DB
	require.Eventually(t, func() bool {
		var err error
		db, err = database.Open(dbCfg, zap.NewNop())
		return err == nil
	}, 30*time.Second, 1*time.Second, "PostgreSQL not ready for connections")

	require.NoError(t, database.RunMigrations(ctx, db, zap.NewNop()))

	cleanup := func() {
		_ = database.Close(db)
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate PostgreSQL container: %v", err)
		}
	}

	return &testInfra{DB: db, Cleanup: cleanup}
}

// setupPawStack wires repositories and services on db with a temporary
// media root.
func setupPawStack(t *testing.T, db *gorm.DB) *pawStack {
	t.Helper()
	logger, _ := zap.NewDevelopment()

	files, err := filestore.NewLocal(t.TempDir())
	require.NoError(t, err)

	photoRepo := repository.NewGormPhotoRepository(db, logger)
	videoRepo := repository.NewGormVideoRepository(db, logger)
	bookmarkRepo := repository.NewGormBookmarkRepository(db, logger)
	profileRepo := repository.NewGormProfileRepository(db, logger)

	return &pawStack{
		Files:     files,
		Photos:    application.NewPhotoService(photoRepo, files, logger),
		Videos:    application.NewVideoService(videoRepo, files, media.DurationLabel, logger),
		Bookmarks: application.NewBookmarkService(bookmarkRepo, logger),
		Profile:   application.NewProfileService(profileRepo, files, media.NewProcessor(0, 0), logger),
		Library:   application.NewLibraryService(photoRepo, videoRepo, bookmarkRepo, profileRepo),
		Close: func() {
			photoRepo.Close()
			videoRepo.Close()
			bookmarkRepo.Close()
			profileRepo.Close()
		},
	}
}

// writeSourceFile puts content in a file outside the media root.
func writeSourceFile(t *testing.T, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, content, 0o600))
	return path
}

// waitForSnapshot reads from ch until match accepts a value.
func waitForSnapshot[T any](t *testing.T, ch <-chan T, timeout time.Duration, match func(T) bool) T {
	t.Helper()
	deadline := time.After(timeout)
	for {
		select {
		case v, ok := <-ch:
			require.True(t, ok, "stream closed")
			if match(v) {
				return v
			}
		case <-deadline:
			t.Fatalf("no matching snapshot within %s", timeout)
		}
	}
}
