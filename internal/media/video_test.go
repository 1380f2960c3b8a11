package media_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/abema/go-mp4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kilat-Pet-Delivery/service-pawconnect/internal/domain"
	"github.com/Kilat-Pet-Delivery/service-pawconnect/internal/media"
)

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "00:00", media.FormatDuration(0))
	assert.Equal(t, "00:59", media.FormatDuration(59*time.Second+900*time.Millisecond))
	assert.Equal(t, "01:05", media.FormatDuration(65*time.Second))
	assert.Equal(t, "75:00", media.FormatDuration(75*time.Minute))
	assert.Equal(t, "00:00", media.FormatDuration(-3*time.Second))
}

func TestDurationLabel_UnreadableFallsBackToPlaceholder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clip.mp4")
	require.NoError(t, os.WriteFile(path, []byte("definitely not an mp4 container"), 0o600))

	label, err := media.DurationLabel(path)
	assert.Error(t, err)
	assert.Equal(t, "00:00", label)
}

func TestProbeDuration_MissingFile(t *testing.T) {
	_, err := media.ProbeDuration(filepath.Join(t.TempDir(), "missing.mp4"))
	assert.Equal(t, domain.KindIO, domain.KindOf(err))
}

// writeMovie writes an ftyp box and a moov box holding only mvhd, which is
// all the duration reader needs.
func writeMovie(t *testing.T, timescale, duration uint32) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "clip.mp4")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	w := mp4.NewWriter(f)
	_, err = w.StartBox(&mp4.BoxInfo{Type: mp4.BoxTypeFtyp()})
	require.NoError(t, err)
	_, err = mp4.Marshal(w, &mp4.Ftyp{
		MajorBrand:       [4]byte{'i', 's', 'o', 'm'},
		CompatibleBrands: []mp4.CompatibleBrandElem{{CompatibleBrand: [4]byte{'i', 's', 'o', 'm'}}},
	}, mp4.Context{})
	require.NoError(t, err)
	_, err = w.EndBox()
	require.NoError(t, err)

	_, err = w.StartBox(&mp4.BoxInfo{Type: mp4.BoxTypeMoov()})
	require.NoError(t, err)
	_, err = w.StartBox(&mp4.BoxInfo{Type: mp4.BoxTypeMvhd()})
	require.NoError(t, err)
	_, err = mp4.Marshal(w, &mp4.Mvhd{
		Timescale:   timescale,
		DurationV0:  duration,
		Rate:        0x10000,
		Volume:      0x100,
		NextTrackID: 1,
	}, mp4.Context{})
	require.NoError(t, err)
	_, err = w.EndBox()
	require.NoError(t, err)
	_, err = w.EndBox()
	require.NoError(t, err)
	return path
}

func TestMovieHeaderDuration(t *testing.T) {
	d, err := media.ProbeDuration(writeMovie(t, 1000, 125000))
	require.NoError(t, err)
	assert.Equal(t, 125*time.Second, d)

	d, err = media.ProbeDuration(writeMovie(t, 600, 1500))
	require.NoError(t, err)
	assert.Equal(t, 2500*time.Millisecond, d)
}

func TestDurationLabel_FormatsMovieLength(t *testing.T) {
	label, err := media.DurationLabel(writeMovie(t, 1000, 125000))
	require.NoError(t, err)
	assert.Equal(t, "02:05", label)
}

func TestMovieHeaderDuration_ZeroTimescaleIsDecodeError(t *testing.T) {
	_, err := media.ProbeDuration(writeMovie(t, 0, 100))
	assert.Equal(t, domain.KindDecode, domain.KindOf(err))
}
