package video

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kilat-Pet-Delivery/service-pawconnect/internal/domain"
)

func TestNewVideo(t *testing.T) {
	v, err := NewVideo(" Zoomies ", "/v/z.mp4", "", 10, " backyard ")
	require.NoError(t, err)
	assert.Equal(t, "Zoomies", v.Name())
	assert.Equal(t, UnknownDuration, v.Duration())
	assert.Equal(t, "backyard", v.Description())
	assert.False(t, v.IsFavorite())
}

func TestNewVideo_Validation(t *testing.T) {
	_, err := NewVideo(" ", "/v/z.mp4", "", 0, "")
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))

	_, err = NewVideo("a", "", "", 0, "")
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))

	_, err = NewVideo("a", "/v/z.mp4", "", -1, "")
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))
}

func TestRename(t *testing.T) {
	v, err := NewVideo("a", "/v/z.mp4", "00:05", 0, "")
	require.NoError(t, err)

	assert.Error(t, v.Rename(""))
	assert.Equal(t, "a", v.Name())
	require.NoError(t, v.Rename(" b "))
	assert.Equal(t, "b", v.Name())
}
