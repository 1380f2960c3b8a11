package application_test

import (
	"bytes"
	"context"
	"image"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Kilat-Pet-Delivery/service-pawconnect/internal/application"
	"github.com/Kilat-Pet-Delivery/service-pawconnect/internal/domain"
	"github.com/Kilat-Pet-Delivery/service-pawconnect/internal/filestore"
)

func newProfileService(env *testEnv) *application.ProfileService {
	return application.NewProfileService(env.profile, env.files, newProcessor(), zap.NewNop())
}

func TestProfileService_SaveTwiceKeepsOneProfile(t *testing.T) {
	env := newTestEnv(t)
	svc := newProfileService(env)
	ctx := context.Background()

	_, err := svc.GetProfile(ctx)
	assert.True(t, domain.IsNotFound(err))

	_, err = svc.SaveProfile(ctx, application.SaveProfileRequest{PetName: " Rex ", Interests: []string{"balls", " ", "balls"}})
	require.NoError(t, err)
	dto, err := svc.SaveProfile(ctx, application.SaveProfileRequest{PetName: "Max", PetBreed: "Pug", Interests: []string{"naps"}})
	require.NoError(t, err)

	assert.Equal(t, "Max", dto.PetName)
	assert.Equal(t, "Pug", dto.PetBreed)
	assert.Equal(t, []string{"naps"}, dto.Interests)

	var rows int64
	require.NoError(t, env.db.Table("profile").Count(&rows).Error)
	assert.EqualValues(t, 1, rows)
}

func TestProfileService_FieldUpdatesCreateProfile(t *testing.T) {
	env := newTestEnv(t)
	svc := newProfileService(env)
	ctx := context.Background()

	has, err := svc.HasProfileData(ctx)
	require.NoError(t, err)
	assert.False(t, has)

	dto, err := svc.UpdatePetName(ctx, "  Luna ")
	require.NoError(t, err)
	assert.Equal(t, "Luna", dto.PetName)

	_, err = svc.UpdatePetBreed(ctx, "Husky")
	require.NoError(t, err)
	_, err = svc.UpdatePetAge(ctx, "2")
	require.NoError(t, err)
	dto, err = svc.UpdateOwnerName(ctx, "Sam")
	require.NoError(t, err)

	assert.Equal(t, "Luna", dto.PetName)
	assert.Equal(t, "Husky", dto.PetBreed)
	assert.Equal(t, "2", dto.PetAge)
	assert.Equal(t, "Sam", dto.OwnerName)

	has, err = svc.HasProfileData(ctx)
	require.NoError(t, err)
	assert.True(t, has)
}

func TestProfileService_PatchProfile(t *testing.T) {
	env := newTestEnv(t)
	svc := newProfileService(env)
	ctx := context.Background()

	_, err := svc.PatchProfile(ctx, application.PatchProfileRequest{})
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))

	name, owner := "Rex", " Ana "
	dto, err := svc.PatchProfile(ctx, application.PatchProfileRequest{PetName: &name, OwnerName: &owner})
	require.NoError(t, err)
	assert.Equal(t, "Rex", dto.PetName)
	assert.Equal(t, "Ana", dto.OwnerName)
}

func TestProfileService_Interests(t *testing.T) {
	env := newTestEnv(t)
	svc := newProfileService(env)
	ctx := context.Background()

	dto, err := svc.AddInterest(ctx, "fetch")
	require.NoError(t, err)
	assert.Equal(t, []string{"fetch"}, dto.Interests)

	dto, err = svc.AddInterest(ctx, " fetch ")
	require.NoError(t, err)
	assert.Equal(t, []string{"fetch"}, dto.Interests)

	_, err = svc.AddInterest(ctx, "   ")
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))

	dto, err = svc.UpdateInterests(ctx, []string{"swim", "", "naps", "swim"})
	require.NoError(t, err)
	assert.Equal(t, []string{"swim", "naps"}, dto.Interests)

	dto, err = svc.RemoveInterest(ctx, "swim")
	require.NoError(t, err)
	assert.Equal(t, []string{"naps"}, dto.Interests)
}

func TestProfileService_InterestsRejectCommas(t *testing.T) {
	env := newTestEnv(t)
	svc := newProfileService(env)
	ctx := context.Background()

	_, err := svc.AddInterest(ctx, "naps")
	require.NoError(t, err)

	_, err = svc.AddInterest(ctx, "ball, frisbee")
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))

	_, err = svc.UpdateInterests(ctx, []string{"swim", "tug,of,war"})
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))

	_, err = svc.SaveProfile(ctx, application.SaveProfileRequest{PetName: "Rex", Interests: []string{"a,b"}})
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))

	got, err := svc.GetProfile(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"naps"}, got.Interests)
	assert.Empty(t, got.PetName)
}

func TestProfileService_UpdateProfileImage(t *testing.T) {
	env := newTestEnv(t)
	svc := newProfileService(env)
	ctx := context.Background()

	first, err := svc.UpdateProfileImage(ctx, writeSource(t, "big.png", pngBytes(t, 1600, 1200), "image/png"))
	require.NoError(t, err)
	require.NotEmpty(t, first.ProfileImagePath)
	assert.Equal(t, env.files.Dir(filestore.KindProfileImage), filepath.Dir(first.ProfileImagePath))
	assert.Equal(t, ".jpg", filepath.Ext(first.ProfileImagePath))

	data, err := os.ReadFile(first.ProfileImagePath)
	require.NoError(t, err)
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
	assert.Equal(t, 800, cfg.Width)
	assert.Equal(t, 600, cfg.Height)

	second, err := svc.UpdateProfileImage(ctx, writeSource(t, "small.png", pngBytes(t, 10, 10), "image/png"))
	require.NoError(t, err)
	assert.NotEqual(t, first.ProfileImagePath, second.ProfileImagePath)
	assert.NoFileExists(t, first.ProfileImagePath)
	assert.FileExists(t, second.ProfileImagePath)

	path, err := svc.ProfileImage(ctx)
	require.NoError(t, err)
	assert.Equal(t, second.ProfileImagePath, path)
}

func TestProfileService_UpdateProfileImage_BadImageKeepsOld(t *testing.T) {
	env := newTestEnv(t)
	svc := newProfileService(env)
	ctx := context.Background()

	first, err := svc.UpdateProfileImage(ctx, writeSource(t, "ok.png", pngBytes(t, 10, 10), "image/png"))
	require.NoError(t, err)

	_, err = svc.UpdateProfileImage(ctx, writeSource(t, "bad.png", []byte("garbage"), "image/png"))
	require.Error(t, err)
	assert.Equal(t, domain.KindDecode, domain.KindOf(err))

	got, err := svc.GetProfile(ctx)
	require.NoError(t, err)
	assert.Equal(t, first.ProfileImagePath, got.ProfileImagePath)
	assert.FileExists(t, first.ProfileImagePath)
	assert.Len(t, dirEntries(t, env.files.Dir(filestore.KindProfileImage)), 1)
}

func TestProfileService_UpdateProfileImage_RowFailureRemovesNewFile(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	first, err := newProfileService(env).UpdateProfileImage(ctx, writeSource(t, "ok.png", pngBytes(t, 10, 10), "image/png"))
	require.NoError(t, err)

	svc := application.NewProfileService(failingProfileRepo{env.profile}, env.files, newProcessor(), zap.NewNop())
	_, err = svc.UpdateProfileImage(ctx, writeSource(t, "new.png", pngBytes(t, 10, 10), "image/png"))
	require.Error(t, err)
	assert.Equal(t, domain.KindStorage, domain.KindOf(err))

	assert.FileExists(t, first.ProfileImagePath)
	assert.Equal(t, []string{filepath.Base(first.ProfileImagePath)}, dirEntries(t, env.files.Dir(filestore.KindProfileImage)))
}

func TestProfileService_UpdateProfileImagePath(t *testing.T) {
	env := newTestEnv(t)
	svc := newProfileService(env)
	ctx := context.Background()

	saved, err := env.files.Write(ctx, filestore.KindProfileImage, "profile", "jpg", bytes.NewReader([]byte("jpeg")))
	require.NoError(t, err)

	dto, err := svc.UpdateProfileImagePath(ctx, saved.Path)
	require.NoError(t, err)
	assert.Equal(t, saved.Path, dto.ProfileImagePath)

	path, err := svc.ProfileImage(ctx)
	require.NoError(t, err)
	assert.Equal(t, saved.Path, path)

	require.NoError(t, os.Remove(saved.Path))
	_, err = svc.ProfileImage(ctx)
	assert.True(t, domain.IsNotFound(err))
}

func TestProfileService_ClearProfile(t *testing.T) {
	env := newTestEnv(t)
	svc := newProfileService(env)
	ctx := context.Background()

	_, err := svc.UpdatePetName(ctx, "Rex")
	require.NoError(t, err)
	dto, err := svc.UpdateProfileImage(ctx, writeSource(t, "ok.png", pngBytes(t, 10, 10), "image/png"))
	require.NoError(t, err)

	require.NoError(t, svc.ClearProfile(ctx))
	assert.NoFileExists(t, dto.ProfileImagePath)
	_, err = svc.GetProfile(ctx)
	assert.True(t, domain.IsNotFound(err))

	require.NoError(t, svc.ClearProfile(ctx))
}

func TestProfileService_ClearProfile_StoreRootMoved(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	dto, err := newProfileService(env).UpdateProfileImage(ctx, writeSource(t, "ok.png", pngBytes(t, 10, 10), "image/png"))
	require.NoError(t, err)

	moved, err := filestore.NewLocal(filepath.Join(t.TempDir(), "relocated"))
	require.NoError(t, err)
	svc := application.NewProfileService(env.profile, moved, newProcessor(), zap.NewNop())

	_, err = svc.ProfileImage(ctx)
	assert.True(t, domain.IsNotFound(err))

	require.NoError(t, svc.ClearProfile(ctx))
	_, err = svc.GetProfile(ctx)
	assert.True(t, domain.IsNotFound(err))
	assert.FileExists(t, dto.ProfileImagePath)
}

func TestProfileService_WatchProfile(t *testing.T) {
	env := newTestEnv(t)
	svc := newProfileService(env)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := svc.WatchProfile(ctx)
	require.NoError(t, err)
	assert.Nil(t, recv(t, ch))

	_, err = svc.UpdatePetName(ctx, "Rex")
	require.NoError(t, err)
	got := recv(t, ch)
	require.NotNil(t, got)
	assert.Equal(t, "Rex", got.PetName)
}
