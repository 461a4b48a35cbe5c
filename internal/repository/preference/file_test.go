package preference

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	domain "github.com/cardfolio/dashboard-sync/internal/domain/preference"
)

// TestFileRepository_NotFound verifies Load returns ErrNotFound for missing file.
func TestFileRepository_NotFound(t *testing.T) {
	t.Parallel()
	repo := NewFileRepository(filepath.Join(t.TempDir(), "missing.json"))
	p, err := repo.Load(context.Background())
	require.ErrorIs(t, err, ErrNotFound)
	require.Nil(t, p)
}

// TestFileRepository_SaveLoad ensures Save followed by Load returns the same preference.
func TestFileRepository_SaveLoad(t *testing.T) {
	t.Parallel()
	file := filepath.Join(t.TempDir(), "preference.json")
	repo := NewFileRepository(file)
	require.Equal(t, file, repo.Path())

	want := &domain.Preference{
		Timezone:  "America/New_York",
		UpdatedAt: time.Now().UTC().Truncate(time.Millisecond),
		UpdatedBy: &domain.Actor{
			Hostname: "dash-01",
			Username: "jdoe",
		},
	}

	require.NoError(t, repo.Save(context.Background(), want))

	got, err := repo.Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, want.Timezone, got.Timezone)
	require.True(t, want.UpdatedAt.Equal(got.UpdatedAt))
	require.Equal(t, want.UpdatedBy, got.UpdatedBy)

	_, err = os.Stat(file + ".tmp")
	require.ErrorIs(t, err, os.ErrNotExist)
}

// TestFileRepository_ClearedPreference keeps an empty timezone distinct from a missing file.
func TestFileRepository_ClearedPreference(t *testing.T) {
	t.Parallel()
	repo := NewFileRepository(filepath.Join(t.TempDir(), "preference.json"))

	require.NoError(t, repo.Save(context.Background(), &domain.Preference{}))

	got, err := repo.Load(context.Background())
	require.NoError(t, err)
	require.False(t, got.Timezone.IsSet())
	require.Nil(t, got.UpdatedBy)
	require.True(t, got.UpdatedAt.IsZero())
}

// TestFileRepository_Corrupt reports decode errors instead of defaulting.
func TestFileRepository_Corrupt(t *testing.T) {
	t.Parallel()
	file := filepath.Join(t.TempDir(), "preference.json")
	require.NoError(t, os.WriteFile(file, []byte("{not json"), 0o600))

	_, err := NewFileRepository(file).Load(context.Background())
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrNotFound)
}
