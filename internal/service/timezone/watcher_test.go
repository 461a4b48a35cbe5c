package timezone

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/cardfolio/dashboard-sync/internal/domain/calendar"
	domain "github.com/cardfolio/dashboard-sync/internal/domain/preference"
	repo "github.com/cardfolio/dashboard-sync/internal/repository/preference"
)

// TestWatcher_ReloadsOnExternalWrite edits the state file through a second
// repository and waits for the source to pick the change up.
func TestWatcher_ReloadsOnExternalWrite(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "state.json")
	repository := repo.NewFileRepository(path)

	s, err := NewSource(context.Background(), repository)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)

	w := NewWatcher(s, path)
	w.debounce = 10 * time.Millisecond

	go func() { done <- w.Run(ctx) }()

	// Give the watcher time to register the directory.
	time.Sleep(50 * time.Millisecond)

	external := repo.NewFileRepository(path)
	require.NoError(t, external.Save(context.Background(), &domain.Preference{Timezone: "Pacific/Auckland"}))

	require.Eventually(t, func() bool {
		return s.View().Get() == calendar.Timezone("Pacific/Auckland")
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
}
