package services

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"livenotify/internal/storage"
	"livenotify/internal/storage/interfaces"
	"livenotify/internal/structures"
	"livenotify/internal/testutil"
)

func newStore(t *testing.T) interfaces.StoreInterface {
	t.Helper()
	conf := &structures.Config{Persistence: structures.Persistence{
		FilePath: filepath.Join(t.TempDir(), "subs.json"),
	}}
	fm := storage.NewFileManager(&storage.PlainCompression{}, &testutil.MockLogger{}, testutil.NewMockMetrics())
	s, err := storage.NewSubscriptionStore(conf, fm, &testutil.MockLogger{})
	require.NoError(t, err)
	return s
}
