package providers

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"livenotify/internal/structures"
)

func TestGetLogTypeByRequestType_POST(t *testing.T) {
	assert.Equal(t, TypePost, GetLogTypeByRequestType("POST"))
}

func TestGetLogTypeByRequestType_DELETE(t *testing.T) {
	assert.Equal(t, TypePost, GetLogTypeByRequestType("delete"))
}

func TestGetLogTypeByRequestType_Other(t *testing.T) {
	assert.Equal(t, TypeGet, GetLogTypeByRequestType("GET"))
	assert.Equal(t, TypeGet, GetLogTypeByRequestType("PUT"))
}

func TestNewLogProvider_CreatesLogFiles(t *testing.T) {
	dir := t.TempDir()
	conf := &structures.Config{
		Logger: structures.LoggerConfig{
			Level: "info",
			Mode:  0644,
			Dir:   dir,
		},
	}

	logger, err := NewLogProvider(conf)
	require.NoError(t, err)

	logger.Infof(TypeApp, "test message")
	logger.Infof(TypePoll, "cycle %d done", 3)
	logger.Debugf(TypeGet, "get message")
	logger.Warnf(TypeNotify, "notify message")
	logger.Close()

	for _, name := range []string{"app.log", "poll.log", "notify.log", "store.log", "bot.log", "get.log", "post.log"} {
		_, err := os.Stat(filepath.Join(dir, name))
		assert.NoError(t, err, name)
	}

	data, err := os.ReadFile(filepath.Join(dir, "poll.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "cycle 3 done")
	assert.Contains(t, string(data), `"type":"poll"`)

	// info level drops debug lines
	data, err = os.ReadFile(filepath.Join(dir, "get.log"))
	require.NoError(t, err)
	assert.Empty(t, data)
}

func TestNewLogProvider_DebugFlagLowersLevel(t *testing.T) {
	dir := t.TempDir()
	conf := &structures.Config{
		Debug:  true,
		Logger: structures.LoggerConfig{Level: "error", Mode: 0644, Dir: dir},
	}

	logger, err := NewLogProvider(conf)
	require.NoError(t, err)
	logger.Debugf(TypeStore, "visible")
	logger.Close()

	data, err := os.ReadFile(filepath.Join(dir, "store.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "visible")
}

func TestNewLogProvider_InvalidDir(t *testing.T) {
	conf := &structures.Config{
		Logger: structures.LoggerConfig{
			Level: "info",
			Mode:  0644,
			Dir:   "/nonexistent/directory/path",
		},
	}

	_, err := NewLogProvider(conf)
	assert.Error(t, err)
}

func TestNewLogProvider_InvalidLevel(t *testing.T) {
	conf := &structures.Config{
		Logger: structures.LoggerConfig{Level: "verbose", Mode: 0644, Dir: t.TempDir()},
	}

	_, err := NewLogProvider(conf)
	assert.Error(t, err)
}
