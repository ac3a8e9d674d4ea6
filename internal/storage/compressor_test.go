package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"livenotify/internal/structures"
)

func TestZstdCompression_RoundTrip(t *testing.T) {
	comp, err := NewZstdCompressor()
	require.NoError(t, err)

	original := []byte(`{"subscriptions":{},"liveStatus":{}}`)
	compressed, err := comp.Compress(original)
	require.NoError(t, err)
	assert.True(t, isZstd(compressed))

	decompressed, err := comp.Decompress(compressed)
	require.NoError(t, err)
	assert.Equal(t, original, decompressed)
}

func TestZstdCompression_PassesPlainThrough(t *testing.T) {
	comp, err := NewZstdCompressor()
	require.NoError(t, err)

	plain := []byte(`{"subscriptions":{}}`)
	out, err := comp.Decompress(plain)
	require.NoError(t, err)
	assert.Equal(t, plain, out)
}

func TestZstdCompression_CorruptFrame(t *testing.T) {
	comp, err := NewZstdCompressor()
	require.NoError(t, err)

	_, err = comp.Decompress(append([]byte{0x28, 0xb5, 0x2f, 0xfd}, 0xff, 0xff, 0xff))
	assert.Error(t, err)
}

func TestNewCompressor_FollowsConfig(t *testing.T) {
	plain, err := NewCompressor(&structures.Config{})
	require.NoError(t, err)
	assert.IsType(t, &PlainCompression{}, plain)

	zstdComp, err := NewCompressor(&structures.Config{Persistence: structures.Persistence{Compress: true}})
	require.NoError(t, err)
	assert.IsType(t, &ZstdCompression{}, zstdComp)
}
