package adapters

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"livenotify/internal/models"
	"livenotify/internal/structures"
	"livenotify/internal/testutil"
)

func TestNewRegistry_EnabledPlatformsInFixedOrder(t *testing.T) {
	conf := &structures.Config{Platforms: structures.PlatformsConfig{
		Twitch: platformConfig("http://twitch"),
		Douyu:  platformConfig("http://douyu"),
	}}

	r, err := NewRegistry(conf, &testutil.MockLogger{})
	require.NoError(t, err)
	assert.Equal(t, []models.Platform{models.PlatformDouyu, models.PlatformTwitch}, r.Platforms())

	a, ok := r.Get(models.PlatformTwitch)
	require.True(t, ok)
	assert.IsType(t, &TwitchAdapter{}, a)

	_, ok = r.Get(models.PlatformBilibili)
	assert.False(t, ok)
}

func TestNewRegistry_NothingEnabled(t *testing.T) {
	_, err := NewRegistry(&structures.Config{}, &testutil.MockLogger{})
	assert.Error(t, err)
}

func TestRegistry_PlatformsReturnsCopy(t *testing.T) {
	r := NewStaticRegistry(testutil.NewMockAdapter(models.PlatformTwitch), testutil.NewMockAdapter(models.PlatformDouyu))
	ps := r.Platforms()
	assert.Equal(t, []models.Platform{models.PlatformDouyu, models.PlatformTwitch}, ps)

	ps[0] = "mutated"
	assert.Equal(t, models.PlatformDouyu, r.Platforms()[0])
}

func TestRegister_NilFactoryPanics(t *testing.T) {
	assert.Panics(t, func() { Register(models.PlatformDouyu, nil) })
}

func TestFetchError_UnwrapAndReason(t *testing.T) {
	cause := errors.New("dial tcp: refused")
	err := newFetchError(models.PlatformBilibili, "5", ReasonNetwork, cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, ReasonNetwork, ReasonOf(err))
	assert.Equal(t, "bilibili 5: network: dial tcp: refused", err.Error())
	assert.Equal(t, ReasonUpstream, ReasonOf(errors.New("plain")))
}
