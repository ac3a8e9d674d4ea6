package adapters

import (
	"fmt"
	"net/http"
	"sync"

	"livenotify/internal/models"
	"livenotify/internal/providers"
	"livenotify/internal/structures"
)

// Factory builds an adapter from its platform section and a client already
// configured with that section's timeout and proxy.
type Factory func(cfg structures.PlatformConfig, client *http.Client, logger providers.Logger) Adapter

var (
	factoryMu       sync.RWMutex
	factoryRegistry = make(map[models.Platform]Factory)
)

// Register is called from adapter init functions. Registering a platform
// twice replaces the earlier factory.
func Register(platform models.Platform, factory Factory) {
	if factory == nil {
		panic(fmt.Sprintf("adapter factory for %s is nil", platform))
	}
	factoryMu.Lock()
	defer factoryMu.Unlock()
	factoryRegistry[platform] = factory
}

func getFactory(platform models.Platform) (Factory, bool) {
	factoryMu.RLock()
	defer factoryMu.RUnlock()
	f, ok := factoryRegistry[platform]
	return f, ok
}

type RegistryInterface interface {
	Get(platform models.Platform) (Adapter, bool)
	Platforms() []models.Platform
}

type Registry struct {
	adapters  map[models.Platform]Adapter
	platforms []models.Platform
}

// NewRegistry instantiates an adapter for every enabled platform section.
func NewRegistry(conf *structures.Config, logger providers.Logger) (RegistryInterface, error) {
	r := &Registry{adapters: make(map[models.Platform]Adapter)}

	for _, p := range models.AllPlatforms {
		pc, ok := conf.Platforms.For(p)
		if !ok || !pc.Enabled {
			logger.Infof(providers.TypeApp, "Platform %s disabled", p)
			continue
		}
		factory, ok := getFactory(p)
		if !ok {
			return nil, fmt.Errorf("no adapter registered for platform %s", p)
		}
		adapter := factory(pc, NewHTTPClient(pc, logger), logger)
		if adapter.Platform() != p {
			return nil, fmt.Errorf("adapter for %s reports platform %s", p, adapter.Platform())
		}
		r.adapters[p] = adapter
		r.platforms = append(r.platforms, p)
		logger.Infof(providers.TypeApp, "Platform %s enabled (%s)", p, pc.BaseURL)
	}

	if len(r.platforms) == 0 {
		return nil, fmt.Errorf("no platforms enabled")
	}
	return r, nil
}

// NewStaticRegistry wraps ready-made adapters, keeping the fixed platform
// order regardless of argument order.
func NewStaticRegistry(adapters ...Adapter) RegistryInterface {
	r := &Registry{adapters: make(map[models.Platform]Adapter, len(adapters))}
	for _, a := range adapters {
		r.adapters[a.Platform()] = a
	}
	for _, p := range models.AllPlatforms {
		if _, ok := r.adapters[p]; ok {
			r.platforms = append(r.platforms, p)
		}
	}
	return r
}

func (r *Registry) Get(platform models.Platform) (Adapter, bool) {
	a, ok := r.adapters[platform]
	return a, ok
}

func (r *Registry) Platforms() []models.Platform {
	out := make([]models.Platform, len(r.platforms))
	copy(out, r.platforms)
	return out
}
