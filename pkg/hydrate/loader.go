package hydrate

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"

	rerrors "github.com/vango-dev/rmx/internal/errors"
	"github.com/vango-dev/rmx/internal/telemetry"
	"github.com/vango-dev/rmx/pkg/vdom"
)

// ModuleSource resolves a module reference to a component.
type ModuleSource interface {
	LoadModule(ctx context.Context, moduleURL, exportName string) (*vdom.Component, error)
}

// ModuleSourceFunc adapts a function to ModuleSource.
type ModuleSourceFunc func(ctx context.Context, moduleURL, exportName string) (*vdom.Component, error)

// LoadModule calls f.
func (f ModuleSourceFunc) LoadModule(ctx context.Context, moduleURL, exportName string) (*vdom.Component, error) {
	return f(ctx, moduleURL, exportName)
}

// Registry is an in-process ModuleSource keyed by module URL and export name.
type Registry struct {
	mu      sync.RWMutex
	modules map[string]*vdom.Component
}

// NewRegistry registers each hydratable component under its own module
// reference.
func NewRegistry(comps ...*vdom.Component) *Registry {
	r := &Registry{modules: make(map[string]*vdom.Component)}
	for _, c := range comps {
		r.Register(c)
	}
	return r
}

// Register adds c under c.ModuleURL and c.ExportName.
func (r *Registry) Register(c *vdom.Component) {
	r.mu.Lock()
	r.modules[moduleKey(c.ModuleURL, c.ExportName)] = c
	r.mu.Unlock()
}

// Components returns the registered components.
func (r *Registry) Components() []*vdom.Component {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*vdom.Component, 0, len(r.modules))
	for _, c := range r.modules {
		out = append(out, c)
	}
	return out
}

// LoadModule implements ModuleSource.
func (r *Registry) LoadModule(_ context.Context, moduleURL, exportName string) (*vdom.Component, error) {
	r.mu.RLock()
	c, ok := r.modules[moduleKey(moduleURL, exportName)]
	r.mu.RUnlock()
	if !ok {
		return nil, rerrors.New(rerrors.CodeModuleNotFound).WithDetailf("%s#%s is not registered", moduleURL, exportName)
	}
	return c, nil
}

func moduleKey(moduleURL, exportName string) string {
	return moduleURL + "#" + exportName
}

// Load statuses.
const (
	LoadLoaded = "loaded"
	LoadCached = "cached"
	LoadShared = "shared"
	LoadFailed = "failed"
)

// Loader deduplicates module loads. Concurrent loads of the same module and
// export share one call to the source; successful results are cached for
// the life of the Loader.
type Loader struct {
	source  ModuleSource
	metrics *telemetry.Metrics

	group singleflight.Group
	mu    sync.RWMutex
	cache map[string]*vdom.Component
}

// NewLoader wraps source.
func NewLoader(source ModuleSource, metrics *telemetry.Metrics) *Loader {
	return &Loader{
		source:  source,
		metrics: metrics,
		cache:   make(map[string]*vdom.Component),
	}
}

// Load returns the component for a module reference and how it was
// obtained. A caller whose ctx ends while a shared load is in flight gets
// ctx.Err(); the load itself keeps running for the other callers.
func (l *Loader) Load(ctx context.Context, moduleURL, exportName string) (*vdom.Component, string, error) {
	key := moduleKey(moduleURL, exportName)

	l.mu.RLock()
	c, ok := l.cache[key]
	l.mu.RUnlock()
	if ok {
		l.metrics.RecordModuleLoad(LoadCached)
		return c, LoadCached, nil
	}

	var executed, cached bool
	ch := l.group.DoChan(key, func() (any, error) {
		executed = true
		// A flight for key may have finished between the cache check and
		// DoChan.
		l.mu.RLock()
		c, ok := l.cache[key]
		l.mu.RUnlock()
		if ok {
			cached = true
			return c, nil
		}
		c, err := l.source.LoadModule(context.WithoutCancel(ctx), moduleURL, exportName)
		if err != nil {
			return nil, err
		}
		if c == nil {
			return nil, rerrors.New(rerrors.CodeModuleNotFound).WithDetailf("%s#%s resolved to nil", moduleURL, exportName)
		}
		l.mu.Lock()
		l.cache[key] = c
		l.mu.Unlock()
		return c, nil
	})

	select {
	case <-ctx.Done():
		l.metrics.RecordModuleLoad(LoadFailed)
		return nil, LoadFailed, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			l.metrics.RecordModuleLoad(LoadFailed)
			err := res.Err
			if rerrors.CodeOf(err) == "" {
				err = rerrors.New(rerrors.CodeModuleLoadFailed).Wrap(err).WithDetailf("%s#%s", moduleURL, exportName)
			}
			return nil, LoadFailed, err
		}
		status := LoadShared
		switch {
		case cached:
			status = LoadCached
		case executed:
			status = LoadLoaded
		}
		l.metrics.RecordModuleLoad(status)
		return res.Val.(*vdom.Component), status, nil
	}
}

// Forget drops a cached module so the next Load calls the source again.
func (l *Loader) Forget(moduleURL, exportName string) {
	key := moduleKey(moduleURL, exportName)
	l.mu.Lock()
	delete(l.cache, key)
	l.mu.Unlock()
	l.group.Forget(key)
}
