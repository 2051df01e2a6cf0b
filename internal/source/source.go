package source

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"CompanyScout/internal/domain"
)

// ErrUnknownSource is returned when a selection names an unregistered adapter.
var ErrUnknownSource = errors.New("unknown source")

// Adapter captures a single search/news backend (Google News, Bing News, etc.).
// Search returns at most maxResults normalized articles for the query.
type Adapter interface {
	Name() string
	Search(ctx context.Context, query string, maxResults int) ([]domain.Article, error)
}

// Registry keeps a mapping from adapter names to their implementations.
type Registry struct {
	adapters map[string]Adapter
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{adapters: map[string]Adapter{}}
}

// Register adds or replaces an adapter implementation.
func (r *Registry) Register(adapter Adapter) {
	if r.adapters == nil {
		r.adapters = map[string]Adapter{}
	}
	r.adapters[adapter.Name()] = adapter
}

// Resolve returns an adapter by name or an error if it is absent.
func (r *Registry) Resolve(name string) (Adapter, error) {
	if adapter, ok := r.adapters[name]; ok {
		return adapter, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownSource, name)
}

// Select resolves every name up front, preserving selection order and
// dropping repeats.
func (r *Registry) Select(names []string) ([]Adapter, error) {
	selected := make([]Adapter, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		adapter, err := r.Resolve(name)
		if err != nil {
			return nil, err
		}
		selected = append(selected, adapter)
	}
	return selected, nil
}

// Names lists registered adapters alphabetically.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.adapters))
	for name := range r.adapters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Alias exposes adapter under another registry name, so one backend can be
// registered several times with different settings.
func Alias(name string, adapter Adapter) Adapter {
	if name == "" || name == adapter.Name() {
		return adapter
	}
	return aliased{name: name, Adapter: adapter}
}

type aliased struct {
	Adapter
	name string
}

func (a aliased) Name() string {
	return a.name
}
