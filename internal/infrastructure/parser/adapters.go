package parser

import (
	"fmt"
	"sort"

	"CompanyScout/internal/source"
)

var adapterFactories = map[string]func(AdapterConfig) source.Adapter{
	"google_news": func(cfg AdapterConfig) source.Adapter { return NewGoogleNewsAdapter(cfg) },
	"bing_news":   func(cfg AdapterConfig) source.Adapter { return NewBingNewsAdapter(cfg) },
	"duckduckgo":  func(cfg AdapterConfig) source.Adapter { return NewDuckDuckGoAdapter(cfg) },
}

// NewAdapter builds a built-in adapter by kind.
func NewAdapter(kind string, cfg AdapterConfig) (source.Adapter, error) {
	factory, ok := adapterFactories[kind]
	if !ok {
		return nil, fmt.Errorf("%w: no adapter kind %q", source.ErrUnknownSource, kind)
	}
	return factory(cfg), nil
}

// AdapterKinds lists the built-in adapter kinds alphabetically.
func AdapterKinds() []string {
	kinds := make([]string, 0, len(adapterFactories))
	for kind := range adapterFactories {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)
	return kinds
}
