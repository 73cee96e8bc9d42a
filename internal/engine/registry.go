package engine

import (
	"strings"

	"github.com/tondexlabs/swap-engine/internal/common"
)

// Registry holds one engine per configured network. Built once at startup;
// read-only afterwards, so no locking.
type Registry struct {
	engines map[string]*Engine
}

func NewRegistry(engines ...*Engine) *Registry {
	r := &Registry{engines: make(map[string]*Engine, len(engines))}
	for _, e := range engines {
		r.engines[strings.ToLower(e.Network())] = e
	}
	return r
}

// Get resolves an engine by network name, case-insensitively. An empty name
// resolves only when exactly one network is configured.
func (r *Registry) Get(network string) (*Engine, error) {
	if network == "" && len(r.engines) == 1 {
		for _, e := range r.engines {
			return e, nil
		}
	}
	e, ok := r.engines[strings.ToLower(network)]
	if !ok {
		return nil, common.ErrNetworkNotFound
	}
	return e, nil
}

// Networks lists the configured network names.
func (r *Registry) Networks() []string {
	names := make([]string, 0, len(r.engines))
	for name := range r.engines {
		names = append(names, name)
	}
	return names
}

// Close shuts down every engine.
func (r *Registry) Close() {
	for _, e := range r.engines {
		e.Close()
	}
}
