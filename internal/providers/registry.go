package providers

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ErrAdapterNotFound tags lookups of provider keys with no registered
// adapter in the requested family.
var ErrAdapterNotFound = errors.New("provider adapter not found")

// Registry maps provider keys to adapters, one namespace per operation
// family.
type Registry struct {
	mu         sync.RWMutex
	generators map[string]Generator
	editors    map[string]Editor
	overlayers map[string]TextOverlayer
	animators  map[string]Animator
	sounders   map[string]Sounder
}

// NewRegistry creates an empty adapter registry.
func NewRegistry() *Registry {
	return &Registry{
		generators: make(map[string]Generator),
		editors:    make(map[string]Editor),
		overlayers: make(map[string]TextOverlayer),
		animators:  make(map[string]Animator),
		sounders:   make(map[string]Sounder),
	}
}

// RegisterGenerator registers a generation adapter under key.
func (r *Registry) RegisterGenerator(key string, g Generator) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.generators[key] = g
}

// RegisterEditor registers an edit adapter under key.
func (r *Registry) RegisterEditor(key string, e Editor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.editors[key] = e
}

// RegisterTextOverlayer registers a text-overlay adapter under key.
func (r *Registry) RegisterTextOverlayer(key string, o TextOverlayer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.overlayers[key] = o
}

// RegisterAnimator registers an animation adapter under key.
func (r *Registry) RegisterAnimator(key string, a Animator) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.animators[key] = a
}

// RegisterSounder registers a sound adapter under key.
func (r *Registry) RegisterSounder(key string, s Sounder) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sounders[key] = s
}

// GeneratorFor resolves a generation adapter by key.
func (r *Registry) GeneratorFor(key string) (Generator, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	g, ok := r.generators[key]
	if !ok {
		return nil, fmt.Errorf("%w: generator %q", ErrAdapterNotFound, key)
	}
	return g, nil
}

// EditorFor resolves an edit adapter by key.
func (r *Registry) EditorFor(key string) (Editor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.editors[key]
	if !ok {
		return nil, fmt.Errorf("%w: editor %q", ErrAdapterNotFound, key)
	}
	return e, nil
}

// TextOverlayerFor resolves a text-overlay adapter by key.
func (r *Registry) TextOverlayerFor(key string) (TextOverlayer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	o, ok := r.overlayers[key]
	if !ok {
		return nil, fmt.Errorf("%w: text overlayer %q", ErrAdapterNotFound, key)
	}
	return o, nil
}

// AnimatorFor resolves an animation adapter by key.
func (r *Registry) AnimatorFor(key string) (Animator, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.animators[key]
	if !ok {
		return nil, fmt.Errorf("%w: animator %q", ErrAdapterNotFound, key)
	}
	return a, nil
}

// SounderFor resolves a sound adapter by key.
func (r *Registry) SounderFor(key string) (Sounder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sounders[key]
	if !ok {
		return nil, fmt.Errorf("%w: sounder %q", ErrAdapterNotFound, key)
	}
	return s, nil
}

// Keys lists every registered provider key across all families, sorted for
// stable CLI output.
func (r *Registry) Keys() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]struct{})
	for key := range r.generators {
		seen[key] = struct{}{}
	}
	for key := range r.editors {
		seen[key] = struct{}{}
	}
	for key := range r.overlayers {
		seen[key] = struct{}{}
	}
	for key := range r.animators {
		seen[key] = struct{}{}
	}
	for key := range r.sounders {
		seen[key] = struct{}{}
	}

	keys := make([]string, 0, len(seen))
	for key := range seen {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
