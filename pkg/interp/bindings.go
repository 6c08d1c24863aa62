package interp

import "slices"

// Bindings holds the named results of choice blocks. Single and multi
// bindings live in independent namespaces; a name may exist in both.
type Bindings struct {
	single map[string]string
	multi  map[string][]string
}

// NewBindings returns an empty store.
func NewBindings() *Bindings {
	return &Bindings{
		single: make(map[string]string),
		multi:  make(map[string][]string),
	}
}

// Set stores or overwrites a single binding.
func (b *Bindings) Set(name, label string) {
	b.single[name] = label
}

// SetMulti stores or overwrites a multi binding. labels is copied.
func (b *Bindings) SetMulti(name string, labels []string) {
	b.multi[name] = slices.Clone(labels)
}

// Single returns the single binding for name, or "" if unbound.
func (b *Bindings) Single(name string) string {
	return b.single[name]
}

// LookupSingle returns the single binding for name and whether it exists.
func (b *Bindings) LookupSingle(name string) (string, bool) {
	v, ok := b.single[name]
	return v, ok
}

// Multi returns the multi binding for name, or nil if unbound.
func (b *Bindings) Multi(name string) []string {
	return slices.Clone(b.multi[name])
}

// LookupMulti returns the multi binding for name and whether it exists.
func (b *Bindings) LookupMulti(name string) ([]string, bool) {
	v, ok := b.multi[name]
	return slices.Clone(v), ok
}

// Contains reports whether the multi binding for name includes target.
func (b *Bindings) Contains(name, target string) bool {
	return slices.Contains(b.multi[name], target)
}

// Matches reports whether the single binding for name equals target or the
// multi binding for name contains it. Unbound names never match.
func (b *Bindings) Matches(name, target string) bool {
	if v, ok := b.single[name]; ok && v == target {
		return true
	}
	return b.Contains(name, target)
}

// SingleMap returns a copy of all single bindings.
func (b *Bindings) SingleMap() map[string]string {
	out := make(map[string]string, len(b.single))
	for k, v := range b.single {
		out[k] = v
	}
	return out
}

// MultiMap returns a copy of all multi bindings.
func (b *Bindings) MultiMap() map[string][]string {
	out := make(map[string][]string, len(b.multi))
	for k, v := range b.multi {
		out[k] = slices.Clone(v)
	}
	return out
}

// Names returns every bound name across both namespaces, sorted.
func (b *Bindings) Names() []string {
	var names []string
	for k := range b.single {
		names = append(names, k)
	}
	for k := range b.multi {
		if _, dup := b.single[k]; !dup {
			names = append(names, k)
		}
	}
	slices.Sort(names)
	return names
}
