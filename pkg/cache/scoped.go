package cache

// ScopedKeyer prefixes every key of an inner Keyer, so that several
// deployments or config profiles can share one backend without collisions.
//
//	shared := NewScopedKeyer(NewDefaultKeyer(), "act2:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner with prefix. A nil inner uses DefaultKeyer.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// MapKey returns the prefixed map key.
func (k *ScopedKeyer) MapKey(configHash string, seed uint64) string {
	return k.prefix + k.inner.MapKey(configHash, seed)
}

// ArtifactKey returns the prefixed artifact key.
func (k *ScopedKeyer) ArtifactKey(mapHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(mapHash, opts)
}

