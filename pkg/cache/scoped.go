package cache

// ScopedKeyer prefixes every key of an inner Keyer, so that several
// consumers can share one backend without colliding:
//
//	api := cache.NewScopedKeyer(nil, "api:")
//	cli := cache.NewScopedKeyer(nil, "cli:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner, or the default keyer when inner is nil.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// ResultKey returns the inner key with the prefix prepended.
func (k *ScopedKeyer) ResultKey(sceneHash, jobHash string, opts ResultKeyOpts) string {
	return k.prefix + k.inner.ResultKey(sceneHash, jobHash, opts)
}
