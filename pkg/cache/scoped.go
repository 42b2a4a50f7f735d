package cache

// ScopedKeyer wraps a Keyer with a prefix so tenants sharing one backend
// never read each other's entries.
//
//	acme := NewScopedKeyer(NewDefaultKeyer(), "tenant:acme:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer that prepends prefix to every key.
// A nil inner keyer selects the DefaultKeyer.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// TenantKeyer scopes the default keyer to a single tenant.
func TenantKeyer(tenant string) Keyer {
	if tenant == "" {
		return NewDefaultKeyer()
	}
	return NewScopedKeyer(nil, "tenant:"+tenant+":")
}

func (k *ScopedKeyer) HTTPKey(namespace, key string) string {
	return k.prefix + k.inner.HTTPKey(namespace, key)
}

func (k *ScopedKeyer) EntitiesKey(tenant, source string) string {
	return k.prefix + k.inner.EntitiesKey(tenant, source)
}

func (k *ScopedKeyer) LayoutKey(count int, opts LayoutKeyOpts) string {
	return k.prefix + k.inner.LayoutKey(count, opts)
}

func (k *ScopedKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(layoutHash, opts)
}
