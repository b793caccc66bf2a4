package provider

import "reflect"

// Environment is the ambient state a Locator inspects.
type Environment interface {
	Lookup(name string) (any, bool)
}

// Locator discovers a compatible wallet extension in an Environment.
type Locator struct {
	env  Environment
	name string
}

// NewLocator returns a locator reading DefaultName from env
func NewLocator(env Environment) *Locator {
	return &Locator{env: env, name: DefaultName}
}

// Locate returns the injected provider when one is present and identifies
// itself as the expected extension. It has no side effects and re-reads the
// environment on every call.
func (l *Locator) Locate() (Provider, bool) {
	if l.env == nil {
		return nil, false
	}

	obj, ok := l.env.Lookup(l.name)
	if !ok || obj == nil {
		return nil, false
	}

	p, ok := obj.(Provider)
	if !ok || !p.IsPhantom() {
		return nil, false
	}
	return p, true
}

// Same reports whether a and b are the same injected provider. Providers
// whose dynamic type is not comparable are compared by value.
func Same(a, b Provider) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb {
		return false
	}
	if ta.Comparable() {
		return a == b
	}
	return reflect.DeepEqual(a, b)
}
