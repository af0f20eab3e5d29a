package dataset

// Attributes is an ordered set of scalar attributes.
// Values are string, int64 or float64.
type Attributes struct {
	keys   []string
	values map[string]any
}

// Set adds or replaces an attribute, keeping first-insertion order.
func (a *Attributes) Set(key string, value any) {
	if a.values == nil {
		a.values = make(map[string]any)
	}
	if _, ok := a.values[key]; !ok {
		a.keys = append(a.keys, key)
	}
	a.values[key] = value
}

// Get returns the attribute stored under key.
func (a *Attributes) Get(key string) (any, bool) {
	v, ok := a.values[key]
	return v, ok
}

// Keys returns the attribute names in insertion order.
func (a *Attributes) Keys() []string {
	return append([]string(nil), a.keys...)
}

// Len returns the number of attributes.
func (a *Attributes) Len() int { return len(a.keys) }
