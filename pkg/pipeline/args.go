package pipeline

// Args is a flat mapping of argument names to values. Configuration files are decoded
// into Args and the maps are forwarded unmodified to the module constructors, so the
// accessors never mutate the map.
type Args map[string]any

// Has returns true when the key is present.
func (a Args) Has(key string) bool {
	_, ok := a[key]

	return ok
}

// String returns the value for the key as a string, or def when the key is absent or
// not a string.
func (a Args) String(key, def string) string {
	val, ok := a[key].(string)
	if !ok {
		return def
	}

	return val
}

// Int returns the value for the key as an int, or def when the key is absent.
// JSON decoding produces float64 for all numbers, so both forms are accepted.
func (a Args) Int(key string, def int) int {
	switch val := a[key].(type) {
	case int:
		return val
	case int64:
		return int(val)
	case float64:
		return int(val)
	}

	return def
}

// Float returns the value for the key as a float64, or def when the key is absent.
func (a Args) Float(key string, def float64) float64 {
	switch val := a[key].(type) {
	case float64:
		return val
	case int:
		return float64(val)
	}

	return def
}

// Clone returns a shallow copy of the args.
func (a Args) Clone() Args {
	out := make(Args, len(a))
	for key, val := range a {
		out[key] = val
	}

	return out
}
