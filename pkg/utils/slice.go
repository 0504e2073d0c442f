package utils

// Or returns the first non-zero value.
func Or[T comparable](vals ...T) T {
	var zero T
	for _, v := range vals {
		if v != zero {
			return v
		}
	}
	return zero
}

// FilterSlice maps in through f, dropping elements for which f reports false.
func FilterSlice[S any, D any](in []S, f func(S) (D, bool)) []D {
	out := make([]D, 0, len(in))
	for _, s := range in {
		if d, ok := f(s); ok {
			out = append(out, d)
		}
	}
	return out
}
