package skin

import "strings"

// Option applies a configuration option to the Registry.
type Option func(*Registry)

// WithDefault selects the skin used when a request names none.
func WithDefault(name string) Option {
	return func(r *Registry) {
		if name = strings.ToLower(strings.TrimSpace(name)); name != "" {
			r.def = name
		}
	}
}
