package adapt

import "errors"

// ErrNoAdapter is returned by Context.Adapter when every factory in the chain
// declines the requested type.
var ErrNoAdapter = errors.New("adapt: no adapter")

// IsNoAdapterErr returns true if err is or wraps ErrNoAdapter.
func IsNoAdapterErr(err error) bool {
	return errors.Is(err, ErrNoAdapter)
}
