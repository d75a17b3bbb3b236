package gpu

import "errors"

var (
	// ErrUnavailable is returned when the binary was built without GPU support
	// or no usable HAL backend is registered
	ErrUnavailable = errors.New("gpu backend unavailable")

	// ErrNoAdapter is returned when the HAL instance exposes no adapters
	ErrNoAdapter = errors.New("no GPU adapter found")

	// ErrTimeout is returned when the device does not finish queued work in time
	ErrTimeout = errors.New("timed out waiting for GPU")
)
