package verstub

import "errors"

var (
	// ErrInvalidStubConfiguration is returned when a stub rule is registered
	// with an empty method name or an empty response.
	ErrInvalidStubConfiguration = errors.New("invalid stub configuration")

	// ErrForeignFake is returned when a fake is used with a registry that
	// does not own it, including after the registry has been torn down.
	ErrForeignFake = errors.New("fake not owned by registry")

	// ErrOutOfOrder is returned by InOrder when calls did not happen in the
	// expected order.
	ErrOutOfOrder = errors.New("calls out of order")
)
