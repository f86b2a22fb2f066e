package native

import "errors"

var (
	// ErrModuleNotFound indicates no shared library exists for a solver name.
	ErrModuleNotFound = errors.New("native: solver module not found")

	// ErrModuleLoad indicates the dynamic loader rejected a file.
	ErrModuleLoad = errors.New("native: cannot load solver module")

	// ErrUnsupportedPlatform indicates the process cannot load shared
	// libraries at all.
	ErrUnsupportedPlatform = errors.New("native: dynamic loading is not supported on this platform")

	// ErrUnsupportedPair indicates a (time, number) combination no module
	// exports routines for.
	ErrUnsupportedPair = errors.New("native: unsupported time/number type pair")

	// ErrSymbolMissing indicates a module without one of the required routines.
	ErrSymbolMissing = errors.New("native: required symbol missing")

	// ErrNullResult indicates eval_next returned no state.
	ErrNullResult = errors.New("native: module returned a null state")

	// ErrClosed indicates use of a solver after Close.
	ErrClosed = errors.New("native: solver is closed")
)
