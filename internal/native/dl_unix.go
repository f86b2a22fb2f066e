//go:build darwin || freebsd || linux

package native

import (
	"fmt"
	"unsafe"

	"github.com/ebitengine/purego"
)

const libraryLoading = true

func dlopen(path string) (uintptr, error) {
	h, err := purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_LOCAL)
	if err != nil {
		return 0, fmt.Errorf("%w %s: %v", ErrModuleLoad, path, err)
	}
	return h, nil
}

func dlsym(handle uintptr, name string) (uintptr, bool) {
	sym, err := purego.Dlsym(handle, name)
	if err != nil || sym == 0 {
		return 0, false
	}
	return sym, true
}

func dlclose(handle uintptr) error {
	return purego.Dlclose(handle)
}

func newCallback(fn func(ctx uintptr, t, y unsafe.Pointer, n uintptr, out unsafe.Pointer)) uintptr {
	return purego.NewCallback(fn)
}

func registerFunc(fptr any, sym uintptr) {
	purego.RegisterFunc(fptr, sym)
}
