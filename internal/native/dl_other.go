//go:build !(darwin || freebsd || linux)

package native

import "unsafe"

const libraryLoading = false

func dlopen(path string) (uintptr, error) { return 0, ErrUnsupportedPlatform }

func dlsym(handle uintptr, name string) (uintptr, bool) { return 0, false }

func dlclose(handle uintptr) error { return ErrUnsupportedPlatform }

func newCallback(func(ctx uintptr, t, y unsafe.Pointer, n uintptr, out unsafe.Pointer)) uintptr {
	return 0
}

func registerFunc(fptr any, sym uintptr) {
	panic("native: " + ErrUnsupportedPlatform.Error())
}
