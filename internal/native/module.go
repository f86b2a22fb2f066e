package native

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sync"
)

// LibraryExt is the shared library extension of the running platform.
func LibraryExt() string {
	if runtime.GOOS == "darwin" {
		return ".dylib"
	}
	return ".so"
}

// LibraryPath resolves a solver name inside dir. lib<name><ext> is
// preferred; a bare <name>.so is accepted when the prefixed file is absent.
func LibraryPath(dir, name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("%w: empty solver name", ErrModuleNotFound)
	}
	candidates := []string{
		filepath.Join(dir, "lib"+name+LibraryExt()),
		filepath.Join(dir, name+".so"),
	}
	for _, p := range candidates {
		info, err := os.Stat(p)
		if err == nil && !info.IsDir() {
			return p, nil
		}
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %s: %v", ErrModuleNotFound, p, err)
		}
	}
	return "", fmt.Errorf("%w: %s", ErrModuleNotFound, candidates[0])
}

// Module is a loaded shared library. Two Opens of the same path yield two
// independent modules.
type Module struct {
	path string

	mu     sync.Mutex
	handle uintptr
}

func Open(path string) (*Module, error) {
	if !libraryLoading {
		return nil, ErrUnsupportedPlatform
	}
	h, err := dlopen(path)
	if err != nil {
		return nil, err
	}
	return &Module{path: path, handle: h}, nil
}

func (m *Module) Path() string { return m.path }

// Lookup returns the address of an exported symbol.
func (m *Module) Lookup(symbol string) (uintptr, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.handle == 0 {
		return 0, ErrClosed
	}
	sym, ok := dlsym(m.handle, symbol)
	if !ok {
		return 0, fmt.Errorf("%w: %s in %s", ErrSymbolMissing, symbol, m.path)
	}
	return sym, nil
}

// Close unloads the library. Routines bound from it must not be called
// afterwards. Closing twice is a no-op.
func (m *Module) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.handle == 0 {
		return nil
	}
	err := dlclose(m.handle)
	m.handle = 0
	if err != nil {
		return fmt.Errorf("native: close %s: %w", m.path, err)
	}
	return nil
}
