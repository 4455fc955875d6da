// Package loader reads dsvedit settings layers into nested maps.
//
// A file layer comes from TOML; the environment layer maps prefixed
// variables onto setting paths. Layers are combined with DeepMerge.
package loader

import "os"

// Loader reads one settings layer.
type Loader interface {
	// Load returns the layer's settings, or nil, nil if the source does
	// not exist.
	Load() (map[string]any, error)
}

// FileSystem reads settings files. A missing file must be reported with an
// error wrapping fs.ErrNotExist.
type FileSystem interface {
	ReadFile(path string) ([]byte, error)
}

type osFS struct{}

func (osFS) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// DefaultFS returns the operating system file system.
func DefaultFS() FileSystem {
	return osFS{}
}
