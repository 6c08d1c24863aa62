package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

//go:embed example.novconf
var exampleScript []byte

// Example returns the bundled example script.
func Example() []byte {
	return append([]byte(nil), exampleScript...)
}

// Bootstrap creates dir and writes the example script into it. An existing
// example is left untouched. It returns the example's path.
func Bootstrap(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create config directory: %w", err)
	}
	path := filepath.Join(dir, ExampleName)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if errors.Is(err, os.ErrExist) {
		return path, nil
	}
	if err != nil {
		return "", fmt.Errorf("write example script: %w", err)
	}
	if _, err := f.Write(exampleScript); err != nil {
		f.Close()
		return "", fmt.Errorf("write example script: %w", err)
	}
	return path, f.Close()
}
