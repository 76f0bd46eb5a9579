package features

import (
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/multierr"
)

// SaveMatrix writes a sparse matrix to path, creating parent directories
func SaveMatrix(path string, m *CSR) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create matrix file: %w", err)
	}
	defer func() {
		err = multierr.Append(err, f.Close())
	}()

	if err := gob.NewEncoder(f).Encode(m); err != nil {
		return fmt.Errorf("failed to encode matrix: %w", err)
	}
	return nil
}

// LoadMatrix reads a sparse matrix written by SaveMatrix
func LoadMatrix(path string) (*CSR, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open matrix file: %w", err)
	}
	defer f.Close()

	var m CSR
	if err := gob.NewDecoder(f).Decode(&m); err != nil {
		return nil, fmt.Errorf("failed to decode matrix: %w", err)
	}
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("invalid matrix in %s: %w", path, err)
	}
	return &m, nil
}
