package core

import (
	"fmt"
	"os"
	"path/filepath"
)

// SaveToFile writes data to path, creating missing parent folders, and returns the absolute path.
func SaveToFile(path string, data []byte) (string, error) {
	absolute, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve path %v failed: %w", path, err)
	}

	err = os.MkdirAll(filepath.Dir(absolute), 0755)
	if err != nil {
		return "", fmt.Errorf("create folder for %v failed: %w", absolute, err)
	}

	f, err := os.Create(absolute)
	if err != nil {
		return "", fmt.Errorf("create file %v failed: %w", absolute, err)
	}

	_, err = f.Write(data)
	if err != nil {
		f.Close()
		return "", fmt.Errorf("write to file %v failed: %w", absolute, err)
	}

	err = f.Close()
	if err != nil {
		return "", fmt.Errorf("close file %v failed: %w", absolute, err)
	}

	return absolute, nil
}
