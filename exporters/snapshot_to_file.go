package exporters

import (
	"fmt"

	"github.com/alonana/perfshark/core"
)

// SnapshotToFile writes the marshaled snapshot and returns its absolute path.
func SnapshotToFile(data []byte, path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("empty save path")
	}

	absolute, err := core.SaveToFile(path, data)
	if err != nil {
		return "", err
	}

	core.V1("%v bytes dumped to file %v", len(data), absolute)
	return absolute, nil
}
