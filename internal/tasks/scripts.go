package tasks

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

type packageJSON struct {
	Scripts map[string]string `json:"scripts"`
}

// MissingScripts returns the descriptors whose script is not defined in
// projectRoot/package.json.
func MissingScripts(projectRoot string, descs []Descriptor) ([]Descriptor, error) {
	data, err := os.ReadFile(filepath.Join(projectRoot, "package.json"))
	if err != nil {
		return nil, fmt.Errorf("reading package.json: %w", err)
	}
	var pkg packageJSON
	if err := json.Unmarshal(data, &pkg); err != nil {
		return nil, fmt.Errorf("parsing package.json: %w", err)
	}

	var missing []Descriptor
	for _, d := range descs {
		if _, ok := pkg.Scripts[d.Script]; !ok {
			missing = append(missing, d)
		}
	}
	return missing, nil
}
