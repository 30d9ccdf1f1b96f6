package rasterize

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadOptionsFile reads a YAML mapping of rasterizer options, e.g.
//
//	format: jpg
//	quality: 85
//	zoom: 2
//	disable-smart-width: ""
//
// Scalar values are stringified; the mapping is otherwise passed through
// untouched.
func LoadOptionsFile(path string) (Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read options file %s: %w", path, err)
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("could not parse options file %s: %w", path, err)
	}

	opts := make(Options, len(raw))
	for k, v := range raw {
		if v == nil {
			opts[k] = ""
			continue
		}
		opts[k] = fmt.Sprintf("%v", v)
	}
	return opts, nil
}
