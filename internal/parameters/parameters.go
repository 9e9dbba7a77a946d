// Package parameters discovers and parses the key-value parameter files
// conventionally stored next to a simulation case (parameters.txt,
// parameters.json, parameters.yml), for merging into extracted tables.
package parameters

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/equinor/res2df/internal/frame"
)

var basenames = []string{"parameters.txt", "parameters.json", "parameters.yml"}

// FindFiles returns existing parameter files for a case directory,
// searching the directory itself and up to two parent levels, nearest
// first.
func FindFiles(caseDir string) []string {
	var found []string
	dir := caseDir
	for level := 0; level < 3; level++ {
		for _, base := range basenames {
			path := filepath.Join(dir, base)
			if _, err := os.Stat(path); err == nil {
				found = append(found, path)
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return found
}

// Load parses one parameter file by extension.
func Load(path string) (map[string]any, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		out := map[string]any{}
		if err := json.Unmarshal(raw, &out); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return out, nil
	case ".yml", ".yaml":
		out := map[string]any{}
		if err := yaml.Unmarshal(raw, &out); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return out, nil
	default:
		return parseTxt(string(raw)), nil
	}
}

// parseTxt reads "KEY value" lines, numbers recognized where possible.
func parseTxt(text string) map[string]any {
	out := map[string]any{}
	for _, line := range strings.Split(text, "\n") {
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		key := fields[0]
		value := strings.Join(fields[1:], " ")
		if n, err := strconv.Atoi(value); err == nil {
			out[key] = n
		} else if f, err := strconv.ParseFloat(value, 64); err == nil {
			out[key] = f
		} else {
			out[key] = value
		}
	}
	return out
}

// LoadAll merges every discovered parameter file for a case directory.
// Files closer to the case win on key conflicts.
func LoadAll(caseDir string) (map[string]any, error) {
	merged := map[string]any{}
	files := FindFiles(caseDir)
	for i := len(files) - 1; i >= 0; i-- {
		params, err := Load(files[i])
		if err != nil {
			return nil, err
		}
		for k, v := range params {
			merged[k] = v
		}
	}
	return merged, nil
}

// Merge adds each parameter as a constant column on a table. Existing
// columns are not overwritten.
func Merge(tbl *frame.Table, params map[string]any) {
	for key, value := range params {
		if tbl.Has(key) {
			continue
		}
		vals := make([]any, tbl.Len())
		for i := range vals {
			vals[i] = value
		}
		tbl.AddColumn(key, vals)
	}
}
