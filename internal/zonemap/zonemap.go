// Package zonemap maps simulation layers (K indices) to named zones,
// parsed from lyr files or the YAML zranges format, and merges the ZONE
// column onto layer-indexed tables.
package zonemap

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/equinor/res2df/internal/frame"
)

// ErrBadZoneLine means an lyr line could not be interpreted.
var ErrBadZoneLine = errors.New("bad zone definition line")

// ZoneMap maps a 1-based K layer to its zone name.
type ZoneMap map[int]string

// Load reads a zonemap, dispatching on file extension (.lyr or
// .yml/.yaml).
func Load(path string) (ZoneMap, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yml", ".yaml":
		return ParseYAMLFile(path)
	default:
		return ParseLyrFile(path)
	}
}

// ParseLyrFile reads an lyr zone file: one zone per line as
// 'ZoneName' fromK-toK (or a single layer), optionally followed by a
// color token which is ignored.
func ParseLyrFile(path string) (ZoneMap, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseLyr(string(raw))
}

// ParseLyr parses lyr text.
func ParseLyr(text string) (ZoneMap, error) {
	zones := ZoneMap{}
	for lineno, line := range strings.Split(text, "\n") {
		if i := strings.Index(line, "--"); i >= 0 {
			line = line[:i]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		name, rest, err := splitZoneName(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineno+1, err)
		}
		fields := strings.Fields(rest)
		if len(fields) == 0 {
			return nil, fmt.Errorf("line %d: %w: no layer range", lineno+1, ErrBadZoneLine)
		}
		from, to, err := parseRange(fields[0])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineno+1, err)
		}
		for k := from; k <= to; k++ {
			zones[k] = name
		}
	}
	return zones, nil
}

func splitZoneName(line string) (name, rest string, err error) {
	if line[0] == '\'' || line[0] == '"' {
		quote := line[0]
		end := strings.IndexByte(line[1:], quote)
		if end < 0 {
			return "", "", fmt.Errorf("%w: unterminated quote", ErrBadZoneLine)
		}
		return line[1 : end+1], line[end+2:], nil
	}
	fields := strings.SplitN(line, " ", 2)
	if len(fields) != 2 {
		return "", "", fmt.Errorf("%w: %q", ErrBadZoneLine, line)
	}
	return fields[0], fields[1], nil
}

func parseRange(tok string) (int, int, error) {
	if from, to, found := strings.Cut(tok, "-"); found {
		lo, err1 := strconv.Atoi(strings.TrimSpace(from))
		hi, err2 := strconv.Atoi(strings.TrimSpace(to))
		if err1 != nil || err2 != nil {
			return 0, 0, fmt.Errorf("%w: range %q", ErrBadZoneLine, tok)
		}
		return lo, hi, nil
	}
	k, err := strconv.Atoi(tok)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: layer %q", ErrBadZoneLine, tok)
	}
	return k, k, nil
}

// yamlZones is the zranges document: a list of single-entry maps from
// zone name to [from, to].
type yamlZones struct {
	Zranges []map[string][]int `yaml:"zranges"`
}

// ParseYAMLFile reads a YAML zranges zonemap.
func ParseYAMLFile(path string) (ZoneMap, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc yamlZones
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	zones := ZoneMap{}
	for _, entry := range doc.Zranges {
		for name, span := range entry {
			if len(span) != 2 {
				return nil, fmt.Errorf("%s: %w: zone %s", path, ErrBadZoneLine, name)
			}
			for k := span[0]; k <= span[1]; k++ {
				zones[k] = name
			}
		}
	}
	return zones, nil
}

// Merge adds a ZONE column to a table by looking up its K column.
// Layers outside the map are left missing.
func (z ZoneMap) Merge(tbl *frame.Table, kColumn string) {
	ks := tbl.Floats(kColumn)
	zones := make([]any, tbl.Len())
	for i, k := range ks {
		if zone, ok := z[int(k)]; ok {
			zones[i] = zone
		}
	}
	tbl.AddColumn("ZONE", zones)
}
