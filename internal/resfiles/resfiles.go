// Package resfiles locates and caches the files belonging to one
// simulation case: the input deck plus the binary output set sharing its
// basename (EGRID, INIT, UNRST, SMSPEC, UNSMRY, RFT) and the PRT report.
package resfiles

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/equinor/res2df/internal/deck"
	"github.com/equinor/res2df/internal/resfile"
)

// ErrMissingFile means a requested companion file does not exist on disk.
var ErrMissingFile = errors.New("missing case file")

// Case is a handle to one simulation case. Binary files and the parsed
// deck are loaded lazily and cached.
type Case struct {
	base string // path without extension

	deckCache *deck.Deck
	files     map[string]*resfile.File
}

// Open accepts a .DATA path, a bare case basename, or the path of any of
// the case's binary output files.
func Open(path string) (*Case, error) {
	ext := filepath.Ext(path)
	switch strings.ToUpper(ext) {
	case ".DATA", ".EGRID", ".INIT", ".UNRST", ".SMSPEC", ".UNSMRY", ".RFT", ".PRT":
		path = strings.TrimSuffix(path, ext)
	}
	return &Case{base: path, files: make(map[string]*resfile.File)}, nil
}

// Basename returns the case name without directory and extension.
func (c *Case) Basename() string {
	return filepath.Base(c.base)
}

// Dir returns the directory holding the case.
func (c *Case) Dir() string {
	return filepath.Dir(c.base)
}

// Path returns the full path of a companion file by extension, e.g.
// "EGRID" or "DATA".
func (c *Case) Path(ext string) string {
	return c.base + "." + ext
}

// Deck parses and caches the input deck.
func (c *Case) Deck() (*deck.Deck, error) {
	if c.deckCache != nil {
		return c.deckCache, nil
	}
	path := c.Path("DATA")
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMissingFile, path)
	}
	d, err := deck.ParseFile(path)
	if err != nil {
		return nil, err
	}
	c.deckCache = d
	return d, nil
}

// File reads and caches a binary companion file by extension.
func (c *Case) File(ext string) (*resfile.File, error) {
	if f, ok := c.files[ext]; ok {
		return f, nil
	}
	path := c.Path(ext)
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMissingFile, path)
	}
	f, err := resfile.Read(path)
	if err != nil {
		return nil, err
	}
	c.files[ext] = f
	return f, nil
}

// EGrid returns the grid geometry file.
func (c *Case) EGrid() (*resfile.File, error) { return c.File("EGRID") }

// Init returns the static per-cell property file.
func (c *Case) Init() (*resfile.File, error) { return c.File("INIT") }

// Restart returns the unified restart file.
func (c *Case) Restart() (*resfile.File, error) { return c.File("UNRST") }

// Smspec returns the summary specification file.
func (c *Case) Smspec() (*resfile.File, error) { return c.File("SMSPEC") }

// Unsmry returns the unified summary data file.
func (c *Case) Unsmry() (*resfile.File, error) { return c.File("UNSMRY") }

// RFT returns the well test data file.
func (c *Case) RFT() (*resfile.File, error) { return c.File("RFT") }

// PRTPath returns the textual report path, if present on disk.
func (c *Case) PRTPath() (string, error) {
	path := c.Path("PRT")
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("%w: %s", ErrMissingFile, path)
	}
	return path, nil
}

// DefaultZonemapPath is where ensemble layouts conventionally put the
// zone-to-layer mapping, relative to the case directory.
func (c *Case) DefaultZonemapPath() string {
	return filepath.Join(c.Dir(), "..", "..", "share", "results", "grids",
		"simgrid_zone_layer_mapping.lyr")
}
