// Package bulk converts many simulation cases concurrently: each case
// gets its own output directory with the extracted CSV and a
// metadata.json describing the conversion.
package bulk

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/equinor/res2df/internal/compdat"
	"github.com/equinor/res2df/internal/deck"
	"github.com/equinor/res2df/internal/equil"
	"github.com/equinor/res2df/internal/faults"
	"github.com/equinor/res2df/internal/fipreports"
	"github.com/equinor/res2df/internal/frame"
	"github.com/equinor/res2df/internal/grid"
	"github.com/equinor/res2df/internal/gruptree"
	"github.com/equinor/res2df/internal/nnc"
	"github.com/equinor/res2df/internal/pillars"
	"github.com/equinor/res2df/internal/pvt"
	"github.com/equinor/res2df/internal/resfiles"
	"github.com/equinor/res2df/internal/rft"
	"github.com/equinor/res2df/internal/satfunc"
	"github.com/equinor/res2df/internal/summary"
	"github.com/equinor/res2df/internal/trans"
	"github.com/equinor/res2df/internal/vfp"
	"github.com/equinor/res2df/internal/wcon"
	"github.com/equinor/res2df/internal/wellconnstatus"
)

// ErrUnknownSubcommand means no extractor is registered for the name.
var ErrUnknownSubcommand = errors.New("unknown subcommand")

// Extractor converts one case to a table.
type Extractor func(*resfiles.Case) (*frame.Table, error)

// Extractors maps subcommand names to their converters, for the bulk
// runner and the CLI.
var Extractors = map[string]Extractor{
	"summary": func(c *resfiles.Case) (*frame.Table, error) {
		return summary.Df(c, summary.Options{})
	},
	"grid": func(c *resfiles.Case) (*frame.Table, error) {
		return grid.Df(c, grid.Options{})
	},
	"nnc": func(c *resfiles.Case) (*frame.Table, error) {
		return nnc.Df(c, nnc.Options{})
	},
	"trans": func(c *resfiles.Case) (*frame.Table, error) {
		return trans.Df(c, trans.Options{})
	},
	"pillars": func(c *resfiles.Case) (*frame.Table, error) {
		return pillars.Df(c, pillars.Options{})
	},
	"rft":            rft.Df,
	"fipreports":     fipreports.Df,
	"wellconnstatus": wellconnstatus.Df,
	"compdat":        deckExtractor(compdat.Df),
	"wcon":           deckExtractor(wcon.Df),
	"faults":         deckExtractor(faults.Df),
	"gruptree":       deckExtractor(gruptree.Df),
	"equil": deckExtractor(func(d *deck.Deck) (*frame.Table, error) {
		return equil.Df(d)
	}),
	"satfunc": deckExtractor(func(d *deck.Deck) (*frame.Table, error) {
		return satfunc.Df(d)
	}),
	"pvt": deckExtractor(func(d *deck.Deck) (*frame.Table, error) {
		return pvt.Df(d)
	}),
	"vfp": deckExtractor(func(d *deck.Deck) (*frame.Table, error) {
		return vfp.Df(d)
	}),
}

func deckExtractor(f func(d *deck.Deck) (*frame.Table, error)) Extractor {
	return func(c *resfiles.Case) (*frame.Table, error) {
		d, err := c.Deck()
		if err != nil {
			return nil, err
		}
		return f(d)
	}
}

// Metadata describes one completed conversion.
type Metadata struct {
	Case       string    `json:"case"`
	Subcommand string    `json:"subcommand"`
	Rows       int       `json:"rows"`
	Timestamp  time.Time `json:"timestamp"`
}

// Result is the outcome of one case.
type Result struct {
	Case string
	Rows int
	Err  error
}

// Options controls a bulk run.
type Options struct {
	// Subcommand selects the extractor.
	Subcommand string
	// OutputDir is the root directory for per-case output.
	OutputDir string
	// Workers bounds concurrency; 0 means 4.
	Workers int
}

// Run converts all cases. Extraction failures are reported per case,
// not returned as the run error.
func Run(ctx context.Context, cases []string, opts Options, logger *zap.SugaredLogger) ([]Result, error) {
	extract, ok := Extractors[opts.Subcommand]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSubcommand, opts.Subcommand)
	}
	if opts.Workers <= 0 {
		opts.Workers = 4
	}
	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, err
	}

	results := make([]Result, len(cases))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)
	for i, casePath := range cases {
		i, casePath := i, casePath
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			rows, err := convertOne(casePath, extract, opts)
			results[i] = Result{Case: casePath, Rows: rows, Err: err}
			if err != nil {
				logger.Warnw("conversion failed", "case", casePath, "error", err)
			} else {
				logger.Infow("converted", "case", casePath, "rows", rows)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

func convertOne(casePath string, extract Extractor, opts Options) (int, error) {
	c, err := resfiles.Open(casePath)
	if err != nil {
		return 0, err
	}
	tbl, err := extract(c)
	if err != nil {
		return 0, err
	}
	caseDir := filepath.Join(opts.OutputDir, c.Basename())
	if err := os.MkdirAll(caseDir, 0755); err != nil {
		return 0, err
	}
	csvPath := filepath.Join(caseDir, opts.Subcommand+".csv")
	if err := tbl.WriteOutput(csvPath); err != nil {
		return 0, err
	}
	meta := Metadata{
		Case:       c.Basename(),
		Subcommand: opts.Subcommand,
		Rows:       tbl.Len(),
		Timestamp:  time.Now(),
	}
	metaFile, err := os.Create(filepath.Join(caseDir, "metadata.json"))
	if err != nil {
		return 0, err
	}
	defer metaFile.Close()
	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return 0, err
	}
	return tbl.Len(), nil
}
