package bulk

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/equinor/res2df/internal/res2log"
)

const testDeck = `START
 1 'JAN' 2020 /

WELSPECS
 'OP1' 'OPS' 1 1 1* 'OIL' /
/

COMPDAT
 'OP1' 1 1 1 2 'OPEN' /
/
`

func TestBulkRun(t *testing.T) {
	dir := t.TempDir()
	var cases []string
	for _, name := range []string{"CASE1", "CASE2"} {
		base := filepath.Join(dir, name)
		if err := os.WriteFile(base+".DATA", []byte(testDeck), 0o644); err != nil {
			t.Fatal(err)
		}
		cases = append(cases, base+".DATA")
	}
	outDir := filepath.Join(dir, "out")

	results, err := Run(context.Background(), cases, Options{
		Subcommand: "compdat",
		OutputDir:  outDir,
		Workers:    2,
	}, res2log.Nop())
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	for _, r := range results {
		if r.Err != nil {
			t.Errorf("case %s failed: %v", r.Case, r.Err)
		}
		if r.Rows != 2 {
			t.Errorf("case %s rows = %d", r.Case, r.Rows)
		}
	}

	data, err := os.ReadFile(filepath.Join(outDir, "CASE1", "metadata.json"))
	if err != nil {
		t.Fatal(err)
	}
	var meta Metadata
	if err := json.Unmarshal(data, &meta); err != nil {
		t.Fatal(err)
	}
	if meta.Case != "CASE1" || meta.Subcommand != "compdat" || meta.Rows != 2 {
		t.Errorf("metadata = %+v", meta)
	}
	if _, err := os.Stat(filepath.Join(outDir, "CASE2", "compdat.csv")); err != nil {
		t.Error(err)
	}
}

func TestBulkFailuresAreIsolated(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "GOOD")
	if err := os.WriteFile(good+".DATA", []byte(testDeck), 0o644); err != nil {
		t.Fatal(err)
	}
	missing := filepath.Join(dir, "MISSING")

	results, err := Run(context.Background(), []string{good, missing}, Options{
		Subcommand: "compdat",
		OutputDir:  filepath.Join(dir, "out"),
	}, res2log.Nop())
	if err != nil {
		t.Fatal(err)
	}
	if results[0].Err != nil {
		t.Errorf("good case failed: %v", results[0].Err)
	}
	if results[1].Err == nil {
		t.Error("missing case should fail")
	}
}

func TestBulkUnknownSubcommand(t *testing.T) {
	_, err := Run(context.Background(), nil, Options{
		Subcommand: "nosuch", OutputDir: t.TempDir(),
	}, res2log.Nop())
	if !errors.Is(err, ErrUnknownSubcommand) {
		t.Errorf("expected ErrUnknownSubcommand, got %v", err)
	}
}
