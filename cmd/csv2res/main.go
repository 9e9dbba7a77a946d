package main

import (
	"fmt"
	"os"

	"github.com/go-gota/gota/dataframe"
	"github.com/spf13/cobra"

	"github.com/equinor/res2df/internal/equil"
	"github.com/equinor/res2df/internal/frame"
	"github.com/equinor/res2df/internal/pvt"
	"github.com/equinor/res2df/internal/res2log"
	"github.com/equinor/res2df/internal/satfunc"
	"github.com/equinor/res2df/internal/summary"
	"github.com/equinor/res2df/internal/vfp"
)

var (
	output   string
	verbose  bool
	debug    bool
	keywords []string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "csv2res",
		Short: "write CSV data back as simulator input",
	}
	rootCmd.PersistentFlags().StringVarP(&output, "output", "o", res2log.MagicStdout, "output file, - for stdout")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "info logging")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "debug logging")

	equilCmd := &cobra.Command{
		Use:   "equil [csv]",
		Short: "emit EQUIL and contact keywords",
		Args:  cobra.ExactArgs(1),
		RunE:  includeEmitter(equil.ToInclude),
	}
	equilCmd.Flags().StringSliceVar(&keywords, "keywords", nil, "keywords to emit (default all present)")

	pvtCmd := &cobra.Command{
		Use:   "pvt [csv]",
		Short: "emit PVT property keywords",
		Args:  cobra.ExactArgs(1),
		RunE:  includeEmitter(pvt.ToInclude),
	}
	pvtCmd.Flags().StringSliceVar(&keywords, "keywords", nil, "keywords to emit (default all present)")

	satfuncCmd := &cobra.Command{
		Use:   "satfunc [csv]",
		Short: "emit saturation function keywords",
		Args:  cobra.ExactArgs(1),
		RunE:  includeEmitter(satfunc.ToInclude),
	}
	satfuncCmd.Flags().StringSliceVar(&keywords, "keywords", nil, "keywords to emit (default all present)")

	vfpCmd := &cobra.Command{
		Use:   "vfp [csv]",
		Short: "emit VFPPROD and VFPINJ keywords",
		Args:  cobra.ExactArgs(1),
		RunE:  runVfp,
	}

	summaryCmd := &cobra.Command{
		Use:   "summary [csv]",
		Short: "write a binary summary file pair from DATE-indexed CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  runSummary,
	}

	rootCmd.AddCommand(equilCmd, pvtCmd, satfuncCmd, vfpCmd, summaryCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func readTable(path string) (*frame.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	df := dataframe.ReadCSV(f)
	if df.Err != nil {
		return nil, fmt.Errorf("%s: %w", path, df.Err)
	}
	return frame.FromDataFrame(df), nil
}

func writeText(text string) error {
	log := res2log.New(res2log.Options{Output: output, Verbose: verbose, Debug: debug})
	if output == res2log.MagicStdout {
		fmt.Print(text)
		return nil
	}
	if err := os.WriteFile(output, []byte(text), 0o644); err != nil {
		return err
	}
	log.Infof("wrote %s", output)
	return nil
}

// includeEmitter adapts a table-to-include renderer to a cobra handler.
func includeEmitter(f func(*frame.Table, ...string) (string, error)) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		tbl, err := readTable(args[0])
		if err != nil {
			return err
		}
		text, err := f(tbl, keywords...)
		if err != nil {
			return err
		}
		return writeText(text)
	}
}

func runVfp(cmd *cobra.Command, args []string) error {
	tbl, err := readTable(args[0])
	if err != nil {
		return err
	}
	tables, err := vfp.FromDf(tbl)
	if err != nil {
		return err
	}
	return writeText(vfp.ToInclude(tables))
}

func runSummary(cmd *cobra.Command, args []string) error {
	if output == res2log.MagicStdout {
		return fmt.Errorf("summary output is a binary file pair, give a case basename with -o")
	}
	tbl, err := readTable(args[0])
	if err != nil {
		return err
	}
	if err := summary.Write(tbl, output); err != nil {
		return err
	}
	log := res2log.New(res2log.Options{Output: output, Verbose: verbose, Debug: debug})
	log.Infof("wrote %s.SMSPEC and %s.UNSMRY", output, output)
	return nil
}
