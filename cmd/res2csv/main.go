package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/equinor/res2df/internal/bulk"
	"github.com/equinor/res2df/internal/compdat"
	"github.com/equinor/res2df/internal/deck"
	"github.com/equinor/res2df/internal/equil"
	"github.com/equinor/res2df/internal/faults"
	"github.com/equinor/res2df/internal/fipreports"
	"github.com/equinor/res2df/internal/frame"
	"github.com/equinor/res2df/internal/grid"
	"github.com/equinor/res2df/internal/gruptree"
	"github.com/equinor/res2df/internal/nnc"
	"github.com/equinor/res2df/internal/parameters"
	"github.com/equinor/res2df/internal/pillars"
	"github.com/equinor/res2df/internal/plot"
	"github.com/equinor/res2df/internal/pvt"
	"github.com/equinor/res2df/internal/res2log"
	"github.com/equinor/res2df/internal/resfiles"
	"github.com/equinor/res2df/internal/rft"
	"github.com/equinor/res2df/internal/satfunc"
	"github.com/equinor/res2df/internal/summary"
	"github.com/equinor/res2df/internal/trans"
	"github.com/equinor/res2df/internal/tui"
	"github.com/equinor/res2df/internal/vfp"
	"github.com/equinor/res2df/internal/wcon"
	"github.com/equinor/res2df/internal/wellcompletiondata"
	"github.com/equinor/res2df/internal/wellconnstatus"
	"github.com/equinor/res2df/internal/zonemap"
)

var (
	output  string
	verbose bool
	debug   bool
	// summary
	timeIndex     string
	columnKeys    []string
	startDate     string
	endDate       string
	includeParams bool
	// grid / pillars restart selection
	rstdates      string
	dateInHeaders bool
	dropConstants bool
	zonemapPath   string
	// nnc / trans
	coords   bool
	pillarsF bool
	vectors  []string
	boundary bool
	group    bool
	onlyK    bool
	onlyIJ   bool
	withNNC  bool
	// pillars
	region     string
	stackDates bool
	soilCutoff float64
	sgasCutoff float64
	swatCutoff float64
	// deck table keywords
	keywords []string
	// gruptree
	prettyPrint bool
	// wellcompletiondata
	useConnStatus bool
	// bulk
	outputDir string
	workers   int
	// plot
	svgPath    string
	plotWidth  int
	plotHeight int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "res2csv",
		Short: "extract reservoir simulator input and output to CSV",
	}
	rootCmd.PersistentFlags().StringVarP(&output, "output", "o", res2log.MagicStdout, "output CSV file, - for stdout")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "info logging")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "debug logging")
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		compdat.SetLogger(newLogger())
	}

	summaryCmd := &cobra.Command{
		Use:   "summary [case]",
		Short: "summary vectors per date",
		Args:  cobra.ExactArgs(1),
		RunE:  runSummary,
	}
	summaryCmd.Flags().StringVar(&timeIndex, "time-index", "raw", "raw, first, last, daily, weekly, monthly, yearly or an ISO date")
	summaryCmd.Flags().StringSliceVar(&columnKeys, "column-keys", nil, "vector glob patterns, e.g. FOPT or WOPR:*")
	summaryCmd.Flags().StringVar(&startDate, "start-date", "", "crop dates before (ISO)")
	summaryCmd.Flags().StringVar(&endDate, "end-date", "", "crop dates after (ISO)")
	summaryCmd.Flags().BoolVar(&includeParams, "params", false, "merge parameters.txt key-values as columns")

	gridCmd := &cobra.Command{
		Use:   "grid [case]",
		Short: "one row per active cell, static and dynamic data",
		Args:  cobra.ExactArgs(1),
		RunE:  runGrid,
	}
	gridCmd.Flags().StringVar(&rstdates, "rstdates", "", "restart dates: first, last, all or an ISO date")
	gridCmd.Flags().BoolVar(&dateInHeaders, "dateinheaders", false, "VEC@DATE column names instead of stacked rows")
	gridCmd.Flags().BoolVar(&dropConstants, "dropconstants", false, "drop columns with a single distinct value")
	gridCmd.Flags().StringVar(&zonemapPath, "zonemap", "", "lyr or yaml zone file (default: the ensemble share/results/grids location)")

	nncCmd := &cobra.Command{
		Use:   "nnc [case]",
		Short: "non-neighbour connections with transmissibility",
		Args:  cobra.ExactArgs(1),
		RunE:  runNnc,
	}
	nncCmd.Flags().BoolVar(&coords, "coords", false, "add connection midpoint coordinates")
	nncCmd.Flags().BoolVar(&pillarsF, "pillars", false, "keep only vertical connections")

	transCmd := &cobra.Command{
		Use:   "trans [case]",
		Short: "neighbour transmissibilities",
		Args:  cobra.ExactArgs(1),
		RunE:  runTrans,
	}
	transCmd.Flags().StringSliceVar(&vectors, "vectors", nil, "INIT vectors to attach to both sides, e.g. FIPNUM")
	transCmd.Flags().BoolVar(&boundary, "boundaryfilter", false, "keep only connections crossing a vector boundary")
	transCmd.Flags().BoolVar(&group, "group", false, "sum transmissibility over vector value pairs")
	transCmd.Flags().BoolVar(&onlyK, "onlyk", false, "vertical connections only")
	transCmd.Flags().BoolVar(&onlyIJ, "onlyij", false, "horizontal connections only")
	transCmd.Flags().BoolVar(&coords, "coords", false, "add midpoint coordinates")
	transCmd.Flags().BoolVar(&withNNC, "nnc", false, "append non-neighbour connections")

	pillarsCmd := &cobra.Command{
		Use:   "pillars [case]",
		Short: "per-pillar volumetrics and fluid contacts",
		Args:  cobra.ExactArgs(1),
		RunE:  runPillars,
	}
	pillarsCmd.Flags().StringVar(&region, "region", "", "INIT vector to group by, e.g. FIPNUM")
	pillarsCmd.Flags().StringVar(&rstdates, "rstdates", "", "restart dates: first, last, all or an ISO date")
	pillarsCmd.Flags().BoolVar(&stackDates, "stackdates", false, "one row per pillar per date")
	pillarsCmd.Flags().Float64Var(&soilCutoff, "soilcutoff", pillars.DefaultSoilCutoff, "oil saturation cutoff")
	pillarsCmd.Flags().Float64Var(&sgasCutoff, "sgascutoff", pillars.DefaultSgasCutoff, "gas saturation cutoff")
	pillarsCmd.Flags().Float64Var(&swatCutoff, "swatcutoff", pillars.DefaultSwatCutoff, "water saturation cutoff")

	rftCmd := &cobra.Command{
		Use:   "rft [case]",
		Short: "RFT survey data per well connection",
		Args:  cobra.ExactArgs(1),
		RunE:  caseTable(func(c *resfiles.Case) (*frame.Table, error) { return rft.Df(c) }),
	}

	compdatCmd := &cobra.Command{
		Use:   "compdat [case]",
		Short: "well completions per date",
		Args:  cobra.ExactArgs(1),
		RunE:  deckTable(compdat.Df),
	}

	wconCmd := &cobra.Command{
		Use:   "wcon [case]",
		Short: "well control keywords per date",
		Args:  cobra.ExactArgs(1),
		RunE:  deckTable(wcon.Df),
	}

	faultsCmd := &cobra.Command{
		Use:   "faults [case]",
		Short: "fault cells from the FAULTS keyword",
		Args:  cobra.ExactArgs(1),
		RunE:  deckTable(faults.Df),
	}

	gruptreeCmd := &cobra.Command{
		Use:   "gruptree [case]",
		Short: "group tree edges per date",
		Args:  cobra.ExactArgs(1),
		RunE:  runGruptree,
	}
	gruptreeCmd.Flags().BoolVar(&prettyPrint, "prettyprint", false, "print indented trees instead of CSV")

	equilCmd := &cobra.Command{
		Use:   "equil [case]",
		Short: "EQUIL and contact keywords",
		Args:  cobra.ExactArgs(1),
		RunE:  deckTable(func(d *deck.Deck) (*frame.Table, error) { return equil.Df(d, keywords...) }),
	}
	equilCmd.Flags().StringSliceVar(&keywords, "keywords", nil, "keywords to include (default all supported)")

	satfuncCmd := &cobra.Command{
		Use:   "satfunc [case]",
		Short: "saturation function tables",
		Args:  cobra.ExactArgs(1),
		RunE:  deckTable(func(d *deck.Deck) (*frame.Table, error) { return satfunc.Df(d, keywords...) }),
	}
	satfuncCmd.Flags().StringSliceVar(&keywords, "keywords", nil, "keywords to include (default all supported)")

	pvtCmd := &cobra.Command{
		Use:   "pvt [case]",
		Short: "PVT property tables",
		Args:  cobra.ExactArgs(1),
		RunE:  deckTable(func(d *deck.Deck) (*frame.Table, error) { return pvt.Df(d, keywords...) }),
	}
	pvtCmd.Flags().StringSliceVar(&keywords, "keywords", nil, "keywords to include (default all supported)")

	vfpCmd := &cobra.Command{
		Use:   "vfp [case]",
		Short: "vertical flow performance tables",
		Args:  cobra.ExactArgs(1),
		RunE:  deckTable(func(d *deck.Deck) (*frame.Table, error) { return vfp.Df(d, keywords...) }),
	}
	vfpCmd.Flags().StringSliceVar(&keywords, "keywords", nil, "VFPPROD and/or VFPINJ")

	fipreportsCmd := &cobra.Command{
		Use:   "fipreports [case or PRT file]",
		Short: "balance reports from the PRT file",
		Args:  cobra.ExactArgs(1),
		RunE:  runFipreports,
	}

	wellconnstatusCmd := &cobra.Command{
		Use:   "wellconnstatus [case]",
		Short: "connection open/shut history from summary data",
		Args:  cobra.ExactArgs(1),
		RunE:  caseTable(func(c *resfiles.Case) (*frame.Table, error) { return wellconnstatus.Df(c) }),
	}

	wellcompletiondataCmd := &cobra.Command{
		Use:   "wellcompletiondata [case]",
		Short: "per-zone completions with aggregated KH",
		Args:  cobra.ExactArgs(1),
		RunE:  runWellcompletiondata,
	}
	wellcompletiondataCmd.Flags().StringVar(&zonemapPath, "zonemap", "", "lyr or yaml zone file (default: the ensemble share/results/grids location)")
	wellcompletiondataCmd.Flags().BoolVar(&useConnStatus, "use-wellconnstatus", false, "refine open/shut with summary CPI events")

	bulkCmd := &cobra.Command{
		Use:   "bulk [subcommand] [cases...]",
		Short: "run one extraction over many cases concurrently",
		Args:  cobra.MinimumNArgs(2),
		RunE:  runBulk,
	}
	bulkCmd.Flags().StringVar(&outputDir, "outputdir", "res2csv-out", "root directory for per-case output")
	bulkCmd.Flags().IntVar(&workers, "workers", 0, "concurrent cases, 0 for default")

	plotCmd := &cobra.Command{
		Use:   "plot [case] [vector]",
		Short: "plot one summary vector",
		Args:  cobra.ExactArgs(2),
		RunE:  runPlot,
	}
	plotCmd.Flags().StringVar(&svgPath, "svg", "", "write an SVG chart to this file instead of ASCII")
	plotCmd.Flags().IntVar(&plotWidth, "width", 80, "plot width")
	plotCmd.Flags().IntVar(&plotHeight, "height", 12, "plot height")

	browseCmd := &cobra.Command{
		Use:   "browse [case]",
		Short: "interactively browse summary vectors",
		Args:  cobra.ExactArgs(1),
		RunE:  runBrowse,
	}

	rootCmd.AddCommand(summaryCmd, gridCmd, nncCmd, transCmd, pillarsCmd,
		rftCmd, compdatCmd, wconCmd, faultsCmd, gruptreeCmd, equilCmd,
		satfuncCmd, pvtCmd, vfpCmd, fipreportsCmd, wellconnstatusCmd,
		wellcompletiondataCmd, bulkCmd, plotCmd, browseCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger() *zap.SugaredLogger {
	return res2log.New(res2log.Options{Output: output, Verbose: verbose, Debug: debug})
}

func writeTable(tbl *frame.Table) error {
	log := newLogger()
	if err := tbl.WriteOutput(output); err != nil {
		return err
	}
	log.Infof("wrote %d rows to %s", tbl.Len(), output)
	return nil
}

// caseTable adapts an extractor over an opened case to a cobra handler.
func caseTable(f func(*resfiles.Case) (*frame.Table, error)) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		c, err := resfiles.Open(args[0])
		if err != nil {
			return err
		}
		tbl, err := f(c)
		if err != nil {
			return err
		}
		return writeTable(tbl)
	}
}

// deckTable adapts an extractor over the parsed deck to a cobra handler.
func deckTable(f func(*deck.Deck) (*frame.Table, error)) func(*cobra.Command, []string) error {
	return caseTable(func(c *resfiles.Case) (*frame.Table, error) {
		d, err := c.Deck()
		if err != nil {
			return nil, err
		}
		return f(d)
	})
}

func runSummary(cmd *cobra.Command, args []string) error {
	c, err := resfiles.Open(args[0])
	if err != nil {
		return err
	}
	opts := summary.Options{TimeIndex: timeIndex, ColumnKeys: columnKeys}
	if opts.TimeIndex == "raw" {
		opts.TimeIndex = ""
	}
	if startDate != "" {
		if opts.StartDate, err = time.Parse("2006-01-02", startDate); err != nil {
			return err
		}
	}
	if endDate != "" {
		if opts.EndDate, err = time.Parse("2006-01-02", endDate); err != nil {
			return err
		}
	}
	tbl, err := summary.Df(c, opts)
	if err != nil {
		return err
	}
	if includeParams {
		params, err := parameters.LoadAll(c.Dir())
		if err != nil {
			return err
		}
		parameters.Merge(tbl, params)
	}
	return writeTable(tbl)
}

func runGrid(cmd *cobra.Command, args []string) error {
	c, err := resfiles.Open(args[0])
	if err != nil {
		return err
	}
	zm, err := caseZonemap(c)
	if err != nil {
		return err
	}
	tbl, err := grid.Df(c, grid.Options{
		Rstdates:      rstdates,
		DateInHeaders: dateInHeaders,
		DropConstants: dropConstants,
		Zonemap:       zm,
	})
	if err != nil {
		return err
	}
	return writeTable(tbl)
}

func runNnc(cmd *cobra.Command, args []string) error {
	return caseTable(func(c *resfiles.Case) (*frame.Table, error) {
		return nnc.Df(c, nnc.Options{Coords: coords, Pillars: pillarsF})
	})(cmd, args)
}

func runTrans(cmd *cobra.Command, args []string) error {
	return caseTable(func(c *resfiles.Case) (*frame.Table, error) {
		return trans.Df(c, trans.Options{
			Vectors:  vectors,
			Boundary: boundary,
			Group:    group,
			OnlyK:    onlyK,
			OnlyIJ:   onlyIJ,
			Coords:   coords,
			NNC:      withNNC,
		})
	})(cmd, args)
}

func runPillars(cmd *cobra.Command, args []string) error {
	return caseTable(func(c *resfiles.Case) (*frame.Table, error) {
		return pillars.Df(c, pillars.Options{
			Region:     region,
			Rstdates:   rstdates,
			StackDates: stackDates,
			SoilCutoff: soilCutoff,
			SgasCutoff: sgasCutoff,
			SwatCutoff: swatCutoff,
		})
	})(cmd, args)
}

func runGruptree(cmd *cobra.Command, args []string) error {
	c, err := resfiles.Open(args[0])
	if err != nil {
		return err
	}
	d, err := c.Deck()
	if err != nil {
		return err
	}
	tbl, err := gruptree.Df(d)
	if err != nil {
		return err
	}
	if prettyPrint {
		fmt.Print(gruptree.PrettyPrint(tbl))
		return nil
	}
	return writeTable(tbl)
}

func runFipreports(cmd *cobra.Command, args []string) error {
	if strings.EqualFold(filepath.Ext(args[0]), ".PRT") {
		raw, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		tbl, err := fipreports.ParseString(string(raw))
		if err != nil {
			return err
		}
		return writeTable(tbl)
	}
	return caseTable(func(c *resfiles.Case) (*frame.Table, error) {
		return fipreports.Df(c)
	})(cmd, args)
}

func runWellcompletiondata(cmd *cobra.Command, args []string) error {
	c, err := resfiles.Open(args[0])
	if err != nil {
		return err
	}
	zm, err := caseZonemap(c)
	if err != nil {
		return err
	}
	tbl, err := wellcompletiondata.Df(c, wellcompletiondata.Options{
		ZoneMap:       zm,
		UseConnStatus: useConnStatus,
	})
	if err != nil {
		return err
	}
	return writeTable(tbl)
}

func runBulk(cmd *cobra.Command, args []string) error {
	results, err := bulk.Run(context.Background(), args[1:], bulk.Options{
		Subcommand: args[0],
		OutputDir:  outputDir,
		Workers:    workers,
	}, newLogger())
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "CASE\tROWS\tSTATUS")
	failed := 0
	for _, r := range results {
		status := "ok"
		if r.Err != nil {
			status = r.Err.Error()
			failed++
		}
		fmt.Fprintf(w, "%s\t%d\t%s\n", r.Case, r.Rows, status)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d cases failed", failed, len(results))
	}
	return nil
}

func runPlot(cmd *cobra.Command, args []string) error {
	c, err := resfiles.Open(args[0])
	if err != nil {
		return err
	}
	tbl, err := summary.Df(c, summary.Options{ColumnKeys: []string{args[1]}})
	if err != nil {
		return err
	}
	if svgPath != "" {
		chart, err := plot.SVG(tbl, args[1], plotWidth*8, plotHeight*16)
		if err != nil {
			return err
		}
		return os.WriteFile(svgPath, []byte(chart), 0o644)
	}
	graph, err := plot.Ascii(tbl, args[1], plotWidth, plotHeight)
	if err != nil {
		return err
	}
	fmt.Println(graph)
	return nil
}

func runBrowse(cmd *cobra.Command, args []string) error {
	c, err := resfiles.Open(args[0])
	if err != nil {
		return err
	}
	tbl, err := summary.Df(c, summary.Options{})
	if err != nil {
		return err
	}
	return tui.Run(c.Basename(), tbl)
}

// caseZonemap loads the requested zonemap, falling back to the case's
// default location. No file at the default location is not an error.
func caseZonemap(c *resfiles.Case) (zonemap.ZoneMap, error) {
	if zonemapPath != "" {
		return zonemap.Load(zonemapPath)
	}
	path := c.DefaultZonemapPath()
	if _, err := os.Stat(path); err != nil {
		return nil, nil
	}
	return zonemap.Load(path)
}
