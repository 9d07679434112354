package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"evodash/app"
	"evodash/domain/species"
	"evodash/internal"
	"evodash/internal/config"
	"evodash/internal/dashboard"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "evodash-cli",
		Short: "evodash CLI for rendering, exporting and previewing dashboard passes offline",
	}

	rootCmd.AddCommand(
		newRenderCmd(),
		newExportCmd(),
		newSummaryCmd(),
		newPreviewCmd(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// filterFlags are the dataset and filter flags shared by commands that run
// a pass.
type filterFlags struct {
	data    string
	geo     string
	species string
	region  string
	time    float64
}

func (f *filterFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.data, "data", "", "Dataset URI (defaults to DATA_SOURCE)")
	cmd.Flags().StringVar(&f.geo, "geo", "", "GeoJSON world boundaries URI (defaults to GEO_SOURCE)")
	cmd.Flags().StringVar(&f.species, "species", species.All, "Species filter")
	cmd.Flags().StringVar(&f.region, "region", species.All, "Region (current country) filter")
	cmd.Flags().Float64Var(&f.time, "time", 0, "Time threshold in Mya (defaults to the oldest record)")
}

// run loads the dataset and applies the filter flags.
func (f *filterFlags) run(cmd *cobra.Command) (*dashboard.Controller, error) {
	_ = godotenv.Load() // optional
	if f.data != "" {
		os.Setenv("DATA_SOURCE", f.data)
	}
	if f.geo != "" {
		os.Setenv("GEO_SOURCE", f.geo)
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	internal.DefaultLogger = internal.NewLogger(internal.ParseLogLevel(cfg.LogLevel))

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctrl, err := app.Start(ctx, cfg, nil)
	if err != nil {
		return nil, err
	}

	state := species.FilterState{Species: f.species, Region: f.region, TimeThreshold: ctrl.State().TimeThreshold}
	if cmd.Flags().Changed("time") {
		state.TimeThreshold = f.time
	}
	report, err := ctrl.OnFilterChange(ctx, state)
	if err != nil {
		return nil, err
	}
	for panel, msg := range report.Failures {
		fmt.Fprintf(cmd.ErrOrStderr(), "⚠️  panel %s failed: %s\n", panel, msg)
	}
	return ctrl, nil
}

func newRenderCmd() *cobra.Command {
	var flags filterFlags
	var outDir string

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render every panel as SVG plus an HTML summary page",
		Long: `Run one dashboard pass with the given filter and write each panel to
<out>/<panel>.svg and an index.html that shows them with the summary.

Example: evodash-cli render --data hominins.csv --species "Homo erectus" --out ./site`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, err := flags.run(cmd)
			if err != nil {
				return err
			}
			if err := renderDir(ctrl, outDir); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✅ Rendered %d panels to %s\n", len(ctrl.Panels()), outDir)
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&outDir, "out", "evodash-out", "Output directory")
	return cmd
}

func newExportCmd() *cobra.Command {
	var flags filterFlags
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the aggregates of one pass to an Excel workbook",
		Long: `Run one dashboard pass with the given filter and write every aggregate to
its own sheet of an .xlsx workbook.

Example: evodash-cli export --data hominins.csv --time 2.5 --output aggregates.xlsx`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, err := flags.run(cmd)
			if err != nil {
				return err
			}
			if err := writeWorkbook(ctrl.Aggregates(), ctrl.State(), output); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "💾 Aggregates saved to: %s\n", output)
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&output, "output", "evodash.xlsx", "Workbook path")
	return cmd
}

func newSummaryCmd() *cobra.Command {
	var flags filterFlags

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print the summary statistics of one pass",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, err := flags.run(cmd)
			if err != nil {
				return err
			}
			printSummary(cmd.OutOrStdout(), ctrl.Snapshot())
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}

func printSummary(w io.Writer, snap dashboard.Snapshot) {
	s := snap.Summary
	fmt.Fprintf(w, "\n📊 DASHBOARD SUMMARY\n")
	fmt.Fprintf(w, "Filter: %s\n", snap.State)
	fmt.Fprintf(w, "Records: %d\n", s.Records)
	fmt.Fprintf(w, "Species: %d\n", s.SpeciesCount)
	fmt.Fprintf(w, "Regions: %d\n", s.RegionCount)
	fmt.Fprintf(w, "Time period: %s\n", s.TimePeriod)
	if !s.Empty() {
		fmt.Fprintf(w, "Mean cranial capacity: %.1f cc\n", s.MeanCranialCapacity)
		fmt.Fprintf(w, "Mean height: %.1f cm\n", s.MeanHeight)
	}
	if snap.LastPass != nil {
		fmt.Fprintf(w, "Pass %s took %v\n", snap.LastPass.ID, snap.LastPass.Duration)
	}
}

func newPreviewCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "preview [dir]",
		Short: "Serve a rendered directory over HTTP",
		Long: `Serve the output of "render" so the SVG panels can be viewed in a browser.

Example: evodash-cli preview ./site --addr :8090`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := filepath.Abs(args[0])
			if err != nil {
				return err
			}
			if _, err := os.Stat(filepath.Join(dir, "index.html")); err != nil {
				return fmt.Errorf("%s does not look like a rendered directory: %w", dir, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "🚀 Previewing %s on http://localhost%s\n", dir, addr)
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			return servePreview(ctx, addr, dir)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8090", "Listen address")
	return cmd
}
