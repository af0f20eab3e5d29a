package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/lssstools/lssstools-go/pkg/lssstools/config"
	"github.com/lssstools/lssstools-go/pkg/lssstools/models"
	"github.com/lssstools/lssstools-go/pkg/lssstools/output"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	outputPath string
	format     string
	pretty     bool
	sheet      string
	tableName  string
	overwrite  bool
)

func newTableCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "table [input.json]",
		Short: "Flatten an export into one row per sample",
		Args:  cobra.ExactArgs(1),
		RunE:  runTable,
	}
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file path (default: stdout; required for xlsx and sqlite)")
	cmd.Flags().StringVar(&format, "format", "", "Output format: csv, json, xlsx, sqlite (default from config)")
	cmd.Flags().BoolVar(&pretty, "pretty", false, "Pretty-print JSON output")
	cmd.Flags().StringVar(&sheet, "sheet", "", "Worksheet name for xlsx output")
	cmd.Flags().StringVar(&tableName, "table-name", "", "Table name for sqlite output")
	return cmd
}

func newNCCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "nc [input.json] [output.nc]",
		Short: "Write a BroadbandTS export to a NetCDF array file",
		Args:  cobra.ExactArgs(2),
		RunE:  runNC,
	}
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace an existing output file")
	return cmd
}

func newGridCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "grid [input.json] [outdir]",
		Short: "Write one time-by-frequency NetCDF grid per Sv region",
		Args:  cobra.ExactArgs(2),
		RunE:  runGrid,
	}
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace existing grid files")
	return cmd
}

func newInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info [input.json]",
		Short: "Summarize an export document",
		Args:  cobra.ExactArgs(1),
		RunE:  runInfo,
	}
}

// tableSettings merges explicitly set flags over the configuration.
func tableSettings(cmd *cobra.Command) config.OutputConfig {
	out := cfg.Output
	if cmd.Flags().Changed("format") {
		out.Format = format
	}
	if cmd.Flags().Changed("pretty") {
		out.Pretty = pretty
	}
	if cmd.Flags().Changed("sheet") {
		out.Sheet = sheet
	}
	return out
}

func runTable(cmd *cobra.Command, args []string) error {
	settings := tableSettings(cmd)
	switch settings.Format {
	case config.FormatCSV, config.FormatJSON:
	case config.FormatXLSX, config.FormatSQLite:
		if outputPath == "" {
			return fmt.Errorf("--output is required for %s output", settings.Format)
		}
	default:
		return fmt.Errorf("invalid format: %s (must be csv, json, xlsx or sqlite)", settings.Format)
	}

	h, err := load(args[0])
	if err != nil {
		return err
	}
	res, err := h.ToTable()
	if err != nil {
		return fmt.Errorf("conversion failed: %w", err)
	}
	for _, s := range res.Skipped {
		logger.Debug("Skipped channel",
			zap.Int("region", s.Region),
			zap.Int("ping", s.Ping),
			zap.Int("channel", s.Channel),
			zap.String("reason", s.Reason))
	}

	switch settings.Format {
	case config.FormatCSV:
		return writeStream(cmd.OutOrStdout(), func(w io.Writer) error {
			return output.WriteCSV(w, res.Table)
		})
	case config.FormatJSON:
		data, err := output.ToJSON(res.Table, settings.Pretty)
		if err != nil {
			return fmt.Errorf("serialization failed: %w", err)
		}
		return writeStream(cmd.OutOrStdout(), func(w io.Writer) error {
			_, err := fmt.Fprintln(w, string(data))
			return err
		})
	case config.FormatXLSX:
		if err := output.WriteXLSX(outputPath, settings.Sheet, res.Table); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	case config.FormatSQLite:
		name := cfg.SQLite.Table
		if cmd.Flags().Changed("table-name") {
			name = tableName
		}
		store, err := output.OpenSQLite(outputPath)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer store.Close()
		conv, err := store.WriteTable(cmd.Context(), name, args[0], string(res.Type), res.Table)
		if err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		logger.Info("Stored conversion", zap.String("id", conv.ID), zap.Int("rows", conv.Rows))
	}
	return nil
}

// writeStream runs write against the output file, or stdout when no
// output path is set.
func writeStream(stdout io.Writer, write func(io.Writer) error) error {
	if outputPath == "" {
		return write(stdout)
	}
	f, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("failed to write output: %w", err)
	}
	return f.Close()
}

func netcdfOptions(cmd *cobra.Command) []output.NetCDFOption {
	ow := cfg.NetCDF.Overwrite
	if cmd.Flags().Changed("overwrite") {
		ow = overwrite
	}
	return []output.NetCDFOption{output.WithOverwrite(ow)}
}

func runNC(cmd *cobra.Command, args []string) error {
	h, err := load(args[0])
	if err != nil {
		return err
	}
	if err := h.ToArrayFile(args[1], netcdfOptions(cmd)...); err != nil {
		return fmt.Errorf("array export failed: %w", err)
	}
	logger.Info("Wrote array file", zap.String("path", args[1]))
	return nil
}

func runGrid(cmd *cobra.Command, args []string) error {
	h, err := load(args[0])
	if err != nil {
		return err
	}
	grids, err := h.SvGrids()
	if err != nil {
		return fmt.Errorf("grid export failed: %w", err)
	}

	dir := args[1]
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	opts := netcdfOptions(cmd)
	eg, _ := errgroup.WithContext(cmd.Context())
	eg.SetLimit(cfg.NetCDF.Workers)
	for _, g := range grids {
		eg.Go(func() error {
			ds, err := g.Dataset()
			if err != nil {
				return fmt.Errorf("grid %s: %w", g.Name(), err)
			}
			path := filepath.Join(dir, g.Name()+".nc")
			if err := output.WriteNetCDF(ds, path, opts...); err != nil {
				return fmt.Errorf("grid %s: %w", g.Name(), err)
			}
			logger.Debug("Wrote grid", zap.String("path", path), zap.Int("filled", g.Filled()))
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return err
	}
	logger.Info("Wrote grids", zap.Int("count", len(grids)), zap.String("dir", dir))
	return nil
}

// documentSummary is the output of the info command.
type documentSummary struct {
	ExportType      models.ExportType `json:"exportType"`
	Regions         int               `json:"regions"`
	Pings           int               `json:"pings"`
	Channels        int               `json:"channels"`
	ErroredChannels int               `json:"erroredChannels"`
	Targets         int               `json:"targets"`
	Info            models.Info       `json:"info"`
}

func summarize(doc *models.Document) documentSummary {
	s := documentSummary{
		ExportType: doc.ExportType(),
		Regions:    len(doc.Regions),
		Info:       doc.Info,
	}
	count := func(pings []models.Ping) {
		s.Pings += len(pings)
		for _, p := range pings {
			for _, ch := range p.Channels {
				s.Channels++
				if ch.Kind == models.ChannelErrored {
					s.ErroredChannels++
					continue
				}
				s.Targets += len(ch.Targets)
			}
		}
	}
	for _, r := range doc.Regions {
		count(r.Pings)
	}
	count(doc.Pings)
	return s
}

func runInfo(cmd *cobra.Command, args []string) error {
	h, err := load(args[0])
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(summarize(h.Document()), "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}
