package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"runtime/debug"
	"time"

	"log/slog"

	"github.com/Hanaasagi/paleotext/cmd"
	"github.com/Hanaasagi/paleotext/internal/logger"
	"github.com/Hanaasagi/paleotext/internal/render"
	"github.com/Hanaasagi/paleotext/pkg/noaa"
	"github.com/Hanaasagi/paleotext/pkg/textparse"
	"github.com/adrg/xdg"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

const (
	appName      = "paleotext"
	defaultWidth = 120
)

var (
	Version     = textparse.Version
	CommitSha   = "unknown"
	FullVersion = Version + "-" + CommitSha
)

var appDir = filepath.Join(xdg.StateHome, appName)

func init() {
	// Initialize logging
	if err := os.MkdirAll(appDir, 0755); err != nil {
		panic(fmt.Sprintf("Error creating log directory: %v", err))
	}

	logFilePath := filepath.Join(appDir, appName+".log")
	logger.InitLogger(logFilePath, "info")

	// Initialize crash reporting
	crashFilePath := filepath.Join(appDir, "crash")
	if f, err := os.Create(crashFilePath); err == nil {
		_ = debug.SetCrashOutput(f, debug.CrashOptions{})
	}
}

func defaultConfigPath() string {
	return filepath.Join(xdg.ConfigHome, appName, "config.toml")
}

func newParser(cfg *Config) *textparse.Parser {
	opts := []textparse.Option{}
	if len(cfg.Parser.Sentinels) > 0 {
		opts = append(opts, textparse.WithSentinels(cfg.Parser.Sentinels...))
	}
	if cfg.Parser.SkipToData {
		opts = append(opts, textparse.WithDataDescriptorSkip())
	}
	return textparse.New(opts...)
}

// jsonTable is the CLI's JSON projection of a parsed table. Null cells
// come out as JSON null.
type jsonTable struct {
	Columns []string          `json:"columns"`
	Rows    [][]*string       `json:"rows"`
	Attrs   map[string]string `json:"attrs"`
}

func toJSONTable(t *textparse.Table) jsonTable {
	jt := jsonTable{Columns: t.ColumnNames(), Attrs: t.Attrs}
	for _, row := range t.Rows {
		out := make([]*string, len(row))
		for i, c := range row {
			if c.Valid {
				text := c.Text
				out[i] = &text
			}
		}
		jt.Rows = append(jt.Rows, out)
	}
	return jt
}

func emitTables(tables []*textparse.Table, asJSON bool, previewRows int) error {
	if asJSON {
		jts := make([]jsonTable, len(tables))
		for i, t := range tables {
			jts[i] = toJSONTable(t)
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(jts)
	}

	width := render.TerminalWidth(defaultWidth)
	for i, t := range tables {
		if i > 0 {
			fmt.Println()
		}
		if r := t.Attrs["source_block_range"]; r != "" {
			color.New(color.Faint).Printf("# lines %s\n", r)
		}
		render.Table(os.Stdout, t, previewRows, width)
	}
	return nil
}

func runParse(cfg *Config, file string, asJSON, full bool) error {
	parser := newParser(cfg)
	tables, err := parser.ParseFile(file)
	if err != nil {
		return err
	}
	slog.Info("parsed file", "path", file, "tables", len(tables))

	previewRows := cfg.Core.PreviewRows
	if full {
		previewRows = 0
	}
	return emitTables(tables, asJSON, previewRows)
}

func newSearchClient(cfg *Config) *noaa.Client {
	opts := []noaa.ClientOption{
		noaa.WithRetries(cfg.API.Retries),
		noaa.WithHTTPClient(&http.Client{
			Timeout: time.Duration(cfg.API.TimeoutSeconds) * time.Second,
		}),
	}
	if cfg.API.BaseURL != "" {
		opts = append(opts, noaa.WithBaseURL(cfg.API.BaseURL))
	}
	return noaa.NewClient(opts...)
}

func runSearch(c *cobra.Command, cfg *Config, params *noaa.SearchParams, asJSON bool) error {
	intFlag := func(name string) *int {
		if !c.Flags().Changed(name) {
			return nil
		}
		v, _ := c.Flags().GetInt(name)
		return &v
	}
	params.MinLat = intFlag("min-lat")
	params.MaxLat = intFlag("max-lat")
	params.MinLon = intFlag("min-lon")
	params.MaxLon = intFlag("max-lon")
	params.MinElevation = intFlag("min-elevation")
	params.MaxElevation = intFlag("max-elevation")
	params.EarliestYear = intFlag("earliest-year")
	params.LatestYear = intFlag("latest-year")
	if c.Flags().Changed("reconstruction") {
		v, _ := c.Flags().GetBool("reconstruction")
		params.Reconstruction = &v
	}
	if params.Limit == 0 {
		params.Limit = cfg.API.Limit
	}

	ds := noaa.NewDataset(newSearchClient(cfg))
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	if err := ds.Search(ctx, *params); err != nil {
		return err
	}

	summary := ds.Summary()
	if len(summary.Rows) == 0 {
		fmt.Println("no studies found")
		return nil
	}
	return emitTables([]*textparse.Table{summary}, asJSON, 0)
}

func main() {
	var (
		configPath  string
		showVersion bool
		asJSON      bool
	)

	rootCmd := &cobra.Command{
		Use:   appName,
		Short: "Paleoclimate data access and table extraction",
		Long: color.New(color.FgHiMagenta).Sprintf(
			"Query the NOAA paleo study search service and extract tables from its data files. %s",
			color.New(color.FgBlue).Sprintf("(%s)", FullVersion),
		),
		RunE: func(c *cobra.Command, args []string) error {
			if showVersion {
				fmt.Printf("%s version: %s\n", appName, FullVersion)
				return nil
			}
			return c.Help()
		},
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", defaultConfigPath(), "Path to the TOML config file")
	rootCmd.PersistentFlags().BoolVar(&asJSON, "json", false, "Emit JSON instead of aligned text")
	rootCmd.Flags().BoolVarP(&showVersion, "version", "v", false, "Print version and exit")

	loadConfig := func() (*Config, error) {
		cfg, err := LoadConfigFromFile(configPath)
		if err != nil {
			return nil, err
		}
		return cfg, nil
	}

	var full bool
	parseCmd := &cobra.Command{
		Use:   "parse FILE",
		Short: "Extract tables from a paleoclimatology text file",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return runParse(cfg, args[0], asJSON, full)
		},
	}
	parseCmd.Flags().BoolVar(&full, "all", false, "Print all rows instead of a preview")

	params := &noaa.SearchParams{}
	searchCmd := &cobra.Command{
		Use:   "search",
		Short: "Search NOAA paleo studies",
		RunE: func(c *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return runSearch(c, cfg, params, asJSON)
		},
	}
	searchCmd.Flags().StringVar(&params.NOAAStudyID, "noaa-id", "", "Fetch one study by NOAA study id")
	searchCmd.Flags().StringVar(&params.XMLID, "xml-id", "", "Fetch one study by internal XML id")
	searchCmd.Flags().StringVar(&params.SearchText, "text", "", "Full-text search expression")
	searchCmd.Flags().StringVar(&params.DataTypeID, "data-type", "", "Data type id filter, multiple ids joined with |")
	searchCmd.Flags().StringArrayVar(&params.Investigators, "investigator", nil, "Investigator as \"LastName, Initials\" (repeatable)")
	searchCmd.Flags().StringVar(&params.InvestigatorsAndOr, "investigators-and-or", "", "Combiner for multiple investigators (and|or)")
	searchCmd.Flags().StringArrayVar(&params.Locations, "location", nil, "Location hierarchy using > (repeatable)")
	searchCmd.Flags().StringArrayVar(&params.Keywords, "keyword", nil, "Controlled keyword hierarchy (repeatable)")
	searchCmd.Flags().StringArrayVar(&params.Species, "species", nil, "Four-letter tree species code (repeatable)")
	searchCmd.Flags().Int("min-lat", 0, "Minimum latitude in whole degrees")
	searchCmd.Flags().Int("max-lat", 0, "Maximum latitude in whole degrees")
	searchCmd.Flags().Int("min-lon", 0, "Minimum longitude in whole degrees")
	searchCmd.Flags().Int("max-lon", 0, "Maximum longitude in whole degrees")
	searchCmd.Flags().Int("min-elevation", 0, "Minimum elevation in meters")
	searchCmd.Flags().Int("max-elevation", 0, "Maximum elevation in meters")
	searchCmd.Flags().Int("earliest-year", 0, "Earliest year bound")
	searchCmd.Flags().Int("latest-year", 0, "Latest year bound")
	searchCmd.Flags().StringVar(&params.TimeFormat, "time-format", "", "Year interpretation: CE or BP")
	searchCmd.Flags().StringVar(&params.TimeMethod, "time-method", "", "Time window method: overAny, entireOver, overEntire")
	searchCmd.Flags().Bool("reconstruction", false, "Restrict to reconstruction studies")
	searchCmd.Flags().BoolVar(&params.Recent, "recent", false, "Restrict to recent studies")
	searchCmd.Flags().IntVar(&params.Limit, "limit", 0, "Number of studies to return")

	rootCmd.AddCommand(parseCmd, searchCmd)

	rootCmd.SetHelpTemplate(cmd.HelpTemplate)
	rootCmd.SetUsageFunc(func(c *cobra.Command) error {
		return cmd.ColorUsageFunc(c.OutOrStderr(), c)
	})

	if err := rootCmd.Execute(); err != nil {
		slog.Error("Error executing command", "error", err)
		color.New(color.FgHiRed).Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
