package commands

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/penwyp/go-worktime-tracker/internal/report"
	"github.com/penwyp/go-worktime-tracker/internal/util"
)

var (
	// Logging related
	debug bool

	// Data path
	dbPath string

	// Output related
	outputFormat string
	timezone     string

	// Filtering and grouping
	duration   string
	groupBy    string
	limit      int
	showHidden bool

	// Aggregation knobs
	mergeGap       time.Duration
	dailyGoalHours float64

	rootCmd = &cobra.Command{
		Use:   "go-worktime-tracker [flags]",
		Short: "Developer work-time tracking and reporting tool",
		Long: `go-worktime-tracker records coding and browsing sessions reported by editor
and browser integrations, and turns the session log into daily, weekly, and
per-project work-time reports.

Examples:
  go-worktime-tracker                                  # Report with default settings
  go-worktime-tracker --duration 7d                    # Report last 7 days
  go-worktime-tracker --group-by project --output json # Per-project totals in JSON
  go-worktime-tracker --group-by week --output summary # Weekly summary with goal bars
  go-worktime-tracker track                            # Run the tracking daemon
  go-worktime-tracker routes add github.com oss        # Map browsing hosts to a project`,
		RunE: runReport,
	}
)

const (
	defaultLogFile = "~/.worktime/logs/app.log"
	defaultDBPath  = "~/.worktime/sessions.db"
)

func init() {
	// Input data configuration
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", defaultDBPath,
		"Session database path")

	// Time filtering
	rootCmd.Flags().StringVarP(&duration, "duration", "d", "",
		"Time duration to look back (e.g., 12h, 7d, 2w, 1m, 2w3d)")

	// Data organization
	rootCmd.Flags().StringVar(&groupBy, "group-by", "day",
		"Group by field (day, week, project)")
	rootCmd.Flags().IntVar(&limit, "limit", 0,
		"Limit result count (0 = unlimited)")
	rootCmd.Flags().BoolVar(&showHidden, "show-hidden", false,
		"Include hidden projects in the report")
	rootCmd.Flags().DurationVar(&mergeGap, "merge-gap", 600*time.Second,
		"Maximum gap between sessions that still counts as one block")
	rootCmd.Flags().Float64Var(&dailyGoalHours, "daily-goal", 6,
		"Daily work goal in hours (summary output only)")

	// Output configuration
	rootCmd.Flags().StringVarP(&outputFormat, "output", "o", "table",
		"Output format (table, json, csv, summary)")
	rootCmd.Flags().StringVar(&timezone, "timezone", "Local",
		"Timezone setting (e.g., Asia/Shanghai, UTC)")

	// System and debugging
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false,
		"Enable debug mode")
}

func runReport(cmd *cobra.Command, args []string) error {
	initRuntime()

	config := &report.Config{
		DBPath:         expandPath(dbPath),
		OutputFormat:   outputFormat,
		Timezone:       timezone,
		Duration:       duration,
		GroupBy:        groupBy,
		Limit:          limit,
		ShowHidden:     showHidden,
		GapTolerance:   mergeGap,
		DailyGoalHours: dailyGoalHours,
	}

	r := report.New(config)
	return r.Run()
}

// initRuntime sets up logging and the timezone-aware clock shared by every
// subcommand.
func initRuntime() {
	logLevel := "info"
	if debug {
		logLevel = "debug"
	}

	logFile := expandPath(defaultLogFile)
	ensureDir(filepath.Dir(logFile))
	util.InitLogger(logLevel, logFile, debug)
	util.InitializeTimeProvider(timezone)
}

func Execute() error {
	return rootCmd.Execute()
}

// Helper functions

func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, path[2:])
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return absPath
}

func ensureDir(dir string) error {
	return os.MkdirAll(dir, 0755)
}
