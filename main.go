package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"milkreport/pkg/cache"
	"milkreport/pkg/config"
	"milkreport/pkg/report"
	"milkreport/pkg/rtm"
	"milkreport/pkg/tasks"
)

// cachePurgeCeiling is the housekeeping limit: cache entries older
// than this are deleted at startup regardless of per-call freshness.
const cachePurgeCeiling = time.Hour

var (
	configPath string
	filterFlag string
	maxAgeFlag time.Duration
	verbose    bool

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "milkreport",
	Short: "Summary reports over your Remember The Milk tasks",
	Long: `milkreport pulls lists and tasks from the Remember The Milk REST API,
normalizes them into flat typed records and prints summary reports.

Responses are cached on disk for a short freshness window, so repeated
invocations do not hammer the API.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zcfg := zap.NewProductionConfig()
		zcfg.Encoding = "console"
		zcfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		if verbose {
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zcfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
}

var listsCmd = &cobra.Command{
	Use:   "lists",
	Short: "Print all lists",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := newClient()
		if err != nil {
			return err
		}
		lists, err := client.Lists()
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tSMART\tNAME")
		for _, l := range lists {
			fmt.Fprintf(w, "%s\t%s\t%s\n", l.ID, l.Smart, l.Name)
		}
		return w.Flush()
	},
}

var completedCmd = &cobra.Command{
	Use:   "completed",
	Short: "Tasks completed this year, with a per-week summary",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, cfg, err := newClient()
		if err != nil {
			return err
		}
		loc, err := cfg.Location()
		if err != nil {
			return err
		}

		filter := filterFlag
		if filter == "" {
			start := time.Date(time.Now().In(loc).Year(), 1, 1, 0, 0, 0, 0, loc)
			filter = "CompletedAfter:" + start.Format("02/01/2006")
		}

		records, err := fetchNormalized(client, filter, loc)
		if err != nil {
			return err
		}
		report.SortCompleted(records)

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tLIST\tCOMPLETED\tTIME\tOVERDUE\tPRIO\tOVERDUE*PRIO\tPOSTPONED\tEST")
		for _, t := range records {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%d\t%s\t%d\t%s\n",
				t.Name, t.List, formatDate(t.Completed), t.CompletedTime,
				formatInt(t.Overdue), t.Prio, formatInt(t.OverduePrio),
				t.Postponed, formatInt(t.Estimate))
		}
		if err := w.Flush(); err != nil {
			return err
		}

		fmt.Println("\nPer week and list:")
		w = tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "WEEK\tLIST\tCOUNT\tSUM PRIO\tSUM OVERDUE*PRIO\tSUM EST")
		for _, row := range report.ByWeekAndList(records) {
			fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%d\n",
				formatDate(row.Week), row.List, row.Count,
				row.SumPrio, row.SumOverduePrio, row.SumEstimate)
		}
		return w.Flush()
	},
}

var overdueCmd = &cobra.Command{
	Use:   "overdue",
	Short: "Open tasks past their due date, with a per-list summary",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, cfg, err := newClient()
		if err != nil {
			return err
		}
		loc, err := cfg.Location()
		if err != nil {
			return err
		}

		filter := filterFlag
		if filter == "" {
			filter = "dueBefore:Today AND NOT status:completed"
		}

		records, err := fetchNormalized(client, filter, loc)
		if err != nil {
			return err
		}
		report.SortOverdue(records)

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tLIST\tDUE\tOVERDUE\tPRIO\tOVERDUE*PRIO\tEST")
		for _, t := range records {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\t%s\n",
				t.Name, t.List, formatDate(t.Due), formatInt(t.Overdue),
				t.Prio, formatInt(t.OverduePrio), formatInt(t.Estimate))
		}
		if err := w.Flush(); err != nil {
			return err
		}

		fmt.Println("\nPer list:")
		w = tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "LIST\tCOUNT\tSUM PRIO\tSUM OVERDUE*PRIO\tSUM EST")
		for _, row := range report.ByList(records) {
			fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%d\n",
				row.List, row.Count, row.SumPrio, row.SumOverduePrio, row.SumEstimate)
		}
		return w.Flush()
	},
}

func newClient() (*rtm.Client, *config.Config, error) {
	path := configPath
	if path == "" {
		var err error
		path, err = config.GetConfigPath()
		if err != nil {
			return nil, nil, err
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, nil, fmt.Errorf("could not load config: %w", err)
	}
	if maxAgeFlag > 0 {
		cfg.CacheMaxAge = maxAgeFlag.String()
	}

	store, err := cache.NewStore(cfg.CacheDir)
	if err != nil {
		return nil, nil, err
	}
	if err := store.Purge(cachePurgeCeiling); err != nil {
		logger.Warn("cache purge failed", zap.Error(err))
	}

	client, err := rtm.NewClient(cfg, store, logger)
	if err != nil {
		return nil, nil, err
	}
	return client, cfg, nil
}

// fetchNormalized runs the full read pipeline: lists, tasks matching
// the filter, flatten, normalize. "today" is snapshotted here so one
// run uses a single reference date throughout.
func fetchNormalized(client *rtm.Client, filter string, loc *time.Location) ([]tasks.Task, error) {
	names, err := client.ListNames()
	if err != nil {
		return nil, err
	}
	raw, err := client.Tasks(filter)
	if err != nil {
		return nil, err
	}
	flat, err := tasks.Flatten(raw, names)
	if err != nil {
		return nil, err
	}
	return tasks.Normalize(flat, loc, time.Now())
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}

func formatInt(v *int) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%d", *v)
}

func main() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to the config file (default ~/.config/milkreport/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().DurationVar(&maxAgeFlag, "max-age", 0, "override the task cache freshness window, e.g. 3m or 3h")

	for _, cmd := range []*cobra.Command{completedCmd, overdueCmd} {
		cmd.Flags().StringVar(&filterFlag, "filter", "", "override the task filter (RTM query syntax, passed verbatim)")
	}

	rootCmd.AddCommand(listsCmd, completedCmd, overdueCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
