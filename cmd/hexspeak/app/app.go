package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/kestfor/hexspeak/internal/bench"
	"github.com/kestfor/hexspeak/internal/search"
	"github.com/kestfor/hexspeak/internal/services/cluster"
	"github.com/kestfor/hexspeak/internal/services/tasks"
	"github.com/kestfor/hexspeak/internal/wordtable"
	"github.com/kestfor/hexspeak/pkg/logging"
	"github.com/spf13/cobra"
)

type flags struct {
	cfgPath    string
	dictionary string
	alphabet   string
	strategy   string
	workers    int
	servers    []string
}

// app carries the configuration resolved by the root command to its
// subcommands.
type app struct {
	flags flags
	cfg   *Config
}

func New() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:           "hexspeak",
		Short:         "Count and list phrases of distinct hexspeak words",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&a.flags.cfgPath, "config", "c", "", "path to configuration file")
	pf.StringVar(&a.flags.dictionary, "dict", "", "dictionary file, one word per line")
	pf.StringVar(&a.flags.alphabet, "alphabet", "", "letters words are made of, 0 and 1 stand for o and il")
	pf.StringVar(&a.flags.strategy, "strategy", "", "search strategy: recursive or frontier")
	pf.IntVar(&a.flags.workers, "workers", 0, "goroutines sharing one search")
	pf.StringSliceVar(&a.flags.servers, "server", nil, "search service address, e.g. http://localhost:8080; repeat to split the search")

	rootCmd.AddCommand(
		a.countCmd(),
		a.listCmd(),
		a.benchCmd(),
		a.serveCmd(),
	)

	return rootCmd
}

func (a *app) init(cmd *cobra.Command) error {
	cfg, err := LoadConfig(a.flags.cfgPath)
	if err != nil {
		return err
	}

	pf := cmd.Flags()
	if pf.Changed("dict") {
		cfg.Search.Dictionary = a.flags.dictionary
	}
	if pf.Changed("alphabet") {
		cfg.Search.Alphabet = a.flags.alphabet
	}
	if pf.Changed("strategy") {
		cfg.Search.Strategy = a.flags.strategy
	}
	if pf.Changed("workers") {
		cfg.Search.Workers = a.flags.workers
	}
	if pf.Changed("server") {
		cfg.Cluster.Nodes = a.flags.servers
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	logging.InitLogger(cfg.Logger, slog.String("service", "hexspeak"))
	a.cfg = cfg

	return nil
}

func (a *app) countCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "count [target] [alphabet]",
		Short: "Print the number of phrases of exactly target characters",
		Args:  cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			target, alphabet, err := a.searchArgs(args)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			start := time.Now()

			if len(a.cfg.Cluster.Nodes) > 0 {
				progress, err := a.remote(cmd.Context(), target, alphabet, tasks.ModeCount)
				if err != nil {
					return err
				}
				return printTotal(out, progress.Count, time.Since(start))
			}

			engine, err := a.engine(alphabet)
			if err != nil {
				return err
			}

			total, err := engine.Count(cmd.Context(), target)
			if err != nil {
				return err
			}

			return printTotal(out, total, time.Since(start))
		},
	}
}

func (a *app) listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list [target] [alphabet]",
		Short: "Print every phrase of exactly target characters, one per line",
		Args:  cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			target, alphabet, err := a.searchArgs(args)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			start := time.Now()

			if len(a.cfg.Cluster.Nodes) > 0 {
				progress, err := a.remote(cmd.Context(), target, alphabet, tasks.ModeList)
				if err != nil {
					return err
				}
				for _, phrase := range progress.Phrases {
					fmt.Fprintln(out, phrase)
				}
				return printTotal(out, progress.Count, time.Since(start))
			}

			engine, err := a.engine(alphabet)
			if err != nil {
				return err
			}

			phrases, err := engine.Enumerate(cmd.Context(), target)
			if err != nil {
				return err
			}

			var total uint64
			for phrase := range phrases {
				fmt.Fprintln(out, phrase)
				total++
			}
			if err := cmd.Context().Err(); err != nil {
				return err
			}

			return printTotal(out, total, time.Since(start))
		},
	}
}

func (a *app) benchCmd() *cobra.Command {
	var runs int

	cmd := &cobra.Command{
		Use:   "bench [target] [alphabet]",
		Short: "Time repeated counts and summarise them",
		Args:  cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			target, alphabet, err := a.searchArgs(args)
			if err != nil {
				return err
			}

			engine, err := a.engine(alphabet)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			report, err := bench.Run(cmd.Context(), engine, target, runs, func(m bench.Measurement) {
				fmt.Fprintf(out, "%d in %.3f ms.\n", m.Count, m.Millis())
			})
			if err != nil {
				return err
			}

			printReport(out, report)
			return nil
		},
	}

	cmd.Flags().IntVar(&runs, "runs", 10, "number of timed runs")

	return cmd
}

// searchArgs resolves the positional target and alphabet, falling back to
// the configuration.
func (a *app) searchArgs(args []string) (int, *wordtable.Alphabet, error) {
	target := a.cfg.Search.TargetLength
	letters := a.cfg.Search.Alphabet

	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return 0, nil, fmt.Errorf("%w: target %q is not an integer", search.ErrInvalidInput, args[0])
		}
		target = n
	}
	if target < 0 {
		return 0, nil, fmt.Errorf("%w: target length %d is negative", search.ErrInvalidInput, target)
	}

	if len(args) > 1 {
		letters = args[1]
	}

	alphabet, err := wordtable.ParseAlphabet(letters)
	if err != nil {
		return 0, nil, err
	}

	return target, alphabet, nil
}

func (a *app) engine(alphabet *wordtable.Alphabet) (*search.Engine, error) {
	strategy, err := search.ParseStrategy(a.cfg.Search.Strategy)
	if err != nil {
		return nil, err
	}

	slog.Debug("loading dictionary",
		slog.String("path", a.cfg.Search.Dictionary),
		slog.String("alphabet", alphabet.String()),
	)

	table, err := wordtable.Load(a.cfg.Search.Dictionary, alphabet)
	if err != nil {
		return nil, err
	}

	slog.Debug("word table built",
		slog.Int("words", table.Len()),
		slog.Any("lengths", table.Lengths()),
		slog.Int("max_length", table.MaxLength()),
	)

	return search.NewEngine(table,
		search.WithStrategy(strategy),
		search.WithWorkers(a.cfg.Search.Workers),
	), nil
}

// remote runs the search on the configured cluster and waits for it.
func (a *app) remote(ctx context.Context, target int, alphabet *wordtable.Alphabet, mode tasks.Mode) (*tasks.TaskProgress, error) {
	task := &tasks.Task{
		TaskID:       uuid.New(),
		Alphabet:     alphabet.Raw(),
		TargetLength: target,
		Mode:         mode,
		Strategy:     a.cfg.Search.Strategy,
		Workers:      a.cfg.Search.Workers,
	}

	progress, err := cluster.NewHTTP(a.cfg.Cluster).Run(ctx, task)
	if err != nil {
		return nil, err
	}

	if progress.Status != tasks.StatusReady {
		return nil, fmt.Errorf("task %s finished with status %s: %s", progress.TaskID, progress.Status, progress.Error)
	}

	return progress, nil
}

func printTotal(w io.Writer, total uint64, elapsed time.Duration) error {
	_, err := fmt.Fprintf(w, "Total: %d\nElapsed: %s\n", total, elapsed.Round(time.Microsecond))
	return err
}

func printReport(w io.Writer, report *bench.Report) {
	s := report.Millis

	r := lipgloss.NewRenderer(w)
	header := r.NewStyle().Bold(true)
	label := r.NewStyle().Foreground(lipgloss.Color("2"))
	summary := r.NewStyle().Foreground(lipgloss.Color("3"))

	fmt.Fprintln(w)
	fmt.Fprintln(w, header.Render(fmt.Sprintf("Target %d, %d phrases, %d runs (ms):", report.Target, report.Count, s.N)))
	for _, row := range []struct {
		label string
		value float64
	}{
		{"Average value", s.Mean},
		{"Std deviation", s.StdDev},
		{"Sample stddev", s.SampleStdDev},
		{"Median", s.Median},
		{"Min", s.Min},
		{"Max", s.Max},
	} {
		fmt.Fprintf(w, "%s: %.5f\n", label.Render(fmt.Sprintf("%15s", row.label)), row.value)
	}
	fmt.Fprintf(w, "%s: %s\n", summary.Render(fmt.Sprintf("%15s", "Overall")), s)
	fmt.Fprintf(w, "%s: %d KB\n", summary.Render(fmt.Sprintf("%15s", "Memory")), report.MemorySys/1024)
}
