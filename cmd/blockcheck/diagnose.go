package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/inlinecheck/internal/diagfmt"
	"github.com/vovakirdan/inlinecheck/internal/driver"
	"github.com/vovakirdan/inlinecheck/internal/gocheck"
	"github.com/vovakirdan/inlinecheck/internal/observ"
	"github.com/vovakirdan/inlinecheck/internal/options"
	"github.com/vovakirdan/inlinecheck/internal/snippet"
	"github.com/vovakirdan/inlinecheck/internal/source"
)

var diagCmd = &cobra.Command{
	Use:   "diag [flags] <file:line[:col]>...",
	Short: "Report the diagnostics inside the ( ... ) block at each position",
	Long: `For every position, find the first '(' at or after it, take the balanced
block it opens and type-check the enclosing package. Only diagnostics inside
the block are reported. Options come from the nearest inlinecheck.toml,
overridden by flags.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runDiagnose,
}

func init() {
	diagCmd.Flags().String("format", "pretty", "output format (pretty|short|json)")
	diagCmd.Flags().StringSlice("tags", nil, "extra build tags")
	diagCmd.Flags().String("goos", "", "target GOOS")
	diagCmd.Flags().String("goarch", "", "target GOARCH")
	diagCmd.Flags().String("mode", "file", "what is type-checked (file|snippet)")
	diagCmd.Flags().Bool("all", false, "include non-error diagnostics such as suppressed ones")
	diagCmd.Flags().Bool("keep-ignores", false, "honor // @typecheck-ignore instead of neutralizing it")
	diagCmd.Flags().Int("jobs", 0, "max parallel checks (0=auto)")
	diagCmd.Flags().String("ui", "auto", "progress view for several targets (auto|on|off)")
	diagCmd.Flags().Bool("fullpath", false, "emit absolute file paths in output")
}

type diagFlags struct {
	format      string
	mode        snippet.Mode
	overrides   options.Options
	all         bool
	keepIgnores bool
	jobs        int
	ui          uiMode
	color       bool
	fullPath    bool
}

func readDiagFlags(cmd *cobra.Command) (diagFlags, error) {
	var f diagFlags
	var err error
	flags := cmd.Flags()

	if f.format, err = flags.GetString("format"); err != nil {
		return f, fmt.Errorf("failed to get format flag: %w", err)
	}
	f.format = strings.ToLower(strings.TrimSpace(f.format))
	switch f.format {
	case "pretty", "short", "json":
	default:
		return f, fmt.Errorf("unknown format %q (expected pretty|short|json)", f.format)
	}

	if f.overrides.Tags, err = flags.GetStringSlice("tags"); err != nil {
		return f, fmt.Errorf("failed to get tags flag: %w", err)
	}
	if f.overrides.GOOS, err = flags.GetString("goos"); err != nil {
		return f, fmt.Errorf("failed to get goos flag: %w", err)
	}
	if f.overrides.GOARCH, err = flags.GetString("goarch"); err != nil {
		return f, fmt.Errorf("failed to get goarch flag: %w", err)
	}

	modeStr, err := flags.GetString("mode")
	if err != nil {
		return f, fmt.Errorf("failed to get mode flag: %w", err)
	}
	if f.mode, err = snippet.ParseMode(modeStr); err != nil {
		return f, err
	}
	if f.all, err = flags.GetBool("all"); err != nil {
		return f, fmt.Errorf("failed to get all flag: %w", err)
	}
	if f.keepIgnores, err = flags.GetBool("keep-ignores"); err != nil {
		return f, fmt.Errorf("failed to get keep-ignores flag: %w", err)
	}
	if f.jobs, err = flags.GetInt("jobs"); err != nil {
		return f, fmt.Errorf("failed to get jobs flag: %w", err)
	}
	uiStr, err := flags.GetString("ui")
	if err != nil {
		return f, fmt.Errorf("failed to get ui flag: %w", err)
	}
	if f.ui, err = readUIMode(uiStr); err != nil {
		return f, err
	}
	if f.fullPath, err = flags.GetBool("fullpath"); err != nil {
		return f, fmt.Errorf("failed to get fullpath flag: %w", err)
	}
	if f.color, err = useColor(cmd); err != nil {
		return f, err
	}
	return f, nil
}

// runDiagnose checks every target, prints the diagnostics in the chosen
// format and fails with errDiagnostics when any target has errors.
func runDiagnose(cmd *cobra.Command, args []string) error {
	flags, err := readDiagFlags(cmd)
	if err != nil {
		return err
	}
	showTimings, err := cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil {
		return fmt.Errorf("failed to get timings flag: %w", err)
	}
	timer := observ.NewTimer()
	if showTimings {
		defer func() { fmt.Fprint(cmd.ErrOrStderr(), timer.Summary()) }()
	}

	var targets []driver.Target
	err = timer.Time("targets", func() (string, error) {
		var err error
		targets, err = parseTargets(args)
		return fmt.Sprintf("%d parsed", len(targets)), err
	})
	if err != nil {
		return err
	}

	stopProfiling, err := setupProfiling(cmd)
	if err != nil {
		return err
	}
	defer stopProfiling()

	ctx, cleanup, err := setupTracing(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	var cacheOpts []driver.CacheOption
	if flags.keepIgnores {
		cacheOpts = append(cacheOpts, driver.WithSourceHook(nil))
	}
	cache := driver.NewProgramCache(&gocheck.PackagesCompiler{}, cacheOpts...)
	session := driver.NewSession(cache)

	reqs := make([]driver.Request, len(targets))
	names := make([]string, len(targets))
	for i, t := range targets {
		reqs[i] = driver.Request{Target: t, Overrides: flags.overrides, Mode: flags.mode}
		names[i] = t.String()
	}

	var outcomes []driver.Outcome
	err = timer.Time("check", func() (string, error) {
		var err error
		outcomes, err = runChecks(ctx, session, reqs, flags, names)
		return fmt.Sprintf("%d %s built", cache.Builds(), plural(int(cache.Builds()), "program")), err
	})
	if err != nil {
		return err
	}
	if !flags.all {
		for i := range outcomes {
			if outcomes[i].Result != nil {
				outcomes[i].Result.Diagnostics = driver.Errors(outcomes[i].Result.Diagnostics)
			}
		}
	}

	var failed bool
	err = timer.Time("render", func() (string, error) {
		var err error
		failed, err = render(cmd.OutOrStdout(), cmd.ErrOrStderr(), outcomes, flags)
		return flags.format, err
	})
	if err != nil {
		return err
	}
	if failed {
		return errDiagnostics
	}
	return nil
}

func runChecks(ctx context.Context, session *driver.Session, reqs []driver.Request, flags diagFlags, names []string) ([]driver.Outcome, error) {
	if flags.format != "json" && shouldUseTUI(flags.ui, len(reqs)) {
		return runChecksWithUI(ctx, session, reqs, flags.jobs, names)
	}
	return session.CheckAll(ctx, reqs, flags.jobs, nil)
}

// render writes every outcome and reports whether any target failed, either
// with error diagnostics or because the check could not run.
func render(stdout, stderr io.Writer, outcomes []driver.Outcome, flags diagFlags) (bool, error) {
	failed := false
	pathMode := diagfmt.PathModeRelative
	if flags.fullPath {
		pathMode = diagfmt.PathModeAbsolute
	}
	baseDir, err := os.Getwd()
	if err != nil {
		return false, err
	}

	if flags.format == "json" {
		out := diagfmt.DiagnosticsOutput{}
		for _, o := range outcomes {
			tj := diagfmt.TargetJSON{}
			if o.Err != nil {
				failed = true
				tj.Error = o.Err.Error()
			}
			if o.Result != nil {
				tj.Target = o.Result.Target.String()
				tj.Options = o.Result.Options.String()
				tj.Config = o.Result.ConfigPath
				tj.Diagnostics = diagfmt.BuildDiagnostics(o.Result.Diagnostics, baseDir, diagfmt.JSONOpts{
					IncludePositions: true,
					PathMode:         pathMode,
				})
				failed = failed || len(driver.Errors(o.Result.Diagnostics)) > 0
			}
			out.Targets = append(out.Targets, tj)
		}
		return failed, diagfmt.JSON(stdout, out)
	}

	fs := source.NewFileSetWithBase(baseDir)
	for _, o := range outcomes {
		if o.Err != nil {
			failed = true
			fmt.Fprintf(stderr, "error: %v\n", o.Err)
			continue
		}
		res := o.Result
		if len(driver.Errors(res.Diagnostics)) > 0 {
			failed = true
		}
		if len(res.Diagnostics) == 0 {
			continue
		}
		switch flags.format {
		case "short":
			if err := diagfmt.Short(stdout, res.Diagnostics, baseDir); err != nil {
				return failed, err
			}
		default:
			if _, ok := fs.GetByPath(res.Unit.Path); !ok {
				addUnit(fs, res)
			}
			diagfmt.Pretty(stdout, res.Diagnostics, fs, diagfmt.PrettyOpts{
				Color:    flags.color,
				Context:  1,
				PathMode: pathMode,
			})
			fmt.Fprintln(stdout)
		}
	}
	if flags.format == "pretty" {
		summarize(stdout, outcomes)
	}
	return failed, nil
}

func addUnit(fs *source.FileSet, res *driver.Result) {
	if res.Unit.Mode == snippet.ModeSnippet {
		fs.AddVirtual(res.Unit.Path, res.Unit.Content)
		return
	}
	fs.Add(res.Unit.Path, res.Unit.Content, 0)
}

func summarize(w io.Writer, outcomes []driver.Outcome) {
	var errs, clean, broken int
	for _, o := range outcomes {
		switch {
		case o.Err != nil:
			broken++
		case len(driver.Errors(o.Result.Diagnostics)) > 0:
			errs += len(driver.Errors(o.Result.Diagnostics))
		default:
			clean++
		}
	}
	fmt.Fprintf(w, "%d %s checked: %d clean, %s", len(outcomes), plural(len(outcomes), "block"), clean, countOf(errs, "error"))
	if broken > 0 {
		fmt.Fprintf(w, ", %d could not be checked", broken)
	}
	fmt.Fprintln(w)
}

func countOf(n int, noun string) string {
	return fmt.Sprintf("%d %s", n, plural(n, noun))
}

func plural(n int, noun string) string {
	if n == 1 {
		return noun
	}
	return noun + "s"
}
