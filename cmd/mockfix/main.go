package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/dshills/mockfix/internal/capability"
	"github.com/dshills/mockfix/internal/frequency"
	"github.com/dshills/mockfix/internal/patch"
	"github.com/dshills/mockfix/internal/report"
	"github.com/dshills/mockfix/internal/source"
)

// version is set at build time via -ldflags "-X main.version=x.y.z".
var version = "dev"

// dateEnv overrides the default injected date when --date is not given.
const dateEnv = "MOCKFIX_DATE"

// Exit codes beyond cobra's usage error (1).
const (
	exitBadFlags    = 2
	exitReadFailed  = 3
	exitWriteFailed = 4
)

// logger is built in PersistentPreRunE; tests replace it with zap.NewNop().
var logger = zap.NewNop()

// exitErr carries a numeric exit code through the cobra error path.
type exitErr struct {
	code int
	msg  string
}

func (e *exitErr) Error() string { return e.msg }

// codeError returns an exitErr for the given code.
func codeError(code int, format string, args ...any) error {
	return &exitErr{code: code, msg: fmt.Sprintf(format, args...)}
}

// commonFlags are shared by every rewrite command.
type commonFlags struct {
	out       string
	format    string
	reportOut string
	patchOut  string
}

type frequencyFlags struct {
	commonFlags
	date string
}

type capabilityFlags struct {
	commonFlags
	mappings string
}

func main() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		var ee *exitErr
		// cobra already printed the error
		if errors.As(err, &ee) {
			os.Exit(ee.code)
		}
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var verbose bool
	root := &cobra.Command{
		Use:          "mockfix",
		Short:        "Rewrite fields in a mockData.js file in place",
		Long:         "mockfix applies fixed maintenance rewrites to a JavaScript mock-data file and writes the result back.",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			l, err := newLogger(verbose)
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			logger = l
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = logger.Sync()
		},
	}
	root.PersistentFlags().BoolVar(&verbose, "verbose", false, "Log processing steps to stderr")

	var fflags frequencyFlags
	freqCmd := &cobra.Command{
		Use:   "frequency <file>",
		Short: "Convert Frequency (per year) to an interval in months and add LastDoneDate",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFrequency(args[0], fflags)
		},
	}
	addCommonFlags(freqCmd, &fflags.commonFlags)
	freqCmd.Flags().StringVar(&fflags.date, "date", "", "LastDoneDate to inject (YYYY-MM-DD); defaults to $"+dateEnv+" or "+frequency.DefaultDate)

	var cflags capabilityFlags
	capCmd := &cobra.Command{
		Use:   "capabilities <file>",
		Short: "Rename capability labels",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCapabilities(args[0], cflags)
		},
	}
	addCommonFlags(capCmd, &cflags.commonFlags)
	capCmd.Flags().StringVar(&cflags.mappings, "mappings", "", "YAML file with the rename table (default: built-in table)")

	root.AddCommand(freqCmd, capCmd)
	return root
}

func addCommonFlags(cmd *cobra.Command, c *commonFlags) {
	f := cmd.Flags()
	f.StringVar(&c.out, "out", "", "Write the result to this file instead of overwriting the input")
	f.StringVar(&c.format, "format", "md", "Report format: md or json")
	f.StringVar(&c.reportOut, "report-out", "", "Write the report to file instead of stdout")
	f.StringVar(&c.patchOut, "patch-out", "", "Write the change in diff-match-patch format to this file")
}

// newLogger builds a console logger on stderr. Warnings always show;
// debug output needs --verbose.
func newLogger(verbose bool) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	config.Encoding = "console"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.DisableStacktrace = true
	config.Sampling = nil
	config.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	if verbose {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return config.Build()
}

func runFrequency(path string, flags frequencyFlags) error {
	// --- Step 1: Validate flags ---
	date, err := resolveDate(flags.date)
	if err != nil {
		return codeError(exitBadFlags, "invalid flags: %s", err)
	}
	if err := validateCommon(flags.commonFlags); err != nil {
		return codeError(exitBadFlags, "invalid flags: %s", err)
	}

	// --- Step 2: Load ---
	logger.Debug("loading data file", zap.String("path", path))
	f, err := source.Load(path)
	if err != nil {
		return codeError(exitReadFailed, "loading data file: %s", err)
	}

	// --- Step 3: Rewrite ---
	res := frequency.Rewrite(f.Raw, date)
	for _, o := range res.Occurrences {
		if o.Skipped {
			logger.Warn("frequency left unchanged: value not convertible",
				zap.String("path", path), zap.Int("line", o.Line), zap.String("value", o.Raw))
		}
	}
	logger.Debug("frequency rewrite done",
		zap.Int("rewritten", res.Rewritten()), zap.Int("skipped", res.Skipped()), zap.String("date", date))

	rep := &report.Report{
		Command:     "frequency",
		Summary:     report.Summary{Changed: res.Rewritten(), Skipped: res.Skipped()},
		Frequencies: res.Occurrences,
	}
	return finish(f, res.Text, flags.commonFlags, rep)
}

func runCapabilities(path string, flags capabilityFlags) error {
	// --- Step 1: Validate flags and load the rename table ---
	if err := validateCommon(flags.commonFlags); err != nil {
		return codeError(exitBadFlags, "invalid flags: %s", err)
	}
	mappings := capability.Defaults()
	if flags.mappings != "" {
		logger.Debug("loading mappings", zap.String("path", flags.mappings))
		m, err := capability.LoadMappings(flags.mappings)
		if err != nil {
			return codeError(exitBadFlags, "loading mappings: %s", err)
		}
		mappings = m
	}

	// --- Step 2: Load ---
	logger.Debug("loading data file", zap.String("path", path))
	f, err := source.Load(path)
	if err != nil {
		return codeError(exitReadFailed, "loading data file: %s", err)
	}

	// --- Step 3: Rename ---
	res := capability.Apply(f.Raw, mappings)
	for _, c := range res.Counts {
		logger.Debug("rename applied", zap.String("old", c.Old), zap.String("new", c.New), zap.Int("count", c.Replacements))
	}

	rep := &report.Report{
		Command: "capabilities",
		Summary: report.Summary{Changed: res.Total()},
		Renames: res.Counts,
	}
	return finish(f, res.Text, flags.commonFlags, rep)
}

// finish persists the rewritten text, writes the optional patch, and renders
// the report.
func finish(f *source.File, text string, flags commonFlags, rep *report.Report) error {
	outPath := flags.out
	if outPath == "" {
		outPath = f.Path
	}

	// --- Step 4: Write ---
	if outPath == f.Path && text == f.Raw {
		if err := source.CheckWritable(outPath); err != nil {
			return codeError(exitWriteFailed, "writing data file: %s", err)
		}
		logger.Debug("content unchanged, skipping write", zap.String("path", outPath))
	} else {
		logger.Debug("writing data file", zap.String("path", outPath))
		if err := source.Save(outPath, text, f.Mode); err != nil {
			return codeError(exitWriteFailed, "writing data file: %s", err)
		}
	}

	// --- Step 5: Write patch ---
	if flags.patchOut != "" {
		logger.Debug("writing patch", zap.String("path", flags.patchOut))
		diffText := patch.GenerateDiff(f.Path, f.Raw, text)
		if err := os.WriteFile(flags.patchOut, []byte(diffText), 0o644); err != nil {
			// Continue: the data file is already written.
			logger.Warn("patch write failed", zap.String("path", flags.patchOut), zap.Error(err))
		} else {
			rep.PatchFile = flags.patchOut
		}
	}

	// --- Step 6: Render report ---
	rep.Tool = "mockfix"
	rep.Version = version
	rep.Input = report.FileRef{Path: f.Path, Hash: f.Hash}
	rep.Output = report.FileRef{Path: outPath, Hash: source.Hash([]byte(text))}
	rep.Summary.Unchanged = text == f.Raw

	renderer, err := report.NewRenderer(flags.format)
	if err != nil {
		return codeError(exitBadFlags, "invalid format: %s", err)
	}
	outputBytes, err := renderer.Render(rep)
	if err != nil {
		return codeError(exitBadFlags, "rendering report: %s", err)
	}
	if flags.reportOut != "" {
		if err := os.WriteFile(flags.reportOut, outputBytes, 0o644); err != nil {
			return codeError(exitWriteFailed, "writing report file: %s", err)
		}
		return nil
	}
	if _, err := os.Stdout.Write(outputBytes); err != nil {
		return codeError(exitWriteFailed, "writing report: %s", err)
	}
	// Ensure output ends with a newline for terminal friendliness.
	if len(outputBytes) > 0 && outputBytes[len(outputBytes)-1] != '\n' {
		fmt.Fprintln(os.Stdout)
	}
	return nil
}

// resolveDate picks the injected date from the flag, then the environment,
// then the built-in default, and checks it is a calendar date.
func resolveDate(flagDate string) (string, error) {
	date := flagDate
	if date == "" {
		date = os.Getenv(dateEnv)
	}
	if date == "" {
		date = frequency.DefaultDate
	}
	if _, err := time.Parse(time.DateOnly, date); err != nil {
		return "", fmt.Errorf("--date must be YYYY-MM-DD, got %q", date)
	}
	return date, nil
}

// validateCommon returns an error if any shared flag value is invalid.
func validateCommon(flags commonFlags) error {
	switch flags.format {
	case "json", "md":
	default:
		return fmt.Errorf("--format must be json or md, got %q", flags.format)
	}
	return nil
}
