package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"wheelpub/internal/cli"
	"wheelpub/pkg/errx"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
	debug   = false
)

// Exit statuses.
const (
	exitFailure     = 1
	exitAuthFailure = 2
)

func main() {
	logger, err := newConsoleLogger(hasDebugFlag(os.Args[1:]))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to init logger: %v\n", err)
		os.Exit(exitFailure)
	}

	cli.ConfigureStyling(os.Stdout)
	initCommands(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = rootCmd.ExecuteContext(ctx)
	stop()
	_ = logger.Sync()
	if err != nil {
		reportError(os.Stderr, err)
		os.Exit(exitCode(err))
	}
}

var rootCmd = &cobra.Command{
	Use:   "wheelpub",
	Short: "Publish Python packages to a package index",
	Long: `wheelpub uploads built Python distributions (wheels and source archives)
to PyPI or any index that speaks the legacy upload API, such as TestPyPI,
pypiserver, Artifactory, Nexus or GitLab.`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Set debug mode globally so logStructuredError can check it
		cli.SetDebugMode(debug)
	},
	// errx failures are reported by the subcommands through the printer;
	// everything else is printed by reportError.
	SilenceErrors: true,
	SilenceUsage:  true,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug mode with structured error logging")
}

func initCommands(logger *zap.Logger) {
	rootCmd.AddCommand(cli.NewPublishCmd(logger, version))
}

// hasDebugFlag looks for --debug before cobra parses flags, since the
// logger level must be known when the commands are built.
func hasDebugFlag(args []string) bool {
	for _, arg := range args {
		switch arg {
		case "--":
			return false
		case "--debug", "--debug=true":
			return true
		}
	}
	return false
}

// reportError prints errors that did not come from a subcommand, such as
// unknown commands or flags. errx errors were already shown by the printer.
func reportError(w io.Writer, err error) {
	if errx.IsError(err) {
		return
	}
	fmt.Fprintf(w, "Error: %v\n", err)
	fmt.Fprintf(w, "Run '%s --help' for usage.\n", rootCmd.CommandPath())
}

// exitCode maps a command error to the process exit status.
func exitCode(err error) int {
	if errx.CodeOf(err) == errx.CodeAuth {
		return exitAuthFailure
	}
	return exitFailure
}

// newConsoleLogger returns a human-friendly console logger with timestamps.
// If debug is true, sets log level to Debug to enable all debug logs.
// Otherwise, sets to ErrorLevel so structured error logs (when debug flag is enabled) will show.
func newConsoleLogger(debug bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	level := zap.ErrorLevel
	if debug {
		level = zap.DebugLevel
	}
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.EncoderConfig = zapcore.EncoderConfig{
		TimeKey:        "ts",
		LevelKey:       "level",
		NameKey:        "",
		CallerKey:      "",
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.CapitalColorLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
	}
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	cfg.DisableCaller = true
	cfg.DisableStacktrace = true
	return cfg.Build()
}
