package cli

// This file implements the "publish" command, which uploads built wheels and
// source distributions to a package index through the legacy upload API.

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"wheelpub/internal/keyring"
	"wheelpub/internal/publish"
	"wheelpub/internal/pypirc"
	"wheelpub/pkg/errx"
)

var filepathGlob = filepath.Glob

// PublishManager handles publish operations with injected dependencies.
type PublishManager struct {
	printer   *Printer
	store     keyring.Store
	client    *http.Client
	stdin     *os.File
	stdout    io.Writer
	userAgent string
	logger    *zap.Logger
}

// NewPublishManager creates a PublishManager with the given dependencies.
// Prompts read from stdin and are written to stdout.
func NewPublishManager(printer *Printer, store keyring.Store, client *http.Client, stdin *os.File, stdout io.Writer, version string, logger *zap.Logger) *PublishManager {
	return &PublishManager{
		printer:   printer,
		store:     store,
		client:    client,
		stdin:     stdin,
		stdout:    stdout,
		userAgent: "wheelpub/" + version,
		logger:    logger,
	}
}

// DefaultPublishManager returns a PublishManager using the OS secret store
// and the terminal.
func DefaultPublishManager(logger *zap.Logger, version string) *PublishManager {
	return NewPublishManager(DefaultPrinter, keyring.NewSystem(), http.DefaultClient, os.Stdin, os.Stderr, version, logger)
}

// NewPublishCmd builds the publish subcommand.
func NewPublishCmd(logger *zap.Logger, version string) *cobra.Command {
	return NewPublishCmdWithManager(DefaultPublishManager(logger, version))
}

// publishFlags are the raw flag values; changed reports which were set.
type publishFlags struct {
	repository   string
	username     string
	password     string
	skipExisting bool
	noKeyring    bool
	changed      func(name string) bool
}

// NewPublishCmdWithManager returns the publish subcommand using the provided manager.
func NewPublishCmdWithManager(mgr *PublishManager) *cobra.Command {
	var flags publishFlags

	cmd := &cobra.Command{
		Use:   "publish [flags] <artifact or glob>...",
		Short: "Upload wheels and source distributions to a package index",
		Long: `Upload built wheels (.whl) and source distributions (.tar.gz, .zip) to a
package index using the legacy upload API.

Credentials are taken, in order, from WHEELPUB_PYPI_TOKEN, the .pypirc
section of the repository, and finally --username/--password,
WHEELPUB_PASSWORD, the system keyring, or an interactive prompt.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			flags.changed = func(name string) bool { return cmd.Flags().Changed(name) }
			return mgr.Publish(cmd, flags, args)
		},
	}

	cmd.Flags().StringVarP(&flags.repository, "repository-url", "r", publish.DefaultRepositoryURL,
		"Upload URL, or the name of a .pypirc section")
	cmd.Flags().StringVarP(&flags.username, "username", "u", "", "Username for the index")
	cmd.Flags().StringVarP(&flags.password, "password", "p", "", "Password for the index")
	cmd.Flags().BoolVar(&flags.skipExisting, "skip-existing", false, "Continue when a file already exists on the index")
	cmd.Flags().BoolVar(&flags.noKeyring, "no-keyring", false, "Do not read or store passwords in the system keyring")

	return cmd
}

// Publish expands the artifact arguments, resolves settings and uploads.
func (m *PublishManager) Publish(cmd *cobra.Command, flags publishFlags, args []string) error {
	if len(args) == 0 {
		err := newWithSentinel(ErrArtifactsRequired, "at least one artifact or glob pattern is required")
		m.printer.Error("No artifacts given")
		logStructuredError(m.logger, err, "No artifacts given")
		return err
	}

	fileCfg, err := loadToolConfig()
	if err != nil {
		m.printer.Error("Failed to load wheelpub config")
		logStructuredError(m.logger, err, "Failed to load wheelpub config")
		return err
	}
	opts, noKeyring := resolvePublishOptions(flags, fileCfg)

	artifacts, err := expandArtifacts(args)
	if err != nil {
		m.printer.Error(errx.UserString(err))
		logStructuredError(m.logger, err, "Failed to expand artifacts")
		return err
	}

	config := m.loadPypirc(fileCfg)
	store := m.store
	if noKeyring || store == nil {
		store = keyring.Noop{}
	}

	env := publish.Environment{Token: DefaultCLIConfig.Token, Password: DefaultCLIConfig.Password}
	resolver := publish.NewResolver(env, config, store, publish.NewTerminalPrompter(m.stdin, m.stdout), m.printer, m.logger)
	publisher := publish.NewPublisher(resolver, publish.NewBuilder(),
		publish.NewHTTPTransport(m.client, m.userAgent), store, m.printer, m.logger)

	result, err := publisher.Publish(cmd.Context(), opts, artifacts)
	if result != nil {
		m.printSummary(result)
	}
	if err != nil {
		// The publisher already reported bad credentials.
		if !errors.Is(err, publish.ErrAuthentication) {
			m.printer.Error(errx.UserString(err))
		}
		logStructuredError(m.logger, err, "Upload failed")
		return err
	}
	return nil
}

// resolvePublishOptions merges flags and the config file: a flag set on the
// command line wins, then the file, then the flag default. no-keyring is
// also enabled by WHEELPUB_NO_KEYRING.
func resolvePublishOptions(flags publishFlags, file *ToolConfig) (publish.Options, bool) {
	changed := flags.changed
	if changed == nil {
		changed = func(string) bool { return false }
	}
	if file == nil {
		file = &ToolConfig{}
	}

	opts := publish.Options{
		Repository:   flags.repository,
		Username:     flags.username,
		Password:     flags.password,
		SkipExisting: flags.skipExisting || file.SkipExisting,
	}
	if !changed("repository-url") && file.Repository != "" {
		opts.Repository = file.Repository
	}
	if opts.Repository == "" {
		opts.Repository = publish.DefaultRepositoryURL
	}
	if !changed("username") && file.Username != "" {
		opts.Username = file.Username
	}
	if changed("skip-existing") {
		opts.SkipExisting = flags.skipExisting
	}

	noKeyring := flags.noKeyring || DefaultCLIConfig.NoKeyring || file.NoKeyring
	if changed("no-keyring") {
		noKeyring = flags.noKeyring
	}
	return opts, noKeyring
}

// loadPypirc never fails; an unreadable file is reported and treated as empty.
func (m *PublishManager) loadPypirc(fileCfg *ToolConfig) *pypirc.File {
	path, err := resolvePypircPath(fileCfg)
	if err != nil {
		m.logger.Debug("No .pypirc location", zap.Error(err))
		return pypirc.Empty()
	}
	cfg, err := pypirc.Load(path)
	if err != nil {
		m.printer.Warn(fmt.Sprintf("Warning: Failed to read %s, ignoring it: %v", path, err))
		return pypirc.Empty()
	}
	m.logger.Debug("Loaded .pypirc", zap.String("path", path), zap.Strings("sections", cfg.Sections()))
	return cfg
}

// expandArtifacts resolves glob patterns in order. Every pattern must match
// at least one file; repeated files are kept once, at first position.
func expandArtifacts(patterns []string) ([]string, error) {
	seen := make(map[string]bool)
	var artifacts []string
	for _, pattern := range patterns {
		matches, err := filepathGlob(pattern)
		if err != nil {
			return nil, wrapWithSentinelAndContext(ErrInvalidGlob, err,
				fmt.Sprintf("invalid artifact pattern %q: %v", pattern, err), map[string]any{"pattern": pattern})
		}
		if len(matches) == 0 {
			return nil, wrapWithSentinelAndContext(ErrNoArtifactsMatched, nil,
				fmt.Sprintf("no files found for %q", pattern), map[string]any{"pattern": pattern})
		}
		for _, match := range matches {
			if seen[match] {
				continue
			}
			seen[match] = true
			artifacts = append(artifacts, match)
		}
	}
	return artifacts, nil
}

func (m *PublishManager) printSummary(result *publish.BatchResult) {
	if len(result.Uploaded)+len(result.Skipped) == 0 && result.Failure == nil {
		return
	}
	rows := [][]string{{"Artifact", "Status"}}
	for _, artifact := range result.Uploaded {
		rows = append(rows, []string{filepath.Base(artifact), Green("uploaded")})
	}
	for _, artifact := range result.Skipped {
		rows = append(rows, []string{filepath.Base(artifact), Yellow("skipped")})
	}
	if f := result.Failure; f != nil {
		status := "failed"
		if f.Outcome != nil {
			status = f.Outcome.Kind.String()
		}
		rows = append(rows, []string{f.FileName, Red(status)})
	}
	m.printer.Section("Upload summary: " + Cyan(result.URL))
	m.printer.TableBoxed(rows)
}
