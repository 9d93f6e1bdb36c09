package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/yaklabco/codefix/internal/configloader"
	"github.com/yaklabco/codefix/internal/logging"
	"github.com/yaklabco/codefix/pkg/codefix"
	"github.com/yaklabco/codefix/pkg/codefix/fixes"
	"github.com/yaklabco/codefix/pkg/config"
	"github.com/yaklabco/codefix/pkg/diag"
	"github.com/yaklabco/codefix/pkg/report"
	"github.com/yaklabco/codefix/pkg/reporter"
)

// session is what every command needs after flags are parsed.
type session struct {
	ctx      context.Context
	logger   *log.Logger
	cfg      *config.Config
	workDir  string
	registry *codefix.Registry
	host     *typesHost
}

// newSession loads configuration, with cliCfg holding flag values, and
// builds the registry the configuration asks for.
func newSession(cmd *cobra.Command, globals *globalFlags, cliCfg *config.Config) (*session, error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	logger := logging.Default()

	workDir, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("get working directory: %w", err)
	}

	if cmd.Flags().Changed("color") {
		cliCfg.Color = globals.color
	}

	// Names are checked against every built-in strategy, so disabling
	// one in config is not reported as unknown.
	known := codefix.NewRegistry()
	fixes.RegisterAll(known)

	loaded, err := configloader.Load(ctx, configloader.LoadOptions{
		WorkingDir:   workDir,
		ExplicitPath: globals.configPath,
		Registry:     known,
		CLIConfig:    cliCfg,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfig, err)
	}
	for _, warning := range loaded.Warnings {
		logger.Warn(warning)
	}
	if len(loaded.LoadedFrom) > 0 {
		logger.Debug("loaded configuration", logging.FieldConfig, loaded.LoadedFrom)
	}

	cfg := loaded.Config
	if !globals.debug && cfg.LogLevel != "" {
		logging.SetLevel(cfg.LogLevel)
		logger = logging.Default()
	}

	ctx = logging.WithFields(logging.WithLogger(ctx, logger), logging.FieldCommand, cmd.Name())
	return &session{
		ctx:      ctx,
		logger:   logging.FromContext(ctx),
		cfg:      cfg,
		workDir:  workDir,
		registry: buildRegistry(cfg),
		host:     newTypesHost(logger, cfg.TypesPackages),
	}, nil
}

// buildRegistry registers the built-in strategies the configuration
// enables.
func buildRegistry(cfg *config.Config) *codefix.Registry {
	strategies := fixes.All()
	if len(cfg.DisableCodes) > 0 {
		codes := make([]diag.Code, 0, len(cfg.DisableCodes))
		for _, c := range cfg.DisableCodes {
			codes = append(codes, diag.Code(c))
		}
		for i, s := range strategies {
			if _, ok := s.(*fixes.DisableChecks); ok {
				strategies[i] = fixes.NewDisableChecks(codes...)
			}
		}
	}

	strategies = slices.DeleteFunc(strategies, func(s codefix.Strategy) bool {
		return !cfg.StrategyEnabled(s.Name())
	})

	reg := codefix.NewRegistry()
	for _, s := range strategies {
		reg.Register(s)
	}
	return reg
}

func (s *session) loadReport(path string) (*report.Program, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: --report is required", ErrUsage)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve report path: %w", err)
	}
	prog, err := report.Load(s.ctx, abs)
	if err != nil {
		return nil, fmt.Errorf("load report: %w", err)
	}
	s.logger.Debug("loaded report",
		logging.FieldReport, abs,
		logging.FieldFiles, len(prog.Paths()),
		logging.FieldDiagnostics, len(prog.AllDiagnostics()))
	return prog, nil
}

func (s *session) engine() *codefix.Engine {
	return codefix.NewEngine(s.registry)
}

// reporter fills opts from the session and creates the reporter. Callers
// set only the per-command fields.
func (s *session) reporter(cmd *cobra.Command, opts reporter.Options) (reporter.Reporter, error) {
	format, err := reporter.ParseFormat(string(s.cfg.Format))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUsage, err)
	}
	opts.Writer = cmd.OutOrStdout()
	opts.Format = format
	opts.Color = s.cfg.Color
	opts.ShowSummary = true
	opts.WorkingDir = s.workDir
	return reporter.New(opts)
}

// typesHost logs engine messages and knows which packages publish type
// declarations.
type typesHost struct {
	*codefix.LogHost

	known map[string]struct{}
}

func newTypesHost(logger *log.Logger, packages []string) *typesHost {
	h := &typesHost{LogHost: codefix.NewLogHost(logger), known: make(map[string]struct{}, len(packages))}
	for _, p := range packages {
		h.known[p] = struct{}{}
	}
	return h
}

// IsKnownTypesPackage implements codefix.PackageResolver.
func (h *typesHost) IsKnownTypesPackage(name string) bool {
	_, ok := h.known[name]
	return ok
}
