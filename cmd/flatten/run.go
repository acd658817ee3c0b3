package main

import (
	"bufio"
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/kbukum/flatkit/config"
	"github.com/kbukum/flatkit/internal/runner"
	"github.com/kbukum/flatkit/internal/source"
	"github.com/kbukum/flatkit/errors"
	"github.com/kbukum/flatkit/logger"
	"github.com/kbukum/flatkit/observability"
	"github.com/kbukum/flatkit/validation"
	"github.com/kbukum/flatkit/version"
)

const stdinName = "-"

type runFlags struct {
	configFile string
	envFile    string
	runID      string
}

func newRunCmd() *cobra.Command {
	var f runFlags
	cmd := &cobra.Command{
		Use:   "run [file]",
		Short: "Print the elements of a document",
		Long: `run prints the elements of a document, reading standard input when the
file is omitted or "-". Flags override the config file and environment.`,
		Args: maxArgs(1, "accepts at most one input file"),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := stdinName
			if len(args) == 1 {
				input = args[0]
			}
			return runFlatten(cmd, input, f)
		},
	}

	flags := cmd.Flags()
	flags.String("mode", "", "pull order: forward, backward, interleave or script")
	flags.String("script", "", `pull script such as "fbbf" or "next, back"`)
	flags.Bool("show-empty", false, `print "-" for pulls that produced nothing`)
	flags.String("log-level", "", "log level (trace, debug, info, warn, error)")
	flags.String("log-format", "", "log format (console or json)")
	flags.StringVar(&f.configFile, "config", "", "config file (default: searched)")
	flags.StringVar(&f.envFile, "env-file", "", ".env file (default: searched)")
	flags.StringVar(&f.runID, "run-id", "", "UUID to tag log lines with (default: random)")
	return cmd
}

// loadConfig layers flags over the file and environment configuration.
func loadConfig(flags *pflag.FlagSet, f runFlags) (*config.Config, error) {
	var opts []config.LoaderOption
	if f.configFile != "" {
		opts = append(opts, config.WithConfigFile(f.configFile))
	}
	if f.envFile != "" {
		opts = append(opts, config.WithEnvFile(f.envFile))
	}

	cfg := &config.Config{}
	if err := config.LoadConfig("flatten", cfg, opts...); err != nil {
		return nil, err
	}
	overrideString(flags, "mode", &cfg.Flatten.Mode)
	overrideString(flags, "script", &cfg.Flatten.Script)
	overrideString(flags, "log-level", &cfg.Logging.Level)
	overrideString(flags, "log-format", &cfg.Logging.Format)
	if flags.Changed("show-empty") {
		cfg.Flatten.ShowEmpty, _ = flags.GetBool("show-empty")
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func overrideString(flags *pflag.FlagSet, name string, dst *string) {
	if flags.Changed(name) {
		*dst, _ = flags.GetString(name)
	}
}

func runFlatten(cmd *cobra.Command, input string, f runFlags) error {
	if err := validation.New().OptionalUUID("run_id", f.runID).Validate(); err != nil {
		return err
	}
	cfg, err := loadConfig(cmd.Flags(), f)
	if err != nil {
		return err
	}

	runID := f.runID
	if runID == "" {
		runID = uuid.NewString()
	}
	log := logger.NewWithWriter(&cfg.Logging, cfg.Name, cmd.ErrOrStderr()).
		WithFields(logger.Fields(logger.FieldRunID, runID))
	logger.SetGlobalLogger(log)
	logger.Reset()

	var script []runner.End
	if cfg.Flatten.Mode == config.ModeScript {
		if script, err = runner.ParseScript(cfg.Flatten.Script); err != nil {
			return err
		}
	}

	build := version.Get().Short()
	metrics, stopTelemetry, err := startTelemetry(cmd.Context(), cfg, build, log)
	if err != nil {
		return err
	}
	defer stopTelemetry()

	ctx, span := observability.StartSpan(cmd.Context(), observability.SpanCommand)
	defer span.End()
	observability.SetSpanAttribute(ctx, observability.AttrRunID, runID)
	observability.SetSpanAttribute(ctx, observability.AttrInput, input)

	log.WithComponent("cli").Info("starting run", logger.Fields(
		logger.FieldInput, input,
		logger.FieldMode, cfg.Flatten.Mode,
		"version", build,
	))

	var doc *source.Document
	if input == stdinName {
		doc, err = source.Decode("stdin", cmd.InOrStdin())
	} else {
		doc, err = source.Load(input)
	}
	if err != nil {
		observability.SetSpanError(ctx, err)
		return err
	}

	it := doc.Flatten().Iter(ctx)
	defer it.Close()

	out := bufio.NewWriter(cmd.OutOrStdout())
	defer out.Flush()

	opts := runner.Options{
		Mode:    cfg.Flatten.Mode,
		Script:  script,
		Logger:  log.WithComponent("runner"),
		Metrics: metrics,
	}
	_, err = runner.Run(ctx, it, opts, func(p runner.Pull[string]) error {
		switch {
		case p.OK:
			_, err := fmt.Fprintln(out, p.Value)
			return err
		case cfg.Flatten.ShowEmpty:
			_, err := fmt.Fprintln(out, "-")
			return err
		}
		return nil
	})
	if err != nil {
		return err
	}
	return out.Flush()
}

// startTelemetry installs the configured exporters and creates the run
// instruments. The returned func flushes and stops export.
func startTelemetry(ctx context.Context, cfg *config.Config, build string, log *logger.Logger) (*observability.Metrics, func(), error) {
	shutdown, err := observability.Setup(ctx, cfg.Observability, observability.Service{
		Name:        cfg.Name,
		Version:     build,
		Environment: cfg.Environment,
	})
	if err != nil {
		return nil, nil, errors.Internal(err)
	}
	stop := func() {
		if err := shutdown(context.WithoutCancel(ctx)); err != nil {
			log.Warn("telemetry shutdown failed", logger.ErrorFields(err))
		}
	}
	metrics, err := observability.NewMetrics(observability.Meter(cfg.Name))
	if err != nil {
		stop()
		return nil, nil, errors.Internal(err)
	}
	return metrics, stop, nil
}
