// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package commands

import (
	"context"
	"os"
	"os/signal"
	"strings"

	"github.com/juju/clock"
	"github.com/juju/cmd/v3"
	"github.com/juju/errors"
	"github.com/juju/gnuflag"
	"github.com/juju/names/v5"

	jujucmd "github.com/canonical/superset-k8s-upgrade/cmd"
	corelogger "github.com/canonical/superset-k8s-upgrade/core/logger"
	"github.com/canonical/superset-k8s-upgrade/internal/charmbuild"
	"github.com/canonical/superset-k8s-upgrade/internal/cmdrunner"
	"github.com/canonical/superset-k8s-upgrade/internal/metrics"
	"github.com/canonical/superset-k8s-upgrade/internal/model"
	"github.com/canonical/superset-k8s-upgrade/internal/model/jujucli"
	"github.com/canonical/superset-k8s-upgrade/internal/superset"
	"github.com/canonical/superset-k8s-upgrade/internal/tracing"
	"github.com/canonical/superset-k8s-upgrade/internal/upgrade"
)

var logger = corelogger.GetLogger("cmd.superset-upgrade")

// environ holds the external pieces the commands drive.
type environ struct {
	runner cmdrunner.Runner
	clock  clock.Clock
	// transport is used for Superset requests. When nil requests go
	// through the default HTTP client and are recorded in the metrics.
	transport superset.Transport
}

func defaultEnviron() environ {
	return environ{
		runner: cmdrunner.NewRunner(corelogger.GetLogger("cmdrunner")),
		clock:  clock.WallClock,
	}
}

// modelPolicy says what a command does when no model is named.
type modelPolicy int

const (
	// requireModel refuses to run without -m.
	requireModel modelPolicy = iota
	// createModel adds a model and leaves it in place.
	createModel
	// temporaryModel adds a model and destroys it when done, unless
	// --keep-model is given.
	temporaryModel
)

// harnessCommand holds the flags and wiring shared by the commands that
// drive a model.
type harnessCommand struct {
	cmd.CommandBase

	env    environ
	policy modelPolicy

	modelName      string
	controllerName string
	configFile     string
	charmDir       string
	loggingConfig  string
	logFile        string
	metricsFile    string
	otlpEndpoint   string
	otlpInsecure   bool
	keepModel      bool
	destructive    bool
}

// SetFlags implements cmd.Command.
func (c *harnessCommand) SetFlags(f *gnuflag.FlagSet) {
	modelDoc := "Model to operate in"
	if c.policy != requireModel {
		modelDoc += "; a new one is added when empty"
	}
	f.StringVar(&c.modelName, "m", "", modelDoc)
	f.StringVar(&c.modelName, "model", "", "")
	f.StringVar(&c.controllerName, "controller", "", "Controller hosting the model; defaults to the current one")
	f.StringVar(&c.configFile, "config", "", "Path to a YAML file of harness settings")
	f.StringVar(&c.loggingConfig, "logging-config", os.Getenv(jujucmd.LoggingConfigEnvKey), "Specify log levels for modules")
	f.StringVar(&c.logFile, "log-file", "", "Write log output to this rotating file instead of stderr")
	f.StringVar(&c.metricsFile, "metrics-file", "", "Write prometheus metrics of the run to this file")
	f.StringVar(&c.otlpEndpoint, "otlp-endpoint", "", "Export traces of the run to this OTLP gRPC endpoint")
	f.BoolVar(&c.otlpInsecure, "otlp-insecure", false, "Connect to the OTLP endpoint without TLS")
	if c.policy == temporaryModel {
		f.BoolVar(&c.keepModel, "keep-model", false, "Keep the added model once done")
	}
}

func (c *harnessCommand) setCharmFlags(f *gnuflag.FlagSet) {
	f.StringVar(&c.charmDir, "charm-dir", ".", "Directory holding the charm source to pack")
	f.BoolVar(&c.destructive, "destructive-mode", false, "Pack the charm on the host instead of in a build container")
}

// Init implements cmd.Command.
func (c *harnessCommand) Init(args []string) error {
	if c.modelName == "" && c.policy == requireModel {
		return errors.New("no model specified, use -m")
	}
	if c.modelName != "" && !names.IsValidModelName(modelOnly(c.modelName)) {
		return errors.NotValidf("model name %q", c.modelName)
	}
	return cmd.CheckEmpty(args)
}

// modelOnly strips a "controller:" qualifier.
func modelOnly(name string) string {
	return name[strings.LastIndex(name, ":")+1:]
}

// session is an opened model with a harness to drive it.
type session struct {
	harness *upgrade.Harness
	model   model.Model
	added   bool
	metrics *metrics.Collector
	close   func(context.Context) error
}

// run opens a session, passes it to f and closes it, cancelling f on
// interrupt.
func (c *harnessCommand) run(ctx *cmd.Context, f func(context.Context, *session) error) (err error) {
	if err := corelogger.Configure(c.loggingConfig); err != nil {
		return errors.Annotate(err, "configuring logging")
	}
	if c.logFile != "" {
		logFile, err := corelogger.LogToFile(ctx.AbsPath(c.logFile))
		if err != nil {
			return errors.Trace(err)
		}
		defer logFile.Close()
	}
	stdctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	s, err := c.open(stdctx, ctx)
	if err != nil {
		return errors.Trace(err)
	}
	defer func() {
		if closeErr := s.close(context.WithoutCancel(stdctx)); closeErr != nil {
			if err == nil {
				err = closeErr
			} else {
				logger.Errorf("%v", closeErr)
			}
		}
	}()
	return f(stdctx, s)
}

func (c *harnessCommand) config(ctx *cmd.Context) (upgrade.Config, error) {
	config, err := upgrade.DefaultConfig()
	if err != nil {
		return upgrade.Config{}, errors.Trace(err)
	}
	if c.configFile != "" {
		if config, err = upgrade.ReadConfigFile(ctx.AbsPath(c.configFile), config); err != nil {
			return upgrade.Config{}, errors.Trace(err)
		}
	}
	if c.destructive {
		config.DestructiveMode = true
	}
	return config, nil
}

func (c *harnessCommand) open(stdctx context.Context, ctx *cmd.Context) (*session, error) {
	config, err := c.config(ctx)
	if err != nil {
		return nil, errors.Trace(err)
	}
	controller, err := jujucli.NewController(jujucli.Config{
		Runner:     c.env.runner,
		Logger:     corelogger.GetLogger("juju"),
		Controller: c.controllerName,
	})
	if err != nil {
		return nil, errors.Trace(err)
	}

	modelName := c.modelName
	var m *jujucli.Model
	s := &session{metrics: metrics.NewCollector()}
	if modelName == "" {
		modelName = upgrade.NewModelName()
		if m, err = controller.AddModel(stdctx, modelName); err != nil {
			return nil, errors.Trace(err)
		}
		s.added = true
		ctx.Infof("Added model %q", modelName)
	} else if m, err = controller.OpenModel(modelName); err != nil {
		return nil, errors.Trace(err)
	}
	s.model = m

	var metricsPath string
	if c.metricsFile != "" {
		metricsPath = ctx.AbsPath(c.metricsFile)
	}
	var tracer *tracing.Tracer
	s.close = func(ctx context.Context) error {
		var errs []error
		if tracer != nil {
			if err := tracer.Shutdown(ctx); err != nil {
				errs = append(errs, errors.Annotate(err, "flushing traces"))
			}
		}
		if metricsPath != "" {
			if err := s.metrics.WriteFile(metricsPath); err != nil {
				errs = append(errs, err)
			}
		}
		switch {
		case !s.added:
		case c.policy == temporaryModel && !c.keepModel:
			if err := controller.DestroyModel(ctx, modelName); err != nil {
				errs = append(errs, err)
			}
		default:
			logger.Infof("model %q kept", modelName)
		}
		if len(errs) == 0 {
			return nil
		}
		for _, err := range errs[1:] {
			logger.Errorf("%v", err)
		}
		return errs[0]
	}
	fail := func(err error) (*session, error) {
		if closeErr := s.close(context.WithoutCancel(stdctx)); closeErr != nil {
			logger.Errorf("%v", closeErr)
		}
		return nil, errors.Trace(err)
	}

	if tracer, err = tracing.NewTracer(stdctx, tracing.Config{
		Endpoint: c.otlpEndpoint,
		Insecure: c.otlpInsecure,
		RunID:    modelName,
		Logger:   corelogger.GetLogger("tracing"),
	}); err != nil {
		return fail(err)
	}
	builder, err := charmbuild.NewBuilder(charmbuild.Config{
		Runner:          c.env.runner,
		Logger:          corelogger.GetLogger("charmbuild"),
		DestructiveMode: config.DestructiveMode,
	})
	if err != nil {
		return fail(err)
	}
	supersetLogger := corelogger.GetLogger("superset")
	transport := c.env.transport
	if transport == nil {
		transport = superset.DefaultHTTPTransport(supersetLogger, s.metrics)
	}
	if s.harness, err = upgrade.NewHarness(config, upgrade.Deps{
		Model:             m,
		Builder:           builder,
		NewSupersetClient: upgrade.SupersetClients(transport, supersetLogger),
		Logger:            corelogger.GetLogger("upgrade"),
		Clock:             c.env.clock,
		Metrics:           s.metrics,
		Tracer:            tracer,
	}); err != nil {
		return fail(err)
	}
	return s, nil
}
