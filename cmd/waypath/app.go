package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"

	"github.com/katalvlaran/waypath/config"
	"github.com/katalvlaran/waypath/core"
	"github.com/katalvlaran/waypath/internal/logger"
	"github.com/katalvlaran/waypath/navigation"
	"github.com/katalvlaran/waypath/nodelist"
	"github.com/katalvlaran/waypath/registry"
)

var errNoNodes = errors.New("no node list: pass --nodes or set nodes in the config file")

// app is the wired engine shared by the commands.
type app struct {
	cfg     *config.File
	log     *slog.Logger
	graph   *core.Graph
	targets *registry.Registry
	session *navigation.Session
	reg     *prometheus.Registry
	metrics bool

	pos     core.Position // agent position read by the session
	cleanup func()
}

// open loads env files, config and nodes, then builds the session.
func (cli *CLI) open() (*app, error) {
	if err := config.LoadEnvFiles(cli.EnvFile); err != nil {
		return nil, err
	}

	cfg := config.Default()
	if cli.Config != "" {
		var err error
		if cfg, err = config.Load(cli.Config); err != nil {
			return nil, err
		}
	}
	if cli.LogLevel != "" {
		cfg.Logging.Level = cli.LogLevel
	}
	if cli.LogFormat != "" {
		cfg.Logging.Format = cli.LogFormat
	}
	if cli.LogFile != "" {
		cfg.Logging.File = cli.LogFile
	}
	if cli.Nodes != "" {
		cfg.Nodes = cli.Nodes
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, metrics: cli.Metrics || cfg.Metrics.Enabled, cleanup: func() {}}
	if err := a.initLogger(); err != nil {
		return nil, err
	}
	if err := a.loadNodes(cli.IDs); err != nil {
		a.close()
		return nil, err
	}

	return a, nil
}

func (a *app) initLogger() error {
	level, err := logger.ParseLevel(a.cfg.Logging.Level)
	if err != nil {
		return err
	}
	var w io.Writer = os.Stderr
	if a.cfg.Logging.File != "" {
		f, cleanup, err := logger.OpenLogFile(a.cfg.Logging.File)
		if err != nil {
			return err
		}
		w, a.cleanup = f, cleanup
	}
	a.log, err = logger.New(level, w, a.cfg.Logging.Format)

	return err
}

func (a *app) loadNodes(scheme string) error {
	if a.cfg.Nodes == "" {
		return errNoNodes
	}
	idFn := nodelist.PrefixIDFn("n")
	if scheme == "uuid" {
		idFn = nodelist.UUIDFn
	}
	nodes, err := nodelist.LoadFile(a.cfg.Nodes, nodelist.WithIDFn(idFn))
	if err != nil {
		return err
	}

	a.graph, err = core.NewGraph()
	if err != nil {
		return err
	}
	a.targets = registry.New()
	if err := nodelist.Populate(a.graph, a.targets, nodes); err != nil {
		return err
	}
	a.log.Info("nodes loaded", "path", a.cfg.Nodes, "nodes", a.graph.Len(), "endpoints", a.targets.Len())

	opts := []navigation.Option{
		navigation.WithConfig(a.cfg.Navigation),
		navigation.WithLogger(a.log),
	}
	if a.metrics {
		a.reg = prometheus.NewRegistry()
		m, err := navigation.NewMetrics(a.reg)
		if err != nil {
			return err
		}
		opts = append(opts, navigation.WithMetrics(m))
	}
	a.session, err = navigation.New(a.graph, a.targets,
		navigation.PositionFunc(func() core.Position { return a.pos }), opts...)

	return err
}

// resolve returns the endpoint named by selector, or the registry default when empty.
func (a *app) resolve(selector string) (*core.Node, error) {
	if selector == "" {
		return a.targets.Default()
	}
	return a.targets.Resolve(selector)
}

// dumpMetrics writes the gathered metrics in text exposition format.
func (a *app) dumpMetrics(out io.Writer) error {
	if a.reg == nil {
		return nil
	}
	families, err := a.reg.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(out, mf); err != nil {
			return err
		}
	}

	return nil
}

func (a *app) close() { a.cleanup() }
