// Command waypath loads a node list and plans guided routes through it.
//
//	waypath --nodes nodes.json targets
//	waypath --nodes nodes.json route --target Exit --from 0,0,0
//	waypath --nodes nodes.json walk --target 1 --metrics
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"

	"github.com/alecthomas/kong"
)

// CLI is the command tree.
type CLI struct {
	Version VersionCmd `cmd:"" help:"Show version information."`
	Targets TargetsCmd `cmd:"" help:"List selectable endpoints."`
	Route   RouteCmd   `cmd:"" help:"Plan a route and print it."`
	Walk    WalkCmd    `cmd:"" help:"Plan a route and walk it by simulated trigger events."`

	Config    string `short:"c" help:"Path to config file." type:"path" env:"WAYPATH_CONFIG"`
	EnvFile   string `name:"env-file" help:"Extra .env file loaded before .env.local and .env." type:"path"`
	Nodes     string `short:"n" help:"Node list document (overrides config)." type:"path" env:"WAYPATH_NODES"`
	IDs       string `name:"ids" help:"Node ID scheme: index (n0, n1, ...) or uuid." enum:"index,uuid" default:"index"`
	LogLevel  string `help:"Log level (debug, info, warn, error)." env:"WAYPATH_LOG_LEVEL"`
	LogFile   string `help:"Log file path (empty = stderr)." env:"WAYPATH_LOG_FILE"`
	LogFormat string `help:"Log format (simple, text, json)." env:"WAYPATH_LOG_FORMAT"`
	Metrics   bool   `help:"Print prometheus metrics after the command."`
}

// VersionCmd prints the module version.
type VersionCmd struct{}

func (c *VersionCmd) Run(out io.Writer) error {
	version := "dev"
	if info, ok := debug.ReadBuildInfo(); ok {
		if info.Main.Version != "(devel)" && info.Main.Version != "" {
			version = info.Main.Version
		}
	}
	fmt.Fprintf(out, "waypath %s\n", version)
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "waypath:", err)
		os.Exit(1)
	}
}

// run parses args and executes the selected command, writing results to out.
func run(ctx context.Context, args []string, out io.Writer) error {
	var cli CLI
	parser, err := kong.New(&cli,
		kong.Name("waypath"),
		kong.Description("Waypoint graph route planner."),
		kong.UsageOnError(),
		kong.Writers(out, os.Stderr),
	)
	if err != nil {
		return err
	}

	kctx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	kctx.BindTo(ctx, (*context.Context)(nil))
	kctx.BindTo(out, (*io.Writer)(nil))

	return kctx.Run(&cli)
}
