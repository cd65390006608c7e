package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/katalvlaran/waypath/core"
	"github.com/katalvlaran/waypath/navigation"
)

// position is a flag value written as "x,y,z".
type position core.Position

func (p *position) UnmarshalText(text []byte) error {
	parts := strings.Split(string(text), ",")
	if len(parts) != 3 {
		return fmt.Errorf("position %q: want x,y,z", text)
	}
	var xyz [3]float64
	for i, s := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return fmt.Errorf("position %q: %w", text, err)
		}
		xyz[i] = v
	}
	*p = position(core.Pos(xyz[0], xyz[1], xyz[2]))

	return nil
}

// TargetsCmd lists the endpoints in selection order. The default target is marked with '*'.
type TargetsCmd struct{}

func (c *TargetsCmd) Run(cli *CLI, out io.Writer) error {
	a, err := cli.open()
	if err != nil {
		return err
	}
	defer a.close()

	targets := a.targets.Targets()
	for i, n := range targets {
		mark := " "
		if i == len(targets)-1 {
			mark = "*"
		}
		fmt.Fprintf(out, "%s %d %s %s %s\n", mark, i, n.Name, n.ID, n.Position)
	}

	return nil
}

// RouteCmd plans one route and prints its nodes.
type RouteCmd struct {
	Target string   `short:"t" help:"Endpoint index or name (default: last endpoint)."`
	From   position `help:"Agent position as x,y,z." default:"0,0,0"`
}

func (c *RouteCmd) Run(ctx context.Context, cli *CLI, out io.Writer) error {
	a, err := cli.open()
	if err != nil {
		return err
	}
	defer a.close()

	if err := plan(ctx, a, c.Target, c.From); err != nil {
		return err
	}
	printRoute(out, a)

	return a.dumpMetrics(out)
}

// WalkCmd plans a route, then fires a trigger event at every active node in
// turn, as an agent walking the route would.
type WalkCmd struct {
	Target string   `short:"t" help:"Endpoint index or name (default: last endpoint)."`
	From   position `help:"Agent position as x,y,z." default:"0,0,0"`
	Steps  int      `help:"Stop after this many steps (0 = walk to the end)." default:"0"`
}

func (c *WalkCmd) Run(ctx context.Context, cli *CLI, out io.Writer) error {
	a, err := cli.open()
	if err != nil {
		return err
	}
	defer a.close()

	a.session.Subscribe(navigation.ObserverFuncs{
		TargetChanged: func(n *core.Node) { fmt.Fprintf(out, "target %s\n", n) },
		ActiveChanged: func(n *core.Node) {
			if f := a.session.Facing(n.ID); f != nil {
				fmt.Fprintf(out, "next %s facing %s\n", n, f.ID)
				return
			}
			fmt.Fprintf(out, "next %s\n", n)
		},
	})
	if err := plan(ctx, a, c.Target, c.From); err != nil {
		return err
	}

	steps := 0
	for c.Steps == 0 || steps < c.Steps {
		if err := ctx.Err(); err != nil {
			return err
		}
		active, ok := a.session.Active()
		if !ok {
			break
		}
		a.pos = active.Position
		if !a.session.OnTriggerEvent(active) {
			break
		}
		steps++
	}

	active, _ := a.session.Active()
	if active.ID == a.session.Target().ID {
		fmt.Fprintf(out, "arrived at %s after %d steps\n", active.Name, steps)
	} else {
		fmt.Fprintf(out, "stopped at %s after %d steps\n", active.ID, steps)
	}

	return a.dumpMetrics(out)
}

func plan(ctx context.Context, a *app, selector string, from position) error {
	target, err := a.resolve(selector)
	if err != nil {
		return err
	}
	a.pos = core.Position(from)

	return a.session.NavigateToTarget(ctx, target)
}

func printRoute(out io.Writer, a *app) {
	path := a.session.Path()
	fmt.Fprintf(out, "route to %s: %d nodes, cost %.2f, radius %g\n",
		a.session.Target().Name, path.Len(), path.Cost, path.Radius)
	for i, id := range path.Nodes {
		n, _ := a.graph.Node(id)
		if f := a.session.Facing(id); f != nil {
			fmt.Fprintf(out, "%3d %s -> %s\n", i, n, f.ID)
			continue
		}
		fmt.Fprintf(out, "%3d %s\n", i, n)
	}
}
