package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/waypath/core"
	"github.com/katalvlaran/waypath/registry"
)

// writeNodes stores a corridor n0-n1-n2("Exit") with a side room n3("Lab") off n0.
func writeNodes(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nodes.json")
	doc := `{"nodeList":{"nodes":[
		{"px":0,"py":0,"pz":0,"nodeType":0,"name":"node"},
		{"px":1,"py":0,"pz":0,"nodeType":0,"name":"node"},
		{"px":2,"py":0,"pz":0,"nodeType":1,"name":"Exit"},
		{"px":0,"py":0,"pz":1,"nodeType":1,"name":"Lab"}
	]}}`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))
	return path
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	err := run(context.Background(), append(args, "--log-level=error"), &out)
	return out.String(), err
}

func TestTargets(t *testing.T) {
	out, err := runCLI(t, "--nodes", writeNodes(t), "targets")
	require.NoError(t, err)
	assert.Equal(t, "  0 Exit n2 (2, 0, 0)\n* 1 Lab n3 (0, 0, 1)\n", out)
}

func TestRoute(t *testing.T) {
	out, err := runCLI(t, "--nodes", writeNodes(t), "route", "--target", "Exit", "--from", "0.1,0,0.2")
	require.NoError(t, err)
	assert.Equal(t,
		"route to Exit: 3 nodes, cost 20.00, radius 1.1\n"+
			`  0 n0[WAYPOINT "node" (0, 0, 0)] -> n1`+"\n"+
			`  1 n1[WAYPOINT "node" (1, 0, 0)] -> n2`+"\n"+
			`  2 n2[ENDPOINT "Exit" (2, 0, 0)] -> n1`+"\n",
		out)
}

func TestRoute_DefaultTargetAndMetrics(t *testing.T) {
	out, err := runCLI(t, "--nodes", writeNodes(t), "--metrics", "route")
	require.NoError(t, err)
	assert.Contains(t, out, "route to Lab: 2 nodes")
	assert.Contains(t, out, `waypath_navigation_requests_total{result="success"} 1`)
}

func TestRoute_Errors(t *testing.T) {
	_, err := runCLI(t, "--nodes", writeNodes(t), "route", "--target", "Roof")
	assert.ErrorIs(t, err, registry.ErrUnresolvedTarget)

	_, err = runCLI(t, "route")
	assert.ErrorIs(t, err, errNoNodes)

	_, err = runCLI(t, "--nodes", writeNodes(t), "route", "--from", "1,2")
	assert.Error(t, err)
}

func TestWalk(t *testing.T) {
	out, err := runCLI(t, "--nodes", writeNodes(t), "walk", "-t", "0")
	require.NoError(t, err)
	assert.Equal(t,
		`target n2[ENDPOINT "Exit" (2, 0, 0)]`+"\n"+
			`next n0[WAYPOINT "node" (0, 0, 0)] facing n1`+"\n"+
			`next n1[WAYPOINT "node" (1, 0, 0)] facing n2`+"\n"+
			`next n2[ENDPOINT "Exit" (2, 0, 0)] facing n1`+"\n"+
			"arrived at Exit after 2 steps\n",
		out)

	out, err = runCLI(t, "--nodes", writeNodes(t), "walk", "-t", "Exit", "--steps", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "stopped at n1 after 1 steps")
}

func TestConfigFileAndEnv(t *testing.T) {
	nodes := writeNodes(t)
	t.Setenv("WAYPATH_TEST_CLI_NODES", nodes)
	cfgPath := filepath.Join(t.TempDir(), "waypath.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(
		"nodes: ${WAYPATH_TEST_CLI_NODES}\nnavigation:\n  initial_radius: 0.5\n  radius_step: 0.5\n"), 0o644))

	// 0.5 and 1.0 leave the unit-spaced corridor unlinked
	out, err := runCLI(t, "-c", cfgPath, "route", "-t", "Exit")
	require.NoError(t, err)
	assert.Contains(t, out, "radius 1.5")
}

func TestPositionFlag(t *testing.T) {
	var p position
	require.NoError(t, p.UnmarshalText([]byte("1.5, -2,3")))
	assert.Equal(t, core.Pos(1.5, -2, 3), core.Position(p))

	assert.Error(t, p.UnmarshalText([]byte("1,2")))
	assert.Error(t, p.UnmarshalText([]byte("a,b,c")))
}

func TestVersion(t *testing.T) {
	out, err := runCLI(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "waypath ")
}
