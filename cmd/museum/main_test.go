package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRouteCommand(t *testing.T) {
	out, err := run(t, "route", "#/cg/Events/12", "/coating/weapon", "/nowhere")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)
	require.Contains(t, lines[1], "/cg/:groupName/:cgId")
	require.Contains(t, lines[1], "groupName=Events cgId=12")
	require.Contains(t, lines[2], "/coating/weapon/:page?")
	require.Contains(t, lines[3], "(not found)")
}

func TestAssetCommand(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "museum.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("assets:\n  base_url: https://img.test\n"), 0644))

	out, err := run(t, "--config", cfgPath, "asset", "--purpose", "raw", "Assets/Icon/a.png")
	require.NoError(t, err)
	require.Equal(t, "https://img.test/icon/a.png\n", out)
}

func TestConfigInitAndShow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "museum.yaml")

	out, err := run(t, "--config", path, "config", "init")
	require.NoError(t, err)
	require.Contains(t, out, "wrote "+path)

	_, err = run(t, "--config", path, "config", "init")
	require.Error(t, err, "expected init to refuse an existing file")

	out, err = run(t, "--config", path, "config", "show")
	require.NoError(t, err)
	require.Contains(t, out, "repo: myssal/PGR_Data")
	require.Contains(t, out, "region: en")
}

func TestInvalidConfigIsRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "museum.yaml")
	require.NoError(t, os.WriteFile(path, []byte("region: xx\n"), 0644))

	_, err := run(t, "--config", path, "config", "show")
	require.Error(t, err)
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	require.Equal(t, "museum dev\n", out)
}
