package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// run выполняет contentctl с конфигурацией во временном каталоге
func run(t *testing.T, cfgPath string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--config", cfgPath}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func writeConfig(t *testing.T, backend string) string {
	t.Helper()
	dir := t.TempDir()
	body := fmt.Sprintf(`
log:
  dir: %s
  console_level: ERROR
storage:
  backend: %s
  path: %s
world:
  name: testworld
  seed: 3
  size: 12
`, filepath.Join(dir, "logs"), backend, filepath.Join(dir, "data"))
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestTags(t *testing.T) {
	cfg := writeConfig(t, "memory")

	out, err := run(t, cfg, "tags")
	require.NoError(t, err)
	assert.Contains(t, out, "can_be_burn: [oak_log stone]")
	assert.Contains(t, out, "redstone_power_source: [redstone_torch]")
	assert.Contains(t, out, "wood: [oak_log]")
	assert.Contains(t, out, "stone: [stone]")

	out, err = run(t, cfg, "tags", "dirt")
	require.NoError(t, err)
	assert.Equal(t, "dirt: [dirt]\n", out)

	_, err = run(t, cfg, "tags", "lava")
	assert.ErrorContains(t, err, "lava")
}

func TestLookup(t *testing.T) {
	cfg := writeConfig(t, "memory")

	out, err := run(t, cfg, "lookup", "exp_orb")
	require.NoError(t, err)
	assert.Contains(t, out, "exp_orb")
	assert.Contains(t, out, "roles=[entity]")

	out, err = run(t, cfg, "lookup", "--all")
	require.NoError(t, err)
	assert.Equal(t, 5, bytes.Count([]byte(out), []byte("\n")))

	_, err = run(t, cfg, "lookup", "obsidian")
	assert.ErrorContains(t, err, "obsidian")
}

func TestRoundTrip(t *testing.T) {
	cfg := writeConfig(t, "memory")

	out, err := run(t, cfg, "roundtrip", "entity", "exp_orb", "05")
	require.NoError(t, err)
	assert.Contains(t, out, "in:    05\n")
	assert.Contains(t, out, "out:   0000000000000000\n")

	out, err = run(t, cfg, "roundtrip", "block", "oak_log", "02")
	require.NoError(t, err)
	assert.Contains(t, out, "out:   02\n")

	_, err = run(t, cfg, "roundtrip", "block", "exp_orb")
	assert.ErrorContains(t, err, "can not be deserialized as block")

	_, err = run(t, cfg, "roundtrip", "fluid", "stone")
	assert.ErrorContains(t, err, "unknown role")

	_, err = run(t, cfg, "roundtrip", "block", "stone", "zz")
	assert.ErrorContains(t, err, "decode hex")
}

func TestWorldGenerateAndInspect(t *testing.T) {
	cfg := writeConfig(t, "sqlite")

	out, err := run(t, cfg, "world", "generate", "--height", "16")
	require.NoError(t, err)
	assert.Contains(t, out, "generated testworld seed=3")

	out, err = run(t, cfg, "world", "inspect")
	require.NoError(t, err)
	assert.Contains(t, out, "world testworld")
	assert.Contains(t, out, "biomes:     4")
	assert.Contains(t, out, "stone")
	assert.NotContains(t, out, "skipped")
}
