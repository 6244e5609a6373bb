package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"PortfolioSentinel/internal/model"
)

func setup(t *testing.T) (configPath, holdingsPath string) {
	t.Helper()
	dir := t.TempDir()
	holdingsPath = filepath.Join(dir, "portfolio.json")
	configPath = filepath.Join(dir, "config.yaml")
	body := fmt.Sprintf(`
data_source:
  provider: mock
portfolio:
  file: %s
  journal_file: %s
database:
  driver: none
report:
  dir: %s
log:
  level: error
`, holdingsPath, filepath.Join(dir, "trades.json"), filepath.Join(dir, "reports"))
	require.NoError(t, os.WriteFile(configPath, []byte(body), 0o644))
	return configPath, holdingsPath
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestHoldingsCommands(t *testing.T) {
	cfgFile, holdings := setup(t)

	out, err := run(t, "--config", cfgFile, "holdings", "add", "tqqq", "--name", "ProShares", "--quantity", "10")
	require.NoError(t, err)
	assert.Contains(t, out, "added TQQQ")

	_, err = run(t, "--config", cfgFile, "holdings", "add", "TQQQ")
	assert.Error(t, err)

	out, err = run(t, "--config", cfgFile, "holdings", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "TQQQ")
	assert.Contains(t, out, "QQQ")

	_, err = os.Stat(holdings)
	require.NoError(t, err)

	out, err = run(t, "--config", cfgFile, "holdings", "remove", "TQQQ")
	require.NoError(t, err)
	assert.Contains(t, out, "removed TQQQ")
}

func TestTradesCommands(t *testing.T) {
	cfgFile, _ := setup(t)

	out, err := run(t, "--config", cfgFile, "trades", "add", "buy", "soxl", "10", "25.5", "--memo", "dip")
	require.NoError(t, err)
	assert.Contains(t, out, "#1 BUY SOXL 10 @ 25.5 (total 255.00)")

	_, err = run(t, "--config", cfgFile, "trades", "add", "sell", "SOXL", "11", "30")
	assert.Error(t, err)
	_, err = run(t, "--config", cfgFile, "trades", "add", "buy", "SOXL", "ten", "30")
	assert.ErrorIs(t, err, model.ErrConfiguration)

	_, err = run(t, "--config", cfgFile, "trades", "add", "sell", "SOXL", "4", "30")
	require.NoError(t, err)

	out, err = run(t, "--config", cfgFile, "trades", "list", "--symbol", "soxl")
	require.NoError(t, err)
	assert.Contains(t, out, "dip")
	assert.Contains(t, out, "SELL")

	out, err = run(t, "--config", cfgFile, "trades", "positions")
	require.NoError(t, err)
	assert.Contains(t, out, "25.5000")
	assert.Contains(t, out, "+18.00")

	out, err = run(t, "--config", cfgFile, "trades", "delete", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "deleted #2")
	_, err = run(t, "--config", cfgFile, "trades", "delete", "2")
	assert.Error(t, err)
}

func TestResolveCommand(t *testing.T) {
	cfgFile, _ := setup(t)
	out, err := run(t, "--config", cfgFile, "resolve", "SOXL", "AAPL")
	require.NoError(t, err)
	assert.Contains(t, out, "SOXL -> SOXX (leveraged)")
	assert.Contains(t, out, "AAPL -> AAPL\n")
}

func TestAnalyzeCommandJSON(t *testing.T) {
	cfgFile, holdings := setup(t)
	require.NoError(t, os.WriteFile(holdings, []byte(`[{"symbol":"AAPL"},{"symbol":"TQQQ"}]`), 0o644))

	out, err := run(t, "--config", cfgFile, "analyze", "--json")
	require.NoError(t, err)

	var rep model.RunReport
	require.NoError(t, json.Unmarshal([]byte(out), &rep))
	assert.Equal(t, model.TriggerManual, rep.Trigger)
	require.Len(t, rep.Holdings, 2)
	assert.Equal(t, "QQQ", rep.Holdings[1].Underlying)
	require.Len(t, rep.Context, 1)
}

func TestAnalyzeCommandEmptyPortfolio(t *testing.T) {
	cfgFile, _ := setup(t)
	_, err := run(t, "--config", cfgFile, "analyze")
	assert.ErrorIs(t, err, model.ErrConfiguration)
}
