package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"underwriting/pkg/core/projection"
	"underwriting/pkg/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs the CLI against a file backend rooted in dir.
func execute(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	base := []string{
		"--config", filepath.Join(dir, "absent.yaml"),
		"--backend", "file",
		"--data-dir", dir,
	}
	cmd.SetArgs(append(args, base...))
	err := cmd.Execute()
	return out.String(), err
}

func writeScenario(t *testing.T, dir string, body string) string {
	t.Helper()
	path := filepath.Join(dir, "deal.hjson")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

const fourplex = `{
  # hand-written deal
  id: fourplex
  name: Fourplex
  purchasePrice: 600000
  grossPotentialRent: 6000
  vacancyRate: 5
  propertyTax: 7200
  insurance: 2400
  loanAmount: 450000
  interestRate: 7
  termYears: 30
  loanType: fixed
  holdingPeriod: 5
  appreciationRate: 3
  discountRate: 9
  sellingCosts: 6
}`

func TestAnalyze_DefaultScenario(t *testing.T) {
	out, err := execute(t, t.TempDir(), "analyze")
	require.NoError(t, err)
	assert.Contains(t, out, models.DefaultScenarioName)
	assert.Contains(t, out, "Cap rate")
	assert.Contains(t, out, "DSCR (noi)")
}

func TestAnalyze_FileJSON(t *testing.T) {
	dir := t.TempDir()
	path := writeScenario(t, dir, fourplex)

	out, err := execute(t, dir, "analyze", "--file", path, "--json")
	require.NoError(t, err)

	var a projection.Analysis
	require.NoError(t, json.Unmarshal([]byte(out), &a))
	assert.Len(t, a.Years, 5)
	assert.InDelta(t, 450000.0/600000.0*100, a.Metrics.LTV, 1e-9)
}

func TestScenarioLifecycle(t *testing.T) {
	dir := t.TempDir()
	path := writeScenario(t, dir, fourplex)

	out, err := execute(t, dir, "scenarios", "import", path, "--select")
	require.NoError(t, err)
	assert.Contains(t, out, "Stored Fourplex (fourplex) at version 1")

	out, err = execute(t, dir, "scenarios", "import", path)
	require.NoError(t, err)
	assert.Contains(t, out, "version 2")

	out, err = execute(t, dir, "scenarios", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "* fourplex")

	out, err = execute(t, dir, "scenarios", "duplicate", "fourplex")
	require.NoError(t, err)
	assert.Contains(t, out, "Fourplex (Copy)")

	out, err = execute(t, dir, "scenarios", "show")
	require.NoError(t, err)
	var active models.Scenario
	require.NoError(t, json.Unmarshal([]byte(out), &active))
	assert.Equal(t, "fourplex", active.ID)

	_, err = execute(t, dir, "scenarios", "delete", "fourplex")
	require.NoError(t, err)
	_, err = execute(t, dir, "scenarios", "select", "fourplex")
	assert.Error(t, err)
}

func TestAmortize(t *testing.T) {
	dir := t.TempDir()
	path := writeScenario(t, dir, fourplex)

	out, err := execute(t, dir, "amortize", "--file", path, "--limit", "3")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	// header, 3 rows, blank, summary
	assert.Len(t, lines, 6)
	assert.Contains(t, out, "Payments: 360")
}

func TestReport(t *testing.T) {
	dir := t.TempDir()
	path := writeScenario(t, dir, fourplex)

	out, err := execute(t, dir, "report", "--file", path, "--sensitivity", "vacancy")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "# Fourplex"))
	assert.Contains(t, out, "## Sensitivity: vacancy")

	htmlPath := filepath.Join(dir, "memo.html")
	_, err = execute(t, dir, "report", "--file", path, "--html", "--out", htmlPath)
	require.NoError(t, err)
	html, err := os.ReadFile(htmlPath)
	require.NoError(t, err)
	assert.Contains(t, string(html), "<table>")
}

func TestSensitivity(t *testing.T) {
	dir := t.TempDir()
	path := writeScenario(t, dir, fourplex)

	out, err := execute(t, dir, "sensitivity", "--file", path, "--axis", "interest-rate", "--deltas", "-1,1", "--json")
	require.NoError(t, err)
	var points []projection.SensitivityPoint
	require.NoError(t, json.Unmarshal([]byte(out), &points))
	require.Len(t, points, 2)
	assert.InDelta(t, 6.0, points[0].Value, 1e-9)
	assert.Greater(t, points[0].Metrics.CashFlow, points[1].Metrics.CashFlow)

	_, err = execute(t, dir, "sensitivity", "--file", path, "--axis", "weather")
	assert.ErrorIs(t, err, projection.ErrUnknownAxis)
}

func parseOutput(t *testing.T, out string) float64 {
	t.Helper()
	v, err := strconv.ParseFloat(strings.TrimSpace(out), 64)
	require.NoError(t, err)
	return v
}

func TestCalc(t *testing.T) {
	dir := t.TempDir()

	out, err := execute(t, dir, "calc", "cap-rate", "noi=50000", "price=1000000")
	require.NoError(t, err)
	assert.InDelta(t, 5.0, parseOutput(t, out), 1e-9)

	out, err = execute(t, dir, "calc", "mortgage-payment", "principal=120000", "rate=6", "years=30", "interest_only=true")
	require.NoError(t, err)
	assert.InDelta(t, 600.0, parseOutput(t, out), 1e-9)

	out, err = execute(t, dir, "calc")
	require.NoError(t, err)
	assert.Contains(t, out, "compound-growth")

	_, err = execute(t, dir, "calc", "cap-rate", "noi")
	assert.Error(t, err)
	_, err = execute(t, dir, "calc", "cap-rate", "noi=1")
	assert.Error(t, err)
}
