package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func exitCode(err error) int {
	var ee *exitErr
	if errors.As(err, &ee) {
		return ee.code
	}
	if err != nil {
		return 1
	}
	return 0
}

func TestCatalogCheck(t *testing.T) {
	out, err := execute(t, "catalog", "check")
	require.NoError(t, err)
	assert.Contains(t, out, "hegemony-of-embersig (Hegemony of Embersig): 8 units")
	assert.Contains(t, out, "mk-os-automata->trabor-slepmund")
	assert.Contains(t, out, "OK: 13 units")
}

func TestCatalogCheckBrokenFile(t *testing.T) {
	path := writeFile(t, "units.yaml", `
factions:
  - {id: f1, name: F1}
units:
  - {id: a, name: A, faction_id: f1, availability: 0}
  - {id: b, name: B, faction_id: f1, availability: 1, companion: ghost}
`)
	_, err := execute(t, "catalog", "check", "--file", path)
	require.Error(t, err)
	assert.Equal(t, 1, exitCode(err))
	assert.Contains(t, err.Error(), "availability must be at least 1")
	assert.Contains(t, err.Error(), "companion host")
}

func TestCatalogCSVRoundTripsThroughCheck(t *testing.T) {
	sheet := filepath.Join(t.TempDir(), "units.csv")
	_, err := execute(t, "catalog", "csv", "--out", sheet)
	require.NoError(t, err)

	out, err := execute(t, "csv", "check", sheet)
	require.NoError(t, err)
	assert.Contains(t, out, "OK: sheet matches the catalog")
}

func TestCSVCheckMismatches(t *testing.T) {
	sheet := writeFile(t, "units.csv", "id,points_cost\nhetman,90\n")

	out, err := execute(t, "csv", "check", sheet)
	require.Error(t, err)
	assert.Equal(t, 2, exitCode(err))
	assert.Contains(t, out, `unit hetman points_cost: catalog="95" sheet="90"`)
	assert.Contains(t, out, "unit voivode is missing from the sheet")
}

func TestListValidate(t *testing.T) {
	valid := writeFile(t, "valid.json", `{"factionId": "hegemony-of-embersig", "entries": [
		{"unitId": "hetman", "count": 1},
		{"unitId": "trabor-slepmund", "count": 1},
		{"unitId": "mk-os-automata", "count": 1}
	]}`)
	out, err := execute(t, "list", "validate", valid)
	require.NoError(t, err)
	assert.Contains(t, out, "units: 3  points: 210  command: 4")
	assert.Contains(t, out, "OK: list is valid")

	broken := writeFile(t, "broken.json", `{"factionId": "hegemony-of-embersig", "entries": [
		{"unitId": "hetman", "count": 1},
		{"unitId": "voivode", "count": 1},
		{"unitId": "ghost", "count": 1}
	]}`)
	out, err = execute(t, "list", "validate", broken)
	require.Error(t, err)
	assert.Equal(t, 2, exitCode(err))
	assert.Contains(t, out, "dropped: ghost x1 (unknown_unit)")
	assert.Contains(t, out, "violation: HighCommandExclusivity voivode (hetman)")

	unknown := writeFile(t, "unknown.json", `{"factionId": "atlantis", "entries": []}`)
	_, err = execute(t, "list", "validate", unknown)
	assert.Equal(t, 1, exitCode(err))
}
