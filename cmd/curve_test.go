package cmd

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gpsim/gpsim/sim"
)

func TestCurveKinds(t *testing.T) {
	kinds, err := curveKinds(nil)
	require.NoError(t, err)
	assert.Len(t, kinds, 4)

	kinds, err = curveKinds([]string{"zero", "hardExponential"})
	require.NoError(t, err)
	assert.Equal(t, []sim.CurveKind{sim.CurveZero, sim.CurveHardExponential}, kinds)

	_, err = curveKinds([]string{"veryHardExponential"})
	assert.Error(t, err)
}

func TestPrintCurves_Table(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, printCurves(&out, []sim.CurveKind{sim.CurveZero, sim.CurveLinear}, 10, 2, "table"))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 4, "header plus samples+1 rows")
	assert.Equal(t, []string{"overload", "zero", "linear"}, strings.Fields(lines[0]))
	assert.Equal(t, []string{"5.00", "0.0000", "0.4500"}, strings.Fields(lines[2]))
	assert.Equal(t, []string{"10.00", "0.0000", "0.9000"}, strings.Fields(lines[3]))
}

func TestPrintCurves_JSON(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, printCurves(&out, []sim.CurveKind{sim.CurveLinear}, 10, 10, "json"))

	var decoded map[string][]sim.CurvePoint
	require.NoError(t, json.Unmarshal(out.Bytes(), &decoded))
	require.Len(t, decoded["linear"], 11)
	assert.InDelta(t, 0.09, decoded["linear"][1].Y, 1e-12)
}

func TestPrintCurves_Errors(t *testing.T) {
	var out bytes.Buffer
	assert.Error(t, printCurves(&out, allCurveKinds, 0, 4, "table"))
	assert.Error(t, printCurves(&out, allCurveKinds, 4, 4, "csv"))
}

func TestCurveCommand_ThroughRoot(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"curve", "exponential", "--samples", "4", "--max-x", "8", "--format", "json"})
	defer rootCmd.SetArgs(nil)

	require.NoError(t, rootCmd.Execute())

	var decoded map[string][]sim.CurvePoint
	require.NoError(t, json.Unmarshal(out.Bytes(), &decoded))
	pts := decoded["exponential"]
	require.Len(t, pts, 5)
	assert.InDelta(t, 0.9, pts[4].Y, 1e-9, "exponential saturates at x=8")
}
