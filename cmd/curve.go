package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/gpsim/gpsim/sim"
)

var (
	curveMaxX    float64 // Largest overload factor sampled
	curveSamples int     // Number of sampling intervals
	curveFormat  string  // Output format
)

// curveCmd prints sampled degradation curves for plotting or inspection.
var curveCmd = &cobra.Command{
	Use:   "curve [name...]",
	Short: "Print degradation curve samples (all curves when no name is given)",
	Run: func(cmd *cobra.Command, args []string) {
		setLogLevel()

		kinds, err := curveKinds(args)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		if err := printCurves(cmd.OutOrStdout(), kinds, curveMaxX, curveSamples, curveFormat); err != nil {
			logrus.Fatalf("%v", err)
		}
	},
}

var allCurveKinds = []sim.CurveKind{sim.CurveZero, sim.CurveLinear, sim.CurveExponential, sim.CurveHardExponential}

func curveKinds(names []string) ([]sim.CurveKind, error) {
	if len(names) == 0 {
		return allCurveKinds, nil
	}
	kinds := make([]sim.CurveKind, 0, len(names))
	for _, name := range names {
		kind, ok := sim.ParseCurveKind(name)
		if !ok {
			return nil, fmt.Errorf("unknown degradation curve %q", name)
		}
		kinds = append(kinds, kind)
	}
	return kinds, nil
}

func printCurves(w io.Writer, kinds []sim.CurveKind, maxX float64, samples int, format string) error {
	if maxX <= 0 {
		return fmt.Errorf("--max-x must be > 0, got %g", maxX)
	}
	switch format {
	case "json":
		out := make(map[string][]sim.CurvePoint, len(kinds))
		for _, k := range kinds {
			out[k.String()] = sim.SampleCurve(k, maxX, samples)
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	case "table":
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprint(tw, "overload")
		for _, k := range kinds {
			fmt.Fprintf(tw, "\t%s", k)
		}
		fmt.Fprintln(tw)
		series := make([][]sim.CurvePoint, len(kinds))
		for i, k := range kinds {
			series[i] = sim.SampleCurve(k, maxX, samples)
		}
		for row := range series[0] {
			fmt.Fprintf(tw, "%.2f", series[0][row].X)
			for i := range kinds {
				fmt.Fprintf(tw, "\t%.4f", series[i][row].Y)
			}
			fmt.Fprintln(tw)
		}
		return tw.Flush()
	}
	return fmt.Errorf("unknown format %q (valid: table, json)", format)
}

func init() {
	curveCmd.Flags().Float64Var(&curveMaxX, "max-x", 12, "Largest overload factor sampled")
	curveCmd.Flags().IntVar(&curveSamples, "samples", 12, "Number of sampling intervals")
	curveCmd.Flags().StringVar(&curveFormat, "format", "table", "Output format: table, json")
}
