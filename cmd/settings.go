package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/gpsim/gpsim/sim/settings"
)

var (
	settingsFormat string // Export format
	settingsOutput string // Export destination
)

// settingsCmd groups settings import/export helpers.
var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Export or check simulation settings files",
}

// settingsExportCmd writes a complete settings record, optionally starting from a partial file.
var settingsExportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Write the effective settings with all defaults filled in",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		setLogLevel()

		format, err := settings.ParseFormat(settingsFormat)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		path := ""
		if len(args) == 1 {
			path = args[0]
		}
		data, err := exportSettings(path, format)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		if settingsOutput == "" || settingsOutput == "-" {
			_, err = cmd.OutOrStdout().Write(data)
		} else {
			err = os.WriteFile(settingsOutput, data, 0o644)
		}
		if err != nil {
			logrus.Fatalf("Writing settings: %v", err)
		}
	},
}

// settingsCheckCmd loads a settings file and builds the simulation it describes.
var settingsCheckCmd = &cobra.Command{
	Use:   "check <file>",
	Short: "Validate a settings file and summarize the resulting topology",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		setLogLevel()

		if err := checkSettings(cmd.OutOrStdout(), args[0]); err != nil {
			logrus.Fatalf("%v", err)
		}
	},
}

// exportSettings resolves the file at path (defaults only when empty) and encodes it.
func exportSettings(path string, format settings.Format) ([]byte, error) {
	resolved, err := loadResolved(path)
	if err != nil {
		return nil, err
	}
	return resolved.Settings().Encode(format)
}

func checkSettings(w io.Writer, path string) error {
	resolved, err := loadResolved(path)
	if err != nil {
		return err
	}
	s, err := resolved.Build(nil)
	if err != nil {
		return fmt.Errorf("settings %s: %w", path, err)
	}
	cfg := s.Config()
	fmt.Fprintf(w, "Segments             : %d x %d cores @ %g\n", cfg.Segments, cfg.CoresPerSegment, cfg.CoreCapacity)
	fmt.Fprintf(w, "Degradation Curve    : %s\n", cfg.Curve)
	fmt.Fprintf(w, "Slice Spread / Delay : %g / %d ms\n", cfg.SliceSpread, cfg.SliceDelay)
	for _, g := range resolved.Groups {
		fmt.Fprintf(w, "%-20s : %d sessions, size %g±%g, every %g±%g ms\n", g.Name, g.Count,
			g.Params.JobSizeMean, g.Params.JobSizeSpread, g.Params.IntervalMean, g.Params.IntervalSpread)
	}
	return nil
}

func init() {
	settingsExportCmd.Flags().StringVar(&settingsFormat, "format", "json", "Output format: json, yaml")
	settingsExportCmd.Flags().StringVarP(&settingsOutput, "output", "o", "", "Output file (stdout when empty)")

	settingsCmd.AddCommand(settingsExportCmd)
	settingsCmd.AddCommand(settingsCheckCmd)
}
