package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kneescan/vag-analyzer/configs"
	"github.com/kneescan/vag-analyzer/pkg/vag"
	"github.com/kneescan/vag-analyzer/pkg/vag/classify"
)

var (
	classifyTestChannel string
	classifyTestStepHz  float64
	classifyTestMaxHz   float64
)

// classifyTestCmd is a debug command: it sweeps a frequency grid
// through the classifier to show where the configured thresholds fall
var classifyTestCmd = &cobra.Command{
	Use:   "classify-test",
	Short: "Sweep the classifier across a frequency grid",
	Long: `Feeds a grid of synthetic spectral features through the classifier
using the currently configured thresholds, printing the category and
severity at each frequency. Useful to review a calibration file before
a session.`,
	RunE: runClassifyTest,
}

func init() {
	rootCmd.AddCommand(classifyTestCmd)

	classifyTestCmd.Flags().StringVar(&classifyTestChannel, "channel", "mic",
		"channel whose severity table to use (mic, piezo)")
	classifyTestCmd.Flags().Float64Var(&classifyTestStepHz, "step", 10,
		"grid step in Hz")
	classifyTestCmd.Flags().Float64Var(&classifyTestMaxHz, "max", 600,
		"grid upper bound in Hz")
}

func runClassifyTest(cmd *cobra.Command, args []string) error {
	config, err := configs.LoadConfig()
	if err != nil {
		return err
	}
	if err := config.Thresholds.Validate(); err != nil {
		return err
	}

	channel := vag.Channel(classifyTestChannel)
	if channel != vag.ChannelMic && channel != vag.ChannelPiezo {
		return fmt.Errorf("unknown channel %q", classifyTestChannel)
	}

	classifier, err := classify.NewClassifier(config.Thresholds)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "freq_hz\tcategory\tseverity")

	for freq := classifyTestStepHz; freq <= classifyTestMaxHz; freq += classifyTestStepHz {
		result := classifier.Classify(vag.SpectralFeature{
			Channel:           channel,
			DominantFreqHz:    freq,
			DominantMagnitude: config.Thresholds.MinConfidenceMagnitude + 1,
		})
		fmt.Fprintf(w, "%.0f\t%s\t%s\n", freq, result.Category, result.Severity)
	}

	return w.Flush()
}
