package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kneescan/vag-analyzer/configs"
	"github.com/kneescan/vag-analyzer/internal/app"
	"github.com/kneescan/vag-analyzer/internal/pipeline"
	"github.com/kneescan/vag-analyzer/pkg/logging"
	"github.com/kneescan/vag-analyzer/pkg/output"
	"github.com/kneescan/vag-analyzer/pkg/source"
	"github.com/kneescan/vag-analyzer/pkg/vag"
	"github.com/kneescan/vag-analyzer/pkg/vag/classify"
	"github.com/kneescan/vag-analyzer/pkg/vag/filter"
	"github.com/kneescan/vag-analyzer/pkg/vag/spectral"
)

var (
	spectrumTestFreq      float64
	spectrumTestAmplitude float64
	spectrumTestMains     float64
	spectrumTestSeconds   float64
)

// spectrumTestCmd is a debug command: it runs a generated sinusoid
// through the full pipeline so filter and FFT behavior can be checked
// without acquisition hardware
var spectrumTestCmd = &cobra.Command{
	Use:   "spectrum-test",
	Short: "Run a synthetic tone through the analysis pipeline",
	Long: `Generates a synthetic two-channel signal (a primary tone plus
optional mains interference) and runs it through filtering, spectral
analysis and classification. Useful to verify calibration settings
before a recording session.

Examples:
  # A healthy-range tone with mains hum
  vag-analyzer spectrum-test --freq 30 --amplitude 100 --mains 20

  # A tone in the suspect range
  vag-analyzer spectrum-test --freq 220 --amplitude 100`,
	RunE: runSpectrumTest,
}

func init() {
	rootCmd.AddCommand(spectrumTestCmd)

	spectrumTestCmd.Flags().Float64Var(&spectrumTestFreq, "freq", 30,
		"primary tone frequency in Hz")
	spectrumTestCmd.Flags().Float64Var(&spectrumTestAmplitude, "amplitude", 100,
		"primary tone amplitude in ADC counts")
	spectrumTestCmd.Flags().Float64Var(&spectrumTestMains, "mains", 20,
		"mains interference amplitude at the configured notch frequency (0 to disable)")
	spectrumTestCmd.Flags().Float64Var(&spectrumTestSeconds, "seconds", 2,
		"generated signal duration")
}

func runSpectrumTest(cmd *cobra.Command, args []string) error {
	logger := logging.NewLogger(logLevel)
	logging.SetDefaultLogger(logger)

	config, err := configs.LoadConfig()
	if err != nil {
		return err
	}
	if err := config.Validate(); err != nil {
		return err
	}

	tones := []source.Tone{{FreqHz: spectrumTestFreq, Amplitude: spectrumTestAmplitude}}
	if spectrumTestMains > 0 {
		tones = append(tones, source.Tone{FreqHz: config.Filter.NotchHz, Amplitude: spectrumTestMains})
	}

	src, err := source.NewSyntheticSource(source.SyntheticConfig{
		SampleRate: config.Acquisition.SampleRate,
		NumSamples: int(spectrumTestSeconds * config.Acquisition.SampleRate),
		Mic:        tones,
		Piezo:      tones,
	})
	if err != nil {
		return err
	}

	stage, err := filter.NewStage(config.Filter, logger)
	if err != nil {
		return err
	}
	analyzer, err := spectral.NewAnalyzer(config.Spectral, logger)
	if err != nil {
		return err
	}
	classifier, err := classify.NewClassifier(config.Thresholds)
	if err != nil {
		return err
	}
	controller, err := pipeline.NewController(config.Pipeline, stage, analyzer, classifier, logger)
	if err != nil {
		return err
	}

	results, err := controller.Run(cmd.Context(), src)
	if err != nil {
		return err
	}

	var collected []vag.ClassificationResult
	for result := range results {
		collected = append(collected, result)
	}

	summary := app.BuildSummary(collected, classifier, controller.Stats())

	formatted, err := output.NewFormatter(outputFormat).Format(summary, true)
	if err != nil {
		// CSV wants raw rows
		formatted, err = output.NewFormatter(outputFormat).Format(collected, true)
		if err != nil {
			return err
		}
	}

	fmt.Println(string(formatted))
	return nil
}
