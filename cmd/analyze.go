package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/kneescan/vag-analyzer/internal/app"
)

var (
	analyzeOutputFile string
	analyzeResultLog  string
	analyzeTimeout    time.Duration
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze [flags] <recording-file>",
	Short: "Analyze a recorded VAG session",
	Long: `Run the full analysis pipeline over a recorded acquisition session.

The recording may use either of the acquisition firmware's formats:
labeled serial lines ("Mic: 123 Piezo: 45") or plain CSV ("123,45").

Examples:
  # Analyze a recording with default calibration
  vag-analyzer analyze session.txt

  # Override thresholds from a calibration file and write results
  vag-analyzer analyze --config clinic-calibration.yaml --result-log results.jsonl session.txt

  # Emit per-window results as CSV
  vag-analyzer analyze -o csv session.txt`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringVar(&analyzeOutputFile, "output-file", "",
		"write the summary to a file instead of stdout")
	analyzeCmd.Flags().StringVar(&analyzeResultLog, "result-log", "",
		"append per-window results to a JSONL file")
	analyzeCmd.Flags().DurationVar(&analyzeTimeout, "timeout", 0,
		"abort the analysis after this duration (0 = no timeout)")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	appCtx := &app.Context{
		RecordingFile: args[0],
		OutputFile:    analyzeOutputFile,
		OutputFormat:  outputFormat,
		ResultLogFile: analyzeResultLog,
		Timeout:       analyzeTimeout,
		Verbose:       verbose,
		Quiet:         quiet,
	}

	analyzer, err := app.NewAnalyzerApp(appCtx)
	if err != nil {
		return fmt.Errorf("failed to initialize analyzer: %w", err)
	}

	return analyzer.Run(ctx)
}
