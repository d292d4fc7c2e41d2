package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/kneescan/vag-analyzer/configs"
	"github.com/kneescan/vag-analyzer/internal/pipeline"
	"github.com/kneescan/vag-analyzer/pkg/logging"
	"github.com/kneescan/vag-analyzer/pkg/output"
	"github.com/kneescan/vag-analyzer/pkg/source"
	"github.com/kneescan/vag-analyzer/pkg/vag"
	"github.com/kneescan/vag-analyzer/pkg/vag/classify"
	"github.com/kneescan/vag-analyzer/pkg/vag/filter"
	"github.com/kneescan/vag-analyzer/pkg/vag/spectral"
)

// Context holds the application context and configuration
type Context struct {
	// CLI arguments
	RecordingFile string
	OutputFile    string
	OutputFormat  string
	ResultLogFile string
	Timeout       time.Duration
	Verbose       bool
	Quiet         bool

	// Runtime context
	Logger logging.Logger
	Config *configs.Config
}

// AnalyzerApp handles one analysis session's lifecycle
type AnalyzerApp struct {
	ctx        *Context
	config     *configs.Config
	controller *pipeline.Controller
	classifier *classify.Classifier
	logger     logging.Logger
}

// NewAnalyzerApp loads configuration and wires the pipeline stages
func NewAnalyzerApp(ctx *Context) (*AnalyzerApp, error) {
	logger := setupLogging(ctx)
	ctx.Logger = logger

	config, err := configs.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	ctx.Config = config

	stage, err := filter.NewStage(config.Filter, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to build filter stage: %w", err)
	}

	analyzer, err := spectral.NewAnalyzer(config.Spectral, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to build spectral analyzer: %w", err)
	}

	classifier, err := classify.NewClassifier(config.Thresholds)
	if err != nil {
		return nil, fmt.Errorf("failed to build classifier: %w", err)
	}

	controller, err := pipeline.NewController(config.Pipeline, stage, analyzer, classifier, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to build pipeline controller: %w", err)
	}

	logger.Debug("Analyzer application initialized", logging.Fields{
		"recording_file": ctx.RecordingFile,
		"output_format":  ctx.OutputFormat,
		"sample_rate":    config.Acquisition.SampleRate,
		"window_size":    config.Pipeline.WindowSize,
	})

	return &AnalyzerApp{
		ctx:        ctx,
		config:     config,
		controller: controller,
		classifier: classifier,
		logger:     logger,
	}, nil
}

// Run analyzes the recording and outputs the session summary
func (app *AnalyzerApp) Run(ctx context.Context) error {
	src, err := source.NewRecordingSource(app.ctx.RecordingFile, app.config.Acquisition.SampleRate, app.logger)
	if err != nil {
		return err
	}

	if app.ctx.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, app.ctx.Timeout)
		defer cancel()
	}

	var resultLog *output.ResultLog
	if app.ctx.ResultLogFile != "" {
		resultLog, err = output.OpenResultLog(app.ctx.ResultLogFile)
		if err != nil {
			return err
		}
		defer resultLog.Close()
	}

	results, err := app.controller.Run(ctx, src)
	if err != nil {
		return fmt.Errorf("failed to start pipeline: %w", err)
	}

	var collected []vag.ClassificationResult
	for result := range results {
		collected = append(collected, result)
		if resultLog != nil {
			if err := resultLog.Append(result); err != nil {
				app.logger.Error(err, "Failed to append to result log")
			}
		}
	}

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("analysis interrupted: %w", err)
	}

	summary := BuildSummary(collected, app.classifier, app.controller.Stats())
	summary.RecordingFile = app.ctx.RecordingFile
	summary.SkippedLines = src.SkippedLines()

	return app.outputSummary(summary, collected)
}

// setupLogging configures logging based on context
func setupLogging(ctx *Context) logging.Logger {
	level := "info"
	if ctx.Verbose {
		level = "debug"
	}
	if ctx.Quiet {
		level = "error"
	}
	logger := logging.NewLogger(level)
	logging.SetDefaultLogger(logger)
	return logger
}

// outputSummary renders the session summary (or raw results for CSV)
// to stdout or the output file
func (app *AnalyzerApp) outputSummary(summary *SessionSummary, results []vag.ClassificationResult) error {
	formatter := output.NewFormatter(app.ctx.OutputFormat)

	// CSV is row-oriented; it carries the per-window results instead
	// of the nested summary
	var data any = summary
	if app.ctx.OutputFormat == "csv" {
		data = results
	}

	formatted, err := formatter.Format(data, true)
	if err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}

	if app.ctx.OutputFile != "" {
		return app.writeToFile(formatted)
	}

	_, err = os.Stdout.Write(append(formatted, '\n'))
	return err
}

// writeToFile writes data to the specified output file
func (app *AnalyzerApp) writeToFile(data []byte) error {
	dir := filepath.Dir(app.ctx.OutputFile)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if err := os.WriteFile(app.ctx.OutputFile, data, 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}

	app.logger.Debug("Results written to file", logging.Fields{
		"output_file": app.ctx.OutputFile,
		"size_bytes":  len(data),
	})

	return nil
}
