package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/finmodeler/statement-forge/internal/checker"
	"github.com/finmodeler/statement-forge/internal/config"
	"github.com/finmodeler/statement-forge/internal/engine"
	"github.com/finmodeler/statement-forge/internal/export"
	"github.com/finmodeler/statement-forge/pkg/constants"
	"github.com/finmodeler/statement-forge/pkg/output"
)

// initializeLogger creates a zap logger based on configuration and CLI override
func initializeLogger(loggingConfig config.LoggingConfig, logLevelOverride string) (*zap.Logger, error) {
	// Determine log level (CLI override takes precedence)
	level := loggingConfig.Level
	if logLevelOverride != "" {
		level = logLevelOverride
	}
	if level == "" {
		level = "info"
	}

	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn", "warning":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		return nil, fmt.Errorf("invalid log level: %s", level)
	}

	format := loggingConfig.Format
	if format == "" {
		format = "json"
	}

	var zapConfig zap.Config
	switch format {
	case "console":
		zapConfig = zap.NewDevelopmentConfig()
		zapConfig.Level = zap.NewAtomicLevelAt(zapLevel)
	case "json":
		zapConfig = zap.NewProductionConfig()
		zapConfig.Level = zap.NewAtomicLevelAt(zapLevel)
	default:
		return nil, fmt.Errorf("invalid log format: %s", format)
	}

	if loggingConfig.OutputFile != "" {
		if dir := filepath.Dir(loggingConfig.OutputFile); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create log directory %s: %v", dir, err)
			}
		}

		// Test if we can create/write to the file
		if file, err := os.OpenFile(loggingConfig.OutputFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644); err != nil {
			return nil, fmt.Errorf("failed to open log file %s: %v", loggingConfig.OutputFile, err)
		} else {
			_ = file.Close()
		}

		zapConfig.OutputPaths = []string{loggingConfig.OutputFile}
		zapConfig.ErrorOutputPaths = []string{loggingConfig.OutputFile}
	}

	return zapConfig.Build()
}

func main() {
	// Process command line flags first to get config location
	configLocation := flag.String("config", constants.DefaultConfigFile, "path to assumptions file")
	outputFormatFlag := flag.String("output-format", "", "type of output override: pretty, csv")
	logLevel := flag.String("log-level", "", "log level override (debug, info, warn, error)")
	excelPath := flag.String("excel", "", "write an Excel workbook to this path")
	wordPath := flag.String("word", "", "write a Word document to this path")
	flag.Parse()

	// Load the config file to get logging configuration
	conf, err := config.LoadConfiguration(*configLocation)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load configuration at %s\", \"error\": \"%v\"}\n", *configLocation, err)
		os.Exit(1)
	}

	// Initialize logging based on config and CLI override
	logger, err := initializeLogger(conf.Logging, *logLevel)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": \"%v\"}\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	// Determine output format (CLI override takes precedence over config)
	outputFormat := conf.Output.Format
	if *outputFormatFlag != "" {
		outputFormat = *outputFormatFlag
	}
	if outputFormat == "" {
		outputFormat = constants.OutputFormatPretty
	}
	if outputFormat != constants.OutputFormatPretty && outputFormat != constants.OutputFormatCSV {
		logger.Fatal(fmt.Sprintf("invalid output format: %s (must be pretty or csv)", outputFormat),
			zap.String("op", "main"),
		)
	}

	// Validate configuration and display any warnings
	warnings := conf.ValidateConfiguration()
	for _, warning := range warnings {
		logger.Warn("Configuration warning: "+warning,
			zap.String("op", "main"),
		)
	}

	// Run the engine to project the statements.
	result, err := engine.Compute(logger, conf.Assumptions, conf.Periods)
	if err != nil {
		logger.Fatal("failed to compute projection",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}

	// Verify the accounting identities across every period.
	report := checker.Verify(result)
	if !report.Balanced {
		for _, violation := range report.Violations {
			logger.Warn("Consistency violation: "+violation.String(),
				zap.String("op", "main"),
			)
		}
	}

	// Handle output.
	switch outputFormat {
	case constants.OutputFormatPretty:
		output.PrettyFormat(result, conf.Presentation)
	case constants.OutputFormatCSV:
		output.CsvFormat(result, conf.Presentation)
	}

	if *excelPath != "" {
		data, err := export.Excel(result, conf)
		if err != nil {
			logger.Fatal("failed to build Excel workbook",
				zap.String("op", "main"),
				zap.Error(err),
			)
		}
		if err := export.WriteFile(*excelPath, data); err != nil {
			logger.Fatal("failed to write Excel workbook",
				zap.String("op", "main"),
				zap.Error(err),
			)
		}
		logger.Info("wrote Excel workbook",
			zap.String("op", "main"),
			zap.String("path", *excelPath),
		)
	}

	if *wordPath != "" {
		data, err := export.Word(result, conf)
		if err != nil {
			logger.Fatal("failed to build Word document",
				zap.String("op", "main"),
				zap.Error(err),
			)
		}
		if err := export.WriteFile(*wordPath, data); err != nil {
			logger.Fatal("failed to write Word document",
				zap.String("op", "main"),
				zap.Error(err),
			)
		}
		logger.Info("wrote Word document",
			zap.String("op", "main"),
			zap.String("path", *wordPath),
		)
	}
}
