package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/iwvelando/loan-ledger/internal/config"
	"github.com/iwvelando/loan-ledger/internal/report"
	"github.com/iwvelando/loan-ledger/pkg/constants"
	"github.com/iwvelando/loan-ledger/pkg/ledger"
	"github.com/iwvelando/loan-ledger/pkg/model"
	"github.com/iwvelando/loan-ledger/pkg/payoff"
	"github.com/iwvelando/loan-ledger/pkg/projection"
	"github.com/iwvelando/loan-ledger/pkg/timeline"
	"github.com/iwvelando/loan-ledger/pkg/validation"
)

// initializeLogger creates a zap logger based on configuration and CLI override
func initializeLogger(loggingConfig config.LoggingConfig, logLevelOverride string) (*zap.Logger, error) {
	// Determine log level (CLI override takes precedence)
	level := loggingConfig.Level
	if logLevelOverride != "" {
		level = logLevelOverride
	}
	if level == "" {
		level = "info" // Default to info level
	}

	// Parse log level
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

	// Determine output format
	format := loggingConfig.Format
	if format == "" {
		format = "json" // Default to JSON for production
	}

	// Configure encoder
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

	// Configure output file if specified
	if loggingConfig.OutputFile != "" {
		// Ensure the directory exists
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
	configLocation := flag.String("config", constants.DefaultConfigFile, "path to portfolio file")
	outputFormatFlag := flag.String("output-format", "", "type of output override: pretty, csv")
	logLevel := flag.String("log-level", "", "log level override (debug, info, warn, error)")
	flag.Parse()

	// Load the config file to get logging configuration
	conf, err := config.LoadConfiguration(*configLocation)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load configuration at %s\", \"error\": \"%v\"}\n", *configLocation, err)
		return
	}

	// Initialize logging based on config and CLI override
	logger, err := initializeLogger(conf.Logging, *logLevel)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": \"%v\"}\n", err)
		return
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
		outputFormat = constants.OutputFormatPretty // Default to pretty format
	}

	err = validation.ValidateOutputFormat(outputFormat)
	if err != nil {
		logger.Fatal(err.Error(),
			zap.String("op", "main"),
		)
	}

	grouping, err := timeline.ParseGroupMode(conf.Output.Grouping)
	if err != nil {
		logger.Fatal(err.Error(),
			zap.String("op", "main"),
		)
	}

	// Convert the portfolio into engine collections.
	portfolio, err := conf.ToPortfolio()
	if err != nil {
		logger.Fatal("failed to parse portfolio",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}

	// Validate inputs and display any warnings; the engine clamps rather
	// than rejects, so this is the place bad amounts surface.
	var warnings []string
	for i := range portfolio.Loans {
		warnings = append(warnings, validation.ValidateLoan(&portfolio.Loans[i])...)
	}
	warnings = append(warnings, validation.ValidatePayments(portfolio.Payments)...)
	warnings = append(warnings, validation.ValidateDraws(portfolio.Draws)...)
	for _, warning := range warnings {
		logger.Warn("Portfolio warning: "+warning,
			zap.String("op", "main"),
		)
	}

	// Reconcile every loan's ledger.
	engine := ledger.NewEngine(logger)
	payments, summaries := engine.RecalculateAll(portfolio.Loans, portfolio.Payments, portfolio.Draws)

	estimator := payoff.NewEstimator(logger)
	projector := projection.NewProjector(logger)

	var reports []report.LoanReport
	for i := range portfolio.Loans {
		loan := &portfolio.Loans[i]
		summary := summaries[loan.ID]

		var loanPayments []model.Payment
		for j := range payments {
			if payments[j].LoanRef == loan.ID {
				loanPayments = append(loanPayments, payments[j])
			}
		}
		sort.SliceStable(loanPayments, func(a, b int) bool {
			return loanPayments[a].PaymentDate.Before(loanPayments[b].PaymentDate)
		})

		payoffDate := estimator.Estimate(loan, summary.Balance, loan.DueAnchor(), payments)

		opts := projection.Options{
			RemainingPeriods: loan.TermPeriods() - summary.ScheduledPosted,
			FixedPayment:     conf.Projection.FixedPayment,
		}
		var result timeline.Result
		switch conf.Projection.Mode {
		case "", "periods":
			result = projector.ProjectPeriods(loan, summary.Balance, summary.NextDueDate, portfolio.Rules[loan.ID], opts)
		case "events":
			result = projector.ProjectEvents(loan, summary.Balance, summary.NextDueDate, portfolio.Rules[loan.ID], opts)
		default:
			logger.Fatal(fmt.Sprintf("invalid projection mode: %s", conf.Projection.Mode),
				zap.String("op", "main"),
			)
		}

		reports = append(reports, report.LoanReport{
			Loan:       loan,
			Payments:   loanPayments,
			Summary:    summary,
			PayoffDate: payoffDate,
			Projection: result,
			Buckets:    timeline.Aggregate(result.Rows, grouping),
		})
	}

	// Handle output.
	switch outputFormat {
	case constants.OutputFormatPretty:
		report.PrettyFormat(reports)
	case constants.OutputFormatCSV:
		report.CsvFormat(reports)
	}
}
