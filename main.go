package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"

	"github.com/alexflint/go-arg"
)

const OPEN_MODE_NONE = "none"
const OPEN_MODE_FILE = "file"

type Args struct {
	ConfigPath          string `arg:"positional" default:"config.yaml" help:"Path to the configuration YAML file. By default is used 'config.yaml' path."`
	ResultMode          string `arg:"-o" default:"none" help:"Specify how to open the result: 'none' for print into STDOUT only, 'file' for opening XLSX report in OS." enum:"none,file"`
	DontBuildXlsx       bool   `arg:"--no-xlsx" help:"Flag to don't build XLSX report."`
	DontBuildChart      bool   `arg:"--no-chart" help:"Flag to don't render income chart even if 'chartFile' is configured."`
	DontBuildTextReport bool   `arg:"--no-txt-report" help:"Flag to don't build TXT file report."`
}

// Version is application version string and should be updated with `go build -ldflags`.
var Version = "development"

func (Args) Version() string {
	return Version
}

func (Args) Description() string {
	return "AM-P2P-View is a local tool to aggregate account statements of P2P lending platforms into daily, monthly and total results."
}

func main() {
	if err := InitI18n("en"); err != nil {
		log.Fatalf("Can't initialize translations: %v", err)
	}
	log.Println(i18n.T("Version v", "v", Version))

	args, isHelpRequested, err := parseArgs(os.Args[1:])
	if err != nil {
		log.Fatalf("Error parsing arguments: %v", err)
	}
	if isHelpRequested {
		os.Exit(0)
	}

	if err := runApplication(args); err != nil {
		log.Fatalf("%s", err)
	}
}

// parseArgs parses command line arguments. Returns true if help was requested and printed.
func parseArgs(osArgs []string) (Args, bool, error) {
	var args Args
	p, err := arg.NewParser(arg.Config{}, &args)
	if err != nil {
		return args, false, fmt.Errorf("error creating argument parser: %w", err)
	}
	err = p.Parse(osArgs)
	if errors.Is(err, arg.ErrHelp) {
		p.WriteHelp(os.Stdout)
		return args, true, nil
	}
	if errors.Is(err, arg.ErrVersion) {
		fmt.Println(Version)
		return args, true, nil
	}
	return args, false, err
}

// runApplication evaluates all configured platforms and writes results.
// Returned error is already saved into the text report file if it is enabled.
func runApplication(args Args) error {
	isWriteToFile := !args.DontBuildTextReport
	isOpenFileWithResult := args.ResultMode == OPEN_MODE_FILE
	switch args.ResultMode {
	case OPEN_MODE_NONE, OPEN_MODE_FILE:
		// Valid modes
	default:
		return handleError(
			fmt.Errorf("invalid ResultMode '%s', supported only: %s, %s", args.ResultMode, OPEN_MODE_NONE, OPEN_MODE_FILE),
			isWriteToFile,
			false,
		)
	}

	if args.ConfigPath == "" {
		args.ConfigPath = DEFAULT_CONFIG_FILE_PATH
	}
	configPath, err := getAbsolutePath(args.ConfigPath)
	if err != nil {
		return handleError(fmt.Errorf("can't find configuration file '%s': %w", args.ConfigPath, err), isWriteToFile, false)
	}
	config, err := readConfig(configPath)
	if err != nil {
		return handleError(fmt.Errorf("configuration file '%s' is wrong: %w", configPath, err), isWriteToFile, false)
	}
	if err := InitI18n(config.Language); err != nil {
		return handleError(err, isWriteToFile, false)
	}
	dateRange, err := config.DateRange()
	if err != nil {
		return handleError(err, isWriteToFile, false)
	}
	requests, err := config.EvaluationRequests()
	if err != nil {
		return handleError(err, isWriteToFile, false)
	}

	logger := NewLogger()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = WithLogger(ctx, logger)
	logger.Info().
		Str("config", configPath).
		Str("language", config.Language).
		Str("date_range", dateRange.String()).
		Int("platforms", len(requests)).
		Msg(i18n.T("Using configuration"))

	result := EvaluatePlatforms(ctx, requests, dateRange, config.Workers)
	if len(result.Tables) == 0 && len(result.Failures) > 0 {
		messages := make([]string, 0, len(result.Failures))
		for _, failure := range result.Failures {
			messages = append(messages, i18n.T("p failed err", "p", failure.Platform, "err", failure.Err))
		}
		return handleError(
			fmt.Errorf("all platforms failed:\n%s", strings.Join(messages, "\n")),
			isWriteToFile,
			isOpenFileWithResult,
		)
	}
	report := Aggregate(result.Tables)

	if report.IsEmpty() {
		logger.Warn().Str("run_id", result.RunID).Msg(i18n.T("No results available!"))
	} else {
		if !args.DontBuildXlsx {
			if err := WriteReportXlsx(report, config.OutputFile); err != nil {
				return handleError(err, isWriteToFile, false)
			}
			logger.Info().Str("file", config.OutputFile).Msg(i18n.T("Report is saved"))
			if isOpenFileWithResult {
				if err := openFileInOS(config.OutputFile); err != nil {
					logger.Error().Err(err).Str("file", config.OutputFile).Msg("Can't open result file")
				}
			}
		}
		if !args.DontBuildChart && config.ChartFile != "" {
			err := SaveIncomeChart(report, ReferenceCurrency, config.ChartFile)
			switch {
			case errors.Is(err, ErrNoChartData):
				logger.Warn().Err(err).Msg(i18n.T("Chart is skipped"))
			case err != nil:
				return handleError(err, isWriteToFile, false)
			default:
				logger.Info().Str("file", config.ChartFile).Msg(i18n.T("Chart is saved"))
			}
		}
	}

	var reportStringBuilder strings.Builder
	if err := DumpReport(report, result, dateRange, &reportStringBuilder); err != nil {
		return handleError(fmt.Errorf("can't dump report: %w", err), isWriteToFile, false)
	}
	textReport := reportStringBuilder.String()

	// Always print result into STDOUT and conditionally into the file.
	fmt.Print(textReport)
	if isWriteToFile {
		if err := writeAndOpenFile(RESULT_FILE_PATH, textReport, false); err != nil {
			return err
		}
		logger.Info().Str("file", RESULT_FILE_PATH).Msg(i18n.T("Text report is saved"))
	}
	return nil
}

// handleError saves error into the text report file if need and returns it prefixed with "ERROR".
func handleError(err error, inFile bool, openFile bool) error {
	result := fmt.Errorf("ERROR: %w", err)
	if inFile {
		if writeErr := writeAndOpenFile(RESULT_FILE_PATH, result.Error(), openFile); writeErr != nil {
			return errors.Join(result, writeErr)
		}
	}
	return result
}
