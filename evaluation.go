package main

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// EvaluationRequest asks to normalize one downloaded statement.
type EvaluationRequest struct {
	Spec          PlatformSpec
	StatementPath string
}

// PlatformFailure describes a platform which was skipped because of an error.
type PlatformFailure struct {
	Platform string
	Err      error
}

// EvaluationResult contains tables of successfully evaluated platforms in request order.
type EvaluationResult struct {
	RunID    string
	Tables   []CanonicalTable
	Warnings []string
	Failures []PlatformFailure
	// Cancelled lists platforms which were not started because evaluation was cancelled.
	Cancelled []string
}

type evaluationOutcome struct {
	table     CanonicalTable
	unknown   string
	err       error
	cancelled bool
}

// EvaluatePlatforms reads and normalizes statements concurrently.
// Failure of one platform doesn't affect others. After ctx is done no new platform is started,
// already normalized tables are still returned.
func EvaluatePlatforms(
	ctx context.Context,
	requests []EvaluationRequest,
	dateRange DateRange,
	workers int,
) EvaluationResult {
	runID := uuid.NewString()
	logger := LoggerFromContext(ctx).With().Str("run_id", runID).Logger()
	if workers < 1 {
		workers = 1
	}
	if workers > MAX_WORKERS {
		workers = MAX_WORKERS
	}
	if workers > len(requests) {
		workers = len(requests)
	}
	logger.Info().
		Int("platforms", len(requests)).
		Int("workers", workers).
		Str("date_range", dateRange.String()).
		Msg(i18n.T("Evaluating statements"))

	outcomes := make([]evaluationOutcome, len(requests))
	indexes := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indexes {
				if ctx.Err() != nil {
					outcomes[i] = evaluationOutcome{cancelled: true}
					continue
				}
				table, unknown, err := evaluatePlatform(requests[i], dateRange)
				outcomes[i] = evaluationOutcome{table: table, unknown: unknown, err: err}
			}
		}()
	}
	for i := range requests {
		indexes <- i
	}
	close(indexes)
	wg.Wait()

	result := EvaluationResult{RunID: runID}
	for i, outcome := range outcomes {
		name := requests[i].Spec.Name
		platformLogger := logger.With().Str("platform", name).Logger()
		switch {
		case outcome.cancelled:
			platformLogger.Warn().Msg(i18n.T("Evaluation cancelled"))
			result.Cancelled = append(result.Cancelled, name)
		case outcome.err != nil:
			platformLogger.Error().Err(outcome.err).Msg(i18n.T("Platform is skipped"))
			result.Failures = append(result.Failures, PlatformFailure{Platform: name, Err: outcome.err})
		default:
			if outcome.unknown != "" {
				warning := i18n.T("p unknown cash flow types will be ignored", "p", name, "types", outcome.unknown)
				platformLogger.Warn().Str("unknown", outcome.unknown).Msg(warning)
				result.Warnings = append(result.Warnings, warning)
			}
			platformLogger.Info().Int("rows", outcome.table.Len()).Msg(i18n.T("Platform is evaluated"))
			result.Tables = append(result.Tables, outcome.table)
		}
	}
	return result
}

// evaluatePlatform reads, prepares and normalizes statement of one platform.
func evaluatePlatform(request EvaluationRequest, dateRange DateRange) (CanonicalTable, string, error) {
	spec := request.Spec
	raw, err := ReadRawTableFromFile(request.StatementPath, spec.Read)
	if err != nil {
		return CanonicalTable{}, "", fmt.Errorf("can't read %s statement '%s': %w", spec.Name, request.StatementPath, err)
	}
	prepared, mapping, err := spec.PrepareStatement(raw)
	if err != nil {
		return CanonicalTable{}, "", err
	}
	return Normalize(prepared, spec.Name, dateRange, mapping)
}
