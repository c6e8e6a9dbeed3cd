package pipeline

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/richxcame/pricing-pipeline/internal/changetracker"
	"github.com/richxcame/pricing-pipeline/internal/forecastengine"
	"github.com/richxcame/pricing-pipeline/internal/recommendation"
	"github.com/richxcame/pricing-pipeline/internal/rulegenerator"
	"github.com/richxcame/pricing-pipeline/internal/strategy"
	"github.com/richxcame/pricing-pipeline/pkg/async"
	"github.com/richxcame/pricing-pipeline/pkg/common"
	"github.com/richxcame/pricing-pipeline/pkg/config"
	"github.com/richxcame/pricing-pipeline/pkg/logger"
)

// RunRepository persists RunRecords and serves history/last-run reads.
type RunRepository interface {
	Save(ctx context.Context, run RunRecord) error
	LastRun(ctx context.Context) (*RunRecord, error)
	History(ctx context.Context, limit, offset int) ([]RunRecord, error)
}

// Orchestrator is the PipelineOrchestrator: it coordinates Phase 1
// (ForecastEngine ‖ RuleGenerator), the retraining gate, Phase 2
// (RecommendationEngine), and persists the resulting RunRecord. At most
// one run executes per process at a time.
type Orchestrator struct {
	cfg config.PipelineConfig

	tracker       *changetracker.Tracker
	forecastRepo  forecastengine.RepositoryInterface
	forecastEng   *forecastengine.Engine
	model         forecastengine.Model
	retrainer     forecastengine.Retrainer
	ruleInputs    RuleInputsProvider
	recEngine     *recommendation.Engine
	strategyRepo  strategy.RepositoryInterface
	runRepo       RunRepository

	statusCache *StatusCache

	mu           sync.Mutex
	running      bool
	currentRunID string
	cancel       context.CancelFunc
}

// WithStatusCache attaches a Redis-backed last-run mirror; get_last_run
// remains correct without it, this only shaves the read path.
func (o *Orchestrator) WithStatusCache(c *StatusCache) *Orchestrator {
	o.statusCache = c
	return o
}

// New builds an Orchestrator from its collaborators and configuration.
func New(
	cfg config.PipelineConfig,
	tracker *changetracker.Tracker,
	forecastRepo forecastengine.RepositoryInterface,
	model forecastengine.Model,
	retrainer forecastengine.Retrainer,
	ruleInputs RuleInputsProvider,
	strategyRepo strategy.RepositoryInterface,
	runRepo RunRepository,
) *Orchestrator {
	return &Orchestrator{
		cfg:          cfg,
		tracker:      tracker,
		forecastRepo: forecastRepo,
		forecastEng:  forecastengine.NewEngine(forecastRepo, model),
		model:        model,
		retrainer:    retrainer,
		ruleInputs:   ruleInputs,
		recEngine:    recommendation.NewEngine(cfg.MultiplierClampMin, cfg.MultiplierClampMax),
		strategyRepo: strategyRepo,
		runRepo:      runRepo,
	}
}

// Trigger implements trigger_pipeline(force). A scheduler-sourced call
// with no pending changes and force=false returns {status=skipped}
// without writing a RunRecord. A call while a run is already in flight
// returns {status=already_running}.
func (o *Orchestrator) Trigger(ctx context.Context, force bool) TriggerResult {
	o.mu.Lock()
	if o.running {
		runID := o.currentRunID
		o.mu.Unlock()
		return TriggerResult{Status: TriggerStatusAlreadyRunning, RunID: runID}
	}

	source := TriggerManual
	if force {
		source = TriggerManualForce
	} else {
		source = TriggerScheduler
	}

	if !force && !o.tracker.HasPendingChanges() {
		o.mu.Unlock()
		return TriggerResult{Status: TriggerStatusSkipped}
	}

	runID := GenerateRunID(time.Now())
	runCtx, cancel := context.WithTimeout(context.Background(), o.cfg.OverallTimeout)
	o.running = true
	o.currentRunID = runID
	o.cancel = cancel
	o.mu.Unlock()

	run := o.execute(runCtx, runID, source)

	o.mu.Lock()
	o.running = false
	o.currentRunID = ""
	o.cancel = nil
	o.mu.Unlock()
	cancel()

	status := TriggerStatusCompleted
	if run.Status == RunStatusFailed {
		status = TriggerStatusFailed
	}
	return TriggerResult{Status: status, RunID: runID}
}

// CancelCurrent signals cooperative cancellation to the in-flight run, if
// any. It is a no-op when no run is running.
func (o *Orchestrator) CancelCurrent() {
	o.mu.Lock()
	cancel := o.cancel
	o.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// Status implements get_status().
func (o *Orchestrator) Status() StatusSnapshot {
	o.mu.Lock()
	running := o.running
	runID := o.currentRunID
	o.mu.Unlock()

	return StatusSnapshot{
		Running:        running,
		CurrentRunID:   runID,
		PendingChanges: o.tracker.Pending(),
	}
}

// ClearChanges implements clear_changes(): it snapshots and clears the
// ChangeTracker administratively, outside of a run.
func (o *Orchestrator) ClearChanges() ClearResult {
	snapshot := o.tracker.SnapshotAndClear()
	cleared := make([]string, 0, len(snapshot))
	for collection := range snapshot {
		cleared = append(cleared, collection)
	}
	return ClearResult{Cleared: cleared}
}

// LastRun implements get_last_run().
func (o *Orchestrator) LastRun(ctx context.Context) (*RunRecord, error) {
	if run, _ := o.statusCache.Get(ctx); run != nil {
		return run, nil
	}
	return o.runRepo.LastRun(ctx)
}

// History implements get_history(limit, offset).
func (o *Orchestrator) History(ctx context.Context, limit, offset int) ([]RunRecord, error) {
	return o.runRepo.History(ctx, limit, offset)
}

// execute runs both phases to completion (or failure/cancellation) and
// persists the resulting RunRecord exactly once.
func (o *Orchestrator) execute(ctx context.Context, runID string, source TriggerSource) RunRecord {
	run := RunRecord{
		RunID:         runID,
		TriggerSource: source,
		StartedAt:     time.Now(),
		Status:        RunStatusRunning,
		Phases: Phases{
			Forecast:       PhaseResult{Status: PhaseStatusPending},
			Analysis:       PhaseResult{Status: PhaseStatusPending},
			Recommendation: PhaseResult{Status: PhaseStatusPending},
		},
	}

	if err := o.strategyRepo.UpsertObjectives(ctx, strategy.StandingObjectives); err != nil {
		run.addDiagnostic("objectives_upsert_failed")
		logger.Get().Warn("failed to upsert standing business objectives",
			zap.String("run_id", run.RunID), zap.Error(err))
	}

	snapshot := o.tracker.SnapshotAndClear()
	o.runRetrainingGate(ctx, &run, snapshot)

	forecastResult, rules := o.runPhase1(ctx, &run)

	if ctx.Err() != nil {
		run.addDiagnostic("cancelled")
		run.Status = RunStatusFailed
		run.CompletedAt = time.Now()
		o.persist(ctx, run)
		return run
	}

	o.runPhase2(ctx, &run, forecastResult, rules)

	run.CompletedAt = time.Now()
	if run.Phases.Recommendation.Status == PhaseStatusFailed {
		run.Status = RunStatusFailed
	} else {
		run.Status = RunStatusCompleted
	}

	o.persist(ctx, run)
	return run
}

// runRetrainingGate invokes the configured Retrainer before Phase 1 when
// the ChangeTracker snapshot contains historical_rides or
// competitor_prices. A failed or absent retrain never aborts the run:
// ForecastEngine proceeds with whatever model is already wired, and a
// model_stale diagnostic is recorded.
func (o *Orchestrator) runRetrainingGate(ctx context.Context, run *RunRecord, snapshot map[string]struct{}) {
	if !o.cfg.AutoRetrain || o.retrainer == nil || !needsRetraining(snapshot) {
		return
	}
	success, _, err := o.retrainer.Retrain(ctx)
	if err != nil || !success {
		run.addDiagnostic("model_stale")
		logger.Get().Warn("pipeline retraining gate failed, proceeding with existing model",
			zap.String("run_id", run.RunID), zap.Error(err))
	}
}

type phase1Outcome struct {
	result *forecastengine.Result
	err    error
}

type rulesOutcome struct {
	rules []rulegenerator.Rule
	err   error
}

// runPhase1 runs ForecastEngine and RuleGenerator concurrently; a failure
// in either does not abort the other.
func (o *Orchestrator) runPhase1(ctx context.Context, run *RunRecord) (*forecastengine.Result, []rulegenerator.Rule) {
	phaseCtx, cancel := context.WithTimeout(ctx, o.cfg.Phase1Timeout)
	defer cancel()

	forecastCh := make(chan phase1Outcome, 1)
	rulesCh := make(chan rulesOutcome, 1)

	forecastStart := time.Now()
	go func() {
		since := forecastWindowStart(time.Now())
		rides, err := o.forecastRepo.GetHistoricalRides(phaseCtx, since)
		if err != nil {
			forecastCh <- phase1Outcome{err: err}
			return
		}
		result, err := o.forecastEng.Run(phaseCtx, rides, forecastLookbackDays)
		forecastCh <- phase1Outcome{result: result, err: err}
	}()

	rulesStart := time.Now()
	go func() {
		inputs, err := o.ruleInputs.RuleInputs(phaseCtx)
		if err != nil {
			rulesCh <- rulesOutcome{err: err}
			return
		}
		rules := rulegenerator.Generate(inputs, time.Now())
		rulesCh <- rulesOutcome{rules: rules}
	}()

	var forecastResult *forecastengine.Result
	var rules []rulegenerator.Rule

	for i := 0; i < 2; i++ {
		select {
		case out := <-forecastCh:
			run.Phases.Forecast = toPhaseResult(out.err, phaseCtx, forecastStart)
			if out.err == nil {
				forecastResult = out.result
			}
		case out := <-rulesCh:
			run.Phases.Analysis = toPhaseResult(out.err, phaseCtx, rulesStart)
			if out.err == nil {
				rules = out.rules
			}
		}
	}

	if forecastResult != nil {
		run.Results.Forecasts = forecastsByHorizonKey(forecastResult.Forecasts)
	}
	run.Results.Rules = rules

	return forecastResult, rules
}

// runPhase2 runs RecommendationEngine sequentially against Phase 1's
// output. A Phase 2 failure aborts the run with status=failed but the
// RunRecord retains Phase 1's partial results.
func (o *Orchestrator) runPhase2(ctx context.Context, run *RunRecord, forecastResult *forecastengine.Result, rules []rulegenerator.Rule) {
	phaseCtx, cancel := context.WithTimeout(ctx, o.cfg.Phase2Timeout)
	defer cancel()

	start := time.Now()

	if forecastResult == nil {
		err := common.NewComponentError("phase 2 requires phase 1 forecasts", nil)
		run.Phases.Recommendation = toPhaseResult(err, phaseCtx, start)
		return
	}

	forecasts30d := recommendation.FromForecasts(forecastResult.Forecasts, forecastengine.Horizon30)
	recs := o.recEngine.Generate(rules, forecasts30d)

	run.Results.Recommendations = recs

	if err := o.strategyRepo.SaveRules(ctx, run.RunID, rules); err != nil {
		logger.Get().Error("failed to persist rules", zap.String("run_id", run.RunID), zap.Error(err))
	}
	if err := o.strategyRepo.SaveRecommendations(ctx, run.RunID, recs); err != nil {
		logger.Get().Error("failed to persist recommendations", zap.String("run_id", run.RunID), zap.Error(err))
	}

	run.Phases.Recommendation = toPhaseResult(phaseCtx.Err(), phaseCtx, start)
}

// persist writes the RunRecord with up to 3 retries on exponential
// backoff, mirroring it to the status cache on success.
func (o *Orchestrator) persist(ctx context.Context, run RunRecord) {
	const maxAttempts = 1 + 3 // first write plus up to 3 retries
	backoff := 500 * time.Millisecond
	var err error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err = o.runRepo.Save(context.Background(), run); err == nil {
			async.Go(ctx, "mirror-run-to-status-cache", func(taskCtx context.Context) {
				if cacheErr := o.statusCache.Put(taskCtx, run); cacheErr != nil {
					logger.Get().Warn("failed to mirror run record to status cache",
						zap.String("run_id", run.RunID), zap.Error(cacheErr))
				}
			})
			return
		}
		if attempt < maxAttempts {
			time.Sleep(backoff)
			backoff *= 2
		}
	}
	logger.Get().Error("persistence error writing run record after retries",
		zap.String("run_id", run.RunID), zap.Error(err))
}

// toPhaseResult classifies an error into a PhaseResult, distinguishing
// cancellation (ctx.Err() == context.Canceled/DeadlineExceeded) from a
// true component failure.
func toPhaseResult(err error, ctx context.Context, start time.Time) PhaseResult {
	duration := time.Since(start).Milliseconds()
	if err == nil {
		return PhaseResult{Status: PhaseStatusCompleted, DurationMs: duration}
	}
	if ctx.Err() != nil {
		msg := ctx.Err().Error()
		return PhaseResult{Status: PhaseStatusCancelled, Error: &msg, DurationMs: duration}
	}
	msg := err.Error()
	return PhaseResult{Status: PhaseStatusFailed, Error: &msg, DurationMs: duration}
}
