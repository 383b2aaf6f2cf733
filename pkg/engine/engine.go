package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"renderhq/janus/pkg/audit"
	"renderhq/janus/pkg/config"
	"renderhq/janus/pkg/ledger"
	"renderhq/janus/pkg/notify"
	"renderhq/janus/pkg/report"
	"renderhq/janus/pkg/retention"
	"renderhq/janus/pkg/rules"
	"renderhq/janus/pkg/storage"
)

// Engine orchestrates cleanup runs: walk, classify, resolve, execute,
// report, notify. An Engine is safe to reuse across runs; each run builds
// its own inventory and executor.
type Engine struct {
	cfg         *config.Config
	rulesMu     sync.RWMutex
	rules       *rules.RuleSet
	policy      *retention.Policy
	backend     storage.Backend
	auditStore  audit.Storage
	ledgerStore ledger.Store
	notifier    notify.Notifier
	metrics     *Metrics
	logger      *slog.Logger
}

// Dependencies carries the collaborators an Engine needs.
type Dependencies struct {
	Backend     storage.Backend
	AuditStore  audit.Storage
	LedgerStore ledger.Store
	Notifier    notify.Notifier
	Metrics     *Metrics // optional
}

// New creates an Engine from a validated config, a compiled rule set, and
// the run collaborators. The retention policy is built from cfg.Retention.
func New(cfg *config.Config, ruleSet *rules.RuleSet, deps Dependencies) (*Engine, error) {
	windows := make(map[rules.Category]int, len(cfg.Retention))
	for name, days := range cfg.Retention {
		cat, err := rules.ParseCategory(name)
		if err != nil {
			return nil, fmt.Errorf("retention: %w", err)
		}
		windows[cat] = days
	}
	policy, err := retention.NewPolicy(windows)
	if err != nil {
		return nil, err
	}

	notifier := deps.Notifier
	if notifier == nil {
		notifier = notify.NewLogNotifier()
	}

	return &Engine{
		cfg:         cfg,
		rules:       ruleSet,
		policy:      policy,
		backend:     deps.Backend,
		auditStore:  deps.AuditStore,
		ledgerStore: deps.LedgerStore,
		notifier:    notifier,
		metrics:     deps.Metrics,
		logger:      slog.Default().With("component", "engine"),
	}, nil
}

// ReplaceRules swaps the compiled rule set used by subsequent runs. A run
// already in flight keeps the set it started with.
func (e *Engine) ReplaceRules(ruleSet *rules.RuleSet) error {
	if ruleSet == nil {
		return fmt.Errorf("nil rule set")
	}
	e.rulesMu.Lock()
	e.rules = ruleSet
	e.rulesMu.Unlock()
	e.logger.Info("rule set replaced", "rules", ruleSet.Len())
	return nil
}

// ruleSet returns the active compiled rules.
func (e *Engine) ruleSet() *rules.RuleSet {
	e.rulesMu.RLock()
	defer e.rulesMu.RUnlock()
	return e.rules
}

// RunOptions parameterizes one run.
type RunOptions struct {
	// Roots are the directory trees to clean. At least one is required.
	Roots []string

	// DryRun simulates every action without mutating anything.
	DryRun bool

	// ApprovalToken authorizes actions on irreversible categories. Empty
	// means gated entries are kept.
	ApprovalToken string
}

// Run performs one cleanup run and returns its report. Per-entry failures
// are recorded in the report; only integrity-threatening errors (audit write
// failure, unwalkable root) return an error, and those abort the run.
func (e *Engine) Run(ctx context.Context, opts RunOptions) (*report.Report, error) {
	if len(opts.Roots) == 0 {
		return nil, fmt.Errorf("no roots to clean")
	}

	runID := uuid.NewString()
	startedAt := time.Now()
	logger := e.logger.With("run_id", runID)

	roots := append([]string(nil), opts.Roots...)
	sort.Strings(roots)

	ruleSet := e.ruleSet()
	logger.Info("starting cleanup run",
		"roots", roots,
		"dry_run", opts.DryRun,
		"rules", ruleSet.Len(),
	)

	var usageBefore *report.Usage
	if e.cfg.Actions.GenerateUsageReport {
		usageBefore = e.analyzeRoots(roots)
	}

	entries, err := e.buildInventory(ctx, ruleSet, roots, startedAt, opts.ApprovalToken)
	if err != nil {
		e.metrics.RecordFatal(startedAt, opts.DryRun)
		return nil, err
	}

	var archiver storage.Archiver
	if e.cfg.Actions.ArchiveToColdStorage {
		archiver = storage.NewDirArchive(e.backend, e.cfg.Archive.Dir, runID)
	}

	executor := NewExecutor(ExecutorConfig{
		Backend:      e.backend,
		Archiver:     archiver,
		AuditStore:   e.auditStore,
		LedgerStore:  e.ledgerStore,
		Codec:        storage.Codec(e.cfg.Actions.Compression),
		SecureDelete: e.cfg.Actions.SecureDelete,
		DryRun:       opts.DryRun,
		RunID:        runID,
		Workers:      e.cfg.Execution.Workers,
		Retry: RetryPolicy{
			Attempts:    e.cfg.Execution.RetryAttempts,
			BaseBackoff: e.cfg.Execution.RetryBaseBackoff,
			MaxBackoff:  e.cfg.Execution.RetryMaxBackoff,
		},
	})

	records, err := executor.Execute(ctx, entries)
	if err != nil {
		logger.Error("run aborted", "error", err)
		e.metrics.RecordFatal(startedAt, opts.DryRun)
		return nil, err
	}

	rep := report.Build(runID, opts.DryRun, startedAt, time.Now(), records)
	rep.UsageBefore = usageBefore
	if e.cfg.Actions.GenerateUsageReport && !opts.DryRun {
		rep.UsageAfter = e.analyzeRoots(roots)
	}

	e.metrics.RecordRun(rep)
	e.notifyOnce(ctx, rep)

	logger.Info("cleanup run finished", "summary", rep.Summary())
	return rep, nil
}

// buildInventory walks every root in order and returns the classified,
// resolved candidate list in stable walk order.
func (e *Engine) buildInventory(ctx context.Context, ruleSet *rules.RuleSet, roots []string, now time.Time, approvalToken string) ([]*CandidateEntry, error) {
	resolver := NewResolver(e.policy, ResolverOptions{
		CompressRenders:           e.cfg.Actions.CompressRenders,
		ArchiveToColdStorage:      e.cfg.Actions.ArchiveToColdStorage,
		RequireApprovalForBackups: e.cfg.Actions.RequireApprovalForBackups,
		ApprovalToken:             approvalToken,
	})

	var entries []*CandidateEntry
	for _, root := range roots {
		walker := NewWalker(root, ruleSet, WalkerOptions{
			FollowOutsideRoot: e.cfg.Execution.FollowSymlinksOutsideRoot,
		})
		err := walker.Walk(ctx, func(entry *CandidateEntry) error {
			entry.AgeDays = retention.AgeDays(now, entry.ModifiedAt)
			resolver.Resolve(entry)
			entries = append(entries, entry)
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walking %s: %w", root, err)
		}
	}
	return entries, nil
}

// notifyOnce delivers the report at most once for the run, with a severity
// matching the outcome. Delivery failures never fail the run.
func (e *Engine) notifyOnce(ctx context.Context, rep *report.Report) {
	severity := notify.SeverityInfo
	enabled := e.cfg.Notification.OnSuccess
	if rep.ErrorsCount > 0 {
		severity = notify.SeverityError
		enabled = e.cfg.Notification.OnFailure
	}
	if !enabled {
		return
	}
	if err := e.notifier.Notify(ctx, severity, rep); err != nil {
		e.logger.Warn("notification delivery failed", "error", err)
	}
}

// analyzeRoots merges usage snapshots across every root.
func (e *Engine) analyzeRoots(roots []string) *report.Usage {
	merged := report.AnalyzeDir(roots[0])
	for _, root := range roots[1:] {
		merged.Merge(report.AnalyzeDir(root))
	}
	return merged
}
