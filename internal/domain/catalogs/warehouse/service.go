package warehouse

import (
	"context"
	"fmt"
	"sort"
	"time"

	"fulfilment/internal/core/apperror"
	"fulfilment/internal/core/clock"
	"fulfilment/internal/core/tx"
	"fulfilment/pkg/logger"
)

// Operation names used for logging and metrics.
const (
	OpCreate  = "create"
	OpReplace = "replace"
	OpArchive = "archive"
)

// Outcome labels reported to the Recorder.
const (
	OutcomeSuccess  = "success"
	OutcomeInvalid  = "invalid"
	OutcomeNotFound = "not_found"
	OutcomeConflict = "conflict"
	OutcomeError    = "error"
)

// Service is the entry point for transport adapters. It wires the three
// lifecycle use cases together with the read paths.
type Service struct {
	store    Store
	txm      tx.Manager
	create   *CreateUseCase
	replace  *ReplaceUseCase
	archive  *ArchiveUseCase
	recorder Recorder
	clock    clock.Clock
}

// NewService creates a new warehouse service. recorder may be nil.
func NewService(cfg UseCaseConfig, recorder Recorder) *Service {
	return &Service{
		store:    cfg.Store,
		txm:      cfg.TxManager,
		create:   NewCreateUseCase(cfg),
		replace:  NewReplaceUseCase(cfg),
		archive:  NewArchiveUseCase(cfg),
		recorder: recorder,
		clock:    newDeps(cfg).clock,
	}
}

// ListActive returns the active warehouses ordered by business unit code.
func (s *Service) ListActive(ctx context.Context) ([]*Warehouse, error) {
	all, err := s.store.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list warehouses: %w", err)
	}

	active := make([]*Warehouse, 0, len(all))
	for _, w := range all {
		if w.IsActive() {
			active = append(active, w)
		}
	}
	sort.Slice(active, func(i, j int) bool {
		return active[i].BusinessUnitCode < active[j].BusinessUnitCode
	})
	return active, nil
}

// GetByBusinessUnitCode returns the active warehouse for code.
func (s *Service) GetByBusinessUnitCode(ctx context.Context, code string) (*Warehouse, error) {
	w, err := s.store.FindByBusinessUnitCode(ctx, code)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("warehouse", code)
		}
		return nil, fmt.Errorf("find warehouse: %w", err)
	}
	return w, nil
}

// Create runs the create use case.
func (s *Service) Create(ctx context.Context, candidate *Warehouse) (err error) {
	defer s.observe(ctx, OpCreate, candidate, s.clock.Now(), &err)
	return s.create.Create(ctx, candidate)
}

// Replace runs the replace use case for the warehouse identified by code.
// The code in the path wins over whatever the candidate carries.
func (s *Service) Replace(ctx context.Context, code string, candidate *Warehouse) (err error) {
	if candidate == nil {
		candidate = &Warehouse{}
	}
	candidate.BusinessUnitCode = code
	defer s.observe(ctx, OpReplace, candidate, s.clock.Now(), &err)
	return s.replace.Replace(ctx, candidate)
}

// ArchiveByBusinessUnitCode looks up the active warehouse for code and
// archives it within one unit of work.
func (s *Service) ArchiveByBusinessUnitCode(ctx context.Context, code string) (err error) {
	target := &Warehouse{BusinessUnitCode: code}
	defer s.observe(ctx, OpArchive, target, s.clock.Now(), &err)

	return s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		current, err := s.GetByBusinessUnitCode(ctx, code)
		if err != nil {
			return err
		}
		return s.archive.Archive(ctx, current)
	})
}

func (s *Service) observe(ctx context.Context, op string, w *Warehouse, start time.Time, errp *error) {
	outcome := outcomeOf(*errp)
	if s.recorder != nil {
		s.recorder.ObserveOperation(op, outcome, s.clock.Now().Sub(start))
	}

	code := ""
	if w != nil {
		code = w.BusinessUnitCode
	}
	switch outcome {
	case OutcomeSuccess:
		logger.Info(ctx, "warehouse "+op+" succeeded", "business_unit_code", code)
	case OutcomeError:
		logger.Error(ctx, "warehouse "+op+" failed", "business_unit_code", code, "error", *errp)
	default:
		logger.Debug(ctx, "warehouse "+op+" rejected", "business_unit_code", code, "outcome", outcome, "error", *errp)
	}
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return OutcomeSuccess
	case apperror.IsValidation(err):
		return OutcomeInvalid
	case apperror.IsNotFound(err):
		return OutcomeNotFound
	case apperror.IsConcurrentModification(err):
		return OutcomeConflict
	default:
		return OutcomeError
	}
}
