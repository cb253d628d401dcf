package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	appctx "fulfilment/internal/core/context"
	"fulfilment/internal/core/id"
	"fulfilment/pkg/logger"
)

// OutboxStatus represents the state of an outbox message.
type OutboxStatus string

const (
	OutboxStatusPending   OutboxStatus = "pending"
	OutboxStatusPublished OutboxStatus = "published"
	OutboxStatusFailed    OutboxStatus = "failed"
)

const outboxTable = "sys_outbox"

// OutboxMessage represents a row of the transactional outbox.
type OutboxMessage struct {
	ID            id.ID        `db:"id"`
	AggregateType string       `db:"aggregate_type"`
	AggregateID   string       `db:"aggregate_id"`
	EventType     string       `db:"event_type"`
	Payload       []byte       `db:"payload"`
	Status        OutboxStatus `db:"status"`
	RetryCount    int          `db:"retry_count"`
	LastError     *string      `db:"last_error"`
	NextRetryAt   *time.Time   `db:"next_retry_at"`
	CreatedAt     time.Time    `db:"created_at"`
	PublishedAt   *time.Time   `db:"published_at"`
}

var outboxColumns = ExtractDBColumns[OutboxMessage]()

// DomainEvent is an event to be written to the outbox.
type DomainEvent struct {
	AggregateType string
	AggregateID   string
	EventType     string
	Payload       any
}

func builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// OutboxPublisher writes events to the outbox table.
type OutboxPublisher struct {
	txManager *TxManager
	now       func() time.Time
}

// NewOutboxPublisher creates a new outbox publisher.
func NewOutboxPublisher(txManager *TxManager) *OutboxPublisher {
	return &OutboxPublisher{
		txManager: txManager,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Publish writes an event within the current transaction.
// It fails when ctx carries no transaction.
func (p *OutboxPublisher) Publish(ctx context.Context, event DomainEvent) error {
	tx := p.txManager.GetTx(ctx)
	if tx == nil {
		return fmt.Errorf("outbox publish requires transaction context")
	}

	payload, err := json.Marshal(event.Payload)
	if err != nil {
		return fmt.Errorf("marshal event payload: %w", err)
	}

	msg := OutboxMessage{
		ID:            id.New(),
		AggregateType: event.AggregateType,
		AggregateID:   event.AggregateID,
		EventType:     event.EventType,
		Payload:       payload,
		Status:        OutboxStatusPending,
		CreatedAt:     p.now(),
	}

	sql, args, err := builder().
		Insert(outboxTable).
		SetMap(StructToMap(msg)).
		ToSql()
	if err != nil {
		return fmt.Errorf("build outbox insert: %w", err)
	}

	if _, err := tx.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert outbox message: %w", err)
	}
	return nil
}

// OutboxHandler delivers one outbox message, e.g. to a broker.
type OutboxHandler interface {
	Handle(ctx context.Context, msg *OutboxMessage) error
}

// OutboxObserver is told the outcome of every delivery attempt.
type OutboxObserver interface {
	ObserveOutbox(outcome string)
}

// Delivery outcomes reported to OutboxObserver.
const (
	OutboxOutcomePublished = "published"
	OutboxOutcomeRetry     = "retry"
	OutboxOutcomeFailed    = "failed"
)

// RelayConfig configures an OutboxRelay.
type RelayConfig struct {
	BatchSize  int
	MaxRetries int
	Backoff    time.Duration
}

// DefaultRelayConfig returns the worker defaults.
func DefaultRelayConfig() RelayConfig {
	return RelayConfig{BatchSize: 100, MaxRetries: 5, Backoff: time.Minute}
}

// OutboxRelay moves pending outbox messages to an OutboxHandler.
// Each batch is claimed with FOR UPDATE SKIP LOCKED, so several workers
// may run side by side.
type OutboxRelay struct {
	txManager *TxManager
	cfg       RelayConfig
	handler   OutboxHandler
	observer  OutboxObserver
}

// NewOutboxRelay creates a new outbox relay. observer may be nil.
func NewOutboxRelay(txManager *TxManager, cfg RelayConfig, handler OutboxHandler, observer OutboxObserver) *OutboxRelay {
	def := DefaultRelayConfig()
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = def.BatchSize
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = def.MaxRetries
	}
	if cfg.Backoff <= 0 {
		cfg.Backoff = def.Backoff
	}
	return &OutboxRelay{txManager: txManager, cfg: cfg, handler: handler, observer: observer}
}

// Run processes batches every interval until ctx is cancelled.
func (r *OutboxRelay) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		batchCtx := appctx.Background(ctx, "outbox")
		n, err := r.ProcessBatch(batchCtx)
		if err != nil && ctx.Err() == nil {
			logger.Error(batchCtx, "outbox batch failed", "error", err)
		} else if n > 0 {
			logger.Debug(batchCtx, "outbox batch processed", "published", n)
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// ProcessBatch claims and delivers up to BatchSize pending messages.
// Returns the number of messages published.
func (r *OutboxRelay) ProcessBatch(ctx context.Context) (int, error) {
	opts := r.txManager.opts
	opts.IsolationLevel = pgx.ReadCommitted

	processed := 0
	err := r.txManager.RunInTransactionWithOptions(ctx, opts, func(ctx context.Context) error {
		messages, err := r.claim(ctx)
		if err != nil {
			return err
		}

		for _, msg := range messages {
			published, err := r.deliver(ctx, msg)
			if err != nil {
				return err
			}
			if published {
				processed++
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return processed, nil
}

func (r *OutboxRelay) claim(ctx context.Context) ([]*OutboxMessage, error) {
	sql, args, err := builder().
		Select(outboxColumns...).
		From(outboxTable).
		Where(squirrel.Eq{"status": OutboxStatusPending}).
		Where(squirrel.Or{
			squirrel.Eq{"next_retry_at": nil},
			squirrel.LtOrEq{"next_retry_at": time.Now().UTC()},
		}).
		OrderBy("created_at").
		Limit(uint64(r.cfg.BatchSize)).
		Suffix("FOR UPDATE SKIP LOCKED").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build outbox claim: %w", err)
	}

	var messages []*OutboxMessage
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &messages, sql, args...); err != nil {
		return nil, fmt.Errorf("fetch outbox messages: %w", err)
	}
	return messages, nil
}

// deliver hands msg to the handler and records the result on the row.
// Handler failures reschedule the row; only storage errors are returned.
func (r *OutboxRelay) deliver(ctx context.Context, msg *OutboxMessage) (bool, error) {
	q := r.txManager.GetQuerier(ctx)
	now := time.Now().UTC()

	handleErr := r.handler.Handle(ctx, msg)
	if handleErr == nil {
		sql, args, err := builder().
			Update(outboxTable).
			Set("status", OutboxStatusPublished).
			Set("published_at", now).
			Where(squirrel.Eq{"id": msg.ID}).
			ToSql()
		if err != nil {
			return false, fmt.Errorf("build outbox publish: %w", err)
		}
		if _, err := q.Exec(ctx, sql, args...); err != nil {
			return false, fmt.Errorf("mark outbox message published: %w", err)
		}
		r.observe(OutboxOutcomePublished)
		return true, nil
	}

	logger.Warn(ctx, "outbox delivery failed",
		"message_id", msg.ID.String(),
		"event_type", msg.EventType,
		"retry_count", msg.RetryCount,
		"error", handleErr)

	retries := msg.RetryCount + 1
	status, outcome := OutboxStatusPending, OutboxOutcomeRetry
	if retries >= r.cfg.MaxRetries {
		status, outcome = OutboxStatusFailed, OutboxOutcomeFailed
	}

	sql, args, err := builder().
		Update(outboxTable).
		Set("retry_count", retries).
		Set("last_error", handleErr.Error()).
		Set("next_retry_at", now.Add(time.Duration(retries)*r.cfg.Backoff)).
		Set("status", status).
		Where(squirrel.Eq{"id": msg.ID}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build outbox retry: %w", err)
	}
	if _, err := q.Exec(ctx, sql, args...); err != nil {
		return false, fmt.Errorf("reschedule outbox message: %w", err)
	}
	r.observe(outcome)
	return false, nil
}

func (r *OutboxRelay) observe(outcome string) {
	if r.observer != nil {
		r.observer.ObserveOutbox(outcome)
	}
}

// MoveToDLQ moves failed messages to the dead letter table.
func (r *OutboxRelay) MoveToDLQ(ctx context.Context) (int64, error) {
	result, err := r.txManager.GetQuerier(ctx).Exec(ctx, `
		WITH moved AS (
			DELETE FROM sys_outbox
			WHERE status = $1
			RETURNING *
		)
		INSERT INTO sys_outbox_dlq
		SELECT *, NOW() AS failed_at FROM moved
	`, OutboxStatusFailed)
	if err != nil {
		return 0, fmt.Errorf("move to DLQ: %w", err)
	}
	return result.RowsAffected(), nil
}
