package outbox

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/gravitrone/feedback-form/internal/form"
)

// ErrQueueFull is returned by Enqueue when the buffer has no free slot.
var ErrQueueFull = errors.New("outbox: queue full, record not queued")

// Sender delivers one record.
type Sender interface {
	Send(ctx context.Context, rec form.Record) error
}

// SenderFunc adapts a function to Sender.
type SenderFunc func(ctx context.Context, rec form.Record) error

func (f SenderFunc) Send(ctx context.Context, rec form.Record) error {
	return f(ctx, rec)
}

// Options tune delivery.
type Options struct {
	Rate         time.Duration
	Buffer       int
	MaxRetries   int
	Backoff      time.Duration
	DrainTimeout time.Duration
}

func (o Options) withDefaults() Options {
	if o.Rate <= 0 {
		o.Rate = time.Second
	}
	if o.Buffer <= 0 {
		o.Buffer = 64
	}
	if o.MaxRetries < 0 {
		o.MaxRetries = 0
	}
	if o.Backoff <= 0 {
		o.Backoff = 5 * time.Second
	}
	if o.DrainTimeout <= 0 {
		o.DrainTimeout = 5 * time.Second
	}
	return o
}

type queuedRecord struct {
	rec     form.Record
	retries int
}

// Queue buffers submitted records and delivers them in the background at a
// fixed rate. It implements form.Transmitter.
type Queue struct {
	sender Sender
	ch     chan queuedRecord
	opts   Options
	logger *zap.Logger

	retries sync.WaitGroup
}

// New creates a queue around sender.
func New(sender Sender, opts Options, logger *zap.Logger) *Queue {
	if logger == nil {
		logger = zap.NewNop()
	}
	opts = opts.withDefaults()
	return &Queue{
		sender: sender,
		ch:     make(chan queuedRecord, opts.Buffer),
		opts:   opts,
		logger: logger,
	}
}

// Start processes queued records at the configured rate until ctx is
// cancelled. On shutdown it waits for pending retries to stand down and
// drains what is left before returning.
func (q *Queue) Start(ctx context.Context) error {
	ticker := time.NewTicker(q.opts.Rate)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			q.retries.Wait()
			q.drain(ctx)
			return nil
		case <-ticker.C:
			select {
			case item := <-q.ch:
				q.attempt(ctx, item)
			default:
			}
		}
	}
}

// Enqueue adds rec to the queue without blocking.
func (q *Queue) Enqueue(rec form.Record) error {
	select {
	case q.ch <- queuedRecord{rec: rec}:
		return nil
	default:
		return ErrQueueFull
	}
}

// Transmit hands rec off for delivery. A full queue drops the record with an
// error log; the caller never waits.
func (q *Queue) Transmit(rec form.Record) {
	if err := q.Enqueue(rec); err != nil {
		q.logger.Error("outbox: record dropped", zap.String("id", rec.ID), zap.Error(err))
		return
	}
	q.logger.Debug("outbox: record queued", zap.String("id", rec.ID))
}

// Pending reports how many records are waiting in the buffer.
func (q *Queue) Pending() int {
	return len(q.ch)
}

// attempt sends a record, scheduling a context-aware retry with backoff on failure.
func (q *Queue) attempt(ctx context.Context, item queuedRecord) {
	err := q.sender.Send(ctx, item.rec)
	if err == nil {
		q.logger.Info("outbox: record delivered", zap.String("id", item.rec.ID), zap.Int("retries", item.retries))
		return
	}

	if !temporary(err) {
		q.logger.Error("outbox: record rejected", zap.String("id", item.rec.ID), zap.Error(err))
		return
	}
	if item.retries >= q.opts.MaxRetries {
		q.logger.Error("outbox: record dropped after max retries",
			zap.String("id", item.rec.ID), zap.Int("retries", item.retries), zap.Error(err))
		return
	}

	item.retries++
	backoff := time.Duration(item.retries) * q.opts.Backoff
	q.logger.Warn("outbox: send failed, retrying with backoff",
		zap.String("id", item.rec.ID), zap.Int("retry", item.retries),
		zap.Duration("backoff", backoff), zap.Error(err))

	q.retries.Add(1)
	go func() {
		defer q.retries.Done()
		timer := time.NewTimer(backoff)
		defer timer.Stop()
		select {
		case <-timer.C:
			select {
			case q.ch <- item:
			default:
				q.logger.Error("outbox: requeue failed, queue full, record dropped", zap.String("id", item.rec.ID))
			}
		case <-ctx.Done():
			select {
			case q.ch <- item:
			default:
				q.logger.Warn("outbox: retry cancelled during shutdown", zap.String("id", item.rec.ID))
			}
		}
	}()
}

// drain flushes remaining records on shutdown, best-effort.
func (q *Queue) drain(ctx context.Context) {
	drainCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), q.opts.DrainTimeout)
	defer cancel()

	for {
		select {
		case item := <-q.ch:
			if err := q.sender.Send(drainCtx, item.rec); err != nil {
				q.logger.Error("outbox: drain send failed", zap.String("id", item.rec.ID), zap.Error(err))
				continue
			}
			q.logger.Info("outbox: record delivered during drain", zap.String("id", item.rec.ID))
		default:
			return
		}
	}
}

func temporary(err error) bool {
	var t interface{ Temporary() bool }
	if errors.As(err, &t) {
		return t.Temporary()
	}
	return true
}
