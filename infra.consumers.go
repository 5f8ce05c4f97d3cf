package main

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Delays applied between failed queue pop calls. The delay doubles
// on each consecutive failure and resets after a successful pop.
const (
	popRetryMinDelay = 100 * time.Millisecond
	popRetryMaxDelay = 10 * time.Second
)

type Consumer interface {
	Consume(ctx context.Context, qids ...string) error
}

// snapshotConsumer replays queued book changes onto a snapshot store.
type snapshotConsumer struct {
	logger   *zap.Logger
	queue    Queuer
	snapshot BookSnapshotter
}

func NewSnapshotConsumer(logger *zap.Logger, q Queuer, snapshot BookSnapshotter) Consumer {
	return &snapshotConsumer{logger: logger, queue: q, snapshot: snapshot}
}

// Consume runs until ctx is done. Failures on a single change are logged and skipped.
func (sc *snapshotConsumer) Consume(ctx context.Context, qids ...string) error {
	delay := popRetryMinDelay
	for {
		qid, book, err := sc.queue.Pop(ctx, qids...)
		if err != nil && ctx.Err() != nil {
			sc.logger.Info("consumer: queue pop call: context is done: exit", zap.String("reason", ctx.Err().Error()))
			return nil
		}

		if err != nil {
			sc.logger.Error("consumer: error on queue pop call", zap.Error(err), zap.Duration("retry.after", delay))
			select {
			case <-ctx.Done():
				sc.logger.Info("consumer: waiting to retry: context is done: exit", zap.String("reason", ctx.Err().Error()))
				return nil
			case <-time.After(delay):
			}
			delay *= 2
			if delay > popRetryMaxDelay {
				delay = popRetryMaxDelay
			}
			continue
		}
		delay = popRetryMinDelay

		switch qid {
		case CreateQueue, UpdateQueue:
			if err = sc.snapshot.Put(ctx, book); err != nil {
				sc.logger.Error("consumer: failed to save", zap.String("qid", qid), zap.String("book.id", book.ID), zap.Error(err))
			}
		case DeleteQueue:
			if err = sc.snapshot.Remove(ctx, book.ID); err != nil {
				sc.logger.Error("consumer: failed to delete", zap.String("book.id", book.ID), zap.Error(err))
			}
		default:
			sc.logger.Warn("consumer: received book on unknown queue id", zap.String("qid", qid), zap.Any("book", book))
		}
	}
}
