package kafka

import (
	"context"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"
)

// Handler must return nil only when the message was processed and its offset
// may be committed.
type Handler func(ctx context.Context, m kafka.Message) error

type Consumer struct {
	r       *kafka.Reader
	workers int
	backoff time.Duration
	log     *slog.Logger
}

func NewConsumer(brokers []string, group, topic string, workers int, log *slog.Logger) *Consumer {
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        brokers,
		GroupID:        group,
		Topic:          topic,
		MinBytes:       1,
		MaxBytes:       10e6,
		CommitInterval: 0, // manual commit
	})
	if workers <= 0 {
		workers = 1
	}
	if log == nil {
		log = slog.Default()
	}
	return &Consumer{r: r, workers: workers, backoff: 200 * time.Millisecond, log: log}
}

// Start fetches until ctx is done. Each partition is pinned to one worker, and
// a worker retries a failing message until it succeeds, so offsets are
// committed in order and never skip an unprocessed message.
func (c *Consumer) Start(ctx context.Context, h Handler) error {
	defer c.r.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	jobs := make([]chan kafka.Message, c.workers)
	done := make(chan struct{})
	for i := range jobs {
		jobs[i] = make(chan kafka.Message, 128)
		go func(in <-chan kafka.Message) {
			defer func() { done <- struct{}{} }()
			for m := range in {
				if err := process(ctx, m, h, c.backoff, c.log); err != nil {
					return
				}
				if err := c.r.CommitMessages(ctx, m); err != nil {
					c.log.Warn("commit failed", "topic", m.Topic, "partition", m.Partition, "offset", m.Offset, "err", err)
				}
			}
		}(jobs[i])
	}
	stop := func() {
		for _, ch := range jobs {
			close(ch)
		}
		for range jobs {
			<-done
		}
	}

	for {
		m, err := c.r.FetchMessage(ctx)
		if err != nil {
			cancel()
			stop()
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		select {
		case jobs[m.Partition%c.workers] <- m:
		case <-ctx.Done():
			stop()
			return nil
		}
	}
}

// process runs h on m until it succeeds or ctx is done, waiting backoff
// between attempts.
func process(ctx context.Context, m kafka.Message, h Handler, backoff time.Duration, log *slog.Logger) error {
	for {
		err := h(ctx, m)
		if err == nil {
			return nil
		}
		log.Warn("consumer handler failed, retrying", "topic", m.Topic, "partition", m.Partition, "offset", m.Offset, "err", err)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
	}
}
