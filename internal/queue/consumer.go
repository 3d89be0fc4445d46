package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/segmentio/kafka-go"

	"github.com/Skotchmaster/favorite_api/internal/logging"
)

const maxInflight = 10

// Handler applies one delivered message.
type Handler interface {
	ProcessMessage(ctx context.Context, clientID, productID uint) error
}

// Consumer pulls queued favorite-creation requests and applies them through
// the handler. Processing failures are logged and the message is dropped;
// its offset is still committed so a permanently-invalid message cannot loop
// forever. Offsets are committed strictly in fetch order: a group commit at
// offset N covers every earlier offset, so acknowledging out of order would
// silently discard still-in-flight messages on a crash.
type Consumer struct {
	reader  *kafka.Reader
	handler Handler
}

type inflight struct {
	msg  kafka.Message
	done chan struct{}
}

func NewConsumer(address, topic, group string, handler Handler) *Consumer {
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  []string{address},
		GroupID:  group,
		Topic:    topic,
		MinBytes: 1,
		MaxBytes: 10e6,
	})
	return &Consumer{reader: r, handler: handler}
}

// Run blocks until ctx is canceled or the reader fails. Deliveries are
// processed by a pool bounded at maxInflight concurrent messages; the pending
// channel capacity is that bound.
func (c *Consumer) Run(ctx context.Context) error {
	l := logging.FromContext(ctx)
	pending := make(chan inflight, maxInflight)

	var committer sync.WaitGroup
	committer.Add(1)
	go func() {
		defer committer.Done()
		commitInOrder(ctx, l, pending, c.reader.CommitMessages)
	}()

	var wg sync.WaitGroup
	for {
		m, err := c.reader.FetchMessage(ctx)
		if err != nil {
			wg.Wait()
			close(pending)
			committer.Wait()
			if errors.Is(err, context.Canceled) || errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("fetch message: %w", err)
		}

		in := inflight{msg: m, done: make(chan struct{})}
		pending <- in

		wg.Add(1)
		go func(in inflight) {
			defer wg.Done()
			defer close(in.done)

			if err := c.process(ctx, in.msg.Value); err != nil {
				l.Warn("message dropped", "offset", in.msg.Offset, "error", err)
			}
		}(in)
	}
}

// commitInOrder acknowledges messages in the order they were fetched, each
// only after its processing finished. A later message that completes first
// waits here until every earlier in-flight message is done, so a commit never
// covers an unprocessed offset.
func commitInOrder(ctx context.Context, l *slog.Logger, pending <-chan inflight, commit func(context.Context, ...kafka.Message) error) {
	for in := range pending {
		<-in.done
		if err := commit(ctx, in.msg); err != nil {
			// canceled commits during shutdown just mean redelivery
			if !errors.Is(err, context.Canceled) {
				l.Error("commit failed", "offset", in.msg.Offset, "error", err)
			}
		}
	}
}

func (c *Consumer) process(ctx context.Context, value []byte) error {
	var msg Message
	if err := json.Unmarshal(value, &msg); err != nil {
		return fmt.Errorf("unmarshal message: %w", err)
	}
	return c.handler.ProcessMessage(ctx, msg.ClientID, msg.ProductID)
}

func (c *Consumer) Close() error {
	return c.reader.Close()
}
