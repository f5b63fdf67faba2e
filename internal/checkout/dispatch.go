package checkout

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Dispatcher delivers a finished order message. Delivery is fire-and-forget:
// callers log a failure and carry on.
type Dispatcher interface {
	Dispatch(ctx context.Context, msg Message) error
}

// LogDispatcher records the hand-off URL in the log.
type LogDispatcher struct {
	phone  string
	logger *zap.Logger
}

func NewLogDispatcher(phone string, logger *zap.Logger) *LogDispatcher {
	return &LogDispatcher{phone: phone, logger: logger.Named("handoff")}
}

func (d *LogDispatcher) Dispatch(_ context.Context, msg Message) error {
	d.logger.Info("order handed off",
		zap.String("shop_id", msg.ShopID),
		zap.String("url", msg.URL(d.phone)),
	)
	return nil
}

// WriterDispatcher prints the hand-off URL so the user can open it.
type WriterDispatcher struct {
	phone string
	out   io.Writer
}

func NewWriterDispatcher(phone string, out io.Writer) *WriterDispatcher {
	return &WriterDispatcher{phone: phone, out: out}
}

func (d *WriterDispatcher) Dispatch(_ context.Context, msg Message) error {
	_, err := fmt.Fprintf(d.out, "Open to send your order: %s\n", msg.URL(d.phone))
	return err
}

// Multi fans a message out to several dispatchers and reports every
// failure after trying all of them.
type Multi []Dispatcher

func (m Multi) Dispatch(ctx context.Context, msg Message) error {
	var err error
	for _, d := range m {
		err = multierr.Append(err, d.Dispatch(ctx, msg))
	}
	return err
}
