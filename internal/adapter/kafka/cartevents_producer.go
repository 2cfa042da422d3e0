package kafka

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/toyverse/storefront/internal/core/domain"
	"github.com/toyverse/storefront/internal/core/port"
	"github.com/twmb/franz-go/pkg/kgo"
)

var _ port.CartEventsProducer = (*CartEventsProducer)(nil)

// A CartEventsProducer publishes cart mutations to the events stream.
// Records are keyed by product id so the activity table partitions
// per product.
type CartEventsProducer struct {
	cl      ProducerClient
	encoder Encoder
}

func NewCartEventsProducer(opts ...ProducerOpt) (CartEventsProducer, error) {
	const op = "NewCartEventsProducer"

	if !allProducerOpts(opts) {
		return CartEventsProducer{}, opErr(ErrTooFewOpts, op)
	}

	var options producerOpts
	for _, opt := range opts {
		if err := opt(&options); err != nil {
			return CartEventsProducer{}, opErr(err, op)
		}
	}
	return CartEventsProducer{options.cl, options.encoder}, nil
}

func allProducerOpts(opts []ProducerOpt) bool {
	return len(opts) == 2
}

func (p CartEventsProducer) Close() {
	const op = "CartEventsProducer.Close"
	log := slog.With("op", op)
	log.Info("closing producer...")
	p.cl.Close()
	log.Info("producer is closed")
}

func (p CartEventsProducer) ProduceEvent(
	ctx context.Context, evt domain.CartEvent,
) error {
	const op = "CartEventsProducer.ProduceEvent"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	r, err := p.createRecord(evt)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	res := p.cl.ProduceSync(ctx, r)
	if err := res.FirstErr(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (p CartEventsProducer) createRecord(
	evt domain.CartEvent,
) (*kgo.Record, error) {
	const op = "CartEventsProducer.createRecord"

	s := cartEventToSchemaV1(evt)
	v, err := p.encoder.Encode(s)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	key := strconv.FormatInt(s.ProductID, 10)
	return &kgo.Record{Key: []byte(key), Value: v}, nil
}
