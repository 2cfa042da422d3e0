package kafka

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/lovoo/goka"
	"github.com/toyverse/storefront/internal/core/domain"
	"github.com/toyverse/storefront/pkg/retry"
	"github.com/toyverse/storefront/pkg/schema"
	"github.com/twmb/franz-go/pkg/kgo"
)

var (
	ErrTooFewOpts       = errors.New("too few options")
	ErrInvalidValueType = errors.New("invalid value type")
)

const (
	pingAttempts = 5
	pingDelay    = 500 * time.Millisecond
)

type ProducerOpt func(*producerOpts) error

type producerOpts struct {
	cl      ProducerClient
	encoder Encoder
}

// ProducerClientOpt connects the producing client to the brokers.
// The startup ping retries while the brokers warm up.
func ProducerClientOpt(
	ctx context.Context, seedBrokers []string, topic string,
) ProducerOpt {
	return func(opts *producerOpts) error {
		cl, err := kgo.NewClient(
			kgo.SeedBrokers(seedBrokers...),
			kgo.DefaultProduceTopicAlways(),
			kgo.DefaultProduceTopic(topic),
			kgo.RequiredAcks(kgo.AllISRAcks()),
			kgo.AllowAutoTopicCreation(),
		)
		if err != nil {
			return err
		}

		retryCfg := retry.Config{
			MaxAttempts: pingAttempts,
			Backoff:     retry.LinearBackoff(pingDelay),
		}
		err = retry.Do(ctx, retryCfg, func() error {
			return cl.Ping(ctx)
		})
		if err != nil {
			cl.Close()
			return err
		}

		opts.cl = cl
		return nil
	}
}

func ProducerEncoderOpt(encoder Encoder) ProducerOpt {
	return func(opts *producerOpts) error {
		if encoder == nil {
			return errors.New("encoder is nil")
		}
		opts.encoder = encoder
		return nil
	}
}

type ProducerClient interface {
	ProduceSync(ctx context.Context, rs ...*kgo.Record) kgo.ProduceResults
	Close()
}

type Encoder interface {
	Encode(v any) ([]byte, error)
}

type Decoder interface {
	Decode(b []byte, v any) error
}

type Serde interface {
	Encoder
	Decoder
}

func withNonlogProcOpt() goka.ProcessorOption {
	return goka.WithLogger(log.New(io.Discard, "", 0))
}

func makeOp(s ...string) string {
	return strings.Join(s, ".")
}

func opErr(err error, op ...string) error {
	return fmt.Errorf("%s: %w", makeOp(op...), err)
}

func cartEventToSchemaV1(v domain.CartEvent) (s schema.CartEventV1) {
	s.EventType = string(v.Type)
	s.ProductID = int64(v.ProductID)
	s.ProductName = v.ProductName
	s.Category = v.Category
	s.Price = v.Price.String()
	s.Quantity = int64(v.Quantity)
	s.TotalItems = int64(v.TotalItems)
	s.OccurredAt = v.OccurredAt.UnixMilli()
	return s
}
