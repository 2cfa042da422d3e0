package kafka

import (
	"context"
	"log/slog"
	"strconv"
	"sync"

	"github.com/lovoo/goka"
	"github.com/toyverse/storefront/internal/core/domain"
	"github.com/toyverse/storefront/pkg/schema"
)

// A cartEventCodec bridges the registry-framed avro serde into goka.
type cartEventCodec struct {
	serde Serde
}

func newCartEventCodec(s Serde) cartEventCodec {
	return cartEventCodec{s}
}

func (c cartEventCodec) Encode(v any) ([]byte, error) {
	const op = "cartEventCodec.Encode"
	if _, ok := v.(schema.CartEventV1); !ok {
		return nil, opErr(ErrInvalidValueType, op)
	}
	return c.serde.Encode(v)
}

func (c cartEventCodec) Decode(data []byte) (any, error) {
	const op = "cartEventCodec.Decode"
	var s schema.CartEventV1
	if err := c.serde.Decode(data, &s); err != nil {
		return nil, opErr(err, op)
	}
	return s, nil
}

// An addCount is the group table value: add-to-cart events seen for
// one product id.
type addCount int64

type addCountCodec struct{}

func (addCountCodec) Encode(v any) ([]byte, error) {
	const op = "addCountCodec.Encode"
	n, ok := v.(addCount)
	if !ok {
		return nil, opErr(ErrInvalidValueType, op)
	}
	return strconv.AppendInt(nil, int64(n), 10), nil
}

func (addCountCodec) Decode(data []byte) (any, error) {
	const op = "addCountCodec.Decode"
	n, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return nil, opErr(err, op)
	}
	return addCount(n), nil
}

// A CartActivityProcessor folds the cart events stream into the
// per-product add counter group table.
type CartActivityProcessor struct {
	proc processor
}

type CartActivityProcessorConfig struct {
	SeedBrokers []string
	Stream      string
	Group       string
	Serde       Serde
}

func NewCartActivityProcessor(
	cfg CartActivityProcessorConfig,
) (*CartActivityProcessor, error) {
	const op = "NewCartActivityProcessor"

	p := &CartActivityProcessor{}

	gg := goka.DefineGroup(goka.Group(cfg.Group),
		goka.Input(
			goka.Stream(cfg.Stream),
			newCartEventCodec(cfg.Serde),
			p.processFn,
		),
		goka.Persist(addCountCodec{}),
	)

	gp, err := goka.NewProcessor(cfg.SeedBrokers, gg, withNonlogProcOpt())
	if err != nil {
		return nil, opErr(err, op)
	}

	p.proc = processor{opPrefix: "CartActivityProcessor", gp: gp}
	return p, nil
}

func (p *CartActivityProcessor) Run(
	ctx context.Context, stopFn context.CancelFunc, wg *sync.WaitGroup,
) {
	p.proc.run(ctx, stopFn, wg)
}

func (p *CartActivityProcessor) Close() {
	p.proc.close()
}

func (p *CartActivityProcessor) processFn(ctx goka.Context, msg any) {
	const op = "CartActivityProcessor.processFn"

	evt, ok := msg.(schema.CartEventV1)
	if !ok {
		slog.Error("unexpected message type", "op", op,
			"key", ctx.Key())
		return
	}

	if evt.EventType != string(domain.CartEventItemAdded) {
		return
	}

	var n addCount
	if v := ctx.Value(); v != nil {
		n = v.(addCount)
	}
	ctx.SetValue(n + 1)
}
