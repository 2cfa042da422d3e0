package kafka

import (
	"context"
	"log/slog"
	"strconv"
	"sync"

	"github.com/lovoo/goka"
	"github.com/toyverse/storefront/internal/core/port"
)

var _ port.ProductActivityViewer = (*CartActivityView)(nil)

// A CartActivityView reads the per-product add counter group table.
type CartActivityView struct {
	gv *goka.View
}

type CartActivityViewConfig struct {
	SeedBrokers []string
	Group       string
}

func NewCartActivityView(
	cfg CartActivityViewConfig,
) (*CartActivityView, error) {
	const op = "NewCartActivityView"

	gv, err := goka.NewView(
		cfg.SeedBrokers,
		goka.GroupTable(goka.Group(cfg.Group)),
		addCountCodec{},
	)
	if err != nil {
		return nil, opErr(err, op)
	}
	return &CartActivityView{gv}, nil
}

func (v *CartActivityView) Run(
	ctx context.Context, stopFn context.CancelFunc, wg *sync.WaitGroup,
) {
	const op = "CartActivityView.Run"
	log := slog.With("op", op)

	defer wg.Done()

	go v.runView(ctx, stopFn)

	log.Info("preparing...")
	select {
	case <-ctx.Done():
	case <-v.gv.WaitRunning():
		log.Info("running")
	}
}

func (v *CartActivityView) runView(
	ctx context.Context, stopFn context.CancelFunc,
) {
	const op = "CartActivityView.runView"
	log := slog.With("op", op)

	defer stopFn()

	if err := v.gv.Run(ctx); err != nil {
		log.Error("unexpected fail on run", "err", err)
		return
	}
	log.Info("stopped")
}

// Counts snapshots the whole activity table.
func (v *CartActivityView) Counts(
	ctx context.Context,
) (map[int]int64, error) {
	const op = "CartActivityView.Counts"
	log := slog.With("op", op)

	if err := ctx.Err(); err != nil {
		return nil, opErr(err, op)
	}

	it, err := v.gv.Iterator()
	if err != nil {
		return nil, opErr(err, op)
	}
	defer it.Release()

	counts := make(map[int]int64)
	for it.Next() {
		id, err := strconv.Atoi(it.Key())
		if err != nil {
			log.Warn("skipping non-numeric table key", "key", it.Key())
			continue
		}

		val, err := it.Value()
		if err != nil {
			return nil, opErr(err, op)
		}

		n, ok := val.(addCount)
		if !ok {
			log.Warn("skipping unexpected table value", "key", it.Key())
			continue
		}
		counts[id] = int64(n)
	}
	return counts, nil
}
