// Package storage persists the cart snapshot in a local key-value
// database. One fixed key holds the whole serialized cart, written
// after every mutation and read back once on start.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"
	"github.com/syndtr/goleveldb/leveldb"
	ldberrors "github.com/syndtr/goleveldb/leveldb/errors"
	"github.com/toyverse/storefront/internal/core/domain"
	"github.com/toyverse/storefront/internal/core/port"
)

var _ port.CartRepository = (*CartRepository)(nil)

const (
	cartKey         = "cart"
	snapshotVersion = 1
)

type (
	cartSnapshot struct {
		Version int              `json:"version"`
		Items   []cartItemRecord `json:"items"`
	}

	cartItemRecord struct {
		ID          int             `json:"id"`
		Name        string          `json:"name"`
		Price       decimal.Decimal `json:"price"`
		Category    string          `json:"category"`
		Image       string          `json:"image"`
		Description string          `json:"description"`
		InStock     bool            `json:"inStock"`
		Featured    bool            `json:"featured"`
		Tags        []string        `json:"tags"`
		Quantity    int             `json:"quantity"`
	}
)

type CartRepository struct {
	db *leveldb.DB
}

// NewCartRepository opens the cart database at path, recovering a
// corrupted database in place.
func NewCartRepository(path string) (CartRepository, error) {
	const op = "NewCartRepository"
	log := slog.With("op", op)

	db, err := leveldb.OpenFile(path, nil)
	if ldberrors.IsCorrupted(err) {
		log.Warn("cart database is corrupted, recovering", "path", path)
		db, err = leveldb.RecoverFile(path, nil)
	}
	if err != nil {
		return CartRepository{}, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("cart database is open", "path", path)
	return CartRepository{db}, nil
}

func (r CartRepository) Close() {
	const op = "CartRepository.Close"
	log := slog.With("op", op)

	log.Info("closing cart database...")
	if err := r.db.Close(); err != nil {
		log.Error("failed to close", "err", err)
		return
	}
	log.Info("cart database is closed")
}

// Load reads the snapshot under the fixed cart key. A missing,
// malformed or invalid snapshot yields an empty item list, not an
// error: the worst case after a corrupt reload is an empty cart.
func (r CartRepository) Load(
	ctx context.Context,
) ([]domain.CartItem, error) {
	const op = "CartRepository.Load"
	log := slog.With("op", op)

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	data, err := r.db.Get([]byte(cartKey), nil)
	if err != nil {
		if errors.Is(err, leveldb.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var snap cartSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		log.Warn("discarding malformed cart snapshot", "err", err)
		return nil, nil
	}

	if err := validateSnapshot(snap); err != nil {
		log.Warn("discarding invalid cart snapshot", "err", err)
		return nil, nil
	}

	items := make([]domain.CartItem, len(snap.Items))
	for i, rec := range snap.Items {
		items[i] = toDomain(rec)
	}
	return items, nil
}

// Save serializes the full item list under the fixed cart key.
func (r CartRepository) Save(
	ctx context.Context, items []domain.CartItem,
) error {
	const op = "CartRepository.Save"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	snap := cartSnapshot{
		Version: snapshotVersion,
		Items:   make([]cartItemRecord, len(items)),
	}
	for i, it := range items {
		snap.Items[i] = toRecord(it)
	}

	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := r.db.Put([]byte(cartKey), data, nil); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func validateSnapshot(snap cartSnapshot) error {
	if snap.Version != snapshotVersion {
		return fmt.Errorf("unsupported snapshot version %d", snap.Version)
	}

	seen := make(map[int]struct{}, len(snap.Items))
	for _, rec := range snap.Items {
		if rec.Quantity < 1 {
			return fmt.Errorf("non-positive quantity %d (id %d)",
				rec.Quantity, rec.ID)
		}
		if rec.Price.IsNegative() {
			return fmt.Errorf("negative price (id %d)", rec.ID)
		}
		if _, ok := seen[rec.ID]; ok {
			return fmt.Errorf("duplicate line item id %d", rec.ID)
		}
		seen[rec.ID] = struct{}{}
	}
	return nil
}

func toRecord(it domain.CartItem) (rec cartItemRecord) {
	rec.ID = it.ID
	rec.Name = it.Name
	rec.Price = it.Price
	rec.Category = it.Category
	rec.Image = it.Image
	rec.Description = it.Description
	rec.InStock = it.InStock
	rec.Featured = it.Featured
	rec.Tags = it.Tags
	rec.Quantity = it.Quantity
	return rec
}

func toDomain(rec cartItemRecord) (it domain.CartItem) {
	it.ID = rec.ID
	it.Name = rec.Name
	it.Price = rec.Price
	it.Category = rec.Category
	it.Image = rec.Image
	it.Description = rec.Description
	it.InStock = rec.InStock
	it.Featured = rec.Featured
	it.Tags = rec.Tags
	it.Quantity = rec.Quantity
	return it
}
