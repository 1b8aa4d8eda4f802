package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/fwojciec/findmystore"
)

// Compile-time interface verification.
var _ findmystore.InventoryService = (*InventoryService)(nil)

// InventoryService implements findmystore.InventoryService using SQLite.
type InventoryService struct {
	db *DB
}

// NewInventoryService creates a new InventoryService.
func NewInventoryService(db *DB) *InventoryService {
	return &InventoryService{db: db}
}

// FindStockItem retrieves the stock item for a product at a store.
func (s *InventoryService) FindStockItem(ctx context.Context, storeID int64, product string) (*findmystore.StockItem, error) {
	item, err := scanStockItem(s.db.QueryRowContext(ctx, `
		SELECT store_id, product, qty, price, estimated, updated_at
		FROM inventory
		WHERE store_id = ? AND product = ?
	`, storeID, findmystore.NormalizeProduct(product)))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, findmystore.Errorf(findmystore.ENOTFOUND, "store %d does not carry %q", storeID, product)
	}
	return item, err
}

// FindStockItems retrieves stock items matching the filter, ordered by store
// then product.
func (s *InventoryService) FindStockItems(ctx context.Context, filter findmystore.StockFilter) ([]*findmystore.StockItem, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT store_id, product, qty, price, estimated, updated_at FROM inventory WHERE 1=1")

	if filter.StoreID != nil {
		query.WriteString(" AND store_id = ?")
		args = append(args, *filter.StoreID)
	}
	if filter.Product != nil {
		query.WriteString(" AND product = ?")
		args = append(args, findmystore.NormalizeProduct(*filter.Product))
	}

	query.WriteString(" ORDER BY store_id ASC, product ASC")

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*findmystore.StockItem
	for rows.Next() {
		item, err := scanStockItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	return items, rows.Err()
}

// SetStockItem creates or replaces the stock item for a product at a store.
// The stored product keeps the spelling of its first insert.
func (s *InventoryService) SetStockItem(ctx context.Context, item *findmystore.StockItem) error {
	item.Product = findmystore.NormalizeProduct(item.Product)
	if err := item.Validate(); err != nil {
		return err
	}

	item.UpdatedAt = time.Now().UTC()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO inventory (store_id, product, qty, price, estimated, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (store_id, product) DO UPDATE
		SET qty = excluded.qty, price = excluded.price,
			estimated = excluded.estimated, updated_at = excluded.updated_at
	`, item.StoreID, item.Product, item.Qty, item.Price, boolToInt(item.Estimated), formatTime(item.UpdatedAt))
	if err != nil {
		if isConstraintErr(err) {
			return findmystore.Errorf(findmystore.ENOTFOUND, "store %d not found", item.StoreID)
		}
		return err
	}
	return nil
}

func scanStockItem(row scanner) (*findmystore.StockItem, error) {
	var item findmystore.StockItem
	var estimated int
	var updatedAt string

	if err := row.Scan(&item.StoreID, &item.Product, &item.Qty, &item.Price, &estimated, &updatedAt); err != nil {
		return nil, err
	}
	item.Estimated = estimated != 0

	var err error
	if item.UpdatedAt, err = parseRFC3339(updatedAt, "updated_at"); err != nil {
		return nil, err
	}
	return &item, nil
}
