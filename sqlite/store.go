package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/fwojciec/findmystore"
	"github.com/ncruces/go-sqlite3"
)

// Compile-time interface verification.
var _ findmystore.StoreService = (*StoreService)(nil)

// StoreService implements findmystore.StoreService using SQLite.
type StoreService struct {
	db *DB
}

// NewStoreService creates a new StoreService.
func NewStoreService(db *DB) *StoreService {
	return &StoreService{db: db}
}

const storeColumns = `id, place_id, name, city, category, hours, address, lat, lng,
	rating, ratings_total, verified, created_at, updated_at`

// CreateStore creates a new store. A non-zero ID is kept, which lets seeded
// stores have fixed IDs.
func (s *StoreService) CreateStore(ctx context.Context, store *findmystore.Store) error {
	if err := store.Validate(); err != nil {
		return err
	}

	now := time.Now().UTC()
	store.CreatedAt = now
	store.UpdatedAt = now

	var id any
	if store.ID > 0 {
		id = store.ID
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO stores (id, place_id, name, city, category, hours, address, lat, lng,
			rating, ratings_total, verified, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, id, store.PlaceID, store.Name, store.City, string(store.Category), store.Hours, store.Address,
		store.Lat, store.Lng, store.Rating, store.RatingsTotal, boolToInt(store.Verified),
		formatTime(store.CreatedAt), formatTime(store.UpdatedAt))
	if err != nil {
		if isConstraintErr(err) {
			return findmystore.Errorf(findmystore.ECONFLICT, "store already exists")
		}
		return err
	}

	store.ID, err = result.LastInsertId()
	return err
}

// UpsertStore inserts a store or refreshes the existing one with the same
// PlaceID. Stores without a PlaceID are matched by ID.
func (s *StoreService) UpsertStore(ctx context.Context, store *findmystore.Store) error {
	if err := store.Validate(); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var existingID int64
	var createdAt string
	switch {
	case store.PlaceID != "":
		err = tx.QueryRowContext(ctx, "SELECT id, created_at FROM stores WHERE place_id = ?", store.PlaceID).
			Scan(&existingID, &createdAt)
	case store.ID > 0:
		err = tx.QueryRowContext(ctx, "SELECT id, created_at FROM stores WHERE id = ?", store.ID).
			Scan(&existingID, &createdAt)
	default:
		err = sql.ErrNoRows
	}
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return err
	}

	now := time.Now().UTC()
	store.UpdatedAt = now

	if existingID == 0 {
		store.CreatedAt = now
		var id any
		if store.ID > 0 {
			id = store.ID
		}
		result, err := tx.ExecContext(ctx, `
			INSERT INTO stores (id, place_id, name, city, category, hours, address, lat, lng,
				rating, ratings_total, verified, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, id, store.PlaceID, store.Name, store.City, string(store.Category), store.Hours, store.Address,
			store.Lat, store.Lng, store.Rating, store.RatingsTotal, boolToInt(store.Verified),
			formatTime(store.CreatedAt), formatTime(store.UpdatedAt))
		if err != nil {
			return err
		}
		if store.ID, err = result.LastInsertId(); err != nil {
			return err
		}
		return tx.Commit()
	}

	store.ID = existingID
	if store.CreatedAt, err = parseRFC3339(createdAt, "created_at"); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE stores
		SET name = ?, city = ?, category = ?, hours = ?, address = ?, lat = ?, lng = ?,
			rating = ?, ratings_total = ?, verified = ?, updated_at = ?
		WHERE id = ?
	`, store.Name, store.City, string(store.Category), store.Hours, store.Address, store.Lat, store.Lng,
		store.Rating, store.RatingsTotal, boolToInt(store.Verified), formatTime(store.UpdatedAt),
		store.ID); err != nil {
		return err
	}

	return tx.Commit()
}

// FindStoreByID retrieves a store by ID.
func (s *StoreService) FindStoreByID(ctx context.Context, id int64) (*findmystore.Store, error) {
	store, err := scanStore(s.db.QueryRowContext(ctx, "SELECT "+storeColumns+" FROM stores WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, findmystore.Errorf(findmystore.ENOTFOUND, "store %d not found", id)
	}
	return store, err
}

// FindStores retrieves stores matching the filter.
func (s *StoreService) FindStores(ctx context.Context, filter findmystore.StoreFilter) ([]*findmystore.Store, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT " + storeColumns + " FROM stores WHERE 1=1")

	if len(filter.IDs) > 0 {
		query.WriteString(" AND id IN (" + placeholders(len(filter.IDs)) + ")")
		for _, id := range filter.IDs {
			args = append(args, id)
		}
	}
	if filter.City != nil {
		query.WriteString(" AND city = ? COLLATE NOCASE")
		args = append(args, strings.TrimSpace(*filter.City))
	}
	if filter.Category != nil {
		query.WriteString(" AND category = ?")
		args = append(args, string(*filter.Category))
	}
	if filter.Verified != nil {
		query.WriteString(" AND verified = ?")
		args = append(args, boolToInt(*filter.Verified))
	}

	query.WriteString(" ORDER BY id ASC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stores []*findmystore.Store
	for rows.Next() {
		store, err := scanStore(rows)
		if err != nil {
			return nil, err
		}
		stores = append(stores, store)
	}

	return stores, rows.Err()
}

// scanner is implemented by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanStore(row scanner) (*findmystore.Store, error) {
	var store findmystore.Store
	var category, createdAt, updatedAt string
	var verified int

	if err := row.Scan(&store.ID, &store.PlaceID, &store.Name, &store.City, &category, &store.Hours,
		&store.Address, &store.Lat, &store.Lng, &store.Rating, &store.RatingsTotal, &verified,
		&createdAt, &updatedAt); err != nil {
		return nil, err
	}
	store.Category = findmystore.Category(category)
	store.Verified = verified != 0

	var err error
	if store.CreatedAt, err = parseRFC3339(createdAt, "created_at"); err != nil {
		return nil, err
	}
	if store.UpdatedAt, err = parseRFC3339(updatedAt, "updated_at"); err != nil {
		return nil, err
	}
	return &store, nil
}

// isConstraintErr reports whether err is a SQLite constraint violation.
func isConstraintErr(err error) bool {
	return errors.Is(err, sqlite3.CONSTRAINT)
}
