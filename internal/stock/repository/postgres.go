package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/baskoro/barpos-inventory-service/internal/apperr"
	"github.com/baskoro/barpos-inventory-service/internal/model"
	"github.com/baskoro/barpos-inventory-service/internal/stock"
	"github.com/baskoro/barpos-inventory-service/internal/stock/dto"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) GetStock(ctx context.Context, locationID, itemID string) (float64, error) {
	var qty float64
	query := r.DB.Rebind(`SELECT current_stock FROM location_stock WHERE location_id = ? AND item_id = ?`)
	err := r.DB.GetContext(ctx, &qty, query, locationID, itemID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// No row yet means nothing has ever moved into this location.
			return 0, nil
		}
		return 0, err
	}
	return qty, nil
}

func (r *PGRepository) GetStockRow(ctx context.Context, locationID, itemID string) (*model.LocationStock, error) {
	var row model.LocationStock
	query := r.DB.Rebind(`SELECT * FROM location_stock WHERE location_id = ? AND item_id = ?`)
	err := r.DB.GetContext(ctx, &row, query, locationID, itemID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *PGRepository) FindAll(ctx context.Context, f *dto.StockFilters) ([]model.LocationStock, int, error) {
	var items []model.LocationStock
	var count int

	conditions := []string{}
	args := map[string]interface{}{}

	if f.LocationID != "" {
		conditions = append(conditions, "location_id = :location_id")
		args["location_id"] = f.LocationID
	}
	if f.ItemID != "" {
		conditions = append(conditions, "item_id = :item_id")
		args["item_id"] = f.ItemID
	}
	if f.LowStock {
		conditions = append(conditions, "current_stock <= min_stock_level AND min_stock_level > 0")
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := "SELECT count(*) FROM location_stock" + whereClause
	rows, err := r.DB.NamedQueryContext(ctx, countQuery, args)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	if rows.Next() {
		rows.Scan(&count)
	}
	rows.Close()

	query := "SELECT * FROM location_stock" + whereClause + " ORDER BY updated_at DESC"
	if f.PageSize > 0 {
		offset := (f.Page - 1) * f.PageSize
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, offset)
	}

	nstmt, err := r.DB.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	defer nstmt.Close()

	err = nstmt.SelectContext(ctx, &items, args)
	return items, count, err
}

func (r *PGRepository) ListMovements(ctx context.Context, f *dto.MovementFilters) ([]model.StockMovement, int, error) {
	var items []model.StockMovement
	var count int

	conditions := []string{}
	args := map[string]interface{}{}

	if f.ItemID != "" {
		conditions = append(conditions, "item_id = :item_id")
		args["item_id"] = f.ItemID
	}
	if f.LocationID != "" {
		conditions = append(conditions, "location_id = :location_id")
		args["location_id"] = f.LocationID
	}
	if f.MovementType != "" {
		conditions = append(conditions, "movement_type = :movement_type")
		args["movement_type"] = f.MovementType
	}
	if f.Reference != "" {
		conditions = append(conditions, "reference = :reference")
		args["reference"] = f.Reference
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := "SELECT count(*) FROM stock_movements" + whereClause
	rows, err := r.DB.NamedQueryContext(ctx, countQuery, args)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	if rows.Next() {
		rows.Scan(&count)
	}
	rows.Close()

	query := "SELECT * FROM stock_movements" + whereClause + " ORDER BY created_at DESC"
	if f.PageSize > 0 {
		offset := (f.Page - 1) * f.PageSize
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, offset)
	}

	nstmt, err := r.DB.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	defer nstmt.Close()

	err = nstmt.SelectContext(ctx, &items, args)
	return items, count, err
}

func (r *PGRepository) Credit(ctx context.Context, m *stock.Mutation) (*model.StockMovement, error) {
	return r.inTx(ctx, func(tx *sqlx.Tx) (*model.StockMovement, error) {
		return r.CreditTx(ctx, tx, m)
	})
}

func (r *PGRepository) Debit(ctx context.Context, m *stock.Mutation) (*model.StockMovement, error) {
	return r.inTx(ctx, func(tx *sqlx.Tx) (*model.StockMovement, error) {
		return r.DebitTx(ctx, tx, m)
	})
}

func (r *PGRepository) Adjust(ctx context.Context, m *stock.Mutation) (*model.StockMovement, error) {
	return r.inTx(ctx, func(tx *sqlx.Tx) (*model.StockMovement, error) {
		return r.adjustTx(ctx, tx, m)
	})
}

// CreditTx increases stock, creating the location_stock row on first
// movement into a location. The upsert computes the new balance against
// the committed row, so concurrent credits never lose an update.
func (r *PGRepository) CreditTx(ctx context.Context, tx *sqlx.Tx, m *stock.Mutation) (*model.StockMovement, error) {
	now := time.Now().UTC()
	query := tx.Rebind(`
        INSERT INTO location_stock (id, location_id, item_id, current_stock, min_stock_level, is_active, updated_at)
        VALUES (?, ?, ?, ?, 0, TRUE, ?)
        ON CONFLICT (location_id, item_id) DO UPDATE SET
            current_stock = location_stock.current_stock + excluded.current_stock,
            updated_at = excluded.updated_at
        RETURNING current_stock
    `)

	var newStock float64
	err := tx.QueryRowxContext(ctx, query, uuid.New().String(), m.LocationID, m.ItemID, m.Quantity, now).Scan(&newStock)
	if err != nil {
		return nil, fmt.Errorf("failed to credit stock: %w", err)
	}

	return r.logMovementTx(ctx, tx, m, newStock-m.Quantity, newStock, now)
}

// DebitTx decreases stock. The sufficiency check is the WHERE guard of
// the update itself, so two concurrent debits against the same row
// serialize at the database and the loser observes the committed balance.
func (r *PGRepository) DebitTx(ctx context.Context, tx *sqlx.Tx, m *stock.Mutation) (*model.StockMovement, error) {
	now := time.Now().UTC()
	query := tx.Rebind(`
        UPDATE location_stock
        SET current_stock = current_stock - ?, updated_at = ?
        WHERE location_id = ? AND item_id = ? AND current_stock >= ?
        RETURNING current_stock
    `)

	var newStock float64
	err := tx.QueryRowxContext(ctx, query, m.Quantity, now, m.LocationID, m.ItemID, m.Quantity).Scan(&newStock)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			available, availErr := r.availableTx(ctx, tx, m.LocationID, m.ItemID)
			if availErr != nil {
				return nil, availErr
			}
			return nil, &apperr.InsufficientStockError{
				LocationID: m.LocationID,
				ItemID:     m.ItemID,
				Requested:  m.Quantity,
				Available:  available,
			}
		}
		return nil, fmt.Errorf("failed to debit stock: %w", err)
	}

	return r.logMovementTx(ctx, tx, m, newStock+m.Quantity, newStock, now)
}

// adjustTx sets stock to an absolute value. Quantity on the movement row
// is the magnitude of the delta.
func (r *PGRepository) adjustTx(ctx context.Context, tx *sqlx.Tx, m *stock.Mutation) (*model.StockMovement, error) {
	now := time.Now().UTC()

	selectQuery := `SELECT current_stock FROM location_stock WHERE location_id = ? AND item_id = ?`
	if r.DB.DriverName() == "postgres" {
		selectQuery += ` FOR UPDATE`
	}

	var previous float64
	err := tx.GetContext(ctx, &previous, tx.Rebind(selectQuery), m.LocationID, m.ItemID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to read stock for adjustment: %w", err)
	}

	upsert := tx.Rebind(`
        INSERT INTO location_stock (id, location_id, item_id, current_stock, min_stock_level, is_active, updated_at)
        VALUES (?, ?, ?, ?, 0, TRUE, ?)
        ON CONFLICT (location_id, item_id) DO UPDATE SET
            current_stock = excluded.current_stock,
            updated_at = excluded.updated_at
    `)
	if _, err := tx.ExecContext(ctx, upsert, uuid.New().String(), m.LocationID, m.ItemID, m.Quantity, now); err != nil {
		return nil, fmt.Errorf("failed to adjust stock: %w", err)
	}

	newStock := m.Quantity
	adjusted := *m
	adjusted.Quantity = newStock - previous
	if adjusted.Quantity < 0 {
		adjusted.Quantity = -adjusted.Quantity
	}
	return r.logMovementTx(ctx, tx, &adjusted, previous, newStock, now)
}

func (r *PGRepository) HasMovementForReferenceTx(ctx context.Context, tx *sqlx.Tx, reference, itemID string) (bool, error) {
	var count int
	query := tx.Rebind(`SELECT count(*) FROM stock_movements WHERE reference = ? AND item_id = ?`)
	if err := tx.GetContext(ctx, &count, query, reference, itemID); err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *PGRepository) availableTx(ctx context.Context, tx *sqlx.Tx, locationID, itemID string) (float64, error) {
	var qty float64
	query := tx.Rebind(`SELECT current_stock FROM location_stock WHERE location_id = ? AND item_id = ?`)
	err := tx.GetContext(ctx, &qty, query, locationID, itemID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		return 0, err
	}
	return qty, nil
}

func (r *PGRepository) logMovementTx(ctx context.Context, tx *sqlx.Tx, m *stock.Mutation, previous, newStock float64, at time.Time) (*model.StockMovement, error) {
	movement := &model.StockMovement{
		ID:            uuid.New().String(),
		ItemID:        m.ItemID,
		LocationID:    m.LocationID,
		MovementType:  m.MovementType,
		Quantity:      m.Quantity,
		PreviousStock: previous,
		NewStock:      newStock,
		Reference:     m.Reference,
		ReferenceType: m.ReferenceType,
		Notes:         m.Notes,
		CreatedBy:     m.CreatedBy,
		CreatedAt:     at,
	}

	query := `
        INSERT INTO stock_movements (
            id, item_id, location_id, movement_type, quantity,
            previous_stock, new_stock, reference, reference_type,
            notes, created_by, created_at
        )
        VALUES (
            :id, :item_id, :location_id, :movement_type, :quantity,
            :previous_stock, :new_stock, :reference, :reference_type,
            :notes, :created_by, :created_at
        )
    `
	if _, err := tx.NamedExecContext(ctx, query, movement); err != nil {
		return nil, fmt.Errorf("failed to log movement: %w", err)
	}
	return movement, nil
}

func (r *PGRepository) inTx(ctx context.Context, fn func(tx *sqlx.Tx) (*model.StockMovement, error)) (*model.StockMovement, error) {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	movement, err := fn(tx)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return movement, nil
}
