package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/baskoro/barpos-inventory-service/internal/model"
	"github.com/baskoro/barpos-inventory-service/internal/transfer/dto"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) InsertTx(ctx context.Context, tx *sqlx.Tx, t *model.Transfer) error {
	query := `
        INSERT INTO transfers (
            id, source_location, destination_location, item_id, quantity,
            status, requested_by, approved_by, notes, created_at, completed_at
        )
        VALUES (
            :id, :source_location, :destination_location, :item_id, :quantity,
            :status, :requested_by, :approved_by, :notes, :created_at, :completed_at
        )
    `
	if _, err := tx.NamedExecContext(ctx, query, t); err != nil {
		return fmt.Errorf("failed to insert transfer: %w", err)
	}
	return nil
}

func (r *PGRepository) GetByID(ctx context.Context, id string) (*model.Transfer, error) {
	var t model.Transfer
	query := r.DB.Rebind(`SELECT * FROM transfers WHERE id = ?`)
	err := r.DB.GetContext(ctx, &t, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

func (r *PGRepository) FindAll(ctx context.Context, f *dto.TransferFilters) ([]model.Transfer, int, error) {
	var items []model.Transfer
	var count int

	conditions := []string{}
	args := map[string]interface{}{}

	if f.LocationID != "" {
		conditions = append(conditions, "(source_location = :location OR destination_location = :location)")
		args["location"] = f.LocationID
	}
	if f.Status != "" {
		conditions = append(conditions, "status = :status")
		args["status"] = f.Status
	}
	if f.ItemID != "" {
		conditions = append(conditions, "item_id = :item_id")
		args["item_id"] = f.ItemID
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := "SELECT count(*) FROM transfers" + whereClause
	rows, err := r.DB.NamedQueryContext(ctx, countQuery, args)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	if rows.Next() {
		rows.Scan(&count)
	}
	rows.Close()

	query := "SELECT * FROM transfers" + whereClause + " ORDER BY created_at DESC"
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

// MarkRespondedTx is guarded on status = 'pending', so a transfer leaves
// pending exactly once no matter how many responders race.
func (r *PGRepository) MarkRespondedTx(ctx context.Context, tx *sqlx.Tx, id, status, approvedBy string, at time.Time) (bool, error) {
	query := tx.Rebind(`
        UPDATE transfers
        SET status = ?, approved_by = ?, completed_at = ?
        WHERE id = ? AND status = ?
    `)
	res, err := tx.ExecContext(ctx, query, status, approvedBy, at, id, model.TransferStatusPending)
	if err != nil {
		return false, fmt.Errorf("failed to update transfer status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected == 1, nil
}
