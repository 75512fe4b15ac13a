package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"studiohub/internal/database"
	"studiohub/internal/models"
)

type EquipmentRepository struct {
	db *database.DB
}

func NewEquipmentRepository(db *database.DB) *EquipmentRepository {
	return &EquipmentRepository{db: db}
}

func (r *EquipmentRepository) Create(ctx context.Context, eq *models.Equipment) error {
	if eq.Status == "" {
		eq.Status = models.EquipmentAvailable
	}

	query := `
		INSERT INTO equipment (name, type, status, specs, purchase_date)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	return r.db.QueryRowContext(ctx, query,
		eq.Name, eq.Type, eq.Status, eq.Specs, eq.PurchaseDate,
	).Scan(&eq.ID, &eq.CreatedAt)
}

func (r *EquipmentRepository) GetByID(ctx context.Context, id string) (*models.Equipment, error) {
	eq := &models.Equipment{}
	query := `SELECT id, name, type, status, specs, purchase_date, created_at FROM equipment WHERE id = $1`

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&eq.ID, &eq.Name, &eq.Type, &eq.Status, &eq.Specs, &eq.PurchaseDate, &eq.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return eq, err
}

func (r *EquipmentRepository) List(ctx context.Context, status, eqType string) ([]models.Equipment, error) {
	var conditions []string
	var args []interface{}

	if status != "" {
		args = append(args, status)
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}
	if eqType != "" {
		args = append(args, eqType)
		conditions = append(conditions, fmt.Sprintf("type = $%d", len(args)))
	}

	query := `SELECT id, name, type, status, specs, purchase_date, created_at FROM equipment`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY name"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.Equipment
	for rows.Next() {
		var eq models.Equipment
		if err := rows.Scan(&eq.ID, &eq.Name, &eq.Type, &eq.Status, &eq.Specs, &eq.PurchaseDate, &eq.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, eq)
	}
	return items, rows.Err()
}

func (r *EquipmentRepository) Update(ctx context.Context, eq *models.Equipment) error {
	query := `UPDATE equipment SET name = $1, type = $2, status = $3, specs = $4, purchase_date = $5 WHERE id = $6`
	_, err := r.db.ExecContext(ctx, query, eq.Name, eq.Type, eq.Status, eq.Specs, eq.PurchaseDate, eq.ID)
	return err
}

func (r *EquipmentRepository) UpdateStatus(ctx context.Context, id, status string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE equipment SET status = $1 WHERE id = $2`, status, id)
	return err
}

func (r *EquipmentRepository) Delete(ctx context.Context, id string) (bool, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM equipment WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	return affected > 0, err
}
