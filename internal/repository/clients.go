package repository

import (
	"context"
	"database/sql"

	"studiohub/internal/database"
	"studiohub/internal/models"
)

type ClientRepository struct {
	db *database.DB
}

func NewClientRepository(db *database.DB) *ClientRepository {
	return &ClientRepository{db: db}
}

func (r *ClientRepository) Create(ctx context.Context, client *models.Client) error {
	query := `
		INSERT INTO clients (name, email, phone, notes)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	return r.db.QueryRowContext(ctx, query,
		client.Name, client.Email, client.Phone, client.Notes,
	).Scan(&client.ID, &client.CreatedAt)
}

func (r *ClientRepository) GetByID(ctx context.Context, id string) (*models.Client, error) {
	client := &models.Client{}
	query := `SELECT id, name, email, phone, notes, created_at FROM clients WHERE id = $1`

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&client.ID, &client.Name, &client.Email, &client.Phone, &client.Notes, &client.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return client, err
}

func (r *ClientRepository) List(ctx context.Context, name string) ([]models.Client, error) {
	query := `SELECT id, name, email, phone, notes, created_at FROM clients`
	var args []interface{}
	if name != "" {
		query += ` WHERE name ILIKE $1`
		args = append(args, "%"+name+"%")
	}
	query += ` ORDER BY name`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var clients []models.Client
	for rows.Next() {
		var client models.Client
		if err := rows.Scan(&client.ID, &client.Name, &client.Email, &client.Phone, &client.Notes, &client.CreatedAt); err != nil {
			return nil, err
		}
		clients = append(clients, client)
	}
	return clients, rows.Err()
}

func (r *ClientRepository) Update(ctx context.Context, client *models.Client) error {
	query := `UPDATE clients SET name = $1, email = $2, phone = $3, notes = $4 WHERE id = $5`
	_, err := r.db.ExecContext(ctx, query, client.Name, client.Email, client.Phone, client.Notes, client.ID)
	return err
}

func (r *ClientRepository) Delete(ctx context.Context, id string) (bool, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM clients WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	return affected > 0, err
}

func (r *ClientRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM clients`).Scan(&count)
	return count, err
}
