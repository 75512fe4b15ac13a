package repository

import (
	"context"
	"database/sql"

	"studiohub/internal/database"
	"studiohub/internal/models"
)

type RoomRepository struct {
	db *database.DB
}

func NewRoomRepository(db *database.DB) *RoomRepository {
	return &RoomRepository{db: db}
}

func (r *RoomRepository) Create(ctx context.Context, room *models.Room) error {
	query := `
		INSERT INTO rooms (name, type, hourly_rate, capacity)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	return r.db.QueryRowContext(ctx, query,
		room.Name, room.Type, room.HourlyRate, room.Capacity,
	).Scan(&room.ID, &room.CreatedAt)
}

func (r *RoomRepository) GetByID(ctx context.Context, id string) (*models.Room, error) {
	room := &models.Room{}
	query := `SELECT id, name, type, hourly_rate, capacity, created_at FROM rooms WHERE id = $1`

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&room.ID, &room.Name, &room.Type, &room.HourlyRate, &room.Capacity, &room.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return room, err
}

func (r *RoomRepository) List(ctx context.Context) ([]models.Room, error) {
	query := `SELECT id, name, type, hourly_rate, capacity, created_at FROM rooms ORDER BY name`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rooms []models.Room
	for rows.Next() {
		var room models.Room
		if err := rows.Scan(&room.ID, &room.Name, &room.Type, &room.HourlyRate, &room.Capacity, &room.CreatedAt); err != nil {
			return nil, err
		}
		rooms = append(rooms, room)
	}
	return rooms, rows.Err()
}

func (r *RoomRepository) Update(ctx context.Context, room *models.Room) error {
	query := `UPDATE rooms SET name = $1, type = $2, hourly_rate = $3, capacity = $4 WHERE id = $5`
	_, err := r.db.ExecContext(ctx, query, room.Name, room.Type, room.HourlyRate, room.Capacity, room.ID)
	return err
}

func (r *RoomRepository) Delete(ctx context.Context, id string) (bool, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM rooms WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	return affected > 0, err
}
