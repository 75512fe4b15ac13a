package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"studiohub/internal/database"
	"studiohub/internal/models"
)

const classColumns = `id, name, description, instructor, schedule, session_minutes,
       capacity, fee, room_id, created_at, updated_at`

type ClassRepository struct {
	db *database.DB
}

func NewClassRepository(db *database.DB) *ClassRepository {
	return &ClassRepository{db: db}
}

func (r *ClassRepository) Create(ctx context.Context, class *models.Class) error {
	schedule, err := marshalSchedule(class.Schedule)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO classes (name, description, instructor, schedule, session_minutes,
		                     capacity, fee, room_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at`

	return r.db.QueryRowContext(ctx, query,
		class.Name,
		class.Description,
		class.Instructor,
		schedule,
		class.SessionMinutes,
		class.Capacity,
		class.Fee,
		class.RoomID,
	).Scan(&class.ID, &class.CreatedAt, &class.UpdatedAt)
}

func (r *ClassRepository) GetByID(ctx context.Context, id string) (*models.Class, error) {
	query := `SELECT ` + classColumns + ` FROM classes WHERE id = $1`

	class, err := scanClass(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return class, err
}

func (r *ClassRepository) List(ctx context.Context, name, instructor string) ([]models.Class, error) {
	var conditions []string
	var args []interface{}

	if name != "" {
		args = append(args, "%"+name+"%")
		conditions = append(conditions, fmt.Sprintf("name ILIKE $%d", len(args)))
	}
	if instructor != "" {
		args = append(args, "%"+instructor+"%")
		conditions = append(conditions, fmt.Sprintf("instructor ILIKE $%d", len(args)))
	}

	query := `SELECT ` + classColumns + ` FROM classes`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY name"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var classes []models.Class
	for rows.Next() {
		class, err := scanClass(rows)
		if err != nil {
			return nil, err
		}
		classes = append(classes, *class)
	}
	return classes, rows.Err()
}

func (r *ClassRepository) Update(ctx context.Context, class *models.Class) error {
	schedule, err := marshalSchedule(class.Schedule)
	if err != nil {
		return err
	}

	query := `
		UPDATE classes
		SET name = $1, description = $2, instructor = $3, schedule = $4,
		    session_minutes = $5, capacity = $6, fee = $7, room_id = $8,
		    updated_at = NOW()
		WHERE id = $9`

	_, err = r.db.ExecContext(ctx, query,
		class.Name,
		class.Description,
		class.Instructor,
		schedule,
		class.SessionMinutes,
		class.Capacity,
		class.Fee,
		class.RoomID,
		class.ID,
	)
	return err
}

func (r *ClassRepository) Delete(ctx context.Context, id string) (bool, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM classes WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	return affected > 0, err
}

func (r *ClassRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM classes`).Scan(&count)
	return count, err
}

func marshalSchedule(schedule []time.Time) ([]byte, error) {
	if schedule == nil {
		schedule = []time.Time{}
	}
	data, err := json.Marshal(schedule)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal class schedule: %w", err)
	}
	return data, nil
}

func scanClass(row rowScanner) (*models.Class, error) {
	class := &models.Class{}
	var schedule []byte

	err := row.Scan(
		&class.ID,
		&class.Name,
		&class.Description,
		&class.Instructor,
		&schedule,
		&class.SessionMinutes,
		&class.Capacity,
		&class.Fee,
		&class.RoomID,
		&class.CreatedAt,
		&class.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(schedule) > 0 {
		if err := json.Unmarshal(schedule, &class.Schedule); err != nil {
			return nil, fmt.Errorf("failed to unmarshal class schedule: %w", err)
		}
	}

	return class, nil
}
