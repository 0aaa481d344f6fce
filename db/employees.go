package db

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"tenderwork/models"
)

func (q *queries) CreateEmployee(ctx context.Context, e *models.Employee) error {
	query := `
        INSERT INTO employee (username, first_name, last_name)
        VALUES ($1, $2, $3)
        RETURNING id, created_at, updated_at`
	return q.ext.QueryRowxContext(ctx, query, e.Username, e.FirstName, e.LastName).
		Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
}

func (q *queries) GetEmployee(ctx context.Context, id uuid.UUID) (*models.Employee, error) {
	e := &models.Employee{}
	query := `SELECT * FROM employee WHERE id=$1`
	err := sqlx.GetContext(ctx, q.ext, e, query, id)
	if err != nil {
		return nil, notFound(err, "user with id %s does not exist", id)
	}
	return e, nil
}

func (q *queries) GetEmployeeByUsername(ctx context.Context, username string) (*models.Employee, error) {
	e := &models.Employee{}
	query := `SELECT * FROM employee WHERE username=$1`
	err := sqlx.GetContext(ctx, q.ext, e, query, username)
	if err != nil {
		return nil, notFound(err, "user with username %s does not exist", username)
	}
	return e, nil
}
