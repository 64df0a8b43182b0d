package storage

import (
	"context"
	"database/sql"

	"budget-tracker/internal/models"
)

// CreateUser inserts a new user and returns it with its assigned id.
func (q *Queries) CreateUser(ctx context.Context, name string, email *string) (*models.User, error) {
	result, err := q.db.ExecContext(ctx,
		"INSERT INTO users (name, email) VALUES (?, ?)",
		name, email,
	)
	if err != nil {
		return nil, err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}

	return q.GetUser(ctx, id)
}

// GetUser retrieves a user by id.
func (q *Queries) GetUser(ctx context.Context, id int64) (*models.User, error) {
	row := q.db.QueryRowContext(ctx,
		"SELECT id, name, email FROM users WHERE id = ?",
		id,
	)

	var u models.User
	if err := row.Scan(&u.ID, &u.Name, &u.Email); err != nil {
		return nil, err
	}
	return &u, nil
}

// UserByEmail retrieves a user by email, for uniqueness checks.
func (q *Queries) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	row := q.db.QueryRowContext(ctx,
		"SELECT id, name, email FROM users WHERE email = ?",
		email,
	)

	var u models.User
	if err := row.Scan(&u.ID, &u.Name, &u.Email); err != nil {
		return nil, err
	}
	return &u, nil
}

// ListUsers retrieves all users ordered by id.
func (q *Queries) ListUsers(ctx context.Context) ([]models.User, error) {
	rows, err := q.db.QueryContext(ctx,
		"SELECT id, name, email FROM users ORDER BY id",
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// UpdateUser writes a user's name and email.
func (q *Queries) UpdateUser(ctx context.Context, u *models.User) error {
	result, err := q.db.ExecContext(ctx,
		"UPDATE users SET name = ?, email = ? WHERE id = ?",
		u.Name, u.Email, u.ID,
	)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// DeleteUserCascade removes a user together with all of its accounts
// and their transactions. The cascade is issued explicitly, children
// first, so the guarantee does not depend on the storage engine's
// foreign-key configuration. Must run inside the caller's transaction.
func (q *Queries) DeleteUserCascade(ctx context.Context, id int64) error {
	if _, err := q.db.ExecContext(ctx,
		"DELETE FROM transactions WHERE account_id IN (SELECT id FROM accounts WHERE user_id = ?)",
		id,
	); err != nil {
		return err
	}
	if _, err := q.db.ExecContext(ctx,
		"DELETE FROM accounts WHERE user_id = ?",
		id,
	); err != nil {
		return err
	}
	result, err := q.db.ExecContext(ctx, "DELETE FROM users WHERE id = ?", id)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
