package db

import (
	"context"
	"errors"
	"time"

	"github.com/identity-service/backend/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

func (db *Postgres) CreateUser(ctx context.Context, user *model.User) error {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	query := `
		INSERT INTO users (id, username, password_hash, first_name, last_name, dob, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
	`
	if _, err = tx.Exec(ctx, query,
		user.ID,
		user.Username,
		user.PasswordHash,
		user.FirstName,
		user.LastName,
		nullableDate(user.Dob),
	); err != nil {
		return err
	}

	if err = insertUserRoles(ctx, tx, user.ID, user.Roles); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (db *Postgres) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	return db.getUser(ctx, `WHERE username = $1`, username)
}

func (db *Postgres) GetUserByID(ctx context.Context, userID string) (*model.User, error) {
	return db.getUser(ctx, `WHERE id = $1`, userID)
}

func (db *Postgres) getUser(ctx context.Context, where string, arg any) (*model.User, error) {
	query := `
		SELECT id, username, password_hash, first_name, last_name, dob, created_at, updated_at
		FROM users
	` + where

	var user model.User
	var dob *time.Time
	err := db.Pool.QueryRow(ctx, query, arg).Scan(
		&user.ID,
		&user.Username,
		&user.PasswordHash,
		&user.FirstName,
		&user.LastName,
		&dob,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if dob != nil {
		user.Dob = *dob
	}

	user.Roles, err = db.userRoles(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (db *Postgres) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var exists bool
	err := db.Pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE username = $1)`, username).Scan(&exists)
	return exists, err
}

func (db *Postgres) ListUsers(ctx context.Context) ([]*model.User, error) {
	query := `
		SELECT id, username, password_hash, first_name, last_name, dob, created_at, updated_at
		FROM users
		ORDER BY created_at
	`
	rows, err := db.Pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*model.User
	for rows.Next() {
		var user model.User
		var dob *time.Time
		if err := rows.Scan(
			&user.ID,
			&user.Username,
			&user.PasswordHash,
			&user.FirstName,
			&user.LastName,
			&dob,
			&user.CreatedAt,
			&user.UpdatedAt,
		); err != nil {
			return nil, err
		}
		if dob != nil {
			user.Dob = *dob
		}
		users = append(users, &user)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, user := range users {
		if user.Roles, err = db.userRoles(ctx, user.ID); err != nil {
			return nil, err
		}
	}
	return users, nil
}

func (db *Postgres) UpdateUser(ctx context.Context, user *model.User) error {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	query := `
		UPDATE users
		SET password_hash = $2, first_name = $3, last_name = $4, dob = $5, updated_at = NOW()
		WHERE id = $1
	`
	if _, err = tx.Exec(ctx, query,
		user.ID,
		user.PasswordHash,
		user.FirstName,
		user.LastName,
		nullableDate(user.Dob),
	); err != nil {
		return err
	}

	if _, err = tx.Exec(ctx, `DELETE FROM user_roles WHERE user_id = $1`, user.ID); err != nil {
		return err
	}
	if err = insertUserRoles(ctx, tx, user.ID, user.Roles); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (db *Postgres) DeleteUser(ctx context.Context, userID string) error {
	_, err := db.Pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, userID)
	return err
}

func (db *Postgres) userRoles(ctx context.Context, userID string) ([]string, error) {
	rows, err := db.Pool.Query(ctx, `SELECT role_name FROM user_roles WHERE user_id = $1 ORDER BY role_name`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var roles []string
	for rows.Next() {
		var role string
		if err := rows.Scan(&role); err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}
	return roles, rows.Err()
}

func insertUserRoles(ctx context.Context, tx pgx.Tx, userID string, roles []string) error {
	for _, role := range roles {
		if _, err := tx.Exec(ctx,
			`INSERT INTO user_roles (user_id, role_name) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			userID, role,
		); err != nil {
			return err
		}
	}
	return nil
}

func nullableDate(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t
}

// IsUniqueViolation reports whether err is a postgres unique-constraint
// violation, raised when two creations race past the existence check.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
