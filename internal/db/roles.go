package db

import (
	"context"

	"github.com/identity-service/backend/internal/model"
)

func (db *Postgres) CreateRole(ctx context.Context, role *model.Role) error {
	query := `
		INSERT INTO roles (name, description)
		VALUES ($1, $2)
		ON CONFLICT (name) DO UPDATE SET description = EXCLUDED.description
	`
	_, err := db.Pool.Exec(ctx, query, role.Name, role.Description)
	return err
}

func (db *Postgres) ListRoles(ctx context.Context) ([]*model.Role, error) {
	rows, err := db.Pool.Query(ctx, `SELECT name, description FROM roles ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var roles []*model.Role
	for rows.Next() {
		var role model.Role
		if err := rows.Scan(&role.Name, &role.Description); err != nil {
			return nil, err
		}
		roles = append(roles, &role)
	}
	return roles, rows.Err()
}

func (db *Postgres) DeleteRole(ctx context.Context, name string) error {
	_, err := db.Pool.Exec(ctx, `DELETE FROM roles WHERE name = $1`, name)
	return err
}
