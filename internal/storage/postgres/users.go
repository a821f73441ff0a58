package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/polkiloo/eshop/internal/domain/model"
)

type userRepository struct {
	storage *Storage
}

const selectUser = `SELECT u.id, u.login, u.password_hash, u.roles, u.created_at,
                           a.user_id IS NOT NULL,
                           COALESCE(a.country, ''), COALESCE(a.city, ''),
                           COALESCE(a.street, ''), COALESCE(a.postal_code, '')
                    FROM users u LEFT JOIN addresses a ON a.user_id = u.id`

// Create stores the user and, when given, the default shipping address in one transaction.
func (r *userRepository) Create(ctx context.Context, user *model.User) (*model.User, error) {
	roles := user.Roles
	if len(roles) == 0 {
		roles = []model.Role{model.RoleUser}
	}

	created := *user
	created.Roles = roles
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		const insertUser = `INSERT INTO users (login, password_hash, roles) VALUES ($1, $2, $3) RETURNING id, created_at`
		if err := tx.QueryRow(ctx, insertUser, user.Login, user.PasswordHash, rolesToText(roles)).Scan(&created.ID, &created.CreatedAt); err != nil {
			return classify(err)
		}

		if a := user.ShippingAddress; a != nil && !a.IsZero() {
			const insertAddress = `INSERT INTO addresses (user_id, country, city, street, postal_code) VALUES ($1, $2, $3, $4, $5)`
			if _, err := tx.Exec(ctx, insertAddress, created.ID, a.Country, a.City, a.Street, a.PostalCode); err != nil {
				return classify(err)
			}
			addr := *a
			created.ShippingAddress = &addr
		} else {
			created.ShippingAddress = nil
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (r *userRepository) GetByLogin(ctx context.Context, login string) (*model.User, error) {
	return scanUser(r.storage.pool.QueryRow(ctx, selectUser+` WHERE u.login=$1`, login))
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	return scanUser(r.storage.pool.QueryRow(ctx, selectUser+` WHERE u.id=$1`, id))
}

func scanUser(row pgx.Row) (*model.User, error) {
	var (
		u          model.User
		roles      []string
		hasAddress bool
		a          model.Address
	)
	err := row.Scan(&u.ID, &u.Login, &u.PasswordHash, &roles, &u.CreatedAt,
		&hasAddress, &a.Country, &a.City, &a.Street, &a.PostalCode)
	if err != nil {
		return nil, classify(err)
	}
	u.Roles = make([]model.Role, 0, len(roles))
	for _, role := range roles {
		u.Roles = append(u.Roles, model.Role(role))
	}
	if hasAddress {
		u.ShippingAddress = &a
	}
	return &u, nil
}

func rolesToText(roles []model.Role) []string {
	out := make([]string, 0, len(roles))
	for _, role := range roles {
		out = append(out, string(role))
	}
	return out
}
