package repository

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/worldhost-group/support-dashboard/internal/domain"
)

// UserRepository defines persistence access for staff users.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	Update(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	ListAll(ctx context.Context) ([]domain.User, error)
}

type userRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository returns a Postgres-backed implementation.
func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &userRepository{pool: pool}
}

const userColumns = `id, email, password_hash, name, first_name, last_name, phone, bio, location,
               facebook, twitter, linkedin, instagram, country, city_state, postal_code, tax_id,
               avatar_url, created_at, updated_at`

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	const query = `
        INSERT INTO users (email, password_hash, name, first_name, last_name, avatar_url)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		normalizeEmail(user.Email),
		user.PasswordHash,
		user.Name,
		user.FirstName,
		user.LastName,
		user.AvatarURL,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
}

func (r *userRepository) Update(ctx context.Context, user *domain.User) error {
	const query = `
        UPDATE users SET name=$1, first_name=$2, last_name=$3, phone=$4, bio=$5, location=$6,
            facebook=$7, twitter=$8, linkedin=$9, instagram=$10, country=$11, city_state=$12,
            postal_code=$13, tax_id=$14, avatar_url=$15, updated_at=NOW()
        WHERE id=$16
        RETURNING updated_at`
	return r.pool.QueryRow(ctx, query,
		user.Name,
		user.FirstName,
		user.LastName,
		user.Phone,
		user.Bio,
		user.Location,
		user.Facebook,
		user.Twitter,
		user.LinkedIn,
		user.Instagram,
		user.Country,
		user.CityState,
		user.PostalCode,
		user.TaxID,
		user.AvatarURL,
		user.ID,
	).Scan(&user.UpdatedAt)
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

// GetByEmail looks up a user case-insensitively on a trimmed address.
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email=$1`
	return r.fetchSingle(ctx, query, normalizeEmail(email))
}

func (r *userRepository) ListAll(ctx context.Context) ([]domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.User
	for rows.Next() {
		var user domain.User
		if err := scanUser(rows, &user); err != nil {
			return nil, err
		}
		result = append(result, user)
	}
	return result, rows.Err()
}

func (r *userRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.User, error) {
	var user domain.User
	if err := scanUser(r.pool.QueryRow(ctx, query, arg), &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func scanUser(row pgx.Row, user *domain.User) error {
	return row.Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.Name,
		&user.FirstName,
		&user.LastName,
		&user.Phone,
		&user.Bio,
		&user.Location,
		&user.Facebook,
		&user.Twitter,
		&user.LinkedIn,
		&user.Instagram,
		&user.Country,
		&user.CityState,
		&user.PostalCode,
		&user.TaxID,
		&user.AvatarURL,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
