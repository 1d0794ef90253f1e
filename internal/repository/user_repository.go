package repository

import (
	"context"
	"errors"

	"github.com/classicalvivekch/building-shop-manager-sub000/internal/db"
	"github.com/classicalvivekch/building-shop-manager-sub000/internal/domain"
	"github.com/jackc/pgx/v5"
)

type UserRepository struct {
	DB *db.Postgres
}

type CreateUserParams struct {
	Name         string
	Email        string
	Phone        string
	Address      string
	Avatar       string
	Salary       int64
	Role         domain.UserRole
	PasswordHash *string
	IsGoogle     bool
}

func (r UserRepository) Create(ctx context.Context, p CreateUserParams) (*domain.User, error) {
	query := `
		INSERT INTO users (name, email, phone, address, avatar, salary, role, password_hash, is_google, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9, now(), now())
		RETURNING id, name, email, phone, address, avatar, salary, role, is_google, password_hash, created_at, updated_at
	`
	row := r.DB.Pool.QueryRow(ctx, query, p.Name, p.Email, p.Phone, p.Address, p.Avatar, p.Salary, p.Role, p.PasswordHash, p.IsGoogle)
	return scanUser(row)
}

func (r UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `
		SELECT id, name, email, phone, address, avatar, salary, role, is_google, password_hash, created_at, updated_at
		FROM users
		WHERE email=$1 AND deleted_at IS NULL
	`
	row := r.DB.Pool.QueryRow(ctx, query, email)
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return user, nil
}

func (r UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	query := `
		SELECT id, name, email, phone, address, avatar, salary, role, is_google, password_hash, created_at, updated_at
		FROM users
		WHERE id=$1 AND deleted_at IS NULL
	`
	row := r.DB.Pool.QueryRow(ctx, query, id)
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return user, nil
}

func (r UserRepository) List(ctx context.Context, role domain.UserRole, limit int) ([]domain.User, error) {
	rows, err := r.DB.Pool.Query(ctx, `
		SELECT id, name, email, phone, address, avatar, salary, role, is_google, password_hash, created_at, updated_at
		FROM users
		WHERE deleted_at IS NULL AND ($1 = '' OR role = $1)
		ORDER BY name ASC
		LIMIT $2
	`, string(role), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *u)
	}
	return items, rows.Err()
}

type UpdateUserParams struct {
	Name    string
	Phone   string
	Address string
	Avatar  string
	Salary  int64
}

func (r UserRepository) Update(ctx context.Context, id int64, p UpdateUserParams) (*domain.User, error) {
	row := r.DB.Pool.QueryRow(ctx, `
		UPDATE users
		SET name=$2, phone=$3, address=$4, avatar=$5, salary=$6, updated_at=now()
		WHERE id=$1 AND deleted_at IS NULL
		RETURNING id, name, email, phone, address, avatar, salary, role, is_google, password_hash, created_at, updated_at
	`, id, p.Name, p.Phone, p.Address, p.Avatar, p.Salary)
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return user, nil
}

func (r UserRepository) UpdatePassword(ctx context.Context, id int64, hash string) error {
	tag, err := r.DB.Pool.Exec(ctx, `
		UPDATE users SET password_hash=$2, updated_at=now()
		WHERE id=$1 AND deleted_at IS NULL
	`, id, hash)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r UserRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.DB.Pool.Exec(ctx, `UPDATE users SET deleted_at = now() WHERE id=$1 AND deleted_at IS NULL`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanUser(row interface {
	Scan(dest ...any) error
}) (*domain.User, error) {
	var (
		u    domain.User
		role string
	)
	if err := row.Scan(
		&u.ID,
		&u.Name,
		&u.Email,
		&u.Phone,
		&u.Address,
		&u.Avatar,
		&u.Salary,
		&role,
		&u.IsGoogle,
		&u.PasswordHash,
		&u.CreatedAt,
		&u.UpdatedAt,
	); err != nil {
		return nil, err
	}
	u.Role = domain.UserRole(role)
	return &u, nil
}

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("not found")

// IsDuplicate detects unique constraint violation.
func IsDuplicate(err error) bool {
	return db.IsUniqueViolation(err)
}
