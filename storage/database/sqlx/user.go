package sqlxrepos

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/mahudhurio/core/user"
)

type userRow struct {
	ID           string       `db:"id"`
	Role         string       `db:"role"`
	FullName     string       `db:"full_name"`
	Email        string       `db:"email"`
	PasswordHash []byte       `db:"password_hash"`
	IsActive     bool         `db:"is_active"`
	LastLogin    sql.NullTime `db:"last_login"`
	CreatedAt    time.Time    `db:"created_at"`
	UpdatedAt    time.Time    `db:"updated_at"`
}

func (r userRow) toUser() user.User {
	usr := user.User{
		ID:           r.ID,
		Role:         r.Role,
		FullName:     r.FullName,
		Email:        r.Email,
		PasswordHash: r.PasswordHash,
		IsActive:     r.IsActive,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
	if r.LastLogin.Valid {
		usr.LastLogin = r.LastLogin.Time
	}
	return usr
}

func lastLoginParam(usr user.User) sql.NullTime {
	return sql.NullTime{Time: usr.LastLogin, Valid: !usr.LastLogin.IsZero()}
}

type UserRepository struct {
	db *sqlx.DB
}

var _ user.Repository = (*UserRepository)(nil)

func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (repo *UserRepository) CheckEmailUniqueness(ctx context.Context, email string, excludedUsers ...user.User) error {
	query := `SELECT EXISTS (SELECT 1 FROM users WHERE LOWER(email) = LOWER($1)`
	args := []interface{}{email}
	for _, usr := range excludedUsers {
		query += fmt.Sprintf(" AND id <> $%d", len(args)+1)
		args = append(args, usr.ID)
	}
	query += `)`

	var exists bool
	if err := repo.db.QueryRowContext(ctx, query, args...).Scan(&exists); err != nil {
		return wrapErr(err, "checking email uniqueness")
	}
	if exists {
		return user.ErrEmailExists
	}
	return nil
}

func (repo *UserRepository) CreateUser(ctx context.Context, usr user.User) (user.User, error) {
	if usr.ID == "" {
		usr.ID = uuid.New().String()
	}
	_, err := repo.db.ExecContext(ctx, `
		INSERT INTO users (id, role, full_name, email, password_hash, is_active, last_login, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, usr.ID, usr.Role, usr.FullName, usr.Email, usr.PasswordHash, usr.IsActive, lastLoginParam(usr), usr.CreatedAt, usr.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err, "users_email_key") {
			return user.User{}, user.ErrEmailExists
		}
		return user.User{}, wrapErr(err, "creating user")
	}
	return usr, nil
}

func (repo *UserRepository) QueryAllUsers(ctx context.Context) ([]user.User, error) {
	var rows []userRow
	err := repo.db.SelectContext(ctx, &rows, `
		SELECT id, role, full_name, email, password_hash, is_active, last_login, created_at, updated_at
		FROM users
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, wrapErr(err, "querying users")
	}
	users := make([]user.User, 0, len(rows))
	for _, r := range rows {
		users = append(users, r.toUser())
	}
	return users, nil
}

func (repo *UserRepository) GetUserByID(ctx context.Context, id string) (user.User, error) {
	var row userRow
	err := repo.db.GetContext(ctx, &row, `
		SELECT id, role, full_name, email, password_hash, is_active, last_login, created_at, updated_at
		FROM users WHERE id = $1
	`, id)
	if err != nil {
		if errors.Cause(err) == sql.ErrNoRows {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, wrapErr(err, "getting user by id")
	}
	return row.toUser(), nil
}

func (repo *UserRepository) GetUserByEmail(ctx context.Context, email string) (user.User, error) {
	var row userRow
	err := repo.db.GetContext(ctx, &row, `
		SELECT id, role, full_name, email, password_hash, is_active, last_login, created_at, updated_at
		FROM users WHERE LOWER(email) = LOWER($1)
	`, email)
	if err != nil {
		if errors.Cause(err) == sql.ErrNoRows {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, wrapErr(err, "getting user by email")
	}
	return row.toUser(), nil
}

func (repo *UserRepository) UpdateUser(ctx context.Context, usr user.User) (user.User, error) {
	res, err := repo.db.ExecContext(ctx, `
		UPDATE users
		SET role = $2, full_name = $3, email = $4, password_hash = $5, is_active = $6, last_login = $7, updated_at = $8
		WHERE id = $1
	`, usr.ID, usr.Role, usr.FullName, usr.Email, usr.PasswordHash, usr.IsActive, lastLoginParam(usr), time.Now().UTC())
	if err != nil {
		if isUniqueViolation(err, "users_email_key") {
			return user.User{}, user.ErrEmailExists
		}
		return user.User{}, wrapErr(err, "updating user")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return user.User{}, user.ErrNotFound
	}
	return repo.GetUserByID(ctx, usr.ID)
}

func (repo *UserRepository) UpdateOrCreateUser(ctx context.Context, usr user.User) (user.User, error) {
	existing, err := repo.GetUserByEmail(ctx, usr.Email)
	if err != nil {
		if errors.Cause(err) == user.ErrNotFound {
			if usr.CreatedAt.IsZero() {
				usr.CreatedAt = time.Now().UTC()
				usr.UpdatedAt = usr.CreatedAt
			}
			return repo.CreateUser(ctx, usr)
		}
		return user.User{}, err
	}
	usr.ID = existing.ID
	usr.CreatedAt = existing.CreatedAt
	return repo.UpdateUser(ctx, usr)
}
