package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ArnavSingha/ApniSec/internal/domain/enums"
	"github.com/ArnavSingha/ApniSec/internal/domain/model"
)

const userColumns = `id::text, name, email, password_hash, COALESCE(reset_token_hash, ''), reset_token_expiry,
	dob, gender, phone_number, company_url, job_title, bio, country, created_at, updated_at`

type UserRepo struct {
	pool *pgxpool.Pool
}

func NewUserRepo(pool *pgxpool.Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

func (r *UserRepo) CreateUser(ctx context.Context, user model.User) (model.User, error) {
	if r.pool == nil {
		return model.User{}, fmt.Errorf("postgres pool is nil")
	}

	row := r.pool.QueryRow(ctx, `
INSERT INTO users (id, name, email, password_hash, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING `+userColumns,
		uuid.NewString(), user.Name, user.Email, user.PasswordHash, user.CreatedAt, user.UpdatedAt)

	created, err := scanUser(row)
	if err != nil {
		if isUniqueViolation(err) {
			return model.User{}, model.ErrDuplicate
		}
		return model.User{}, fmt.Errorf("insert user: %w", err)
	}
	return created, nil
}

func (r *UserRepo) GetUserByID(ctx context.Context, id string) (model.User, error) {
	userID, err := parseID(id)
	if err != nil {
		return model.User{}, err
	}
	return r.queryOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, userID)
}

func (r *UserRepo) GetUserByEmail(ctx context.Context, email string) (model.User, error) {
	return r.queryOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
}

func (r *UserRepo) SetResetToken(ctx context.Context, userID, digest string, expiresAt time.Time) error {
	id, err := parseID(userID)
	if err != nil {
		return err
	}
	tag, err := r.pool.Exec(ctx, `
UPDATE users SET reset_token_hash = $2, reset_token_expiry = $3
WHERE id = $1
`, id, digest, expiresAt)
	if err != nil {
		return fmt.Errorf("set reset token: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *UserRepo) GetUserByResetToken(ctx context.Context, digest string, now time.Time) (model.User, error) {
	return r.queryOne(ctx, `
SELECT `+userColumns+`
FROM users
WHERE reset_token_hash = $1 AND reset_token_expiry > $2
`, digest, now)
}

func (r *UserRepo) UpdatePassword(ctx context.Context, userID, passwordHash string, now time.Time) error {
	id, err := parseID(userID)
	if err != nil {
		return err
	}
	tag, err := r.pool.Exec(ctx, `
UPDATE users
SET password_hash = $2, reset_token_hash = NULL, reset_token_expiry = NULL, updated_at = $3
WHERE id = $1
`, id, passwordHash, now)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *UserRepo) ClearExpiredResetTokens(ctx context.Context, now time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx, `
UPDATE users
SET reset_token_hash = NULL, reset_token_expiry = NULL
WHERE reset_token_expiry IS NOT NULL AND reset_token_expiry <= $1
`, now)
	if err != nil {
		return 0, fmt.Errorf("clear expired reset tokens: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *UserRepo) UpdateProfile(ctx context.Context, userID string, patch model.ProfilePatch, now time.Time) (model.User, error) {
	id, err := parseID(userID)
	if err != nil {
		return model.User{}, err
	}

	var gender *string
	if patch.Gender != nil {
		g := string(*patch.Gender)
		gender = &g
	}

	return r.queryOne(ctx, `
UPDATE users SET
	name = COALESCE($2, name),
	dob = CASE WHEN $3::boolean THEN $4::timestamptz ELSE dob END,
	gender = COALESCE($5, gender),
	phone_number = COALESCE($6, phone_number),
	company_url = COALESCE($7, company_url),
	job_title = COALESCE($8, job_title),
	bio = COALESCE($9, bio),
	country = COALESCE($10, country),
	updated_at = $11
WHERE id = $1
RETURNING `+userColumns,
		id, patch.Name, patch.DOBSet, patch.DOB, gender, patch.PhoneNumber,
		patch.CompanyURL, patch.JobTitle, patch.Bio, patch.Country, now)
}

func (r *UserRepo) queryOne(ctx context.Context, query string, args ...any) (model.User, error) {
	if r.pool == nil {
		return model.User{}, fmt.Errorf("postgres pool is nil")
	}

	user, err := scanUser(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.User{}, model.ErrNotFound
		}
		return model.User{}, fmt.Errorf("query user: %w", err)
	}
	return user, nil
}

func scanUser(row pgx.Row) (model.User, error) {
	var (
		user   model.User
		gender string
	)
	err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.ResetTokenHash,
		&user.ResetTokenExpiry,
		&user.DOB,
		&gender,
		&user.PhoneNumber,
		&user.CompanyURL,
		&user.JobTitle,
		&user.Bio,
		&user.Country,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return model.User{}, err
	}
	user.Gender = enums.Gender(gender)
	return user, nil
}
