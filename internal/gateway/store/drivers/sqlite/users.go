package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/jamescompany/qa-portal/internal/gateway/domain"
	"github.com/jamescompany/qa-portal/internal/gateway/store"
)

type usersRepo struct {
	q querier
}

const userColumns = `id, email, name, password_hash, role, membership_tier,
	is_admin, provider, mentor_status, profile_image, created_at, updated_at`

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	return scanUser(row)
}

func (r *usersRepo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = ?`, email)
	return scanUser(row)
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO users (
			id, email, name, password_hash, role, membership_tier,
			is_admin, provider, mentor_status, profile_image, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.Email, u.Name, u.PasswordHash, u.Role, u.MembershipTier,
		u.IsAdmin, u.Provider,
		mapOptionalString(u.MentorStatus), mapOptionalString(u.ProfileImage),
		u.CreatedAt, u.UpdatedAt,
	)
	if err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return store.ErrAlreadyExists
	}
	return err
}

func (r *usersRepo) UpdateProfile(ctx context.Context, userID, name string, profileImage *string) error {
	res, err := r.q.ExecContext(ctx, `
		UPDATE users SET name = ?, profile_image = ?, updated_at = ?
		WHERE id = ?`,
		name, mapOptionalString(profileImage), time.Now().UTC(), userID)
	return requireRow(res, err)
}

func (r *usersRepo) UpdateMentorStatus(ctx context.Context, userID, status string) error {
	res, err := r.q.ExecContext(ctx, `
		UPDATE users SET mentor_status = ?, updated_at = ?
		WHERE id = ?`,
		status, time.Now().UTC(), userID)
	return requireRow(res, err)
}

func (r *usersRepo) UpdatePasswordHash(ctx context.Context, userID, newHash string) error {
	res, err := r.q.ExecContext(ctx, `
		UPDATE users SET password_hash = ?, updated_at = ?
		WHERE id = ?`,
		newHash, time.Now().UTC(), userID)
	return requireRow(res, err)
}

func (r *usersRepo) DeleteUser(ctx context.Context, userID string) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, userID)
	return requireRow(res, err)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (domain.User, error) {
	var (
		u            domain.User
		mentorStatus sql.NullString
		profileImage sql.NullString
	)
	err := row.Scan(
		&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.Role, &u.MembershipTier,
		&u.IsAdmin, &u.Provider, &mentorStatus, &profileImage,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	u.MentorStatus = mapNullString(mentorStatus)
	u.ProfileImage = mapNullString(profileImage)
	return u, nil
}
