package rbac

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/milliihq/access/pkg/permissions"
)

// ErrUserNotFound is returned when a user has no role assignment.
var ErrUserNotFound = fmt.Errorf("user not found")

// Store handles permission-service persistence. Queries use $N placeholders,
// which both lib/pq and go-sqlite3 accept.
type Store struct {
	db *sql.DB
}

// NewStore creates a new permission store
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// GetUserRole retrieves a user's role assignment. Returns ErrUserNotFound
// when the user has never been assigned one.
func (s *Store) GetUserRole(ctx context.Context, userID string) (permissions.Role, error) {
	var role permissions.Role
	err := s.db.QueryRowContext(ctx,
		`SELECT role FROM user_roles WHERE user_id = $1`,
		userID,
	).Scan(&role)
	if err == sql.ErrNoRows {
		return "", fmt.Errorf("%w: %s", ErrUserNotFound, userID)
	}
	if err != nil {
		return "", fmt.Errorf("failed to get user role: %w", err)
	}
	return role, nil
}

// SetUserRole assigns or replaces a user's role.
func (s *Store) SetUserRole(ctx context.Context, userID string, role permissions.Role) error {
	if !role.Valid() {
		return fmt.Errorf("invalid role: %q", role)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO user_roles (user_id, role, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO UPDATE SET role = $2, updated_at = $3
	`, userID, role, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to set user role: %w", err)
	}
	return nil
}

// GetOverrides retrieves every override for a user, keyed by permission.
// A user with no overrides gets an empty map, not an error.
func (s *Store) GetOverrides(ctx context.Context, userID string) (map[permissions.Key]bool, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT key, allowed FROM permission_overrides WHERE user_id = $1`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get overrides: %w", err)
	}
	defer rows.Close()

	overrides := make(map[permissions.Key]bool)
	for rows.Next() {
		var key permissions.Key
		var allowed bool
		if err := rows.Scan(&key, &allowed); err != nil {
			return nil, fmt.Errorf("failed to scan override: %w", err)
		}
		overrides[key] = allowed
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate overrides: %w", err)
	}
	return overrides, nil
}

// SetOverride creates or replaces one override.
func (s *Store) SetOverride(ctx context.Context, override *Override) error {
	if !permissions.KnownKey(override.Key) {
		return fmt.Errorf("unknown permission key: %q", override.Key)
	}

	now := time.Now().UTC()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO permission_overrides (user_id, key, allowed, updated_at, updated_by)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id, key) DO UPDATE SET allowed = $3, updated_at = $4, updated_by = $5
	`, override.UserID, override.Key, override.Allowed, now, override.UpdatedBy)
	if err != nil {
		return fmt.Errorf("failed to set override: %w", err)
	}
	override.UpdatedAt = now
	return nil
}

// DeleteOverride removes one override, reverting the key to the role
// default. Deleting an absent override is not an error.
func (s *Store) DeleteOverride(ctx context.Context, userID string, key permissions.Key) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM permission_overrides WHERE user_id = $1 AND key = $2`,
		userID, key,
	)
	if err != nil {
		return fmt.Errorf("failed to delete override: %w", err)
	}
	return nil
}

// ListOverrides retrieves every override for a user in key order, with
// audit fields, for the admin edit surface.
func (s *Store) ListOverrides(ctx context.Context, userID string) ([]Override, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT user_id, key, allowed, updated_at, updated_by
		FROM permission_overrides
		WHERE user_id = $1
		ORDER BY key
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list overrides: %w", err)
	}
	defer rows.Close()

	var overrides []Override
	for rows.Next() {
		var o Override
		var updatedBy sql.NullString
		if err := rows.Scan(&o.UserID, &o.Key, &o.Allowed, &o.UpdatedAt, &updatedBy); err != nil {
			return nil, fmt.Errorf("failed to scan override: %w", err)
		}
		o.UpdatedBy = updatedBy.String
		overrides = append(overrides, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate overrides: %w", err)
	}
	return overrides, nil
}
