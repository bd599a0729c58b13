package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/stocktrail/backend/internal/models"
	"go.uber.org/zap"
)

// userRepository provides data access for the users table
type userRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *sql.DB, logger *zap.Logger) *userRepository {
	return &userRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a new user. Email uniqueness is enforced by the database;
// a collision is surfaced as models.ErrUserExists.
func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (email, name, password_hash, role)
		VALUES (?, ?, ?, ?)
	`

	// Accounts created without credentials (demo login, external identity
	// providers) store NULL instead of an empty hash
	passwordHash := sql.NullString{String: user.PasswordHash, Valid: user.PasswordHash != ""}

	result, err := r.db.ExecContext(ctx, query, user.Email, user.Name, passwordHash, user.Role)
	if err != nil {
		if isDuplicateEntry(err, "email") {
			return models.ErrUserExists
		}
		r.logger.Error("failed to create user", zap.Error(err))
		return wrapDBError("failed to create user", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		r.logger.Error("failed to get last insert id", zap.Error(err))
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	user.ID = int(id)
	return nil
}

// GetByEmail retrieves a user by email. Emails are stored normalized to
// lower case, so callers must normalize before lookup.
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `
		SELECT id, email, name, password_hash, role, created_at
		FROM users
		WHERE email = ?
		LIMIT 1
	`

	return r.scanUser(r.db.QueryRowContext(ctx, query, email))
}

// GetByID retrieves a user by ID
func (r *userRepository) GetByID(ctx context.Context, userID int) (*models.User, error) {
	query := `
		SELECT id, email, name, password_hash, role, created_at
		FROM users
		WHERE id = ?
		LIMIT 1
	`

	return r.scanUser(r.db.QueryRowContext(ctx, query, userID))
}

// ExistsByEmail checks if a user exists with the given email
func (r *userRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	query := `SELECT EXISTS(SELECT * FROM users WHERE email = ?)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, email).Scan(&exists); err != nil {
		r.logger.Error("failed to check email existence", zap.Error(err), zap.String("email", email))
		return false, wrapDBError("failed to check email existence", err)
	}

	return exists, nil
}

// Count returns the total number of registered users
func (r *userRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		r.logger.Error("failed to count users", zap.Error(err))
		return 0, wrapDBError("failed to count users", err)
	}

	return count, nil
}

func (r *userRepository) scanUser(row *sql.Row) (*models.User, error) {
	user := &models.User{}
	var passwordHash sql.NullString

	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.Name,
		&passwordHash,
		&user.Role,
		&user.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, models.ErrUserNotFound
	}
	if err != nil {
		r.logger.Error("failed to get user", zap.Error(err))
		return nil, wrapDBError("failed to get user", err)
	}

	user.PasswordHash = passwordHash.String
	return user, nil
}
