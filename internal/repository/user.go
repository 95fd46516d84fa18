package repository

import (
	"context"
	"errors"
	"fmt"

	"consoul-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// UserRepository handles database operations for users, including the
// mutual partner link.
type UserRepository struct {
	db *pgxpool.Pool
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

// Create creates a new user
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, name, code, token, partner_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.Exec(ctx, query, user.ID, user.Name, user.Code, user.Token, user.PartnerID, user.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query := `
		SELECT id, name, code, token, partner_id, created_at
		FROM users
		WHERE id = $1
	`
	return scanUser(r.db.QueryRow(ctx, query, id))
}

// GetByCode retrieves a user by pairing code
func (r *UserRepository) GetByCode(ctx context.Context, code string) (*models.User, error) {
	query := `
		SELECT id, name, code, token, partner_id, created_at
		FROM users
		WHERE code = $1
	`
	return scanUser(r.db.QueryRow(ctx, query, code))
}

// CodeExists checks if a pairing code already exists
func (r *UserRepository) CodeExists(ctx context.Context, code string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE code = $1)`
	var exists bool
	err := r.db.QueryRow(ctx, query, code).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check code existence: %w", err)
	}
	return exists, nil
}

// PartnerOf returns the user linked to userID, following the partner link in
// either direction. Returns nil without error when the user has no partner.
func (r *UserRepository) PartnerOf(ctx context.Context, userID string) (*models.User, error) {
	query := `
		SELECT p.id, p.name, p.code, p.token, p.partner_id, p.created_at
		FROM users u
		JOIN users p ON p.id = u.partner_id OR p.partner_id = u.id
		WHERE u.id = $1
		LIMIT 1
	`
	user, err := scanUser(r.db.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return user, nil
}

// CreateMutualPair links two users as partners. Both rows are locked and
// updated in one transaction so a half-written pairing is never observable.
func (r *UserRepository) CreateMutualPair(ctx context.Context, aID, bID string) error {
	if aID == bID {
		return models.ErrSelfPair
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	// Lock in id order so two concurrent pairings cannot deadlock.
	rows, err := tx.Query(ctx, `
		SELECT id, partner_id FROM users
		WHERE id = ANY($1)
		ORDER BY id
		FOR UPDATE
	`, []string{aID, bID})
	if err != nil {
		return fmt.Errorf("failed to lock users: %w", err)
	}

	found := 0
	for rows.Next() {
		var id string
		var partnerID *string
		if err := rows.Scan(&id, &partnerID); err != nil {
			rows.Close()
			return fmt.Errorf("failed to scan user: %w", err)
		}
		if partnerID != nil {
			rows.Close()
			return models.ErrAlreadyPaired
		}
		found++
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to read users: %w", err)
	}
	if found != 2 {
		return models.ErrNotFound
	}

	// A one-sided link pointing at either user also counts as paired.
	var linked bool
	err = tx.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE partner_id = ANY($1))`,
		[]string{aID, bID},
	).Scan(&linked)
	if err != nil {
		return fmt.Errorf("failed to check partner links: %w", err)
	}
	if linked {
		return models.ErrAlreadyPaired
	}

	if _, err := tx.Exec(ctx, `UPDATE users SET partner_id = $1 WHERE id = $2`, bID, aID); err != nil {
		return fmt.Errorf("failed to link user: %w", err)
	}
	if _, err := tx.Exec(ctx, `UPDATE users SET partner_id = $1 WHERE id = $2`, aID, bID); err != nil {
		return fmt.Errorf("failed to link partner: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit pairing: %w", err)
	}
	return nil
}

// Unpair clears the partner link on both sides of whichever partnership the
// user participates in. Idempotent when the user has no partner.
func (r *UserRepository) Unpair(ctx context.Context, userID string) error {
	query := `UPDATE users SET partner_id = NULL WHERE id = $1 OR partner_id = $1`
	_, err := r.db.Exec(ctx, query, userID)
	if err != nil {
		return fmt.Errorf("failed to unpair user: %w", err)
	}
	return nil
}

func scanUser(row pgx.Row) (*models.User, error) {
	var user models.User
	err := row.Scan(
		&user.ID, &user.Name, &user.Code, &user.Token, &user.PartnerID, &user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}
