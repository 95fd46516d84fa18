package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"consoul-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const roomColumns = `id, title, status, user_a_id, user_b_id,
		timer_seconds, timer_running, timer_started_at, heart_count,
		user_a_emotion, user_b_emotion,
		started_at, ended_at, last_activity_at, created_at`

// RoomRepository handles database operations for rooms
type RoomRepository struct {
	db *pgxpool.Pool
}

// NewRoomRepository creates a new room repository
func NewRoomRepository(db *pgxpool.Pool) *RoomRepository {
	return &RoomRepository{db: db}
}

// Create creates a new room
func (r *RoomRepository) Create(ctx context.Context, room *models.Room) error {
	query := `
		INSERT INTO rooms (` + roomColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`
	_, err := r.db.Exec(ctx, query,
		room.ID, room.Title, string(room.Status), room.UserAID, room.UserBID,
		room.TimerSeconds, room.TimerRunning, room.TimerStartedAt, room.HeartCount,
		emotionValue(room.UserAEmotion), emotionValue(room.UserBEmotion),
		room.StartedAt, room.EndedAt, room.LastActivityAt, room.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create room: %w", err)
	}
	return nil
}

// GetByID retrieves a room by ID
func (r *RoomRepository) GetByID(ctx context.Context, id string) (*models.Room, error) {
	query := `SELECT ` + roomColumns + ` FROM rooms WHERE id = $1`
	return scanRoom(r.db.QueryRow(ctx, query, id))
}

// ListByUser retrieves the rooms a user participates in, most recent first
func (r *RoomRepository) ListByUser(ctx context.Context, userID string) ([]*models.Room, error) {
	query := `
		SELECT ` + roomColumns + `
		FROM rooms
		WHERE user_a_id = $1 OR user_b_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}
	defer rows.Close()

	var rooms []*models.Room
	for rows.Next() {
		room, err := scanRoom(rows)
		if err != nil {
			return nil, err
		}
		rooms = append(rooms, room)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read rooms: %w", err)
	}
	return rooms, nil
}

// ListStaleIDs returns ids of active rooms whose last activity is before cutoff
func (r *RoomRepository) ListStaleIDs(ctx context.Context, cutoff time.Time) ([]string, error) {
	query := `
		SELECT id FROM rooms
		WHERE status = 'active' AND last_activity_at < $1
	`
	rows, err := r.db.Query(ctx, query, cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to list stale rooms: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan room id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read stale rooms: %w", err)
	}
	return ids, nil
}

// Mutate runs fn against the room inside a transaction holding a row lock,
// writing the result back when fn reports a change. Concurrent mutations of
// one room serialize on the lock, so read-validate-write is one atomic unit.
func (r *RoomRepository) Mutate(ctx context.Context, id string, fn func(*models.Room) (bool, error)) (*models.Room, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `SELECT ` + roomColumns + ` FROM rooms WHERE id = $1 FOR UPDATE`
	room, err := scanRoom(tx.QueryRow(ctx, query, id))
	if err != nil {
		return nil, err
	}

	changed, err := fn(room)
	if err != nil {
		return nil, err
	}
	if !changed {
		return room, nil
	}

	update := `
		UPDATE rooms SET
			status = $2, timer_seconds = $3, timer_running = $4, timer_started_at = $5,
			heart_count = $6, user_a_emotion = $7, user_b_emotion = $8,
			started_at = $9, ended_at = $10, last_activity_at = $11
		WHERE id = $1
	`
	_, err = tx.Exec(ctx, update,
		room.ID, string(room.Status),
		room.TimerSeconds, room.TimerRunning, room.TimerStartedAt,
		room.HeartCount, emotionValue(room.UserAEmotion), emotionValue(room.UserBEmotion),
		room.StartedAt, room.EndedAt, room.LastActivityAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update room: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit room update: %w", err)
	}
	return room, nil
}

func scanRoom(row pgx.Row) (*models.Room, error) {
	var room models.Room
	var status string
	var emotionA, emotionB *string
	err := row.Scan(
		&room.ID, &room.Title, &status, &room.UserAID, &room.UserBID,
		&room.TimerSeconds, &room.TimerRunning, &room.TimerStartedAt, &room.HeartCount,
		&emotionA, &emotionB,
		&room.StartedAt, &room.EndedAt, &room.LastActivityAt, &room.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get room: %w", err)
	}
	room.Status = models.Status(status)
	if emotionA != nil {
		e := models.Emotion(*emotionA)
		room.UserAEmotion = &e
	}
	if emotionB != nil {
		e := models.Emotion(*emotionB)
		room.UserBEmotion = &e
	}
	return &room, nil
}

func emotionValue(e *models.Emotion) *string {
	if e == nil {
		return nil
	}
	s := string(*e)
	return &s
}
