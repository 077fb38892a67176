package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shortsboard/shorts-analytics/internal/db"
	"github.com/shortsboard/shorts-analytics/internal/db/models"
)

// EmbeddingStatus filters embeddings by assignment.
type EmbeddingStatus string

const (
	EmbeddingStatusAll      EmbeddingStatus = ""
	EmbeddingStatusPending  EmbeddingStatus = "pending"
	EmbeddingStatusAssigned EmbeddingStatus = "assigned"
)

// ScriptEmbeddingRepository defines operations on script_embeddings.
type ScriptEmbeddingRepository interface {
	Create(ctx context.Context, embedding *models.ScriptEmbedding) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.ScriptEmbedding, error)

	// GetByVideoID returns the oldest embedding assigned to videoID.
	GetByVideoID(ctx context.Context, videoID string) (*models.ScriptEmbedding, error)

	// IsVideoAssigned reports whether any embedding other than excludeID
	// is assigned to videoID.
	IsVideoAssigned(ctx context.Context, videoID string, excludeID uuid.UUID) (bool, error)

	List(ctx context.Context, status EmbeddingStatus) ([]*models.ScriptEmbedding, error)

	// UpdateContent replaces every creative field and returns the stored row.
	UpdateContent(ctx context.Context, id uuid.UUID, content models.ScriptContent) (*models.ScriptEmbedding, error)

	// SetAssignment links or unlinks an embedding and returns the stored row.
	SetAssignment(ctx context.Context, id uuid.UUID, assignment models.Assignment) (*models.ScriptEmbedding, error)

	Delete(ctx context.Context, id uuid.UUID) error
}

// Rows written before NULL was used for pending embeddings carry a
// PENDING_ prefix and are treated as unassigned.
const (
	pendingPredicate  = `(video_id IS NULL OR video_id = '' OR video_id LIKE 'PENDING\_%')`
	assignedPredicate = `NOT ` + pendingPredicate
)

const embeddingColumns = `id, video_id, topic, format, hook, style, gimmick, end_cta,
	script, embedding_text, created_at, updated_at`

type scriptEmbeddingRepository struct {
	pool *pgxpool.Pool
}

// NewScriptEmbeddingRepository creates a new ScriptEmbeddingRepository.
func NewScriptEmbeddingRepository(pool *pgxpool.Pool) ScriptEmbeddingRepository {
	return &scriptEmbeddingRepository{pool: pool}
}

func (r *scriptEmbeddingRepository) Create(ctx context.Context, e *models.ScriptEmbedding) error {
	query := `
		INSERT INTO script_embeddings (` + embeddingColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := r.pool.Exec(ctx, query,
		e.ID,
		e.Assignment.Column(),
		e.Topic,
		e.Format,
		e.Hook,
		e.Style,
		e.Gimmick,
		e.EndCTA,
		e.Script,
		e.EmbeddingText,
		e.CreatedAt,
		e.UpdatedAt,
	)
	if err != nil {
		return db.WrapError(err, "create script embedding")
	}

	return nil
}

func (r *scriptEmbeddingRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.ScriptEmbedding, error) {
	query := `SELECT ` + embeddingColumns + ` FROM script_embeddings WHERE id = $1`

	e, err := scanEmbedding(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, db.WrapError(err, "get script embedding")
	}

	return e, nil
}

func (r *scriptEmbeddingRepository) GetByVideoID(ctx context.Context, videoID string) (*models.ScriptEmbedding, error) {
	query := `
		SELECT ` + embeddingColumns + `
		FROM script_embeddings
		WHERE video_id = $1
		ORDER BY created_at ASC
		LIMIT 1
	`

	e, err := scanEmbedding(r.pool.QueryRow(ctx, query, videoID))
	if err != nil {
		return nil, db.WrapError(err, "get script embedding by video id")
	}

	return e, nil
}

func (r *scriptEmbeddingRepository) IsVideoAssigned(ctx context.Context, videoID string, excludeID uuid.UUID) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM script_embeddings WHERE video_id = $1 AND id <> $2)`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, videoID, excludeID).Scan(&exists); err != nil {
		return false, db.WrapError(err, "check video assignment")
	}

	return exists, nil
}

func (r *scriptEmbeddingRepository) List(ctx context.Context, status EmbeddingStatus) ([]*models.ScriptEmbedding, error) {
	query := `SELECT ` + embeddingColumns + ` FROM script_embeddings`
	switch status {
	case EmbeddingStatusPending:
		query += ` WHERE ` + pendingPredicate
	case EmbeddingStatusAssigned:
		query += ` WHERE ` + assignedPredicate
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, db.WrapError(err, "list script embeddings")
	}
	defer rows.Close()

	embeddings := []*models.ScriptEmbedding{}
	for rows.Next() {
		e, err := scanEmbedding(rows)
		if err != nil {
			return nil, fmt.Errorf("scan script embedding: %w", err)
		}
		embeddings = append(embeddings, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate script embeddings: %w", err)
	}

	return embeddings, nil
}

func (r *scriptEmbeddingRepository) UpdateContent(ctx context.Context, id uuid.UUID, c models.ScriptContent) (*models.ScriptEmbedding, error) {
	query := `
		UPDATE script_embeddings
		SET topic = $2, format = $3, hook = $4, style = $5, gimmick = $6,
		    end_cta = $7, script = $8, embedding_text = $9, updated_at = $10
		WHERE id = $1
		RETURNING ` + embeddingColumns

	e, err := scanEmbedding(r.pool.QueryRow(ctx, query,
		id, c.Topic, c.Format, c.Hook, c.Style, c.Gimmick, c.EndCTA, c.Script, c.EmbeddingText, time.Now(),
	))
	if err != nil {
		return nil, db.WrapError(err, "update script embedding")
	}

	return e, nil
}

func (r *scriptEmbeddingRepository) SetAssignment(ctx context.Context, id uuid.UUID, assignment models.Assignment) (*models.ScriptEmbedding, error) {
	query := `
		UPDATE script_embeddings
		SET video_id = $2, updated_at = $3
		WHERE id = $1
		RETURNING ` + embeddingColumns

	e, err := scanEmbedding(r.pool.QueryRow(ctx, query, id, assignment.Column(), time.Now()))
	if err != nil {
		return nil, db.WrapError(err, "set script embedding assignment")
	}

	return e, nil
}

func (r *scriptEmbeddingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM script_embeddings WHERE id = $1`, id)
	if err != nil {
		return db.WrapError(err, "delete script embedding")
	}

	if tag.RowsAffected() == 0 {
		return db.WrapError(pgx.ErrNoRows, "delete script embedding")
	}

	return nil
}

func scanEmbedding(row pgx.Row) (*models.ScriptEmbedding, error) {
	e := &models.ScriptEmbedding{}
	var videoID *string

	err := row.Scan(
		&e.ID,
		&videoID,
		&e.Topic,
		&e.Format,
		&e.Hook,
		&e.Style,
		&e.Gimmick,
		&e.EndCTA,
		&e.Script,
		&e.EmbeddingText,
		&e.CreatedAt,
		&e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	e.Assignment = models.AssignmentFromColumn(videoID)
	return e, nil
}
