package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ArnavSingha/ApniSec/internal/domain/model"
)

const noteColumns = `id::text, user_id::text, title, content, created_at, updated_at`

type NoteRepo struct {
	pool *pgxpool.Pool
}

func NewNoteRepo(pool *pgxpool.Pool) *NoteRepo {
	return &NoteRepo{pool: pool}
}

func (r *NoteRepo) CreateNote(ctx context.Context, note model.Note) (model.Note, error) {
	owner, err := parseID(note.UserID)
	if err != nil {
		return model.Note{}, err
	}

	created, err := scanNote(r.pool.QueryRow(ctx, `
INSERT INTO notes (id, user_id, title, content, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING `+noteColumns,
		uuid.NewString(), owner, note.Title, note.Content, note.CreatedAt, note.UpdatedAt))
	if err != nil {
		return model.Note{}, fmt.Errorf("insert note: %w", err)
	}
	return created, nil
}

func (r *NoteRepo) ListNotes(ctx context.Context, userID string) ([]model.Note, error) {
	owner, err := parseID(userID)
	if err != nil {
		return []model.Note{}, nil
	}

	rows, err := r.pool.Query(ctx, `
SELECT `+noteColumns+`
FROM notes
WHERE user_id = $1
ORDER BY created_at DESC
`, owner)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	defer rows.Close()

	out := make([]model.Note, 0)
	for rows.Next() {
		note, err := scanNote(rows)
		if err != nil {
			return nil, fmt.Errorf("scan note: %w", err)
		}
		out = append(out, note)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate notes: %w", err)
	}
	return out, nil
}

func scanNote(row pgx.Row) (model.Note, error) {
	var note model.Note
	err := row.Scan(&note.ID, &note.UserID, &note.Title, &note.Content, &note.CreatedAt, &note.UpdatedAt)
	return note, err
}
