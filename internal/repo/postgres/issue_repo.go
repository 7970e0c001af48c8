package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ArnavSingha/ApniSec/internal/domain/enums"
	"github.com/ArnavSingha/ApniSec/internal/domain/model"
)

const issueColumns = `id::text, user_id::text, title, type, description, priority, status, created_at, updated_at`

type IssueRepo struct {
	pool *pgxpool.Pool
}

func NewIssueRepo(pool *pgxpool.Pool) *IssueRepo {
	return &IssueRepo{pool: pool}
}

func (r *IssueRepo) CreateIssue(ctx context.Context, issue model.Issue) (model.Issue, error) {
	owner, err := parseID(issue.UserID)
	if err != nil {
		return model.Issue{}, err
	}

	created, err := scanIssue(r.pool.QueryRow(ctx, `
INSERT INTO issues (id, user_id, title, type, description, priority, status, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING `+issueColumns,
		uuid.NewString(), owner, issue.Title, string(issue.Type), issue.Description,
		issue.Priority, issue.Status, issue.CreatedAt, issue.UpdatedAt))
	if err != nil {
		return model.Issue{}, fmt.Errorf("insert issue: %w", err)
	}
	return created, nil
}

func (r *IssueRepo) ListIssues(ctx context.Context, userID string, filter model.IssueFilter) ([]model.Issue, error) {
	owner, err := parseID(userID)
	if err != nil {
		return []model.Issue{}, nil
	}

	search := ""
	if filter.Search != "" {
		search = "%" + escapeLike(filter.Search) + "%"
	}

	rows, err := r.pool.Query(ctx, `
SELECT `+issueColumns+`
FROM issues
WHERE user_id = $1
	AND ($2 = '' OR type = $2)
	AND ($3 = '' OR title ILIKE $3 OR description ILIKE $3)
ORDER BY created_at DESC
`, owner, string(filter.Type), search)
	if err != nil {
		return nil, fmt.Errorf("list issues: %w", err)
	}
	defer rows.Close()

	out := make([]model.Issue, 0)
	for rows.Next() {
		issue, err := scanIssue(rows)
		if err != nil {
			return nil, fmt.Errorf("scan issue: %w", err)
		}
		out = append(out, issue)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate issues: %w", err)
	}
	return out, nil
}

func (r *IssueRepo) GetIssue(ctx context.Context, userID, id string) (model.Issue, error) {
	owner, issueID, err := ownedIDs(userID, id)
	if err != nil {
		return model.Issue{}, err
	}

	return r.queryOne(ctx, `SELECT `+issueColumns+` FROM issues WHERE id = $1 AND user_id = $2`, issueID, owner)
}

func (r *IssueRepo) UpdateIssue(ctx context.Context, userID, id string, patch model.IssuePatch, now time.Time) (model.Issue, error) {
	owner, issueID, err := ownedIDs(userID, id)
	if err != nil {
		return model.Issue{}, err
	}

	var typ *string
	if patch.Type != nil {
		t := string(*patch.Type)
		typ = &t
	}

	return r.queryOne(ctx, `
UPDATE issues SET
	title = COALESCE($3, title),
	type = COALESCE($4, type),
	description = COALESCE($5, description),
	priority = COALESCE($6, priority),
	status = COALESCE($7, status),
	updated_at = $8
WHERE id = $1 AND user_id = $2
RETURNING `+issueColumns,
		issueID, owner, patch.Title, typ, patch.Description, patch.Priority, patch.Status, now)
}

func (r *IssueRepo) DeleteIssue(ctx context.Context, userID, id string) error {
	owner, issueID, err := ownedIDs(userID, id)
	if err != nil {
		return err
	}

	tag, err := r.pool.Exec(ctx, `DELETE FROM issues WHERE id = $1 AND user_id = $2`, issueID, owner)
	if err != nil {
		return fmt.Errorf("delete issue: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *IssueRepo) queryOne(ctx context.Context, query string, args ...any) (model.Issue, error) {
	issue, err := scanIssue(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Issue{}, model.ErrNotFound
		}
		return model.Issue{}, fmt.Errorf("query issue: %w", err)
	}
	return issue, nil
}

func scanIssue(row pgx.Row) (model.Issue, error) {
	var (
		issue model.Issue
		typ   string
	)
	if err := row.Scan(
		&issue.ID,
		&issue.UserID,
		&issue.Title,
		&typ,
		&issue.Description,
		&issue.Priority,
		&issue.Status,
		&issue.CreatedAt,
		&issue.UpdatedAt,
	); err != nil {
		return model.Issue{}, err
	}
	issue.Type = enums.IssueType(typ)
	return issue, nil
}

func ownedIDs(userID, id string) (string, string, error) {
	issueID, err := parseID(id)
	if err != nil {
		return "", "", err
	}
	owner, err := parseID(userID)
	if err != nil {
		return "", "", model.ErrNotFound
	}
	return owner, issueID, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes user input match literally inside an ILIKE pattern.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
