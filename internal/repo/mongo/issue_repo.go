package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/ArnavSingha/ApniSec/internal/domain/enums"
	"github.com/ArnavSingha/ApniSec/internal/domain/model"
)

type issueDocument struct {
	ID          bson.ObjectID `bson:"_id,omitempty"`
	UserID      bson.ObjectID `bson:"userId"`
	Title       string        `bson:"title"`
	Type        string        `bson:"type"`
	Description string        `bson:"description"`
	Priority    string        `bson:"priority,omitempty"`
	Status      string        `bson:"status"`
	CreatedAt   time.Time     `bson:"createdAt"`
	UpdatedAt   time.Time     `bson:"updatedAt"`
}

func (d issueDocument) toModel() model.Issue {
	return model.Issue{
		ID:          d.ID.Hex(),
		UserID:      d.UserID.Hex(),
		Title:       d.Title,
		Type:        enums.IssueType(d.Type),
		Description: d.Description,
		Priority:    d.Priority,
		Status:      d.Status,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

type IssueRepo struct {
	coll *mongo.Collection
}

func NewIssueRepo(c *Client) *IssueRepo {
	return &IssueRepo{coll: c.Database().Collection(issuesCollection)}
}

func (r *IssueRepo) CreateIssue(ctx context.Context, issue model.Issue) (model.Issue, error) {
	owner, err := parseID(issue.UserID)
	if err != nil {
		return model.Issue{}, err
	}

	doc := issueDocument{
		ID:          bson.NewObjectID(),
		UserID:      owner,
		Title:       issue.Title,
		Type:        string(issue.Type),
		Description: issue.Description,
		Priority:    issue.Priority,
		Status:      issue.Status,
		CreatedAt:   issue.CreatedAt,
		UpdatedAt:   issue.UpdatedAt,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return model.Issue{}, fmt.Errorf("insert issue: %w", err)
	}
	return doc.toModel(), nil
}

func (r *IssueRepo) ListIssues(ctx context.Context, userID string, filter model.IssueFilter) ([]model.Issue, error) {
	owner, err := parseID(userID)
	if err != nil {
		return []model.Issue{}, nil
	}

	query := bson.M{"userId": owner}
	if filter.Type != "" {
		query["type"] = string(filter.Type)
	}
	if filter.Search != "" {
		pattern := bson.Regex{Pattern: regexp.QuoteMeta(filter.Search), Options: "i"}
		query["$or"] = bson.A{
			bson.M{"title": pattern},
			bson.M{"description": pattern},
		}
	}

	cursor, err := r.coll.Find(ctx, query, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("find issues: %w", err)
	}

	var docs []issueDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode issues: %w", err)
	}

	out := make([]model.Issue, 0, len(docs))
	for _, doc := range docs {
		out = append(out, doc.toModel())
	}
	return out, nil
}

func (r *IssueRepo) GetIssue(ctx context.Context, userID, id string) (model.Issue, error) {
	filter, err := ownedFilter(userID, id)
	if err != nil {
		return model.Issue{}, err
	}

	var doc issueDocument
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return model.Issue{}, model.ErrNotFound
		}
		return model.Issue{}, fmt.Errorf("find issue: %w", err)
	}
	return doc.toModel(), nil
}

func (r *IssueRepo) UpdateIssue(ctx context.Context, userID, id string, patch model.IssuePatch, now time.Time) (model.Issue, error) {
	filter, err := ownedFilter(userID, id)
	if err != nil {
		return model.Issue{}, err
	}

	set := bson.M{"updatedAt": now}
	if patch.Title != nil {
		set["title"] = *patch.Title
	}
	if patch.Type != nil {
		set["type"] = string(*patch.Type)
	}
	if patch.Description != nil {
		set["description"] = *patch.Description
	}
	if patch.Priority != nil {
		set["priority"] = *patch.Priority
	}
	if patch.Status != nil {
		set["status"] = *patch.Status
	}

	var doc issueDocument
	err = r.coll.FindOneAndUpdate(ctx, filter, bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return model.Issue{}, model.ErrNotFound
		}
		return model.Issue{}, fmt.Errorf("update issue: %w", err)
	}
	return doc.toModel(), nil
}

func (r *IssueRepo) DeleteIssue(ctx context.Context, userID, id string) error {
	filter, err := ownedFilter(userID, id)
	if err != nil {
		return err
	}

	res, err := r.coll.DeleteOne(ctx, filter)
	if err != nil {
		return fmt.Errorf("delete issue: %w", err)
	}
	if res.DeletedCount == 0 {
		return model.ErrNotFound
	}
	return nil
}

func ownedFilter(userID, id string) (bson.M, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	owner, err := parseID(userID)
	if err != nil {
		return nil, model.ErrNotFound
	}
	return bson.M{"_id": oid, "userId": owner}, nil
}
