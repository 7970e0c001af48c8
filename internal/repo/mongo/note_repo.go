package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/ArnavSingha/ApniSec/internal/domain/model"
)

type noteDocument struct {
	ID        bson.ObjectID `bson:"_id,omitempty"`
	UserID    bson.ObjectID `bson:"userId"`
	Title     string        `bson:"title"`
	Content   string        `bson:"content"`
	CreatedAt time.Time     `bson:"createdAt"`
	UpdatedAt time.Time     `bson:"updatedAt"`
}

func (d noteDocument) toModel() model.Note {
	return model.Note{
		ID:        d.ID.Hex(),
		UserID:    d.UserID.Hex(),
		Title:     d.Title,
		Content:   d.Content,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

type NoteRepo struct {
	coll *mongo.Collection
}

func NewNoteRepo(c *Client) *NoteRepo {
	return &NoteRepo{coll: c.Database().Collection(notesCollection)}
}

func (r *NoteRepo) CreateNote(ctx context.Context, note model.Note) (model.Note, error) {
	owner, err := parseID(note.UserID)
	if err != nil {
		return model.Note{}, err
	}

	doc := noteDocument{
		ID:        bson.NewObjectID(),
		UserID:    owner,
		Title:     note.Title,
		Content:   note.Content,
		CreatedAt: note.CreatedAt,
		UpdatedAt: note.UpdatedAt,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return model.Note{}, fmt.Errorf("insert note: %w", err)
	}
	return doc.toModel(), nil
}

func (r *NoteRepo) ListNotes(ctx context.Context, userID string) ([]model.Note, error) {
	owner, err := parseID(userID)
	if err != nil {
		return []model.Note{}, nil
	}

	cursor, err := r.coll.Find(ctx, bson.M{"userId": owner}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("find notes: %w", err)
	}

	var docs []noteDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode notes: %w", err)
	}

	out := make([]model.Note, 0, len(docs))
	for _, doc := range docs {
		out = append(out, doc.toModel())
	}
	return out, nil
}
