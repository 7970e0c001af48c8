package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/ArnavSingha/ApniSec/internal/domain/enums"
	"github.com/ArnavSingha/ApniSec/internal/domain/model"
)

type userDocument struct {
	ID                        bson.ObjectID `bson:"_id,omitempty"`
	Name                      string        `bson:"name"`
	Email                     string        `bson:"email"`
	Password                  string        `bson:"password"`
	ForgotPasswordToken       string        `bson:"forgotPasswordToken,omitempty"`
	ForgotPasswordTokenExpiry *time.Time    `bson:"forgotPasswordTokenExpiry,omitempty"`
	DOB                       *time.Time    `bson:"dob,omitempty"`
	Gender                    string        `bson:"gender,omitempty"`
	PhoneNumber               string        `bson:"phoneNumber,omitempty"`
	CompanyURL                string        `bson:"companyUrl,omitempty"`
	JobTitle                  string        `bson:"jobTitle,omitempty"`
	Bio                       string        `bson:"bio,omitempty"`
	Country                   string        `bson:"country,omitempty"`
	CreatedAt                 time.Time     `bson:"createdAt"`
	UpdatedAt                 time.Time     `bson:"updatedAt"`
}

func (d userDocument) toModel() model.User {
	return model.User{
		ID:               d.ID.Hex(),
		Name:             d.Name,
		Email:            d.Email,
		PasswordHash:     d.Password,
		ResetTokenHash:   d.ForgotPasswordToken,
		ResetTokenExpiry: d.ForgotPasswordTokenExpiry,
		DOB:              d.DOB,
		Gender:           enums.Gender(d.Gender),
		PhoneNumber:      d.PhoneNumber,
		CompanyURL:       d.CompanyURL,
		JobTitle:         d.JobTitle,
		Bio:              d.Bio,
		Country:          d.Country,
		CreatedAt:        d.CreatedAt,
		UpdatedAt:        d.UpdatedAt,
	}
}

type UserRepo struct {
	coll *mongo.Collection
}

func NewUserRepo(c *Client) *UserRepo {
	return &UserRepo{coll: c.Database().Collection(usersCollection)}
}

func (r *UserRepo) CreateUser(ctx context.Context, user model.User) (model.User, error) {
	doc := userDocument{
		ID:        bson.NewObjectID(),
		Name:      user.Name,
		Email:     user.Email,
		Password:  user.PasswordHash,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return model.User{}, model.ErrDuplicate
		}
		return model.User{}, fmt.Errorf("insert user: %w", err)
	}
	return doc.toModel(), nil
}

func (r *UserRepo) GetUserByID(ctx context.Context, id string) (model.User, error) {
	oid, err := parseID(id)
	if err != nil {
		return model.User{}, err
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *UserRepo) GetUserByEmail(ctx context.Context, email string) (model.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *UserRepo) SetResetToken(ctx context.Context, userID, digest string, expiresAt time.Time) error {
	oid, err := parseID(userID)
	if err != nil {
		return err
	}
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{
		"forgotPasswordToken":       digest,
		"forgotPasswordTokenExpiry": expiresAt,
	}})
	if err != nil {
		return fmt.Errorf("set reset token: %w", err)
	}
	if res.MatchedCount == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *UserRepo) GetUserByResetToken(ctx context.Context, digest string, now time.Time) (model.User, error) {
	return r.findOne(ctx, bson.M{
		"forgotPasswordToken":       digest,
		"forgotPasswordTokenExpiry": bson.M{"$gt": now},
	})
}

func (r *UserRepo) UpdatePassword(ctx context.Context, userID, passwordHash string, now time.Time) error {
	oid, err := parseID(userID)
	if err != nil {
		return err
	}
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{
		"$set":   bson.M{"password": passwordHash, "updatedAt": now},
		"$unset": bson.M{"forgotPasswordToken": "", "forgotPasswordTokenExpiry": ""},
	})
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if res.MatchedCount == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *UserRepo) ClearExpiredResetTokens(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.coll.UpdateMany(ctx,
		bson.M{"forgotPasswordTokenExpiry": bson.M{"$lte": now}},
		bson.M{"$unset": bson.M{"forgotPasswordToken": "", "forgotPasswordTokenExpiry": ""}},
	)
	if err != nil {
		return 0, fmt.Errorf("clear expired reset tokens: %w", err)
	}
	return res.ModifiedCount, nil
}

func (r *UserRepo) UpdateProfile(ctx context.Context, userID string, patch model.ProfilePatch, now time.Time) (model.User, error) {
	oid, err := parseID(userID)
	if err != nil {
		return model.User{}, err
	}

	set, unset := profileUpdate(patch)
	set["updatedAt"] = now
	update := bson.M{"$set": set}
	if len(unset) > 0 {
		update["$unset"] = unset
	}

	var doc userDocument
	err = r.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return model.User{}, model.ErrNotFound
		}
		return model.User{}, fmt.Errorf("update profile: %w", err)
	}
	return doc.toModel(), nil
}

func (r *UserRepo) findOne(ctx context.Context, filter bson.M) (model.User, error) {
	var doc userDocument
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return model.User{}, model.ErrNotFound
		}
		return model.User{}, fmt.Errorf("find user: %w", err)
	}
	return doc.toModel(), nil
}

// profileUpdate splits a patch into $set and $unset documents. Empty strings
// and a cleared dob are unset.
func profileUpdate(p model.ProfilePatch) (bson.M, bson.M) {
	set := bson.M{}
	unset := bson.M{}

	setString := func(field string, v *string) {
		if v == nil {
			return
		}
		if *v == "" {
			unset[field] = ""
			return
		}
		set[field] = *v
	}

	setString("name", p.Name)
	setString("phoneNumber", p.PhoneNumber)
	setString("companyUrl", p.CompanyURL)
	setString("jobTitle", p.JobTitle)
	setString("bio", p.Bio)
	setString("country", p.Country)
	if p.Gender != nil {
		g := string(*p.Gender)
		setString("gender", &g)
	}
	if p.DOBSet {
		if p.DOB == nil {
			unset["dob"] = ""
		} else {
			set["dob"] = *p.DOB
		}
	}
	return set, unset
}
