package mongo

import (
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/ArnavSingha/ApniSec/internal/domain/enums"
	"github.com/ArnavSingha/ApniSec/internal/domain/model"
)

func TestParseIDRejectsMalformedHex(t *testing.T) {
	if _, err := parseID("not-an-object-id"); !errors.Is(err, model.ErrInvalidID) {
		t.Fatalf("expected ErrInvalidID, got %v", err)
	}

	oid := bson.NewObjectID()
	got, err := parseID(oid.Hex())
	if err != nil {
		t.Fatalf("parse valid id: %v", err)
	}
	if got != oid {
		t.Fatalf("unexpected id: got %s want %s", got.Hex(), oid.Hex())
	}
}

func TestOwnedFilterScopesByOwner(t *testing.T) {
	issueID := bson.NewObjectID()
	ownerID := bson.NewObjectID()

	filter, err := ownedFilter(ownerID.Hex(), issueID.Hex())
	if err != nil {
		t.Fatalf("owned filter: %v", err)
	}
	if filter["_id"] != issueID || filter["userId"] != ownerID {
		t.Fatalf("unexpected filter: %v", filter)
	}

	if _, err := ownedFilter("bad-owner", issueID.Hex()); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for malformed owner, got %v", err)
	}
}

func TestProfileUpdateSplitsSetAndUnset(t *testing.T) {
	title := "CISO"
	empty := ""
	gender := enums.GenderOther
	dob := time.Date(1990, time.May, 17, 0, 0, 0, 0, time.UTC)

	set, unset := profileUpdate(model.ProfilePatch{
		JobTitle: &title,
		Bio:      &empty,
		Gender:   &gender,
		DOBSet:   true,
		DOB:      &dob,
	})

	if set["jobTitle"] != "CISO" || set["gender"] != "Other" || set["dob"] != dob {
		t.Fatalf("unexpected $set: %v", set)
	}
	if _, ok := unset["bio"]; !ok {
		t.Fatalf("empty bio should be unset: %v", unset)
	}
	if _, ok := set["country"]; ok {
		t.Fatalf("absent field must not be touched: %v", set)
	}

	_, unset = profileUpdate(model.ProfilePatch{DOBSet: true})
	if _, ok := unset["dob"]; !ok {
		t.Fatalf("cleared dob should be unset: %v", unset)
	}
}

func TestDocumentsConvertToModel(t *testing.T) {
	owner := bson.NewObjectID()
	doc := issueDocument{
		ID:     bson.NewObjectID(),
		UserID: owner,
		Title:  "Exposed bucket",
		Type:   "VAPT",
		Status: "OPEN",
	}

	issue := doc.toModel()
	if issue.UserID != owner.Hex() || issue.Type != enums.IssueTypeVAPT {
		t.Fatalf("unexpected issue: %+v", issue)
	}

	user := userDocument{ID: owner, Email: "a@b.co", Password: "hash", ForgotPasswordToken: "digest"}.toModel()
	if user.ID != owner.Hex() || user.PasswordHash != "hash" || user.ResetTokenHash != "digest" {
		t.Fatalf("unexpected user: %+v", user)
	}
}
