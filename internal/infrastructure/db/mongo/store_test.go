package mongo

import (
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/lodgeroll/membership/internal/core/domain"
)

func TestFromMongo_MergesHexID(t *testing.T) {
	oid := primitive.NewObjectID()
	doc := fromMongo(bson.M{"_id": oid, "display_name": "Jane"})

	if doc["id"] != oid.Hex() {
		t.Fatalf("expected id %s, got %v", oid.Hex(), doc["id"])
	}
	if _, ok := doc["_id"]; ok {
		t.Fatal("_id should not leak into the document")
	}
	if doc["display_name"] != "Jane" {
		t.Fatalf("field lost: %v", doc)
	}
}

func TestFromMongo_StringKey(t *testing.T) {
	doc := fromMongo(bson.M{"_id": "e7_m42", "status": "present"})
	if doc["id"] != "e7_m42" {
		t.Fatalf("unexpected id %v", doc["id"])
	}
}

func TestIDFilter(t *testing.T) {
	if f := idFilter("e7_m42"); f["_id"] != "e7_m42" {
		t.Fatalf("string key should match verbatim: %v", f)
	}

	hex := primitive.NewObjectID().Hex()
	f := idFilter(hex)
	in, ok := f["_id"].(bson.M)
	if !ok {
		t.Fatalf("expected $in filter for hex id, got %v", f)
	}
	if vals, _ := in["$in"].(bson.A); len(vals) != 2 {
		t.Fatalf("expected both ObjectID and string forms, got %v", in)
	}
}

func TestWithoutID(t *testing.T) {
	out := withoutID(domain.Document{"id": "x", "_id": "y", "status": "absent"})
	if len(out) != 1 || out["status"] != "absent" {
		t.Fatalf("unexpected result: %v", out)
	}
}

func TestStoreError_Classification(t *testing.T) {
	err := storeError("get", domain.CollectionUsers, mongo.ErrNoDocuments)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	err = storeError("update", domain.CollectionUsers, mongo.CommandError{Code: codeUnauthorized, Message: "not authorized"})
	if !errors.Is(err, domain.ErrPermissionDenied) {
		t.Fatalf("expected permission denied, got %v", err)
	}

	err = storeError("query", domain.CollectionUsers, errors.New("connection reset"))
	var se *domain.StoreError
	if !errors.As(err, &se) || se.Kind != domain.StoreNetwork {
		t.Fatalf("expected network store error, got %v", err)
	}
}
