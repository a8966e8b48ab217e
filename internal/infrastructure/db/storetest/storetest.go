// Package storetest holds the behaviour every DocumentStore backend must
// share. Backend packages call Run from their own tests.
package storetest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/lodgeroll/membership/internal/core/domain"
	"github.com/lodgeroll/membership/internal/core/ports"
	"github.com/lodgeroll/membership/internal/pkg/docmap"
)

// Opener returns a fresh, empty store for one subtest and registers its
// teardown with t.Cleanup.
type Opener func(t *testing.T) ports.DocumentStore

// Run exercises the DocumentStore contract against stores built by open.
func Run(t *testing.T, open Opener) {
	t.Helper()
	cases := []struct {
		name string
		fn   func(t *testing.T, s ports.DocumentStore)
	}{
		{"CreateAndQueryOrdered", testCreateAndQueryOrdered},
		{"GetAllReturnsEveryDocument", testGetAll},
		{"GetMissingIsNotFound", testGetMissing},
		{"UpdateMergesFields", testUpdateMerges},
		{"UpdateMissingIsNotFound", testUpdateMissing},
		{"SetByKeyReplaces", testSetByKeyReplaces},
		{"TimesRoundTrip", testTimesRoundTrip},
		{"ReturnedDocumentsAreCopies", testReturnedCopies},
		{"Ping", testPing},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tc.fn(t, open(t))
		})
	}
}

func testCreateAndQueryOrdered(t *testing.T, s ports.DocumentStore) {
	ctx := context.Background()
	for _, name := range []string{"Zed", "Anna", "Mia"} {
		if _, err := s.CreateDocument(ctx, domain.CollectionUsers, domain.Document{"display_name": name}); err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
	}

	docs, err := s.QueryCollection(ctx, domain.CollectionUsers, "display_name")
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(docs) != 3 {
		t.Fatalf("expected 3 docs, got %d", len(docs))
	}
	want := []string{"Anna", "Mia", "Zed"}
	for i, d := range docs {
		if d["display_name"] != want[i] {
			t.Fatalf("position %d: got %v, want %s", i, d["display_name"], want[i])
		}
		if id, _ := d["id"].(string); id == "" {
			t.Fatalf("document missing id: %v", d)
		}
	}
}

func testGetAll(t *testing.T, s ports.DocumentStore) {
	ctx := context.Background()
	ids := map[string]bool{}
	for _, status := range []string{"present", "absent"} {
		id, err := s.CreateDocument(ctx, domain.CollectionEvents, domain.Document{"title": status})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		ids[id] = true
	}

	docs, err := s.GetAll(ctx, domain.CollectionEvents)
	if err != nil {
		t.Fatalf("get all: %v", err)
	}
	if len(docs) != len(ids) {
		t.Fatalf("expected %d docs, got %d", len(ids), len(docs))
	}
	for _, d := range docs {
		if id, _ := d["id"].(string); !ids[id] {
			t.Fatalf("unexpected document %v", d)
		}
	}

	empty, err := s.GetAll(ctx, "never_written")
	if err != nil || len(empty) != 0 {
		t.Fatalf("empty collection: docs=%v err=%v", empty, err)
	}
}

func testGetMissing(t *testing.T, s ports.DocumentStore) {
	_, err := s.GetDocument(context.Background(), domain.CollectionUsers, "missing")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	var se *domain.StoreError
	if !errors.As(err, &se) || se.Kind != domain.StoreNotFound {
		t.Fatalf("expected not-found StoreError, got %v", err)
	}
}

func testUpdateMerges(t *testing.T, s ports.DocumentStore) {
	ctx := context.Background()
	id, err := s.CreateDocument(ctx, domain.CollectionUsers, domain.Document{"display_name": "Jane", "email": "jane@x.org"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := s.UpdateDocument(ctx, domain.CollectionUsers, id, domain.Document{"email": "j@x.org", "is_active": false}); err != nil {
		t.Fatalf("update: %v", err)
	}

	doc, err := s.GetDocument(ctx, domain.CollectionUsers, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if doc["display_name"] != "Jane" || doc["email"] != "j@x.org" || doc["is_active"] != false {
		t.Fatalf("unexpected doc after merge: %v", doc)
	}
	if doc["id"] != id {
		t.Fatalf("id changed by update: %v", doc["id"])
	}
}

func testUpdateMissing(t *testing.T, s ports.DocumentStore) {
	ctx := context.Background()
	err := s.UpdateDocument(ctx, domain.CollectionUsers, "missing", domain.Document{"email": "x"})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if docs, _ := s.GetAll(ctx, domain.CollectionUsers); len(docs) != 0 {
		t.Fatalf("failed update must not create a document: %v", docs)
	}
}

func testSetByKeyReplaces(t *testing.T, s ports.DocumentStore) {
	ctx := context.Background()
	key := domain.AttendanceKey("e7", "m42")
	if err := s.SetDocumentByKey(ctx, domain.CollectionAttendance, key, domain.Document{"status": "present", "note": "x"}); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := s.SetDocumentByKey(ctx, domain.CollectionAttendance, key, domain.Document{"status": "absent"}); err != nil {
		t.Fatalf("set again: %v", err)
	}

	docs, err := s.GetAll(ctx, domain.CollectionAttendance)
	if err != nil {
		t.Fatalf("get all: %v", err)
	}
	if len(docs) != 1 {
		t.Fatalf("expected one record per key, got %d", len(docs))
	}
	doc, err := s.GetDocument(ctx, domain.CollectionAttendance, key)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if doc["id"] != key || doc["status"] != "absent" {
		t.Fatalf("unexpected record: %v", doc)
	}
	if _, ok := doc["note"]; ok {
		t.Fatal("set must fully replace, stale field survived")
	}
}

func testTimesRoundTrip(t *testing.T, s ports.DocumentStore) {
	ctx := context.Background()
	at := time.Date(2026, 3, 1, 19, 30, 0, 0, time.UTC)
	key := domain.AttendanceKey("e1", "m1")
	rec := domain.AttendanceRecord{MemberID: "m1", EventID: "e1", Status: domain.StatusCalledIn, RecordedAt: at, RecordedBy: "sec"}

	doc, err := docmap.Encode(rec)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if err := s.SetDocumentByKey(ctx, domain.CollectionAttendance, key, doc); err != nil {
		t.Fatalf("set: %v", err)
	}
	stored, err := s.GetDocument(ctx, domain.CollectionAttendance, key)
	if err != nil {
		t.Fatalf("get: %v", err)
	}

	var got domain.AttendanceRecord
	if err := docmap.Decode(stored, &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.ID != key || got.Status != domain.StatusCalledIn || !got.RecordedAt.Equal(at) {
		t.Fatalf("record did not round-trip: %+v", got)
	}
}

func testReturnedCopies(t *testing.T, s ports.DocumentStore) {
	ctx := context.Background()
	id, err := s.CreateDocument(ctx, domain.CollectionUsers, domain.Document{"display_name": "v"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	doc, _ := s.GetDocument(ctx, domain.CollectionUsers, id)
	doc["display_name"] = "mutated"

	again, _ := s.GetDocument(ctx, domain.CollectionUsers, id)
	if again["display_name"] != "v" {
		t.Fatal("store state leaked through returned document")
	}
}

func testPing(t *testing.T, s ports.DocumentStore) {
	if err := s.Ping(context.Background()); err != nil {
		t.Fatalf("ping: %v", err)
	}
}
