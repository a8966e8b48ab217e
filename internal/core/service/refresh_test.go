package service

import (
	"context"
	"testing"

	"github.com/rs/zerolog"

	"github.com/lodgeroll/membership/internal/core/domain"
	"github.com/lodgeroll/membership/internal/pkg/docmap"
)

// failingQueryStore fails collection queries for one collection only.
type failingQueryStore struct {
	*stubStore
	collection string
}

func (s *failingQueryStore) QueryCollection(ctx context.Context, collection, orderBy string) ([]domain.Document, error) {
	if collection == s.collection {
		return nil, domain.NewStoreError("query", collection, domain.StoreNetwork, errUnreachable)
	}
	return s.stubStore.QueryCollection(ctx, collection, orderBy)
}

func seedEvents(t *testing.T, store *stubStore, events ...domain.Event) {
	t.Helper()
	for _, e := range events {
		doc, err := docmap.Encode(e)
		if err != nil {
			t.Fatalf("encode event: %v", err)
		}
		if err := store.Store.SetDocumentByKey(context.Background(), domain.CollectionEvents, e.ID, doc); err != nil {
			t.Fatalf("seed event: %v", err)
		}
	}
}

func TestEventCatalog_LoadAllOrderedByDate(t *testing.T) {
	store := newStubStore()
	seedEvents(t, store,
		domain.Event{ID: "e2", Title: "Installation", Date: "2026-04-02"},
		domain.Event{ID: "e1", Title: "Stated Meeting", Date: "2026-03-05", Time: "19:30", Type: "meeting"},
	)

	catalog := NewEventCatalog(store, zerolog.Nop())
	events, err := catalog.LoadAll(context.Background())
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	if len(events) != 2 || events[0].ID != "e1" || events[1].ID != "e2" {
		t.Fatalf("unexpected order: %+v", events)
	}
	if events[0].Time != "19:30" || events[0].Type != "meeting" {
		t.Fatalf("fields not decoded: %+v", events[0])
	}

	store.setFailing(true)
	if kept, err := catalog.LoadAll(context.Background()); err == nil || len(kept) != 2 {
		t.Fatalf("expected error with cached list, got %d events err=%v", len(kept), err)
	}
}

func TestRefresher_OneFailureDoesNotCancelOthers(t *testing.T) {
	base := newStubStore()
	seedEvents(t, base, domain.Event{ID: "e1", Title: "Meeting", Date: "2026-03-05"})
	store := &failingQueryStore{stubStore: base, collection: domain.CollectionUsers}

	directory := NewDirectoryService(store, zerolog.Nop())
	catalog := NewEventCatalog(store, zerolog.Nop())
	ledger := NewAttendanceLedger(store, zerolog.Nop())

	res := NewRefresher(directory, catalog, ledger, zerolog.Nop()).Refresh(context.Background())

	if res.MembersErr == nil {
		t.Fatalf("expected members load to fail")
	}
	if res.EventsErr != nil || res.Events != 1 {
		t.Fatalf("events load should complete, got %d err=%v", res.Events, res.EventsErr)
	}
	if !res.Attendance {
		t.Fatalf("attendance load should complete, got %v", res.LoadErr)
	}
	if res.Err() == nil {
		t.Fatalf("expected aggregated error")
	}
	if got := catalog.Events(); len(got) != 1 {
		t.Fatalf("events cache not populated: %+v", got)
	}
}
