package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/lodgeroll/membership/internal/core/domain"
	"github.com/lodgeroll/membership/internal/core/ports"
	"github.com/lodgeroll/membership/internal/infrastructure/db/storetest"
)

func TestStore_Contract(t *testing.T) {
	storetest.Run(t, func(t *testing.T) ports.DocumentStore {
		srv := miniredis.RunT(t)
		s, err := Open(context.Background(), Config{Addr: srv.Addr()})
		if err != nil {
			t.Fatalf("open: %v", err)
		}
		t.Cleanup(func() { _ = s.Close(context.Background()) })
		return s
	})
}

func TestStore_DocumentsLiveInOneHashPerCollection(t *testing.T) {
	srv := miniredis.RunT(t)
	s, err := Open(context.Background(), Config{Addr: srv.Addr()})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer s.Close(context.Background())

	key := domain.AttendanceKey("e7", "m42")
	if err := s.SetDocumentByKey(context.Background(), domain.CollectionAttendance, key, domain.Document{"status": "present"}); err != nil {
		t.Fatalf("set: %v", err)
	}
	fields, err := srv.HKeys("lodge:doc:attendance")
	if err != nil {
		t.Fatalf("hkeys: %v", err)
	}
	if len(fields) != 1 || fields[0] != key {
		t.Fatalf("unexpected hash fields: %v", fields)
	}
}

func TestOpen_UnreachableIsNetworkError(t *testing.T) {
	srv := miniredis.RunT(t)
	addr := srv.Addr()
	srv.Close()

	_, err := Open(context.Background(), Config{Addr: addr, Timeout: 200 * time.Millisecond})
	var se *domain.StoreError
	if !errors.As(err, &se) || se.Kind != domain.StoreNetwork {
		t.Fatalf("expected network StoreError, got %v", err)
	}
}

func TestStoreError_Classification(t *testing.T) {
	cases := []struct {
		err  error
		kind domain.StoreErrorKind
	}{
		{redis.Nil, domain.StoreNotFound},
		{errors.New("NOPERM this user has no permissions to run the 'hset' command"), domain.StorePermissionDenied},
		{errors.New("WRONGPASS invalid username-password pair"), domain.StorePermissionDenied},
		{errors.New("dial tcp 127.0.0.1:6379: connect: connection refused"), domain.StoreNetwork},
	}
	for _, c := range cases {
		var se *domain.StoreError
		if !errors.As(storeError("get", domain.CollectionUsers, c.err), &se) {
			t.Fatalf("expected StoreError for %v", c.err)
		}
		if se.Kind != c.kind {
			t.Errorf("%v: got kind %s, want %s", c.err, se.Kind, c.kind)
		}
	}
}

func TestStore_KeyPerCollection(t *testing.T) {
	s := NewStore(nil)
	if got := s.key(domain.CollectionAttendance); got != "lodge:doc:attendance" {
		t.Fatalf("unexpected key %q", got)
	}
}
