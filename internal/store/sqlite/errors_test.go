package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/reelnotes/reelnotes-server/internal/store"
)

func TestClassify_NoRows(t *testing.T) {
	err := classify("get thing", sql.ErrNoRows)
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if !errors.Is(err, sql.ErrNoRows) {
		t.Error("cause should stay reachable")
	}
}

func TestClassify_Nil(t *testing.T) {
	if err := classify("noop", nil); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
}

func TestClassify_Unknown(t *testing.T) {
	cause := errors.New("disk on fire")
	err := classify("write", cause)
	if store.KindOf(err) != store.KindUnknown {
		t.Errorf("KindOf: got %v", store.KindOf(err))
	}
	if !errors.Is(err, cause) {
		t.Error("cause should stay reachable")
	}
}

func TestClassify_ContextCanceled(t *testing.T) {
	s := newTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.GetMovie(ctx, "mov-1")
	if err == nil {
		t.Fatal("expected error on canceled context")
	}
	if errors.Is(err, store.ErrNotFound) {
		t.Error("a canceled query is not a missing row")
	}
}

func TestClassify_NotNull(t *testing.T) {
	s := newTestStore(t)

	_, err := s.db.Exec(`INSERT INTO profiles (user_id, created_at, updated_at) VALUES ('u', NULL, 'x')`)
	err = classify("insert profile", err)

	var storeErr *store.Error
	if !errors.As(err, &storeErr) {
		t.Fatalf("expected *store.Error, got %T", err)
	}
	if storeErr.Constraint != store.ConstraintNotNull {
		t.Errorf("Constraint: got %q", storeErr.Constraint)
	}
	if storeErr.Target != "profiles.created_at" {
		t.Errorf("Target: got %q", storeErr.Target)
	}
}
