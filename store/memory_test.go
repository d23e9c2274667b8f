package store

import (
	"context"
	"testing"

	"github.com/mycontent/recserve/core"
)

func TestMemoryStore_GetSet(t *testing.T) {
	s := NewMemoryStore()
	defer s.Close()
	ctx := context.Background()

	if _, err := s.Get(ctx, "missing"); !core.IsStoreNotFound(err) {
		t.Errorf("expected not found, got %v", err)
	}

	if err := s.Set(ctx, "k", []byte("v")); err != nil {
		t.Fatal(err)
	}
	got, err := s.Get(ctx, "k")
	if err != nil || string(got) != "v" {
		t.Errorf("got %q, %v", got, err)
	}

	if err := s.Delete(ctx, "k"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Get(ctx, "k"); !core.IsStoreNotFound(err) {
		t.Errorf("deleted key should be gone, got %v", err)
	}
}

func TestMemoryStore_ZSet(t *testing.T) {
	s := NewMemoryStore()
	defer s.Close()
	ctx := context.Background()

	s.ZAdd(ctx, "popular", 3, "30")
	s.ZAdd(ctx, "popular", 5, "10")
	s.ZAdd(ctx, "popular", 4, "20")

	members, err := s.ZRange(ctx, "popular", 0, -1)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"10", "20", "30"}
	for i := range want {
		if members[i] != want[i] {
			t.Errorf("rank %d = %s, want %s", i, members[i], want[i])
		}
	}

	score, err := s.ZScore(ctx, "popular", "10")
	if err != nil || score != 5 {
		t.Errorf("score = %v, %v", score, err)
	}
	if _, err := s.ZScore(ctx, "popular", "99"); !core.IsStoreNotFound(err) {
		t.Errorf("missing member: %v", err)
	}
}

func TestMemoryStore_Hash(t *testing.T) {
	s := NewMemoryStore()
	defer s.Close()
	ctx := context.Background()

	s.HSet(ctx, "article:meta:10", "meta", []byte(`{"category_id":281}`))
	got, err := s.HGet(ctx, "article:meta:10", "meta")
	if err != nil || string(got) != `{"category_id":281}` {
		t.Errorf("got %q, %v", got, err)
	}

	all, err := s.HGetAll(ctx, "article:meta:10")
	if err != nil || len(all) != 1 {
		t.Errorf("hgetall = %v, %v", all, err)
	}

	if _, err := s.HGet(ctx, "article:meta:10", "nope"); !core.IsStoreNotFound(err) {
		t.Errorf("missing field: %v", err)
	}
}

func TestMemoryStore_Batch(t *testing.T) {
	s := NewMemoryStore()
	defer s.Close()
	ctx := context.Background()

	err := s.BatchSet(ctx, map[string][]byte{"a": []byte("1"), "b": []byte("2")})
	if err != nil {
		t.Fatal(err)
	}
	got, err := s.BatchGet(ctx, []string{"a", "b", "c"})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || string(got["a"]) != "1" {
		t.Errorf("batch get = %v", got)
	}
}
