package registry

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestRegistry(t *testing.T) (*Registry, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis run failed: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return New(client), mr
}

func TestSaveAndMatches(t *testing.T) {
	reg, _ := newTestRegistry(t)
	ctx := context.Background()

	if err := reg.Save(ctx, "tomdoe", "token-a", time.Hour); err != nil {
		t.Fatalf("save: %v", err)
	}

	match, err := reg.Matches(ctx, "tomdoe", "token-a")
	if err != nil || !match {
		t.Fatalf("Matches = %v, %v, want true, nil", match, err)
	}

	match, err = reg.Matches(ctx, "tomdoe", "token-b")
	if err != nil || match {
		t.Fatalf("Matches with other token = %v, %v, want false, nil", match, err)
	}
}

func TestMatchesMissingEntry(t *testing.T) {
	reg, _ := newTestRegistry(t)

	match, err := reg.Matches(context.Background(), "nobody", "token")
	if err != nil {
		t.Fatalf("missing entry should not error: %v", err)
	}
	if match {
		t.Fatal("missing entry reported as match")
	}
}

func TestSaveOverwrites(t *testing.T) {
	reg, _ := newTestRegistry(t)
	ctx := context.Background()

	if err := reg.Save(ctx, "tomdoe", "first", time.Hour); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := reg.Save(ctx, "tomdoe", "second", time.Hour); err != nil {
		t.Fatalf("save: %v", err)
	}

	if match, _ := reg.Matches(ctx, "tomdoe", "first"); match {
		t.Error("superseded token still matches")
	}
	if match, _ := reg.Matches(ctx, "tomdoe", "second"); !match {
		t.Error("latest token does not match")
	}
}

func TestDelete(t *testing.T) {
	reg, _ := newTestRegistry(t)
	ctx := context.Background()

	if err := reg.Save(ctx, "tomdoe", "token", time.Hour); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := reg.Delete(ctx, "tomdoe"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if match, _ := reg.Matches(ctx, "tomdoe", "token"); match {
		t.Error("deleted entry still matches")
	}

	// deleting again is a no-op
	if err := reg.Delete(ctx, "tomdoe"); err != nil {
		t.Fatalf("second delete: %v", err)
	}
}

func TestEntryExpires(t *testing.T) {
	reg, mr := newTestRegistry(t)
	ctx := context.Background()

	if err := reg.Save(ctx, "tomdoe", "token", time.Minute); err != nil {
		t.Fatalf("save: %v", err)
	}

	mr.FastForward(2 * time.Minute)

	if match, _ := reg.Matches(ctx, "tomdoe", "token"); match {
		t.Error("entry survived its TTL")
	}
}
