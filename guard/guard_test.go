package guard

import (
	"context"
	"testing"

	"github.com/leadconsole/leadconsole/credentials"
)

func TestGuardWithoutSession(t *testing.T) {
	ctx := context.Background()
	g := New(credentials.NewMemoryStore(), "/", "/dashboard")

	d, err := g.Guest(ctx)
	if err != nil {
		t.Fatalf("guest: %v", err)
	}
	if !d.Allow {
		t.Fatalf("guest route should allow, got %+v", d)
	}

	d, err = g.Protected(ctx)
	if err != nil {
		t.Fatalf("protected: %v", err)
	}
	if d.Allow || d.RedirectTo != "/" {
		t.Fatalf("protected route should redirect to entry, got %+v", d)
	}
}

func TestGuardWithSession(t *testing.T) {
	ctx := context.Background()
	store := credentials.NewMemoryStore()
	if err := store.Set(ctx, "tok"); err != nil {
		t.Fatalf("seed store: %v", err)
	}
	g := New(store, "/", "/dashboard")

	d, err := g.Guest(ctx)
	if err != nil {
		t.Fatalf("guest: %v", err)
	}
	if d.Allow || d.RedirectTo != "/dashboard" {
		t.Fatalf("guest route should bounce to dashboard, got %+v", d)
	}

	d, err = g.Protected(ctx)
	if err != nil {
		t.Fatalf("protected: %v", err)
	}
	if !d.Allow {
		t.Fatalf("protected route should allow, got %+v", d)
	}
}

func TestGuardDefaultPaths(t *testing.T) {
	g := New(credentials.NewMemoryStore(), "", "")
	d, err := g.Protected(context.Background())
	if err != nil {
		t.Fatalf("protected: %v", err)
	}
	if d.RedirectTo != "/" {
		t.Fatalf("redirect = %q, want /", d.RedirectTo)
	}
}
