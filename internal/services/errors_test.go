package services_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"comicvault/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("disk full")
	err := services.Wrap(services.ErrPersistence, "identify", "commit", "batch commit failed", base)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrPersistence) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"identify", "commit", "batch commit failed"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestWrapDefaultsToTransient(t *testing.T) {
	err := services.Wrap(nil, "", "", "", nil)
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected transient marker, got %v", err)
	}
	if !strings.Contains(err.Error(), "service failure") {
		t.Fatalf("expected fallback detail, got %q", err.Error())
	}
}

func TestIsFatal(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"persistence", services.Wrap(services.ErrPersistence, "scan", "insert", "", errors.New("locked")), true},
		{"configuration", services.Wrap(services.ErrConfiguration, "identify", "", "missing key", nil), true},
		{"canceled", fmt.Errorf("run: %w", context.Canceled), true},
		{"transient", services.Wrap(services.ErrTransient, "identify", "search", "", errors.New("reset")), false},
		{"not found", services.ErrNotFound, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := services.IsFatal(tc.err); got != tc.want {
				t.Fatalf("IsFatal(%v) = %v, want %v", tc.err, got, tc.want)
			}
		})
	}
}

func TestHint(t *testing.T) {
	if hint := services.Hint(services.Wrap(services.ErrPersistence, "", "", "x", nil)); !strings.Contains(hint, "rerun") {
		t.Fatalf("unexpected persistence hint %q", hint)
	}
	if hint := services.Hint(errors.New("plain")); hint != "" {
		t.Fatalf("expected empty hint, got %q", hint)
	}
}
