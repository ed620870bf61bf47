package auth

import (
	"errors"
	"testing"
	"time"
)

func TestJWTManager(t *testing.T) {
	m := NewJWTManager("test-secret-key-with-32-bytes!!!", time.Hour)

	t.Run("round trip preserves identity", func(t *testing.T) {
		want := Identity{UID: "u1", Name: "mario rossi", PhotoURL: "https://example.com/p.png"}
		token, err := m.Generate(want)
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}

		got, err := m.Verify(token)
		if err != nil {
			t.Fatalf("Verify failed: %v", err)
		}
		if got != want {
			t.Errorf("identity = %+v, want %+v", got, want)
		}
	})

	t.Run("wrong secret rejected", func(t *testing.T) {
		token, err := NewJWTManager("another-secret", time.Hour).Generate(Identity{UID: "u1"})
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}
		if _, err := m.Verify(token); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("err = %v, want ErrInvalidToken", err)
		}
	})

	t.Run("expired token rejected", func(t *testing.T) {
		token, err := NewJWTManager("test-secret-key-with-32-bytes!!!", -time.Minute).Generate(Identity{UID: "u1"})
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}
		if _, err := m.Verify(token); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("err = %v, want ErrInvalidToken", err)
		}
	})

	t.Run("empty uid cannot be signed", func(t *testing.T) {
		if _, err := m.Generate(Identity{Name: "nobody"}); err == nil {
			t.Error("expected error for identity without uid")
		}
	})

	t.Run("garbage rejected", func(t *testing.T) {
		if _, err := m.Verify("not-a-token"); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("err = %v, want ErrInvalidToken", err)
		}
	})
}
