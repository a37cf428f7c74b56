package rate

import (
	"context"
	"testing"
	"time"
)

func TestMemoryLimiterFixedWindow(t *testing.T) {
	l := NewMemoryLimiter(3, time.Minute)
	now := time.Date(2026, 3, 1, 10, 0, 10, 0, time.UTC)
	l.now = func() time.Time { return now }

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		res, err := l.Allow(ctx, "1.2.3.4")
		if err != nil {
			t.Fatalf("allow #%d: %v", i, err)
		}
		if !res.Allowed {
			t.Fatalf("hit %d must be allowed", i+1)
		}
	}

	res, _ := l.Allow(ctx, "1.2.3.4")
	if res.Allowed {
		t.Fatal("fourth hit must be limited")
	}
	if res.RetryAfter <= 0 {
		t.Fatalf("retry-after = %v", res.RetryAfter)
	}

	// Otra key no comparte ventana.
	other, _ := l.Allow(ctx, "5.6.7.8")
	if !other.Allowed {
		t.Fatal("different key must not be limited")
	}

	// Nueva ventana resetea el contador.
	now = now.Add(time.Minute)
	res, _ = l.Allow(ctx, "1.2.3.4")
	if !res.Allowed {
		t.Fatal("new window must reset the count")
	}
}
