package id

import (
	"testing"

	"github.com/oklog/ulid/v2"
)

func TestNew(t *testing.T) {
	t.Parallel()

	seen := make(map[string]bool)
	prev := ""
	for i := 0; i < 1000; i++ {
		s := New()
		if _, err := ulid.Parse(s); err != nil {
			t.Fatalf("invalid ulid %q: %v", s, err)
		}
		if seen[s] {
			t.Fatalf("duplicate id %q", s)
		}
		seen[s] = true

		// Ids generated in sequence sort in generation order.
		if s <= prev {
			t.Fatalf("id %q not greater than %q", s, prev)
		}
		prev = s
	}
}
