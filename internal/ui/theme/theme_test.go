package theme

import (
	"strings"
	"testing"
)

func TestStateBadge(t *testing.T) {
	for _, state := range []string{"waiting", "intro", "questioning", "unknown"} {
		if got := StateBadge(state); !strings.Contains(got, "["+state+"]") {
			t.Errorf("StateBadge(%q) = %q", state, got)
		}
	}
}

func TestScore(t *testing.T) {
	for _, score := range []int{0, 45, 65, 95} {
		if got := Score(score); !strings.Contains(got, "/100") {
			t.Errorf("Score(%d) = %q", score, got)
		}
	}
}
