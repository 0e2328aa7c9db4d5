package fetch

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/glucowatch/glucowatch/internal/config"
)

func testLink(candidates []config.Candidate, join JoinFunc, probe ProbeFunc) *WirelessLink {
	return &WirelessLink{
		candidates:     candidates,
		attemptTimeout: time.Second,
		join:           join,
		probe:          probe,
	}
}

func TestReestablish_FirstSuccessWins(t *testing.T) {
	candidates := []config.Candidate{
		{Name: "home", JoinCommand: "true"},
		{Name: "hotspot", JoinCommand: "true"},
	}

	var joined []string
	up := false
	l := testLink(candidates,
		func(_ context.Context, c config.Candidate) error {
			joined = append(joined, c.Name)
			if c.Name == "home" {
				up = true
				return nil
			}
			return errors.New("unreachable")
		},
		func(context.Context) bool { return up },
	)

	if err := l.Reestablish(context.Background()); err != nil {
		t.Fatalf("Reestablish() unexpected error: %v", err)
	}
	if len(joined) != 1 || joined[0] != "home" {
		t.Errorf("join attempts: got %v, want [home] — later candidates must not be tried", joined)
	}
}

func TestReestablish_FallsThroughToLaterCandidate(t *testing.T) {
	candidates := []config.Candidate{
		{Name: "home", JoinCommand: "true"},
		{Name: "hotspot", JoinCommand: "true"},
	}

	var joined []string
	l := testLink(candidates,
		func(_ context.Context, c config.Candidate) error {
			joined = append(joined, c.Name)
			if c.Name == "hotspot" {
				return nil
			}
			return errors.New("association failed")
		},
		func(context.Context) bool { return len(joined) == 2 },
	)

	if err := l.Reestablish(context.Background()); err != nil {
		t.Fatalf("Reestablish() unexpected error: %v", err)
	}
	if len(joined) != 2 || joined[1] != "hotspot" {
		t.Errorf("join attempts: got %v, want [home hotspot]", joined)
	}
}

func TestReestablish_AllCandidatesFail(t *testing.T) {
	candidates := []config.Candidate{
		{Name: "home", JoinCommand: "true"},
		{Name: "hotspot", JoinCommand: "true"},
	}

	l := testLink(candidates,
		func(context.Context, config.Candidate) error { return errors.New("no signal") },
		func(context.Context) bool { return false },
	)

	if err := l.Reestablish(context.Background()); !errors.Is(err, ErrLinkDown) {
		t.Errorf("got %v, want ErrLinkDown", err)
	}
}

func TestReestablish_NoCandidates(t *testing.T) {
	l := testLink(nil, nil, func(context.Context) bool { return false })
	if err := l.Reestablish(context.Background()); !errors.Is(err, ErrLinkDown) {
		t.Errorf("got %v, want ErrLinkDown", err)
	}
}

func TestReestablish_JoinSucceedsButProbeStillDown(t *testing.T) {
	candidates := []config.Candidate{{Name: "home", JoinCommand: "true"}}
	l := testLink(candidates,
		func(context.Context, config.Candidate) error { return nil },
		func(context.Context) bool { return false },
	)
	if err := l.Reestablish(context.Background()); !errors.Is(err, ErrLinkDown) {
		t.Errorf("got %v, want ErrLinkDown — joining is not enough, the probe must pass", err)
	}
}

func TestReestablish_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	candidates := []config.Candidate{{Name: "home", JoinCommand: "true"}}
	l := testLink(candidates,
		func(context.Context, config.Candidate) error { return nil },
		func(context.Context) bool { return true },
	)
	if err := l.Reestablish(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("got %v, want context.Canceled", err)
	}
}

func TestUp_EmptyProbeAddressAlwaysUp(t *testing.T) {
	l := NewWirelessLink(config.LinkConfig{AttemptTimeout: time.Second}, "")
	if !l.Up(context.Background()) {
		t.Error("empty probe address must report up")
	}
}
