// File: pth/ring_test.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Property-based tests for the circular event ring.

package pth

import (
	"math/rand"
	"testing"
	"time"
)

// walkRing collects the members of the ring containing ev, verifying the
// back links along the way.
func walkRing(t *testing.T, ev *Event) map[*Event]bool {
	t.Helper()
	seen := make(map[*Event]bool)
	r := ev
	for {
		if r.prev.next != r || r.next.prev != r {
			t.Fatalf("broken ring links at %p", r)
		}
		if seen[r] {
			t.Fatalf("ring revisits %p before closing", r)
		}
		seen[r] = true
		r = r.next
		if r == ev {
			return seen
		}
	}
}

func TestRingConcatIsolateProperty(t *testing.T) {
	c := newTestContext(t)
	rng := rand.New(rand.NewSource(1))

	for trial := 0; trial < 100; trial++ {
		n := 1 + rng.Intn(12)
		evs := make([]*Event, n)
		for i := range evs {
			ev, err := c.NewTimeEvent(time.Hour, 0)
			if err != nil {
				t.Fatalf("event %d: %v", i, err)
			}
			evs[i] = ev
		}

		// Splice one at a time or in one call, chosen at random.
		ring := evs[0]
		if rng.Intn(2) == 0 {
			for _, ev := range evs[1:] {
				Concat(ring, ev)
			}
		} else {
			Concat(ring, evs[1:]...)
		}

		if got := ringCount(ring); got != n {
			t.Fatalf("trial %d: ring has %d members, want %d", trial, got, n)
		}
		seen := walkRing(t, ring)
		for i, ev := range evs {
			if !seen[ev] {
				t.Fatalf("trial %d: event %d missing from ring", trial, i)
			}
		}

		// Isolate members in random order; the remainder must stay a
		// well-formed ring that shrinks by exactly one each time.
		remaining := n
		for _, idx := range rng.Perm(n) {
			rest := evs[idx].Isolate()
			remaining--
			if evs[idx].next != evs[idx] || evs[idx].prev != evs[idx] {
				t.Fatalf("isolated event is not a singleton ring")
			}
			if remaining == 0 {
				if rest != nil {
					t.Fatalf("isolating the last member returned a remainder")
				}
			} else {
				if rest == nil {
					t.Fatalf("remainder lost with %d members left", remaining)
				}
				if got := ringCount(rest); got != remaining {
					t.Fatalf("remainder has %d members, want %d", got, remaining)
				}
				walkRing(t, rest)
			}
			c.FreeEvent(evs[idx], FreeThis)
		}
	}
}

func TestConcatTwoMultiMemberRings(t *testing.T) {
	c := newTestContext(t)

	mk := func(n int) []*Event {
		evs := make([]*Event, n)
		for i := range evs {
			ev, err := c.NewTimeEvent(time.Hour, 0)
			if err != nil {
				t.Fatalf("event: %v", err)
			}
			evs[i] = ev
			if i > 0 {
				Concat(evs[0], ev)
			}
		}
		return evs
	}

	a := mk(3)
	b := mk(4)
	Concat(a[0], b[0])

	if got := ringCount(a[0]); got != 7 {
		t.Fatalf("merged ring has %d members, want 7", got)
	}
	seen := walkRing(t, a[0])
	for _, ev := range append(a, b...) {
		if !seen[ev] {
			t.Fatal("merged ring lost a member")
		}
	}
	c.FreeEvent(a[0], FreeAll)
}

func TestConcatNilArgs(t *testing.T) {
	c := newTestContext(t)

	if Concat(nil) != nil {
		t.Fatal("nil head must yield nil")
	}
	ev, err := c.NewTimeEvent(time.Hour, 0)
	if err != nil {
		t.Fatalf("event: %v", err)
	}
	if Concat(ev, nil, nil) != ev {
		t.Fatal("nil rings must be skipped")
	}
	if got := ringCount(ev); got != 1 {
		t.Fatalf("ring has %d members, want 1", got)
	}
	c.FreeEvent(ev, FreeAll)
}

func TestIsolateSingleton(t *testing.T) {
	c := newTestContext(t)
	ev, err := c.NewTimeEvent(time.Hour, 0)
	if err != nil {
		t.Fatalf("event: %v", err)
	}
	if ev.Isolate() != nil {
		t.Fatal("isolating a singleton must return nil")
	}
	if (*Event)(nil).Isolate() != nil {
		t.Fatal("isolating nil must return nil")
	}
	c.FreeEvent(ev, FreeAll)
}
