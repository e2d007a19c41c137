package graph

import "testing"

func TestJoinCounterDecrementReachesZeroExactlyOnce(t *testing.T) {
	jc := NewJoinCounter(3)

	if got := jc.Decrement(); got != 2 {
		t.Fatalf("first decrement: got %d, want 2", got)
	}
	if got := jc.Decrement(); got != 1 {
		t.Fatalf("second decrement: got %d, want 1", got)
	}
	if got := jc.Decrement(); got != 0 {
		t.Fatalf("third decrement: got %d, want 0", got)
	}
}

func TestJoinCounterIncrementGrowsParticipantCount(t *testing.T) {
	jc := NewJoinCounter(2)
	jc.Increment()

	if got := jc.Decrement(); got != 2 {
		t.Fatalf("got %d, want 2", got)
	}
	if got := jc.Decrement(); got != 1 {
		t.Fatalf("got %d, want 1", got)
	}
	if got := jc.Decrement(); got != 0 {
		t.Fatalf("got %d, want 0", got)
	}
}
