package trigger

import "testing"

func TestPollConsumesEdge(t *testing.T) {
	var l Latch

	if l.Poll() {
		t.Error("new latch should not be armed")
	}

	l.Request()
	if !l.Poll() {
		t.Error("expected armed latch after Request")
	}
	if l.Poll() {
		t.Error("poll should consume the edge")
	}
}

func TestRepeatedRequestsCollapse(t *testing.T) {
	var l Latch
	l.Request()
	l.Request()
	l.Request()

	if !l.Poll() {
		t.Error("expected armed latch")
	}
	if l.Poll() {
		t.Error("repeated requests should collapse into one edge")
	}
}

func TestPendingDoesNotConsume(t *testing.T) {
	var l Latch
	l.Request()

	if !l.Pending() {
		t.Error("expected pending request")
	}
	if !l.Pending() {
		t.Error("Pending should not consume the edge")
	}
	if !l.Poll() {
		t.Error("edge should still be available to Poll")
	}
}
