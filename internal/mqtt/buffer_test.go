package mqtt

import (
	"fmt"
	"testing"
)

func TestRingBufferPushDrain(t *testing.T) {
	r := newRingBuffer(4)

	for i := 0; i < 3; i++ {
		r.push(bufferedMsg{topic: TopicRecords, payload: []byte(fmt.Sprintf("m%d", i))})
	}
	if r.len() != 3 {
		t.Errorf("len: got %d, want 3", r.len())
	}

	msgs := r.drainAll()
	if len(msgs) != 3 {
		t.Fatalf("drained: got %d, want 3", len(msgs))
	}
	for i, m := range msgs {
		want := fmt.Sprintf("m%d", i)
		if string(m.payload) != want {
			t.Errorf("msg %d: got %q, want %q (order must be oldest first)", i, m.payload, want)
		}
	}
	if r.len() != 0 {
		t.Errorf("len after drain: got %d, want 0", r.len())
	}
}

func TestRingBufferOverflowDropsOldest(t *testing.T) {
	r := newRingBuffer(3)

	for i := 0; i < 5; i++ {
		r.push(bufferedMsg{payload: []byte(fmt.Sprintf("m%d", i))})
	}
	if r.len() != 3 {
		t.Errorf("len: got %d, want capacity 3", r.len())
	}

	msgs := r.drainAll()
	want := []string{"m2", "m3", "m4"}
	if len(msgs) != len(want) {
		t.Fatalf("drained: got %d, want %d", len(msgs), len(want))
	}
	for i, w := range want {
		if string(msgs[i].payload) != w {
			t.Errorf("msg %d: got %q, want %q", i, msgs[i].payload, w)
		}
	}
}

func TestRingBufferDrainEmpty(t *testing.T) {
	r := newRingBuffer(2)
	if msgs := r.drainAll(); msgs != nil {
		t.Errorf("empty drain: got %v, want nil", msgs)
	}
}

func TestRingBufferReuseAfterDrain(t *testing.T) {
	r := newRingBuffer(2)
	r.push(bufferedMsg{payload: []byte("a")})
	r.drainAll()

	r.push(bufferedMsg{payload: []byte("b")})
	msgs := r.drainAll()
	if len(msgs) != 1 || string(msgs[0].payload) != "b" {
		t.Errorf("after reuse: got %v", msgs)
	}
}

func TestRingBufferPreservesAttributes(t *testing.T) {
	r := newRingBuffer(2)
	r.push(bufferedMsg{topic: TopicSystem, payload: []byte("x"), qos: 1, retained: true})

	msgs := r.drainAll()
	if len(msgs) != 1 {
		t.Fatalf("drained: got %d, want 1", len(msgs))
	}
	m := msgs[0]
	if m.topic != TopicSystem || m.qos != 1 || !m.retained {
		t.Errorf("attributes lost: %+v", m)
	}
}
