package oracle

import (
	"context"
	"testing"
)

func TestMockDequeuesInOrder(t *testing.T) {
	m := NewMock(
		Response{OK: true, Text: "first"},
		Response{OK: true, Text: "second"},
	)
	ctx := context.Background()

	got := m.CallText(ctx, "anything")
	if !got.OK || got.Text != "first" {
		t.Fatalf("first call = %+v, want Text=first", got)
	}
	got = m.CallText(ctx, "anything")
	if !got.OK || got.Text != "second" {
		t.Fatalf("second call = %+v, want Text=second", got)
	}
}

func TestMockExhaustionFails(t *testing.T) {
	m := NewMock(Response{OK: true, Text: "only"})
	ctx := context.Background()

	m.CallText(ctx, "p")
	got := m.CallText(ctx, "p")
	if got.OK {
		t.Fatalf("expected failure after exhaustion, got %+v", got)
	}
	if got.Err == "" {
		t.Fatal("expected non-empty Err on exhaustion")
	}
}

func TestMockWithNoResponsesFailsImmediately(t *testing.T) {
	m := NewMock()
	got := m.CallText(context.Background(), "p")
	if got.OK {
		t.Fatal("expected empty mock to fail")
	}
}
