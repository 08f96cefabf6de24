package oracle

import (
	"context"
	"path/filepath"
	"testing"
)

func TestRecordingLiveForwardsUnchanged(t *testing.T) {
	inner := NewMock(Response{OK: true, Text: "from inner"})
	r := NewRecording(inner, ModeLive, "")
	got := r.CallText(context.Background(), "hello")
	if !got.OK || got.Text != "from inner" {
		t.Fatalf("got %+v, want forwarded inner response", got)
	}
}

func TestRecordingRecordThenReplay(t *testing.T) {
	dir := t.TempDir()
	tape := filepath.Join(dir, "tape.jsonl")

	inner := NewMock(Response{OK: true, Text: "the answer is 42"})
	recorder := NewRecording(inner, ModeRecord, tape)

	prompt := "what is the answer?"
	recorded := recorder.CallText(context.Background(), prompt)
	if !recorded.OK || recorded.Text != "the answer is 42" {
		t.Fatalf("record-mode call = %+v", recorded)
	}

	replayer := NewRecording(nil, ModeReplay, tape)
	replayed := replayer.CallText(context.Background(), prompt)
	if !replayed.OK || replayed.Text != "the answer is 42" {
		t.Fatalf("replay-mode call = %+v, want the recorded response", replayed)
	}
}

func TestRecordingReplayMissFails(t *testing.T) {
	dir := t.TempDir()
	tape := filepath.Join(dir, "tape.jsonl")

	inner := NewMock(Response{OK: true, Text: "recorded"})
	recorder := NewRecording(inner, ModeRecord, tape)
	recorder.CallText(context.Background(), "recorded prompt")

	replayer := NewRecording(nil, ModeReplay, tape)
	got := replayer.CallText(context.Background(), "a completely different prompt")
	if got.OK {
		t.Fatalf("expected replay miss to fail, got %+v", got)
	}
}

func TestRecordingReplayMissingTapeFileFails(t *testing.T) {
	replayer := NewRecording(nil, ModeReplay, filepath.Join(t.TempDir(), "nonexistent.jsonl"))
	got := replayer.CallText(context.Background(), "anything")
	if got.OK {
		t.Fatal("expected failure when tape file does not exist")
	}
}

func TestRecordingRecordsFailureResponses(t *testing.T) {
	dir := t.TempDir()
	tape := filepath.Join(dir, "tape.jsonl")

	inner := NewMock(Response{OK: false, Err: "oracle refused"})
	recorder := NewRecording(inner, ModeRecord, tape)
	recorder.CallText(context.Background(), "bad prompt")

	replayer := NewRecording(nil, ModeReplay, tape)
	got := replayer.CallText(context.Background(), "bad prompt")
	if got.OK {
		t.Fatalf("expected replayed failure, got %+v", got)
	}
	if got.Err != "oracle refused" {
		t.Fatalf("got Err=%q, want %q", got.Err, "oracle refused")
	}
}
