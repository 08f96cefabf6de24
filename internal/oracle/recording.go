package oracle

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
)

// Mode selects how Recording relates to its tape file.
type Mode string

const (
	ModeLive   Mode = "live"
	ModeRecord Mode = "record"
	ModeReplay Mode = "replay"
)

// tapeEntry is one JSONL line of the recording tape: the canonical
// prompt's fingerprint, the canonical prompt itself, the response text
// (or error message when !OK), and the OK flag (§4.F).
type tapeEntry struct {
	Hash     string `json:"hash"`
	Prompt   string `json:"prompt"`
	Response string `json:"response"`
	OK       bool   `json:"ok"`
}

// Recording wraps an inner Oracle to add record/replay behavior on top
// of live calls (§4.F): live forwards unchanged; record forwards then
// appends a tape line; replay never calls Inner, it answers from the
// tape, failing with a not-found message on a miss.
type Recording struct {
	Inner Oracle
	Mode  Mode
	Path  string
}

// NewRecording builds a Recording wrapper. For ModeReplay, Inner may be
// nil — it is never called.
func NewRecording(inner Oracle, mode Mode, path string) *Recording {
	return &Recording{Inner: inner, Mode: mode, Path: path}
}

func (r *Recording) CallText(ctx context.Context, prompt string) Response {
	canon := Canonicalize(prompt)
	hash := Fingerprint(canon)

	switch r.Mode {
	case ModeReplay:
		return r.replay(hash)
	case ModeRecord:
		resp := r.Inner.CallText(ctx, prompt)
		r.append(tapeEntry{Hash: hash, Prompt: canon, Response: tapeText(resp), OK: resp.OK})
		return resp
	default: // ModeLive and any unrecognized mode behave as live
		return r.Inner.CallText(ctx, prompt)
	}
}

func tapeText(r Response) string {
	if r.OK {
		return r.Text
	}
	return r.Err
}

func (r *Recording) append(entry tapeEntry) error {
	f, err := os.OpenFile(r.Path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(entry); err != nil {
		return err
	}
	_, err = f.Write(buf.Bytes())
	return err
}

func (r *Recording) replay(hash string) Response {
	f, err := os.Open(r.Path)
	if err != nil {
		return Response{OK: false, Err: fmt.Sprintf("replay tape %q not found: %s", r.Path, err)}
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}
		var entry tapeEntry
		if err := json.Unmarshal(line, &entry); err != nil {
			continue
		}
		if entry.Hash == hash {
			if entry.OK {
				return Response{OK: true, Text: entry.Response}
			}
			return Response{OK: false, Err: entry.Response}
		}
	}
	return Response{OK: false, Err: fmt.Sprintf("no recorded response for prompt hash %s", hash)}
}
