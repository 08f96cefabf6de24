package oracle

import "testing"

func TestCanonicalizeCollapsesWhitespace(t *testing.T) {
	got := Canonicalize("  hello\t\tworld\n\nfoo  ")
	want := "hello world foo"
	if got != want {
		t.Fatalf("Canonicalize() = %q, want %q", got, want)
	}
}

func TestCanonicalizeStripsCarriageReturns(t *testing.T) {
	got := Canonicalize("hello\r\nworld\r")
	want := "hello world"
	if got != want {
		t.Fatalf("Canonicalize() = %q, want %q", got, want)
	}
}

func TestCanonicalizeIsIdempotent(t *testing.T) {
	p := "  weird   \t spacing \n here "
	once := Canonicalize(p)
	twice := Canonicalize(once)
	if once != twice {
		t.Fatalf("Canonicalize not idempotent: %q != %q", once, twice)
	}
}

func TestFingerprintIsStableAndHex(t *testing.T) {
	a := Fingerprint(Canonicalize("hello world"))
	b := Fingerprint(Canonicalize("hello   world"))
	if a != b {
		t.Fatalf("expected equal fingerprints for equivalent prompts, got %q != %q", a, b)
	}
	if len(a) != 64 {
		t.Fatalf("expected 64 hex chars, got %d (%q)", len(a), a)
	}
}

func TestFingerprintDiffersForDifferentPrompts(t *testing.T) {
	a := Fingerprint(Canonicalize("hello"))
	b := Fingerprint(Canonicalize("goodbye"))
	if a == b {
		t.Fatal("expected different fingerprints for different prompts")
	}
}
