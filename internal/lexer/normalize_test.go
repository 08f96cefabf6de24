package lexer

import (
	"bytes"
	"strings"
	"testing"

	"github.com/liminal-lang/liminal/internal/token"
	"golang.org/x/text/unicode/norm"
)

func TestBOMStripping(t *testing.T) {
	tests := []struct {
		name     string
		input    []byte
		expected []byte
	}{
		{"with_bom", []byte{0xEF, 0xBB, 0xBF, 'h', 'i'}, []byte("hi")},
		{"without_bom", []byte("hi"), []byte("hi")},
		{"empty_with_bom", []byte{0xEF, 0xBB, 0xBF}, []byte{}},
		{"empty_without_bom", []byte{}, []byte{}},
		{"partial_bom", []byte{0xEF, 0xBB, 'h', 'i'}, []byte{0xEF, 0xBB, 'h', 'i'}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Normalize(tt.input)
			if !bytes.Equal(result, tt.expected) {
				t.Errorf("expected %q, got %q", tt.expected, result)
			}
		})
	}
}

func TestNFCNormalization(t *testing.T) {
	input := "café" // NFD
	result := string(Normalize([]byte(input)))
	if !norm.NFC.IsNormalString(result) {
		t.Errorf("result is not in NFC form: %q", result)
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{"hello", "café", "café", "\xef\xbb\xbfhello"}
	for _, in := range inputs {
		first := Normalize([]byte(in))
		second := Normalize(first)
		if !bytes.Equal(first, second) {
			t.Errorf("Normalize is not idempotent for %q: %q vs %q", in, first, second)
		}
	}
}

func TestNormalizePreservesTokenStream(t *testing.T) {
	src := "program P ;\nbegin WriteLn('hi') ;\nend ."
	crlf := strings.ReplaceAll(src, "\n", "\r\n")

	toks1 := collectKinds(t, Normalize([]byte(src)))
	toks2 := collectKinds(t, Normalize([]byte(crlf)))

	if len(toks1) != len(toks2) {
		t.Fatalf("token count mismatch: %d vs %d", len(toks1), len(toks2))
	}
	for i := range toks1 {
		if toks1[i] != toks2[i] {
			t.Errorf("token %d kind mismatch: %v vs %v", i, toks1[i], toks2[i])
		}
	}
}

func collectKinds(t *testing.T, src []byte) []token.Kind {
	t.Helper()
	l := New(string(src))
	var kinds []token.Kind
	for {
		tok := l.NextToken()
		kinds = append(kinds, tok.Kind)
		if tok.Kind == token.EOF {
			break
		}
	}
	return kinds
}
