// Package oracle implements Liminal's one-operation LLM abstraction
// (§4.F): call_text(prompt) -> {ok, text?, error?}, plus the three
// providers (mock, remote text, recording wrapper) and the prompt
// canonicalization/fingerprinting used to key the recording tape.
package oracle

import "context"

// Response is the result of one call_text invocation. Exactly one of
// Text/Err is meaningful, selected by OK.
type Response struct {
	OK   bool
	Text string
	Err  string
}

// Oracle is the single operation every provider implements.
type Oracle interface {
	CallText(ctx context.Context, prompt string) Response
}
