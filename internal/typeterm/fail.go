package typeterm

import "github.com/pkg/errors"

// Fail raises a compile-time type-construction error (§4.1). It is
// represented both as a FailT term (so it can flow through code that
// expects a T) and as a Go error (so callers that expect err can propagate
// it with pkg/errors' stack-annotated Wrap).
func Fail(msg string) (T, error) {
	return &FailT{Msg: msg}, errors.New(msg)
}

// IsFail reports whether t carries a FailT, unwrapping one level of GroupT/
// TypeT the way every other shape query does.
func IsFail(t T) (*FailT, bool) {
	f, ok := Degroup(t).(*FailT)
	return f, ok
}
