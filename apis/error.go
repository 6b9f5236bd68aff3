/*
   Copyright 2025 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package apis

import (
	"log/slog"
	"strings"
)

// Error is an error with optional structured logging attributes.
// It implements both error and slog.LogValuer. Errors are immutable:
// Wrap and With return new values, so sentinels can be shared.
type Error struct {
	msg   string
	err   error
	attrs []slog.Attr
}

// NewError creates an Error with a message.
func NewError(msg string) *Error {
	return &Error{msg: msg}
}

// Error implements the error interface as "<msg>: <cause>".
func (e *Error) Error() string {
	part := make([]string, 0, 2)
	if e.msg != "" {
		part = append(part, e.msg)
	}
	if e.err != nil {
		part = append(part, e.err.Error())
	}
	return strings.Join(part, ": ")
}

// Unwrap returns the wrapped cause.
func (e *Error) Unwrap() error { return e.err }

// Is matches another Error by message, so a wrapped or attributed copy
// still matches its sentinel.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.msg != "" && t.msg == e.msg
}

// Attrs returns a copy of the structured attributes.
func (e *Error) Attrs() []slog.Attr {
	out := make([]slog.Attr, len(e.attrs))
	copy(out, e.attrs)
	return out
}

// LogValue implements slog.LogValuer.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+2)
	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}
	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}
	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Wrap returns a copy of e wrapping err.
func (e *Error) Wrap(err error) *Error {
	return &Error{msg: e.msg, err: err, attrs: e.attrs}
}

// With returns a copy of e with attrs appended.
func (e *Error) With(attrs ...slog.Attr) *Error {
	n := make([]slog.Attr, len(e.attrs)+len(attrs))
	copy(n, e.attrs)
	copy(n[len(e.attrs):], attrs)
	return &Error{msg: e.msg, err: e.err, attrs: n}
}
