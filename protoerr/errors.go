/*
 * MIT License
 *
 * Copyright (c) 2026 Profile Node Contributors
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

package protoerr

import (
	"errors"
	"fmt"
)

// Error is the protocol error interface: a Go error carrying a CodeError and
// an optional free-text detail plus an optional wrapped cause.
type Error interface {
	error

	Code() CodeError
	Detail() string
	Unwrap() error
}

type perr struct {
	code   CodeError
	detail string
	cause  error
}

// New returns a protoerr.Error for the given code with no detail or cause.
func New(code CodeError) Error {
	return &perr{code: code}
}

// Newf returns a protoerr.Error for the given code with a formatted detail.
func Newf(code CodeError, pattern string, args ...interface{}) Error {
	return &perr{code: code, detail: fmt.Sprintf(pattern, args...)}
}

// Wrap returns a protoerr.Error for the given code, wrapping cause for
// log/trace purposes without exposing it on the wire.
func Wrap(code CodeError, detail string, cause error) Error {
	return &perr{code: code, detail: detail, cause: cause}
}

func (e *perr) Error() string {
	if e.detail == "" {
		return e.code.String()
	}
	return fmt.Sprintf("%s: %s", e.code.String(), e.detail)
}

func (e *perr) Code() CodeError { return e.code }
func (e *perr) Detail() string  { return e.detail }
func (e *perr) Unwrap() error   { return e.cause }

// CodeOf returns the CodeError carried by err, or ErrorInternal if err does
// not wrap a protoerr.Error.
func CodeOf(err error) CodeError {
	if err == nil {
		return Ok
	}
	var e Error
	if errors.As(err, &e) {
		return e.Code()
	}
	return ErrorInternal
}

// DetailOf returns the detail string carried by err, if any.
func DetailOf(err error) string {
	var e Error
	if errors.As(err, &e) {
		return e.Detail()
	}
	return ""
}
