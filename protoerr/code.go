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

// Package protoerr carries the conversation protocol's status taxonomy as a
// structured error type instead of bare wire integers, so handler code can
// return one value that is both a Go error and the response status to send.
package protoerr

// CodeError is the node's protocol-level status code, one value per entry
// in the wire Status taxonomy.
type CodeError uint16

const (
	Ok CodeError = 200
)

const (
	ErrorProtocolViolation CodeError = 1000 + iota
	ErrorUnsupported
	ErrorBadRole
	ErrorBadConversationStatus
	ErrorUnauthorized
	ErrorBanned
	ErrorBusy
	ErrorInternal
	ErrorQuotaExceeded
	ErrorInvalidSignature
	ErrorNotFound
	ErrorInvalidValue
	ErrorAlreadyExists
	ErrorNotAvailable
	ErrorRejected
	ErrorUninitialized
)

var names = map[CodeError]string{
	Ok:                         "Ok",
	ErrorProtocolViolation:     "ErrorProtocolViolation",
	ErrorUnsupported:           "ErrorUnsupported",
	ErrorBadRole:               "ErrorBadRole",
	ErrorBadConversationStatus: "ErrorBadConversationStatus",
	ErrorUnauthorized:          "ErrorUnauthorized",
	ErrorBanned:                "ErrorBanned",
	ErrorBusy:                  "ErrorBusy",
	ErrorInternal:              "ErrorInternal",
	ErrorQuotaExceeded:         "ErrorQuotaExceeded",
	ErrorInvalidSignature:      "ErrorInvalidSignature",
	ErrorNotFound:              "ErrorNotFound",
	ErrorInvalidValue:          "ErrorInvalidValue",
	ErrorAlreadyExists:         "ErrorAlreadyExists",
	ErrorNotAvailable:          "ErrorNotAvailable",
	ErrorRejected:              "ErrorRejected",
	ErrorUninitialized:         "ErrorUninitialized",
}

// String returns the taxonomy name of the code, or "Unknown".
func (c CodeError) String() string {
	if n, ok := names[c]; ok {
		return n
	}
	return "Unknown"
}

// Uint32 returns the code as its wire representation.
func (c CodeError) Uint32() uint32 {
	return uint32(c)
}
