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

// Package logger provides the node's structured logger: a thin, typed
// wrapper over logrus that every component logs through, so fields
// (connection id, role, identity id, message type) are attached
// consistently rather than interpolated into free-text messages.
package logger

import (
	"io"
	"log"
	"os"
	"sync"

	"github.com/sirupsen/logrus"
)

// FuncLog is a function type returning a Logger, used for dependency
// injection at component Init time instead of a package-level global.
type FuncLog func() Logger

// Fields is a set of structured key/value pairs attached to a log entry.
type Fields map[string]interface{}

// Logger is the logging surface every component in this node uses.
type Logger interface {
	io.Writer

	SetLevel(lvl Level)
	GetLevel() Level

	// WithFields returns a derived Logger that always includes the
	// given fields in addition to whatever is passed per call.
	WithFields(f Fields) Logger

	Debug(message string, f Fields)
	Info(message string, f Fields)
	Warning(message string, f Fields)
	Error(message string, f Fields, err error)
	Fatal(message string, f Fields, err error)

	// GetStdLogger returns a standard library *log.Logger that writes
	// through this Logger at the given level, for third-party code that
	// expects one (e.g. net/http, crypto/tls).
	GetStdLogger(lvl Level) *log.Logger
}

type lgr struct {
	mu     sync.RWMutex
	entry  *logrus.Entry
	fields Fields
}

// New returns a Logger writing to stderr at InfoLevel with a text
// formatter.
func New() Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	l.SetLevel(logrus.InfoLevel)

	return &lgr{
		entry:  logrus.NewEntry(l),
		fields: Fields{},
	}
}

func (o *lgr) Write(p []byte) (int, error) {
	o.Info(string(p), nil)
	return len(p), nil
}

func (o *lgr) SetLevel(lvl Level) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.entry.Logger.SetLevel(lvl)
}

func (o *lgr) GetLevel() Level {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.entry.Logger.GetLevel()
}

func (o *lgr) WithFields(f Fields) Logger {
	o.mu.RLock()
	defer o.mu.RUnlock()

	merged := make(Fields, len(o.fields)+len(f))
	for k, v := range o.fields {
		merged[k] = v
	}
	for k, v := range f {
		merged[k] = v
	}

	return &lgr{
		entry:  o.entry,
		fields: merged,
	}
}

func (o *lgr) entryWith(f Fields) *logrus.Entry {
	o.mu.RLock()
	defer o.mu.RUnlock()

	if len(f) == 0 && len(o.fields) == 0 {
		return o.entry
	}

	lf := make(logrus.Fields, len(o.fields)+len(f))
	for k, v := range o.fields {
		lf[k] = v
	}
	for k, v := range f {
		lf[k] = v
	}
	return o.entry.WithFields(lf)
}

func (o *lgr) Debug(message string, f Fields) {
	o.entryWith(f).Debug(message)
}

func (o *lgr) Info(message string, f Fields) {
	o.entryWith(f).Info(message)
}

func (o *lgr) Warning(message string, f Fields) {
	o.entryWith(f).Warn(message)
}

func (o *lgr) Error(message string, f Fields, err error) {
	e := o.entryWith(f)
	if err != nil {
		e = e.WithError(err)
	}
	e.Error(message)
}

func (o *lgr) Fatal(message string, f Fields, err error) {
	e := o.entryWith(f)
	if err != nil {
		e = e.WithError(err)
	}
	e.Fatal(message)
}

func (o *lgr) GetStdLogger(lvl Level) *log.Logger {
	return log.New(o.entryWith(nil).WriterLevel(lvl), "", log.LstdFlags)
}
