/*
 * MIT License
 *
 * Copyright (c) 2025 Nicolas JUHEL
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

// Package logger is a trimmed, logrus-backed rendition of the teacher
// library's logging facade: leveled entries with a caller-supplied tag,
// sized to what the socket engine actually needs (state warnings, worker
// failures, accept/bind/connect outcomes) rather than the full hook-rich
// original.
package logger

import (
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"

	loglvl "github.com/nabbar/sakit/logger/level"
)

// Logger is the minimal leveled logging facade used throughout the engine.
type Logger interface {
	SetLevel(lvl loglvl.Level)
	GetLevel() loglvl.Level

	Debug(tag, message string, args ...interface{})
	Info(tag, message string, args ...interface{})
	Warning(tag, message string, args ...interface{})
	Error(tag, message string, args ...interface{})
}

type lgr struct {
	m   sync.Mutex
	lvl atomic.Uint32
	log *logrus.Logger
}

// New returns a Logger writing through logrus at the given initial level.
func New(lvl loglvl.Level) Logger {
	l := &lgr{log: logrus.New()}
	l.SetLevel(lvl)
	return l
}

func (l *lgr) SetLevel(lvl loglvl.Level) {
	l.lvl.Store(lvl.Uint32())
	l.m.Lock()
	defer l.m.Unlock()
	l.log.SetLevel(lvl.Logrus())
}

func (l *lgr) GetLevel() loglvl.Level {
	return loglvl.ParseFromUint32(l.lvl.Load())
}

func (l *lgr) entry(tag string) *logrus.Entry {
	l.m.Lock()
	defer l.m.Unlock()
	return l.log.WithField("tag", tag)
}

func (l *lgr) Debug(tag, message string, args ...interface{}) {
	l.entry(tag).Debugf(message, args...)
}

func (l *lgr) Info(tag, message string, args ...interface{}) {
	l.entry(tag).Infof(message, args...)
}

func (l *lgr) Warning(tag, message string, args ...interface{}) {
	l.entry(tag).Warnf(message, args...)
}

func (l *lgr) Error(tag, message string, args ...interface{}) {
	l.entry(tag).Errorf(message, args...)
}
