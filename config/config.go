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

// Package config holds the process-wide tunables from spec §6.3: retry
// cadence for worker loops, connection timeout for one-shot workers, and
// the log tag applied to engine log entries. Set at init, read
// thread-safely thereafter from any worker goroutine.
package config

import (
	libatm "github.com/nabbar/sakit/atomic"
	libdur "github.com/nabbar/sakit/duration"
	liblog "github.com/nabbar/sakit/logger"
	loglvl "github.com/nabbar/sakit/logger/level"
)

// Config is the process-wide tunable set.
type Config struct {
	// RetryTimeout is the inter-attempt sleep used by SenderThread and
	// BroadcasterThread between partial-progress retries (spec §4.3).
	RetryTimeout libdur.Duration

	// RetryFrequency is the retry cadence for one-shot workers
	// (connector, binder — spec §4.7).
	RetryFrequency libdur.Duration

	// ConnectionTimeout bounds how long a one-shot worker keeps retrying
	// before reporting FAILED (spec §4.7).
	ConnectionTimeout libdur.Duration

	// LogTag is the tag every engine log entry is stamped with.
	LogTag string

	// Logger receives every check_state rejection warning (spec §4.1
	// invariant 5) and worker-failure notice emitted by the engine.
	Logger liblog.Logger
}

// Default mirrors sane defaults for the three timing knobs: a quick retry
// cadence with a generous connection timeout, logging at warning level.
func Default() Config {
	return Config{
		RetryTimeout:      libdur.Seconds(1),
		RetryFrequency:    libdur.Seconds(1),
		ConnectionTimeout: libdur.Seconds(30),
		LogTag:            "sakit",
		Logger:            liblog.New(loglvl.WarnLevel),
	}
}

// Warn logs a formatted warning through the active Logger, tagged with the
// active LogTag (spec §4.1 "an illegal transition is rejected ... logging a
// warning"). Safe to call from any worker goroutine.
func Warn(format string, args ...interface{}) {
	c := Current()
	if c.Logger == nil {
		return
	}
	c.Logger.Warning(c.LogTag, format, args...)
}

var current = func() libatm.Value[Config] {
	v := libatm.NewValue[Config]()
	v.SetDefaultLoad(Default())
	v.Store(Default())
	return v
}()

// Configure replaces the process-wide tunables. Safe to call concurrently
// with workers reading Current — in-flight connector and binder workers
// observe the new values on their next retry iteration (spec §9, "retry
// loops" note); sender and broadcaster workers keep the RetryTimeout they
// were created with.
func Configure(cfg Config) {
	current.Store(cfg)
}

// Current returns the active process-wide tunables.
func Current() Config {
	return current.Load()
}
