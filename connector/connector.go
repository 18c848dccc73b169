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

// Package connector implements the ConnectorThread from spec §4.7: a
// timed.Timed retrying platform.Socket.Connect until it succeeds or the
// connection timeout elapses.
package connector

import (
	"context"
	"time"

	"github.com/nabbar/sakit/host"
	"github.com/nabbar/sakit/platform"
	"github.com/nabbar/sakit/timed"
)

// Connector retries a dial against a platform.Socket (spec §4.7).
type Connector struct {
	*timed.Timed
}

// New allocates a Connector bound to sock, dialing remote from local
// (zero Endpoint for "any"). cfg is called fresh every retry iteration.
func New(sock platform.Socket, remote, local host.Endpoint, cfg func() (timeout, retryFrequency time.Duration)) *Connector {
	c := &Connector{}
	c.Timed = timed.New(func() (bool, error) {
		ctx, cancel := context.WithTimeout(context.Background(), 250*time.Millisecond)
		defer cancel()
		ok, err := sock.Connect(ctx, remote, local, 250*time.Millisecond, 50*time.Millisecond)
		return ok, err
	}, cfg)
	return c
}
