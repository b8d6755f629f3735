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

package roleserver

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/sabouaram/profile-node/logger"
	"github.com/sabouaram/profile-node/wire"
)

// bindWithRetry binds address, making at most MaxBindRetries attempts;
// after the Nth failed attempt it waits N*BindRetryUnit. The counter always
// increments on a failed attempt and the loop always stops at
// MaxBindRetries, so backoff can't run away unbounded.
func bindWithRetry(ctx context.Context, address string, log logger.Logger, ep wire.RoleEndpointInfo) (net.Listener, error) {
	var (
		ln         net.Listener
		err        error
		lc         net.ListenConfig
		tryCounter = 0
	)

	for {
		ln, err = lc.Listen(ctx, "tcp", address)
		if err == nil {
			return ln, nil
		}

		tryCounter++
		if log != nil {
			log.Warning("roleserver: bind failed", logger.Fields{
				"role":    ep.Role.String(),
				"address": address,
				"attempt": tryCounter,
				"error":   err.Error(),
			})
		}
		if tryCounter >= MaxBindRetries {
			return nil, fmt.Errorf("roleserver %s: bind %s failed after %d attempts: %w", ep.Role, address, tryCounter, err)
		}

		delay := time.Duration(tryCounter) * BindRetryUnit
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}
