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

// Package metrics holds the process's prometheus collectors and the
// optional HTTP endpoint that exposes them.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Sessions tracks the number of currently live connections by role.
var Sessions = promauto.NewGaugeVec(prometheus.GaugeOpts{
	Name: "profile_node_sessions",
	Help: "Number of live sessions, by role.",
}, []string{"role"})

// Requests counts dispatched requests by wire request type and outcome
// status.
var Requests = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "profile_node_requests_total",
	Help: "Number of dispatched requests, by request type and status.",
}, []string{"type", "status"})

// NeighborRefreshes counts background neighborhood refresh attempts by
// outcome ("ok" or "error").
var NeighborRefreshes = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "profile_node_neighbor_refreshes_total",
	Help: "Number of background neighbor refresh attempts, by outcome.",
}, []string{"outcome"})
