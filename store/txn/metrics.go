// Copyright 2026 Dolthub, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package txn

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	outcomeLabel = "outcome"

	outcomeSuccess   = "success"
	outcomeRetryable = "retryable"
	outcomePermanent = "permanent"
)

// Metrics records TransactWriteItems attempts. A nil *Metrics records nothing.
type Metrics struct {
	cntAttempts  *prometheus.CounterVec
	cntItems     prometheus.Counter
	histDuration prometheus.Histogram
}

// NewMetrics creates the transaction metrics and registers them with |reg| when it is not nil.
func NewMetrics(reg prometheus.Registerer, labels prometheus.Labels) *Metrics {
	m := &Metrics{
		cntAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "ddbattr_txn_attempts",
			Help:        "Count of TransactWriteItems calls by outcome",
			ConstLabels: labels,
		}, []string{outcomeLabel}),
		cntItems: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "ddbattr_txn_committed_actions",
			Help:        "Count of actions in committed transactions",
			ConstLabels: labels,
		}),
		histDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:        "ddbattr_txn_attempt_duration_seconds",
			Help:        "Duration of TransactWriteItems calls",
			ConstLabels: labels,
			Buckets:     prometheus.DefBuckets,
		}),
	}

	if reg != nil {
		reg.MustRegister(m.cntAttempts, m.cntItems, m.histDuration)
	}

	return m
}

func (m *Metrics) observeAttempt(start time.Time, outcome string) {
	if m == nil {
		return
	}
	m.cntAttempts.WithLabelValues(outcome).Inc()
	m.histDuration.Observe(time.Since(start).Seconds())
}

func (m *Metrics) observeCommit(actions int) {
	if m == nil {
		return
	}
	m.cntItems.Add(float64(actions))
}
