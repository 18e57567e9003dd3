// Copyright 2024 The kvstore-go Authors
// This file is part of kvstore-go.
//
// kvstore-go is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// kvstore-go is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with kvstore-go. If not, see <http://www.gnu.org/licenses/>.

// Package metrics wires Prometheus counters into the dispatcher and
// transport (SPEC_FULL.md §2, C11). The core engines and dispatcher stay
// unaware of Prometheus; they only see the dispatcher.Observer interface.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/lymdgit/kvstore-go/kv/registry"
)

// Metrics holds the process's Prometheus collectors. Register it with a
// prometheus.Registerer (typically prometheus.DefaultRegisterer) once at
// startup.
type Metrics struct {
	Commands     *prometheus.CounterVec
	Replies      *prometheus.CounterVec
	Connections  prometheus.Counter
	ActiveConns  prometheus.Gauge
}

// New constructs an unregistered Metrics.
func New() *Metrics {
	return &Metrics{
		Commands: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "kvstore_commands_total",
			Help: "Commands dispatched, by engine prefix and verb.",
		}, []string{"engine", "verb"}),
		Replies: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "kvstore_replies_total",
			Help: "Dispatcher replies, by reply kind.",
		}, []string{"reply"}),
		Connections: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "kvstore_connections_total",
			Help: "Transport connections accepted.",
		}),
		ActiveConns: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "kvstore_active_connections",
			Help: "Transport connections currently open.",
		}),
	}
}

// Register adds every collector to reg.
func (m *Metrics) Register(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{m.Commands, m.Replies, m.Connections, m.ActiveConns} {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

func enginePrefixLabel(prefix registry.Prefix) string {
	if prefix == registry.PrefixArray {
		return "array"
	}
	return string(rune(prefix))
}

// ObserveCommand implements dispatcher.Observer. reply is classified into
// a small fixed set of kinds before being used as a label value - GET's
// reply is the stored value itself and COUNT's is a decimal integer,
// neither bounded, so using either verbatim as a Prometheus label would
// make the metric's cardinality grow with the data in the store.
func (m *Metrics) ObserveCommand(prefix registry.Prefix, verb string, reply string) {
	m.Commands.WithLabelValues(enginePrefixLabel(prefix), verb).Inc()
	m.Replies.WithLabelValues(replyKind(verb, reply)).Inc()
}

func replyKind(verb, reply string) string {
	switch reply {
	case "SUCCESS", "FAILED", "ERROR", "NO EXIST":
		return reply
	default:
		if verb == "COUNT" {
			return "COUNT"
		}
		return "VALUE"
	}
}
