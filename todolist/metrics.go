// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package todolist

import (
	"errors"

	"github.com/ava-labs/avalanchego/utils/wrappers"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "todolist"

type metrics struct {
	created  prometheus.Counter
	updated  prometheus.Counter
	rejected *prometheus.CounterVec
	nextID   prometheus.Gauge
}

func newMetrics(r prometheus.Registerer) (*metrics, error) {
	m := &metrics{
		created: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "created",
			Help:      "number of items created",
		}),
		updated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "updated",
			Help:      "number of successful item updates",
		}),
		rejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rejected",
			Help:      "number of rejected operations by reason",
		}, []string{"reason"}),
		nextID: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "next_id",
			Help:      "next id the allocator will hand out",
		}),
	}
	errs := wrappers.Errs{}
	errs.Add(
		r.Register(m.created),
		r.Register(m.updated),
		r.Register(m.rejected),
		r.Register(m.nextID),
	)
	return m, errs.Err
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrUnauthorized):
		return "unauthorized"
	case errors.Is(err, ErrInvalidOwner),
		errors.Is(err, ErrNameTooLarge),
		errors.Is(err, ErrInvalidName),
		errors.Is(err, ErrInvalidPriority):
		return "invalid"
	case errors.Is(err, ErrIDOverflow):
		return "overflow"
	default:
		return "internal"
	}
}
