// Package metrics exposes Prometheus collectors for the tournament store and
// the result ledger.
package metrics

import (
	"errors"
	"strconv"

	"github.com/Dosada05/sports-event-tracker/services"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "sports_event_tracker"

// Metrics implements services.Observer.
type Metrics struct {
	resultsRecorded    *prometheus.CounterVec
	resultsResubmitted prometheus.Counter
	tournamentsDeleted prometheus.Counter
	operationErrors    *prometheus.CounterVec
}

var _ services.Observer = (*Metrics)(nil)

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		resultsRecorded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "results_recorded_total",
			Help:      "Match results recorded, by outcome and whether the result was an amendment.",
		}, []string{"outcome", "amended"}),
		resultsResubmitted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "results_resubmitted_total",
			Help:      "Results submitted for matches that already had one; each double counts standings.",
		}),
		tournamentsDeleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "tournaments_deleted_total",
			Help:      "Tournaments removed together with their teams, matches and standings.",
		}),
		operationErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operation_errors_total",
			Help:      "Failed store and ledger operations, by operation and error kind.",
		}, []string{"operation", "kind"}),
	}

	for _, c := range []prometheus.Collector{
		m.resultsRecorded, m.resultsResubmitted, m.tournamentsDeleted, m.operationErrors,
	} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) ResultRecorded(outcome services.OutcomeKind, amended bool) {
	m.resultsRecorded.WithLabelValues(string(outcome), strconv.FormatBool(amended)).Inc()
}

func (m *Metrics) ResultResubmitted() {
	m.resultsResubmitted.Inc()
}

func (m *Metrics) TournamentDeleted() {
	m.tournamentsDeleted.Inc()
}

func (m *Metrics) OperationFailed(operation string, err error) {
	m.operationErrors.WithLabelValues(operation, errorKind(err)).Inc()
}

func errorKind(err error) string {
	switch {
	case errors.Is(err, services.ErrNotFound):
		return "not_found"
	case errors.Is(err, services.ErrValidationFailed):
		return "validation"
	case errors.Is(err, services.ErrPersistence):
		return "persistence"
	default:
		return "unknown"
	}
}
