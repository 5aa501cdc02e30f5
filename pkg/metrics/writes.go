package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	pkgerrors "shopcore/pkg/errors"
)

// WriteMetrics counts accepted and rejected writes per entity.
type WriteMetrics struct {
	accepted *prometheus.CounterVec
	rejected *prometheus.CounterVec
}

// NewWriteMetrics registers the write metrics on the provided registerer.
func NewWriteMetrics(reg prometheus.Registerer) *WriteMetrics {
	if reg == nil {
		return &WriteMetrics{}
	}
	accepted := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "write_accepted",
		Help: "Writes accepted by the data layer.",
	}, []string{"entity"})
	rejected := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "write_rejected",
		Help: "Writes rejected by constraint or validation failures.",
	}, []string{"entity", "reason"})
	reg.MustRegister(accepted, rejected)
	return &WriteMetrics{
		accepted: accepted,
		rejected: rejected,
	}
}

// IncAccepted increments the accepted counter for the entity.
func (w *WriteMetrics) IncAccepted(entity string) {
	if w == nil || w.accepted == nil {
		return
	}
	w.accepted.WithLabelValues(normalizeLabel(entity)).Inc()
}

// IncRejected increments the rejected counter for the entity and reason.
func (w *WriteMetrics) IncRejected(entity, reason string) {
	if w == nil || w.rejected == nil {
		return
	}
	w.rejected.WithLabelValues(normalizeLabel(entity), normalizeLabel(reason)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}

// Reason maps a coded error onto a low-cardinality rejection label.
func Reason(err error) string {
	typed := pkgerrors.As(err)
	if typed == nil {
		return "internal"
	}
	switch typed.Code() {
	case pkgerrors.CodeValidation:
		return "validation"
	case pkgerrors.CodeNotFound:
		return "not_found"
	case pkgerrors.CodeConflict:
		return "conflict"
	case pkgerrors.CodeProtected:
		return "protected"
	case pkgerrors.CodeStateConflict:
		return "state_conflict"
	default:
		return "internal"
	}
}
