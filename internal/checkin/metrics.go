package checkin

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	checkinsAccepted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "checkin_accepted_total",
		Help: "Check-ins that appended a new attendee.",
	})
	checkinsDuplicate = promauto.NewCounter(prometheus.CounterOpts{
		Name: "checkin_duplicate_total",
		Help: "Idempotent re-check-ins by already-recorded attendees.",
	})
	checkinsRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "checkin_rejected_total",
		Help: "Rejected check-in attempts by reason.",
	}, []string{"reason"})
)
