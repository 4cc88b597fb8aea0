package collision

import (
	"time"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	errTypeLabel  = "error_type"
	responseLabel = "response"
	reasonLabel   = "reason"
	updateLabel   = "update"
)

var (
	contactsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "collision_contacts_created",
		Help: "The number of contacts created.",
	}, []string{
		responseLabel,
	})

	contactsRemoved = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "collision_contacts_removed",
		Help: "The number of contacts removed.",
	}, []string{
		reasonLabel,
	})

	contactCreationErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "collision_contact_creation_errors",
		Help: "The errors that occured while creating a contact.",
	}, []string{
		responseLabel,
		errTypeLabel,
	})

	activeContacts = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "collision_active_contacts",
		Help: "The number of contacts alive after the last step.",
	})

	treeUpdates = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "collision_bounding_tree_updates",
		Help: "The number of bounding tree rebuilds and refreshes.",
	}, []string{
		updateLabel,
	})

	stepLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name: "collision_step_latency",
		Help: "The time to run a collision step.",
	})
)

func instrumentContactCreated(response string) {
	contactsCreated.With(prometheus.Labels{
		responseLabel: response,
	}).Inc()
}

func instrumentContactRemoved(reason string) {
	contactsRemoved.With(prometheus.Labels{
		reasonLabel: reason,
	}).Inc()
}

func instrumentContactCreationError(response string, err error) {
	contactCreationErrors.
		With(prometheus.Labels{
			responseLabel: response,
			errTypeLabel:  errors.Type(err),
		}).
		Inc()
}

func instrumentActiveContacts(n int) {
	activeContacts.Set(float64(n))
}

func instrumentTreeUpdate(kind string) {
	treeUpdates.With(prometheus.Labels{
		updateLabel: kind,
	}).Inc()
}

func instrumentStepLatency(start time.Time) {
	stepLatency.Observe(time.Since(start).Seconds())
}
