// Package metrics exposes Prometheus instrumentation for the task
// lifecycle and the productivity scoring engine.
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	tasksCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tasks_created_total",
		Help: "Total number of tasks created",
	}, []string{"status", "priority"})

	tasksCompleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tasks_completed_total",
		Help: "Total number of task completion events",
	})

	productivityScore = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "employee_productivity_score",
		Help: "Productivity score of employees",
	}, []string{"user_id", "user_name"})
)

// TaskCreated records a task creation event.
func TaskCreated(status, priority string) {
	tasksCreated.WithLabelValues(status, priority).Inc()
}

// TaskCompleted records a completion event. Called once per completion,
// never on idempotent re-completes.
func TaskCompleted() {
	tasksCompleted.Inc()
}

// SetProductivityScore publishes the freshly computed score for a user.
func SetProductivityScore(userID uint64, userName string, score float64) {
	productivityScore.WithLabelValues(strconv.FormatUint(userID, 10), userName).Set(score)
}

// Handler returns the HTTP handler serving the metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
