package metrics

import "github.com/prometheus/client_golang/prometheus"

var HttpRequestsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "showwise_http_requests_total",
		Help: "Total number of HTTP requests received",
	},
	[]string{"endpoint", "status", "method"},
)

var HttpRequestDuration = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "showwise_http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	},
	[]string{"endpoint", "method"},
)

var NotificationsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "showwise_notifications_total",
		Help: "Reminder fire attempts by kind and outcome",
	},
	[]string{"kind", "outcome"},
)

var NotificationsPending = prometheus.NewGauge(
	prometheus.GaugeOpts{
		Name: "showwise_notifications_pending",
		Help: "Reminders registered and waiting for their deadline",
	},
)

var AnnounceDuration = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "showwise_announce_duration_seconds",
		Help:    "Time taken to deliver an announcement through a transport",
		Buckets: prometheus.DefBuckets,
	},
	[]string{"transport", "status"},
)

// Init registers every collector with the default registry
func Init() {
	prometheus.MustRegister(HttpRequestsTotal)
	prometheus.MustRegister(HttpRequestDuration)
	prometheus.MustRegister(NotificationsTotal)
	prometheus.MustRegister(NotificationsPending)
	prometheus.MustRegister(AnnounceDuration)
}
