package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pgms_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pgms_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	SubscriptionActivationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pgms_subscription_activations_total",
			Help: "Total number of subscription activations",
		},
		[]string{"plan", "kind"},
	)

	PaymentOrdersTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pgms_payment_orders_total",
			Help: "Total number of gateway payment orders by outcome",
		},
		[]string{"status"},
	)

	GatewayVerificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pgms_gateway_verifications_total",
			Help: "Total number of gateway callback verifications",
		},
		[]string{"result"},
	)

	TenantPaymentsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pgms_tenant_payments_total",
			Help: "Total number of tenant payments recorded",
		},
		[]string{"method"},
	)

	EmailsSentTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pgms_emails_sent_total",
			Help: "Total number of emails sent",
		},
		[]string{"type", "status"},
	)

	EmailQueueLength = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "pgms_email_queue_length",
			Help: "Current length of email queue",
		},
	)

	OutstandingDues = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "pgms_outstanding_dues_paise",
			Help: "Outstanding tenant dues for the current month in paise, as of the last dues computation",
		},
	)
)

func RecordHTTPRequest(method, path, status string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
}

func RecordActivation(plan, kind string) {
	SubscriptionActivationsTotal.WithLabelValues(plan, kind).Inc()
}

func RecordPaymentOrder(status string) {
	PaymentOrdersTotal.WithLabelValues(status).Inc()
}

func RecordVerification(result string) {
	GatewayVerificationsTotal.WithLabelValues(result).Inc()
}

func RecordTenantPayment(method string) {
	TenantPaymentsTotal.WithLabelValues(method).Inc()
}

func RecordEmail(emailType, status string) {
	EmailsSentTotal.WithLabelValues(emailType, status).Inc()
}

func SetOutstandingDues(paise int64) {
	OutstandingDues.Set(float64(paise))
}
