package service

import "github.com/prometheus/client_golang/prometheus"

var (
	panelsOpen = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "quickr",
		Name:      "panels_open",
		Help:      "Number of open panels",
	})

	submissionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "quickr",
			Name:      "submissions_total",
			Help:      "Submissions by outcome",
		},
		[]string{"result"},
	)

	qrDownloadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "quickr",
			Name:      "qr_downloads_total",
			Help:      "QR image downloads by cache outcome",
		},
		[]string{"source"},
	)
)

func init() {
	prometheus.MustRegister(panelsOpen, submissionsTotal, qrDownloadsTotal)
}
