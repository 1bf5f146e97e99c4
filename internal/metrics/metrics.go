package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
)

var (
	SessionsOpened = promauto.NewCounter(prometheus.CounterOpts{
		Name: "recordings_upload_sessions_opened_total",
		Help: "Upload sessions opened.",
	})

	ChunksReceived = promauto.NewCounter(prometheus.CounterOpts{
		Name: "recordings_upload_chunks_received_total",
		Help: "Upload chunks accepted.",
	})

	UploadsFinalized = promauto.NewCounter(prometheus.CounterOpts{
		Name: "recordings_uploads_finalized_total",
		Help: "Uploads merged and persisted.",
	})

	UploadsFailed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "recordings_uploads_failed_total",
		Help: "Finalize failures by error code.",
	}, []string{"code"})

	SharesCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "recordings_shares_created_total",
		Help: "Share links created.",
	})

	ShareViews = promauto.NewCounter(prometheus.CounterOpts{
		Name: "recordings_share_views_total",
		Help: "Successful public video fetches through share links.",
	})

	ShareRejections = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "recordings_share_rejections_total",
		Help: "Share validations that failed, by error code.",
	}, []string{"code"})
)

// RegisterProgressStats exposes live websocket counts as gauges. The stats
// function is polled on every scrape.
func RegisterProgressStats(stats func() (totalClients, totalSubscriptions int)) {
	promauto.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "recordings_progress_clients",
		Help: "Connected progress websocket clients.",
	}, func() float64 {
		clients, _ := stats()
		return float64(clients)
	})

	promauto.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "recordings_progress_subscriptions",
		Help: "Active upload session subscriptions across clients.",
	}, func() float64 {
		_, subscriptions := stats()
		return float64(subscriptions)
	})
}

// Handler serves the Prometheus text exposition over fasthttp.
func Handler() fasthttp.RequestHandler {
	return fasthttpadaptor.NewFastHTTPHandler(promhttp.Handler())
}
