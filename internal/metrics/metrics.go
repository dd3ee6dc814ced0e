package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Registry struct {
	reg *prometheus.Registry

	Edits             *prometheus.CounterVec
	EditsRejected     *prometheus.CounterVec
	GenerationTotal   prometheus.Counter
	GenerationFailed  prometheus.Counter
	GenerationLatency prometheus.Histogram
	PhotosAdded       prometheus.Counter
	PhotosRejected    prometheus.Counter
	MediaDecodeFailed prometheus.Counter
	PrintPages        prometheus.Histogram
}

func NewRegistry() *Registry {
	r := prometheus.NewRegistry()
	edits := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "offer_edits_total"}, []string{"op"})
	rejected := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "offer_edits_rejected_total"}, []string{"op"})
	genTotal := prometheus.NewCounter(prometheus.CounterOpts{Name: "offer_generation_total"})
	genFailed := prometheus.NewCounter(prometheus.CounterOpts{Name: "offer_generation_failed_total"})
	genLatency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "offer_generation_latency_seconds",
		Buckets: prometheus.DefBuckets,
	})
	photosAdded := prometheus.NewCounter(prometheus.CounterOpts{Name: "offer_photos_added_total"})
	photosRejected := prometheus.NewCounter(prometheus.CounterOpts{Name: "offer_photos_rejected_total"})
	decodeFailed := prometheus.NewCounter(prometheus.CounterOpts{Name: "offer_media_decode_failed_total"})
	printPages := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "offer_print_pages",
		Buckets: prometheus.LinearBuckets(1, 1, 5),
	})

	r.MustRegister(edits, rejected, genTotal, genFailed, genLatency, photosAdded, photosRejected, decodeFailed, printPages)
	return &Registry{
		reg:               r,
		Edits:             edits,
		EditsRejected:     rejected,
		GenerationTotal:   genTotal,
		GenerationFailed:  genFailed,
		GenerationLatency: genLatency,
		PhotosAdded:       photosAdded,
		PhotosRejected:    photosRejected,
		MediaDecodeFailed: decodeFailed,
		PrintPages:        printPages,
	}
}

func (r *Registry) Handler() http.Handler { return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{}) }
