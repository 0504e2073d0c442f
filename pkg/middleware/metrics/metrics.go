package metrics

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	Transitions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "procure",
		Name:      "quotation_transitions_total",
		Help:      "Successful quotation status changes by source status, target status and actor role.",
	}, []string{"from", "to", "role"})

	Rejections = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "procure",
		Name:      "quotation_mutation_errors_total",
		Help:      "Rejected quotation mutations by operation and error kind.",
	}, []string{"op", "kind"})

	Comments = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "procure",
		Name:      "quotation_comments_total",
		Help:      "Comments appended by actor role.",
	}, []string{"role"})

	registry = prometheus.NewRegistry()
)

func init() {
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		Transitions,
		Rejections,
		Comments,
	)
}

func Handler() gin.HandlerFunc {
	h := promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry})
	return func(ctx *gin.Context) {
		h.ServeHTTP(ctx.Writer, ctx.Request)
	}
}
