package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	MessagesStoredTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "morse_messages_stored_total",
		Help: "Total number of messages stored",
	})
	MessagesDeniedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "morse_messages_denied_total",
		Help: "Total number of sends rejected by the access policy",
	})
	ChatRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "morse_chat_requests_total",
		Help: "Chat request lifecycle events",
	}, []string{"event"})
	HttpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
	HttpRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request duration in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})
)

func init() {
	prometheus.MustRegister(MessagesStoredTotal, MessagesDeniedTotal, ChatRequestsTotal, HttpRequestsTotal, HttpRequestDuration)
}

// GinMiddleware 统计基础请求指标，供 Prometheus 拉取。
func GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		status := strconv.Itoa(c.Writer.Status())
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		labels := prometheus.Labels{"method": c.Request.Method, "path": path, "status": status}
		HttpRequestsTotal.With(labels).Inc()
		HttpRequestDuration.With(labels).Observe(time.Since(start).Seconds())
	}
}
