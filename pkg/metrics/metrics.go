// Package metrics 暴露 Prometheus 指标
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "ampa_activity",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency by route and status.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route", "status"})

	reportsGenerated = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ampa_activity",
		Subsystem: "report",
		Name:      "monthly_generated_total",
		Help:      "Monthly attendance reports computed, by output format.",
	}, []string{"format"})

	rosterMembersAdded = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "ampa_activity",
		Subsystem: "event",
		Name:      "roster_members_added_total",
		Help:      "Member lines appended to events from the registered roster.",
	})
)

func init() {
	prometheus.MustRegister(httpDuration, reportsGenerated, rosterMembersAdded)
}

// RecordReport 记录一次月度报表生成
func RecordReport(format string) {
	reportsGenerated.WithLabelValues(format).Inc()
}

// RecordRosterSync 记录从预登记名单补充的会员数量
func RecordRosterSync(added int) {
	if added <= 0 {
		return
	}
	rosterMembersAdded.Add(float64(added))
}

// Middleware 记录请求耗时
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		httpDuration.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}

// Handler /metrics 端点
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
