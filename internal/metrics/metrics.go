// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsCollector はメトリクス収集のインターフェース。
// ハンドラーやサービス層から利用する。
type MetricsCollector interface {
	RecordHTTPStatus(statusCode int)
	RecordRequestLatency(duration time.Duration)
	RecordListingCreated()
	RecordRecommendationCreated()
	RecordStatsRecomputed()
	RecordStatsRecomputeFailure()
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	httpStatus             *prometheus.CounterVec
	requestLatency         prometheus.Histogram
	listingsCreated        prometheus.Counter
	recommendationsCreated prometheus.Counter
	statsRecomputed        prometheus.Counter
	statsRecomputeFail     prometheus.Counter
}

// compile-time interface check
var _ MetricsCollector = (*Collector)(nil)

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "shortstay_http_status_total",
			Help: "HTTPステータスコード別のレスポンス数",
		}, []string{"status_code"}),
		requestLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "shortstay_request_latency_seconds",
			Help:    "HTTPリクエスト処理のレイテンシ（秒）",
			Buckets: prometheus.DefBuckets,
		}),
		listingsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "shortstay_listings_created_total",
			Help: "作成された物件の合計数",
		}),
		recommendationsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "shortstay_recommendations_created_total",
			Help: "作成された推薦の合計数",
		}),
		statsRecomputed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "shortstay_host_stats_recomputed_total",
			Help: "ホスト評価統計の再計算成功の合計数",
		}),
		statsRecomputeFail: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "shortstay_host_stats_recompute_fail_total",
			Help: "ホスト評価統計の再計算失敗の合計数",
		}),
	}

	reg.MustRegister(
		c.httpStatus,
		c.requestLatency,
		c.listingsCreated,
		c.recommendationsCreated,
		c.statsRecomputed,
		c.statsRecomputeFail,
	)

	return c
}

// RecordHTTPStatus はHTTPステータスコードを記録する。
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// RecordRequestLatency はリクエスト処理のレイテンシを記録する。
func (c *Collector) RecordRequestLatency(duration time.Duration) {
	c.requestLatency.Observe(duration.Seconds())
}

// RecordListingCreated は物件作成を記録する。
func (c *Collector) RecordListingCreated() {
	c.listingsCreated.Inc()
}

// RecordRecommendationCreated は推薦作成を記録する。
func (c *Collector) RecordRecommendationCreated() {
	c.recommendationsCreated.Inc()
}

// RecordStatsRecomputed はホスト評価統計の再計算成功を記録する。
func (c *Collector) RecordStatsRecomputed() {
	c.statsRecomputed.Inc()
}

// RecordStatsRecomputeFailure はホスト評価統計の再計算失敗を記録する。
func (c *Collector) RecordStatsRecomputeFailure() {
	c.statsRecomputeFail.Inc()
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// Middleware はHTTPステータスとレイテンシを記録するミドルウェアを返す。
func (c *Collector) Middleware() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(rec, r)

			c.RecordHTTPStatus(rec.statusCode)
			c.RecordRequestLatency(time.Since(start))
		})
	}
}

// statusRecorder はhttp.ResponseWriterをラップし、ステータスコードを記録する。
type statusRecorder struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

func (sr *statusRecorder) WriteHeader(code int) {
	if !sr.written {
		sr.statusCode = code
		sr.written = true
	}
	sr.ResponseWriter.WriteHeader(code)
}

func (sr *statusRecorder) Write(b []byte) (int, error) {
	if !sr.written {
		sr.statusCode = http.StatusOK
		sr.written = true
	}
	return sr.ResponseWriter.Write(b)
}
