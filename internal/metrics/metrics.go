// PressGate - Multi-Tenant Publishing Platform Backend
// Copyright 2026 PressGate Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pressgate/pressgate

// Package metrics exposes the platform's Prometheus instrumentation:
// API endpoint latency and throughput, badger store health, article
// moderation activity, and the WordPress photo pipeline.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	// Store Metrics
	StoreTxnRetries = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "store_txn_retries_total",
			Help: "Total number of badger transactions retried after a conflict",
		},
	)

	StoreGCRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "store_value_log_gc_runs_total",
			Help: "Total number of badger value log GC runs",
		},
		[]string{"outcome"}, // "reclaimed", "nothing", "error"
	)

	// Moderation Metrics
	ArticleReports = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "article_reports_total",
			Help: "Total number of article report and undo operations",
		},
		[]string{"action"}, // "report", "undo"
	)

	// WordPress Ingest Metrics
	PhotoFetches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wordpress_photo_fetches_total",
			Help: "Total number of WordPress photo fetch attempts",
		},
		[]string{"outcome"}, // "success", "failure"
	)

	EmailDeliveries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "email_deliveries_total",
			Help: "Total number of transactional email delivery attempts",
		},
		[]string{"outcome"}, // "success", "failure"
	)
)

// RecordAPIRequest records a completed API request.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest adjusts the in-flight request gauge.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordTxnRetry counts one conflict-driven transaction retry.
func RecordTxnRetry() {
	StoreTxnRetries.Inc()
}

// RecordGCRun counts one value log GC attempt by outcome.
func RecordGCRun(outcome string) {
	StoreGCRuns.WithLabelValues(outcome).Inc()
}

// RecordArticleReport counts a report or undo operation.
func RecordArticleReport(action string) {
	ArticleReports.WithLabelValues(action).Inc()
}

// RecordPhotoFetch counts a WordPress photo fetch attempt by outcome.
func RecordPhotoFetch(outcome string) {
	PhotoFetches.WithLabelValues(outcome).Inc()
}

// RecordEmailDelivery counts a transactional email attempt by outcome.
func RecordEmailDelivery(outcome string) {
	EmailDeliveries.WithLabelValues(outcome).Inc()
}
