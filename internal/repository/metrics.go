package repository

import (
	"time"

	"github.com/ivanoskov/awards_bot/internal/metrics"
)

func observe(query string, start time.Time) {
	metrics.StorageQueryDuration.WithLabelValues(query).Observe(time.Since(start).Seconds())
}
