package prometheus

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/ritikk978/next-nest/pkg/config"
)

func TestRecordHelpers(t *testing.T) {
	InitMetrics(&config.Config{Metrics: config.MetricsConfig{Prefix: "nextnest_test"}})

	RecordPropertyView("Pune")
	RecordPropertyView("Pune")
	RecordPropertyView("Mumbai")
	assert.Equal(t, float64(2), testutil.ToFloat64(PropertyViewsCounter.WithLabelValues("Pune")))
	assert.Equal(t, float64(1), testutil.ToFloat64(PropertyViewsCounter.WithLabelValues("Mumbai")))

	RecordBookingOperation("create")
	assert.Equal(t, float64(1), testutil.ToFloat64(BookingOperationsCounter.WithLabelValues("create")))

	RecordPaymentAmount("RENT_PAYMENT", 21200)
	assert.Equal(t, float64(21200), testutil.ToFloat64(PaymentAmountTotal.WithLabelValues("RENT_PAYMENT")))
}
