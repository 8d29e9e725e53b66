package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with default options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithPrometheusRegistry(registry))

			Convey("Then the gridiron namespace is used", func() {
				So(manager, ShouldNotBeNil)
				So(manager.namespace, ShouldEqual, "gridiron")
				So(manager.RefreshInterval(), ShouldEqual, defaultRefreshInterval)
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test"),
				WithSubsystem("unit"),
				WithHistogramBuckets([]float64{0.1, 0.5, 1.0}),
				WithMetricsEnabled(true),
				WithRefreshInterval(5*time.Second),
				WithCustomLabels(map[string]string{"env": "test"}),
				WithPrometheusRegistry(registry),
			)

			Convey("Then the options are applied", func() {
				So(manager.subsystem, ShouldEqual, "unit")
				So(manager.RefreshInterval(), ShouldEqual, 5*time.Second)
				manager.ratingCommits.Inc()
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				So(len(families), ShouldBeGreaterThan, 0)
			})
		})

		Convey("When empty options are passed", func() {
			manager := NewManager(
				WithNamespace(""),
				WithHistogramBuckets(nil),
				WithPrometheusRegistry(prometheus.NewRegistry()),
			)

			Convey("Then defaults are kept", func() {
				So(manager.namespace, ShouldEqual, "gridiron")
				So(manager.histogramBuckets, ShouldResemble, prometheus.DefBuckets)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given the global manager", t, func() {
		Convey("When recording engine metrics", func() {
			before := testutil.ToFloat64(Default().gamesProcessed.WithLabelValues("played"))
			RecordGameProcessed(true)
			RecordGameProcessed(false)
			RecordRatingCommits(2)
			RecordWalk(12*time.Millisecond, 256)
			UpdateTracked(32, 80)
			UpdateForecastBrier(0.21)
			RecordInputRejected("ordering")

			Convey("Then the counters and gauges move", func() {
				So(testutil.ToFloat64(Default().gamesProcessed.WithLabelValues("played")), ShouldEqual, before+1)
				So(testutil.ToFloat64(Default().logLength), ShouldEqual, 256)
				So(testutil.ToFloat64(Default().teamsTracked), ShouldEqual, 32)
				So(testutil.ToFloat64(Default().qbsTracked), ShouldEqual, 80)
				So(testutil.ToFloat64(Default().forecastBrier), ShouldAlmostEqual, 0.21)
			})
		})

		Convey("When recording recovered conditions", func() {
			before := testutil.ToFloat64(Default().geocodeFallbacks)
			RecordGeocodeFallback()
			RecordMissingPrior()
			RecordNumericDegenerate()

			Convey("Then each is counted", func() {
				So(testutil.ToFloat64(Default().geocodeFallbacks), ShouldEqual, before+1)
			})
		})

		Convey("When recording live and HTTP metrics", func() {
			So(func() {
				RecordGameSubmitted()
				RecordGameDuplicate()
				UpdateQueueSize(3)
				UpdateQueueCapacity(64)
				RecordQueueEnqueue()
				RecordQueueRejected("full")
				RecordWorkerLatency(1.5)
				RecordWorkerError()
				RecordHTTPRequest("/ratings", "GET", "200", 2.0)
				RecordErrorByEndpoint("/games", "POST", "validation_error")
				UpdateLogLength(257)
			}, ShouldNotPanic)

			Convey("Then the registry gathers", func() {
				n, err := Gather()
				So(err, ShouldBeNil)
				So(n, ShouldBeGreaterThan, 0)
				So(GetRegistry(), ShouldNotBeNil)
			})
		})
	})
}

func TestDisabledManager(t *testing.T) {
	Convey("Given recording is disabled", t, func() {
		saved := globalManager
		globalManager = NewManager(WithMetricsEnabled(false), WithPrometheusRegistry(prometheus.NewRegistry()))
		defer func() { globalManager = saved }()

		RecordRatingCommits(2)

		So(testutil.ToFloat64(globalManager.ratingCommits), ShouldEqual, 0)
	})
}
