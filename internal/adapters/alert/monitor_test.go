package alert

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/okian/vigil/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func fall(conf float64, at time.Time) model.DetectionResult {
	return model.DetectionResult{
		FallDetected: true,
		Confidence:   conf,
		Timestamp:    at,
		VideoTime:    12 * time.Second,
	}
}

func quiet(at time.Time) model.DetectionResult {
	return model.DetectionResult{Timestamp: at}
}

func TestMonitor_RisingEdge(t *testing.T) {
	Convey("Given an idle monitor", t, func() {
		m := NewMonitor()
		now := time.Unix(1700000000, 0)

		Convey("When a fall is first observed", func() {
			inc, raised := m.Observe(fall(0.7, now))

			Convey("Then it should raise one incident", func() {
				So(raised, ShouldBeTrue)
				So(inc.ID, ShouldNotEqual, uuid.Nil)
				So(inc.Confidence, ShouldEqual, 0.7)
				So(inc.At, ShouldEqual, now)
				So(inc.VideoTime, ShouldEqual, 12*time.Second)
			})

			Convey("And continued fall frames should not raise again", func() {
				_, again := m.Observe(fall(0.9, now.Add(100*time.Millisecond)))
				So(again, ShouldBeFalse)
			})

			Convey("And a quiet frame followed by a new fall should raise a fresh incident", func() {
				_, raised = m.Observe(quiet(now.Add(time.Second)))
				So(raised, ShouldBeFalse)

				second, raised := m.Observe(fall(0.4, now.Add(2*time.Second)))
				So(raised, ShouldBeTrue)
				So(second.ID, ShouldNotEqual, inc.ID)
			})
		})

		Convey("When only quiet frames are observed", func() {
			for i := 0; i < 5; i++ {
				_, raised := m.Observe(quiet(now.Add(time.Duration(i) * time.Second)))
				So(raised, ShouldBeFalse)
			}

			Convey("Then no incident should be recorded", func() {
				_, ok := m.Last()
				So(ok, ShouldBeFalse)
				So(m.Observed(), ShouldEqual, 5)
			})
		})
	})
}

func TestMonitor_LastAndReset(t *testing.T) {
	Convey("Given a monitor with a raised incident", t, func() {
		m := NewMonitor()
		now := time.Unix(1700000000, 0)
		inc, raised := m.Observe(fall(0.55, now))
		So(raised, ShouldBeTrue)

		Convey("When querying the last incident", func() {
			last, ok := m.Last()

			Convey("Then it should match the raised one", func() {
				So(ok, ShouldBeTrue)
				So(last.ID, ShouldEqual, inc.ID)
			})
		})

		Convey("When resetting", func() {
			m.Reset()

			Convey("Then the history should be cleared", func() {
				_, ok := m.Last()
				So(ok, ShouldBeFalse)
				So(m.Observed(), ShouldEqual, 0)
			})

			Convey("And the next fall should raise immediately", func() {
				_, raised := m.Observe(fall(0.8, now.Add(time.Second)))
				So(raised, ShouldBeTrue)
			})
		})
	})
}
