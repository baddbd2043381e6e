package clock_test

import (
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/erzhan12/habit-reward-go/internal/common/clock"
)

func TestUserToday(t *testing.T) {
	Convey("Given a fixed instant", t, func() {
		fixed := time.Date(2024, 1, 15, 2, 0, 0, 0, time.UTC) // 02:00 UTC
		now := func() time.Time { return fixed }

		Convey("When the zone is a valid IANA zone behind UTC", func() {
			d := clock.UserNow("America/New_York", now)

			Convey("Then it returns the prior calendar date in that zone", func() {
				So(d.String(), ShouldEqual, "2024-01-14")
			})
		})

		Convey("When the zone is blank", func() {
			d := clock.UserNow("", now)

			Convey("Then it falls back to the UTC date", func() {
				So(d.String(), ShouldEqual, "2024-01-15")
			})
		})

		Convey("When the zone is invalid", func() {
			d := clock.UserNow("Not/AZone", now)

			Convey("Then it falls back to the UTC date and records no error", func() {
				So(d.String(), ShouldEqual, "2024-01-15")
			})
		})
	})
}

func TestValidateZone(t *testing.T) {
	Convey("Given ValidateZone", t, func() {
		Convey("When the zone is valid", func() {
			So(clock.ValidateZone("Europe/Moscow"), ShouldBeTrue)
		})
		Convey("When the zone is blank", func() {
			So(clock.ValidateZone(""), ShouldBeFalse)
		})
		Convey("When the zone is garbage", func() {
			So(clock.ValidateZone("definitely/not-a-zone"), ShouldBeFalse)
		})
	})
}

func TestDateArithmetic(t *testing.T) {
	Convey("Given a date", t, func() {
		d, err := clock.ParseDate("2024-01-15")
		So(err, ShouldBeNil)

		Convey("AddDays(-7) should land on 2024-01-08", func() {
			So(d.AddDays(-7).String(), ShouldEqual, "2024-01-08")
		})

		Convey("ISOWeekday for 2024-01-15 (a Monday) is 1", func() {
			So(d.ISOWeekday(), ShouldEqual, 1)
		})

		Convey("ISOWeekday for 2024-01-14 (a Sunday) is 7", func() {
			sunday := d.AddDays(-1)
			So(sunday.ISOWeekday(), ShouldEqual, 7)
		})
	})
}
