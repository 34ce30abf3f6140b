package isocode_test

import (
	"testing"

	"github.com/okian/co2atlas/internal/domain/isocode"
	. "github.com/smartystreets/goconvey/convey"
)

func TestLookup(t *testing.T) {
	Convey("Given the ISO tables", t, func() {
		Convey("Then well-known codes round-trip", func() {
			n, ok := isocode.Numeric("USA")
			So(ok, ShouldBeTrue)
			So(n, ShouldEqual, 840)

			a3, ok := isocode.Alpha3(250)
			So(ok, ShouldBeTrue)
			So(a3, ShouldEqual, "FRA")

			n, ok = isocode.Numeric("DEU")
			So(ok, ShouldBeTrue)
			back, _ := isocode.Alpha3(n)
			So(back, ShouldEqual, "DEU")
		})

		Convey("Then aggregate codes are unknown", func() {
			_, ok := isocode.Numeric("OWID_WRL")
			So(ok, ShouldBeFalse)
			_, ok = isocode.Alpha3(-1)
			So(ok, ShouldBeFalse)
		})

		Convey("Then the table covers the world", func() {
			So(isocode.Len(), ShouldBeGreaterThan, 200)
		})
	})
}
