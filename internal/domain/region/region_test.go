package region_test

import (
	"errors"
	"testing"

	"github.com/okian/co2atlas/internal/domain/model"
	"github.com/okian/co2atlas/internal/domain/region"
	. "github.com/smartystreets/goconvey/convey"
)

func obs(code, name string, year int, metrics map[string]float64) model.Observation {
	return model.Observation{EntityCode: code, EntityName: name, Year: year, Metrics: metrics}
}

func TestFilter(t *testing.T) {
	Convey("Given rows for two countries and a continent", t, func() {
		rows := []model.Observation{
			obs("USA", "United States", 2000, map[string]float64{"co2": 10}),
			obs("USA", "United States", 2001, map[string]float64{}),
			obs("FRA", "France", 2000, map[string]float64{"co2": 5}),
			obs("", "Europe", 2000, map[string]float64{"co2": 7}),
			obs("OWID_EUR", "Europe", 2000, map[string]float64{"co2": 9}),
		}

		Convey("When filtering by country", func() {
			got := region.Filter(rows, region.Criteria{Mode: region.Country, Code: "USA", Metric: "co2"})

			Convey("Then only the row with a value is kept", func() {
				So(got, ShouldHaveLength, 1)
				So(got[0].Year, ShouldEqual, 2000)
				So(got[0].EntityCode, ShouldEqual, "USA")
			})
		})

		Convey("When filtering by continent", func() {
			got := region.Filter(rows, region.Criteria{Mode: region.Continent, Name: "Europe", Metric: "co2"})

			Convey("Then coded rows with the same name are excluded", func() {
				So(got, ShouldHaveLength, 1)
				v, _ := got[0].Value("co2")
				So(v, ShouldEqual, 7)
			})
		})

		Convey("When nothing matches", func() {
			got := region.Filter(rows, region.Criteria{Mode: region.Country, Code: "DEU", Metric: "co2"})

			Convey("Then the result is empty, not nil", func() {
				So(got, ShouldNotBeNil)
				So(got, ShouldBeEmpty)
			})
		})

		Convey("When pre-filtering helpers are applied", func() {
			So(region.ByYear(rows, 2001), ShouldHaveLength, 1)
			So(region.CodedOnly(rows), ShouldHaveLength, 4)
		})
	})
}

func TestCountries(t *testing.T) {
	Convey("Given rows with duplicates and aggregates", t, func() {
		rows := []model.Observation{
			obs("USA", "United States", 2000, nil),
			obs("FRA", "France", 2000, nil),
			obs("USA", "USA (renamed)", 2001, nil),
			obs("OWID_WRL", "World", 2000, nil),
			obs("", "Asia", 2000, nil),
		}

		Convey("When listing countries", func() {
			got := region.Countries(rows)

			Convey("Then aggregates are dropped, first names win and names are sorted", func() {
				So(got, ShouldResemble, []region.Entity{
					{Code: "FRA", Name: "France"},
					{Code: "USA", Name: "United States"},
				})
			})
		})
	})
}

func TestParseMode(t *testing.T) {
	Convey("Given mode strings", t, func() {
		m, err := region.ParseMode("Continent")
		So(err, ShouldBeNil)
		So(m, ShouldEqual, region.Continent)

		m, err = region.ParseMode("")
		So(err, ShouldBeNil)
		So(m, ShouldEqual, region.Country)

		_, err = region.ParseMode("planet")
		So(errors.Is(err, region.ErrUnknownMode), ShouldBeTrue)
		So(region.Continent.String(), ShouldEqual, "continent")
	})
}
