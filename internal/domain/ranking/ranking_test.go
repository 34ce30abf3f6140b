package ranking_test

import (
	"testing"

	"github.com/okian/co2atlas/internal/domain/model"
	"github.com/okian/co2atlas/internal/domain/ranking"
	"github.com/okian/co2atlas/internal/domain/region"
	"github.com/okian/co2atlas/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func row(code string, year int, metrics map[string]float64) model.Observation {
	return model.Observation{EntityCode: code, EntityName: code, Year: year, Metrics: metrics}
}

func co2(code string, year int, v float64) model.Observation {
	return row(code, year, map[string]float64{"co2": v})
}

func TestLatestPerEntity(t *testing.T) {
	Convey("Given entities observed in different years", t, func() {
		rows := []model.Observation{
			co2("USA", 2000, 5),
			co2("FRA", 2000, 3),
			co2("USA", 2005, 8),
			row("FRA", 2005, map[string]float64{}),
			{EntityName: "Europe", Year: 2005, Metrics: map[string]float64{"co2": 100}},
		}

		Convey("When ranking by the latest value", func() {
			got := ranking.LatestPerEntity(rows, "co2")

			Convey("Then each entity keeps its last seen value", func() {
				So(got, ShouldResemble, []types.Entry{
					{Rank: 1, EntityCode: "USA", EntityName: "USA", Value: 8, Year: 2005},
					{Rank: 2, EntityCode: "FRA", EntityName: "FRA", Value: 3, Year: 2000},
				})
			})
		})

		Convey("When the metric is absent everywhere", func() {
			got := ranking.LatestPerEntity(rows, "methane")

			Convey("Then entities are excluded rather than zeroed", func() {
				So(got, ShouldBeEmpty)
			})
		})
	})
}

func TestTopK(t *testing.T) {
	Convey("Given tied and distinct values", t, func() {
		rows := []model.Observation{
			co2("AAA", 2000, 1),
			co2("BBB", 2000, 5),
			co2("CCC", 2000, 5),
			co2("DDD", 2000, 9),
			co2("DDD", 2001, 0.5),
		}

		Convey("When taking the top three", func() {
			got := ranking.TopK(rows, "co2", 3)

			Convey("Then ties keep encounter order", func() {
				So(got, ShouldHaveLength, 3)
				So(got[0].EntityCode, ShouldEqual, "BBB")
				So(got[1].EntityCode, ShouldEqual, "CCC")
				So(got[2].EntityCode, ShouldEqual, "AAA")
				So(got[2].Rank, ShouldEqual, 3)
			})
		})

		Convey("When pre-filtering by year", func() {
			got := ranking.TopK(region.ByYear(rows, 2000), "co2", 1)

			Convey("Then the exact-year value is used", func() {
				So(got, ShouldHaveLength, 1)
				So(got[0].EntityCode, ShouldEqual, "DDD")
				So(got[0].Value, ShouldEqual, 9)
			})
		})

		Convey("When k is not positive", func() {
			So(ranking.TopK(rows, "co2", 0), ShouldHaveLength, 4)
		})
	})
}

func TestValueAtYearAndRange(t *testing.T) {
	Convey("Given rows across years", t, func() {
		rows := []model.Observation{
			co2("USA", 1990, 4),
			co2("USA", 2000, 5),
			co2("FRA", 2000, 3),
			co2("", 2000, 99),
			row("DEU", 2010, map[string]float64{"gdp": 1}),
		}

		Convey("Then ValueAtYear keys exact-year values by code", func() {
			So(ranking.ValueAtYear(rows, "co2", 2000), ShouldResemble, map[string]float64{"USA": 5, "FRA": 3})
			So(ranking.ValueAtYear(rows, "co2", 1850), ShouldBeEmpty)
		})

		Convey("Then YearRange spans observed years of the metric", func() {
			from, to, ok := ranking.YearRange(rows, "co2")
			So(ok, ShouldBeTrue)
			So(from, ShouldEqual, 1990)
			So(to, ShouldEqual, 2000)

			_, _, ok = ranking.YearRange(rows, "methane")
			So(ok, ShouldBeFalse)
		})
	})
}

func TestSharesAndMix(t *testing.T) {
	Convey("Given a ranking", t, func() {
		entries := []types.Entry{{EntityCode: "A", Value: 3}, {EntityCode: "B", Value: 1}}

		Convey("Then shares sum to one", func() {
			shares := ranking.Shares(entries)
			So(shares[0].Share, ShouldEqual, 0.75)
			So(shares[1].Share, ShouldEqual, 0.25)
			So(ranking.Shares([]types.Entry{{Value: 0}})[0].Share, ShouldEqual, 0)
		})
	})

	Convey("Given per-capita fuel emissions", t, func() {
		rows := []model.Observation{
			row("USA", 2020, map[string]float64{"coal_co2_per_capita": 3, "oil_co2_per_capita": 6, "gas_co2_per_capita": 0}),
		}

		Convey("When computing the mix", func() {
			got := ranking.Mix(rows, "USA", 2020, ranking.DefaultMixComponents)

			Convey("Then only positive components remain", func() {
				So(got, ShouldResemble, []ranking.MixComponent{
					{Metric: "coal_co2_per_capita", Value: 3},
					{Metric: "oil_co2_per_capita", Value: 6},
				})
				So(ranking.Mix(rows, "USA", 1990, ranking.DefaultMixComponents), ShouldBeEmpty)
			})
		})
	})
}
