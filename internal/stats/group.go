package stats

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/verte-zerg/runboard/internal/model"
)

// GroupByDate sums miles per exact date string, in first-occurrence order.
// Dates are not normalized: "2024-01-01" and "1/1/2024" are distinct keys.
func GroupByDate(rows model.Dataset) model.GroupedSeries {
	return groupBy(rows, func(r model.Row) string { return r.Date })
}

// GroupByPerson sums miles per person, in first-occurrence order. Callers pass
// the full dataset so the breakdown ignores any active selection.
func GroupByPerson(rows model.Dataset) model.GroupedSeries {
	return groupBy(rows, func(r model.Row) string { return r.Person })
}

func groupBy(rows model.Dataset, key func(model.Row) string) model.GroupedSeries {
	sums := orderedmap.New[string, float64]()
	for _, row := range rows {
		k := key(row)
		sum, _ := sums.Get(k)
		sums.Set(k, sum+row.Miles)
	}
	out := make(model.GroupedSeries, 0, sums.Len())
	for pair := sums.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, model.Point{Key: pair.Key, Miles: pair.Value})
	}
	return out
}
