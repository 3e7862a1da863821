package view

import (
	"github.com/verte-zerg/runboard/internal/model"
	"github.com/verte-zerg/runboard/internal/selection"
	"github.com/verte-zerg/runboard/internal/stats"
)

// View holds everything presentation needs for one state.
type View struct {
	Source      string
	Selection   model.Selection
	Stats       model.Statistics
	Timeline    model.GroupedSeries
	Persons     model.GroupedSeries
	PersonList  []string
	ShowPersons bool
	Rows        int
}

// Build derives a View. Stats and Timeline follow the selection; Persons always
// covers the full dataset and is only meant to be shown for all runners.
func Build(s *State) View {
	sel := s.Selection.Normalize()
	filtered := selection.Filter(s.Dataset, sel)
	return View{
		Source:      s.Source,
		Selection:   sel,
		Stats:       stats.Summarize(filtered),
		Timeline:    stats.GroupByDate(filtered),
		Persons:     stats.GroupByPerson(s.Dataset),
		PersonList:  selection.DistinctPersons(s.Dataset),
		ShowPersons: sel == model.AllRunners,
		Rows:        len(filtered),
	}
}
