// Package selection narrows a dataset to one runner or the whole.
package selection

import "github.com/verte-zerg/runboard/internal/model"

// Filter returns the rows matching sel. AllRunners returns ds unchanged.
func Filter(ds model.Dataset, sel model.Selection) model.Dataset {
	sel = sel.Normalize()
	if sel == model.AllRunners {
		return ds
	}
	out := make(model.Dataset, 0, len(ds))
	for _, row := range ds {
		if row.Person == string(sel) {
			out = append(out, row)
		}
	}
	return out
}

// DistinctPersons returns each person once, in first-occurrence order.
func DistinctPersons(ds model.Dataset) []string {
	seen := make(map[string]struct{})
	persons := make([]string, 0)
	for _, row := range ds {
		if _, ok := seen[row.Person]; ok {
			continue
		}
		seen[row.Person] = struct{}{}
		persons = append(persons, row.Person)
	}
	return persons
}

// Options returns the selector entries: AllRunners followed by each person.
func Options(ds model.Dataset) []model.Selection {
	persons := DistinctPersons(ds)
	opts := make([]model.Selection, 0, len(persons)+1)
	opts = append(opts, model.AllRunners)
	for _, p := range persons {
		opts = append(opts, model.Selection(p))
	}
	return opts
}

// Contains reports whether sel is AllRunners or names a person in ds.
func Contains(ds model.Dataset, sel model.Selection) bool {
	sel = sel.Normalize()
	if sel == model.AllRunners {
		return true
	}
	for _, row := range ds {
		if row.Person == string(sel) {
			return true
		}
	}
	return false
}

// Cycle moves delta steps through Options from current, wrapping at both ends.
// An unknown current selection resets to AllRunners.
func Cycle(ds model.Dataset, current model.Selection, delta int) model.Selection {
	opts := Options(ds)
	idx := -1
	current = current.Normalize()
	for i, opt := range opts {
		if opt == current {
			idx = i
			break
		}
	}
	if idx == -1 {
		return model.AllRunners
	}
	next := (idx + delta) % len(opts)
	if next < 0 {
		next += len(opts)
	}
	return opts[next]
}
