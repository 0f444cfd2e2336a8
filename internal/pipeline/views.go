package pipeline

import (
	"slices"

	"github.com/lfournier/datebook/internal/model"
)

// Stats summarizes a date list for the dashboard.
type Stats struct {
	Total             int            `json:"total"`
	Completed         int            `json:"completed"`
	Pending           int            `json:"pending"`
	CompletionPercent int            `json:"completionPercent"`
	PerCategory       map[string]int `json:"perCategory"`
}

// ComputeStats derives dashboard counters from the full date list.
func ComputeStats(dates []model.Date) Stats {
	s := Stats{
		Total:       len(dates),
		PerCategory: make(map[string]int),
	}
	for _, d := range dates {
		if d.Done {
			s.Completed++
		} else {
			s.Pending++
		}
		s.PerCategory[d.Category]++
	}
	if s.Total > 0 {
		s.CompletionPercent = s.Completed * 100 / s.Total
	}
	return s
}

// Souvenirs returns the completed dates that carry a realization date,
// newest memory first. This feeds the timeline view.
func Souvenirs(dates []model.Date) []model.Date {
	result := make([]model.Date, 0, len(dates))
	for _, d := range dates {
		if d.Done && d.DateRealised != nil {
			result = append(result, d)
		}
	}
	slices.SortStableFunc(result, func(a, b model.Date) int {
		return b.DateRealised.Compare(*a.DateRealised)
	})
	return result
}
