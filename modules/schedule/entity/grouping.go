package entity

import (
	"sort"
	"time"
)

// DayGroup holds one day's schedules ordered by start time.
type DayGroup struct {
	Date      time.Time
	Schedules []DailySchedule
}

// GroupByDate groups schedules by calendar day, days in chronological order,
// blocks ordered by start time (position breaks ties) within each day.
func GroupByDate(schedules []DailySchedule) []DayGroup {
	byDay := make(map[time.Time][]DailySchedule)
	for _, s := range schedules {
		y, m, d := s.Date.Date()
		day := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
		byDay[day] = append(byDay[day], s)
	}

	groups := make([]DayGroup, 0, len(byDay))
	for day, items := range byDay {
		sort.Slice(items, func(i, j int) bool {
			if !items[i].StartAt.Equal(items[j].StartAt) {
				return items[i].StartAt.Before(items[j].StartAt)
			}
			return items[i].Position < items[j].Position
		})
		groups = append(groups, DayGroup{Date: day, Schedules: items})
	}

	sort.Slice(groups, func(i, j int) bool {
		return groups[i].Date.Before(groups[j].Date)
	})
	return groups
}
