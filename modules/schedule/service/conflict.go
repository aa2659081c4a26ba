package service

import (
	"stagecrew-api/modules/schedule/entity"
)

// FindConflicts returns every existing schedule on the candidate's date whose
// time range overlaps the candidate's and whose audience intersects it. The
// candidate itself is excluded by ID so edits do not conflict with their own
// stored row. Back-to-back blocks do not conflict.
func FindConflicts(candidate *entity.DailySchedule, existing []entity.DailySchedule) []entity.DailySchedule {
	var conflicts []entity.DailySchedule
	for i := range existing {
		other := &existing[i]
		if other.ID == candidate.ID {
			continue
		}
		if !candidate.SameDate(other) {
			continue
		}
		if !candidate.Range().Overlaps(other.Range()) {
			continue
		}
		if !candidate.Audience.Intersects(other.Audience) {
			continue
		}
		conflicts = append(conflicts, *other)
	}
	return conflicts
}
