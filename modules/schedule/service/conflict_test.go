package service

import (
	"testing"

	"github.com/google/uuid"

	"stagecrew-api/core/timerange"
	eventEntity "stagecrew-api/modules/event/entity"
	"stagecrew-api/modules/schedule/entity"
)

func block(t *testing.T, date, start, end string, audience eventEntity.Audience) entity.DailySchedule {
	t.Helper()
	day, err := timerange.ParseDate(date)
	if err != nil {
		t.Fatalf("parse date: %v", err)
	}
	startAt, err := timerange.ParseClock(date, start)
	if err != nil {
		t.Fatalf("parse start: %v", err)
	}
	endAt, err := timerange.ParseClock(date, end)
	if err != nil {
		t.Fatalf("parse end: %v", err)
	}
	return entity.DailySchedule{
		ID:       uuid.New(),
		Date:     day,
		StartAt:  startAt,
		EndAt:    endAt,
		Audience: audience,
	}
}

func TestFindConflictsOverlappingSameDay(t *testing.T) {
	// Event window 2025-06-01..2025-06-03, blocks on 06-02.
	a := block(t, "2025-06-02", "09:00", "12:00", eventEntity.AudienceBoth)
	b := block(t, "2025-06-02", "11:00", "13:00", eventEntity.AudienceTechniques)

	got := FindConflicts(&b, []entity.DailySchedule{a})
	if len(got) != 1 || got[0].ID != a.ID {
		t.Fatalf("expected [a], got %+v", got)
	}
}

func TestFindConflictsBackToBackBlocks(t *testing.T) {
	a := block(t, "2025-06-02", "09:00", "12:00", eventEntity.AudienceBoth)
	b := block(t, "2025-06-02", "12:00", "14:00", eventEntity.AudienceBoth)

	if got := FindConflicts(&b, []entity.DailySchedule{a}); len(got) != 0 {
		t.Fatalf("back-to-back blocks must not conflict, got %+v", got)
	}
}

func TestFindConflictsDifferentDates(t *testing.T) {
	a := block(t, "2025-06-01", "09:00", "12:00", eventEntity.AudienceBoth)
	b := block(t, "2025-06-02", "09:00", "12:00", eventEntity.AudienceBoth)

	if got := FindConflicts(&b, []entity.DailySchedule{a}); len(got) != 0 {
		t.Fatalf("blocks on different days must not conflict, got %+v", got)
	}
}

func TestFindConflictsDisjointAudiences(t *testing.T) {
	a := block(t, "2025-06-02", "09:00", "12:00", eventEntity.AudienceTechniques)
	b := block(t, "2025-06-02", "10:00", "11:00", eventEntity.AudienceArtistiques)

	if got := FindConflicts(&b, []entity.DailySchedule{a}); len(got) != 0 {
		t.Fatalf("disjoint audiences must not conflict, got %+v", got)
	}
}

func TestFindConflictsBothWildcardMatchesEitherSide(t *testing.T) {
	concrete := block(t, "2025-06-02", "09:00", "12:00", eventEntity.AudienceArtistiques)
	wildcard := block(t, "2025-06-02", "10:00", "11:00", eventEntity.AudienceBoth)

	if got := FindConflicts(&wildcard, []entity.DailySchedule{concrete}); len(got) != 1 {
		t.Fatalf("wildcard candidate must conflict with concrete audience, got %+v", got)
	}
	if got := FindConflicts(&concrete, []entity.DailySchedule{wildcard}); len(got) != 1 {
		t.Fatalf("concrete candidate must conflict with wildcard audience, got %+v", got)
	}
}

func TestFindConflictsExcludesCandidateItself(t *testing.T) {
	a := block(t, "2025-06-02", "09:00", "12:00", eventEntity.AudienceBoth)

	// Editing a block in place: its stored row must not count as a conflict.
	edited := a
	edited.StartAt, _ = timerange.ParseClock("2025-06-02", "09:30")

	if got := FindConflicts(&edited, []entity.DailySchedule{a}); len(got) != 0 {
		t.Fatalf("a schedule must not conflict with itself when edited, got %+v", got)
	}
}

func TestFindConflictsReturnsAllOverlaps(t *testing.T) {
	a := block(t, "2025-06-02", "09:00", "11:00", eventEntity.AudienceBoth)
	b := block(t, "2025-06-02", "10:00", "12:00", eventEntity.AudienceTechniques)
	c := block(t, "2025-06-02", "16:00", "18:00", eventEntity.AudienceBoth)
	candidate := block(t, "2025-06-02", "10:30", "17:00", eventEntity.AudienceBoth)

	got := FindConflicts(&candidate, []entity.DailySchedule{a, b, c})
	if len(got) != 3 {
		t.Fatalf("expected 3 conflicts, got %d", len(got))
	}
}

func TestGroupByDateOrdersChronologically(t *testing.T) {
	late := block(t, "2025-06-03", "09:00", "10:00", eventEntity.AudienceBoth)
	earlyAfternoon := block(t, "2025-06-01", "14:00", "15:00", eventEntity.AudienceBoth)
	earlyMorning := block(t, "2025-06-01", "09:00", "10:00", eventEntity.AudienceBoth)

	groups := entity.GroupByDate([]entity.DailySchedule{late, earlyAfternoon, earlyMorning})

	if len(groups) != 2 {
		t.Fatalf("expected 2 day groups, got %d", len(groups))
	}
	if !groups[0].Date.Before(groups[1].Date) {
		t.Fatal("day groups must be chronological")
	}
	day1 := groups[0].Schedules
	if len(day1) != 2 || day1[0].ID != earlyMorning.ID || day1[1].ID != earlyAfternoon.ID {
		t.Fatalf("within a day, blocks must be ordered by start time: %+v", day1)
	}
}
