package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"stagecrew-api/core/constants"
	"stagecrew-api/core/database"
	coreEntity "stagecrew-api/core/entity"
	"stagecrew-api/core/errors"
	"stagecrew-api/modules/schedule/dto"
	"stagecrew-api/modules/schedule/entity"

	eventEntity "stagecrew-api/modules/event/entity"
)

type scheduleRepoStub struct {
	schedules    map[uuid.UUID]*entity.DailySchedule
	versionStale bool
	positions    [][]uuid.UUID
}

func newScheduleRepoStub() *scheduleRepoStub {
	return &scheduleRepoStub{schedules: make(map[uuid.UUID]*entity.DailySchedule)}
}

func (s *scheduleRepoStub) Create(ctx context.Context, q database.Queryer, schedule *entity.DailySchedule) (*entity.DailySchedule, error) {
	created := *schedule
	created.ID = uuid.New()
	created.Position = len(s.schedules)
	s.schedules[created.ID] = &created
	cp := created
	return &cp, nil
}

func (s *scheduleRepoStub) GetByID(ctx context.Context, id uuid.UUID) (*entity.DailySchedule, error) {
	sched, ok := s.schedules[id]
	if !ok {
		return nil, nil
	}
	cp := *sched
	return &cp, nil
}

func (s *scheduleRepoStub) ListByEvent(ctx context.Context, eventID uuid.UUID) ([]entity.DailySchedule, error) {
	var out []entity.DailySchedule
	for _, sched := range s.schedules {
		if sched.EventID == eventID {
			out = append(out, *sched)
		}
	}
	return out, nil
}

func (s *scheduleRepoStub) ListByEventAndDate(ctx context.Context, q database.Queryer, eventID uuid.UUID, date time.Time) ([]entity.DailySchedule, error) {
	var out []entity.DailySchedule
	for _, sched := range s.schedules {
		if sched.EventID == eventID && sched.Date.Equal(date) {
			out = append(out, *sched)
		}
	}
	return out, nil
}

func (s *scheduleRepoStub) Update(ctx context.Context, q database.Queryer, schedule *entity.DailySchedule) (*entity.DailySchedule, error) {
	if s.versionStale {
		return nil, nil
	}
	stored, ok := s.schedules[schedule.ID]
	if !ok || stored.Version != schedule.Version {
		return nil, nil
	}
	updated := *schedule
	updated.Version = stored.Version + 1
	s.schedules[schedule.ID] = &updated
	cp := updated
	return &cp, nil
}

func (s *scheduleRepoStub) Delete(ctx context.Context, id uuid.UUID) error {
	delete(s.schedules, id)
	return nil
}

func (s *scheduleRepoStub) UpdatePositions(ctx context.Context, q database.Queryer, eventID uuid.UUID, date time.Time, orderedIDs []uuid.UUID) error {
	s.positions = append(s.positions, orderedIDs)
	for pos, id := range orderedIDs {
		if sched, ok := s.schedules[id]; ok {
			sched.Position = pos
		}
	}
	return nil
}

type eventStoreStub struct {
	event   *eventEntity.Event
	history []eventEntity.EventHistory
}

func (s *eventStoreStub) GetByID(ctx context.Context, id uuid.UUID) (*eventEntity.Event, error) {
	if s.event == nil || s.event.ID != id {
		return nil, nil
	}
	cp := *s.event
	return &cp, nil
}

func (s *eventStoreStub) LockEvent(ctx context.Context, q database.Queryer, id uuid.UUID) error {
	return nil
}

func (s *eventStoreStub) AppendHistory(ctx context.Context, q database.Queryer, h *eventEntity.EventHistory) error {
	s.history = append(s.history, *h)
	return nil
}

type txRunnerStub struct{}

func (txRunnerStub) WithinTransaction(ctx context.Context, fn func(tx database.Queryer) error) error {
	return fn(nil)
}

var (
	authority = coreEntity.Actor{ID: uuid.New(), Role: constants.RoleSchedulingAuthority}
	worker    = coreEntity.Actor{ID: uuid.New(), Role: constants.RoleWorker}
)

// publishedEvent spans 2025-06-01 through 2025-06-03.
func publishedEvent() *eventEntity.Event {
	return &eventEntity.Event{
		ID:       uuid.New(),
		Title:    "Nuit des Musées",
		StartAt:  time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC),
		EndAt:    time.Date(2025, 6, 3, 23, 0, 0, 0, time.UTC),
		Audience: eventEntity.AudienceBoth,
		Status:   eventEntity.EventStatusPublished,
	}
}

func scheduleRequest(date, start, end, audience string) *dto.CreateScheduleRequest {
	return &dto.CreateScheduleRequest{
		Date:      date,
		StartTime: start,
		EndTime:   end,
		Title:     "Montage plateau",
		Audience:  audience,
	}
}

func newTestSetup() (*scheduleRepoStub, *eventStoreStub, ScheduleServiceInterface) {
	repo := newScheduleRepoStub()
	events := &eventStoreStub{event: publishedEvent()}
	svc := NewScheduleService(repo, events, txRunnerStub{})
	return repo, events, svc
}

func TestCreateScheduleRequiresSchedulingAuthority(t *testing.T) {
	_, events, svc := newTestSetup()

	_, appErr := svc.CreateSchedule(context.Background(), worker, events.event.ID, scheduleRequest("2025-06-02", "09:00", "12:00", "both"))
	if appErr == nil || appErr.Code != errors.ErrPermissionDenied {
		t.Fatalf("expected PERMISSION_DENIED, got %v", appErr)
	}
}

func TestCreateScheduleRejectsInvertedRange(t *testing.T) {
	_, events, svc := newTestSetup()

	_, appErr := svc.CreateSchedule(context.Background(), authority, events.event.ID, scheduleRequest("2025-06-02", "12:00", "09:00", "both"))
	if appErr == nil || appErr.Code != errors.ErrInvalidRange {
		t.Fatalf("expected INVALID_RANGE, got %v", appErr)
	}
}

func TestCreateScheduleRejectsDateOutsideEventWindow(t *testing.T) {
	_, events, svc := newTestSetup()

	_, appErr := svc.CreateSchedule(context.Background(), authority, events.event.ID, scheduleRequest("2025-06-04", "09:00", "12:00", "both"))
	if appErr == nil || appErr.Code != errors.ErrOutOfRange {
		t.Fatalf("expected OUT_OF_RANGE, got %v", appErr)
	}
}

func TestCreateScheduleSurfacesConflictsAsPending(t *testing.T) {
	_, events, svc := newTestSetup()
	ctx := context.Background()

	if _, appErr := svc.CreateSchedule(ctx, authority, events.event.ID, scheduleRequest("2025-06-02", "09:00", "12:00", "both")); appErr != nil {
		t.Fatalf("first schedule: %v", appErr)
	}

	_, appErr := svc.CreateSchedule(ctx, authority, events.event.ID, scheduleRequest("2025-06-02", "11:00", "13:00", "techniques"))
	if appErr == nil || appErr.Code != errors.ErrConflictsPending {
		t.Fatalf("expected CONFLICTS_PENDING, got %v", appErr)
	}

	list, ok := appErr.Details.(dto.ConflictListResponse)
	if !ok || len(list.Conflicts) != 1 {
		t.Fatalf("expected the conflicting block in details, got %+v", appErr.Details)
	}
}

func TestCreateScheduleProceedsWhenConflictsAcknowledged(t *testing.T) {
	repo, events, svc := newTestSetup()
	ctx := context.Background()

	if _, appErr := svc.CreateSchedule(ctx, authority, events.event.ID, scheduleRequest("2025-06-02", "09:00", "12:00", "both")); appErr != nil {
		t.Fatalf("first schedule: %v", appErr)
	}

	req := scheduleRequest("2025-06-02", "11:00", "13:00", "techniques")
	req.AcknowledgeConflicts = true

	if _, appErr := svc.CreateSchedule(ctx, authority, events.event.ID, req); appErr != nil {
		t.Fatalf("acknowledged write must proceed, got %v", appErr)
	}
	if len(repo.schedules) != 2 {
		t.Fatalf("expected 2 stored schedules, got %d", len(repo.schedules))
	}

	// the override is recorded for audit
	if len(events.history) != 1 || events.history[0].Action != eventEntity.HistoryActionConflictOverridden {
		t.Fatalf("expected a conflict-overridden history entry, got %+v", events.history)
	}
}

func TestCreateScheduleAllowsBackToBackWithoutAcknowledgement(t *testing.T) {
	_, events, svc := newTestSetup()
	ctx := context.Background()

	if _, appErr := svc.CreateSchedule(ctx, authority, events.event.ID, scheduleRequest("2025-06-02", "09:00", "12:00", "both")); appErr != nil {
		t.Fatalf("first schedule: %v", appErr)
	}
	if _, appErr := svc.CreateSchedule(ctx, authority, events.event.ID, scheduleRequest("2025-06-02", "12:00", "14:00", "both")); appErr != nil {
		t.Fatalf("back-to-back schedule must not need acknowledgement, got %v", appErr)
	}
}

func TestScheduleWritesRejectedOnTerminalEvent(t *testing.T) {
	for _, status := range []eventEntity.EventStatus{eventEntity.EventStatusCancelled, eventEntity.EventStatusCompleted} {
		t.Run(string(status), func(t *testing.T) {
			_, events, svc := newTestSetup()
			events.event.Status = status

			_, appErr := svc.CreateSchedule(context.Background(), authority, events.event.ID, scheduleRequest("2025-06-02", "09:00", "12:00", "both"))
			if appErr == nil || appErr.Code != errors.ErrInvalidTransition {
				t.Fatalf("expected INVALID_TRANSITION on %s event, got %v", status, appErr)
			}
		})
	}
}

func TestUpdateScheduleDoesNotConflictWithItself(t *testing.T) {
	_, events, svc := newTestSetup()
	ctx := context.Background()

	created, appErr := svc.CreateSchedule(ctx, authority, events.event.ID, scheduleRequest("2025-06-02", "09:00", "12:00", "both"))
	if appErr != nil {
		t.Fatalf("create: %v", appErr)
	}
	id, _ := uuid.Parse(created.ID)

	upd := &dto.UpdateScheduleRequest{
		Date: "2025-06-02", StartTime: "09:30", EndTime: "12:30",
		Title: "Montage plateau", Audience: "both",
	}
	if _, appErr := svc.UpdateSchedule(ctx, authority, id, upd); appErr != nil {
		t.Fatalf("edit overlapping only itself must pass, got %v", appErr)
	}
}

func TestUpdateScheduleReportsConcurrentModification(t *testing.T) {
	repo, events, svc := newTestSetup()
	ctx := context.Background()

	created, appErr := svc.CreateSchedule(ctx, authority, events.event.ID, scheduleRequest("2025-06-02", "09:00", "12:00", "both"))
	if appErr != nil {
		t.Fatalf("create: %v", appErr)
	}
	id, _ := uuid.Parse(created.ID)
	repo.versionStale = true

	upd := &dto.UpdateScheduleRequest{
		Date: "2025-06-02", StartTime: "10:00", EndTime: "11:00",
		Title: "Montage plateau", Audience: "both",
	}
	_, appErr = svc.UpdateSchedule(ctx, authority, id, upd)
	if appErr == nil || appErr.Code != errors.ErrConcurrentModification {
		t.Fatalf("expected CONCURRENT_MODIFICATION, got %v", appErr)
	}
}

func TestListConflictsIsReadOnly(t *testing.T) {
	repo, events, svc := newTestSetup()
	ctx := context.Background()

	if _, appErr := svc.CreateSchedule(ctx, authority, events.event.ID, scheduleRequest("2025-06-02", "09:00", "12:00", "both")); appErr != nil {
		t.Fatalf("create: %v", appErr)
	}

	resp, appErr := svc.ListConflicts(ctx, events.event.ID, scheduleRequest("2025-06-02", "11:00", "13:00", "techniques"))
	if appErr != nil {
		t.Fatalf("list conflicts: %v", appErr)
	}
	if len(resp.Conflicts) != 1 {
		t.Fatalf("expected 1 conflict, got %d", len(resp.Conflicts))
	}
	if len(repo.schedules) != 1 {
		t.Fatal("ListConflicts must not write")
	}
}

func TestReorderSchedulesRewritesPositionsAtomically(t *testing.T) {
	repo, events, svc := newTestSetup()
	ctx := context.Background()

	first, _ := svc.CreateSchedule(ctx, authority, events.event.ID, scheduleRequest("2025-06-02", "09:00", "10:00", "both"))
	second, _ := svc.CreateSchedule(ctx, authority, events.event.ID, scheduleRequest("2025-06-02", "10:00", "11:00", "both"))

	req := &dto.ReorderSchedulesRequest{
		Date:       "2025-06-02",
		OrderedIDs: []string{second.ID, first.ID},
	}
	if _, appErr := svc.ReorderSchedules(ctx, authority, events.event.ID, req); appErr != nil {
		t.Fatalf("reorder: %v", appErr)
	}
	if len(repo.positions) != 1 {
		t.Fatalf("expected one atomic position rewrite, got %d", len(repo.positions))
	}

	secondID, _ := uuid.Parse(second.ID)
	if repo.schedules[secondID].Position != 0 {
		t.Fatalf("second block should now lead the day, position = %d", repo.schedules[secondID].Position)
	}
}

func TestReorderSchedulesRejectsPartialOrdering(t *testing.T) {
	_, events, svc := newTestSetup()
	ctx := context.Background()

	first, _ := svc.CreateSchedule(ctx, authority, events.event.ID, scheduleRequest("2025-06-02", "09:00", "10:00", "both"))
	svc.CreateSchedule(ctx, authority, events.event.ID, scheduleRequest("2025-06-02", "10:00", "11:00", "both"))

	req := &dto.ReorderSchedulesRequest{
		Date:       "2025-06-02",
		OrderedIDs: []string{first.ID},
	}
	_, appErr := svc.ReorderSchedules(ctx, authority, events.event.ID, req)
	if appErr == nil || appErr.Code != errors.ErrInvalidInput {
		t.Fatalf("expected INVALID_INPUT for partial ordering, got %v", appErr)
	}
}
