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
	"stagecrew-api/modules/assignment/dto"
	"stagecrew-api/modules/assignment/entity"

	eventEntity "stagecrew-api/modules/event/entity"
)

type assignmentRepoStub struct {
	assignments  map[uuid.UUID]*entity.Assignment
	versionStale bool
}

func newAssignmentRepoStub() *assignmentRepoStub {
	return &assignmentRepoStub{assignments: make(map[uuid.UUID]*entity.Assignment)}
}

func (s *assignmentRepoStub) Create(ctx context.Context, assignment *entity.Assignment) (*entity.Assignment, error) {
	created := *assignment
	created.ID = uuid.New()
	created.CreatedAt = time.Now().UTC()
	s.assignments[created.ID] = &created
	cp := created
	return &cp, nil
}

func (s *assignmentRepoStub) GetByID(ctx context.Context, id uuid.UUID) (*entity.Assignment, error) {
	a, ok := s.assignments[id]
	if !ok {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

func (s *assignmentRepoStub) GetByEventAndWorker(ctx context.Context, eventID, workerID uuid.UUID) (*entity.Assignment, error) {
	for _, a := range s.assignments {
		if a.EventID == eventID && a.WorkerID == workerID {
			cp := *a
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *assignmentRepoStub) ListByEvent(ctx context.Context, q database.Queryer, eventID uuid.UUID) ([]entity.Assignment, error) {
	var out []entity.Assignment
	for _, a := range s.assignments {
		if a.EventID == eventID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (s *assignmentRepoStub) ListByWorker(ctx context.Context, workerID uuid.UUID) ([]entity.Assignment, error) {
	var out []entity.Assignment
	for _, a := range s.assignments {
		if a.WorkerID == workerID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (s *assignmentRepoStub) UpdateStatus(ctx context.Context, q database.Queryer, assignment *entity.Assignment) (*entity.Assignment, error) {
	if s.versionStale {
		return nil, nil
	}
	stored, ok := s.assignments[assignment.ID]
	if !ok || stored.Version != assignment.Version {
		return nil, nil
	}
	updated := *assignment
	updated.Version = stored.Version + 1
	s.assignments[assignment.ID] = &updated
	cp := updated
	return &cp, nil
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

type notifierStub struct {
	proposed  int
	finalized int
}

func (n *notifierStub) NotifyAssignmentProposed(ctx context.Context, assignment *entity.Assignment) {
	n.proposed++
}

func (n *notifierStub) NotifyTeamFinalized(ctx context.Context, eventID uuid.UUID, validated, notRetained []entity.Assignment) {
	n.finalized++
}

var authority = coreEntity.Actor{ID: uuid.New(), Role: constants.RoleSchedulingAuthority}

func workerActor(id uuid.UUID) coreEntity.Actor {
	return coreEntity.Actor{ID: id, Role: constants.RoleWorker}
}

func publishedEvent() *eventEntity.Event {
	return &eventEntity.Event{
		ID:       uuid.New(),
		Title:    "Festival des Arches",
		StartAt:  time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC),
		EndAt:    time.Date(2025, 6, 3, 23, 0, 0, 0, time.UTC),
		Audience: eventEntity.AudienceBoth,
		Status:   eventEntity.EventStatusPublished,
	}
}

func newTestSetup() (*assignmentRepoStub, *eventStoreStub, *notifierStub, AssignmentServiceInterface) {
	repo := newAssignmentRepoStub()
	events := &eventStoreStub{event: publishedEvent()}
	notif := &notifierStub{}
	svc := NewAssignmentService(repo, events, txRunnerStub{}, notif)
	return repo, events, notif, svc
}

// seed inserts an assignment directly into the stub, bypassing the service.
func seed(repo *assignmentRepoStub, eventID uuid.UUID, status entity.AssignmentStatus) *entity.Assignment {
	a := &entity.Assignment{
		ID:       uuid.New(),
		EventID:  eventID,
		WorkerID: uuid.New(),
		Status:   status,
	}
	if status.IsWorkerResponse() {
		t := time.Now().UTC()
		a.RespondedAt = &t
	}
	repo.assignments[a.ID] = a
	return a
}

func TestCreateAssignmentRequiresSchedulingAuthority(t *testing.T) {
	_, events, _, svc := newTestSetup()

	_, appErr := svc.CreateAssignment(context.Background(), workerActor(uuid.New()), events.event.ID,
		&dto.CreateAssignmentRequest{WorkerID: uuid.New().String()})
	if appErr == nil || appErr.Code != errors.ErrPermissionDenied {
		t.Fatalf("expected PERMISSION_DENIED, got %v", appErr)
	}
}

func TestCreateAssignmentRequiresPublishedEvent(t *testing.T) {
	_, events, _, svc := newTestSetup()
	events.event.Status = eventEntity.EventStatusDraft

	_, appErr := svc.CreateAssignment(context.Background(), authority, events.event.ID,
		&dto.CreateAssignmentRequest{WorkerID: uuid.New().String()})
	if appErr == nil || appErr.Code != errors.ErrInvalidTransition {
		t.Fatalf("expected INVALID_TRANSITION, got %v", appErr)
	}
}

func TestCreateAssignmentStartsProposedAndNotifies(t *testing.T) {
	_, events, notif, svc := newTestSetup()

	resp, appErr := svc.CreateAssignment(context.Background(), authority, events.event.ID,
		&dto.CreateAssignmentRequest{WorkerID: uuid.New().String()})
	if appErr != nil {
		t.Fatalf("create: %v", appErr)
	}
	if resp.Status != string(entity.AssignmentStatusProposed) {
		t.Fatalf("expected proposed, got %s", resp.Status)
	}
	if resp.RespondedAt != nil {
		t.Fatalf("a fresh proposal must have no response timestamp")
	}
	if notif.proposed != 1 {
		t.Fatalf("expected one proposal notification, got %d", notif.proposed)
	}
}

func TestCreateAssignmentRejectsDuplicateWorker(t *testing.T) {
	_, events, _, svc := newTestSetup()
	workerID := uuid.New().String()
	ctx := context.Background()

	if _, appErr := svc.CreateAssignment(ctx, authority, events.event.ID, &dto.CreateAssignmentRequest{WorkerID: workerID}); appErr != nil {
		t.Fatalf("first proposal: %v", appErr)
	}

	_, appErr := svc.CreateAssignment(ctx, authority, events.event.ID, &dto.CreateAssignmentRequest{WorkerID: workerID})
	if appErr == nil || appErr.Code != errors.ErrDuplicateAssignment {
		t.Fatalf("expected DUPLICATE_ASSIGNMENT, got %v", appErr)
	}
}

func TestRespondRecordsAnswerAndTimestamp(t *testing.T) {
	repo, events, _, svc := newTestSetup()
	a := seed(repo, events.event.ID, entity.AssignmentStatusProposed)

	for _, answer := range []string{"available", "uncertain", "unavailable"} {
		t.Run(answer, func(t *testing.T) {
			repo.assignments[a.ID].Status = entity.AssignmentStatusProposed
			repo.assignments[a.ID].RespondedAt = nil

			resp, appErr := svc.Respond(context.Background(), workerActor(a.WorkerID), a.ID, &dto.RespondRequest{Response: answer})
			if appErr != nil {
				t.Fatalf("respond: %v", appErr)
			}
			if resp.Status != answer {
				t.Fatalf("expected %s, got %s", answer, resp.Status)
			}
			if resp.RespondedAt == nil {
				t.Fatalf("response must stamp responded_at")
			}
		})
	}
}

func TestRespondRejectsOtherWorkers(t *testing.T) {
	repo, events, _, svc := newTestSetup()
	a := seed(repo, events.event.ID, entity.AssignmentStatusProposed)

	_, appErr := svc.Respond(context.Background(), workerActor(uuid.New()), a.ID, &dto.RespondRequest{Response: "available"})
	if appErr == nil || appErr.Code != errors.ErrPermissionDenied {
		t.Fatalf("expected PERMISSION_DENIED, got %v", appErr)
	}
}

func TestRespondRejectsFinalizationTargets(t *testing.T) {
	repo, events, _, svc := newTestSetup()
	a := seed(repo, events.event.ID, entity.AssignmentStatusProposed)

	for _, target := range []string{"validated", "not_retained", "proposed", "completed"} {
		_, appErr := svc.Respond(context.Background(), workerActor(a.WorkerID), a.ID, &dto.RespondRequest{Response: target})
		if appErr == nil || appErr.Code != errors.ErrInvalidTransition {
			t.Fatalf("%s: expected INVALID_TRANSITION, got %v", target, appErr)
		}
	}
}

func TestRespondOnlyFromProposed(t *testing.T) {
	repo, events, _, svc := newTestSetup()
	a := seed(repo, events.event.ID, entity.AssignmentStatusAvailable)

	_, appErr := svc.Respond(context.Background(), workerActor(a.WorkerID), a.ID, &dto.RespondRequest{Response: "uncertain"})
	if appErr == nil || appErr.Code != errors.ErrInvalidTransition {
		t.Fatalf("expected INVALID_TRANSITION, got %v", appErr)
	}
}

func TestRespondSurfacesConcurrentModification(t *testing.T) {
	repo, events, _, svc := newTestSetup()
	a := seed(repo, events.event.ID, entity.AssignmentStatusProposed)
	repo.versionStale = true

	_, appErr := svc.Respond(context.Background(), workerActor(a.WorkerID), a.ID, &dto.RespondRequest{Response: "available"})
	if appErr == nil || appErr.Code != errors.ErrConcurrentModification {
		t.Fatalf("expected CONCURRENT_MODIFICATION, got %v", appErr)
	}
}

func TestRevokeResetsResponseAndAudits(t *testing.T) {
	repo, events, _, svc := newTestSetup()
	a := seed(repo, events.event.ID, entity.AssignmentStatusAvailable)

	resp, appErr := svc.Revoke(context.Background(), authority, a.ID)
	if appErr != nil {
		t.Fatalf("revoke: %v", appErr)
	}
	if resp.Status != string(entity.AssignmentStatusProposed) {
		t.Fatalf("expected proposed after revoke, got %s", resp.Status)
	}
	if resp.RespondedAt != nil {
		t.Fatalf("revoke must clear responded_at")
	}
	if len(events.history) != 1 || events.history[0].Action != eventEntity.HistoryActionAssignmentRevoked {
		t.Fatalf("expected an assignment-revoked history entry, got %+v", events.history)
	}
}

func TestRevokeRefusesCompletedAssignment(t *testing.T) {
	repo, events, _, svc := newTestSetup()
	a := seed(repo, events.event.ID, entity.AssignmentStatusCompleted)

	_, appErr := svc.Revoke(context.Background(), authority, a.ID)
	if appErr == nil || appErr.Code != errors.ErrInvalidTransition {
		t.Fatalf("expected INVALID_TRANSITION, got %v", appErr)
	}
}

func TestDeclineRequiresValidatedStatus(t *testing.T) {
	repo, events, _, svc := newTestSetup()
	a := seed(repo, events.event.ID, entity.AssignmentStatusAvailable)

	_, appErr := svc.Decline(context.Background(), workerActor(a.WorkerID), a.ID)
	if appErr == nil || appErr.Code != errors.ErrInvalidTransition {
		t.Fatalf("expected INVALID_TRANSITION, got %v", appErr)
	}

	repo.assignments[a.ID].Status = entity.AssignmentStatusValidated
	resp, appErr := svc.Decline(context.Background(), workerActor(a.WorkerID), a.ID)
	if appErr != nil {
		t.Fatalf("decline: %v", appErr)
	}
	if resp.Status != string(entity.AssignmentStatusDeclined) {
		t.Fatalf("expected declined, got %s", resp.Status)
	}
}

func TestCompleteForEventClosesOnlyValidated(t *testing.T) {
	repo, events, _, svc := newTestSetup()
	events.event.Status = eventEntity.EventStatusCompleted
	validated := seed(repo, events.event.ID, entity.AssignmentStatusValidated)
	notRetained := seed(repo, events.event.ID, entity.AssignmentStatusNotRetained)

	closed, appErr := svc.CompleteForEvent(context.Background(), authority, events.event.ID)
	if appErr != nil {
		t.Fatalf("complete: %v", appErr)
	}
	if len(closed) != 1 || closed[0].ID != validated.ID.String() {
		t.Fatalf("expected only the validated assignment closed, got %+v", closed)
	}
	if repo.assignments[notRetained.ID].Status != entity.AssignmentStatusNotRetained {
		t.Fatalf("not_retained must be left untouched")
	}
}

func TestCompleteForEventRequiresCompletedEvent(t *testing.T) {
	_, events, _, svc := newTestSetup()

	_, appErr := svc.CompleteForEvent(context.Background(), authority, events.event.ID)
	if appErr == nil || appErr.Code != errors.ErrInvalidTransition {
		t.Fatalf("expected INVALID_TRANSITION, got %v", appErr)
	}
}
