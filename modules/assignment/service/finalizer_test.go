package service

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"stagecrew-api/core/errors"
	"stagecrew-api/modules/assignment/dto"
	"stagecrew-api/modules/assignment/entity"

	eventEntity "stagecrew-api/modules/event/entity"
)

func finalizeRequest(assignments ...*entity.Assignment) *dto.FinalizeTeamRequest {
	req := &dto.FinalizeTeamRequest{}
	for _, a := range assignments {
		req.SelectedIDs = append(req.SelectedIDs, a.ID.String())
	}
	return req
}

func TestFinalizeTeamRejectsEmptySelection(t *testing.T) {
	_, events, _, svc := newTestSetup()

	_, appErr := svc.FinalizeTeam(context.Background(), authority, events.event.ID, &dto.FinalizeTeamRequest{})
	if appErr == nil || appErr.Code != errors.ErrEmptySelection {
		t.Fatalf("expected EMPTY_SELECTION, got %v", appErr)
	}
}

func TestFinalizeTeamRequiresSchedulingAuthority(t *testing.T) {
	repo, events, _, svc := newTestSetup()
	a := seed(repo, events.event.ID, entity.AssignmentStatusAvailable)

	_, appErr := svc.FinalizeTeam(context.Background(), workerActor(a.WorkerID), events.event.ID, finalizeRequest(a))
	if appErr == nil || appErr.Code != errors.ErrPermissionDenied {
		t.Fatalf("expected PERMISSION_DENIED, got %v", appErr)
	}
}

func TestFinalizeTeamPartitionsInPlayAssignments(t *testing.T) {
	repo, events, notif, svc := newTestSetup()
	picked := seed(repo, events.event.ID, entity.AssignmentStatusAvailable)
	hesitant := seed(repo, events.event.ID, entity.AssignmentStatusUncertain)
	passedOver := seed(repo, events.event.ID, entity.AssignmentStatusAvailable)
	silent := seed(repo, events.event.ID, entity.AssignmentStatusProposed)
	out := seed(repo, events.event.ID, entity.AssignmentStatusUnavailable)

	team, appErr := svc.FinalizeTeam(context.Background(), authority, events.event.ID, finalizeRequest(picked, hesitant))
	if appErr != nil {
		t.Fatalf("finalize: %v", appErr)
	}

	if len(team.Validated) != 2 {
		t.Fatalf("expected 2 validated, got %d", len(team.Validated))
	}
	if len(team.NotRetained) != 2 {
		t.Fatalf("expected 2 not retained, got %d", len(team.NotRetained))
	}
	for _, a := range []*entity.Assignment{picked, hesitant} {
		if repo.assignments[a.ID].Status != entity.AssignmentStatusValidated {
			t.Fatalf("selected %s must be validated, got %s", a.ID, repo.assignments[a.ID].Status)
		}
	}
	for _, a := range []*entity.Assignment{passedOver, silent} {
		if repo.assignments[a.ID].Status != entity.AssignmentStatusNotRetained {
			t.Fatalf("in-play %s must be not_retained, got %s", a.ID, repo.assignments[a.ID].Status)
		}
	}
	// a worker who said no is out of the competition, not "not retained"
	if repo.assignments[out.ID].Status != entity.AssignmentStatusUnavailable {
		t.Fatalf("unavailable must be left untouched, got %s", repo.assignments[out.ID].Status)
	}

	if len(events.history) != 1 || events.history[0].Action != eventEntity.HistoryActionTeamFinalized {
		t.Fatalf("expected a team-finalized history entry, got %+v", events.history)
	}
	if notif.finalized != 1 {
		t.Fatalf("expected one finalization notification, got %d", notif.finalized)
	}
}

func TestFinalizeTeamRejectsIneligibleCandidates(t *testing.T) {
	repo, events, _, svc := newTestSetup()

	for _, status := range []entity.AssignmentStatus{
		entity.AssignmentStatusProposed,
		entity.AssignmentStatusUnavailable,
		entity.AssignmentStatusDeclined,
		entity.AssignmentStatusCompleted,
	} {
		t.Run(string(status), func(t *testing.T) {
			a := seed(repo, events.event.ID, status)

			_, appErr := svc.FinalizeTeam(context.Background(), authority, events.event.ID, finalizeRequest(a))
			if appErr == nil || appErr.Code != errors.ErrInvalidCandidate {
				t.Fatalf("expected INVALID_CANDIDATE, got %v", appErr)
			}
			if repo.assignments[a.ID].Status != status {
				t.Fatalf("a rejected selection must leave assignments untouched")
			}
		})
	}
}

func TestFinalizeTeamRejectsForeignAssignment(t *testing.T) {
	repo, events, _, svc := newTestSetup()
	stranger := seed(repo, uuid.New(), entity.AssignmentStatusAvailable)

	_, appErr := svc.FinalizeTeam(context.Background(), authority, events.event.ID, finalizeRequest(stranger))
	if appErr == nil || appErr.Code != errors.ErrInvalidCandidate {
		t.Fatalf("expected INVALID_CANDIDATE, got %v", appErr)
	}
}

func TestFinalizeTeamRequiresPublishedEvent(t *testing.T) {
	repo, events, _, svc := newTestSetup()
	events.event.Status = eventEntity.EventStatusCancelled
	a := seed(repo, events.event.ID, entity.AssignmentStatusAvailable)

	_, appErr := svc.FinalizeTeam(context.Background(), authority, events.event.ID, finalizeRequest(a))
	if appErr == nil || appErr.Code != errors.ErrInvalidTransition {
		t.Fatalf("expected INVALID_TRANSITION, got %v", appErr)
	}
}

func TestFinalizeTeamIsIdempotent(t *testing.T) {
	repo, events, _, svc := newTestSetup()
	picked := seed(repo, events.event.ID, entity.AssignmentStatusAvailable)
	passedOver := seed(repo, events.event.ID, entity.AssignmentStatusAvailable)
	ctx := context.Background()

	if _, appErr := svc.FinalizeTeam(ctx, authority, events.event.ID, finalizeRequest(picked)); appErr != nil {
		t.Fatalf("first finalize: %v", appErr)
	}
	team, appErr := svc.FinalizeTeam(ctx, authority, events.event.ID, finalizeRequest(picked))
	if appErr != nil {
		t.Fatalf("repeat finalize: %v", appErr)
	}

	if len(team.Validated) != 1 || team.Validated[0].ID != picked.ID.String() {
		t.Fatalf("repeat finalize must report the same team, got %+v", team.Validated)
	}
	if repo.assignments[passedOver.ID].Status != entity.AssignmentStatusNotRetained {
		t.Fatalf("not_retained survives a repeat finalize")
	}
	// no state changed the second time, so no second audit entry
	if len(events.history) != 1 {
		t.Fatalf("expected a single team-finalized history entry, got %d", len(events.history))
	}
}

func TestFinalizeTeamRevalidatesNotRetainedWorker(t *testing.T) {
	repo, events, _, svc := newTestSetup()
	first := seed(repo, events.event.ID, entity.AssignmentStatusAvailable)
	second := seed(repo, events.event.ID, entity.AssignmentStatusAvailable)
	ctx := context.Background()

	if _, appErr := svc.FinalizeTeam(ctx, authority, events.event.ID, finalizeRequest(first)); appErr != nil {
		t.Fatalf("first finalize: %v", appErr)
	}

	// the regisseur changes their mind: the passed-over worker joins the team
	team, appErr := svc.FinalizeTeam(ctx, authority, events.event.ID, finalizeRequest(first, second))
	if appErr != nil {
		t.Fatalf("second finalize: %v", appErr)
	}
	if len(team.Validated) != 2 {
		t.Fatalf("expected both workers validated, got %d", len(team.Validated))
	}
	if repo.assignments[second.ID].Status != entity.AssignmentStatusValidated {
		t.Fatalf("a not_retained worker must be re-validatable")
	}
}

func TestFinalizeTeamSurfacesConcurrentModification(t *testing.T) {
	repo, events, _, svc := newTestSetup()
	a := seed(repo, events.event.ID, entity.AssignmentStatusAvailable)
	repo.versionStale = true

	_, appErr := svc.FinalizeTeam(context.Background(), authority, events.event.ID, finalizeRequest(a))
	if appErr == nil || appErr.Code != errors.ErrConcurrentModification {
		t.Fatalf("expected CONCURRENT_MODIFICATION, got %v", appErr)
	}
}
