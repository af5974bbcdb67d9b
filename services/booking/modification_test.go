package booking

import (
	"context"
	"testing"
	"time"

	"craftly/models"
)

func TestRequestModification(t *testing.T) {
	svc, repo, disp := newTestService()
	b := seedBooking(repo, models.BookingStatusConfirmed)
	newStart := futureTime(48)

	got, err := svc.RequestModification(context.Background(), b.ID, testUserID, ModificationInput{
		NewStart: newStart,
		Reason:   "running late that day",
	})
	if err != nil {
		t.Fatalf("RequestModification failed: %v", err)
	}
	mod := got.Modification
	if mod == nil || mod.Status != models.ModificationStatusPending {
		t.Fatalf("expected pending modification, got %+v", mod)
	}
	if mod.RequestedBy != testUserID {
		t.Errorf("expected requester %s, got %s", testUserID, mod.RequestedBy)
	}
	// Omitted end preserves the booking's current duration.
	if want := newStart.Add(b.End.Sub(b.Start)); !mod.NewEnd.Equal(want) {
		t.Errorf("expected duration-preserving end %v, got %v", want, mod.NewEnd)
	}
	// The live interval is untouched until approval.
	if !got.Start.Equal(b.Start) || !got.End.Equal(b.End) {
		t.Error("interval must not move before approval")
	}
	if got := disp.all(); len(got) != 1 || got[0] != "modification_requested" {
		t.Errorf("expected modification_requested event, got %v", got)
	}
}

func TestRequestModificationGuards(t *testing.T) {
	svc, repo, _ := newTestService()
	ctx := context.Background()
	newStart := futureTime(48)

	cancelled := seedBooking(repo, models.BookingStatusCancelled)
	if _, err := svc.RequestModification(ctx, cancelled.ID, testUserID, ModificationInput{NewStart: newStart}); ErrCode(err) != CodeInvalidState {
		t.Errorf("modifying a cancelled booking must fail, got %v", err)
	}

	b := seedBooking(repo, models.BookingStatusConfirmed)
	if _, err := svc.RequestModification(ctx, b.ID, "stranger", ModificationInput{NewStart: newStart}); ErrCode(err) != CodeForbidden {
		t.Errorf("non-party request must be forbidden, got %v", err)
	}
	if _, err := svc.RequestModification(ctx, b.ID, testUserID, ModificationInput{NewStart: time.Now().UTC().Add(-time.Hour)}); ErrCode(err) != CodeInvalidInterval {
		t.Errorf("past start must be rejected, got %v", err)
	}

	if _, err := svc.RequestModification(ctx, b.ID, testUserID, ModificationInput{NewStart: newStart}); err != nil {
		t.Fatalf("first request failed: %v", err)
	}
	// Only one proposal may be awaiting a response.
	if _, err := svc.RequestModification(ctx, b.ID, testArtisanID, ModificationInput{NewStart: newStart.Add(time.Hour)}); ErrCode(err) != CodeModificationConflict {
		t.Errorf("second live request must conflict, got %v", err)
	}
}

func TestRespondToModificationApprove(t *testing.T) {
	svc, repo, disp := newTestService()
	ctx := context.Background()
	b := seedBooking(repo, models.BookingStatusConfirmed)
	newStart := futureTime(48)

	if _, err := svc.RequestModification(ctx, b.ID, testUserID, ModificationInput{
		NewStart: newStart,
		NewEnd:   newStart.Add(2 * time.Hour),
	}); err != nil {
		t.Fatalf("RequestModification failed: %v", err)
	}

	// The requester cannot approve their own proposal.
	if _, err := svc.RespondToModification(ctx, b.ID, testUserID, ActionApprove); ErrCode(err) != CodeInvalidAction {
		t.Errorf("self-approval must be rejected, got %v", err)
	}

	got, err := svc.RespondToModification(ctx, b.ID, testArtisanID, ActionApprove)
	if err != nil {
		t.Fatalf("approval failed: %v", err)
	}
	if !got.Start.Equal(newStart) || !got.End.Equal(newStart.Add(2*time.Hour)) {
		t.Errorf("interval did not move: [%v, %v)", got.Start, got.End)
	}
	if got.DurationMinutes != 120 {
		t.Errorf("expected recomputed duration 120, got %d", got.DurationMinutes)
	}
	if got.Modification.Status != models.ModificationStatusApproved {
		t.Errorf("expected approved modification, got %s", got.Modification.Status)
	}
	if got.Status != models.BookingStatusConfirmed {
		t.Errorf("approval must not change booking status, got %s", got.Status)
	}
	if got := disp.all(); len(got) != 2 || got[1] != "modification_approved" {
		t.Errorf("expected modification_approved event, got %v", got)
	}

	// The resolved proposal no longer blocks a new one.
	if _, err := svc.RequestModification(ctx, b.ID, testArtisanID, ModificationInput{NewStart: futureTime(72)}); err != nil {
		t.Errorf("new request after resolution failed: %v", err)
	}
}

func TestRespondToModificationReject(t *testing.T) {
	svc, repo, disp := newTestService()
	ctx := context.Background()
	b := seedBooking(repo, models.BookingStatusConfirmed)

	if _, err := svc.RespondToModification(ctx, b.ID, testArtisanID, ActionApprove); ErrCode(err) != CodeModificationConflict {
		t.Errorf("responding with nothing pending must fail, got %v", err)
	}

	if _, err := svc.RequestModification(ctx, b.ID, testArtisanID, ModificationInput{NewStart: futureTime(48)}); err != nil {
		t.Fatalf("RequestModification failed: %v", err)
	}
	got, err := svc.RespondToModification(ctx, b.ID, testUserID, ActionReject)
	if err != nil {
		t.Fatalf("rejection failed: %v", err)
	}
	if got.Modification.Status != models.ModificationStatusRejected {
		t.Errorf("expected rejected modification, got %s", got.Modification.Status)
	}
	if !got.Start.Equal(b.Start) {
		t.Error("rejected modification must not move the interval")
	}
	if got := disp.all(); got[len(got)-1] != "modification_rejected" {
		t.Errorf("expected modification_rejected event, got %v", got)
	}
}

func TestTerminalTransitionClosesModification(t *testing.T) {
	svc, repo, _ := newTestService()
	ctx := context.Background()
	newStart := futureTime(48)

	// A pending request never survives cancellation.
	b := seedBooking(repo, models.BookingStatusConfirmed)
	if _, err := svc.RequestModification(ctx, b.ID, testUserID, ModificationInput{NewStart: newStart}); err != nil {
		t.Fatalf("RequestModification failed: %v", err)
	}
	got, err := svc.Cancel(ctx, b.ID, testArtisanID, "shop closed")
	if err != nil {
		t.Fatalf("Cancel failed: %v", err)
	}
	if got.HasPendingModification() {
		t.Error("cancelled booking must not carry a pending modification")
	}
	if got.Modification.Status != models.ModificationStatusRejected {
		t.Errorf("expected the request rejected on cancel, got %s", got.Modification.Status)
	}

	// Nor can the counterparty approve it afterwards and move the interval.
	if _, err := svc.RespondToModification(ctx, b.ID, testArtisanID, ActionApprove); ErrCode(err) != CodeInvalidState {
		t.Errorf("approving against a cancelled booking must fail, got %v", err)
	}
	stored := repo.stored(b.ID)
	if !stored.Start.Equal(b.Start) || stored.Status != models.BookingStatusCancelled {
		t.Errorf("cancelled booking changed: status=%s start=%v", stored.Status, stored.Start)
	}

	// Completion closes a live request the same way.
	s2 := futureTime(72)
	b2 := &models.Booking{
		ID:        "bk-complete-mod",
		ArtisanID: testArtisanID,
		UserID:    testUserID,
		Start:     s2,
		End:       s2.Add(time.Hour),
		Status:    models.BookingStatusConfirmed,
	}
	repo.mu.Lock()
	repo.bookings[b2.ID] = cloneBooking(b2)
	repo.mu.Unlock()
	if _, err := svc.RequestModification(ctx, b2.ID, testArtisanID, ModificationInput{NewStart: newStart}); err != nil {
		t.Fatalf("RequestModification failed: %v", err)
	}
	got, err = svc.Complete(ctx, b2.ID, testArtisanID)
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if got.HasPendingModification() {
		t.Error("completed booking must not carry a pending modification")
	}

	// Rejecting the booking itself closes a request filed while pending.
	b3 := seedBooking(repo, models.BookingStatusPending)
	if _, err := svc.RequestModification(ctx, b3.ID, testUserID, ModificationInput{NewStart: newStart}); err != nil {
		t.Fatalf("RequestModification failed: %v", err)
	}
	got, err = svc.Respond(ctx, b3.ID, testArtisanID, ActionReject, "no availability")
	if err != nil {
		t.Fatalf("Respond failed: %v", err)
	}
	if got.HasPendingModification() {
		t.Error("rejected booking must not carry a pending modification")
	}
}

func TestApprovalReprovesSlot(t *testing.T) {
	svc, repo, _ := newTestService()
	ctx := context.Background()
	b := seedBooking(repo, models.BookingStatusConfirmed)
	newStart := futureTime(48)

	if _, err := svc.RequestModification(ctx, b.ID, testUserID, ModificationInput{NewStart: newStart}); err != nil {
		t.Fatalf("RequestModification failed: %v", err)
	}

	// Another customer takes the proposed slot while the request is pending.
	if _, err := svc.CreateBooking(ctx, CreateBookingInput{
		UserID: testOtherUser, ArtisanID: testArtisanID, Start: newStart,
	}); err != nil {
		t.Fatalf("competing booking failed: %v", err)
	}

	if _, err := svc.RespondToModification(ctx, b.ID, testArtisanID, ActionApprove); ErrCode(err) != CodeSlotConflict {
		t.Fatalf("approval into a taken slot must conflict, got %v", err)
	}

	// The committed booking is unchanged and the request still pending.
	stored := repo.stored(b.ID)
	if !stored.Start.Equal(b.Start) {
		t.Error("failed approval must not move the stored interval")
	}
	if !stored.HasPendingModification() {
		t.Error("failed approval must leave the request pending")
	}
}
