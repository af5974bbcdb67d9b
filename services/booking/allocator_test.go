package booking

import (
	"context"
	"sync"
	"testing"
	"time"

	"craftly/models"
)

func TestCreateBookingSuccess(t *testing.T) {
	svc, repo, disp := newTestService()
	start := futureTime(24)

	b, err := svc.CreateBooking(context.Background(), CreateBookingInput{
		UserID:    testUserID,
		ArtisanID: testArtisanID,
		ServiceID: testServiceID,
		Start:     start,
		Notes:     "first visit",
	})
	if err != nil {
		t.Fatalf("CreateBooking failed: %v", err)
	}
	if b.Status != models.BookingStatusPending {
		t.Errorf("expected pending status, got %s", b.Status)
	}
	if b.Price != 1500 {
		t.Errorf("expected catalog price 1500, got %v", b.Price)
	}
	if b.ServiceName != "Wheel Throwing Class" {
		t.Errorf("expected denormalized service name, got %q", b.ServiceName)
	}
	if want := start.Add(90 * time.Minute); !b.End.Equal(want) {
		t.Errorf("expected end %v from service duration, got %v", want, b.End)
	}
	if b.DurationMinutes != 90 {
		t.Errorf("expected 90 minute duration, got %d", b.DurationMinutes)
	}
	if repo.stored(b.ID) == nil {
		t.Error("booking was not persisted")
	}
	if got := disp.all(); len(got) != 1 || got[0] != "created" {
		t.Errorf("expected a single created event, got %v", got)
	}
}

func TestCreateBookingDefaultDuration(t *testing.T) {
	svc, _, _ := newTestService()
	start := futureTime(24)

	b, err := svc.CreateBooking(context.Background(), CreateBookingInput{
		UserID:    testUserID,
		ArtisanID: testArtisanID,
		Start:     start,
	})
	if err != nil {
		t.Fatalf("CreateBooking failed: %v", err)
	}
	if want := start.Add(DefaultDurationMinutes * time.Minute); !b.End.Equal(want) {
		t.Errorf("expected default %d minute end %v, got %v", DefaultDurationMinutes, want, b.End)
	}
	if b.Price != 0 {
		t.Errorf("expected zero price without a service, got %v", b.Price)
	}
}

func TestCreateBookingValidation(t *testing.T) {
	svc, _, disp := newTestService()
	ctx := context.Background()
	start := futureTime(24)

	cases := []struct {
		name string
		in   CreateBookingInput
		code string
	}{
		{
			name: "missing caller",
			in:   CreateBookingInput{ArtisanID: testArtisanID, Start: start},
			code: CodeUnauthenticated,
		},
		{
			name: "unknown artisan",
			in:   CreateBookingInput{UserID: testUserID, ArtisanID: "nobody", Start: start},
			code: CodeNotFound,
		},
		{
			name: "inactive artisan",
			in:   CreateBookingInput{UserID: testUserID, ArtisanID: "artisan-2", Start: start},
			code: CodeInactiveArtisan,
		},
		{
			name: "unknown service",
			in:   CreateBookingInput{UserID: testUserID, ArtisanID: testArtisanID, ServiceID: "missing", Start: start},
			code: CodeNotFound,
		},
		{
			name: "service owned by another artisan",
			in:   CreateBookingInput{UserID: testUserID, ArtisanID: testArtisanID, ServiceID: "service-other", Start: start},
			code: CodeServiceMismatch,
		},
		{
			name: "start in the past",
			in:   CreateBookingInput{UserID: testUserID, ArtisanID: testArtisanID, Start: time.Now().UTC().Add(-time.Hour)},
			code: CodeInvalidInterval,
		},
		{
			name: "end before start",
			in:   CreateBookingInput{UserID: testUserID, ArtisanID: testArtisanID, Start: start, End: start.Add(-time.Minute)},
			code: CodeInvalidInterval,
		},
		{
			name: "notes too long",
			in: CreateBookingInput{UserID: testUserID, ArtisanID: testArtisanID, Start: start,
				Notes: string(make([]byte, MaxNotesLength+1))},
			code: CodeInvalidInput,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.CreateBooking(ctx, tc.in); ErrCode(err) != tc.code {
				t.Errorf("expected code %s, got error %v", tc.code, err)
			}
		})
	}
	if got := disp.all(); len(got) != 0 {
		t.Errorf("rejected requests must not dispatch side effects, got %v", got)
	}
}

func TestCreateBookingSlotConflict(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()
	start := futureTime(24)

	if _, err := svc.CreateBooking(ctx, CreateBookingInput{
		UserID: testUserID, ArtisanID: testArtisanID, ServiceID: testServiceID, Start: start,
	}); err != nil {
		t.Fatalf("first booking failed: %v", err)
	}

	// Overlapping interval for a different customer loses.
	_, err := svc.CreateBooking(ctx, CreateBookingInput{
		UserID: testOtherUser, ArtisanID: testArtisanID, Start: start.Add(30 * time.Minute),
	})
	if ErrCode(err) != CodeSlotConflict {
		t.Fatalf("expected slotConflict on overlap, got %v", err)
	}

	// Back to back is fine: intervals are half open.
	if _, err := svc.CreateBooking(ctx, CreateBookingInput{
		UserID: testOtherUser, ArtisanID: testArtisanID, Start: start.Add(90 * time.Minute),
	}); err != nil {
		t.Fatalf("back-to-back booking should succeed: %v", err)
	}
}

func TestCreateBookingConcurrentOverlap(t *testing.T) {
	svc, repo, _ := newTestService()
	start := futureTime(24)

	const callers = 8
	var wg sync.WaitGroup
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.CreateBooking(context.Background(), CreateBookingInput{
				UserID:    testUserID,
				ArtisanID: testArtisanID,
				Start:     start,
			})
		}(i)
	}
	wg.Wait()

	won := 0
	for _, err := range errs {
		switch {
		case err == nil:
			won++
		case ErrCode(err) == CodeSlotConflict:
		default:
			t.Errorf("unexpected error from concurrent create: %v", err)
		}
	}
	if won != 1 {
		t.Fatalf("expected exactly one winner, got %d", won)
	}

	all, err := repo.ListByArtisan(context.Background(), testArtisanID)
	if err != nil {
		t.Fatalf("ListByArtisan failed: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("expected one persisted booking, got %d", len(all))
	}
}
