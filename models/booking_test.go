package models

import (
	"testing"
	"time"
)

func TestBookingOverlaps(t *testing.T) {
	base := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	b := &Booking{Start: base, End: base.Add(time.Hour)}

	cases := []struct {
		name       string
		start, end time.Time
		want       bool
	}{
		{"identical interval", base, base.Add(time.Hour), true},
		{"straddles the start", base.Add(-30 * time.Minute), base.Add(30 * time.Minute), true},
		{"straddles the end", base.Add(30 * time.Minute), base.Add(90 * time.Minute), true},
		{"fully inside", base.Add(10 * time.Minute), base.Add(20 * time.Minute), true},
		{"fully contains", base.Add(-time.Hour), base.Add(2 * time.Hour), true},
		{"ends at start", base.Add(-time.Hour), base, false},
		{"starts at end", base.Add(time.Hour), base.Add(2 * time.Hour), false},
		{"well before", base.Add(-3 * time.Hour), base.Add(-2 * time.Hour), false},
		{"well after", base.Add(3 * time.Hour), base.Add(4 * time.Hour), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := b.Overlaps(tc.start, tc.end); got != tc.want {
				t.Errorf("Overlaps(%v, %v) = %v, want %v", tc.start, tc.end, got, tc.want)
			}
		})
	}
}

func TestBookingParties(t *testing.T) {
	b := &Booking{UserID: "u1", ArtisanID: "a1"}

	if !b.IsParty("u1") || !b.IsParty("a1") {
		t.Error("both parties must be recognized")
	}
	if b.IsParty("x") {
		t.Error("a stranger is not a party")
	}
	if got := b.Counterparty("u1"); got != "a1" {
		t.Errorf("Counterparty(u1) = %q, want a1", got)
	}
	if got := b.Counterparty("a1"); got != "u1" {
		t.Errorf("Counterparty(a1) = %q, want u1", got)
	}
}

func TestBookingLifecycleFlags(t *testing.T) {
	for _, s := range []BookingStatus{BookingStatusPending, BookingStatusConfirmed} {
		if !(&Booking{Status: s}).IsActive() {
			t.Errorf("%s booking should be active", s)
		}
	}
	for _, s := range []BookingStatus{BookingStatusRejected, BookingStatusCancelled, BookingStatusCompleted} {
		if (&Booking{Status: s}).IsActive() {
			t.Errorf("%s booking should not be active", s)
		}
	}

	b := &Booking{}
	if b.HasPendingModification() {
		t.Error("no modification means no pending request")
	}
	b.Modification = &ModificationRequest{Status: ModificationStatusRejected}
	if b.HasPendingModification() {
		t.Error("a resolved modification is not pending")
	}
	b.Modification.Status = ModificationStatusPending
	if !b.HasPendingModification() {
		t.Error("a pending modification must be reported")
	}
}
