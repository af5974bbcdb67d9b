package booking

import (
	"context"
	"sync"
	"time"

	artisanRepo "craftly/database/repository/artisan"
	bookingRepo "craftly/database/repository/booking"
	catalogRepo "craftly/database/repository/catalog"
	"craftly/models"
)

// fakeBookingRepo is an in-memory BookingRepository whose slot-checked writes
// are atomic under one mutex, mirroring the store's transaction guarantees.
type fakeBookingRepo struct {
	mu       sync.Mutex
	bookings map[string]*models.Booking

	failReplaceOnce bool // next Replace returns ErrStaleSnapshot
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{bookings: make(map[string]*models.Booking)}
}

func cloneBooking(b *models.Booking) *models.Booking {
	cp := *b
	if b.Modification != nil {
		m := *b.Modification
		cp.Modification = &m
	}
	if b.RespondedAt != nil {
		t := *b.RespondedAt
		cp.RespondedAt = &t
	}
	if b.CompletedAt != nil {
		t := *b.CompletedAt
		cp.CompletedAt = &t
	}
	return &cp
}

func (r *fakeBookingRepo) CreateWithSlotCheck(_ context.Context, b *models.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, other := range r.bookings {
		if other.ArtisanID == b.ArtisanID && other.IsActive() && other.Overlaps(b.Start, b.End) {
			return bookingRepo.ErrSlotTaken
		}
	}
	r.bookings[b.ID] = cloneBooking(b)
	return nil
}

func (r *fakeBookingRepo) GetByID(_ context.Context, id string) (*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrNotFound
	}
	return cloneBooking(b), nil
}

func (r *fakeBookingRepo) ListByUser(_ context.Context, userID string) ([]models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []models.Booking
	for _, b := range r.bookings {
		if b.UserID == userID {
			out = append(out, *cloneBooking(b))
		}
	}
	return out, nil
}

func (r *fakeBookingRepo) ListByArtisan(_ context.Context, artisanID string) ([]models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []models.Booking
	for _, b := range r.bookings {
		if b.ArtisanID == artisanID {
			out = append(out, *cloneBooking(b))
		}
	}
	return out, nil
}

func (r *fakeBookingRepo) FindOverlapping(_ context.Context, artisanID string, statuses []models.BookingStatus, start, end time.Time) ([]models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []models.Booking
	for _, b := range r.bookings {
		if b.ArtisanID != artisanID || !b.Overlaps(start, end) {
			continue
		}
		for _, s := range statuses {
			if b.Status == s {
				out = append(out, *cloneBooking(b))
				break
			}
		}
	}
	return out, nil
}

func (r *fakeBookingRepo) Replace(_ context.Context, b *models.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.replaceLocked(b)
}

func (r *fakeBookingRepo) ReplaceWithSlotCheck(_ context.Context, b *models.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, other := range r.bookings {
		if other.ID != b.ID && other.ArtisanID == b.ArtisanID && other.IsActive() && other.Overlaps(b.Start, b.End) {
			return bookingRepo.ErrSlotTaken
		}
	}
	return r.replaceLocked(b)
}

func (r *fakeBookingRepo) replaceLocked(b *models.Booking) error {
	if r.failReplaceOnce {
		r.failReplaceOnce = false
		return bookingRepo.ErrStaleSnapshot
	}
	stored, ok := r.bookings[b.ID]
	if !ok {
		return bookingRepo.ErrNotFound
	}
	if stored.Version != b.Version {
		return bookingRepo.ErrStaleSnapshot
	}
	b.Version++
	r.bookings[b.ID] = cloneBooking(b)
	return nil
}

func (r *fakeBookingRepo) SetChatChannel(_ context.Context, id, channelID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if b, ok := r.bookings[id]; ok && b.ChatChannelID == "" {
		b.ChatChannelID = channelID
	}
	return nil
}

func (r *fakeBookingRepo) SetVideoRoom(_ context.Context, id, name, url string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if b, ok := r.bookings[id]; ok && b.VideoRoomName == "" {
		b.VideoRoomName = name
		b.VideoRoomURL = url
	}
	return nil
}

func (r *fakeBookingRepo) EnsureIndexes() error { return nil }

// stored returns the committed snapshot, bypassing the service layer.
func (r *fakeBookingRepo) stored(id string) *models.Booking {
	r.mu.Lock()
	defer r.mu.Unlock()
	if b, ok := r.bookings[id]; ok {
		return cloneBooking(b)
	}
	return nil
}

type fakeArtisanRepo struct {
	artisans map[string]*models.Artisan
}

func (r *fakeArtisanRepo) GetByID(_ context.Context, id string) (*models.Artisan, error) {
	a, ok := r.artisans[id]
	if !ok {
		return nil, artisanRepo.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

type fakeCatalogRepo struct {
	services map[string]*models.Service
}

func (r *fakeCatalogRepo) GetService(_ context.Context, id string) (*models.Service, error) {
	s, ok := r.services[id]
	if !ok {
		return nil, catalogRepo.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

// fakeDispatcher records which side effects fired.
type fakeDispatcher struct {
	mu     sync.Mutex
	events []string
}

func (d *fakeDispatcher) record(e string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, e)
}

func (d *fakeDispatcher) all() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.events...)
}

func (d *fakeDispatcher) BookingCreated(*models.Booking)   { d.record("created") }
func (d *fakeDispatcher) BookingConfirmed(*models.Booking) { d.record("confirmed") }
func (d *fakeDispatcher) BookingRejected(*models.Booking)  { d.record("rejected") }
func (d *fakeDispatcher) BookingCancelled(_ *models.Booking, by string) {
	d.record("cancelled:" + by)
}
func (d *fakeDispatcher) BookingCompleted(*models.Booking)      { d.record("completed") }
func (d *fakeDispatcher) ModificationRequested(*models.Booking) { d.record("modification_requested") }
func (d *fakeDispatcher) ModificationResolved(_ *models.Booking, approved bool) {
	if approved {
		d.record("modification_approved")
	} else {
		d.record("modification_rejected")
	}
}

const (
	testUserID    = "user-1"
	testOtherUser = "user-2"
	testArtisanID = "artisan-1"
	testServiceID = "service-1"
)

func newTestService() (*DefaultBookingService, *fakeBookingRepo, *fakeDispatcher) {
	repo := newFakeBookingRepo()
	disp := &fakeDispatcher{}
	svc := &DefaultBookingService{
		Repo: repo,
		Artisans: &fakeArtisanRepo{artisans: map[string]*models.Artisan{
			testArtisanID: {ID: testArtisanID, Name: "Ada the Potter", Active: true},
			"artisan-2":   {ID: "artisan-2", Name: "Closed Shop", Active: false},
		}},
		Catalog: &fakeCatalogRepo{services: map[string]*models.Service{
			testServiceID: {
				ID:              testServiceID,
				ArtisanID:       testArtisanID,
				Name:            "Wheel Throwing Class",
				CategoryName:    "Pottery",
				Price:           1500,
				DurationMinutes: 90,
			},
			"service-other": {
				ID:        "service-other",
				ArtisanID: "artisan-2",
				Name:      "Someone Else's Service",
				Price:     900,
			},
		}},
		Dispatch: disp,
	}
	return svc, repo, disp
}

func futureTime(hours int) time.Time {
	return time.Now().UTC().Add(time.Duration(hours) * time.Hour).Truncate(time.Minute)
}
