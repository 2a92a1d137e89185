package controller

import (
	"context"
	"fmt"
	"strings"

	"cinebook/booking"
	"cinebook/catalog"
	"cinebook/model"
	"cinebook/session"
	"cinebook/store"
	"cinebook/validate"
	"github.com/google/uuid"
)

func (c *Controller) Step() booking.Step {
	return c.flow.Step()
}

func (c *Controller) Booking() booking.Booking {
	return c.flow.Booking()
}

func (c *Controller) TotalPrice() (float64, bool) {
	return c.flow.TotalPrice()
}

func (c *Controller) Payment() booking.Payment {
	return c.flow.Payment()
}

// SelectMovie starts a movie booking and opens the movie booking page.
func (c *Controller) SelectMovie(id string) error {
	movie, ok := c.catalog.Movie(id)
	if !ok {
		return fmt.Errorf("%w: unknown movie %q", booking.ErrInvalidSelection, id)
	}
	c.flow.SelectMovie(movie)
	c.Navigate(session.PathBookingMovie)
	return nil
}

// SelectEvent starts an event booking and opens the event booking page.
func (c *Controller) SelectEvent(id string) error {
	event, ok := c.catalog.Event(id)
	if !ok {
		return fmt.Errorf("%w: unknown event %q", booking.ErrInvalidSelection, id)
	}
	c.flow.SelectEvent(event)
	c.Navigate(session.PathBookingEvent)
	return nil
}

func (c *Controller) SelectShowtime(showID string) error {
	b, ok := c.flow.Booking().(*booking.MovieBooking)
	if !ok {
		return c.flow.SelectShowtime(model.Show{Id: showID})
	}
	for _, show := range b.Movie.Shows {
		if show.Id == showID {
			return c.flow.SelectShowtime(show)
		}
	}
	return c.flow.SelectShowtime(model.Show{Id: showID})
}

func (c *Controller) SelectDate(dateID string) error {
	b, ok := c.flow.Booking().(*booking.EventBooking)
	if !ok {
		return c.flow.SelectDate(model.EventDate{Id: dateID})
	}
	for _, date := range b.Event.Dates {
		if date.Id == dateID {
			return c.flow.SelectDate(date)
		}
	}
	return c.flow.SelectDate(model.EventDate{Id: dateID})
}

// SelectSeats prices the seats against the chosen show and records them.
// Seats that are booked, blocked or not in the layout are refused.
func (c *Controller) SelectSeats(seats []string) error {
	b, ok := c.flow.Booking().(*booking.MovieBooking)
	if !ok || b.Show == nil || c.flow.Step() != booking.StepScheduleSelected {
		return c.flow.SelectSeats(seats, 0)
	}
	normalized := normalizeSeats(seats)
	total, err := catalog.SeatsTotal(c.currentShow(*b), normalized)
	if err != nil {
		return fmt.Errorf("%w: %w", booking.ErrInvalidSelection, err)
	}
	return c.flow.SelectSeats(normalized, total)
}

// SelectZones prices the ticket counts against the chosen event. Zones with
// a zero count are ignored.
func (c *Controller) SelectZones(zones map[string]int) error {
	b, ok := c.flow.Booking().(*booking.EventBooking)
	if !ok || b.Date == nil || c.flow.Step() != booking.StepScheduleSelected {
		return c.flow.SelectZones(zones, 0)
	}
	picked := map[string]int{}
	for id, count := range zones {
		if count > 0 {
			picked[id] = count
		}
	}
	event := b.Event
	if latest, ok := c.catalog.Event(event.Id); ok {
		event = latest
	}
	total, err := catalog.ZonesTotal(event, picked)
	if err != nil {
		return fmt.Errorf("%w: %w", booking.ErrInvalidSelection, err)
	}
	return c.flow.SelectZones(picked, total)
}

// GoBack abandons the booking and returns to the home page.
func (c *Controller) GoBack() string {
	c.flow.GoBack()
	return c.Navigate(c.session.HomePath())
}

func (c *Controller) StartNewBooking() string {
	c.flow.StartNewBooking()
	return c.Navigate(c.session.HomePath())
}

// CompletePayment marks the booking paid without charging a card.
func (c *Controller) CompletePayment() (model.BookingRecord, error) {
	if err := c.flow.CompletePayment(); err != nil {
		return model.BookingRecord{}, err
	}
	return c.finish()
}

// BeginPayment validates the card and enters the processing state. The
// returned charge is handed to Charge.
func (c *Controller) BeginPayment(card validate.CardForm) (booking.Charge, error) {
	if err := validate.Card(card); err != nil {
		return booking.Charge{}, err
	}
	if err := c.flow.BeginPayment(); err != nil {
		return booking.Charge{}, err
	}
	total, _ := c.flow.TotalPrice()
	charge := booking.Charge{
		Amount:      total,
		Description: c.describe(),
		Card:        booking.Card{Holder: strings.TrimSpace(card.Holder), Number: card.Number},
	}
	c.logger.Info("payment started", "amount", total, "attempt", c.flow.Payment().Attempts)
	return charge, nil
}

// Charge runs the processor. It does not touch the controller.
func (c *Controller) Charge(ctx context.Context, charge booking.Charge) error {
	return c.processor.Charge(ctx, charge)
}

// ResolvePayment commits the processor's verdict. A declined payment keeps
// the selection so the user can retry; an approved one is recorded in the
// booking history and takes the inventory out of the catalog.
func (c *Controller) ResolvePayment(result error) (model.BookingRecord, error) {
	if err := c.flow.ResolvePayment(result); err != nil {
		return model.BookingRecord{}, err
	}
	if result != nil {
		c.logger.Warn("payment failed", "err", result, "attempt", c.flow.Payment().Attempts)
		return model.BookingRecord{}, result
	}
	return c.finish()
}

// Pay runs a whole payment attempt synchronously.
func (c *Controller) Pay(ctx context.Context, card validate.CardForm) (model.BookingRecord, error) {
	charge, err := c.BeginPayment(card)
	if err != nil {
		return model.BookingRecord{}, err
	}
	return c.ResolvePayment(c.Charge(ctx, charge))
}

func (c *Controller) finish() (model.BookingRecord, error) {
	var userID int64
	if c.session.User != nil {
		userID = c.session.User.Id
	}
	record, err := c.flow.Record(userID, uuid.NewString(), c.now())
	if err != nil {
		return model.BookingRecord{}, err
	}

	switch b := c.flow.Booking().(type) {
	case *booking.MovieBooking:
		if b.Show != nil {
			err = c.catalog.ReserveSeats(b.Show.Id, b.Seats)
		}
	case *booking.EventBooking:
		err = c.catalog.ReserveZones(b.Event.Id, b.Zones)
	}
	if err != nil {
		c.logger.Warn("reserve inventory", "ref", record.Reference, "err", err)
	}

	c.logger.Info("booking paid", "ref", record.Reference, "user", userID, "total", record.TotalPrice)
	if err := store.AppendBooking(record); err != nil {
		return record, fmt.Errorf("save booking: %w", err)
	}
	return record, nil
}

func (c *Controller) describe() string {
	switch b := c.flow.Booking().(type) {
	case *booking.MovieBooking:
		return fmt.Sprintf("%s × %d", b.Movie.Title, len(b.Seats))
	case *booking.EventBooking:
		return fmt.Sprintf("%s × %d", b.Event.Title, booking.TicketCount(b))
	}
	return ""
}

// currentShow prefers the catalog's view of the show, which includes seats
// sold since the booking started.
func (c *Controller) currentShow(b booking.MovieBooking) model.Show {
	if movie, ok := c.catalog.Movie(b.Movie.Id); ok {
		for _, show := range movie.Shows {
			if show.Id == b.Show.Id {
				return show
			}
		}
	}
	return *b.Show
}

func normalizeSeats(seats []string) []string {
	var out []string
	seen := map[string]bool{}
	for _, seat := range seats {
		row, column, ok := catalog.ParseSeatID(seat)
		id := strings.ToUpper(strings.TrimSpace(seat))
		if ok {
			id = catalog.SeatID(row, column)
		}
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

// Bookings is the signed-in user's history, most recent first.
func (c *Controller) Bookings() ([]model.BookingRecord, error) {
	if c.session.User == nil {
		return nil, ErrNotAuthenticated
	}
	return store.LoadBookings(c.session.User.Id)
}

func (c *Controller) Wishlist() ([]model.WishlistItem, error) {
	if c.session.User == nil {
		return nil, ErrNotAuthenticated
	}
	return store.LoadWishlist(c.session.User.Id)
}

func (c *Controller) InWishlist(kind model.BookingKind, id string) bool {
	if c.session.User == nil {
		return false
	}
	return store.InWishlist(c.session.User.Id, kind, id)
}

// ToggleWishlist adds or removes a catalog entry and reports whether it is
// now in the wishlist.
func (c *Controller) ToggleWishlist(kind model.BookingKind, id string) (bool, error) {
	if c.session.User == nil {
		return false, ErrNotAuthenticated
	}
	item := model.WishlistItem{Kind: kind, TargetId: id, AddedAt: c.now()}
	switch kind {
	case model.BookingKindMovie:
		movie, ok := c.catalog.Movie(id)
		if !ok {
			return false, fmt.Errorf("unknown movie %q", id)
		}
		item.Title = movie.Title
	case model.BookingKindEvent:
		event, ok := c.catalog.Event(id)
		if !ok {
			return false, fmt.Errorf("unknown event %q", id)
		}
		item.Title = event.Title
	default:
		return false, fmt.Errorf("unknown kind %q", kind)
	}
	return store.ToggleWishlist(c.session.User.Id, item)
}

// Occupancy backs the owner dashboard.
func (c *Controller) Occupancy() []catalog.ShowOccupancy {
	return c.catalog.Occupancy()
}
