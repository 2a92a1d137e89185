package booking

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"cinebook/model"
)

// Step is the position of a booking in the pipeline.
type Step int

const (
	StepTargetSelected Step = iota + 1
	StepScheduleSelected
	StepInventorySelected
	StepPaid
)

func (s Step) String() string {
	switch s {
	case StepTargetSelected:
		return "target selected"
	case StepScheduleSelected:
		return "schedule selected"
	case StepInventorySelected:
		return "inventory selected"
	case StepPaid:
		return "paid"
	}
	return fmt.Sprintf("step(%d)", int(s))
}

// Action is a step-advancing operation.
type Action int

const (
	ActionSelectSchedule Action = iota + 1
	ActionSelectInventory
	ActionCompletePayment
)

func (a Action) String() string {
	switch a {
	case ActionSelectSchedule:
		return "select schedule"
	case ActionSelectInventory:
		return "select inventory"
	case ActionCompletePayment:
		return "complete payment"
	}
	return fmt.Sprintf("action(%d)", int(a))
}

type transition struct {
	From   Step
	Action Action
	To     Step
}

// transitions lists every forward edge. Selecting a target and resetting are
// valid from any step and are not part of the table.
var transitions = []transition{
	{From: StepTargetSelected, Action: ActionSelectSchedule, To: StepScheduleSelected},
	{From: StepScheduleSelected, Action: ActionSelectInventory, To: StepInventorySelected},
	{From: StepInventorySelected, Action: ActionCompletePayment, To: StepPaid},
}

func transitionFor(from Step, action Action) (transition, bool) {
	for _, tr := range transitions {
		if tr.From == from && tr.Action == action {
			return tr, true
		}
	}
	return transition{}, false
}

var (
	ErrOutOfOrder       = errors.New("booking step out of order")
	ErrNoTarget         = errors.New("no movie or event selected")
	ErrWrongBookingType = errors.New("operation does not match the booking type")
	ErrInvalidSelection = errors.New("invalid selection")
	ErrNotPaid          = errors.New("booking is not paid")
)

// StepError is returned when an action is attempted from a step that has no
// edge for it. The flow is left unchanged.
type StepError struct {
	Action Action
	Step   Step
}

func (e *StepError) Error() string {
	return fmt.Sprintf("cannot %s at step %d (%s)", e.Action, int(e.Step), e.Step)
}

func (e *StepError) Unwrap() error { return ErrOutOfOrder }

// Flow is the booking state machine. It is not safe for concurrent use; the
// UI drives it from a single event loop.
type Flow struct {
	step    Step
	booking Booking
	payment Payment
}

func NewFlow() *Flow {
	return &Flow{step: StepTargetSelected}
}

func (f *Flow) Step() Step {
	return f.step
}

// Kind is the active pipeline, TypeNone when nothing is selected.
func (f *Flow) Kind() Type {
	if f.booking == nil {
		return TypeNone
	}
	return f.booking.Kind()
}

// Booking returns a copy of the active booking, or nil.
func (f *Flow) Booking() Booking {
	switch b := f.booking.(type) {
	case *MovieBooking:
		return b.clone()
	case *EventBooking:
		return b.clone()
	}
	return nil
}

// TotalPrice is only reported once inventory has been chosen.
func (f *Flow) TotalPrice() (float64, bool) {
	if f.step < StepInventorySelected {
		return 0, false
	}
	switch b := f.booking.(type) {
	case *MovieBooking:
		return b.TotalPrice, true
	case *EventBooking:
		return b.TotalPrice, true
	}
	return 0, false
}

// SelectMovie starts a movie booking, discarding any previous selection.
func (f *Flow) SelectMovie(movie model.Movie) {
	f.reset()
	f.booking = &MovieBooking{Movie: movie}
}

// SelectEvent starts an event booking, discarding any previous selection.
func (f *Flow) SelectEvent(event model.Event) {
	f.reset()
	f.booking = &EventBooking{Event: event}
}

func (f *Flow) SelectShowtime(show model.Show) error {
	b, err := f.movieFor(ActionSelectSchedule)
	if err != nil {
		return err
	}
	if strings.TrimSpace(show.Id) == "" {
		return fmt.Errorf("%w: showtime is required", ErrInvalidSelection)
	}
	if len(b.Movie.Shows) > 0 && !slices.ContainsFunc(b.Movie.Shows, func(s model.Show) bool { return s.Id == show.Id }) {
		return fmt.Errorf("%w: show %s is not playing %s", ErrInvalidSelection, show.Id, b.Movie.Title)
	}
	b.Show = &show
	f.advance(ActionSelectSchedule)
	return nil
}

func (f *Flow) SelectDate(date model.EventDate) error {
	b, err := f.eventFor(ActionSelectSchedule)
	if err != nil {
		return err
	}
	if strings.TrimSpace(date.Id) == "" && date.StartsAt.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidSelection)
	}
	if len(b.Event.Dates) > 0 && !slices.ContainsFunc(b.Event.Dates, func(d model.EventDate) bool { return d.Id == date.Id }) {
		return fmt.Errorf("%w: %s is not scheduled on that date", ErrInvalidSelection, b.Event.Title)
	}
	b.Date = &date
	f.advance(ActionSelectSchedule)
	return nil
}

func (f *Flow) SelectSeats(seats []string, price float64) error {
	b, err := f.movieFor(ActionSelectInventory)
	if err != nil {
		return err
	}
	if len(seats) == 0 {
		return fmt.Errorf("%w: select at least one seat", ErrInvalidSelection)
	}
	if price < 0 {
		return fmt.Errorf("%w: price must not be negative", ErrInvalidSelection)
	}
	for _, seat := range seats {
		if strings.TrimSpace(seat) == "" {
			return fmt.Errorf("%w: empty seat id", ErrInvalidSelection)
		}
	}
	b.Seats = slices.Clone(seats)
	b.TotalPrice = price
	f.advance(ActionSelectInventory)
	return nil
}

func (f *Flow) SelectZones(zones map[string]int, price float64) error {
	b, err := f.eventFor(ActionSelectInventory)
	if err != nil {
		return err
	}
	if len(zones) == 0 {
		return fmt.Errorf("%w: select at least one zone", ErrInvalidSelection)
	}
	if price < 0 {
		return fmt.Errorf("%w: price must not be negative", ErrInvalidSelection)
	}
	picked := make(map[string]int, len(zones))
	for id, count := range zones {
		if strings.TrimSpace(id) == "" || count <= 0 {
			return fmt.Errorf("%w: zone %q has count %d", ErrInvalidSelection, id, count)
		}
		picked[id] = count
	}
	b.Zones = picked
	b.TotalPrice = price
	f.advance(ActionSelectInventory)
	return nil
}

// CompletePayment moves a booking with inventory to paid. It assumes the
// payment itself already succeeded and is rejected while one is in flight.
func (f *Flow) CompletePayment() error {
	if f.booking == nil {
		return ErrNoTarget
	}
	if err := f.allowed(ActionCompletePayment); err != nil {
		return err
	}
	if f.payment.State == PaymentProcessing {
		return ErrPaymentInFlight
	}
	f.payment = Payment{State: PaymentCompleted, Attempts: f.payment.Attempts}
	f.advance(ActionCompletePayment)
	return nil
}

// GoBack abandons the booking.
func (f *Flow) GoBack() {
	f.reset()
}

// StartNewBooking clears a finished (or abandoned) booking.
func (f *Flow) StartNewBooking() {
	f.reset()
}

func (f *Flow) reset() {
	f.step = StepTargetSelected
	f.booking = nil
	f.payment = Payment{}
}

func (f *Flow) advance(action Action) {
	if tr, ok := transitionFor(f.step, action); ok {
		f.step = tr.To
	}
}

func (f *Flow) allowed(action Action) error {
	if _, ok := transitionFor(f.step, action); !ok {
		return &StepError{Action: action, Step: f.step}
	}
	return nil
}

func (f *Flow) movieFor(action Action) (*MovieBooking, error) {
	if f.booking == nil {
		return nil, ErrNoTarget
	}
	b, ok := f.booking.(*MovieBooking)
	if !ok {
		return nil, ErrWrongBookingType
	}
	if err := f.allowed(action); err != nil {
		return nil, err
	}
	return b, nil
}

func (f *Flow) eventFor(action Action) (*EventBooking, error) {
	if f.booking == nil {
		return nil, ErrNoTarget
	}
	b, ok := f.booking.(*EventBooking)
	if !ok {
		return nil, ErrWrongBookingType
	}
	if err := f.allowed(action); err != nil {
		return nil, err
	}
	return b, nil
}

// Record describes a paid booking for the history.
func (f *Flow) Record(userID int64, reference string, at time.Time) (model.BookingRecord, error) {
	if f.step != StepPaid {
		return model.BookingRecord{}, ErrNotPaid
	}
	record := model.BookingRecord{Reference: reference, UserId: userID, BookedAt: at}
	switch b := f.booking.(type) {
	case *MovieBooking:
		record.Kind = model.BookingKindMovie
		record.TargetId = b.Movie.Id
		record.Title = b.Movie.Title
		record.Items = slices.Clone(b.Seats)
		record.TotalPrice = b.TotalPrice
		if b.Show != nil {
			record.Venue = strings.TrimSpace(b.Show.Theatre + " " + b.Show.Screen)
			record.Schedule = b.Show.StartsAt
		}
	case *EventBooking:
		record.Kind = model.BookingKindEvent
		record.TargetId = b.Event.Id
		record.Title = b.Event.Title
		record.Venue = b.Event.Venue
		record.TotalPrice = b.TotalPrice
		if b.Date != nil {
			record.Schedule = b.Date.StartsAt
		}
		for _, zone := range b.Event.Zones {
			if count := b.Zones[zone.Id]; count > 0 {
				record.Items = append(record.Items, fmt.Sprintf("%d × %s", count, zone.Name))
			}
		}
	}
	return record, nil
}
