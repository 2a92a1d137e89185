package booking

import (
	"maps"
	"slices"

	"cinebook/model"
)

// Type selects which of the two booking pipelines is active.
type Type int

const (
	TypeNone Type = iota
	TypeMovie
	TypeEvent
)

func (t Type) String() string {
	switch t {
	case TypeMovie:
		return "movie"
	case TypeEvent:
		return "event"
	default:
		return "none"
	}
}

// Booking is either a *MovieBooking or an *EventBooking. The unexported
// method keeps the set closed, so a flow can never hold both.
type Booking interface {
	Kind() Type
	sealed()
}

type MovieBooking struct {
	Movie      model.Movie
	Show       *model.Show
	Seats      []string
	TotalPrice float64
}

func (*MovieBooking) Kind() Type { return TypeMovie }
func (*MovieBooking) sealed()    {}

type EventBooking struct {
	Event      model.Event
	Date       *model.EventDate
	Zones      map[string]int
	TotalPrice float64
}

func (*EventBooking) Kind() Type { return TypeEvent }
func (*EventBooking) sealed()    {}

func (b *MovieBooking) clone() *MovieBooking {
	out := *b
	if b.Show != nil {
		show := *b.Show
		out.Show = &show
	}
	out.Seats = slices.Clone(b.Seats)
	return &out
}

func (b *EventBooking) clone() *EventBooking {
	out := *b
	if b.Date != nil {
		date := *b.Date
		out.Date = &date
	}
	out.Zones = maps.Clone(b.Zones)
	return &out
}

// TicketCount is the number of seats or zone tickets selected so far.
func TicketCount(b Booking) int {
	switch v := b.(type) {
	case *MovieBooking:
		return len(v.Seats)
	case *EventBooking:
		n := 0
		for _, count := range v.Zones {
			n += count
		}
		return n
	}
	return 0
}
