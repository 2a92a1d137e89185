package catalog

import (
	"errors"
	"testing"
	"time"

	"cinebook/model"
)

var testNow = time.Date(2026, 2, 3, 9, 15, 0, 0, time.UTC)

func TestDefault_MaterialisesSchedules(t *testing.T) {
	c, err := Default(testNow)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if len(c.Movies()) == 0 || len(c.Events()) == 0 {
		t.Fatalf("expected movies and events, got %d/%d", len(c.Movies()), len(c.Events()))
	}

	movie, ok := c.Movie("m-dune-2")
	if !ok {
		t.Fatal("expected dune to be in the catalog")
	}
	first := movie.Shows[0]
	want := time.Date(2026, 2, 3, 13, 30, 0, 0, time.UTC)
	if !first.StartsAt.Equal(want) {
		t.Fatalf("expected first show at %s, got %s", want, first.StartsAt)
	}
	if first.Layout.Columns != 14 || len(first.Layout.Booked) != 3 {
		t.Fatalf("unexpected layout: %+v", first.Layout)
	}
	for i := 1; i < len(movie.Shows); i++ {
		if movie.Shows[i].StartsAt.Before(movie.Shows[i-1].StartsAt) {
			t.Fatal("expected shows sorted by start time")
		}
	}

	event, ok := c.Event("e-coldplay")
	if !ok {
		t.Fatal("expected coldplay to be in the catalog")
	}
	if got := event.Dates[0].StartsAt; !got.Equal(time.Date(2026, 2, 10, 19, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected event date: %s", got)
	}
}

func TestParse_UnknownLayout(t *testing.T) {
	data := []byte(`{"movies":[{"id":"m","shows":[{"id":"s","day":0,"time":"10:00","layout":"nope"}]}]}`)
	if _, err := Parse(data, testNow); err == nil {
		t.Fatal("expected error for unknown layout")
	}
}

func TestParse_InvalidTime(t *testing.T) {
	data := []byte(`{"events":[{"id":"e","dates":[{"id":"d","day":0,"time":"25:99"}]}]}`)
	if _, err := Parse(data, testNow); err == nil {
		t.Fatal("expected error for invalid time")
	}
}

func TestSearch(t *testing.T) {
	c, err := Default(testNow)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if got := c.SearchMovies("ANIMATION"); len(got) != 1 || got[0].Id != "m-inside-out-2" {
		t.Fatalf("unexpected movie search result: %+v", got)
	}
	if got := c.SearchMovies(""); len(got) != len(c.Movies()) {
		t.Fatalf("expected empty query to return everything, got %d", len(got))
	}
	if got := c.SearchEvents("comedy pune"); len(got) != 1 || got[0].Id != "e-standup" {
		t.Fatalf("unexpected event search result: %+v", got)
	}
	if got := c.SearchEvents("opera"); len(got) != 0 {
		t.Fatalf("expected no results, got %+v", got)
	}
}

func TestOccupancy(t *testing.T) {
	c, err := Default(testNow)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	rows := c.Occupancy()
	if len(rows) != 7 {
		t.Fatalf("expected 7 shows, got %d", len(rows))
	}
	for _, row := range rows {
		if row.Show.Id == "s-io-1" {
			if row.Booked != 2 || row.Total != 58 {
				t.Fatalf("unexpected occupancy: %d/%d", row.Booked, row.Total)
			}
			return
		}
	}
	t.Fatal("expected s-io-1 in occupancy")
}

func testShow() model.Show {
	return model.Show{
		Id:           "s",
		Price:        350,
		PremiumPrice: 500,
		Layout: model.SeatLayout{
			Rows:        []string{"A", "B", "C"},
			Columns:     4,
			PremiumRows: []string{"C"},
			Booked:      []string{"B2"},
			Blocked:     []string{"A4"},
		},
	}
}

func TestParseSeatID(t *testing.T) {
	row, col, ok := ParseSeatID(" c12 ")
	if !ok || row != "C" || col != 12 {
		t.Fatalf("unexpected parse: %q %d %v", row, col, ok)
	}
	for _, bad := range []string{"", "12", "A", "A0", "A-1"} {
		if _, _, ok := ParseSeatID(bad); ok {
			t.Fatalf("expected %q to be rejected", bad)
		}
	}
}

func TestSeatStatus(t *testing.T) {
	layout := testShow().Layout
	cases := map[string]SeatStatus{
		"A1": SeatAvailable,
		"B2": SeatBooked,
		"A4": SeatBlocked,
		"A5": SeatMissing,
		"D1": SeatMissing,
	}
	for id, want := range cases {
		if got := Status(layout, id); got != want {
			t.Fatalf("seat %s: expected %d, got %d", id, want, got)
		}
	}
}

func TestSeatsTotal(t *testing.T) {
	show := testShow()

	total, err := SeatsTotal(show, []string{"A1", "A2"})
	if err != nil || total != 700 {
		t.Fatalf("expected 700, got %v (%v)", total, err)
	}
	total, err = SeatsTotal(show, []string{"A1", "C1"})
	if err != nil || total != 850 {
		t.Fatalf("expected premium pricing, got %v (%v)", total, err)
	}
	if _, err := SeatsTotal(show, []string{"B2"}); !errors.Is(err, ErrSeatTaken) {
		t.Fatalf("expected ErrSeatTaken, got %v", err)
	}
	if _, err := SeatsTotal(show, []string{"Z9"}); !errors.Is(err, ErrUnknownSeat) {
		t.Fatalf("expected ErrUnknownSeat, got %v", err)
	}
	if _, err := SeatsTotal(show, nil); !errors.Is(err, ErrEmptySelection) {
		t.Fatalf("expected ErrEmptySelection, got %v", err)
	}
}

func testEvent() model.Event {
	return model.Event{
		Id: "e",
		Zones: []model.Zone{
			{Id: "vip", Name: "VIP", Price: 1000, Available: 3, MaxPerUser: 2},
			{Id: "ga", Name: "General", Price: 250, Available: 100},
		},
	}
}

func TestZonesTotal(t *testing.T) {
	event := testEvent()

	total, err := ZonesTotal(event, map[string]int{"vip": 2, "ga": 4, "other": 0})
	if err != nil || total != 3000 {
		t.Fatalf("expected 3000, got %v (%v)", total, err)
	}
	if _, err := ZonesTotal(event, map[string]int{"vip": 3}); !errors.Is(err, ErrZoneLimit) {
		t.Fatalf("expected ErrZoneLimit, got %v", err)
	}
	if _, err := ZonesTotal(event, map[string]int{"ga": 101}); !errors.Is(err, ErrZoneSoldOut) {
		t.Fatalf("expected ErrZoneSoldOut, got %v", err)
	}
	if _, err := ZonesTotal(event, map[string]int{"balcony": 1}); !errors.Is(err, ErrUnknownZone) {
		t.Fatalf("expected ErrUnknownZone, got %v", err)
	}
	if _, err := ZonesTotal(event, map[string]int{"vip": 0}); !errors.Is(err, ErrEmptySelection) {
		t.Fatalf("expected ErrEmptySelection, got %v", err)
	}
}

func TestZoneSummary(t *testing.T) {
	got := ZoneSummary(testEvent(), map[string]int{"ga": 2, "vip": 1})
	if len(got) != 2 || got[0] != "1 × VIP" || got[1] != "2 × General" {
		t.Fatalf("unexpected summary: %v", got)
	}
}

func TestReserveSeats(t *testing.T) {
	c, err := Default(testNow)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	before, _ := c.Movie("m-dune-2")

	if err := c.ReserveSeats("s-dune-3", []string{"c4", "C5"}); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	after, _ := c.Movie("m-dune-2")
	var show model.Show
	for _, s := range after.Shows {
		if s.Id == "s-dune-3" {
			show = s
		}
	}
	if Status(show.Layout, "C4") != SeatBooked || Status(show.Layout, "C5") != SeatBooked {
		t.Fatalf("expected seats booked, got %v", show.Layout.Booked)
	}
	for _, s := range before.Shows {
		if s.Id == "s-dune-3" && len(s.Layout.Booked) != 0 {
			t.Fatalf("expected earlier copy untouched, got %v", s.Layout.Booked)
		}
	}

	if err := c.ReserveSeats("s-dune-3", []string{"C4"}); !errors.Is(err, ErrSeatTaken) {
		t.Fatalf("expected ErrSeatTaken, got %v", err)
	}
	if err := c.ReserveSeats("nope", []string{"A2"}); err == nil {
		t.Fatal("expected error for unknown show")
	}
}

func TestReserveZones(t *testing.T) {
	c, err := Default(testNow)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	before, _ := c.Event("e-standup")

	if err := c.ReserveZones("e-standup", map[string]int{"z-front": 4}); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	after, _ := c.Event("e-standup")
	if after.Zones[0].Available != 2 {
		t.Fatalf("expected 2 left, got %d", after.Zones[0].Available)
	}
	if before.Zones[0].Available != 6 {
		t.Fatalf("expected earlier copy untouched, got %d", before.Zones[0].Available)
	}
	if err := c.ReserveZones("e-standup", map[string]int{"z-front": 3}); !errors.Is(err, ErrZoneSoldOut) {
		t.Fatalf("expected ErrZoneSoldOut, got %v", err)
	}
}
