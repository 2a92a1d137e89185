package catalog

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"
	"time"

	"cinebook/model"
)

//go:embed catalog.json
var defaultCatalog []byte

// Catalog is the browsable set of movies and events. Schedules in the
// source data are relative (days from today plus a wall clock time) and are
// materialised when the catalog is built.
type Catalog struct {
	movies []model.Movie
	events []model.Event
}

type rawCatalog struct {
	Movies  []rawMovie                  `json:"movies"`
	Events  []rawEvent                  `json:"events"`
	Layouts map[string]model.SeatLayout `json:"layouts"`
}

type rawMovie struct {
	model.Movie
	Shows []rawShow `json:"shows"`
}

type rawShow struct {
	model.Show
	Day    int      `json:"day"`
	Time   string   `json:"time"`
	Layout string   `json:"layout"`
	Booked []string `json:"booked"`
}

type rawEvent struct {
	model.Event
	Dates []rawDate `json:"dates"`
}

type rawDate struct {
	Id   string `json:"id"`
	Day  int    `json:"day"`
	Time string `json:"time"`
}

// Default returns the catalog bundled with the binary.
func Default(now time.Time) (*Catalog, error) {
	return Parse(defaultCatalog, now)
}

// Parse builds a catalog from its JSON form relative to now.
func Parse(data []byte, now time.Time) (*Catalog, error) {
	var raw rawCatalog
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	c := &Catalog{}

	for _, rm := range raw.Movies {
		movie := rm.Movie
		movie.Shows = nil
		for _, rs := range rm.Shows {
			show := rs.Show
			startsAt, err := materialise(day, rs.Day, rs.Time)
			if err != nil {
				return nil, fmt.Errorf("show %s: %w", rs.Id, err)
			}
			show.StartsAt = startsAt
			layout, ok := raw.Layouts[rs.Layout]
			if !ok {
				return nil, fmt.Errorf("show %s: unknown layout %q", rs.Id, rs.Layout)
			}
			layout.Booked = append([]string(nil), rs.Booked...)
			show.Layout = layout
			movie.Shows = append(movie.Shows, show)
		}
		sort.Slice(movie.Shows, func(i, j int) bool {
			return movie.Shows[i].StartsAt.Before(movie.Shows[j].StartsAt)
		})
		c.movies = append(c.movies, movie)
	}

	for _, re := range raw.Events {
		event := re.Event
		event.Dates = nil
		for _, rd := range re.Dates {
			startsAt, err := materialise(day, rd.Day, rd.Time)
			if err != nil {
				return nil, fmt.Errorf("event date %s: %w", rd.Id, err)
			}
			event.Dates = append(event.Dates, model.EventDate{Id: rd.Id, StartsAt: startsAt})
		}
		c.events = append(c.events, event)
	}

	return c, nil
}

func materialise(day time.Time, offset int, clock string) (time.Time, error) {
	parsed, err := time.Parse("15:04", strings.TrimSpace(clock))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q", clock)
	}
	if offset < 0 {
		return time.Time{}, errors.New("day offset must not be negative")
	}
	d := day.AddDate(0, 0, offset)
	return time.Date(d.Year(), d.Month(), d.Day(), parsed.Hour(), parsed.Minute(), 0, 0, d.Location()), nil
}

func (c *Catalog) Movies() []model.Movie {
	return c.movies
}

func (c *Catalog) Events() []model.Event {
	return c.events
}

func (c *Catalog) Movie(id string) (model.Movie, bool) {
	for _, movie := range c.movies {
		if movie.Id == id {
			return movie, true
		}
	}
	return model.Movie{}, false
}

func (c *Catalog) Event(id string) (model.Event, bool) {
	for _, event := range c.events {
		if event.Id == id {
			return event, true
		}
	}
	return model.Event{}, false
}

// SearchMovies matches title, genres and language case-insensitively. An
// empty query returns every movie.
func (c *Catalog) SearchMovies(query string) []model.Movie {
	terms := strings.Fields(strings.ToLower(query))
	if len(terms) == 0 {
		return c.movies
	}
	var out []model.Movie
	for _, movie := range c.movies {
		haystack := strings.ToLower(strings.Join(append([]string{movie.Title, movie.Language}, movie.Genres...), " "))
		if containsAll(haystack, terms) {
			out = append(out, movie)
		}
	}
	return out
}

// SearchEvents matches title, category, venue and city case-insensitively.
func (c *Catalog) SearchEvents(query string) []model.Event {
	terms := strings.Fields(strings.ToLower(query))
	if len(terms) == 0 {
		return c.events
	}
	var out []model.Event
	for _, event := range c.events {
		haystack := strings.ToLower(strings.Join([]string{event.Title, event.Category, event.Venue, event.City}, " "))
		if containsAll(haystack, terms) {
			out = append(out, event)
		}
	}
	return out
}

// ReserveSeats marks seats of a show as booked once they have been paid for.
func (c *Catalog) ReserveSeats(showID string, seats []string) error {
	for i := range c.movies {
		for j := range c.movies[i].Shows {
			if c.movies[i].Shows[j].Id != showID {
				continue
			}
			if _, err := SeatsTotal(c.movies[i].Shows[j], seats); err != nil {
				return err
			}
			// Callers may hold copies of the movie; never write through them.
			shows := slices.Clone(c.movies[i].Shows)
			booked := slices.Clone(shows[j].Layout.Booked)
			for _, seat := range seats {
				row, column, _ := ParseSeatID(seat)
				if id := SeatID(row, column); !slices.Contains(booked, id) {
					booked = append(booked, id)
				}
			}
			shows[j].Layout.Booked = booked
			c.movies[i].Shows = shows
			return nil
		}
	}
	return fmt.Errorf("unknown show %q", showID)
}

// ReserveZones takes paid tickets out of each zone's availability.
func (c *Catalog) ReserveZones(eventID string, zones map[string]int) error {
	for i := range c.events {
		if c.events[i].Id != eventID {
			continue
		}
		if _, err := ZonesTotal(c.events[i], zones); err != nil {
			return err
		}
		updated := slices.Clone(c.events[i].Zones)
		for j := range updated {
			if count := zones[updated[j].Id]; count > 0 {
				updated[j].Available -= count
			}
		}
		c.events[i].Zones = updated
		return nil
	}
	return fmt.Errorf("unknown event %q", eventID)
}

// ShowOccupancy is one row of the owner dashboard.
type ShowOccupancy struct {
	Movie  model.Movie
	Show   model.Show
	Booked int
	Total  int
}

func (o ShowOccupancy) Percent() float64 {
	if o.Total == 0 {
		return 0
	}
	return float64(o.Booked) / float64(o.Total) * 100
}

// Occupancy lists every show ordered by start time.
func (c *Catalog) Occupancy() []ShowOccupancy {
	var out []ShowOccupancy
	for _, movie := range c.movies {
		for _, show := range movie.Shows {
			total := SellableSeats(show.Layout)
			out = append(out, ShowOccupancy{
				Movie:  movie,
				Show:   show,
				Booked: min(len(show.Layout.Booked), total),
				Total:  total,
			})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Show.StartsAt.Before(out[j].Show.StartsAt)
	})
	return out
}

func containsAll(haystack string, terms []string) bool {
	for _, term := range terms {
		if !strings.Contains(haystack, term) {
			return false
		}
	}
	return true
}
