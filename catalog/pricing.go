package catalog

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"cinebook/model"
	"golang.org/x/exp/maps"
)

type SeatStatus int

const (
	SeatAvailable SeatStatus = iota
	SeatBooked
	SeatBlocked
	SeatMissing
)

var (
	ErrUnknownSeat    = errors.New("unknown seat")
	ErrSeatTaken      = errors.New("seat is not available")
	ErrUnknownZone    = errors.New("unknown zone")
	ErrZoneSoldOut    = errors.New("not enough tickets left in zone")
	ErrZoneLimit      = errors.New("too many tickets for one booking")
	ErrEmptySelection = errors.New("nothing selected")
)

func SeatID(row string, column int) string {
	return row + strconv.Itoa(column)
}

// ParseSeatID splits "C12" into its row letter(s) and column.
func ParseSeatID(id string) (string, int, bool) {
	id = strings.ToUpper(strings.TrimSpace(id))
	split := strings.IndexFunc(id, func(r rune) bool { return r >= '0' && r <= '9' })
	if split <= 0 {
		return "", 0, false
	}
	row := id[:split]
	for _, r := range row {
		if r < 'A' || r > 'Z' {
			return "", 0, false
		}
	}
	column, err := strconv.Atoi(id[split:])
	if err != nil || column <= 0 {
		return "", 0, false
	}
	return row, column, true
}

func Status(layout model.SeatLayout, id string) SeatStatus {
	row, column, ok := ParseSeatID(id)
	if !ok || column > layout.Columns || !slices.Contains(layout.Rows, row) {
		return SeatMissing
	}
	normalized := SeatID(row, column)
	if slices.Contains(layout.Blocked, normalized) {
		return SeatBlocked
	}
	if slices.Contains(layout.Booked, normalized) {
		return SeatBooked
	}
	return SeatAvailable
}

// SellableSeats counts every seat that is not blocked.
func SellableSeats(layout model.SeatLayout) int {
	total := len(layout.Rows)*layout.Columns - len(layout.Blocked)
	return max(total, 0)
}

// SeatPrice is the show price, or the premium price for premium rows.
func SeatPrice(show model.Show, id string) float64 {
	row, _, ok := ParseSeatID(id)
	if ok && show.PremiumPrice > 0 && slices.Contains(show.Layout.PremiumRows, row) {
		return show.PremiumPrice
	}
	return show.Price
}

// SeatsTotal validates that every seat can be sold and returns their price.
func SeatsTotal(show model.Show, seats []string) (float64, error) {
	if len(seats) == 0 {
		return 0, ErrEmptySelection
	}
	seen := map[string]bool{}
	var total float64
	for _, seat := range seats {
		switch Status(show.Layout, seat) {
		case SeatMissing:
			return 0, fmt.Errorf("%w: %s", ErrUnknownSeat, seat)
		case SeatBooked, SeatBlocked:
			return 0, fmt.Errorf("%w: %s", ErrSeatTaken, seat)
		}
		key := strings.ToUpper(seat)
		if seen[key] {
			continue
		}
		seen[key] = true
		total += SeatPrice(show, seat)
	}
	return total, nil
}

// ZonesTotal validates the requested ticket counts against each zone's
// availability and per-booking limit and returns their price.
func ZonesTotal(event model.Event, zones map[string]int) (float64, error) {
	keys := maps.Keys(zones)
	slices.Sort(keys)

	var total float64
	picked := 0
	for _, id := range keys {
		count := zones[id]
		if count <= 0 {
			continue
		}
		zone, ok := findZone(event, id)
		if !ok {
			return 0, fmt.Errorf("%w: %s", ErrUnknownZone, id)
		}
		if count > zone.Available {
			return 0, fmt.Errorf("%w: %s has %d left", ErrZoneSoldOut, zone.Name, zone.Available)
		}
		if zone.MaxPerUser > 0 && count > zone.MaxPerUser {
			return 0, fmt.Errorf("%w: at most %d in %s", ErrZoneLimit, zone.MaxPerUser, zone.Name)
		}
		total += zone.Price * float64(count)
		picked += count
	}
	if picked == 0 {
		return 0, ErrEmptySelection
	}
	return total, nil
}

// ZoneSummary renders a zone selection as "2 × Floor" lines in zone order.
func ZoneSummary(event model.Event, zones map[string]int) []string {
	var out []string
	for _, zone := range event.Zones {
		if count := zones[zone.Id]; count > 0 {
			out = append(out, fmt.Sprintf("%d × %s", count, zone.Name))
		}
	}
	return out
}

func findZone(event model.Event, id string) (model.Zone, bool) {
	for _, zone := range event.Zones {
		if zone.Id == id {
			return zone, true
		}
	}
	return model.Zone{}, false
}
