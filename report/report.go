// Package report renders tables for the owner dashboard and the bookings
// command.
package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"cinebook/catalog"
	"cinebook/model"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// Occupancy renders one row per show, merging repeated movie and theatre
// cells.
func Occupancy(rows []catalog.ShowOccupancy) string {
	t := newTable()
	rowConfigAutoMerge := table.RowConfig{AutoMerge: true}
	t.AppendHeader(table.Row{"Movie", "Theatre", "Screen", "Time", "Booked", "Occupancy"}, rowConfigAutoMerge)
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, AutoMerge: true, WidthMax: 24},
		{Number: 2, AutoMerge: true},
		{Number: 5, Align: text.AlignRight},
		{Number: 6, Align: text.AlignRight},
	})

	booked, total := 0, 0
	for _, row := range rows {
		t.AppendRow(table.Row{
			row.Movie.Title,
			row.Show.Theatre,
			row.Show.Screen,
			row.Show.StartsAt.Format("Mon 02 Jan 15:04"),
			fmt.Sprintf("%d/%d", row.Booked, row.Total),
			fmt.Sprintf("%.0f%%", row.Percent()),
		}, rowConfigAutoMerge)
		booked += row.Booked
		total += row.Total
	}
	overall := catalog.ShowOccupancy{Booked: booked, Total: total}
	t.AppendFooter(table.Row{"", "", "", "Total", fmt.Sprintf("%d/%d", booked, total), fmt.Sprintf("%.0f%%", overall.Percent())})
	return t.Render()
}

// Bookings renders a booking history, most recent first as given.
func Bookings(records []model.BookingRecord) string {
	t := newTable()
	t.AppendHeader(table.Row{"Reference", "Title", "When", "Venue", "Tickets", "Paid"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, WidthMax: 28},
		{Number: 6, Align: text.AlignRight},
	})
	for _, record := range records {
		t.AppendRow(table.Row{
			shortRef(record.Reference),
			record.Title,
			formatTime(record.Schedule),
			record.Venue,
			strings.Join(record.Items, ", "),
			fmt.Sprintf("%.2f", record.TotalPrice),
		})
	}
	return t.Render()
}

// Write renders into out, for commands that print straight to stdout.
func Write(out io.Writer, rendered string) error {
	_, err := fmt.Fprintln(out, rendered)
	return err
}

func newTable() table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.Style().Format.Header = text.FormatDefault
	t.Style().Format.Footer = text.FormatDefault
	t.Style().Options.SeparateRows = true
	return t
}

func shortRef(reference string) string {
	if len(reference) > 8 {
		return reference[:8]
	}
	return reference
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("02 Jan 15:04")
}

// Showtimes renders the shows of one movie grouped by theatre.
func Showtimes(movie model.Movie) string {
	t := newTable()
	rowConfigAutoMerge := table.RowConfig{AutoMerge: true}
	t.SetTitle(movie.Title)
	t.AppendHeader(table.Row{"Theatre", "Screen", "Time", "Format", "From", "Seats left"}, rowConfigAutoMerge)
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, AutoMerge: true, WidthMax: 24},
		{Number: 2, AutoMerge: true},
		{Number: 5, Align: text.AlignRight},
		{Number: 6, Align: text.AlignRight},
	})
	for _, show := range movie.Shows {
		left := catalog.SellableSeats(show.Layout) - len(show.Layout.Booked)
		t.AppendRow(table.Row{
			show.Theatre,
			show.Screen,
			show.StartsAt.Format("Mon 02 Jan 15:04"),
			show.Format,
			fmt.Sprintf("%.2f", show.Price),
			max(left, 0),
		}, rowConfigAutoMerge)
	}
	return t.Render()
}

// Events renders one row per event zone, merging the event columns.
func Events(events []model.Event) string {
	t := newTable()
	rowConfigAutoMerge := table.RowConfig{AutoMerge: true}
	t.AppendHeader(table.Row{"Event", "Venue", "Dates", "Zone", "Price", "Left"}, rowConfigAutoMerge)
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, AutoMerge: true, WidthMax: 24},
		{Number: 2, AutoMerge: true},
		{Number: 3, AutoMerge: true},
		{Number: 5, Align: text.AlignRight},
		{Number: 6, Align: text.AlignRight},
	})
	for _, event := range events {
		dates := make([]string, 0, len(event.Dates))
		for _, date := range event.Dates {
			dates = append(dates, date.StartsAt.Format("02 Jan 15:04"))
		}
		var rows []table.Row
		for _, zone := range event.Zones {
			rows = append(rows, table.Row{
				event.Title,
				event.Venue,
				strings.Join(dates, "\n"),
				zone.Name,
				fmt.Sprintf("%.2f", zone.Price),
				zone.Available,
			})
		}
		t.AppendRows(rows, rowConfigAutoMerge)
		t.AppendSeparator()
	}
	return t.Render()
}
