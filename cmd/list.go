package cmd

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"cinebook/model"
	"cinebook/report"
	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"golang.org/x/exp/maps"
)

func newShowtimesCmd() *cobra.Command {
	showtimesCmd := &cobra.Command{
		Use:   "showtimes",
		Short: "List the showtimes of a movie",
		Long:  `List where and when a movie is playing. Without --movie a picker lists every movie.`,
		RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
			id, _ := cmd.Flags().GetString("movie")
			if id == "" {
				var err error
				if id, err = promptSelectMovie(a.ctrl.Catalog().Movies()); err != nil {
					return err
				}
			}
			movie, ok := a.ctrl.Catalog().Movie(id)
			if !ok {
				return fmt.Errorf("unknown movie %q", id)
			}
			return report.Write(cmd.OutOrStdout(), report.Showtimes(movie))
		}),
	}
	showtimesCmd.Flags().String("movie", "", "movie id, e.g. m-dune-2")
	return showtimesCmd
}

func newEventsCmd() *cobra.Command {
	eventsCmd := &cobra.Command{
		Use:   "events",
		Short: "List live events with their zones",
		RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
			events := a.ctrl.Catalog().Events()
			if query, _ := cmd.Flags().GetString("search"); query != "" {
				events = a.ctrl.Catalog().SearchEvents(query)
			}
			if len(events) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No events found")
				return nil
			}
			return report.Write(cmd.OutOrStdout(), report.Events(events))
		}),
	}
	eventsCmd.Flags().String("search", "", "filter by title, category, venue or city")
	return eventsCmd
}

func newBookingsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "bookings",
		Short: "Show your booking history",
		RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
			if !a.ctrl.Session().Authenticated {
				return errNotSignedIn
			}
			records, err := a.ctrl.Bookings()
			if err != nil {
				return err
			}
			if len(records) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No bookings yet")
				return nil
			}
			return report.Write(cmd.OutOrStdout(), report.Bookings(records))
		}),
	}
}

func newDashboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show seat occupancy per show (theatre owners)",
		RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
			if a.ctrl.Session().Role() != model.RoleOwner {
				return errors.New("the dashboard is only available to theatre owners")
			}
			return report.Write(cmd.OutOrStdout(), report.Occupancy(a.ctrl.Occupancy()))
		}),
	}
}

func promptSelectMovie(movies []model.Movie) (string, error) {
	movieIdByTitle := make(map[string]string, len(movies))
	for _, movie := range movies {
		movieIdByTitle[movie.Title] = movie.Id
	}
	titles := maps.Keys(movieIdByTitle)
	slices.Sort(titles)

	searcher := func(input string, index int) bool {
		return strings.Contains(strings.ToLower(titles[index]), strings.ToLower(input))
	}

	selectMovie := promptui.Select{
		Label:    "Select Movie",
		Items:    titles,
		Size:     10,
		Searcher: searcher,
	}
	_, title, err := selectMovie.Run()
	if err != nil {
		return "", fmt.Errorf("movie prompt: %w", err)
	}
	return movieIdByTitle[title], nil
}
