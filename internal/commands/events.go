package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/farellandr/clubhub/internal/club"
	"github.com/farellandr/clubhub/internal/derive"
	"github.com/farellandr/clubhub/internal/gateway"
	"github.com/farellandr/clubhub/internal/helpers"
	"github.com/farellandr/clubhub/internal/store"
	"github.com/spf13/cobra"
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "List events from the API",
	Long: `List events. The status filter is applied by the server; category and
search filters are applied to every fetched page.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		status, _ := cmd.Flags().GetString("status")
		category, _ := cmd.Flags().GetString("category")
		search, _ := cmd.Flags().GetString("search")
		all, _ := cmd.Flags().GetBool("all")

		switch status {
		case "", "upcoming", "past":
		default:
			return fmt.Errorf("status must be upcoming or past, got %q", status)
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		s, closeStore := newStore(cfg, cmd.ErrOrStderr())
		defer closeStore()

		events, err := fetchAllEvents(cmd.Context(), s, gateway.EventQuery{
			Status:             status,
			Limit:              helpers.MaxPageLimit,
			IncludeUnpublished: all,
		})
		if err != nil {
			return err
		}

		events = derive.Search(derive.ByCategory(events, category), search)
		printEvents(cmd.OutOrStdout(), events, time.Now())
		return nil
	},
}

var eventShowCmd = &cobra.Command{
	Use:   "show <id|slug>",
	Short: "Show one event",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		s, closeStore := newStore(cfg, cmd.ErrOrStderr())
		defer closeStore()

		event, err := s.FetchEvent(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		printEvent(cmd.OutOrStdout(), event, time.Now())
		return nil
	},
}

var eventQRCmd = &cobra.Command{
	Use:   "qr <id|slug>",
	Short: "Save the share QR code of an event as PNG",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out, _ := cmd.Flags().GetString("out")
		size, _ := cmd.Flags().GetInt("size")

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		client := gateway.New(cfg.APIBaseURL, gateway.WithToken(cfg.APIToken), gateway.WithTimeout(cfg.APITimeout))

		res := client.EventQR(cmd.Context(), args[0], size)
		if !res.Success {
			return fmt.Errorf("qr: %s", res.Message)
		}
		if out == "" {
			out = args[0] + ".png"
		}
		if err := os.WriteFile(out, res.Data, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", out, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Saved %s (%d bytes)\n", out, len(res.Data))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(eventsCmd)
	eventsCmd.AddCommand(eventShowCmd)
	eventsCmd.AddCommand(eventQRCmd)

	eventsCmd.Flags().String("status", "", "upcoming or past")
	eventsCmd.Flags().String("category", derive.AllCategories, "category name, or all")
	eventsCmd.Flags().String("search", "", "match title and description")
	eventsCmd.Flags().Bool("all", false, "include unpublished events (admins only)")

	eventQRCmd.Flags().StringP("out", "o", "", "output file (default <id|slug>.png)")
	eventQRCmd.Flags().Int("size", 256, "image size in pixels")
}

func startsIn(event club.Event, now time.Time) string {
	if event.When().Before(now) {
		return "past"
	}
	return derive.Countdown(event.When(), now).String()
}

// printEvents lists upcoming events soonest first, then past events newest
// first.
func printEvents(w io.Writer, events []club.Event, now time.Time) {
	if len(events) == 0 {
		fmt.Fprintln(w, "No events found.")
		return
	}

	upcoming, past := derive.Partition(events, now)
	ordered := append(derive.SortByDate(upcoming, false), derive.SortByDate(past, true)...)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "DATE\tTIME\tTITLE\tCATEGORY\tVENUE\tSTARTS IN")
	for _, e := range ordered {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			derive.FormatDay(e.Date), derive.FormatClock(e.Time), e.Title, e.Category.Name, e.Venue, startsIn(e, now))
	}
	tw.Flush()

	fmt.Fprintf(w, "\n%d upcoming, %d past. Categories: %s\n",
		len(upcoming), len(past), strings.Join(derive.Categories(ordered), ", "))
}

func printEvent(w io.Writer, e club.Event, now time.Time) {
	fmt.Fprintf(w, "%s\n", e.Title)
	fmt.Fprintf(w, "  When:      %s %s\n", derive.FormatDay(e.Date), derive.FormatClock(e.Time))
	fmt.Fprintf(w, "  Starts in: %s\n", startsIn(e, now))
	fmt.Fprintf(w, "  Venue:     %s\n", e.Venue)
	fmt.Fprintf(w, "  Category:  %s\n", e.Category.Name)
	if seats := e.SeatsLeft(); seats >= 0 {
		fmt.Fprintf(w, "  Seats:     %d of %d left\n", seats, e.Capacity)
	}
	if !e.IsPublished {
		fmt.Fprintln(w, "  Draft")
	}
	if e.Description != "" {
		fmt.Fprintf(w, "\n%s\n", e.Description)
	}
	if e.HasWinners() {
		fmt.Fprintln(w, "\nWinners:")
		for _, winner := range e.Winners {
			if winner.Team != "" {
				fmt.Fprintf(w, "  %d. %s (%s)\n", winner.Position, winner.Name, winner.Team)
			} else {
				fmt.Fprintf(w, "  %d. %s\n", winner.Position, winner.Name)
			}
		}
	}
}

// fetchAllEvents walks every page of q, starting from the first.
func fetchAllEvents(ctx context.Context, s *store.Store, q gateway.EventQuery) ([]club.Event, error) {
	var events []club.Event
	for q.Page = 1; ; q.Page++ {
		page, err := s.FetchEvents(ctx, q)
		if err != nil {
			return nil, err
		}
		events = append(events, page...)
		if int64(q.Page) >= s.Snapshot().Events.Page.TotalPages || len(page) == 0 {
			return events, nil
		}
	}
}

// fetchEvent is shared by commands that only need one event.
func fetchEvent(ctx context.Context, client *gateway.Client, idOrSlug string) (club.Event, error) {
	res := client.GetEvent(ctx, idOrSlug)
	if !res.Success {
		return club.Event{}, fmt.Errorf("event %s: %s", idOrSlug, res.Message)
	}
	return res.Data, nil
}
