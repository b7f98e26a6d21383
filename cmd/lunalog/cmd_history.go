package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"lunalog/internal/model"
	"lunalog/internal/service"
	"lunalog/internal/tui"
	"lunalog/internal/view"
)

var historyFollow bool

// historyCmd prints past entries as cards
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List past entries",
	Long: `Print every journal entry as a card. With --follow, keep the stream open
and announce new entries as they are submitted.`,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().BoolVarP(&historyFollow, "follow", "f", false, "stream new entries as they arrive")
}

func runHistory(cmd *cobra.Command, args []string) error {
	s, err := newSession()
	if err != nil {
		return err
	}
	defer s.logger.Sync()

	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	listing, err := s.api.ListEntries(ctx)
	if err != nil {
		return err
	}
	if listing.Degraded {
		fmt.Fprintln(cmd.ErrOrStderr(), "warning: the journal store is unreachable, history may be incomplete")
	}
	fmt.Fprintln(out, tui.RenderCards(view.FromEntries(listing.Entries, time.Local)))

	if !historyFollow {
		return nil
	}
	fmt.Fprintln(out, "\nwaiting for new entries (ctrl+c to stop)...")
	return s.api.Follow(ctx, func(e model.Event) {
		fmt.Fprintln(out, describeEvent(e))
	})
}

func describeEvent(e model.Event) string {
	switch e.Type {
	case service.EventEntrySubmitted:
		var p service.EntrySubmittedEvent
		if err := json.Unmarshal(e.Payload, &p); err != nil {
			break
		}
		card := view.FromEntry(model.JournalEntry{
			EntryID:   p.EntryID,
			EntryDate: model.NewEntryDate(p.SubmittedAt),
			MoodScore: p.MoodScore,
		}, time.Local)
		return tui.RenderCard(card)
	case service.EventEnrichmentFailed:
		var p service.EnrichmentFailedEvent
		if err := json.Unmarshal(e.Payload, &p); err != nil {
			break
		}
		return fmt.Sprintf("insights unavailable for the last entry: %s", p.Reason)
	}
	return fmt.Sprintf("event %s", e.Type)
}
