package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"lunalog/internal/tui"
	"lunalog/internal/wizard"
)

// journalCmd runs the questionnaire wizard
var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Answer today's questionnaire",
	Long: `Walk through the questionnaire one question at a time and submit it.

Keys:
  1-9, 0   rate 1..10
  ←/→      adjust the rating
  enter    next question / submit
  r        retry a failed submission
  n        start a new entry
  q        quit`,
	RunE: runJournal,
}

func runJournal(cmd *cobra.Command, args []string) error {
	s, err := newSession()
	if err != nil {
		return err
	}
	defer s.logger.Sync()

	ctx := cmd.Context()
	questions, err := s.api.Catalog(ctx)
	if err != nil {
		return fmt.Errorf("failed to load questions from %s: %w", s.cfg.APIBaseURL, err)
	}

	collector, err := wizard.New(questions, s.api, wizard.WithSubmitTimeout(s.cfg.SubmitTimeout))
	if err != nil {
		return err
	}

	_, err = tea.NewProgram(tui.NewJournalModel(ctx, collector, s.api), tea.WithContext(ctx)).Run()
	return err
}
