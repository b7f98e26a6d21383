package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"lunalog/internal/model"
	"lunalog/internal/view"
	"lunalog/internal/wizard"
)

// EntryLister lists stored entries for the post-submit overview
type EntryLister interface {
	ListEntries(ctx context.Context) (model.EntryListing, error)
}

// submitResultMsg carries the outcome of a submission run off the event loop
type submitResultMsg struct {
	sub *wizard.Submission
	err error
}

// overviewMsg carries the overview fetched after sub was stored
type overviewMsg struct {
	sub      *wizard.Submission
	overview view.Overview
	ok       bool
	err      error
}

// JournalModel is the bubbletea model of the questionnaire wizard
type JournalModel struct {
	ctx       context.Context
	collector *wizard.Collector
	lister    EntryLister // nil disables the overview
	notice    string      // last input error

	stored   *wizard.Submission // submission the overview belongs to
	overview *overviewMsg
}

// NewJournalModel wraps a collector. ctx bounds submissions started from the UI
// and the overview fetch that follows a stored entry.
func NewJournalModel(ctx context.Context, collector *wizard.Collector, lister EntryLister) JournalModel {
	return JournalModel{ctx: ctx, collector: collector, lister: lister}
}

func (m JournalModel) Init() tea.Cmd {
	return nil
}

func (m JournalModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case submitResultMsg:
		if err := m.collector.Resolve(msg.sub, msg.err); err != nil {
			m.notice = err.Error()
			return m, nil
		}
		if m.collector.State() != wizard.Complete || m.lister == nil {
			return m, nil
		}
		m.stored, m.overview = msg.sub, nil
		return m, m.fetchOverview(msg.sub)

	case overviewMsg:
		if msg.sub == m.stored && m.collector.State() == wizard.Complete {
			m.overview = &msg
		}
		return m, nil

	case tea.KeyMsg:
		m.notice = ""
		key := msg.String()
		if key == "ctrl+c" || key == "q" || key == "esc" {
			return m, tea.Quit
		}
		switch m.collector.State() {
		case wizard.Presenting:
			return m.updatePresenting(key)
		case wizard.Failed:
			switch key {
			case "r":
				return m.start(m.collector.Retry())
			case "n":
				m.reset()
			}
		case wizard.Complete:
			if key == "n" || key == "enter" {
				m.reset()
			}
		}
	}
	return m, nil
}

func (m JournalModel) updatePresenting(key string) (tea.Model, tea.Cmd) {
	current, _ := m.collector.Candidate()
	switch key {
	case "enter":
		return m.start(m.collector.Advance())
	case "left", "h", "down", "j":
		if current == 0 {
			current = model.RatingMin + 1
		}
		m.setRating(current - 1)
	case "right", "l", "up", "k":
		if current == 0 {
			current = model.RatingMin - 1
		}
		m.setRating(current + 1)
	case "0":
		m.setRating(10)
	default:
		if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
			m.setRating(int(key[0] - '0'))
		}
	}
	return m, nil
}

func (m *JournalModel) setRating(v int) {
	if v < model.RatingMin || v > model.RatingMax {
		return
	}
	if err := m.collector.SelectRating(v); err != nil {
		m.notice = err.Error()
	}
}

func (m *JournalModel) reset() {
	m.stored, m.overview = nil, nil
	if err := m.collector.Reset(); err != nil {
		m.notice = err.Error()
	}
}

// start turns an Advance or Retry result into a command running the submission
func (m JournalModel) start(sub *wizard.Submission, err error) (tea.Model, tea.Cmd) {
	if err != nil {
		m.notice = noticeFor(err)
		return m, nil
	}
	if sub == nil {
		return m, nil
	}
	ctx := m.ctx
	return m, func() tea.Msg {
		return submitResultMsg{sub: sub, err: sub.Run(ctx)}
	}
}

func (m JournalModel) fetchOverview(sub *wizard.Submission) tea.Cmd {
	ctx, lister := m.ctx, m.lister
	return func() tea.Msg {
		listing, err := lister.ListEntries(ctx)
		if err == nil && listing.Degraded {
			err = errors.New("entries unavailable")
		}
		if err != nil {
			return overviewMsg{sub: sub, err: err}
		}
		ov, ok := view.LatestOverview(listing.Entries, nil)
		return overviewMsg{sub: sub, overview: ov, ok: ok}
	}
}

func noticeFor(err error) string {
	if errors.Is(err, wizard.ErrNoRatingSelected) {
		return "Pick a rating before continuing."
	}
	return err.Error()
}

func (m JournalModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("LunaLog") + "\n\n")

	switch m.collector.State() {
	case wizard.Presenting:
		q := m.collector.Question()
		b.WriteString(progressStyle.Render(m.collector.Progress()) + "\n")
		b.WriteString(promptStyle.Render(q.Prompt) + "\n")
		if q.SubDescription != "" {
			b.WriteString(subStyle.Render(q.SubDescription) + "\n")
		}
		b.WriteString("\n" + moons(m.collector) + "\n")
		b.WriteString(m.collector.CandidateLabel() + "\n\n")
		b.WriteString(helpStyle.Render("1-9, 0 for 10, ←/→ to rate · enter to continue · q to quit"))
	case wizard.Submitting:
		b.WriteString("Saving your entry...")
	case wizard.Complete:
		b.WriteString(okStyle.Render("Entry saved.") + "\n\n")
		if m.lister != nil {
			b.WriteString(m.renderOverview() + "\n\n")
		}
		b.WriteString(helpStyle.Render("n for a new entry · q to quit"))
	case wizard.Failed:
		b.WriteString(errorStyle.Render(fmt.Sprintf("Could not save your entry: %v", m.collector.Err())) + "\n")
		b.WriteString("Your answers are kept.\n\n")
		b.WriteString(helpStyle.Render("r to retry · n to start over · q to quit"))
	}

	if m.notice != "" {
		b.WriteString("\n" + errorStyle.Render(m.notice))
	}
	return b.String() + "\n"
}

func (m JournalModel) renderOverview() string {
	switch {
	case m.overview == nil:
		return helpStyle.Render("Loading your overview...")
	case m.overview.err != nil:
		return helpStyle.Render("Overview unavailable.")
	case !m.overview.ok:
		return helpStyle.Render("No entries to summarize yet.")
	}
	return RenderOverview(m.overview.overview)
}

// moons draws the 1..10 scale with the candidate highlighted
func moons(c *wizard.Collector) string {
	current, _ := c.Candidate()
	var b strings.Builder
	for v := model.RatingMin; v <= model.RatingMax; v++ {
		if v <= current {
			b.WriteString(moonOn.Render("●"))
		} else {
			b.WriteString(moonOff.Render("○"))
		}
		b.WriteString(" ")
	}
	return b.String()
}
