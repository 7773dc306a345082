// Package report renders council progress and results for people and machines.
package report

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"

	"github.com/ShayCichocki/council/internal/agent"
	"github.com/ShayCichocki/council/internal/council"
	"github.com/ShayCichocki/council/pkg/models"
)

const (
	// DefaultPreviewChars is how much of each Stage 1 response is shown.
	DefaultPreviewChars = 500
	// DefaultReviewPreviewChars is how much of each Stage 2 review is shown.
	DefaultReviewPreviewChars = 800

	ruleWidth = 60
)

// NoResponsesMessage is printed when Stage 1 produced nothing.
const NoResponsesMessage = "No models responded. Check cursor-agent authentication."

// ConsoleOptions configures a Console.
type ConsoleOptions struct {
	// PreviewChars truncates Stage 1 responses. Zero means DefaultPreviewChars.
	PreviewChars int
	// ReviewPreviewChars truncates Stage 2 reviews. Zero means DefaultReviewPreviewChars.
	ReviewPreviewChars int
	// NoColor disables ANSI styling.
	NoColor bool
}

// Console prints council events as human-readable text.
// It implements council.Reporter.
type Console struct {
	out           io.Writer
	preview       int
	reviewPreview int

	ok, fail, warn, dim *color.Color
	heading             lipgloss.Style

	hinted bool
}

var _ council.Reporter = (*Console)(nil)

// NewConsole creates a Console writing to w.
func NewConsole(w io.Writer, opts ConsoleOptions) *Console {
	if opts.PreviewChars <= 0 {
		opts.PreviewChars = DefaultPreviewChars
	}
	if opts.ReviewPreviewChars <= 0 {
		opts.ReviewPreviewChars = DefaultReviewPreviewChars
	}

	c := &Console{
		out:           w,
		preview:       opts.PreviewChars,
		reviewPreview: opts.ReviewPreviewChars,
		ok:            color.New(color.FgGreen),
		fail:          color.New(color.FgRed),
		warn:          color.New(color.FgYellow),
		dim:           color.New(color.Faint),
	}

	r := lipgloss.NewRenderer(w)
	c.heading = r.NewStyle().Bold(true)
	if opts.NoColor {
		for _, col := range []*color.Color{c.ok, c.fail, c.warn, c.dim} {
			col.DisableColor()
		}
	} else {
		c.heading = c.heading.Foreground(lipgloss.Color("#45B7D1"))
	}
	return c
}

// Report renders one event.
func (c *Console) Report(e council.Event) {
	switch e.Type {
	case council.EventRunStarted:
		c.banner("LLM COUNCIL")
		c.printf("Query: %s\n", e.Query)
		c.printf("Council: %s\n", strings.Join(e.Models, ", "))
		c.printf("Chairman: %s\n", e.Chairman)

	case council.EventStageStarted:
		c.stageHeader(e)

	case council.EventDispatchStarted:
		c.printf("%s\n", c.dim.Sprintf("Starting %d queries in parallel...", e.Total))

	case council.EventModelFinished:
		c.modelFinished(e)

	case council.EventDispatchFinished:
		c.printf("%s\n", c.dim.Sprintf("All queries completed in %s", formatDuration(e.Elapsed)))

	case council.EventResponsesCollected:
		c.section("RESPONSES RECEIVED:")
		for _, r := range e.Responses {
			c.printf("\n%s %s\n", c.ok.Sprint("✓"), r.Model)
			c.printf("%s\n", strings.Repeat("-", 40))
			c.printf("%s\n", Preview(r.Text, c.preview))
		}
		for _, a := range e.Failed {
			c.printf("\n%s %s - No response\n", c.fail.Sprint("✗"), a.Model)
		}

	case council.EventReviewSkipped:
		c.printf("\n%s Only %d response received, skipping peer review\n", c.warn.Sprint("⚠"), len(e.Responses))

	case council.EventRankingsCollected:
		c.section("PEER REVIEWS:")
		for _, r := range e.Rankings {
			c.printf("\n%s's Review:\n", r.Model)
			c.printf("%s\n", strings.Repeat("-", 40))
			c.printf("%s\n", Preview(r.Text, c.reviewPreview))
		}

	case council.EventLabelsRevealed:
		c.printf("\nResponse mapping (revealed):\n")
		for _, l := range e.Labels {
			c.printf("   Response %s = %s\n", l.Label, l.Response.Model)
		}
		if len(e.Aggregate) > 0 {
			c.printf("\nAggregate ranking (lower is better):\n")
			for i, a := range e.Aggregate {
				c.printf("   %d. %s  avg %.2f over %d review(s)\n", i+1, a.Model, a.AverageRank, a.RankingsCount)
			}
		}

	case council.EventFinalAnswer:
		c.banner("FINAL SYNTHESIZED ANSWER")
		if e.ChairmanFailed {
			c.printf("\n%s\n", c.fail.Sprint(e.Final))
		} else {
			c.printf("\n%s\n", e.Final)
		}
		c.printf("\n%s\n", strings.Repeat("=", ruleWidth))
		c.printf("%s\n", c.dim.Sprintf("Completed in %s (run %s)", formatDuration(e.Elapsed), e.RunID))

	case council.EventNoResponses:
		c.printf("\n%s %s\n", c.fail.Sprint("✗"), NoResponsesMessage)
	}
}

func (c *Console) stageHeader(e council.Event) {
	if !e.Stage.Valid() {
		return
	}
	var title string
	switch e.Stage {
	case models.StageCollect:
		title = "Collecting Individual Responses"
	case models.StageReview:
		title = "Peer Review & Ranking"
	case models.StageSynthesize:
		title = fmt.Sprintf("Chairman (%s) Synthesizing", e.Chairman)
	}
	c.banner(fmt.Sprintf("STAGE %d: %s", e.Stage.Number(), title))
	if e.Stage == models.StageSynthesize {
		c.printf("(Synthesizing final answer...)\n")
	}
}

func (c *Console) modelFinished(e council.Event) {
	a := e.Answer
	progress := ""
	if e.Stage != models.StageSynthesize {
		progress = fmt.Sprintf("[%d/%d] ", e.Completed, e.Total)
	}

	if a.OK() {
		c.printf("%s %s%s completed %s\n", c.ok.Sprint("✓"), progress, a.Model, c.dim.Sprintf("(%s)", formatDuration(a.Elapsed)))
		return
	}

	c.printf("%s %s%s failed: %s\n", c.fail.Sprint("✗"), progress, a.Model, a.Failure())
	if errors.Is(a.Err, agent.ErrAgentNotFound) && !c.hinted {
		c.hinted = true
		c.printf("  %s\n", c.warn.Sprint("cursor-agent not found in PATH. Make sure Cursor CLI is installed."))
	}
}

func (c *Console) banner(title string) {
	rule := strings.Repeat("=", ruleWidth)
	c.printf("\n%s\n%s\n%s\n", rule, c.heading.Render(title), rule)
}

func (c *Console) section(title string) {
	rule := strings.Repeat("-", ruleWidth)
	c.printf("\n%s\n%s\n%s\n", rule, c.heading.Render(title), rule)
}

func (c *Console) printf(format string, args ...any) {
	fmt.Fprintf(c.out, format, args...)
}

// Preview returns the first n characters of s, followed by "..." when
// anything was cut.
func Preview(s string, n int) string {
	r := []rune(s)
	if n < 0 || len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}

// formatDuration formats a duration in a human-readable way.
func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	return fmt.Sprintf("%dm%ds", int(d.Minutes()), int(d.Seconds())%60)
}
