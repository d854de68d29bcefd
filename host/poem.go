package host

import (
	"context"
	"errors"

	"github.com/pthm-cable/versefx/upstream"
)

type poemResult struct {
	poem     upstream.PoemData
	analysis upstream.ThemeAnalysis
	err      error
}

// startPoemFetch generates a poem and analyses it in the background. The
// result is applied on the loop goroutine by applyPoem.
func (h *Host) startPoemFetch() {
	ctx, cancel := context.WithCancel(context.Background())
	h.cancel = cancel
	h.status = "Fetching poem..."
	client, words := h.client, h.opts.Words

	go func() {
		var res poemResult
		res.poem, res.err = client.GeneratePoem(ctx, words)
		if res.err == nil {
			res.analysis, res.err = client.AnalyzeTheme(ctx, res.poem.Poem)
		}
		h.poems <- res
	}()
}

// applyPoem applies a finished fetch, if any. Backend failures keep the
// current theme, or fall back to detecting the theme from the poem text.
func (h *Host) applyPoem() {
	var res poemResult
	select {
	case res = <-h.poems:
	default:
		return
	}

	if res.poem.Poem == "" {
		h.status = userMessage(res.err)
		h.logger.Warn("poem generation failed", "error", res.err, "kind", upstream.KindOf(res.err))
		return
	}

	h.status = res.poem.Title
	if res.err != nil {
		h.logger.Warn("theme analysis failed, detecting from text", "error", res.err)
	} else if tc, ok := res.analysis.ThemeConfig(); ok {
		if err := h.manager.SetTheme(tc.Theme, tc.Mood, tc.Intensity); err != nil {
			h.logger.Error("failed to apply analysed theme", "error", err)
		}
		return
	}

	tc, err := h.manager.SetThemeFromText(res.poem.Poem)
	if err != nil {
		h.logger.Error("failed to apply detected theme", "error", err)
		return
	}
	h.logger.Info("theme detected from poem", "theme", tc.String())
}

func userMessage(err error) string {
	var ue *upstream.Error
	if errors.As(err, &ue) {
		return ue.UserMessage()
	}
	return "The poem service is unavailable."
}
