package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

type action string

const (
	actionFavorite action = "favorite"
	actionSeen     action = "seen"
	actionRemove   action = "remove"
)

// mutationResultMsg conveys the outcome of a catalog mutation back to Update.
type mutationResultMsg struct {
	action action
	id     string
	name   string
	// on is the favorite state after a toggle.
	on  bool
	err error
	dur time.Duration
}

func favoriteCmd(ctx context.Context, cat Catalog, id string) tea.Cmd {
	return func() tea.Msg {
		start := time.Now()
		d, err := cat.ToggleFavorite(ctx, id)
		return mutationResultMsg{action: actionFavorite, id: id, name: d.Name, on: d.IsFavorite, err: err, dur: time.Since(start)}
	}
}

func seenCmd(ctx context.Context, cat Catalog, id string) tea.Cmd {
	return func() tea.Msg {
		start := time.Now()
		d, err := cat.MarkSeen(ctx, id)
		return mutationResultMsg{action: actionSeen, id: id, name: d.Name, err: err, dur: time.Since(start)}
	}
}

func removeCmd(ctx context.Context, cat Catalog, id, name string) tea.Cmd {
	return func() tea.Msg {
		start := time.Now()
		err := cat.RemoveDog(ctx, id)
		return mutationResultMsg{action: actionRemove, id: id, name: name, err: err, dur: time.Since(start)}
	}
}
