package cli

import (
	"context"
	"fmt"

	"github.com/avolkovs/daykeeper/internal/client/app"
)

// List prints the current entries with their countdown badges.
func (a *App) List(ctx context.Context) error {
	st := a.machine.State()
	if st.Screen != app.ScreenApp {
		printlnFn("Log in or continue as guest first.")
		return nil
	}
	if len(st.Entries) == 0 {
		printlnFn("No D-Days yet. Use 'add' to create one.")
		return nil
	}

	now := a.nowFn()
	for _, e := range st.Entries {
		printlnFn(FormatEntry(e, now))
	}
	return nil
}

// Add prompts for a title and a date and submits a new entry.
func (a *App) Add(ctx context.Context) error {
	if a.screen() != app.ScreenApp {
		printlnFn("Log in or continue as guest first.")
		return nil
	}

	title, err := GetSimpleText(a.reader, "Title", a.out)
	if err != nil {
		return err
	}
	date, err := GetSimpleText(a.reader, "Date (e.g. 2025-12-31)", a.out)
	if err != nil {
		return err
	}

	a.machine.AddEntry(ctx, title, date)
	a.showNote()
	return nil
}

// Delete prompts for an entry ID and removes it.
func (a *App) Delete(ctx context.Context) error {
	st := a.machine.State()
	if st.Screen != app.ScreenApp {
		printlnFn("Log in or continue as guest first.")
		return nil
	}

	for _, e := range st.Entries {
		printlnFn(fmt.Sprintf("%s  %s", e.ID, e.Title))
	}
	id, err := GetSimpleText(a.reader, "ID of the D-Day to delete", a.out)
	if err != nil {
		return err
	}
	if id == "" {
		return nil
	}

	a.machine.RemoveEntry(ctx, id)
	a.showNote()
	return nil
}
