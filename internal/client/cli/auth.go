package cli

import (
	"context"

	"github.com/avolkovs/daykeeper/internal/client/app"
)

// Login either navigates to the login view (from the start screen) or, when
// already there, prompts for credentials and authenticates.
func (a *App) Login(ctx context.Context) error {
	if a.screen() != app.ScreenAuth {
		a.machine.ShowLogin()
		return nil
	}

	email, err := GetSimpleText(a.reader, "Email", a.out)
	if err != nil {
		return err
	}
	pw, err := GetPassword(a.out)
	if err != nil {
		return err
	}

	a.machine.Login(ctx, email, string(pw))
	a.showNote()
	return nil
}

// LoginSSO prompts for a ticket obtained from the external sign-in flow.
// Submitting an empty ticket abandons the flow silently.
func (a *App) LoginSSO(ctx context.Context) error {
	if a.screen() != app.ScreenAuth {
		a.machine.ShowLogin()
	}

	ticket, err := GetSimpleText(a.reader, "Paste the SSO ticket (empty to cancel)", a.out)
	if err != nil {
		return err
	}

	a.machine.LoginWithSSO(ctx, ticket)
	a.showNote()
	return nil
}

func (a *App) Signup(ctx context.Context) error {
	if a.screen() != app.ScreenAuth {
		a.machine.ShowLogin()
	}
	a.machine.ShowSignup()

	email, err := GetSimpleText(a.reader, "Email", a.out)
	if err != nil {
		return err
	}
	pw, err := GetPassword(a.out)
	if err != nil {
		return err
	}

	a.machine.Signup(ctx, email, string(pw))
	a.showNote()
	return nil
}

func (a *App) ResetPassword(ctx context.Context) error {
	if a.screen() != app.ScreenAuth {
		a.machine.ShowLogin()
	}
	a.machine.ShowReset()

	email, err := GetSimpleText(a.reader, "Email", a.out)
	if err != nil {
		return err
	}

	a.machine.ResetPassword(ctx, email)
	a.showNote()
	return nil
}

func (a *App) Back(context.Context) error {
	a.machine.BackToLogin()
	return nil
}

// Guest continues without an account; entries stay on this device only.
func (a *App) Guest(context.Context) error {
	a.machine.StartGuest()
	printlnFn("Continuing as guest. D-Days are stored on this device only.")
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	a.machine.Logout(ctx)
	return nil
}
