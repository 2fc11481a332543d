package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/avolkovs/daykeeper/internal/client/app"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	screen() app.Screen
	Login(ctx context.Context) error
	LoginSSO(ctx context.Context) error
	Signup(ctx context.Context) error
	ResetPassword(ctx context.Context) error
	Back(ctx context.Context) error
	Guest(ctx context.Context) error
	List(ctx context.Context) error
	Add(ctx context.Context) error
	Delete(ctx context.Context) error
	Logout(ctx context.Context) error
}

// runREPL starts a simple read–eval–print loop for the DayKeeper CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// Prompt & Commands
//
// The prompt shows the current status (from statusFn) and accepts commands:
//
//	Start screen:
//	  - help           — show available commands
//	  - login          — go to the login view
//	  - guest          — continue without an account
//	  - exit | quit    — leave the program
//
//	Auth screen (login / signup / reset views):
//	  - help           — show available commands
//	  - login          — authenticate with email and password
//	  - sso            — sign in via an SSO ticket
//	  - signup         — create an account
//	  - reset          — request a password reset link
//	  - back           — return to the login view
//	  - exit | quit    — leave the program
//
//	Main screen:
//	  - help           — show available commands
//	  - list           — list D-Days with their countdowns
//	  - add            — add a D-Day (interactive title and date prompt)
//	  - del            — delete a D-Day (interactive ID prompt)
//	  - logout         — log out
//	  - exit | quit    — leave the program
//
// Any errors returned by command handlers are ignored here; handlers should
// log their own errors. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("dk> %s > ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]

		switch cmd {
		case "help":
			switch a.screen() {
			case app.ScreenApp:
				printlnFn("Available commands: (l)ist, add, del, logout, exit")
			case app.ScreenAuth:
				printlnFn("Available commands: login, sso, signup, reset, back, exit")
			default:
				printlnFn("Available commands: login, guest, exit")
			}

		case "login":
			_ = a.Login(ctx)

		case "sso":
			_ = a.LoginSSO(ctx)

		case "signup":
			_ = a.Signup(ctx)

		case "reset":
			_ = a.ResetPassword(ctx)

		case "back":
			_ = a.Back(ctx)

		case "guest":
			_ = a.Guest(ctx)

		case "l", "list":
			_ = a.List(ctx)

		case "add":
			_ = a.Add(ctx)

		case "del", "delete":
			_ = a.Delete(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
