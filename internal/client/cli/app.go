package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/avolkovs/daykeeper/internal/client/api"
	"github.com/avolkovs/daykeeper/internal/client/app"
	"github.com/avolkovs/daykeeper/internal/client/config"
	"github.com/avolkovs/daykeeper/internal/client/identity"
	"github.com/avolkovs/daykeeper/internal/client/store"
	"github.com/avolkovs/daykeeper/internal/logging"
)

// App wires the pieces of the DayKeeper CLI together: the HTTP API client,
// the identity gate, the screen machine, and the on-disk stores for guest
// data and the session token.
type App struct {
	config  *config.Config
	machine *app.Machine
	gate    *identity.Gate
	logger  logging.Logger
	reader  *bufio.Reader
	out     io.Writer
	nowFn   func() time.Time
}

func NewApp(c *config.Config, logger logging.Logger) (*App, error) {
	tokens := api.NewDiskvTokenStore(filepath.Join(c.DataDir, "session"))
	apiClient := api.NewClient(c.ServerEndpointAddr, tokens, logger)
	gate := identity.NewGate(apiClient, logger)

	// the guest identity gets the device-local store, everything else
	// goes through the server
	stores := func(ident identity.Identity) (store.Store, error) {
		if ident.Mode == identity.ModeLocalGuest {
			return store.NewLocalStore(filepath.Join(c.DataDir, "guest")), nil
		}
		return store.NewRemoteStore(apiClient), nil
	}

	machine := app.NewMachine(gate, stores, logger)

	return &App{
		config:  c,
		machine: machine,
		gate:    gate,
		logger:  logger,
		reader:  bufio.NewReader(os.Stdin),
		out:     os.Stdout,
		nowFn:   time.Now,
	}, nil
}

// Run starts the machine, tries to resume a persisted session and enters the
// REPL. It returns when the user exits or stdin closes.
func (a *App) Run(ctx context.Context) {
	a.machine.Start()
	defer a.machine.Close()

	a.gate.Restore(ctx)

	fmt.Fprintln(a.out, "DayKeeper CLI (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.status, scanner)
}

func (a *App) screen() app.Screen {
	return a.machine.State().Screen
}

// status renders the prompt segment: where the user is and who they are.
func (a *App) status() string {
	st := a.machine.State()
	switch st.Screen {
	case app.ScreenApp:
		if st.Identity != nil {
			return st.Identity.Label
		}
		return "..."
	case app.ScreenAuth:
		return string(st.AuthView)
	case app.ScreenStart:
		return "welcome"
	default:
		return "..."
	}
}

// showNote prints the pending notification, if any, and dismisses it. The
// REPL is the only consumer, so displaying counts as acknowledging.
func (a *App) showNote() {
	st := a.machine.State()
	if !st.Note.Visible {
		return
	}
	printlnFn(fmt.Sprintf("[%s] %s", st.Note.Title, st.Note.Message))
	a.machine.DismissNote()
}
