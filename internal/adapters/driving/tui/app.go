// Package tui implements the live status view launched by
// 'paymate status --watch'. It follows the Elm architecture via
// Bubbletea: session transitions and external data-dir changes arrive
// as messages, key presses drive refresh and disconnect.
package tui

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/stylequest-labs/paymate-cli/internal/adapters/driven/storage"
	"github.com/stylequest-labs/paymate-cli/internal/core/domain"
	"github.com/stylequest-labs/paymate-cli/internal/logger"
)

// statusMsg delivers a session transition to the model.
type statusMsg domain.SessionStatus

// externalChangeMsg signals that another process touched the data dir.
type externalChangeMsg struct{}

// refreshDoneMsg reports a completed manual refresh.
type refreshDoneMsg struct{ err error }

// disconnectDoneMsg reports a completed disconnect.
type disconnectDoneMsg struct{ err error }

// App is the status view model. It implements tea.Model.
type App struct {
	ports  *Ports
	ctx    context.Context
	styles *Styles

	spinner  spinner.Model
	status   domain.SessionStatus
	notice   string
	fetching bool

	statusCh    chan domain.SessionStatus
	externalCh  chan struct{}
	unsubscribe func()
	watcher     *storage.Watcher
	watchCancel context.CancelFunc

	width  int
	height int
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates the status view over the given ports.
func NewApp(ports *Ports) *App {
	return &App{
		ports:      ports,
		ctx:        context.Background(),
		styles:     DefaultStyles(),
		spinner:    spinner.New(spinner.WithSpinner(spinner.Dot)),
		statusCh:   make(chan domain.SessionStatus, 8),
		externalCh: make(chan struct{}, 1),
	}
}

// WithContext sets the context for the app.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	a.status = a.ports.Session.Status()

	a.unsubscribe = a.ports.Session.Subscribe(func(status domain.SessionStatus) {
		select {
		case a.statusCh <- status:
		default:
		}
	})

	a.startWatcher()

	return tea.Batch(
		tea.SetWindowTitle("paymate - Wallet Status"),
		a.spinner.Tick,
		a.waitForStatus(),
		a.waitForExternalChange(),
	)
}

// startWatcher begins following external data-dir changes, if configured.
func (a *App) startWatcher() {
	if a.ports.DataDir == "" {
		return
	}

	watcher, err := storage.NewWatcher(a.ports.DataDir)
	if err != nil {
		logger.Warn("status view: data dir watch unavailable: %v", err)
		return
	}
	a.watcher = watcher

	ctx, cancel := context.WithCancel(a.ctx)
	a.watchCancel = cancel
	go watcher.Run(ctx, func() {
		select {
		case a.externalCh <- struct{}{}:
		default:
		}
	})
}

// waitForStatus returns a command that delivers the next transition.
func (a *App) waitForStatus() tea.Cmd {
	return func() tea.Msg {
		return statusMsg(<-a.statusCh)
	}
}

// waitForExternalChange returns a command that delivers the next
// external data-dir change.
func (a *App) waitForExternalChange() tea.Cmd {
	return func() tea.Msg {
		<-a.externalCh
		return externalChangeMsg{}
	}
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case statusMsg:
		a.status = domain.SessionStatus(msg)
		return a, a.waitForStatus()

	case externalChangeMsg:
		// Re-run resume so a token cleared or replaced by another
		// process is reflected here.
		a.notice = "session changed externally"
		return a, tea.Batch(a.resumeCmd(), a.waitForExternalChange())

	case refreshDoneMsg:
		a.fetching = false
		if msg.err != nil && !errors.Is(msg.err, domain.ErrFetchInProgress) {
			a.notice = msg.err.Error()
		}
		a.status = a.ports.Session.Status()
		return a, nil

	case disconnectDoneMsg:
		if msg.err != nil {
			a.notice = msg.err.Error()
		}
		a.status = a.ports.Session.Status()
		return a, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd
	}

	return a, nil
}

// handleKey processes key presses.
func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		a.cleanup()
		return a, tea.Quit

	case "r":
		if !a.status.Connected() || a.fetching {
			return a, nil
		}
		a.fetching = true
		a.notice = ""
		return a, a.refreshCmd()

	case "d":
		if !a.status.Connected() {
			return a, nil
		}
		a.notice = ""
		return a, a.disconnectCmd()
	}

	return a, nil
}

func (a *App) refreshCmd() tea.Cmd {
	return func() tea.Msg {
		return refreshDoneMsg{err: a.ports.Session.RefreshBalance(a.ctx)}
	}
}

func (a *App) disconnectCmd() tea.Cmd {
	return func() tea.Msg {
		return disconnectDoneMsg{err: a.ports.Session.Disconnect(a.ctx)}
	}
}

func (a *App) resumeCmd() tea.Cmd {
	return func() tea.Msg {
		err := a.ports.Session.Resume(a.ctx)
		return refreshDoneMsg{err: err}
	}
}

// cleanup releases the subscription and the watcher.
func (a *App) cleanup() {
	if a.unsubscribe != nil {
		a.unsubscribe()
		a.unsubscribe = nil
	}
	if a.watchCancel != nil {
		a.watchCancel()
		a.watchCancel = nil
	}
	if a.watcher != nil {
		if err := a.watcher.Close(); err != nil {
			logger.Warn("closing data dir watcher: %v", err)
		}
		a.watcher = nil
	}
}

// View implements tea.Model.
func (a *App) View() string {
	title := a.styles.Title.Render("Paymate Wallet")

	var phase string
	switch a.status.Phase {
	case domain.PhaseConnected:
		phase = a.styles.Success.Render("● connected")
	case domain.PhaseConnecting:
		phase = a.styles.Warning.Render(a.spinner.View() + "connecting")
	case domain.PhaseError:
		phase = a.styles.Error.Render("✗ error")
	default:
		phase = a.styles.Muted.Render("○ disconnected")
	}

	body := title + "\n\n" + phase + "\n"

	if a.status.Connected() {
		if a.fetching {
			body += a.styles.Muted.Render(a.spinner.View()+"fetching balance…") + "\n"
		} else {
			body += a.styles.Normal.Render(a.balanceLine()) + "\n"
		}
	}

	if a.status.Message != "" {
		body += a.styles.Warning.Render(a.status.Message) + "\n"
	}
	if a.notice != "" {
		body += a.styles.Muted.Render(a.notice) + "\n"
	}

	help := a.styles.Help.Render("r refresh · d disconnect · q quit")
	return a.styles.Border.Render(body+"\n"+help) + "\n"
}

// balanceLine renders the balance for the connected phase.
func (a *App) balanceLine() string {
	switch a.status.Balance.State {
	case domain.BalanceKnown:
		return fmt.Sprintf("Balance: TSD $%.2f", a.status.Balance.Amount)
	case domain.BalanceUnparseable:
		return "Balance: response received but no amount could be read"
	default:
		return "Balance: unknown"
	}
}
