package tui

import (
	"context"
	"math/rand"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/verte-zerg/conjuga/internal/settings"
	"github.com/verte-zerg/conjuga/internal/verbs"
)

// View identifies a top-level screen.
type View int

// Screens in navigation order.
const (
	ViewQuiz View = iota
	ViewCharts
	ViewSettings
)

var viewNames = []string{"Quiz", "Charts", "Settings"}

// Deps are the collaborators of the app.
type Deps struct {
	Context   context.Context
	Source    verbs.Source
	Settings  *settings.Store
	History   AnswerRecorder
	Log       *zap.Logger
	Rand      *rand.Rand
	SessionID string
}

type settingsChangedMsg struct{}

// App implements the Bubble Tea program with Quiz, Charts and Settings views.
type App struct {
	active   View
	quiz     *quizView
	charts   *chartsView
	settings *settingsView

	changes     chan struct{}
	unsubscribe func()

	width  int
	height int
}

// New constructs the app. Call Close when the program exits.
func New(d Deps, start View) *App {
	if d.Context == nil {
		d.Context = context.Background()
	}
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	if d.Rand == nil {
		d.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if d.SessionID == "" {
		d.SessionID = uuid.NewString()
	}

	changes := make(chan struct{}, 1)
	a := &App{
		active:   start,
		quiz:     newQuizView(d),
		charts:   newChartsView(),
		settings: newSettingsView(d),
		changes:  changes,
	}
	a.unsubscribe = d.Settings.Subscribe(func() {
		select {
		case changes <- struct{}{}:
		default:
		}
	})
	return a
}

// Close stops listening for settings changes.
func (a *App) Close() {
	if a.unsubscribe != nil {
		a.unsubscribe()
	}
}

// Active returns the visible view.
func (a *App) Active() View {
	return a.active
}

func (a *App) waitForSettings() tea.Cmd {
	changes := a.changes
	return func() tea.Msg {
		<-changes
		return settingsChangedMsg{}
	}
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(a.quiz.start(), a.settings.loadTenses(), a.waitForSettings())
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.quiz.setWidth(msg.Width)
		a.charts.width = msg.Width
		return a, nil
	case settingsChangedMsg:
		return a, tea.Batch(a.quiz.settingsChanged(), a.waitForSettings())
	case fetchedMsg, timerTickMsg, answerSavedMsg:
		return a, a.quiz.update(msg)
	case tensesLoadedMsg, settingsSavedMsg:
		return a, a.settings.update(msg)
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return a, tea.Quit
		case "tab":
			a.active = (a.active + 1) % View(len(viewNames))
			return a, nil
		case "shift+tab":
			a.active = (a.active + View(len(viewNames)) - 1) % View(len(viewNames))
			return a, nil
		}
		switch a.active {
		case ViewQuiz:
			return a, a.quiz.update(msg)
		case ViewCharts:
			return a, a.charts.update(msg)
		case ViewSettings:
			return a, a.settings.update(msg)
		}
	}
	return a, a.quiz.update(msg)
}

// View implements tea.Model.
func (a *App) View() string {
	nav := renderNav(viewNames, int(a.active), activeNavStyle, inactiveNavStyle)
	var body string
	switch a.active {
	case ViewQuiz:
		body = a.quiz.view()
	case ViewCharts:
		body = a.charts.view()
	case ViewSettings:
		body = a.settings.view()
	}
	footer := footerStyle.Render("tab/shift+tab: switch view  ctrl+c: quit")
	if a.width == 0 || a.height == 0 {
		return strings.Join([]string{nav, body, footer}, "\n")
	}
	navHeight := lipgloss.Height(nav)
	bodyHeight := max(1, a.height-navHeight-2)
	return strings.Join([]string{
		fitLines(nav, a.width, navHeight),
		fitLines(body, a.width, bodyHeight),
		"",
		padLine(footer, a.width),
	}, "\n")
}
