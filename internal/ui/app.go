package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/loopstate/loopstate/internal/api"
	"github.com/loopstate/loopstate/internal/auth"
	"github.com/loopstate/loopstate/internal/store"
	"github.com/loopstate/loopstate/internal/ui/views"
)

// Currently active view
type View int

const (
	ViewExplore View = iota
	ViewDetail
	ViewCreate
)

type App struct {
	client      *api.Client
	identity    auth.Identity
	store       *store.Store
	currentView View
	explore     *views.ExploreView
	detail      *views.DetailView
	create      *views.CreateView
	width       int
	height      int
}

// Creates a new application
func NewApp(client *api.Client, identity auth.Identity, st *store.Store) *App {
	return &App{
		client:      client,
		identity:    identity,
		store:       st,
		currentView: ViewExplore,
		explore:     views.NewExploreView(client, identity, st),
	}
}

func (a *App) Init() tea.Cmd {
	// Reopen the last viewed project, if any
	if a.store != nil {
		if id, err := a.store.LastProjectID(); err == nil && id != 0 {
			return tea.Batch(a.explore.Init(), a.openProject(id))
		}
	}
	return a.explore.Init()
}

func (a *App) openProject(id int64) tea.Cmd {
	a.currentView = ViewDetail
	a.detail = views.NewDetailView(a.client, a.identity, id)

	if a.store != nil {
		a.store.SetLastProjectID(id)
	}

	return tea.Batch(
		a.detail.Init(),
		func() tea.Msg {
			return tea.WindowSizeMsg{Width: a.width, Height: a.height}
		},
	)
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		// The explore view persists across navigation, keep it sized
		a.explore.Update(msg)

	case views.OpenProject:
		if a.store != nil {
			if p, ok := a.projectTitle(msg.ID); ok {
				a.store.TouchRecentProject(msg.ID, p)
			}
		}
		return a, a.openProject(msg.ID)

	case views.OpenCreate:
		a.currentView = ViewCreate
		a.create = views.NewCreateView(a.client, a.identity)
		return a, tea.Batch(
			a.create.Init(),
			func() tea.Msg {
				return tea.WindowSizeMsg{Width: a.width, Height: a.height}
			},
		)

	case views.CloseCreate:
		a.currentView = ViewExplore
		return a, a.explore.Init()

	case views.ProjectCreated:
		if a.store != nil {
			a.store.TouchRecentProject(msg.Project.ID, msg.Project.Title)
		}
		return a, a.openProject(msg.Project.ID)

	case views.BackToExplore:
		a.currentView = ViewExplore
		if a.store != nil {
			a.store.SetLastProjectID(0)
		}
		return a, tea.Batch(
			a.explore.Init(),
			func() tea.Msg {
				return tea.WindowSizeMsg{Width: a.width, Height: a.height}
			},
		)
	}

	var cmd tea.Cmd
	switch a.currentView {
	case ViewExplore:
		_, cmd = a.explore.Update(msg)
	case ViewDetail:
		_, cmd = a.detail.Update(msg)
	case ViewCreate:
		_, cmd = a.create.Update(msg)
	}

	return a, cmd
}

// projectTitle looks the title up in the already loaded explore results
func (a *App) projectTitle(id int64) (string, bool) {
	for _, p := range a.explore.Projects() {
		if p.ID == id {
			return p.Title, true
		}
	}
	return "", false
}

func (a *App) View() string {
	switch a.currentView {
	case ViewDetail:
		if a.detail != nil {
			return a.detail.View()
		}
	case ViewCreate:
		if a.create != nil {
			return a.create.View()
		}
	}
	return a.explore.View()
}
