package tui

import (
	"strings"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"portal/internal/domain"
)

type Page int

const (
	PageLogin Page = iota
	PageStakeholders
)

// Router is the console's login.Navigator. The controller calls Navigate
// from the submit command's goroutine; App picks the route up when the
// submission result arrives.
type Router struct {
	mu      sync.Mutex
	pending string
}

func (r *Router) Navigate(route string) {
	r.mu.Lock()
	r.pending = route
	r.mu.Unlock()
}

func (r *Router) take() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	route := r.pending
	r.pending = ""
	return route
}

type App struct {
	page         Page
	router       *Router
	postLogin    string
	banner       BannerModel
	login        LoginModel
	stakeholders StakeholdersModel
}

func NewApp(router *Router, postLogin string, login LoginModel, toasts ToastSource, styles Styles) App {
	return App{
		page:         PageLogin,
		router:       router,
		postLogin:    postLogin,
		banner:       NewBannerModel(toasts, styles),
		login:        login,
		stakeholders: NewStakeholdersModel(styles),
	}
}

func (a App) Page() Page {
	return a.page
}

func (a App) Init() tea.Cmd {
	return tea.Batch(a.banner.Init(), a.login.Init())
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return a, tea.Quit
		}
		if a.banner.Visible() && a.closesBanner(msg) {
			a.banner.Close()
			return a, nil
		}

	case bannerTickMsg:
		var cmd tea.Cmd
		a.banner, cmd = a.banner.Update(msg)
		return a, cmd

	case submitDoneMsg:
		var cmd tea.Cmd
		a.login, cmd = a.login.Update(msg)
		a.banner.Refresh()
		if route := a.router.take(); route != "" && route == a.postLogin {
			a.page = PageStakeholders
			a.stakeholders.SetUser(msg.outcome.User)
		}
		return a, cmd
	}

	var cmd tea.Cmd
	switch a.page {
	case PageStakeholders:
		a.stakeholders, cmd = a.stakeholders.Update(msg)
	default:
		a.login, cmd = a.login.Update(msg)
	}
	return a, cmd
}

// closesBanner maps keys to the banner's close control. Esc works everywhere
// except inside the dialog; x only where no text field has focus.
func (a App) closesBanner(k tea.KeyMsg) bool {
	if a.page == PageStakeholders && a.stakeholders.Capturing() {
		return false
	}
	if k.Type == tea.KeyEsc {
		return true
	}
	return a.page == PageStakeholders && k.String() == "x"
}

func (a App) View() string {
	var b strings.Builder
	if v := a.banner.View(); v != "" {
		b.WriteString(v + "\n\n")
	}

	switch a.page {
	case PageStakeholders:
		b.WriteString(a.stakeholders.View())
	default:
		b.WriteString(a.login.View())
	}
	b.WriteString("\n")
	return b.String()
}

// User returns the signed-in user once the stakeholders page is showing.
func (a App) User() *domain.User {
	return a.stakeholders.user
}
