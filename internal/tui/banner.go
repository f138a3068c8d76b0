package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"portal/internal/domain"
)

const bannerRefresh = 200 * time.Millisecond

type ToastSource interface {
	Current() (domain.Toast, bool)
	Dismiss(reason domain.DismissReason) bool
}

type bannerTickMsg time.Time

// BannerModel mirrors the shared toast slot. It polls because the slot can
// change from any goroutine, including its own expiry timer.
type BannerModel struct {
	toasts  ToastSource
	styles  Styles
	current domain.Toast
	visible bool
}

func NewBannerModel(toasts ToastSource, styles Styles) BannerModel {
	return BannerModel{toasts: toasts, styles: styles}
}

func (m BannerModel) Init() tea.Cmd {
	return bannerTick()
}

func bannerTick() tea.Cmd {
	return tea.Tick(bannerRefresh, func(t time.Time) tea.Msg {
		return bannerTickMsg(t)
	})
}

func (m BannerModel) Update(msg tea.Msg) (BannerModel, tea.Cmd) {
	if _, ok := msg.(bannerTickMsg); ok {
		m.Refresh()
		return m, bannerTick()
	}
	return m, nil
}

func (m *BannerModel) Refresh() {
	m.current, m.visible = m.toasts.Current()
}

// Close dismisses the banner through its close control.
func (m *BannerModel) Close() {
	m.toasts.Dismiss(domain.DismissClose)
	m.Refresh()
}

func (m BannerModel) Visible() bool {
	return m.visible
}

func (m BannerModel) Message() string {
	if !m.visible {
		return ""
	}
	return m.current.Message
}

func (m BannerModel) View() string {
	if !m.visible {
		return ""
	}
	return m.styles.Banner.Render(m.current.Message + "  [x]")
}
