package main

import (
	"fmt"
	"io"
	"os"

	"portal/internal/adapters/accountapi"
	"portal/internal/config"
	"portal/internal/core/credential"
	"portal/internal/core/login"
	"portal/internal/core/toast"
	"portal/internal/logger"
	"portal/internal/tui"

	tea "github.com/charmbracelet/bubbletea"
)

func main() {
	cfg := config.Load()

	var logOut io.Writer = io.Discard
	if path := os.Getenv("CONSOLE_LOG_FILE"); path != "" {
		f, err := tea.LogToFile(path, "")
		if err != nil {
			fmt.Fprintln(os.Stderr, "failed to open log file:", err)
			os.Exit(1)
		}
		defer f.Close()
		logOut = f
	}
	log := logger.NewWriter(cfg, logOut)

	toasts := toast.NewBroadcaster(log, toast.WithDefaultDuration(cfg.ToastDuration))
	router := &tui.Router{}

	ctrl := login.NewController(
		login.Config{
			SubmitDelay:    cfg.LoginSubmitDelay,
			PostLoginRoute: cfg.PostLoginRoute,
			InitialEmail:   os.Getenv("CONSOLE_EMAIL"),
		},
		login.Deps{
			Validator: credential.NewValidator(),
			Client:    accountapi.NewClient(cfg.AccountAPIURL, cfg.AccountAPITimeout, log),
			Notifier:  toasts,
			Navigator: router,
			Log:       log,
		},
	)

	styles := tui.DefaultStyles()
	app := tui.NewApp(router, ctrl.PostLoginRoute(), tui.NewLoginModel(ctrl, styles), toasts, styles)

	if _, err := tea.NewProgram(app, tea.WithAltScreen()).Run(); err != nil {
		fmt.Fprintln(os.Stderr, "console error:", err)
		os.Exit(1)
	}
}
