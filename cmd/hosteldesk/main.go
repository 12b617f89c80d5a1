package main

import (
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/hosteldesk/hosteldesk/internal/api"
	"github.com/hosteldesk/hosteldesk/internal/app"
	"github.com/hosteldesk/hosteldesk/internal/credential"
	"github.com/hosteldesk/hosteldesk/internal/logging"
	"github.com/hosteldesk/hosteldesk/internal/model"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "hosteldesk:", err)
		os.Exit(1)
	}
}

func run() error {
	if len(os.Args) > 1 && os.Args[1] == "auth" {
		if len(os.Args) > 2 && os.Args[2] == "clear" {
			return clearToken()
		}
		return storeToken()
	}

	configPath := os.Getenv("HOSTELDESK_CONFIG")
	if configPath == "" {
		configPath = model.DefaultConfigPath()
	}

	cfg, err := model.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// First run: materialize the defaults so there is a file to edit.
	if _, statErr := os.Stat(configPath); os.IsNotExist(statErr) {
		if err := model.SaveConfig(configPath, cfg); err != nil {
			return fmt.Errorf("writing default config: %w", err)
		}
	}

	logPath, err := logging.DefaultLogPath()
	if err != nil {
		return fmt.Errorf("resolving log path: %w", err)
	}
	logger, err := logging.New(logPath)
	if err != nil {
		return fmt.Errorf("opening log: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	token, err := loadToken()
	if err != nil {
		return err
	}

	client := api.NewClient(
		cfg.Server.BaseURL,
		token,
		time.Duration(cfg.Server.TimeoutSec)*time.Second,
		logger,
	)

	p := tea.NewProgram(app.New(client, cfg, logger), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running UI: %w", err)
	}
	return nil
}

// loadToken reads the API token from the environment, falling back to
// the system keyring.
func loadToken() (string, error) {
	if token := os.Getenv("HOSTELDESK_TOKEN"); token != "" {
		return token, nil
	}

	token, err := credential.Get(credential.TokenKey)
	if err != nil || token == "" {
		return "", fmt.Errorf(
			"no API token found: set HOSTELDESK_TOKEN or store one with `hosteldesk auth`",
		)
	}
	return token, nil
}

// storeToken prompts for an API token and saves it to the keyring.
func storeToken() error {
	var token string
	form := huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title("API token").
			EchoMode(huh.EchoModePassword).
			Value(&token),
	))
	if err := form.Run(); err != nil {
		return fmt.Errorf("reading token: %w", err)
	}
	if token == "" {
		return fmt.Errorf("no token entered")
	}
	if err := credential.Set(credential.TokenKey, token); err != nil {
		return fmt.Errorf("storing token: %w", err)
	}
	fmt.Println("Token stored.")
	return nil
}

// clearToken removes the stored API token from the keyring.
func clearToken() error {
	if err := credential.Delete(credential.TokenKey); err != nil {
		return fmt.Errorf("removing token: %w", err)
	}
	fmt.Println("Token removed.")
	return nil
}
