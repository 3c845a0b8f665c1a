package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"go.uber.org/zap"

	"linear-planner/internal/config"
	"linear-planner/internal/helpers"
	"linear-planner/internal/logger"
	"linear-planner/internal/repositories"
	"linear-planner/internal/services"
)

// appContext bundles what the Linear commands need
type appContext struct {
	cfg    *config.Config
	log    *zap.SugaredLogger
	linear *services.LinearService
}

func newApp() (*appContext, error) {
	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.New(cfg.Logging.Level)
	if err != nil {
		return nil, err
	}

	repo := repositories.NewLinearRepository(&cfg.Linear)
	return &appContext{
		cfg:    cfg,
		log:    log,
		linear: services.NewLinearService(repo, log),
	}, nil
}

func (a *appContext) sync() {
	_ = a.log.Sync()
}

// confirm asks a yes/no question, with a form on a terminal and a plain
// prompt when stdin is piped.
func confirm(question string) bool {
	if helpers.IsInteractive() && helpers.IsTerminal() {
		var ok bool
		err := huh.NewForm(
			huh.NewGroup(
				huh.NewConfirm().
					Title(question).
					Affirmative("Yes").
					Negative("No").
					Value(&ok),
			),
		).Run()
		return err == nil && ok
	}

	reader := bufio.NewReader(os.Stdin)
	fmt.Printf("%s (y/N): ", question)
	response, _ := reader.ReadString('\n')
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes"
}
