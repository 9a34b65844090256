package config

import (
	"fmt"
	"strconv"

	"github.com/manifoldco/promptui"
)

// RunWizard interactively builds a Config for `exonview init`, prompting
// for the handful of settings that vary between deployments and keeping
// defaults for everything else.
func RunWizard() (*Config, error) {
	cfg := DefaultConfig()

	portPrompt := promptui.Prompt{
		Label:   "HTTP port",
		Default: strconv.Itoa(cfg.Server.Port),
		Validate: func(s string) error {
			p, err := strconv.Atoi(s)
			if err != nil || p < 1 || p > 65535 {
				return fmt.Errorf("enter a port between 1 and 65535")
			}
			return nil
		},
	}
	portStr, err := portPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("port prompt: %w", err)
	}
	cfg.Server.Port, _ = strconv.Atoi(portStr)

	dataDirPrompt := promptui.Prompt{
		Label:   "Data directory",
		Default: cfg.DataDir,
	}
	if cfg.DataDir, err = dataDirPrompt.Run(); err != nil {
		return nil, fmt.Errorf("data dir prompt: %w", err)
	}

	fillPrompt := promptui.Select{
		Label: "Label background fill",
		Items: []string{"white", "ivory", "lightyellow", "none"},
	}
	if _, cfg.Label.Fill, err = fillPrompt.Run(); err != nil {
		return nil, fmt.Errorf("fill prompt: %w", err)
	}

	fontPrompt := promptui.Prompt{
		Label:   "Label font file (empty for built-in Go Regular)",
		Default: "",
	}
	if cfg.Label.FontFile, err = fontPrompt.Run(); err != nil {
		return nil, fmt.Errorf("font prompt: %w", err)
	}

	return cfg, nil
}
