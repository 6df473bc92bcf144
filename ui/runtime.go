package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/errors"

	"opendwg/dwg"
)

func start(model tea.Model) error {
	if err := tea.NewProgram(model, tea.WithAltScreen()).Start(); err != nil {
		return errors.Wrap(err, "ui.Start error")
	}
	return nil
}

// StartBrowser browses the layers of file.
func StartBrowser(file *dwg.File) error {
	return start(CreateLayerBrowser(file))
}

// StartSelector lets the user pick a drawing under cwd before browsing it.
func StartSelector(cwd string, options dwg.Options) error {
	selector, err := CreateFileSelector(cwd, options)
	if err != nil {
		return err
	}
	return start(selector)
}
