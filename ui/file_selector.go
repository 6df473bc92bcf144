package ui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/errors"
	"github.com/samber/lo"

	"opendwg/dwg"
)

// FileSelector lists the drawings of a folder. Picking one opens it and
// hands over to a LayerBrowser.
type FileSelector struct {
	cwd     string
	files   []FileName
	cursor  int
	options dwg.Options
	err     error
}

type FileName string

const (
	drawingExtension = ".dwg"
)

func CreateFileSelector(cwd string, options dwg.Options) (FileSelector, error) {
	files, err := ReadDirectory(cwd)
	if err != nil {
		return FileSelector{}, errors.Wrap(err, "CreateFileSelector error")
	}
	return FileSelector{
		cwd:     cwd,
		files:   files,
		options: options,
	}, nil
}

// ReadDirectory lists the drawings directly under path.
func ReadDirectory(path string) ([]FileName, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, errors.Wrap(err, "ReadDirectory error")
	}
	drawings := lo.Filter(
		entries,
		func(entry os.DirEntry, _ int) bool {
			return !entry.IsDir() && strings.EqualFold(filepath.Ext(entry.Name()), drawingExtension)
		},
	)
	fileNames := lo.Map(
		drawings,
		func(entry os.DirEntry, _ int) FileName {
			return FileName(entry.Name())
		},
	)
	return fileNames, nil
}

func (s FileSelector) View() string {
	output := "OPENDWG\n\n"
	output += "Current directory: " + s.cwd + "\n\n"

	if len(s.files) == 0 {
		output += "No drawings here\n"
	}
	for i, file := range s.files {
		output += fmt.Sprintf("%s %s\n", pointer(i == s.cursor), file)
	}
	if s.err != nil {
		output += "\n" + s.err.Error() + "\n"
	}
	output += "\nenter: open, q: quit\n"
	return output
}

func (s FileSelector) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}
	switch key.String() {
	case "ctrl+c", "q":
		return s, tea.Quit
	case "up", "k":
		if s.cursor > 0 {
			s.cursor--
		}
	case "down", "j":
		if s.cursor < len(s.files)-1 {
			s.cursor++
		}
	case "enter":
		if len(s.files) == 0 {
			return s, nil
		}
		file, err := dwg.OpenFile(filepath.Join(s.cwd, string(s.files[s.cursor])), s.options)
		if err != nil {
			s.err = err
			return s, nil
		}
		s.err = nil
		return CreateLayerBrowser(file), nil
	}
	return s, nil
}

func (s FileSelector) Init() tea.Cmd {
	return nil
}

func pointer(selected bool) string {
	if selected {
		return ">"
	}
	return " "
}
