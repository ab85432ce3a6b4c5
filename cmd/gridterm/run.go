package main

import (
	"fmt"
	"log"
	"os"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/colorprofile"
	"golang.org/x/term"

	"github.com/dodorz/gridterm/internal/app"
	"github.com/dodorz/gridterm/internal/config"
	"github.com/dodorz/gridterm/internal/theme"
)

// run wires config, theme and terminal detection together and hands
// control to the viewer.
func run() error {
	cfg, err := config.Load()
	if err != nil {
		// A broken config file should not lock the user out.
		log.Printf("warning: %v, using defaults", err)
		cfg = config.Default()
	}

	name := themeName
	if name == "" {
		name = cfg.Appearance.Theme
	}
	if err := theme.Initialize(name); err != nil {
		return fmt.Errorf("initializing theme: %w", err)
	}

	width, height := gridWidth, gridHeight
	if width == 0 {
		width = cfg.Terminal.Width
	}
	if height == 0 {
		height = cfg.Terminal.Height
	}
	if width == 0 || height == 0 {
		if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
			if width == 0 {
				width = w
			}
			if height == 0 {
				height = h
			}
		}
	}
	if width == 0 {
		width = 80
	}
	if height == 0 {
		height = 24
	}

	scrollback := scrollbackLines
	if scrollback == 0 {
		scrollback = cfg.Terminal.ScrollbackLines
	}

	shell := shellPath
	if shell == "" {
		shell = cfg.Terminal.Shell
	}

	opts := app.Options{
		Shell:      shell,
		Width:      width,
		Height:     height,
		Scrollback: scrollback,
		Palette:    theme.Palette(),
		Profile:    colorprofile.Detect(os.Stdout, os.Environ()),
	}
	if debugMode {
		f, err := os.OpenFile("gridterm-debug.log", os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
		if err == nil {
			defer f.Close() //nolint:errcheck
			opts.Logger = log.New(f, "", log.LstdFlags)
		}
	}

	model := app.New(opts)
	p := tea.NewProgram(model)
	model.SetProgram(p)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running viewer: %w", err)
	}
	return model.Err()
}
