package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"hxsl/internal/compiler"
	"hxsl/internal/driver"
	"hxsl/internal/module"
	"hxsl/internal/ui"
)

type uiMode string

const (
	uiModeAuto uiMode = "auto"
	uiModeOn   uiMode = "on"
	uiModeOff  uiMode = "off"
)

func readUIMode(value string) (uiMode, error) {
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "", "auto":
		return uiModeAuto, nil
	case "on":
		return uiModeOn, nil
	case "off":
		return uiModeOff, nil
	default:
		return "", fmt.Errorf("invalid --ui value %q (expected auto|on|off)", value)
	}
}

func shouldUseTUI(mode uiMode) bool {
	switch mode {
	case uiModeOn:
		return true
	case uiModeOff:
		return false
	default:
		return isTerminal(os.Stdout)
	}
}

type buildOutcome struct {
	results []*driver.BuildResult
	err     error
}

// runBuildWithUI builds in the background and renders shader progress until
// the build finishes.
func runBuildWithUI(ctx context.Context, sess *compiler.Session, paths []string, opts driver.BuildOptions) ([]*driver.BuildResult, error) {
	// строки прогресса: модули загружаются второй раз только ради имён шейдеров
	var rows []string
	for _, p := range paths {
		mod, err := module.Load(sess.Files(), p)
		if err != nil {
			return nil, err
		}
		for _, sh := range mod.Shaders {
			rows = append(rows, ui.ShaderKey(mod.Name, sh.Name))
		}
	}

	events := make(chan driver.ShaderEvent, 256)
	stop := make(chan struct{})
	outcomeCh := make(chan buildOutcome, 1)
	inner := opts.Observer
	opts.Observer = func(ev driver.ShaderEvent) {
		if inner != nil {
			inner(ev)
		}
		select {
		case events <- ev:
		case <-stop:
		}
	}

	go func() {
		res, err := buildAll(ctx, sess, paths, opts)
		outcomeCh <- buildOutcome{results: res, err: err}
		close(events)
	}()

	program := tea.NewProgram(ui.NewProgressModel(fmt.Sprintf("compiling %d shader(s)", len(rows)), rows, events), tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	close(stop)
	outcome := <-outcomeCh
	if uiErr != nil {
		for _, r := range outcome.results {
			r.Release()
		}
		return nil, uiErr
	}
	return outcome.results, outcome.err
}
