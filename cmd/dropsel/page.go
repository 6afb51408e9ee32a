package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/olekukonko/tablewriter"

	"dropsel/internal/config"
	"dropsel/internal/dropdown"
	"dropsel/internal/eventbus"
	"dropsel/internal/logic"
	"dropsel/internal/ui"
)

func runPage(path string, out io.Writer) error {
	path = resolvePath(path)

	// Create event bus
	bus := eventbus.New()
	defer bus.Close()

	configSvc := config.NewConfigServiceWithBus(bus)
	cfg, err := loadOrCreateConfig(configSvc, path)
	if err != nil {
		return err
	}

	// Set up logging
	if cfg.LogFile != "" {
		logFile, err := os.OpenFile(logPath(path, cfg.LogFile), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err != nil {
			log.Printf("Could not open log file: %v", err)
		} else {
			defer logFile.Close()
			log.SetOutput(logFile)
		}
	} else {
		log.SetOutput(io.Discard)
	}

	// Create context for graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	store := logic.NewMemorySelectionStore()
	recorder := logic.NewRecorder(bus, store, configSvc, cfg, path)
	defer recorder.Stop()

	registry := dropdown.NewRegistry()
	uiModel := ui.NewModel(bus, registry, mount(registry, cfg))
	uiModel.SetLoader(func() (map[string][]dropdown.Item, error) {
		fresh, err := config.NewConfigService().LoadFromPath(path)
		if err != nil {
			return nil, err
		}
		return pageData(fresh), nil
	})

	p := tea.NewProgram(uiModel,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)
	uiModel.SetProgram(p)

	// Errors raised off the event loop are shown in the status line
	unsubscribe := bus.Subscribe(eventbus.EventError, func(e eventbus.DomainEvent) {
		p.Send(ui.EventMsg{Event: e})
	})
	defer unsubscribe()

	log.Printf("Starting UI with %d dropdown(s) from %s", len(cfg.Dropdowns), path)
	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		log.Printf("Error running program: %v", err)
		return fmt.Errorf("running program: %w", err)
	}
	log.Printf("UI exited normally")

	printSelections(out, store.GetAllSelections())
	return nil
}

// loadOrCreateConfig loads the page config, writing the sample page first
// when the file does not exist yet
func loadOrCreateConfig(svc config.ConfigService, path string) (*config.Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		log.Printf("Creating sample config at %s", path)
		if err := writeDefault(svc, path); err != nil {
			return nil, err
		}
	}
	return svc.LoadFromPath(path)
}

// mount creates one control per configured dropdown. Controls get their own
// copy of the data: the config is updated by the recorder from bus handlers.
func mount(registry *dropdown.Registry, cfg *config.Config) []ui.Entry {
	entries := make([]ui.Entry, 0, len(cfg.Dropdowns))
	for _, d := range cfg.Dropdowns {
		var model dropdown.Binding
		if !d.Multiple {
			model = dropdown.NewValue(dropdown.NewSnapshot([]dropdown.Item{d.Model}).At(0))
		}
		c := dropdown.New(registry, dropdown.Options{
			ID:          d.Name,
			Multiple:    d.Multiple,
			Group:       d.Group,
			Field:       d.Field,
			TrackBy:     d.TrackBy,
			Placeholder: d.Placeholder,
		}, model)
		c.SetData(copyData(d.Data))
		c.SetDisabled(d.Disabled)
		c.SetError(d.Error)

		entries = append(entries, ui.Entry{Name: d.Name, Label: d.Label, Control: c})
	}
	return entries
}

func pageData(cfg *config.Config) map[string][]dropdown.Item {
	data := make(map[string][]dropdown.Item, len(cfg.Dropdowns))
	for _, d := range cfg.Dropdowns {
		data[d.Name] = copyData(d.Data)
	}
	return data
}

func copyData(data []any) []dropdown.Item {
	if data == nil {
		return nil
	}
	return dropdown.NewSnapshot(data).Items()
}

// logPath resolves a relative log file against the config directory
func logPath(configPath, logFile string) string {
	if filepath.IsAbs(logFile) {
		return logFile
	}
	return filepath.Join(filepath.Dir(configPath), logFile)
}

func printSelections(out io.Writer, selections map[string]any) {
	if len(selections) == 0 {
		return
	}
	names := make([]string, 0, len(selections))
	for name := range selections {
		names = append(names, name)
	}
	sort.Strings(names)

	var data [][]string
	for _, name := range names {
		data = append(data, []string{name, dropdown.Stringify(selections[name])})
	}

	table := tablewriter.NewWriter(out)
	table.SetHeader([]string{"DROPDOWN", "SELECTION"})
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoWrapText(false)
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetNoWhiteSpace(true)
	table.SetTablePadding("    ")
	table.AppendBulk(data)
	table.Render()
}
