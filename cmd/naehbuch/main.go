package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/dori/naehbuch/internal/app"
	"github.com/dori/naehbuch/internal/config"
	"github.com/dori/naehbuch/internal/db"
	"github.com/dori/naehbuch/internal/db/jsonfile"
	"github.com/dori/naehbuch/internal/model"
	"github.com/dori/naehbuch/internal/store"
	"github.com/dori/naehbuch/internal/ui"
	"github.com/dori/naehbuch/internal/ui/theme"
)

var (
	version = "0.1.0"
)

func main() {
	// Subcommand handling
	if len(os.Args) > 1 {
		var err error
		switch os.Args[1] {
		case "add":
			err = handleAdd(os.Args[2:])
		case "list":
			err = handleList(os.Args[2:])
		case "stats":
			err = handleStats()
		case "import":
			err = handleImport(os.Args[2:])
		case "export":
			err = handleExport(os.Args[2:])
		case "version":
			fmt.Printf("naehbuch v%s\n", version)
			return
		case "help", "-h", "--help":
			printHelp()
			return
		default:
			if !strings.HasPrefix(os.Args[1], "-") {
				fmt.Fprintf(os.Stderr, "Unknown command %q\n\n", os.Args[1])
				printHelp()
				os.Exit(1)
			}
			runTUIWithFlags()
			return
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	runTUIWithFlags()
}

func runTUIWithFlags() {
	themeFlag := flag.String("theme", "", "Theme name (nord, dracula, gruvbox, catppuccin)")
	viewFlag := flag.String("view", "", "Starting view (cards, list)")
	flag.Parse()

	if err := runTUI(*themeFlag, *viewFlag); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printHelp() {
	help := `naehbuch - a journal for sewing projects

Usage:
  naehbuch                       Start the TUI
  naehbuch add <text>            Quick add a project
  naehbuch list [--sort <mode>]  Print all projects (name, date-desc, date-asc)
  naehbuch stats                 Print totals
  naehbuch import <file.json>    Add projects from a JSON export
  naehbuch export <file.json>    Write all projects as JSON ("-" for stdout)
  naehbuch version               Show version
  naehbuch help                  Show this help

Quick Add Syntax:
  naehbuch add "Summer Dress #cotton 12.50€ 1.5m 2h30m status:fertig date:today"

  Fabrics:   #name          (underscores become spaces: #baumwoll_jersey)
  Money:     12.50€ €12.50
  Fabric:    1.5m 0,75m     (needs a decimal separator)
  Time:      2h30m 3h 45m
  Status:    status:fertig status:sommer status:in_bearbeitung
  Date:      date:today date:yesterday date:2024-06-01
  Text:      link:<url> pattern:<brand> from:<shop>

TUI Options:
  --theme <name>    Theme (nord, dracula, gruvbox, catppuccin)
  --view <name>     Starting view (cards, list)

Keybindings:
  Navigation:   ↑/↓ or j/k    Move cursor
                g/G           Go to top/bottom

  Actions:      n             New project
                enter/e       Edit project
                d             Delete (with confirm)
                v             Cards/list
                s             Cycle sort order
                r             Reload
                x             Dismiss error
                ?             Help
                q             Quit

  Form:         tab           Next field
                ←/→           Status
                enter         Add fabric
                ctrl+s        Save
                esc           Cancel

Configuration:
  ~/.config/naehbuch/config.yaml, overridden by NAEHBUCH_* variables and
  DATABASE_URL. NAEHBUCH_BACKEND selects sqlite (default), postgres or json.`

	fmt.Println(help)
}

// openApp loads the configuration and opens the store without taking the
// instance lock
func openApp() (*app.App, error) {
	cfg, err := config.Load(config.DefaultPath())
	if err != nil {
		return nil, err
	}
	return app.New(cfg, app.Options{})
}

func handleAdd(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: naehbuch add <text>, e.g. naehbuch add \"Summer Dress #cotton 12.50€ status:fertig\"")
	}

	// Join all args as the project text
	project := parseQuickAdd(strings.Join(args, " "), time.Now())
	if err := project.Validate(); err != nil {
		return err
	}

	application, err := openApp()
	if err != nil {
		return err
	}
	defer application.Close()

	created, err := application.Store.Create(context.Background(), project)
	if err != nil {
		return err
	}

	fmt.Printf("Created: %s\n", created.Name)
	if created.ProjectDate != nil {
		fmt.Printf("Date: %s\n", created.ProjectDate.Format("02.01.2006"))
	}
	if created.Status != "" {
		fmt.Printf("Status: %s\n", created.Status)
	}
	if len(created.Fabrics) > 0 {
		fmt.Printf("Fabrics: %s\n", strings.Join(created.Fabrics, ", "))
	}
	if created.MoneySpent != 0 || created.FabricUsed != 0 || created.TimeSpent != 0 {
		fmt.Printf("Spent: %s, %s, %s\n",
			model.FormatMoney(created.MoneySpent),
			model.FormatFabric(created.FabricUsed),
			model.FormatDuration(created.TimeSpent))
	}
	return nil
}

func handleList(args []string) error {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	sortFlag := fs.String("sort", "date-desc", "Sort order (name, date-desc, date-asc)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	mode, err := model.ParseSortMode(*sortFlag)
	if err != nil {
		return err
	}

	application, err := openApp()
	if err != nil {
		return err
	}
	defer application.Close()

	projects, err := application.Store.List(context.Background())
	if err != nil {
		return err
	}
	if len(projects) == 0 {
		fmt.Println("No projects yet. Add one with: naehbuch add <text>")
		return nil
	}

	fmt.Println(renderTable(model.SortedBy(projects, mode)))
	return nil
}

func renderTable(projects []model.Project) string {
	rows := make([][]string, 0, len(projects))
	for _, p := range projects {
		date := ""
		if p.ProjectDate != nil {
			date = p.ProjectDate.Format("02.01.2006")
		}
		rows = append(rows, []string{
			p.Name,
			date,
			p.Status,
			strings.Join(p.Fabrics, ", "),
			model.FormatMoney(p.MoneySpent),
			model.FormatFabric(p.FabricUsed),
			model.FormatDuration(p.TimeSpent),
		})
	}

	header := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cell := lipgloss.NewStyle().Padding(0, 1)

	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Projekt", "Datum", "Status", "Stoffe", "Kosten", "Stoff", "Zeit").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			return cell
		}).
		String()
}

func handleStats() error {
	application, err := openApp()
	if err != nil {
		return err
	}
	defer application.Close()

	stats, err := application.Store.AggregateStats(context.Background())
	if err != nil {
		return err
	}

	fmt.Printf("Projekte: %d\n", stats.Count)
	fmt.Printf("Ausgaben: %s\n", model.FormatMoney(stats.TotalMoney))
	fmt.Printf("Stoff:    %s\n", model.FormatFabric(stats.TotalFabric))
	fmt.Printf("Zeit:     %s\n", model.FormatDuration(stats.TotalTime))
	return nil
}

func handleImport(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: naehbuch import <file.json>")
	}

	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", args[0], err)
	}
	defer f.Close()

	rows, err := jsonfile.Decode(f)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", args[0], err)
	}

	application, err := openApp()
	if err != nil {
		return err
	}
	defer application.Close()

	imported, skipped, err := importRows(context.Background(), application.Store, rows)
	if err != nil {
		return err
	}

	fmt.Printf("Imported %d projects", imported)
	if skipped > 0 {
		fmt.Printf(" (%d without a name skipped)", skipped)
	}
	fmt.Println()
	return nil
}

type projectCreator interface {
	Create(ctx context.Context, p model.Project) (model.Project, error)
}

// importRows creates a project per row. Rows without a name are skipped;
// any other failure stops the import.
func importRows(ctx context.Context, s projectCreator, rows []db.ProjectRow) (imported, skipped int, err error) {
	for _, row := range rows {
		p := store.ToDomain(row)
		if p.Validate() != nil {
			skipped++
			continue
		}
		if _, err := s.Create(ctx, p); err != nil {
			return imported, skipped, fmt.Errorf("failed to import %q: %w", p.Name, err)
		}
		imported++
	}
	return imported, skipped, nil
}

func handleExport(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: naehbuch export <file.json>")
	}

	application, err := openApp()
	if err != nil {
		return err
	}
	defer application.Close()

	projects, err := application.Store.List(context.Background())
	if err != nil {
		return err
	}

	rows := make([]db.ProjectRow, 0, len(projects))
	for _, p := range projects {
		rows = append(rows, store.ToRow(p))
	}

	if args[0] == "-" {
		return jsonfile.Encode(os.Stdout, rows)
	}

	f, err := os.Create(args[0])
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", args[0], err)
	}
	if err := jsonfile.Encode(f, rows); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", args[0], err)
	}
	if err := f.Close(); err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Exported %d projects to %s\n", len(rows), args[0])
	return nil
}

func runTUI(themeName, viewName string) error {
	cfg, err := config.Load(config.DefaultPath())
	if err != nil {
		return err
	}
	if themeName != "" {
		if _, ok := theme.ByName(themeName); !ok {
			return fmt.Errorf("unknown theme %q", themeName)
		}
		cfg.Theme = themeName
	}

	// Create application
	application, err := app.New(cfg, app.Options{SingleInstance: true})
	if err != nil {
		return err
	}
	defer application.Close()

	viewMode := application.ViewMode
	if viewName != "" {
		if viewMode, err = model.ParseViewMode(viewName); err != nil {
			return err
		}
	}

	shell := ui.NewShell(ui.Deps{
		Store:    application.Store,
		Prefs:    application.Prefs,
		Notifier: application.Notifier,
		Logger:   application.Logger,
		ViewMode: viewMode,
	})

	// Create and run program
	p := tea.NewProgram(shell, tea.WithAltScreen())

	unsubscribe := application.Store.Subscribe(func(e model.ChangeEvent) {
		p.Send(ui.ChangeEventMsg{Event: e})
	})
	defer unsubscribe()

	_, err = p.Run()
	return err
}
