package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/nikbrunner/cm/internal/doctor"
	"github.com/nikbrunner/cm/internal/exporter"
	"github.com/nikbrunner/cm/internal/importer"
	"github.com/nikbrunner/cm/internal/metadata"
	"github.com/nikbrunner/cm/internal/model"
	"github.com/nikbrunner/cm/internal/picker"
	"github.com/nikbrunner/cm/internal/query"
	"github.com/nikbrunner/cm/internal/search"
	"github.com/nikbrunner/cm/internal/storage"
	"github.com/nikbrunner/cm/internal/store"
)

func main() {
	setupLogging()

	if len(os.Args) >= 2 {
		switch os.Args[1] {
		case "help", "--help", "-h":
			printHelp()
			return
		case "add":
			runAdd(os.Args[2:])
			return
		case "collection":
			if len(os.Args) < 4 || os.Args[2] != "add" {
				fmt.Fprintf(os.Stderr, "Usage: cm collection add <name>\n")
				os.Exit(1)
			}
			runCollectionAdd(os.Args[3:])
			return
		case "import":
			if len(os.Args) < 3 {
				fmt.Fprintf(os.Stderr, "Usage: cm import <file.html>\n")
				os.Exit(1)
			}
			runImport(os.Args[2])
			return
		case "export":
			var outputPath string
			if len(os.Args) >= 3 {
				outputPath = os.Args[2]
			}
			runExport(outputPath)
			return
		case "doctor":
			runDoctor()
			return
		default:
			// Treat as search query (join all remaining args)
			runQuickSearch(strings.Join(os.Args[1:], " "))
			return
		}
	}

	// No args - interactive browse
	runBrowse()
}

func setupLogging() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.WarnLevel)
	if os.Getenv("CM_DEBUG") != "" {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
}

func printHelp() {
	help := `cm - collection-based bookmark manager

Usage:
  cm                          Browse bookmarks interactively
  cm <query>                  Quick fuzzy search, select, open
  cm add <url> [flags]        Add a bookmark
  cm collection add <name>    Add a collection
  cm import <file>            Import bookmarks from browser HTML
  cm export [path]            Export bookmarks to browser HTML
  cm doctor                   Check URL health and data integrity
  cm help                     Show this help

Add flags:
  -t <title>        Bookmark title (fetched automatically if omitted)
  -d <description>  Bookmark description
  -c <collection>   Collection name (default from config)

Collection add flags:
  -c <color>        Hex color (defaults to the next palette color)
  -i <icon>         Icon name

Browse keybindings:
  type              Filter bookmarks as you type
  tab               Cycle collection scope
  up/down           Move selection
  ctrl+y            Copy URL to clipboard
  enter             Open in browser
  esc               Quit

Data storage:
  ~/.config/cm/bookmarks.json (or bookmarks.db when present)
`
	fmt.Print(help)
}

// openStore loads the data set behind the mutation API.
func openStore() (*store.Store, storage.Storage) {
	backend, err := storage.OpenStorage()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening storage: %v\n", err)
		os.Exit(1)
	}
	st, err := store.New(backend)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading bookmarks: %v\n", err)
		os.Exit(1)
	}
	return st, backend
}

func loadConfig() *storage.Config {
	configPath, err := storage.DefaultConfigFilePath()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error getting config path: %v\n", err)
		os.Exit(1)
	}
	config, err := storage.LoadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	return config
}

// storagePath reports the file behind a storage backend, if it has one.
func storagePath(s storage.Storage) string {
	if p, ok := s.(interface{ Path() string }); ok {
		return p.Path()
	}
	return ""
}

// runBrowse runs the interactive picker over the full data set, reloading
// when another process writes the storage file.
func runBrowse() {
	st, backend := openStore()

	p := picker.NewBrowse(st.Data())
	prog := tea.NewProgram(p, tea.WithAltScreen())

	// External writes coalesce through a debouncer before the store reloads
	// and the running program is told to refresh.
	if path := storagePath(backend); path != "" {
		debouncer := query.NewDebouncer(0)
		watcher := storage.NewWatcher(path, 0, func() {
			debouncer.Trigger(func() {
				st.Reload()
				prog.Send(picker.DataReloadedMsg{Data: st.Data()})
			})
		})
		watcher.Start()
		defer watcher.Stop()
		defer debouncer.Stop()
	}

	finalModel, err := prog.Run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error running picker: %v\n", err)
		os.Exit(1)
	}

	finalPicker := finalModel.(picker.Picker)
	if !finalPicker.Selected() {
		return
	}
	if b := finalPicker.SelectedBookmark(); b != nil {
		openURL(b.URL)
	}
}

// runQuickSearch performs a fuzzy search and opens the selected bookmark.
func runQuickSearch(queryText string) {
	st, _ := openStore()
	data := st.Data()

	results := search.FuzzySearchBookmarks(data, queryText)
	if len(results) == 0 {
		fmt.Printf("No bookmarks found for '%s'\n", queryText)
		return
	}

	var selected *model.Bookmark

	if len(results) == 1 {
		selected = results[0].Bookmark
		fmt.Printf("Opening: %s\n", selected.Title)
	} else {
		p := picker.NewSearch(results, queryText)
		program := tea.NewProgram(p)
		finalModel, err := program.Run()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error running picker: %v\n", err)
			os.Exit(1)
		}

		finalPicker := finalModel.(picker.Picker)
		if finalPicker.Cancelled() {
			return
		}
		selected = finalPicker.SelectedBookmark()
	}

	if selected != nil {
		openURL(selected.URL)
	}
}

// runAdd handles the add subcommand.
func runAdd(args []string) {
	flags := flag.NewFlagSet("add", flag.ExitOnError)
	title := flags.String("t", "", "bookmark title")
	description := flags.String("d", "", "bookmark description")
	collectionName := flags.String("c", "", "collection name")
	_ = flags.Parse(args)

	if flags.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Usage: cm add <url> [-t title] [-d description] [-c collection]\n")
		os.Exit(1)
	}
	url := flags.Arg(0)

	config := loadConfig()
	st, _ := openStore()
	data := st.Data()

	if data.HasBookmarkURL(url) {
		fmt.Printf("Already bookmarked: %s\n", url)
		return
	}

	// Empty fields only; explicit flags always win.
	if *title == "" || *description == "" {
		if meta := fetchMetadata(config, url); meta != nil {
			if *title == "" {
				*title = meta.Title
			}
			if *description == "" {
				*description = meta.Description
			}
		}
	}
	if *title == "" {
		*title = url
	}

	name := *collectionName
	if name == "" {
		name = config.DefaultCollection
	}
	collectionID := ""
	if c := data.CollectionByName(name); c != nil {
		collectionID = c.ID
	} else if *collectionName != "" {
		created := st.UpsertCollection(store.CollectionInput{
			Name:  *collectionName,
			Color: model.ColorPalette[len(st.Collections())%len(model.ColorPalette)],
		})
		collectionID = created.ID
		fmt.Printf("Created collection: %s\n", created.Name)
	}

	bookmark := st.UpsertBookmark(store.BookmarkInput{
		URL:          url,
		Title:        *title,
		Description:  *description,
		CollectionID: collectionID,
	})

	fmt.Printf("Added: %s\n", bookmark.Title)
}

// fetchMetadata asks the metadata service to fill in title and description.
// Missing API key means the feature is simply off.
func fetchMetadata(config *storage.Config, url string) *metadata.PageMetadata {
	client, err := metadata.NewClient(config.MetadataModel)
	if err != nil {
		if !errors.Is(err, metadata.ErrNoAPIKey) {
			log.Warn().Err(err).Msg("metadata client unavailable")
		}
		return nil
	}

	fmt.Println("Fetching page metadata...")
	meta, err := client.FetchPageMetadata(url)
	if err != nil {
		log.Warn().Err(err).Msg("metadata fetch failed, continuing without it")
		return nil
	}
	return meta
}

// runCollectionAdd handles the collection add subcommand.
func runCollectionAdd(args []string) {
	flags := flag.NewFlagSet("collection add", flag.ExitOnError)
	color := flags.String("c", "", "hex color")
	icon := flags.String("i", "", "icon name")
	_ = flags.Parse(args)

	if flags.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Usage: cm collection add <name> [-c color] [-i icon]\n")
		os.Exit(1)
	}
	name := strings.Join(flags.Args(), " ")

	st, _ := openStore()

	if existing := st.Data().CollectionByName(name); existing != nil {
		fmt.Printf("Collection already exists: %s\n", existing.Name)
		return
	}

	if *color == "" {
		*color = model.ColorPalette[len(st.Collections())%len(model.ColorPalette)]
	}

	created := st.UpsertCollection(store.CollectionInput{
		Name:  name,
		Color: *color,
		Icon:  *icon,
	})

	fmt.Printf("Added collection: %s (%s)\n", created.Name, created.Color)
}

// runImport handles the import subcommand.
func runImport(filePath string) {
	backend, err := storage.OpenStorage()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening storage: %v\n", err)
		os.Exit(1)
	}

	data, err := backend.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading bookmarks: %v\n", err)
		os.Exit(1)
	}

	file, err := os.Open(filePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening file: %v\n", err)
		os.Exit(1)
	}
	defer file.Close()

	collections, bookmarks, err := importer.ParseHTMLBookmarks(file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing HTML: %v\n", err)
		os.Exit(1)
	}

	added, skipped := data.ImportMerge(collections, bookmarks)

	if err := backend.Save(data); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving bookmarks: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Imported %d bookmarks, %d collections", added, len(collections))
	if skipped > 0 {
		fmt.Printf(" (%d duplicates skipped)", skipped)
	}
	fmt.Println()
}

// runExport handles the export subcommand.
func runExport(outputPath string) {
	if outputPath == "" {
		var err error
		outputPath, err = exporter.DefaultExportPath()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error getting default export path: %v\n", err)
			os.Exit(1)
		}
	}

	backend, err := storage.OpenStorage()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening storage: %v\n", err)
		os.Exit(1)
	}

	data, err := backend.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading bookmarks: %v\n", err)
		os.Exit(1)
	}

	html := exporter.ExportHTML(data)

	if err := os.WriteFile(outputPath, []byte(html), 0644); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing file: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Exported %d bookmarks, %d collections to %s\n",
		len(data.Bookmarks), len(data.Collections), outputPath)
}

// runDoctor handles the doctor subcommand.
func runDoctor() {
	config := loadConfig()

	backend, err := storage.OpenStorage()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening storage: %v\n", err)
		os.Exit(1)
	}

	data, err := backend.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading bookmarks: %v\n", err)
		os.Exit(1)
	}

	if len(data.Bookmarks) == 0 {
		fmt.Println("No bookmarks to check.")
		return
	}

	fmt.Printf("Checking %d bookmarks...\n", len(data.Bookmarks))
	results := doctor.CheckURLs(data.Bookmarks, 8, 10*time.Second, config.DoctorExcludeDomains,
		func(completed, total int) {
			fmt.Printf("\r%d/%d", completed, total)
		})
	fmt.Println()

	healthy := 0
	for _, r := range results {
		switch r.Status {
		case doctor.Healthy:
			healthy++
		case doctor.Dead:
			fmt.Printf("  DEAD        %s (%d) %s\n", r.Bookmark.Title, r.StatusCode, r.Bookmark.URL)
		case doctor.Unreachable:
			fmt.Printf("  UNREACHABLE %s (%s) %s\n", r.Bookmark.Title, r.Error, r.Bookmark.URL)
		}
	}
	fmt.Printf("%d/%d healthy\n", healthy, len(results))

	if orphans := doctor.DanglingReferences(data); len(orphans) > 0 {
		fmt.Printf("\n%d bookmarks reference no collection (shown as uncategorized):\n", len(orphans))
		for _, b := range orphans {
			fmt.Printf("  %s %s\n", b.Title, b.URL)
		}
	}
}

// openURL opens a URL in the default browser.
func openURL(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "linux":
		cmd = exec.Command("xdg-open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	}
	if cmd != nil {
		_ = cmd.Start()
	}
}
