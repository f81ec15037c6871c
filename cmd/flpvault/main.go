package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/wallybrain/flpvault/internal/config"
	"github.com/wallybrain/flpvault/internal/debug"
	"github.com/wallybrain/flpvault/internal/facade"
	"github.com/wallybrain/flpvault/internal/scanner"
	"github.com/wallybrain/flpvault/internal/store"
)

// Version is overwritten at build time via -ldflags; unset means "dev".
var Version = "dev"

// appDataDir resolves the directory the database and config file live in.
// os.UserConfigDir() is the stdlib analog of a desktop app-data directory,
// consistent with the plain stdlib fallback chain used elsewhere for
// locating the user's documents folder.
func appDataDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(base, "flpvault")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return dir, nil
}

func openEngine(c *cli.Context) (*facade.Engine, *store.Store, error) {
	dataDir, err := appDataDir()
	if err != nil {
		return nil, nil, fmt.Errorf("resolve app data dir: %w", err)
	}

	cfgPath := filepath.Join(dataDir, config.FileName)
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, nil, err
	}

	dbDir := dataDir
	if cfg.DatabasePath != "" {
		dbDir = filepath.Dir(cfg.DatabasePath)
	}
	if override := c.String("db"); override != "" {
		dbDir = override
	}

	s, err := store.Open(dbDir)
	if err != nil {
		return nil, nil, fmt.Errorf("open store: %w", err)
	}
	return facade.New(s), s, nil
}

// printingSink prints one terse line per scan event to stdout.
type printingSink struct{}

func (printingSink) Emit(event any) {
	switch ev := event.(type) {
	case scanner.ScanStarted:
		fmt.Printf("scanning %d files\n", ev.Total)
	case scanner.ScanProgress:
		if len(ev.Warnings) > 0 {
			fmt.Printf("[%d/%d] %s (%d warning(s))\n", ev.Done, ev.Total, ev.Path, len(ev.Warnings))
		} else {
			fmt.Printf("[%d/%d] %s\n", ev.Done, ev.Total, ev.Path)
		}
	case scanner.ScanComplete:
		fmt.Printf("done: %d files\n", ev.Total)
	case scanner.ScanCancelled:
		fmt.Printf("cancelled after %d files\n", ev.Done)
	}
}

func main() {
	app := &cli.App{
		Name:    "flpvault",
		Usage:   "Find and group duplicate/versioned FL Studio projects",
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "db",
				Usage: "Override the database directory (default: OS app-config dir)",
			},
		},
		Commands: []*cli.Command{
			scanCommand,
			cancelCommand,
			statusCommand,
			listCommand,
			proposeCommand,
			confirmCommand,
			groupsCommand,
			resetCommand,
			settingsCommand,
			pluginsCommand,
		},
	}

	if err := app.Run(os.Args); err != nil {
		debug.LogStore("fatal: %v", err)
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

var scanCommand = &cli.Command{
	Name:      "scan",
	Usage:     "Scan a folder for .flp files and cache their metadata",
	ArgsUsage: "<folder>",
	Flags: []cli.Flag{
		&cli.BoolFlag{Name: "watch", Usage: "Keep watching the folder for changes after the initial scan"},
	},
	Action: func(c *cli.Context) error {
		if c.NArg() < 1 {
			return cli.Exit("usage: flpvault scan <folder>", 1)
		}
		root := c.Args().First()

		e, s, err := openEngine(c)
		if err != nil {
			return err
		}
		defer s.Close()

		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

		if !c.Bool("watch") {
			// ScanFolder returns immediately; wait until the background
			// scan reports completion or cancellation, or the user interrupts.
			finished := make(chan struct{})
			sink := scanner.ProgressFunc(func(event any) {
				printingSink{}.Emit(event)
				switch event.(type) {
				case scanner.ScanComplete, scanner.ScanCancelled:
					close(finished)
				}
			})
			if err := e.ScanFolder(root, sink); err != nil {
				return err
			}
			select {
			case <-sigChan:
				e.CancelScan()
			case <-finished:
			}
			return nil
		}

		stop := make(chan struct{})
		if err := e.Watch(root, printingSink{}, stop); err != nil {
			return err
		}
		fmt.Println("watching for changes, press Ctrl+C to stop")
		<-sigChan
		close(stop)
		e.CancelScan()
		return nil
	},
}

var cancelCommand = &cli.Command{
	Name:  "cancel",
	Usage: "Clear the scan-running flag of this process's engine (a scan running in another flpvault process is not affected)",
	Action: func(c *cli.Context) error {
		e, s, err := openEngine(c)
		if err != nil {
			return err
		}
		defer s.Close()
		e.CancelScan()
		return nil
	},
}

var statusCommand = &cli.Command{
	Name:  "status",
	Usage: "Show the scan progress observed by this process (a scan run by another flpvault process is not seen)",
	Action: func(c *cli.Context) error {
		e, s, err := openEngine(c)
		if err != nil {
			return err
		}
		defer s.Close()
		st := e.GetScanStatus()
		fmt.Printf("running=%v done=%d total=%d\n", st.Running, st.Done, st.Total)
		return nil
	},
}

var listCommand = &cli.Command{
	Name:    "list",
	Aliases: []string{"ls"},
	Usage:   "List every scanned file",
	Action: func(c *cli.Context) error {
		e, s, err := openEngine(c)
		if err != nil {
			return err
		}
		defer s.Close()

		files, err := e.ListScannedFiles()
		if err != nil {
			return err
		}
		for _, f := range files {
			fmt.Printf("%s  %s\n", f.Hash, f.Path)
		}
		return nil
	},
}

var proposeCommand = &cli.Command{
	Name:  "propose",
	Usage: "Propose song groups from scanned files",
	Flags: []cli.Flag{
		&cli.BoolFlag{Name: "json", Usage: "Output as JSON"},
	},
	Action: func(c *cli.Context) error {
		e, s, err := openEngine(c)
		if err != nil {
			return err
		}
		defer s.Close()

		groups, err := e.ProposeGroups()
		if err != nil {
			return err
		}
		if c.Bool("json") {
			return json.NewEncoder(os.Stdout).Encode(groups)
		}
		for _, g := range groups {
			fmt.Printf("%s  confidence=%.2f  %s  (%d files)\n", g.ID, g.Confidence, g.CanonicalName, len(g.FileHashes))
		}
		return nil
	},
}

var confirmCommand = &cli.Command{
	Name:      "confirm",
	Usage:     "Persist caller-approved groups (reads a JSON array of GroupConfirmation from a file or stdin)",
	ArgsUsage: "[file]",
	Action: func(c *cli.Context) error {
		var data []byte
		var err error
		if c.NArg() > 0 {
			data, err = os.ReadFile(c.Args().First())
		} else {
			data, err = io.ReadAll(os.Stdin)
		}
		if err != nil {
			return err
		}

		var groups []store.GroupConfirmation
		if err := json.Unmarshal(data, &groups); err != nil {
			return fmt.Errorf("parse group confirmations: %w", err)
		}

		e, s, err := openEngine(c)
		if err != nil {
			return err
		}
		defer s.Close()
		return e.ConfirmGroups(groups)
	},
}

var groupsCommand = &cli.Command{
	Name:  "groups",
	Usage: "List confirmed song groups",
	Flags: []cli.Flag{
		&cli.BoolFlag{Name: "json", Usage: "Output as JSON"},
	},
	Action: func(c *cli.Context) error {
		e, s, err := openEngine(c)
		if err != nil {
			return err
		}
		defer s.Close()

		groups, err := e.ListGroups()
		if err != nil {
			return err
		}
		if c.Bool("json") {
			return json.NewEncoder(os.Stdout).Encode(groups)
		}
		for _, g := range groups {
			fmt.Printf("%s  %s  (%d files, %d ignored)\n", g.GroupID, g.CanonicalName, len(g.FileHashes), len(g.IgnoredHashes))
		}
		return nil
	},
}

var resetCommand = &cli.Command{
	Name:  "reset",
	Usage: "Clear all confirmed groups",
	Action: func(c *cli.Context) error {
		e, s, err := openEngine(c)
		if err != nil {
			return err
		}
		defer s.Close()
		return e.ResetGroups()
	},
}

var pluginsCommand = &cli.Command{
	Name:  "plugins",
	Usage: "Show plugin usage counts across the library",
	Action: func(c *cli.Context) error {
		e, s, err := openEngine(c)
		if err != nil {
			return err
		}
		defer s.Close()

		usages, err := e.ListPlugins()
		if err != nil {
			return err
		}
		for _, u := range usages {
			fmt.Printf("%5d  %s\n", u.Count, u.Name)
		}
		return nil
	},
}

var settingsCommand = &cli.Command{
	Name:  "settings",
	Usage: "View or change the source/organized/originals folders and matcher settings",
	Subcommands: []*cli.Command{
		{
			Name:  "get",
			Usage: "Print current settings",
			Action: func(c *cli.Context) error {
				e, s, err := openEngine(c)
				if err != nil {
					return err
				}
				defer s.Close()

				settings, err := e.GetSettings()
				if err != nil {
					return err
				}
				return json.NewEncoder(os.Stdout).Encode(settings)
			},
		},
		{
			Name:  "set",
			Usage: "Update settings",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "source"},
				&cli.StringFlag{Name: "organized"},
				&cli.StringFlag{Name: "originals"},
				&cli.Float64Flag{Name: "threshold", Value: -1},
				&cli.StringSliceFlag{Name: "ignore", Usage: "Doublestar glob to exclude from scans (repeatable)"},
			},
			Action: func(c *cli.Context) error {
				e, s, err := openEngine(c)
				if err != nil {
					return err
				}
				defer s.Close()

				current, err := e.GetSettings()
				if err != nil {
					return err
				}
				if v := c.String("source"); v != "" {
					current.SourceFolder = v
				}
				if v := c.String("organized"); v != "" {
					current.OrganizedFolder = v
				}
				if v := c.String("originals"); v != "" {
					current.OriginalsFolder = v
				}
				warnings, err := e.SaveSettings(current)
				if err != nil {
					return err
				}
				for _, w := range warnings {
					fmt.Fprintln(os.Stderr, "warning:", w)
				}

				if t := c.Float64("threshold"); t >= 0 {
					if err := e.SetGroupingThreshold(t); err != nil {
						return err
					}
				}
				if patterns := c.StringSlice("ignore"); len(patterns) > 0 {
					if err := e.SetScanIgnorePatterns(patterns); err != nil {
						return err
					}
				}
				return nil
			},
		},
	},
}
