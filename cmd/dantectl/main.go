// Package main implements the dantectl command line tool.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v9"
	"github.com/desertbit/grumble"
	"github.com/jedib0t/go-pretty/table"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"dantectl/pkg/addr"
	"dantectl/pkg/backup"
	"dantectl/pkg/dante"
	"dantectl/pkg/provision"
	"dantectl/pkg/system"
)

// CLI banner with version.
const banner = `
      _             _            _   _
   __| | __ _ _ __ | |_ ___  ___| |_| |
  / _` + "`" + ` |/ _` + "`" + ` | '_ \| __/ _ \/ __| __| |
 | (_| | (_| | | | | ||  __/ (__| |_| |
  \__,_|\__,_|_| |_|\__\___|\___|\__|_|

   Dante SOCKS allow-list provisioning (v1.0)
   ------------------------------------------

`

// Settings holds tool configuration. Values come from the optional settings
// file, overridden by DANTECTL_* environment variables.
type Settings struct {
	ArtifactPath string `json:"artifact_path" env:"DANTECTL_ARTIFACT"` // danted.conf location
	ServiceName  string `json:"service_name" env:"DANTECTL_SERVICE"`   // systemd unit
	PackageName  string `json:"package_name" env:"DANTECTL_PACKAGE"`   // OS package providing the server
	BackupDir    string `json:"backup_dir" env:"DANTECTL_BACKUP_DIR"`  // local backup directory

	// Optional off-host backup target. All three must be set to enable it.
	StorageAccountName string `json:"storage_account_name,omitempty" env:"DANTECTL_STORAGE_ACCOUNT"`
	StorageAccountKey  string `json:"storage_account_key,omitempty" env:"DANTECTL_STORAGE_KEY"`
	BackupContainer    string `json:"backup_container,omitempty" env:"DANTECTL_BACKUP_CONTAINER"`
}

// Global state.
var (
	settings    *Settings              // app settings
	provisioner *provision.Provisioner // configured engine
)

// LoadSettings reads the settings file (if one exists) and applies
// environment overrides on top of the built-in defaults.
func LoadSettings(settingsPath string) (*Settings, error) {
	s := &Settings{
		ArtifactPath: "/etc/danted.conf",
		ServiceName:  "danted",
		PackageName:  "dante-server",
		BackupDir:    "/var/backups/dantectl",
	}

	if settingsPath == "" {
		settingsPath = "./settings.json"
	}
	absPath, err := filepath.Abs(settingsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve settings path: %v", err)
	}

	// The settings file is optional; the defaults cover a stock Debian host.
	if data, err := os.ReadFile(absPath); err == nil {
		if err := json.Unmarshal(data, s); err != nil {
			return nil, fmt.Errorf("failed to parse settings file %s: %v", absPath, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read settings file %s: %v", absPath, err)
	}

	if err := env.Parse(s); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %v", err)
	}
	return s, nil
}

// NewProvisioner wires the engine to the host collaborators described by
// the settings.
func NewProvisioner(s *Settings) (*provision.Provisioner, error) {
	sinks := backup.MultiSink{backup.DirSink{Dir: s.BackupDir}}
	if s.StorageAccountName != "" && s.StorageAccountKey != "" && s.BackupContainer != "" {
		blobSink, err := backup.NewBlobSink(s.StorageAccountName, s.StorageAccountKey, s.BackupContainer)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize blob backup sink: %v", err)
		}
		sinks = append(sinks, blobSink)
	}

	return &provision.Provisioner{
		ArtifactPath: s.ArtifactPath,
		ServiceName:  s.ServiceName,
		PackageName:  s.PackageName,
		Routes:       system.NetlinkRoutes{},
		Service:      system.NewSystemd(),
		Packages:     system.NewApt(),
		Backups:      sinks,
	}, nil
}

// RenderReportTable formats an apply report into a human-readable table,
// marking the entries this run added.
func RenderReportTable(report *provision.Report) string {
	added := make(map[addr.Spec]bool, len(report.Added))
	for _, spec := range report.Added {
		added[spec] = true
	}

	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"Allowed client", "Status"})
	for _, spec := range report.AllowList {
		status := "kept"
		if added[spec] {
			status = "added"
		}
		t.AppendRow(table.Row{string(spec), status})
	}
	return t.Render()
}

// RenderAllowListTable formats a bare allow-list, used by the show command.
func RenderAllowListTable(list addr.List) string {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"Allowed client"})
	for _, spec := range list {
		t.AppendRow(table.Row{string(spec)})
	}
	return t.Render()
}

// AddCommands registers all CLI commands with the application.
func AddCommands(app *grumble.App) {
	// Reconcile and install a configuration.
	app.AddCommand(&grumble.Command{
		Name: "apply",
		Help: "reconcile the allow-list and install the configuration",
		Flags: func(f *grumble.Flags) {
			f.String("a", "add", "", "comma-separated addresses or CIDR ranges to allow")
			f.String("r", "remove", "", "comma-separated addresses or CIDR ranges to remove")
			f.Int("p", "port", dante.DefaultPort, "SOCKS listen port")
			f.Bool("n", "dry-run", false, "render and report without touching the host")
		},
		Run: func(c *grumble.Context) error {
			toAdd, err := addr.ParseList([]string{c.Flags.String("add")})
			if err != nil {
				return err
			}
			toRemove, err := addr.ParseList([]string{c.Flags.String("remove")})
			if err != nil {
				return err
			}

			dryRun := c.Flags.Bool("dry-run")
			if !dryRun {
				if err := system.RequireRoot(); err != nil {
					return err
				}
			}

			report, err := provisioner.Apply(context.Background(), provision.Request{
				Add:    toAdd,
				Remove: toRemove,
				Port:   c.Flags.Int("port"),
				DryRun: dryRun,
			})
			if err != nil {
				return err
			}

			c.App.Println(RenderReportTable(report))
			log.Info().
				Int("added", len(report.Added)).
				Int("removed", len(report.Removed)).
				Str("interface", report.Interface).
				Bool("changed", report.Changed).
				Msg("Run complete")
			return nil
		},
	})
	// Display the active configuration.
	app.AddCommand(&grumble.Command{
		Name:    "show",
		Aliases: []string{"ls"},
		Help:    "show the allow-list active in the current configuration",
		Run: func(c *grumble.Context) error {
			data, err := os.ReadFile(settings.ArtifactPath)
			if os.IsNotExist(err) {
				log.Info().Str("path", settings.ArtifactPath).Msg("No configuration present")
				return nil
			}
			if err != nil {
				return fmt.Errorf("failed to read %s: %v", settings.ArtifactPath, err)
			}

			blocks := dante.Parse(string(data))
			list := dante.Extract(string(data))
			c.App.Println(RenderAllowListTable(list))

			for _, block := range blocks {
				if d, ok := block.(dante.Directive); ok {
					switch d.Key {
					case "internal":
						log.Info().Str("listen", d.Value).Msg("Listen binding")
					case "external":
						log.Info().Str("interface", d.Value).Msg("Egress interface")
					}
				}
			}
			return nil
		},
	})
	// Verify the configuration is usable.
	app.AddCommand(&grumble.Command{
		Name: "check",
		Help: "verify the configuration exists and carries a non-empty allow-list",
		Run: func(c *grumble.Context) error {
			data, err := os.ReadFile(settings.ArtifactPath)
			if err != nil {
				return fmt.Errorf("configuration not readable at %s: %v", settings.ArtifactPath, err)
			}
			list := dante.Extract(string(data))
			if len(list) == 0 {
				return fmt.Errorf("configuration at %s permits no clients", settings.ArtifactPath)
			}
			log.Info().Int("entries", len(list)).Msg("Configuration OK")
			return nil
		},
	})
}

// setupCLI initializes the command-line interface with basic configuration.
// Returns a configured grumble App instance.
func setupCLI() *grumble.App {
	// Determine history file location
	var histFile string
	home, err := os.UserHomeDir()
	if err != nil {
		histFile = ".dantectl" // current working directory
	} else {
		histFile = filepath.Join(home, ".dantectl") // home directory
	}

	app := grumble.New(&grumble.Config{
		Name:        "dantectl",
		Description: "Dante SOCKS server allow-list provisioning",
		HistoryFile: histFile,
		Flags: func(f *grumble.Flags) {
			f.String("c", "settings", "", "path to settings file")
		},
	})

	app.SetPrintASCIILogo(func(a *grumble.App) {
		fmt.Print(banner)
	})

	// Initialize settings and the engine when the app starts.
	app.OnInit(func(a *grumble.App, flags grumble.FlagMap) error {
		var err error
		settings, err = LoadSettings(flags.String("settings"))
		if err != nil {
			return fmt.Errorf("failed to load settings: %v", err)
		}

		provisioner, err = NewProvisioner(settings)
		if err != nil {
			return fmt.Errorf("failed to initialize provisioner: %v", err)
		}
		return nil
	})

	return app
}

func main() {
	// Set up logging
	configureLogging()

	// Configure and create the CLI app
	app := setupCLI()

	// Add all command handlers
	AddCommands(app)

	// Run the application and handle any errors
	if err := app.Run(); err != nil {
		log.Fatal().Msg(err.Error())
	}
}

// configureLogging sets up zerolog with appropriate formatting and level.
func configureLogging() {
	log.Logger = log.Output(zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: "15:04:05",
	})

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
}
