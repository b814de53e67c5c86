package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"fraudlens/internal/config"
	"fraudlens/internal/datadir"
	"fraudlens/internal/session"
	"fraudlens/internal/transport"
	"fraudlens/internal/version"
)

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "fraudlens",
	Short: "Fraudlens - terminal client for the fraud-detection assistant",
	Long: `Fraudlens is a terminal client for the fraud-detection assistant.

It speaks the assistant's streaming protocol over a persistent WebSocket
connection: chat replies stream in as they are generated, list queries
enumerate data sets, flows and reports, and the conversation session
survives restarts.`,
	Version:       version.Full(),
	SilenceUsage:  true,
	SilenceErrors: true,
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("Fraudlens %s\n", version.Full())
		if version.BuildDate != "unknown" {
			fmt.Printf("Build date: %s\n", version.BuildDate)
		}
		fmt.Printf("Go version: %s\n", version.GoVersion)
	},
}

// app bundles the wired-up dependencies every command needs.
type app struct {
	cfg    *config.Config
	store  *session.Store
	client *transport.Client
}

// newApp resolves the data directory, loads .env and config, opens the
// durable session store and constructs the transport client.
func newApp() (*app, error) {
	dirs, err := datadir.New("")
	if err != nil {
		return nil, err
	}
	if err := datadir.LoadEnv(dirs.Root()); err != nil {
		log.Printf("Failed to load .env files: %v", err)
	}

	path := cfgFile
	if path == "" {
		path = dirs.ConfigPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	// The config file may point the data directory somewhere else.
	if cfg.DataDir != "" && os.Getenv(datadir.EnvVar) == "" {
		if dirs, err = datadir.New(cfg.DataDir); err != nil {
			return nil, err
		}
	}
	if err := dirs.EnsureDirs(); err != nil {
		return nil, err
	}

	store, err := session.NewStore(dirs.DatabasePath())
	if err != nil {
		return nil, err
	}

	client := transport.New(transport.Config{
		URL:           cfg.WebSocketURL,
		Token:         cfg.Token(),
		ListTimeout:   cfg.ListTimeout(),
		ReconnectMax:  cfg.Transport.MaxReconnectAttempts,
		ReconnectBase: cfg.ReconnectBase(),
		Verbose:       verbose || cfg.Debug.VerboseLogging,
	}, store)

	return &app{cfg: cfg, store: store, client: client}, nil
}

func (a *app) Close() {
	a.client.Disconnect()
	a.store.Close()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file path (default {datadir}/config/config.json)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(sendCmd)
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(actionsCmd)
	rootCmd.AddCommand(sessionCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
