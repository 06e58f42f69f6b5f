// Command riftbound-companion runs the Riftbound collection companion:
// the local API server plus maintenance commands for the card catalog,
// pack simulation and encrypted backups.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/ramonehamilton/riftbound-companion/internal/config"
	"github.com/ramonehamilton/riftbound-companion/internal/version"
)

var (
	configPath = flag.String("config", "", "Path to config.toml (default: ~/.riftbound-companion/config.toml)")
	debugMode  = flag.Bool("debug-mode", false, "Enable verbose debug logging")
	ephemeral  = flag.Bool("ephemeral", false, "Keep all data in memory")
	port       = flag.Int("port", 0, "API server port (overrides config)")
)

func usage() {
	out := flag.CommandLine.Output()
	fmt.Fprintf(out, "Riftbound Companion %s\n\n", version.GetVersion())
	fmt.Fprintf(out, "Usage: %s [flags] <command> [args]\n\n", os.Args[0])
	fmt.Fprintln(out, "Commands:")
	fmt.Fprintln(out, "  serve                 Run the local API server (default)")
	fmt.Fprintln(out, "  fetch                 Download the card catalog and update the cache")
	fmt.Fprintln(out, "  test-api              Diagnose the content API connection")
	fmt.Fprintln(out, "  open-pack <type>      Open a pack for free")
	fmt.Fprintln(out, "  buy-pack <type>       Buy and open a pack")
	fmt.Fprintln(out, "  daily                 Claim the daily currency bonus")
	fmt.Fprintln(out, "  status                Show collection, currency and points")
	fmt.Fprintln(out, "  backup <file>         Write an encrypted backup of all data")
	fmt.Fprintln(out, "  restore <file>        Replace all data from an encrypted backup")
	fmt.Fprintln(out, "  export <collection|decks|packs> [-format csv|json] [-o file]")
	fmt.Fprintln(out, "  migrate <up|down|version>")
	fmt.Fprintln(out, "  reset -yes            Delete all stored data")
	fmt.Fprintln(out, "  version               Print the version")
	fmt.Fprintln(out, "\nFlags:")
	flag.PrintDefaults()
}

func loadConfig() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if *configPath != "" {
		cfg, err = config.LoadFile(*configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}

	if *debugMode {
		cfg.App.DebugMode = true
	}
	if *ephemeral {
		cfg.Storage.Ephemeral = true
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func main() {
	flag.Usage = usage
	flag.Parse()

	args := flag.Args()
	command := "serve"
	if len(args) > 0 {
		command, args = args[0], args[1:]
	}

	if command == "version" {
		fmt.Println(version.GetVersion())
		return
	}
	if command == "help" {
		usage()
		return
	}

	cfg, err := loadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if command == "migrate" {
		if err := runMigrate(cfg, args); err != nil {
			log.Fatalf("Migration failed: %v", err)
		}
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to start: %v", err)
	}
	defer a.close()

	if err := run(ctx, a, command, args); err != nil {
		a.close()
		log.Fatalf("%s: %v", command, err)
	}
}

func run(ctx context.Context, a *app, command string, args []string) error {
	switch command {
	case "serve":
		return runServe(ctx, a)
	case "fetch":
		return runFetch(ctx, a)
	case "test-api":
		return runTestAPI(ctx, a)
	case "open-pack":
		return runOpenPack(ctx, a, args, false)
	case "buy-pack":
		return runOpenPack(ctx, a, args, true)
	case "daily":
		return runDaily(ctx, a)
	case "status":
		return runStatus(a)
	case "backup":
		return runBackup(ctx, a, args)
	case "restore":
		return runRestore(ctx, a, args)
	case "reset":
		return runReset(ctx, a, args)
	case "export":
		return runExport(a, args, os.Stdout)
	default:
		usage()
		return fmt.Errorf("unknown command %q", command)
	}
}
