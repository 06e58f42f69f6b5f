package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ramonehamilton/riftbound-companion/internal/api"
	"github.com/ramonehamilton/riftbound-companion/internal/config"
	"github.com/ramonehamilton/riftbound-companion/internal/packs"
	"github.com/ramonehamilton/riftbound-companion/internal/riftbound/catalog"
	"github.com/ramonehamilton/riftbound-companion/internal/storage"
	"github.com/ramonehamilton/riftbound-companion/internal/store"
)

const backupPasswordEnv = "RIFTBOUND_BACKUP_PASSWORD"

func runServe(ctx context.Context, a *app) error {
	if err := a.stores.Featured.UpdateCurrent(ctx); err != nil {
		a.logger.Warn("Failed to update featured card", "error", err)
	}

	server := api.NewServer(&api.Config{
		Port:           a.cfg.Server.Port,
		AllowedOrigins: api.DefaultConfig().AllowedOrigins,
	}, api.Deps{
		Stores:    a.stores,
		Catalog:   a.catalog,
		Packs:     a.engine,
		Fetcher:   a.client,
		CachePath: a.cfg.Content.CatalogCache,
		Locale:    a.cfg.Content.Locale,
		Metrics:   a.metrics,
	})
	a.dispatcher.Register(server.NewWebSocketObserver())

	if a.cfg.Content.WatchCache {
		go func() {
			if err := catalog.Watch(ctx, a.cfg.Content.CatalogCache, a.catalog, a.logger); err != nil && !errors.Is(err, context.Canceled) {
				a.logger.Warn("Catalog watcher stopped", "error", err)
			}
		}()
	}

	if err := server.Start(); err != nil {
		return fmt.Errorf("failed to start API server: %w", err)
	}
	fmt.Printf("API server running at http://localhost:%d (%d cards in catalog)\n", server.Port(), a.catalog.Current().Len())
	fmt.Println("Press Ctrl+C to stop")

	<-ctx.Done()
	fmt.Println()
	fmt.Println("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func runFetch(ctx context.Context, a *app) error {
	n, err := a.refreshCatalog(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("Fetched %d cards into %s\n", n, a.cfg.Content.CatalogCache)
	return nil
}

func runTestAPI(ctx context.Context, a *app) error {
	d := a.client.TestAPIConnection(ctx, os.Stdout)
	if !d.OK {
		return errors.New("content API check failed")
	}
	return nil
}

func runOpenPack(ctx context.Context, a *app, args []string, buy bool) error {
	if len(args) < 1 {
		fmt.Println("Pack types:")
		for _, t := range a.engine.Types() {
			fmt.Printf("  %-20s %-20s %2d cards  cost %d\n", t.Type, t.Name, t.Cards, t.Cost)
		}
		return errors.New("pack type required")
	}
	packType := store.PackType(args[0])

	open := a.engine.OpenPack
	if buy {
		open = a.engine.BuyPack
	}
	drawn, err := open(ctx, packType)
	if drawn == nil {
		if errors.Is(err, packs.ErrEmptyRarityPool) {
			return fmt.Errorf("%w (run 'fetch' to download the catalog)", err)
		}
		return err
	}

	reveal := packs.NewReveal(drawn)
	for {
		card, _ := reveal.Current()
		fmt.Printf("%2d. %-10s %-30s %s\n", reveal.Index()+1, card.Rarity, card.Name, card.ID)
		if !reveal.Next() {
			break
		}
	}
	fmt.Printf("Currency: %d\n", a.stores.Packs.Currency())
	if err != nil {
		a.logger.Warn("Pack opened but not fully saved", "error", err)
	}
	return nil
}

func runDaily(ctx context.Context, a *app) error {
	claimed, err := a.stores.Packs.ClaimDailyBonus(ctx)
	if err != nil {
		return err
	}
	if !claimed {
		fmt.Printf("Daily bonus already claimed; next claim at %s\n", a.stores.Packs.NextClaimAt().Local().Format(time.RFC1123))
		return nil
	}
	if _, err := a.stores.Points.UpdateDailyStreak(ctx); err != nil {
		return err
	}
	fmt.Printf("Claimed %d currency. Balance: %d, streak: %d\n",
		store.DailyBonusAmount, a.stores.Packs.Currency(), a.stores.Points.Get().DailyStreak)
	return nil
}

func runStatus(a *app) error {
	stats := a.stores.Collection.Stats(a.catalog.Current().Len())
	points := a.stores.Points.Get()
	fmt.Printf("Catalog:     %d cards\n", a.catalog.Current().Len())
	fmt.Printf("Collection:  %d unique, %d total (%.1f%% complete)\n", stats.UniqueCards, stats.TotalCards, stats.CompletionRate)
	fmt.Printf("Decks:       %d\n", len(a.stores.Decks.List()))
	fmt.Printf("Currency:    %d (daily bonus available: %v)\n", a.stores.Packs.Currency(), a.stores.Packs.CanClaimDaily())
	fmt.Printf("Points:      %d (level %d, streak %d)\n", points.TotalPoints, points.Level(), points.DailyStreak)
	fmt.Printf("Packs:       %d opened\n", a.stores.Stats.Get().TotalPacksOpened)
	return nil
}

// backupFlags parses "<file> [-password p]" with the password falling
// back to the environment.
func backupFlags(name string, args []string) (path, password string, err error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	pw := fs.String("password", "", "Backup password (default: $"+backupPasswordEnv+")")
	if err := fs.Parse(args); err != nil {
		return "", "", err
	}
	if fs.NArg() < 1 {
		return "", "", errors.New("backup file path required")
	}
	password = *pw
	if password == "" {
		password = os.Getenv(backupPasswordEnv)
	}
	if password == "" {
		return "", "", fmt.Errorf("password required: pass -password or set %s", backupPasswordEnv)
	}
	return fs.Arg(0), password, nil
}

func resolveBackupPath(a *app, path string) string {
	if filepath.IsAbs(path) || filepath.Dir(path) != "." || a.cfg.Storage.BackupDir == "" {
		return path
	}
	return filepath.Join(a.cfg.Storage.BackupDir, path)
}

func runBackup(ctx context.Context, a *app, args []string) error {
	path, password, err := backupFlags("backup", args)
	if err != nil {
		return err
	}
	path = resolveBackupPath(a, path)

	b, err := storage.CreateBackup(ctx, a.gateway)
	if err != nil {
		return err
	}
	if err := storage.WriteBackupFile(path, b, a.encryptionConfig(password)); err != nil {
		return err
	}
	fmt.Printf("Backed up %d stores to %s\n", len(b.Snapshots), path)
	return nil
}

func runRestore(ctx context.Context, a *app, args []string) error {
	path, password, err := backupFlags("restore", args)
	if err != nil {
		return err
	}
	path = resolveBackupPath(a, path)

	b, err := storage.ReadBackupFile(path, a.encryptionConfig(password))
	if err != nil {
		return err
	}
	if err := storage.RestoreBackup(ctx, a.gateway, b); err != nil {
		return err
	}
	if err := a.stores.Load(ctx); err != nil {
		return fmt.Errorf("restored data failed to load: %w", err)
	}
	fmt.Printf("Restored %d stores from backup taken %s\n", len(b.Snapshots), b.CreatedAt.Local().Format(time.RFC1123))
	return nil
}

func runReset(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("reset", flag.ContinueOnError)
	yes := fs.Bool("yes", false, "Confirm deleting all data")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if !*yes {
		return errors.New("refusing to delete all data without -yes")
	}
	if err := a.gateway.Clear(ctx); err != nil {
		return err
	}
	fmt.Println("All stored data deleted.")
	return nil
}

func runMigrate(cfg *config.Config, args []string) error {
	if cfg.Storage.Ephemeral {
		return errors.New("nothing to migrate in ephemeral mode")
	}
	if len(args) < 1 {
		return errors.New("usage: migrate <up|down|version>")
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Storage.DBPath), 0o755); err != nil {
		return fmt.Errorf("failed to create database directory: %w", err)
	}

	mm, err := storage.NewMigrationManager(cfg.Storage.DBPath)
	if err != nil {
		return err
	}
	defer func() { _ = mm.Close() }()

	switch args[0] {
	case "up":
		if err := mm.Up(); err != nil {
			return err
		}
	case "down":
		if err := mm.Down(); err != nil {
			return err
		}
	case "version":
	default:
		return fmt.Errorf("unknown migrate command %q", args[0])
	}

	v, dirty, err := mm.Version()
	if err != nil {
		return err
	}
	fmt.Printf("Schema version: %d (dirty: %v)\n", v, dirty)
	return nil
}
