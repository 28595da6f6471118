/*
Copyright © 2025 Katie Mulliken <katie@mulliken.net>
*/
package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/seckatie/portalwatch/internal/core"
	"github.com/seckatie/portalwatch/internal/core/db"
	"github.com/seckatie/portalwatch/internal/core/web"
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "portalwatch",
	Short: "Watch portal pages for new content",
	Long: `portalwatch keeps an eye on saved sections of an authenticated
web portal (course pages, results pages, notice boards) and flags a
section when new documents or announcements appear on it.

Running without a subcommand starts the daemon: a periodic checker plus
a small web UI for managing watched sections.`,
	Run: func(cmd *cobra.Command, args []string) {
		database, err := initDB(cmd)
		if err != nil {
			log.Fatalf("Failed to initialize database: %v", err)
		}
		defer database.Close()

		cfg, err := initConfig(cmd)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}

		numWorkers, err := cmd.Flags().GetInt("check-workers")
		if err != nil {
			log.Fatalf("Failed to get check workers: %v", err)
		}
		interval := cfg.Interval()
		if flagInterval, err := cmd.Flags().GetDuration("interval"); err == nil && cmd.Flags().Changed("interval") {
			interval = flagInterval
		}

		// Work queue for event-driven checks (new sections, manual
		// re-check requests). The periodic sweep runs separately.
		workQueue := make(chan db.Section, numWorkers*10)
		enqueue := func(sec db.Section, reason string) {
			select {
			case workQueue <- sec:
				log.Printf("Queued section %s for checking (%s)", sec.ID, reason)
			default:
				log.Printf("Warning: work queue full, section %s will be picked up by the next sweep", sec.ID)
			}
		}

		database.RegisterEventListener(db.OnSectionCreatedEvent, func(event db.Event) error {
			ev := event.(db.SectionCreatedEvent)
			log.Printf("New section: %s - %s, queuing baseline check", ev.Section.ID, ev.Section.URL)
			enqueue(ev.Section, "baseline")
			return nil
		})
		database.RegisterEventListener(db.OnSectionCheckRequestedEvent, func(event db.Event) error {
			ev := event.(db.SectionCheckRequestedEvent)
			enqueue(ev.Section, "requested")
			return nil
		})

		// Check workers drain the queue. Each job refetches the section
		// first so it compares against the freshest stored baseline.
		for i := 0; i < numWorkers; i++ {
			workerID := i
			go func() {
				log.Printf("Check worker %d started", workerID)
				for sec := range workQueue {
					current, err := database.GetSection(sec.ID)
					if err != nil {
						log.Printf("Worker %d: section %s vanished before check: %v", workerID, sec.ID, err)
						continue
					}
					ctx := context.Background()
					if _, err := core.CheckSection(ctx, database, current, core.NewFetchCache(), cfg.FetchOptions()); err != nil {
						log.Printf("Worker %d: check failed for id=%s url=%s: %v", workerID, current.ID, current.URL, err)
					}
				}
				log.Printf("Check worker %d stopped", workerID)
			}()
		}

		// Periodic sweep over every watched section.
		go func() {
			runSweep := func() {
				if _, err := core.RunCheck(context.Background(), database, core.CheckRunOptions{Fetch: cfg.FetchOptions()}); err != nil {
					log.Printf("Sweep error: %v", err)
				}
			}
			runSweep()
			ticker := time.NewTicker(interval)
			defer ticker.Stop()
			for range ticker.C {
				runSweep()
			}
		}()

		host, err := cmd.Flags().GetString("host")
		if err != nil {
			log.Fatalf("Failed to get host: %v", err)
		}
		port, err := cmd.Flags().GetInt("port")
		if err != nil {
			log.Fatalf("Failed to get port: %v", err)
		}

		web.StartServer(fmt.Sprintf("%s:%d", host, port), database)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringP("db", "d", "portalwatch.db", "Path to the SQLite database file")
	rootCmd.PersistentFlags().StringP("config", "c", "", "Path to the YAML config file")
	rootCmd.Flags().IntP("port", "p", 8080, "Port to listen on")
	rootCmd.Flags().String("host", "localhost", "Host to listen on")

	// Checker flags
	rootCmd.Flags().IntP("check-workers", "w", 1, "Number of check workers to run")
	rootCmd.Flags().Duration("interval", core.DefaultCheckInterval, "Interval between full check sweeps")
}

func initDB(cmd *cobra.Command) (*db.DB, error) {
	dbPath, err := cmd.Flags().GetString("db")
	if err != nil {
		log.Fatalf("Failed to get database path: %v", err)
	}
	database, err := db.NewSQLiteDB(dbPath)
	if err != nil {
		log.Fatalf("Failed to create database: %v", err)
	}

	if err := database.Migrate(); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	log.Println("Database migrated successfully")

	return database, nil
}

func initConfig(cmd *cobra.Command) (core.Config, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return core.Config{}, fmt.Errorf("failed to read --config: %w", err)
	}
	return core.LoadConfig(path)
}
