package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/ikkim/dualstore-shop/config"
	"github.com/ikkim/dualstore-shop/internal/app"
	"github.com/ikkim/dualstore-shop/internal/app/migrator"
	"github.com/ikkim/dualstore-shop/internal/db"
	"github.com/ikkim/dualstore-shop/pkg/logger"
)

func main() {
	dropSQL := flag.Bool("drop-sql", false, "drop the relational tables after a successful migration")
	assumeYes := flag.Bool("yes", false, "skip confirmation prompts")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}
	logger.Initialize(logger.Config{Level: "info", Format: cfg.Server.LogFormat, EnableColor: true})

	ctx := context.Background()

	// Relational source
	if err := db.Initialize(&cfg.Database); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	// Document target
	connectCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	err = db.InitializeMongo(connectCtx, &cfg.Mongo)
	cancel()
	if err != nil {
		log.Fatal("Failed to connect to document store:", err)
	}
	defer db.CloseMongo(context.Background())

	seq, closeSeq, err := app.OpenSequence(cfg, db.GetMongoDB())
	if err != nil {
		log.Fatal("Failed to open id sequence:", err)
	}
	defer closeSeq()

	fmt.Printf("Migrating %s/%s into %s (existing collections are replaced)\n",
		cfg.Database.Host, cfg.Database.DBName, cfg.Mongo.Database)
	if !*assumeYes && !confirm("Do you want to proceed with the migration? (yes/no): ") {
		fmt.Println("Migration cancelled.")
		return
	}

	m := migrator.New(db.GetDB(), db.GetMongoDB(), seq)
	report, err := m.Migrate(ctx)
	if err != nil {
		log.Fatal("Migration failed:", err)
	}

	fmt.Println("Migration completed successfully!")
	fmt.Printf("  Categories: %d\n", report.Categories)
	fmt.Printf("  Products:   %d\n", report.Products)
	fmt.Printf("  Users:      %d\n", report.Users)
	fmt.Printf("  Orders:     %d\n", report.Orders)
	fmt.Printf("  Duration:   %s\n", report.Duration)

	if !*dropSQL {
		fmt.Println("Set STORE_MODE=NO_SQL and restart the server to serve from the document store.")
		return
	}

	if !*assumeYes && !confirm("Drop all relational tables? This cannot be undone. (yes/no): ") {
		fmt.Println("Relational tables kept.")
		return
	}
	if err := m.DropRelational(ctx); err != nil {
		log.Fatal("Failed to drop relational tables:", err)
	}
	fmt.Println("Relational tables dropped.")
}

func confirm(prompt string) bool {
	fmt.Print(prompt)
	var answer string
	fmt.Scanln(&answer)
	return answer == "yes" || answer == "y"
}
