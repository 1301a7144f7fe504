package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/ikkim/dualstore-shop/config"
	"github.com/ikkim/dualstore-shop/internal/db"
)

func main() {
	demo := flag.Bool("demo", false, "seed the built-in demo catalog and order history")
	flag.Parse()

	if !*demo && flag.NArg() < 1 {
		log.Fatal("Usage: go run cmd/seed/main.go [-demo] <xlsx_file_path>")
	}

	// Load config
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	// Connect and create the schema
	if err := db.Initialize(&cfg.Database); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()
	if err := db.Migrate(db.GetDB()); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	var data db.Dataset
	if *demo {
		data = db.DemoData(time.Now())
	} else {
		filePath := flag.Arg(0)
		fmt.Printf("Reading XLSX file: %s\n", filePath)
		data, err = readDatasetFromXLSX(filePath)
		if err != nil {
			log.Fatal("Failed to read XLSX:", err)
		}
	}

	fmt.Printf("Categories to import: %d\n", len(data.Categories))
	fmt.Printf("Products to import:   %d\n", len(data.Products))
	fmt.Printf("Users to import:      %d\n", len(data.Users))
	fmt.Printf("Orders to import:     %d\n", len(data.Orders))

	// Confirm
	fmt.Print("Do you want to proceed with the import? (yes/no): ")
	var confirm string
	fmt.Scanln(&confirm)
	if confirm != "yes" && confirm != "y" {
		fmt.Println("Import cancelled.")
		return
	}

	if err := db.Seed(db.GetDB(), data); err != nil {
		log.Fatal("Failed to seed database:", err)
	}

	fmt.Println("Import completed successfully!")
}
