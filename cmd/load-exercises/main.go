package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"workout-engine/internal/database"
	"workout-engine/internal/models"
)

// seedFile is the JSON shape the loader consumes: a catalog plus optional
// content and program sections.
type seedFile struct {
	Exercises []models.Exercise                           `json:"exercises"`
	Content   map[models.ContentKind][]models.ContentRow  `json:"content,omitempty"`
	Programs  []models.Program                            `json:"programs,omitempty"`
}

func main() {
	var (
		dbPath  = flag.String("db", "data/app.db", "Database path")
		seedDir = flag.String("dir", ".", "Directory containing seed JSON files")
	)
	flag.Parse()

	db, err := database.Initialize(*dbPath)
	if err != nil {
		log.Printf("Failed to initialize database: %v", err)
		os.Exit(1)
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			log.Printf("Error closing database: %v", cerr)
		}
	}()

	catalog := database.NewCatalogStore(db)
	contentStore := database.NewContentStore(db)
	programs := database.NewProgramStore(db)

	paths, err := filepath.Glob(filepath.Join(*seedDir, "*.json"))
	if err != nil {
		log.Printf("Failed to list seed files: %v", err)
		os.Exit(1)
	}
	if len(paths) == 0 {
		fmt.Printf("No seed files found in %s\n", *seedDir)
		return
	}

	ctx := context.Background()
	loadedExercises, loadedContent, loadedPrograms := 0, 0, 0

	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			log.Printf("Skipping %s: %v", path, err)
			continue
		}
		var seed seedFile
		if err := json.Unmarshal(data, &seed); err != nil {
			log.Printf("Skipping %s: invalid JSON: %v", path, err)
			continue
		}

		for i := range seed.Exercises {
			if seed.Exercises[i].ID == "" {
				log.Printf("Skipping exercise without id in %s", path)
				continue
			}
			if err := catalog.UpsertExercise(ctx, &seed.Exercises[i]); err != nil {
				log.Printf("Failed to upsert exercise %s: %v", seed.Exercises[i].ID, err)
				continue
			}
			loadedExercises++
		}

		for kind, rows := range seed.Content {
			for i := range rows {
				if rows[i].ID == "" {
					continue
				}
				if err := contentStore.UpsertContentRow(ctx, kind, &rows[i]); err != nil {
					log.Printf("Failed to upsert content row %s: %v", rows[i].ID, err)
					continue
				}
				loadedContent++
			}
		}

		for i := range seed.Programs {
			if seed.Programs[i].ID == "" {
				continue
			}
			if err := programs.UpsertProgram(ctx, &seed.Programs[i]); err != nil {
				log.Printf("Failed to upsert program %s: %v", seed.Programs[i].ID, err)
				continue
			}
			loadedPrograms++
		}
	}

	fmt.Printf("Loaded %d exercises, %d content rows, %d programs\n",
		loadedExercises, loadedContent, loadedPrograms)
}
