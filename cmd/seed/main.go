package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/foodgram/backend/config"
	"github.com/foodgram/backend/internal/database"
	"github.com/foodgram/backend/internal/logger"
	"github.com/foodgram/backend/internal/model"
	"github.com/foodgram/backend/internal/service"
)

type ingredientRecord struct {
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
}

type tagRecord struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

func main() {
	ingredientsPath := flag.String("ingredients", "data/ingredients.json", "JSON file with ingredients to import")
	tagsPath := flag.String("tags", "data/tags.json", "JSON file with tags to import")
	flag.Parse()

	logger.Init(logger.Config{Service: "foodgram-seed", Level: "info", Format: "console", Output: os.Stderr})
	log := logger.Logger

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if err := database.Migrate(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate database")
	}

	catalog := service.NewCatalogService(db)

	if *ingredientsPath != "" {
		ingredients, err := readIngredients(*ingredientsPath)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to read ingredients")
		}
		if _, err := catalog.ImportIngredients(ctx, ingredients); err != nil {
			log.Fatal().Err(err).Msg("failed to import ingredients")
		}
	}

	if *tagsPath != "" {
		tags, err := readTags(*tagsPath)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to read tags")
		}
		if _, err := catalog.ImportTags(ctx, tags); err != nil {
			log.Fatal().Err(err).Msg("failed to import tags")
		}
	}

	log.Info().Msg("seeding complete")
}

func readJSON(path string, out interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

// readIngredients loads ingredient records, skipping blank names
func readIngredients(path string) ([]model.Ingredient, error) {
	var records []ingredientRecord
	if err := readJSON(path, &records); err != nil {
		return nil, err
	}

	ingredients := make([]model.Ingredient, 0, len(records))
	for _, r := range records {
		name := strings.TrimSpace(r.Name)
		if name == "" {
			continue
		}
		ingredients = append(ingredients, model.Ingredient{
			Name:            name,
			MeasurementUnit: strings.TrimSpace(r.MeasurementUnit),
		})
	}
	return ingredients, nil
}

// readTags loads tag records; a missing slug is derived from the name
func readTags(path string) ([]model.Tag, error) {
	var records []tagRecord
	if err := readJSON(path, &records); err != nil {
		return nil, err
	}

	tags := make([]model.Tag, 0, len(records))
	for _, r := range records {
		name := strings.TrimSpace(r.Name)
		if name == "" {
			continue
		}
		slug := strings.TrimSpace(r.Slug)
		if slug == "" {
			slug = strings.ToLower(strings.Join(strings.Fields(name), "-"))
		}
		tags = append(tags, model.Tag{Name: name, Slug: slug})
	}
	return tags, nil
}
