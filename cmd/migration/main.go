package main

import (
	"errors"
	"log"

	"github.com/golang-migrate/migrate/v4"
	"github.com/joho/godotenv"

	"github.com/mavericklabs/sparks-files/env"
	"github.com/mavericklabs/sparks-files/migrations"
)

func main() {
	_ = godotenv.Load()

	uri, err := env.Get(env.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}

	log.Println("starting migrations")

	m, err := migrations.New(uri)
	if err != nil {
		log.Fatalf("error creating migrations: %v", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		log.Fatalf("error running migrations: %v", err)
	}

	log.Println("db migrated successfully")
}
