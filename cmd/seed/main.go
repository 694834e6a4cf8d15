package main

import (
	"database/sql"
	"fmt"
	"log"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/madinafit/fitness-backend/config"
	"github.com/madinafit/fitness-backend/pkg/helpers"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := sql.Open("pgx", cfg.PostgresDSN())
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	email := "demo@madinafit.dev"
	password := "Demo123!"
	name := "Demo User"
	hash, err := helpers.HashPassword(password)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	var id string
	err = db.QueryRow(`
		INSERT INTO users (email, password_hash, name)
		VALUES ($1, $2, $3)
		ON CONFLICT (email) DO UPDATE SET name = EXCLUDED.name
		RETURNING id
	`, email, hash, name).Scan(&id)
	if err != nil {
		log.Fatalf("failed to seed user: %v", err)
	}
	fmt.Printf("seeded user: id=%s email=%s password=%s\n", id, email, password)

	workouts := []string{
		`{"ownerEmail":"demo@madinafit.dev","date":"2026-08-30","type":"run","distanceKm":5.2,"durationMin":31}`,
		`{"ownerEmail":"demo@madinafit.dev","date":"2026-08-31","type":"strength","exercises":[{"name":"squat","sets":5,"reps":5,"weightKg":80}]}`,
	}
	for _, w := range workouts {
		if _, err := db.Exec(`
			INSERT INTO workouts (owner_email, payload) VALUES ($1, $2)
		`, email, w); err != nil {
			log.Fatalf("failed to seed workout: %v", err)
		}
	}
	fmt.Printf("seeded %d workouts for %s\n", len(workouts), email)
}
