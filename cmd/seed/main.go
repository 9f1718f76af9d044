package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"
)

// Seeds the first admin account. Run once against a migrated database:
//
//	ADMIN_USERNAME=admin ADMIN_PASSWORD=... go run ./cmd/seed
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	username := os.Getenv("ADMIN_USERNAME")
	password := os.Getenv("ADMIN_PASSWORD")
	if username == "" || password == "" {
		log.Fatal("ADMIN_USERNAME and ADMIN_PASSWORD are required")
	}

	connStr := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		os.Getenv("DB_HOST"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
	)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	res, err := db.Exec(`
		INSERT INTO users (username, password_hash, role, balance, created_at, updated_at)
		VALUES ($1, $2, 'admin', 0, NOW(), NOW())
		ON CONFLICT (username) DO NOTHING
	`, username, string(hash))
	if err != nil {
		log.Fatalf("Failed to insert admin user: %v", err)
	}

	if n, _ := res.RowsAffected(); n == 0 {
		log.Printf("User %q already exists, nothing to do", username)
		return
	}

	log.Printf("Admin user %q created", username)
}
