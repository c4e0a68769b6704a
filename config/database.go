package config

import (
	"database/sql"
	"log"

	_ "github.com/mattn/go-sqlite3"
)

var DB *sql.DB

func ConnectDB() {
	dsn := "gotours.db"
	if C != nil && C.DBDSN != "" {
		dsn = C.DBDSN
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		log.Fatalf("Failed to open SQLite connection: %v", err)
	}

	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}
	log.Println("Database connection established")

	DB = db
	if err := Migrate(db); err != nil {
		log.Fatalf("Failed to create schema: %v", err)
	}
}

// Migrate creates the schema if it does not exist. Exposed so tests can run
// it against an in-memory database.
func Migrate(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			first_name VARCHAR(100) NOT NULL,
			last_name VARCHAR(100) NOT NULL,
			email VARCHAR(255) NOT NULL UNIQUE,
			password_hash VARCHAR(255) NOT NULL,
			role VARCHAR(50) DEFAULT 'user',
			photo VARCHAR(255) DEFAULT '',
			verified BOOLEAN DEFAULT FALSE,
			active BOOLEAN DEFAULT TRUE,
			verification_code VARCHAR(255) NULL,
			password_reset_token VARCHAR(255) NULL,
			password_reset_at DATETIME NULL,
			password_changed_at DATETIME NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);`,
		`CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			user_agent VARCHAR(255) DEFAULT '',
			valid BOOLEAN DEFAULT TRUE,
			invalidated_at DATETIME NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
		);`,
		`CREATE TABLE IF NOT EXISTS tours (
			id TEXT PRIMARY KEY,
			name VARCHAR(255) NOT NULL UNIQUE,
			duration INTEGER NOT NULL,
			max_group_size INTEGER NOT NULL,
			difficulty VARCHAR(50) NOT NULL,
			ratings_average REAL DEFAULT 4.5,
			ratings_quantity INTEGER DEFAULT 0,
			price REAL NOT NULL,
			discount REAL DEFAULT 0,
			summary TEXT DEFAULT '',
			description TEXT DEFAULT '',
			image_cover VARCHAR(255) DEFAULT '',
			images TEXT DEFAULT '',
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);`,
		`CREATE TABLE IF NOT EXISTS reviews (
			id TEXT PRIMARY KEY,
			review TEXT NOT NULL,
			rating REAL NOT NULL,
			tour_id TEXT NOT NULL,
			user_id TEXT NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (tour_id) REFERENCES tours(id) ON DELETE CASCADE,
			FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
		);`,
	}

	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}
