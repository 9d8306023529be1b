package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"go-clean-api/config"
	"go-clean-api/internal/domain/entity"
	"go-clean-api/pkg/helpers"
)

// Seeds a local administrator account. Roles and sample products come from
// the migrations; this only covers the one thing a migration should not
// hardcode, a login with a known password.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := sql.Open("pgx", cfg.PostgresDSN())
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	email := envOr("SEED_ADMIN_EMAIL", "admin@localhost")
	password := envOr("SEED_ADMIN_PASSWORD", "Admin!234")

	hash, err := helpers.HashPassword(password)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	var id string
	err = db.QueryRow(`
		INSERT INTO users (email, user_name, first_name, last_name, password_hash, security_stamp, is_active)
		VALUES ($1, $1, 'System', 'Administrator', $2, gen_random_uuid(), true)
		ON CONFLICT (email) DO UPDATE SET password_hash = EXCLUDED.password_hash
		RETURNING id
	`, email, hash).Scan(&id)
	if err != nil {
		log.Fatalf("failed to seed admin user: %v", err)
	}

	if _, err := db.Exec(`
		INSERT INTO user_roles (user_id, role_id)
		SELECT $1, id FROM roles WHERE name = $2
		ON CONFLICT DO NOTHING
	`, id, entity.RoleAdministrator); err != nil {
		log.Fatalf("failed to assign administrator role: %v", err)
	}

	fmt.Printf("seeded administrator: id=%s email=%s password=%s\n", id, email, password)
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
