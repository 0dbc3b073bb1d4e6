package database

import (
	"database/sql"
	"fmt"
	"log"

	"golang.org/x/crypto/bcrypt"
)

// RunMigrations creates the ambient auth-collaborator schema. The core
// QR-bill pipeline is stateless and persists nothing (§3); the only
// tables this service owns back the outer login/audit surface.
func RunMigrations(db *sql.DB) error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS admin_users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			username TEXT UNIQUE NOT NULL,
			password_hash TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS admin_logs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			action TEXT NOT NULL,
			details TEXT,
			user_id INTEGER,
			ip_address TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
	}

	for _, migration := range migrations {
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("migration failed: %v", err)
		}
	}

	if _, err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_admin_logs_created ON admin_logs(created_at)`); err != nil {
		log.Printf("Index creation warning: %v", err)
	}

	return createDefaultAdmin(db)
}

// createDefaultAdmin seeds a single admin principal on first run so the
// service is reachable without an out-of-band provisioning step.
func createDefaultAdmin(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM admin_users").Scan(&count); err != nil {
		return err
	}

	if count == 0 {
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
		if err != nil {
			return err
		}

		_, err = db.Exec(`
			INSERT INTO admin_users (username, password_hash)
			VALUES (?, ?)
		`, "admin", string(hashedPassword))
		if err != nil {
			return err
		}

		log.Println("✓ Default admin user created")
		log.Println("   Username: admin")
		log.Println("   Password: admin123")
		log.Println("   ⚠️  IMPORTANT: Change the default password immediately!")
	}

	return nil
}
