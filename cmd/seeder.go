package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with staff accounts, permissions and sample products for development.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		sqlDB, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		db, err := gorm.Open(gormpostgres.New(gormpostgres.Config{Conn: sqlDB.DB}), &gorm.Config{})
		if err != nil {
			log.Fatalf("failed to init gorm: %v", err)
		}

		if clearData {
			for _, table := range []string{"user_permissions", "reviews", "orders", "checkout_sessions", "products", "permissions", "users"} {
				if err := db.Exec("DELETE FROM " + table).Error; err != nil {
					log.Fatalf("failed to clear %s: %v", table, err)
				}
			}
			fmt.Println("Cleared existing data")
		}

		hash, _ := bcrypt.GenerateFromPassword([]byte("password"), cfg.Security.BCryptCost)

		seedUser(db, "admin@dhakamart.com", "Admin", string(hash))
		seedUser(db, "ops@dhakamart.com", "Operations", string(hash))

		permissions := []struct {
			Name string
			Desc string
		}{
			{"admin", "full administrator"},
			{"manage_orders", "Can view and update orders"},
			{"manage_settings", "Can edit payment gateway settings"},
			{"manage_catalog", "Can edit products"},
		}

		for _, p := range permissions {
			var pid int64
			row := db.Raw("SELECT id FROM permissions WHERE name = ?", p.Name).Row()
			if err := row.Scan(&pid); err != nil {
				if err := db.Exec("INSERT INTO permissions (name, description, created_at) VALUES (?, ?, now())", p.Name, p.Desc).Error; err != nil {
					log.Fatalf("failed to insert permission %s: %v", p.Name, err)
				}
			}
		}

		grantPermissions(db, "admin@dhakamart.com", []string{"admin"})
		grantPermissions(db, "ops@dhakamart.com", []string{"manage_orders", "manage_catalog"})

		seedProducts(db)

		fmt.Println("Seeding complete")
	},
}

func seedUser(db *gorm.DB, email, name, passwordHash string) {
	var exists int
	if err := db.Raw("SELECT 1 FROM users WHERE email = ?", email).Row().Scan(&exists); err == nil {
		fmt.Println("user already exists:", email)
		return
	}

	if err := db.Exec("INSERT INTO users (email, name, password_hash, is_active, created_at, updated_at) VALUES (?, ?, ?, true, now(), now())", email, name, passwordHash).Error; err != nil {
		log.Fatalf("failed to insert user %s: %v", email, err)
	}
	fmt.Println("Seeded user:", email)
}

func grantPermissions(db *gorm.DB, email string, permissionNames []string) {
	var userID int64
	if err := db.Raw("SELECT id FROM users WHERE email = ?", email).Row().Scan(&userID); err != nil {
		log.Fatalf("failed to lookup user id for %s: %v", email, err)
	}

	for _, permName := range permissionNames {
		var pid int64
		if err := db.Raw("SELECT id FROM permissions WHERE name = ?", permName).Row().Scan(&pid); err != nil {
			log.Fatalf("permission not found %s: %v", permName, err)
		}

		var exists int
		if err := db.Raw("SELECT 1 FROM user_permissions WHERE user_id = ? AND permission_id = ?", userID, pid).Row().Scan(&exists); err == nil {
			continue
		}

		if err := db.Exec("INSERT INTO user_permissions (user_id, permission_id, created_at) VALUES (?, ?, now())", userID, pid).Error; err != nil {
			log.Fatalf("failed to grant permission %s to %s: %v", permName, email, err)
		}
	}
	fmt.Printf("Granted %v to %s\n", permissionNames, email)
}

func seedProducts(db *gorm.DB) {
	products := []struct {
		ID    string
		Name  string
		Price string
		Type  string
	}{
		{"11111111-1111-1111-1111-111111111111", "Jamdani Saree", "4500.00", "physical"},
		{"22222222-2222-2222-2222-222222222222", "Panjabi Classic", "1800.00", "physical"},
		{"33333333-3333-3333-3333-333333333333", "Rickshaw Art Print (Digital)", "350.00", "digital"},
	}

	for _, p := range products {
		var exists int
		if err := db.Raw("SELECT 1 FROM products WHERE id = ?", p.ID).Row().Scan(&exists); err == nil {
			continue
		}

		if err := db.Exec(`INSERT INTO products (id, name, description, price, product_type, is_active, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, true, now(), now())`,
			p.ID, p.Name, "Sample product for development", p.Price, p.Type).Error; err != nil {
			log.Fatalf("failed to insert product %s: %v", p.Name, err)
		}
		fmt.Println("Seeded product:", p.Name)
	}
}
