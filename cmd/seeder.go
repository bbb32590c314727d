package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with default categories and a linked demo couple for development and testing purposes.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		db, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		defer db.Close()

		if clearData {
			for _, table := range []string{"financial_summaries", "cash_flows", "entries", "categories", "users"} {
				if _, err := db.Exec("DELETE FROM " + table); err != nil {
					log.Fatalf("failed to clear table %s: %v", table, err)
				}
			}
			fmt.Println("Cleared existing data")
		}

		password := "password"
		hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)

		demoUsers := []struct {
			Email     string
			FirstName string
			LastName  string
		}{
			{"maria@mail.com", "Maria", "Barcellos"},
			{"joao@mail.com", "Joao", "Barcellos"},
		}

		userIDs := make(map[string]int64, len(demoUsers))
		for _, u := range demoUsers {
			var id int64
			err := db.QueryRow("SELECT id FROM users WHERE email = $1", u.Email).Scan(&id)
			if err == nil {
				fmt.Printf("user %s already exists\n", u.Email)
				userIDs[u.Email] = id
				continue
			}

			err = db.QueryRow(
				"INSERT INTO users (email, password_hash, first_name, last_name, is_active, created_at, updated_at) VALUES ($1, $2, $3, $4, true, now(), now()) RETURNING id",
				u.Email, string(hash), u.FirstName, u.LastName,
			).Scan(&id)
			if err != nil {
				log.Fatalf("failed to insert user %s: %v", u.Email, err)
			}
			userIDs[u.Email] = id
			fmt.Printf("Seeded user: %s\n", u.Email)
		}

		// link the demo couple on both rows
		mariaID := userIDs["maria@mail.com"]
		joaoID := userIDs["joao@mail.com"]
		if _, err := db.Exec("UPDATE users SET partner_id = $1 WHERE id = $2", joaoID, mariaID); err != nil {
			log.Fatalf("failed to link partners: %v", err)
		}
		if _, err := db.Exec("UPDATE users SET partner_id = $1 WHERE id = $2", mariaID, joaoID); err != nil {
			log.Fatalf("failed to link partners: %v", err)
		}
		fmt.Println("Linked demo couple")

		categories := []struct {
			Name  string
			Type  string
			Color string
		}{
			{"Salary", "income", "#28a745"},
			{"Freelance", "income", "#17a2b8"},
			{"Investments", "income", "#6f42c1"},
			{"Housing", "expense", "#dc3545"},
			{"Groceries", "expense", "#fd7e14"},
			{"Transport", "expense", "#ffc107"},
			{"Utilities", "expense", "#20c997"},
			{"Leisure", "expense", "#e83e8c"},
			{"Health", "expense", "#007bff"},
			{"Other", "expense", "#6c757d"},
		}

		for _, c := range categories {
			var exists int
			err := db.QueryRow("SELECT 1 FROM categories WHERE name = $1 AND type = $2 AND is_default = true", c.Name, c.Type).Scan(&exists)
			if err == nil {
				continue
			}

			if _, err := db.Exec(
				"INSERT INTO categories (name, type, color, is_default, created_by, created_at) VALUES ($1, $2, $3, true, $4, now())",
				c.Name, c.Type, c.Color, mariaID,
			); err != nil {
				log.Fatalf("failed to insert category %s: %v", c.Name, err)
			}
			fmt.Printf("Seeded category: %s (%s)\n", c.Name, c.Type)
		}

		fmt.Println("Seed completed")
	},
}
