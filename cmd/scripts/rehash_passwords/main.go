package main

import (
	"fmt"
	"os"

	"github.com/unihub/unihub/backend/internal/config"
	"github.com/unihub/unihub/backend/internal/models"
	"github.com/unihub/unihub/backend/internal/utils"
)

// Bulk-migrates accounts imported with plaintext passwords to bcrypt.
// Normally migration happens lazily on login; this closes out the stragglers.
func main() {
	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	utils.SetBcryptCost(cfg.Bcrypt.Cost)

	if err := models.InitDB(&cfg.Database); err != nil {
		fmt.Printf("Failed to connect to database: %v\n", err)
		os.Exit(1)
	}
	db := models.GetDB()

	var users []models.User
	if err := db.Find(&users).Error; err != nil {
		fmt.Printf("Failed to read users: %v\n", err)
		os.Exit(1)
	}

	var migrated, skipped, failed int
	for _, u := range users {
		if utils.IsBcryptHash(u.Password) {
			skipped++
			continue
		}

		hashed, err := utils.HashPassword(u.Password)
		if err != nil {
			fmt.Printf("  user %d (%s): hash failed: %v\n", u.ID, u.Email, err)
			failed++
			continue
		}
		if err := db.Model(&models.User{}).Where("id = ?", u.ID).
			Update("password", hashed).Error; err != nil {
			fmt.Printf("  user %d (%s): update failed: %v\n", u.ID, u.Email, err)
			failed++
			continue
		}
		migrated++
	}

	fmt.Printf("Done: %d migrated, %d already hashed, %d failed\n", migrated, skipped, failed)
	if failed > 0 {
		os.Exit(1)
	}
}
