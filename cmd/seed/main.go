package main

import (
	"context"
	"errors"
	"log"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"foodlink/internal/config"
	"foodlink/internal/db"
	"foodlink/internal/model"
	"foodlink/internal/repository"
)

// seedPassword is the login password for every demo account.
const seedPassword = "password123"

type seedUser struct {
	Name    string
	Email   string
	Phone   string
	Address string
	Role    model.UserRole
}

var seedUsers = []seedUser{
	{Name: "Padaria do Bairro", Email: "padaria@foodlink.dev", Phone: "+55 81 99999-0001", Address: "Rua das Flores 12, Recife", Role: model.RoleDonor},
	{Name: "Mercado Central", Email: "mercado@foodlink.dev", Phone: "+55 81 99999-0002", Address: "Av. Norte 340, Recife", Role: model.RoleDonor},
	{Name: "Casa de Apoio Esperança", Email: "esperanca@foodlink.dev", Phone: "+55 81 99999-0003", Address: "Rua do Sol 88, Olinda", Role: model.RoleDonee},
	{Name: "Abrigo São Francisco", Email: "abrigo@foodlink.dev", Phone: "+55 81 99999-0004", Address: "Rua Alegre 45, Recife", Role: model.RoleDonee},
}

func main() {
	log.Println("Starting seed script...")

	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	if err := gormDB.AutoMigrate(&model.User{}, &model.Donation{}, &model.Appointment{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	userRepo := repository.NewUserRepository(gormDB)
	donationRepo := repository.NewDonationRepository(gormDB)
	ctx := context.Background()

	hashed, err := bcrypt.GenerateFromPassword([]byte(seedPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash seed password: %v", err)
	}

	users := make(map[string]*model.User, len(seedUsers))
	created := 0
	for _, su := range seedUsers {
		existing, err := userRepo.FindByEmail(ctx, su.Email)
		if err == nil {
			users[su.Email] = existing
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Fatalf("Error checking user %s: %v", su.Email, err)
		}

		user := &model.User{
			Name:         su.Name,
			Email:        su.Email,
			PasswordHash: string(hashed),
			Phone:        su.Phone,
			Address:      su.Address,
			Role:         su.Role,
		}
		if err := userRepo.Create(ctx, user); err != nil {
			log.Fatalf("Error creating user %s: %v", su.Email, err)
		}
		users[su.Email] = user
		created++
	}
	log.Printf("Users ready: %d created, %d existing", created, len(seedUsers)-created)

	donor := users["padaria@foodlink.dev"]
	existing, err := donationRepo.ListByDonor(ctx, donor.ID)
	if err != nil {
		log.Fatalf("Error listing donations: %v", err)
	}
	if len(existing) > 0 {
		log.Printf("Donations already seeded (%d found), nothing to do", len(existing))
		return
	}

	donations := []model.Donation{
		{
			DonorID:        donor.ID,
			Title:          "Pães do dia anterior",
			Description:    "Cerca de 40 pães franceses do dia anterior, próprios para consumo.",
			Quantity:       40,
			Unit:           "units",
			ExpirationDate: time.Now().AddDate(0, 0, 2),
			Status:         model.DonationStatusAvailable,
		},
		{
			DonorID:        users["mercado@foodlink.dev"].ID,
			Title:          "Frutas maduras",
			Description:    "Caixa de bananas e mamões maduros.",
			Quantity:       12,
			Unit:           "kg",
			ExpirationDate: time.Now().AddDate(0, 0, 3),
			Status:         model.DonationStatusAvailable,
		},
	}
	for i := range donations {
		if err := donationRepo.Create(ctx, &donations[i]); err != nil {
			log.Fatalf("Error creating donation %q: %v", donations[i].Title, err)
		}
	}

	log.Printf("Seed completed successfully!")
	log.Printf("  - Donations created: %d", len(donations))
	log.Printf("  - Demo login password: %s", seedPassword)
}
