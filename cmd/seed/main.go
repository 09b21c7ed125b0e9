package main

import (
	"context"
	"fmt"
	"log"
	"math/rand"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"realtyflow/internal/config"
	"realtyflow/internal/database"
	"realtyflow/internal/domain"
	"realtyflow/internal/repository"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("config load failed:", err)
	}

	db, err := database.Connect(cfg.Database.URL)
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	log.Println("Running migrations...")
	if err := database.Migrate(db); err != nil {
		log.Fatal("migration failed:", err)
	}

	// children first so foreign keys hold
	log.Println("Cleaning old data...")
	for _, table := range []string{
		"channel_partner_leads", "payments", "bookings", "negotiations", "communications",
		"lead_activities", "leads", "channel_partners", "units", "towers", "projects", "users",
	} {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			log.Fatalf("clean %s failed: %v", table, err)
		}
	}

	ctx := context.Background()
	repos := repository.New(db)
	rng := rand.New(rand.NewSource(42))

	// ================== USERS ==================
	log.Println("Creating users...")
	users := []struct {
		username string
		role     domain.UserRole
		first    string
	}{
		{cfg.Master.Username, domain.RoleMaster, "Master"},
		{"hq", domain.RoleDeveloperHQ, "Harish"},
		{"salesadmin", domain.RoleSalesAdmin, "Anita"},
		{"exec1", domain.RoleSalesExecutive, "Rahul"},
		{"exec2", domain.RoleSalesExecutive, "Pooja"},
	}
	var executives []string
	for _, u := range users {
		password := "password123"
		if u.role == domain.RoleMaster {
			password = cfg.Master.Password
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			log.Fatal(err)
		}
		user := &domain.User{
			Username:     u.username,
			Email:        u.username + "@realtyflow.com",
			PasswordHash: string(hash),
			FirstName:    u.first,
			Role:         u.role,
			IsActive:     true,
		}
		if err := repos.Users.Create(ctx, user); err != nil {
			log.Fatalf("create user %s: %v", u.username, err)
		}
		if u.role == domain.RoleSalesExecutive {
			executives = append(executives, user.ID)
		}
		log.Printf("User created: %s / %s (%s)", u.username, password, u.role)
	}

	// ================== INVENTORY ==================
	log.Println("Creating projects, towers and units...")
	project := &domain.Project{
		Name:     "Skyline Residency",
		Location: "Baner, Pune",
		Status:   domain.ProjectActive,
	}
	if err := repos.Projects.Create(ctx, project); err != nil {
		log.Fatal(err)
	}

	units := 0
	for _, name := range []string{"A", "B"} {
		tower := &domain.Tower{ProjectID: project.ID, Name: name, Floors: 6, UnitsPerFloor: 4}
		if err := repos.Towers.Create(ctx, tower); err != nil {
			log.Fatal(err)
		}
		for floor := 1; floor <= tower.Floors; floor++ {
			for n := 1; n <= tower.UnitsPerFloor; n++ {
				size := decimal.NewFromInt(int64(850 + 150*(n%3)))
				rate := size.Mul(decimal.NewFromInt(int64(6500 + 100*floor)))
				u := &domain.Unit{
					TowerID:      tower.ID,
					ProjectID:    project.ID,
					UnitNumber:   fmt.Sprintf("%s-%d%02d", name, floor, n),
					Floor:        floor,
					PropertyType: domain.PropertyFlat,
					Status:       domain.UnitAvailable,
					Size:         size,
					BaseRate:     rate,
					PLC:          decimal.NewFromInt(int64(50_000 * (n % 2))),
					GST:          rate.Mul(decimal.NewFromInt(5)).Div(decimal.NewFromInt(100)).Round(2),
					StampDuty:    rate.Mul(decimal.NewFromInt(6)).Div(decimal.NewFromInt(100)).Round(2),
					Facing:       []string{"East", "West", "North", "South"}[n-1],
				}
				u.RecomputeTotal()
				if err := repos.Units.Create(ctx, u); err != nil {
					log.Fatal(err)
				}
				units++
			}
		}
	}
	if _, err := repos.Projects.RecountUnits(ctx, project.ID); err != nil {
		log.Fatal(err)
	}
	log.Printf("Created %d units", units)

	// ================== LEADS ==================
	log.Println("Creating leads...")
	sources := []domain.LeadSource{
		domain.Source99Acres, domain.SourceMagicBricks, domain.SourceWebsite,
		domain.SourceWalkIn, domain.SourceGoogleAds, domain.SourceReferral,
	}
	names := []string{"Amit Shah", "Neha Kulkarni", "Vikram Rao", "Sneha Patil", "Rohan Mehta", "Kavya Iyer", "Arjun Nair", "Isha Joshi"}
	for i, name := range names {
		owner := executives[i%len(executives)]
		budget := decimal.NewFromInt(int64(6_000_000 + rng.Intn(40)*100_000))
		lead := &domain.Lead{
			Name:       name,
			Phone:      fmt.Sprintf("98%08d", rng.Intn(100_000_000)),
			Source:     sources[i%len(sources)],
			Status:     domain.LeadNew,
			ProjectID:  &project.ID,
			AssignedTo: &owner,
			Budget:     &budget,
			IsActive:   true,
		}
		if err := repos.Leads.Create(ctx, lead); err != nil {
			log.Fatal(err)
		}
	}

	// ================== PARTNERS ==================
	partner := &domain.ChannelPartner{
		Name:           "Prime Realty Associates",
		Phone:          "9890011223",
		Company:        "Prime Realty",
		CommissionRate: decimal.RequireFromString("2.5"),
		IsActive:       true,
	}
	if err := repos.Partners.Create(ctx, partner); err != nil {
		log.Fatal(err)
	}

	log.Println("Seed completed")
}
