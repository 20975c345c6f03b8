package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"syscall"

	"barangay_app_go/config"
	"barangay_app_go/db"
	"barangay_app_go/models"
	"barangay_app_go/services"

	"golang.org/x/term"
)

func main() {
	role := flag.String("role", models.RoleAdmin, "account role: admin, secretary or bhw")
	flag.Parse()

	// Load configuration
	cfg := config.Load()

	// Initialize database
	if err := db.Initialize(db.OptionsFromConfig(cfg)); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// Run migrations
	if err := db.AutoMigrate(models.All()...); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	reader := bufio.NewReader(os.Stdin)

	// Get user details
	fmt.Println("=== Create New User ===")
	fmt.Println()

	fmt.Print("Name: ")
	name, _ := reader.ReadString('\n')
	name = strings.TrimSpace(name)

	fmt.Print("Email: ")
	email, _ := reader.ReadString('\n')
	email = strings.TrimSpace(email)

	// Get password securely
	fmt.Print("Password: ")
	passwordBytes, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		log.Fatalf("Failed to read password: %v", err)
	}
	fmt.Println() // New line after password input

	user, err := services.CreateUser(db.DB, services.UserInput{
		Name:     name,
		Email:    email,
		Password: string(passwordBytes),
		Role:     *role,
	})
	if err != nil {
		var verr *services.ValidationError
		switch {
		case errors.As(err, &verr):
			log.Fatalf("Invalid %s: %s", verr.Field, verr.Message)
		case errors.Is(err, services.ErrEmailTaken):
			log.Fatalf("User with email %s already exists", email)
		default:
			log.Fatalf("Failed to create user: %v", err)
		}
	}

	fmt.Println()
	fmt.Println("✓ User created successfully!")
	fmt.Printf("  ID: %s\n", user.ID)
	fmt.Printf("  Name: %s\n", user.Name)
	fmt.Printf("  Email: %s\n", user.Email)
	fmt.Printf("  Role: %s\n", user.Role)
	fmt.Println()
	fmt.Printf("Sign in with POST %s/api/auth/login\n", cfg.AppURL)
}
