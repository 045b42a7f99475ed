package main

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/mandalnilabja/llamarelay/internal/auth"
	"github.com/mandalnilabja/llamarelay/internal/storage"
	"github.com/mandalnilabja/llamarelay/internal/transport/http/handler/shared"
)

// ensureAdminPassword seeds the admin password from ADMIN_PASSWORD, or asks
// for one on an interactive terminal. Without either the admin API stays locked.
func ensureAdminPassword(store storage.Storage, logger *slog.Logger) error {
	hasPassword, err := store.HasAdminPassword()
	if err != nil {
		return fmt.Errorf("failed to check admin password: %w", err)
	}

	if hasPassword {
		return nil
	}

	if password := os.Getenv("ADMIN_PASSWORD"); password != "" {
		if !shared.IsValidAdminPassword(password) {
			return fmt.Errorf("ADMIN_PASSWORD must be alphanumeric with at least 8 characters")
		}
		return saveAdminPassword(store, password)
	}

	if !isTerminal(os.Stdin) {
		logger.Warn("no admin password configured, admin API disabled until ADMIN_PASSWORD is set")
		return nil
	}

	fmt.Println()
	fmt.Println("╔════════════════════════════════════════════════════════════╗")
	fmt.Println("║              FIRST-TIME SETUP REQUIRED                     ║")
	fmt.Println("╚════════════════════════════════════════════════════════════╝")
	fmt.Println()
	fmt.Println("No admin password configured. Please set one now.")
	fmt.Println("This password protects the Admin API.")
	fmt.Println()

	reader := bufio.NewReader(os.Stdin)

	for {
		fmt.Print("Enter admin password (alphanumeric, min 8 chars): ")
		password, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}
		password = strings.TrimSpace(password)

		if !shared.IsValidAdminPassword(password) {
			fmt.Println("❌ Password must be alphanumeric with at least 8 characters.")
			fmt.Println()
			continue
		}

		fmt.Print("Confirm password: ")
		confirm, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("failed to read confirmation: %w", err)
		}
		confirm = strings.TrimSpace(confirm)

		if password != confirm {
			fmt.Println("❌ Passwords do not match. Please try again.")
			fmt.Println()
			continue
		}

		if err := saveAdminPassword(store, password); err != nil {
			return err
		}

		fmt.Println()
		fmt.Println("✓ Admin password saved successfully!")
		fmt.Println()
		return nil
	}
}

func saveAdminPassword(store storage.Storage, password string) error {
	hash, err := auth.HashSecret(password, auth.DefaultArgon2Params())
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := store.SetAdminPasswordHash(hash); err != nil {
		return fmt.Errorf("failed to save password: %w", err)
	}
	return nil
}

// accessCodeHashes merges hashed codes from the config file with plain codes
// from ACCESS_CODE, which are hashed here.
func accessCodeHashes(hashed, plain []string) ([]string, error) {
	hashes := append([]string(nil), hashed...)
	for _, code := range plain {
		hash, err := auth.HashSecret(code, auth.DefaultArgon2Params())
		if err != nil {
			return nil, fmt.Errorf("failed to hash access code: %w", err)
		}
		hashes = append(hashes, hash)
	}
	return hashes, nil
}

func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
