package repository

import (
	"database/sql"
	"fmt"

	"github.com/agrosur/riego-backend-go/internal/models"
)

// UserRepository handles database operations for users
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a user
func (r *UserRepository) Create(user *models.User) error {
	_, err := r.db.Exec("INSERT INTO users (username, display_name) VALUES (?, ?)",
		user.Username, user.DisplayName)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetDisplayName resolves a username to its display name
func (r *UserRepository) GetDisplayName(username string) (string, error) {
	var displayName string
	err := r.db.QueryRow("SELECT display_name FROM users WHERE username = ?", username).Scan(&displayName)
	if err == sql.ErrNoRows {
		return "", fmt.Errorf("user %s: %w", username, ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("failed to get user: %w", err)
	}
	return displayName, nil
}
