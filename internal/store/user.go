package store

import (
	"database/sql"
	"fmt"

	"github.com/dukerupert/chorezilla/internal/model"
)

type UserStore struct {
	db *sql.DB
}

func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db}
}

const userCols = `id, email, display_name, role, family_id, created_at, updated_at`

func (s *UserStore) GetByID(id string) (*model.User, error) {
	row := s.db.QueryRow(`SELECT `+userCols+` FROM users WHERE id = ?`, id)
	var u model.User
	err := row.Scan(&u.ID, &u.Email, &u.DisplayName, &u.Role, &u.FamilyID, &u.CreatedAt, &u.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query user: %w", err)
	}
	return &u, nil
}

// UpsertProfile merges display name, role, and family onto the user row,
// creating it if needed. Columns not named here (email, created_at) keep
// their values.
func (s *UserStore) UpsertProfile(id, displayName, role, familyID string) (*model.User, error) {
	_, err := s.db.Exec(
		`INSERT INTO users (id, display_name, role, family_id) VALUES (?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   display_name = excluded.display_name,
		   role = excluded.role,
		   family_id = excluded.family_id,
		   updated_at = CURRENT_TIMESTAMP`,
		id, displayName, role, familyID,
	)
	if err != nil {
		return nil, fmt.Errorf("upsert user profile: %w", err)
	}
	return s.GetByID(id)
}
