package store

import (
	"database/sql"
	"fmt"

	"github.com/dukerupert/chorezilla/internal/model"
	"github.com/google/uuid"
)

type FamilyStore struct {
	db *sql.DB
}

func NewFamilyStore(db *sql.DB) *FamilyStore {
	return &FamilyStore{db: db}
}

func (s *FamilyStore) Create(name string) (*model.Family, error) {
	id := uuid.NewString()
	_, err := s.db.Exec(`INSERT INTO families (id, name) VALUES (?, ?)`, id, name)
	if err != nil {
		return nil, fmt.Errorf("insert family: %w", err)
	}
	return s.GetByID(id)
}

func (s *FamilyStore) GetByID(id string) (*model.Family, error) {
	var f model.Family
	err := s.db.QueryRow(
		`SELECT id, name, created_at, updated_at FROM families WHERE id = ?`, id,
	).Scan(&f.ID, &f.Name, &f.CreatedAt, &f.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query family: %w", err)
	}
	return &f, nil
}

func (s *FamilyStore) Delete(id string) error {
	_, err := s.db.Exec(`DELETE FROM families WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete family: %w", err)
	}
	return nil
}

// AddParent records a user in the family's parent set.
func (s *FamilyStore) AddParent(familyID, userID string) error {
	_, err := s.db.Exec(
		`INSERT INTO family_parents (family_id, user_id) VALUES (?, ?)
		 ON CONFLICT(family_id, user_id) DO NOTHING`,
		familyID, userID,
	)
	if err != nil {
		return fmt.Errorf("add parent: %w", err)
	}
	return nil
}

// IsParent reports whether the user is in the family's parent set.
func (s *FamilyStore) IsParent(familyID, userID string) (bool, error) {
	var count int
	err := s.db.QueryRow(
		`SELECT COUNT(*) FROM family_parents WHERE family_id = ? AND user_id = ?`,
		familyID, userID,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("check parent: %w", err)
	}
	return count > 0, nil
}

// ListParentIDs returns the user ids in the family's parent set.
func (s *FamilyStore) ListParentIDs(familyID string) ([]string, error) {
	rows, err := s.db.Query(`SELECT user_id FROM family_parents WHERE family_id = ?`, familyID)
	if err != nil {
		return nil, fmt.Errorf("list parents: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan parent id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
