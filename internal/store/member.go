package store

import (
	"database/sql"
	"fmt"

	"github.com/dukerupert/chorezilla/internal/model"
	"github.com/google/uuid"
)

type MemberStore struct {
	db *sql.DB
}

func NewMemberStore(db *sql.DB) *MemberStore {
	return &MemberStore{db: db}
}

const memberCols = `id, family_id, name, role, avatar_emoji, uses_this_device, requires_pin, notifications_enabled, created_at`

func scanMember(scanner interface{ Scan(...any) error }) (*model.Member, error) {
	var m model.Member
	err := scanner.Scan(
		&m.ID, &m.FamilyID, &m.Name, &m.Role, &m.AvatarEmoji,
		&m.UsesThisDevice, &m.RequiresPIN, &m.NotificationsEnabled, &m.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *MemberStore) Create(familyID, name, role, avatarEmoji string, usesThisDevice bool) (*model.Member, error) {
	if role == "" {
		role = model.RoleChild
	}
	if avatarEmoji == "" {
		avatarEmoji = "😀"
	}

	id := uuid.NewString()
	_, err := s.db.Exec(
		`INSERT INTO members (id, family_id, name, role, avatar_emoji, uses_this_device) VALUES (?, ?, ?, ?, ?, ?)`,
		id, familyID, name, role, avatarEmoji, usesThisDevice,
	)
	if err != nil {
		return nil, fmt.Errorf("insert member: %w", err)
	}
	return s.GetByID(id)
}

func (s *MemberStore) GetByID(id string) (*model.Member, error) {
	row := s.db.QueryRow(`SELECT `+memberCols+` FROM members WHERE id = ?`, id)
	m, err := scanMember(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query member: %w", err)
	}
	return m, nil
}

func (s *MemberStore) ListByFamily(familyID string) ([]model.Member, error) {
	rows, err := s.db.Query(
		`SELECT `+memberCols+` FROM members WHERE family_id = ? ORDER BY created_at`,
		familyID,
	)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	defer rows.Close()
	return collectMembers(rows)
}

// ListParents returns the family's members with the parent role.
func (s *MemberStore) ListParents(familyID string) ([]model.Member, error) {
	rows, err := s.db.Query(
		`SELECT `+memberCols+` FROM members WHERE family_id = ? AND role = ? ORDER BY created_at`,
		familyID, model.RoleParent,
	)
	if err != nil {
		return nil, fmt.Errorf("list parent members: %w", err)
	}
	defer rows.Close()
	return collectMembers(rows)
}

func (s *MemberStore) Delete(id string) error {
	_, err := s.db.Exec(`DELETE FROM members WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete member: %w", err)
	}
	return nil
}

// SetNotificationsEnabled flips the member's push opt-in flag.
func (s *MemberStore) SetNotificationsEnabled(id string, enabled bool) error {
	_, err := s.db.Exec(`UPDATE members SET notifications_enabled = ? WHERE id = ?`, enabled, id)
	if err != nil {
		return fmt.Errorf("set notifications enabled: %w", err)
	}
	return nil
}

func (s *MemberStore) SetPIN(id, hashedPIN string) error {
	_, err := s.db.Exec(`UPDATE members SET pin = ?, requires_pin = 1 WHERE id = ?`, hashedPIN, id)
	if err != nil {
		return fmt.Errorf("set pin: %w", err)
	}
	return nil
}

func (s *MemberStore) ClearPIN(id string) error {
	_, err := s.db.Exec(`UPDATE members SET pin = NULL, requires_pin = 0 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("clear pin: %w", err)
	}
	return nil
}

func (s *MemberStore) GetPINHash(id string) (string, error) {
	var pin sql.NullString
	err := s.db.QueryRow(`SELECT pin FROM members WHERE id = ?`, id).Scan(&pin)
	if err == sql.ErrNoRows {
		return "", fmt.Errorf("member not found")
	}
	if err != nil {
		return "", fmt.Errorf("query pin: %w", err)
	}
	if !pin.Valid {
		return "", nil
	}
	return pin.String, nil
}

func collectMembers(rows *sql.Rows) ([]model.Member, error) {
	var members []model.Member
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, fmt.Errorf("scan member: %w", err)
		}
		members = append(members, *m)
	}
	return members, rows.Err()
}
