package store

import (
	"crypto/rand"
	"database/sql"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/dukerupert/chorezilla/internal/model"
	"github.com/google/uuid"
)

// Invite codes avoid visually confusable characters (no I, O, 0, 1).
const (
	codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	codeLength   = 8
)

var (
	// ErrCodeTaken means the generated code already exists; the caller
	// should generate a fresh code and try again.
	ErrCodeTaken = errors.New("invite code already exists")
	// ErrInviteNotFound means no invite exists for the code.
	ErrInviteNotFound = errors.New("invite not found")
	// ErrInviteExpired means the invite exists but its expiry has passed.
	ErrInviteExpired = errors.New("invite expired")
	// ErrFamilyNotFound means the invite points at a family that no longer
	// exists (dangling invite).
	ErrFamilyNotFound = errors.New("family not found")
)

type InviteStore struct {
	db *sql.DB
}

func NewInviteStore(db *sql.DB) *InviteStore {
	return &InviteStore{db: db}
}

// GenerateCode returns a random 8-character invite code. Uniqueness is
// enforced by the allocation transaction, not by the generator.
func GenerateCode() (string, error) {
	buf := make([]byte, codeLength)
	for i := range buf {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(codeAlphabet))))
		if err != nil {
			return "", fmt.Errorf("generate code: %w", err)
		}
		buf[i] = codeAlphabet[n.Int64()]
	}
	return string(buf), nil
}

// parseExpiry reads a stored expiry string. Malformed values decode as the
// zero time, so a corrupt invite reads as expired rather than as valid.
func parseExpiry(raw string) time.Time {
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}
	}
	return t
}

// Create claims the code inside one transaction: read the code slot, fail
// with ErrCodeTaken if occupied, otherwise insert the invite row. A single
// row backs both the global (code) and family-scoped (family_id) lookups,
// so the two views are created together or not at all.
func (s *InviteStore) Create(code, familyID, createdBy string, expiresAt time.Time) (*model.Invite, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var existing string
	err = tx.QueryRow(`SELECT code FROM invites WHERE code = ?`, code).Scan(&existing)
	if err == nil {
		return nil, ErrCodeTaken
	}
	if err != sql.ErrNoRows {
		return nil, fmt.Errorf("check code: %w", err)
	}

	_, err = tx.Exec(
		`INSERT INTO invites (code, family_id, created_by, expires_at) VALUES (?, ?, ?, ?)`,
		code, familyID, createdBy, expiresAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return nil, fmt.Errorf("insert invite: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit invite: %w", err)
	}

	return s.GetByCode(code)
}

// GetByCode looks an invite up by its code (the global projection).
func (s *InviteStore) GetByCode(code string) (*model.Invite, error) {
	row := s.db.QueryRow(
		`SELECT code, family_id, created_by, expires_at, created_at FROM invites WHERE code = ?`,
		code,
	)
	inv, err := scanInvite(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get invite: %w", err)
	}
	return inv, nil
}

// ListByFamily returns a family's outstanding invites (the family-scoped
// projection).
func (s *InviteStore) ListByFamily(familyID string) ([]model.Invite, error) {
	rows, err := s.db.Query(
		`SELECT code, family_id, created_by, expires_at, created_at FROM invites WHERE family_id = ? ORDER BY created_at DESC`,
		familyID,
	)
	if err != nil {
		return nil, fmt.Errorf("list invites: %w", err)
	}
	defer rows.Close()

	var invites []model.Invite
	for rows.Next() {
		inv, err := scanInvite(rows)
		if err != nil {
			return nil, fmt.Errorf("scan invite: %w", err)
		}
		invites = append(invites, *inv)
	}
	return invites, rows.Err()
}

// Redeem performs the whole single-use redemption in one transaction:
// load the invite, check expiry (fail-closed on a corrupt value), load the
// family, merge-upsert the caller's user profile, add the caller to the
// family's parent set, insert a member row for them, and delete the invite.
// Either everything commits or nothing does.
func (s *InviteStore) Redeem(code, userID, displayName string, now time.Time) (string, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return "", fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var familyID, rawExpiry string
	err = tx.QueryRow(`SELECT family_id, expires_at FROM invites WHERE code = ?`, code).Scan(&familyID, &rawExpiry)
	if err == sql.ErrNoRows {
		return "", ErrInviteNotFound
	}
	if err != nil {
		return "", fmt.Errorf("load invite: %w", err)
	}

	if parseExpiry(rawExpiry).Before(now) {
		return "", ErrInviteExpired
	}

	var famID string
	err = tx.QueryRow(`SELECT id FROM families WHERE id = ?`, familyID).Scan(&famID)
	if err == sql.ErrNoRows {
		return "", ErrFamilyNotFound
	}
	if err != nil {
		return "", fmt.Errorf("load family: %w", err)
	}

	// Merge semantics: columns not named in the update keep their values.
	_, err = tx.Exec(
		`INSERT INTO users (id, display_name, role, family_id) VALUES (?, ?, 'parent', ?)
		 ON CONFLICT(id) DO UPDATE SET
		   display_name = excluded.display_name,
		   role = excluded.role,
		   family_id = excluded.family_id,
		   updated_at = CURRENT_TIMESTAMP`,
		userID, displayName, familyID,
	)
	if err != nil {
		return "", fmt.Errorf("upsert user: %w", err)
	}

	_, err = tx.Exec(
		`INSERT INTO family_parents (family_id, user_id) VALUES (?, ?)
		 ON CONFLICT(family_id, user_id) DO NOTHING`,
		familyID, userID,
	)
	if err != nil {
		return "", fmt.Errorf("add parent: %w", err)
	}

	_, err = tx.Exec(
		`INSERT INTO members (id, family_id, name, role, avatar_emoji, uses_this_device, requires_pin)
		 VALUES (?, ?, ?, 'parent', '🦄', 1, 0)`,
		uuid.NewString(), familyID, displayName,
	)
	if err != nil {
		return "", fmt.Errorf("insert member: %w", err)
	}

	if _, err := tx.Exec(`DELETE FROM invites WHERE code = ?`, code); err != nil {
		return "", fmt.Errorf("delete invite: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit redeem: %w", err)
	}
	return familyID, nil
}

func scanInvite(scanner interface{ Scan(...any) error }) (*model.Invite, error) {
	var inv model.Invite
	var rawExpiry string
	if err := scanner.Scan(&inv.Code, &inv.FamilyID, &inv.CreatedBy, &rawExpiry, &inv.CreatedAt); err != nil {
		return nil, err
	}
	inv.ExpiresAt = parseExpiry(rawExpiry)
	return &inv, nil
}
