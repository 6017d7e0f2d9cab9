package store

import (
	"database/sql"
	"fmt"

	"github.com/dukerupert/chorezilla/internal/model"
	"github.com/google/uuid"
)

type AssignmentStore struct {
	db *sql.DB
}

func NewAssignmentStore(db *sql.DB) *AssignmentStore {
	return &AssignmentStore{db: db}
}

const assignmentCols = `id, family_id, chore_title, member_name, status, requires_approval, proof_photo_url, proof_note, created_at, updated_at`

func scanAssignment(scanner interface{ Scan(...any) error }) (*model.Assignment, error) {
	var a model.Assignment
	err := scanner.Scan(
		&a.ID, &a.FamilyID, &a.ChoreTitle, &a.MemberName, &a.Status,
		&a.RequiresApproval, &a.Proof.PhotoURL, &a.Proof.Note, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *AssignmentStore) Create(familyID, choreTitle, memberName, status string, requiresApproval bool) (*model.Assignment, error) {
	if status == "" {
		status = model.AssignmentStatusOpen
	}

	id := uuid.NewString()
	_, err := s.db.Exec(
		`INSERT INTO assignments (id, family_id, chore_title, member_name, status, requires_approval)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		id, familyID, choreTitle, memberName, status, requiresApproval,
	)
	if err != nil {
		return nil, fmt.Errorf("insert assignment: %w", err)
	}
	return s.GetByID(id)
}

func (s *AssignmentStore) GetByID(id string) (*model.Assignment, error) {
	row := s.db.QueryRow(`SELECT `+assignmentCols+` FROM assignments WHERE id = ?`, id)
	a, err := scanAssignment(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query assignment: %w", err)
	}
	return a, nil
}

func (s *AssignmentStore) ListByFamily(familyID string) ([]model.Assignment, error) {
	rows, err := s.db.Query(
		`SELECT `+assignmentCols+` FROM assignments WHERE family_id = ? ORDER BY created_at DESC`,
		familyID,
	)
	if err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}
	defer rows.Close()

	var assignments []model.Assignment
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan assignment: %w", err)
		}
		assignments = append(assignments, *a)
	}
	return assignments, rows.Err()
}

// UpdateStatus changes an assignment's status and returns the row as it
// was before and after the change, read inside the same transaction so
// the pair is a consistent snapshot. Both are nil when the row does not
// exist.
func (s *AssignmentStore) UpdateStatus(id, status string) (before, after *model.Assignment, err error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	row := tx.QueryRow(`SELECT `+assignmentCols+` FROM assignments WHERE id = ?`, id)
	before, err = scanAssignment(row)
	if err == sql.ErrNoRows {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("query assignment: %w", err)
	}

	_, err = tx.Exec(
		`UPDATE assignments SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		status, id,
	)
	if err != nil {
		return nil, nil, fmt.Errorf("update assignment status: %w", err)
	}

	row = tx.QueryRow(`SELECT `+assignmentCols+` FROM assignments WHERE id = ?`, id)
	after, err = scanAssignment(row)
	if err != nil {
		return nil, nil, fmt.Errorf("query updated assignment: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, fmt.Errorf("commit: %w", err)
	}
	return before, after, nil
}

// SetProof attaches submission proof. Empty arguments clear the
// corresponding field.
func (s *AssignmentStore) SetProof(id, photoURL, note string) (*model.Assignment, error) {
	_, err := s.db.Exec(
		`UPDATE assignments SET proof_photo_url = ?, proof_note = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		photoURL, note, id,
	)
	if err != nil {
		return nil, fmt.Errorf("set assignment proof: %w", err)
	}
	return s.GetByID(id)
}

func (s *AssignmentStore) Delete(id string) error {
	_, err := s.db.Exec(`DELETE FROM assignments WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete assignment: %w", err)
	}
	return nil
}
