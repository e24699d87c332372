package repos

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"pflegebox/internal/domain"
)

// DraftRepo stores the configurator cart of each session.
type DraftRepo struct{ db *sqlx.DB }

func NewDraftRepo(db *sqlx.DB) *DraftRepo { return &DraftRepo{db: db} }

type Draft struct {
	ID        string           `db:"id"`
	CareGrade domain.CareGrade `db:"care_grade"`
	UpdatedAt sql.NullString   `db:"updated_at"`
	Lines     []domain.CartLine
}

// Load returns the draft for sessionID. A session without a draft yields an
// empty one; nothing is written.
func (r *DraftRepo) Load(ctx context.Context, sessionID string) (Draft, error) {
	d := Draft{ID: sessionID}
	err := r.db.GetContext(ctx, &d, `SELECT id, care_grade, updated_at FROM drafts WHERE id = ?`, sessionID)
	if errors.Is(err, sql.ErrNoRows) {
		return Draft{ID: sessionID, Lines: []domain.CartLine{}}, nil
	}
	if err != nil {
		return Draft{}, err
	}
	d.Lines = []domain.CartLine{}
	if err := r.db.SelectContext(ctx, &d.Lines, `
	  SELECT product_id, name, category, unit_price, quantity, size
	  FROM draft_lines
	  WHERE draft_id = ?
	  ORDER BY position
	`, sessionID); err != nil {
		return Draft{}, err
	}
	return d, nil
}

// Save replaces the stored draft with d.
func (r *DraftRepo) Save(ctx context.Context, d Draft) error {
	return InTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO drafts(id, care_grade, updated_at)
			VALUES (?, ?, `+nowExpr+`)
			ON CONFLICT(id) DO UPDATE SET care_grade = excluded.care_grade, updated_at = excluded.updated_at
		`, d.ID, string(d.CareGrade)); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM draft_lines WHERE draft_id = ?`, d.ID); err != nil {
			return err
		}
		for i, l := range d.Lines {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO draft_lines(draft_id, position, product_id, name, category, unit_price, quantity, size)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			`, d.ID, i, l.ProductID, l.Name, l.Category, l.UnitPrice, l.Quantity, l.Size); err != nil {
				return err
			}
		}
		return nil
	})
}

// PurgeBefore drops every draft last saved before cutoff, lines included,
// and reports how many went.
func (r *DraftRepo) PurgeBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM drafts WHERE updated_at IS NULL OR updated_at < ?`,
		cutoff.UTC().Format(timestampLayout))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Delete drops the draft and its lines.
func (r *DraftRepo) Delete(ctx context.Context, sessionID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM drafts WHERE id = ?`, sessionID)
	return err
}
