package sqlite

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/classwise/classwise/store"
)

func (d *DB) CreateSubject(ctx context.Context, create *store.Subject) (*store.Subject, error) {
	now := time.Now().Unix()
	stmt := `
		INSERT INTO subject (uid, creator_id, name, created_ts, updated_ts)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id, row_status, created_ts, updated_ts
	`
	if err := d.db.QueryRowContext(ctx, stmt,
		create.UID,
		create.CreatorID,
		create.Name,
		now,
		now,
	).Scan(&create.ID, &create.RowStatus, &create.CreatedTs, &create.UpdatedTs); err != nil {
		return nil, errors.Wrap(err, "failed to create subject")
	}
	return create, nil
}

func (d *DB) ListSubjects(ctx context.Context, find *store.FindSubject) ([]*store.Subject, error) {
	where, args := []string{"1 = 1"}, []any{}
	if find.ID != nil {
		where, args = append(where, "id = ?"), append(args, *find.ID)
	}
	if find.UID != nil {
		where, args = append(where, "uid = ?"), append(args, *find.UID)
	}
	if find.CreatorID != nil {
		where, args = append(where, "creator_id = ?"), append(args, *find.CreatorID)
	}

	query := `
		SELECT id, uid, creator_id, name, row_status, created_ts, updated_ts
		FROM subject
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY created_ts DESC
	`
	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list subjects")
	}
	defer rows.Close()

	list := []*store.Subject{}
	for rows.Next() {
		var subject store.Subject
		if err := rows.Scan(
			&subject.ID,
			&subject.UID,
			&subject.CreatorID,
			&subject.Name,
			&subject.RowStatus,
			&subject.CreatedTs,
			&subject.UpdatedTs,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan subject")
		}
		list = append(list, &subject)
	}
	return list, rows.Err()
}

func (d *DB) UpdateSubject(ctx context.Context, update *store.UpdateSubject) (*store.Subject, error) {
	set, args := []string{}, []any{}
	if update.Name != nil {
		set, args = append(set, "name = ?"), append(args, *update.Name)
	}
	if update.RowStatus != nil {
		set, args = append(set, "row_status = ?"), append(args, update.RowStatus.String())
	}
	set, args = append(set, "updated_ts = ?"), append(args, time.Now().Unix())
	args = append(args, update.ID)

	stmt := `
		UPDATE subject
		SET ` + strings.Join(set, ", ") + `
		WHERE id = ?
		RETURNING id, uid, creator_id, name, row_status, created_ts, updated_ts
	`
	subject := &store.Subject{}
	if err := d.db.QueryRowContext(ctx, stmt, args...).Scan(
		&subject.ID,
		&subject.UID,
		&subject.CreatorID,
		&subject.Name,
		&subject.RowStatus,
		&subject.CreatedTs,
		&subject.UpdatedTs,
	); err != nil {
		return nil, errors.Wrap(err, "failed to update subject")
	}
	return subject, nil
}

func (d *DB) DeleteSubject(ctx context.Context, delete *store.DeleteSubject) error {
	if _, err := d.db.ExecContext(ctx, `DELETE FROM subject WHERE id = ?`, delete.ID); err != nil {
		return errors.Wrap(err, "failed to delete subject")
	}
	return nil
}
