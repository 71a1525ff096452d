package postgres

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/classwise/classwise/store"
)

func (d *DB) CreateClass(ctx context.Context, create *store.Class) (*store.Class, error) {
	now := time.Now().Unix()
	stmt := `
		INSERT INTO class (uid, creator_id, name, grade, created_ts, updated_ts)
		VALUES (` + placeholders(6) + `)
		RETURNING id, row_status, created_ts, updated_ts
	`
	if err := d.db.QueryRowContext(ctx, stmt,
		create.UID,
		create.CreatorID,
		create.Name,
		create.Grade,
		now,
		now,
	).Scan(&create.ID, &create.RowStatus, &create.CreatedTs, &create.UpdatedTs); err != nil {
		return nil, errors.Wrap(err, "failed to create class")
	}
	return create, nil
}

func (d *DB) ListClasses(ctx context.Context, find *store.FindClass) ([]*store.Class, error) {
	where, args := []string{"1 = 1"}, []any{}
	if find.ID != nil {
		where, args = append(where, "id = "+placeholder(len(args)+1)), append(args, *find.ID)
	}
	if find.UID != nil {
		where, args = append(where, "uid = "+placeholder(len(args)+1)), append(args, *find.UID)
	}
	if find.CreatorID != nil {
		where, args = append(where, "creator_id = "+placeholder(len(args)+1)), append(args, *find.CreatorID)
	}

	query := `
		SELECT id, uid, creator_id, name, grade, row_status, created_ts, updated_ts
		FROM class
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY created_ts DESC
	`
	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list classes")
	}
	defer rows.Close()

	list := []*store.Class{}
	for rows.Next() {
		var class store.Class
		if err := rows.Scan(
			&class.ID,
			&class.UID,
			&class.CreatorID,
			&class.Name,
			&class.Grade,
			&class.RowStatus,
			&class.CreatedTs,
			&class.UpdatedTs,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan class")
		}
		list = append(list, &class)
	}
	return list, rows.Err()
}

func (d *DB) UpdateClass(ctx context.Context, update *store.UpdateClass) (*store.Class, error) {
	set, args := []string{}, []any{}
	if update.Name != nil {
		set, args = append(set, "name = "+placeholder(len(args)+1)), append(args, *update.Name)
	}
	if update.Grade != nil {
		set, args = append(set, "grade = "+placeholder(len(args)+1)), append(args, *update.Grade)
	}
	if update.RowStatus != nil {
		set, args = append(set, "row_status = "+placeholder(len(args)+1)), append(args, update.RowStatus.String())
	}
	set, args = append(set, "updated_ts = "+placeholder(len(args)+1)), append(args, time.Now().Unix())
	args = append(args, update.ID)

	stmt := `
		UPDATE class
		SET ` + strings.Join(set, ", ") + `
		WHERE id = ` + placeholder(len(args)) + `
		RETURNING id, uid, creator_id, name, grade, row_status, created_ts, updated_ts
	`
	class := &store.Class{}
	if err := d.db.QueryRowContext(ctx, stmt, args...).Scan(
		&class.ID,
		&class.UID,
		&class.CreatorID,
		&class.Name,
		&class.Grade,
		&class.RowStatus,
		&class.CreatedTs,
		&class.UpdatedTs,
	); err != nil {
		return nil, errors.Wrap(err, "failed to update class")
	}
	return class, nil
}

func (d *DB) DeleteClass(ctx context.Context, delete *store.DeleteClass) error {
	if _, err := d.db.ExecContext(ctx, `DELETE FROM class WHERE id = `+placeholder(1), delete.ID); err != nil {
		return errors.Wrap(err, "failed to delete class")
	}
	return nil
}
