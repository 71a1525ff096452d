package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/classwise/classwise/store"
)

func (d *DB) CreateLessonNote(ctx context.Context, create *store.LessonNote) (*store.LessonNote, error) {
	now := time.Now().Unix()
	stmt := `
		INSERT INTO lesson_note (uid, creator_id, lesson_plan_id, title, content, created_ts, updated_ts)
		VALUES (` + placeholders(7) + `)
		RETURNING id, row_status, created_ts, updated_ts
	`
	if err := d.db.QueryRowContext(ctx, stmt,
		create.UID,
		create.CreatorID,
		create.LessonPlanID,
		create.Title,
		create.Content,
		now,
		now,
	).Scan(&create.ID, &create.RowStatus, &create.CreatedTs, &create.UpdatedTs); err != nil {
		return nil, errors.Wrap(err, "failed to create lesson note")
	}
	return create, nil
}

func (d *DB) ListLessonNotes(ctx context.Context, find *store.FindLessonNote) ([]*store.LessonNote, error) {
	where, args := []string{"1 = 1"}, []any{}
	if find.ID != nil {
		where, args = append(where, "id = "+placeholder(len(args)+1)), append(args, *find.ID)
	}
	if len(find.IDList) > 0 {
		where, args = append(where, "id = ANY("+placeholder(len(args)+1)+")"), append(args, pq.Array(find.IDList))
	}
	if find.UID != nil {
		where, args = append(where, "uid = "+placeholder(len(args)+1)), append(args, *find.UID)
	}
	if find.CreatorID != nil {
		where, args = append(where, "creator_id = "+placeholder(len(args)+1)), append(args, *find.CreatorID)
	}
	if find.LessonPlanID != nil {
		where, args = append(where, "lesson_plan_id = "+placeholder(len(args)+1)), append(args, *find.LessonPlanID)
	}
	if find.RowStatus != nil {
		where, args = append(where, "row_status = "+placeholder(len(args)+1)), append(args, find.RowStatus.String())
	}

	query := `
		SELECT id, uid, creator_id, lesson_plan_id, title, content, row_status, created_ts, updated_ts
		FROM lesson_note
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY updated_ts DESC
	`
	if find.Limit != nil {
		query += fmt.Sprintf(" LIMIT %d", *find.Limit)
		if find.Offset != nil {
			query += fmt.Sprintf(" OFFSET %d", *find.Offset)
		}
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list lesson notes")
	}
	defer rows.Close()

	list := []*store.LessonNote{}
	for rows.Next() {
		var note store.LessonNote
		if err := rows.Scan(
			&note.ID,
			&note.UID,
			&note.CreatorID,
			&note.LessonPlanID,
			&note.Title,
			&note.Content,
			&note.RowStatus,
			&note.CreatedTs,
			&note.UpdatedTs,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan lesson note")
		}
		list = append(list, &note)
	}
	return list, rows.Err()
}

func (d *DB) UpdateLessonNote(ctx context.Context, update *store.UpdateLessonNote) (*store.LessonNote, error) {
	set, args := []string{}, []any{}
	if update.Title != nil {
		set, args = append(set, "title = "+placeholder(len(args)+1)), append(args, *update.Title)
	}
	if update.Content != nil {
		set, args = append(set, "content = "+placeholder(len(args)+1)), append(args, *update.Content)
	}
	if update.RowStatus != nil {
		set, args = append(set, "row_status = "+placeholder(len(args)+1)), append(args, update.RowStatus.String())
	}
	set, args = append(set, "updated_ts = "+placeholder(len(args)+1)), append(args, time.Now().Unix())
	args = append(args, update.ID)

	stmt := `
		UPDATE lesson_note
		SET ` + strings.Join(set, ", ") + `
		WHERE id = ` + placeholder(len(args)) + `
		RETURNING id, uid, creator_id, lesson_plan_id, title, content, row_status, created_ts, updated_ts
	`
	note := &store.LessonNote{}
	if err := d.db.QueryRowContext(ctx, stmt, args...).Scan(
		&note.ID,
		&note.UID,
		&note.CreatorID,
		&note.LessonPlanID,
		&note.Title,
		&note.Content,
		&note.RowStatus,
		&note.CreatedTs,
		&note.UpdatedTs,
	); err != nil {
		return nil, errors.Wrap(err, "failed to update lesson note")
	}
	return note, nil
}

func (d *DB) DeleteLessonNote(ctx context.Context, delete *store.DeleteLessonNote) error {
	if _, err := d.db.ExecContext(ctx, `DELETE FROM lesson_note WHERE id = `+placeholder(1), delete.ID); err != nil {
		return errors.Wrap(err, "failed to delete lesson note")
	}
	return nil
}
