package sqlite

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/classwise/classwise/store"
)

func (d *DB) CreateLessonPlan(ctx context.Context, create *store.LessonPlan) (*store.LessonPlan, error) {
	now := time.Now().Unix()
	stmt := `
		INSERT INTO lesson_plan (uid, creator_id, class_id, subject_id, title, content, created_ts, updated_ts)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id, row_status, created_ts, updated_ts
	`
	if err := d.db.QueryRowContext(ctx, stmt,
		create.UID,
		create.CreatorID,
		create.ClassID,
		create.SubjectID,
		create.Title,
		create.Content,
		now,
		now,
	).Scan(&create.ID, &create.RowStatus, &create.CreatedTs, &create.UpdatedTs); err != nil {
		return nil, errors.Wrap(err, "failed to create lesson plan")
	}
	return create, nil
}

func (d *DB) ListLessonPlans(ctx context.Context, find *store.FindLessonPlan) ([]*store.LessonPlan, error) {
	where, args := []string{"1 = 1"}, []any{}
	if find.ID != nil {
		where, args = append(where, "id = ?"), append(args, *find.ID)
	}
	if len(find.IDList) > 0 {
		list := []string{}
		for _, id := range find.IDList {
			list, args = append(list, "?"), append(args, id)
		}
		where = append(where, "id IN ("+strings.Join(list, ", ")+")")
	}
	if find.UID != nil {
		where, args = append(where, "uid = ?"), append(args, *find.UID)
	}
	if find.CreatorID != nil {
		where, args = append(where, "creator_id = ?"), append(args, *find.CreatorID)
	}
	if find.ClassID != nil {
		where, args = append(where, "class_id = ?"), append(args, *find.ClassID)
	}
	if find.SubjectID != nil {
		where, args = append(where, "subject_id = ?"), append(args, *find.SubjectID)
	}
	if find.RowStatus != nil {
		where, args = append(where, "row_status = ?"), append(args, find.RowStatus.String())
	}

	query := `
		SELECT id, uid, creator_id, class_id, subject_id, title, content, row_status, created_ts, updated_ts
		FROM lesson_plan
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
		return nil, errors.Wrap(err, "failed to list lesson plans")
	}
	defer rows.Close()

	list := []*store.LessonPlan{}
	for rows.Next() {
		var plan store.LessonPlan
		if err := rows.Scan(
			&plan.ID,
			&plan.UID,
			&plan.CreatorID,
			&plan.ClassID,
			&plan.SubjectID,
			&plan.Title,
			&plan.Content,
			&plan.RowStatus,
			&plan.CreatedTs,
			&plan.UpdatedTs,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan lesson plan")
		}
		list = append(list, &plan)
	}
	return list, rows.Err()
}

func (d *DB) UpdateLessonPlan(ctx context.Context, update *store.UpdateLessonPlan) (*store.LessonPlan, error) {
	set, args := []string{}, []any{}
	if update.ClassID != nil {
		set, args = append(set, "class_id = ?"), append(args, *update.ClassID)
	}
	if update.SubjectID != nil {
		set, args = append(set, "subject_id = ?"), append(args, *update.SubjectID)
	}
	if update.Title != nil {
		set, args = append(set, "title = ?"), append(args, *update.Title)
	}
	if update.Content != nil {
		set, args = append(set, "content = ?"), append(args, *update.Content)
	}
	if update.RowStatus != nil {
		set, args = append(set, "row_status = ?"), append(args, update.RowStatus.String())
	}
	set, args = append(set, "updated_ts = ?"), append(args, time.Now().Unix())
	args = append(args, update.ID)

	stmt := `
		UPDATE lesson_plan
		SET ` + strings.Join(set, ", ") + `
		WHERE id = ?
		RETURNING id, uid, creator_id, class_id, subject_id, title, content, row_status, created_ts, updated_ts
	`
	plan := &store.LessonPlan{}
	if err := d.db.QueryRowContext(ctx, stmt, args...).Scan(
		&plan.ID,
		&plan.UID,
		&plan.CreatorID,
		&plan.ClassID,
		&plan.SubjectID,
		&plan.Title,
		&plan.Content,
		&plan.RowStatus,
		&plan.CreatedTs,
		&plan.UpdatedTs,
	); err != nil {
		return nil, errors.Wrap(err, "failed to update lesson plan")
	}
	return plan, nil
}

func (d *DB) DeleteLessonPlan(ctx context.Context, delete *store.DeleteLessonPlan) error {
	if _, err := d.db.ExecContext(ctx, `DELETE FROM lesson_plan WHERE id = ?`, delete.ID); err != nil {
		return errors.Wrap(err, "failed to delete lesson plan")
	}
	return nil
}
