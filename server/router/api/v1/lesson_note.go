package v1

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/lithammer/shortuuid/v4"

	"github.com/classwise/classwise/server/internal/errors"
	"github.com/classwise/classwise/store"
)

type upsertLessonNoteRequest struct {
	LessonPlanID int32  `json:"lessonPlanId"`
	Title        string `json:"title"`
	Content      string `json:"content"`
	Archived     *bool  `json:"archived"`
}

type lessonNoteResponse struct {
	ID           int32  `json:"id"`
	UID          string `json:"uid"`
	LessonPlanID int32  `json:"lessonPlanId"`
	Title        string `json:"title"`
	Content      string `json:"content"`
	Archived     bool   `json:"archived"`
	CreatedTs    int64  `json:"createdTs"`
	UpdatedTs    int64  `json:"updatedTs"`
}

func convertLessonNote(note *store.LessonNote) lessonNoteResponse {
	return lessonNoteResponse{
		ID:           note.ID,
		UID:          note.UID,
		LessonPlanID: note.LessonPlanID,
		Title:        note.Title,
		Content:      note.Content,
		Archived:     note.RowStatus == store.Archived,
		CreatedTs:    note.CreatedTs,
		UpdatedTs:    note.UpdatedTs,
	}
}

func (s *APIV1Service) CreateLessonNote(c echo.Context) error {
	ctx := c.Request().Context()
	user := s.currentUser(c)
	req := &upsertLessonNoteRequest{}
	if err := c.Bind(req); err != nil {
		return errorJSON(c, errors.InvalidArgument("malformed request body"))
	}
	if strings.TrimSpace(req.Title) == "" {
		return errorJSON(c, errors.InvalidArgument("title is required"))
	}
	if err := validateRichtextContent(req.Content); err != nil {
		return errorJSON(c, err)
	}

	// Notes must attach to one of the caller's plans.
	plan, err := s.Store.GetLessonPlan(ctx, &store.FindLessonPlan{
		ID:        &req.LessonPlanID,
		CreatorID: &user.ID,
	})
	if err != nil {
		return errorJSON(c, err)
	}
	if plan == nil {
		return errorJSON(c, errors.InvalidArgument("lesson plan not found"))
	}

	note, err := s.Store.CreateLessonNote(ctx, &store.LessonNote{
		UID:          shortuuid.New(),
		CreatorID:    user.ID,
		LessonPlanID: plan.ID,
		Title:        req.Title,
		Content:      req.Content,
	})
	if err != nil {
		return errorJSON(c, err)
	}

	s.Indexer.OnMutate(store.DocumentKindLessonNote, note.ID)
	return c.JSON(http.StatusOK, convertLessonNote(note))
}

func (s *APIV1Service) ListLessonNotes(c echo.Context) error {
	ctx := c.Request().Context()
	user := s.currentUser(c)

	find := &store.FindLessonNote{CreatorID: &user.ID}
	if id, ok := queryParamInt32(c, "lessonPlanId"); ok {
		find.LessonPlanID = &id
	}
	normal := store.Normal
	find.RowStatus = &normal
	if n, ok := queryParamInt32(c, "limit"); ok {
		limit := int(n)
		find.Limit = &limit
		if o, ok := queryParamInt32(c, "offset"); ok {
			offset := int(o)
			find.Offset = &offset
		}
	}

	notes, err := s.Store.ListLessonNotes(ctx, find)
	if err != nil {
		return errorJSON(c, err)
	}
	response := make([]lessonNoteResponse, 0, len(notes))
	for _, note := range notes {
		response = append(response, convertLessonNote(note))
	}
	return c.JSON(http.StatusOK, response)
}

func (s *APIV1Service) GetLessonNote(c echo.Context) error {
	note, err := s.findOwnedNote(c)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, convertLessonNote(note))
}

func (s *APIV1Service) UpdateLessonNote(c echo.Context) error {
	ctx := c.Request().Context()
	note, err := s.findOwnedNote(c)
	if err != nil {
		return errorJSON(c, err)
	}

	req := &upsertLessonNoteRequest{}
	if err := c.Bind(req); err != nil {
		return errorJSON(c, errors.InvalidArgument("malformed request body"))
	}

	update := &store.UpdateLessonNote{ID: note.ID}
	if req.Title != "" {
		update.Title = &req.Title
	}
	if req.Content != "" {
		if err := validateRichtextContent(req.Content); err != nil {
			return errorJSON(c, err)
		}
		update.Content = &req.Content
	}
	if req.Archived != nil {
		status := store.Normal
		if *req.Archived {
			status = store.Archived
		}
		update.RowStatus = &status
	}

	note, err = s.Store.UpdateLessonNote(ctx, update)
	if err != nil {
		return errorJSON(c, err)
	}

	s.Indexer.OnMutate(store.DocumentKindLessonNote, note.ID)
	return c.JSON(http.StatusOK, convertLessonNote(note))
}

func (s *APIV1Service) DeleteLessonNote(c echo.Context) error {
	ctx := c.Request().Context()
	note, err := s.findOwnedNote(c)
	if err != nil {
		return errorJSON(c, err)
	}

	// Store-level delete removes the embedding row alongside the note.
	if err := s.Store.DeleteLessonNote(ctx, &store.DeleteLessonNote{ID: note.ID}); err != nil {
		return errorJSON(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *APIV1Service) findOwnedNote(c echo.Context) (*store.LessonNote, error) {
	user := s.currentUser(c)
	uid := c.Param("uid")
	note, err := s.Store.GetLessonNote(c.Request().Context(), &store.FindLessonNote{
		UID:       &uid,
		CreatorID: &user.ID,
	})
	if err != nil {
		return nil, err
	}
	if note == nil {
		return nil, errors.NotFound("lesson note not found")
	}
	return note, nil
}
