package v1

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/lithammer/shortuuid/v4"

	"github.com/classwise/classwise/plugin/richtext"
	"github.com/classwise/classwise/server/internal/errors"
	"github.com/classwise/classwise/server/searchengine"
	"github.com/classwise/classwise/server/service/generator"
	"github.com/classwise/classwise/store"
)

type upsertLessonPlanRequest struct {
	ClassID   int32  `json:"classId"`
	SubjectID int32  `json:"subjectId"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	Archived  *bool  `json:"archived"`
}

type lessonPlanResponse struct {
	ID        int32  `json:"id"`
	UID       string `json:"uid"`
	ClassID   int32  `json:"classId"`
	SubjectID int32  `json:"subjectId"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	Archived  bool   `json:"archived"`
	CreatedTs int64  `json:"createdTs"`
	UpdatedTs int64  `json:"updatedTs"`
}

func convertLessonPlan(plan *store.LessonPlan) lessonPlanResponse {
	return lessonPlanResponse{
		ID:        plan.ID,
		UID:       plan.UID,
		ClassID:   plan.ClassID,
		SubjectID: plan.SubjectID,
		Title:     plan.Title,
		Content:   plan.Content,
		Archived:  plan.RowStatus == store.Archived,
		CreatedTs: plan.CreatedTs,
		UpdatedTs: plan.UpdatedTs,
	}
}

func validateRichtextContent(content string) error {
	if _, err := richtext.Parse(content); err != nil {
		return errors.InvalidArgument("content is not a valid document")
	}
	return nil
}

func (s *APIV1Service) CreateLessonPlan(c echo.Context) error {
	ctx := c.Request().Context()
	user := s.currentUser(c)
	req := &upsertLessonPlanRequest{}
	if err := c.Bind(req); err != nil {
		return errorJSON(c, errors.InvalidArgument("malformed request body"))
	}
	if strings.TrimSpace(req.Title) == "" {
		return errorJSON(c, errors.InvalidArgument("title is required"))
	}
	if err := validateRichtextContent(req.Content); err != nil {
		return errorJSON(c, err)
	}
	if err := s.checkPlanOwnership(c, user.ID, req.ClassID, req.SubjectID); err != nil {
		return errorJSON(c, err)
	}

	plan, err := s.Store.CreateLessonPlan(ctx, &store.LessonPlan{
		UID:       shortuuid.New(),
		CreatorID: user.ID,
		ClassID:   req.ClassID,
		SubjectID: req.SubjectID,
		Title:     req.Title,
		Content:   req.Content,
	})
	if err != nil {
		return errorJSON(c, err)
	}

	s.Indexer.OnMutate(store.DocumentKindLessonPlan, plan.ID)
	return c.JSON(http.StatusOK, convertLessonPlan(plan))
}

func (s *APIV1Service) ListLessonPlans(c echo.Context) error {
	ctx := c.Request().Context()
	user := s.currentUser(c)

	find := &store.FindLessonPlan{CreatorID: &user.ID}
	if id, ok := queryParamInt32(c, "classId"); ok {
		find.ClassID = &id
	}
	if id, ok := queryParamInt32(c, "subjectId"); ok {
		find.SubjectID = &id
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

	plans, err := s.Store.ListLessonPlans(ctx, find)
	if err != nil {
		return errorJSON(c, err)
	}
	response := make([]lessonPlanResponse, 0, len(plans))
	for _, plan := range plans {
		response = append(response, convertLessonPlan(plan))
	}
	return c.JSON(http.StatusOK, response)
}

func (s *APIV1Service) GetLessonPlan(c echo.Context) error {
	plan, err := s.findOwnedPlan(c)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, convertLessonPlan(plan))
}

func (s *APIV1Service) UpdateLessonPlan(c echo.Context) error {
	ctx := c.Request().Context()
	plan, err := s.findOwnedPlan(c)
	if err != nil {
		return errorJSON(c, err)
	}

	req := &upsertLessonPlanRequest{}
	if err := c.Bind(req); err != nil {
		return errorJSON(c, errors.InvalidArgument("malformed request body"))
	}

	update := &store.UpdateLessonPlan{ID: plan.ID}
	if req.Title != "" {
		update.Title = &req.Title
	}
	if req.Content != "" {
		if err := validateRichtextContent(req.Content); err != nil {
			return errorJSON(c, err)
		}
		update.Content = &req.Content
	}
	if req.ClassID != 0 {
		if err := s.checkPlanOwnership(c, plan.CreatorID, req.ClassID, 0); err != nil {
			return errorJSON(c, err)
		}
		update.ClassID = &req.ClassID
	}
	if req.SubjectID != 0 {
		if err := s.checkPlanOwnership(c, plan.CreatorID, 0, req.SubjectID); err != nil {
			return errorJSON(c, err)
		}
		update.SubjectID = &req.SubjectID
	}
	if req.Archived != nil {
		status := store.Normal
		if *req.Archived {
			status = store.Archived
		}
		update.RowStatus = &status
	}

	plan, err = s.Store.UpdateLessonPlan(ctx, update)
	if err != nil {
		return errorJSON(c, err)
	}

	s.Indexer.OnMutate(store.DocumentKindLessonPlan, plan.ID)
	return c.JSON(http.StatusOK, convertLessonPlan(plan))
}

func (s *APIV1Service) DeleteLessonPlan(c echo.Context) error {
	ctx := c.Request().Context()
	plan, err := s.findOwnedPlan(c)
	if err != nil {
		return errorJSON(c, err)
	}

	// Store-level delete removes the embedding row alongside the plan.
	if err := s.Store.DeleteLessonPlan(ctx, &store.DeleteLessonPlan{ID: plan.ID}); err != nil {
		return errorJSON(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

type generateLessonPlanRequest struct {
	Topic   string `json:"topic"`
	Grade   string `json:"grade"`
	Subject string `json:"subject"`
	Notes   string `json:"notes"`
}

type generateReference struct {
	ID    int32   `json:"id"`
	UID   string  `json:"uid"`
	Title string  `json:"title"`
	Score float32 `json:"score"`
}

type generateLessonPlanResponse struct {
	Content    string              `json:"content"`
	References []generateReference `json:"references"`
}

// GenerateLessonPlan drafts lesson plan content with the LLM, grounded in the
// caller's most related existing plans.
func (s *APIV1Service) GenerateLessonPlan(c echo.Context) error {
	user := s.currentUser(c)
	req := &generateLessonPlanRequest{}
	if err := c.Bind(req); err != nil {
		return errorJSON(c, errors.InvalidArgument("malformed request body"))
	}

	draft, err := s.Generator.GenerateLessonDraft(c.Request().Context(), &generator.Request{
		Topic:   req.Topic,
		Grade:   req.Grade,
		Subject: req.Subject,
		Notes:   req.Notes,
	}, searchengine.Scope{OwnerID: user.ID})
	if err != nil {
		return errorJSON(c, err)
	}

	response := generateLessonPlanResponse{
		Content:    draft.Content,
		References: make([]generateReference, 0, len(draft.References)),
	}
	for _, ref := range draft.References {
		response.References = append(response.References, generateReference{
			ID:    ref.Document.ID,
			UID:   ref.Document.UID,
			Title: ref.Document.Title,
			Score: ref.Score,
		})
	}
	return c.JSON(http.StatusOK, response)
}

func (s *APIV1Service) findOwnedPlan(c echo.Context) (*store.LessonPlan, error) {
	user := s.currentUser(c)
	uid := c.Param("uid")
	plan, err := s.Store.GetLessonPlan(c.Request().Context(), &store.FindLessonPlan{
		UID:       &uid,
		CreatorID: &user.ID,
	})
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, errors.NotFound("lesson plan not found")
	}
	return plan, nil
}

// checkPlanOwnership verifies the referenced class and subject belong to the
// user. Zero IDs are treated as "not set".
func (s *APIV1Service) checkPlanOwnership(c echo.Context, userID, classID, subjectID int32) error {
	ctx := c.Request().Context()
	if classID != 0 {
		class, err := s.Store.GetClass(ctx, &store.FindClass{ID: &classID, CreatorID: &userID})
		if err != nil {
			return err
		}
		if class == nil {
			return errors.InvalidArgument("class not found")
		}
	}
	if subjectID != 0 {
		subject, err := s.Store.GetSubject(ctx, &store.FindSubject{ID: &subjectID, CreatorID: &userID})
		if err != nil {
			return err
		}
		if subject == nil {
			return errors.InvalidArgument("subject not found")
		}
	}
	return nil
}
