package v1

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/lithammer/shortuuid/v4"

	"github.com/classwise/classwise/server/internal/errors"
	"github.com/classwise/classwise/store"
)

type upsertSubjectRequest struct {
	Name string `json:"name"`
}

type subjectResponse struct {
	ID        int32  `json:"id"`
	UID       string `json:"uid"`
	Name      string `json:"name"`
	CreatedTs int64  `json:"createdTs"`
	UpdatedTs int64  `json:"updatedTs"`
}

func convertSubject(subject *store.Subject) subjectResponse {
	return subjectResponse{
		ID:        subject.ID,
		UID:       subject.UID,
		Name:      subject.Name,
		CreatedTs: subject.CreatedTs,
		UpdatedTs: subject.UpdatedTs,
	}
}

func (s *APIV1Service) CreateSubject(c echo.Context) error {
	ctx := c.Request().Context()
	user := s.currentUser(c)
	req := &upsertSubjectRequest{}
	if err := c.Bind(req); err != nil {
		return errorJSON(c, errors.InvalidArgument("malformed request body"))
	}
	if strings.TrimSpace(req.Name) == "" {
		return errorJSON(c, errors.InvalidArgument("subject name is required"))
	}

	subject, err := s.Store.CreateSubject(ctx, &store.Subject{
		UID:       shortuuid.New(),
		CreatorID: user.ID,
		Name:      req.Name,
	})
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, convertSubject(subject))
}

func (s *APIV1Service) ListSubjects(c echo.Context) error {
	ctx := c.Request().Context()
	user := s.currentUser(c)

	subjects, err := s.Store.ListSubjects(ctx, &store.FindSubject{CreatorID: &user.ID})
	if err != nil {
		return errorJSON(c, err)
	}
	response := make([]subjectResponse, 0, len(subjects))
	for _, subject := range subjects {
		response = append(response, convertSubject(subject))
	}
	return c.JSON(http.StatusOK, response)
}

func (s *APIV1Service) UpdateSubject(c echo.Context) error {
	ctx := c.Request().Context()
	user := s.currentUser(c)
	uid := c.Param("uid")

	subject, err := s.Store.GetSubject(ctx, &store.FindSubject{UID: &uid, CreatorID: &user.ID})
	if err != nil {
		return errorJSON(c, err)
	}
	if subject == nil {
		return errorJSON(c, errors.NotFound("subject not found"))
	}

	req := &upsertSubjectRequest{}
	if err := c.Bind(req); err != nil {
		return errorJSON(c, errors.InvalidArgument("malformed request body"))
	}

	update := &store.UpdateSubject{ID: subject.ID}
	if req.Name != "" {
		update.Name = &req.Name
	}

	subject, err = s.Store.UpdateSubject(ctx, update)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, convertSubject(subject))
}

func (s *APIV1Service) DeleteSubject(c echo.Context) error {
	ctx := c.Request().Context()
	user := s.currentUser(c)
	uid := c.Param("uid")

	subject, err := s.Store.GetSubject(ctx, &store.FindSubject{UID: &uid, CreatorID: &user.ID})
	if err != nil {
		return errorJSON(c, err)
	}
	if subject == nil {
		return errorJSON(c, errors.NotFound("subject not found"))
	}

	if err := s.Store.DeleteSubject(ctx, &store.DeleteSubject{ID: subject.ID}); err != nil {
		return errorJSON(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
