package v1

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/lithammer/shortuuid/v4"

	"github.com/classwise/classwise/server/internal/errors"
	"github.com/classwise/classwise/store"
)

type upsertClassRequest struct {
	Name  string `json:"name"`
	Grade string `json:"grade"`
}

type classResponse struct {
	ID        int32  `json:"id"`
	UID       string `json:"uid"`
	Name      string `json:"name"`
	Grade     string `json:"grade"`
	CreatedTs int64  `json:"createdTs"`
	UpdatedTs int64  `json:"updatedTs"`
}

func convertClass(class *store.Class) classResponse {
	return classResponse{
		ID:        class.ID,
		UID:       class.UID,
		Name:      class.Name,
		Grade:     class.Grade,
		CreatedTs: class.CreatedTs,
		UpdatedTs: class.UpdatedTs,
	}
}

func (s *APIV1Service) CreateClass(c echo.Context) error {
	ctx := c.Request().Context()
	user := s.currentUser(c)
	req := &upsertClassRequest{}
	if err := c.Bind(req); err != nil {
		return errorJSON(c, errors.InvalidArgument("malformed request body"))
	}
	if strings.TrimSpace(req.Name) == "" {
		return errorJSON(c, errors.InvalidArgument("class name is required"))
	}

	class, err := s.Store.CreateClass(ctx, &store.Class{
		UID:       shortuuid.New(),
		CreatorID: user.ID,
		Name:      req.Name,
		Grade:     req.Grade,
	})
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, convertClass(class))
}

func (s *APIV1Service) ListClasses(c echo.Context) error {
	ctx := c.Request().Context()
	user := s.currentUser(c)

	classes, err := s.Store.ListClasses(ctx, &store.FindClass{CreatorID: &user.ID})
	if err != nil {
		return errorJSON(c, err)
	}
	response := make([]classResponse, 0, len(classes))
	for _, class := range classes {
		response = append(response, convertClass(class))
	}
	return c.JSON(http.StatusOK, response)
}

func (s *APIV1Service) UpdateClass(c echo.Context) error {
	ctx := c.Request().Context()
	user := s.currentUser(c)
	uid := c.Param("uid")

	class, err := s.Store.GetClass(ctx, &store.FindClass{UID: &uid, CreatorID: &user.ID})
	if err != nil {
		return errorJSON(c, err)
	}
	if class == nil {
		return errorJSON(c, errors.NotFound("class not found"))
	}

	req := &upsertClassRequest{}
	if err := c.Bind(req); err != nil {
		return errorJSON(c, errors.InvalidArgument("malformed request body"))
	}

	update := &store.UpdateClass{ID: class.ID}
	if req.Name != "" {
		update.Name = &req.Name
	}
	if req.Grade != "" {
		update.Grade = &req.Grade
	}

	class, err = s.Store.UpdateClass(ctx, update)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, convertClass(class))
}

func (s *APIV1Service) DeleteClass(c echo.Context) error {
	ctx := c.Request().Context()
	user := s.currentUser(c)
	uid := c.Param("uid")

	class, err := s.Store.GetClass(ctx, &store.FindClass{UID: &uid, CreatorID: &user.ID})
	if err != nil {
		return errorJSON(c, err)
	}
	if class == nil {
		return errorJSON(c, errors.NotFound("class not found"))
	}

	if err := s.Store.DeleteClass(ctx, &store.DeleteClass{ID: class.ID}); err != nil {
		return errorJSON(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
