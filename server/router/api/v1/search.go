package v1

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/classwise/classwise/server/internal/errors"
	"github.com/classwise/classwise/server/internal/observability"
	"github.com/classwise/classwise/server/searchengine"
)

type searchResult struct {
	ID              int32   `json:"id"`
	UID             string  `json:"uid"`
	Kind            string  `json:"kind"`
	Title           string  `json:"title"`
	Snippet         string  `json:"snippet,omitempty"`
	Score           float32 `json:"score"`
	ExactTitleMatch bool    `json:"exactTitleMatch"`
	UpdatedTs       int64   `json:"updatedTs"`
}

type searchResponse struct {
	Results []searchResult `json:"results"`
}

// Search runs hybrid search over the caller's documents. It always responds
// 200 with a result list; an anonymous caller gets an empty list and degraded
// backends shrink the list rather than failing the request.
func (s *APIV1Service) Search(c echo.Context) error {
	user := s.currentUser(c)
	if user == nil {
		// Unauthenticated search is a no-op, not an error.
		return c.JSON(http.StatusOK, searchResponse{Results: []searchResult{}})
	}

	kind := s.PlanKind
	switch c.QueryParam("kind") {
	case "", "plans":
	case "notes":
		kind = s.NoteKind
	default:
		return errorJSON(c, errors.InvalidArgument("kind must be plans or notes"))
	}

	scope := searchengine.Scope{OwnerID: user.ID}
	if id, ok := queryParamInt32(c, "classId"); ok {
		scope.ClassID = &id
	}
	if id, ok := queryParamInt32(c, "subjectId"); ok {
		scope.SubjectID = &id
	}
	if id, ok := queryParamInt32(c, "lessonPlanId"); ok {
		scope.LessonPlanID = &id
	}

	limit := 0
	if n, ok := queryParamInt32(c, "limit"); ok {
		limit = int(n)
	}

	reqCtx := observability.NewRequestContext(s.logger, "search", user.ID)
	ctx := observability.WithRequestContext(c.Request().Context(), reqCtx)

	results := s.Engine.Search(ctx, kind, c.QueryParam("q"), scope, limit)

	reqCtx.Info("search completed",
		slog.String("kind", kind.Name()),
		slog.Int("results", len(results)),
		slog.Int64(observability.LogFieldDuration, reqCtx.DurationMs()),
	)

	response := searchResponse{Results: make([]searchResult, 0, len(results))}
	for _, result := range results {
		response.Results = append(response.Results, searchResult{
			ID:              result.Document.ID,
			UID:             result.Document.UID,
			Kind:            kind.Name(),
			Title:           result.Document.Title,
			Snippet:         result.Document.Snippet,
			Score:           result.Score,
			ExactTitleMatch: result.ExactTitleMatch,
			UpdatedTs:       result.Document.UpdatedTs,
		})
	}
	return c.JSON(http.StatusOK, response)
}

func queryParamInt32(c echo.Context, name string) (int32, bool) {
	raw := c.QueryParam(name)
	if raw == "" {
		return 0, false
	}
	n, err := strconv.ParseInt(raw, 10, 32)
	if err != nil {
		return 0, false
	}
	return int32(n), true
}
