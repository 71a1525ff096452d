package v1

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/classwise/classwise/server/internal/errors"
	"github.com/classwise/classwise/store"
)

type signUpRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Nickname string `json:"nickname"`
}

type signInRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type userResponse struct {
	ID        int32  `json:"id"`
	Username  string `json:"username"`
	Nickname  string `json:"nickname"`
	CreatedTs int64  `json:"createdTs"`
}

type authResponse struct {
	User        userResponse `json:"user"`
	AccessToken string       `json:"accessToken"`
}

func convertUser(user *store.User) userResponse {
	return userResponse{
		ID:        user.ID,
		Username:  user.Username,
		Nickname:  user.Nickname,
		CreatedTs: user.CreatedTs,
	}
}

// SignUp creates a new account and returns its bearer token.
func (s *APIV1Service) SignUp(c echo.Context) error {
	ctx := c.Request().Context()
	req := &signUpRequest{}
	if err := c.Bind(req); err != nil {
		return errorJSON(c, errors.InvalidArgument("malformed request body"))
	}
	req.Username = strings.TrimSpace(strings.ToLower(req.Username))
	if req.Username == "" || len(req.Password) < 6 {
		return errorJSON(c, errors.InvalidArgument("username and a password of at least 6 characters are required"))
	}

	existing, err := s.Store.GetUser(ctx, &store.FindUser{Username: &req.Username})
	if err != nil {
		return errorJSON(c, err)
	}
	if existing != nil {
		return errorJSON(c, errors.InvalidArgument("username is already taken"))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return errorJSON(c, err)
	}

	user, err := s.Store.CreateUser(ctx, &store.User{
		Username:     req.Username,
		Nickname:     req.Nickname,
		PasswordHash: string(hash),
		AccessToken:  uuid.NewString(),
	})
	if err != nil {
		return errorJSON(c, err)
	}

	return c.JSON(http.StatusOK, authResponse{
		User:        convertUser(user),
		AccessToken: user.AccessToken,
	})
}

// SignIn verifies credentials and rotates the account's bearer token.
func (s *APIV1Service) SignIn(c echo.Context) error {
	ctx := c.Request().Context()
	req := &signInRequest{}
	if err := c.Bind(req); err != nil {
		return errorJSON(c, errors.InvalidArgument("malformed request body"))
	}
	req.Username = strings.TrimSpace(strings.ToLower(req.Username))

	user, err := s.Store.GetUser(ctx, &store.FindUser{Username: &req.Username})
	if err != nil {
		return errorJSON(c, err)
	}
	if user == nil || bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return errorJSON(c, errors.Unauthorized("invalid username or password"))
	}

	token := uuid.NewString()
	user, err = s.Store.UpdateUser(ctx, &store.UpdateUser{
		ID:          user.ID,
		AccessToken: &token,
	})
	if err != nil {
		return errorJSON(c, err)
	}

	return c.JSON(http.StatusOK, authResponse{
		User:        convertUser(user),
		AccessToken: token,
	})
}

// Me returns the authenticated user.
func (s *APIV1Service) Me(c echo.Context) error {
	user := s.currentUser(c)
	if user == nil {
		return errorJSON(c, errors.Unauthorized("authentication required"))
	}
	return c.JSON(http.StatusOK, convertUser(user))
}

// AuthMiddleware resolves the bearer token to a user and stores it on the
// request context. Requests without a valid token are rejected.
func (s *APIV1Service) AuthMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token := extractBearerToken(c.Request().Header.Get("Authorization"))
		if token == "" {
			return errorJSON(c, errors.Unauthorized("missing access token"))
		}

		user, err := s.Store.GetUser(c.Request().Context(), &store.FindUser{AccessToken: &token})
		if err != nil {
			return errorJSON(c, err)
		}
		if user == nil || user.RowStatus != store.Normal {
			return errorJSON(c, errors.Unauthorized("invalid access token"))
		}

		c.Set(userContextKey, user)
		return next(c)
	}
}

// OptionalAuthMiddleware resolves the bearer token to a user when a valid one
// is presented and otherwise lets the request through anonymously. Handlers
// behind it decide how to treat a missing caller.
func (s *APIV1Service) OptionalAuthMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token := extractBearerToken(c.Request().Header.Get("Authorization"))
		if token != "" {
			user, err := s.Store.GetUser(c.Request().Context(), &store.FindUser{AccessToken: &token})
			if err == nil && user != nil && user.RowStatus == store.Normal {
				c.Set(userContextKey, user)
			}
		}
		return next(c)
	}
}

func extractBearerToken(header string) string {
	const prefix = "bearer "
	if len(header) > len(prefix) && strings.EqualFold(header[:len(prefix)], prefix) {
		return strings.TrimSpace(header[len(prefix):])
	}
	return ""
}
