package server

import (
	"context"
	"errors"

	"devnest/internal/middleware"
	"devnest/internal/models"

	"github.com/gofiber/fiber/v2"
)

// errResponseWritten is a sentinel indicating the HTTP response was already
// committed by a helper. Handlers must return nil (not this error) to avoid
// Fiber's ErrorHandler overwriting the response.
var errResponseWritten = errors.New("response already written")

// localUser caches the resolved account in Locals for the request's lifetime.
const localUser = "currentUser"

// currentUser resolves the authenticated caller's account from the external
// identity stored by the auth middleware. On failure it writes the error
// response and returns errResponseWritten; callers should `return nil`.
func (s *Server) currentUser(c *fiber.Ctx) (*models.User, error) {
	if u, ok := c.Locals(localUser).(*models.User); ok {
		return u, nil
	}

	externalID, ok := c.Locals(middleware.LocalExternalID).(string)
	if !ok || externalID == "" {
		_ = models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("Authorization required"))
		return nil, errResponseWritten
	}

	user, err := s.userRepo.GetByExternalID(c.Context(), externalID)
	if err != nil {
		_ = s.respondError(c, err)
		return nil, errResponseWritten
	}

	c.Locals(localUser, user)
	s.logAsUser(c, user.ID)
	return user, nil
}

// logAsUser tags the request context with the resolved account id so the
// context-aware logger carries it into deeper layers.
func (s *Server) logAsUser(c *fiber.Ctx, userID uint) {
	c.SetUserContext(context.WithValue(c.UserContext(), middleware.UserIDKey, userID))
}

// optionalViewerID resolves the caller's account id when a token was accepted
// by the optional auth middleware, and returns 0 for anonymous requests. An
// identity with no stored account degrades to anonymous rather than failing.
func (s *Server) optionalViewerID(c *fiber.Ctx) uint {
	externalID, ok := c.Locals(middleware.LocalExternalID).(string)
	if !ok || externalID == "" {
		return 0
	}
	user, err := s.userRepo.GetByExternalID(c.Context(), externalID)
	if err != nil {
		return 0
	}
	s.logAsUser(c, user.ID)
	return user.ID
}

// parseID extracts a route parameter by name as a positive uint.
// On failure it writes a 400 JSON response and returns errResponseWritten.
func (s *Server) parseID(c *fiber.Ctx, param string) (uint, error) {
	id, err := c.ParamsInt(param)
	if err != nil || id <= 0 {
		label := "ID"
		if param != "id" {
			label = param
		}
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid "+label))
		return 0, errResponseWritten
	}
	return uint(id), nil
}

// respondError maps an application error to its HTTP status and writes the
// standardized error body.
func (s *Server) respondError(c *fiber.Ctx, err error) error {
	var appErr *models.AppError
	if !errors.As(err, &appErr) {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	status := fiber.StatusInternalServerError
	switch appErr.Code {
	case "NOT_FOUND":
		status = fiber.StatusNotFound
	case "VALIDATION_ERROR":
		status = fiber.StatusBadRequest
	case "UNAUTHORIZED":
		status = fiber.StatusUnauthorized
	case "FORBIDDEN":
		status = fiber.StatusForbidden
	}
	return models.RespondWithError(c, status, appErr)
}
