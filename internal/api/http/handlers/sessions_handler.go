package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/servicedesk/internal/api/dto"
	"github.com/spec-kit/servicedesk/internal/service"
)

// SessionsHandler exposes login.
type SessionsHandler struct {
	sessions *service.SessionService
}

func NewSessionsHandler(sessions *service.SessionService) *SessionsHandler {
	return &SessionsHandler{sessions: sessions}
}

// Create handles POST /sessions.
func (h *SessionsHandler) Create(c *fiber.Ctx) error {
	var req dto.SessionRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	session, err := h.sessions.Authenticate(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.SessionResponse{
		Token:              session.Token,
		ExpiresAt:          session.ExpiresAt,
		Role:               session.Role,
		SubjectID:          session.SubjectID,
		MustUpdatePassword: session.MustUpdatePassword,
	}})
}
