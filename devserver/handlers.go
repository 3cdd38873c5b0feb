package devserver

import (
	"encoding/json"
	"strings"

	"github.com/gofiber/fiber/v2"
)

const defaultSession = "default"

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
}

type chatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id"`
}

type researchRequest struct {
	Company   string `json:"company"`
	Prospect  string `json:"prospect"`
	SessionID string `json:"session_id"`
}

type sessionRequest struct {
	SessionID string `json:"session_id"`
}

// decodeBody unmarshals a JSON body into v. An empty body leaves v untouched.
func decodeBody(c *fiber.Ctx, v any) error {
	body := c.Body()
	if len(body) == 0 {
		return nil
	}
	return json.Unmarshal(body, v)
}

func sessionOrDefault(id string) string {
	if id == "" {
		return defaultSession
	}
	return id
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: msg})
}

func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

func (s *Server) handleChat(c *fiber.Ctx) error {
	var req chatRequest
	if err := decodeBody(c, &req); err != nil {
		return badRequest(c, "Invalid JSON body")
	}
	if strings.TrimSpace(req.Message) == "" {
		return badRequest(c, "Message is required")
	}

	sessionID := sessionOrDefault(req.SessionID)
	return s.stream(c, Prompt{
		Kind:      PromptChat,
		SessionID: sessionID,
		Text:      req.Message,
		History:   s.sessions.snapshot(sessionID),
	}, statusProcessing)
}

func (s *Server) handleResearchCompany(c *fiber.Ctx) error {
	var req researchRequest
	if err := decodeBody(c, &req); err != nil {
		return badRequest(c, "Invalid JSON body")
	}
	if strings.TrimSpace(req.Company) == "" {
		return badRequest(c, "Company name is required")
	}

	sessionID := sessionOrDefault(req.SessionID)
	return s.stream(c, Prompt{
		Kind:      PromptCompany,
		SessionID: sessionID,
		Text:      CompanyPrompt(req.Company),
		Company:   req.Company,
		History:   s.sessions.snapshot(sessionID),
	}, statusResearching)
}

func (s *Server) handleResearchProspect(c *fiber.Ctx) error {
	var req researchRequest
	if err := decodeBody(c, &req); err != nil {
		return badRequest(c, "Invalid JSON body")
	}
	if strings.TrimSpace(req.Prospect) == "" {
		return badRequest(c, "Prospect name is required")
	}

	sessionID := sessionOrDefault(req.SessionID)
	return s.stream(c, Prompt{
		Kind:      PromptProspect,
		SessionID: sessionID,
		Text:      ProspectPrompt(req.Prospect, req.Company),
		Company:   req.Company,
		Prospect:  req.Prospect,
		History:   s.sessions.snapshot(sessionID),
	}, statusResearching)
}

func (s *Server) handleClear(c *fiber.Ctx) error {
	var req sessionRequest
	if err := decodeBody(c, &req); err != nil {
		return badRequest(c, "Invalid JSON body")
	}

	sessionID := sessionOrDefault(req.SessionID)
	s.sessions.clear(sessionID)
	s.logger.Debug("cleared session", "session_id", sessionID)

	return c.JSON(fiber.Map{"status": "cleared"})
}

func (s *Server) handleHistory(c *fiber.Ctx) error {
	sessionID := sessionOrDefault(c.Query("session_id"))
	return c.JSON(fiber.Map{"messages": s.sessions.snapshot(sessionID)})
}
