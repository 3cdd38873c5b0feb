package devserver

import (
	"log/slog"
	"net"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"github.com/papercomputeco/sdr/pkg/logger"
)

// Server is the scripted SDR server.
type Server struct {
	config    Config
	logger    *slog.Logger
	app       *fiber.App
	responder Responder
	sessions  *sessions
}

// NewServer creates a new development server.
func NewServer(config Config) *Server {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	log := config.Logger
	if log == nil {
		log = logger.Nop()
	}

	responder := config.Responder
	if responder == nil {
		responder = ScriptedResponder{}
	}

	s := &Server{
		config:    config,
		logger:    log,
		app:       app,
		responder: responder,
		sessions:  newSessions(),
	}

	api := app.Group("/api", cors.New(cors.Config{AllowOrigins: "*"}))
	api.Get("/health", s.handleHealth)
	api.Post("/chat", s.handleChat)
	api.Post("/chat/clear", s.handleClear)
	api.Get("/chat/history", s.handleHistory)
	api.Post("/research/company", s.handleResearchCompany)
	api.Post("/research/prospect", s.handleResearchProspect)

	return s
}

// Run starts the server on the configured address.
func (s *Server) Run() error {
	s.logger.Info("starting development server",
		"listen", s.config.ListenAddr,
		"delay", s.config.Delay,
	)
	return s.app.Listen(s.config.ListenAddr)
}

// RunWithListener starts the server using the provided listener.
func (s *Server) RunWithListener(listener net.Listener) error {
	s.logger.Info("starting development server",
		"listen", listener.Addr().String(),
		"delay", s.config.Delay,
	)
	return s.app.Listener(listener)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}
