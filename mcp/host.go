package mcp

import (
	"net"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
)

// HostConfig is the MCP host configuration.
type HostConfig struct {
	// ListenAddr is the address to listen on (e.g., ":5002")
	ListenAddr string
}

// Host serves the MCP endpoint over HTTP at /mcp.
type Host struct {
	config HostConfig
	server *Server
	app    *fiber.App
}

// NewHost mounts server's streamable HTTP handler on a fiber app.
func NewHost(config HostConfig, server *Server) *Host {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	h := &Host{
		config: config,
		server: server,
		app:    app,
	}

	app.Get("/ping", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	app.All("/mcp", adaptor.HTTPHandler(server.Handler()))

	return h
}

// Run starts the host on the configured address.
func (h *Host) Run() error {
	h.server.config.Logger.Info("starting MCP server", "listen", h.config.ListenAddr)
	return h.app.Listen(h.config.ListenAddr)
}

// RunWithListener starts the host using the provided listener.
func (h *Host) RunWithListener(listener net.Listener) error {
	h.server.config.Logger.Info("starting MCP server", "listen", listener.Addr().String())
	return h.app.Listener(listener)
}

// Shutdown gracefully shuts down the host.
func (h *Host) Shutdown() error {
	return h.app.Shutdown()
}
