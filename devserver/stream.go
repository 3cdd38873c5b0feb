package devserver

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/gofiber/fiber/v2"
)

const (
	statusProcessing  = "processing"
	statusResearching = "researching"
	statusComplete    = "complete"
)

// stream answers p with the server's event sequence: thinking, a tool and
// tool_result pair per tool call, content, done. The session history is
// only extended once the whole sequence reached the client.
func (s *Server) stream(c *fiber.Ctx, p Prompt, thinking string) error {
	reply, err := s.responder.Respond(context.Background(), p)
	if err != nil {
		s.logger.Error("responder failed", "kind", p.Kind, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: err.Error()})
	}

	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")
	c.Set("X-Accel-Buffering", "no")

	s.logger.Debug("streaming reply",
		"kind", p.Kind,
		"session_id", p.SessionID,
		"tools", len(reply.Tools),
	)

	// pw.Write blocks until fasthttp reads from pr and flushes the chunk,
	// so every event reaches the client as soon as it is written.
	pr, pw := io.Pipe()
	go s.writeReply(pw, p, reply, thinking)

	c.Context().Response.SetBodyStream(pr, -1)
	return nil
}

func (s *Server) writeReply(pw *io.PipeWriter, p Prompt, reply Reply, thinking string) {
	defer pw.Close()

	events := make([]event, 0, 3+2*len(reply.Tools))
	events = append(events, event{"thinking", map[string]any{"status": thinking}})
	for _, t := range reply.Tools {
		input := t.Input
		if input == nil {
			input = map[string]any{}
		}
		events = append(events,
			event{"tool", map[string]any{"name": t.Name, "input": input}},
			event{"tool_result", map[string]any{"name": t.Name, "success": t.Success}},
		)
	}
	events = append(events,
		event{"content", map[string]any{"text": reply.Text}},
		event{"done", map[string]any{"status": statusComplete}},
	)

	for i, ev := range events {
		if i > 0 && s.config.Delay > 0 {
			time.Sleep(s.config.Delay)
		}
		if err := ev.writeTo(pw); err != nil {
			s.logger.Debug("client went away", "session_id", p.SessionID, "error", err)
			return
		}
	}

	s.sessions.append(p.SessionID,
		Message{Role: "user", Content: p.Text},
		Message{Role: "assistant", Content: reply.Text},
	)
}

type event struct {
	name string
	data map[string]any
}

// writeTo writes the event in wire format: "event: X\ndata: {json}\n\n".
func (e event) writeTo(w io.Writer) error {
	data, err := json.Marshal(e.data)
	if err != nil {
		return fmt.Errorf("marshaling %s event: %w", e.name, err)
	}
	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", e.name, data)
	return err
}
