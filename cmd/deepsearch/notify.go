package main

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/server"

	"github.com/qiangli/deepsearch/internal/log"
	"github.com/qiangli/deepsearch/internal/progress"
)

// mcpNotifier forwards pipeline progress to the connected MCP client as
// logging notifications. Delivery failures are swallowed; progress must
// never fail the operation it reports on.
type mcpNotifier struct {
	ctx context.Context
}

func newNotifier(ctx context.Context) progress.Notifier {
	return &mcpNotifier{ctx: ctx}
}

func (n *mcpNotifier) send(level, format string, a ...any) {
	msg := fmt.Sprintf(format, a...)
	log.Debugf("[%s] %s\n", level, msg)

	s := server.ServerFromContext(n.ctx)
	if s == nil {
		return
	}
	if err := s.SendNotificationToClient(n.ctx, "notifications/message", map[string]any{
		"level": level,
		"data":  msg,
	}); err != nil {
		log.Debugf("notification failed: %v\n", err)
	}
}

func (n *mcpNotifier) Info(format string, a ...any) {
	n.send("info", format, a...)
}

func (n *mcpNotifier) Warn(format string, a ...any) {
	n.send("warning", format, a...)
}

func (n *mcpNotifier) Error(format string, a ...any) {
	n.send("error", format, a...)
}
