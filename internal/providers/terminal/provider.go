package terminal

import (
	"context"
	"fmt"

	"github.com/GriffinCanCode/NexusOS/backend/internal/domain/service"
	"github.com/GriffinCanCode/NexusOS/backend/internal/shared/types"
)

// Provider implements the console behind terminal windows
type Provider struct {
	manager *Manager
}

// NewProvider creates a new terminal provider
func NewProvider() *Provider {
	return &Provider{
		manager: NewManager(),
	}
}

// Definition returns service metadata
func (p *Provider) Definition() types.Service {
	return types.Service{
		ID:          "terminal",
		Name:        "Terminal Service",
		Description: "Built-in console with a fixed command set",
		Category:    types.CategorySystem,
		Capabilities: []string{
			"console",
			"sessions",
			"history",
		},
		Tools: p.getTools(),
	}
}

// Execute routes to appropriate operation
func (p *Provider) Execute(ctx context.Context, toolID string, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	switch toolID {
	case "terminal.create_session":
		return p.createSession(params)
	case "terminal.execute":
		return p.execute(params)
	case "terminal.history":
		return p.history(params)
	case "terminal.list_sessions":
		return p.listSessions()
	case "terminal.get_session":
		return p.getSession(params)
	case "terminal.kill":
		return p.kill(params)
	default:
		return service.Failure(fmt.Sprintf("unknown tool: %s", toolID)), nil
	}
}

func (p *Provider) getTools() []types.Tool {
	sessionParam := types.Parameter{Name: "session_id", Type: "string", Description: "Session ID", Required: true}

	return []types.Tool{
		{
			ID:          "terminal.create_session",
			Name:        "Create Terminal Session",
			Description: "Open a console and return its banner",
			Parameters: []types.Parameter{
				{Name: "user", Type: "string", Description: "Name reported by whoami", Required: false},
			},
			Returns: "object",
		},
		{
			ID:          "terminal.execute",
			Name:        "Execute Command",
			Description: "Run one command line: help, clear, date, whoami, reboot, ai",
			Parameters: []types.Parameter{
				sessionParam,
				{Name: "command", Type: "string", Description: "Command line", Required: true},
			},
			Returns: "object",
		},
		{
			ID:          "terminal.history",
			Name:        "Read History",
			Description: "Return the session scrollback",
			Parameters:  []types.Parameter{sessionParam},
			Returns:     "array",
		},
		{
			ID:          "terminal.list_sessions",
			Name:        "List Sessions",
			Description: "List open console sessions",
			Returns:     "array",
		},
		{
			ID:          "terminal.get_session",
			Name:        "Get Session",
			Description: "Get console session info",
			Parameters:  []types.Parameter{sessionParam},
			Returns:     "object",
		},
		{
			ID:          "terminal.kill",
			Name:        "Kill Session",
			Description: "Close a console session",
			Parameters:  []types.Parameter{sessionParam},
			Returns:     "success",
		},
	}
}

func (p *Provider) createSession(params map[string]interface{}) (*types.Result, error) {
	user, _ := service.String(params, "user")
	session := p.manager.CreateSession(user)

	return service.Success(map[string]interface{}{
		"session": session,
		"lines":   Banner,
	}), nil
}

func (p *Provider) execute(params map[string]interface{}) (*types.Result, error) {
	sessionID, ok := service.String(params, "session_id")
	if !ok {
		return service.Failure("session_id is required"), nil
	}
	command, ok := service.String(params, "command")
	if !ok {
		return service.Failure("command is required"), nil
	}

	out, err := p.manager.Execute(sessionID, command)
	if err != nil {
		return service.Failure(err.Error()), nil
	}

	return service.Success(map[string]interface{}{
		"lines":  out.Lines,
		"clear":  out.Clear,
		"reboot": out.Reboot,
	}), nil
}

func (p *Provider) history(params map[string]interface{}) (*types.Result, error) {
	sessionID, ok := service.String(params, "session_id")
	if !ok {
		return service.Failure("session_id is required"), nil
	}

	lines, err := p.manager.History(sessionID)
	if err != nil {
		return service.Failure(err.Error()), nil
	}
	return service.Success(map[string]interface{}{"lines": lines}), nil
}

func (p *Provider) listSessions() (*types.Result, error) {
	sessions := p.manager.ListSessions()

	return service.Success(map[string]interface{}{
		"sessions": sessions,
		"count":    len(sessions),
	}), nil
}

func (p *Provider) getSession(params map[string]interface{}) (*types.Result, error) {
	sessionID, ok := service.String(params, "session_id")
	if !ok {
		return service.Failure("session_id is required"), nil
	}

	session, err := p.manager.GetSession(sessionID)
	if err != nil {
		return service.Failure(err.Error()), nil
	}
	return service.Success(map[string]interface{}{"session": session}), nil
}

func (p *Provider) kill(params map[string]interface{}) (*types.Result, error) {
	sessionID, ok := service.String(params, "session_id")
	if !ok {
		return service.Failure("session_id is required"), nil
	}

	if err := p.manager.Kill(sessionID); err != nil {
		return service.Failure(err.Error()), nil
	}
	return service.Success(map[string]interface{}{"killed": sessionID}), nil
}
