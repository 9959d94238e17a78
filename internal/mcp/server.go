package mcp

import (
	"context"
	"log/slog"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/williamwinkler/sitt/internal/domain/project"
	"github.com/williamwinkler/sitt/internal/domain/timetrack"
	"github.com/williamwinkler/sitt/internal/domain/user"
)

const serverInstructions = `sitt tracks working time on projects. Start tracking with
start_tracking, stop with stop_tracking; a project can only track one
interval at a time. Use log_time to record a finished interval by hand.
Durations are reported in whole seconds.`

// ProjectService defines project operations needed by MCP.
type ProjectService interface {
	Create(ctx context.Context, usr *user.User, name string) (*project.Project, error)
	Get(ctx context.Context, usr *user.User, id string) (*project.Project, error)
	GetAll(ctx context.Context, usr *user.User) ([]project.Project, error)
}

// TrackService defines time track operations needed by MCP.
type TrackService interface {
	Start(ctx context.Context, usr *user.User, projectID, comment string) (*timetrack.TimeTrack, error)
	Stop(ctx context.Context, usr *user.User, projectID string) (*timetrack.TimeTrack, error)
	Create(ctx context.Context, usr *user.User, req timetrack.CreateRequest) (*timetrack.TimeTrack, error)
	GetAll(ctx context.Context, usr *user.User, projectID string) ([]timetrack.TimeTrack, error)
	GetInProgress(ctx context.Context, usr *user.User, projectID string) (*timetrack.TimeTrack, error)
}

// Services contains all domain services needed by MCP.
type Services struct {
	Projects ProjectService
	Tracks   TrackService
}

// Config contains server configuration.
type Config struct {
	Services      Services
	Resolver      UserResolver
	AuthEnabled   bool
	TransportMode string // "stdio" or "http"
	APIKey        string // identity for the stdio transport
	Logger        *slog.Logger
}

// NewServer creates and configures an MCP server with all tools and middleware.
func NewServer(cfg Config) *sdkmcp.Server {
	server := sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    "sitt",
		Version: "0.1.0",
	}, &sdkmcp.ServerOptions{
		Instructions: serverInstructions,
		Logger:       cfg.Logger,
	})

	// Stdio carries no headers; the configured key is the identity.
	if cfg.TransportMode == "stdio" {
		server.AddReceivingMiddleware(staticKeyMiddleware(cfg.Resolver, cfg.APIKey))
	} else if cfg.AuthEnabled {
		server.AddReceivingMiddleware(authMiddleware(cfg.Resolver))
	} else {
		server.AddReceivingMiddleware(staticKeyMiddleware(cfg.Resolver, cfg.APIKey))
	}
	server.AddReceivingMiddleware(trafficLoggingMiddleware(cfg.Logger, "inbound"))
	server.AddSendingMiddleware(trafficLoggingMiddleware(cfg.Logger, "outbound"))

	registerTools(server, cfg.Services)

	return server
}
