package mcp

import (
	"context"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/williamwinkler/sitt/internal/domain/project"
	"github.com/williamwinkler/sitt/internal/domain/timetrack"
)

type projectPayload struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	Status            string `json:"status"`
	TotalDuration     string `json:"total_duration"`
	TotalDurationSecs int64  `json:"total_duration_secs"`
}

func toProjectPayload(proj *project.Project) projectPayload {
	return projectPayload{
		ID:                proj.ID,
		Name:              proj.Name,
		Status:            string(proj.Status),
		TotalDuration:     (time.Duration(proj.TotalDurationSecs) * time.Second).String(),
		TotalDurationSecs: proj.TotalDurationSecs,
	}
}

type entryPayload struct {
	ID           string     `json:"id"`
	ProjectID    string     `json:"project_id"`
	Status       string     `json:"status"`
	Comment      string     `json:"comment,omitempty"`
	StartedAt    time.Time  `json:"started_at"`
	StoppedAt    *time.Time `json:"stopped_at,omitempty"`
	Duration     string     `json:"duration"`
	DurationSecs int64      `json:"duration_secs"`
}

func toEntryPayload(tt *timetrack.TimeTrack) entryPayload {
	return entryPayload{
		ID:           tt.ID,
		ProjectID:    tt.ProjectID,
		Status:       string(tt.Status),
		Comment:      tt.Comment,
		StartedAt:    tt.StartedAt,
		StoppedAt:    tt.StoppedAt,
		Duration:     (time.Duration(tt.TotalDurationSecs) * time.Second).String(),
		DurationSecs: tt.TotalDurationSecs,
	}
}

type createProjectInput struct {
	Name string `json:"name" jsonschema:"project name, 1 to 25 characters"`
}

type listProjectsInput struct{}

type listProjectsOutput struct {
	Projects []projectPayload `json:"projects"`
}

type projectIDInput struct {
	ProjectID string `json:"project_id" jsonschema:"the project ID"`
}

type startTrackingInput struct {
	ProjectID string `json:"project_id" jsonschema:"the project ID"`
	Comment   string `json:"comment,omitempty" jsonschema:"optional note, up to 1000 characters"`
}

type logTimeInput struct {
	ProjectID string    `json:"project_id" jsonschema:"the project ID"`
	StartedAt time.Time `json:"started_at" jsonschema:"interval start, RFC 3339"`
	StoppedAt time.Time `json:"stopped_at" jsonschema:"interval end, RFC 3339, must be after started_at"`
	Comment   string    `json:"comment,omitempty" jsonschema:"optional note, up to 1000 characters"`
}

type listEntriesOutput struct {
	Entries []entryPayload `json:"entries"`
}

// registerTools registers the tracking tool surface.
func registerTools(server *sdkmcp.Server, services Services) {
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "create_project",
		Description: "Create a new project to track time on",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, in createProjectInput) (*sdkmcp.CallToolResult, projectPayload, error) {
		usr, err := currentUser(ctx)
		if err != nil {
			return nil, projectPayload{}, err
		}
		proj, err := services.Projects.Create(ctx, usr, in.Name)
		if err != nil {
			return nil, projectPayload{}, toolError(err)
		}
		return nil, toProjectPayload(proj), nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_projects",
		Description: "List all projects with their tracked durations, active projects first",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, in listProjectsInput) (*sdkmcp.CallToolResult, listProjectsOutput, error) {
		usr, err := currentUser(ctx)
		if err != nil {
			return nil, listProjectsOutput{}, err
		}
		projects, err := services.Projects.GetAll(ctx, usr)
		if err != nil {
			return nil, listProjectsOutput{}, toolError(err)
		}
		out := listProjectsOutput{Projects: make([]projectPayload, 0, len(projects))}
		for i := range projects {
			out.Projects = append(out.Projects, toProjectPayload(&projects[i]))
		}
		return nil, out, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "start_tracking",
		Description: "Start tracking time on a project",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, in startTrackingInput) (*sdkmcp.CallToolResult, entryPayload, error) {
		usr, err := currentUser(ctx)
		if err != nil {
			return nil, entryPayload{}, err
		}
		tt, err := services.Tracks.Start(ctx, usr, in.ProjectID, in.Comment)
		if err != nil {
			return nil, entryPayload{}, toolError(err)
		}
		return nil, toEntryPayload(tt), nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "stop_tracking",
		Description: "Stop tracking time on a project and record the finished interval",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, in projectIDInput) (*sdkmcp.CallToolResult, entryPayload, error) {
		usr, err := currentUser(ctx)
		if err != nil {
			return nil, entryPayload{}, err
		}
		tt, err := services.Tracks.Stop(ctx, usr, in.ProjectID)
		if err != nil {
			return nil, entryPayload{}, toolError(err)
		}
		return nil, toEntryPayload(tt), nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "tracking_status",
		Description: "Show the in-progress interval of a project, including its elapsed time",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, in projectIDInput) (*sdkmcp.CallToolResult, entryPayload, error) {
		usr, err := currentUser(ctx)
		if err != nil {
			return nil, entryPayload{}, err
		}
		tt, err := services.Tracks.GetInProgress(ctx, usr, in.ProjectID)
		if err != nil {
			return nil, entryPayload{}, toolError(err)
		}
		return nil, toEntryPayload(tt), nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "log_time",
		Description: "Record a finished time interval on a project without using the start/stop state machine",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, in logTimeInput) (*sdkmcp.CallToolResult, entryPayload, error) {
		usr, err := currentUser(ctx)
		if err != nil {
			return nil, entryPayload{}, err
		}
		tt, err := services.Tracks.Create(ctx, usr, timetrack.CreateRequest{
			ProjectID: in.ProjectID,
			StartedAt: in.StartedAt,
			StoppedAt: in.StoppedAt,
			Comment:   in.Comment,
		})
		if err != nil {
			return nil, entryPayload{}, toolError(err)
		}
		return nil, toEntryPayload(tt), nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_entries",
		Description: "List a project's time track entries, oldest first",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, in projectIDInput) (*sdkmcp.CallToolResult, listEntriesOutput, error) {
		usr, err := currentUser(ctx)
		if err != nil {
			return nil, listEntriesOutput{}, err
		}
		entries, err := services.Tracks.GetAll(ctx, usr, in.ProjectID)
		if err != nil {
			return nil, listEntriesOutput{}, toolError(err)
		}
		out := listEntriesOutput{Entries: make([]entryPayload, 0, len(entries))}
		for i := range entries {
			out.Entries = append(out.Entries, toEntryPayload(&entries[i]))
		}
		return nil, out, nil
	})
}
