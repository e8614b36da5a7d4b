// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes BrainBrew tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/brainbrew/internal/apperr"
	"github.com/starford/brainbrew/internal/models"
	"github.com/starford/brainbrew/internal/noteservice"
	"github.com/starford/brainbrew/internal/parser"
	"github.com/starford/brainbrew/internal/planner"
	"github.com/starford/brainbrew/internal/schedule"
)

const routineFormatURI = "brainbrew://routine-format"

// Server wraps the MCP server with BrainBrew tools.
type Server struct {
	mcp     *server.MCPServer
	notes   *noteservice.Service
	planner *planner.Service
}

// New creates a new MCP server with all BrainBrew tools registered.
func New(notes *noteservice.Service, plan *planner.Service) *Server {
	s := &Server{notes: notes, planner: plan}

	s.mcp = server.NewMCPServer(
		"BrainBrew",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("generate_timetable",
		mcp.WithDescription("Generate a weekly study timetable from a daily routine. "+
			"Read the routine format first via get_routine_format or the "+routineFormatURI+" resource. "+
			"With save=false the week is only previewed."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Timetable name")),
		mcp.WithObject("routine", mcp.Required(), mcp.Description("Daily routine, times as HH:MM")),
		mcp.WithArray("subjects", mcp.Required(), mcp.Description("Subject names in rotation order"),
			mcp.Items(map[string]any{"type": "string"})),
		mcp.WithArray("active_days", mcp.Required(), mcp.Description("Lowercase weekday names"),
			mcp.Items(map[string]any{"type": "string"})),
		mcp.WithBoolean("save", mcp.Description("Store the timetable (default true)")),
	), s.generateTimetable)

	s.mcp.AddTool(mcp.NewTool("list_timetables",
		mcp.WithDescription("List stored timetables, newest first, without their slots."),
	), s.listTimetables)

	s.mcp.AddTool(mcp.NewTool("get_day_schedule",
		mcp.WithDescription("Return one day of a timetable and any overlapping slots."),
		mcp.WithString("timetable_id", mcp.Required(), mcp.Description("Timetable id")),
		mcp.WithString("day", mcp.Required(), mcp.Description("Lowercase weekday name")),
	), s.getDaySchedule)

	s.mcp.AddTool(mcp.NewTool("list_subjects",
		mcp.WithDescription("List the subjects timetables and assignments may use."),
	), s.listSubjects)

	s.mcp.AddTool(mcp.NewTool("search_notes",
		mcp.WithDescription("Full-text search through study notes content and titles."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search query string")),
	), s.searchNotes)

	s.mcp.AddTool(mcp.NewTool("read_note",
		mcp.WithDescription("Read the full content of a Markdown note."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Relative path to the note (e.g. biology/cells.md)")),
	), s.readNote)

	s.mcp.AddTool(mcp.NewTool("create_note",
		mcp.WithDescription("Create a study note filed under its subject's folder."),
		mcp.WithString("title", mcp.Required(), mcp.Description("Note title")),
		mcp.WithString("subject", mcp.Description("Subject the note belongs to")),
		mcp.WithArray("tags", mcp.Description("Tags"), mcp.Items(map[string]any{"type": "string"})),
		mcp.WithString("body", mcp.Description("Markdown body")),
	), s.createNote)

	s.mcp.AddTool(mcp.NewTool("get_routine_format",
		mcp.WithDescription("Returns the routine and note format BrainBrew expects."),
	), s.getRoutineFormat)

	s.mcp.AddResource(
		mcp.NewResource(routineFormatURI, "Routine Format",
			mcp.WithResourceDescription("Daily routine fields and scheduling rules."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readRoutineFormatResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

// toolError turns a service error into a tool result. Only unexpected errors
// are returned as protocol errors.
func toolError(err error) (*mcp.CallToolResult, error) {
	switch {
	case errors.Is(err, apperr.ErrValidation):
		return mcp.NewToolResultError(apperr.Reason(err)), nil
	case errors.Is(err, apperr.ErrNotFound),
		errors.Is(err, apperr.ErrAlreadyExists),
		errors.Is(err, apperr.ErrConflict):
		return mcp.NewToolResultError(err.Error()), nil
	}
	return nil, err
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) generateTimetable(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var in schedule.TimetableInput
	if err := req.BindArguments(&in); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
	}

	if !req.GetBool("save", true) {
		week, err := s.planner.PreviewWeek(in)
		if err != nil {
			return toolError(err)
		}
		return jsonResult(week)
	}
	tt, err := s.planner.CreateTimetable(ctx, in)
	if err != nil {
		return toolError(err)
	}
	return jsonResult(tt)
}

type timetableSummary struct {
	ID         string           `json:"id"`
	Name       string           `json:"name"`
	Subjects   []string         `json:"subjects"`
	ActiveDays []models.Weekday `json:"active_days"`
}

func (s *Server) listTimetables(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	tts, err := s.planner.ListTimetables(ctx)
	if err != nil {
		return toolError(err)
	}
	out := make([]timetableSummary, len(tts))
	for i, tt := range tts {
		out[i] = timetableSummary{ID: tt.ID, Name: tt.Name, Subjects: tt.Subjects, ActiveDays: tt.ActiveDays}
	}
	return jsonResult(out)
}

func (s *Server) getDaySchedule(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("timetable_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	day, err := req.RequireString("day")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	slots, conflicts, err := s.planner.DaySchedule(ctx, id, models.Weekday(day))
	if err != nil {
		return toolError(err)
	}
	return jsonResult(map[string]any{
		"day":       day,
		"slots":     slots,
		"conflicts": conflicts,
	})
}

func (s *Server) listSubjects(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	subjects, err := s.planner.ListSubjects(ctx)
	if err != nil {
		return toolError(err)
	}
	return jsonResult(subjects)
}

func (s *Server) searchNotes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	results, err := s.notes.Search(ctx, query, 20)
	if err != nil {
		return toolError(err)
	}
	return jsonResult(results)
}

func (s *Server) readNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	note, err := s.notes.GetNote(ctx, path)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return mcp.NewToolResultError(fmt.Sprintf("not found: %s", path)), nil
		}
		return toolError(err)
	}
	return mcp.NewToolResultText(note.Content), nil
}

func (s *Server) createNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	title, err := req.RequireString("title")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	subject := req.GetString("subject", "")
	content := parser.Compose(title, subject, req.GetStringSlice("tags", nil), req.GetString("body", ""))

	note, err := s.notes.CreateNote(ctx, noteservice.NotePath(subject, title), content)
	if err != nil {
		return toolError(err)
	}
	return mcp.NewToolResultText(fmt.Sprintf("created: %s", note.Path)), nil
}

func (s *Server) getRoutineFormat(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(RoutineFormat), nil
}

func (s *Server) readRoutineFormatResource(context.Context, mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      routineFormatURI,
			MIMEType: "text/markdown",
			Text:     RoutineFormat,
		},
	}, nil
}
