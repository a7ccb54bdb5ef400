// Package mcpserver exposes the portfolio assistant to MCP clients.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/joeyaochen/portfolio/internal/chat"
	"github.com/joeyaochen/portfolio/internal/profile"
)

// ProfileURI is the resource holding the owner's profile.
const ProfileURI = "profile://owner"

type Deps struct {
	Profile  *profile.Profile
	Resolver chat.Resolver
	Version  string
}

// New creates an MCP server with the portfolio tools and resources registered.
func New(deps Deps) *server.MCPServer {
	version := deps.Version
	if version == "" {
		version = "dev"
	}
	s := server.NewMCPServer(
		"portfolio",
		version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithInstructions(fmt.Sprintf("Answers questions about %s's background, projects and skills.", deps.Profile.Personal.Name)),
		server.WithRecovery(),
	)

	s.AddTool(
		mcp.NewTool("ask_about_owner",
			mcp.WithDescription(fmt.Sprintf("Ask the portfolio assistant a question about %s.", deps.Profile.Personal.Name)),
			mcp.WithString("question", mcp.Description("The question to ask"), mcp.Required()),
		),
		askHandler(deps),
	)

	s.AddTool(
		mcp.NewTool("list_projects",
			mcp.WithDescription("List the owner's projects as JSON, optionally filtered by a technology."),
			mcp.WithString("tech", mcp.Description("Only include projects using this technology (case-insensitive)")),
		),
		listProjectsHandler(deps),
	)

	s.AddResource(
		mcp.NewResource(
			ProfileURI,
			"Owner Profile",
			mcp.WithResourceDescription("The site owner's profile as JSON"),
			mcp.WithMIMEType("application/json"),
		),
		profileResource(deps),
	)

	return s
}

// Serve runs s over stdio until ctx is cancelled or in is closed.
func Serve(ctx context.Context, s *server.MCPServer, in io.Reader, out io.Writer) error {
	stdio := server.NewStdioServer(s)
	if err := stdio.Listen(ctx, in, out); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func askHandler(deps Deps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		question, err := req.RequireString("question")
		if err != nil || strings.TrimSpace(question) == "" {
			return toolError("question is required"), nil
		}
		answer, err := deps.Resolver.Resolve(ctx, nil, strings.TrimSpace(question))
		if err != nil {
			return toolError(chat.Apology(deps.Profile.Personal.Email)), nil
		}
		return toolText(answer), nil
	}
}

func listProjectsHandler(deps Deps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		tech := strings.ToLower(strings.TrimSpace(req.GetString("tech", "")))

		projects := make([]profile.Project, 0, len(deps.Profile.Projects))
		for _, p := range deps.Profile.Projects {
			if tech == "" || usesTech(p, tech) {
				projects = append(projects, p)
			}
		}
		b, err := json.Marshal(projects)
		if err != nil {
			return toolError(fmt.Sprintf("failed to marshal projects: %v", err)), nil
		}
		return toolText(string(b)), nil
	}
}

func usesTech(p profile.Project, tech string) bool {
	for _, t := range p.Tech {
		if strings.ToLower(t) == tech {
			return true
		}
	}
	return false
}

func profileResource(deps Deps) server.ResourceHandlerFunc {
	return func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		b, err := json.Marshal(deps.Profile)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal profile: %w", err)
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      req.Params.URI,
				MIMEType: "application/json",
				Text:     string(b),
			},
		}, nil
	}
}

func toolText(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: text},
		},
	}
}

func toolError(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: msg},
		},
		IsError: true,
	}
}
