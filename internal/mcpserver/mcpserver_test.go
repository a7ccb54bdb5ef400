package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joeyaochen/portfolio/internal/chat"
	"github.com/joeyaochen/portfolio/internal/profile"
	"github.com/joeyaochen/portfolio/internal/responder"
)

type failingResolver struct{}

func (failingResolver) Resolve(context.Context, []chat.Turn, string) (string, error) {
	return "", errors.New("boom")
}

func testDeps(t *testing.T) Deps {
	t.Helper()
	p, err := profile.Default()
	require.NoError(t, err)
	return Deps{
		Profile:  p,
		Resolver: chat.NewTieredResolver(responder.New(p), nil, nil),
	}
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, result.Content)
	tc, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected TextContent, got %T", result.Content[0])
	return tc.Text
}

func callRequest(name string, args map[string]any) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{Name: name, Arguments: args},
	}
}

func TestAsk(t *testing.T) {
	deps := testDeps(t)
	handler := askHandler(deps)

	result, err := handler(context.Background(), callRequest("ask_about_owner", map[string]any{
		"question": "What are Joe's skills?",
	}))
	require.NoError(t, err)
	require.False(t, result.IsError)

	text := resultText(t, result)
	for _, s := range deps.Profile.Skills.Programming {
		assert.Contains(t, text, s)
	}
}

func TestAsk_MissingQuestion(t *testing.T) {
	handler := askHandler(testDeps(t))

	for _, args := range []map[string]any{{}, {"question": "   "}} {
		result, err := handler(context.Background(), callRequest("ask_about_owner", args))
		require.NoError(t, err)
		assert.True(t, result.IsError)
	}
}

func TestAsk_ResolverFailureIsApology(t *testing.T) {
	deps := testDeps(t)
	deps.Resolver = failingResolver{}

	result, err := askHandler(deps)(context.Background(), callRequest("ask_about_owner", map[string]any{"question": "x"}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Equal(t, chat.Apology(deps.Profile.Personal.Email), resultText(t, result))
}

func TestListProjects(t *testing.T) {
	deps := testDeps(t)
	handler := listProjectsHandler(deps)

	result, err := handler(context.Background(), callRequest("list_projects", nil))
	require.NoError(t, err)
	var all []profile.Project
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &all))
	assert.Equal(t, deps.Profile.Projects, all)

	result, err = handler(context.Background(), callRequest("list_projects", map[string]any{"tech": "gis"}))
	require.NoError(t, err)
	var some []profile.Project
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &some))
	require.Len(t, some, 1)
	assert.Equal(t, "Urban Mobility Analysis", some[0].Name)
}

func TestProfileResource(t *testing.T) {
	deps := testDeps(t)
	contents, err := profileResource(deps)(context.Background(), mcp.ReadResourceRequest{
		Params: mcp.ReadResourceParams{URI: ProfileURI},
	})
	require.NoError(t, err)
	require.Len(t, contents, 1)

	tc, ok := contents[0].(mcp.TextResourceContents)
	require.True(t, ok)
	assert.Equal(t, "application/json", tc.MIMEType)

	var p profile.Profile
	require.NoError(t, json.Unmarshal([]byte(tc.Text), &p))
	assert.Equal(t, deps.Profile.Personal, p.Personal)
}

func TestNew(t *testing.T) {
	assert.NotNil(t, New(testDeps(t)))
}
