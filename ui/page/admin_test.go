package page

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"questlog/internal/server"
)

func TestAdminPageRendersRoutes(t *testing.T) {
	routes := []server.RouteDoc{
		{Method: "GET", Pattern: "/api/profile", Summary: "Full profile view"},
		{Method: "POST", Pattern: "/api/quests", Summary: "Create a quest"},
	}

	var sb strings.Builder
	require.NoError(t, AdminPage(":8787", routes).Render(context.Background(), &sb))

	out := sb.String()
	assert.Contains(t, out, "questlog")
	assert.Contains(t, out, ":8787")
	assert.Contains(t, out, "/api/profile")
	assert.Contains(t, out, "Create a quest")
}

func TestAdminPageEscapesContent(t *testing.T) {
	routes := []server.RouteDoc{
		{Method: "GET", Pattern: "/x", Summary: `<script>alert("x")</script>`},
	}

	var sb strings.Builder
	require.NoError(t, AdminPage(":1", routes).Render(context.Background(), &sb))

	assert.NotContains(t, sb.String(), "<script>alert")
}
