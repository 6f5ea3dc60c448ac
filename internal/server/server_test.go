package server

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neoclaw-ai/filetransformer/internal/logging"
	"github.com/neoclaw-ai/filetransformer/internal/sandbox"
	"github.com/neoclaw-ai/filetransformer/internal/testutil"
	"github.com/neoclaw-ai/filetransformer/internal/tools"
)

func connect(t *testing.T, root string) *mcp.ClientSession {
	t.Helper()
	guard, err := sandbox.NewGuard(sandbox.ExplicitRoots(root))
	require.NoError(t, err)
	s := New(tools.New(guard, tools.Options{}), "test", time.Minute)

	ctx := context.Background()
	serverTransport, clientTransport := mcp.NewInMemoryTransports()
	serverSession, err := s.mcp.Connect(ctx, serverTransport, nil)
	require.NoError(t, err)
	client := mcp.NewClient(&mcp.Implementation{Name: "client"}, nil)
	clientSession, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() {
		clientSession.Close()
		serverSession.Wait()
	})
	return clientSession
}

func textOf(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.Len(t, res.Content, 1)
	text, ok := res.Content[0].(*mcp.TextContent)
	require.True(t, ok, "expected text content, got %T", res.Content[0])
	return text.Text
}

func TestListToolsMatchesCatalog(t *testing.T) {
	session := connect(t, testutil.CanonicalTempDir(t))

	res, err := session.ListTools(context.Background(), &mcp.ListToolsParams{})
	require.NoError(t, err)

	var got []string
	for _, tool := range res.Tools {
		got = append(got, tool.Name)
		assert.NotNil(t, tool.InputSchema, tool.Name)
	}
	var want []string
	for _, info := range tools.Catalog() {
		want = append(want, string(info.Name))
	}
	assert.ElementsMatch(t, want, got)
}

func TestCallToolReturnsText(t *testing.T) {
	root := testutil.CanonicalTempDir(t)
	session := connect(t, root)
	pdf := testutil.WritePDF(t, root, "doc.pdf", "Hello")

	res, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      string(tools.ExtractText),
		Arguments: map[string]any{"pdf_path": pdf},
	})
	require.NoError(t, err)
	assert.False(t, res.IsError)
	assert.Contains(t, textOf(t, res), "Hello")
}

func TestCallToolReportsGuardErrorsAsText(t *testing.T) {
	var logs bytes.Buffer
	logging.SetOutput(&logs)
	t.Cleanup(func() { logging.SetOutput(os.Stderr) })

	root := testutil.CanonicalTempDir(t)
	session := connect(t, root)

	res, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name: string(tools.ZipFiles),
		Arguments: map[string]any{
			"paths":   []string{"/etc/passwd"},
			"out_zip": filepath.Join(root, "out.zip"),
		},
	})
	require.NoError(t, err)
	assert.True(t, res.IsError)
	text := textOf(t, res)
	assert.Contains(t, text, "Error: access denied")
	assert.Contains(t, text, root)
	assert.Contains(t, logs.String(), "tool call failed")
	assert.Contains(t, logs.String(), "request_id")
}

func TestCallToolDryRun(t *testing.T) {
	root := testutil.CanonicalTempDir(t)
	session := connect(t, root)
	a := testutil.WriteFile(t, root, "a.txt", []byte("a"))
	out := filepath.Join(root, "a.zip")

	res, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      string(tools.ZipFiles),
		Arguments: map[string]any{"paths": []string{a}, "out_zip": out, "dry_run": true},
	})
	require.NoError(t, err)
	assert.False(t, res.IsError)
	assert.Equal(t, "[DRY RUN] Would zip 1 files into "+out, textOf(t, res))
	assert.NoFileExists(t, out)
}
