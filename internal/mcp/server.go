// Package mcp exposes the history cache as MCP tools over stdio.
package mcp

import (
	"log/slog"

	gomcp "github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/masmgr/gitplay-go/internal/history"
	"github.com/masmgr/gitplay-go/internal/logging"
)

const serverInstructions = "gitplay scrubs through a git repository's history like a film reel. " +
	"Call open_repository with a local path, then prepare_cache once. " +
	"Afterwards page through commits with get_commits, inspect a commit's files with get_commit_details, " +
	"plot file sizes over time with get_sizes_for_paths and find the most frequently resized files " +
	"with get_files_ordered_by_most_modifications. Windows are [start, start+count) over the " +
	"oldest-first commit sequence. read_file_contents returns a blob as text."

// Server wraps an MCP server around one history cache.
type Server struct {
	server       *mcpserver.MCPServer
	cache        *history.Cache
	defaultCount int
	logger       *slog.Logger
}

// Options configures a Server.
type Options struct {
	// Version is reported to clients.
	Version string
	// DefaultCount is the window size used when a tool call omits count.
	DefaultCount int
	Logger       *slog.Logger
}

// NewServer creates an MCP server backed by cache.
func NewServer(cache *history.Cache, opts Options) *Server {
	if opts.Version == "" {
		opts.Version = "dev"
	}
	if opts.DefaultCount <= 0 {
		opts.DefaultCount = 100
	}
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}

	s := &Server{
		server: mcpserver.NewMCPServer(
			"gitplay",
			opts.Version,
			mcpserver.WithInstructions(serverInstructions),
		),
		cache:        cache,
		defaultCount: opts.DefaultCount,
		logger:       opts.Logger,
	}
	s.registerTools()
	return s
}

// Serve runs the server on stdin/stdout until the client disconnects.
func (s *Server) Serve() error {
	s.logger.Info("serving MCP on stdio")
	return mcpserver.ServeStdio(s.server)
}

// MCPServer returns the underlying server.
func (s *Server) MCPServer() *mcpserver.MCPServer {
	return s.server
}

func (s *Server) registerTools() {
	s.server.AddTool(gomcp.NewTool("open_repository",
		gomcp.WithDescription("Open a local git repository. Starts a new session and discards any cached history."),
		gomcp.WithString("path",
			gomcp.Required(),
			gomcp.Description("Filesystem path of the repository (working tree or .git directory)."),
		),
	), s.handleOpenRepository)

	s.server.AddTool(gomcp.NewTool("prepare_cache",
		gomcp.WithDescription("Walk the commit graph once and cache it oldest first. Returns the commit count and ordered ids."),
	), s.handlePrepareCache)

	s.server.AddTool(gomcp.NewTool("get_commits",
		gomcp.WithDescription("List commit ids and messages in the window [start, start+count)."),
		gomcp.WithReadOnlyHintAnnotation(true),
		gomcp.WithNumber("start", gomcp.Description("First index of the window (default 0).")),
		gomcp.WithNumber("count", gomcp.Description("Window length (default 100).")),
	), s.handleGetCommits)

	s.server.AddTool(gomcp.NewTool("get_commit_details",
		gomcp.WithDescription("Resolve a commit and list its file tree in pre-order."),
		gomcp.WithReadOnlyHintAnnotation(true),
		gomcp.WithString("commit_id",
			gomcp.Required(),
			gomcp.Description("Commit id or revision."),
		),
		gomcp.WithArray("requested_folders",
			gomcp.Description("Only list entries directly inside these folders. Use \".\" for the root. Empty lists everything."),
			gomcp.WithStringItems(),
		),
	), s.handleGetCommitDetails)

	s.server.AddTool(gomcp.NewTool("get_sizes_for_paths",
		gomcp.WithDescription("Size history of the files directly inside requested_folders over a commit window. "+
			"A change-point is recorded on first sight and whenever the size changes."),
		gomcp.WithReadOnlyHintAnnotation(true),
		gomcp.WithArray("requested_folders",
			gomcp.Description("Folders to include. Use \".\" for the root."),
			gomcp.WithStringItems(),
		),
		gomcp.WithNumber("start", gomcp.Description("First index of the window (default 0).")),
		gomcp.WithNumber("count", gomcp.Description("Window length (default 100).")),
	), s.handleGetSizesForPaths)

	s.server.AddTool(gomcp.NewTool("get_files_ordered_by_most_modifications",
		gomcp.WithDescription("Up to 16 files whose size changed at least twice in the window, most changed first."),
		gomcp.WithReadOnlyHintAnnotation(true),
		gomcp.WithNumber("start", gomcp.Description("First index of the window (default 0).")),
		gomcp.WithNumber("count", gomcp.Description("Window length (default 100).")),
	), s.handleGetFilesByModifications)

	s.server.AddTool(gomcp.NewTool("read_file_contents",
		gomcp.WithDescription("Return the content of a blob as UTF-8 text."),
		gomcp.WithReadOnlyHintAnnotation(true),
		gomcp.WithString("object_id",
			gomcp.Required(),
			gomcp.Description("Blob id, as listed by get_commit_details."),
		),
	), s.handleReadFileContents)
}
