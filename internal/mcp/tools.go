package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	gomcp "github.com/mark3labs/mcp-go/mcp"

	"github.com/masmgr/gitplay-go/internal/apperr"
	"github.com/masmgr/gitplay-go/internal/history"
)

type openResult struct {
	Status string `json:"status"`
	history.SessionInfo
}

type prepareResult struct {
	SessionID string   `json:"session_id"`
	Count     int      `json:"count"`
	IDs       []string `json:"ordered_ids"`
}

type commitError struct {
	CommitID string `json:"commit_id"`
	Error    string `json:"error"`
}

type sizesResult struct {
	Paths  history.SizeHistory `json:"paths"`
	Errors []commitError       `json:"errors,omitempty"`
}

type modificationsResult struct {
	Files  []history.Modification `json:"files"`
	Errors []commitError          `json:"errors,omitempty"`
}

func (s *Server) handleOpenRepository(_ context.Context, req gomcp.CallToolRequest) (*gomcp.CallToolResult, error) {
	path := strings.TrimSpace(req.GetString("path", ""))
	if path == "" {
		return missingParamErr("path", `open_repository(path="/src/project")`), nil
	}
	s.logger.Debug("tool call", "tool", "open_repository", "path", path)

	info, err := s.cache.Open(path)
	if err != nil {
		return toolErr(err), nil
	}
	return jsonResult(openResult{
		Status:      fmt.Sprintf("Opened %s. Call prepare_cache before querying commits.", path),
		SessionInfo: info,
	})
}

func (s *Server) handlePrepareCache(ctx context.Context, _ gomcp.CallToolRequest) (*gomcp.CallToolResult, error) {
	s.logger.Debug("tool call", "tool", "prepare_cache")

	res, err := s.cache.PrepareCache(ctx)
	if err != nil {
		return toolErr(err), nil
	}
	return jsonResult(prepareResult{SessionID: res.SessionID, Count: res.Count, IDs: res.IDs})
}

func (s *Server) handleGetCommits(_ context.Context, req gomcp.CallToolRequest) (*gomcp.CallToolResult, error) {
	start, count := s.window(req)
	s.logger.Debug("tool call", "tool", "get_commits", "start", start, "count", count)

	commits, err := s.cache.Commits(start, count)
	if err != nil {
		return toolErr(err), nil
	}
	return jsonResult(commits)
}

func (s *Server) handleGetCommitDetails(_ context.Context, req gomcp.CallToolRequest) (*gomcp.CallToolResult, error) {
	id := strings.TrimSpace(req.GetString("commit_id", ""))
	if id == "" {
		return missingParamErr("commit_id", `get_commit_details(commit_id="HEAD", requested_folders=["src"])`), nil
	}
	folders := req.GetStringSlice("requested_folders", nil)
	s.logger.Debug("tool call", "tool", "get_commit_details", "commit", id, "folders", folders)

	frame, err := s.cache.CommitDetails(id, folders)
	if err != nil {
		return toolErr(err), nil
	}
	return jsonResult(frame)
}

func (s *Server) handleGetSizesForPaths(ctx context.Context, req gomcp.CallToolRequest) (*gomcp.CallToolResult, error) {
	folders := req.GetStringSlice("requested_folders", nil)
	start, count := s.window(req)
	s.logger.Debug("tool call", "tool", "get_sizes_for_paths", "folders", folders, "start", start, "count", count)

	res, err := s.cache.SizesForPaths(ctx, folders, start, count)
	if err != nil {
		return toolErr(err), nil
	}
	return jsonResult(sizesResult{Paths: res.Paths, Errors: commitErrors(res.Errors)})
}

func (s *Server) handleGetFilesByModifications(ctx context.Context, req gomcp.CallToolRequest) (*gomcp.CallToolResult, error) {
	start, count := s.window(req)
	s.logger.Debug("tool call", "tool", "get_files_ordered_by_most_modifications", "start", start, "count", count)

	res, err := s.cache.FilesByModifications(ctx, start, count)
	if err != nil {
		return toolErr(err), nil
	}
	files := res.Files
	if files == nil {
		files = []history.Modification{}
	}
	return jsonResult(modificationsResult{Files: files, Errors: commitErrors(res.Errors)})
}

func (s *Server) handleReadFileContents(_ context.Context, req gomcp.CallToolRequest) (*gomcp.CallToolResult, error) {
	id := strings.TrimSpace(req.GetString("object_id", ""))
	if id == "" {
		return missingParamErr("object_id", `read_file_contents(object_id="<blob id from get_commit_details>")`), nil
	}
	s.logger.Debug("tool call", "tool", "read_file_contents", "object", id)

	text, err := s.cache.ReadFileContents(id)
	if err != nil {
		return toolErr(err), nil
	}
	return gomcp.NewToolResultText(text), nil
}

// window reads start/count, falling back to 0 and the configured default.
func (s *Server) window(req gomcp.CallToolRequest) (int, int) {
	return req.GetInt("start", 0), req.GetInt("count", s.defaultCount)
}

func commitErrors(errs []history.CommitError) []commitError {
	if len(errs) == 0 {
		return nil
	}
	out := make([]commitError, len(errs))
	for i, e := range errs {
		out[i] = commitError{CommitID: e.CommitID, Error: e.Err.Error()}
	}
	return out
}

func jsonResult(v any) (*gomcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal result: %w", err)
	}
	return gomcp.NewToolResultText(string(data)), nil
}

func missingParamErr(param, example string) *gomcp.CallToolResult {
	msg := fmt.Sprintf("[%s] missing required parameter: %s", apperr.InvalidArgument, param)
	if strings.TrimSpace(example) != "" {
		msg += ". Example: " + example
	}
	return gomcp.NewToolResultError(msg)
}

// toolErr reports err to the client. Coded errors already carry their code.
func toolErr(err error) *gomcp.CallToolResult {
	return gomcp.NewToolResultError(err.Error())
}
