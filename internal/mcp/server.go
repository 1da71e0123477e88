package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/a3tai/cbs-offer-importer/internal/config"
	"github.com/a3tai/cbs-offer-importer/internal/descriptions"
	"github.com/a3tai/cbs-offer-importer/internal/importer"
)

// Server represents the MCP server instance
type Server struct {
	config    *config.Config
	service   *importer.Service
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP server instance
func NewServer(cfg *config.Config, service *importer.Service) (*Server, error) {
	if service == nil {
		return nil, fmt.Errorf("service cannot be nil")
	}

	mcpServer := server.NewMCPServer(
		cfg.ServerName,
		cfg.Version,
		server.WithToolCapabilities(false),
	)

	s := &Server{
		config:    cfg,
		service:   service,
		mcpServer: mcpServer,
	}
	s.registerTools()

	return s, nil
}

// registerTools registers all available MCP tools
func (s *Server) registerTools() {
	extractTool := mcp.NewTool(
		"offer_extract",
		mcp.WithDescription(descriptions.GetToolDescription("offer_extract")),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Path of the offer PDF, absolute or relative to the offer directory"),
		),
	)
	s.mcpServer.AddTool(extractTool, s.handleOfferExtract)

	importTool := mcp.NewTool(
		"offer_import",
		mcp.WithDescription(descriptions.GetToolDescription("offer_import")),
		mcp.WithString("template",
			mcp.Required(),
			mcp.Description("Comparison workbook template (.xlsx)"),
		),
		mcp.WithString("directory",
			mcp.Description("Folder of offer PDFs (uses default if empty)"),
		),
		mcp.WithString("output",
			mcp.Description("Output workbook (default <template>_filled.xlsx)"),
		),
	)
	s.mcpServer.AddTool(importTool, s.handleOfferImport)

	searchTool := mcp.NewTool(
		"offer_search_directory",
		mcp.WithDescription(descriptions.GetToolDescription("offer_search_directory")),
		mcp.WithString("directory",
			mcp.Description("Directory path to search (uses default if empty)"),
		),
		mcp.WithString("query",
			mcp.Description("Optional case-insensitive file name fragment"),
		),
		mcp.WithBoolean("validate",
			mcp.Description("Open each file to confirm it parses"),
		),
	)
	s.mcpServer.AddTool(searchTool, s.handleOfferSearchDirectory)

	infoTool := mcp.NewTool(
		"offer_server_info",
		mcp.WithDescription(descriptions.GetToolDescription("offer_server_info")),
	)
	s.mcpServer.AddTool(infoTool, s.handleOfferServerInfo)
}

// Handler functions
func (s *Server) handleOfferExtract(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.service.Extract(importer.ExtractRequest{Path: path})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	data, err := json.MarshalIndent(result.Fields, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encode fields: %v", err)), nil
	}

	responseText := fmt.Sprintf("Extracted %d field(s) from %s\n\n", result.Count, result.Path)
	responseText += string(data)
	return mcp.NewToolResultText(responseText), nil
}

func (s *Server) handleOfferImport(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	template, err := request.RequireString("template")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	args := request.GetArguments()

	req := importer.ImportRequest{
		Directory: s.config.OfferDirectory,
		Template:  template,
	}
	if dir, ok := args["directory"].(string); ok && dir != "" {
		req.Directory = dir
	}
	if out, ok := args["output"].(string); ok {
		req.Output = out
	}

	result, err := s.service.Import(ctx, req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(importer.FormatSummary(result)), nil
}

func (s *Server) handleOfferSearchDirectory(ctx context.Context, request mcp.CallToolRequest) (
	*mcp.CallToolResult, error,
) {
	args := request.GetArguments()

	req := importer.SearchRequest{Directory: s.config.OfferDirectory}
	if dir, ok := args["directory"].(string); ok && dir != "" {
		req.Directory = dir
	}
	if q, ok := args["query"].(string); ok {
		req.Query = q
	}
	if v, ok := args["validate"].(bool); ok {
		req.Validate = v
	}

	result, err := s.service.Search(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var responseText string
	if result.TotalCount == 0 {
		responseText = fmt.Sprintf("No offer PDFs found in directory: %s", result.Directory)
		if result.SearchQuery != "" {
			responseText += fmt.Sprintf(" (searched for: %s)", result.SearchQuery)
		}
	} else {
		responseText = formatSearchResult(result)
	}

	return mcp.NewToolResultText(responseText), nil
}

func (s *Server) handleOfferServerInfo(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	info := s.service.Info(s.config.ServerName, s.config.Version, descriptions.GetAllToolNames())
	return mcp.NewToolResultText(formatServerInfo(info)), nil
}

// Formatting helpers
func formatSearchResult(result *importer.SearchResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Found %d offer PDF(s) in directory: %s\n", result.TotalCount, result.Directory)
	if result.SearchQuery != "" {
		fmt.Fprintf(&b, "Search query: %s\n", result.SearchQuery)
	}
	b.WriteString("\nFiles:\n")

	for i, file := range result.Files {
		fmt.Fprintf(&b, "%d. %s\n", i+1, file.Name)
		fmt.Fprintf(&b, "   Path: %s\n", file.Path)
		fmt.Fprintf(&b, "   Size: %d bytes\n", file.Size)
		fmt.Fprintf(&b, "   Modified: %s\n", file.ModifiedTime)
		if file.Valid != nil {
			if *file.Valid {
				b.WriteString("   Valid: yes\n")
			} else {
				fmt.Fprintf(&b, "   Valid: no (%s)\n", file.Message)
			}
		}
		if i < len(result.Files)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func formatServerInfo(info *importer.ServerInfo) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s v%s - Server Information\n", info.Name, info.Version)
	fmt.Fprintf(&b, "Offer Directory: %s (%d offer PDF(s))\n", info.Directory, info.OfferCount)
	fmt.Fprintf(&b, "Max File Size: %d MB\n", info.MaxFileSize/(1024*1024))
	fmt.Fprintf(&b, "Workers: %d\n", info.Workers)
	fmt.Fprintf(&b, "Checkbox raster: %g DPI, empty above brightness %g\n\n", info.Resolution, info.Brightness)

	b.WriteString("Available Tools:\n")
	tools := append([]string(nil), info.Tools...)
	sort.Strings(tools)
	for _, name := range tools {
		desc := descriptions.GetToolDescription(name)
		if i := strings.IndexByte(desc, '\n'); i >= 0 {
			desc = desc[:i]
		}
		fmt.Fprintf(&b, "  • %s: %s\n", name, desc)
	}
	return b.String()
}

// Run serves the MCP tools over standard I/O until stdin closes
func (s *Server) Run(_ context.Context) error {
	if s.config.IsDebug() {
		log.Printf("Starting offer MCP server in stdio mode")
		log.Printf("Offer directory: %s", s.config.OfferDirectory)
	}

	if err := server.ServeStdio(s.mcpServer); err != nil {
		return fmt.Errorf("failed to serve stdio: %w", err)
	}
	return nil
}
