// Package server exposes the portal session as an MCP tool surface.
//
// Every tool returns a structured JSON result with at least a success
// flag; domain failures are encoded in the result, never surfaced as
// protocol-level errors, so tool-calling clients can always inspect
// the outcome.
package server

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/server"

	"github.com/entrhq/sigaa-mcp/pkg/config"
	"github.com/entrhq/sigaa-mcp/pkg/drive"
	"github.com/entrhq/sigaa-mcp/pkg/logging"
	"github.com/entrhq/sigaa-mcp/pkg/portal"
)

// Version is reported to MCP clients during initialization.
const Version = "1.0.0"

const serverName = "SIGAA UFPA MCP Server"

// Actor is the slice of the portal session the tool handlers drive.
// Satisfied by *portal.Manager; substituted by a mock in tests.
type Actor interface {
	Login(ctx context.Context, username, password string, forceNew bool) portal.LoginResult
	IsLoggedIn() bool
	Logout(ctx context.Context) portal.LogoutResult
	Status() portal.StatusResult
	Cleanup()

	NavigateSection(ctx context.Context, section string) portal.NavigationResult
	ExtractGrades(ctx context.Context) portal.ExtractionResult
	ExtractTranscript(ctx context.Context) portal.ExtractionResult
	ExtractEnrollment(ctx context.Context) portal.ExtractionResult
	ExtractGeneral(ctx context.Context) portal.ExtractionResult
	TakeScreenshot(prefix string) string

	FetchDocument(ctx context.Context, req portal.DocumentRequest) portal.DownloadResult
	RunCustomTask(ctx context.Context, task string, maxSteps int, extractData bool) portal.TaskResult
	GetNotifications(ctx context.Context) portal.NotificationsResult
	GetClassSchedule(ctx context.Context) portal.ScheduleResult
}

// TextExtractor recovers plain text from a downloaded document.
// Satisfied by *pdf.Extractor.
type TextExtractor interface {
	Extract(path string) (string, bool)
}

// DriveService is the cloud-storage collaborator consumed by the
// drive_* tools. Satisfied by *drive.Service; nil when unconfigured.
type DriveService interface {
	UploadFile(ctx context.Context, path, name, folderID, mimeType string) (*drive.FileInfo, error)
	ListFolder(ctx context.Context, folderID string) ([]drive.FileInfo, error)
	DownloadBase64(ctx context.Context, fileID string) (string, error)
	DownloadDataURI(ctx context.Context, fileID string) (string, error)
}

// Server wires the session manager, text extractor and drive
// collaborator into a set of MCP tools.
type Server struct {
	cfg       *config.Config
	actor     Actor
	extractor TextExtractor
	drive     DriveService
	log       *logging.Logger
	mcp       *server.MCPServer
}

// New builds the server and registers all tools. extractor and
// driveSvc may be nil; the corresponding enrichment or tools then
// report themselves unavailable instead of failing.
func New(cfg *config.Config, actor Actor, extractor TextExtractor, driveSvc DriveService, log *logging.Logger) *Server {
	s := &Server{
		cfg:       cfg,
		actor:     actor,
		extractor: extractor,
		drive:     driveSvc,
		log:       log,
		mcp:       server.NewMCPServer(serverName, Version),
	}
	s.registerPortalTools()
	s.registerDriveTools()
	return s
}

// Serve blocks running the configured transport. Unknown transport
// values fall back to stdio, the safe default for MCP clients.
func (s *Server) Serve() error {
	switch s.cfg.Transport {
	case config.TransportHTTP:
		s.log.Infof("starting MCP server on %s (sse)", s.cfg.HTTPAddr)
		sse := server.NewSSEServer(s.mcp, server.WithBaseURL(fmt.Sprintf("http://%s", s.cfg.HTTPAddr)))
		return sse.Start(s.cfg.HTTPAddr)
	case config.TransportStdio:
		s.log.Infof("starting MCP server on stdio")
	default:
		s.log.Errorf("unknown transport %q, falling back to stdio", s.cfg.Transport)
	}
	return server.ServeStdio(s.mcp)
}
