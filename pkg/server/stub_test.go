package server

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/require"

	"github.com/entrhq/sigaa-mcp/pkg/config"
	"github.com/entrhq/sigaa-mcp/pkg/drive"
	"github.com/entrhq/sigaa-mcp/pkg/logging"
	"github.com/entrhq/sigaa-mcp/pkg/portal"
)

// stubActor records tool-handler calls and replays canned results.
type stubActor struct {
	loggedIn bool

	loginResult    portal.LoginResult
	logoutResult   portal.LogoutResult
	statusResult   portal.StatusResult
	navResult      portal.NavigationResult
	extractResult  portal.ExtractionResult
	downloadResult portal.DownloadResult
	taskResult     portal.TaskResult
	notifResult    portal.NotificationsResult
	schedResult    portal.ScheduleResult

	loginCalls    []loginCall
	navCalls      []string
	extractKinds  []string
	fetchCalls    []portal.DocumentRequest
	taskCalls     []taskCall
	shotPrefixes  []string
	cleanupCalls  int
	logoutCalls   int
	notifCalls    int
	scheduleCalls int
}

type loginCall struct {
	username string
	password string
	forceNew bool
}

type taskCall struct {
	task     string
	maxSteps int
	extract  bool
}

func (a *stubActor) Login(_ context.Context, username, password string, forceNew bool) portal.LoginResult {
	a.loginCalls = append(a.loginCalls, loginCall{username, password, forceNew})
	if a.loginResult.Success {
		a.loggedIn = true
	}
	return a.loginResult
}

func (a *stubActor) IsLoggedIn() bool { return a.loggedIn }

func (a *stubActor) Logout(_ context.Context) portal.LogoutResult {
	a.logoutCalls++
	a.loggedIn = false
	return a.logoutResult
}

func (a *stubActor) Status() portal.StatusResult { return a.statusResult }

func (a *stubActor) Cleanup() {
	a.cleanupCalls++
	a.loggedIn = false
}

func (a *stubActor) NavigateSection(_ context.Context, section string) portal.NavigationResult {
	a.navCalls = append(a.navCalls, section)
	return a.navResult
}

func (a *stubActor) extract(kind string) portal.ExtractionResult {
	a.extractKinds = append(a.extractKinds, kind)
	return a.extractResult
}

func (a *stubActor) ExtractGrades(context.Context) portal.ExtractionResult {
	return a.extract("grades")
}

func (a *stubActor) ExtractTranscript(context.Context) portal.ExtractionResult {
	return a.extract("transcript")
}

func (a *stubActor) ExtractEnrollment(context.Context) portal.ExtractionResult {
	return a.extract("enrollment")
}

func (a *stubActor) ExtractGeneral(context.Context) portal.ExtractionResult {
	return a.extract("general")
}

func (a *stubActor) TakeScreenshot(prefix string) string {
	a.shotPrefixes = append(a.shotPrefixes, prefix)
	return "/tmp/screenshots/" + prefix + ".png"
}

func (a *stubActor) FetchDocument(_ context.Context, req portal.DocumentRequest) portal.DownloadResult {
	a.fetchCalls = append(a.fetchCalls, req)
	return a.downloadResult
}

func (a *stubActor) RunCustomTask(_ context.Context, task string, maxSteps int, extractData bool) portal.TaskResult {
	a.taskCalls = append(a.taskCalls, taskCall{task, maxSteps, extractData})
	return a.taskResult
}

func (a *stubActor) GetNotifications(context.Context) portal.NotificationsResult {
	a.notifCalls++
	return a.notifResult
}

func (a *stubActor) GetClassSchedule(context.Context) portal.ScheduleResult {
	a.scheduleCalls++
	return a.schedResult
}

// stubExtractor replays a fixed text extraction outcome.
type stubExtractor struct {
	text  string
	ok    bool
	paths []string
}

func (e *stubExtractor) Extract(path string) (string, bool) {
	e.paths = append(e.paths, path)
	return e.text, e.ok
}

// stubDrive replays canned Drive outcomes.
type stubDrive struct {
	info    *drive.FileInfo
	files   []drive.FileInfo
	content string
	dataURI string
	err     error

	uploadPaths []string
	listFolders []string
}

func (d *stubDrive) UploadFile(_ context.Context, path, name, folderID, mimeType string) (*drive.FileInfo, error) {
	d.uploadPaths = append(d.uploadPaths, path)
	return d.info, d.err
}

func (d *stubDrive) ListFolder(_ context.Context, folderID string) ([]drive.FileInfo, error) {
	d.listFolders = append(d.listFolders, folderID)
	return d.files, d.err
}

func (d *stubDrive) DownloadBase64(context.Context, string) (string, error) {
	return d.content, d.err
}

func (d *stubDrive) DownloadDataURI(context.Context, string) (string, error) {
	return d.dataURI, d.err
}

func newTestServer(t *testing.T, actor Actor, extractor TextExtractor, driveSvc DriveService) *Server {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	cfg := &config.Config{
		Username: "aluno",
		Password: "senha",
	}
	// The shared log path latches on the first NewLogger call of the
	// process; later tests get the stderr fallback, which is fine here.
	log, _ := logging.NewLogger("test")
	t.Cleanup(func() { log.Close() })

	return New(cfg, actor, extractor, driveSvc, log)
}

func callRequest(name string, args map[string]interface{}) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args
	return req
}

// decodeResult unmarshals a handler's JSON text payload.
func decodeResult(t *testing.T, res *mcp.CallToolResult) map[string]interface{} {
	t.Helper()
	require.NotNil(t, res)
	require.NotEmpty(t, res.Content)

	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content")

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(text.Text), &out))
	return out
}
