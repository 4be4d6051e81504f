package drive

import (
	"context"
	"encoding/base64"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entrhq/sigaa-mcp/pkg/config"
)

type fakeAPI struct {
	created  []FileInfo
	lastName string
	lastDir  string
	lastMime string
	lastData []byte

	listFiles []FileInfo
	content   []byte
	mimeType  string

	err error
}

func (f *fakeAPI) Create(_ context.Context, name, folderID, mimeType string, data io.Reader) (*FileInfo, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.lastName = name
	f.lastDir = folderID
	f.lastMime = mimeType
	f.lastData, _ = io.ReadAll(data)
	info := FileInfo{ID: "file-1", Name: name, MimeType: mimeType, Link: FileLink("file-1")}
	f.created = append(f.created, info)
	return &info, nil
}

func (f *fakeAPI) List(_ context.Context, folderID string) ([]FileInfo, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.lastDir = folderID
	return f.listFiles, nil
}

func (f *fakeAPI) Download(_ context.Context, _ string) ([]byte, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.content, nil
}

func (f *fakeAPI) MimeType(_ context.Context, _ string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.mimeType, nil
}

func newTestService(api api) *Service {
	return &Service{api: api, folderID: "folder-abc"}
}

func TestUploadFileDefaultsNameAndFolder(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "historico_academico_20240115_093000.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4"), 0o644))

	api := &fakeAPI{}
	svc := newTestService(api)

	info, err := svc.UploadFile(context.Background(), path, "", "", "application/pdf")
	require.NoError(t, err)

	assert.Equal(t, "historico_academico_20240115_093000.pdf", api.lastName)
	assert.Equal(t, "folder-abc", api.lastDir)
	assert.Equal(t, []byte("%PDF-1.4"), api.lastData)
	assert.Equal(t, "https://drive.google.com/file/d/file-1/view", info.Link)
}

func TestUploadFileMissingPath(t *testing.T) {
	svc := newTestService(&fakeAPI{})

	_, err := svc.UploadFile(context.Background(), filepath.Join(t.TempDir(), "nope.pdf"), "", "", "")
	assert.Error(t, err)
}

func TestUploadBytesDefaultsMimeType(t *testing.T) {
	api := &fakeAPI{}
	svc := newTestService(api)

	info, err := svc.UploadBytes(context.Background(), []byte{0x01, 0x02}, "dados.bin", "", "")
	require.NoError(t, err)

	assert.Equal(t, "application/octet-stream", api.lastMime)
	assert.Equal(t, "dados.bin", info.Name)
}

func TestUploadImagesNumbersAndSkipsFailures(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "captura_a.png")
	missing := filepath.Join(dir, "nao_existe.png")
	third := filepath.Join(dir, "captura_b.png")
	require.NoError(t, os.WriteFile(first, []byte("png"), 0o644))
	require.NoError(t, os.WriteFile(third, []byte("png"), 0o644))

	api := &fakeAPI{}
	svc := newTestService(api)

	uploaded := svc.UploadImages(context.Background(), []string{first, missing, third}, "sigaa_notas_20240115_093000")

	require.Len(t, uploaded, 2, "the unreadable path is skipped")
	assert.Equal(t, "sigaa_notas_20240115_093000_1.png", uploaded[0].Name)
	assert.Equal(t, "sigaa_notas_20240115_093000_3.png", uploaded[1].Name)
	assert.Equal(t, "image/png", api.lastMime)
}

func TestListFolderUsesConfiguredDefault(t *testing.T) {
	api := &fakeAPI{listFiles: []FileInfo{{ID: "a", Name: "x.pdf"}}}
	svc := newTestService(api)

	files, err := svc.ListFolder(context.Background(), "")
	require.NoError(t, err)

	assert.Equal(t, "folder-abc", api.lastDir)
	assert.Len(t, files, 1)
}

func TestDownloadBase64(t *testing.T) {
	api := &fakeAPI{content: []byte("conteudo do arquivo")}
	svc := newTestService(api)

	encoded, err := svc.DownloadBase64(context.Background(), "file-1")
	require.NoError(t, err)

	decoded, err := base64.StdEncoding.DecodeString(encoded)
	require.NoError(t, err)
	assert.Equal(t, "conteudo do arquivo", string(decoded))
}

func TestDownloadDataURI(t *testing.T) {
	api := &fakeAPI{content: []byte("abc"), mimeType: "application/pdf"}
	svc := newTestService(api)

	uri, err := svc.DownloadDataURI(context.Background(), "file-1")
	require.NoError(t, err)

	assert.Equal(t, "data:application/pdf;base64,"+base64.StdEncoding.EncodeToString([]byte("abc")), uri)
}

func TestDownloadDataURIPropagatesErrors(t *testing.T) {
	api := &fakeAPI{err: errors.New("boom")}
	svc := newTestService(api)

	_, err := svc.DownloadDataURI(context.Background(), "file-1")
	assert.Error(t, err)
}

func TestIsConfigured(t *testing.T) {
	dir := t.TempDir()
	secrets := filepath.Join(dir, "client_secrets.json")

	cfg := &config.Config{DriveClientSecretsPath: secrets, DriveFolderID: "folder-abc"}
	assert.False(t, IsConfigured(cfg), "secrets file absent")

	require.NoError(t, os.WriteFile(secrets, []byte("{}"), 0o600))
	assert.True(t, IsConfigured(cfg))

	cfg.DriveFolderID = ""
	assert.False(t, IsConfigured(cfg), "folder id absent")
}

func TestReadTokenErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := readToken(filepath.Join(dir, "token.json"))
	assert.Error(t, err)

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("not json"), 0o600))
	_, err = readToken(bad)
	assert.Error(t, err)
}
