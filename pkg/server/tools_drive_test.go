package server

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entrhq/sigaa-mcp/pkg/drive"
)

func TestDriveToolsUnavailableWithoutService(t *testing.T) {
	s := newTestServer(t, &stubActor{}, nil, nil)

	res, err := s.handleDriveUpload(context.Background(), callRequest("drive_upload_file", map[string]interface{}{
		"file_path": "/tmp/x.pdf",
	}))
	require.NoError(t, err)
	out := decodeResult(t, res)
	assert.Equal(t, false, out["success"])
	assert.Equal(t, msgDriveUnavailable, out["error"])

	res, err = s.handleDriveList(context.Background(), callRequest("drive_list_files", nil))
	require.NoError(t, err)
	assert.Equal(t, msgDriveUnavailable, decodeResult(t, res)["error"])

	res, err = s.handleDriveDownload(context.Background(), callRequest("drive_download_base64", map[string]interface{}{
		"file_id": "abc",
	}))
	require.NoError(t, err)
	assert.Equal(t, msgDriveUnavailable, decodeResult(t, res)["error"])
}

func TestDriveUpload(t *testing.T) {
	d := &stubDrive{info: &drive.FileInfo{ID: "f1", Name: "doc.pdf", Link: drive.FileLink("f1")}}
	s := newTestServer(t, &stubActor{}, nil, d)

	res, err := s.handleDriveUpload(context.Background(), callRequest("drive_upload_file", map[string]interface{}{
		"file_path": "/downloads/doc.pdf",
	}))
	require.NoError(t, err)

	out := decodeResult(t, res)
	assert.Equal(t, true, out["success"])
	assert.Equal(t, []string{"/downloads/doc.pdf"}, d.uploadPaths)

	file, ok := out["file"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "f1", file["id"])
}

func TestDriveUploadRequiresFilePath(t *testing.T) {
	d := &stubDrive{}
	s := newTestServer(t, &stubActor{}, nil, d)

	res, err := s.handleDriveUpload(context.Background(), callRequest("drive_upload_file", nil))
	require.NoError(t, err)

	out := decodeResult(t, res)
	assert.Equal(t, false, out["success"])
	assert.Empty(t, d.uploadPaths)
}

func TestDriveUploadSurfacesErrorsStructurally(t *testing.T) {
	d := &stubDrive{err: errors.New("quota exceeded")}
	s := newTestServer(t, &stubActor{}, nil, d)

	res, err := s.handleDriveUpload(context.Background(), callRequest("drive_upload_file", map[string]interface{}{
		"file_path": "/downloads/doc.pdf",
	}))
	require.NoError(t, err, "domain failures are never protocol errors")

	out := decodeResult(t, res)
	assert.Equal(t, false, out["success"])
	assert.Contains(t, out["error"], "quota exceeded")
}

func TestDriveList(t *testing.T) {
	d := &stubDrive{files: []drive.FileInfo{{ID: "a"}, {ID: "b"}}}
	s := newTestServer(t, &stubActor{}, nil, d)

	res, err := s.handleDriveList(context.Background(), callRequest("drive_list_files", map[string]interface{}{
		"folder_id": "pasta-123",
	}))
	require.NoError(t, err)

	out := decodeResult(t, res)
	assert.Equal(t, true, out["success"])
	assert.Equal(t, float64(2), out["count"])
	assert.Equal(t, []string{"pasta-123"}, d.listFolders)
}

func TestDriveDownloadBase64(t *testing.T) {
	d := &stubDrive{content: "Y29udGV1ZG8="}
	s := newTestServer(t, &stubActor{}, nil, d)

	res, err := s.handleDriveDownload(context.Background(), callRequest("drive_download_base64", map[string]interface{}{
		"file_id": "f1",
	}))
	require.NoError(t, err)

	out := decodeResult(t, res)
	assert.Equal(t, true, out["success"])
	assert.Equal(t, "Y29udGV1ZG8=", out["content"])
}

func TestDriveDownloadAsDataURI(t *testing.T) {
	d := &stubDrive{dataURI: "data:application/pdf;base64,Y29udGV1ZG8="}
	s := newTestServer(t, &stubActor{}, nil, d)

	res, err := s.handleDriveDownload(context.Background(), callRequest("drive_download_base64", map[string]interface{}{
		"file_id":     "f1",
		"as_data_uri": true,
	}))
	require.NoError(t, err)

	out := decodeResult(t, res)
	assert.Equal(t, true, out["success"])
	assert.Equal(t, "data:application/pdf;base64,Y29udGV1ZG8=", out["data_uri"])
}
