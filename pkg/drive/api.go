package drive

import (
	"bytes"
	"context"
	"fmt"
	"io"

	drivev3 "google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
)

func bytesReader(data []byte) io.Reader {
	return bytes.NewReader(data)
}

// driveAPI is the production implementation of api backed by the real
// Drive v3 client.
type driveAPI struct {
	svc *drivev3.Service
}

func (a *driveAPI) Create(ctx context.Context, name, folderID, mimeType string, data io.Reader) (*FileInfo, error) {
	meta := &drivev3.File{Name: name}
	if folderID != "" {
		meta.Parents = []string{folderID}
	}

	call := a.svc.Files.Create(meta).
		Context(ctx).
		Fields("id, name, mimeType")
	if mimeType != "" {
		call = call.Media(data, googleapi.ContentType(mimeType))
	} else {
		call = call.Media(data)
	}

	created, err := call.Do()
	if err != nil {
		return nil, err
	}
	return &FileInfo{
		ID:       created.Id,
		Name:     created.Name,
		MimeType: created.MimeType,
		Link:     FileLink(created.Id),
	}, nil
}

func (a *driveAPI) List(ctx context.Context, folderID string) ([]FileInfo, error) {
	query := fmt.Sprintf("'%s' in parents and trashed=false", folderID)
	res, err := a.svc.Files.List().
		Context(ctx).
		Q(query).
		Fields("files(id, name, mimeType)").
		Do()
	if err != nil {
		return nil, err
	}

	files := make([]FileInfo, 0, len(res.Files))
	for _, f := range res.Files {
		files = append(files, FileInfo{
			ID:       f.Id,
			Name:     f.Name,
			MimeType: f.MimeType,
			Link:     FileLink(f.Id),
		})
	}
	return files, nil
}

func (a *driveAPI) Download(ctx context.Context, fileID string) ([]byte, error) {
	res, err := a.svc.Files.Get(fileID).Context(ctx).Download()
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	return io.ReadAll(res.Body)
}

func (a *driveAPI) MimeType(ctx context.Context, fileID string) (string, error) {
	f, err := a.svc.Files.Get(fileID).Context(ctx).Fields("mimeType").Do()
	if err != nil {
		return "", err
	}
	return f.MimeType, nil
}
