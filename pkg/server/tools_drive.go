package server

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

const msgDriveUnavailable = "Google Drive não configurado. Defina DRIVE_CLIENT_SECRETS_PATH, DRIVE_TOKEN_PATH e DRIVE_FOLDER_ID"

func (s *Server) registerDriveTools() {
	s.mcp.AddTool(mcp.NewTool(
		"drive_upload_file",
		mcp.WithDescription("Envia um arquivo local para a pasta configurada no Google Drive."),
		mcp.WithString("file_path",
			mcp.Description("Caminho do arquivo local"),
			mcp.Required(),
		),
		mcp.WithString("name", mcp.Description("Nome no Drive (padrão: nome original do arquivo)")),
		mcp.WithString("folder_id", mcp.Description("ID da pasta destino (padrão: pasta configurada)")),
		mcp.WithString("mime_type", mcp.Description("MIME type (padrão: detectado pelo Drive)")),
	), s.handleDriveUpload)

	s.mcp.AddTool(mcp.NewTool(
		"drive_list_files",
		mcp.WithDescription("Lista os arquivos de uma pasta do Google Drive."),
		mcp.WithString("folder_id", mcp.Description("ID da pasta (padrão: pasta configurada)")),
	), s.handleDriveList)

	s.mcp.AddTool(mcp.NewTool(
		"drive_download_base64",
		mcp.WithDescription("Baixa um arquivo do Google Drive e retorna o conteúdo em base64."),
		mcp.WithString("file_id",
			mcp.Description("ID do arquivo no Drive"),
			mcp.Required(),
		),
		mcp.WithBoolean("as_data_uri", mcp.Description("Retornar como data URI com o MIME type do arquivo")),
	), s.handleDriveDownload)
}

func (s *Server) handleDriveUpload(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if s.drive == nil {
		return failure(msgDriveUnavailable)
	}
	args := req.Params.Arguments

	path := argString(args, "file_path", "")
	if path == "" {
		return failure("Parâmetro 'file_path' é obrigatório")
	}

	info, err := s.drive.UploadFile(ctx,
		path,
		argString(args, "name", ""),
		argString(args, "folder_id", ""),
		argString(args, "mime_type", ""),
	)
	if err != nil {
		return failure("Falha no upload para o Drive: " + err.Error())
	}

	return jsonResult(map[string]interface{}{
		"success": true,
		"file":    info,
	})
}

func (s *Server) handleDriveList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if s.drive == nil {
		return failure(msgDriveUnavailable)
	}

	files, err := s.drive.ListFolder(ctx, argString(req.Params.Arguments, "folder_id", ""))
	if err != nil {
		return failure("Falha ao listar arquivos do Drive: " + err.Error())
	}

	return jsonResult(map[string]interface{}{
		"success": true,
		"files":   files,
		"count":   len(files),
	})
}

func (s *Server) handleDriveDownload(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if s.drive == nil {
		return failure(msgDriveUnavailable)
	}
	args := req.Params.Arguments

	fileID := argString(args, "file_id", "")
	if fileID == "" {
		return failure("Parâmetro 'file_id' é obrigatório")
	}

	if argBool(args, "as_data_uri", false) {
		uri, err := s.drive.DownloadDataURI(ctx, fileID)
		if err != nil {
			return failure("Falha no download do Drive: " + err.Error())
		}
		return jsonResult(map[string]interface{}{
			"success":  true,
			"file_id":  fileID,
			"data_uri": uri,
		})
	}

	content, err := s.drive.DownloadBase64(ctx, fileID)
	if err != nil {
		return failure("Falha no download do Drive: " + err.Error())
	}
	return jsonResult(map[string]interface{}{
		"success": true,
		"file_id": fileID,
		"content": content,
	})
}
