package server

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/entrhq/sigaa-mcp/pkg/portal"
)

const (
	msgMissingCredentials = "Credenciais não fornecidas. Configure SIGAA_USERNAME e SIGAA_PASSWORD no .env"
	msgAutoLoginFailed    = "Não foi possível fazer login"
)

// textPreviewLimit caps the extracted-text enrichment attached to
// download results so tool responses stay small.
const textPreviewLimit = 2000

func (s *Server) registerPortalTools() {
	s.mcp.AddTool(mcp.NewTool(
		"sigaa_login",
		mcp.WithDescription("Faz login no SIGAA UFPA usando as credenciais fornecidas ou do ambiente."),
		mcp.WithString("username", mcp.Description("Nome de usuário (opcional, usa o ambiente se não fornecido)")),
		mcp.WithString("password", mcp.Description("Senha (opcional, usa o ambiente se não fornecida)")),
		mcp.WithBoolean("force_new_session", mcp.Description("Forçar nova sessão mesmo se já logado")),
	), s.handleLogin)

	s.mcp.AddTool(mcp.NewTool(
		"sigaa_navigate_and_extract",
		mcp.WithDescription("Navega para uma seção específica do SIGAA e extrai informações."),
		mcp.WithString("section",
			mcp.Description("Seção do SIGAA (exemplo: 'notas', 'historico', 'matricula')"),
			mcp.Required(),
		),
		mcp.WithBoolean("extract_data", mcp.Description("Se deve extrair dados estruturados (padrão: true)")),
		mcp.WithBoolean("take_screenshot", mcp.Description("Se deve capturar screenshot (padrão: true)")),
	), s.handleNavigateAndExtract)

	s.mcp.AddTool(mcp.NewTool(
		"sigaa_download_document",
		mcp.WithDescription("Baixa documentos do SIGAA como histórico acadêmico, comprovantes, etc."),
		mcp.WithString("document_type",
			mcp.Description("Tipo de documento (historico_academico, comprovante_matricula, etc)"),
			mcp.Required(),
		),
		mcp.WithString("format", mcp.Description("Formato do documento (padrão: pdf)")),
		mcp.WithString("semester", mcp.Description("Semestre específico se aplicável (ex: 2024.1)")),
	), s.handleDownloadDocument)

	s.mcp.AddTool(mcp.NewTool(
		"sigaa_custom_task",
		mcp.WithDescription("Executa uma tarefa personalizada no SIGAA usando IA."),
		mcp.WithString("task",
			mcp.Description("Descrição da tarefa em linguagem natural"),
			mcp.Required(),
		),
		mcp.WithNumber("max_steps", mcp.Description("Número máximo de passos (padrão: 20)")),
		mcp.WithBoolean("return_structured_data", mcp.Description("Se deve tentar extrair dados estruturados (padrão: true)")),
	), s.handleCustomTask)

	s.mcp.AddTool(mcp.NewTool(
		"sigaa_get_notifications",
		mcp.WithDescription("Obtém notificações e avisos do SIGAA."),
	), s.handleGetNotifications)

	s.mcp.AddTool(mcp.NewTool(
		"sigaa_get_class_schedule",
		mcp.WithDescription("Obtém o horário de aulas atual do aluno."),
	), s.handleGetClassSchedule)

	s.mcp.AddTool(mcp.NewTool(
		"sigaa_check_status",
		mcp.WithDescription("Verifica o status da sessão SIGAA e informações básicas."),
	), s.handleCheckStatus)

	s.mcp.AddTool(mcp.NewTool(
		"sigaa_logout",
		mcp.WithDescription("Faz logout do SIGAA e limpa a sessão."),
	), s.handleLogout)

	s.mcp.AddTool(mcp.NewTool(
		"sigaa_reset_session",
		mcp.WithDescription("Descarta a sessão atual do navegador sem fazer logout no portal."),
	), s.handleResetSession)
}

func (s *Server) handleLogin(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.Params.Arguments

	username := argString(args, "username", s.cfg.Username)
	password := argString(args, "password", s.cfg.Password)
	forceNew := argBool(args, "force_new_session", false)

	if username == "" || password == "" {
		return jsonResult(portal.LoginResult{
			Success:  false,
			Error:    msgMissingCredentials,
			LoggedIn: false,
		})
	}

	result := s.actor.Login(ctx, username, password, forceNew)
	s.log.Infof("login attempt result: %v", result.Success)
	return jsonResult(result)
}

// ensureLoggedIn attempts an environment-credential login when no
// session is active. Returns false with a message when it cannot.
func (s *Server) ensureLoggedIn(ctx context.Context) (bool, string) {
	if s.actor.IsLoggedIn() {
		return true, ""
	}
	if !s.cfg.HasCredentials() {
		return false, msgMissingCredentials
	}
	result := s.actor.Login(ctx, s.cfg.Username, s.cfg.Password, false)
	if !result.Success {
		return false, msgAutoLoginFailed
	}
	return true, ""
}

type navigateResponse struct {
	portal.NavigationResult
	ExtractedData *portal.ExtractionResult `json:"extracted_data,omitempty"`
	Screenshot    string                   `json:"screenshot,omitempty"`
}

func (s *Server) handleNavigateAndExtract(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.Params.Arguments

	section := argString(args, "section", "")
	if section == "" {
		return failure("Parâmetro 'section' é obrigatório")
	}
	extractData := argBool(args, "extract_data", true)
	takeScreenshot := argBool(args, "take_screenshot", true)

	if ok, msg := s.ensureLoggedIn(ctx); !ok {
		return jsonResult(portal.NavigationResult{Success: false, Section: section, Error: msg})
	}

	resp := navigateResponse{NavigationResult: s.actor.NavigateSection(ctx, section)}

	if resp.Success && extractData {
		var extracted portal.ExtractionResult
		switch strings.ToLower(section) {
		case "notas", "grades":
			extracted = s.actor.ExtractGrades(ctx)
		case "historico", "history":
			extracted = s.actor.ExtractTranscript(ctx)
		case "matricula", "enrollment":
			extracted = s.actor.ExtractEnrollment(ctx)
		default:
			extracted = s.actor.ExtractGeneral(ctx)
		}
		resp.ExtractedData = &extracted
	}

	if takeScreenshot {
		resp.Screenshot = s.actor.TakeScreenshot("sigaa_" + section)
	}

	return jsonResult(resp)
}

func (s *Server) handleDownloadDocument(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.Params.Arguments

	docType := argString(args, "document_type", "")
	if docType == "" {
		return failure("Parâmetro 'document_type' é obrigatório")
	}
	format := argString(args, "format", "pdf")
	semester := argString(args, "semester", "")

	if ok, msg := s.ensureLoggedIn(ctx); !ok {
		return jsonResult(portal.DownloadResult{Success: false, DocumentType: docType, Error: msg})
	}

	result := s.actor.FetchDocument(ctx, portal.DocumentRequest{
		DocumentType: docType,
		Format:       format,
		Semester:     semester,
	})

	// Extracted text is optional enrichment; its absence never fails
	// the download.
	if result.Success && result.FilePath != "" && format == "pdf" && s.extractor != nil {
		if text, ok := s.extractor.Extract(result.FilePath); ok {
			result.TextContent = truncate(text, textPreviewLimit)
		} else {
			s.log.Warnf("could not extract text from %s", result.FilePath)
		}
	}

	return jsonResult(result)
}

func (s *Server) handleCustomTask(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.Params.Arguments

	task := argString(args, "task", "")
	if task == "" {
		return failure("Parâmetro 'task' é obrigatório")
	}
	maxSteps := argInt(args, "max_steps", portal.DefaultMaxSteps)
	structured := argBool(args, "return_structured_data", true)

	if ok, msg := s.ensureLoggedIn(ctx); !ok {
		return jsonResult(portal.TaskResult{Success: false, Task: task, Error: msg})
	}

	return jsonResult(s.actor.RunCustomTask(ctx, task, maxSteps, structured))
}

func (s *Server) handleGetNotifications(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if ok, msg := s.ensureLoggedIn(ctx); !ok {
		return failure(msg)
	}
	return jsonResult(s.actor.GetNotifications(ctx))
}

func (s *Server) handleGetClassSchedule(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if ok, msg := s.ensureLoggedIn(ctx); !ok {
		return failure(msg)
	}
	return jsonResult(s.actor.GetClassSchedule(ctx))
}

func (s *Server) handleCheckStatus(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(s.actor.Status())
}

func (s *Server) handleLogout(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result := s.actor.Logout(ctx)
	s.actor.Cleanup()
	return jsonResult(result)
}

func (s *Server) handleResetSession(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.actor.Cleanup()
	return jsonResult(map[string]interface{}{
		"success": true,
		"message": "Sessão reiniciada com sucesso.",
	})
}

// truncate cuts s to at most limit bytes, backing up so it never
// splits a multi-byte rune.
func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	for limit > 0 && !utf8.RuneStart(s[limit]) {
		limit--
	}
	return s[:limit]
}
