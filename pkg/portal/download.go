package portal

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/gobwas/glob"
)

// documentPhrases maps document-type tokens to the search phrase used to
// find the control that produces them. Unknown tokens are passed through
// verbatim, permissive by design.
var documentPhrases = map[string]string{
	"historico_academico":   "histórico acadêmico",
	"comprovante_matricula": "comprovante de matrícula",
	"atestado_matricula":    "atestado de matrícula",
	"diploma":               "diploma",
	"ira":                   "índice de rendimento (IRA)",
}

// DocumentPhrase resolves a document type to its descriptive search
// phrase, returning the token itself when it is unknown.
func DocumentPhrase(docType string) string {
	if phrase, ok := documentPhrases[docType]; ok {
		return phrase
	}
	return docType
}

// DownloadWatcher polls directories for a file matching the wanted
// extension whose modification time falls within the recency window.
// The portal offers no download-complete event, so a fresh file in the
// watched directories is the only signal that the click produced one.
// A concurrent unrelated download inside the window would be
// misattributed; callers must serialize document requests per session,
// which the Manager's mutex enforces.
type DownloadWatcher struct {
	Dirs     []string
	Window   time.Duration
	Interval time.Duration
	Timeout  time.Duration

	now fileClock
}

// NewDownloadWatcher builds a watcher over the given directories.
func NewDownloadWatcher(dirs []string, window, interval, timeout time.Duration) *DownloadWatcher {
	return &DownloadWatcher{
		Dirs:     dirs,
		Window:   window,
		Interval: interval,
		Timeout:  timeout,
		now:      time.Now,
	}
}

// Wait polls until a qualifying file appears or the timeout elapses.
// It returns the most recent qualifying path. The format string comes
// straight from the caller; one that does not form a valid pattern
// matches nothing instead of faulting.
func (w *DownloadWatcher) Wait(ctx context.Context, format string) (string, bool) {
	pattern, err := glob.Compile("*." + format)
	if err != nil {
		return "", false
	}
	deadline := w.now().Add(w.Timeout)

	for {
		if path, ok := w.scan(pattern); ok {
			return path, true
		}
		if w.now().After(deadline) {
			return "", false
		}
		select {
		case <-ctx.Done():
			return "", false
		case <-time.After(w.Interval):
		}
	}
}

// scan returns the newest file matching the pattern whose mtime is
// within the recency window, across all watched directories.
func (w *DownloadWatcher) scan(pattern glob.Glob) (string, bool) {
	var newest string
	var newestTime time.Time
	cutoff := w.now().Add(-w.Window)

	for _, dir := range w.Dirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			if entry.IsDir() || !pattern.Match(entry.Name()) {
				continue
			}
			info, err := entry.Info()
			if err != nil {
				continue
			}
			mtime := info.ModTime()
			if mtime.Before(cutoff) {
				continue
			}
			if mtime.After(newestTime) {
				newestTime = mtime
				newest = filepath.Join(dir, entry.Name())
			}
		}
	}

	return newest, newest != ""
}

// FetchDocument drives the session to the control that produces the
// requested document, waits for the file to land on disk and moves it to
// the canonical download directory under a timestamped name.
func (m *Manager) FetchDocument(ctx context.Context, req DocumentRequest) DownloadResult {
	m.mu.Lock()
	defer m.mu.Unlock()

	if req.Format == "" {
		req.Format = "pdf"
	}

	if !m.loggedIn || m.page == nil {
		return DownloadResult{
			Success:      false,
			DocumentType: req.DocumentType,
			Error:        "Não está logado no SIGAA.",
		}
	}

	phrase := DocumentPhrase(req.DocumentType)
	m.log.Infof("fetching document %q (phrase %q)", req.DocumentType, phrase)

	purpose := fmt.Sprintf("link to generate or download the document '%s' as %s", phrase, req.Format)
	if req.Semester != "" {
		purpose += fmt.Sprintf(" for the period %s", req.Semester)
	}

	err := m.clickIntentLocked(ctx, Intent{
		Purpose:   purpose,
		Selectors: []string{fmt.Sprintf("a:has-text(%q)", phrase)},
	})
	if err != nil {
		return DownloadResult{Success: false, DocumentType: req.DocumentType, Error: err.Error()}
	}

	watcher := NewDownloadWatcher(m.cfg.DownloadDirs(), m.cfg.RecencyWindow, m.cfg.PollInterval, m.cfg.DownloadTimeout)
	watcher.now = m.now

	path, ok := watcher.Wait(ctx, req.Format)
	if !ok {
		return DownloadResult{
			Success:      false,
			DocumentType: req.DocumentType,
			Error:        fmt.Sprintf("Não foi possível confirmar o download do documento: %s", req.DocumentType),
		}
	}

	filename := fmt.Sprintf("%s_%s.%s", req.DocumentType, m.now().Format("20060102_150405"), req.Format)
	finalPath := filepath.Join(m.cfg.DownloadDir, filename)
	if err := moveFile(path, finalPath); err != nil {
		return DownloadResult{Success: false, DocumentType: req.DocumentType, Error: err.Error()}
	}

	m.log.Infof("document %q saved to %s", req.DocumentType, finalPath)
	return DownloadResult{
		Success:      true,
		DocumentType: req.DocumentType,
		FilePath:     finalPath,
		Filename:     filename,
	}
}

// moveFile renames src to dst, falling back to copy+remove when the
// paths are on different filesystems.
func moveFile(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}

	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to move download: %w", err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("failed to move download: %w", err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("failed to move download: %w", err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("failed to move download: %w", err)
	}
	return os.Remove(src)
}
