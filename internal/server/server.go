// Package server is the web front end: one page with a document uploader, a
// question form, and the growing chat transcript. All pipeline errors are
// converted to user-visible status text here; nothing crashes the session.
package server

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/embeddings"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"pdf-chat/internal/config"
	"pdf-chat/internal/engine"
	"pdf-chat/internal/extractor"
	"pdf-chat/internal/llmservice"
	"pdf-chat/internal/models"
	"pdf-chat/internal/session"
	"pdf-chat/internal/splitter"
	"pdf-chat/internal/vectordb"
)

const sessionCookie = "session_id"

type Server struct {
	cfg      *config.Config
	embedder embeddings.Embedder
	chat     llmservice.Model
	sessions *session.Manager
	tmpl     *template.Template
	markdown goldmark.Markdown
	handler  http.Handler
}

func New(cfg *config.Config, embedder embeddings.Embedder, chat llmservice.Model) *Server {
	s := &Server{
		cfg:      cfg,
		embedder: embedder,
		chat:     chat,
		sessions: session.NewManager(),
		tmpl:     template.Must(template.New("page").Parse(pageTemplate)),
		markdown: goldmark.New(goldmark.WithExtensions(extension.GFM)),
	}
	s.handler = s.routes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/process", s.handleProcess)
	mux.HandleFunc("/ask", s.handleAsk)
	mux.HandleFunc("/healthz", s.handleHealth)
	return mux
}

// ensureSession resolves the browser session from the cookie, creating a new
// one on first contact.
func (s *Server) ensureSession(w http.ResponseWriter, r *http.Request) *session.Session {
	var id string
	if c, err := r.Cookie(sessionCookie); err == nil {
		id = c.Value
	}
	newID, sess := s.sessions.Get(id)
	if newID != id {
		http.SetCookie(w, &http.Cookie{
			Name:     sessionCookie,
			Value:    newID,
			Path:     "/",
			HttpOnly: true,
		})
	}
	return sess
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintln(w, "ok")
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}

	sess := s.ensureSession(w, r)
	sess.Mu.Lock()
	data := s.pageData(sess)
	sess.Mu.Unlock()

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.tmpl.Execute(w, data); err != nil {
		log.Error().Err(err).Msg("Render page")
	}
}

// handleProcess runs the whole pipeline for one upload: extract, chunk,
// embed, index, and only then replace the session's engine. A failure at any
// step keeps the previous working engine and its history.
func (s *Server) handleProcess(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}

	sess := s.ensureSession(w, r)
	sess.Mu.Lock()
	defer sess.Mu.Unlock()

	sess.Status = ""
	sess.Warning = ""

	files, err := s.uploadedFiles(r)
	if err != nil {
		sess.Warning = "Upload could not be read: " + err.Error()
		redirectHome(w, r)
		return
	}
	if len(files) == 0 {
		sess.Warning = "Please choose at least one document to process."
		redirectHome(w, r)
		return
	}

	text := extractor.Extract(files)
	if len(text) > 0 {
		sess.Preview = preview(text, s.cfg.RAG.PreviewChars)
	}

	chunks := splitter.Split(text, s.cfg.RAG.ChunkSize, s.cfg.RAG.ChunkOverlap)
	index, err := vectordb.BuildIndex(r.Context(), chunks, s.embedder)
	if err != nil {
		if errors.Is(err, vectordb.ErrEmptyCorpus) {
			sess.Warning = "Processing failed: no text could be extracted from the uploaded documents."
		} else {
			log.Error().Err(err).Msg("Index build failed")
			sess.Warning = "Processing failed: " + err.Error()
		}
		redirectHome(w, r)
		return
	}

	// Fresh engine, fresh history. The old handle is discarded only here, on
	// success.
	sess.Engine = engine.New(index, s.chat, s.cfg.RAG.TopK)
	sess.Status = fmt.Sprintf("Documents processed successfully (%d chunks indexed).", index.Size())
	log.Info().Int("files", len(files)).Int("chunks", index.Size()).Msg("Processed document set")
	redirectHome(w, r)
}

func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}

	sess := s.ensureSession(w, r)
	sess.Mu.Lock()
	defer sess.Mu.Unlock()

	sess.Status = ""
	sess.Warning = ""

	question := strings.TrimSpace(r.FormValue("question"))
	switch {
	case question == "":
		sess.Warning = "Please enter a valid question."
	case !sess.Ready():
		sess.Warning = "Please upload and process a document first."
	default:
		if _, err := sess.Engine.Ask(r.Context(), question); err != nil {
			log.Error().Err(err).Msg("Ask failed")
			sess.Warning = "Answer generation failed, please try again."
		}
	}
	redirectHome(w, r)
}

func (s *Server) uploadedFiles(r *http.Request) ([]extractor.File, error) {
	if err := r.ParseMultipartForm(s.cfg.Server.MaxUploadSize); err != nil {
		return nil, err
	}
	if r.MultipartForm == nil {
		return nil, nil
	}

	var files []extractor.File
	for _, header := range r.MultipartForm.File["documents"] {
		f, err := header.Open()
		if err != nil {
			return nil, err
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return nil, err
		}
		files = append(files, extractor.File{Name: header.Filename, Data: data})
	}
	return files, nil
}

type transcriptEntry struct {
	Role string
	Body template.HTML
}

type pageData struct {
	Status     string
	Warning    string
	Preview    string
	Ready      bool
	Transcript []transcriptEntry
}

func (s *Server) pageData(sess *session.Session) pageData {
	data := pageData{
		Status:  sess.Status,
		Warning: sess.Warning,
		Preview: sess.Preview,
		Ready:   sess.Ready(),
	}
	if sess.Engine == nil {
		return data
	}
	for _, m := range sess.Engine.History() {
		entry := transcriptEntry{Role: "user"}
		if m.Role == models.RoleAssistant {
			entry.Role = "bot"
			entry.Body = s.renderMarkdown(m.Content)
		} else {
			entry.Body = template.HTML(template.HTMLEscapeString(m.Content))
		}
		data.Transcript = append(data.Transcript, entry)
	}
	return data
}

// renderMarkdown converts an assistant answer to HTML, falling back to
// escaped text when conversion fails.
func (s *Server) renderMarkdown(content string) template.HTML {
	var buf bytes.Buffer
	if err := s.markdown.Convert([]byte(content), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(content))
	}
	return template.HTML(buf.String())
}

func preview(text string, n int) string {
	if len(text) <= n {
		return text
	}
	return text[:n]
}

func redirectHome(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func methodNotAllowed(w http.ResponseWriter, allowed string) {
	w.Header().Set("Allow", allowed)
	http.Error(w, "method not allowed, use "+allowed, http.StatusMethodNotAllowed)
}
