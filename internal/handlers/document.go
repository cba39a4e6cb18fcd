package handlers

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"DocControl/internal/config"
	"DocControl/internal/middleware"
	"DocControl/internal/model"
	"DocControl/internal/service"
)

// DocumentHandler обрабатывает загрузку, историю, результаты и скачивание.
type DocumentHandler struct {
	DocService  *service.DocumentService
	UserService *service.UserService
	Policy      *service.AccessPolicy
	Analyzer    AnalysisRunner
	Logger      *zap.SugaredLogger
	Config      *config.Config
}

func NewDocumentHandler(
	docService *service.DocumentService,
	userService *service.UserService,
	policy *service.AccessPolicy,
	analyzer AnalysisRunner,
	logger *zap.SugaredLogger,
	cfg *config.Config,
) *DocumentHandler {
	return &DocumentHandler{
		DocService:  docService,
		UserService: userService,
		Policy:      policy,
		Analyzer:    analyzer,
		Logger:      logger,
		Config:      cfg,
	}
}

// currentUser резолвит пользователя из контекста запроса.
// Шлюз уже проверил токен; здесь субъект превращается в запись User.
func (h *DocumentHandler) currentUser(w http.ResponseWriter, r *http.Request) (*model.User, bool) {
	login, ok := middleware.GetUserLoginFromContext(r.Context())
	if !ok {
		writeDetail(w, http.StatusUnauthorized, "Could not validate credentials")
		return nil, false
	}
	user, err := h.UserService.ResolveUser(r.Context(), login)
	if err != nil {
		writeServiceError(w, err)
		return nil, false
	}
	return user, true
}

type uploadResponse struct {
	ID         int64     `json:"id"`
	Filename   string    `json:"filename"`
	UploadDate time.Time `json:"upload_date"`
}

// Upload принимает PDF, создаёт запись документа, сохраняет файл
// в data/original/<id>/ и запускает фоновый анализ.
func (h *DocumentHandler) Upload(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeDetail(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeDetail(w, http.StatusBadRequest, "Missing file")
		return
	}
	defer file.Close()

	// имя из заголовка не доверяем: берём только последний сегмент
	filename := filepath.Base(header.Filename)
	if filename == "." || filename == string(filepath.Separator) {
		writeDetail(w, http.StatusBadRequest, "Invalid filename")
		return
	}

	doc, err := h.DocService.CreateUpload(r.Context(), user.ID, filename)
	if err != nil {
		h.Logger.Errorw("Upload: create record failed", "user_id", user.ID, "error", err)
		writeServiceError(w, err)
		return
	}

	dir := filepath.Join(h.Config.StorageDir, "data", "original", strconv.FormatInt(doc.ID, 10))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		h.Logger.Errorw("Upload: mkdir failed", "doc_id", doc.ID, "error", err)
		writeDetail(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	dst, err := os.Create(filepath.Join(dir, filename))
	if err != nil {
		h.Logger.Errorw("Upload: create file failed", "doc_id", doc.ID, "error", err)
		writeDetail(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	defer dst.Close()
	if _, err := io.Copy(dst, file); err != nil {
		h.Logger.Errorw("Upload: save file failed", "doc_id", doc.ID, "error", err)
		writeDetail(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	// фоновый анализ: fire-and-forget
	h.Analyzer.Run(doc.ID)

	writeJSON(w, http.StatusOK, uploadResponse{ID: doc.ID, Filename: doc.Filename, UploadDate: doc.UploadDate})
}

type historyItem struct {
	Filename   string    `json:"filename"`
	UploadDate time.Time `json:"upload_date"`
	Percent    *float64  `json:"percent"`
}

// History отдаёт документы текущего пользователя.
func (h *DocumentHandler) History(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	docs, err := h.DocService.History(r.Context(), user.ID)
	if err != nil {
		h.Logger.Errorw("History failed", "user_id", user.ID, "error", err)
		writeServiceError(w, err)
		return
	}

	items := make([]historyItem, 0, len(docs))
	for _, d := range docs {
		items = append(items, historyItem{Filename: d.Filename, UploadDate: d.UploadDate, Percent: d.AnalysisPercent})
	}
	writeJSON(w, http.StatusOK, items)
}

type resultResponse struct {
	ID          int64     `json:"id"`
	Filename    string    `json:"filename"`
	UploadDate  time.Time `json:"upload_date"`
	Percent     *float64  `json:"percent"`
	Description string    `json:"description"`
}

// Result отдаёт результат анализа документа; только владельцу.
func (h *DocumentHandler) Result(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	docID, err := strconv.ParseInt(chi.URLParam(r, "doc_id"), 10, 64)
	if err != nil {
		writeDetail(w, http.StatusNotFound, "Document not found")
		return
	}

	doc, err := h.Policy.AuthorizeDocument(r.Context(), user, docID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resultResponse{
		ID:          doc.ID,
		Filename:    doc.Filename,
		UploadDate:  doc.UploadDate,
		Percent:     doc.AnalysisPercent,
		Description: doc.Description,
	})
}

// DownloadOriginal отдаёт исходный файл документа владельцу.
func (h *DocumentHandler) DownloadOriginal(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	docID, err := strconv.ParseInt(chi.URLParam(r, "doc_id"), 10, 64)
	if err != nil {
		writeDetail(w, http.StatusNotFound, "Document not found")
		return
	}

	doc, err := h.Policy.AuthorizeDocument(r.Context(), user, docID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	full := filepath.Join(h.Config.StorageDir, "data", "original", strconv.FormatInt(doc.ID, 10), doc.Filename)
	h.serveFile(w, full, doc.Filename)
}

// DownloadAnnotated отдаёт аннотированный файл, если анализ его уже создал.
func (h *DocumentHandler) DownloadAnnotated(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	docID, err := strconv.ParseInt(chi.URLParam(r, "doc_id"), 10, 64)
	if err != nil {
		writeDetail(w, http.StatusNotFound, "Document not found")
		return
	}

	doc, err := h.Policy.AuthorizeDocument(r.Context(), user, docID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if doc.AnnPDFPath == "" {
		writeDetail(w, http.StatusNotFound, "Annotated file not available")
		return
	}

	full := filepath.Join(h.Config.StorageDir, filepath.FromSlash(doc.AnnPDFPath))
	h.serveFile(w, full, filepath.Base(full))
}

// DownloadPath отдаёт файл по сырому пути после конвейера AccessPolicy.
func (h *DocumentHandler) DownloadPath(w http.ResponseWriter, r *http.Request) {
	h.downloadByPath(w, r)
}

// DownloadAnnotatedPath — тот же конвейер; аннотированные файлы живут
// в тех же разрешённых корнях.
func (h *DocumentHandler) DownloadAnnotatedPath(w http.ResponseWriter, r *http.Request) {
	h.downloadByPath(w, r)
}

func (h *DocumentHandler) downloadByPath(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	rawPath := r.URL.Query().Get("file_path")
	if rawPath == "" {
		writeDetail(w, http.StatusBadRequest, "Invalid file path")
		return
	}

	approved, err := h.Policy.AuthorizePath(r.Context(), user, rawPath)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	h.serveFile(w, approved.Path, approved.Filename)
}

// serveFile стримит уже одобренный файл. Если файл исчез между проверкой
// и открытием — 404, без повторов.
func (h *DocumentHandler) serveFile(w http.ResponseWriter, fullPath, filename string) {
	f, err := os.Open(fullPath)
	if err != nil {
		writeDetail(w, http.StatusNotFound, "File not found")
		return
	}
	defer f.Close()

	contentType := "application/octet-stream"
	if strings.EqualFold(filepath.Ext(filename), ".pdf") {
		contentType = "application/pdf"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	if _, err := io.Copy(w, f); err != nil {
		h.Logger.Warnw("file stream interrupted", "path", fullPath, "error", err)
	}
}
