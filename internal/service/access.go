package service

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"DocControl/internal/model"
	"DocControl/internal/repo"
)

// ApprovedFile — результат успешной авторизации пути: проверенное
// существующее расположение и имя файла для отдачи клиенту.
type ApprovedFile struct {
	Path     string // абсолютный путь внутри хранилища
	Filename string // последний сегмент — имя для Content-Disposition
}

// AccessPolicy решает, может ли пользователь получить ресурс.
// Не зависит от транспорта: на входе пользователь и запрошенный ресурс
// (ID документа или сырой путь), на выходе разрешение либо ошибка отказа.
type AccessPolicy struct {
	docs         repo.DocumentRepository
	baseDir      string
	allowedRoots []string
	elevatedRole string
}

func NewAccessPolicy(docs repo.DocumentRepository, baseDir string, allowedRoots []string, elevatedRole string) *AccessPolicy {
	return &AccessPolicy{
		docs:         docs,
		baseDir:      baseDir,
		allowedRoots: allowedRoots,
		elevatedRole: elevatedRole,
	}
}

// AuthorizeDocument разрешает доступ к документу по ID только владельцу.
// Чужой и несуществующий документ неразличимы для вызывающего:
// оба случая — ErrDocumentNotFound (404), чтобы не раскрывать факт
// существования документа не-владельцу.
func (p *AccessPolicy) AuthorizeDocument(ctx context.Context, user *model.User, docID int64) (*model.Document, error) {
	doc, err := p.docs.GetByID(ctx, docID)
	if err != nil {
		return nil, ErrDocumentNotFound
	}
	if doc.UserID != user.ID {
		return nil, ErrDocumentNotFound
	}
	return doc, nil
}

// originalDocPattern — фиксированная раскладка каталога оригиналов:
// <root>/original/<числовой id>. Завязка на раскладку хранилища
// сосредоточена в ExtractDocumentID.
var originalDocPattern = regexp.MustCompile(`data[/\\]original[/\\](\d+)`)

// ExtractDocumentID извлекает ID документа из сырого пути, если путь
// указывает в каталог оригиналов. Чистая функция без обращений к ФС.
func ExtractDocumentID(path string) (int64, bool) {
	m := originalDocPattern.FindStringSubmatch(path)
	if m == nil {
		return 0, false
	}
	id, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

// AuthorizePath проверяет сырой путь по конвейеру; любой отказ терминален,
// порядок фиксирован — структурные проверки идут до обращения к ФС:
//  1. структура пути (.., абсолютный, диск) — ErrInvalidPath;
//  2. ведущий сегмент вне allow-list корней — ErrPathNotAllowed;
//  3. файла нет на диске — ErrFileMissing;
//  4. путь атрибутируется к документу — доступ только владельцу;
//  5. иначе — только повышенная роль (default-deny).
func (p *AccessPolicy) AuthorizePath(ctx context.Context, user *model.User, rawPath string) (*ApprovedFile, error) {
	if strings.Contains(rawPath, "..") ||
		strings.HasPrefix(rawPath, "/") ||
		strings.HasPrefix(rawPath, `\`) ||
		strings.Contains(rawPath, `:\`) ||
		strings.Contains(rawPath, ":/") {
		return nil, ErrInvalidPath
	}

	if !p.rootAllowed(rawPath) {
		return nil, ErrPathNotAllowed
	}

	full := filepath.Join(p.baseDir, filepath.FromSlash(rawPath))
	info, err := os.Stat(full)
	if err != nil || info.IsDir() {
		return nil, ErrFileMissing
	}

	if docID, ok := ExtractDocumentID(rawPath); ok {
		doc, err := p.docs.GetByID(ctx, docID)
		if err != nil || doc.UserID != user.ID {
			return nil, ErrForbidden
		}
	} else if user.Role != p.elevatedRole {
		// путь не атрибутируется к документу — пускаем только повышенную роль
		return nil, ErrForbidden
	}

	return &ApprovedFile{Path: full, Filename: filepath.Base(full)}, nil
}

// rootAllowed сравнивает ведущий сегмент пути с allow-list корней.
// Именно сегмент, а не префикс строки: "datax/..." не должен проходить
// по корню "data".
func (p *AccessPolicy) rootAllowed(rawPath string) bool {
	normalized := strings.ReplaceAll(rawPath, `\`, "/")
	first, _, _ := strings.Cut(normalized, "/")
	for _, root := range p.allowedRoots {
		if first == root {
			return true
		}
	}
	return false
}
