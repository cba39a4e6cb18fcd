package service

import (
	"context"
	"time"

	"DocControl/internal/model"
	"DocControl/internal/repo"
)

// DocumentService — операции над записями документов вне авторизации:
// создание при загрузке и история пользователя.
type DocumentService struct {
	docs repo.DocumentRepository
}

func NewDocumentService(docs repo.DocumentRepository) *DocumentService {
	return &DocumentService{docs: docs}
}

// CreateUpload создаёт запись документа в момент загрузки.
// Поля результата анализа остаются пустыми до завершения фонового шага.
func (s *DocumentService) CreateUpload(ctx context.Context, userID int64, filename string) (*model.Document, error) {
	return s.docs.Create(ctx, &model.Document{
		UserID:     userID,
		Filename:   filename,
		UploadDate: time.Now().UTC(),
	})
}

// History возвращает документы пользователя, новые первыми.
func (s *DocumentService) History(ctx context.Context, userID int64) ([]model.Document, error) {
	return s.docs.ListByUser(ctx, userID)
}
