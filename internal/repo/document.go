package repo

import (
	"context"

	"gorm.io/gorm"

	"DocControl/internal/model"
)

// DocumentRepository определяет контракт доступа к Document.
type DocumentRepository interface {
	// Create сохраняет новую запись документа и возвращает её с ID.
	Create(ctx context.Context, doc *model.Document) (*model.Document, error)

	// GetByID ищет документ по ID. Если не найден — gorm.ErrRecordNotFound.
	GetByID(ctx context.Context, id int64) (*model.Document, error)

	// ListByUser возвращает документы пользователя, новые первыми.
	ListByUser(ctx context.Context, userID int64) ([]model.Document, error)

	// UpdateAnalysis записывает результат анализа — единственная мутация документа.
	UpdateAnalysis(ctx context.Context, id int64, percent float64, description, annPDFPath string) error
}

type documentRepo struct {
	db *gorm.DB
}

// NewDocumentRepository создаёт реализацию репозитория для Document.
func NewDocumentRepository(db *gorm.DB) DocumentRepository {
	return &documentRepo{db: db}
}

func (r *documentRepo) Create(ctx context.Context, doc *model.Document) (*model.Document, error) {
	if err := r.db.WithContext(ctx).Create(doc).Error; err != nil {
		return nil, err
	}
	return doc, nil
}

func (r *documentRepo) GetByID(ctx context.Context, id int64) (*model.Document, error) {
	var d model.Document
	if err := r.db.WithContext(ctx).First(&d, id).Error; err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *documentRepo) ListByUser(ctx context.Context, userID int64) ([]model.Document, error) {
	var docs []model.Document
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("upload_date DESC").
		Find(&docs).Error
	if err != nil {
		return nil, err
	}
	return docs, nil
}

func (r *documentRepo) UpdateAnalysis(ctx context.Context, id int64, percent float64, description, annPDFPath string) error {
	return r.db.WithContext(ctx).
		Model(&model.Document{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"analysis_percent": percent,
			"description":      description,
			"ann_pdf_path":     annPDFPath,
		}).Error
}
