package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"DocControl/internal/model"
	"DocControl/internal/repo"
)

// CachedDocumentRepository — read-through кеш поверх репозитория документов.
// GetByID сначала смотрит в кеш; запись результата анализа инвалидирует ключ.
// Ошибки кеша не фатальны: промах или сбой Redis — просто поход в БД.
type CachedDocumentRepository struct {
	inner  repo.DocumentRepository
	client Client
	ttl    time.Duration
	logger *zap.SugaredLogger
}

func NewCachedDocumentRepository(inner repo.DocumentRepository, client Client, ttl time.Duration, logger *zap.SugaredLogger) *CachedDocumentRepository {
	return &CachedDocumentRepository{inner: inner, client: client, ttl: ttl, logger: logger}
}

func docKey(id int64) string {
	return fmt.Sprintf("doc:%d", id)
}

func (r *CachedDocumentRepository) Create(ctx context.Context, doc *model.Document) (*model.Document, error) {
	return r.inner.Create(ctx, doc)
}

func (r *CachedDocumentRepository) GetByID(ctx context.Context, id int64) (*model.Document, error) {
	if data, err := r.client.Get(ctx, docKey(id)); err == nil {
		var doc model.Document
		if err := json.Unmarshal([]byte(data), &doc); err == nil {
			return &doc, nil
		}
		// битая запись в кеше — убираем и идём в БД
		_ = r.client.Del(ctx, docKey(id))
	}

	doc, err := r.inner.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(doc); err == nil {
		if err := r.client.Set(ctx, docKey(id), data, r.ttl); err != nil {
			r.logger.Warnw("document cache set failed", "doc_id", id, "error", err)
		}
	}
	return doc, nil
}

func (r *CachedDocumentRepository) ListByUser(ctx context.Context, userID int64) ([]model.Document, error) {
	return r.inner.ListByUser(ctx, userID)
}

func (r *CachedDocumentRepository) UpdateAnalysis(ctx context.Context, id int64, percent float64, description, annPDFPath string) error {
	if err := r.inner.UpdateAnalysis(ctx, id, percent, description, annPDFPath); err != nil {
		return err
	}
	if err := r.client.Del(ctx, docKey(id)); err != nil {
		r.logger.Warnw("document cache invalidate failed", "doc_id", id, "error", err)
	}
	return nil
}

var _ repo.DocumentRepository = (*CachedDocumentRepository)(nil)
