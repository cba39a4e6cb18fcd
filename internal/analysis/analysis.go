package analysis

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"DocControl/internal/repo"
)

// Analyzer выполняет фоновый анализ загруженного PDF: формирует
// аннотированный файл и ровно один раз записывает результат в документ.
// Сам алгоритм проверки — заглушка; контракт с остальной системой
// (каталоги, единственная мутация записи) — настоящий.
type Analyzer struct {
	docs    repo.DocumentRepository
	baseDir string
	logger  *zap.SugaredLogger
}

func New(docs repo.DocumentRepository, baseDir string, logger *zap.SugaredLogger) *Analyzer {
	return &Analyzer{docs: docs, baseDir: baseDir, logger: logger}
}

// Run запускает анализ в фоне, fire-and-forget: вызывающий не наблюдает
// ни результата, ни ошибки. Контекст запроса не наследуется — анализ
// переживает завершение HTTP-запроса.
func (a *Analyzer) Run(docID int64) {
	go func() {
		if err := a.Process(context.Background(), docID); err != nil {
			a.logger.Errorw("document analysis failed", "doc_id", docID, "error", err)
		}
	}()
}

// Process — синхронный шаг анализа.
func (a *Analyzer) Process(ctx context.Context, docID int64) error {
	doc, err := a.docs.GetByID(ctx, docID)
	if err != nil {
		return fmt.Errorf("load document: %w", err)
	}

	// Заглушка алгоритма: фиксированный результат
	percent := 85.0
	description := "Analysis description placeholder"

	annRel := filepath.Join("data", "annotated", fmt.Sprintf("%d_annotated.pdf", doc.ID))
	if err := a.writeAnnotated(doc.ID, doc.Filename, annRel); err != nil {
		return fmt.Errorf("write annotated file: %w", err)
	}

	if err := a.docs.UpdateAnalysis(ctx, doc.ID, percent, description, filepath.ToSlash(annRel)); err != nil {
		return fmt.Errorf("store analysis result: %w", err)
	}

	a.logger.Infow("document analyzed", "doc_id", doc.ID, "percent", percent)
	return nil
}

// writeAnnotated кладёт аннотированную копию оригинала в data/annotated.
// Пока аннотаций нет — это байтовая копия исходного PDF.
func (a *Analyzer) writeAnnotated(docID int64, filename, annRel string) error {
	src, err := os.Open(filepath.Join(a.baseDir, "data", "original", fmt.Sprintf("%d", docID), filename))
	if err != nil {
		return err
	}
	defer src.Close()

	full := filepath.Join(a.baseDir, annRel)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return err
	}
	dst, err := os.Create(full)
	if err != nil {
		return err
	}
	defer dst.Close()

	_, err = io.Copy(dst, src)
	return err
}
