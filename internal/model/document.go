package model

import "time"

// Document — загруженный пользователем PDF и результат его проверки.
// Запись создаётся при загрузке, ровно один раз мутируется шагом анализа
// (percent/description/ann_pdf_path) и больше не меняется.
type Document struct {
	ID     int64 `gorm:"primaryKey;autoIncrement"`
	UserID int64 `gorm:"not null;index"` // ссылка на users.id — единственная связь владения

	// Связи
	User *User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`

	Filename   string    `gorm:"not null"`
	UploadDate time.Time `gorm:"not null"`

	// Результат анализа; nil percent = анализ ещё не завершён.
	AnalysisPercent *float64
	Description     string
	AnnPDFPath      string

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}
