package postgres

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/SAP-F-2025/internship-tracker/internal/models"
	"github.com/SAP-F-2025/internship-tracker/internal/repositories"
)

type notePostgreSQL struct {
	db *gorm.DB
}

func NewNotePostgreSQL(db *gorm.DB) repositories.NoteRepository {
	return &notePostgreSQL{db: db}
}

// EnsureFolder inserts the folder unless the (student_id, folder_name) index
// already holds it, then reads the stored row. A concurrent first note loses
// the insert quietly instead of aborting the transaction.
func (r *notePostgreSQL) EnsureFolder(ctx context.Context, studentID uint, name string) (*models.NoteFolder, error) {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "student_id"}, {Name: "folder_name"}},
			DoNothing: true,
		}).
		Create(&models.NoteFolder{StudentID: studentID, FolderName: name}).Error
	if err != nil {
		return nil, wrap("ensure note folder", err)
	}

	var folder models.NoteFolder
	err = r.db.WithContext(ctx).
		Where("student_id = ? AND folder_name = ?", studentID, name).
		First(&folder).Error
	if err != nil {
		return nil, wrap("get note folder", err)
	}
	return &folder, nil
}

func (r *notePostgreSQL) Create(ctx context.Context, note *models.Note) error {
	if err := r.db.WithContext(ctx).Create(note).Error; err != nil {
		return wrap("create note", err)
	}
	return nil
}

func (r *notePostgreSQL) ListByApplication(ctx context.Context, applicationID uint) ([]models.Note, error) {
	var notes []models.Note
	err := r.db.WithContext(ctx).
		Where("application_id = ?", applicationID).
		Order("created_at DESC, note_id DESC").
		Find(&notes).Error
	if err != nil {
		return nil, wrap("list notes", err)
	}
	return notes, nil
}
