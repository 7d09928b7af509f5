package models

import (
	"time"
)

// DefaultNoteFolder is created for a student the first time they add a note.
const DefaultNoteFolder = "General Notes"

type NoteFolder struct {
	ID         uint      `json:"folder_id" gorm:"column:folder_id;primaryKey"`
	StudentID  uint      `json:"student_id" gorm:"not null;uniqueIndex:idx_note_folders_student_name,priority:1"`
	FolderName string    `json:"folder_name" gorm:"not null;size:100;uniqueIndex:idx_note_folders_student_name,priority:2"`
	CreatedAt  time.Time `json:"created_at"`
}

func (NoteFolder) TableName() string {
	return "note_folders"
}

// Note is append-only. The newest note of an application is the one shown to the student.
type Note struct {
	ID            uint      `json:"note_id" gorm:"column:note_id;primaryKey"`
	ApplicationID uint      `json:"application_id" gorm:"not null;index:idx_notes_application_created,priority:1"`
	StudentID     uint      `json:"student_id" gorm:"not null;index"`
	FolderID      uint      `json:"folder_id" gorm:"not null;index"`
	NoteText      string    `json:"note_text" gorm:"type:text;not null"`
	CreatedAt     time.Time `json:"created_at" gorm:"index:idx_notes_application_created,priority:2"`

	Application *Application `json:"-" gorm:"foreignKey:ApplicationID;references:ID"`
	Folder      *NoteFolder  `json:"-" gorm:"foreignKey:FolderID;references:ID"`
}

func (Note) TableName() string {
	return "notes"
}
