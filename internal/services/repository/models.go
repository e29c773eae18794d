package repository

import (
	"time"

	"github.com/google/uuid"
)

type FileRecord struct {
	ID              string    `json:"id" gorm:"primaryKey;column:id"`
	Name            string    `json:"name" gorm:"column:name;uniqueIndex:idx_files_product_name,priority:2"`
	Size            int64     `json:"size" gorm:"column:size"`
	ContentType     string    `json:"contentType" gorm:"column:content_type"`
	URL             string    `json:"url" gorm:"column:url"`
	ProductID       string    `json:"productId" gorm:"column:product_id;uniqueIndex:idx_files_product_name,priority:1"`
	StepID          *int      `json:"stepId,omitempty" gorm:"column:step_id"`
	SubStepID       *int      `json:"subStepId,omitempty" gorm:"column:sub_step_id"`
	SystemGenerated bool      `json:"systemGenerated" gorm:"column:system_generated"`
	CreatedAt       time.Time `json:"createdAt" gorm:"column:created_at"`
	UpdatedAt       time.Time `json:"updatedAt" gorm:"column:updated_at"`
}

func (FileRecord) TableName() string {
	return "files"
}

type NewFileInput struct {
	Name            string
	Size            int64
	ContentType     string
	URL             string
	ProductID       string
	StepID          *int
	SubStepID       *int
	SystemGenerated bool
}

func NewFile(input NewFileInput) FileRecord {
	now := time.Now().UTC()
	return FileRecord{
		ID:              uuid.NewString(),
		Name:            input.Name,
		Size:            input.Size,
		ContentType:     input.ContentType,
		URL:             input.URL,
		ProductID:       input.ProductID,
		StepID:          input.StepID,
		SubStepID:       input.SubStepID,
		SystemGenerated: input.SystemGenerated,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

type User struct {
	ID        string    `json:"id" gorm:"primaryKey;column:id"`
	Email     string    `json:"email" gorm:"column:email;uniqueIndex"`
	Name      string    `json:"name" gorm:"column:name"`
	CreatedAt time.Time `json:"createdAt" gorm:"column:created_at"`
	UpdatedAt time.Time `json:"updatedAt" gorm:"column:updated_at"`
}

func (User) TableName() string {
	return "users"
}

func NewUser(email, name string) User {
	now := time.Now().UTC()
	return User{
		ID:        uuid.NewString(),
		Email:     email,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
