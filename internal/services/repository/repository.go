package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

const (
	ConstraintErrorCode = "23505"
)

var (
	ErrAlreadyExists = errors.New("already exists")
	ErrNotFound      = errors.New("not found")
)

type UpdateFileInput struct {
	Size        int64
	ContentType string
	URL         string
}

type FindFilesInput struct {
	ProductID string
	StepID    *int
	SubStepID *int
}

type Repository interface {
	CreateFile(ctx context.Context, file *FileRecord) error
	UpdateFile(ctx context.Context, id string, input UpdateFileInput) error
	GetFile(ctx context.Context, id string) (*FileRecord, error)
	GetFileByName(ctx context.Context, name, productID string) (*FileRecord, error)
	FindFiles(ctx context.Context, input FindFilesInput) ([]FileRecord, error)
	FindAllFiles(ctx context.Context) ([]FileRecord, error)
	DeleteFile(ctx context.Context, id string) error

	CreateUser(ctx context.Context, user *User) error
	GetUser(ctx context.Context, id string) (*User, error)
	FindUsers(ctx context.Context, search string) ([]User, error)
	UpdateUser(ctx context.Context, id string, email, name string) error
	DeleteUser(ctx context.Context, id string) error
}

type storage struct {
	db *gorm.DB
}

func New(db *gorm.DB) Repository {
	return &storage{
		db: db,
	}
}

func isConstraintError(err error) bool {
	if e, ok := err.(*pgconn.PgError); ok && e.Code == ConstraintErrorCode {
		return true
	}
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

func (s storage) CreateFile(ctx context.Context, file *FileRecord) error {
	tx := s.db.WithContext(ctx).Create(file)
	if tx.Error != nil {
		if isConstraintError(tx.Error) {
			return ErrAlreadyExists
		}
		return tx.Error
	}
	return nil
}

func (s storage) UpdateFile(ctx context.Context, id string, input UpdateFileInput) error {
	tx := s.db.WithContext(ctx).Table("files").Where("id = ?", id).
		Updates(map[string]any{
			"size":         input.Size,
			"content_type": input.ContentType,
			"url":          input.URL,
			"updated_at":   time.Now().UTC(),
		})

	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

func (s storage) GetFile(ctx context.Context, id string) (*FileRecord, error) {
	var file FileRecord
	tx := s.db.WithContext(ctx).Table("files").Where("id = ?", id).Find(&file)
	if tx.Error != nil {
		return nil, tx.Error
	}
	if tx.RowsAffected == 0 {
		return nil, ErrNotFound
	}

	return &file, nil
}

func (s storage) GetFileByName(ctx context.Context, name, productID string) (*FileRecord, error) {
	var file FileRecord
	tx := s.db.WithContext(ctx).Table("files").
		Where("name = ? AND product_id = ?", name, productID).Find(&file)
	if tx.Error != nil {
		return nil, tx.Error
	}
	if tx.RowsAffected == 0 {
		return nil, ErrNotFound
	}

	return &file, nil
}

func (s storage) FindFiles(ctx context.Context, input FindFilesInput) ([]FileRecord, error) {
	tx := s.db.WithContext(ctx).Table("files").Where("product_id = ?", input.ProductID)
	if input.StepID != nil {
		tx = tx.Where("step_id = ?", *input.StepID)
	}
	if input.SubStepID != nil {
		tx = tx.Where("sub_step_id = ?", *input.SubStepID)
	}

	var files []FileRecord
	if err := tx.Find(&files).Error; err != nil {
		return nil, err
	}
	return files, nil
}

func (s storage) FindAllFiles(ctx context.Context) ([]FileRecord, error) {
	var files []FileRecord
	if err := s.db.WithContext(ctx).Table("files").Find(&files).Error; err != nil {
		return nil, err
	}
	return files, nil
}

func (s storage) DeleteFile(ctx context.Context, id string) error {
	tx := s.db.WithContext(ctx).Table("files").Where("id = ?", id).Delete(&FileRecord{})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s storage) CreateUser(ctx context.Context, user *User) error {
	tx := s.db.WithContext(ctx).Create(user)
	if tx.Error != nil {
		if isConstraintError(tx.Error) {
			return ErrAlreadyExists
		}
		return tx.Error
	}
	return nil
}

func (s storage) GetUser(ctx context.Context, id string) (*User, error) {
	var user User
	tx := s.db.WithContext(ctx).Table("users").Where("id = ?", id).Find(&user)
	if tx.Error != nil {
		return nil, tx.Error
	}
	if tx.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return &user, nil
}

func (s storage) FindUsers(ctx context.Context, search string) ([]User, error) {
	tx := s.db.WithContext(ctx).Table("users")
	if search != "" {
		pattern := "%" + search + "%"
		tx = tx.Where("name LIKE ? OR email LIKE ?", pattern, pattern)
	}

	var users []User
	if err := tx.Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (s storage) UpdateUser(ctx context.Context, id string, email, name string) error {
	tx := s.db.WithContext(ctx).Table("users").Where("id = ?", id).
		Updates(map[string]any{
			"email":      email,
			"name":       name,
			"updated_at": time.Now().UTC(),
		})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s storage) DeleteUser(ctx context.Context, id string) error {
	tx := s.db.WithContext(ctx).Table("users").Where("id = ?", id).Delete(&User{})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
