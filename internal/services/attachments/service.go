package attachments

import (
	"context"
	"io"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/mavericklabs/sparks-files/internal/helpers"
	"github.com/mavericklabs/sparks-files/internal/services/cache"
	"github.com/mavericklabs/sparks-files/internal/services/objectstore"
	"github.com/mavericklabs/sparks-files/internal/services/repository"
)

var (
	ErrNotFound        = errors.New("file not found")
	ErrExists          = errors.New("file exists")
	ErrBusy            = errors.New("file is being committed")
	ErrSystemGenerated = errors.New("system-generated files cannot be deleted")
)

type CommitInput struct {
	Name        string
	Size        int64
	ContentType string
	URL         string
	ProductID   string
	StepID      *int
	SubStepID   *int
}

type Download struct {
	Name        string
	Size        int64
	ContentType string
	Body        io.ReadCloser
}

// Service is the server half of the upload handshake: the duplicate
// probe, credential minting, the metadata commit and the guarded delete.
type Service interface {
	List(ctx context.Context, input repository.FindFilesInput) ([]repository.FileRecord, error)
	IsDuplicate(ctx context.Context, fileName, productID string) (bool, error)
	UploadURL(ctx context.Context, fileName, contentType string) (string, error)
	Commit(ctx context.Context, input CommitInput, replace bool) (*repository.FileRecord, error)
	CreateSystemFile(ctx context.Context, input CommitInput) (*repository.FileRecord, error)
	Delete(ctx context.Context, id string) error
	OpenDownload(ctx context.Context, fileName string) (*Download, error)
}

type service struct {
	repo     repository.Repository
	store    objectstore.Store
	keyLock  cache.KeyLock
	listings *cache.Listings
	log      *zap.SugaredLogger
}

func New(
	repo repository.Repository,
	store objectstore.Store,
	keyLock cache.KeyLock,
	listings *cache.Listings,
	log *zap.SugaredLogger,
) Service {
	return &service{
		repo:     repo,
		store:    store,
		keyLock:  keyLock,
		listings: listings,
		log:      log,
	}
}

func (s *service) List(ctx context.Context, input repository.FindFilesInput) ([]repository.FileRecord, error) {
	if files, ok := s.listings.Get(input.ProductID, input.StepID, input.SubStepID); ok {
		return files, nil
	}

	files, err := s.repo.FindFiles(ctx, input)
	if err != nil {
		return nil, err
	}

	s.listings.Set(input.ProductID, input.StepID, input.SubStepID, files)
	return files, nil
}

// IsDuplicate never folds a store error into "not duplicate"; callers
// decide whether to block the upload.
func (s *service) IsDuplicate(ctx context.Context, fileName, productID string) (bool, error) {
	_, err := s.repo.GetFileByName(ctx, fileName, productID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (s *service) UploadURL(ctx context.Context, fileName, contentType string) (string, error) {
	return s.store.SignedUploadURL(ctx, fileName, contentType, objectstore.DefaultSignedURLTTL)
}

func (s *service) Commit(ctx context.Context, input CommitInput, replace bool) (*repository.FileRecord, error) {
	keys := []string{input.ProductID + "/" + input.Name}
	if err := s.keyLock.Lock(keys); err != nil {
		return nil, ErrBusy
	}
	defer s.keyLock.Unlock(keys)

	if replace {
		existing, err := s.repo.GetFileByName(ctx, input.Name, input.ProductID)
		if err == nil {
			if err = s.repo.UpdateFile(ctx, existing.ID, repository.UpdateFileInput{
				Size:        input.Size,
				ContentType: input.ContentType,
				URL:         input.URL,
			}); err != nil {
				return nil, err
			}
			s.listings.InvalidateProduct(input.ProductID)
			return s.repo.GetFile(ctx, existing.ID)
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
		// the record vanished between probe and commit, fall through to create
	}

	// user-initiated uploads are never system-generated
	file := repository.NewFile(repository.NewFileInput{
		Name:            input.Name,
		Size:            input.Size,
		ContentType:     input.ContentType,
		URL:             input.URL,
		ProductID:       input.ProductID,
		StepID:          input.StepID,
		SubStepID:       input.SubStepID,
		SystemGenerated: false,
	})
	if err := s.repo.CreateFile(ctx, &file); err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) {
			// the unique index is the final arbiter of the probe race;
			// the losing commit surfaces as an error, never an overwrite
			return nil, ErrExists
		}
		return nil, err
	}

	s.listings.InvalidateProduct(input.ProductID)
	return &file, nil
}

func (s *service) CreateSystemFile(ctx context.Context, input CommitInput) (*repository.FileRecord, error) {
	file := repository.NewFile(repository.NewFileInput{
		Name:            input.Name,
		Size:            input.Size,
		ContentType:     input.ContentType,
		URL:             input.URL,
		ProductID:       input.ProductID,
		StepID:          input.StepID,
		SubStepID:       input.SubStepID,
		SystemGenerated: true,
	})
	if err := s.repo.CreateFile(ctx, &file); err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) {
			return nil, ErrExists
		}
		return nil, err
	}

	s.listings.InvalidateProduct(input.ProductID)
	return &file, nil
}

// Delete rejects system-generated records before any mutation, then
// treats the storage and metadata deletes as one best-effort pair: both
// are attempted and a failure of either is reported.
func (s *service) Delete(ctx context.Context, id string) error {
	file, err := s.repo.GetFile(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}

	if file.SystemGenerated {
		return ErrSystemGenerated
	}

	storeErr := s.store.Delete(ctx, file.Name)
	if storeErr != nil {
		s.log.With("err", storeErr, "name", file.Name).Error("failed to delete object")
	}

	repoErr := s.repo.DeleteFile(ctx, id)
	if repoErr == nil {
		s.listings.InvalidateProduct(file.ProductID)
	}

	return helpers.CollectErrors(storeErr, repoErr)
}

func (s *service) OpenDownload(ctx context.Context, fileName string) (*Download, error) {
	info, err := s.store.Stat(ctx, fileName)
	if err != nil {
		if errors.Is(err, objectstore.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	body, err := s.store.Get(ctx, fileName)
	if err != nil {
		if errors.Is(err, objectstore.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	contentType := info.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	return &Download{
		Name:        fileName,
		Size:        info.Size,
		ContentType: contentType,
		Body:        body,
	}, nil
}
