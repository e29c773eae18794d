package uploader

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/mavericklabs/sparks-files/internal/services/api/controllers"
	"github.com/mavericklabs/sparks-files/internal/services/repository"
)

var (
	ErrSystemGenerated = errors.New("system-generated files cannot be deleted")
	ErrNotConfirmed    = errors.New("deletion was not confirmed")
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusUploading Status = "uploading"
	StatusSuccess   Status = "success"
	StatusError     Status = "error"
	StatusSkipped   Status = "skipped"
)

type Decision int

const (
	DecisionSkip Decision = iota
	DecisionReplace
)

// ResolveDuplicate is asked per file when the probe finds an existing
// record; it must not block other files in the batch.
type ResolveDuplicate func(fileName string) Decision

type ProgressFunc func(index int, status Status, percent float64)

type File struct {
	Name        string
	ContentType string
	Size        int64
	Open        func() (io.ReadCloser, error)
}

type Result struct {
	Name   string
	Status Status
	Record *repository.FileRecord
	Err    error
}

type Options struct {
	Resolve    ResolveDuplicate
	OnProgress ProgressFunc
	OnUploaded func(productID string)
	OnDeleted  func(productID string)
	// HTTPClient performs the direct PUT to storage; defaults to
	// http.DefaultClient.
	HTTPClient *http.Client
}

// Uploader drives the multi-step upload handshake per selected file:
// duplicate probe, resolution, credential acquisition, direct transfer
// to storage and the metadata commit.
type Uploader struct {
	client      *Client
	storageHTTP *http.Client
	resolve     ResolveDuplicate
	onProgress  ProgressFunc
	onUploaded  func(productID string)
	onDeleted   func(productID string)
	log         *zap.SugaredLogger
}

func New(client *Client, log *zap.SugaredLogger, opts Options) *Uploader {
	storageHTTP := opts.HTTPClient
	if storageHTTP == nil {
		storageHTTP = http.DefaultClient
	}

	return &Uploader{
		client:      client,
		storageHTTP: storageHTTP,
		resolve:     opts.Resolve,
		onProgress:  opts.OnProgress,
		onUploaded:  opts.OnUploaded,
		onDeleted:   opts.OnDeleted,
		log:         log,
	}
}

// UploadAll starts every file's handshake concurrently. Files complete
// independently: one failure never affects a sibling's transitions, and
// no cross-file ordering is guaranteed.
func (u *Uploader) UploadAll(ctx context.Context, productID string, stepID, subStepID *int, files []File) []Result {
	results := make([]Result, len(files))

	var wg sync.WaitGroup
	for i := range files {
		wg.Add(1)
		go func(index int, file File) {
			defer wg.Done()
			results[index] = u.uploadOne(ctx, productID, stepID, subStepID, index, file)
		}(i, files[i])
	}
	wg.Wait()

	return results
}

func (u *Uploader) uploadOne(ctx context.Context, productID string, stepID, subStepID *int, index int, file File) Result {
	u.progress(index, StatusPending, 0)

	isDuplicate, err := u.client.CheckDuplicate(ctx, file.Name, productID)
	if err != nil {
		// an unanswered probe blocks the upload rather than risking an
		// unintended overwrite
		return u.fail(index, file, errors.Wrap(err, "duplicate probe failed"))
	}

	replace := false
	if isDuplicate {
		if u.resolve == nil || u.resolve(file.Name) == DecisionSkip {
			u.progress(index, StatusSkipped, 0)
			return Result{Name: file.Name, Status: StatusSkipped}
		}
		replace = true
	}

	uploadURL, err := u.client.UploadURL(ctx, file.Name, file.ContentType)
	if err != nil {
		return u.fail(index, file, errors.Wrap(err, "failed to acquire an upload url"))
	}

	u.progress(index, StatusUploading, 0)

	if err = u.transfer(ctx, index, file, uploadURL); err != nil {
		return u.fail(index, file, err)
	}

	record, err := u.client.Commit(ctx, controllers.CommitRequest{
		Name:        file.Name,
		Size:        file.Size,
		ContentType: file.ContentType,
		URL:         stripQuery(uploadURL),
		ProductID:   productID,
		StepID:      stepID,
		SubStepID:   subStepID,
	}, replace)
	if err != nil {
		// the object already landed in storage; the record is the one
		// that's missing, so the file reports as failed and re-uploadable
		return u.fail(index, file, errors.Wrap(err, "failed to commit metadata"))
	}

	u.progress(index, StatusSuccess, 100)
	if u.onUploaded != nil {
		u.onUploaded(productID)
	}

	return Result{Name: file.Name, Status: StatusSuccess, Record: record}
}

func (u *Uploader) transfer(ctx context.Context, index int, file File, uploadURL string) error {
	body, err := file.Open()
	if err != nil {
		return errors.Wrap(err, "failed to open file")
	}
	defer body.Close()

	reader := newProgressReader(body, file.Size, func(percent float64) {
		u.progress(index, StatusUploading, percent)
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, uploadURL, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", file.ContentType)
	req.ContentLength = file.Size

	resp, err := u.storageHTTP.Do(req)
	if err != nil {
		return errors.Wrap(err, "transfer failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("transfer rejected with status code %d", resp.StatusCode)
	}
	return nil
}

// Delete is the client half of the deletion guard: system-generated
// records are rejected before any network call, everything else needs
// explicit confirmation.
func (u *Uploader) Delete(ctx context.Context, record *repository.FileRecord, confirm func() bool) error {
	if record.SystemGenerated {
		return ErrSystemGenerated
	}

	if confirm == nil || !confirm() {
		return ErrNotConfirmed
	}

	if err := u.client.DeleteFile(ctx, record.ID); err != nil {
		return err
	}

	if u.onDeleted != nil {
		u.onDeleted(record.ProductID)
	}
	return nil
}

func (u *Uploader) progress(index int, status Status, percent float64) {
	if u.onProgress != nil {
		u.onProgress(index, status, percent)
	}
}

func (u *Uploader) fail(index int, file File, err error) Result {
	u.log.With("err", err, "name", file.Name).Error("upload failed")
	u.progress(index, StatusError, 0)
	return Result{Name: file.Name, Status: StatusError, Err: err}
}

func stripQuery(uploadURL string) string {
	for i := range uploadURL {
		if uploadURL[i] == '?' {
			return uploadURL[:i]
		}
	}
	return uploadURL
}
