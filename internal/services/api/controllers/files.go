package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mavericklabs/sparks-files/internal/services/attachments"
	"github.com/mavericklabs/sparks-files/internal/services/listing"
	"github.com/mavericklabs/sparks-files/internal/services/repository"
)

type FilesController struct {
	service attachments.Service
	log     *zap.SugaredLogger
}

func NewFilesController(service attachments.Service, log *zap.SugaredLogger) *FilesController {
	return &FilesController{
		service: service,
		log:     log,
	}
}

type CheckDuplicateResponse struct {
	IsDuplicate bool `json:"isDuplicate"`
}

type UploadURLRequest struct {
	FileName    string `json:"fileName" binding:"required"`
	ContentType string `json:"contentType" binding:"required"`
}

type UploadURLResponse struct {
	UploadURL string `json:"uploadUrl"`
}

type CommitRequest struct {
	Name        string `json:"name" binding:"required"`
	Size        int64  `json:"size"`
	ContentType string `json:"contentType"`
	URL         string `json:"url"`
	ProductID   string `json:"productId" binding:"required"`
	StepID      *int   `json:"stepId"`
	SubStepID   *int   `json:"subStepId"`
}

func intQuery(ctx *gin.Context, name string) (*int, error) {
	raw := ctx.Query(name)
	if raw == "" {
		return nil, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fmt.Errorf("%s is not an integer", name)
	}
	return &value, nil
}

func (c *FilesController) ListFiles(ctx *gin.Context) {
	productID := ctx.Query("productId")
	if productID == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "productId is required"})
		return
	}

	stepID, err := intQuery(ctx, "stepId")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	subStepID, err := intQuery(ctx, "subStepId")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	files, err := c.service.List(ctx, repository.FindFilesInput{
		ProductID: productID,
		StepID:    stepID,
		SubStepID: subStepID,
	})
	if err != nil {
		c.log.With("err", err).Error("failed to list files")
		ctx.Status(http.StatusInternalServerError)
		return
	}

	view := listing.NewView()
	if raw := ctx.Query("sortBy"); raw != "" {
		column, ok := listing.ParseColumn(raw)
		if !ok {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "unknown sort column"})
			return
		}
		direction := listing.Asc
		if rawDir := ctx.Query("dir"); rawDir != "" {
			if direction, ok = listing.ParseDirection(rawDir); !ok {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": "dir must be asc or desc"})
				return
			}
		}
		view.Sort(column, direction)
	}
	view.SetTerm(ctx.Query("filter"))

	files = view.Apply(files)
	if files == nil {
		files = []repository.FileRecord{}
	}
	ctx.JSON(http.StatusOK, files)
}

func (c *FilesController) CheckDuplicate(ctx *gin.Context) {
	fileName := ctx.Query("fileName")
	productID := ctx.Query("productId")
	if fileName == "" || productID == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "fileName and productId are required"})
		return
	}

	isDuplicate, err := c.service.IsDuplicate(ctx, fileName, productID)
	if err != nil {
		// never folded into "not duplicate": the client must see the
		// probe failing, not a green light
		c.log.With("err", err).Error("failed to check duplicate")
		ctx.Status(http.StatusInternalServerError)
		return
	}

	ctx.JSON(http.StatusOK, &CheckDuplicateResponse{IsDuplicate: isDuplicate})
}

func (c *FilesController) GetUploadURL(ctx *gin.Context) {
	var req UploadURLRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	uploadURL, err := c.service.UploadURL(ctx, req.FileName, req.ContentType)
	if err != nil {
		c.log.With("err", err).Error("failed to presign an upload url")
		ctx.Status(http.StatusInternalServerError)
		return
	}

	ctx.JSON(http.StatusCreated, &UploadURLResponse{UploadURL: uploadURL})
}

func (c *FilesController) CommitCreate(ctx *gin.Context) {
	c.commit(ctx, false)
}

func (c *FilesController) CommitReplace(ctx *gin.Context) {
	c.commit(ctx, true)
}

func (c *FilesController) commit(ctx *gin.Context, replace bool) {
	var req CommitRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	file, err := c.service.Commit(ctx, attachments.CommitInput{
		Name:        req.Name,
		Size:        req.Size,
		ContentType: req.ContentType,
		URL:         req.URL,
		ProductID:   req.ProductID,
		StepID:      req.StepID,
		SubStepID:   req.SubStepID,
	}, replace)
	if err != nil {
		switch {
		case errors.Is(err, attachments.ErrExists):
			ctx.JSON(http.StatusConflict, gin.H{"error": "file already exists"})
		case errors.Is(err, attachments.ErrBusy):
			ctx.JSON(http.StatusConflict, gin.H{"error": "file is being committed"})
		default:
			c.log.With("err", err).Error("failed to commit file metadata")
			ctx.Status(http.StatusInternalServerError)
		}
		return
	}

	mode := "create"
	status := http.StatusCreated
	if replace {
		mode = "replace"
		status = http.StatusOK
	}
	commitsTotal.WithLabelValues(mode).Inc()

	ctx.JSON(status, file)
}

func (c *FilesController) DeleteFile(ctx *gin.Context) {
	id := ctx.Param("id")

	err := c.service.Delete(ctx, id)
	if err != nil {
		switch {
		case errors.Is(err, attachments.ErrSystemGenerated):
			deletesTotal.WithLabelValues("rejected").Inc()
			ctx.JSON(http.StatusForbidden, gin.H{"error": "system-generated files cannot be deleted"})
		case errors.Is(err, attachments.ErrNotFound):
			ctx.JSON(http.StatusNotFound, gin.H{"error": "file not found"})
		default:
			deletesTotal.WithLabelValues("error").Inc()
			c.log.With("err", err).Error("failed to delete file")
			ctx.Status(http.StatusInternalServerError)
		}
		return
	}

	deletesTotal.WithLabelValues("ok").Inc()
	ctx.Status(http.StatusOK)
}

func (c *FilesController) DownloadFile(ctx *gin.Context) {
	fileName := ctx.Query("fileName")
	if fileName == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "fileName is required"})
		return
	}

	download, err := c.service.OpenDownload(ctx, fileName)
	if err != nil {
		if errors.Is(err, attachments.ErrNotFound) {
			ctx.Status(http.StatusNotFound)
			return
		}
		c.log.With("err", err).Error("failed to open download")
		ctx.Status(http.StatusInternalServerError)
		return
	}
	defer download.Body.Close()

	downloadsTotal.Inc()

	extraHeaders := map[string]string{
		"Content-Disposition": fmt.Sprintf(`attachment; filename="%s"`, download.Name),
	}
	ctx.DataFromReader(http.StatusOK, download.Size, download.ContentType, download.Body, extraHeaders)
}
