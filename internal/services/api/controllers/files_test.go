package controllers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/mavericklabs/sparks-files/internal/services/api/controllers"
	"github.com/mavericklabs/sparks-files/internal/services/attachments"
	"github.com/mavericklabs/sparks-files/internal/services/cache"
	"github.com/mavericklabs/sparks-files/internal/services/objectstore"
	"github.com/mavericklabs/sparks-files/internal/services/repository"
)

func TestAll(t *testing.T) {
	suite.Run(t, new(testSuite))
}

type testSuite struct {
	suite.Suite
	engine  *gin.Engine
	service attachments.Service
	store   *objectstore.Memory
}

func (t *testSuite) SetupTest() {
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	t.Require().NoError(err)
	t.Require().NoError(db.AutoMigrate(&repository.FileRecord{}, &repository.User{}))

	repo := repository.New(db)
	t.store = objectstore.NewMemory()
	log := zap.NewNop().Sugar()

	t.service = attachments.New(repo, t.store, cache.NewKeyLock(), cache.NewListings(), log)

	files := controllers.NewFilesController(t.service, log)

	t.engine = gin.New()
	t.engine.GET("/api/v1/files", files.ListFiles)
	t.engine.GET("/api/v1/files/check-duplicate", files.CheckDuplicate)
	t.engine.POST("/api/v1/files/pre-signed", files.GetUploadURL)
	t.engine.POST("/api/v1/files", files.CommitCreate)
	t.engine.PUT("/api/v1/files", files.CommitReplace)
	t.engine.DELETE("/api/v1/files/:id", files.DeleteFile)
	t.engine.GET("/api/v1/files/download", files.DownloadFile)
}

func (t *testSuite) do(method, target string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		t.Require().NoError(err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")

	recorder := httptest.NewRecorder()
	t.engine.ServeHTTP(recorder, req)
	return recorder
}

func (t *testSuite) TestListRequiresProduct() {
	resp := t.do(http.MethodGet, "/api/v1/files", nil)
	t.Require().Equal(http.StatusBadRequest, resp.Code)
}

func (t *testSuite) TestCheckDuplicate() {
	resp := t.do(http.MethodGet, "/api/v1/files/check-duplicate?fileName=report.csv&productId=P1", nil)
	t.Require().Equal(http.StatusOK, resp.Code)

	var result controllers.CheckDuplicateResponse
	t.Require().NoError(json.Unmarshal(resp.Body.Bytes(), &result))
	t.Require().False(result.IsDuplicate)

	resp = t.do(http.MethodPost, "/api/v1/files", controllers.CommitRequest{
		Name: "report.csv", ProductID: "P1",
	})
	t.Require().Equal(http.StatusCreated, resp.Code)

	resp = t.do(http.MethodGet, "/api/v1/files/check-duplicate?fileName=report.csv&productId=P1", nil)
	t.Require().Equal(http.StatusOK, resp.Code)
	t.Require().NoError(json.Unmarshal(resp.Body.Bytes(), &result))
	t.Require().True(result.IsDuplicate)
}

func (t *testSuite) TestUploadURL() {
	resp := t.do(http.MethodPost, "/api/v1/files/pre-signed", controllers.UploadURLRequest{
		FileName:    "report.csv",
		ContentType: "text/csv",
	})
	t.Require().Equal(http.StatusCreated, resp.Code)

	var result controllers.UploadURLResponse
	t.Require().NoError(json.Unmarshal(resp.Body.Bytes(), &result))
	t.Require().Contains(result.UploadURL, "report.csv")
}

func (t *testSuite) TestCommitCreateAndReplace() {
	resp := t.do(http.MethodPost, "/api/v1/files", controllers.CommitRequest{
		Name: "report.csv", Size: 2000000, ContentType: "text/csv", ProductID: "P1",
	})
	t.Require().Equal(http.StatusCreated, resp.Code)

	var created repository.FileRecord
	t.Require().NoError(json.Unmarshal(resp.Body.Bytes(), &created))
	t.Require().False(created.SystemGenerated)

	// a repeated create conflicts
	resp = t.do(http.MethodPost, "/api/v1/files", controllers.CommitRequest{
		Name: "report.csv", ProductID: "P1",
	})
	t.Require().Equal(http.StatusConflict, resp.Code)

	// a replace keeps the id
	resp = t.do(http.MethodPut, "/api/v1/files", controllers.CommitRequest{
		Name: "report.csv", Size: 2500000, ContentType: "text/csv", ProductID: "P1",
	})
	t.Require().Equal(http.StatusOK, resp.Code)

	var replaced repository.FileRecord
	t.Require().NoError(json.Unmarshal(resp.Body.Bytes(), &replaced))
	t.Require().Equal(created.ID, replaced.ID)
	t.Require().Equal(int64(2500000), replaced.Size)

	resp = t.do(http.MethodGet, "/api/v1/files?productId=P1", nil)
	t.Require().Equal(http.StatusOK, resp.Code)

	var files []repository.FileRecord
	t.Require().NoError(json.Unmarshal(resp.Body.Bytes(), &files))
	t.Require().Len(files, 1)
}

func (t *testSuite) TestListSortAndFilter() {
	for _, name := range []string{"bravo.csv", "alpha.csv", "charlie.pdf"} {
		resp := t.do(http.MethodPost, "/api/v1/files", controllers.CommitRequest{
			Name: name, Size: int64(len(name)), ProductID: "P1",
		})
		t.Require().Equal(http.StatusCreated, resp.Code)
	}

	resp := t.do(http.MethodGet, "/api/v1/files?productId=P1&sortBy=name&dir=desc", nil)
	t.Require().Equal(http.StatusOK, resp.Code)

	var files []repository.FileRecord
	t.Require().NoError(json.Unmarshal(resp.Body.Bytes(), &files))
	t.Require().Len(files, 3)
	t.Require().Equal("charlie.pdf", files[0].Name)
	t.Require().Equal("alpha.csv", files[2].Name)

	resp = t.do(http.MethodGet, "/api/v1/files?productId=P1&filter=csv", nil)
	t.Require().Equal(http.StatusOK, resp.Code)
	t.Require().NoError(json.Unmarshal(resp.Body.Bytes(), &files))
	t.Require().Len(files, 2)
	t.Require().Equal("alpha.csv", files[0].Name)

	resp = t.do(http.MethodGet, "/api/v1/files?productId=P1&sortBy=owner", nil)
	t.Require().Equal(http.StatusBadRequest, resp.Code)

	resp = t.do(http.MethodGet, "/api/v1/files?productId=P1&sortBy=size&dir=sideways", nil)
	t.Require().Equal(http.StatusBadRequest, resp.Code)
}

func (t *testSuite) TestDeleteGuard() {
	generated, err := t.service.CreateSystemFile(context.Background(), attachments.CommitInput{
		Name: "summary.pdf", ProductID: "P1",
	})
	t.Require().NoError(err)

	resp := t.do(http.MethodDelete, fmt.Sprintf("/api/v1/files/%s", generated.ID), nil)
	t.Require().Equal(http.StatusForbidden, resp.Code)

	// record still listed
	resp = t.do(http.MethodGet, "/api/v1/files?productId=P1", nil)
	var files []repository.FileRecord
	t.Require().NoError(json.Unmarshal(resp.Body.Bytes(), &files))
	t.Require().Len(files, 1)

	resp = t.do(http.MethodDelete, "/api/v1/files/unknown-id", nil)
	t.Require().Equal(http.StatusNotFound, resp.Code)
}

func (t *testSuite) TestDownload() {
	resp := t.do(http.MethodGet, "/api/v1/files/download?fileName=missing.txt", nil)
	t.Require().Equal(http.StatusNotFound, resp.Code)

	t.Require().NoError(t.store.Put(context.Background(), "notes.txt", "text/plain", strings.NewReader("hello")))

	resp = t.do(http.MethodGet, "/api/v1/files/download?fileName=notes.txt", nil)
	t.Require().Equal(http.StatusOK, resp.Code)
	t.Require().Equal("hello", resp.Body.String())
	t.Require().Contains(resp.Header().Get("Content-Disposition"), "notes.txt")
}
