package uploader

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/pkg/errors"

	"github.com/mavericklabs/sparks-files/internal/services/api"
	"github.com/mavericklabs/sparks-files/internal/services/api/controllers"
	"github.com/mavericklabs/sparks-files/internal/services/repository"
)

// Client talks to the attachment API on behalf of the orchestrator.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL:    baseURL,
		token:      token,
		httpClient: http.DefaultClient,
	}
}

func (c *Client) do(ctx context.Context, method, path string, body, out any, wantStatus int) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != wantStatus {
		return fmt.Errorf("%s %s: unexpected status code: %d", method, path, resp.StatusCode)
	}

	if out != nil {
		if err = json.NewDecoder(resp.Body).Decode(out); err != nil {
			return errors.Wrap(err, "failed to decode response")
		}
	}
	return nil
}

func (c *Client) CheckDuplicate(ctx context.Context, fileName, productID string) (bool, error) {
	path := fmt.Sprintf("%s?fileName=%s&productId=%s",
		api.PathCheckDuplicate, url.QueryEscape(fileName), url.QueryEscape(productID))

	var result controllers.CheckDuplicateResponse
	if err := c.do(ctx, http.MethodGet, path, nil, &result, http.StatusOK); err != nil {
		return false, err
	}
	return result.IsDuplicate, nil
}

func (c *Client) UploadURL(ctx context.Context, fileName, contentType string) (string, error) {
	var result controllers.UploadURLResponse
	err := c.do(ctx, http.MethodPost, api.PathUploadURL, &controllers.UploadURLRequest{
		FileName:    fileName,
		ContentType: contentType,
	}, &result, http.StatusCreated)
	if err != nil {
		return "", err
	}
	return result.UploadURL, nil
}

func (c *Client) Commit(ctx context.Context, req controllers.CommitRequest, replace bool) (*repository.FileRecord, error) {
	method, wantStatus := http.MethodPost, http.StatusCreated
	if replace {
		method, wantStatus = http.MethodPut, http.StatusOK
	}

	var record repository.FileRecord
	if err := c.do(ctx, method, api.PathFiles, &req, &record, wantStatus); err != nil {
		return nil, err
	}
	return &record, nil
}

func (c *Client) ListFiles(ctx context.Context, productID string) ([]repository.FileRecord, error) {
	path := api.PathFiles + "?productId=" + url.QueryEscape(productID)

	var files []repository.FileRecord
	if err := c.do(ctx, http.MethodGet, path, nil, &files, http.StatusOK); err != nil {
		return nil, err
	}
	return files, nil
}

func (c *Client) DeleteFile(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, api.PathFiles+"/"+url.PathEscape(id), nil, nil, http.StatusOK)
}
