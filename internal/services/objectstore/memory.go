package objectstore

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
)

type memObject struct {
	data        []byte
	contentType string
	updatedAt   time.Time
}

// Memory is an in-process Store used by tests and the local mode. Its
// signed URLs point at Handler, which enforces the method, expiry and
// content-type restrictions a real bucket would.
type Memory struct {
	locker  sync.RWMutex
	objects map[string]memObject
	baseURL string
}

func NewMemory() *Memory {
	return &Memory{
		objects: make(map[string]memObject),
	}
}

// SetBaseURL points minted upload URLs at the host serving Handler.
func (m *Memory) SetBaseURL(baseURL string) {
	m.locker.Lock()
	defer m.locker.Unlock()
	m.baseURL = strings.TrimSuffix(baseURL, "/")
}

func (m *Memory) SignedUploadURL(_ context.Context, name, contentType string, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = DefaultSignedURLTTL
	}

	m.locker.RLock()
	baseURL := m.baseURL
	m.locker.RUnlock()

	expires := time.Now().Add(ttl).Unix()
	return fmt.Sprintf("%s/%s?ct=%s&expires=%d",
		baseURL, url.PathEscape(name), url.QueryEscape(contentType), expires), nil
}

func (m *Memory) Put(_ context.Context, name, contentType string, body io.Reader) error {
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}

	m.locker.Lock()
	defer m.locker.Unlock()
	m.objects[name] = memObject{
		data:        data,
		contentType: contentType,
		updatedAt:   time.Now().UTC(),
	}
	return nil
}

func (m *Memory) Get(_ context.Context, name string) (io.ReadCloser, error) {
	m.locker.RLock()
	defer m.locker.RUnlock()

	obj, ok := m.objects[name]
	if !ok {
		return nil, ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(obj.data)), nil
}

func (m *Memory) Delete(_ context.Context, name string) error {
	m.locker.Lock()
	defer m.locker.Unlock()
	delete(m.objects, name)
	return nil
}

func (m *Memory) List(_ context.Context) ([]string, error) {
	m.locker.RLock()
	defer m.locker.RUnlock()

	names := make([]string, 0, len(m.objects))
	for name := range m.objects {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (m *Memory) Exists(_ context.Context, name string) (bool, error) {
	m.locker.RLock()
	defer m.locker.RUnlock()
	_, ok := m.objects[name]
	return ok, nil
}

func (m *Memory) Stat(_ context.Context, name string) (*ObjectInfo, error) {
	m.locker.RLock()
	defer m.locker.RUnlock()

	obj, ok := m.objects[name]
	if !ok {
		return nil, ErrNotFound
	}
	return &ObjectInfo{
		Size:        int64(len(obj.data)),
		ContentType: obj.contentType,
		UpdatedAt:   obj.updatedAt,
	}, nil
}

// Handler serves the transfer leg of the upload handshake: a direct PUT
// against a signed URL, and GET for downloads.
func (m *Memory) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name, err := url.PathUnescape(strings.TrimPrefix(r.URL.Path, "/"))
		if err != nil || name == "" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		switch r.Method {
		case http.MethodPut:
			expires, err := strconv.ParseInt(r.URL.Query().Get("expires"), 10, 64)
			if err != nil || time.Now().Unix() > expires {
				w.WriteHeader(http.StatusForbidden)
				return
			}
			if ct := r.URL.Query().Get("ct"); ct != "" && r.Header.Get("Content-Type") != ct {
				w.WriteHeader(http.StatusForbidden)
				return
			}
			if err := m.Put(r.Context(), name, r.Header.Get("Content-Type"), r.Body); err != nil {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			w.WriteHeader(http.StatusOK)

		case http.MethodGet:
			reader, err := m.Get(r.Context(), name)
			if err != nil {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			defer reader.Close()
			_, _ = io.Copy(w, reader)

		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	})
}
