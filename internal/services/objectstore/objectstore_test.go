package objectstore

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMemoryCRUD(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()

	exists, err := store.Exists(ctx, "report.csv")
	require.NoError(t, err)
	require.False(t, exists)

	err = store.Put(ctx, "report.csv", "text/csv", strings.NewReader("a,b,c"))
	require.NoError(t, err)

	exists, err = store.Exists(ctx, "report.csv")
	require.NoError(t, err)
	require.True(t, exists)

	reader, err := store.Get(ctx, "report.csv")
	require.NoError(t, err)
	data, err := io.ReadAll(reader)
	require.NoError(t, err)
	require.Equal(t, "a,b,c", string(data))

	info, err := store.Stat(ctx, "report.csv")
	require.NoError(t, err)
	require.Equal(t, int64(5), info.Size)
	require.Equal(t, "text/csv", info.ContentType)
	require.False(t, info.UpdatedAt.IsZero())

	names, err := store.List(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"report.csv"}, names)

	// delete is idempotent
	require.NoError(t, store.Delete(ctx, "report.csv"))
	require.NoError(t, store.Delete(ctx, "report.csv"))

	_, err = store.Get(ctx, "report.csv")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestMemorySignedUpload(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()

	server := httptest.NewServer(store.Handler())
	defer server.Close()
	store.SetBaseURL(server.URL)

	signedURL, err := store.SignedUploadURL(ctx, "notes.txt", "text/plain", time.Minute)
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodPut, signedURL, bytes.NewReader([]byte("hello")))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "text/plain")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	reader, err := store.Get(ctx, "notes.txt")
	require.NoError(t, err)
	data, err := io.ReadAll(reader)
	require.NoError(t, err)
	require.Equal(t, "hello", string(data))
}

func TestMemorySignedUploadRestrictions(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()

	server := httptest.NewServer(store.Handler())
	defer server.Close()
	store.SetBaseURL(server.URL)

	// expired credential
	signedURL, err := store.SignedUploadURL(ctx, "late.txt", "text/plain", -time.Minute)
	require.NoError(t, err)

	req, _ := http.NewRequest(http.MethodPut, signedURL, strings.NewReader("x"))
	req.Header.Set("Content-Type", "text/plain")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)

	// wrong content type
	signedURL, err = store.SignedUploadURL(ctx, "typed.txt", "text/plain", time.Minute)
	require.NoError(t, err)

	req, _ = http.NewRequest(http.MethodPut, signedURL, strings.NewReader("x"))
	req.Header.Set("Content-Type", "application/zip")
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)

	exists, err := store.Exists(ctx, "typed.txt")
	require.NoError(t, err)
	require.False(t, exists)
}
