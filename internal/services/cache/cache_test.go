package cache

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mavericklabs/sparks-files/internal/services/repository"
)

func TestKeyLock(t *testing.T) {
	kl := NewKeyLock()

	keys := []string{"P1/report.csv", "P1/notes.txt"}
	err := kl.Lock(keys)
	require.NoError(t, err)

	err = kl.Lock([]string{"P1/report.csv"})
	require.ErrorIs(t, err, ErrLocked)

	err = kl.Lock([]string{"P1/notes.txt"})
	require.ErrorIs(t, err, ErrLocked)

	err = kl.Lock(keys)
	require.ErrorIs(t, err, ErrLocked)

	kl.Unlock(keys)
	err = kl.Lock(keys)
	require.NoError(t, err)
}

func TestListings(t *testing.T) {
	listings := NewListings()

	stepID := 1
	files := []repository.FileRecord{{ID: "f1", Name: "report.csv", ProductID: "P1"}}

	listings.Set("P1", nil, nil, files)
	listings.Set("P1", &stepID, nil, files)
	listings.Set("P2", nil, nil, files)

	cached, ok := listings.Get("P1", nil, nil)
	require.True(t, ok)
	require.Len(t, cached, 1)

	listings.InvalidateProduct("P1")

	_, ok = listings.Get("P1", nil, nil)
	require.False(t, ok)
	_, ok = listings.Get("P1", &stepID, nil)
	require.False(t, ok)

	// another product's scope is untouched
	_, ok = listings.Get("P2", nil, nil)
	require.True(t, ok)
}
