package cache

import (
	"fmt"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/mavericklabs/sparks-files/internal/services/repository"
)

const (
	listingsSize = 512
	listingsTTL  = 5 * time.Minute
)

// Listings caches fetched per-product file sets, keyed by product scope.
// Any successful create, update or delete invalidates the whole product
// so the next fetch reflects whichever mutations have landed.
type Listings struct {
	lru *expirable.LRU[string, []repository.FileRecord]
}

func NewListings() *Listings {
	return &Listings{
		lru: expirable.NewLRU[string, []repository.FileRecord](listingsSize, nil, listingsTTL),
	}
}

func listingKey(productID string, stepID, subStepID *int) string {
	key := productID + "|"
	if stepID != nil {
		key += fmt.Sprint(*stepID)
	}
	key += "|"
	if subStepID != nil {
		key += fmt.Sprint(*subStepID)
	}
	return key
}

func (l *Listings) Get(productID string, stepID, subStepID *int) ([]repository.FileRecord, bool) {
	return l.lru.Get(listingKey(productID, stepID, subStepID))
}

func (l *Listings) Set(productID string, stepID, subStepID *int, files []repository.FileRecord) {
	l.lru.Add(listingKey(productID, stepID, subStepID), files)
}

func (l *Listings) InvalidateProduct(productID string) {
	prefix := productID + "|"
	for _, key := range l.lru.Keys() {
		if strings.HasPrefix(key, prefix) {
			l.lru.Remove(key)
		}
	}
}
