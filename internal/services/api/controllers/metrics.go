package controllers

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	commitsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sparks_files_commits_total",
		Help: "Metadata commits by mode (create or replace).",
	}, []string{"mode"})

	deletesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sparks_files_deletes_total",
		Help: "Delete attempts by outcome.",
	}, []string{"result"})

	downloadsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sparks_files_downloads_total",
		Help: "Served file downloads.",
	})
)
