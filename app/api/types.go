package api

import (
	"github.com/ainewslab/autopress/app/runlog"
	"github.com/ainewslab/autopress/app/store"
)

type PostsStore interface {
	LoadPosts() ([]store.Post, error)
	LoadCandidates() ([]store.Candidate, error)
}

type RunArchive interface {
	RecentRuns(limit int) ([]runlog.RunRecord, error)
	RunCount() (int, error)
}

type PipelineTrigger interface {
	TriggerRun() error
	IsRunning() bool
}

type Handler struct {
	store     PostsStore
	archive   RunArchive
	trigger   PipelineTrigger
	outputDir string
}
