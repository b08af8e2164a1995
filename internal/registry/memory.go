package registry

import (
	"context"
	"sync"

	"github.com/motionforge/api/internal/model"
)

// Memory is an in-process Registry backed by a mutex-guarded map. It is the
// default store and the one tests use.
type Memory struct {
	mu   sync.RWMutex
	jobs map[string]*model.Job
}

func NewMemory() *Memory {
	return &Memory{jobs: make(map[string]*model.Job)}
}

func (m *Memory) Create(_ context.Context, job *model.Job) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *job
	m.jobs[job.ID] = &cp
	return nil
}

func (m *Memory) Get(_ context.Context, id string) (*model.Job, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	job, ok := m.jobs[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *job
	return &cp, nil
}

func (m *Memory) SetStage(_ context.Context, id string, stage model.JobStage, detail string) error {
	return m.mutate(id, func(job *model.Job) error {
		return applyStage(job, stage, detail)
	})
}

func (m *Memory) SetDetail(_ context.Context, id string, detail string) error {
	return m.mutate(id, func(job *model.Job) error {
		return applyDetail(job, detail)
	})
}

func (m *Memory) Complete(_ context.Context, id, videoPath, message string) error {
	return m.mutate(id, func(job *model.Job) error {
		return applyComplete(job, videoPath, message)
	})
}

func (m *Memory) Fail(_ context.Context, id, message string) error {
	return m.mutate(id, func(job *model.Job) error {
		return applyFail(job, message)
	})
}

func (m *Memory) mutate(id string, fn func(*model.Job) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	job, ok := m.jobs[id]
	if !ok {
		return ErrNotFound
	}
	return fn(job)
}
