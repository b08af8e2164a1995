package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/motionforge/api/internal/model"
)

const jobRetention = 24 * time.Hour

// Redis stores job records as JSON blobs under job:<id> with a retention
// TTL, so status survives a process restart and multiple replicas can serve
// status reads.
type Redis struct {
	client *redis.Client
}

func NewRedis(client *redis.Client) *Redis {
	return &Redis{client: client}
}

func (r *Redis) Create(ctx context.Context, job *model.Job) error {
	return r.save(ctx, job)
}

func (r *Redis) Get(ctx context.Context, id string) (*model.Job, error) {
	data, err := r.client.Get(ctx, jobKey(id)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var job model.Job
	if err := json.Unmarshal(data, &job); err != nil {
		return nil, err
	}
	return &job, nil
}

func (r *Redis) SetStage(ctx context.Context, id string, stage model.JobStage, detail string) error {
	return r.mutate(ctx, id, func(job *model.Job) error {
		return applyStage(job, stage, detail)
	})
}

func (r *Redis) SetDetail(ctx context.Context, id string, detail string) error {
	return r.mutate(ctx, id, func(job *model.Job) error {
		return applyDetail(job, detail)
	})
}

func (r *Redis) Complete(ctx context.Context, id, videoPath, message string) error {
	return r.mutate(ctx, id, func(job *model.Job) error {
		return applyComplete(job, videoPath, message)
	})
}

func (r *Redis) Fail(ctx context.Context, id, message string) error {
	return r.mutate(ctx, id, func(job *model.Job) error {
		return applyFail(job, message)
	})
}

// mutate is read-modify-write. Only one worker task ever mutates a given job
// ID, so there is no write contention to guard against.
func (r *Redis) mutate(ctx context.Context, id string, fn func(*model.Job) error) error {
	job, err := r.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := fn(job); err != nil {
		return err
	}
	return r.save(ctx, job)
}

func (r *Redis) save(ctx context.Context, job *model.Job) error {
	data, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, jobKey(job.ID), data, jobRetention).Err()
}

func jobKey(id string) string {
	return fmt.Sprintf("job:%s", id)
}
