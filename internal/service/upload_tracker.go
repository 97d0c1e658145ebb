package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/megamindDeveloper/carrers-dashboard-sub000/internal/flow"

	"github.com/go-redis/redis/v8"
)

const uploadStateTTL = 2 * time.Hour

// UploadTracker keeps per-question upload state in redis so candidates
// can poll transfer progress while a file streams to the store. State
// is ephemeral; only the final URL lands in the answer set.
type UploadTracker struct {
	rdb *redis.Client
}

func NewUploadTracker(rdb *redis.Client) *UploadTracker {
	return &UploadTracker{rdb: rdb}
}

func uploadKey(attemptID, questionID string) string {
	return fmt.Sprintf("upload:%s:%s", attemptID, questionID)
}

func claimKey(attemptID, questionID string) string {
	return uploadKey(attemptID, questionID) + ":claim"
}

// Claim takes the single in-flight slot for a question's upload via
// SETNX, so two simultaneous uploads for the same question cannot both
// start streaming. The winner must Release when the transfer settles.
func (t *UploadTracker) Claim(ctx context.Context, attemptID, questionID string) (bool, error) {
	return t.rdb.SetNX(ctx, claimKey(attemptID, questionID), "1", uploadStateTTL).Result()
}

// Release frees the in-flight slot. A finished upload stays blocked by
// its terminal success state, not by the claim.
func (t *UploadTracker) Release(ctx context.Context, attemptID, questionID string) {
	_ = t.rdb.Del(ctx, claimKey(attemptID, questionID)).Err()
}

func (t *UploadTracker) Get(ctx context.Context, attemptID, questionID string) (flow.UploadState, error) {
	data, err := t.rdb.Get(ctx, uploadKey(attemptID, questionID)).Bytes()
	if err == redis.Nil {
		return flow.UploadState{Status: flow.UploadIdle}, nil
	}
	if err != nil {
		return flow.UploadState{}, err
	}

	var st flow.UploadState
	if err := json.Unmarshal(data, &st); err != nil {
		return flow.UploadState{Status: flow.UploadIdle}, nil
	}
	return st, nil
}

func (t *UploadTracker) Set(ctx context.Context, attemptID, questionID string, st flow.UploadState) error {
	data, err := json.Marshal(st)
	if err != nil {
		return err
	}
	return t.rdb.Set(ctx, uploadKey(attemptID, questionID), data, uploadStateTTL).Err()
}

// Transition loads the current state, applies fn, and stores the
// result. Redis access is best-effort; the upload itself never blocks
// on tracker failures.
func (t *UploadTracker) Transition(ctx context.Context, attemptID, questionID string, fn func(flow.UploadState) flow.UploadState) {
	st, err := t.Get(ctx, attemptID, questionID)
	if err != nil {
		return
	}
	_ = t.Set(ctx, attemptID, questionID, fn(st))
}

// Clear drops all tracker state for a question once the attempt is
// closed and the state can no longer matter.
func (t *UploadTracker) Clear(ctx context.Context, attemptID, questionID string) {
	_ = t.rdb.Del(ctx, uploadKey(attemptID, questionID), claimKey(attemptID, questionID)).Err()
}
