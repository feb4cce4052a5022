package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/pavelzhukov/transaction-ingest/internal/logger"
	"github.com/redis/go-redis/v9"
)

// Job states
const (
	StateWaiting   = "waiting"
	StateActive    = "active"
	StateCompleted = "completed"
	StateFailed    = "failed"
	StateDelayed   = "delayed"
)

// Defaults for retry, lease and retention tuning.
const (
	DefaultAttempts         = 3
	DefaultBackoffDelay     = 2000 * time.Millisecond
	DefaultLeaseDuration    = 30 * time.Second
	DefaultRemoveOnComplete = 100
	DefaultRemoveOnFail     = 1000
)

// ErrJobNotFound is returned by State when no job with the given id is known.
var ErrJobNotFound = errors.New("job not found")

// Handler processes one delivered job. A non-nil error triggers the queue's
// retry/backoff policy; delivery is at-least-once, so handlers must be
// idempotent.
type Handler func(ctx context.Context, job *Job) error

// Job is the queue's view of one unit of work. The job id doubles as the
// dedup key: enqueueing an id that is already present is a no-op.
type Job struct {
	ID           string    `json:"id"`
	Payload      []byte    `json:"payload"`
	State        string    `json:"state"`
	AttemptsMade int       `json:"attempts_made"`
	MaxAttempts  int       `json:"max_attempts"`
	FailedReason string    `json:"failed_reason,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	ProcessedAt  time.Time `json:"processed_at,omitempty"`
	FinishedAt   time.Time `json:"finished_at,omitempty"`
}

// Counts holds the aggregate number of jobs per state.
type Counts struct {
	Waiting   int64 `json:"waiting"`
	Active    int64 `json:"active"`
	Completed int64 `json:"completed"`
	Failed    int64 `json:"failed"`
	Delayed   int64 `json:"delayed"`
}

// Config tunes a queue. Zero values fall back to the defaults above.
type Config struct {
	Name             string
	Attempts         int           // delivery attempts per job before it lands in failed
	BackoffDelay     time.Duration // base delay between redeliveries, doubled per retry
	LeaseDuration    time.Duration // how long a delivery may sit in active before it is reclaimed
	RemoveOnComplete int           // completed jobs retained for introspection
	RemoveOnFail     int           // failed jobs retained for post-mortem inspection
}

// Queue is a durable, at-least-once FIFO/retry queue on Redis. Waiting and
// active jobs live in lists moved between atomically with BLMOVE; retries wait
// in a sorted set scored by their ready time.
type Queue struct {
	client *redis.Client
	cfg    Config
}

func New(client *redis.Client, cfg Config) *Queue {
	if cfg.Name == "" {
		cfg.Name = "transactions"
	}
	if cfg.Attempts <= 0 {
		cfg.Attempts = DefaultAttempts
	}
	if cfg.BackoffDelay <= 0 {
		cfg.BackoffDelay = DefaultBackoffDelay
	}
	if cfg.LeaseDuration <= 0 {
		cfg.LeaseDuration = DefaultLeaseDuration
	}
	if cfg.RemoveOnComplete <= 0 {
		cfg.RemoveOnComplete = DefaultRemoveOnComplete
	}
	if cfg.RemoveOnFail <= 0 {
		cfg.RemoveOnFail = DefaultRemoveOnFail
	}
	return &Queue{client: client, cfg: cfg}
}

func (q *Queue) jobKey(id string) string { return fmt.Sprintf("queue:%s:job:%s", q.cfg.Name, id) }
func (q *Queue) listKey(s string) string { return fmt.Sprintf("queue:%s:%s", q.cfg.Name, s) }

// enqueueScript claims, stores and pushes a job in one atomic step, so a
// producer crash can never leave a half-materialized job behind. A hash
// without a state field is an aborted claim and is overwritten, not deduped.
var enqueueScript = redis.NewScript(`
if redis.call("HEXISTS", KEYS[1], "state") == 1 then
	return 0
end
redis.call("HSET", KEYS[1],
	"id", ARGV[1],
	"payload", ARGV[2],
	"state", ARGV[3],
	"attempts_made", 0,
	"max_attempts", ARGV[4],
	"created_at", ARGV[5])
redis.call("LPUSH", KEYS[2], ARGV[1])
return 1
`)

// Enqueue adds a job whose id is the dedup key. If a job with this id is
// already present (in any state that has not been pruned yet), the call is a
// no-op and Enqueue reports false.
func (q *Queue) Enqueue(ctx context.Context, id string, payload any) (bool, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return false, fmt.Errorf("marshal job payload: %w", err)
	}

	added, err := enqueueScript.Run(ctx, q.client,
		[]string{q.jobKey(id), q.listKey(StateWaiting)},
		id, data, StateWaiting, q.cfg.Attempts, time.Now().UnixMilli(),
	).Int()
	if err != nil {
		return false, fmt.Errorf("enqueue job %s: %w", id, err)
	}
	if added == 0 {
		logger.Log.Infow("duplicate enqueue ignored", "job_id", id)
		return false, nil
	}

	logger.Log.Infow("job enqueued", "job_id", id, "queue", q.cfg.Name)
	return true, nil
}

// stampScript marks one delivery on the job hash: counts the attempt and sets
// the activity lease. Refuses to resurrect a hash that was pruned in between.
var stampScript = redis.NewScript(`
if redis.call("HEXISTS", KEYS[1], "id") == 0 then
	return -1
end
local attempts = redis.call("HINCRBY", KEYS[1], "attempts_made", 1)
redis.call("HSET", KEYS[1], "state", ARGV[1], "processed_at", ARGV[2], "lease_until", ARGV[3])
return attempts
`)

// Run consumes jobs with the given handler until ctx is cancelled. It starts
// `concurrency` workers plus one promoter that moves due delayed jobs back to
// the waiting list.
func (q *Queue) Run(ctx context.Context, handler Handler, concurrency int) {
	if concurrency < 1 {
		concurrency = 1
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		q.promoteLoop(ctx)
	}()

	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			q.consumeLoop(ctx, handler)
		}()
	}

	wg.Wait()
}

func (q *Queue) consumeLoop(ctx context.Context, handler Handler) {
	for {
		id, err := q.client.BLMove(ctx, q.listKey(StateWaiting), q.listKey(StateActive), "RIGHT", "LEFT", time.Second).Result()
		if ctx.Err() != nil {
			return
		}
		if err == redis.Nil {
			continue
		}
		if err != nil {
			logger.Log.Errorw("queue poll failed", "queue", q.cfg.Name, "error", err)
			time.Sleep(time.Second)
			continue
		}

		// Stamp the delivery before reading the payload: the attempt counter
		// counts every delivery, and the lease makes a crashed consumer
		// detectable by the reclaimer.
		now := time.Now()
		stamped, err := stampScript.Run(ctx, q.client,
			[]string{q.jobKey(id)},
			StateActive, now.UnixMilli(), now.Add(q.cfg.LeaseDuration).UnixMilli(),
		).Int()
		if err != nil {
			// The id stays on the active list; the lease reclaim redelivers it.
			logger.Log.Errorw("failed to stamp job delivery", "job_id", id, "error", err)
			continue
		}
		if stamped < 0 {
			// Hash is gone, nothing left to deliver.
			q.client.LRem(ctx, q.listKey(StateActive), 1, id)
			continue
		}

		job, err := q.load(ctx, id)
		if err != nil {
			if errors.Is(err, ErrJobNotFound) {
				// Hash is gone, nothing left to deliver.
				q.client.LRem(ctx, q.listKey(StateActive), 1, id)
				continue
			}
			// Transient read failure: keep the id on the active list so the
			// lease reclaim redelivers it instead of losing the job.
			logger.Log.Errorw("failed to load job, leaving delivery for reclaim", "job_id", id, "error", err)
			continue
		}

		q.finish(ctx, job, handler(ctx, job))
	}
}

// finish settles a delivered job: completion, a delayed retry, or terminal
// failure after attempt exhaustion.
func (q *Queue) finish(ctx context.Context, job *Job, procErr error) {
	id := job.ID
	now := time.Now()

	if procErr == nil {
		pipe := q.client.TxPipeline()
		pipe.LRem(ctx, q.listKey(StateActive), 1, id)
		pipe.HSet(ctx, q.jobKey(id), "state", StateCompleted, "finished_at", now.UnixMilli())
		pipe.LPush(ctx, q.listKey(StateCompleted), id)
		if _, err := pipe.Exec(ctx); err != nil {
			logger.Log.Errorw("failed to mark job completed", "job_id", id, "error", err)
			return
		}
		q.prune(ctx, q.listKey(StateCompleted), q.cfg.RemoveOnComplete)
		logger.Log.Infow("job completed", "job_id", id, "attempts_made", job.AttemptsMade)
		return
	}

	// attempts_made was incremented when this delivery was stamped.
	attempts := job.AttemptsMade

	if attempts < job.MaxAttempts {
		// Exponential backoff: base delay doubled per retry.
		delay := q.cfg.BackoffDelay << (attempts - 1)
		readyAt := now.Add(delay)

		pipe := q.client.TxPipeline()
		pipe.LRem(ctx, q.listKey(StateActive), 1, id)
		pipe.HSet(ctx, q.jobKey(id), "state", StateDelayed, "failed_reason", procErr.Error())
		pipe.ZAdd(ctx, q.listKey(StateDelayed), redis.Z{Score: float64(readyAt.UnixMilli()), Member: id})
		if _, err := pipe.Exec(ctx); err != nil {
			logger.Log.Errorw("failed to schedule job retry", "job_id", id, "error", err)
			return
		}
		logger.Log.Warnw("job failed, retry scheduled",
			"job_id", id, "attempts_made", attempts, "max_attempts", job.MaxAttempts,
			"retry_in", delay, "error", procErr,
		)
		return
	}

	pipe := q.client.TxPipeline()
	pipe.LRem(ctx, q.listKey(StateActive), 1, id)
	pipe.HSet(ctx, q.jobKey(id), "state", StateFailed, "failed_reason", procErr.Error(), "finished_at", now.UnixMilli())
	pipe.LPush(ctx, q.listKey(StateFailed), id)
	if _, err := pipe.Exec(ctx); err != nil {
		logger.Log.Errorw("failed to mark job failed", "job_id", id, "error", err)
		return
	}
	q.prune(ctx, q.listKey(StateFailed), q.cfg.RemoveOnFail)
	logger.Log.Errorw("job failed permanently",
		"job_id", id, "attempts_made", attempts, "error", procErr,
	)
}

// prune trims a terminal list to its retention bound and deletes the hashes of
// pruned jobs, freeing their ids for re-enqueueing.
func (q *Queue) prune(ctx context.Context, listKey string, keep int) {
	pruned, err := q.client.LRange(ctx, listKey, int64(keep), -1).Result()
	if err != nil || len(pruned) == 0 {
		return
	}

	pipe := q.client.TxPipeline()
	pipe.LTrim(ctx, listKey, 0, int64(keep)-1)
	for _, id := range pruned {
		pipe.Del(ctx, q.jobKey(id))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		logger.Log.Errorw("failed to prune queue list", "list", listKey, "error", err)
	}
}

// reclaimScript requeues one active delivery: only the caller that actually
// removes the id from the active list gets to push it back to waiting, and the
// requeue cannot be torn apart by a reclaimer crash.
var reclaimScript = redis.NewScript(`
if redis.call("LREM", KEYS[1], 1, ARGV[1]) == 0 then
	return 0
end
redis.call("HSET", KEYS[2], "state", ARGV[2])
redis.call("RPUSH", KEYS[3], ARGV[1])
return 1
`)

// reclaimStalled redelivers jobs stuck on the active list past their lease,
// which is what a consumer crash between BLMOVE and finish leaves behind. A
// missing lease counts as expired.
func (q *Queue) reclaimStalled(ctx context.Context, now time.Time) {
	ids, err := q.client.LRange(ctx, q.listKey(StateActive), 0, -1).Result()
	if err != nil {
		if ctx.Err() == nil {
			logger.Log.Errorw("failed to read active jobs", "queue", q.cfg.Name, "error", err)
		}
		return
	}

	for _, id := range ids {
		vals, err := q.client.HMGet(ctx, q.jobKey(id), "id", "lease_until").Result()
		if err != nil {
			continue
		}
		if vals[0] == nil {
			// Hash is gone, nothing left to deliver.
			q.client.LRem(ctx, q.listKey(StateActive), 1, id)
			continue
		}
		lease, _ := vals[1].(string)
		if lease != "" && parseMilli(lease).After(now) {
			continue
		}

		moved, err := reclaimScript.Run(ctx, q.client,
			[]string{q.listKey(StateActive), q.jobKey(id), q.listKey(StateWaiting)},
			id, StateWaiting,
		).Int()
		if err != nil {
			logger.Log.Errorw("failed to reclaim stalled job", "job_id", id, "error", err)
			continue
		}
		if moved == 1 {
			logger.Log.Warnw("stalled job reclaimed", "job_id", id, "queue", q.cfg.Name)
		}
	}
}

// promoteLoop moves delayed jobs whose ready time has passed back to the front
// of the waiting list, once per second, and reclaims stalled active jobs.
func (q *Queue) promoteLoop(ctx context.Context) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			q.reclaimStalled(ctx, now)
			due, err := q.client.ZRangeByScore(ctx, q.listKey(StateDelayed), &redis.ZRangeBy{
				Min: "-inf",
				Max: strconv.FormatInt(now.UnixMilli(), 10),
			}).Result()
			if err != nil {
				if ctx.Err() == nil {
					logger.Log.Errorw("failed to read delayed jobs", "queue", q.cfg.Name, "error", err)
				}
				continue
			}

			for _, id := range due {
				pipe := q.client.TxPipeline()
				pipe.ZRem(ctx, q.listKey(StateDelayed), id)
				pipe.HSet(ctx, q.jobKey(id), "state", StateWaiting)
				pipe.RPush(ctx, q.listKey(StateWaiting), id)
				if _, err := pipe.Exec(ctx); err != nil {
					logger.Log.Errorw("failed to promote delayed job", "job_id", id, "error", err)
					continue
				}
				logger.Log.Infow("delayed job promoted", "job_id", id)
			}
		}
	}
}

// State returns the current state of a job by id.
func (q *Queue) State(ctx context.Context, id string) (*Job, error) {
	fields, err := q.client.HGetAll(ctx, q.jobKey(id)).Result()
	if err != nil {
		return nil, fmt.Errorf("read job %s: %w", id, err)
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("job %s: %w", id, ErrJobNotFound)
	}
	return parseJob(id, fields), nil
}

// Counts returns the number of jobs currently in each state.
func (q *Queue) Counts(ctx context.Context) (Counts, error) {
	pipe := q.client.TxPipeline()
	waiting := pipe.LLen(ctx, q.listKey(StateWaiting))
	active := pipe.LLen(ctx, q.listKey(StateActive))
	completed := pipe.LLen(ctx, q.listKey(StateCompleted))
	failed := pipe.LLen(ctx, q.listKey(StateFailed))
	delayed := pipe.ZCard(ctx, q.listKey(StateDelayed))
	if _, err := pipe.Exec(ctx); err != nil {
		return Counts{}, fmt.Errorf("read queue counts: %w", err)
	}

	return Counts{
		Waiting:   waiting.Val(),
		Active:    active.Val(),
		Completed: completed.Val(),
		Failed:    failed.Val(),
		Delayed:   delayed.Val(),
	}, nil
}

func (q *Queue) load(ctx context.Context, id string) (*Job, error) {
	fields, err := q.client.HGetAll(ctx, q.jobKey(id)).Result()
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, ErrJobNotFound
	}
	return parseJob(id, fields), nil
}

func parseJob(id string, fields map[string]string) *Job {
	job := &Job{
		ID:           id,
		Payload:      []byte(fields["payload"]),
		State:        fields["state"],
		FailedReason: fields["failed_reason"],
	}
	job.AttemptsMade, _ = strconv.Atoi(fields["attempts_made"])
	job.MaxAttempts, _ = strconv.Atoi(fields["max_attempts"])
	job.CreatedAt = parseMilli(fields["created_at"])
	job.ProcessedAt = parseMilli(fields["processed_at"])
	job.FinishedAt = parseMilli(fields["finished_at"])
	return job
}

func parseMilli(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	ms, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return time.Time{}
	}
	return time.UnixMilli(ms)
}
