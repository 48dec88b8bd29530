package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/project-pal/project-pal-backend/internal/projects/domain"
)

const (
	// DataKey holds the whole portfolio as one JSON blob:
	// {"projects":[...],"aiFeedbackByProjectId":{...}}
	DataKey = "project-pal:data"

	// EventsChannel carries the new serialized blob after every write so the
	// read-only surface can replace its in-memory copy.
	EventsChannel = "project-pal:events"
)

// Repo persists the portfolio snapshot in Redis and publishes a change
// notification on every save.
type Repo struct {
	client *redis.Client
}

func New(client *redis.Client) *Repo {
	return &Repo{client: client}
}

// Load reads the persisted snapshot. A missing key or an undecodable payload
// falls back to the seed portfolio; only transport failures are returned as
// errors.
func (r *Repo) Load(ctx context.Context) (domain.Snapshot, error) {
	data, err := r.client.Get(ctx, DataKey).Result()
	if err == redis.Nil {
		return domain.SeedSnapshot(), nil
	}
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("load snapshot: %w", err)
	}

	snap, err := Decode([]byte(data))
	if err != nil {
		log.Printf("[warn] key=%s error=%v falling back to seed portfolio", DataKey, err)
		return domain.SeedSnapshot(), nil
	}
	return snap, nil
}

// Save serializes the snapshot, then SETs the blob and publishes the same
// payload in one pipeline. The publish is best-effort: a missed notification
// is healed when the subscriber next reloads.
func (r *Repo) Save(ctx context.Context, snap domain.Snapshot) error {
	if snap.Feedback == nil {
		snap.Feedback = domain.FeedbackMap{}
	}
	if snap.Projects == nil {
		snap.Projects = []domain.Project{}
	}

	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	pipe := r.client.Pipeline()
	pipe.Set(ctx, DataKey, data, 0)
	pipe.Publish(ctx, EventsChannel, data)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

// Upsert inserts the project at the head of the list when its id is new,
// otherwise replaces the matching record in place. Either way lastUpdated is
// refreshed before persisting.
func (r *Repo) Upsert(ctx context.Context, p domain.Project) (domain.Project, error) {
	snap, err := r.Load(ctx)
	if err != nil {
		return domain.Project{}, err
	}

	p.LastUpdated = domain.FormatTimestamp(time.Now())

	replaced := false
	for i := range snap.Projects {
		if snap.Projects[i].ID == p.ID {
			snap.Projects[i] = p
			replaced = true
			break
		}
	}
	if !replaced {
		snap.Projects = append([]domain.Project{p}, snap.Projects...)
	}

	if err := r.Save(ctx, snap); err != nil {
		return domain.Project{}, err
	}
	return p, nil
}

// Remove deletes the project and its feedback entries. An absent id is a
// no-op; the return value reports whether anything was removed.
func (r *Repo) Remove(ctx context.Context, id string) (bool, error) {
	snap, err := r.Load(ctx)
	if err != nil {
		return false, err
	}

	kept := make([]domain.Project, 0, len(snap.Projects))
	removed := false
	for _, p := range snap.Projects {
		if p.ID == id {
			removed = true
			continue
		}
		kept = append(kept, p)
	}
	if !removed {
		return false, nil
	}
	snap.Projects = kept
	delete(snap.Feedback, id)

	if err := r.Save(ctx, snap); err != nil {
		return false, err
	}
	return true, nil
}

// RecordFeedback appends the story to the project (unless an identical
// trimmed story is already present), stores the raw feedback text keyed by
// the story text, and refreshes lastUpdated.
func (r *Repo) RecordFeedback(ctx context.Context, projectID, story, feedback string) (domain.Project, error) {
	snap, err := r.Load(ctx)
	if err != nil {
		return domain.Project{}, err
	}

	p := snap.FindProject(projectID)
	if p == nil {
		return domain.Project{}, domain.ErrProjectNotFound
	}

	if !p.HasStory(story) {
		p.UserStories = append(p.UserStories, story)
	}
	p.LastUpdated = domain.FormatTimestamp(time.Now())

	if snap.Feedback == nil {
		snap.Feedback = domain.FeedbackMap{}
	}
	if snap.Feedback[projectID] == nil {
		snap.Feedback[projectID] = map[string]string{}
	}
	snap.Feedback[projectID][story] = feedback

	if err := r.Save(ctx, snap); err != nil {
		return domain.Project{}, err
	}
	return *p, nil
}

// ApplyAssessment writes the risk scores and breakdown onto the project
// as-is and refreshes lastUpdated.
func (r *Repo) ApplyAssessment(ctx context.Context, projectID string, a domain.Assessment) (domain.Project, error) {
	snap, err := r.Load(ctx)
	if err != nil {
		return domain.Project{}, err
	}

	p := snap.FindProject(projectID)
	if p == nil {
		return domain.Project{}, domain.ErrProjectNotFound
	}

	risk := a.RiskScore
	readiness := a.ReadinessScore
	p.RiskScore = &risk
	p.ReadinessScore = &readiness
	p.RiskBreakdown = a.Breakdown
	p.LastUpdated = domain.FormatTimestamp(time.Now())

	if err := r.Save(ctx, snap); err != nil {
		return domain.Project{}, err
	}
	return *p, nil
}

// Decode parses a serialized snapshot payload, as stored under DataKey and
// as published on EventsChannel.
func Decode(data []byte) (domain.Snapshot, error) {
	var snap domain.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return domain.Snapshot{}, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	if snap.Feedback == nil {
		snap.Feedback = domain.FeedbackMap{}
	}
	return snap, nil
}
