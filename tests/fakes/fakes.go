// Package fakes provides in-memory implementations of the application
// ports. Unlike the testify mocks they carry real state, which makes
// them suitable for exercising pagination and idempotency behavior.
package fakes

import (
	"context"
	"sort"
	"sync"

	"flock-backend/domain"
	apperrors "flock-backend/pkg/errors"
)

// FollowRepo is an in-memory follow graph keyed by followee.
type FollowRepo struct {
	mu sync.RWMutex

	// followee -> sorted follower aliases
	followers map[string][]string
	// follower -> sorted followee aliases
	followees map[string][]string

	// PageCalls counts FollowerAliasesPage invocations.
	PageCalls int

	// FailOnPage makes FollowerAliasesPage fail on the Nth call
	// (1-based) when non-zero.
	FailOnPage int
}

// NewFollowRepo creates an empty in-memory follow graph.
func NewFollowRepo() *FollowRepo {
	return &FollowRepo{
		followers: make(map[string][]string),
		followees: make(map[string][]string),
	}
}

// AddFollower registers follower as following followee.
func (f *FollowRepo) AddFollower(followerAlias, followeeAlias string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.followers[followeeAlias] = insertSorted(f.followers[followeeAlias], followerAlias)
	f.followees[followerAlias] = insertSorted(f.followees[followerAlias], followeeAlias)
}

func (f *FollowRepo) Create(ctx context.Context, edge *domain.FollowEdge) error {
	f.AddFollower(edge.Follower.Alias, edge.Followee.Alias)
	return nil
}

func (f *FollowRepo) Delete(ctx context.Context, followerAlias, followeeAlias string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.followers[followeeAlias] = remove(f.followers[followeeAlias], followerAlias)
	f.followees[followerAlias] = remove(f.followees[followerAlias], followeeAlias)
	return nil
}

func (f *FollowRepo) IsFollowing(ctx context.Context, followerAlias, followeeAlias string) (bool, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return contains(f.followers[followeeAlias], followerAlias), nil
}

func (f *FollowRepo) FollowersPage(ctx context.Context, followeeAlias string, limit int32, cursor string) ([]domain.UserRef, string, error) {
	aliases, next, err := f.FollowerAliasesPage(ctx, followeeAlias, limit, cursor)
	if err != nil {
		return nil, "", err
	}
	return refs(aliases), next, nil
}

func (f *FollowRepo) FolloweesPage(ctx context.Context, followerAlias string, limit int32, cursor string) ([]domain.UserRef, string, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	aliases, next := page(f.followees[followerAlias], limit, cursor)
	return refs(aliases), next, nil
}

func (f *FollowRepo) FollowerAliasesPage(ctx context.Context, followeeAlias string, limit int32, cursor string) ([]string, string, error) {
	f.mu.Lock()
	f.PageCalls++
	call := f.PageCalls
	f.mu.Unlock()

	if f.FailOnPage != 0 && call == f.FailOnPage {
		return nil, "", apperrors.NewDatabaseError("query follows", context.DeadlineExceeded)
	}

	f.mu.RLock()
	defer f.mu.RUnlock()
	aliases, next := page(f.followers[followeeAlias], limit, cursor)
	return aliases, next, nil
}

func (f *FollowRepo) CountFollowers(ctx context.Context, followeeAlias string) (int, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.followers[followeeAlias]), nil
}

func (f *FollowRepo) CountFollowees(ctx context.Context, followerAlias string) (int, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.followees[followerAlias]), nil
}

// page returns the slice entries strictly after the cursor alias, capped
// at limit, plus the next cursor ("" when exhausted).
func page(sorted []string, limit int32, cursor string) ([]string, string) {
	start := 0
	if cursor != "" {
		start = sort.SearchStrings(sorted, cursor)
		if start < len(sorted) && sorted[start] == cursor {
			start++
		}
	}
	end := start + int(limit)
	if end >= len(sorted) {
		return append([]string(nil), sorted[start:]...), ""
	}
	out := append([]string(nil), sorted[start:end]...)
	return out, out[len(out)-1]
}

func refs(aliases []string) []domain.UserRef {
	out := make([]domain.UserRef, len(aliases))
	for i, a := range aliases {
		out[i] = domain.UserRef{Alias: a}
	}
	return out
}

func insertSorted(s []string, v string) []string {
	i := sort.SearchStrings(s, v)
	if i < len(s) && s[i] == v {
		return s
	}
	s = append(s, "")
	copy(s[i+1:], s[i:])
	s[i] = v
	return s
}

func remove(s []string, v string) []string {
	i := sort.SearchStrings(s, v)
	if i < len(s) && s[i] == v {
		return append(s[:i], s[i+1:]...)
	}
	return s
}

func contains(s []string, v string) bool {
	i := sort.SearchStrings(s, v)
	return i < len(s) && s[i] == v
}

// Queue collects fan-out jobs instead of sending them anywhere.
type Queue struct {
	mu sync.Mutex

	ExpansionJobs []domain.ExpansionJob
	UpdateJobs    []domain.UpdateJob

	// SendUpdateCalls counts SendUpdateJobs invocations.
	SendUpdateCalls int

	// FailExpansion / FailUpdates make the respective send fail.
	FailExpansion error
	FailUpdates   error
}

// NewQueue creates an empty collecting queue.
func NewQueue() *Queue {
	return &Queue{}
}

func (q *Queue) SendExpansionJob(ctx context.Context, job domain.ExpansionJob) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.FailExpansion != nil {
		return q.FailExpansion
	}
	q.ExpansionJobs = append(q.ExpansionJobs, job)
	return nil
}

func (q *Queue) SendUpdateJobs(ctx context.Context, jobs []domain.UpdateJob) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.SendUpdateCalls++
	if q.FailUpdates != nil {
		return q.FailUpdates
	}
	q.UpdateJobs = append(q.UpdateJobs, jobs...)
	return nil
}

// FeedRepo is an in-memory feed store keyed by (receiver, timestamp).
type FeedRepo struct {
	mu sync.RWMutex

	// receiver -> timestamp -> status
	entries map[string]map[int64]domain.Status

	// UpsertCalls counts every Upsert, including overwrites.
	UpsertCalls int

	// FailFor makes Upsert fail for the given receiver alias.
	FailFor map[string]error
}

// NewFeedRepo creates an empty in-memory feed store.
func NewFeedRepo() *FeedRepo {
	return &FeedRepo{
		entries: make(map[string]map[int64]domain.Status),
		FailFor: make(map[string]error),
	}
}

func (f *FeedRepo) Upsert(ctx context.Context, receiverAlias string, status *domain.Status) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.UpsertCalls++
	if err := f.FailFor[receiverAlias]; err != nil {
		return err
	}
	if f.entries[receiverAlias] == nil {
		f.entries[receiverAlias] = make(map[int64]domain.Status)
	}
	f.entries[receiverAlias][status.Timestamp] = *status
	return nil
}

func (f *FeedRepo) Page(ctx context.Context, receiverAlias string, limit int32, before int64) ([]domain.Status, int64, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	var all []domain.Status
	for _, s := range f.entries[receiverAlias] {
		if before == 0 || s.Timestamp < before {
			all = append(all, s)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Timestamp > all[j].Timestamp })

	if len(all) > int(limit) {
		out := all[:limit]
		return out, out[len(out)-1].Timestamp, nil
	}
	return all, 0, nil
}

func (f *FeedRepo) Delete(ctx context.Context, receiverAlias string, timestamp int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.entries[receiverAlias], timestamp)
	return nil
}

// Entries returns a copy of one receiver's feed entries.
func (f *FeedRepo) Entries(receiverAlias string) []domain.Status {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]domain.Status, 0, len(f.entries[receiverAlias]))
	for _, s := range f.entries[receiverAlias] {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp > out[j].Timestamp })
	return out
}

// StoryRepo is an in-memory story store keyed by author.
type StoryRepo struct {
	mu sync.RWMutex

	stories map[string]map[int64]domain.Status
}

// NewStoryRepo creates an empty in-memory story store.
func NewStoryRepo() *StoryRepo {
	return &StoryRepo{stories: make(map[string]map[int64]domain.Status)}
}

func (s *StoryRepo) Append(ctx context.Context, status *domain.Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stories[status.Author.Alias] == nil {
		s.stories[status.Author.Alias] = make(map[int64]domain.Status)
	}
	s.stories[status.Author.Alias][status.Timestamp] = *status
	return nil
}

func (s *StoryRepo) Page(ctx context.Context, authorAlias string, limit int32, before int64) ([]domain.Status, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var all []domain.Status
	for _, st := range s.stories[authorAlias] {
		if before == 0 || st.Timestamp < before {
			all = append(all, st)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Timestamp > all[j].Timestamp })

	if len(all) > int(limit) {
		out := all[:limit]
		return out, out[len(out)-1].Timestamp, nil
	}
	return all, 0, nil
}

func (s *StoryRepo) Delete(ctx context.Context, authorAlias string, timestamp int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.stories[authorAlias], timestamp)
	return nil
}
