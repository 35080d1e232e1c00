package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/healthycity/compliance/internal/model"
)

// Memory is an in-process implementation of the three stores, used by tests
// and by serve when no DATABASE_URL is configured. The three accessor views
// share one mutex-guarded state; all reads return copies so callers can
// never mutate shared data, and the derived standard status is computed from
// the submission history exactly like the SQL stores do.
type Memory struct {
	state *memoryState
}

type memoryState struct {
	mu          sync.RWMutex
	standards   map[int]model.Standard
	agencies    map[string]model.Agency // keyed by slug
	links       map[int]map[string]bool // standard id -> agency slugs
	submissions []model.Submission      // creation order
	subIndex    map[string]int          // submission id -> slice index
	nextAgency  int
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{state: &memoryState{
		standards: make(map[int]model.Standard),
		agencies:  make(map[string]model.Agency),
		links:     make(map[int]map[string]bool),
		subIndex:  make(map[string]int),
	}}
}

// Standards returns the catalog view of the store.
func (m *Memory) Standards() *MemoryStandardStore { return &MemoryStandardStore{s: m.state} }

// Agencies returns the agency/assignment view of the store.
func (m *Memory) Agencies() *MemoryAgencyStore { return &MemoryAgencyStore{s: m.state} }

// Submissions returns the submission view of the store.
func (m *Memory) Submissions() *MemorySubmissionStore { return &MemorySubmissionStore{s: m.state} }

// MemoryStandardStore implements the standards catalog over shared memory state.
type MemoryStandardStore struct {
	s *memoryState
}

func (st *MemoryStandardStore) GetByID(ctx context.Context, id int) (*model.Standard, error) {
	st.s.mu.RLock()
	defer st.s.mu.RUnlock()

	stored, ok := st.s.standards[id]
	if !ok {
		return nil, nil
	}
	out := st.s.hydrateLocked(stored)
	return &out, nil
}

func (st *MemoryStandardStore) GetAll(ctx context.Context) ([]model.Standard, error) {
	return st.Search(ctx, "", "", "")
}

func (st *MemoryStandardStore) Search(ctx context.Context, query, agencySlug string, status model.StandardStatus) ([]model.Standard, error) {
	st.s.mu.RLock()
	defer st.s.mu.RUnlock()

	q := strings.ToLower(strings.TrimSpace(query))

	ids := make([]int, 0, len(st.s.standards))
	for id := range st.s.standards {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	out := make([]model.Standard, 0, len(ids))
	for _, id := range ids {
		std := st.s.hydrateLocked(st.s.standards[id])
		if q != "" && !matchesQuery(&std, q) {
			continue
		}
		if agencySlug != "" && !std.AssignedTo(agencySlug) {
			continue
		}
		if status != "" && std.Status != status {
			continue
		}
		out = append(out, std)
	}
	return out, nil
}

func (st *MemoryStandardStore) Count(ctx context.Context) (int, error) {
	st.s.mu.RLock()
	defer st.s.mu.RUnlock()
	return len(st.s.standards), nil
}

func (st *MemoryStandardStore) Upsert(ctx context.Context, std *model.Standard) error {
	st.s.mu.Lock()
	defer st.s.mu.Unlock()

	st.s.standards[std.ID] = model.Standard{
		ID:           std.ID,
		Text:         std.Text,
		Requirements: append([]string(nil), std.Requirements...),
	}
	if st.s.links[std.ID] == nil {
		st.s.links[std.ID] = make(map[string]bool)
	}
	return nil
}

// MemoryAgencyStore implements agencies and assignment links over shared
// memory state.
type MemoryAgencyStore struct {
	s *memoryState
}

func (a *MemoryAgencyStore) GetBySlug(ctx context.Context, slug string) (*model.Agency, error) {
	a.s.mu.RLock()
	defer a.s.mu.RUnlock()

	ag, ok := a.s.agencies[slug]
	if !ok {
		return nil, nil
	}
	return &ag, nil
}

func (a *MemoryAgencyStore) GetAll(ctx context.Context) ([]model.Agency, error) {
	a.s.mu.RLock()
	defer a.s.mu.RUnlock()

	out := make([]model.Agency, 0, len(a.s.agencies))
	for _, ag := range a.s.agencies {
		out = append(out, ag)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (a *MemoryAgencyStore) GetOrCreate(ctx context.Context, name, slug string) (*model.Agency, error) {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()

	if ag, ok := a.s.agencies[slug]; ok {
		return &ag, nil
	}
	a.s.nextAgency++
	ag := model.Agency{ID: a.s.nextAgency, Name: name, Slug: slug, CreatedAt: time.Now().UTC()}
	a.s.agencies[slug] = ag
	return &ag, nil
}

func (a *MemoryAgencyStore) Link(ctx context.Context, standardID int, slug string) (bool, error) {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()

	if _, ok := a.s.agencies[slug]; !ok {
		return false, nil
	}
	set := a.s.links[standardID]
	if set == nil {
		set = make(map[string]bool)
		a.s.links[standardID] = set
	}
	if set[slug] {
		return false, nil
	}
	set[slug] = true
	return true, nil
}

func (a *MemoryAgencyStore) Unlink(ctx context.Context, standardID int, slug string) (bool, error) {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()

	set := a.s.links[standardID]
	if set == nil || !set[slug] {
		return false, nil
	}
	delete(set, slug)
	return true, nil
}

func (a *MemoryAgencyStore) StandardIDsFor(ctx context.Context, slug string) ([]int, error) {
	a.s.mu.RLock()
	defer a.s.mu.RUnlock()

	var ids []int
	for id, set := range a.s.links {
		if set[slug] {
			ids = append(ids, id)
		}
	}
	sort.Ints(ids)
	return ids, nil
}

// MemorySubmissionStore implements evidence submissions over shared memory
// state.
type MemorySubmissionStore struct {
	s *memoryState
}

func (ss *MemorySubmissionStore) Insert(ctx context.Context, sub *model.Submission) error {
	ss.s.mu.Lock()
	defer ss.s.mu.Unlock()

	stored := *sub
	stored.Files = append([]string(nil), sub.Files...)
	ss.s.subIndex[stored.ID] = len(ss.s.submissions)
	ss.s.submissions = append(ss.s.submissions, stored)
	return nil
}

func (ss *MemorySubmissionStore) GetByID(ctx context.Context, id string) (*model.Submission, error) {
	ss.s.mu.RLock()
	defer ss.s.mu.RUnlock()

	idx, ok := ss.s.subIndex[id]
	if !ok {
		return nil, nil
	}
	sub := ss.s.submissions[idx]
	sub.Files = append([]string(nil), sub.Files...)
	return &sub, nil
}

func (ss *MemorySubmissionStore) ListForStandard(ctx context.Context, standardID int, agencySlug string) ([]model.Submission, error) {
	ss.s.mu.RLock()
	defer ss.s.mu.RUnlock()

	var out []model.Submission
	for _, sub := range ss.s.submissions {
		if sub.StandardID != standardID {
			continue
		}
		if agencySlug != "" && sub.SubmittedBy != agencySlug {
			continue
		}
		sub.Files = append([]string(nil), sub.Files...)
		out = append(out, sub)
	}
	return out, nil
}

// Transition applies a status change only when the submission is still in
// the expected source status, matching the SQL store's conditional UPDATE.
func (ss *MemorySubmissionStore) Transition(ctx context.Context, id string, from, to model.SubmissionStatus, notes string) (*model.Submission, error) {
	ss.s.mu.Lock()
	defer ss.s.mu.Unlock()

	idx, ok := ss.s.subIndex[id]
	if !ok {
		return nil, nil
	}
	sub := ss.s.submissions[idx]
	if sub.Status != from {
		return nil, nil
	}

	now := time.Now().UTC()
	sub.Status = to
	if notes != "" {
		sub.Notes = notes
	}
	if to == model.SubmissionPendingApproval && sub.SubmittedAt.IsZero() {
		sub.SubmittedAt = now
	}
	sub.UpdatedAt = now
	ss.s.submissions[idx] = sub

	out := sub
	out.Files = append([]string(nil), out.Files...)
	return &out, nil
}

func (ss *MemorySubmissionStore) StatsFor(ctx context.Context, standardID int) (model.SubmissionStats, error) {
	ss.s.mu.RLock()
	defer ss.s.mu.RUnlock()

	stats := model.NewSubmissionStats()
	for i := range ss.s.submissions {
		if ss.s.submissions[i].StandardID == standardID {
			stats.Count(&ss.s.submissions[i])
		}
	}
	stats.Finalize()
	return stats, nil
}

func (ss *MemorySubmissionStore) StatsOverall(ctx context.Context) (model.SubmissionStats, int, error) {
	ss.s.mu.RLock()
	defer ss.s.mu.RUnlock()

	stats := model.NewSubmissionStats()
	seen := make(map[int]bool)
	for i := range ss.s.submissions {
		stats.Count(&ss.s.submissions[i])
		seen[ss.s.submissions[i].StandardID] = true
	}
	stats.Finalize()

	didntSubmit := 0
	for id := range ss.s.standards {
		if !seen[id] {
			didntSubmit++
		}
	}
	return stats, didntSubmit, nil
}

// hydrateLocked fills the derived fields of a stored standard. Caller holds
// at least a read lock.
func (s *memoryState) hydrateLocked(st model.Standard) model.Standard {
	st.Requirements = append([]string(nil), st.Requirements...)

	slugs := make([]string, 0, len(s.links[st.ID]))
	for slug := range s.links[st.ID] {
		slugs = append(slugs, slug)
	}
	sort.Strings(slugs)
	st.AssignedAgencies = slugs

	st.Status = model.StandardNotSubmitted
	for i := len(s.submissions) - 1; i >= 0; i-- {
		sub := &s.submissions[i]
		if sub.StandardID == st.ID && sub.Status.Filed() {
			st.Status = sub.Status.StandardStatus()
			break
		}
	}
	return st
}

func matchesQuery(st *model.Standard, q string) bool {
	if strings.Contains(strings.ToLower(st.Text), q) {
		return true
	}
	for _, req := range st.Requirements {
		if strings.Contains(strings.ToLower(req), q) {
			return true
		}
	}
	return false
}
