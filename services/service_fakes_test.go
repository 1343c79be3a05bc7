package services

import (
	"context"
	"io"
	"sync"

	"github.com/bcvictoria/tournament-system/models"
	"github.com/bcvictoria/tournament-system/repositories"
	"github.com/bcvictoria/tournament-system/storage"
)

// In-memory repository fakes. The transaction executor is ignored: the fakes
// apply writes immediately and tests assert on the end state.

type fakeEntrantRepo struct {
	entrants map[int]*models.Entrant
	nextID   int
}

func newFakeEntrantRepo() *fakeEntrantRepo {
	return &fakeEntrantRepo{entrants: make(map[int]*models.Entrant), nextID: 1}
}

func (f *fakeEntrantRepo) Create(_ context.Context, _ repositories.SQLExecutor, e *models.Entrant) error {
	e.ID = f.nextID
	f.nextID++
	f.entrants[e.ID] = e
	return nil
}

func (f *fakeEntrantRepo) GetByID(_ context.Context, id int) (*models.Entrant, error) {
	e, ok := f.entrants[id]
	if !ok {
		return nil, repositories.ErrEntrantNotFound
	}
	return e, nil
}

func (f *fakeEntrantRepo) ListByEvent(_ context.Context, event models.EventCategory) ([]*models.Entrant, error) {
	out := make([]*models.Entrant, 0)
	for id := 1; id < f.nextID; id++ {
		if e, ok := f.entrants[id]; ok && e.Event == event {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeEntrantRepo) ListAll(_ context.Context) ([]*models.Entrant, error) {
	out := make([]*models.Entrant, 0)
	for id := 1; id < f.nextID; id++ {
		if e, ok := f.entrants[id]; ok {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeEntrantRepo) UpdateLevels(_ context.Context, id, level1, level2 int) error {
	e, ok := f.entrants[id]
	if !ok {
		return repositories.ErrEntrantNotFound
	}
	e.Level1, e.Level2 = level1, level2
	return nil
}

func (f *fakeEntrantRepo) SetSeedRank(_ context.Context, _ repositories.SQLExecutor, id int, rank *int) error {
	e, ok := f.entrants[id]
	if !ok {
		return repositories.ErrEntrantNotFound
	}
	e.SeedRank = rank
	return nil
}

func (f *fakeEntrantRepo) ClearSeedRanks(_ context.Context, _ repositories.SQLExecutor, event models.EventCategory) error {
	for _, e := range f.entrants {
		if e.Event == event {
			e.SeedRank = nil
		}
	}
	return nil
}

func (f *fakeEntrantRepo) Delete(_ context.Context, id int) error {
	if _, ok := f.entrants[id]; !ok {
		return repositories.ErrEntrantNotFound
	}
	delete(f.entrants, id)
	return nil
}

type fakePoolRepo struct {
	pools   map[int]*models.Pool
	matches map[int]*models.PoolMatch
	nextID  int
}

func newFakePoolRepo() *fakePoolRepo {
	return &fakePoolRepo{
		pools:   make(map[int]*models.Pool),
		matches: make(map[int]*models.PoolMatch),
		nextID:  1,
	}
}

func (f *fakePoolRepo) CreatePool(_ context.Context, _ repositories.SQLExecutor, p *models.Pool) error {
	p.ID = f.nextID
	f.nextID++
	f.pools[p.ID] = p
	return nil
}

func (f *fakePoolRepo) CreateMatch(_ context.Context, _ repositories.SQLExecutor, m *models.PoolMatch) error {
	m.ID = f.nextID
	f.nextID++
	f.matches[m.ID] = m
	return nil
}

func (f *fakePoolRepo) ListPoolsByEvent(_ context.Context, event models.EventCategory) ([]*models.Pool, error) {
	out := make([]*models.Pool, 0)
	for id := 1; id < f.nextID; id++ {
		if p, ok := f.pools[id]; ok && p.Event == event {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakePoolRepo) ListMatchesByEvent(_ context.Context, event models.EventCategory) ([]*models.PoolMatch, error) {
	out := make([]*models.PoolMatch, 0)
	for id := 1; id < f.nextID; id++ {
		if m, ok := f.matches[id]; ok && m.Event == event {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakePoolRepo) ListAllMatches(_ context.Context) ([]*models.PoolMatch, error) {
	out := make([]*models.PoolMatch, 0)
	for id := 1; id < f.nextID; id++ {
		if m, ok := f.matches[id]; ok {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakePoolRepo) GetMatchByID(_ context.Context, id int) (*models.PoolMatch, error) {
	m, ok := f.matches[id]
	if !ok {
		return nil, repositories.ErrPoolMatchNotFound
	}
	return m, nil
}

func (f *fakePoolRepo) UpdateMatchScore(_ context.Context, _ repositories.SQLExecutor, id int, scoreA, scoreB *int) error {
	m, ok := f.matches[id]
	if !ok {
		return repositories.ErrPoolMatchNotFound
	}
	m.ScoreA, m.ScoreB = scoreA, scoreB
	m.InProgress = false
	return nil
}

func (f *fakePoolRepo) SetMatchInProgress(_ context.Context, id int, inProgress bool) error {
	m, ok := f.matches[id]
	if !ok {
		return repositories.ErrPoolMatchNotFound
	}
	m.InProgress = inProgress
	return nil
}

func (f *fakePoolRepo) DeleteByEvent(_ context.Context, _ repositories.SQLExecutor, event models.EventCategory) error {
	for id, m := range f.matches {
		if m.Event == event {
			delete(f.matches, id)
		}
	}
	for id, p := range f.pools {
		if p.Event == event {
			delete(f.pools, id)
		}
	}
	return nil
}

type fakeKnockoutRepo struct {
	matches map[int]*models.KnockoutMatch
	nextID  int
}

func newFakeKnockoutRepo() *fakeKnockoutRepo {
	return &fakeKnockoutRepo{matches: make(map[int]*models.KnockoutMatch), nextID: 1}
}

func (f *fakeKnockoutRepo) Create(_ context.Context, _ repositories.SQLExecutor, m *models.KnockoutMatch) error {
	m.ID = f.nextID
	f.nextID++
	copied := *m
	f.matches[m.ID] = &copied
	return nil
}

func (f *fakeKnockoutRepo) ListByEvent(_ context.Context, event models.EventCategory) ([]*models.KnockoutMatch, error) {
	out := make([]*models.KnockoutMatch, 0)
	for id := 1; id < f.nextID; id++ {
		if m, ok := f.matches[id]; ok && m.Event == event {
			copied := *m
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (f *fakeKnockoutRepo) GetByID(_ context.Context, id int) (*models.KnockoutMatch, error) {
	m, ok := f.matches[id]
	if !ok {
		return nil, repositories.ErrKnockoutMatchNotFound
	}
	copied := *m
	return &copied, nil
}

func (f *fakeKnockoutRepo) Update(_ context.Context, _ repositories.SQLExecutor, m *models.KnockoutMatch) error {
	if _, ok := f.matches[m.ID]; !ok {
		return repositories.ErrKnockoutMatchNotFound
	}
	copied := *m
	f.matches[m.ID] = &copied
	return nil
}

func (f *fakeKnockoutRepo) UpdateFormatForStage(_ context.Context, _ repositories.SQLExecutor, event models.EventCategory, stage int, format models.KnockoutFormat) error {
	found := false
	for _, m := range f.matches {
		if m.Event == event && m.Stage == stage {
			m.Format = format
			found = true
		}
	}
	if !found {
		return repositories.ErrKnockoutMatchNotFound
	}
	return nil
}

func (f *fakeKnockoutRepo) DeleteByEvent(_ context.Context, _ repositories.SQLExecutor, event models.EventCategory) error {
	for id, m := range f.matches {
		if m.Event == event {
			delete(f.matches, id)
		}
	}
	return nil
}

type broadcastRecord struct {
	Event models.EventCategory
	Type  string
}

type fakeBroadcaster struct {
	mu       sync.Mutex
	messages []broadcastRecord
}

func (f *fakeBroadcaster) BroadcastToEvent(event models.EventCategory, messageType string, _ interface{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages = append(f.messages, broadcastRecord{Event: event, Type: messageType})
}

func (f *fakeBroadcaster) types() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.messages))
	for i, m := range f.messages {
		out[i] = m.Type
	}
	return out
}

type fakeUploader struct {
	keys []string
}

func (f *fakeUploader) Upload(_ context.Context, key, _ string, _ io.Reader) (*storage.UploadResult, error) {
	f.keys = append(f.keys, key)
	return &storage.UploadResult{Key: key, Location: "https://results.test/" + key}, nil
}

func (f *fakeUploader) Delete(_ context.Context, _ string) error { return nil }

func (f *fakeUploader) GetPublicURL(key string) string { return "https://results.test/" + key }
