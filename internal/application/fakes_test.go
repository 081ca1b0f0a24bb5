package application

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/SUMMERxKx/Review/internal/domain"
)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

var testNow = time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

type memoryBusinesses struct {
	mu    sync.Mutex
	seq   int
	items map[string]domain.Business
}

func newMemoryBusinesses() *memoryBusinesses {
	return &memoryBusinesses{items: map[string]domain.Business{}}
}

func (m *memoryBusinesses) Create(_ context.Context, b *domain.Business) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.items {
		if existing.OwnerEmail == b.OwnerEmail {
			return domain.ErrDuplicateEmail
		}
	}
	m.seq++
	b.ID = fmt.Sprintf("biz-%d", m.seq)
	m.items[b.ID] = *b
	return nil
}

func (m *memoryBusinesses) FindByID(_ context.Context, id string) (*domain.Business, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.items[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &b, nil
}

func (m *memoryBusinesses) FindByEmail(_ context.Context, email string) (*domain.Business, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, b := range m.items {
		if b.OwnerEmail == email {
			found := b
			return &found, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memoryBusinesses) UpdateProfile(_ context.Context, b *domain.Business) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[b.ID]; !ok {
		return domain.ErrNotFound
	}
	m.items[b.ID] = *b
	return nil
}

func (m *memoryBusinesses) UpdateLastLogin(_ context.Context, id string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.items[id]
	if !ok {
		return domain.ErrNotFound
	}
	b.LastLogin = &at
	m.items[id] = b
	return nil
}

func (m *memoryBusinesses) UpdateQRCode(_ context.Context, id, qr, feedback string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.items[id]
	if !ok {
		return domain.ErrNotFound
	}
	b.QRCodeURL, b.FeedbackURL = qr, feedback
	m.items[id] = b
	return nil
}

type memoryQuestions struct {
	mu    sync.Mutex
	seq   int
	items map[string]domain.Question
}

func newMemoryQuestions() *memoryQuestions {
	return &memoryQuestions{items: map[string]domain.Question{}}
}

func (m *memoryQuestions) ListByBusiness(_ context.Context, businessID string) ([]domain.Question, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Question
	for _, q := range m.items {
		if q.BusinessID == businessID {
			out = append(out, q)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out, nil
}

func (m *memoryQuestions) FindByID(_ context.Context, id string) (*domain.Question, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	q, ok := m.items[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &q, nil
}

func (m *memoryQuestions) Create(_ context.Context, q *domain.Question) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	q.ID = fmt.Sprintf("q-%d", m.seq)
	m.items[q.ID] = *q
	return nil
}

func (m *memoryQuestions) Update(_ context.Context, q *domain.Question) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[q.ID] = *q
	return nil
}

func (m *memoryQuestions) Delete(_ context.Context, businessID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	q, ok := m.items[id]
	if !ok || q.BusinessID != businessID {
		return domain.ErrNotFound
	}
	delete(m.items, id)
	return nil
}

func (m *memoryQuestions) CountOwned(_ context.Context, businessID string, ids []string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, id := range ids {
		if q, ok := m.items[id]; ok && q.BusinessID == businessID {
			n++
		}
	}
	return n, nil
}

func (m *memoryQuestions) Reorder(_ context.Context, _ string, ids []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, id := range ids {
		q := m.items[id]
		q.Order = i
		m.items[id] = q
	}
	return nil
}

type memoryReviews struct {
	mu        sync.Mutex
	seq       int
	items     map[string]domain.Review
	markErr   error
	markCalls int
}

func newMemoryReviews() *memoryReviews {
	return &memoryReviews{items: map[string]domain.Review{}}
}

func (m *memoryReviews) Create(_ context.Context, r *domain.Review) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	r.ID = fmt.Sprintf("r-%d", m.seq)
	m.items[r.ID] = *r
	return nil
}

func (m *memoryReviews) FindByID(_ context.Context, id string) (*domain.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.items[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &r, nil
}

func (m *memoryReviews) ListByBusiness(_ context.Context, businessID string) ([]domain.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Review
	for _, r := range m.items {
		if r.BusinessID == businessID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memoryReviews) MarkAnalyzed(_ context.Context, id string, result domain.AnalysisResult, at time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.markCalls++
	if m.markErr != nil {
		return false, m.markErr
	}
	r, ok := m.items[id]
	if !ok || r.Processed {
		return false, nil
	}
	r.Analysis = &result
	r.Processed = true
	r.AnalyzedAt = &at
	m.items[id] = r
	return true, nil
}

func (m *memoryReviews) ListUnprocessed(_ context.Context, before time.Time, limit int) ([]domain.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Review
	for _, r := range m.items {
		if !r.Processed && r.CreatedAt.Before(before) {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type recordingQueue struct {
	mu    sync.Mutex
	tasks []AnalysisTask
	err   error
}

func (q *recordingQueue) Enqueue(_ context.Context, task AnalysisTask) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.err != nil {
		return q.err
	}
	q.tasks = append(q.tasks, task)
	return nil
}

func (q *recordingQueue) Consume(ctx context.Context, _ TaskHandler) error {
	<-ctx.Done()
	return ctx.Err()
}

func (q *recordingQueue) Tasks() []AnalysisTask {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]AnalysisTask(nil), q.tasks...)
}

type mockAnalyzer struct{ mock.Mock }

func (m *mockAnalyzer) Analyze(ctx context.Context, review domain.Review) domain.AnalysisResult {
	args := m.Called(ctx, review)
	return args.Get(0).(domain.AnalysisResult)
}

type plainHasher struct{}

func (plainHasher) Hash(password string) (string, error) { return "hashed:" + password, nil }

func (plainHasher) Compare(hash, password string) error {
	if hash != "hashed:"+password {
		return errors.New("mismatch")
	}
	return nil
}

type staticTokens struct{}

func (staticTokens) Issue(b domain.Business) (string, time.Time, error) {
	return "token-" + b.ID, testNow.Add(time.Hour), nil
}

type stubQR struct{ err error }

func (s stubQR) Generate(_ context.Context, businessID string) (QRCode, error) {
	if s.err != nil {
		return QRCode{}, s.err
	}
	return QRCode{ImageURL: "data:image/png;base64,AAAA", FeedbackURL: "http://localhost:3000/feedback/" + businessID}, nil
}
