package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Roja8626/tech-mock/internal/app/event"
	"github.com/Roja8626/tech-mock/internal/common"
	"github.com/Roja8626/tech-mock/internal/common/security"
	"github.com/Roja8626/tech-mock/internal/domain/model"
	"github.com/Roja8626/tech-mock/internal/domain/repository"
)

type recordingPublisher struct {
	mu        sync.Mutex
	submitted []event.TestSubmitted
	generated []event.QuestionsGenerated
}

func (p *recordingPublisher) PublishTestSubmitted(_ context.Context, evt event.TestSubmitted) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.submitted = append(p.submitted, evt)
}

func (p *recordingPublisher) PublishQuestionsGenerated(_ context.Context, evt event.QuestionsGenerated) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.generated = append(p.generated, evt)
}

type testEnv struct {
	store     *repository.MemoryStore
	auth      *AuthService
	questions *QuestionService
	tests     *TestService
	events    *recordingPublisher
	results   repository.ResultRepository
}

func newTestEnv(t *testing.T, generator TextGenerator) *testEnv {
	t.Helper()
	security.InitJWT([]byte("test-secret"), time.Hour)

	store := repository.NewMemoryStore()
	events := &recordingPublisher{}
	results := repository.NewResultRepository(store)

	generation := NewGenerationService(generator, time.Second, 5, 20)
	questions := NewQuestionService(repository.NewQuestionRepository(store), generation, NewLocalGuard(), events)
	return &testEnv{
		store:     store,
		auth:      NewAuthService(repository.NewUserRepository(store), repository.NewSessionRepository(store), time.Hour),
		questions: questions,
		tests:     NewTestService(questions, repository.NewAttemptRepository(store), results, events, DefaultAttemptSize, DefaultAttemptTTL),
		events:    events,
		results:   results,
	}
}

func TestRegisterValidation(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()

	testCases := []struct {
		name string
		req  RegisterRequest
	}{
		{"missing name", RegisterRequest{Email: "ada@x.com"}},
		{"missing email", RegisterRequest{Name: "Ada"}},
		{"blank name", RegisterRequest{Name: "   ", Email: "ada@x.com"}},
		{"unknown role", RegisterRequest{Name: "Ada", Email: "ada@x.com", Role: "moderator"}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := env.auth.Register(ctx, tc.req); !errors.Is(err, common.ErrValidation) {
				t.Errorf("Expected ErrValidation, got %v", err)
			}
		})
	}

	if _, err := env.store.Get(ctx, repository.KeyUsers); !errors.Is(err, common.ErrNotFound) {
		t.Errorf("Expected no users written after failed registrations, got %v", err)
	}
}

func TestRegisterLoginLogout(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()

	reg, err := env.auth.Register(ctx, RegisterRequest{Name: "Ada", Email: "ada@x.com"})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if reg.User.Role != model.RoleStudent {
		t.Errorf("Expected default role student, got %s", reg.User.Role)
	}
	if reg.Token == "" || reg.SessionID == "" {
		t.Errorf("Expected token and session, got %+v", reg)
	}

	// duplicate email is accepted and login keeps resolving to the first user
	if _, err := env.auth.Register(ctx, RegisterRequest{Name: "Ada 2", Email: "ADA@x.com", Role: "admin"}); err != nil {
		t.Fatalf("Second Register failed: %v", err)
	}

	login, err := env.auth.Login(ctx, LoginRequest{Email: "ADA@X.COM"})
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if login.User.ID != reg.User.ID {
		t.Errorf("Expected login to return first user %s, got %s", reg.User.ID, login.User.ID)
	}

	if _, err := env.auth.Login(ctx, LoginRequest{Email: "grace@x.com"}); !errors.Is(err, common.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for unknown email, got %v", err)
	}

	current, err := env.auth.CurrentUser(ctx, login.SessionID)
	if err != nil || current.ID != reg.User.ID {
		t.Fatalf("CurrentUser returned %+v, %v", current, err)
	}

	if err := env.auth.Logout(ctx, login.SessionID); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}
	if _, err := env.auth.CurrentUser(ctx, login.SessionID); !errors.Is(err, common.ErrNotFound) {
		t.Errorf("Expected ErrNotFound after logout, got %v", err)
	}
	if _, err := env.auth.CurrentUser(ctx, reg.SessionID); err != nil {
		t.Errorf("Logging out one session must not end another: %v", err)
	}
}

func TestExpiredSessionsArePruned(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()

	clock := time.UnixMilli(1_700_000_000_000)
	env.auth.sessionTTL = time.Millisecond
	env.auth.now = func() time.Time { return clock }

	reg, err := env.auth.Register(ctx, RegisterRequest{Name: "Ada", Email: "ada@x.com"})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	var last *AuthResponse
	for i := 0; i < 50; i++ {
		clock = clock.Add(2 * time.Millisecond)
		if last, err = env.auth.Login(ctx, LoginRequest{Email: "ada@x.com"}); err != nil {
			t.Fatalf("Login %d failed: %v", i, err)
		}
	}

	stored, err := repository.NewCollection[model.Session](env.store, repository.KeySessions).Read(ctx)
	if err != nil {
		t.Fatalf("Reading sessions failed: %v", err)
	}
	if len(stored) != 1 || stored[0].ID != last.SessionID {
		t.Errorf("Expected only the latest session to remain, got %d sessions", len(stored))
	}

	if _, err := env.auth.CurrentUser(ctx, reg.SessionID); !errors.Is(err, common.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for a pruned session, got %v", err)
	}
	if _, err := env.auth.CurrentUser(ctx, last.SessionID); err != nil {
		t.Errorf("Expected the latest session to be live, got %v", err)
	}

	clock = clock.Add(time.Millisecond)
	if _, err := env.auth.CurrentUser(ctx, last.SessionID); !errors.Is(err, common.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for an expired session, got %v", err)
	}
}

func TestListQuestionsSeedsOnce(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()

	qs, err := env.questions.ListQuestions(ctx)
	if err != nil {
		t.Fatalf("ListQuestions failed: %v", err)
	}
	if len(qs) != 4 {
		t.Fatalf("Expected 4 seed questions, got %d", len(qs))
	}
	if qs[0].ID != "q1" || qs[0].Options[qs[0].CorrectOptionIndex] != "O(log n)" {
		t.Errorf("Unexpected first seed question %+v", qs[0])
	}

	for _, q := range qs {
		if err := env.questions.DeleteQuestion(ctx, q.ID); err != nil {
			t.Fatalf("DeleteQuestion(%s) failed: %v", q.ID, err)
		}
	}

	qs, err = env.questions.ListQuestions(ctx)
	if err != nil {
		t.Fatalf("ListQuestions failed: %v", err)
	}
	if len(qs) != 0 {
		t.Errorf("Expected emptied bank to stay empty, got %d questions", len(qs))
	}
}

func TestQuestionRoundTrip(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()

	q := model.Question{
		ID:                 "custom-1",
		Text:               "Which keyword starts a goroutine?",
		Options:            []string{"go", "async", "spawn", "thread"},
		CorrectOptionIndex: 0,
		Category:           "Go",
	}
	if err := env.questions.AddQuestions(ctx, []model.Question{q}); err != nil {
		t.Fatalf("AddQuestions failed: %v", err)
	}

	qs, err := env.questions.ListQuestions(ctx)
	if err != nil {
		t.Fatalf("ListQuestions failed: %v", err)
	}
	// adding to a never-written bank means the seeds are never written
	if len(qs) != 1 {
		t.Fatalf("Expected only the added question, got %d", len(qs))
	}
	got := qs[0]
	if got.ID != q.ID || got.Text != q.Text || got.Category != q.Category ||
		got.CorrectOptionIndex != q.CorrectOptionIndex || strings.Join(got.Options, "|") != strings.Join(q.Options, "|") {
		t.Errorf("Expected %+v unchanged, got %+v", q, got)
	}

	if err := env.questions.DeleteQuestion(ctx, q.ID); err != nil {
		t.Fatalf("DeleteQuestion failed: %v", err)
	}
	qs, _ = env.questions.ListQuestions(ctx)
	for _, other := range qs {
		if other.ID == q.ID {
			t.Errorf("Expected %s to be deleted", q.ID)
		}
	}
}

func TestCreateQuestion(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()

	q, err := env.questions.CreateQuestion(ctx, CreateQuestionRequest{
		Text:               "What does ACID stand for?",
		Options:            []string{"a", "b", "c", "d"},
		CorrectOptionIndex: 3,
	})
	if err != nil {
		t.Fatalf("CreateQuestion failed: %v", err)
	}
	if !strings.HasPrefix(q.ID, "manual-") {
		t.Errorf("Expected manual- id, got %s", q.ID)
	}
	if q.Category != model.DefaultCategory {
		t.Errorf("Expected default category %s, got %s", model.DefaultCategory, q.Category)
	}

	invalid := []CreateQuestionRequest{
		{Text: "", Options: []string{"a", "b", "c", "d"}},
		{Text: "x", Options: []string{"a", "b", "c"}},
		{Text: "x", Options: []string{"a", "", "c", "d"}},
		{Text: "x", Options: []string{"a", "b", "c", "d"}, CorrectOptionIndex: 4},
		{Text: "x", Options: []string{"a", "b", "c", "d"}, CorrectOptionIndex: -1},
	}
	for i, req := range invalid {
		if _, err := env.questions.CreateQuestion(ctx, req); !errors.Is(err, common.ErrValidation) {
			t.Errorf("case %d: expected ErrValidation, got %v", i, err)
		}
	}

	qs, _, err := repository.NewQuestionRepository(env.store).List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(qs) != 1 {
		t.Errorf("Expected only the valid question stored, got %d", len(qs))
	}
}

func TestListByCategory(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()

	qs, err := env.questions.ListByCategory(ctx, "data-structures")
	if err != nil {
		t.Fatalf("ListByCategory failed: %v", err)
	}
	if len(qs) != 1 || qs[0].ID != "q1" {
		t.Errorf("Expected q1 for data-structures, got %+v", qs)
	}

	all, _ := env.questions.ListByCategory(ctx, "")
	if len(all) != 4 {
		t.Errorf("Expected empty category to return the whole bank, got %d", len(all))
	}
}

func TestGenerateQuestionsMockPath(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	env.questions.ListQuestions(ctx)

	result, err := env.questions.GenerateQuestions(ctx, GenerateRequest{Topic: "Kubernetes", Count: 3})
	if err != nil {
		t.Fatalf("GenerateQuestions failed: %v", err)
	}
	if result.Path != "mock" || len(result.Questions) != 3 {
		t.Fatalf("Expected 3 mock questions, got %d via %s", len(result.Questions), result.Path)
	}

	qs, _ := env.questions.ListQuestions(ctx)
	if len(qs) != 7 {
		t.Errorf("Expected generated questions appended to the seeds, got %d", len(qs))
	}
	if len(env.events.generated) != 1 || env.events.generated[0].Topic != "Kubernetes" {
		t.Errorf("Expected one questions.generated event, got %+v", env.events.generated)
	}
}

func TestGenerateQuestionsInFlight(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()

	release, ok, _ := env.questions.guard.TryAcquire(ctx, generationLockName)
	if !ok {
		t.Fatal("Failed to hold the generation lock")
	}
	if _, err := env.questions.GenerateQuestions(ctx, GenerateRequest{Topic: "Go"}); !errors.Is(err, common.ErrConflict) {
		t.Errorf("Expected ErrConflict while a generation is running, got %v", err)
	}
	release()

	if _, err := env.questions.GenerateQuestions(ctx, GenerateRequest{Topic: "Go"}); err != nil {
		t.Errorf("Expected generation to work after release, got %v", err)
	}
}
