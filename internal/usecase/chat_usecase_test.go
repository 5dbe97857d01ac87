package usecase

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/yourusername/shopping-assistant/internal/domain/entity"
)

type stubAIRepo struct {
	mu              sync.Mutex
	resp            string
	err             error
	called          int
	lastInstruction string
	lastMessage     string
	lastHistory     []entity.TurnRecord
}

func (s *stubAIRepo) Generate(ctx context.Context, systemInstruction, userMessage string, history []entity.TurnRecord) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.called++
	s.lastInstruction = systemInstruction
	s.lastMessage = userMessage
	s.lastHistory = history
	return s.resp, s.err
}

func (s *stubAIRepo) Close() error { return nil }

type stubSessionRepo struct {
	mu       sync.Mutex
	sessions map[string]*entity.Session
}

func newStubSessionRepo() *stubSessionRepo {
	return &stubSessionRepo{sessions: make(map[string]*entity.Session)}
}

func (s *stubSessionRepo) GetOrCreate(ctx context.Context, id string) (string, *entity.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id == "" {
		id = "generated-id"
	}
	if session, ok := s.sessions[id]; ok {
		return id, session, nil
	}
	session := entity.NewSession(id)
	s.sessions[id] = session
	return id, session, nil
}

func (s *stubSessionRepo) Get(ctx context.Context, id string) (*entity.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[id]
	return session, ok
}

func (s *stubSessionRepo) Reset(ctx context.Context, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; !ok {
		return false
	}
	delete(s.sessions, id)
	return true
}

func (s *stubSessionRepo) Count(ctx context.Context) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *stubSessionRepo) ClearAll(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions = make(map[string]*entity.Session)
}

func (s *stubSessionRepo) PruneIdle(ctx context.Context, maxIdle time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	pruned := 0
	now := time.Now()
	for id, session := range s.sessions {
		if idle, ok := session.IdleFor(now); ok && idle > maxIdle {
			delete(s.sessions, id)
			pruned++
		}
	}
	return pruned
}

type stubCatalogRepo struct {
	devices []entity.Device
	plans   []entity.Plan
}

func (s *stubCatalogRepo) Devices(ctx context.Context) ([]entity.Device, error) {
	return s.devices, nil
}

func (s *stubCatalogRepo) Plans(ctx context.Context) ([]entity.Plan, error) {
	return s.plans, nil
}

func (s *stubCatalogRepo) ReplaceAll(ctx context.Context, devices []entity.Device, plans []entity.Plan) error {
	s.devices, s.plans = devices, plans
	return nil
}

func newTestUseCase(ai *stubAIRepo) (ChatUseCase, *stubSessionRepo) {
	sessions := newStubSessionRepo()
	catalog := &stubCatalogRepo{
		devices: []entity.Device{
			{ID: "1", Name: "Pixel 8", Brand: "Google", Price: 799, Features: []string{"camera"}},
		},
		plans: []entity.Plan{
			{ID: "101", Name: "MagentaMobil S", Type: "postpaid", Price: 29.95, Data: "10GB"},
		},
	}
	if ai == nil {
		return NewChatUseCase(nil, sessions, catalog, 60, 20), sessions
	}
	return NewChatUseCase(ai, sessions, catalog, 60, 20), sessions
}

func TestHandleTurn_FullTurnUpdatesProfile(t *testing.T) {
	ai := &stubAIRepo{resp: "```json\n{\"response\": \"Great choice area!\", \"conversation_stage\": \"needs_assessment\", \"next_action\": \"continue_conversation\"}\n```"}
	u, sessions := newTestUseCase(ai)

	result := u.HandleTurn(context.Background(), "s1", "I want a phone for gaming under 400 euros", false)

	if result.Response != "Great choice area!" {
		t.Fatalf("Response = %q", result.Response)
	}
	if result.Stage != entity.StageNeedsAssessment {
		t.Fatalf("Stage = %q, want %q", result.Stage, entity.StageNeedsAssessment)
	}
	if result.SessionID != "s1" {
		t.Fatalf("SessionID = %q, want %q", result.SessionID, "s1")
	}

	session, ok := sessions.Get(context.Background(), "s1")
	if !ok {
		t.Fatal("session s1 not stored")
	}
	if session.Profile.Budget != "under €400" {
		t.Fatalf("Budget = %q, want %q", session.Profile.Budget, "under €400")
	}
	if session.Profile.UsageType != entity.UsageHeavy {
		t.Fatalf("UsageType = %q, want %q", session.Profile.UsageType, entity.UsageHeavy)
	}
	if !session.Profile.HasFeature(entity.FeatureGaming) {
		t.Fatalf("ImportantFeatures = %v, want gaming", session.Profile.ImportantFeatures)
	}
	if len(session.History) != 2 {
		t.Fatalf("History has %d records, want 2", len(session.History))
	}
}

func TestHandleTurn_StageStaysWithoutDeclaration(t *testing.T) {
	ai := &stubAIRepo{resp: "just some prose, no json"}
	u, _ := newTestUseCase(ai)

	result := u.HandleTurn(context.Background(), "s1", "hello", false)
	if result.Stage != entity.StageGreeting {
		t.Fatalf("Stage = %q, want %q", result.Stage, entity.StageGreeting)
	}
	if !result.NeedsClarification {
		t.Fatal("NeedsClarification = false, want true on unparseable reply")
	}
}

func TestHandleTurn_AIFailureLeavesSessionUntouched(t *testing.T) {
	ai := &stubAIRepo{err: errors.New("rate limited")}
	u, sessions := newTestUseCase(ai)

	result := u.HandleTurn(context.Background(), "s1", "I want a pixel under 300 euros", false)

	if result.Response != collaboratorApology {
		t.Fatalf("Response = %q, want apology", result.Response)
	}
	if !result.NeedsClarification {
		t.Fatal("NeedsClarification = false, want true")
	}

	session, _ := sessions.Get(context.Background(), "s1")
	if len(session.History) != 0 {
		t.Fatalf("History has %d records, want 0 after failed turn", len(session.History))
	}
	if session.Profile.Budget != "" {
		t.Fatalf("Budget = %q, want empty after failed turn", session.Profile.Budget)
	}
}

func TestHandleTurn_ConcurrentEmptyAndRealTurns(t *testing.T) {
	ai := &stubAIRepo{resp: "{\"response\": \"ok\", \"conversation_stage\": \"needs_assessment\"}"}
	u, _ := newTestUseCase(ai)

	// Empty-message turns read the profile stage while real turns write
	// it; both must go through the per-session lock.
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			u.HandleTurn(context.Background(), "s1", "camera phone", false)
		}()
		go func() {
			defer wg.Done()
			u.HandleTurn(context.Background(), "s1", "", false)
		}()
	}
	wg.Wait()

	result := u.HandleTurn(context.Background(), "s1", "", false)
	if result.Stage != entity.StageNeedsAssessment {
		t.Fatalf("Stage = %q, want %q", result.Stage, entity.StageNeedsAssessment)
	}
}

func TestHandleTurn_EmptyMessage(t *testing.T) {
	ai := &stubAIRepo{resp: "ignored"}
	u, _ := newTestUseCase(ai)

	result := u.HandleTurn(context.Background(), "s1", "   ", false)
	if result.Response != emptyMessageReply {
		t.Fatalf("Response = %q, want prompt for input", result.Response)
	}
	if ai.called != 0 {
		t.Fatalf("AI called %d times, want 0", ai.called)
	}
}

func TestHandleTurn_ResetExistingSession(t *testing.T) {
	ai := &stubAIRepo{resp: "{\"response\": \"hi\"}"}
	u, sessions := newTestUseCase(ai)

	u.HandleTurn(context.Background(), "s1", "hello there", false)
	result := u.HandleTurn(context.Background(), "s1", "", true)

	if result.Response != resetAcknowledgement {
		t.Fatalf("Response = %q, want reset acknowledgement", result.Response)
	}
	if !result.Reset {
		t.Fatal("Reset = false, want true")
	}
	if sessions.Count(context.Background()) != 0 {
		t.Fatalf("Count = %d, want 0 after reset", sessions.Count(context.Background()))
	}
}

func TestHandleTurn_ResetUnknownSession(t *testing.T) {
	u, _ := newTestUseCase(&stubAIRepo{})

	result := u.HandleTurn(context.Background(), "nope", "", true)
	if result.Response != unknownSessionReply {
		t.Fatalf("Response = %q, want unknown-session reply", result.Response)
	}
	if result.Reset {
		t.Fatal("Reset = true, want false")
	}
}

func TestHandleTurn_NilAIUsesFallback(t *testing.T) {
	u, sessions := newTestUseCase(nil)

	result := u.HandleTurn(context.Background(), "s1", "hello", false)
	if result.Response != assistantUnavailable {
		t.Fatalf("Response = %q, want fallback", result.Response)
	}

	session, _ := sessions.Get(context.Background(), "s1")
	if len(session.History) != 0 {
		t.Fatalf("History has %d records, want 0 in fallback mode", len(session.History))
	}
}

func TestHandleTurn_InstructionCarriesCatalogAndFormat(t *testing.T) {
	ai := &stubAIRepo{resp: "{\"response\": \"ok\"}"}
	u, _ := newTestUseCase(ai)

	u.HandleTurn(context.Background(), "s1", "hello", false)

	for _, want := range []string{"Pixel 8", "MagentaMobil S", "Respond in JSON format"} {
		if !strings.Contains(ai.lastInstruction, want) {
			t.Fatalf("system instruction missing %q", want)
		}
	}
}

func TestHandleTurn_NavigateToCartRecordsSelection(t *testing.T) {
	ai := &stubAIRepo{resp: "{\"response\": \"Adding to cart!\", \"next_action\": \"navigate_to_cart\", \"devices\": [{\"id\": \"1\", \"name\": \"Pixel 8\"}], \"plans\": [{\"id\": \"101\", \"name\": \"MagentaMobil S\"}]}"}
	u, sessions := newTestUseCase(ai)

	u.HandleTurn(context.Background(), "s1", "yes, take it", false)

	session, _ := sessions.Get(context.Background(), "s1")
	if session.Profile.SelectedDevice != "1" {
		t.Fatalf("SelectedDevice = %q, want %q", session.Profile.SelectedDevice, "1")
	}
	if session.Profile.SelectedPlan != "101" {
		t.Fatalf("SelectedPlan = %q, want %q", session.Profile.SelectedPlan, "101")
	}
	if len(session.Profile.RecommendedDevices) != 1 {
		t.Fatalf("RecommendedDevices = %v, want one entry", session.Profile.RecommendedDevices)
	}
}

func TestClearSession(t *testing.T) {
	ai := &stubAIRepo{resp: "{\"response\": \"hi\"}"}
	u, _ := newTestUseCase(ai)

	u.HandleTurn(context.Background(), "s1", "hello", false)
	if !u.ClearSession(context.Background(), "s1") {
		t.Fatal("ClearSession = false for existing session")
	}
	if u.ClearSession(context.Background(), "s1") {
		t.Fatal("ClearSession = true for already-cleared session")
	}
}

func TestHistory_WindowPassedToAI(t *testing.T) {
	ai := &stubAIRepo{resp: "{\"response\": \"hi\"}"}
	sessions := newStubSessionRepo()
	u := NewChatUseCase(ai, sessions, &stubCatalogRepo{}, 60, 4)

	for i := 0; i < 5; i++ {
		u.HandleTurn(context.Background(), "s1", "turn", false)
	}

	if len(ai.lastHistory) != 4 {
		t.Fatalf("AI saw %d history records, want 4", len(ai.lastHistory))
	}
}
