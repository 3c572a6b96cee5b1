package service

import (
	"context"
	"errors"
	"testing"

	"ta-chatbot-be/internal/config"
	"ta-chatbot-be/internal/constant"
	"ta-chatbot-be/internal/dto"
	"ta-chatbot-be/internal/entity"
	"ta-chatbot-be/internal/repository/contract"
	"ta-chatbot-be/internal/repository/memory"
	"ta-chatbot-be/pkg/store"

	"github.com/google/uuid"
)

// stubIndexService satisfies IIndexService without touching disk or DB.
type stubIndexService struct {
	ensureCalls int
	ensureErr   error
}

func (s *stubIndexService) EnsureIndex(context.Context) error {
	s.ensureCalls++
	return s.ensureErr
}
func (s *stubIndexService) IsUnchanged(context.Context) (bool, error) { return true, nil }
func (s *stubIndexService) MarkStale()                                {}
func (s *stubIndexService) Rebuild(context.Context) error             { return nil }
func (s *stubIndexService) Status(context.Context) (*dto.IndexStatusResponse, error) {
	return &dto.IndexStatusResponse{}, nil
}

type chatFixture struct {
	svc      IChatService
	factory  *fakeUowFactory
	sessions *memory.SessionRepository
	index    *stubIndexService
	llm      *fakeLLM
	session  *store.Session
}

func newChatFixture(t *testing.T, scored []*contract.ScoredDocumentChunk) *chatFixture {
	t.Helper()
	factory := newFakeUowFactory()
	factory.uow.chunkRepo.scored = scored

	sessions := memory.NewSessionRepository()
	session := &store.Session{
		ID:       uuid.NewString(),
		Username: "doej",
		Status:   entity.AuthAuthenticated,
	}
	sessions.Save(session)

	index := &stubIndexService{}
	llmStub := &fakeLLM{reply: "The midterm is on March 3rd."}
	settings := NewSettingsService(config.AssistantConfig{Temperature: 0.2})

	svc := NewChatService(factory, sessions, index, &fakeEmbedder{}, llmStub, settings, testLogger)
	return &chatFixture{
		svc:      svc,
		factory:  factory,
		sessions: sessions,
		index:    index,
		llm:      llmStub,
		session:  session,
	}
}

func scoredChunk(fileName string, similarity float64) *contract.ScoredDocumentChunk {
	return &contract.ScoredDocumentChunk{
		Chunk:      &entity.DocumentChunk{FileName: fileName, Content: "chunk from " + fileName},
		Similarity: similarity,
	}
}

func TestSendChatCitation(t *testing.T) {
	tests := []struct {
		name     string
		scored   []*contract.ScoredDocumentChunk
		wantCite bool
		wantFile string
	}{
		{
			name:     "top score above threshold",
			scored:   []*contract.ScoredDocumentChunk{scoredChunk("outline.pdf", 0.31), scoredChunk("exam.pdf", 0.29)},
			wantCite: true,
			wantFile: "outline.pdf",
		},
		{
			// The threshold is strict. Exactly 0.3 does not cite.
			name:     "top score exactly at threshold",
			scored:   []*contract.ScoredDocumentChunk{scoredChunk("outline.pdf", constant.CitationScoreThreshold)},
			wantCite: false,
		},
		{
			name:     "all scores weak",
			scored:   []*contract.ScoredDocumentChunk{scoredChunk("outline.pdf", 0.1), scoredChunk("exam.pdf", 0.05)},
			wantCite: false,
		},
		{
			name:     "nothing retrieved",
			scored:   nil,
			wantCite: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fx := newChatFixture(t, tt.scored)

			res, err := fx.svc.SendChat(context.Background(), fx.session.ID, &dto.SendChatRequest{Chat: "When is the midterm?"})
			if err != nil {
				t.Fatalf("SendChat() error = %v", err)
			}

			if tt.wantCite {
				if res.Citation == nil {
					t.Fatal("expected a citation")
				}
				if res.Citation.FileName != tt.wantFile {
					t.Errorf("citation file = %q, want %q", res.Citation.FileName, tt.wantFile)
				}
			} else if res.Citation != nil {
				t.Errorf("unexpected citation %+v", res.Citation)
			}
		})
	}
}

func TestSendChatTranscriptAndContext(t *testing.T) {
	fx := newChatFixture(t, []*contract.ScoredDocumentChunk{scoredChunk("outline.pdf", 0.8)})

	res, err := fx.svc.SendChat(context.Background(), fx.session.ID, &dto.SendChatRequest{Chat: "When is the midterm?"})
	if err != nil {
		t.Fatalf("SendChat() error = %v", err)
	}
	if res.Reply != "The midterm is on March 3rd." {
		t.Errorf("reply = %q", res.Reply)
	}

	if fx.index.ensureCalls != 1 {
		t.Errorf("EnsureIndex called %d times, want 1", fx.index.ensureCalls)
	}

	// Question and answer both land on the transcript, in order.
	if len(fx.session.Transcript) != 2 {
		t.Fatalf("transcript length = %d, want 2", len(fx.session.Transcript))
	}
	if fx.session.Transcript[0].Role != store.RoleUser || fx.session.Transcript[1].Role != store.RoleAssistant {
		t.Errorf("transcript roles = %v", fx.session.Transcript)
	}

	// The retrieved chunk is inlined into the system prompt.
	if !containsAll(systemPromptOf(fx.llm.history), "chunk from outline.pdf") {
		t.Error("retrieved context missing from system prompt")
	}
}

func TestSendChatPersistsTurn(t *testing.T) {
	fx := newChatFixture(t, []*contract.ScoredDocumentChunk{scoredChunk("outline.pdf", 0.8)})

	if _, err := fx.svc.SendChat(context.Background(), fx.session.ID, &dto.SendChatRequest{Chat: "When is the midterm?"}); err != nil {
		t.Fatalf("SendChat() error = %v", err)
	}

	messages := fx.factory.uow.chatRepo.messages
	if len(messages) != 2 {
		t.Fatalf("persisted %d messages, want 2", len(messages))
	}
	if messages[0].Role != constant.ChatMessageRoleUser || messages[1].Role != constant.ChatMessageRoleAssistant {
		t.Errorf("persisted roles = %s, %s", messages[0].Role, messages[1].Role)
	}
	if messages[1].CitedFile == nil || *messages[1].CitedFile != "outline.pdf" {
		t.Error("assistant message missing cited file")
	}
}

func TestSendChatGuards(t *testing.T) {
	fx := newChatFixture(t, nil)

	if _, err := fx.svc.SendChat(context.Background(), fx.session.ID, &dto.SendChatRequest{Chat: "   "}); !errors.Is(err, ErrEmptyChat) {
		t.Errorf("empty chat error = %v, want ErrEmptyChat", err)
	}

	if _, err := fx.svc.SendChat(context.Background(), "nope", &dto.SendChatRequest{Chat: "hi"}); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("missing session error = %v, want ErrSessionNotFound", err)
	}

	fx.session.Status = entity.AuthRejected
	if _, err := fx.svc.SendChat(context.Background(), fx.session.ID, &dto.SendChatRequest{Chat: "hi"}); !errors.Is(err, ErrNotAuthenticated) {
		t.Errorf("rejected session error = %v, want ErrNotAuthenticated", err)
	}
	fx.session.Status = entity.AuthAuthenticated

	// A held turn lock turns a concurrent request away.
	if !fx.session.TryLock() {
		t.Fatal("could not take the turn lock")
	}
	defer fx.session.Unlock()
	if _, err := fx.svc.SendChat(context.Background(), fx.session.ID, &dto.SendChatRequest{Chat: "hi"}); !errors.Is(err, ErrTurnInFlight) {
		t.Errorf("in-flight error = %v, want ErrTurnInFlight", err)
	}
}

func TestGetHistory(t *testing.T) {
	fx := newChatFixture(t, []*contract.ScoredDocumentChunk{scoredChunk("outline.pdf", 0.8)})

	if _, err := fx.svc.SendChat(context.Background(), fx.session.ID, &dto.SendChatRequest{Chat: "When is the midterm?"}); err != nil {
		t.Fatalf("SendChat() error = %v", err)
	}

	history, err := fx.svc.GetHistory(context.Background(), fx.session.ID)
	if err != nil {
		t.Fatalf("GetHistory() error = %v", err)
	}
	if len(history) != 2 {
		t.Errorf("history length = %d, want 2", len(history))
	}

	if _, err := fx.svc.GetHistory(context.Background(), "not-a-uuid"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("invalid session id error = %v, want ErrSessionNotFound", err)
	}
}

func TestGetTranscript(t *testing.T) {
	fx := newChatFixture(t, nil)
	fx.session.Append(store.RoleAssistant, "hello")
	fx.session.Append(store.RoleUser, "hi")

	res, err := fx.svc.GetTranscript(fx.session.ID)
	if err != nil {
		t.Fatalf("GetTranscript() error = %v", err)
	}
	if len(res.Turns) != 2 || res.Turns[0].Content != "hello" {
		t.Errorf("transcript = %+v", res.Turns)
	}

	if _, err := fx.svc.GetTranscript("missing"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("missing session error = %v", err)
	}
}
