package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"ta-chatbot-be/internal/constant"
	"ta-chatbot-be/internal/dto"
	"ta-chatbot-be/internal/entity"
	"ta-chatbot-be/internal/pkg/logger"
	"ta-chatbot-be/internal/repository/contract"
	"ta-chatbot-be/internal/repository/specification"
	"ta-chatbot-be/internal/repository/unitofwork"
	"ta-chatbot-be/pkg/embedding"
	"ta-chatbot-be/pkg/llm"
	"ta-chatbot-be/pkg/store"

	"github.com/google/uuid"
)

var (
	ErrSessionNotFound  = errors.New("session not found")
	ErrNotAuthenticated = errors.New("session is not authenticated")
	ErrTurnInFlight     = errors.New("a previous question is still being answered")
	ErrEmptyChat        = errors.New("chat message must not be empty")
)

type IChatService interface {
	SendChat(ctx context.Context, sessionID string, request *dto.SendChatRequest) (*dto.SendChatResponse, error)
	GetTranscript(sessionID string) (*dto.GetTranscriptResponse, error)

	// GetHistory reads the audit trail persisted for a session, oldest first.
	// Unlike the transcript it survives process restarts.
	GetHistory(ctx context.Context, sessionID string) ([]*entity.ChatMessage, error)
}

type chatService struct {
	uowFactory  unitofwork.RepositoryFactory
	sessionRepo SessionGetter
	indexSvc    IIndexService
	embedder    embedding.EmbeddingProvider
	llmProvider llm.LLMProvider
	settings    ISettingsService
	log         logger.ILogger
}

// SessionGetter is the slice of the session repository the chat loop needs.
type SessionGetter interface {
	Get(sessionID string) (*store.Session, bool)
}

func NewChatService(
	uowFactory unitofwork.RepositoryFactory,
	sessionRepo SessionGetter,
	indexSvc IIndexService,
	embedder embedding.EmbeddingProvider,
	llmProvider llm.LLMProvider,
	settings ISettingsService,
	log logger.ILogger,
) IChatService {
	return &chatService{
		uowFactory:  uowFactory,
		sessionRepo: sessionRepo,
		indexSvc:    indexSvc,
		embedder:    embedder,
		llmProvider: llmProvider,
		settings:    settings,
		log:         log,
	}
}

// SendChat runs one question/answer turn: claim the session, make sure the
// index is queryable, retrieve context, ask the model, and decide the
// citation. Only one turn per session may be in flight.
func (s *chatService) SendChat(ctx context.Context, sessionID string, request *dto.SendChatRequest) (*dto.SendChatResponse, error) {
	question := strings.TrimSpace(request.Chat)
	if question == "" {
		return nil, ErrEmptyChat
	}

	session, found := s.sessionRepo.Get(sessionID)
	if !found {
		return nil, ErrSessionNotFound
	}
	if session.Status != entity.AuthAuthenticated {
		return nil, ErrNotAuthenticated
	}
	if !session.TryLock() {
		return nil, ErrTurnInFlight
	}
	defer session.Unlock()

	if err := s.indexSvc.EnsureIndex(ctx); err != nil {
		return nil, fmt.Errorf("failed to prepare index: %w", err)
	}

	session.Append(store.RoleUser, question)

	queryEmbedding, err := s.embedder.Generate(question, embedding.TaskRetrievalQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to embed question: %w", err)
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	scored, err := uow.DocumentChunkRepository().SearchSimilarWithScore(ctx, queryEmbedding.Embedding.Values, constant.RetrievalTopK)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve context: %w", err)
	}

	reply, err := s.llmProvider.Chat(ctx, s.buildMessages(session, scored),
		llm.WithTemperature(s.settings.Assistant().Temperature),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to generate answer: %w", err)
	}

	session.Append(store.RoleAssistant, reply)

	// Cite the single best source, and only when it strictly clears the
	// threshold. Five weakly relevant chunks still produce no citation.
	var citation *dto.CitationDTO
	if len(scored) > 0 && scored[0].Similarity > constant.CitationScoreThreshold {
		citation = &dto.CitationDTO{
			FileName: scored[0].Chunk.FileName,
			Score:    scored[0].Similarity,
		}
	}

	if err := s.persistTurn(ctx, sessionID, question, reply, citation); err != nil {
		s.log.Warn("ChatService", "failed to persist chat turn", map[string]interface{}{
			"session_id": sessionID,
			"error":      err.Error(),
		})
	}

	s.log.Info("ChatService", "chat turn answered", map[string]interface{}{
		"session_id": sessionID,
		"cited":      citation != nil,
		"retrieved":  len(scored),
	})

	return &dto.SendChatResponse{Reply: reply, Citation: citation}, nil
}

func (s *chatService) GetTranscript(sessionID string) (*dto.GetTranscriptResponse, error) {
	session, found := s.sessionRepo.Get(sessionID)
	if !found {
		return nil, ErrSessionNotFound
	}
	turns := make([]dto.TranscriptTurnDTO, 0, len(session.Transcript))
	for _, turn := range session.Transcript {
		turns = append(turns, dto.TranscriptTurnDTO{Role: turn.Role, Content: turn.Content})
	}
	return &dto.GetTranscriptResponse{Turns: turns}, nil
}

func (s *chatService) GetHistory(ctx context.Context, sessionID string) ([]*entity.ChatMessage, error) {
	chatSessionID, err := uuid.Parse(sessionID)
	if err != nil {
		return nil, ErrSessionNotFound
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.ChatMessageRepository().FindAll(ctx,
		specification.ByChatSessionID{ChatSessionID: chatSessionID},
		specification.OrderBy{Field: "created_at"},
	)
}

// buildMessages assembles the system prompt with the retrieved documents
// inlined, followed by the recent transcript window. The latest user turn is
// already on the transcript.
func (s *chatService) buildMessages(session *store.Session, scored []*contract.ScoredDocumentChunk) []llm.Message {
	var contextBlock strings.Builder
	for _, sc := range scored {
		contextBlock.WriteString(fmt.Sprintf("[%s]\n%s\n\n", sc.Chunk.FileName, sc.Chunk.Content))
	}
	if contextBlock.Len() == 0 {
		contextBlock.WriteString("(no documents found)\n")
	}

	systemPrompt := s.settings.Assistant().SystemPrompt
	if systemPrompt == "" {
		systemPrompt = constant.DefaultSystemPrompt
	}

	messages := []llm.Message{
		{Role: constant.ChatMessageRoleSystem, Content: fmt.Sprintf(systemPrompt, contextBlock.String())},
	}

	transcript := session.Transcript
	if len(transcript) > constant.TranscriptWindow {
		transcript = transcript[len(transcript)-constant.TranscriptWindow:]
	}
	for _, turn := range transcript {
		messages = append(messages, llm.Message{Role: turn.Role, Content: turn.Content})
	}
	return messages
}

func (s *chatService) persistTurn(ctx context.Context, sessionID, question, reply string, citation *dto.CitationDTO) error {
	chatSessionID, err := uuid.Parse(sessionID)
	if err != nil {
		return fmt.Errorf("invalid session id: %w", err)
	}

	var citedFile *string
	if citation != nil {
		citedFile = &citation.FileName
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	repo := uow.ChatMessageRepository()
	if err := repo.Create(ctx, &entity.ChatMessage{
		Id:            uuid.New(),
		ChatSessionId: chatSessionID,
		Role:          constant.ChatMessageRoleUser,
		Chat:          question,
	}); err != nil {
		uow.Rollback()
		return err
	}
	if err := repo.Create(ctx, &entity.ChatMessage{
		Id:            uuid.New(),
		ChatSessionId: chatSessionID,
		Role:          constant.ChatMessageRoleAssistant,
		Chat:          reply,
		CitedFile:     citedFile,
	}); err != nil {
		uow.Rollback()
		return err
	}
	return uow.Commit()
}
