package service

import (
	"context"
	"sort"
	"strings"

	"ta-chatbot-be/internal/entity"
	"ta-chatbot-be/internal/pkg/logger"
	"ta-chatbot-be/internal/repository/contract"
	"ta-chatbot-be/internal/repository/specification"
	"ta-chatbot-be/internal/repository/unitofwork"
	"ta-chatbot-be/pkg/embedding"
	"ta-chatbot-be/pkg/llm"
)

// nopLogger satisfies logger.ILogger without writing anywhere.
type nopLogger struct{}

func (nopLogger) Debug(string, string, map[string]interface{}) {}
func (nopLogger) Info(string, string, map[string]interface{})  {}
func (nopLogger) Warn(string, string, map[string]interface{})  {}
func (nopLogger) Error(string, string, map[string]interface{}) {}
func (nopLogger) Sync() error                                  { return nil }

var testLogger logger.ILogger = nopLogger{}

// fakeChunkRepo keeps chunks in a slice and serves canned similarity scores.
type fakeChunkRepo struct {
	chunks  []*entity.DocumentChunk
	scored  []*contract.ScoredDocumentChunk
	deletes int
}

func (r *fakeChunkRepo) CreateBulk(_ context.Context, chunks []*entity.DocumentChunk) error {
	r.chunks = append(r.chunks, chunks...)
	return nil
}

func (r *fakeChunkRepo) DeleteAll(context.Context) error {
	r.deletes++
	r.chunks = nil
	return nil
}

func (r *fakeChunkRepo) FindAll(context.Context, ...specification.Specification) ([]*entity.DocumentChunk, error) {
	return r.chunks, nil
}

func (r *fakeChunkRepo) Count(context.Context, ...specification.Specification) (int64, error) {
	return int64(len(r.chunks)), nil
}

func (r *fakeChunkRepo) DistinctFileNames(context.Context) ([]string, error) {
	seen := map[string]struct{}{}
	var names []string
	for _, c := range r.chunks {
		if _, ok := seen[c.FileName]; !ok {
			seen[c.FileName] = struct{}{}
			names = append(names, c.FileName)
		}
	}
	sort.Strings(names)
	return names, nil
}

func (r *fakeChunkRepo) SearchSimilarWithScore(context.Context, []float32, int) ([]*contract.ScoredDocumentChunk, error) {
	return r.scored, nil
}

// fakeUserRepo stores users keyed by username.
type fakeUserRepo struct {
	users      map[string]*entity.User
	upsertErrs map[string]error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*entity.User{}}
}

func (r *fakeUserRepo) Upsert(_ context.Context, user *entity.User) error {
	if err := r.upsertErrs[user.Username]; err != nil {
		return err
	}
	r.users[user.Username] = user
	return nil
}

func (r *fakeUserRepo) Delete(_ context.Context, username string) error {
	delete(r.users, username)
	return nil
}

func (r *fakeUserRepo) FindOne(context.Context, ...specification.Specification) (*entity.User, error) {
	return nil, nil
}

func (r *fakeUserRepo) FindAll(context.Context, ...specification.Specification) ([]*entity.User, error) {
	var users []*entity.User
	for _, u := range r.users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Username < users[j].Username })
	return users, nil
}

func (r *fakeUserRepo) Count(context.Context, ...specification.Specification) (int64, error) {
	return int64(len(r.users)), nil
}

// fakeChatMessageRepo records created messages.
type fakeChatMessageRepo struct {
	messages []*entity.ChatMessage
}

func (r *fakeChatMessageRepo) Create(_ context.Context, msg *entity.ChatMessage) error {
	r.messages = append(r.messages, msg)
	return nil
}

func (r *fakeChatMessageRepo) FindAll(context.Context, ...specification.Specification) ([]*entity.ChatMessage, error) {
	return r.messages, nil
}

// fakeUow hands out the fakes above; Begin/Commit/Rollback are no-ops.
type fakeUow struct {
	chunkRepo *fakeChunkRepo
	userRepo  *fakeUserRepo
	chatRepo  *fakeChatMessageRepo
}

func (u *fakeUow) Begin(context.Context) error { return nil }
func (u *fakeUow) Commit() error               { return nil }
func (u *fakeUow) Rollback() error             { return nil }

func (u *fakeUow) UserRepository() contract.UserRepository {
	return u.userRepo
}

func (u *fakeUow) DocumentChunkRepository() contract.DocumentChunkRepository {
	return u.chunkRepo
}

func (u *fakeUow) ChatMessageRepository() contract.ChatMessageRepository {
	return u.chatRepo
}

type fakeUowFactory struct {
	uow *fakeUow
}

func newFakeUowFactory() *fakeUowFactory {
	return &fakeUowFactory{uow: &fakeUow{
		chunkRepo: &fakeChunkRepo{},
		userRepo:  newFakeUserRepo(),
		chatRepo:  &fakeChatMessageRepo{},
	}}
}

func (f *fakeUowFactory) NewUnitOfWork(context.Context) unitofwork.UnitOfWork {
	return f.uow
}

// fakeEmbedder returns a fixed-size vector derived from the text length.
type fakeEmbedder struct {
	calls int
}

func (e *fakeEmbedder) Generate(text string, _ string) (*embedding.EmbeddingResponse, error) {
	e.calls++
	return &embedding.EmbeddingResponse{
		Embedding: embedding.EmbeddingResponseEmbedding{
			Values: []float32{float32(len(text)), 1, 0},
		},
	}, nil
}

// fakeLLM replies with a canned answer and records what it was asked.
type fakeLLM struct {
	reply   string
	history []llm.Message
}

func (l *fakeLLM) Chat(_ context.Context, history []llm.Message, _ ...llm.Option) (string, error) {
	l.history = history
	if l.reply == "" {
		return "canned answer", nil
	}
	return l.reply, nil
}

func (l *fakeLLM) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return l.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}}, options...)
}

// fakeCredentialSource serves a static credential map.
type fakeCredentialSource struct {
	creds   map[string]*entity.Credential
	fetches int
}

func (s *fakeCredentialSource) FetchUsers(context.Context) map[string]*entity.Credential {
	s.fetches++
	if s.creds == nil {
		return map[string]*entity.Credential{}
	}
	return s.creds
}

func systemPromptOf(history []llm.Message) string {
	if len(history) == 0 || history[0].Role != "system" {
		return ""
	}
	return history[0].Content
}

func containsAll(s string, parts ...string) bool {
	for _, p := range parts {
		if !strings.Contains(s, p) {
			return false
		}
	}
	return true
}
