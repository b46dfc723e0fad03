// Package chat maintains the side panel's conversation: an append-only
// message log persisted per chapter, and a single in-flight streaming
// exchange with the chat backend.
package chat

import (
	"context"
	"encoding/json"
	"log"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/callummcdougall/arena-heroku/internal/client/api"
	"github.com/callummcdougall/arena-heroku/internal/client/storage"
)

// Message is one persisted turn.
type Message struct {
	ID      string `json:"id"`
	Role    string `json:"role"`
	Content string `json:"content"`
}

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatAPI is the slice of the HTTP client the session needs.
type ChatAPI interface {
	StreamChat(ctx context.Context, messages []api.ChatMessage, contextDoc, model string, fn func(chunk string) error) error
}

// ContextSource produces the context document for a send: the
// assembler's bundle when a chapter is active, a static course
// document otherwise.
type ContextSource interface {
	ChatContext(ctx context.Context) (string, error)
}

// View renders the conversation. ShowAssistantPending covers the gap
// between send and first byte; chunks then append incrementally until
// Finish or Error replaces the in-progress message.
type View interface {
	ShowUserMessage(m Message)
	ShowAssistantPending()
	AppendAssistantChunk(chunk string)
	FinishAssistantMessage(m Message)
	ShowAssistantError(err error)
}

// Session is the per-page chat state.
type Session struct {
	store  storage.Store
	key    string
	api    ChatAPI
	source ContextSource
	view   View
	logger *log.Logger
	model  string

	mu       sync.Mutex
	messages []Message
	inflight bool
}

// NewSession creates a session persisting under the chapter's history
// key (or the static key when chapterID is empty).
func NewSession(store storage.Store, chapterID string, client ChatAPI, source ContextSource, view View, model string, logger *log.Logger) *Session {
	return &Session{
		store:  store,
		key:    storage.ChatHistoryKey(chapterID),
		api:    client,
		source: source,
		view:   view,
		model:  model,
		logger: logger,
	}
}

// Load restores the persisted log. Storage failures degrade to an
// empty in-memory log.
func (s *Session) Load(ctx context.Context) {
	raw, ok, err := s.store.Get(ctx, s.key)
	if err != nil {
		s.logger.Printf("chat history load failed: %v", err)
		return
	}
	if !ok {
		return
	}
	var msgs []Message
	if err := json.Unmarshal([]byte(raw), &msgs); err != nil {
		s.logger.Printf("chat history corrupt, starting fresh: %v", err)
		return
	}
	s.mu.Lock()
	s.messages = msgs
	s.mu.Unlock()
}

// Messages returns a copy of the log.
func (s *Session) Messages() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Message(nil), s.messages...)
}

// SetModel switches the model used for subsequent sends.
func (s *Session) SetModel(model string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.model = model
}

// Clear wipes the log and its durable copy.
func (s *Session) Clear(ctx context.Context) {
	s.mu.Lock()
	s.messages = nil
	s.mu.Unlock()
	if err := s.store.Delete(ctx, s.key); err != nil {
		s.logger.Printf("chat history clear failed: %v", err)
	}
}

// Send appends the user message, streams the reply and persists the
// completed assistant message. Only one send may be in flight; a send
// while one is outstanding is ignored. A stream failure replaces the
// in-progress assistant message with an error and persists nothing
// for it.
func (s *Session) Send(ctx context.Context, content string) error {
	s.mu.Lock()
	if s.inflight {
		s.mu.Unlock()
		return nil
	}
	s.inflight = true
	userMsg := Message{ID: uuid.NewString(), Role: RoleUser, Content: content}
	s.messages = append(s.messages, userMsg)
	wire := make([]api.ChatMessage, len(s.messages))
	for i, m := range s.messages {
		wire[i] = api.ChatMessage{Role: m.Role, Content: m.Content}
	}
	model := s.model
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.inflight = false
		s.mu.Unlock()
	}()

	s.persist(ctx)
	s.view.ShowUserMessage(userMsg)

	contextDoc, err := s.source.ChatContext(ctx)
	if err != nil {
		s.logger.Printf("chat context build failed: %v", err)
		contextDoc = ""
	}

	s.view.ShowAssistantPending()

	var reply strings.Builder
	err = s.api.StreamChat(ctx, wire, contextDoc, model, func(chunk string) error {
		reply.WriteString(chunk)
		s.view.AppendAssistantChunk(chunk)
		return nil
	})
	if err != nil {
		s.logger.Printf("chat send failed: %v", err)
		s.view.ShowAssistantError(err)
		return err
	}

	assistantMsg := Message{ID: uuid.NewString(), Role: RoleAssistant, Content: reply.String()}
	s.mu.Lock()
	s.messages = append(s.messages, assistantMsg)
	s.mu.Unlock()
	s.persist(ctx)
	s.view.FinishAssistantMessage(assistantMsg)
	return nil
}

// persist writes the log to the durable store. Failures are logged
// only; the session keeps working in memory.
func (s *Session) persist(ctx context.Context) {
	s.mu.Lock()
	raw, err := json.Marshal(s.messages)
	s.mu.Unlock()
	if err != nil {
		s.logger.Printf("chat history encode failed: %v", err)
		return
	}
	if err := s.store.Set(ctx, s.key, string(raw)); err != nil {
		s.logger.Printf("chat history save failed: %v", err)
	}
}
