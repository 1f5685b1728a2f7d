// ABOUTME: Chat exchange that appends user input and resolves bot replies
// ABOUTME: Serializes sends with an in-flight flag and removes placeholders by id

package chat

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/2389/assist-console/internal/api"
	"github.com/2389/assist-console/internal/store"
)

// ErrBusy is returned by Submit while a previous send is still in flight.
var ErrBusy = errors.New("a reply is still pending")

// Replier generates a bot reply for a user message.
type Replier interface {
	GenerateReply(ctx context.Context, req api.ReplyRequest) (*api.ReplyResponse, error)
}

// Recorder persists resolved messages.
type Recorder interface {
	SaveChatMessage(ctx context.Context, msg *store.ChatMessage) error
}

// Option configures an Exchange.
type Option func(*Exchange)

// WithUserID sets the user id sent with reply requests.
func WithUserID(userID string) Option {
	return func(e *Exchange) {
		if userID != "" {
			e.userID = userID
		}
	}
}

// WithAutoReply sets the initial auto-reply toggle.
func WithAutoReply(enabled bool) Option {
	return func(e *Exchange) { e.autoReply = enabled }
}

// WithRecorder records resolved messages to rec.
func WithRecorder(rec Recorder) Option {
	return func(e *Exchange) { e.recorder = rec }
}

// WithConversationID sets the conversation id used for recording.
func WithConversationID(id string) Option {
	return func(e *Exchange) {
		if id != "" {
			e.id = id
		}
	}
}

// WithHistory seeds the transcript with previously recorded messages.
func WithHistory(msgs []Message) Option {
	return func(e *Exchange) {
		e.messages = append(e.messages, msgs...)
	}
}

// Exchange is one chat transcript and its send state.
type Exchange struct {
	mu        sync.Mutex
	id        string
	userID    string
	autoReply bool
	inFlight  bool
	messages  []Message

	replier  Replier
	recorder Recorder
	logger   *slog.Logger
	now      func() time.Time
}

// NewExchange creates an exchange that asks replier for bot replies.
// Auto-reply is on by default.
func NewExchange(replier Replier, opts ...Option) *Exchange {
	e := &Exchange{
		id:        uuid.New().String(),
		userID:    DefaultUserID,
		autoReply: true,
		replier:   replier,
		logger:    slog.Default().With("component", "chat"),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ID returns the conversation id.
func (e *Exchange) ID() string {
	return e.id
}

// UserID returns the user id sent with reply requests.
func (e *Exchange) UserID() string {
	return e.userID
}

// AutoReply reports whether sends call the backend.
func (e *Exchange) AutoReply() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.autoReply
}

// SetAutoReply flips the auto-reply toggle. It applies to the next send.
func (e *Exchange) SetAutoReply(enabled bool) {
	e.mu.Lock()
	e.autoReply = enabled
	e.mu.Unlock()
}

// InFlight reports whether a send is waiting for its reply.
func (e *Exchange) InFlight() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.inFlight
}

// Messages returns a copy of the transcript.
func (e *Exchange) Messages() []Message {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]Message, len(e.messages))
	copy(out, e.messages)
	return out
}

// Pending is a send waiting for its reply.
type Pending struct {
	exchange      *Exchange
	input         string
	placeholderID string
	once          sync.Once
	result        Message
}

// PlaceholderID returns the id of the placeholder message.
func (p *Pending) PlaceholderID() string {
	return p.placeholderID
}

// Submit appends the user message and, when auto-reply is on, a placeholder.
// Empty or whitespace-only input is a no-op: (nil, nil). With auto-reply off
// the returned Pending is nil and the send is already complete. A non-nil
// Pending must be resolved.
func (e *Exchange) Submit(ctx context.Context, input string) (*Pending, error) {
	text := strings.TrimSpace(input)
	if text == "" {
		return nil, nil
	}

	e.mu.Lock()
	if e.inFlight {
		e.mu.Unlock()
		return nil, ErrBusy
	}

	user := Message{ID: uuid.New().String(), Sender: SenderUser, Content: text, CreatedAt: e.now()}
	e.messages = append(e.messages, user)

	if !e.autoReply {
		e.mu.Unlock()
		e.record(ctx, user)
		return nil, nil
	}

	placeholder := Message{ID: uuid.New().String(), Sender: SenderBot, Content: PlaceholderText, Pending: true, CreatedAt: e.now()}
	e.messages = append(e.messages, placeholder)
	e.inFlight = true
	e.mu.Unlock()

	e.record(ctx, user)

	return &Pending{exchange: e, input: text, placeholderID: placeholder.ID}, nil
}

// Resolve calls the backend and replaces the placeholder with the reply, the
// no-response marker, or the fixed error text. It is safe to call more than
// once; only the first call does any work.
func (p *Pending) Resolve(ctx context.Context) Message {
	p.once.Do(func() {
		p.result = p.exchange.resolve(ctx, p)
	})
	return p.result
}

func (e *Exchange) resolve(ctx context.Context, p *Pending) Message {
	content := ErrorText
	resp, err := e.replier.GenerateReply(ctx, api.ReplyRequest{Message: p.input, UserID: e.userID})
	switch {
	case err != nil:
		e.logger.Warn("reply request failed", "conversation_id", e.id, "error", err)
	case resp == nil || resp.Reply == "":
		content = NoResponseText
	default:
		content = resp.Reply
	}

	bot := Message{ID: uuid.New().String(), Sender: SenderBot, Content: content, CreatedAt: e.now()}

	e.mu.Lock()
	e.removeLocked(p.placeholderID)
	e.messages = append(e.messages, bot)
	e.inFlight = false
	e.mu.Unlock()

	e.record(ctx, bot)
	return bot
}

// Send is Submit followed by Resolve.
func (e *Exchange) Send(ctx context.Context, input string) error {
	pending, err := e.Submit(ctx, input)
	if err != nil || pending == nil {
		return err
	}
	pending.Resolve(ctx)
	return nil
}

func (e *Exchange) removeLocked(id string) {
	for i, m := range e.messages {
		if m.ID == id {
			e.messages = append(e.messages[:i], e.messages[i+1:]...)
			return
		}
	}
}

// record persists msg. Failures are logged and never affect the transcript.
func (e *Exchange) record(ctx context.Context, msg Message) {
	if e.recorder == nil {
		return
	}
	if err := e.recorder.SaveChatMessage(context.WithoutCancel(ctx), msg.record(e.id)); err != nil {
		e.logger.Error("failed to record chat message", "conversation_id", e.id, "error", err)
	}
}
