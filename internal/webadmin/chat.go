// ABOUTME: Chat widget conversations for the admin UI
// ABOUTME: Hub of per-browser exchanges with stale cleanup, plus send/poll handlers

package webadmin

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/2389/assist-console/internal/chat"
)

// staleThreshold is how long an idle conversation stays in memory
const staleThreshold = 30 * time.Minute

// Chat form submission ids are remembered this long, up to this many.
const (
	submissionWindow   = 10 * time.Minute
	submissionCapacity = 4096
)

// exchangeFactory builds the exchange for a conversation id
type exchangeFactory func(ctx context.Context, conversationID string) *chat.Exchange

// conversation is one browser's chat held by the hub
type conversation struct {
	exchange *chat.Exchange
	lastUsed time.Time
}

// chatHub manages active chat conversations keyed by conversation id
type chatHub struct {
	mu            sync.Mutex
	conversations map[string]*conversation
	factory       exchangeFactory
	ctx           context.Context
	cancel        context.CancelFunc
}

func newChatHub(factory exchangeFactory) *chatHub {
	ctx, cancel := context.WithCancel(context.Background())
	hub := &chatHub{
		conversations: make(map[string]*conversation),
		factory:       factory,
		ctx:           ctx,
		cancel:        cancel,
	}
	// Start cleanup goroutine
	go hub.cleanupLoop(ctx)
	return hub
}

// cleanupLoop periodically removes stale conversations
func (h *chatHub) cleanupLoop(ctx context.Context) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			h.cleanupStale(time.Now())
		}
	}
}

// cleanupStale drops conversations idle for longer than staleThreshold.
// A conversation waiting on a reply is kept.
func (h *chatHub) cleanupStale(now time.Time) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for id, c := range h.conversations {
		if now.Sub(c.lastUsed) > staleThreshold && !c.exchange.InFlight() {
			delete(h.conversations, id)
		}
	}
}

// getOrCreate returns the exchange for id, building it on first use
func (h *chatHub) getOrCreate(ctx context.Context, id string) *chat.Exchange {
	h.mu.Lock()
	defer h.mu.Unlock()

	if c, ok := h.conversations[id]; ok {
		c.lastUsed = time.Now()
		return c.exchange
	}

	ex := h.factory(ctx, id)
	h.conversations[id] = &conversation{exchange: ex, lastUsed: time.Now()}
	return ex
}

// len returns the number of live conversations
func (h *chatHub) len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.conversations)
}

// Close stops the cleanup goroutine and cancels pending replies
func (h *chatHub) Close() {
	h.cancel()

	h.mu.Lock()
	defer h.mu.Unlock()
	for id := range h.conversations {
		delete(h.conversations, id)
	}
}

// newExchangeFactory restores history for a conversation and wires recording
func (a *Admin) newExchangeFactory(replier chat.Replier, history History) exchangeFactory {
	return func(ctx context.Context, id string) *chat.Exchange {
		opts := []chat.Option{
			chat.WithConversationID(id),
			chat.WithUserID(a.config.ChatUserID),
			chat.WithAutoReply(a.config.AutoReply),
		}

		if history != nil {
			opts = append(opts, chat.WithRecorder(history))
			records, err := history.ListChatMessages(ctx, id, a.config.HistoryLimit)
			if err != nil {
				a.logger.Error("failed to restore chat history", "conversation_id", id, "error", err)
			} else {
				opts = append(opts, chat.WithHistory(chat.FromRecords(records)))
			}
		}

		return chat.NewExchange(replier, opts...)
	}
}

// conversationFor returns the browser's exchange, issuing a conversation cookie if needed
func (a *Admin) conversationFor(w http.ResponseWriter, r *http.Request) *chat.Exchange {
	id := ""
	if cookie, err := r.Cookie(ConversationCookieName); err == nil {
		if _, perr := uuid.Parse(cookie.Value); perr == nil {
			id = cookie.Value
		}
	}

	if id == "" {
		id = uuid.New().String()
		http.SetCookie(w, &http.Cookie{
			Name:     ConversationCookieName,
			Value:    id,
			Path:     "/",
			MaxAge:   int(ConversationDuration.Seconds()),
			HttpOnly: true,
			Secure:   r.TLS != nil,
			SameSite: http.SameSiteLaxMode,
		})
	}

	return a.chatHub.getOrCreate(r.Context(), id)
}

func transcriptOf(ex *chat.Exchange, notice string) transcriptData {
	return transcriptData{
		Messages: ex.Messages(),
		InFlight: ex.InFlight(),
		Notice:   notice,
	}
}

// handleChatPage renders the chat widget with the restored transcript
func (a *Admin) handleChatPage(w http.ResponseWriter, r *http.Request) {
	_, csrfToken := a.ensureCSRFToken(w, r)
	ex := a.conversationFor(w, r)

	a.renderChatPage(w, chatPageData{
		Title:        "Chat",
		CSRFToken:    csrfToken,
		SubmissionID: uuid.New().String(),
		AutoReply:    ex.AutoReply(),
		Transcript:   transcriptOf(ex, ""),
	})
}

// handleChatSend appends the user's message and resolves the reply in the background
func (a *Admin) handleChatSend(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form data", http.StatusBadRequest)
		return
	}
	if !a.validateCSRF(r) {
		http.Error(w, "invalid CSRF token", http.StatusForbidden)
		return
	}

	ex := a.conversationFor(w, r)
	if sub := r.FormValue("submission_id"); sub != "" && a.submissions.Seen(ex.ID()+":"+sub) {
		a.logger.Debug("duplicate chat submission dropped", "conversation_id", ex.ID())
		a.renderPartial(w, "transcript", transcriptOf(ex, ""))
		return
	}
	ex.SetAutoReply(r.FormValue("auto_reply") != "")

	notice := ""
	pending, err := ex.Submit(r.Context(), r.FormValue("message"))
	switch {
	case errors.Is(err, chat.ErrBusy):
		notice = "Still waiting for the previous reply."
	case err != nil:
		a.logger.Error("chat submit failed", "conversation_id", ex.ID(), "error", err)
	case pending != nil:
		go pending.Resolve(a.chatHub.ctx)
	}

	a.renderPartial(w, "transcript", transcriptOf(ex, notice))
}

// handleChatTranscript renders the transcript; the page polls it while a reply is pending
func (a *Admin) handleChatTranscript(w http.ResponseWriter, r *http.Request) {
	ex := a.conversationFor(w, r)
	a.renderPartial(w, "transcript", transcriptOf(ex, ""))
}
