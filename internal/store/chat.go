// Package store holds the session-scoped mutable state of the client: the
// conversation history and the settings, each in its own store. Stores are
// explicitly constructed and injected; there is no hidden global instance.
package store

import (
	"context"
	"sync"

	"github.com/charmbracelet/log"

	"adchat/internal/logger"
	"adchat/internal/storage"
	"adchat/pkg/chattypes"
)

// Transport is the connection-client contract the chat store drives. It is
// satisfied by wsclient.Client.
type Transport interface {
	Connect(ctx context.Context) error
	Disconnect()
	Send(content string)
	OnMessage(fn func(chattypes.Envelope)) func()
	OnConnectionChange(fn func(bool)) func()
	IsConnected() bool
}

// ChatStore is the single authoritative in-session record of the
// conversation. It bridges user intent and transport events into a
// consistent, observable state. History is append-only; it is never
// reordered or mutated in place.
type ChatStore struct {
	mu            sync.Mutex
	messages      []chattypes.Message
	connected     bool
	typing        bool
	currentChatID string

	transport Transport
	persist   *storage.Store
	log       *log.Logger

	subscribers   []subscriber
	nextSubID     int
	unsubMessage  func()
	unsubConnFlag func()
}

type subscriber struct {
	id int
	fn func()
}

// NewChatStore creates a chat store bound to the given transport. When
// persist is non-nil the chat partition is loaded immediately and saved on
// every history mutation. Connection and typing flags always start false.
func NewChatStore(transport Transport, persist *storage.Store) *ChatStore {
	s := &ChatStore{
		transport: transport,
		persist:   persist,
		log:       logger.NewStyledLogger("ChatStore"),
	}
	s.load()
	return s
}

// SendMessage appends a user message to the history, marks the assistant as
// composing, and hands the content to the transport. Fire-and-forget: the
// call does not wait for delivery.
func (s *ChatStore) SendMessage(content string) {
	msg := chattypes.NewUserMessage(content)

	s.mu.Lock()
	s.messages = append(s.messages, msg)
	s.typing = true
	s.mu.Unlock()

	s.save()
	s.transport.Send(content)
	s.notify()
}

// AddMessage appends any message to the history. Used both for local echo
// and for received assistant replies.
func (s *ChatStore) AddMessage(msg chattypes.Message) {
	s.mu.Lock()
	s.messages = append(s.messages, msg)
	s.mu.Unlock()

	s.save()
	s.notify()
}

// ClearMessages resets the history to empty. Connection state is unaffected.
func (s *ChatStore) ClearMessages() {
	s.mu.Lock()
	s.messages = nil
	s.mu.Unlock()

	s.save()
	s.notify()
}

// Messages returns a copy of the history in insertion order.
func (s *ChatStore) Messages() []chattypes.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]chattypes.Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// IsConnected reports the mirrored connection flag.
func (s *ChatStore) IsConnected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.connected
}

// IsTyping reports whether the assistant is expected to reply imminently.
func (s *ChatStore) IsTyping() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.typing
}

// CurrentChatID returns the persisted conversation identifier, if any.
func (s *ChatStore) CurrentChatID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentChatID
}

// SetTyping sets the composing flag.
func (s *ChatStore) SetTyping(typing bool) {
	s.mu.Lock()
	s.typing = typing
	s.mu.Unlock()
	s.notify()
}

// SetConnected mirrors a connection-state change into the store.
func (s *ChatStore) SetConnected(connected bool) {
	s.mu.Lock()
	s.connected = connected
	s.mu.Unlock()
	s.notify()
}

// Subscribe registers a change-notification callback invoked after every
// state mutation. The returned func unregisters.
func (s *ChatStore) Subscribe(fn func()) func() {
	s.mu.Lock()
	s.nextSubID++
	id := s.nextSubID
	s.subscribers = append(s.subscribers, subscriber{id: id, fn: fn})
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, sub := range s.subscribers {
			if sub.id == id {
				s.subscribers = append(s.subscribers[:i], s.subscribers[i+1:]...)
				return
			}
		}
	}
}

// ConnectWebSocket wires the transport observers (exactly once per connect;
// prior registrations are released first) and establishes the connection.
func (s *ChatStore) ConnectWebSocket(ctx context.Context) error {
	s.releaseObservers()

	s.mu.Lock()
	s.unsubMessage = s.transport.OnMessage(s.handleEnvelope)
	s.unsubConnFlag = s.transport.OnConnectionChange(s.SetConnected)
	s.mu.Unlock()

	if err := s.transport.Connect(ctx); err != nil {
		s.log.Error("failed to connect", "error", err)
		return err
	}
	return nil
}

// DisconnectWebSocket tears down the connection and releases the observers.
func (s *ChatStore) DisconnectWebSocket() {
	s.transport.Disconnect()
	s.releaseObservers()
	s.SetConnected(false)
}

func (s *ChatStore) releaseObservers() {
	s.mu.Lock()
	unsubMsg, unsubConn := s.unsubMessage, s.unsubConnFlag
	s.unsubMessage, s.unsubConnFlag = nil, nil
	s.mu.Unlock()

	if unsubMsg != nil {
		unsubMsg()
	}
	if unsubConn != nil {
		unsubConn()
	}
}

// handleEnvelope dispatches an inbound envelope into state mutations.
func (s *ChatStore) handleEnvelope(env chattypes.Envelope) {
	switch env.Type {
	case chattypes.EnvelopeMessage:
		if env.Data.Message == nil {
			return
		}
		s.mu.Lock()
		s.messages = append(s.messages, *env.Data.Message)
		s.typing = false
		s.mu.Unlock()
		s.save()
		s.notify()

	case chattypes.EnvelopeTyping:
		if env.Data.IsTyping == nil {
			return
		}
		s.SetTyping(*env.Data.IsTyping)

	case chattypes.EnvelopeError:
		s.log.Error("assistant reported error", "error", env.Data.Error)
		s.SetTyping(false)

	case chattypes.EnvelopeSettingsUpdate:
		// Reserved for remote-push settings; no handler consumes it yet.
		s.log.Debug("ignoring settings_update envelope")
	}
}

func (s *ChatStore) notify() {
	s.mu.Lock()
	subs := make([]subscriber, len(s.subscribers))
	copy(subs, s.subscribers)
	s.mu.Unlock()

	for _, sub := range subs {
		sub.fn()
	}
}

func (s *ChatStore) load() {
	if s.persist == nil {
		return
	}
	var snap chattypes.ChatSnapshot
	found, err := s.persist.Load(storage.ChatPartition, &snap)
	if err != nil {
		s.log.Warn("failed to load chat partition", "error", err)
		return
	}
	if !found {
		return
	}
	s.mu.Lock()
	s.messages = snap.Messages
	s.currentChatID = snap.CurrentChatID
	s.mu.Unlock()
}

func (s *ChatStore) save() {
	if s.persist == nil {
		return
	}
	s.mu.Lock()
	snap := chattypes.ChatSnapshot{
		Messages:      append([]chattypes.Message(nil), s.messages...),
		CurrentChatID: s.currentChatID,
	}
	s.mu.Unlock()

	if err := s.persist.Save(storage.ChatPartition, snap); err != nil {
		s.log.Warn("failed to save chat partition", "error", err)
	}
}
