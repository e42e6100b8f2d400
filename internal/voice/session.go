// internal/voice/session.go
package voice

import (
	"context"
	"strings"
	"sync"

	apperrors "recruit-workers/internal/common/errors"
	"recruit-workers/internal/common/metrics"
)

type State int

const (
	Idle State = iota
	Listening
)

func (s State) String() string {
	if s == Listening {
		return "listening"
	}
	return "idle"
}

// Request identifies the audio to transcribe.
type Request struct {
	AudioURL string `json:"audioUrl"`
	Language string `json:"language,omitempty"`
}

// Recognizer turns audio into a transcript.
type Recognizer interface {
	Recognize(ctx context.Context, req Request) (string, error)
}

// Session runs one recognition at a time: Idle -> Listening -> Idle.
type Session struct {
	recognizer Recognizer

	mu    sync.Mutex
	state State
}

// NewSession accepts a nil recognizer; Listen then reports VOICE_UNAVAILABLE.
func NewSession(recognizer Recognizer) *Session {
	return &Session{recognizer: recognizer}
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Listen transcribes one request. A second Listen while one is in flight is
// rejected with VOICE_SESSION_BUSY. The session is idle again on return.
func (s *Session) Listen(ctx context.Context, req Request) (string, error) {
	if s.recognizer == nil {
		metrics.VoiceRecognitions.WithLabelValues("unavailable").Inc()
		return "", apperrors.NewVoiceUnavailableError()
	}

	s.mu.Lock()
	if s.state == Listening {
		s.mu.Unlock()
		metrics.VoiceRecognitions.WithLabelValues("busy").Inc()
		return "", apperrors.NewVoiceSessionBusyError()
	}
	s.state = Listening
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.state = Idle
		s.mu.Unlock()
	}()

	transcript, err := s.recognizer.Recognize(ctx, req)
	if err != nil {
		metrics.VoiceRecognitions.WithLabelValues("error").Inc()
		if stdErr, ok := apperrors.As(err); ok {
			return "", stdErr
		}
		return "", apperrors.NewVoiceRecognitionError(err.Error())
	}

	transcript = strings.TrimSpace(transcript)
	if transcript == "" {
		metrics.VoiceRecognitions.WithLabelValues("no_speech").Inc()
		return "", apperrors.NewVoiceRecognitionError("no-speech")
	}

	metrics.VoiceRecognitions.WithLabelValues("ok").Inc()
	return transcript, nil
}

// Sessions keeps one Session per user while that user has a recognition in
// flight. Entries are dropped once the last caller returns.
type Sessions struct {
	recognizer Recognizer

	mu       sync.Mutex
	sessions map[string]*activeSession
}

type activeSession struct {
	session *Session
	callers int
}

func NewSessions(recognizer Recognizer) *Sessions {
	return &Sessions{
		recognizer: recognizer,
		sessions:   make(map[string]*activeSession),
	}
}

// Listen runs req on userID's session. Concurrent calls for the same user
// share the session, so all but the first get VOICE_SESSION_BUSY.
func (s *Sessions) Listen(ctx context.Context, userID string, req Request) (string, error) {
	s.mu.Lock()
	active, ok := s.sessions[userID]
	if !ok {
		active = &activeSession{session: NewSession(s.recognizer)}
		s.sessions[userID] = active
	}
	active.callers++
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		active.callers--
		if active.callers == 0 {
			delete(s.sessions, userID)
		}
		s.mu.Unlock()
	}()

	return active.session.Listen(ctx, req)
}

// State reports Listening while userID has a recognition in flight.
func (s *Sessions) State(userID string) State {
	s.mu.Lock()
	active, ok := s.sessions[userID]
	s.mu.Unlock()
	if !ok {
		return Idle
	}
	return active.session.State()
}

// Len is the number of users with a recognition in flight.
func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
