// Package quiz runs one learner through a question bank: profile intake,
// linear prev/next navigation with answers kept across moves, and scoring
// against the bank's answer digests.
package quiz

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/abhisek/quizbook/internal/bank"
	"github.com/abhisek/quizbook/internal/config"
	"github.com/abhisek/quizbook/internal/digest"
	"github.com/abhisek/quizbook/internal/results"
	"github.com/abhisek/quizbook/internal/store"
)

// Recorder persists finished attempts.
type Recorder interface {
	Append(ctx context.Context, rec results.Record) error
}

// EventRecorder receives session lifecycle events.
type EventRecorder interface {
	AppendSessionEvent(ctx context.Context, data store.SessionEventData) error
}

// Options configures a Session. Every field is optional.
type Options struct {
	// Grade overrides the grade label derived from the bank.
	Grade    string
	Recorder Recorder
	Events   EventRecorder
	Shuffler *Shuffler
}

// Session is the quiz state machine. It is not safe for concurrent use; the
// UI update loop owns it.
type Session struct {
	bank     *bank.Bank
	digester digest.Digester
	grade    string
	recorder Recorder
	events   EventRecorder
	shuffler *Shuffler

	id     string
	phase  Phase
	state  SessionState
	record *results.Record
}

// NewSession builds a session over a loaded bank. The bank must have been
// loaded with the same digest algorithm as d.
func NewSession(b *bank.Bank, d digest.Digester, opts Options) (*Session, error) {
	if b == nil || b.Len() == 0 {
		return nil, ErrEmptyBank
	}
	if b.Algorithm != "" && b.Algorithm != d.Algorithm() {
		return nil, fmt.Errorf("%w: bank %s uses %s, session uses %s",
			ErrAlgorithmMismatch, b.ID, b.Algorithm, d.Algorithm())
	}
	shuffler := opts.Shuffler
	if shuffler == nil {
		shuffler = NewShuffler(nil)
	}
	return &Session{
		bank:     b,
		digester: d,
		grade:    bank.ResolveGrade(opts.Grade, b),
		recorder: opts.Recorder,
		events:   opts.Events,
		shuffler: shuffler,
		phase:    PhaseIntake,
	}, nil
}

// Phase returns the current phase.
func (s *Session) Phase() Phase { return s.phase }

// ID returns the id of the current attempt, or "" before Start.
func (s *Session) ID() string { return s.id }

// Grade returns the grade label attached to records.
func (s *Session) Grade() string { return s.grade }

// BankID returns the id of the bank being played.
func (s *Session) BankID() string { return s.bank.ID }

// Title returns the bank title.
func (s *Session) Title() string { return s.bank.Title }

// Total returns the number of questions.
func (s *Session) Total() int { return s.bank.Len() }

// State returns a copy of the session state.
func (s *Session) State() SessionState { return s.state.clone() }

// Record returns the attempt record once the session has completed.
func (s *Session) Record() (results.Record, bool) {
	if s.phase != PhaseCompleted || s.record == nil {
		return results.Record{}, false
	}
	return *s.record, true
}

// Start begins a new attempt for profile, discarding any previous state.
func (s *Session) Start(profile Profile) error {
	profile.Name = strings.TrimSpace(profile.Name)
	if profile.Name == "" {
		return &ValidationError{Field: "name", Message: "please enter your name"}
	}
	profile.Gender = ParseGender(string(profile.Gender))

	for i, q := range s.bank.Questions {
		if q.AnswerDigest == "" {
			return fmt.Errorf("question %d of %s: %w", i+1, s.bank.ID, ErrDigestUnavailable)
		}
	}

	if s.phase == PhaseInProgress {
		s.emit(store.ActionAbandon, 0)
	}

	s.id = uuid.NewString()
	s.phase = PhaseInProgress
	s.record = nil
	s.state = SessionState{
		CurrentIndex: 0,
		Answers:      make(map[int]string),
		Profile:      profile,
	}

	s.log(context.Background()).WithFields(logrus.Fields{
		"gender": profile.Gender,
		"grade":  s.grade,
		"total":  s.bank.Len(),
	}).Info("quiz started")
	s.emit(store.ActionStart, 0)
	return nil
}

// SelectAnswer records choice for the current question. Selecting again
// overwrites the previous selection.
func (s *Session) SelectAnswer(choice string) error {
	if s.phase != PhaseInProgress {
		return ErrNotInProgress
	}
	if !s.bank.Questions[s.state.CurrentIndex].HasChoice(choice) {
		return fmt.Errorf("%w: %q", ErrUnknownChoice, choice)
	}
	s.state.Answers[s.state.CurrentIndex] = choice
	return nil
}

// Advance moves to the next question. On the last question it scores the
// attempt, appends the record and completes the session. If scoring or
// recording fails the session stays on the last question.
func (s *Session) Advance(ctx context.Context) (Phase, error) {
	if s.phase != PhaseInProgress {
		return s.phase, ErrNotInProgress
	}
	s.persistCurrent()

	if s.state.CurrentIndex < s.bank.Len()-1 {
		s.state.CurrentIndex++
		return s.phase, nil
	}

	score, err := Score(ctx, s.digester, s.bank.Questions, s.state.Answers)
	if err != nil {
		return s.phase, err
	}

	rec := results.Record{
		Name:   s.state.Profile.Name,
		Gender: string(s.state.Profile.Gender),
		Grade:  s.grade,
		Score:  score,
	}
	if s.recorder != nil {
		if err := s.recorder.Append(ctx, rec); err != nil {
			return s.phase, fmt.Errorf("record result: %w", err)
		}
	}

	s.record = &rec
	s.phase = PhaseCompleted
	s.log(ctx).WithFields(logrus.Fields{
		"score": score,
		"total": s.bank.Len(),
	}).Info("quiz completed")
	s.emit(store.ActionComplete, score)
	return s.phase, nil
}

// Retreat moves to the previous question, or from the first question back
// to intake, discarding the attempt.
func (s *Session) Retreat() Phase {
	if s.phase != PhaseInProgress {
		return s.phase
	}
	s.persistCurrent()

	if s.state.CurrentIndex > 0 {
		s.state.CurrentIndex--
		return s.phase
	}

	s.log(context.Background()).Info("quiz abandoned")
	s.emit(store.ActionAbandon, 0)
	s.phase = PhaseIntake
	s.state = SessionState{}
	s.id = ""
	return s.phase
}

// CurrentQuestionView returns the current question with freshly shuffled
// choices. The selection is matched by text, so reshuffling never moves it
// to another choice.
func (s *Session) CurrentQuestionView() (QuestionView, error) {
	if s.phase != PhaseInProgress {
		return QuestionView{}, ErrNotInProgress
	}
	idx := s.state.CurrentIndex
	q := s.bank.Questions[idx]
	if q.AnswerDigest == "" {
		return QuestionView{}, fmt.Errorf("question %d of %s: %w", idx+1, s.bank.ID, ErrDigestUnavailable)
	}

	choices := s.shuffler.Shuffle(q.Choices)
	selected := s.state.Answers[idx]
	selectedIdx := -1
	if selected != NoAnswer {
		for i, c := range choices {
			if c == selected {
				selectedIdx = i
				break
			}
		}
	}

	return QuestionView{
		Number:        idx + 1,
		Total:         s.bank.Len(),
		Prompt:        q.Prompt,
		Image:         q.Image,
		Choices:       choices,
		Selected:      selected,
		SelectedIndex: selectedIdx,
		IsLast:        idx == s.bank.Len()-1,
	}, nil
}

// persistCurrent makes sure the current question has an entry, recording
// NoAnswer when nothing was selected.
func (s *Session) persistCurrent() {
	if _, ok := s.state.Answers[s.state.CurrentIndex]; !ok {
		s.state.Answers[s.state.CurrentIndex] = NoAnswer
	}
}

func (s *Session) log(ctx context.Context) *logrus.Entry {
	ctx = config.WithBank(config.WithSession(ctx, s.id), s.bank.ID)
	return config.WithContext(ctx)
}

func (s *Session) emit(action string, score int) {
	if s.events == nil {
		return
	}
	ctx := context.Background()
	err := s.events.AppendSessionEvent(ctx, store.SessionEventData{
		SessionID:     s.id,
		Action:        action,
		BankID:        s.bank.ID,
		Grade:         s.grade,
		QuestionIndex: s.state.CurrentIndex,
		Total:         s.bank.Len(),
		Score:         score,
	})
	if err != nil {
		s.log(ctx).WithError(err).WithField("action", action).Warn("failed to record session event")
	}
}
