package quiz

import (
	"context"
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/abhisek/quizbook/internal/bank"
	"github.com/abhisek/quizbook/internal/digest"
	"github.com/abhisek/quizbook/internal/results"
	"github.com/abhisek/quizbook/internal/store"
)

// fakeRecorder collects appended records.
type fakeRecorder struct {
	records []results.Record
	err     error
}

func (f *fakeRecorder) Append(_ context.Context, rec results.Record) error {
	if f.err != nil {
		return f.err
	}
	f.records = append(f.records, rec)
	return nil
}

// fakeEvents collects session events.
type fakeEvents struct {
	events []store.SessionEventData
}

func (f *fakeEvents) AppendSessionEvent(_ context.Context, data store.SessionEventData) error {
	f.events = append(f.events, data)
	return nil
}

func (f *fakeEvents) actions() []string {
	var out []string
	for _, e := range f.events {
		out = append(out, e.Action)
	}
	return out
}

var fiveQuestions = &bank.Definition{
	Format: bank.FormatVersion,
	ID:     "grade3-sample",
	Title:  "Sample",
	Questions: []bank.RawQuestion{
		{Prompt: "Q1", Choices: []string{"a", "b", "c"}, Answer: "a"},
		{Prompt: "Q2", Choices: []string{"a", "b", "c"}, Answer: "b"},
		{Prompt: "Q3", Choices: []string{"a", "b", "c"}, Answer: "c"},
		{Prompt: "Q4", Choices: []string{"a", "b", "c"}, Answer: "a"},
		{Prompt: "Q5", Choices: []string{"a", "b", "c"}, Answer: "b", Image: "q5.png"},
	},
}

func loadBank(t *testing.T, def *bank.Definition) (*bank.Bank, digest.Digester) {
	t.Helper()
	d, err := digest.New(digest.SHA256)
	if err != nil {
		t.Fatalf("digest: %v", err)
	}
	b, err := bank.Load(context.Background(), def, d)
	if err != nil {
		t.Fatalf("load bank: %v", err)
	}
	return b, d
}

func newTestSession(t *testing.T, opts Options) *Session {
	t.Helper()
	b, d := loadBank(t, fiveQuestions)
	if opts.Shuffler == nil {
		opts.Shuffler = NewShuffler(rand.NewPCG(1, 2))
	}
	s, err := NewSession(b, d, opts)
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	return s
}

func mustStart(t *testing.T, s *Session) {
	t.Helper()
	if err := s.Start(Profile{Name: "Ana", Gender: GenderFemale}); err != nil {
		t.Fatalf("start: %v", err)
	}
}

func TestFiveQuestionScenario(t *testing.T) {
	rec := &fakeRecorder{}
	ev := &fakeEvents{}
	s := newTestSession(t, Options{Recorder: rec, Events: ev})
	mustStart(t, s)
	ctx := context.Background()

	// Right, right, wrong, skipped, right.
	picks := []string{"a", "b", "a", NoAnswer, "b"}
	for i, p := range picks {
		if p != NoAnswer {
			if err := s.SelectAnswer(p); err != nil {
				t.Fatalf("select %d: %v", i, err)
			}
		}
		phase, err := s.Advance(ctx)
		if err != nil {
			t.Fatalf("advance %d: %v", i, err)
		}
		want := PhaseInProgress
		if i == len(picks)-1 {
			want = PhaseCompleted
		}
		if phase != want {
			t.Fatalf("after question %d phase = %v, want %v", i+1, phase, want)
		}
	}

	got, ok := s.Record()
	if !ok {
		t.Fatal("expected a record after completion")
	}
	want := results.Record{Name: "Ana", Gender: "Female", Grade: "Grade 3", Score: 3}
	if got != want {
		t.Errorf("record = %+v, want %+v", got, want)
	}
	if len(rec.records) != 1 || rec.records[0] != want {
		t.Errorf("recorded = %+v", rec.records)
	}

	actions := ev.actions()
	if len(actions) != 2 || actions[0] != store.ActionStart || actions[1] != store.ActionComplete {
		t.Errorf("events = %v", actions)
	}
	if ev.events[1].Score != 3 || ev.events[1].Total != 5 {
		t.Errorf("complete event = %+v", ev.events[1])
	}

	if state := s.State(); state.Answers[3] != NoAnswer {
		t.Errorf("skipped answer = %q, want NoAnswer", state.Answers[3])
	}
}

func TestStartValidation(t *testing.T) {
	s := newTestSession(t, Options{})

	err := s.Start(Profile{Name: "   "})
	var ve *ValidationError
	if !errors.As(err, &ve) || ve.Field != "name" {
		t.Fatalf("expected name validation error, got %v", err)
	}
	if s.Phase() != PhaseIntake {
		t.Errorf("phase = %v, want intake", s.Phase())
	}

	if err := s.Start(Profile{Name: "  Ben ", Gender: "robot"}); err != nil {
		t.Fatalf("start: %v", err)
	}
	st := s.State()
	if st.Profile.Name != "Ben" || st.Profile.Gender != GenderUnspecified {
		t.Errorf("profile = %+v", st.Profile)
	}
	if st.CurrentIndex != 0 || len(st.Answers) != 0 {
		t.Errorf("state = %+v", st)
	}
}

func TestStartResetsPreviousAttempt(t *testing.T) {
	ev := &fakeEvents{}
	s := newTestSession(t, Options{Events: ev})
	mustStart(t, s)
	firstID := s.ID()

	s.SelectAnswer("a")
	s.Advance(context.Background())

	mustStart(t, s)
	if s.ID() == firstID {
		t.Error("expected a new session id")
	}
	if st := s.State(); st.CurrentIndex != 0 || len(st.Answers) != 0 {
		t.Errorf("state not reset: %+v", st)
	}
	want := []string{store.ActionStart, store.ActionAbandon, store.ActionStart}
	got := ev.actions()
	if len(got) != len(want) {
		t.Fatalf("events = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("events = %v, want %v", got, want)
		}
	}
}

func TestSelectAnswerIdempotent(t *testing.T) {
	s := newTestSession(t, Options{})
	mustStart(t, s)

	for i := 0; i < 3; i++ {
		if err := s.SelectAnswer("b"); err != nil {
			t.Fatalf("select: %v", err)
		}
	}
	if got := s.State().Answers[0]; got != "b" {
		t.Fatalf("answer = %q, want b", got)
	}

	if err := s.SelectAnswer("c"); err != nil {
		t.Fatalf("reselect: %v", err)
	}
	if got := s.State().Answers[0]; got != "c" {
		t.Errorf("answer = %q, want c", got)
	}
}

func TestSelectAnswerRefusals(t *testing.T) {
	s := newTestSession(t, Options{})
	if err := s.SelectAnswer("a"); !errors.Is(err, ErrNotInProgress) {
		t.Errorf("before start: %v", err)
	}

	mustStart(t, s)
	if err := s.SelectAnswer("z"); !errors.Is(err, ErrUnknownChoice) {
		t.Errorf("unknown choice: %v", err)
	}
	if _, ok := s.State().Answers[0]; ok {
		t.Error("refused selection was stored")
	}
}

func TestAnswersSurviveNavigation(t *testing.T) {
	s := newTestSession(t, Options{})
	mustStart(t, s)
	ctx := context.Background()

	s.SelectAnswer("c")
	s.Advance(ctx)
	s.SelectAnswer("a")
	s.Advance(ctx)

	if phase := s.Retreat(); phase != PhaseInProgress {
		t.Fatalf("retreat phase = %v", phase)
	}
	v, _ := s.CurrentQuestionView()
	if v.Number != 2 || v.Selected != "a" {
		t.Errorf("view = %+v, want question 2 with a selected", v)
	}

	s.Retreat()
	v, _ = s.CurrentQuestionView()
	if v.Number != 1 || v.Selected != "c" {
		t.Errorf("view = %+v, want question 1 with c selected", v)
	}
}

func TestRetreatAtFirstReturnsToIntake(t *testing.T) {
	ev := &fakeEvents{}
	s := newTestSession(t, Options{Events: ev})
	mustStart(t, s)
	s.SelectAnswer("a")

	if phase := s.Retreat(); phase != PhaseIntake {
		t.Fatalf("phase = %v, want intake", phase)
	}
	if st := s.State(); len(st.Answers) != 0 || st.Profile.Name != "" {
		t.Errorf("session data not discarded: %+v", st)
	}
	if _, err := s.CurrentQuestionView(); !errors.Is(err, ErrNotInProgress) {
		t.Errorf("view after intake: %v", err)
	}
	if got := ev.actions(); len(got) != 2 || got[1] != store.ActionAbandon {
		t.Errorf("events = %v", got)
	}

	// Retreat outside a quiz is a no-op.
	if phase := s.Retreat(); phase != PhaseIntake {
		t.Errorf("second retreat phase = %v", phase)
	}
}

func TestAdvanceAfterCompletion(t *testing.T) {
	s := newTestSession(t, Options{})
	mustStart(t, s)
	ctx := context.Background()
	for i := 0; i < s.Total(); i++ {
		if _, err := s.Advance(ctx); err != nil {
			t.Fatalf("advance: %v", err)
		}
	}
	rec, _ := s.Record()
	if rec.Score != 0 {
		t.Errorf("score with no answers = %d", rec.Score)
	}

	if phase, err := s.Advance(ctx); phase != PhaseCompleted || !errors.Is(err, ErrNotInProgress) {
		t.Errorf("advance after completion = %v, %v", phase, err)
	}
}

func TestScoreBounds(t *testing.T) {
	for seed := uint64(0); seed < 20; seed++ {
		s := newTestSession(t, Options{Shuffler: NewShuffler(rand.NewPCG(seed, seed))})
		mustStart(t, s)
		pick := rand.New(rand.NewPCG(seed, 99))
		ctx := context.Background()
		for i := 0; i < s.Total(); i++ {
			v, err := s.CurrentQuestionView()
			if err != nil {
				t.Fatalf("view: %v", err)
			}
			if n := pick.IntN(len(v.Choices) + 1); n < len(v.Choices) {
				s.SelectAnswer(v.Choices[n])
			}
			s.Advance(ctx)
		}
		rec, ok := s.Record()
		if !ok {
			t.Fatalf("seed %d: not completed", seed)
		}
		if rec.Score < 0 || rec.Score > s.Total() {
			t.Errorf("seed %d: score %d out of [0, %d]", seed, rec.Score, s.Total())
		}
	}
}

func TestShuffleKeepsSelection(t *testing.T) {
	s := newTestSession(t, Options{Shuffler: NewShuffler(rand.NewPCG(7, 7))})
	mustStart(t, s)
	s.SelectAnswer("b")

	for i := 0; i < 25; i++ {
		v, err := s.CurrentQuestionView()
		if err != nil {
			t.Fatalf("view: %v", err)
		}
		if v.Selected != "b" {
			t.Fatalf("selected = %q", v.Selected)
		}
		if v.SelectedIndex < 0 || v.Choices[v.SelectedIndex] != "b" {
			t.Fatalf("render %d: index %d points at %v", i, v.SelectedIndex, v.Choices)
		}
		if len(v.Choices) != 3 {
			t.Fatalf("choices = %v", v.Choices)
		}
	}
}

func TestQuestionViewFields(t *testing.T) {
	s := newTestSession(t, Options{})
	mustStart(t, s)
	ctx := context.Background()

	v, _ := s.CurrentQuestionView()
	if v.Number != 1 || v.Total != 5 || v.IsLast || v.SelectedIndex != -1 {
		t.Errorf("first view = %+v", v)
	}
	for i := 0; i < 4; i++ {
		s.Advance(ctx)
	}
	v, _ = s.CurrentQuestionView()
	if !v.IsLast || v.Image != "q5.png" || v.Prompt != "Q5" {
		t.Errorf("last view = %+v", v)
	}
}

func TestDigestFailurePropagates(t *testing.T) {
	b, _ := loadBank(t, fiveQuestions)
	boom := errors.New("digest backend down")
	broken := digest.Func{Name: digest.SHA256, Fn: func(context.Context, string) (string, error) {
		return "", boom
	}}
	rec := &fakeRecorder{}
	s, err := NewSession(b, broken, Options{Recorder: rec})
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	mustStart(t, s)
	ctx := context.Background()
	for i := 0; i < 4; i++ {
		s.SelectAnswer("a")
		s.Advance(ctx)
	}
	s.SelectAnswer("a")

	phase, err := s.Advance(ctx)
	if err != boom {
		t.Fatalf("err = %v, want %v", err, boom)
	}
	if phase != PhaseInProgress {
		t.Errorf("phase = %v, want in-progress", phase)
	}
	if len(rec.records) != 0 {
		t.Error("record appended despite digest failure")
	}
}

func TestRecorderFailureKeepsSession(t *testing.T) {
	rec := &fakeRecorder{err: errors.New("disk full")}
	s := newTestSession(t, Options{Recorder: rec})
	mustStart(t, s)
	ctx := context.Background()
	for i := 0; i < 4; i++ {
		s.Advance(ctx)
	}
	if _, err := s.Advance(ctx); err == nil {
		t.Fatal("expected recorder error")
	}
	if s.Phase() != PhaseInProgress {
		t.Errorf("phase = %v", s.Phase())
	}

	rec.err = nil
	if phase, err := s.Advance(ctx); err != nil || phase != PhaseCompleted {
		t.Fatalf("retry = %v, %v", phase, err)
	}
}

func TestMissingDigestRefusesStart(t *testing.T) {
	b, d := loadBank(t, fiveQuestions)
	b.Questions[2].AnswerDigest = ""
	s, err := NewSession(b, d, Options{})
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	if err := s.Start(Profile{Name: "Ana"}); !errors.Is(err, ErrDigestUnavailable) {
		t.Fatalf("expected ErrDigestUnavailable, got %v", err)
	}
	if s.Phase() != PhaseIntake {
		t.Errorf("phase = %v", s.Phase())
	}
}

func TestNewSessionErrors(t *testing.T) {
	b, _ := loadBank(t, fiveQuestions)
	other, _ := digest.New(digest.BLAKE2b256)
	if _, err := NewSession(b, other, Options{}); !errors.Is(err, ErrAlgorithmMismatch) {
		t.Errorf("mismatch: %v", err)
	}
	d, _ := digest.New(digest.SHA256)
	if _, err := NewSession(&bank.Bank{ID: "empty"}, d, Options{}); !errors.Is(err, ErrEmptyBank) {
		t.Errorf("empty: %v", err)
	}
}

func TestGradeOverride(t *testing.T) {
	s := newTestSession(t, Options{Grade: "Grade 4"})
	if s.Grade() != "Grade 4" {
		t.Errorf("grade = %q", s.Grade())
	}
}
