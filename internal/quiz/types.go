package quiz

import "strings"

// Phase is where a session is in its lifecycle.
type Phase int

const (
	PhaseIntake     Phase = iota // collecting the learner's profile
	PhaseInProgress              // answering questions
	PhaseCompleted               // scored and recorded
)

func (p Phase) String() string {
	switch p {
	case PhaseIntake:
		return "intake"
	case PhaseInProgress:
		return "in-progress"
	case PhaseCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

// Gender is the learner's self-reported gender, stored verbatim in results.
type Gender string

const (
	GenderUnspecified Gender = "Unspecified"
	GenderMale        Gender = "Male"
	GenderFemale      Gender = "Female"
)

// Genders lists the selectable values in display order.
func Genders() []Gender {
	return []Gender{GenderMale, GenderFemale, GenderUnspecified}
}

// ParseGender maps free text onto a Gender. Anything unrecognised is
// GenderUnspecified.
func ParseGender(s string) Gender {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "male", "m", "boy":
		return GenderMale
	case "female", "f", "girl":
		return GenderFemale
	default:
		return GenderUnspecified
	}
}

// Profile identifies the learner taking the quiz.
type Profile struct {
	Name   string
	Gender Gender
}

// NoAnswer is recorded for a question that was left without a selection.
const NoAnswer = ""

// SessionState is the mutable part of a quiz in progress.
type SessionState struct {
	CurrentIndex int
	// Answers maps question index to the selected choice text. A missing
	// key or NoAnswer means the question was not answered.
	Answers map[int]string
	Profile Profile
}

func (s SessionState) clone() SessionState {
	answers := make(map[int]string, len(s.Answers))
	for k, v := range s.Answers {
		answers[k] = v
	}
	s.Answers = answers
	return s
}

// QuestionView is everything a screen needs to render the current question.
type QuestionView struct {
	Number        int // 1-based
	Total         int
	Prompt        string
	Image         string
	Choices       []string // shuffled for this render
	Selected      string   // NoAnswer when nothing is selected
	SelectedIndex int      // index into Choices, or -1
	IsLast        bool
}
