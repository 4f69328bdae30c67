package bank

// FormatVersion is the bank file format this build writes. Files declaring any
// v1.x format are accepted.
const FormatVersion = "v1.0.0"

// RawQuestion is one question as authored in a bank file. Answer holds the
// plaintext correct choice and is only read while a Bank is being loaded.
type RawQuestion struct {
	Prompt  string   `json:"question" yaml:"question"`
	Choices []string `json:"choices" yaml:"choices"`
	Answer  string   `json:"answer" yaml:"answer"`
	Image   string   `json:"image,omitempty" yaml:"image,omitempty"`
}

// Definition is the parsed form of a bank file.
type Definition struct {
	Format    string        `json:"format" yaml:"format"`
	ID        string        `json:"id" yaml:"id"`
	Title     string        `json:"title" yaml:"title"`
	Grade     string        `json:"grade,omitempty" yaml:"grade,omitempty"`
	Questions []RawQuestion `json:"questions" yaml:"questions"`
}

// Question is a loaded question. It carries the digest of the correct answer
// and never the answer itself.
type Question struct {
	Prompt       string
	Choices      []string
	AnswerDigest string
	Image        string
}

// HasChoice reports whether text is one of the question's choices.
func (q Question) HasChoice(text string) bool {
	for _, c := range q.Choices {
		if c == text {
			return true
		}
	}
	return false
}

// Bank is an ordered, digest-only question bank ready for a quiz session.
type Bank struct {
	ID        string
	Title     string
	Grade     string
	Algorithm string
	Questions []Question
}

// Len returns the number of questions.
func (b *Bank) Len() int {
	return len(b.Questions)
}

// Info summarises a bank without exposing its questions.
type Info struct {
	ID            string
	Title         string
	Grade         string
	QuestionCount int
	Source        string // "builtin" or the file path
}
