package bank

import (
	"context"
	"fmt"

	"github.com/abhisek/quizbook/internal/digest"
)

// Load digests every correct answer in def and returns a Bank that holds only
// the digests. All digests are computed before Load returns, so a session
// built from the result never renders a question without one.
func Load(ctx context.Context, def *Definition, d digest.Digester) (*Bank, error) {
	b := &Bank{
		ID:        def.ID,
		Title:     def.Title,
		Grade:     def.Grade,
		Algorithm: d.Algorithm(),
		Questions: make([]Question, 0, len(def.Questions)),
	}

	for i, raw := range def.Questions {
		sum, err := d.Digest(ctx, raw.Answer)
		if err != nil {
			return nil, fmt.Errorf("digest answer %d of %s: %w", i+1, def.ID, err)
		}
		choices := make([]string, len(raw.Choices))
		copy(choices, raw.Choices)
		b.Questions = append(b.Questions, Question{
			Prompt:       raw.Prompt,
			Choices:      choices,
			AnswerDigest: sum,
			Image:        raw.Image,
		})
	}
	return b, nil
}

// Verify re-digests every authored answer in def and checks it against the
// loaded bank. It returns a *MismatchError for the first inconsistency.
func Verify(ctx context.Context, def *Definition, b *Bank, d digest.Digester) error {
	if len(def.Questions) != len(b.Questions) {
		return &MismatchError{BankID: def.ID, Question: 0, Reason: fmt.Sprintf(
			"question count %d does not match loaded count %d", len(def.Questions), len(b.Questions))}
	}
	for i, raw := range def.Questions {
		q := b.Questions[i]
		if q.AnswerDigest == "" {
			return &MismatchError{BankID: def.ID, Question: i, Reason: "missing answer digest"}
		}
		sum, err := d.Digest(ctx, raw.Answer)
		if err != nil {
			return fmt.Errorf("digest answer %d of %s: %w", i+1, def.ID, err)
		}
		if !digest.Equal(sum, q.AnswerDigest) {
			return &MismatchError{BankID: def.ID, Question: i, Reason: "answer digest mismatch"}
		}
		if !q.HasChoice(raw.Answer) {
			return &MismatchError{BankID: def.ID, Question: i, Reason: "answer is not one of the choices"}
		}
	}
	return nil
}
