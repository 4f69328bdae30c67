package quiz

import (
	"context"

	"github.com/abhisek/quizbook/internal/bank"
	"github.com/abhisek/quizbook/internal/digest"
)

// Score counts the answers whose digest matches the question's answer
// digest. Unanswered questions never count. A digest failure is returned
// as-is.
func Score(ctx context.Context, d digest.Digester, questions []bank.Question, answers map[int]string) (int, error) {
	score := 0
	for i, q := range questions {
		a, ok := answers[i]
		if !ok || a == NoAnswer {
			continue
		}
		sum, err := d.Digest(ctx, a)
		if err != nil {
			return 0, err
		}
		if digest.Equal(sum, q.AnswerDigest) {
			score++
		}
	}
	return score, nil
}
