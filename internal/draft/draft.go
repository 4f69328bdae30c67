// Package draft asks a language model for a new question bank and checks the
// result against the bank file rules before anything is written.
package draft

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/abhisek/quizbook/internal/bank"
	"github.com/abhisek/quizbook/internal/config"
	"github.com/abhisek/quizbook/internal/llm"
)

// MaxQuestions bounds a single draft.
const MaxQuestions = 30

// ErrInvalidRequest is returned for a draft request missing a topic or with
// an out-of-range count.
var ErrInvalidRequest = errors.New("invalid draft request")

// Request describes the bank to draft.
type Request struct {
	Topic string
	Grade string // optional label such as "Grade 5"
	Count int
	ID    string   // optional; derived from grade and topic when empty
	Avoid []string // existing question prompts not to repeat
}

// Service drafts banks with an LLM provider.
type Service struct {
	provider  llm.Provider
	maxTokens int
}

// NewService returns a Service using provider.
func NewService(provider llm.Provider) *Service {
	return &Service{provider: provider, maxTokens: 4096}
}

// Draft generates a bank definition and its encoded file contents. The
// returned bytes have already passed bank.Parse.
func (s *Service) Draft(ctx context.Context, req Request) (*bank.Definition, []byte, error) {
	req.Topic = strings.TrimSpace(req.Topic)
	if req.Topic == "" {
		return nil, nil, fmt.Errorf("%w: topic is required", ErrInvalidRequest)
	}
	if req.Count < 1 || req.Count > MaxQuestions {
		return nil, nil, fmt.Errorf("%w: count must be between 1 and %d", ErrInvalidRequest, MaxQuestions)
	}
	if req.ID == "" {
		req.ID = Slug(req.Grade, req.Topic)
	}

	log := config.WithContext(config.WithBank(ctx, req.ID)).WithFields(logrus.Fields{
		"topic":    req.Topic,
		"count":    req.Count,
		"provider": s.provider.Name(),
	})
	log.Info("drafting question bank")

	resp, err := s.provider.Generate(llm.WithPurpose(ctx, "draft"), llm.Request{
		System:    systemPrompt,
		Messages:  []llm.Message{{Role: llm.RoleUser, Content: buildUserMessage(req)}},
		Schema:    BankSchema,
		MaxTokens: s.maxTokens,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("generate bank: %w", err)
	}

	var out output
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return nil, nil, fmt.Errorf("decode draft: %w", err)
	}

	def := &bank.Definition{
		Format: bank.FormatVersion,
		ID:     req.ID,
		Title:  strings.TrimSpace(out.Title),
		Grade:  req.Grade,
	}
	if def.Title == "" {
		def.Title = req.Topic
	}
	for _, q := range out.Questions {
		def.Questions = append(def.Questions, bank.RawQuestion{
			Prompt:  strings.TrimSpace(q.Question),
			Choices: trimAll(q.Choices),
			Answer:  strings.TrimSpace(q.Answer),
		})
	}
	if len(def.Questions) != req.Count {
		log.WithField("got", len(def.Questions)).Warn("model returned a different number of questions")
	}

	data, err := bank.Marshal(def)
	if err != nil {
		return nil, nil, fmt.Errorf("encode draft: %w", err)
	}
	parsed, err := bank.Parse(data, def.ID+".json")
	if err != nil {
		return nil, nil, fmt.Errorf("draft rejected: %w", err)
	}

	log.WithField("questions", len(parsed.Questions)).Info("question bank drafted")
	return parsed, data, nil
}

func trimAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		out = append(out, strings.TrimSpace(s))
	}
	return out
}

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// Slug builds a bank id such as "grade5-fractions" from a grade label and a
// topic.
func Slug(grade, topic string) string {
	g := strings.ToLower(strings.ReplaceAll(grade, " ", ""))
	parts := []string{}
	if g != "" {
		parts = append(parts, g)
	}
	parts = append(parts, strings.ToLower(topic))
	s := nonSlug.ReplaceAllString(strings.Join(parts, "-"), "-")
	s = strings.Trim(s, "-")
	if s == "" {
		return "draft"
	}
	return s
}
