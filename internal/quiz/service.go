// Package quiz turns model output into questions and grades answers against
// the answer kept in the caller's session.
package quiz

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mind-engage/railquiz/internal/ollama"
	"github.com/mind-engage/railquiz/internal/session"

	"github.com/samber/lo"
)

// AnswerKey is the session key holding the current question's answer.
const AnswerKey = "correct_answer"

var (
	ErrModelUnreachable = errors.New("could not connect to the local model")
	ErrGenerationFailed = errors.New("could not generate a question")
	ErrSessionMissing   = errors.New("no answer stored in session")
)

type Question struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
	Answer   string   `json:"answer"`
}

// PublicQuestion is what the browser sees: no answer.
type PublicQuestion struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
}

func (q Question) Public() PublicQuestion {
	return PublicQuestion{Question: q.Question, Options: q.Options}
}

type Verdict struct {
	Correct       bool   `json:"correct"`
	CorrectAnswer string `json:"correct_answer"`
}

// Generator produces raw model text; *ollama.Client satisfies it.
type Generator interface {
	Generate(ctx context.Context) (ollama.Generation, error)
}

type Service struct {
	gen Generator
	log *slog.Logger
}

func NewService(gen Generator, log *slog.Logger) *Service {
	return &Service{gen: gen, log: log}
}

// GetQuestion asks the model for a question, stores its answer in st and
// returns the question without it. st is untouched on any failure.
func (s *Service) GetQuestion(ctx context.Context, st session.State) (PublicQuestion, error) {
	s.log.Info("Generating a new question using Ollama")

	g, err := s.gen.Generate(ctx)
	if err != nil {
		if errors.Is(err, ollama.ErrUnreachable) {
			s.log.Error("Could not connect to Ollama. Make sure Ollama is running.", "err", err)
			return PublicQuestion{}, fmt.Errorf("%w: %w", ErrModelUnreachable, err)
		}
		s.log.Error("Error generating question with Ollama", "topic", g.Topic, "err", err)
		return PublicQuestion{}, fmt.Errorf("%w: %w", ErrGenerationFailed, err)
	}

	ex := Extract(s.log, g.Text)
	if ex.Failed {
		s.log.Error("Error generating question with Ollama", "topic", g.Topic, "err", ex.Reason)
		return PublicQuestion{}, fmt.Errorf("%w: %s", ErrGenerationFailed, ex.Reason)
	}
	if err := validateFields(ex.Fields); err != nil {
		s.log.Error("Invalid format from Ollama API", "topic", g.Topic, "err", err)
		return PublicQuestion{}, fmt.Errorf("%w: %w", ErrGenerationFailed, err)
	}
	q := toQuestion(ex.Fields)

	if len(q.Options) != 4 {
		s.log.Warn("Model returned an unexpected number of options", "count", len(q.Options), "question", q.Question)
	}
	if !lo.Contains(q.Options, q.Answer) {
		s.log.Warn("Model answer is not among the options", "answer", q.Answer, "question", q.Question)
	}

	if err := st.Set(ctx, AnswerKey, q.Answer); err != nil {
		s.log.Error("Error generating question with Ollama", "err", err)
		return PublicQuestion{}, fmt.Errorf("%w: %w", ErrGenerationFailed, err)
	}

	s.log.Info("Generated question", "topic", g.Topic, "question", q.Question)
	return q.Public(), nil
}

// CheckAnswer compares selected with the stored answer. The stored answer is
// left in place, so repeated checks grade against the same question.
func (s *Service) CheckAnswer(ctx context.Context, st session.State, selected string) (Verdict, error) {
	correct, ok, err := st.Get(ctx, AnswerKey)
	if err != nil {
		s.log.Error("Correct answer not found in session.", "err", err)
		return Verdict{}, fmt.Errorf("%w: %w", ErrSessionMissing, err)
	}
	if !ok || correct == "" {
		s.log.Error("Correct answer not found in session.")
		return Verdict{}, ErrSessionMissing
	}

	v := Verdict{Correct: selected == correct, CorrectAnswer: correct}
	s.log.Info("Answer checked", "selected", selected, "correct", correct, "result", v.Correct)
	return v, nil
}
