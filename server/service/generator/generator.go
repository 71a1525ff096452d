// Package generator drafts lesson plan content with an LLM, grounding the
// prompt in the teacher's own strongly related plans when any exist.
package generator

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/classwise/classwise/plugin/ai"
	"github.com/classwise/classwise/plugin/ai/timeout"
	"github.com/classwise/classwise/server/internal/errors"
	"github.com/classwise/classwise/server/searchengine"
)

const systemPrompt = `You are an experienced teacher's assistant. Write a practical, classroom-ready lesson plan draft in plain prose with clear sections: objectives, materials, warm-up, main activity, assessment. Keep it concise and age-appropriate.`

// Request describes the lesson draft to generate.
type Request struct {
	Topic   string
	Grade   string
	Subject string
	Notes   string
}

// Draft is a generated lesson plan draft with the documents that grounded it.
// References may be empty; generation proceeds without them.
type Draft struct {
	Content    string
	References []*searchengine.ScoredDocument
}

// Service generates lesson plan drafts.
type Service struct {
	engine   *searchengine.Engine
	planKind searchengine.ContentKind
	llm      ai.LLMService
	logger   *slog.Logger
}

// New creates a generator service. The LLM may be nil when AI is disabled;
// generation then fails with a service unavailable error.
func New(engine *searchengine.Engine, planKind searchengine.ContentKind, llm ai.LLMService, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		engine:   engine,
		planKind: planKind,
		llm:      llm,
		logger:   logger,
	}
}

// GenerateLessonDraft produces a draft for the request. Related plans are
// looked up through the recommendation path and injected into the prompt as
// references; recommendation failures degrade to an unreferenced draft, only
// LLM failures surface as errors.
func (s *Service) GenerateLessonDraft(ctx context.Context, req *Request, scope searchengine.Scope) (*Draft, error) {
	if s.llm == nil {
		return nil, errors.ServiceUnavailable("lesson generation is not configured")
	}
	if !scope.Valid() {
		return nil, errors.Unauthorized("authentication required")
	}
	topic := strings.TrimSpace(req.Topic)
	if topic == "" {
		return nil, errors.InvalidArgument("topic is required")
	}

	references := s.engine.Recommend(ctx, s.planKind, recommendText(req), scope)

	chatCtx, cancel := context.WithTimeout(ctx, timeout.ChatTimeout)
	defer cancel()
	content, err := s.llm.Chat(chatCtx, []ai.Message{
		ai.SystemPrompt(systemPrompt),
		ai.UserMessage(buildUserPrompt(req, references)),
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeServiceUnavailable, "lesson generation failed")
	}

	return &Draft{Content: content, References: references}, nil
}

func recommendText(req *Request) string {
	parts := []string{req.Topic}
	if req.Subject != "" {
		parts = append(parts, req.Subject)
	}
	if req.Grade != "" {
		parts = append(parts, req.Grade)
	}
	return strings.Join(parts, "\n")
}

func buildUserPrompt(req *Request, references []*searchengine.ScoredDocument) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Write a lesson plan draft on: %s\n", strings.TrimSpace(req.Topic))
	if req.Subject != "" {
		fmt.Fprintf(&sb, "Subject: %s\n", req.Subject)
	}
	if req.Grade != "" {
		fmt.Fprintf(&sb, "Grade level: %s\n", req.Grade)
	}
	if req.Notes != "" {
		fmt.Fprintf(&sb, "Additional instructions: %s\n", req.Notes)
	}

	if len(references) > 0 {
		sb.WriteString("\nThe teacher has written related plans before. Stay consistent with their approach:\n")
		for i, ref := range references {
			fmt.Fprintf(&sb, "%d. %s", i+1, ref.Document.Title)
			if ref.Document.Snippet != "" {
				fmt.Fprintf(&sb, ": %s", ref.Document.Snippet)
			}
			sb.WriteString("\n")
		}
	}
	return sb.String()
}
