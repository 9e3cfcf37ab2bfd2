package synthesis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"vidquiz/internal/config"
	"vidquiz/internal/domain"
	"vidquiz/internal/logger"

	"github.com/tmc/langchaingo/llms"
	"go.uber.org/zap"
)

// quizPrompt embeds the exact structural requirements. The model must echo
// the option text verbatim in "answer"; labels like "Option A" are rejected
// downstream.
const quizPrompt = `You are a quiz generator. Create a quiz from the transcript below.

The quiz must follow this exact structure:

{
  "title": "Create a concise quiz title based on the topic of the transcript.",
  "description": "Summarize the transcript in no more than 150 characters. Do not include any quiz questions or answers.",
  "questions": [
    {
      "question_title": "The question goes here.",
      "question_options": ["Option A", "Option B", "Option C", "Option D"],
      "answer": "The correct answer, repeated verbatim from question_options"
    }
  ]
}

Requirements:
- exactly 10 questions
- Each question must have exactly 4 distinct answer options.
- Only one correct answer is allowed per question, and "answer" must be exactly equal to one of the options.
- The output must be valid JSON.
- No explanations, no prose, no code fences.

Transcript:
`

// LLMSynthesizer sends transcripts to a generative model and defensively
// parses its response into an untrusted RawQuiz.
type LLMSynthesizer struct {
	llm llms.Model
	cfg config.LLMConfig
}

func NewLLMSynthesizer(llm llms.Model, cfg config.LLMConfig) *LLMSynthesizer {
	return &LLMSynthesizer{llm: llm, cfg: cfg}
}

var _ domain.QuizSynthesizer = (*LLMSynthesizer)(nil)

// Synthesize returns the parsed quiz or one of three distinct failures:
// SYNTHESIS_NETWORK for transport errors and timeouts (transient),
// SYNTHESIS_MALFORMED_JSON when the normalized response does not parse, and
// SYNTHESIS_SCHEMA when it parses but has the wrong field types or is
// missing required fields. Counting and membership rules are left to the
// structural validator.
func (s *LLMSynthesizer) Synthesize(ctx context.Context, transcript string) (*domain.RawQuiz, error) {
	callCtx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	response, err := llms.GenerateFromSinglePrompt(callCtx, s.llm, quizPrompt+transcript,
		llms.WithTemperature(s.cfg.Temperature),
	)
	if err != nil {
		return nil, domain.NewSynthesisNetworkError(err)
	}

	normalized := normalize(response)

	var raw domain.RawQuiz
	if err := json.Unmarshal([]byte(normalized), &raw); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return nil, domain.NewSynthesisSchemaError(
				fmt.Sprintf("field %q has type %s", typeErr.Field, typeErr.Value), err)
		}
		logger.Get().Warn("generative model returned unparseable response",
			zap.Int("response_length", len(response)), zap.Error(err))
		return nil, domain.NewSynthesisMalformedJSONError(err)
	}

	if raw.Questions == nil {
		return nil, domain.NewSynthesisSchemaError("questions field is missing", nil)
	}

	return &raw, nil
}

// normalize strips the wrapping the model is told not to produce but
// sometimes produces anyway: surrounding whitespace, newlines, and markdown
// code fences.
func normalize(response string) string {
	out := strings.TrimSpace(response)
	out = strings.TrimPrefix(out, "```json")
	out = strings.TrimPrefix(out, "```")
	out = strings.TrimSuffix(out, "```")
	return strings.TrimSpace(out)
}
