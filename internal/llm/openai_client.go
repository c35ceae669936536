package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/blaisecz/habit-lab/internal/domain"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

var (
	// ErrOpenAIUnavailable indicates the OpenAI service is not configured or unavailable.
	ErrOpenAIUnavailable = errors.New("OpenAI service unavailable")
	// ErrOpenAIRequest indicates an error during the OpenAI API request.
	ErrOpenAIRequest = errors.New("OpenAI request failed")
	// ErrOpenAIResponse indicates an error parsing the OpenAI response.
	ErrOpenAIResponse = errors.New("failed to parse OpenAI response")
)

const systemPrompt = `You are a non-medical assistant narrating the outcome of a single-subject behavior experiment.

You receive the result of one experiment: a behavior the user manipulated in stages (e.g. daily leisure minutes, nightly sleep duration), the outcome it was tested against, the per-stage targets and observed inputs/outputs, the winning target value, and a confidence level in [0, 0.9].

Your goals:
- Explain in plain language which target level worked best for this user and how confident the data is.
- Describe how the outcome differed across stages, using the per-stage means and ranges.
- Note protocol adherence where relevant: restarted stages and how close inputs were to targets.
- Give practical, behavioral suggestions for keeping the winning level up.

Rules:
- Do NOT provide medical advice or diagnoses.
- Do NOT mention diseases, disorders, doctors, or treatment.
- Base every statement only on the provided numbers; if confidence is low or stages overlap heavily, say so explicitly.
- Be concise and concrete.

You must respond as strict JSON with exactly this shape:

{
  "summary": "2-3 sentences stating the winning target level, the outcome it improved, and the confidence.",
  "observations": [
    "3-6 bullet points comparing the stages: output means, spread, adherence to targets, restarts."
  ],
  "guidance": [
    "3-5 concrete, non-medical suggestions for sustaining the winning behavior level."
  ]
}

No extra fields. No comments. No backticks.`

const userPromptTemplate = `Here is JSON describing one finished experiment.

- "behavior" is the input the user manipulated; "outcome" is what it was measured against.
- "maximize" tells you whether a higher outcome mean is better (false means lower is better).
- "stage_results" holds, per targeted stage, the assigned target and the observed valid-day inputs and outputs.
- "result_value" is the winning target; "result_confidence" is in [0, 0.9], where 0.9 means the other stages barely overlap the winner.
- "restart_counts" gives how many times each stage slot was restarted for missing data.

JSON:

%s

Based on this data, respond in the required JSON format.`

// SummaryLLM is the interface for narrating experiment results using an LLM.
type SummaryLLM interface {
	// GenerateSummary takes a finished experiment's context and returns the
	// LLM-generated narration.
	GenerateSummary(ctx context.Context, summaryCtx *domain.SummaryContext) (*domain.LLMSummaryOutput, error)
}

// OpenAIClient implements SummaryLLM using the OpenAI API.
type OpenAIClient struct {
	client openai.Client
	model  string
}

// NewOpenAIClient creates a new OpenAI client for narrating experiments.
// Returns nil if apiKey is empty.
func NewOpenAIClient(apiKey, model string) *OpenAIClient {
	if apiKey == "" {
		return nil
	}

	if model == "" {
		model = "gpt-4o-mini"
	}

	client := openai.NewClient(option.WithAPIKey(apiKey))

	return &OpenAIClient{
		client: client,
		model:  model,
	}
}

// GenerateSummary calls OpenAI to narrate a finished experiment.
func (c *OpenAIClient) GenerateSummary(ctx context.Context, summaryCtx *domain.SummaryContext) (*domain.LLMSummaryOutput, error) {
	if c == nil {
		return nil, ErrOpenAIUnavailable
	}

	contextJSON, err := json.MarshalIndent(summaryCtx, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("%w: failed to serialize context: %v", ErrOpenAIRequest, err)
	}

	userPrompt := fmt.Sprintf(userPromptTemplate, string(contextJSON))

	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: c.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(userPrompt),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOpenAIRequest, err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: no choices in response", ErrOpenAIResponse)
	}

	content := resp.Choices[0].Message.Content

	var output domain.LLMSummaryOutput
	if err := json.Unmarshal([]byte(content), &output); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOpenAIResponse, err)
	}

	return &output, nil
}
