package services

import (
	"context"
	"encoding/json"
	"fmt"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"

	"github.com/propworks/compliance-service/internal/models"
)

// QueryInterpreterService turns a free-text portfolio question into a
// PropertyFilter by forcing a strict function call. If client is nil the
// feature is disabled and callers fall back to plain substring search.
type QueryInterpreterService struct {
	client *openai.Client
}

// NewQueryInterpreterService creates the service. Pass an empty apiKey to
// disable interpretation.
func NewQueryInterpreterService(apiKey string) *QueryInterpreterService {
	if apiKey == "" {
		return &QueryInterpreterService{client: nil}
	}
	c := openai.NewClient(option.WithAPIKey(apiKey))
	return &QueryInterpreterService{client: &c}
}

// Enabled reports whether an API key was configured.
func (s *QueryInterpreterService) Enabled() bool {
	return s.client != nil
}

// Interpret maps a natural-language query onto the closed PropertyFilter
// vocabulary. Returns (nil, nil) when the feature is disabled; the caller
// then uses FreeText matching instead.
func (s *QueryInterpreterService) Interpret(
	ctx context.Context,
	query string,
) (*models.PropertyFilter, error) {

	if s.client == nil {
		return nil, nil
	}

	schema := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"service_types": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "string",
					"enum": []string{
						"SUPPORTED_LIVING", "GENERAL_NEEDS",
						"TEMPORARY_ACCOMMODATION", "COMMERCIAL",
					},
				},
			},
			"unit_statuses": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "string",
					"enum": []string{
						"OCCUPIED", "VOID", "MASTER", "UNAVAILABLE",
						"OUT_OF_MANAGEMENT", "STAFF_SPACE",
					},
				},
			},
			"regions": map[string]any{
				"type":  "array",
				"items": map[string]string{"type": "string"},
			},
			"provider":       map[string]string{"type": "string"},
			"attention_only": map[string]string{"type": "boolean"},
			"free_text":      map[string]string{"type": "string"},
		},
		"required": []string{
			"service_types", "unit_statuses", "regions",
			"provider", "attention_only", "free_text",
		},
		"additionalProperties": false,
	}

	fn := shared.FunctionDefinitionParam{
		Name:        "build_property_filter",
		Description: openai.String("Translate the user's portfolio question into structured filter predicates."),
		Strict:      openai.Bool(true),
		Parameters:  schema,
	}

	req := openai.ChatCompletionNewParams{
		Model: shared.ChatModelGPT4oMini,
		Messages: []openai.ChatCompletionMessageParamUnion{{
			OfUser: &openai.ChatCompletionUserMessageParam{
				Content: openai.ChatCompletionUserMessageParamContentUnion{
					OfString: openai.String(fmt.Sprintf(`Translate this housing-portfolio query into filter predicates by calling build_property_filter.

Rules:
1. Only use the enum values offered by the schema; never invent new ones.
2. attention_only = true when the query asks about overdue, expired or at-risk compliance.
3. Anything that does not map onto a structured predicate goes verbatim into free_text.
4. Leave arrays empty and strings blank when the query does not constrain them.

Query: %q`, query)),
				},
			},
		}},
		Tools: []openai.ChatCompletionToolParam{{
			Function: fn,
		}},
		ToolChoice: openai.ChatCompletionToolChoiceOptionUnionParam{
			OfChatCompletionNamedToolChoice: &openai.ChatCompletionNamedToolChoiceParam{
				Function: openai.ChatCompletionNamedToolChoiceFunctionParam{
					Name: "build_property_filter",
				},
			},
		},
	}

	resp, err := s.client.Chat.Completions.New(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("openai: %w", err)
	}
	if len(resp.Choices) == 0 || len(resp.Choices[0].Message.ToolCalls) == 0 {
		return nil, fmt.Errorf("openai: no function call returned")
	}

	var out models.PropertyFilter
	if err := json.Unmarshal(
		[]byte(resp.Choices[0].Message.ToolCalls[0].Function.Arguments),
		&out,
	); err != nil {
		return nil, fmt.Errorf("unmarshal property filter: %w", err)
	}

	return &out, nil
}
