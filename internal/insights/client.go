/*
 * Copyright 2025 The supermart-insights Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *    https://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package insights turns a computed analysis into a short written
// narrative using the Gemini API. The rest of the tool works without an
// API key; this layer is strictly additive.
package insights

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/option"
	"google.golang.org/grpc/status"
)

// LLMClient defines the interface for generating analysis narratives.
type LLMClient interface {
	// GenerateNarrative writes a short conclusions section for an analysis.
	// analysisContext is the rendered analysis; businessContext is optional
	// extra background supplied by the user.
	GenerateNarrative(ctx context.Context, analysisContext, businessContext string) (string, error)

	// IsAPIKeyValid checks if the configured API key is functional.
	IsAPIKeyValid(ctx context.Context) error

	// Close cleans up any resources used by the client.
	Close() error
}

// Config holds configuration for the insights client.
type Config struct {
	APIKey string
	Model  string
}

// geminiClient implements LLMClient using the Google Gemini API.
type geminiClient struct {
	client *genai.Client
	cfg    Config
	log    *zap.SugaredLogger
}

// NewClient creates a new Gemini-backed insights client.
func NewClient(ctx context.Context, cfg Config, log *zap.SugaredLogger) (LLMClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("cannot create Gemini client: API key is missing")
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	if cfg.Model == "" {
		cfg.Model = "gemini-1.5-flash-latest"
		log.Infof("Gemini model not specified, defaulting to %s", cfg.Model)
	}

	return &geminiClient{client: client, cfg: cfg, log: log}, nil
}

// Close cleans up the underlying Gemini client.
func (c *geminiClient) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// IsAPIKeyValid checks if the Gemini API key is valid by listing models.
func (c *geminiClient) IsAPIKeyValid(ctx context.Context) error {
	if c.client == nil {
		return fmt.Errorf("gemini client not initialized (likely missing API key)")
	}

	modelIterator := c.client.ListModels(ctx)
	_, err := modelIterator.Next()
	if err != nil {
		if st, ok := status.FromError(err); ok {
			if st.Code() == 16 /* UNAUTHENTICATED */ || st.Code() == 7 /* PERMISSION_DENIED */ {
				return fmt.Errorf("invalid Gemini API key or insufficient permissions: %w", err)
			}
		}
		return fmt.Errorf("failed to verify Gemini API key by listing models: %w", err)
	}
	return nil
}

// GenerateNarrative asks the model for a conclusions section grounded ONLY
// in the supplied analysis.
func (c *geminiClient) GenerateNarrative(ctx context.Context, analysisContext, businessContext string) (string, error) {
	if c.client == nil {
		return "", fmt.Errorf("gemini client not initialized")
	}
	if analysisContext == "" {
		return "", nil
	}

	contextSection := ""
	if businessContext != "" {
		contextSection = fmt.Sprintf(`
	********** Business Context **********
	%s
	********** End Business Context **********
	`, businessContext)
	}

	prompt := fmt.Sprintf(`
	You are a retail analyst. Your task is to write a short conclusions section for a supermarket sales report, based ONLY on the analysis below.

	********** Analysis **********
	%s
	********** End Analysis **********
	%s
	**Instructions:**
	1. Analyze the figures carefully: totals, margin, profit by category and region, and the discount trend.
	2. Write 3 to 5 bullet points with the most important findings. Each bullet is one sentence. Mention concrete figures from the analysis.
	3. If the discount trend slope is negative, point out that higher discounts are associated with lower profit; if positive, the opposite; if the trend is missing, do not mention discounts.
	4. Do NOT invent numbers or use outside knowledge. Output ONLY the bullet points within <result></result> tags.

	Begin analysis and provide the conclusions:
	`, analysisContext, contextSection)

	model := c.client.GenerativeModel(c.cfg.Model)
	model.SetTemperature(0.3)
	model.SetMaxOutputTokens(400)
	model.SetTopP(0.9)
	model.SetTopK(40)

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("Gemini API call failed: %w", err)
	}

	narrative, err := extractTextBetweenTags(resp, "<result>", "</result>")
	if err != nil {
		c.log.Warnf("Could not extract narrative from Gemini response: %v", err)
		return "", nil
	}

	c.log.Infof("Generated narrative using model %s.", c.cfg.Model)
	return narrative, nil
}

// getFirstTextPart extracts the first text part from a Gemini response.
func getFirstTextPart(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		finishReason := "unknown"
		if resp != nil && len(resp.Candidates) > 0 {
			finishReason = resp.Candidates[0].FinishReason.String()
		}
		return "", fmt.Errorf("empty or incomplete response from Gemini API. FinishReason: %s", finishReason)
	}
	part := resp.Candidates[0].Content.Parts[0]
	text, ok := part.(genai.Text)
	if !ok {
		return "", fmt.Errorf("unexpected response part type: %T", part)
	}
	return string(text), nil
}

// extractTextBetweenTags extracts text between the first occurrence of startTag and endTag.
func extractTextBetweenTags(resp *genai.GenerateContentResponse, startTag, endTag string) (string, error) {
	fullText, err := getFirstTextPart(resp)
	if err != nil {
		return "", fmt.Errorf("failed to get text part: %w", err)
	}

	content, found := extractContentBetween(fullText, startTag, endTag)
	if !found {
		return "", fmt.Errorf("tags '%s' and '%s' not found in response", startTag, endTag)
	}
	return content, nil
}

// extractContentBetween extracts content between start and end tags from a string.
func extractContentBetween(text, startTag, endTag string) (string, bool) {
	startIndex := strings.Index(text, startTag)
	if startIndex == -1 {
		return "", false
	}
	startIndex += len(startTag)
	endIndex := strings.Index(text[startIndex:], endTag)
	if endIndex == -1 {
		return "", false
	}
	return strings.TrimSpace(text[startIndex : startIndex+endIndex]), true
}
