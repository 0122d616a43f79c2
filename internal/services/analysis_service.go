package services

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
)

// AnalysisResult is the outcome of one ingredient analysis. Immutable
// once produced.
type AnalysisResult struct {
	Score       int    `json:"score"`
	Explanation string `json:"explanation"`
}

// The explanation shown for each score is deterministic per rating
// rather than free-form model text.
var scoreExplanations = map[int]string{
	1: "Poor nutritional quality with concerning ingredients.",
	2: "Below average quality with some nutritional concerns.",
	3: "Average quality with balanced nutrition.",
	4: "Above average quality with good nutritional value.",
	5: "Excellent quality with optimal nutritional content.",
}

const analysisPrompt = `You are an advanced cat nutrition analysis system. Analyze the ingredients list in the image and:
1. Check for quality of ingredients (meat content, fillers, artificial additives)
2. Look for potential allergens or harmful ingredients
3. Assess overall nutritional balance
4. Consider preservatives and additives
5. Rate on a scale of 1-5 (1=poor, 5=excellent)
Provide ONLY a numerical score (1-5) as your response.`

var integerToken = regexp.MustCompile(`-?\d+`)

// AnalysisService submits label images to the vision model and parses
// the bounded score reply.
type AnalysisService struct {
	model   GenerativeModel
	timeout time.Duration
}

func NewAnalysisService(model GenerativeModel, timeout time.Duration) *AnalysisService {
	return &AnalysisService{
		model:   model,
		timeout: timeout,
	}
}

func (s *AnalysisService) AnalyzeIngredients(ctx context.Context, image []byte, format string) (*AnalysisResult, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	resp, err := s.model.GenerateContent(ctx,
		genai.ImageData(format, image),
		genai.Text(analysisPrompt),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRemoteUnavailable, err)
	}

	text := responseText(resp)
	score, err := parseScore(text)
	if err != nil {
		return nil, err
	}

	return &AnalysisResult{
		Score:       score,
		Explanation: scoreExplanations[score],
	}, nil
}

// parseScore takes the first integer token of the raw response and
// rejects anything outside [1,5].
func parseScore(text string) (int, error) {
	token := integerToken.FindString(text)
	if token == "" {
		return 0, fmt.Errorf("%w: %q", ErrScoreParse, text)
	}
	score, err := strconv.Atoi(token)
	if err != nil || score < 1 || score > 5 {
		return 0, fmt.Errorf("%w: %q", ErrScoreParse, text)
	}
	return score, nil
}

// responseText joins the text parts of all candidates.
func responseText(resp *genai.GenerateContentResponse) string {
	var sb strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				sb.WriteString(string(text))
			}
		}
	}
	return sb.String()
}
