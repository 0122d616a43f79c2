package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"pawrate_go_backend/internal/services"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func textResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: &genai.Content{Parts: []genai.Part{genai.Text(text)}}},
		},
	}
}

func TestAnalyzeIngredientsScoreAndExplanation(t *testing.T) {
	model := new(MockGenerativeModel)
	model.On("GenerateContent", mock.Anything, mock.Anything).Return(textResponse("3"), nil)
	svc := services.NewAnalysisService(model, 30*time.Second)

	result, err := svc.AnalyzeIngredients(context.Background(), []byte("label"), "jpeg")

	assert.NoError(t, err)
	assert.Equal(t, 3, result.Score)
	assert.Equal(t, "Average quality with balanced nutrition.", result.Explanation)
}

func TestAnalyzeIngredientsExtractsScoreFromVerboseReply(t *testing.T) {
	model := new(MockGenerativeModel)
	model.On("GenerateContent", mock.Anything, mock.Anything).
		Return(textResponse("Based on the ingredients, the score is 4."), nil)
	svc := services.NewAnalysisService(model, 30*time.Second)

	result, err := svc.AnalyzeIngredients(context.Background(), []byte("label"), "jpeg")

	assert.NoError(t, err)
	assert.Equal(t, 4, result.Score)
	assert.Equal(t, "Above average quality with good nutritional value.", result.Explanation)
}

func TestAnalyzeIngredientsRejectsNonNumericReply(t *testing.T) {
	model := new(MockGenerativeModel)
	model.On("GenerateContent", mock.Anything, mock.Anything).
		Return(textResponse("I cannot rate this image."), nil)
	svc := services.NewAnalysisService(model, 30*time.Second)

	_, err := svc.AnalyzeIngredients(context.Background(), []byte("label"), "jpeg")

	assert.ErrorIs(t, err, services.ErrScoreParse)
}

func TestAnalyzeIngredientsRejectsOutOfRangeScore(t *testing.T) {
	model := new(MockGenerativeModel)
	model.On("GenerateContent", mock.Anything, mock.Anything).Return(textResponse("7"), nil)
	svc := services.NewAnalysisService(model, 30*time.Second)

	_, err := svc.AnalyzeIngredients(context.Background(), []byte("label"), "jpeg")

	assert.ErrorIs(t, err, services.ErrScoreParse)
}

func TestAnalyzeIngredientsWrapsModelFailure(t *testing.T) {
	model := new(MockGenerativeModel)
	model.On("GenerateContent", mock.Anything, mock.Anything).
		Return(nil, errors.New("rpc error: deadline exceeded"))
	svc := services.NewAnalysisService(model, 30*time.Second)

	_, err := svc.AnalyzeIngredients(context.Background(), []byte("label"), "jpeg")

	assert.ErrorIs(t, err, services.ErrRemoteUnavailable)
}
