package services

import (
	"context"
	"io"

	"github.com/google/generative-ai-go/genai"
)

// GenerativeModel is the slice of *genai.GenerativeModel the services
// depend on, kept narrow so tests can fake the remote model.
type GenerativeModel interface {
	GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

// IngredientAnalyzer submits a normalized label image for a quality
// rating. Implementations make a single attempt; retry is the
// caller's decision.
type IngredientAnalyzer interface {
	AnalyzeIngredients(ctx context.Context, image []byte, format string) (*AnalysisResult, error)
}

// ImageNormalizer bounds an encoded image's dimensions and re-encodes
// it before transmission.
type ImageNormalizer interface {
	Normalize(data []byte) ([]byte, error)
}

// CloudStorageManager stores cat pictures and archived scan images.
type CloudStorageManager interface {
	UploadPublic(ctx context.Context, objectName, contentType string, content io.Reader) (string, error)
	Download(ctx context.Context, objectName string) ([]byte, error)
	Delete(ctx context.Context, objectName string) error
}

// EventPublisher pushes realtime updates toward connected clients.
// Satisfied by broker.Broker.
type EventPublisher interface {
	Publish(topic string, msg interface{})
}
