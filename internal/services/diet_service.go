package services

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"pawrate_go_backend/internal/metrics"
	"pawrate_go_backend/internal/models"
	"pawrate_go_backend/internal/utils/planparser"

	"github.com/google/generative-ai-go/genai"
	"github.com/google/uuid"
	"github.com/jung-kurt/gofpdf"
)

// DietService generates a custom diet plan from a cat's profile,
// parses the sectioned text and overwrites the stored plan.
type DietService struct {
	model      GenerativeModel
	catService CatServiceDB
	recorder   metrics.Recorder
	timeout    time.Duration
}

func NewDietService(model GenerativeModel, catService CatServiceDB, recorder metrics.Recorder, timeout time.Duration) *DietService {
	return &DietService{
		model:      model,
		catService: catService,
		recorder:   recorder,
		timeout:    timeout,
	}
}

func buildDietPrompt(cat *models.Cat) string {
	weight := cat.Weight
	if weight == "" {
		weight = "unknown"
	}
	allergies := cat.Allergies
	if allergies == "" {
		allergies = "none"
	}
	health := cat.HealthCondition
	if health == "" {
		health = "healthy"
	}
	return fmt.Sprintf(`Create a custom daily diet plan for a cat with the following profile:
Name: %s
Breed: %s
Age: %d years
Weight: %s
Allergies: %s
Health condition: %s

Format the plan as sections. Start each section with a line beginning with "###" followed by the section title. List the section's items as lines beginning with "- ". Do not use any other formatting.`,
		cat.Name, cat.Breed, cat.Age, weight, allergies, health)
}

// GeneratePlan runs the generation pipeline for one cat and returns
// the freshly stored profile. The previous plan is replaced wholesale.
func (s *DietService) GeneratePlan(ctx context.Context, catID, userID uuid.UUID) (*models.Cat, error) {
	cat, err := s.catService.GetCatByIDFromDB(catID, userID)
	if err != nil {
		return nil, err
	}

	genCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	resp, err := s.model.GenerateContent(genCtx, genai.Text(buildDietPrompt(cat)))
	if err != nil {
		s.recorder.RecordPlanFailure("remote_unavailable")
		return nil, fmt.Errorf("%w: %v", ErrRemoteUnavailable, err)
	}

	text := responseText(resp)
	sections := planparser.Parse(text)
	if len(sections) == 0 {
		s.recorder.RecordPlanFailure("empty_plan")
		return nil, fmt.Errorf("%w: %q", ErrEmptyPlan, truncate(text, 120))
	}

	if err := s.catService.ReplaceDietPlanDB(catID, sections); err != nil {
		s.recorder.RecordPlanFailure("persistence")
		return nil, fmt.Errorf("failed to save diet plan: %w", err)
	}

	s.recorder.RecordPlanGenerated()

	// Re-fetch so the caller sees the stored plan, not the parse output.
	return s.catService.GetCatByIDFromDB(catID, userID)
}

// PlanPDF renders a cat's stored diet plan as a PDF document.
func (s *DietService) PlanPDF(cat *models.Cat) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 12, fmt.Sprintf("Diet Plan for %s", cat.Name))
	pdf.Ln(16)

	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Breed: %s    Age: %d years", cat.Breed, cat.Age))
	pdf.Ln(10)

	for _, section := range cat.DietSections {
		pdf.SetFont("Helvetica", "B", 13)
		pdf.Cell(0, 8, section.Title)
		pdf.Ln(9)
		pdf.SetFont("Helvetica", "", 11)
		for _, item := range section.Items {
			pdf.Cell(0, 6, "- "+item.Text)
			pdf.Ln(6)
		}
		pdf.Ln(4)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render diet plan PDF: %w", err)
	}
	return buf.Bytes(), nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
