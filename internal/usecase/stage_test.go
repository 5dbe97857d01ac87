package usecase

import (
	"strings"
	"testing"

	"github.com/yourusername/shopping-assistant/internal/domain/entity"
)

func TestAdvanceStage_AcceptsDeclaredStage(t *testing.T) {
	got := AdvanceStage(entity.StageGreeting, "needs_assessment")
	if got != entity.StageNeedsAssessment {
		t.Fatalf("AdvanceStage() = %q, want %q", got, entity.StageNeedsAssessment)
	}
}

func TestAdvanceStage_KeepsCurrentOnUnknown(t *testing.T) {
	got := AdvanceStage(entity.StageRecommendation, "small_talk")
	if got != entity.StageRecommendation {
		t.Fatalf("AdvanceStage() = %q, want %q", got, entity.StageRecommendation)
	}
}

func TestAdvanceStage_KeepsCurrentOnEmpty(t *testing.T) {
	got := AdvanceStage(entity.StageComparison, "")
	if got != entity.StageComparison {
		t.Fatalf("AdvanceStage() = %q, want %q", got, entity.StageComparison)
	}
}

func TestAdvanceStage_BackwardTransitionAllowed(t *testing.T) {
	got := AdvanceStage(entity.StageCheckout, "needs_assessment")
	if got != entity.StageNeedsAssessment {
		t.Fatalf("AdvanceStage() = %q, want %q", got, entity.StageNeedsAssessment)
	}
}

func TestStageInstruction_NeedsAssessmentPlaceholders(t *testing.T) {
	p := entity.NewShopperProfile()
	p.Stage = entity.StageNeedsAssessment

	instr := StageInstruction(p)
	if count := strings.Count(instr, notSpecified); count != 4 {
		t.Fatalf("instruction contains %d %q placeholders, want 4:\n%s", count, notSpecified, instr)
	}
}

func TestStageInstruction_NeedsAssessmentFilled(t *testing.T) {
	p := entity.NewShopperProfile()
	p.Stage = entity.StageNeedsAssessment
	p.Budget = "under €400"
	p.UsageType = entity.UsageHeavy
	p.BrandPreference = "Samsung"
	p.AddFeature(entity.FeatureCamera)
	p.AddFeature(entity.FeatureBattery)

	instr := StageInstruction(p)
	for _, want := range []string{"under €400", "heavy", "Samsung", "camera, battery"} {
		if !strings.Contains(instr, want) {
			t.Fatalf("instruction missing %q:\n%s", want, instr)
		}
	}
	if strings.Contains(instr, notSpecified) {
		t.Fatalf("instruction still contains %q:\n%s", notSpecified, instr)
	}
}

func TestStageInstruction_EveryStageNonEmpty(t *testing.T) {
	stages := []entity.Stage{
		entity.StageGreeting,
		entity.StageNeedsAssessment,
		entity.StageRecommendation,
		entity.StageComparison,
		entity.StageCheckout,
	}
	for _, stage := range stages {
		p := entity.NewShopperProfile()
		p.Stage = stage
		if StageInstruction(p) == "" {
			t.Fatalf("empty instruction for stage %q", stage)
		}
	}
}
