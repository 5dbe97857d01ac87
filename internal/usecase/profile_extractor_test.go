package usecase

import (
	"testing"

	"github.com/yourusername/shopping-assistant/internal/domain/entity"
)

func TestExtractAttributes_BudgetUnder(t *testing.T) {
	p := entity.NewShopperProfile()
	ExtractAttributes(p, "I want something under 300 euros")
	if p.Budget != "under €300" {
		t.Fatalf("Budget = %q, want %q", p.Budget, "under €300")
	}
}

func TestExtractAttributes_BudgetEuroSign(t *testing.T) {
	p := entity.NewShopperProfile()
	ExtractAttributes(p, "€450 max please")
	if p.Budget != "under €450" {
		t.Fatalf("Budget = %q, want %q", p.Budget, "under €450")
	}
}

func TestExtractAttributes_ImplausibleBudgetIgnored(t *testing.T) {
	p := entity.NewShopperProfile()
	ExtractAttributes(p, "under 30 would be nice")
	if p.Budget != "" {
		t.Fatalf("Budget = %q, want empty", p.Budget)
	}
}

func TestExtractAttributes_FirstPatternWinsEvenWhenImplausible(t *testing.T) {
	// "budget" matches first and captures 16; later patterns are not
	// consulted even though "€400" would have passed the check.
	p := entity.NewShopperProfile()
	ExtractAttributes(p, "my budget phone has 16GB, say €400")
	if p.Budget != "" {
		t.Fatalf("Budget = %q, want empty", p.Budget)
	}
}

func TestExtractAttributes_BudgetNotClearedOnSilentTurn(t *testing.T) {
	p := entity.NewShopperProfile()
	p.Budget = "under €400"
	ExtractAttributes(p, "tell me about the cameras")
	if p.Budget != "under €400" {
		t.Fatalf("Budget = %q, want %q", p.Budget, "under €400")
	}
}

func TestExtractAttributes_HeavyBeatsLight(t *testing.T) {
	p := entity.NewShopperProfile()
	ExtractAttributes(p, "mostly light use but some gaming on weekends")
	if p.UsageType != entity.UsageHeavy {
		t.Fatalf("UsageType = %q, want %q", p.UsageType, entity.UsageHeavy)
	}
}

func TestExtractAttributes_LightUsage(t *testing.T) {
	p := entity.NewShopperProfile()
	ExtractAttributes(p, "just basic calls and texts")
	if p.UsageType != entity.UsageLight {
		t.Fatalf("UsageType = %q, want %q", p.UsageType, entity.UsageLight)
	}
}

func TestExtractAttributes_BrandTitleCased(t *testing.T) {
	p := entity.NewShopperProfile()
	ExtractAttributes(p, "I've always had a samsung")
	if p.BrandPreference != "Samsung" {
		t.Fatalf("BrandPreference = %q, want %q", p.BrandPreference, "Samsung")
	}
}

func TestExtractAttributes_MultipleFeaturesOneUtterance(t *testing.T) {
	p := entity.NewShopperProfile()
	ExtractAttributes(p, "great camera, long battery and 5g")
	for _, f := range []entity.Feature{entity.FeatureCamera, entity.FeatureBattery, entity.FeatureConnectivity} {
		if !p.HasFeature(f) {
			t.Fatalf("missing feature %q in %v", f, p.ImportantFeatures)
		}
	}
}

func TestExtractAttributes_FeatureIdempotent(t *testing.T) {
	p := entity.NewShopperProfile()
	ExtractAttributes(p, "the camera matters")
	ExtractAttributes(p, "did I mention the camera?")
	if len(p.ImportantFeatures) != 1 {
		t.Fatalf("ImportantFeatures = %v, want a single entry", p.ImportantFeatures)
	}
}

func TestExtractAttributes_EverythingAtOnce(t *testing.T) {
	p := entity.NewShopperProfile()
	ExtractAttributes(p, "I want a pixel for gaming under 400 euro, storage matters")
	if p.Budget != "under €400" {
		t.Fatalf("Budget = %q, want %q", p.Budget, "under €400")
	}
	if p.UsageType != entity.UsageHeavy {
		t.Fatalf("UsageType = %q, want %q", p.UsageType, entity.UsageHeavy)
	}
	if p.BrandPreference != "Pixel" {
		t.Fatalf("BrandPreference = %q, want %q", p.BrandPreference, "Pixel")
	}
	if !p.HasFeature(entity.FeatureGaming) || !p.HasFeature(entity.FeatureStorage) {
		t.Fatalf("ImportantFeatures = %v, want gaming and storage", p.ImportantFeatures)
	}
}
