package entity

// Stage is a named phase of the guided recommendation dialogue.
type Stage string

const (
	StageGreeting        Stage = "greeting"
	StageNeedsAssessment Stage = "needs_assessment"
	StageRecommendation  Stage = "recommendation"
	StageComparison      Stage = "comparison"
	StageCheckout        Stage = "checkout"
)

// ParseStage validates a stage value declared by the AI. Unrecognized
// values are rejected so the conversation never jumps to an unknown phase.
func ParseStage(s string) (Stage, bool) {
	switch Stage(s) {
	case StageGreeting, StageNeedsAssessment, StageRecommendation, StageComparison, StageCheckout:
		return Stage(s), true
	}
	return "", false
}

// UsageType describes how intensively the shopper uses their phone.
type UsageType string

const (
	UsageHeavy    UsageType = "heavy"
	UsageModerate UsageType = "moderate"
	UsageLight    UsageType = "light"
)

// Feature is a device capability the shopper cares about.
type Feature string

const (
	FeatureCamera       Feature = "camera"
	FeatureBattery      Feature = "battery"
	FeatureGaming       Feature = "gaming"
	FeatureStorage      Feature = "storage"
	FeatureConnectivity Feature = "connectivity"
)

// ShopperProfile accumulates preferences inferred for one session.
// Fields are filled in incrementally as the conversation progresses;
// a set value is only ever replaced by a newly detected one, never
// cleared implicitly.
type ShopperProfile struct {
	Budget             string    `json:"budget,omitempty"` // e.g. "under €400"
	UsageType          UsageType `json:"usage_type,omitempty"`
	BrandPreference    string    `json:"brand_preference,omitempty"`
	ImportantFeatures  []Feature `json:"important_features,omitempty"`
	Stage              Stage     `json:"conversation_stage"`
	RecommendedDevices []string  `json:"recommended_devices,omitempty"`
	SelectedDevice     string    `json:"selected_device,omitempty"`
	SelectedPlan       string    `json:"selected_plan,omitempty"`
}

// NewShopperProfile returns an empty profile at the greeting stage.
func NewShopperProfile() *ShopperProfile {
	return &ShopperProfile{Stage: StageGreeting}
}

// HasFeature reports whether the feature is already recorded.
func (p *ShopperProfile) HasFeature(f Feature) bool {
	for _, have := range p.ImportantFeatures {
		if have == f {
			return true
		}
	}
	return false
}

// AddFeature records a feature the shopper cares about. Duplicates are
// suppressed, so the call is idempotent.
func (p *ShopperProfile) AddFeature(f Feature) {
	if !p.HasFeature(f) {
		p.ImportantFeatures = append(p.ImportantFeatures, f)
	}
}

// NoteRecommendedDevice remembers a device id that was already shown to
// the shopper.
func (p *ShopperProfile) NoteRecommendedDevice(id string) {
	if id == "" {
		return
	}
	for _, have := range p.RecommendedDevices {
		if have == id {
			return
		}
	}
	p.RecommendedDevices = append(p.RecommendedDevices, id)
}
