package usecase

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/yourusername/shopping-assistant/internal/domain/entity"
)

// Attribute extraction is deliberately simple keyword and pattern
// matching over the lower-cased utterance, kept as ordered rule tables
// so precedence is inspectable. It is not an NLU engine: it recovers a
// bounded set of literal phrasings and leaves everything else alone.

// budgetPatterns are tried in priority order. The first pattern that
// matches anywhere in the text wins; later patterns are not tried even
// when the captured amount fails the plausibility check.
var budgetPatterns = []*regexp.Regexp{
	regexp.MustCompile(`budget.*?(\d+)`),
	regexp.MustCompile(`spend.*?(\d+)`),
	regexp.MustCompile(`around.*?(\d+)`),
	regexp.MustCompile(`under.*?(\d+)`),
	regexp.MustCompile(`€(\d+)`),
	regexp.MustCompile(`(\d+).*euro`),
}

// minPlausibleBudget filters out amounts that are clearly not a device
// price ceiling (e.g. "16GB" captured as 16).
const minPlausibleBudget = 50

// usageRules are checked in priority order: any heavy keyword beats any
// light keyword, which beats any moderate keyword.
var usageRules = []struct {
	usage    entity.UsageType
	keywords []string
}{
	{entity.UsageHeavy, []string{"heavy", "lot", "gaming", "streaming", "work"}},
	{entity.UsageLight, []string{"light", "basic", "simple", "occasional"}},
	{entity.UsageModerate, []string{"moderate", "normal", "average"}},
}

// knownBrands are matched in order; the first hit sets the preference.
var knownBrands = []string{
	"apple", "iphone", "samsung", "galaxy", "google", "pixel",
	"xiaomi", "oneplus", "nothing", "motorola", "sony",
}

// featureRules are checked independently: one utterance may add several
// feature tags.
var featureRules = []struct {
	feature  entity.Feature
	keywords []string
}{
	{entity.FeatureCamera, []string{"camera", "photo", "picture", "photography"}},
	{entity.FeatureBattery, []string{"battery", "charging", "long-lasting"}},
	{entity.FeatureGaming, []string{"gaming", "games", "performance"}},
	{entity.FeatureStorage, []string{"storage", "space", "memory"}},
	{entity.FeatureConnectivity, []string{"5g", "fast internet", "network"}},
}

// ExtractAttributes scans a single utterance and updates the profile
// with newly detected attributes. Absence of a matching pattern leaves
// the corresponding field unchanged; the function never fails on
// malformed input and is idempotent for set-valued and already-set
// scalar fields.
func ExtractAttributes(profile *entity.ShopperProfile, utterance string) {
	lower := strings.ToLower(utterance)

	extractBudget(profile, lower)
	extractUsage(profile, lower)
	extractBrand(profile, lower)
	extractFeatures(profile, lower)
}

func extractBudget(profile *entity.ShopperProfile, lower string) {
	for _, pattern := range budgetPatterns {
		match := pattern.FindStringSubmatch(lower)
		if match == nil {
			continue
		}
		budget, err := strconv.Atoi(match[1])
		if err == nil && budget > minPlausibleBudget {
			profile.Budget = "under €" + strconv.Itoa(budget)
		}
		// First match wins, plausible or not.
		return
	}
}

func extractUsage(profile *entity.ShopperProfile, lower string) {
	for _, rule := range usageRules {
		for _, keyword := range rule.keywords {
			if strings.Contains(lower, keyword) {
				profile.UsageType = rule.usage
				return
			}
		}
	}
}

func extractBrand(profile *entity.ShopperProfile, lower string) {
	for _, brand := range knownBrands {
		if strings.Contains(lower, brand) {
			profile.BrandPreference = titleCase(brand)
			return
		}
	}
}

func extractFeatures(profile *entity.ShopperProfile, lower string) {
	for _, rule := range featureRules {
		for _, keyword := range rule.keywords {
			if strings.Contains(lower, keyword) {
				profile.AddFeature(rule.feature)
				break
			}
		}
	}
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
