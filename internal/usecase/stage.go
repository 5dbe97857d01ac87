package usecase

import (
	"fmt"
	"strings"

	"github.com/yourusername/shopping-assistant/internal/domain/entity"
)

// The conversation moves through greeting -> needs_assessment ->
// recommendation -> comparison -> checkout. The next stage is whatever
// the AI declares in its structured reply; declaring an earlier stage
// moves the conversation back, and an unrecognized or missing value
// leaves the stage where it is. There is no implicit forward
// progression.

// AdvanceStage returns the stage to use after a turn. declared is the
// stage value recovered from the AI reply ("" when none was declared).
func AdvanceStage(current entity.Stage, declared string) entity.Stage {
	if next, ok := entity.ParseStage(declared); ok {
		return next
	}
	return current
}

const greetingInstruction = `You are an expert mobile phone shopping assistant. Your goal is to understand the customer's needs through intelligent questioning and provide personalized recommendations.

CONVERSATION STAGE: Initial Greeting & Needs Assessment

Your approach:
1. Welcome the user warmly
2. Ask ONE specific question to understand their primary need
3. Based on their response, ask follow-up questions to understand:
   - Budget range
   - Usage patterns (heavy user, moderate, light)
   - Important features (camera, gaming, battery life, etc.)
   - Brand preferences

Be conversational and friendly. Don't overwhelm with multiple questions at once.`

const needsAssessmentInstruction = `You are assessing the customer's needs. Based on the conversation, you know:
- Budget: %s
- Usage: %s
- Brand preference: %s
- Important features: %s

Ask intelligent follow-up questions to fill in missing information. Once you have enough info, move to recommendations.`

const recommendationInstruction = `You now have enough information to make smart recommendations. Provide 2-3 specific device and plan combinations that match their needs perfectly. Explain WHY each recommendation fits their requirements.`

const comparisonInstruction = `The customer is comparing options. Help them understand the differences and guide them to the best choice for their specific needs.`

const checkoutInstruction = `Guide the customer through the purchase process. Be encouraging and helpful.`

// notSpecified renders unknown profile fields explicitly so the
// generation context always has a stable shape.
const notSpecified = "Not specified"

// StageInstruction returns the stage-specific instruction template
// filled with the profile's known fields.
func StageInstruction(profile *entity.ShopperProfile) string {
	switch profile.Stage {
	case entity.StageNeedsAssessment:
		return fmt.Sprintf(needsAssessmentInstruction,
			orNotSpecified(profile.Budget),
			orNotSpecified(string(profile.UsageType)),
			orNotSpecified(profile.BrandPreference),
			orNotSpecified(joinFeatures(profile.ImportantFeatures)),
		)
	case entity.StageRecommendation:
		return recommendationInstruction
	case entity.StageComparison:
		return comparisonInstruction
	case entity.StageCheckout:
		return checkoutInstruction
	default:
		return greetingInstruction
	}
}

func orNotSpecified(value string) string {
	if strings.TrimSpace(value) == "" {
		return notSpecified
	}
	return value
}

func joinFeatures(features []entity.Feature) string {
	if len(features) == 0 {
		return ""
	}
	names := make([]string, len(features))
	for i, f := range features {
		names[i] = string(f)
	}
	return strings.Join(names, ", ")
}
