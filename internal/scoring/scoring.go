// Package scoring computes fit, contact, and outreach scores for enriched
// companies. Scoring is pure: it reads persisted page text and discovered
// channels, never the network.
package scoring

import (
	"fmt"
	"strings"

	"github.com/jonesrussell/leadcrawl/internal/domain"
)

// Score weighting and bounds.
const (
	fitScoreMultiplier      = 2.2
	fitWeightInOutreach     = 0.7
	contactWeightInOutreach = 0.3
	maxScore                = 100.0

	maxKeywordHitsReported = 8
)

// Contact score points.
const (
	pointsEmail         = 45.0
	pointsRoleEmail     = 15.0
	penaltyGenericEmail = 5.0
	pointsPhone         = 20.0
	pointsContactForm   = 15.0
	pointsLinkedIn      = 10.0
)

// keywordWeight pairs a fit keyword with its weight. An ordered slice keeps
// the reported hit list deterministic.
type keywordWeight struct {
	keyword string
	weight  float64
}

// fitKeywords weight manufacturing-process terms. Each keyword contributes
// once regardless of occurrence count.
var fitKeywords = []keywordWeight{
	{"cnc", 6},
	{"machining", 6},
	{"machine shop", 7},
	{"precision", 3},
	{"fabrication", 5},
	{"metal", 3},
	{"tooling", 3},
	{"assembly", 4},
	{"contract manufacturing", 6},
	{"injection molding", 6},
	{"job shop", 6},
	{"high mix", 7},
	{"low volume", 5},
	{"prototype", 4},
	{"production", 3},
	{"automation", 2},
}

// negativeKeywords penalize off-segment service businesses.
var negativeKeywords = []keywordWeight{
	{"digital marketing", -8},
	{"seo agency", -8},
	{"web design", -7},
	{"law firm", -8},
	{"real estate", -7},
	{"staffing agency", -7},
}

// roleEmailHints mark role-specific mailboxes for the contact score and
// channel choice.
var roleEmailHints = []string{"operations", "plant", "manufacturing", "engineering", "automation"}

// genericEmailPrefixes mark catch-all inboxes.
var genericEmailPrefixes = []string{"info@", "contact@", "sales@"}

// FitScore scans the lowercased page text for weighted keywords and returns
// the clamped score with the list of keywords that matched.
func FitScore(text string) (float64, []string) {
	lower := strings.ToLower(text)

	var raw float64
	var hits []string

	for _, kw := range fitKeywords {
		if strings.Contains(lower, kw.keyword) {
			raw += kw.weight
			hits = append(hits, kw.keyword)
		}
	}
	for _, kw := range negativeKeywords {
		if strings.Contains(lower, kw.keyword) {
			raw += kw.weight
		}
	}

	return clamp(raw * fitScoreMultiplier), hits
}

// ContactScore rates a company's reachability from its discovered channels.
// The second return value lists the contributing signals.
func ContactScore(company *domain.Company) (float64, string) {
	var score float64
	var reasons []string

	email := strings.ToLower(deref(company.PrimaryEmail))
	if email != "" {
		score += pointsEmail
		reasons = append(reasons, "email")
		if containsAny(email, roleEmailHints) {
			score += pointsRoleEmail
			reasons = append(reasons, "role_email")
		}
		if hasGenericPrefix(email) {
			score -= penaltyGenericEmail
		}
	}

	if deref(company.Phone) != "" {
		score += pointsPhone
		reasons = append(reasons, "phone")
	}
	if deref(company.ContactFormURL) != "" {
		score += pointsContactForm
		reasons = append(reasons, "contact_form")
	}
	if deref(company.LinkedInURL) != "" {
		score += pointsLinkedIn
		reasons = append(reasons, "linkedin")
	}

	return clamp(score), strings.Join(reasons, ", ")
}

// OutreachScore blends fit and contact into the ranking score.
func OutreachScore(fitScore, contactScore float64) float64 {
	return clamp(fitScore*fitWeightInOutreach + contactScore*contactWeightInOutreach)
}

// BestChannel selects the single outreach medium for a company, in strict
// priority order, with a fixed justification string.
func BestChannel(company *domain.Company) (string, string) {
	email := strings.ToLower(deref(company.PrimaryEmail))
	phone := deref(company.Phone)
	contactForm := deref(company.ContactFormURL)
	linkedIn := deref(company.LinkedInURL)

	switch {
	case email != "" && containsAny(email, roleEmailHints):
		return domain.ChannelEmail, "Role-specific email found"
	case email != "":
		return domain.ChannelEmail, "Email inbox found and fastest to test response"
	case phone != "" && contactForm != "":
		return domain.ChannelPhone, "Phone plus form provides fast qualification"
	case phone != "":
		return domain.ChannelPhone, "Phone available, use short qualification call"
	case contactForm != "":
		return domain.ChannelContactForm, "Only website form available"
	case linkedIn != "":
		return domain.ChannelLinkedIn, "LinkedIn is the only discovered channel"
	default:
		return domain.ChannelResearch, "No reliable outreach channel discovered"
	}
}

// ScoreCompany computes the full scoring result for one company given its
// aggregated page text.
func ScoreCompany(company *domain.Company, text string) ScoreResult {
	fitScore, hits := FitScore(text)
	contactScore, contactReason := ContactScore(company)
	outreachScore := OutreachScore(fitScore, contactScore)
	bestChannel, channelReason := BestChannel(company)

	hitSummary := "No clear manufacturing keyword hits"
	if len(hits) > 0 {
		if len(hits) > maxKeywordHitsReported {
			hits = hits[:maxKeywordHitsReported]
		}
		hitSummary = strings.Join(hits, ", ")
	}

	if contactReason != "" {
		channelReason = fmt.Sprintf("%s. Signals: %s. Keywords: %s", channelReason, contactReason, hitSummary)
	} else {
		channelReason = fmt.Sprintf("%s. Keywords: %s", channelReason, hitSummary)
	}

	return ScoreResult{
		FitScore:      fitScore,
		ContactScore:  contactScore,
		OutreachScore: outreachScore,
		BestChannel:   bestChannel,
		ChannelReason: channelReason,
	}
}

// ScoreResult holds the computed scores and channel choice for one company.
type ScoreResult struct {
	FitScore      float64
	ContactScore  float64
	OutreachScore float64
	BestChannel   string
	ChannelReason string
}

func clamp(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > maxScore {
		return maxScore
	}
	return score
}

func containsAny(text string, needles []string) bool {
	for _, needle := range needles {
		if strings.Contains(text, needle) {
			return true
		}
	}
	return false
}

func hasGenericPrefix(email string) bool {
	for _, prefix := range genericEmailPrefixes {
		if strings.HasPrefix(email, prefix) {
			return true
		}
	}
	return false
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
