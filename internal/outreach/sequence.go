// Package outreach plans multi-step contact sequences for scored companies.
package outreach

import "github.com/jonesrussell/leadcrawl/internal/domain"

// DefaultValueProp is interpolated into message templates when no custom
// value proposition is configured.
const DefaultValueProp = "We reduce manual interventions in high-mix machine tending by combining " +
	"deterministic control with VLA-based exception recovery."

// Step is one timed touch-point in an outreach sequence.
type Step struct {
	DayOffset int
	Name      string
	Channel   string
}

// emailSequence is used when the best channel is a mailbox.
var emailSequence = []Step{
	{0, "intro_email", domain.ChannelEmail},
	{3, "followup_email_1", domain.ChannelEmail},
	{7, "call_followup", domain.ChannelPhone},
	{12, "followup_email_2", domain.ChannelEmail},
}

// phoneSequence is used when only phone (or phone plus form) is available.
var phoneSequence = []Step{
	{0, "intro_call", domain.ChannelPhone},
	{2, "email_after_call", domain.ChannelEmail},
	{6, "call_followup", domain.ChannelPhone},
}

// contactFormSequence is used when only a website form is available.
var contactFormSequence = []Step{
	{0, "contact_form_intro", domain.ChannelContactForm},
	{4, "phone_followup", domain.ChannelPhone},
	{8, "email_followup", domain.ChannelEmail},
}

// linkedInSequence is used when LinkedIn is the only discovered channel.
var linkedInSequence = []Step{
	{0, "linkedin_connect", domain.ChannelLinkedIn},
	{5, "linkedin_followup", domain.ChannelLinkedIn},
}

// researchSequence is the fallback when no reliable channel exists.
var researchSequence = []Step{
	{0, "manual_research", domain.ChannelResearch},
}

// SequenceForChannel returns the fixed, ordered step list for a best
// channel. Unknown channels fall back to a single manual-research step.
func SequenceForChannel(channel string) []Step {
	switch channel {
	case domain.ChannelEmail:
		return emailSequence
	case domain.ChannelPhone:
		return phoneSequence
	case domain.ChannelContactForm:
		return contactFormSequence
	case domain.ChannelLinkedIn:
		return linkedInSequence
	default:
		return researchSequence
	}
}
