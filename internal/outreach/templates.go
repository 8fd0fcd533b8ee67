package outreach

import (
	"fmt"
	"strings"
)

// EmailSubject returns the subject line for an email step.
func EmailSubject(stepName, companyName string) string {
	switch stepName {
	case "intro_email":
		return fmt.Sprintf("Idea to reduce machine-tending interventions at %s", companyName)
	case "followup_email_1":
		return fmt.Sprintf("Quick follow-up on machine-tending exceptions at %s", companyName)
	case "followup_email_2":
		return fmt.Sprintf("Should I close this out for %s?", companyName)
	case "email_after_call":
		return fmt.Sprintf("Recap and pilot outline for %s", companyName)
	default:
		return fmt.Sprintf("Automation opportunity for %s", companyName)
	}
}

// EmailBody returns the body for an email step.
func EmailBody(stepName, companyName, companyDomain, valueProp string) string {
	switch stepName {
	case "intro_email":
		return fmt.Sprintf(
			"Hi %s team,\n\n"+
				"I work on robotic manipulation for high-mix manufacturing cells. %s\n\n"+
				"If useful, I can run a scoped pilot focused on one cell with clear KPIs: "+
				"interventions/shift, changeover time, and throughput.\n\n"+
				"Would you be open to a 20-minute call next week?\n\n"+
				"Best,\n<Your Name>",
			companyName, valueProp)
	case "followup_email_1":
		return fmt.Sprintf(
			"Hi %s team,\n\n"+
				"Following up in case this is relevant for your CNC/assembly operations. "+
				"We usually start with one process where hard-coded automation struggles on "+
				"exceptions, then compare against baseline performance.\n\n"+
				"If you share one bottleneck process, I can send a one-page pilot plan.\n\n"+
				"Best,\n<Your Name>",
			companyName)
	case "followup_email_2":
		return fmt.Sprintf(
			"Hi %s team,\n\n"+
				"I have not heard back, so I will close this out for now. If reducing "+
				"manual interventions or changeover engineering time is still a priority, "+
				"reply with the right contact and I will send a concise pilot proposal.\n\n"+
				"Best,\n<Your Name>",
			companyName)
	case "email_after_call":
		return fmt.Sprintf(
			"Hi %s team,\n\n"+
				"Thanks for the call. As discussed, I can scope a 4-6 week pilot with "+
				"baseline vs hybrid-VLA comparison and clear go/no-go thresholds.\n\n"+
				"If you share a part family + current cycle baseline, I will send draft SOW.\n\n"+
				"Best,\n<Your Name>",
			companyName)
	default:
		return fmt.Sprintf(
			"Hi %s team,\n\n"+
				"I am reaching out because %s looks like a strong fit for machine-tending automation.\n\n"+
				"Best,\n<Your Name>",
			companyName, companyDomain)
	}
}

// NonEmailMessage returns the scripted message for a non-email step.
func NonEmailMessage(stepName, companyName, valueProp string) string {
	switch {
	case strings.HasPrefix(stepName, "intro_call"):
		return fmt.Sprintf(
			"Call script: 20-second intro + ask if they are open to a pilot for one high-mix "+
				"cell. Message: %s", valueProp)
	case strings.Contains(stepName, "contact_form"):
		return fmt.Sprintf(
			"Contact form message: We help %s reduce machine-tending exceptions "+
				"in high-mix cells. Open to a 20-minute pilot scoping call?", companyName)
	case strings.Contains(stepName, "linkedin"):
		return "LinkedIn note: Working on high-mix robotic manipulation that cuts intervention " +
			"load in machine tending. Open to a short conversation?"
	default:
		return fmt.Sprintf("Manual follow-up for %s.", companyName)
	}
}
