// Package export renders the scored company view for external tooling.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jonesrussell/leadcrawl/internal/domain"
)

// columns is the stable export column order. Null values are coerced to
// empty strings so downstream tooling never sees a literal "null".
var columns = []string{
	"domain",
	"name",
	"url",
	"fit_score",
	"contact_score",
	"outreach_score",
	"best_channel",
	"channel_reason",
	"primary_email",
	"phone",
	"contact_form_url",
	"linkedin_url",
	"source_queries",
	"status",
}

// WriteLeads writes the companies as CSV with a header row.
func WriteLeads(w io.Writer, companies []*domain.Company) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(columns); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, company := range companies {
		record := []string{
			company.Domain,
			deref(company.Name),
			deref(company.URL),
			formatScore(company.FitScore),
			formatScore(company.ContactScore),
			formatScore(company.OutreachScore),
			deref(company.BestChannel),
			deref(company.ChannelReason),
			deref(company.PrimaryEmail),
			deref(company.Phone),
			deref(company.ContactFormURL),
			deref(company.LinkedInURL),
			strings.Join(company.SourceQueries, "; "),
			company.Status,
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("write csv record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}

	return nil
}

func formatScore(score float64) string {
	return strconv.FormatFloat(score, 'f', -1, 64)
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
