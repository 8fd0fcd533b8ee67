package export_test

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/leadcrawl/internal/domain"
	"github.com/jonesrussell/leadcrawl/internal/export"
)

func strptr(s string) *string { return &s }

func TestWriteLeadsHeader(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, export.WriteLeads(&buf, nil))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 1, "expected header row only")

	wantHeader := []string{
		"domain", "name", "url", "fit_score", "contact_score", "outreach_score",
		"best_channel", "channel_reason", "primary_email", "phone",
		"contact_form_url", "linkedin_url", "source_queries", "status",
	}
	assert.Equal(t, wantHeader, records[0])
}

func TestWriteLeadsRows(t *testing.T) {
	companies := []*domain.Company{
		{
			Domain:        "acmemachining.com",
			Name:          strptr("Acme Machining"),
			URL:           strptr("https://acmemachining.com"),
			FitScore:      80,
			ContactScore:  60,
			OutreachScore: 74.5,
			BestChannel:   strptr(domain.ChannelEmail),
			ChannelReason: strptr("Role-specific email found."),
			PrimaryEmail:  strptr("operations@acmemachining.com"),
			SourceQueries: pq.StringArray{"cnc machine shop california", "precision machining texas"},
			Status:        domain.CompanyStatusScored,
		},
		{
			Domain: "quietshop.com",
			Status: domain.CompanyStatusDiscovered,
		},
	}

	var buf bytes.Buffer
	require.NoError(t, export.WriteLeads(&buf, companies))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3, "expected header + 2 rows")

	first := records[1]
	assert.Equal(t, "acmemachining.com", first[0])
	assert.Equal(t, "Acme Machining", first[1])
	assert.Equal(t, "80", first[3], "trailing zeros should be trimmed")
	assert.Equal(t, "74.5", first[5])
	assert.Equal(t, "cnc machine shop california; precision machining texas", first[12])

	// Nil pointers become empty cells, never a nil marker.
	second := records[2]
	for i, cell := range second {
		assert.NotContains(t, []string{"null", "<nil>"}, cell, "column %d", i)
	}
	assert.Empty(t, second[1])
	assert.Empty(t, second[8])
	assert.Equal(t, "0", second[3])
	assert.Equal(t, domain.CompanyStatusDiscovered, second[13])
}
