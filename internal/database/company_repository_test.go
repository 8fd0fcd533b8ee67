package database_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/jonesrussell/leadcrawl/internal/database"
	"github.com/jonesrussell/leadcrawl/internal/domain"
)

// companyColumns lists the columns returned by company SELECT queries.
var companyColumns = []string{
	"id", "domain", "name", "url", "segment", "source_queries", "status",
	"fit_score", "contact_score", "outreach_score", "best_channel",
	"channel_reason", "phone", "contact_form_url", "linkedin_url",
	"primary_email", "notes", "last_crawled_at", "created_at", "updated_at",
}

func newCompanyRepo(t *testing.T) (*database.CompanyRepository, sqlmock.Sqlmock, func()) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}

	db := sqlx.NewDb(mockDB, "postgres")
	repo := database.NewCompanyRepository(db)

	return repo, mock, func() { mockDB.Close() }
}

func expectationsMet(t *testing.T, mock sqlmock.Sqlmock) {
	t.Helper()

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func companyRow(id, companyDomain, status string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(companyColumns).AddRow(
		id, companyDomain, nil, nil, nil, pq.StringArray{"cnc machine shop"}, status,
		0.0, 0.0, 0.0, nil, nil, nil, nil, nil, nil, nil, nil, now, now,
	)
}

func TestCompanyRepository_Upsert_NewRow(t *testing.T) {
	repo, mock, cleanup := newCompanyRepo(t)
	defer cleanup()

	mock.ExpectQuery("INSERT INTO companies").
		WithArgs(
			sqlmock.AnyArg(),
			"acmemachining.com",
			"https://acmemachining.com",
			"cnc",
			"cnc machine shop california",
			domain.CompanyStatusDiscovered,
		).
		WillReturnRows(sqlmock.NewRows([]string{"inserted"}).AddRow(true))

	inserted, err := repo.Upsert(context.Background(),
		"acmemachining.com", "https://acmemachining.com", "cnc", "cnc machine shop california")
	if err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}
	if !inserted {
		t.Error("Upsert() inserted = false, want true")
	}

	expectationsMet(t, mock)
}

func TestCompanyRepository_Upsert_ExistingRow(t *testing.T) {
	repo, mock, cleanup := newCompanyRepo(t)
	defer cleanup()

	mock.ExpectQuery("INSERT INTO companies").
		WithArgs(
			sqlmock.AnyArg(),
			"acmemachining.com",
			"https://acmemachining.com",
			"cnc",
			"precision machining texas",
			domain.CompanyStatusDiscovered,
		).
		WillReturnRows(sqlmock.NewRows([]string{"inserted"}).AddRow(false))

	inserted, err := repo.Upsert(context.Background(),
		"acmemachining.com", "https://acmemachining.com", "cnc", "precision machining texas")
	if err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}
	if inserted {
		t.Error("Upsert() inserted = true, want false for conflict merge")
	}

	expectationsMet(t, mock)
}

func TestCompanyRepository_GetByDomain(t *testing.T) {
	repo, mock, cleanup := newCompanyRepo(t)
	defer cleanup()

	mock.ExpectQuery("SELECT \\* FROM companies WHERE domain").
		WithArgs("acmemachining.com").
		WillReturnRows(companyRow("company-1", "acmemachining.com", domain.CompanyStatusDiscovered))

	company, err := repo.GetByDomain(context.Background(), "acmemachining.com")
	if err != nil {
		t.Fatalf("GetByDomain() error = %v", err)
	}
	if company.ID != "company-1" {
		t.Errorf("ID = %q, want company-1", company.ID)
	}
	if len(company.SourceQueries) != 1 || company.SourceQueries[0] != "cnc machine shop" {
		t.Errorf("SourceQueries = %v", company.SourceQueries)
	}

	expectationsMet(t, mock)
}

func TestCompanyRepository_GetByDomain_NotFound(t *testing.T) {
	repo, mock, cleanup := newCompanyRepo(t)
	defer cleanup()

	mock.ExpectQuery("SELECT \\* FROM companies WHERE domain").
		WithArgs("missing.example").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByDomain(context.Background(), "missing.example")
	if !errors.Is(err, database.ErrCompanyNotFound) {
		t.Errorf("GetByDomain() error = %v, want ErrCompanyNotFound", err)
	}

	expectationsMet(t, mock)
}

func TestCompanyRepository_ListRanked(t *testing.T) {
	repo, mock, cleanup := newCompanyRepo(t)
	defer cleanup()

	rows := companyRow("company-1", "acmemachining.com", domain.CompanyStatusScored)
	now := time.Now()
	rows.AddRow(
		"company-2", "precisioncnc.com", nil, nil, nil, pq.StringArray{}, domain.CompanyStatusEnriched,
		0.0, 0.0, 0.0, nil, nil, nil, nil, nil, nil, nil, nil, now, now,
	)

	mock.ExpectQuery("SELECT \\* FROM companies").
		WithArgs(domain.CompanyStatusScored, domain.CompanyStatusEnriched, 25).
		WillReturnRows(rows)

	companies, err := repo.ListRanked(context.Background(), 25)
	if err != nil {
		t.Fatalf("ListRanked() error = %v", err)
	}
	if len(companies) != 2 {
		t.Fatalf("ListRanked() returned %d companies, want 2", len(companies))
	}
	if companies[1].Domain != "precisioncnc.com" {
		t.Errorf("companies[1].Domain = %q", companies[1].Domain)
	}

	expectationsMet(t, mock)
}

func TestCompanyRepository_UpdateScores(t *testing.T) {
	repo, mock, cleanup := newCompanyRepo(t)
	defer cleanup()

	update := database.ScoreUpdate{
		FitScore:      80,
		ContactScore:  60,
		OutreachScore: 74,
		BestChannel:   domain.ChannelEmail,
		ChannelReason: "Role-specific email found.",
	}

	mock.ExpectExec("UPDATE companies").
		WithArgs("company-1", 80.0, 60.0, 74.0, domain.ChannelEmail,
			"Role-specific email found.", domain.CompanyStatusScored).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.UpdateScores(context.Background(), "company-1", update); err != nil {
		t.Fatalf("UpdateScores() error = %v", err)
	}

	expectationsMet(t, mock)
}

func TestCompanyRepository_UpdateScores_NotFound(t *testing.T) {
	repo, mock, cleanup := newCompanyRepo(t)
	defer cleanup()

	mock.ExpectExec("UPDATE companies").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateScores(context.Background(), "missing", database.ScoreUpdate{})
	if !errors.Is(err, database.ErrCompanyNotFound) {
		t.Errorf("UpdateScores() error = %v, want ErrCompanyNotFound", err)
	}

	expectationsMet(t, mock)
}

func TestCompanyRepository_MarkUnreachable(t *testing.T) {
	repo, mock, cleanup := newCompanyRepo(t)
	defer cleanup()

	crawledAt := time.Now()
	mock.ExpectExec("UPDATE companies").
		WithArgs("company-1", domain.CompanyStatusEnriched, "Could not fetch site", crawledAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.MarkUnreachable(context.Background(), "company-1", "Could not fetch site", crawledAt); err != nil {
		t.Fatalf("MarkUnreachable() error = %v", err)
	}

	expectationsMet(t, mock)
}

func TestCompanyRepository_Delete_NotFound(t *testing.T) {
	repo, mock, cleanup := newCompanyRepo(t)
	defer cleanup()

	mock.ExpectExec("DELETE FROM companies").
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), "missing")
	if !errors.Is(err, database.ErrCompanyNotFound) {
		t.Errorf("Delete() error = %v, want ErrCompanyNotFound", err)
	}

	expectationsMet(t, mock)
}

func TestCompanyRepository_CountByStatus(t *testing.T) {
	repo, mock, cleanup := newCompanyRepo(t)
	defer cleanup()

	mock.ExpectQuery("SELECT status, COUNT").
		WillReturnRows(sqlmock.NewRows([]string{"status", "count"}).
			AddRow(domain.CompanyStatusDiscovered, 4).
			AddRow(domain.CompanyStatusScored, 2))

	counts, err := repo.CountByStatus(context.Background())
	if err != nil {
		t.Fatalf("CountByStatus() error = %v", err)
	}
	if counts[domain.CompanyStatusDiscovered] != 4 || counts[domain.CompanyStatusScored] != 2 {
		t.Errorf("counts = %v", counts)
	}

	expectationsMet(t, mock)
}
