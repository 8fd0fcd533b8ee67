package discovery

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// defaultStates seeds the default query generator when no states are given.
var defaultStates = []string{"california", "texas", "illinois", "ohio", "michigan", "indiana"}

// queryTemplates generate per-state discovery queries for the manufacturing
// segment.
var queryTemplates = []string{
	"CNC machine shop %s",
	"high mix low volume manufacturing %s",
	"precision machining company %s",
	"contract manufacturing assembly %s",
	"injection molding manufacturer %s",
}

// DefaultManufacturingQueries expands the query templates over the given
// states, falling back to the default state list.
func DefaultManufacturingQueries(states []string) []string {
	if len(states) == 0 {
		states = defaultStates
	}

	queries := make([]string, 0, len(states)*len(queryTemplates))
	for _, state := range states {
		for _, template := range queryTemplates {
			queries = append(queries, fmt.Sprintf(template, state))
		}
	}
	return queries
}

// LoadQueriesFromFile reads one query per line, skipping blank lines and
// lines starting with #.
func LoadQueriesFromFile(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open queries file: %w", err)
	}
	defer file.Close()

	var queries []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		cleaned := strings.TrimSpace(scanner.Text())
		if cleaned == "" || strings.HasPrefix(cleaned, "#") {
			continue
		}
		queries = append(queries, cleaned)
	}
	if scanErr := scanner.Err(); scanErr != nil {
		return nil, fmt.Errorf("read queries file: %w", scanErr)
	}

	return queries, nil
}
