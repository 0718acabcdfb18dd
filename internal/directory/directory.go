// Package directory is the client lookup service behind the sender and
// receiver steps: substring search over the client book with fuzzy ranking,
// plus validated creation of walk-in clients.
package directory

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/google/uuid"

	"github.com/globalremit/teller/internal/database/repository"
	"github.com/globalremit/teller/internal/wizard"
)

// Service searches and creates clients.
type Service struct {
	Clients *repository.ClientRepo
}

// Search returns clients matching q against name, phone or id,
// case-insensitive. Results are ranked by edit distance to the name so the
// closest name floats up; an empty query returns the whole book. An empty
// result is a normal outcome, not an error.
func (s *Service) Search(ctx context.Context, q string) ([]repository.Client, error) {
	matches, err := s.Clients.Match(ctx, strings.TrimSpace(q))
	if err != nil {
		return nil, fmt.Errorf("search clients: %w", err)
	}
	query := strings.ToLower(strings.TrimSpace(q))
	if query == "" || len(matches) < 2 {
		return matches, nil
	}
	sort.SliceStable(matches, func(i, j int) bool {
		di := levenshtein.ComputeDistance(query, strings.ToLower(matches[i].Name))
		dj := levenshtein.ComputeDistance(query, strings.ToLower(matches[j].Name))
		return di < dj
	})
	return matches, nil
}

// ValidationError reports the per-field problems of a rejected client form.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("client form has %d invalid fields", len(e.Fields))
}

// Create validates the identity-completeness rules and stores a new client.
// New clients start active and KYC-unverified; verification is a back-office
// process outside this app.
func (s *Service) Create(ctx context.Context, c repository.Client) (*repository.Client, error) {
	if errs := wizard.ValidateClient(&c); len(errs) > 0 {
		return nil, &ValidationError{Fields: errs}
	}
	c.ID = newClientID()
	c.Status = repository.ClientActive
	c.KYCVerified = false
	if err := s.Clients.Insert(ctx, c); err != nil {
		return nil, fmt.Errorf("insert client: %w", err)
	}
	return &c, nil
}

func newClientID() string {
	return "CUST" + strings.ToUpper(uuid.NewString()[:8])
}
