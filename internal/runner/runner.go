package runner

import (
	"context"
	"fmt"

	"github.com/williampepple1/year-checker/pkg/models"
	"go.uber.org/zap"
)

// Checker verifies a single identifier
type Checker interface {
	Check(ctx context.Context, identifier string) models.VerificationResult
}

// Aggregator collects results in processing order
type Aggregator struct {
	results []models.VerificationResult
}

// NewAggregator creates an aggregator sized for n results
func NewAggregator(n int) *Aggregator {
	return &Aggregator{
		results: make([]models.VerificationResult, 0, n),
	}
}

// Add appends a result; duplicates are kept
func (a *Aggregator) Add(r models.VerificationResult) {
	a.results = append(a.results, r)
}

// Results returns a copy of the collected results in order
func (a *Aggregator) Results() []models.VerificationResult {
	out := make([]models.VerificationResult, len(a.results))
	copy(out, a.results)
	return out
}

// Runner checks identifiers strictly one after another
type Runner struct {
	Checker Checker
	Logger  *zap.Logger
}

// New creates a sequential runner
func New(checker Checker, logger *zap.Logger) *Runner {
	return &Runner{
		Checker: checker,
		Logger:  logger,
	}
}

// Run checks every identifier in order. When ctx is cancelled it stops before
// the next identifier and returns the results gathered so far with ctx.Err().
func (r *Runner) Run(ctx context.Context, identifiers []string) ([]models.VerificationResult, error) {
	agg := NewAggregator(len(identifiers))
	total := len(identifiers)

	for i, id := range identifiers {
		if err := ctx.Err(); err != nil {
			r.Logger.Warn("run interrupted", zap.Int("checked", i), zap.Int("total", total))
			return agg.Results(), err
		}

		res := r.Checker.Check(ctx, id)
		agg.Add(res)

		r.Logger.Info(fmt.Sprintf("[%d/%d] ID=%s -> %s", i+1, total, res.Identifier, res.Status),
			zap.String("year", yearField(res)),
			zap.String("comment", res.Comment),
		)
	}

	return agg.Results(), nil
}

func yearField(r models.VerificationResult) string {
	if !r.HasYear() {
		return "none"
	}
	return fmt.Sprint(*r.Year)
}
