/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: suite.go
Description: Suite runs verification cases in order against one verifier, collecting results
under a run ID and logging out once every case has run.
*/

package verifier

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Suite runs a list of cases sequentially
type Suite struct {
	ID       string
	Cases    []Case
	Logout   bool
	Verifier *CalendarVerifier

	// OnFailure is called after a failed case, e.g. to collect device logs
	OnFailure func(ctx context.Context, res *CaseResult)

	logger *logrus.Logger
}

// SuiteResult is the outcome of a suite run
type SuiteResult struct {
	ID       string        `json:"id"`
	Started  time.Time     `json:"started"`
	Finished time.Time     `json:"finished"`
	Results  []*CaseResult `json:"results"`
}

// Passed reports whether every case passed
func (r *SuiteResult) Passed() bool {
	for _, c := range r.Results {
		if !c.Passed {
			return false
		}
	}
	return len(r.Results) > 0
}

// Failed counts failing cases
func (r *SuiteResult) Failed() int {
	n := 0
	for _, c := range r.Results {
		if !c.Passed {
			n++
		}
	}
	return n
}

// NewSuite creates a suite with a fresh run ID
func NewSuite(v *CalendarVerifier, cases []Case) *Suite {
	return &Suite{
		ID:       uuid.New().String(),
		Cases:    cases,
		Logout:   true,
		Verifier: v,
		logger:   v.logger,
	}
}

// Run executes every case. A failing case is recorded and the suite moves on; only context
// cancellation stops the run early.
func (s *Suite) Run(ctx context.Context) *SuiteResult {
	out := &SuiteResult{ID: s.ID, Started: time.Now()}
	log := s.logger.WithField("run_id", s.ID)
	log.WithField("cases", len(s.Cases)).Info("Verification run started")

	for _, c := range s.Cases {
		if ctx.Err() != nil {
			break
		}
		res, err := s.Verifier.Verify(ctx, c)
		if err != nil {
			res.Passed = false
			res.Error = err.Error()
			var ae *AssertionError
			if errors.As(err, &ae) {
				res.Assertion = ae
			}
			log.WithFields(logrus.Fields{"case": c.Name, "error": err}).Error("Case failed")
			if s.OnFailure != nil && !errors.Is(err, context.Canceled) {
				s.OnFailure(ctx, res)
			}
		} else {
			log.WithFields(logrus.Fields{"case": c.Name, "duration": res.Duration}).Info("Case passed")
		}
		out.Results = append(out.Results, res)
	}

	if s.Logout && ctx.Err() == nil {
		if err := s.Verifier.Navigator().Logout(ctx); err != nil {
			log.WithError(err).Warn("Logout failed")
		}
	}
	out.Finished = time.Now()
	log.WithFields(logrus.Fields{
		"failed":   out.Failed(),
		"duration": out.Finished.Sub(out.Started),
	}).Info("Verification run finished")
	return out
}
