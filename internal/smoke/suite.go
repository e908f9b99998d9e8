package smoke

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// Credentials are the seeded logins the suite signs in with.
type Credentials struct {
	OwnerEmail    string
	OwnerPassword string
	StaffEmail    string
	StaffPassword string
}

// Fixture carries what earlier cases captured for later ones.
type Fixture struct {
	Creds      Credentials
	OwnerToken string
	StaffToken string
	SupplierID int64
	MedicineID int64
	SaleID     int64
}

var errSkipped = errors.New("prerequisite missing")

func (f *Fixture) need(ok bool, what string) error {
	if !ok {
		return fmt.Errorf("%w: no %s available", errSkipped, what)
	}
	return nil
}

// Case is one named check.
type Case struct {
	Name string
	Run  func(ctx context.Context, c *Client, f *Fixture) error
}

type Result struct {
	Name string
	Err  error
}

func (r Result) Passed() bool { return r.Err == nil }

type Report struct {
	Results []Result
	Passed  int
	Failed  int
}

// SuccessRate is the share of passed cases in percent.
func (r Report) SuccessRate() float64 {
	total := r.Passed + r.Failed
	if total == 0 {
		return 0
	}
	return float64(r.Passed) * 100 / float64(total)
}

// Failures lists the results that did not pass.
func (r Report) Failures() []Result {
	var out []Result
	for _, res := range r.Results {
		if !res.Passed() {
			out = append(out, res)
		}
	}
	return out
}

// Run executes every case in order against c, never stopping early.
func Run(ctx context.Context, c *Client, f *Fixture, cases []Case) Report {
	var report Report
	for _, tc := range cases {
		err := tc.Run(ctx, c, f)
		report.Results = append(report.Results, Result{Name: tc.Name, Err: err})
		if err != nil {
			report.Failed++
			zap.S().Errorf("FAIL %s: %v", tc.Name, err)
			continue
		}
		report.Passed++
		zap.S().Infof("PASS %s", tc.Name)
	}
	zap.S().Infof("tests passed: %d/%d (%.1f%%)", report.Passed, report.Passed+report.Failed, report.SuccessRate())
	return report
}
