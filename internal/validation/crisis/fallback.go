package crisis

import "haven/internal/validation/models"

// Safe wraps a validation operation so the caller always receives a bounded
// outcome. Rules, in order:
//
//   - a panic inside op becomes a success outcome carrying fallback;
//   - a success outcome passes through untouched;
//   - a health-isolation violation passes through untouched, in any mode;
//   - every other failure is absorbed into a success outcome carrying
//     fallback.
//
// Performance and compliance snapshots from the original outcome are kept
// where one exists, so instrumentation survives absorption.
func Safe[T any](op func() models.Outcome[T], fallback T) (out models.Outcome[T]) {
	defer func() {
		if r := recover(); r != nil {
			out = models.Outcome[T]{
				Success:     true,
				Data:        &fallback,
				Performance: models.PerformanceSnapshot{CrisisSafe: true},
				Compliance:  models.ComplianceSnapshot{FinancialIsolationOK: true, HealthIsolationOK: true},
			}
		}
	}()

	out = op()
	if out.Success {
		return out
	}
	if out.Err != nil && out.Err.Code == models.CodeHIPAAViolation {
		return out
	}

	return models.Outcome[T]{
		Success:     true,
		Data:        &fallback,
		Performance: out.Performance,
		Compliance:  out.Compliance,
	}
}
