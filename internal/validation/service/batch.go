package service

import (
	"context"

	"golang.org/x/sync/errgroup"

	"haven/internal/validation/models"
)

// ValidateBatch validates every kind present in the input and aggregates
// the per-kind outcomes. Sub-validations have no data dependencies on one
// another, so they run in parallel; each goroutine writes only its own
// field of the result. Absent kinds are skipped entirely: no outcome entry
// and no effect on AllValid.
func (s *Service) ValidateBatch(ctx context.Context, in models.BatchInput, crisisMode bool) models.BatchOutcome {
	var out models.BatchOutcome

	g, ctx := errgroup.WithContext(ctx)

	if in.Configuration != nil {
		g.Go(func() error {
			o := s.ValidateConfiguration(ctx, in.Configuration, crisisMode)
			out.Configuration = &o
			return nil
		})
	}
	if in.Party != nil {
		g.Go(func() error {
			o := s.ValidateParty(ctx, in.Party, crisisMode)
			out.Party = &o
			return nil
		})
	}
	if in.PaymentMethod != nil {
		g.Go(func() error {
			o := s.ValidatePaymentMethod(ctx, in.PaymentMethod, crisisMode)
			out.PaymentMethod = &o
			return nil
		})
	}
	if in.TransactionIntent != nil {
		g.Go(func() error {
			o := s.ValidateTransactionIntent(ctx, in.TransactionIntent, crisisMode)
			out.TransactionIntent = &o
			return nil
		})
	}
	if in.Subscription != nil {
		g.Go(func() error {
			o := s.ValidateSubscription(ctx, in.Subscription, crisisMode)
			out.Subscription = &o
			return nil
		})
	}
	if in.EmergencyOverride != nil {
		g.Go(func() error {
			o := s.ValidateEmergencyOverride(ctx, in.EmergencyOverride)
			out.EmergencyOverride = &o
			return nil
		})
	}

	// Validators never return errors; Wait is a join point only.
	_ = g.Wait()

	out.AllValid = true
	out.CriticalErrors = []models.ValidationError{}
	collect := func(success bool, verr *models.ValidationError) {
		if !success {
			out.AllValid = false
		}
		if verr != nil && verr.CrisisImpact == models.ImpactBlocked {
			out.CriticalErrors = append(out.CriticalErrors, *verr)
		}
	}
	if out.Configuration != nil {
		collect(out.Configuration.Success, out.Configuration.Err)
	}
	if out.Party != nil {
		collect(out.Party.Success, out.Party.Err)
	}
	if out.PaymentMethod != nil {
		collect(out.PaymentMethod.Success, out.PaymentMethod.Err)
	}
	if out.TransactionIntent != nil {
		collect(out.TransactionIntent.Success, out.TransactionIntent.Err)
	}
	if out.Subscription != nil {
		collect(out.Subscription.Success, out.Subscription.Err)
	}
	if out.EmergencyOverride != nil {
		collect(out.EmergencyOverride.Success, out.EmergencyOverride.Err)
	}

	s.metrics.IncrementBatch(out.AllValid)
	return out
}
