package main

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/bigspawn/tsundoku-sync/internal/domain"
	"github.com/bigspawn/tsundoku-sync/internal/logging"
)

// createBackoffPolicy creates a configured exponential backoff policy for retrying transient errors
func createBackoffPolicy() *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = BackoffInitialInterval
	b.MaxInterval = BackoffMaxInterval
	b.MaxElapsedTime = BackoffMaxElapsedTime
	b.Multiplier = BackoffMultiplier
	b.RandomizationFactor = BackoffRandomizationFactor
	return b
}

// isRetryableError reports whether err is a transport or store outage.
// Validation, auth and not-found errors are final.
func isRetryableError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, domain.ErrAuth) || errors.Is(err, domain.ErrValidation) ||
		errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	return errors.Is(err, domain.ErrTransport) || errors.Is(err, domain.ErrStoreUnavailable)
}

// retryWithBackoff wraps an operation with exponential backoff for retrying transient errors
func retryWithBackoff(ctx context.Context, operation func() error, operationName string) error {
	return retryWithPolicy(ctx, createBackoffPolicy(), operation, operationName)
}

func retryWithPolicy(ctx context.Context, b backoff.BackOff, operation func() error, operationName string) error {
	var attemptCount int
	retryableOperation := func() error {
		err := operation()
		if err != nil && !isRetryableError(err) {
			return backoff.Permanent(err)
		}
		return err
	}

	return backoff.RetryNotify(
		retryableOperation,
		backoff.WithContext(b, ctx),
		func(err error, duration time.Duration) {
			attemptCount++
			logging.Warn(ctx, "Retry attempt %d for %s (waiting %v): %v", attemptCount, operationName, duration, err)
		},
	)
}
