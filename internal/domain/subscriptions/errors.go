package subscriptions

import (
	"errors"
	"fmt"
)

var (
	// ErrForbidden: the subscription belongs to another user.
	ErrForbidden = errors.New("subscription belongs to another user")

	// ErrPlanNotFound / ErrSubscriptionNotFound map to 404.
	ErrPlanNotFound         = errors.New("plan not found")
	ErrSubscriptionNotFound = errors.New("subscription not found")

	// ErrNotFreePlan: a paid plan was passed where only a free one is valid.
	ErrNotFreePlan = errors.New("plan is not free")

	// ErrUnconfiguredPlan: paid plan without a Stripe price mapping.
	ErrUnconfiguredPlan = errors.New("plan has no stripe price configured")

	// ErrNoSubscription: user has no subscription with a billing customer.
	ErrNoSubscription = errors.New("no subscription with a billing customer")
)

// PersistenceError signals a local write failure after a Stripe side effect
// already succeeded. The caller compensates where possible; the wrapped
// error plus Op carry enough to reconcile manually otherwise.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failure during %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
