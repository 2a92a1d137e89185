package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

type PaymentState int

const (
	PaymentIdle PaymentState = iota
	PaymentProcessing
	PaymentCompleted
	PaymentFailed
)

func (s PaymentState) String() string {
	switch s {
	case PaymentIdle:
		return "idle"
	case PaymentProcessing:
		return "processing"
	case PaymentCompleted:
		return "completed"
	case PaymentFailed:
		return "failed"
	}
	return fmt.Sprintf("payment(%d)", int(s))
}

// Payment is the state of the payment sub-flow of a booking.
type Payment struct {
	State    PaymentState
	Err      error
	Attempts int
}

var (
	ErrPaymentInFlight   = errors.New("payment is being processed")
	ErrPaymentNotStarted = errors.New("no payment is being processed")
	ErrCardDeclined      = errors.New("card declined")
)

func (f *Flow) Payment() Payment {
	return f.payment
}

// BeginPayment enters processing. It is valid once inventory is selected,
// either for the first attempt or to retry after a failure.
func (f *Flow) BeginPayment() error {
	if f.booking == nil {
		return ErrNoTarget
	}
	if f.step != StepInventorySelected {
		return &StepError{Action: ActionCompletePayment, Step: f.step}
	}
	switch f.payment.State {
	case PaymentProcessing:
		return ErrPaymentInFlight
	case PaymentCompleted:
		return &StepError{Action: ActionCompletePayment, Step: f.step}
	}
	f.payment = Payment{State: PaymentProcessing, Attempts: f.payment.Attempts + 1}
	return nil
}

// ResolvePayment records the outcome of the attempt started by BeginPayment.
// Success completes the booking; failure keeps the selection for a retry.
func (f *Flow) ResolvePayment(result error) error {
	if f.payment.State != PaymentProcessing {
		return ErrPaymentNotStarted
	}
	if result != nil {
		f.payment.State = PaymentFailed
		f.payment.Err = result
		return nil
	}
	f.payment.State = PaymentIdle
	return f.CompletePayment()
}

// Card is the minimum card data a processor needs.
type Card struct {
	Holder string
	Number string
}

type Charge struct {
	Amount      float64
	Description string
	Card        Card
}

// Processor settles a charge. Implementations must honour ctx.
type Processor interface {
	Charge(ctx context.Context, charge Charge) error
}

// DeclineTestCard always fails in SimulatedProcessor.
const DeclineTestCard = "4000000000000002"

// SimulatedProcessor stands in for a payment gateway: it waits Delay and
// approves every card except DeclineTestCard.
type SimulatedProcessor struct {
	Delay time.Duration
}

func (p SimulatedProcessor) Charge(ctx context.Context, charge Charge) error {
	if charge.Amount < 0 {
		return fmt.Errorf("invalid amount %.2f", charge.Amount)
	}
	if p.Delay > 0 {
		timer := time.NewTimer(p.Delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}
	if digitsOnly(charge.Card.Number) == DeclineTestCard {
		return ErrCardDeclined
	}
	return nil
}

func digitsOnly(value string) string {
	var b strings.Builder
	for _, r := range value {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
