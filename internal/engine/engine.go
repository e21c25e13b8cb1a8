// Package engine makes the trust decision for an incoming call and drives
// its side effects.
package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/portvakt/portvakt/internal/actuator"
	"github.com/portvakt/portvakt/internal/allowlist"
	"github.com/portvakt/portvakt/internal/ledger"
	"github.com/portvakt/portvakt/internal/logger"
	"github.com/portvakt/portvakt/internal/metrics"
	"github.com/portvakt/portvakt/internal/models"
)

// Notifier is the slice of NotificationService the engine needs. Engines
// constructed without one stay silent.
type Notifier interface {
	Notify(nType models.NotificationType, title, message string)
}

// Decision is the outcome returned to the webhook endpoint.
type Decision struct {
	Trusted    bool
	GateOpened bool
}

// Engine holds no state of its own; every call reads the allow-list
// fresh so admin edits apply immediately.
type Engine struct {
	store    *allowlist.Store
	actuator actuator.Trigger
	ledger   *ledger.Ledger
	notifier Notifier
}

func New(store *allowlist.Store, trigger actuator.Trigger, l *ledger.Ledger, notifier Notifier) *Engine {
	return &Engine{store: store, actuator: trigger, ledger: l, notifier: notifier}
}

// HandleCall decides whether caller may open the gate and, if trusted,
// triggers the actuator. The authorization check strictly precedes the
// trigger, and exactly one ledger record is written per call, even if the
// actuator implementation panics.
func (e *Engine) HandleCall(ctx context.Context, caller string) Decision {
	metrics.IncCall()

	trusted := e.store.Contains(caller)
	opened := false

	defer func() {
		e.record(caller, trusted, opened)
	}()

	if !trusted {
		metrics.IncDenied()
		logger.WithFields(map[string]interface{}{"caller": caller}).Warn("Untrusted number attempted access")
		if e.notifier != nil {
			e.notifier.Notify(models.NotificationTypeWarning, "Access denied",
				fmt.Sprintf("Untrusted number %s attempted to open the gate", caller))
		}
		return Decision{}
	}

	logger.WithFields(map[string]interface{}{"caller": caller}).Info("Trusted number detected")
	opened = e.trigger(ctx)

	if opened {
		metrics.IncGateOpened()
		logger.WithFields(map[string]interface{}{"caller": caller}).Info("Gate opened")
	} else {
		logger.WithFields(map[string]interface{}{"caller": caller}).Error("Failed to open gate")
		if e.notifier != nil {
			e.notifier.Notify(models.NotificationTypeError, "Gate trigger failed",
				fmt.Sprintf("Trusted number %s called but the gate webhook did not succeed", caller))
		}
	}

	return Decision{Trusted: true, GateOpened: opened}
}

// trigger isolates actuator panics so the deferred audit write still runs
// with opened=false.
func (e *Engine) trigger(ctx context.Context) (opened bool) {
	defer func() {
		if r := recover(); r != nil {
			logger.WithFields(map[string]interface{}{"panic": r}).Error("Actuator panicked")
			opened = false
		}
	}()
	return e.actuator.Trigger(ctx)
}

// record appends the attempt to the audit ledger. Append failures are
// logged only; the decision already made must not be affected.
func (e *Engine) record(caller string, trusted, opened bool) {
	attempt := ledger.Attempt{
		Timestamp:  time.Now(),
		Caller:     caller,
		Trusted:    trusted,
		GateOpened: opened,
	}
	if err := e.ledger.Append(attempt); err != nil {
		logger.Log().WithError(err).Error("Failed to write call attempt log")
	}
}
