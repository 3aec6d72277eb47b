// Package rangeprocessor sequences the slot processor across a closed slot
// range, forward or reverse, with exponential-backoff retry on transient
// failures and an abort-and-persist path on permanent ones.
package rangeprocessor

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/ethereum/go-ethereum/log"
	"github.com/google/uuid"

	"github.com/blobscan/blobindexer-go/errs"
	"github.com/blobscan/blobindexer-go/indexerclient"
	"github.com/blobscan/blobindexer-go/metrics"
	"github.com/blobscan/blobindexer-go/slotprocessor"
	"github.com/blobscan/blobindexer-go/types"
)

const (
	retryInitialInterval = 2 * time.Second
	retryMaxElapsedTime  = 60 * time.Second
)

// FailedSlotsProcessing is returned when the range aborts on a permanent
// (non-retryable) failure, carrying enough context to resume elsewhere.
type FailedSlotsProcessing struct {
	InitialSlot types.Slot
	FinalSlot   types.Slot
	FailedSlot  types.Slot
	Cause       error
}

func (e *FailedSlotsProcessing) Error() string {
	return fmt.Sprintf("processing slots [%d,%d] aborted at slot %d: %v",
		uint32(e.InitialSlot), uint32(e.FinalSlot), uint32(e.FailedSlot), e.Cause)
}

func (e *FailedSlotsProcessing) Unwrap() error { return e.Cause }

// Driver iterates a closed slot range and invokes the slot processor for
// each slot, retrying transient failures and aborting on permanent ones.
// It owns no per-slot state: it is a pure coordinator.
type Driver struct {
	processor *slotprocessor.Processor
	indexer   indexerclient.Client
}

func New(processor *slotprocessor.Processor, indexer indexerclient.Client) *Driver {
	return &Driver{processor: processor, indexer: indexer}
}

// ProcessSlots iterates from initialSlot to finalSlot inclusive. If
// initialSlot > finalSlot, iteration runs in reverse with reorg detection
// disabled (historical backfill); otherwise it runs forward with reorg
// detection enabled.
func (d *Driver) ProcessSlots(ctx context.Context, initialSlot, finalSlot types.Slot) error {
	runID := uuid.NewString()
	log := log.New("run_id", runID, "initial_slot", initialSlot, "final_slot", finalSlot)

	reverse := initialSlot > finalSlot
	enableReorg := !reverse

	for slot := range iterate(initialSlot, finalSlot, reverse) {
		outcome, err := d.processSlotWithRetry(ctx, log, slot, enableReorg)
		if err != nil {
			failedAt := previousSlot(slot, reverse)
			metrics.SlotsFailed.WithLabelValues(errs.KindOf(err).String()).Inc()
			log.Error("aborting range", "failed_slot", slot, "cause", err)
			if persistErr := d.indexer.UpdateSlot(ctx, failedAt); persistErr != nil {
				log.Error("failed to persist last successful slot after abort", "err", persistErr)
			}
			return &FailedSlotsProcessing{
				InitialSlot: initialSlot,
				FinalSlot:   finalSlot,
				FailedSlot:  slot,
				Cause:       err,
			}
		}
		recordOutcome(outcome)
	}

	if err := d.indexer.UpdateSlot(ctx, finalSlot); err != nil {
		return fmt.Errorf("persist last successful slot %d: %w", uint32(finalSlot), err)
	}
	return nil
}

// processSlotWithRetry wraps one slot's ProcessSlot call in exponential
// backoff: transient failures are retried, permanent ones abort the
// attempt immediately via backoff.Permanent.
func (d *Driver) processSlotWithRetry(ctx context.Context, logger log.Logger, slot types.Slot, enableReorg bool) (slotprocessor.Outcome, error) {
	operation := func() (slotprocessor.Outcome, error) {
		outcome := d.processor.ProcessSlot(ctx, slot, enableReorg)
		if outcome.Kind != slotprocessor.Failed {
			return outcome, nil
		}
		if errs.IsRetryable(outcome.Err) {
			return outcome, outcome.Err
		}
		return outcome, backoff.Permanent(outcome.Err)
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = retryInitialInterval

	notify := func(err error, delay time.Duration) {
		metrics.RetriesTotal.Inc()
		logger.Warn("retrying slot after transient failure", "slot", slot, "delay", delay, "err", err)
	}

	return backoff.Retry(ctx, operation,
		backoff.WithBackOff(b),
		backoff.WithMaxElapsedTime(retryMaxElapsedTime),
		backoff.WithNotify(notify),
	)
}

// recordOutcome increments the counter matching outcome's shape.
func recordOutcome(outcome slotprocessor.Outcome) {
	switch outcome.Kind {
	case slotprocessor.Indexed:
		metrics.SlotsIndexed.Inc()
	case slotprocessor.Skipped:
		metrics.SlotsSkipped.WithLabelValues(outcome.Reason).Inc()
	}
}

// previousSlot returns the highest safely-processed slot before the one
// that failed, in the traversal's direction.
func previousSlot(failedSlot types.Slot, reverse bool) types.Slot {
	if reverse {
		return failedSlot + 1
	}
	return failedSlot - 1
}

// iterate yields slots from a to b inclusive, in increasing order unless
// reverse is set, in which case it yields from a down to b.
func iterate(a, b types.Slot, reverse bool) func(func(types.Slot) bool) {
	return func(yield func(types.Slot) bool) {
		if reverse {
			for s := a; ; s-- {
				if !yield(s) {
					return
				}
				if s == b {
					return
				}
			}
		}
		for s := a; ; s++ {
			if !yield(s) {
				return
			}
			if s == b {
				return
			}
		}
	}
}
