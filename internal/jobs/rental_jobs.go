package jobs

import (
	"context"
	"time"

	"roadshare-backend/internal/logger"
)

// SendReturnReminders emails renters whose active rental ends today or has
// already passed its end date. Reminder failures are logged and skipped;
// the job never fails a rental over an email.
func (jr *JobRunner) SendReturnReminders() {
	jr.runWithRecovery("SendReturnReminders", func() {
		ctx := context.Background()
		today := time.Now().UTC().Format("2006-01-02")

		rentals, err := jr.store.ListActiveEndingBy(ctx, today)
		if err != nil {
			logger.Error("Failed to list rentals for return reminders", "error", err)
			return
		}

		sent := 0
		for _, rental := range rentals {
			user, err := jr.store.UserRepository.GetByID(ctx, rental.RenterID)
			if err != nil {
				logger.Error("Failed to load renter for reminder", "rental_id", rental.ID, "error", err)
				continue
			}
			if err := jr.services.Email.SendReturnReminder(ctx, user.Email, user.Name, rental.EndDate); err != nil {
				logger.Warn("Failed to send return reminder", "rental_id", rental.ID, "error", err)
				continue
			}
			sent++
		}

		logger.Info("Sent return reminders", "eligible", len(rentals), "sent", sent)
	})
}

// ExpireStaleDrafts cancels drafts that have sat untouched longer than the
// configured maximum age.
func (jr *JobRunner) ExpireStaleDrafts() {
	jr.runWithRecovery("ExpireStaleDrafts", func() {
		ctx := context.Background()
		maxAge := jr.config.Scheduler.DraftMaxAgeDays

		expired, err := jr.store.ExpireStaleDrafts(ctx, maxAge)
		if err != nil {
			logger.Error("Failed to expire stale drafts", "error", err)
			return
		}

		logger.Info("Expired stale drafts", "count", expired, "max_age_days", maxAge)
	})
}
