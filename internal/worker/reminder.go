// Package worker runs the recurring due-date reminder job: a fixed
// interval scan for pending tasks due within the next day, emailing each
// owner. There is no sent-flag, so a task still pending on the next pass
// is reminded again.
package worker

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/KaranGhugal/STM/internal/repository"
	"github.com/KaranGhugal/STM/internal/services"
)

func reminderHTML(name, title string, due time.Time) string {
	return fmt.Sprintf(`<p>Hi %s,<br>Your task "<strong>%s</strong>" is due on %s. Please take necessary action.</p>`,
		name, title, due.Format("Jan 2, 2006 15:04"))
}

// DueWindow is how far ahead of the due date reminders start.
const DueWindow = 24 * time.Hour

type Reminder struct {
	Tasks    *repository.TaskRepository
	Users    *repository.UserRepository
	Verify   *repository.EmailVerificationRepository
	Resets   *repository.PasswordResetRepository
	Mailer   services.EmailSender
	Interval time.Duration
}

func NewReminder(
	t *repository.TaskRepository,
	u *repository.UserRepository,
	v *repository.EmailVerificationRepository,
	p *repository.PasswordResetRepository,
	mailer services.EmailSender,
	interval time.Duration,
) *Reminder {
	if interval <= 0 {
		interval = 24 * time.Hour
	}
	return &Reminder{Tasks: t, Users: u, Verify: v, Resets: p, Mailer: mailer, Interval: interval}
}

// Run loops until the context is cancelled, running one pass per
// interval. The first pass runs immediately.
func (r *Reminder) Run(ctx context.Context) {
	ticker := time.NewTicker(r.Interval)
	defer ticker.Stop()

	r.runOnce(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.runOnce(ctx)
		}
	}
}

func (r *Reminder) runOnce(ctx context.Context) {
	if n, err := r.RemindOwner(ctx, 0); err != nil {
		log.Printf("reminder pass: %v", err)
	} else if n > 0 {
		log.Printf("reminder pass: sent %d reminders", n)
	}
	r.sweepTokens(ctx)
}

// RemindOwner emails a reminder for every pending task due within the
// window. ownerID 0 covers all owners; a specific id restricts the pass
// to that user's tasks (the on-demand schedule endpoint).
func (r *Reminder) RemindOwner(ctx context.Context, ownerID int64) (int, error) {
	tasks, err := r.Tasks.ListDueSoon(ctx, ownerID, DueWindow)
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, t := range tasks {
		owner, err := r.Users.GetByID(ctx, t.UserID)
		if err != nil {
			log.Printf("reminder: lookup owner of task %d: %v", t.TaskID, err)
			continue
		}
		html := reminderHTML(owner.Name, t.Title, t.DueDate)
		if err := r.Mailer.Send(ctx, owner.Email, "Task Deadline Reminder", html); err != nil {
			log.Printf("reminder: send to %s: %v", owner.Email, err)
			continue
		}
		sent++
	}
	return sent, nil
}

// sweepTokens prunes expired verification and reset rows, standing in
// for the TTL deletion a document store would do natively.
func (r *Reminder) sweepTokens(ctx context.Context) {
	if n, err := r.Verify.DeleteExpired(ctx); err != nil {
		log.Printf("reminder: sweep verification tokens: %v", err)
	} else if n > 0 {
		log.Printf("reminder: swept %d expired verification tokens", n)
	}
	if n, err := r.Resets.DeleteExpired(ctx); err != nil {
		log.Printf("reminder: sweep reset tokens: %v", err)
	} else if n > 0 {
		log.Printf("reminder: swept %d expired reset tokens", n)
	}
}
