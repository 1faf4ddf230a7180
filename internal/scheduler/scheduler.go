package scheduler

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"dha-governance/internal/config"
	"dha-governance/internal/email"
	"dha-governance/internal/repository"
)

// Scheduler handles periodic tasks
type Scheduler struct {
	submissionRepo *repository.SubmissionRepository
	membershipRepo *repository.MembershipRepository
	voteRepo       *repository.VoteRepository
	emailService   *email.Service
	config         *config.SchedulerConfig
	stopChan       chan bool
}

// NewScheduler creates a new scheduler
func NewScheduler(
	submissionRepo *repository.SubmissionRepository,
	membershipRepo *repository.MembershipRepository,
	voteRepo *repository.VoteRepository,
	emailService *email.Service,
	cfg *config.SchedulerConfig,
) *Scheduler {
	return &Scheduler{
		submissionRepo: submissionRepo,
		membershipRepo: membershipRepo,
		voteRepo:       voteRepo,
		emailService:   emailService,
		config:         cfg,
		stopChan:       make(chan bool),
	}
}

// Start starts all scheduled tasks
func (s *Scheduler) Start() {
	slog.Info("Starting scheduler",
		"deadline_reminders_enabled", s.config.EnableDeadlineReminder)

	if s.config.EnableDeadlineReminder {
		if err := s.startCronTask(s.config.DeadlineReminderCron, "deadline_reminders", s.sendDeadlineReminders); err != nil {
			slog.Error("Failed to start deadline reminders", "error", err)
		}
	}

	slog.Info("Scheduler started")
}

// startCronTask parses a cron expression and starts the task
// Supports simple cron format: "minute hour day month weekday"
// Examples: "0 9 * * 1" = Monday 9 AM, "0 8 * * *" = Daily 8 AM, "*/5 * * * *" = Every 5 minutes
func (s *Scheduler) startCronTask(cronExpr, taskName string, task func()) error {
	parts := strings.Fields(cronExpr)
	if len(parts) != 5 {
		return fmt.Errorf("invalid cron expression: %s (expected 5 fields)", cronExpr)
	}

	// Parse minute field (supports */n for intervals)
	if strings.HasPrefix(parts[0], "*/") {
		// Interval notation: */5 = every 5 minutes
		interval, err := strconv.Atoi(parts[0][2:])
		if err != nil || interval < 1 || interval > 59 {
			return fmt.Errorf("invalid minute interval in cron: %s", parts[0])
		}
		// For interval tasks, run immediately
		go s.scheduleIntervalTask(time.Duration(interval)*time.Minute, taskName, task)
		return nil
	}

	minute, err := strconv.Atoi(parts[0])
	if err != nil || minute < 0 || minute > 59 {
		return fmt.Errorf("invalid minute in cron: %s", parts[0])
	}

	hour, err := strconv.Atoi(parts[1])
	if err != nil || hour < 0 || hour > 23 {
		return fmt.Errorf("invalid hour in cron: %s", parts[1])
	}

	// Check if daily or weekly
	if parts[4] == "*" {
		// Daily task
		go s.scheduleDailyTask(hour, minute, taskName, task)
	} else {
		// Weekly task
		weekday, err := strconv.Atoi(parts[4])
		if err != nil || weekday < 0 || weekday > 6 {
			return fmt.Errorf("invalid weekday in cron: %s (0-6, 0=Sunday)", parts[4])
		}
		go s.scheduleWeeklyTask(time.Weekday(weekday), hour, minute, taskName, task)
	}

	return nil
}

// Stop stops the scheduler
func (s *Scheduler) Stop() {
	slog.Info("Stopping scheduler")
	close(s.stopChan)
}

// scheduleIntervalTask runs a task at regular intervals
func (s *Scheduler) scheduleIntervalTask(interval time.Duration, taskName string, task func()) {
	slog.Info("Starting interval task", "task", taskName, "interval", interval)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// Run immediately on start
	slog.Info("Running interval task", "task", taskName)
	task()

	for {
		select {
		case <-ticker.C:
			slog.Info("Running interval task", "task", taskName)
			task()
		case <-s.stopChan:
			return
		}
	}
}

// scheduleDailyTask runs a task daily at a specific time
func (s *Scheduler) scheduleDailyTask(hour, minute int, taskName string, task func()) {
	for {
		now := time.Now()
		next := s.nextDailyRun(now, hour, minute)
		duration := next.Sub(now)

		slog.Info("Next daily task scheduled", "task", taskName, "next_run", next.Format("2006-01-02 15:04:05"))

		select {
		case <-time.After(duration):
			slog.Info("Running daily task", "task", taskName)
			task()
		case <-s.stopChan:
			return
		}
	}
}

// scheduleWeeklyTask runs a task weekly on a specific weekday and time
func (s *Scheduler) scheduleWeeklyTask(weekday time.Weekday, hour, minute int, taskName string, task func()) {
	for {
		now := time.Now()
		next := s.nextWeekday(now, weekday, hour, minute)
		duration := next.Sub(now)

		slog.Info("Next weekly task scheduled", "task", taskName, "next_run", next.Format("2006-01-02 15:04:05"))

		select {
		case <-time.After(duration):
			slog.Info("Running weekly task", "task", taskName)
			task()
		case <-s.stopChan:
			return
		}
	}
}

// nextWeekday calculates the next occurrence of a specific weekday and time
func (s *Scheduler) nextWeekday(from time.Time, weekday time.Weekday, hour, minute int) time.Time {
	// Start with today at the specified time
	next := time.Date(from.Year(), from.Month(), from.Day(), hour, minute, 0, 0, from.Location())

	// Calculate days until target weekday
	daysUntil := int(weekday - from.Weekday())
	if daysUntil < 0 {
		daysUntil += 7
	}

	next = next.AddDate(0, 0, daysUntil)

	// If the calculated time has already passed today, add 7 days
	if next.Before(from) || next.Equal(from) {
		next = next.AddDate(0, 0, 7)
	}

	return next
}

// nextDailyRun calculates the next daily run time
func (s *Scheduler) nextDailyRun(from time.Time, hour, minute int) time.Time {
	next := time.Date(from.Year(), from.Month(), from.Day(), hour, minute, 0, 0, from.Location())

	// If the time has already passed today, schedule for tomorrow
	if next.Before(from) || next.Equal(from) {
		next = next.AddDate(0, 0, 1)
	}

	return next
}

// sendDeadlineReminders reminds board members who have not voted yet on
// reviews whose deadline falls inside the reminder window
func (s *Scheduler) sendDeadlineReminders() {
	slog.Info("Sending voting deadline reminders")

	window := time.Duration(s.config.ReminderWindowHours) * time.Hour
	submissions, err := s.submissionRepo.ListDeadlineWithin(window)
	if err != nil {
		slog.Error("Failed to list reviews near deadline", "error", err)
		return
	}

	remindersSent := 0
	for _, submission := range submissions {
		if submission.GovernanceBoardID == nil || submission.VoteDeadlineAt == nil {
			continue
		}

		votes, err := s.voteRepo.ListBySubmission(submission.ID)
		if err != nil {
			slog.Error("Failed to list votes", "submission_id", submission.ID, "error", err)
			continue
		}
		voted := map[string]bool{}
		for _, vote := range votes {
			voted[vote.VoterOID] = true
		}

		voters, err := s.membershipRepo.ListEligibleVoters(*submission.GovernanceBoardID, time.Now())
		if err != nil {
			slog.Error("Failed to list eligible voters", "board_id", *submission.GovernanceBoardID, "error", err)
			continue
		}

		for _, voter := range voters {
			if voted[voter.UserOID] || voter.Email == "" {
				continue
			}
			if err := s.emailService.SendDeadlineReminder(voter.Email, submission.Title, *submission.VoteDeadlineAt); err != nil {
				slog.Error("Failed to send deadline reminder", "recipient", voter.Email, "error", err)
				continue
			}
			remindersSent++
		}
	}

	slog.Info("Voting deadline reminders sent", "count", remindersSent)
}
