package jobs

import (
	"context"
	"fmt"
	"time"

	"bto-portal-backend/internal/logger"
)

// HideClosedProjects turns off visibility for projects whose application
// window closed before today, so applicants stop discovering them.
func (jr *JobRunner) HideClosedProjects() {
	jr.runWithRecovery("HideClosedProjects", func() {
		ctx := context.Background()

		query := `
			UPDATE projects
			SET visible = FALSE
			WHERE visible = TRUE
			  AND close_date < $1
			RETURNING id, name, close_date
		`

		rows, err := jr.db.QueryContext(ctx, query, time.Now().Format("2006-01-02"))
		if err != nil {
			logger.Error("Failed to hide closed projects", "error", err)
			return
		}
		defer rows.Close()

		count := 0
		for rows.Next() {
			var id int32
			var name string
			var closeDate time.Time
			if err := rows.Scan(&id, &name, &closeDate); err != nil {
				logger.Error("Failed to scan closed project", "error", err)
				continue
			}
			logger.Debug("Hid closed project",
				"project_id", id, "name", name, "close_date", closeDate.Format("2006-01-02"))
			count++
		}
		if err := rows.Err(); err != nil {
			logger.Error("Error iterating closed projects", "error", err)
			return
		}

		logger.Info("Hid closed projects", "count", count)
	})
}

// SendPendingDecisionReminders emails each project manager a nudge when the
// project has applications sitting in PENDING longer than the configured
// number of days.
func (jr *JobRunner) SendPendingDecisionReminders() {
	jr.runWithRecovery("SendPendingDecisionReminders", func() {
		ctx := context.Background()
		cutoff := time.Now().AddDate(0, 0, -jr.config.Scheduler.PendingReminderAfterDays)

		query := `
			SELECT p.id, p.name, u.email, u.name, count(a.id)
			FROM applications a
			JOIN projects p ON p.id = a.project_id
			JOIN users u ON u.nric = p.manager_nric
			WHERE a.status = 'PENDING'
			  AND a.applied_on < $1
			GROUP BY p.id, p.name, u.email, u.name
		`

		rows, err := jr.db.QueryContext(ctx, query, cutoff)
		if err != nil {
			logger.Error("Failed to query stale pending applications", "error", err)
			return
		}
		defer rows.Close()

		sent := 0
		for rows.Next() {
			var projectID int32
			var projectName, managerEmail, managerName string
			var pending int32
			if err := rows.Scan(&projectID, &projectName, &managerEmail, &managerName, &pending); err != nil {
				logger.Error("Failed to scan pending reminder row", "error", err)
				continue
			}
			if err := jr.services.Email.SendPendingDecisionReminder(ctx, managerEmail, managerName, projectName, pending); err != nil {
				logger.Error("Failed to send pending decision reminder",
					"project_id", projectID, "manager", managerEmail, "error", err)
				continue
			}
			logger.Debug("Sent pending decision reminder",
				"project_id", projectID, "manager", managerEmail, "pending", pending)
			sent++
		}
		if err := rows.Err(); err != nil {
			logger.Error("Error iterating pending reminder rows", "error", err)
			return
		}

		logger.Info("Sent pending decision reminders", "count", sent,
			"older_than", fmt.Sprintf("%dd", jr.config.Scheduler.PendingReminderAfterDays))
	})
}
