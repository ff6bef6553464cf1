package service

import (
	"context"
	"fmt"

	"bto-portal-backend/internal/domain"

	"gopkg.in/gomail.v2"
)

type emailService struct {
	host     string
	port     int
	username string
	password string
	from     string
}

func NewEmailService(host string, port int, username, password, from string) EmailService {
	return &emailService{
		host:     host,
		port:     port,
		username: username,
		password: password,
		from:     from,
	}
}

func (s *emailService) send(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	d := gomail.NewDialer(s.host, s.port, s.username, s.password)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email via gomail: %w", err)
	}
	return nil
}

func (s *emailService) SendApplicationReceipt(ctx context.Context, email, name, projectName string, flatType domain.FlatType) error {
	body := fmt.Sprintf("Hello %s,\n\nWe have received your application for a %s flat in %s. It is pending review and you will be notified of the outcome.\n\nBest regards,\nThe BTO Portal Team",
		name, flatType, projectName)
	return s.send(email, fmt.Sprintf("Application Received - %s", projectName), body)
}

func (s *emailService) SendApplicationOutcome(ctx context.Context, email, name, projectName string, status domain.ApplicationStatus) error {
	body := fmt.Sprintf("Hello %s,\n\nYour application for %s has been decided. New status: %s.\n\nBest regards,\nThe BTO Portal Team",
		name, projectName, status)
	return s.send(email, fmt.Sprintf("Application Outcome - %s", projectName), body)
}

func (s *emailService) SendBookingConfirmation(ctx context.Context, email, name, projectName, flatID string) error {
	body := fmt.Sprintf("Hello %s,\n\nFlat %s in %s has been booked under your application. Congratulations!\n\nBest regards,\nThe BTO Portal Team",
		name, flatID, projectName)
	return s.send(email, fmt.Sprintf("Booking Confirmed - %s", projectName), body)
}

func (s *emailService) SendWithdrawalOutcome(ctx context.Context, email, name, projectName string, approved bool) error {
	outcome := "rejected"
	if approved {
		outcome = "approved"
	}
	body := fmt.Sprintf("Hello %s,\n\nYour withdrawal request for %s has been %s.\n\nBest regards,\nThe BTO Portal Team",
		name, projectName, outcome)
	return s.send(email, fmt.Sprintf("Withdrawal Request %s - %s", outcome, projectName), body)
}

func (s *emailService) SendRegistrationOutcome(ctx context.Context, email, name, projectName string, status domain.RegistrationStatus) error {
	body := fmt.Sprintf("Hello %s,\n\nYour registration to handle %s has been decided. New status: %s.\n\nBest regards,\nThe BTO Portal Team",
		name, projectName, status)
	return s.send(email, fmt.Sprintf("Officer Registration Outcome - %s", projectName), body)
}

func (s *emailService) SendPendingDecisionReminder(ctx context.Context, email, name, projectName string, pendingCount int32) error {
	body := fmt.Sprintf("Hello %s,\n\nProject %s has %d application(s) pending your decision.\n\nBest regards,\nThe BTO Portal Team",
		name, projectName, pendingCount)
	return s.send(email, fmt.Sprintf("Pending Applications Reminder - %s", projectName), body)
}
