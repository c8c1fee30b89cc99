package services

import (
	"context"
	"fmt"
)

// EmailSender is the send(to, subject, html) capability; mail delivery
// itself is an external collaborator.
type EmailSender interface {
	Send(ctx context.Context, to, subject, html string) error
}

func verificationEmailHTML(name, verificationURL string) string {
	return fmt.Sprintf(`
	<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
		<h2>Welcome to Task Manager App, %s!</h2>
		<p>Please verify your email address to activate your account.</p>
		<p><a href="%s">Verify Email</a></p>
		<p>If the link doesn't work, copy and paste it into your browser:</p>
		<p>%s</p>
		<p>This link will expire in 24 hours.</p>
		<p>Best regards,<br>Task Manager Team</p>
	</div>`, name, verificationURL, verificationURL)
}

func welcomeEmailHTML(name, email, phone string) string {
	return fmt.Sprintf(`
	<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
		<h2>Welcome to Task Manager App, %s!</h2>
		<p>Your account has been successfully verified. Here are your registration details:</p>
		<ul>
			<li><strong>Name:</strong> %s</li>
			<li><strong>Email:</strong> %s</li>
			<li><strong>Phone:</strong> %s</li>
		</ul>
		<p>Start managing your tasks now!</p>
		<p>Best regards,<br>Task Manager Team</p>
	</div>`, name, name, email, phone)
}

func passwordResetEmailHTML(name, resetURL string) string {
	return fmt.Sprintf(`
	<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
		<h2>Password Reset Request</h2>
		<p>Hi %s,</p>
		<p>We received a request to reset your password. Use the link below to reset it:</p>
		<p><a href="%s">Reset Password</a></p>
		<p>This link will expire in 1 hour.</p>
		<p>If you didn't request a password reset, please ignore this email.</p>
		<p>Best regards,<br>Task Manager Team</p>
	</div>`, name, resetURL)
}
