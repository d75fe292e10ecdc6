package email

import (
	"fmt"
	"strings"
	"time"
)

// CompanyName appears in subjects and email bodies.
const CompanyName = "Contactly"

// ActivationEmail builds the subject and HTML body for the account
// activation mail carrying a one-time verification code.
func ActivationEmail(to, code string, ttl time.Duration) (subject, body string) {
	subject = fmt.Sprintf("[%s] - Activate your account", CompanyName)
	body = fmt.Sprintf(`
		<p>
			Hi %s, you are receiving this email because %s is requesting to use
			this address on their <b>%s</b> account.
		</p>
		<p>
			To activate your account, enter the following one time verification code:
		</p>
		<b style="font-size: 20px;">%s</b>
		<p>
			<b>Note:</b> This verification code is valid for only %s. Please do not
			share this email with anyone to ensure the security of your account.
		</p>`,
		to, to, CompanyName, code, FormatDuration(ttl))
	return subject, body
}

// ResetEmail builds the subject and HTML body for the password reset mail
// linking to the client's reset page.
func ResetEmail(to, link string, ttl time.Duration) (subject, body string) {
	subject = fmt.Sprintf("[%s] - Password Reset", CompanyName)
	body = fmt.Sprintf(`
		<p>
			You are receiving this email because a request to reset the password
			for your <b>%s</b> account has been received.
		</p>
		<p>
			To reset your password %s, click on the button below:
		</p>
		<button style="background-color: #4CAF50; border: none; color: white; padding: 15px 32px; text-align: center; font-size: 20px; border-radius: 12px;">
			<a href="%s" style="color: white; text-decoration: none;">Reset Password</a>
		</button>
		<p>
			<b>Note:</b> This link is valid for only %s. Please do not share this
			email with anyone to ensure the security of your account.
		</p>`,
		CompanyName, to, link, FormatDuration(ttl))
	return subject, body
}

// FormatDuration renders a duration the way a human reads it in an email:
// "3 hours", "1 hour, 30 minutes", "45 seconds".
func FormatDuration(d time.Duration) string {
	d = d.Round(time.Second)

	parts := []string{}
	if h := int(d.Hours()); h > 0 {
		parts = append(parts, plural(h, "hour"))
		d -= time.Duration(h) * time.Hour
	}
	if m := int(d.Minutes()); m > 0 {
		parts = append(parts, plural(m, "minute"))
		d -= time.Duration(m) * time.Minute
	}
	if s := int(d.Seconds()); s > 0 {
		parts = append(parts, plural(s, "second"))
	}
	if len(parts) == 0 {
		return "0 seconds"
	}
	return strings.Join(parts, ", ")
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
