package login

import "fmt"

const (
	MsgLoginSuccessful = "Login successful."
	MsgNotConfirmed    = "Your email has not been confirmed. Please look through your email for a " +
		"Registration Confirmation link and use it to confirm that you own this email address."
	MsgInvalidPassword = "The password is incorrect, please check it and try again or use the Forgot Password feature."
	MsgServerError     = "Server error. Please contact support."
)

func MsgResendFailed(email string) string {
	return fmt.Sprintf("An internal error occurred in sending an email to %s", email)
}

func MsgNoAccount(email string) string {
	return fmt.Sprintf("The email %s does not correspond to an existing account. "+
		"Please verify the email or register as a new account.", email)
}
