// Package validate implements the form validation rules. Every rule for a
// submission runs before the result is returned, so one submission can
// surface several field errors at once. Rules are an explicit ordered list of
// predicate+message pairs writing into a field→message map; a later rule for
// the same field overwrites an earlier one.
package validate

import (
	"net/mail"
	"unicode"

	"account-portal/internal/auth"
	"account-portal/internal/domain"
)

// Field keys used in error maps. They match the form field names.
const (
	FieldEmail           = "email"
	FieldUsername        = "username"
	FieldPassword        = "password"
	FieldConfirmPassword = "confirmPassword"
	FieldOldPassword     = "oldPassword"
	FieldFirstQuestion   = "firstQuestion"
	FieldSecondQuestion  = "secondQuestion"
	FieldFirstAnswer     = "firstAnswer"
	FieldSecondAnswer    = "secondAnswer"
)

// User-facing messages.
const (
	MsgEmailRequired        = "Email is required"
	MsgEmailInvalid         = "Invalid email format"
	MsgEmailNotFound        = "Email is not found"
	MsgEmailTaken           = "Email already registered"
	MsgUsernameRequired     = "Username is required"
	MsgUsernameTooShort     = "username must be at least 3 letters long"
	MsgPasswordRequired     = "Password is required"
	MsgPasswordInvalid      = "Password must be at least 6 characters long, with at least one letter and one number"
	MsgPasswordIncorrect    = "Password is incorrect"
	MsgConfirmRequired      = "Confirm Password is required"
	MsgPasswordsDontMatch   = "Passwords do not match"
	MsgOldPasswordMismatch  = "the password you entered does not match the old password"
	MsgNewPasswordSameAsOld = "New password must be different from the old password"
	MsgQuestionsNotDistinct = "please choose two different questions"
	MsgFirstQuestionReq     = "Choosing the first question is required"
	MsgSecondQuestionReq    = "Choosing the second question is required"
	MsgFirstAnswerReq       = "Answer to the first question is required"
	MsgSecondAnswerReq      = "Answer to the second question is required"
	MsgWrongAnswers         = "one or both of the answers are incorrect"
	MsgWrongQuestions       = "one or both of the questions you chose are incorrect"
	MsgAdminRecoveryDenied  = "cannot change admins password"
)

// Errors maps a form field name to its validation message.
type Errors map[string]string

// RegisterForm carries the registration submission, already trimmed.
type RegisterForm struct {
	Email           string
	Username        string
	Password        string
	ConfirmPassword string
	FirstQuestion   string
	FirstAnswer     string
	SecondQuestion  string
	SecondAnswer    string
}

// ForgotPasswordForm carries the self-service recovery submission.
type ForgotPasswordForm struct {
	Email           string
	Password        string
	ConfirmPassword string
	FirstQuestion   string
	FirstAnswer     string
	SecondQuestion  string
	SecondAnswer    string
}

// PasswordValid reports whether p is at least 6 characters long and contains
// at least one letter and one number. Single pass, early exit once both are
// seen.
func PasswordValid(p string) bool {
	if len(p) < 6 {
		return false
	}

	hasLetter := false
	hasNumber := false
	for _, c := range p {
		if unicode.IsLetter(c) {
			hasLetter = true
		} else if unicode.IsDigit(c) {
			hasNumber = true
		}
		if hasLetter && hasNumber {
			return true
		}
	}
	return false
}

// Register validates a registration submission. emailTaken reports whether a
// user with the submitted email already exists.
func Register(form RegisterForm, emailTaken bool) Errors {
	errs := Errors{}

	if form.ConfirmPassword == "" {
		errs[FieldConfirmPassword] = MsgConfirmRequired
	}
	if !PasswordValid(form.Password) {
		errs[FieldPassword] = MsgPasswordInvalid
	}
	if form.FirstQuestion == form.SecondQuestion {
		errs[FieldFirstQuestion] = MsgQuestionsNotDistinct
	}

	addPresenceErrors(errs, form)

	if form.Password != form.ConfirmPassword {
		errs[FieldConfirmPassword] = MsgPasswordsDontMatch
	}
	if emailTaken {
		errs[FieldEmail] = MsgEmailTaken
	}

	return errs
}

// presence rules, evaluated in order; each pair is predicate + field + message.
func addPresenceErrors(errs Errors, form RegisterForm) {
	rules := []struct {
		failed  bool
		field   string
		message string
	}{
		{form.Email == "", FieldEmail, MsgEmailRequired},
		{form.Email != "" && !emailSyntaxValid(form.Email), FieldEmail, MsgEmailInvalid},
		{form.Username == "", FieldUsername, MsgUsernameRequired},
		{form.Username != "" && len(form.Username) < 3, FieldUsername, MsgUsernameTooShort},
		{form.Password == "", FieldPassword, MsgPasswordRequired},
		{form.FirstQuestion == "", FieldFirstQuestion, MsgFirstQuestionReq},
		{form.SecondQuestion == "", FieldSecondQuestion, MsgSecondQuestionReq},
		{form.FirstAnswer == "", FieldFirstAnswer, MsgFirstAnswerReq},
		{form.SecondAnswer == "", FieldSecondAnswer, MsgSecondAnswerReq},
	}
	for _, rule := range rules {
		if rule.failed {
			errs[rule.field] = rule.message
		}
	}
}

// ForgotPassword validates a recovery submission against the stored user and
// security QA. user is nil when the submitted email matched no account. The
// admin account is excluded from self-service recovery outright.
func ForgotPassword(h auth.Hasher, user *domain.User, current *domain.SecurityQA, form ForgotPasswordForm) Errors {
	errs := Errors{}

	switch {
	case user == nil:
		errs[FieldEmail] = MsgEmailNotFound
	case user.Role == domain.RoleAdmin:
		errs[FieldEmail] = MsgAdminRecoveryDenied
	default:
		checkQuestionsAnswers(errs, h, current, form)
		checkNewPassword(errs, h, user.PasswordHash, form.Password, form.ConfirmPassword)
	}

	return errs
}

// ResetPassword validates an authenticated password change.
func ResetPassword(h auth.Hasher, user *domain.User, oldPassword, newPassword, confirmPassword string) Errors {
	errs := Errors{}

	if !h.Verify(oldPassword, user.PasswordHash) {
		errs[FieldOldPassword] = MsgOldPasswordMismatch
	}
	checkNewPassword(errs, h, user.PasswordHash, newPassword, confirmPassword)

	return errs
}

// checkNewPassword enforces the shared rules for any password change: the new
// password must differ from the current one (hash-verified), must match its
// confirmation, and must satisfy PasswordValid.
func checkNewPassword(errs Errors, h auth.Hasher, currentHash, newPassword, confirmPassword string) {
	if h.Verify(newPassword, currentHash) {
		errs[FieldPassword] = MsgNewPasswordSameAsOld
	}
	if newPassword != confirmPassword {
		errs[FieldConfirmPassword] = MsgPasswordsDontMatch
	}
	if !PasswordValid(newPassword) {
		errs[FieldPassword] = MsgPasswordInvalid
	}
}

func checkQuestionsAnswers(errs Errors, h auth.Hasher, current *domain.SecurityQA, form ForgotPasswordForm) {
	if current == nil {
		errs[FieldFirstAnswer] = MsgWrongAnswers
		errs[FieldFirstQuestion] = MsgWrongQuestions
		return
	}

	if !h.Verify(form.FirstAnswer, current.FirstAnswerHash) ||
		!h.Verify(form.SecondAnswer, current.SecondAnswerHash) {
		errs[FieldFirstAnswer] = MsgWrongAnswers
	}
	if current.FirstQuestion != form.FirstQuestion || current.SecondQuestion != form.SecondQuestion {
		errs[FieldFirstQuestion] = MsgWrongQuestions
	}
}

func emailSyntaxValid(email string) bool {
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}
