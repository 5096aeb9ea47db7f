package usecases

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"budget-server/auth"
	"budget-server/common"
	"budget-server/entities"
	"budget-server/repositories"
)

// DeleteConfirmation must be typed verbatim to delete an account.
const DeleteConfirmation = "DELETE MY ACCOUNT"

// minVerificationTokenLength is the only check applied to verification
// tokens. There is no token store behind it.
const minVerificationTokenLength = 32

// Notifier delivers a text message to a phone number.
type Notifier interface {
	Send(ctx context.Context, to, body string) error
}

type DeleteAccountInput struct {
	Password     string `json:"password"`
	Confirmation string `json:"confirmation"`
}

type UpdatePhoneInput struct {
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber" validate:"e164"`
}

type ConfirmEmailInput struct {
	Token string `json:"token"`
	Email string `json:"email"`
}

type AccountUseCase struct {
	users       repositories.UserRepository
	households  repositories.HouseholdRepository
	notifier    Notifier
	revalidator Revalidator
	now         func() time.Time
}

func NewAccountUseCase(gw *repositories.Gateway, notifier Notifier, revalidator Revalidator, now func() time.Time) *AccountUseCase {
	if now == nil {
		now = time.Now
	}
	return &AccountUseCase{
		users:       gw.Users,
		households:  gw.Households,
		notifier:    notifier,
		revalidator: orNoop(revalidator),
		now:         now,
	}
}

// DeleteAccount removes the caller's account after checking the confirmation
// phrase and, for accounts with a local password, the password itself.
func (uc *AccountUseCase) DeleteAccount(ctx context.Context, input DeleteAccountInput) error {
	session, err := requireSession(ctx)
	if err != nil {
		return err
	}
	if input.Password == "" || input.Confirmation == "" {
		return common.Validation("Password and confirmation are required")
	}
	if input.Confirmation != DeleteConfirmation {
		return common.Validation(fmt.Sprintf("Please type %q to confirm", DeleteConfirmation))
	}

	user, err := uc.users.GetByID(ctx, session.UserID)
	if errors.Is(err, common.ErrNotFound) {
		return common.NotFound("User not found")
	}
	if err != nil {
		return fmt.Errorf("load user: %w", err)
	}
	if user.HasPassword() && !auth.CheckPassword(*user.PasswordHash, input.Password) {
		return common.Validation("Incorrect password")
	}

	household, err := uc.households.GetByUserID(ctx, user.ID)
	if err != nil && !errors.Is(err, common.ErrNotFound) {
		return fmt.Errorf("load household: %w", err)
	}

	if err := uc.users.Delete(ctx, user.ID); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return common.NotFound("User not found")
		}
		return fmt.Errorf("delete user: %w", err)
	}
	slog.Info("account deleted", "user_id", user.ID)

	if household != nil {
		uc.revalidator.Revalidate(household.ID, RootPath)
	}
	return nil
}

// UpdatePhone sets the phone number of the account with the given email.
// When the request carries a session, the email must be the caller's own.
func (uc *AccountUseCase) UpdatePhone(ctx context.Context, input UpdatePhoneInput) (*entities.User, error) {
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	input.PhoneNumber = strings.TrimSpace(input.PhoneNumber)
	if input.Email == "" || input.PhoneNumber == "" {
		return nil, common.Validation("Email and phone number are required")
	}
	if err := validateInput(input); err != nil {
		return nil, err
	}
	if session, ok := auth.SessionFrom(ctx); ok && !strings.EqualFold(session.Email, input.Email) {
		return nil, common.Validation("Email does not match the signed-in account")
	}

	user, err := uc.users.UpdatePhone(ctx, input.Email, input.PhoneNumber)
	if errors.Is(err, common.ErrNotFound) {
		return nil, common.Validation("No account found for this email")
	}
	if err != nil {
		return nil, fmt.Errorf("update phone: %w", err)
	}

	if uc.notifier != nil {
		if err := uc.notifier.Send(ctx, input.PhoneNumber, "Your phone number was added to your budget account."); err != nil {
			slog.Warn("phone update notice not sent", "user_id", user.ID, "error", err)
		}
	}
	return user, nil
}

// ConfirmEmail marks the account's email as verified. The token is only
// checked for length.
func (uc *AccountUseCase) ConfirmEmail(ctx context.Context, input ConfirmEmailInput) error {
	if input.Token == "" || input.Email == "" {
		return common.Validation("Token and email are required")
	}
	if len(input.Token) < minVerificationTokenLength {
		return common.Validation("Invalid verification token")
	}
	email, err := url.PathUnescape(input.Email)
	if err != nil {
		return common.Validation("Invalid email")
	}
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := uc.users.GetByEmail(ctx, email)
	if errors.Is(err, common.ErrNotFound) {
		return common.NotFound("User not found")
	}
	if err != nil {
		return fmt.Errorf("load user: %w", err)
	}
	if user.EmailVerified != nil {
		return common.Validation("Email already verified")
	}

	if err := uc.users.MarkEmailVerified(ctx, user.ID, uc.now()); err != nil {
		if errors.Is(err, common.ErrConflict) {
			return common.Validation("Email already verified")
		}
		return fmt.Errorf("verify email: %w", err)
	}
	return nil
}
