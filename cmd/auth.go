package main

import (
	"context"
	"fmt"
	"syscall"

	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"pushcast/internal/api"
	"pushcast/internal/shared"
	"pushcast/internal/validate"
)

// AuthLogin signs in with email and password and persists the session.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	email := cmd.String("email")
	if !validate.IsValidEmail(email) {
		return fmt.Errorf("%w: Bitte gib eine gültige Email-Adresse ein", shared.ErrInvalidInput)
	}

	password := cmd.String("password")
	if password == "" {
		r.writePlain("Passwort: ")
		raw, err := term.ReadPassword(int(syscall.Stdin))
		r.writePlain("\n")
		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}
		password = string(raw)
	}

	user, err := r.session.Login(ctx, email, password)
	if err != nil {
		return fmt.Errorf("%w: %s", shared.ErrAuthFailed, api.Detail(err, "Login fehlgeschlagen"))
	}

	r.logger.Info("login successful", "user", user.UserID)
	r.writePlain("✓ Angemeldet als %s\n", user.Email)
	return nil
}

// AuthRegister creates a new account. The session stays anonymous; the user
// signs in after verifying their email.
func (r *Runner) AuthRegister(ctx context.Context, cmd *cli.Command) error {
	email := cmd.String("email")
	password := cmd.String("password")
	username := cmd.String("username")

	if !validate.IsValidEmail(email) {
		return fmt.Errorf("%w: Bitte gib eine gültige Email-Adresse ein", shared.ErrInvalidInput)
	}
	if !validate.IsStrongPassword(password) {
		return fmt.Errorf("%w: Passwort muss mindestens 8 Zeichen, Groß- und Kleinbuchstaben sowie eine Zahl enthalten", shared.ErrInvalidInput)
	}

	message, err := r.session.Register(ctx, email, password, username)
	if err != nil {
		return fmt.Errorf("%w: %s", shared.ErrAuthFailed, api.Detail(err, "Registrierung fehlgeschlagen"))
	}

	r.writePlain("✓ %s\n", message)
	return nil
}

// AuthLogout ends the session locally and best-effort on the server.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	r.session.Logout(ctx)
	r.platforms.Reset()

	r.writePlain("✓ Abgemeldet\n")
	return nil
}

// AuthWhoami prints the current session state.
func (r *Runner) AuthWhoami(ctx context.Context, cmd *cli.Command) error {
	if !r.session.IsAuthenticated() {
		r.writePlain("Nicht angemeldet\n")
		return nil
	}

	user := r.session.User()
	if cmd.Bool("json") {
		return r.writeJSON(user, cmd.Bool("pretty"))
	}

	r.writePlain("Angemeldet als %s\n", user.Email)
	if user.Username != "" {
		r.writePlain("Benutzername: %s\n", user.Username)
	}
	if user.IsVerified {
		r.writePlain("Email: ✓ bestätigt\n")
	} else {
		r.writePlain("Email: ✗ nicht bestätigt\n")
	}
	return nil
}

// AuthRefresh re-fetches the user profile from the backend.
func (r *Runner) AuthRefresh(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAuth(); err != nil {
		return err
	}

	user, err := r.session.RefreshUser(ctx)
	if err != nil {
		return fmt.Errorf("failed to refresh profile: %w", err)
	}

	r.logger.Info("profile refreshed", "user", user.UserID)
	r.writePlain("✓ Profil aktualisiert (%s)\n", user.Email)
	return nil
}
