package ui

import (
	"fmt"
	"io"
	"net/mail"
	"strings"

	"github.com/charmbracelet/huh"
)

// ValidateName rejects blank names.
func ValidateName(s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("full name is required")
	}
	return nil
}

// ValidateEmail rejects blank or malformed addresses.
func ValidateEmail(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return fmt.Errorf("email is required")
	}
	if _, err := mail.ParseAddress(s); err != nil {
		return fmt.Errorf("invalid email %q", s)
	}
	return nil
}

// RunMemberForm asks for the fields of a new team member. Values already set
// are used as defaults.
func RunMemberForm(fullName, email *string) error {
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Full name").
				Placeholder("Jane Doe").
				Value(fullName).
				Validate(ValidateName),

			huh.NewInput().
				Title("Email").
				Placeholder("jane.doe@example.com").
				Value(email).
				Validate(ValidateEmail),
		),
	).WithTheme(huh.ThemeCatppuccin())

	if err := form.Run(); err != nil {
		return err
	}

	*fullName = strings.TrimSpace(*fullName)
	*email = strings.TrimSpace(*email)
	return nil
}

// PrintTitle prints a section heading.
func PrintTitle(w io.Writer, title string) {
	fmt.Fprintln(w, titleStyle.Render(title))
}

// PrintField prints one aligned label/value line.
func PrintField(w io.Writer, label string, value any) {
	fmt.Fprintf(w, "  %s %v\n", labelStyle.Render(label+":"), value)
}

// PrintSuccess prints a highlighted success line.
func PrintSuccess(w io.Writer, msg string) {
	fmt.Fprintln(w, successStyle.Render(msg))
}

// PrintError prints an error message.
func PrintError(w io.Writer, msg string) {
	fmt.Fprintln(w, errorStyle.Render("Error: "+msg))
}
