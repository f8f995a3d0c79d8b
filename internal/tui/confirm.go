package tui

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"
)

// ConfirmTagOverwrite asks whether an existing tag should be moved to the
// release commit. Aborting the prompt counts as no.
func ConfirmTagOverwrite(tagName string) (bool, error) {
	var overwrite bool

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Tag %s already exists. Replace it?", tagName)).
				Description("The existing tag will point to the new release commit.").
				Affirmative("Replace").
				Negative("Keep").
				Value(&overwrite),
		),
	).WithTheme(NewHuhTheme())

	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return false, nil
		}
		return false, err
	}
	return overwrite, nil
}
