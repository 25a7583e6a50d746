package command

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"example.com/mostactive/internal/domain"
)

const usageLine = AppName + " -f <path-to-cookie-file>... -d <YYYY-MM-DD>"

var errMissingDate = errors.New("missing target date")

func writeCommandError(cmd *cobra.Command, err error) error {
	fmt.Fprintf(cmd.ErrOrStderr(), "Error: %s\n", err.Error())

	if isUsageError(err) {
		fmt.Fprintf(cmd.ErrOrStderr(), "Usage: %s\n", usageLine)
	}
	return err
}

func isUsageError(err error) bool {
	return errors.Is(err, domain.ErrNoSources) ||
		errors.Is(err, domain.ErrInvalidDate) ||
		errors.Is(err, errMissingDate)
}
