package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset <user-id>",
	Short: "Replace a user's profile with a fresh empty one",
	Args:  cobra.ExactArgs(1),
	RunE:  runReset,
}

func runReset(cmd *cobra.Command, args []string) error {
	_, db, eng, err := setup()
	if err != nil {
		return err
	}
	defer db.Close()

	if _, err := eng.Reset(args[0]); err != nil {
		return err
	}
	fmt.Printf("reset profile for %s\n", args[0])
	return nil
}
