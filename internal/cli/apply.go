package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lazypower/persona/internal/profile"
)

var applyCmd = &cobra.Command{
	Use:   "apply <user-id> <batch.json>",
	Short: "Apply an observation batch from a JSON file",
	Long:  "Reads a category → observations mapping from a JSON file and applies it to the user's profile as one update cycle. Useful for batch jobs and replaying extraction output.",
	Args:  cobra.ExactArgs(2),
	RunE:  runApply,
}

func runApply(cmd *cobra.Command, args []string) error {
	userID, path := args[0], args[1]

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read batch: %w", err)
	}
	var batch map[string][]profile.Observation
	if err := json.Unmarshal(data, &batch); err != nil {
		return fmt.Errorf("parse batch: %w", err)
	}

	_, db, eng, err := setup()
	if err != nil {
		return err
	}
	defer db.Close()

	p, err := eng.ApplyObservations(userID, batch)
	if err != nil {
		return err
	}

	fmt.Printf("applied %d categories to %s (maturity %.2f, interaction %d)\n",
		len(batch), userID, p.ProfileMaturity, p.TotalInteractions)
	return nil
}
