package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var profileSummary bool

var profileCmd = &cobra.Command{
	Use:   "profile <user-id>",
	Short: "Show a user's profile",
	Args:  cobra.ExactArgs(1),
	RunE:  runProfile,
}

func init() {
	profileCmd.Flags().BoolVar(&profileSummary, "summary", false, "print dimension summaries instead of the full profile")
}

func runProfile(cmd *cobra.Command, args []string) error {
	_, db, eng, err := setup()
	if err != nil {
		return err
	}
	defer db.Close()

	p, err := eng.GetProfile(args[0])
	if err != nil {
		return err
	}

	if !profileSummary {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(p)
	}

	fmt.Printf("user:         %s\n", p.UserID)
	fmt.Printf("maturity:     %.2f\n", p.ProfileMaturity)
	fmt.Printf("interactions: %d\n", p.TotalInteractions)
	for _, s := range p.DimensionSummaries {
		fmt.Printf("  %s/%s: %s (%.2f, %d tags)\n",
			s.DimensionName, s.SubdimensionName, s.DominantTag, s.Confidence, s.TagCount)
	}
	return nil
}
