package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var timelineLimit int

var timelineCmd = &cobra.Command{
	Use:   "timeline <user-id>",
	Short: "Show a user's audit timeline",
	Args:  cobra.ExactArgs(1),
	RunE:  runTimeline,
}

func init() {
	timelineCmd.Flags().IntVar(&timelineLimit, "limit", 20, "number of most recent events to show (0 = all)")
}

func runTimeline(cmd *cobra.Command, args []string) error {
	_, db, eng, err := setup()
	if err != nil {
		return err
	}
	defer db.Close()

	events, err := eng.GetTimeline(args[0], timelineLimit)
	if err != nil {
		return err
	}

	for _, ev := range events {
		tags := 0
		for _, obs := range ev.ExtractedTags {
			tags += len(obs)
		}
		fmt.Printf("%s  %s  %d observations in %d categories\n",
			ev.Timestamp, ev.EventType, tags, len(ev.ExtractedTags))
	}
	fmt.Printf("%d events\n", len(events))
	return nil
}
