package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Show recent events",
	RunE:  runEventsCmd,
}

func init() {
	rootCmd.AddCommand(eventsCmd)
	eventsCmd.Flags().IntP("limit", "n", 20, "Number of events to show")
	eventsCmd.Flags().Int("offset", 0, "Skip this many recent events")
	eventsCmd.Flags().String("type", "", "Only events of this type (e.g. import.completed)")
	eventsCmd.Flags().String("entity", "", "Only events about this entity type (import, item, album)")
}

func runEventsCmd(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	offset, _ := cmd.Flags().GetInt("offset")
	eventType, _ := cmd.Flags().GetString("type")
	entity, _ := cmd.Flags().GetString("entity")

	client := NewClient(serverURL)
	events, err := client.Events(EventFilter{Type: eventType, EntityType: entity}, limit, offset)
	if err != nil {
		return fmt.Errorf("failed to fetch events: %w", err)
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		return printJSON(out, events)
	}

	if len(events.Items) == 0 {
		_, _ = fmt.Fprintln(out, "No events")
		return nil
	}

	_, _ = fmt.Fprintf(out, "Recent Events (%d of %d):\n\n", len(events.Items), events.Total)
	rows := make([][]string, 0, len(events.Items))
	for _, e := range events.Items {
		t, _ := time.Parse(time.RFC3339, e.OccurredAt)
		entity := e.EntityType
		if e.EntityID != 0 {
			entity += "/" + strconv.FormatInt(e.EntityID, 10)
		}
		rows = append(rows, []string{formatTimeAgo(t), e.EventType, entity})
	}
	renderTable(out, []string{"TIME", "TYPE", "ENTITY"}, rows)
	return nil
}
