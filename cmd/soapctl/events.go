package main

import (
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"physio-notes-be/internal/config"
	"physio-notes-be/pkg/events"
	natspkg "physio-notes-be/pkg/nats"

	"github.com/spf13/cobra"
)

func newEventsCmd() *cobra.Command {
	var (
		natsURL string
		since   time.Duration
	)
	cmd := &cobra.Command{
		Use:   "events",
		Short: "Follow encounter events from NATS until interrupted",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if natsURL == "" {
				natsURL = config.Load().App.NatsURL
			}
			sub, err := natspkg.NewSubscriber(natsURL)
			if err != nil {
				return err
			}
			defer sub.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			var start time.Time
			if since > 0 {
				start = time.Now().Add(-since)
			}
			out := cmd.OutOrStdout()
			return sub.TailEncounters(ctx, start,
				func(ev events.EncounterEvent) { _, _ = fmt.Fprintln(out, formatEvent(ev)) },
				func(err error) { _, _ = fmt.Fprintln(cmd.ErrOrStderr(), "skip:", err) },
			)
		},
	}
	cmd.Flags().StringVar(&natsURL, "nats", "", "NATS URL (default NATS_URL)")
	cmd.Flags().DurationVar(&since, "since", 0, "replay events newer than this, e.g. 1h")
	return cmd
}

func formatEvent(ev events.EncounterEvent) string {
	return fmt.Sprintf("%s\t%s\t%s\t%s", ev.OccurredAt.Local().Format("2006-01-02 15:04:05"), ev.Type, ev.EncounterID, ev.TemplateType)
}
