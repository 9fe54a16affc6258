package main

import (
	"fmt"
	"io"
	"strings"

	"physio-notes-be/pkg/soap"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func newEncountersCmd(opts *rootOptions) *cobra.Command {
	encounters := &cobra.Command{Use: "encounters", Short: "Saved encounter commands"}

	var limit int
	list := &cobra.Command{
		Use:   "list",
		Short: "List the newest encounters",
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, _ := newClient(opts)
			items, err := client.ListEncounters(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(items) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no encounters")
				return nil
			}
			for _, e := range items {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\t%s\t%s\n", e.ID, e.CreatedAt.Format("2006-01-02 15:04"), e.Status, e.TemplateType, e.SessionTitle)
			}
			return nil
		},
	}
	list.Flags().IntVar(&limit, "limit", 20, "number of encounters (max 100)")
	encounters.AddCommand(list)

	var id string
	show := &cobra.Command{
		Use:   "show --id <id>",
		Short: "Show one encounter",
		RunE: func(cmd *cobra.Command, _ []string) error {
			encounterID, err := uuid.Parse(strings.TrimSpace(id))
			if err != nil {
				return fmt.Errorf("--id must be an encounter id")
			}
			client, _ := newClient(opts)
			e, err := client.GetEncounter(cmd.Context(), encounterID)
			if err != nil {
				return err
			}
			printEncounter(cmd.OutOrStdout(), e)
			return nil
		},
	}
	show.Flags().StringVar(&id, "id", "", "encounter id")
	encounters.AddCommand(show)

	return encounters
}

func printEncounter(out io.Writer, e *soap.Encounter) {
	_, _ = fmt.Fprintf(out, "id: %s\ntitle: %s\ntemplate: %s\nstatus: %s\ncreated: %s\n", e.ID, e.SessionTitle, e.TemplateType, e.Status, e.CreatedAt.Format("2006-01-02 15:04"))
	if e.SOAP == nil {
		return
	}
	for _, name := range soap.SectionNames {
		_, _ = fmt.Fprintf(out, "\n%s\n", strings.ToUpper(name))
		printSection(out, *e.SOAP.Section(name))
	}
}

func printSection(out io.Writer, s soap.Section) {
	if s.IsEmpty() {
		_, _ = fmt.Fprintln(out, "  (empty)")
		return
	}
	switch s.Kind {
	case soap.KindText:
		_, _ = fmt.Fprintf(out, "  %s\n", s.Content)
	case soap.KindList:
		for _, item := range s.Items {
			_, _ = fmt.Fprintf(out, "  - %s\n", item)
		}
	case soap.KindTable:
		for _, c := range s.Categories {
			_, _ = fmt.Fprintf(out, "  %s\n", c.Name)
			for _, r := range c.Rows {
				line := fmt.Sprintf("    %s: %s", r.Test, r.Result)
				if r.Notes != "" {
					line += " (" + r.Notes + ")"
				}
				_, _ = fmt.Fprintln(out, line)
			}
		}
	case soap.KindFields:
		for _, f := range s.Fields {
			label := f.Label
			if label == "" {
				label = f.ID
			}
			_, _ = fmt.Fprintf(out, "  %s: %s\n", label, f.Value)
		}
	}
}
