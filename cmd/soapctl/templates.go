package main

import (
	"fmt"
	"os"
	"strings"

	"physio-notes-be/pkg/template"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newTemplatesCmd(opts *rootOptions) *cobra.Command {
	templates := &cobra.Command{Use: "templates", Short: "Built-in and custom template commands"}

	templates.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List built-in and custom templates",
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, _ := newClient(opts)
			out := cmd.OutOrStdout()

			builtIns, err := client.ListTemplates(cmd.Context())
			if err != nil {
				return err
			}
			for _, t := range builtIns {
				_, _ = fmt.Fprintf(out, "%s\t%s\n", t.Key, t.Label)
			}

			custom, err := client.ListCustomTemplates(cmd.Context())
			if err != nil {
				return err
			}
			for _, t := range custom {
				_, _ = fmt.Fprintf(out, "%s\t%s\t%d fields\n", t.TemplateType, t.Name, t.FieldCount)
			}
			return nil
		},
	})

	templates.AddCommand(&cobra.Command{
		Use:   "push <file.yaml>",
		Short: "Create or replace a custom template from a YAML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tpl, err := readTemplateFile(args[0])
			if err != nil {
				return err
			}
			client, _ := newClient(opts)
			saved, err := client.SaveCustomTemplate(cmd.Context(), tpl)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "saved %s (%s)\n", saved.Name, saved.TemplateType)
			return nil
		},
	})

	var id string
	del := &cobra.Command{
		Use:   "delete --id <id>",
		Short: "Delete a custom template",
		RunE: func(cmd *cobra.Command, _ []string) error {
			templateID, err := uuid.Parse(strings.TrimSpace(strings.TrimPrefix(id, template.CustomPrefix)))
			if err != nil {
				return fmt.Errorf("--id must be a custom template id")
			}
			client, _ := newClient(opts)
			if err := client.DeleteCustomTemplate(cmd.Context(), templateID); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "deleted")
			return nil
		},
	}
	del.Flags().StringVar(&id, "id", "", "custom template id")
	templates.AddCommand(del)

	return templates
}

// readTemplateFile loads and validates a custom template definition.
func readTemplateFile(path string) (*template.CustomTemplate, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var tpl template.CustomTemplate
	if err := yaml.Unmarshal(raw, &tpl); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if strings.TrimSpace(tpl.Name) == "" {
		return nil, fmt.Errorf("%s: name is required", path)
	}
	if err := tpl.Config.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &tpl, nil
}
