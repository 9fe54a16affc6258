package main

import (
	"fmt"
	"os"

	"physio-notes-be/internal/config"
	"physio-notes-be/internal/phiclient"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type rootOptions struct {
	apiURL string
	token  string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "soapctl",
		Short:         "Record sessions and manage SOAP notes from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.apiURL, "api", envOr("PHI_API_URL", "http://localhost:3000/api"), "API base URL")
	root.PersistentFlags().StringVar(&opts.token, "token", os.Getenv("PHI_TOKEN"), "bearer token (skips Supabase sign-in)")

	root.AddCommand(newRecordCmd(opts))
	root.AddCommand(newGenerateCmd(opts))
	root.AddCommand(newSuggestCmd())
	root.AddCommand(newEncountersCmd(opts))
	root.AddCommand(newTemplatesCmd(opts))
	root.AddCommand(newEventsCmd())
	return root
}

// newClient builds the API client. config.Load also reads .env.
func newClient(opts *rootOptions) (*phiclient.Client, *config.Config) {
	cfg := config.Load()
	client := phiclient.New(phiclient.Config{
		BaseURL:         opts.apiURL,
		Token:           opts.token,
		SupabaseURL:     cfg.Supabase.URL,
		SupabaseAnonKey: cfg.Supabase.AnonKey,
		Email:           os.Getenv("SUPABASE_EMAIL"),
		Password:        os.Getenv("SUPABASE_PASSWORD"),
	})
	return client, cfg
}

func envOr(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}
