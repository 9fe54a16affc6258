package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"physio-notes-be/internal/config"
	"physio-notes-be/internal/phiclient"
	"physio-notes-be/pkg/aiservice"
	"physio-notes-be/pkg/flow"
	"physio-notes-be/pkg/llm/factory"
	"physio-notes-be/pkg/recorder"
	"physio-notes-be/pkg/template"
	"physio-notes-be/pkg/transcription"

	"github.com/gabriel-vasile/mimetype"
	"github.com/spf13/cobra"
)

// newFlow wires the recording flow against the API: the backend stores the
// encounters while transcription and generation run locally.
func newFlow(cfg *config.Config, client *phiclient.Client, source recorder.Source) (*flow.Flow, error) {
	llmProvider, err := factory.NewLLMProvider(factory.Config{
		Provider: cfg.Ai.LLMProvider,
		Model:    cfg.Ai.LLMModel,
		BaseURL:  cfg.LLMBaseURL(),
		APIKey:   cfg.LLMAPIKey(),
	})
	if err != nil {
		return nil, err
	}
	transcriptionProvider, err := transcription.NewProvider(transcription.Config{
		Provider: cfg.Transcription.Provider,
		Model:    cfg.Transcription.Model,
		APIKey:   cfg.TranscriptionAPIKey(),
		BaseURL:  cfg.Keys.OpenAIBaseURL,
	})
	if err != nil {
		return nil, err
	}

	return flow.New(flow.Dependencies{
		Recorder:    recorder.New(source),
		Transcriber: transcription.NewClient(transcriptionProvider),
		Templates:   template.NewManager(client),
		Completer:   aiservice.New(llmProvider, cfg.Ai.LLMModel),
		Store:       client.EncounterStore(),
	}), nil
}

func newRecordCmd(opts *rootOptions) *cobra.Command {
	var templateType, title, inputFormat, device string
	var duration time.Duration

	cmd := &cobra.Command{
		Use:   "record --template <type> --title <title>",
		Short: "Record from the microphone and generate a note",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(title) == "" {
				return fmt.Errorf("--title is required")
			}
			client, cfg := newClient(opts)
			f, err := newFlow(cfg, client, recorder.NewFFmpegSource("", inputFormat, device))
			if err != nil {
				return err
			}
			if err := f.SelectTemplate(templateType); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			if err := f.StartRecording(ctx, ""); err != nil {
				var captureErr *recorder.CaptureError
				if errors.As(err, &captureErr) {
					return fmt.Errorf("%s: %w", recorder.UserMessage(captureErr.Kind), err)
				}
				return err
			}

			out := cmd.OutOrStdout()
			if duration > 0 {
				_, _ = fmt.Fprintf(out, "recording for %s...\n", duration)
			} else {
				_, _ = fmt.Fprintln(out, "recording... press Enter to stop")
			}
			waitForStop(ctx, cmd.InOrStdin(), duration)

			blob, err := f.StopRecording()
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(out, "captured %d bytes, generating note...\n", blob.Size())

			return submit(context.Background(), cmd, f, title)
		},
	}
	cmd.Flags().StringVar(&templateType, "template", "general", "template type (built-in key or custom-<id>)")
	cmd.Flags().StringVar(&title, "title", "", "session title")
	cmd.Flags().StringVar(&inputFormat, "input-format", "pulse", "ffmpeg input format (pulse, alsa, avfoundation, dshow)")
	cmd.Flags().StringVar(&device, "device", "default", "ffmpeg input device")
	cmd.Flags().DurationVar(&duration, "duration", 0, "stop after this long instead of waiting for Enter")
	return cmd
}

func newGenerateCmd(opts *rootOptions) *cobra.Command {
	var templateType, title, file string

	cmd := &cobra.Command{
		Use:   "generate --file <audio> --template <type> --title <title>",
		Short: "Generate a note from an audio file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(file) == "" {
				return fmt.Errorf("--file is required")
			}
			if strings.TrimSpace(title) == "" {
				return fmt.Errorf("--title is required")
			}
			data, err := os.ReadFile(file)
			if err != nil {
				return err
			}

			client, cfg := newClient(opts)
			f, err := newFlow(cfg, client, nil)
			if err != nil {
				return err
			}
			if err := f.SelectTemplate(templateType); err != nil {
				return err
			}
			if err := f.StartRecording(cmd.Context(), mimetype.Detect(data).String()); err != nil {
				return err
			}
			if err := f.WriteChunk(data); err != nil {
				return err
			}
			if _, err := f.StopRecording(); err != nil {
				return err
			}
			return submit(cmd.Context(), cmd, f, title)
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "audio file (webm, ogg, mp3, wav, m4a)")
	cmd.Flags().StringVar(&templateType, "template", "general", "template type (built-in key or custom-<id>)")
	cmd.Flags().StringVar(&title, "title", "", "session title")
	return cmd
}

func newSuggestCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "suggest [transcript...]",
		Short: "Suggest a built-in template for a transcript",
		RunE: func(cmd *cobra.Command, args []string) error {
			transcript := strings.Join(args, " ")
			if file != "" {
				data, err := os.ReadFile(file)
				if err != nil {
					return err
				}
				transcript = string(data)
			}
			if strings.TrimSpace(transcript) == "" {
				return fmt.Errorf("a transcript argument or --file is required")
			}

			s := template.SuggestTemplate(transcript)
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "template: %s\nconfidence: %.2f\n", s.TemplateType, s.Confidence)
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "read the transcript from a text file")
	return cmd
}

func submit(ctx context.Context, cmd *cobra.Command, f *flow.Flow, title string) error {
	outcome, err := f.Submit(ctx, title)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(out, "saved encounter %s\n", outcome.Encounter.ID)
	for _, w := range outcome.Warnings {
		_, _ = fmt.Fprintf(out, "warning: %s\n", w)
	}
	printEncounter(out, outcome.Encounter)
	return nil
}

func waitForStop(ctx context.Context, in io.Reader, duration time.Duration) {
	if duration > 0 {
		select {
		case <-ctx.Done():
		case <-time.After(duration):
		}
		return
	}

	enter := make(chan struct{})
	go func() {
		_, _ = bufio.NewReader(in).ReadString('\n')
		close(enter)
	}()
	select {
	case <-ctx.Done():
	case <-enter:
	}
}
