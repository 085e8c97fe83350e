package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ferrerallan/christmas-card-chain/internal/card"
	"github.com/ferrerallan/christmas-card-chain/internal/platform/logger"
	"github.com/spf13/cobra"
)

func newGenerateCmd() *cobra.Command {
	var (
		form card.Form
		out  string
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate one card and write it as a PDF",
		Long: `Runs both generation stages for the given recipient, prints the final
message to stdout and writes the PDF to --out, or to christmas_card_<name>.pdf
in the current directory.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			configFile, _ := cmd.Flags().GetString("config")
			cfg, err := loadAppConfig(configFile)
			if err != nil {
				return err
			}

			log := logger.New(cmd.ErrOrStderr(), cfg.Server.LogLevel)

			app, err := newApplication(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}

			generated, err := app.cards.Generate(cmd.Context(), form)
			if err != nil {
				return errors.New(card.UserMessage(err))
			}

			path := out
			if path == "" {
				path = generated.FileName
			}
			if err := os.WriteFile(filepath.Clean(path), generated.PDF, 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", path, err)
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), generated.Message)
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Card written to %s\n", path)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&form.SenderName, "sender", "", "Your name")
	flags.StringVar(&form.Name, "name", "", "Recipient's name")
	flags.StringVar(&form.Relation, "relation", "", "Relationship with the recipient")
	flags.StringVar(&form.Hobbies, "hobbies", "", "Recipient's hobbies or preferences")
	flags.StringVar(&form.Tone, "tone", card.ToneWarm, "Message tone: Warm, Funny, Formal or Heartfelt")
	flags.StringVar(&form.Region, "region", "", "Recipient's country or region")
	flags.StringVarP(&out, "out", "o", "", "Output PDF path")

	return cmd
}
