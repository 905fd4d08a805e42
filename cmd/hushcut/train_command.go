package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"hushcut/internal/training"
)

func newTrainCommand(ctx *commandContext) *cobra.Command {
	trainCmd := &cobra.Command{
		Use:   "train",
		Short: "Prepare samples and train the adaptive classifier",
	}

	trainCmd.AddCommand(newTrainPrepareCommand(ctx))
	trainCmd.AddCommand(newTrainRunCommand(ctx))
	return trainCmd
}

func newTrainPrepareCommand(ctx *commandContext) *cobra.Command {
	var sessionDir string

	cmd := &cobra.Command{
		Use:   "prepare <file>",
		Short: "Slice a source file into clips and write an annotations template",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			sourcePath, err := filepath.Abs(args[0])
			if err != nil {
				return err
			}
			if _, err := os.Stat(sourcePath); err != nil {
				return fmt.Errorf("source file: %w", err)
			}
			if sessionDir == "" {
				sessionDir = filepath.Join(cfg.Paths.StagingDir,
					"training-"+time.Now().UTC().Format("20060102T150405"))
			}

			logger, err := buildLogger(cfg, "warn")
			if err != nil {
				return err
			}
			collab, err := buildCollaborators(cfg)
			if err != nil {
				return err
			}
			session := training.NewSession(cfg, collab.extractor, collab.transcriber, collab.classifier, collab.catalog, logger)

			annotationsPath, err := session.PrepareSamples(cmd.Context(), sourcePath, sessionDir)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Annotations written to %s\n", annotationsPath)
			fmt.Fprintln(cmd.OutOrStdout(), "Review the suggested labels, then run `hushcut train run` with that file")
			return nil
		},
	}

	cmd.Flags().StringVar(&sessionDir, "dir", "", "Session directory for clips and annotations")
	return cmd
}

func newTrainRunCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "run <annotations-file>",
		Short: "Train the classifier from a labeled annotations file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			annotationsPath, err := filepath.Abs(args[0])
			if err != nil {
				return err
			}

			logger, err := buildLogger(cfg, "warn")
			if err != nil {
				return err
			}
			collab, err := buildCollaborators(cfg)
			if err != nil {
				return err
			}
			session := training.NewSession(cfg, collab.extractor, collab.transcriber, collab.classifier, collab.catalog, logger)

			report, err := session.Train(cmd.Context(), annotationsPath)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Trained on %d samples (%d profanity, %d normal)\n",
				report.SampleCount, report.PositiveCount, report.NegativeCount)
			fmt.Fprintf(out, "Validation accuracy: %s\n", formatConfidence(report.Accuracy))
			return nil
		},
	}
}
