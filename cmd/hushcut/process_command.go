package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"hushcut/internal/pipeline"
	"hushcut/internal/render"
)

func newProcessCommand(ctx *commandContext) *cobra.Command {
	var detectOnly bool
	var outputFlag string

	cmd := &cobra.Command{
		Use:   "process <file>",
		Short: "Detect profanity in a file and write a muted copy",
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

			logger, err := buildLogger(cfg, "warn")
			if err != nil {
				return err
			}
			collab, err := buildCollaborators(cfg)
			if err != nil {
				return err
			}

			result, err := buildPipeline(cfg, collab, logger).Run(cmd.Context(), sourcePath)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(result.Segments) == 0 {
				fmt.Fprintln(out, "No profanity detected")
			} else {
				rows := make([][]string, 0, len(result.Segments))
				for _, segment := range result.Segments {
					rows = append(rows, []string{
						formatRange(segment.Start, segment.End),
						formatConfidence(segment.Confidence),
						joinOrDash(segment.Terms),
						joinMethods(segment.Methods),
					})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"Segment", "Confidence", "Terms", "Methods"},
					rows,
					[]columnAlignment{alignLeft, alignRight, alignLeft, alignLeft},
				))
			}
			printSummary(cmd, result)

			if detectOnly {
				return nil
			}

			outputPath := outputFlag
			if outputPath == "" {
				outputPath = pipeline.OutputPath(cfg, sourcePath)
			}
			if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
				return err
			}
			renderer := render.NewRenderer(cfg.FFmpegBinary())
			if err := renderer.Render(cmd.Context(), sourcePath, result.Segments, outputPath); err != nil {
				return err
			}
			fmt.Fprintf(out, "Wrote %s\n", outputPath)
			return nil
		},
	}

	cmd.Flags().BoolVar(&detectOnly, "detect-only", false, "Report segments without writing an output file")
	cmd.Flags().StringVarP(&outputFlag, "output", "o", "", "Output file path (defaults to the configured output directory)")
	return cmd
}

func printSummary(cmd *cobra.Command, result *pipeline.Result) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Windows analyzed: %d\n", result.Summary.WindowCount)
	fmt.Fprintf(out, "Segments to mute: %d\n", result.Summary.SegmentCount)
	for method, count := range result.Summary.MethodCounts {
		fmt.Fprintf(out, "  %s hits: %d\n", method, count)
	}
	if result.Summary.AdaptiveEnabled {
		fmt.Fprintf(out, "Adaptive classifier: trained (accuracy %s)\n",
			formatConfidence(result.Summary.AdaptiveStatus.Accuracy))
	} else {
		fmt.Fprintln(out, "Adaptive classifier: untrained, rule-based methods only")
	}
}
