package main

import (
	"bufio"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"github.com/rulemakers-physics/rmleveltest/internal/grading"
)

func newVariantsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "variants",
		Short: "List the configured test variants",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := engineFor(cmd)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tITEMS\tPOLICY\tTITLE")
			for _, id := range eng.Registry().IDs() {
				v, _ := eng.Registry().Lookup(id)
				fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n", v.ID, v.QuestionCount, v.Policy.Kind(), v.Title)
			}
			return tw.Flush()
		},
	}
}

func newScoreCmd() *cobra.Command {
	var variantID, answersPath string
	cmd := &cobra.Command{
		Use:   "score",
		Short: "Score an answer set and print the breakdown as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := engineFor(cmd)
			if err != nil {
				return err
			}
			answers, err := readAnswers(cmd, answersPath)
			if err != nil {
				return err
			}
			bd, err := eng.Score(variantID, answers)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), bd)
		},
	}
	cmd.Flags().StringVar(&variantID, "variant", "", "Variant id (see `placementctl variants`)")
	cmd.Flags().StringVar(&answersPath, "answers", "-", "JSON array of answers; - reads stdin")
	_ = cmd.MarkFlagRequired("variant")
	return cmd
}

func newReviewCmd() *cobra.Command {
	var variantID, answersPath string
	cmd := &cobra.Command{
		Use:   "review",
		Short: "Print the per-item answer sheet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := engineFor(cmd)
			if err != nil {
				return err
			}
			answers, err := readAnswers(cmd, answersPath)
			if err != nil {
				return err
			}
			items, err := eng.Review(variantID, answers)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "#\tSUBJECT\tLEVEL\tBAND\tANSWER\tKEY\t")
			for _, it := range items {
				mark := ""
				if it.IsCorrect {
					mark = "ok"
				}
				fmt.Fprintf(tw, "%d\t%s\t%g\t%s\t%s\t%s\t%s\n",
					it.Ordinal, it.Subject, it.Level, it.Band, it.Submitted, it.Correct, mark)
			}
			fmt.Fprintf(tw, "\nunanswered: %d\n", grading.CountUnanswered(answers))
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&variantID, "variant", "", "Variant id")
	cmd.Flags().StringVar(&answersPath, "answers", "-", "JSON array of answers; - reads stdin")
	_ = cmd.MarkFlagRequired("variant")
	return cmd
}

func newHashPasswordCmd() *cobra.Command {
	var cost int
	cmd := &cobra.Command{
		Use:   "hash-password",
		Short: "Read a password from stdin and print its bcrypt hash for ADMIN_PASS_HASH",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			pw := strings.TrimRight(line, "\r\n")
			if pw == "" {
				if err != nil {
					return fmt.Errorf("read password: %w", err)
				}
				return fmt.Errorf("empty password")
			}
			h, err := bcrypt.GenerateFromPassword([]byte(pw), cost)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(h))
			return nil
		},
	}
	cmd.Flags().IntVar(&cost, "cost", 12, "bcrypt cost")
	return cmd
}
