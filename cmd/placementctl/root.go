package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/rulemakers-physics/rmleveltest/internal/grading"
	"github.com/rulemakers-physics/rmleveltest/internal/variant"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "placementctl",
		Short: "Score level-test answer sets offline",
		Long:  "placementctl scores answer sets against the built-in variant tables (or a --tables directory) without running the service.",
		SilenceUsage: true,
	}
	root.PersistentFlags().String("tables", "", "Directory of variant YAML tables (defaults to the built-in tables)")
	root.PersistentFlags().Bool("strict", false, "Reject answered items whose shape differs from the key")

	root.AddCommand(newVariantsCmd(), newScoreCmd(), newReviewCmd(), newHashPasswordCmd())
	return root
}

// engineFor builds an engine from the persistent flags.
func engineFor(cmd *cobra.Command) (*grading.Engine, error) {
	dir, _ := cmd.Flags().GetString("tables")
	strict, _ := cmd.Flags().GetBool("strict")

	var (
		reg *variant.Registry
		err error
	)
	if dir == "" {
		reg, err = variant.Default()
	} else {
		reg, err = variant.Load(os.DirFS(dir), ".")
	}
	if err != nil {
		return nil, err
	}
	return grading.New(reg, grading.WithStrictShapes(strict)), nil
}

// readAnswers decodes a JSON array of answers from path, or stdin for "-".
func readAnswers(cmd *cobra.Command, path string) ([]variant.AnswerValue, error) {
	var r io.Reader
	if path == "-" {
		r = cmd.InOrStdin()
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}
	var answers []variant.AnswerValue
	if err := json.NewDecoder(r).Decode(&answers); err != nil {
		return nil, fmt.Errorf("answers %s: %w", path, err)
	}
	return answers, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
