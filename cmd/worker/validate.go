package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/goldenage-community/goldenage-backend/internal/shape"
	"github.com/goldenage-community/goldenage-backend/internal/xmltree"
)

var (
	validateKind   string
	validateOutput string
)

// validateReport is what validate prints.
type validateReport struct {
	File   string       `json:"file" yaml:"file"`
	Kind   shape.Kind   `json:"kind" yaml:"kind"`
	Result shape.Result `json:"result" yaml:"result"`
	Shape  any          `json:"shape,omitempty" yaml:"shape,omitempty"`
}

var validateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Validate a menu or pool-hours XML document",
	Long: `Parse an XML file, check its structure and print the result together
with the record clients would receive. Exits 1 when the document is invalid.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, err := shape.ParseKind(validateKind)
		if err != nil {
			return err
		}
		if validateOutput != "json" && validateOutput != "yaml" {
			return fmt.Errorf("unsupported output %q", validateOutput)
		}

		report, err := validateFile(args[0], kind)
		if err != nil {
			return err
		}
		if err := writeReport(cmd.OutOrStdout(), report, validateOutput); err != nil {
			return err
		}
		if !report.Result.Valid {
			return errInvalid
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().StringVarP(&validateKind, "type", "t", string(shape.KindGeneric), "document type: menu, pool or generic")
	validateCmd.Flags().StringVarP(&validateOutput, "output", "o", "json", "output format: json or yaml")
}

func validateFile(path string, kind shape.Kind) (*validateReport, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	report := &validateReport{File: path, Kind: kind}
	root, err := xmltree.Parse(string(raw))
	if err != nil {
		report.Result = shape.Result{Message: fmt.Sprintf("invalid XML: %v", err)}
		return report, nil
	}

	report.Result = shape.Validate(root, kind)
	if report.Result.Valid {
		report.Shape = shape.ToClientShape(root, kind)
	}
	return report, nil
}

func writeReport(w io.Writer, report *validateReport, format string) error {
	if format == "yaml" {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(report)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}
