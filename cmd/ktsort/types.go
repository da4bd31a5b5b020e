package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ktsort/ktsort/pkg/scoring"
)

func newTypesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "types [CODE...]",
		Short: "List the sixteen type codes, or explain the given codes",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTypes(cmd.OutOrStdout(), args)
		},
	}
}

func runTypes(w io.Writer, codes []string) error {
	if len(codes) == 0 {
		for _, code := range scoring.AllTypes() {
			fmt.Fprintf(w, "%s  %s\n", code, code.Temperament())
		}
		return nil
	}

	for _, s := range codes {
		code, err := scoring.ParseTypeCode(s)
		if err != nil {
			return err
		}
		fmt.Fprintln(w, describe(code))
	}
	return nil
}

// describe explains each letter of a code, e.g.
// "INFP (Idealist): Introversion, iNtuition, Feeling, Perceiving".
func describe(code scoring.TypeCode) string {
	parts := make([]string, len(code))
	for i, l := range code {
		d := scoring.Dimensions[i]
		low, high, _ := strings.Cut(d.Name, "/")
		switch l {
		case d.Low:
			parts[i] = low
		case d.High:
			parts[i] = high
		default:
			parts[i] = "undecided " + d.Name
		}
	}

	label := code.String()
	if t := code.Temperament(); t != "" {
		label += " (" + string(t) + ")"
	}
	return label + ": " + strings.Join(parts, ", ")
}
