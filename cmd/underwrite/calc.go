package main

import (
	"fmt"
	"strconv"
	"strings"

	"underwriting/pkg/core/calc"

	"github.com/spf13/cobra"
)

func calcCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "calc [kind] [name=value ...]",
		Short: "Run one standalone calculator; with no kind, list them",
		Example: "  underwrite calc cap-rate noi=50160 price=1000000\n" +
			"  underwrite calc mortgage-payment principal=700000 rate=6 years=30",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if len(args) == 0 {
				for _, k := range calc.Kinds() {
					params, _ := calc.Schema(k)
					names := make([]string, 0, len(params))
					for _, p := range params {
						names = append(names, p.Name)
					}
					fmt.Fprintf(out, "%-18s %s\n", k, strings.Join(names, " "))
				}
				return nil
			}

			params, err := parseParams(args[1:])
			if err != nil {
				return err
			}
			c, err := calc.NewCalculator(calc.Kind(args[0]), params)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, strconv.FormatFloat(c.Compute(), 'f', -1, 64))
			return nil
		},
	}
}

func parseParams(args []string) (map[string]float64, error) {
	params := make(map[string]float64, len(args))
	for _, arg := range args {
		name, raw, ok := strings.Cut(arg, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("expected name=value, got %q", arg)
		}
		switch strings.ToLower(raw) {
		case "true":
			raw = "1"
		case "false":
			raw = "0"
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid value for %s: %w", name, err)
		}
		params[name] = v
	}
	return params, nil
}
