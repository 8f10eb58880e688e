package main

import (
	"encoding/json"

	"github.com/jonathan/buildorder-validator/internal/batch"
	"github.com/jonathan/buildorder-validator/internal/bong"
	"github.com/jonathan/buildorder-validator/internal/config"
	"github.com/jonathan/buildorder-validator/internal/observability"
	"github.com/jonathan/buildorder-validator/internal/types"
	"github.com/spf13/cobra"
)

var bongSpec = validatorSpec{
	name:         "bong",
	headerLabel:  "Testing",
	validMessage: "No errors or warnings",
	passMessage:  "All files passed validation!",
	warningsFail: true,
	newCheck: func(_ config.Config) (batch.CheckFunc, string, error) {
		return bong.NewValidator().Check, "", nil
	},
	describe: describeBuildOrder,
}

func newBongCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bong [file.json ...]",
		Short: "Validate BONG notation rules",
		Long: "Validates build order notes against the BONG notation rules: worker counts " +
			"reconcile with villager_count, subscripts decode, and notes follow the formatting conventions.\n\n" +
			"Tallies must use subscript glyphs (₀-₉). A tally typed with ASCII digits, such as " +
			"\"3 - @resource/Aoe2de_wood.png@3\", is reported as an invalid subscript.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidation(cmd, args, bongSpec)
		},
	}
	addBatchFlags(cmd)
	cmd.Flags().Bool("allow-warnings", false, "Do not fail files that only have warnings")
	return cmd
}

// describeBuildOrder prints the build order's descriptive fields in verbose mode
func describeBuildOrder(p *observability.Printer, file string) {
	content, err := batch.LoadFile(file)
	if err != nil {
		return
	}
	var doc types.BuildOrder
	if err := json.Unmarshal(content, &doc); err != nil {
		return
	}
	p.PrintBuildOrder(&doc)
}
