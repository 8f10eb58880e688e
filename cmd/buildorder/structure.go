package main

import (
	"github.com/jonathan/buildorder-validator/internal/batch"
	"github.com/jonathan/buildorder-validator/internal/config"
	"github.com/jonathan/buildorder-validator/internal/schemas"
	"github.com/spf13/cobra"
)

// defaultSchemaFile is looked up relative to the working directory when no schema is configured
const defaultSchemaFile = "schemas/build_order.schema.json"

var structureSpec = validatorSpec{
	name:            "structure",
	headerLabel:     "Validating RTS Overlay structure",
	validMessage:    "JSON structure is correct for RTS Overlay",
	passMessage:     "All files passed RTS Overlay structure validation!",
	emptyBatchFails: true,
	newCheck:        newStructureCheck,
	describe:        describeBuildOrder,
}

func newStructureCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "structure [file.json ...]",
		Short: "Validate RTS overlay JSON structure",
		Long: "Validates that build order files have the JSON structure the RTS overlay renders " +
			"(required fields, types, non-empty lists). BONG notation is not checked; use the bong command for that.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidation(cmd, args, structureSpec)
		},
	}
	addBatchFlags(cmd)
	cmd.Flags().String("schema", "", "Path to a JSON Schema file (defaults to the built-in build order schema)")
	return cmd
}

// newStructureCheck picks the configured schema file, then a schemas/ directory
// near the working directory, then the embedded schema.
func newStructureCheck(cfg config.Config) (batch.CheckFunc, string, error) {
	path := cfg.Schema
	if path == "" {
		path = schemas.ResolveSchemaPath(defaultSchemaFile)
	}
	if path == "" {
		return schemas.NewStructureValidator().Validate, "(built-in)", nil
	}

	v, err := schemas.NewStructureValidatorFromFile(path)
	if err != nil {
		return nil, "", err
	}
	return v.Validate, path, nil
}
