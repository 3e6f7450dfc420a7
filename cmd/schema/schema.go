package schema

import (
	"bytes"
	"fmt"

	jsonschemainfer "github.com/JLugagne/jsonschema-infer"
	"github.com/spf13/cobra"

	"github.com/sagan/laras/cmd"
	"github.com/sagan/laras/features/export"
	"github.com/sagan/laras/features/story"
	"github.com/sagan/laras/util/helper"
)

var schemaCmd = &cobra.Command{
	Use:   "schema [--infer {file.json}...]",
	Short: "Output json schema of LARAS documents",
	Long: `Output json schema of LARAS documents.

By default it outputs the schema of the document model, the one "laras validate --schema" checks against
and the one sent to Gemini as response schema.

With --infer, the schema is inferred from the provided sample documents instead ("-" for stdin),
e.g. to inspect the shape of enhanced documents returned by the model.`,
	RunE: doSchema,
}

var (
	flagInfer   bool
	outputFlags cmd.OutputFlags
)

func doSchema(c *cobra.Command, args []string) (err error) {
	if err = outputFlags.Check(); err != nil {
		return err
	}
	buf := &bytes.Buffer{}
	if !flagInfer {
		if len(args) > 0 {
			return fmt.Errorf("sample files require --infer")
		}
		if err = export.WriteJSON(buf, story.Schema(), true); err != nil {
			return err
		}
		return outputFlags.Write(c, buf.Bytes(), false)
	}

	files := helper.ParseFilenameArgs(args...)
	if len(files) == 0 {
		return fmt.Errorf("no sample files")
	}
	generator := jsonschemainfer.New()
	for _, file := range files {
		contents, err := helper.ReadInput(file)
		if err != nil {
			return fmt.Errorf("failed to read %q: %w", file, err)
		}
		generator.AddSample(string(contents))
	}
	output, err := generator.Generate()
	if err != nil {
		return err
	}
	buf.WriteString(output)
	return outputFlags.Write(c, buf.Bytes(), false)
}

func init() {
	schemaCmd.Flags().BoolVarP(&flagInfer, "infer", "", false, "Infer the schema from sample json files")
	outputFlags.Add(schemaCmd)
	cmd.RootCmd.AddCommand(schemaCmd)
}
