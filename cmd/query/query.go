package query

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sagan/laras/cmd"
	"github.com/sagan/laras/constants"
	"github.com/sagan/laras/features/export"
	"github.com/sagan/laras/features/query"
	"github.com/sagan/laras/util/helper"
)

var queryCmd = &cobra.Command{
	Use:   "query {doc.json} {sql}",
	Short: "Run SQL query on the scenes and characters of a document",
	Long: `Run SQL query on the scenes and characters of a document.

It uses csvq ( https://github.com/mithrandie/csvq ). Tables:
  scenes     : ` + strings.Join(export.CSV_COLUMNS, ", ") + `
  characters : ` + strings.Join(query.CHARACTER_COLUMNS, ", ") + ` (scenes: appearance count)

Output query result as csv, or as text lines with --template.

Examples:
  laras query story.json 'SELECT id, title FROM scenes WHERE duration < 8'
  laras query story.json 'SELECT name FROM characters ORDER BY scenes DESC' --template "{{.name}}"

Literal strings in sql should be wrapped in double quotes.`,
	Args: cobra.ExactArgs(2),
	RunE: doQuery,
}

var (
	flagTemplate string
	flagOneLine  bool
	outputFlags  cmd.OutputFlags
)

func doQuery(c *cobra.Command, args []string) error {
	if err := outputFlags.Check(); err != nil {
		return err
	}
	doc, _, err := cmd.ReadDocument(args[0])
	if err != nil {
		return err
	}
	res, err := query.Run(c.Context(), doc, args[1])
	if err != nil {
		return err
	}
	buf := &bytes.Buffer{}
	if flagTemplate == "" {
		if err = res.WriteCSV(buf, flagOneLine); err != nil {
			return err
		}
		return outputFlags.Write(c, buf.Bytes(), false)
	}
	tpl, err := helper.GetTemplate(flagTemplate, true)
	if err != nil {
		return err
	}
	for _, row := range res.Rows {
		data := map[string]any{}
		for i, col := range res.Columns {
			data[col] = row[i]
		}
		line, err := tpl.Exec(data)
		if err != nil {
			return err
		}
		if line != "" {
			fmt.Fprintln(buf, line)
		}
	}
	return outputFlags.Write(c, buf.Bytes(), false)
}

func init() {
	queryCmd.Flags().StringVarP(&flagTemplate, "template", "t", "",
		`Go text template to format each row as a line, e.g. '{{.id}} {{.title}}'. `+constants.HELP_TEMPLATE_FLAG)
	queryCmd.Flags().BoolVarP(&flagOneLine, "one-line", "", false,
		`Replace newlines in csv fields with single space`)
	outputFlags.Add(queryCmd)
	cmd.RootCmd.AddCommand(queryCmd)
}
