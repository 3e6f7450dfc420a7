package store

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sagan/laras/cmd"
	"github.com/sagan/laras/config"
	"github.com/sagan/laras/constants"
	"github.com/sagan/laras/util"
	"github.com/sagan/laras/util/helper"
)

var storeCmd = &cobra.Command{
	Use:   "store {get|set|clear|list} [key] [value]",
	Short: "Manage the local store",
	Long: `Manage the local store.

The store keeps json values in files of the data dir (` + constants.ENV_DATA_DIR + ` env, default "~/` +
		constants.DEFAULT_DATA_DIR + `"). Known keys:
  ` + constants.KEY_LAST_FORM + ` : the form of the last "laras generate".
  ` + constants.KEY_CHARACTER_BIBLE + ` : the character bible of the last generated document.
  ` + constants.KEY_API_KEY + ` : Gemini api key, used if ` + constants.ENV_GEMINI_API_KEY + ` env is not set.
  ` + constants.KEY_THEME + ` : storyboard theme, "dark" or "light".

Examples:
  laras store set theme light
  laras store set api_key AIza...
  laras store get last_form --format yaml
  laras store clear character_bible

"set" stores the value as json if it's valid json, otherwise as json string.
A value of "@file" reads it from file ("-" for stdin).
"get" prints the stored json as is, or converted to --format (json, yaml or toml).`,
	RunE: doStore,
	Args: cobra.RangeArgs(1, 3),
}

var (
	flagForce  bool
	flagFormat string
)

func doStore(c *cobra.Command, args []string) error {
	s := cmd.OpenStore()
	op := args[0]
	if op == "list" {
		keys, err := s.Keys()
		if err != nil {
			return err
		}
		for _, key := range keys {
			fmt.Fprintln(c.OutOrStdout(), key)
		}
		return nil
	}
	if len(args) < 2 {
		return fmt.Errorf("%s: key is required", op)
	}
	key := args[1]
	switch op {
	case "get":
		data, ok, err := s.Get(key)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("key %q not found", key)
		}
		if key == constants.KEY_API_KEY && !flagForce {
			return fmt.Errorf("%q is a secret, use --force to print it", key)
		}
		if flagFormat != "" {
			if data, err = formatValue(data, flagFormat); err != nil {
				return err
			}
		}
		_, err = fmt.Fprintln(c.OutOrStdout(), strings.TrimSpace(string(data)))
		return err
	case "set":
		if len(args) < 3 {
			return fmt.Errorf("set: value is required")
		}
		value := args[2]
		if strings.HasPrefix(value, "@") {
			contents, err := helper.ReadInput(value[1:])
			if err != nil {
				return err
			}
			value = string(contents)
		}
		if key == constants.KEY_THEME && value != constants.THEME_DARK && value != constants.THEME_LIGHT {
			return fmt.Errorf("invalid theme %q", value)
		}
		data := []byte(strings.TrimSpace(value))
		if !json.Valid(data) {
			data, _ = json.Marshal(value)
		}
		return s.Set(key, data)
	case "clear":
		if !flagForce && !helper.AskYesNoConfirm(fmt.Sprintf("Clear %q in %s", key, config.GetDataDir())) {
			return fmt.Errorf("abort")
		}
		return s.Clear(key)
	default:
		return fmt.Errorf("invalid operation %q (valid: get, set, clear, list)", op)
	}
}

// formatValue converts a stored json value to format, e.g. a saved form to yaml
// that "laras generate --form" reads back.
func formatValue(data []byte, format string) ([]byte, error) {
	var value any
	if err := json.Unmarshal(data, &value); err != nil {
		return nil, fmt.Errorf("stored value is not valid json: %w", err)
	}
	return util.Marshal(format, value)
}

func init() {
	storeCmd.Flags().BoolVarP(&flagForce, "force", "", false, "Clear without confirmation. Print secret values")
	storeCmd.Flags().StringVarP(&flagFormat, "format", "", "", `"get" output format: "json", "yaml" or "toml"`)
	cmd.RootCmd.AddCommand(storeCmd)
}
