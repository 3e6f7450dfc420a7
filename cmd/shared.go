package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/sagan/laras/config"
	"github.com/sagan/laras/constants"
	"github.com/sagan/laras/features/clipboard"
	"github.com/sagan/laras/features/llm"
	"github.com/sagan/laras/features/store"
	"github.com/sagan/laras/features/story"
	"github.com/sagan/laras/util"
	"github.com/sagan/laras/util/helper"
)

// OpenStore returns the local store in config.GetDataDir().
func OpenStore() *store.FileStore {
	return store.NewFileStore(config.GetDataDir())
}

// ReadDocument reads a LARAS document file ("-" for stdin). yaml / toml files are
// converted to json first. It returns the decoded document and its json contents.
func ReadDocument(name string) (*story.Document, []byte, error) {
	contents, err := helper.ReadInput(name)
	if err != nil {
		return nil, nil, err
	}
	if format := util.FormatOf(name); format != "json" {
		data, err := util.Unmarshal(format, bytes.NewReader(contents))
		if err != nil {
			return nil, nil, fmt.Errorf("%q: %w", name, err)
		}
		if contents, err = json.Marshal(data); err != nil {
			return nil, nil, fmt.Errorf("%q: %w", name, err)
		}
	}
	doc, err := story.DecodeDocument(contents)
	if err != nil {
		return nil, nil, fmt.Errorf("%q: %w", name, err)
	}
	return doc, contents, nil
}

// OutputFlags are the common "-o / --force / -c / -C" output flags.
type OutputFlags struct {
	Output       string
	Force        bool
	AutoCopy     bool
	AutoCopyOnly bool
}

func (f *OutputFlags) Add(c *cobra.Command) {
	c.Flags().BoolVarP(&f.AutoCopy, "auto-copy", "c", false, `Also copy output to clipboard`)
	c.Flags().BoolVarP(&f.AutoCopyOnly, "auto-copy-only", "C", false, `Mute output and only copy it to clipboard`)
	c.Flags().BoolVarP(&f.Force, "force", "", false, "Force overwriting without confirmation")
	c.Flags().StringVarP(&f.Output, "output", "o", "-", `Output file path. Use "-" for stdout`)
}

// Check fails early if the output file exists and --force is not set.
func (f *OutputFlags) Check() error {
	if f.AutoCopyOnly {
		f.AutoCopy = true
	}
	if f.AutoCopyOnly {
		return nil
	}
	return helper.CheckOutput(f.Output, f.Force)
}

// Write writes contents to the output, and copies them to clipboard if requested.
// Clipboard failures are reported but not fatal unless output is clipboard only.
func (f *OutputFlags) Write(c *cobra.Command, contents []byte, isImage bool) error {
	if f.AutoCopy {
		var err error
		if isImage {
			err = clipboard.CopyImage(bytes.NewReader(contents))
		} else {
			err = clipboard.CopyString(string(contents))
		}
		if err != nil {
			if f.AutoCopyOnly {
				return err
			}
			fmt.Fprintf(c.ErrOrStderr(), "failed to copy to clipboard: %v\n", err)
		}
	}
	if f.AutoCopyOnly {
		return nil
	}
	return helper.WriteOutput(f.Output, c.OutOrStdout(), contents)
}

// EnhanceFlags configure the enhancement client.
type EnhanceFlags struct {
	Proxy       string
	APIKey      string
	Models      string
	Temperature float64
	Timeout     time.Duration
	NoSchema    bool
}

func (f *EnhanceFlags) Add(c *cobra.Command) {
	c.Flags().StringVarP(&f.Proxy, "proxy", "", "", constants.HELP_PROXY)
	c.Flags().StringVarP(&f.APIKey, "api-key", "", "", constants.HELP_MODEL_KEY)
	c.Flags().StringVarP(&f.Models, "models", "", "", constants.HELP_MODELS)
	c.Flags().Float64VarP(&f.Temperature, "temperature", "", constants.DEFAULT_TEMPERATURE, constants.HELP_TEMPERATURE_FLAG)
	c.Flags().DurationVarP(&f.Timeout, "timeout", "", 0,
		`Enhancement timeout, model fallbacks included. If not set, it reads `+constants.ENV_TIMEOUT+
			` env, then fallbacks to 60s`)
	c.Flags().BoolVarP(&f.NoSchema, "no-schema", "", false,
		`Do not send the document json schema as response schema (direct mode)`)
}

// Enhancer builds the enhancement client. Flags take precedence over env and local store s.
func (f *EnhanceFlags) Enhancer(s store.Store) (*llm.Enhancer, error) {
	cfg := llm.Config{
		ProxyURL:    f.Proxy,
		APIKey:      f.APIKey,
		BaseURL:     config.GetGeminiURL(),
		Models:      config.ParseModels(f.Models),
		Timeout:     f.Timeout,
		Temperature: f.Temperature,
	}
	if cfg.ProxyURL == "" {
		cfg.ProxyURL = config.GetProxyURL()
	}
	if cfg.APIKey == "" && cfg.ProxyURL == "" {
		cfg.APIKey = config.GetAPIKey(s)
	}
	if len(cfg.Models) == 0 {
		cfg.Models = config.GetModels()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = config.GetTimeout()
	}
	if !f.NoSchema {
		cfg.Schema = story.Schema()
	}
	return llm.NewEnhancer(cfg)
}
