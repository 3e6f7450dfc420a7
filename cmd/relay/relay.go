package relay

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/sagan/laras/cmd"
	"github.com/sagan/laras/config"
	"github.com/sagan/laras/constants"
	"github.com/sagan/laras/features/relay"
)

var relayCmd = &cobra.Command{
	Use:   "relay [--addr :8787]",
	Short: "Run the enhancement relay server",
	Long: `Run the enhancement relay server.

The relay keeps the model api key on the server. Clients ("laras enhance --proxy http://host:8787/api/ai-proxy")
POST {instruction, draft} to /api/ai-proxy and receive {enhanced, model, attempts}.

If --upstream (or ` + constants.ENV_RELAY_UPSTREAM + ` env) is set, the relay calls that OpenAI compatible
chat completions api (e.g. "https://openrouter.ai/api/v1"). Otherwise it calls Gemini directly.
The api key is read from --key flag, ` + constants.ENV_RELAY_KEY + ` env, then ` + constants.ENV_GEMINI_API_KEY +
		` env (Gemini mode only). Without a key, requests are answered with 500.

Other endpoints: /healthz, /metrics (prometheus).`,
	RunE: doRelay,
	Args: cobra.NoArgs,
}

var (
	flagAddr        string
	flagUpstream    string
	flagKey         string
	flagModels      string
	flagTimeout     time.Duration
	flagTemperature float64
)

func doRelay(c *cobra.Command, args []string) error {
	upstream := flagUpstream
	if upstream == "" {
		upstream = config.GetRelayUpstream()
	}
	key := flagKey
	if key == "" {
		key = config.GetRelayKey(upstream)
	}
	models := config.ParseModels(flagModels)
	if len(models) == 0 {
		models = config.GetModels()
	}
	timeout := flagTimeout
	if timeout <= 0 {
		timeout = config.GetTimeout()
	}
	addr := flagAddr
	if addr == "" {
		addr = config.GetRelayAddr()
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	server, err := relay.New(relay.Config{
		UpstreamURL: upstream,
		APIKey:      key,
		GeminiURL:   config.GetGeminiURL(),
		Models:      models,
		Timeout:     timeout,
		Temperature: flagTemperature,
	}, reg)
	if err != nil {
		return err
	}
	return server.ListenAndServe(c.Context(), addr)
}

func init() {
	relayCmd.Flags().StringVarP(&flagAddr, "addr", "", "",
		`Listen address. If not set, it reads `+constants.ENV_RELAY_ADDR+` env, then fallbacks to "`+
			constants.DEFAULT_RELAY_ADDR+`"`)
	relayCmd.Flags().StringVarP(&flagUpstream, "upstream", "", "", "OpenAI compatible api base url")
	relayCmd.Flags().StringVarP(&flagKey, "key", "", "", "Upstream api key")
	relayCmd.Flags().StringVarP(&flagModels, "models", "", "", constants.HELP_MODELS)
	relayCmd.Flags().DurationVarP(&flagTimeout, "timeout", "", 0, "Upstream timeout per request, model fallbacks included")
	relayCmd.Flags().Float64VarP(&flagTemperature, "temperature", "", constants.DEFAULT_TEMPERATURE,
		constants.HELP_TEMPERATURE_FLAG)
	cmd.RootCmd.AddCommand(relayCmd)
}
