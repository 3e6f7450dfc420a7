package constants

import "time"

const (
	// Env variable names

	ENV_GEMINI_API_KEY = "GEMINI_API_KEY"
	ENV_PROXY_URL      = "LARAS_PROXY_URL"  // developer-operated relay, e.g. "https://example.com/api/ai-proxy"
	ENV_MODELS         = "LARAS_MODELS"     // comma-separated fallback chain, quality first
	ENV_TIMEOUT        = "LARAS_TIMEOUT"    // Go duration string, e.g. "60s"
	ENV_DATA_DIR       = "LARAS_DATA_DIR"   // local store dir
	ENV_GEMINI_URL     = "LARAS_GEMINI_URL" // override Gemini API base url, mostly for testing

	// relay (serverless function replacement)
	ENV_RELAY_ADDR     = "LARAS_RELAY_ADDR"
	ENV_RELAY_UPSTREAM = "LARAS_RELAY_UPSTREAM" // OpenAI compatible base url. Empty: Gemini direct
	ENV_RELAY_KEY      = "LARAS_RELAY_KEY"      // upstream api key

	DEFAULT_RELAY_ADDR = ":8787"
	DEFAULT_DATA_DIR   = ".laras"

	// Default enhancement request timeout. It bounds the whole call including model fallbacks.
	DEFAULT_TIMEOUT = 60 * time.Second

	DEFAULT_TEMPERATURE = 0.7

	// Schema tags of generated documents
	SCHEMA_PROMPT  = "laras.prompt"
	SCHEMA_STORY   = "laras.story"
	SCHEMA_VERSION = "2.5"

	// Local store keys
	KEY_LAST_FORM       = "last_form"
	KEY_CHARACTER_BIBLE = "character_bible"
	KEY_API_KEY         = "api_key"
	KEY_THEME           = "theme"

	THEME_DARK  = "dark"
	THEME_LIGHT = "light"

	MIME_JSON = "application/json"
	MIME_PNG  = "image/png"

	NULL = "null"
)

// Quality first. A 429 on one model advances to the next one.
var DEFAULT_MODELS = []string{"gemini-2.5-pro", "gemini-2.5-flash", "gemini-2.0-flash-lite"}

const HELP_MODELS = `Model fallback chain, comma-separated, quality first. ` +
	`When a model fails with HTTP 429 (rate limit / quota), the next one is tried. ` +
	`Any other error aborts. If not set, it uses ` + ENV_MODELS + ` env, ` +
	`then fallbacks to "gemini-2.5-pro,gemini-2.5-flash,gemini-2.0-flash-lite"`

const HELP_MODEL_KEY = `Gemini API key. If not set, it reads ` + ENV_GEMINI_API_KEY +
	` env, then the "` + KEY_API_KEY + `" entry of local store (see "laras store")`

const HELP_PROXY = `Enhancement relay url. When set, drafts are POSTed to it as {instruction, draft} ` +
	`instead of calling Gemini directly. If not set, it reads ` + ENV_PROXY_URL + ` env`

const HELP_TEMPLATE_FLAG = `The Go text template string. If the value starts with "@", ` +
	`it (the rest part after @) is treated as a filename, ` +
	`which contents will be used as template. ` +
	`All sprout functions are supported, see https://github.com/go-sprout/sprout`

const HELP_TEMPERATURE_FLAG = `The temperature to use for the model. Range 0.0-2.0 (some model capped at max 1.0). ` +
	`Lower is deterministic; Higher is creative`

const HELP_STYLES = `"Marvel", "Pixar", "Anime", "Cartoon", "Real Film"`
