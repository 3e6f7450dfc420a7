package all

import (
	_ "github.com/sagan/laras/cmd/bible"
	_ "github.com/sagan/laras/cmd/enhance"
	_ "github.com/sagan/laras/cmd/export"
	_ "github.com/sagan/laras/cmd/generate"
	_ "github.com/sagan/laras/cmd/presets"
	_ "github.com/sagan/laras/cmd/query"
	_ "github.com/sagan/laras/cmd/relay"
	_ "github.com/sagan/laras/cmd/schema"
	_ "github.com/sagan/laras/cmd/split"
	_ "github.com/sagan/laras/cmd/store"
	_ "github.com/sagan/laras/cmd/styles"
	_ "github.com/sagan/laras/cmd/translate"
	_ "github.com/sagan/laras/cmd/validate"
	_ "github.com/sagan/laras/cmd/watch"
)
