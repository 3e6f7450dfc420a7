package translation

import (
	"context"
	"fmt"
	"strings"

	"cloud.google.com/go/translate"
	log "github.com/sirupsen/logrus"
	"golang.org/x/text/language"

	"github.com/sagan/laras/features/story"
	"github.com/sagan/laras/util"
	"github.com/sagan/laras/util/stringutil"
)

// Short names accepted besides BCP 47 tags.
var LanguageAliases = map[string]language.Tag{
	"id":    language.Indonesian,
	"en":    language.English,
	"ja":    language.Japanese,
	"kr":    language.Korean,
	"zh":    language.SimplifiedChinese,
	"zh-cn": language.SimplifiedChinese,
	"zh-tw": language.TraditionalChinese,
	"ms":    language.Malay,
	"jv":    language.MustParse("jv"),
	"su":    language.MustParse("su"),
}

// Translator is satisfied by *translate.Client.
type Translator interface {
	Translate(ctx context.Context, inputs []string, target language.Tag, opts *translate.Options) ([]translate.Translation, error)
}

func ParseLanguage(s string) (language.Tag, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if tag, ok := LanguageAliases[s]; ok {
		return tag, nil
	}
	tag, err := language.Parse(s)
	if err != nil {
		return language.Tag{}, fmt.Errorf("invalid language %q (aliases: %v): %w", s, util.Keys(LanguageAliases), err)
	}
	return tag, nil
}

// TransBatch translates inputs to targetLang. An empty sourceLang is auto detected.
func TransBatch(ctx context.Context, client Translator, inputs []string,
	targetLang, sourceLang language.Tag) (translatedTexts []string, err error) {
	options := &translate.Options{
		Source: sourceLang,
		Format: translate.Text,
		Model:  "nmt",
	}
	resp, err := client.Translate(ctx, inputs, targetLang, options)
	if err != nil {
		return nil, fmt.Errorf("failed to translate: %w", err)
	}
	if len(resp) != len(inputs) {
		return nil, fmt.Errorf("invalid translation response: %d results for %d inputs", len(resp), len(inputs))
	}
	translatedTexts = make([]string, len(inputs))
	for i, r := range resp {
		translatedTexts[i] = strings.TrimSpace(stringutil.ReplaceNewLinesWithSpace(r.Text))
	}
	return translatedTexts, nil
}

// TranslateDialogue returns a copy of doc with every scene dialogue translated to target
// and the voiceover language set to target. Scenes without dialogue are not sent.
func TranslateDialogue(ctx context.Context, client Translator, doc *story.Document,
	target, source language.Tag) (*story.Document, error) {
	out := doc.Clone()
	var inputs []string
	var indexes []int
	for i, scene := range out.Scenes {
		if strings.TrimSpace(scene.Dialogue) != "" {
			inputs = append(inputs, scene.Dialogue)
			indexes = append(indexes, i)
		}
	}
	if len(inputs) > 0 {
		texts, err := TransBatch(ctx, client, inputs, target, source)
		if err != nil {
			return nil, err
		}
		for j, i := range indexes {
			out.Scenes[i].Dialogue = texts[j]
		}
	}
	out.Global.Audio.Voiceover.Language = target.String()
	log.Infof("translated %d dialogue lines to %s", len(inputs), target)
	return out, nil
}
