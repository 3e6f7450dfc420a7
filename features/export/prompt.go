package export

import (
	"fmt"
	"strings"

	"github.com/sagan/laras/features/story"
	"github.com/sagan/laras/util/helper"
)

// Default per-scene video generation prompt. Data fields: see promptData.
const DEFAULT_PROMPT_TEMPLATE = `Create a short video of {{ .scene.Seconds }} seconds.
{{- with .characters }} Characters: {{ . }}.{{ end }}
{{- with .scene.Environment.Location }} Location: {{ . }}.{{ end }}
{{- with .scene.Action }} Action: {{ . }}.{{ end }}
{{- with .dialogue }} {{ $.speaker }} says: "{{ . }}"{{ end }}
{{- with .camera }} Camera: {{ . }}.{{ end }}
{{- with .scene.MusicCue }} Mood: {{ . }}.{{ end }}
{{- with .style }} Style: {{ . }}.{{ end }}`

// ScenePrompt renders the plain-text generation prompt of the scene at position i (0-based).
// tpl is a Go text template with sprout functions (or "@file"); empty uses DEFAULT_PROMPT_TEMPLATE.
// Template data: scene (story.Scene), doc (story.Document), characters (comma-separated display
// names of referenced characters), names (the same as a list), speaker, dialogue (unquoted), camera (short summary), style.
func ScenePrompt(doc *story.Document, i int, tpl string) (string, error) {
	if i < 0 || i >= len(doc.Scenes) {
		return "", fmt.Errorf("scene %d out of range [1, %d]", i+1, len(doc.Scenes))
	}
	if tpl == "" {
		tpl = DEFAULT_PROMPT_TEMPLATE
	}
	t, err := helper.GetTemplate(tpl, false)
	if err != nil {
		return "", fmt.Errorf("invalid prompt template: %w", err)
	}
	scene := &doc.Scenes[i]
	names := []string{}
	for _, ref := range scene.Refs() {
		names = append(names, doc.DisplayName(ref))
	}
	data := map[string]any{
		"scene":      scene,
		"doc":        doc,
		"characters": strings.Join(names, ", "),
		"names":      names,
		"speaker":    Speaker(doc, scene),
		"dialogue":   cleanDialogue(scene.Dialogue),
		"camera":     CameraSummary(scene.Camera),
		"style":      doc.Global.Style.Profile,
	}
	return t.Exec(data)
}

// ScenePrompts renders the prompts of all scenes, separated by blank lines.
func ScenePrompts(doc *story.Document, tpl string) (string, error) {
	prompts := make([]string, 0, len(doc.Scenes))
	for i := range doc.Scenes {
		p, err := ScenePrompt(doc, i, tpl)
		if err != nil {
			return "", err
		}
		prompts = append(prompts, fmt.Sprintf("[%s] %s", doc.Scenes[i].ID, p))
	}
	return strings.Join(prompts, "\n\n"), nil
}
