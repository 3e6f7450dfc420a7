package export

import (
	"fmt"
	"strings"

	"github.com/vincent-petithory/dataurl"

	"github.com/sagan/laras/constants"
	"github.com/sagan/laras/features/story"
)

type voiceLine struct {
	index   int
	seconds int
	speaker string
	line    string
}

func voiceLines(doc *story.Document) (lines []voiceLine) {
	for i := range doc.Scenes {
		scene := &doc.Scenes[i]
		line := cleanDialogue(scene.Dialogue)
		if line == "" {
			continue
		}
		index := scene.Index
		if index == 0 {
			index = i + 1
		}
		lines = append(lines, voiceLine{index, scene.Seconds, Speaker(doc, scene), line})
	}
	return lines
}

// VoiceoverText returns the plain text voice-over script: one
// "Scene N (Ss) Speaker: line" row per scene with dialogue.
func VoiceoverText(doc *story.Document) string {
	var sb strings.Builder
	for _, l := range voiceLines(doc) {
		fmt.Fprintf(&sb, "Scene %d (%ds) %s: %s\n", l.index, l.seconds, l.speaker, l.line)
	}
	return sb.String()
}

// VoiceoverMarkdown returns the voice-over script as Markdown. If storyboard (PNG data)
// is not empty, it is embedded inline as a data url image below the title.
func VoiceoverMarkdown(doc *story.Document, storyboard []byte) string {
	var sb strings.Builder
	title := doc.Title
	if title == "" {
		title = "Voice-over"
	}
	fmt.Fprintf(&sb, "# %s\n\n", title)
	if len(storyboard) > 0 {
		fmt.Fprintf(&sb, "![Storyboard](%s)\n\n", dataurl.New(storyboard, constants.MIME_PNG))
	}
	lines := voiceLines(doc)
	if len(lines) == 0 {
		sb.WriteString("_No dialogue._\n")
		return sb.String()
	}
	for _, l := range lines {
		fmt.Fprintf(&sb, "## Scene %d (%ds)\n\n**%s:** %s\n\n", l.index, l.seconds, l.speaker, l.line)
	}
	return sb.String()
}
