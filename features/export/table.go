package export

import (
	"fmt"
	"io"

	"github.com/sagan/laras/features/story"
	"github.com/sagan/laras/util/stringutil"
)

// WriteSceneTable prints a fixed-width overview of scenes for terminals.
// Columns are aligned by display width, so CJK titles line up.
func WriteSceneTable(w io.Writer, doc *story.Document) {
	fmt.Fprintf(w, "%-5s  %-5s  ", "ID", "SEC")
	stringutil.PrintStringInWidth(w, "TITLE", 24, true)
	fmt.Fprint(w, "  ")
	stringutil.PrintStringInWidth(w, "CAMERA", 30, true)
	fmt.Fprintf(w, "  %s\n", "DIALOGUE")
	for i := range doc.Scenes {
		scene := &doc.Scenes[i]
		fmt.Fprintf(w, "%-5s  %-5d  ", scene.ID, scene.Seconds)
		stringutil.PrintStringInWidth(w, stringutil.CleanTitle(scene.Name), 24, true)
		fmt.Fprint(w, "  ")
		stringutil.PrintStringInWidth(w, CameraSummary(scene.Camera), 30, true)
		fmt.Fprint(w, "  ")
		stringutil.PrintStringInWidth(w, stringutil.CleanTitle(cleanDialogue(scene.Dialogue)), 40, true)
		fmt.Fprintln(w)
	}
	fmt.Fprintf(w, "// %d scenes, %ds total\n", len(doc.Scenes), doc.TotalSeconds())
}
