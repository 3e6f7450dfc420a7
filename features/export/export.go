// Package export serializes LARAS documents to files: JSON, per-scene JSON, CSV,
// voice-over scripts, generation prompts, XLSX and a PNG storyboard.
package export

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/natefinch/atomic"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/sagan/laras/features/story"
	"github.com/sagan/laras/util"
)

// Max concurrent file writes of WriteSceneFiles.
const SCENE_FILE_CONCURRENCY = 4

// WriteJSON writes v (a full document or a scene view) as JSON.
func WriteJSON(w io.Writer, v any, indent bool) error {
	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)
	if indent {
		encoder.SetIndent("", "  ")
	}
	return encoder.Encode(v)
}

// SceneFilename returns the file name of the scene at position i (0-based) for WriteSceneFiles.
func SceneFilename(i int) string {
	return fmt.Sprintf("scene_%02d.json", i+1)
}

// WriteSceneFiles writes one scene_NN.json per scene into dir, each a single-scene
// view of doc. Existing files are only replaced if force is true.
// It returns the written file paths in scene order.
func WriteSceneFiles(ctx context.Context, dir string, doc *story.Document, force bool) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	files := make([]string, len(doc.Scenes))
	for i := range doc.Scenes {
		files[i] = filepath.Join(dir, SceneFilename(i))
		if exists, err := util.FileExists(files[i]); err != nil || (exists && !force) {
			return nil, fmt.Errorf("output file %q exists or can't access, err=%w", files[i], err)
		}
	}
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(SCENE_FILE_CONCURRENCY)
	for i := range doc.Scenes {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			view, err := doc.SceneView(i)
			if err != nil {
				return err
			}
			var buf bytes.Buffer
			if err := WriteJSON(&buf, view, true); err != nil {
				return err
			}
			if err := atomic.WriteFile(files[i], &buf); err != nil {
				return fmt.Errorf("%s: %w", files[i], err)
			}
			log.Debugf("wrote %s", files[i])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return files, nil
}

// CameraSummary returns the short "<lens>, <movement>" form of a camera block.
// Empty parts are omitted.
func CameraSummary(cam story.Camera) string {
	var parts []string
	for _, p := range []string{cam.Lens, cam.Movement} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

// Quotes around a dialogue line, straight or curly.
const dialogueQuotes = "\"“”"

func cleanDialogue(s string) string {
	return strings.Trim(strings.TrimSpace(s), dialogueQuotes)
}

// Speaker returns the display name of the speaker of scene: its speaker field,
// else its first continuity reference, else "Narrator".
func Speaker(doc *story.Document, scene *story.Scene) string {
	id := scene.Speaker
	if id == "" && len(scene.Continuity.Characters) > 0 {
		id = scene.Continuity.Characters[0].Ref
	}
	if id == "" {
		return NARRATOR
	}
	return doc.DisplayName(id)
}

const NARRATOR = "Narrator"
