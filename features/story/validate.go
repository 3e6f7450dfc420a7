package story

import (
	"fmt"
	"slices"
	"strings"

	"github.com/sagan/laras/constants"
	"github.com/sagan/laras/util"
)

const (
	IssueSceneCount   = "scene_count"
	IssueDuration     = "duration"
	IssueSequentialID = "sequential_id"
	IssueCharacterRef = "character_ref"
	IssueLocationRef  = "location_ref"
	IssueIntro        = "intro"
	IssueOutro        = "outro"
	IssueRoster       = "roster"
)

type Issue struct {
	Code    string `json:"code"`
	Scene   string `json:"scene,omitempty"`
	Message string `json:"message"`
}

func (i Issue) String() string {
	return fmt.Sprintf("[%s] %s", i.Code, i.Message)
}

// Report is the diagnostic result of Validate. Issues are warnings, the document is never changed.
type Report struct {
	OK     bool    `json:"ok"`
	Issues []Issue `json:"issues"`
}

func (r *Report) add(code, scene, format string, args ...any) {
	r.Issues = append(r.Issues, Issue{Code: code, Scene: scene, Message: fmt.Sprintf(format, args...)})
}

// Has reports whether the report contains an issue with code.
func (r *Report) Has(code string) bool {
	return slices.ContainsFunc(r.Issues, func(i Issue) bool { return i.Code == code })
}

type validateOptions struct {
	allowShort bool
}

type ValidateOption func(*validateOptions)

// AllowShortScenes accepts scenes shorter than MaxSceneSeconds (split mode drafts).
// Documents of "laras.story" schema always allow them.
func AllowShortScenes() ValidateOption {
	return func(o *validateOptions) {
		o.allowShort = true
	}
}

// ValidateOptions returns the options a draft assembled from r is validated with.
// Split mode drafts end with the splitter's remainder, so short scenes are accepted.
func (r Request) ValidateOptions() (opts []ValidateOption) {
	if r.Split && r.Scenes <= 0 {
		opts = append(opts, AllowShortScenes())
	}
	return opts
}

// Validate checks the structural invariants of doc. requestedScenes <= 0 skips the scene count check.
// All checks run, so the report lists every violation.
func Validate(doc *Document, requestedScenes int, opts ...ValidateOption) Report {
	o := validateOptions{}
	for _, opt := range opts {
		opt(&o)
	}
	if doc.Schema == constants.SCHEMA_STORY {
		o.allowShort = true
	}
	r := Report{Issues: []Issue{}}
	n := len(doc.Scenes)

	if requestedScenes > 0 && n != requestedScenes {
		r.add(IssueSceneCount, "", "expected %d scenes, got %d", requestedScenes, n)
	}
	if n == 0 && requestedScenes <= 0 {
		r.add(IssueSceneCount, "", "document has no scenes")
	}

	roster := doc.RosterIDs()
	charIDs := util.Map(doc.Characters, func(c Character) string { return c.CharacterID })
	rosterIDs := util.Map(doc.Roster, func(e RosterEntry) string { return e.ID })
	for _, ids := range [][]string{charIDs, rosterIDs} {
		for _, id := range util.Duplicates(ids) {
			r.add(IssueRoster, "", "duplicate character id %q in roster", id)
		}
	}
	for _, id := range roster {
		if strings.TrimSpace(id) == "" {
			r.add(IssueRoster, "", "roster entry with empty id")
			break
		}
	}
	locations := make([]string, 0, len(doc.Locations))
	for _, l := range doc.Locations {
		locations = append(locations, l.ID)
	}

	for i, s := range doc.Scenes {
		want := SceneID(i + 1)
		label := s.ID
		if label == "" {
			label = fmt.Sprintf("#%d", i+1)
		}
		if s.ID != want {
			r.add(IssueSequentialID, label, "scene at position %d has id %q, expected %q", i+1, s.ID, want)
		}
		if s.Index != 0 && s.Index != i+1 {
			r.add(IssueSequentialID, label, "scene at position %d has index %d, expected %d", i+1, s.Index, i+1)
		}
		switch {
		case o.allowShort && (s.Seconds <= 0 || s.Seconds > MaxSceneSeconds):
			r.add(IssueDuration, label, "scene %s lasts %ds, expected 1-%ds", label, s.Seconds, MaxSceneSeconds)
		case !o.allowShort && s.Seconds != MaxSceneSeconds:
			r.add(IssueDuration, label, "scene %s lasts %ds, expected %ds", label, s.Seconds, MaxSceneSeconds)
		}
		for _, ref := range s.Refs() {
			if !slices.Contains(roster, ref) {
				r.add(IssueCharacterRef, label, "scene %s references unknown character %q", label, ref)
			}
		}
		if s.LocationID != "" && !slices.Contains(locations, s.LocationID) {
			r.add(IssueLocationRef, label, "scene %s references unknown location %q", label, s.LocationID)
		}
	}
	if n > 0 {
		if first := doc.Scenes[0]; !strings.EqualFold(strings.TrimSpace(first.Name), "Intro") {
			r.add(IssueIntro, first.ID, "first scene is tagged %q, expected \"Intro\"", first.Name)
		}
		if last := doc.Scenes[n-1]; n > 1 && !strings.EqualFold(strings.TrimSpace(last.Name), "Outro") {
			r.add(IssueOutro, last.ID, "last scene is tagged %q, expected \"Outro\"", last.Name)
		}
	}
	validateFolkloreRoster(doc, &r)
	r.OK = len(r.Issues) == 0
	return r
}

// ValidateRaw validates an enhanced document that may not match the typed model exactly.
func ValidateRaw(raw map[string]any, requestedScenes int, opts ...ValidateOption) (Report, error) {
	doc, err := DecodeValue(raw)
	if err != nil {
		return Report{}, err
	}
	return Validate(doc, requestedScenes, opts...), nil
}

// folkloreRosters lists the characters a well known folk tale must contain,
// keyed by the words that identify the tale in a title.
var folkloreRosters = []struct {
	keywords []string
	ids      []string
}{
	{keywords: []string{"malin", "kundang"}, ids: []string{"malin_kundang", "ibu_malin"}},
}

func validateFolkloreRoster(doc *Document, r *Report) {
	title := strings.ToLower(doc.Title)
	roster := util.Map(doc.RosterIDs(), strings.ToLower)
	for _, tale := range folkloreRosters {
		if slices.ContainsFunc(tale.keywords, func(k string) bool { return !strings.Contains(title, k) }) {
			continue
		}
		for _, id := range tale.ids {
			if !slices.Contains(roster, id) {
				r.add(IssueRoster, "", "story %q requires character %q in roster", strings.Join(tale.keywords, " "), id)
			}
		}
	}
}
