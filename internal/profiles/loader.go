package profiles

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/mpopescu/atsmatch/internal/lang"
	"github.com/mpopescu/atsmatch/internal/textnorm"
)

const (
	profilesDir    = "profiles"
	librariesDir   = "libraries"
	domainsDir     = "domains"
	coreLibraryRel = "core_en_ro.yaml"
)

// Loader reads profile documents from a root directory laid out as
//
//	<root>/profiles/<id>.yaml
//	<root>/libraries/core_en_ro.yaml
//	<root>/libraries/domains/<domain>.yaml
type Loader struct {
	root     string
	validate *validator.Validate
}

// NewLoader returns a Loader rooted at dir.
func NewLoader(dir string) *Loader {
	return &Loader{
		root:     dir,
		validate: validator.New(),
	}
}

// Load assembles the profile with the given id for the requested locale:
// core library first, then the domain library, then the profile file, with
// later layers winning where they overlap and libraries never contributing
// identity fields. The result is normalized and validated.
func (l *Loader) Load(id string, locale lang.Locale) (*Profile, error) {
	pid := strings.TrimSuffix(strings.TrimSpace(id), ".yaml")
	if pid == "" {
		return nil, fmt.Errorf("no profile selected")
	}

	path := filepath.Join(l.root, profilesDir, pid+".yaml")
	raw, err := loadYAMLFile(path)
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, &NotFoundError{ID: pid, Path: path}
	}
	profileDoc := parseDocument(raw, locale)
	if profileDoc.ID == "" {
		profileDoc.ID = pid
	}
	if profileDoc.Domain == "" {
		profileDoc.Domain = profileDoc.ID
	}

	var merged document
	if coreRaw, err := loadYAMLFile(filepath.Join(l.root, librariesDir, coreLibraryRel)); err != nil {
		return nil, err
	} else if coreRaw != nil {
		merged = merge(merged, parseDocument(coreRaw, locale), true)
	}
	domainPath := filepath.Join(l.root, librariesDir, domainsDir, profileDoc.Domain+".yaml")
	if domainRaw, err := loadYAMLFile(domainPath); err != nil {
		return nil, err
	} else if domainRaw != nil {
		merged = merge(merged, parseDocument(domainRaw, locale), true)
	}
	merged = merge(merged, profileDoc, false)

	p := merged.toProfile(pid)
	if err := l.validate.Struct(p); err != nil {
		return nil, &DocumentError{Path: path, Message: "validation failed", Cause: err}
	}
	return p, nil
}

// List returns the profiles available under the root, sorted by id.
func (l *Loader) List(locale lang.Locale) ([]Summary, error) {
	dir := filepath.Join(l.root, profilesDir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []Summary{}, nil
		}
		return nil, fmt.Errorf("failed to list profiles in %s: %w", dir, err)
	}

	out := make([]Summary, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		pid := strings.TrimSuffix(e.Name(), ".yaml")
		title := titleFromID(pid)
		if raw, err := loadYAMLFile(filepath.Join(dir, e.Name())); err == nil && raw != nil {
			if t := toString(pickLang(raw["title"], locale)); t != "" {
				title = t
			}
		}
		out = append(out, Summary{ID: pid, Filename: e.Name(), Title: title})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// titleFromID renders a snake_case profile id as a display title.
func titleFromID(id string) string {
	words := strings.Split(strings.ReplaceAll(id, "_", " "), " ")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// loadYAMLFile reads a YAML mapping. A missing file returns (nil, nil) so
// optional libraries degrade to empty layers.
func loadYAMLFile(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, &DocumentError{Path: path, Message: "YAML root must be a mapping", Cause: err}
	}
	if raw == nil {
		raw = map[string]any{}
	}
	return raw, nil
}

// document is one parsed profile-like YAML layer, already resolved to a
// single locale.
type document struct {
	ID              string
	Title           string
	Domain          string
	JobTitles       []string
	Keywords        Bank
	ActionVerbs     []string
	Metrics         []string
	BulletTemplates []string
	SectionPriority []string
	ATSHint         string
	Notes           string
}

// Legacy keyword buckets folded into technologies.
var legacyTechKeys = []string{"services", "platforms", "languages", "concepts"}

func parseDocument(raw map[string]any, locale lang.Locale) document {
	doc := document{
		ID:              toString(raw["id"]),
		Title:           toString(pickLang(raw["title"], locale)),
		Domain:          toString(raw["domain"]),
		JobTitles:       toList(pickLang(raw["job_titles"], locale)),
		ActionVerbs:     toList(pickLang(raw["action_verbs"], locale)),
		Metrics:         flattenMetrics(raw["metrics"], locale),
		BulletTemplates: toList(pickLang(raw["bullet_templates"], locale)),
		SectionPriority: toList(pickLang(raw["section_priority"], locale)),
		ATSHint:         toString(raw["ats_hint"]),
		Notes:           toString(raw["notes"]),
	}

	kw, _ := pickedMap(raw["keywords"])
	doc.Keywords = Bank{
		Core:           toList(pickLang(kw["core"], locale)),
		Technologies:   toList(pickLang(kw["technologies"], locale)),
		Tools:          toList(pickLang(kw["tools"], locale)),
		Certifications: toList(pickLang(kw["certifications"], locale)),
		Frameworks:     toList(pickLang(kw["frameworks"], locale)),
		SoftSkills:     toList(pickLang(kw["soft_skills"], locale)),
	}
	for _, k := range legacyTechKeys {
		doc.Keywords.Technologies = append(doc.Keywords.Technologies, toList(pickLang(kw[k], locale))...)
	}
	return doc
}

// merge layers `layer` on top of base. Lists are unioned in layer order;
// scalars are replaced by a non-empty layer value. Libraries never set
// identity fields (id, title, domain, job titles).
func merge(base, layer document, isLibrary bool) document {
	out := base

	if !isLibrary {
		if layer.ID != "" {
			out.ID = layer.ID
		}
		if layer.Title != "" {
			out.Title = layer.Title
		}
		if layer.Domain != "" {
			out.Domain = layer.Domain
		}
		out.JobTitles = unionLists(out.JobTitles, layer.JobTitles)
	}

	out.ActionVerbs = unionLists(out.ActionVerbs, layer.ActionVerbs)
	out.Metrics = unionLists(out.Metrics, layer.Metrics)
	out.BulletTemplates = unionLists(out.BulletTemplates, layer.BulletTemplates)
	out.SectionPriority = unionLists(out.SectionPriority, layer.SectionPriority)

	out.Keywords.Core = unionLists(out.Keywords.Core, layer.Keywords.Core)
	out.Keywords.Technologies = unionLists(out.Keywords.Technologies, layer.Keywords.Technologies)
	out.Keywords.Tools = unionLists(out.Keywords.Tools, layer.Keywords.Tools)
	out.Keywords.Certifications = unionLists(out.Keywords.Certifications, layer.Keywords.Certifications)
	out.Keywords.Frameworks = unionLists(out.Keywords.Frameworks, layer.Keywords.Frameworks)
	out.Keywords.SoftSkills = unionLists(out.Keywords.SoftSkills, layer.Keywords.SoftSkills)

	if layer.ATSHint != "" {
		out.ATSHint = layer.ATSHint
	}
	if layer.Notes != "" {
		out.Notes = layer.Notes
	}
	return out
}

func unionLists(base, extra []string) []string {
	if len(extra) == 0 {
		return base
	}
	return textnorm.DedupeKeepOrder(append(append([]string{}, base...), extra...))
}

func (d document) toProfile(fallbackID string) *Profile {
	id := d.ID
	if id == "" {
		id = Slugify(fallbackID)
	}
	domain := d.Domain
	if domain == "" {
		domain = id
	}
	title := d.Title
	if title == "" {
		if len(d.JobTitles) > 0 {
			title = d.JobTitles[0]
		} else {
			title = titleFromID(id)
		}
	}

	return &Profile{
		ID:        id,
		Title:     title,
		Domain:    domain,
		JobTitles: textnorm.DedupeKeepOrder(d.JobTitles),
		Keywords: Bank{
			Core:           textnorm.DedupeKeepOrder(d.Keywords.Core),
			Technologies:   textnorm.DedupeKeepOrder(d.Keywords.Technologies),
			Tools:          textnorm.DedupeKeepOrder(d.Keywords.Tools),
			Certifications: textnorm.DedupeKeepOrder(d.Keywords.Certifications),
			Frameworks:     textnorm.DedupeKeepOrder(d.Keywords.Frameworks),
			SoftSkills:     textnorm.DedupeKeepOrder(d.Keywords.SoftSkills),
		},
		ActionVerbs:     textnorm.DedupeKeepOrder(d.ActionVerbs),
		Metrics:         textnorm.DedupeKeepOrder(d.Metrics),
		BulletTemplates: normalizeTemplates(d.BulletTemplates),
		SectionPriority: normalizeSections(d.SectionPriority),
		ATSHint:         d.ATSHint,
		Notes:           d.Notes,
	}
}
