package project

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/KaramelBytes/splitcmp-cli/internal/analysis"
	"github.com/KaramelBytes/splitcmp-cli/internal/utils"
	"github.com/google/uuid"
)

const (
	projectFileName = "project.json"
	reportsDirName  = "reports"
)

// Project is a named collection of archived analysis reports persisted on disk.
// Defaults, when set, pins the columns and split point its analyses use
// unless a command overrides them.
type Project struct {
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Defaults    *analysis.Request  `json:"defaults,omitempty"`
	Reports     map[string]*Report `json:"reports"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`

	// Not serialized: on-disk location of the project.json
	rootDir string `json:"-"`
}

// NewProject constructs an in-memory project. Call Save() to persist.
func NewProject(name, description, rootDir string) *Project {
	return &Project{
		Name:        name,
		Description: description,
		Reports:     make(map[string]*Report),
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
		rootDir:     rootDir,
	}
}

// LoadProject loads a project.json from the provided directory.
func LoadProject(dir string) (*Project, error) {
	path := filepath.Join(dir, projectFileName)
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("project not found at %s: %w", path, err)
		}
		return nil, fmt.Errorf("read project: %w", err)
	}
	var p Project
	if err := json.Unmarshal(b, &p); err != nil {
		return nil, fmt.Errorf("parse project: %w", err)
	}
	p.rootDir = dir
	return &p, nil
}

// RootDir returns the on-disk project directory path.
func (p *Project) RootDir() string { return p.rootDir }

// ReportsDir is where rendered reports of this project are written.
func (p *Project) ReportsDir() string { return filepath.Join(p.rootDir, reportsDirName) }

// Save writes project.json using atomic write.
func (p *Project) Save() error {
	if p.rootDir == "" {
		return errors.New("project root directory not set")
	}
	if err := utils.EnsureProjectDir(p.rootDir); err != nil {
		return fmt.Errorf("ensure dir: %w", err)
	}
	p.UpdatedAt = time.Now()
	data, err := utils.PrettyJSON(p)
	if err != nil {
		return err
	}
	return utils.SafeWriteFile(filepath.Join(p.rootDir, projectFileName), data)
}

// WithDefaults overlays the project's stored request on base. Empty column
// names in Defaults keep the base value.
func (p *Project) WithDefaults(base analysis.Request) analysis.Request {
	if p == nil || p.Defaults == nil {
		return base
	}
	d := p.Defaults
	if d.RankColumn != "" {
		base.RankColumn = d.RankColumn
	}
	if d.ReferenceColumn != "" {
		base.ReferenceColumn = d.ReferenceColumn
	}
	if d.ComparisonColumn != "" {
		base.ComparisonColumn = d.ComparisonColumn
	}
	base.Percentile = d.Percentile
	return base
}

// AddReport stores r under a fresh ID and returns that ID.
func (p *Project) AddReport(r *Report) (string, error) {
	if r == nil {
		return "", errors.New("report is nil")
	}
	r.ID = uuid.NewString()
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}
	if p.Reports == nil {
		p.Reports = make(map[string]*Report)
	}
	p.Reports[r.ID] = r
	p.UpdatedAt = time.Now()
	return r.ID, nil
}

// RemoveReport deletes the report with the given ID.
func (p *Project) RemoveReport(id string) error {
	if _, ok := p.Reports[id]; !ok {
		return fmt.Errorf("report %s not found in project %s", id, p.Name)
	}
	delete(p.Reports, id)
	p.UpdatedAt = time.Now()
	return nil
}

// SortedReports lists reports oldest first; ties are broken by ID.
func (p *Project) SortedReports() []*Report {
	out := make([]*Report, 0, len(p.Reports))
	for _, r := range p.Reports {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}
