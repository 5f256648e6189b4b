package project

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Common errors.
var (
	ErrNotFound  = errors.New("project not found")
	ErrEmptyRepo = errors.New("project repo cannot be empty")
)

// DefaultSSHHost is the host used to expand owner/name shorthand repos.
const DefaultSSHHost = "github.com"

// Project is one entry of the registry.
type Project struct {
	// Repo is either a full URL (contains "://") or owner/name shorthand.
	Repo string `json:"repo"`

	// Name is the lookup key.
	Name string `json:"name"`

	// Dir is the folder under the projects root the repo is cloned into.
	Dir string `json:"dir"`

	// Tags are free-form labels in insertion order.
	Tags []string `json:"tags"`

	// Links are URLs associated with the project.
	Links []string `json:"links"`
}

// projectJSON is the decoding superset. Older registries wrote "folder"
// instead of "dir" and had no "links".
type projectJSON struct {
	Repo   string   `json:"repo"`
	Name   string   `json:"name"`
	Dir    *string  `json:"dir"`
	Folder *string  `json:"folder"`
	Tags   []string `json:"tags"`
	Links  []string `json:"links"`
}

// UnmarshalJSON accepts both the current and the legacy record shape.
func (p *Project) UnmarshalJSON(data []byte) error {
	var raw projectJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	p.Repo = raw.Repo
	p.Name = raw.Name
	switch {
	case raw.Dir != nil:
		p.Dir = *raw.Dir
	case raw.Folder != nil:
		p.Dir = *raw.Folder
	default:
		p.Dir = ""
	}
	p.Tags = nonNil(raw.Tags)
	p.Links = nonNil(raw.Links)
	return nil
}

// MarshalJSON always writes the canonical shape with empty arrays rather
// than null.
func (p Project) MarshalJSON() ([]byte, error) {
	type canonical Project
	c := canonical(p)
	c.Tags = nonNil(c.Tags)
	c.Links = nonNil(c.Links)
	return json.Marshal(c)
}

// New builds a project from a repo, defaulting name and dir to the last
// path segment of the repo when they are empty.
func New(repo, name, dir string, tags, links []string) (Project, error) {
	if repo == "" {
		return Project{}, ErrEmptyRepo
	}
	if name == "" {
		name = DefaultName(repo)
	}
	if dir == "" {
		dir = DefaultName(repo)
	}
	return Project{
		Repo:  repo,
		Name:  name,
		Dir:   dir,
		Tags:  append([]string{}, tags...),
		Links: append([]string{}, links...),
	}, nil
}

// DefaultName returns the last "/" separated segment of repo.
func DefaultName(repo string) string {
	if i := strings.LastIndex(repo, "/"); i >= 0 {
		return repo[i+1:]
	}
	return repo
}

// RemoteURL returns the clone URL for repo. Repos with a scheme are used
// verbatim, shorthand is rewritten to git@<host>:<repo>.
func RemoteURL(repo, host string) string {
	if strings.Contains(repo, "://") {
		return repo
	}
	if host == "" {
		host = DefaultSSHHost
	}
	return fmt.Sprintf("git@%s:%s", host, repo)
}

// NotFoundError wraps ErrNotFound with the name that was looked up.
func NotFoundError(name string) error {
	return fmt.Errorf("%w: %q", ErrNotFound, name)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
