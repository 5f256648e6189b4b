// Package search filters the registry for listing: fuzzy matching with
// fzf's scoring (the same ranking the external picker uses) and glob
// matching over tags.
package search

import (
	"fmt"
	"sort"
	"unicode"

	"github.com/gobwas/glob"
	"github.com/junegunn/fzf/src/algo"
	"github.com/junegunn/fzf/src/util"

	"github.com/fyrsmithlabs/perch/internal/project"
)

func init() {
	algo.Init("default")
}

// Match is a project with its fuzzy score.
type Match struct {
	Project project.Project
	Score   int
}

// Fuzzy ranks projects against query by matching their picker line.
// Projects that do not match are dropped; ties keep registry order. An
// empty query matches everything with score 0.
func Fuzzy(projects []project.Project, query string) []Match {
	matches := make([]Match, 0, len(projects))
	if query == "" {
		for _, p := range projects {
			matches = append(matches, Match{Project: p})
		}
		return matches
	}

	pattern, caseSensitive := prepare(query)
	slab := util.MakeSlab(100*1024, 2048)
	for _, p := range projects {
		s, ok := score(project.PickerLine(p), pattern, caseSensitive, slab)
		if !ok {
			continue
		}
		matches = append(matches, Match{Project: p, Score: s})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	return matches
}

// Suggest returns the project name that best fuzzy-matches name.
func Suggest(projects []project.Project, name string) (string, bool) {
	if name == "" {
		return "", false
	}
	pattern, caseSensitive := prepare(name)
	slab := util.MakeSlab(100*1024, 2048)

	best, bestScore := "", 0
	for _, p := range projects {
		s, ok := score(p.Name, pattern, caseSensitive, slab)
		if ok && s > bestScore {
			best, bestScore = p.Name, s
		}
	}
	return best, best != ""
}

// TagGlob keeps the projects with at least one tag matching pattern.
func TagGlob(projects []project.Project, pattern string) ([]project.Project, error) {
	g, err := glob.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid tag pattern %q: %w", pattern, err)
	}

	out := make([]project.Project, 0, len(projects))
	for _, p := range projects {
		for _, tag := range p.Tags {
			if g.Match(tag) {
				out = append(out, p)
				break
			}
		}
	}
	return out, nil
}

// prepare applies smart case: an all-lowercase query matches case
// insensitively.
func prepare(query string) ([]rune, bool) {
	pattern := []rune(query)
	for _, r := range pattern {
		if unicode.IsUpper(r) {
			return pattern, true
		}
	}
	return pattern, false
}

func score(text string, pattern []rune, caseSensitive bool, slab *util.Slab) (int, bool) {
	chars := util.ToChars([]byte(text))
	res, _ := algo.FuzzyMatchV2(caseSensitive, false, true, &chars, pattern, false, slab)
	if res.Start < 0 {
		return 0, false
	}
	return res.Score, true
}
