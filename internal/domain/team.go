// Package domain contains the core data structures and domain logic for the application.
package domain

import (
	"fmt"
	"strings"
	"time"
)

// Window is the trailing interval counted by one run.
// The external schedule must fire on the same interval.
const Window = 5 * time.Minute

// HistoryLimit is the number of history entries retained.
const HistoryLimit = 50

// Team is a configured group of repositories competing on the leaderboard.
type Team struct {
	ID    string   `json:"id" yaml:"id"`
	Name  string   `json:"name" yaml:"name"`
	Repos []string `json:"repos" yaml:"repos"`
	Color string   `json:"color" yaml:"color"`
}

// RepoRef identifies a repository by owner and name.
type RepoRef struct {
	Owner string
	Name  string
}

// String returns the "owner/name" form.
func (r RepoRef) String() string {
	return r.Owner + "/" + r.Name
}

// ParseRepo splits an "owner/name" identifier.
func ParseRepo(s string) (RepoRef, error) {
	owner, name, ok := strings.Cut(strings.TrimSpace(s), "/")
	if !ok || owner == "" || name == "" || strings.Contains(name, "/") {
		return RepoRef{}, fmt.Errorf("invalid repository identifier %q: expected owner/name", s)
	}
	return RepoRef{Owner: owner, Name: name}, nil
}

// WindowCounts is the result of counting one window across all teams.
type WindowCounts struct {
	ByTeam map[string]int
	Total  int
}
