// Package agents manages the agent-configuration document: named agents,
// each with a list of assigned skill slugs. Every mutation is a
// read-modify-write of the whole document.
package agents

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// All assigns a skill to every agent in the document.
const All = "*"

// Agent is one named agent and its assigned skills.
type Agent struct {
	Name   string   `yaml:"name"`
	Skills []string `yaml:"skills"`
}

// Document is the on-disk agent configuration.
type Document struct {
	Agents []Agent `yaml:"agents"`
}

// Manager handles document operations.
type Manager struct {
	path string
}

// NewManager creates a manager for the document at path.
func NewManager(path string) *Manager {
	return &Manager{path: path}
}

// Load reads the document. A missing file yields an empty document.
func (m *Manager) Load() (*Document, error) {
	data, err := os.ReadFile(m.path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Document{}, nil
		}
		return nil, err
	}

	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse agents document: %w", err)
	}
	return &doc, nil
}

// Save rewrites the document.
func (m *Manager) Save(doc *Document) error {
	if err := os.MkdirAll(filepath.Dir(m.path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(doc)
	if err != nil {
		return err
	}
	return os.WriteFile(m.path, data, 0o644)
}

// Assign appends slug to the named agent's skill list, or to every agent
// when agent is All. A missing named agent is created; an already-assigned
// slug is left alone.
func (m *Manager) Assign(slug, agent string) error {
	doc, err := m.Load()
	if err != nil {
		return err
	}

	if agent == All {
		for i := range doc.Agents {
			doc.Agents[i].Skills = appendMissing(doc.Agents[i].Skills, slug)
		}
		return m.Save(doc)
	}

	for i := range doc.Agents {
		if doc.Agents[i].Name == agent {
			doc.Agents[i].Skills = appendMissing(doc.Agents[i].Skills, slug)
			return m.Save(doc)
		}
	}

	doc.Agents = append(doc.Agents, Agent{Name: agent, Skills: []string{slug}})
	return m.Save(doc)
}

// Unassign removes slug from the named agent's skill list, or from every
// agent when agent is All. Unknown agents and unassigned slugs are no-ops.
func (m *Manager) Unassign(slug, agent string) error {
	doc, err := m.Load()
	if err != nil {
		return err
	}

	for i := range doc.Agents {
		if agent != All && doc.Agents[i].Name != agent {
			continue
		}
		doc.Agents[i].Skills = removeAll(doc.Agents[i].Skills, slug)
	}
	return m.Save(doc)
}

func appendMissing(skills []string, slug string) []string {
	for _, s := range skills {
		if s == slug {
			return skills
		}
	}
	return append(skills, slug)
}

func removeAll(skills []string, slug string) []string {
	out := skills[:0]
	for _, s := range skills {
		if s != slug {
			out = append(out, s)
		}
	}
	return out
}
