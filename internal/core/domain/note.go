package domain

import (
	"errors"
	"strings"
)

var (
	ErrNoteTitleEmpty    = errors.New("note title cannot be empty")
	ErrChapterTitleEmpty = errors.New("chapter title cannot be empty")
	ErrSectionTitleEmpty = errors.New("section title cannot be empty")
	ErrNoteNotFound      = errors.New("note not found")
	ErrChapterNotFound   = errors.New("chapter not found")
	ErrSectionNotFound   = errors.New("section not found")
)

// AllSubjects is the subject filter that matches every note.
const AllSubjects = "All"

type Section struct {
	ID      int    `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

type Chapter struct {
	ID       int       `json:"id"`
	Title    string    `json:"title"`
	Sections []Section `json:"sections"`
}

type Note struct {
	ID        int       `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Subject   string    `json:"subject"`
	Image     string    `json:"image,omitempty"`
	ImageHint string    `json:"image_hint,omitempty"`
	Chapters  []Chapter `json:"chapters"`
}

func NextNoteID(notes []Note) int {
	return nextID(notes, func(n Note) int { return n.ID })
}

func FindNote(notes []Note, id int) (*Note, error) {
	for i := range notes {
		if notes[i].ID == id {
			return &notes[i], nil
		}
	}
	return nil, ErrNoteNotFound
}

func (n *Note) Chapter(id int) (*Chapter, error) {
	for i := range n.Chapters {
		if n.Chapters[i].ID == id {
			return &n.Chapters[i], nil
		}
	}
	return nil, ErrChapterNotFound
}

func (n *Note) AddChapter(title string) (Chapter, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return Chapter{}, ErrChapterTitleEmpty
	}

	ch := Chapter{
		ID:       nextID(n.Chapters, func(c Chapter) int { return c.ID }),
		Title:    title,
		Sections: []Section{},
	}
	n.Chapters = append(n.Chapters, ch)
	return ch, nil
}

func (n *Note) RemoveChapter(id int) error {
	for i := range n.Chapters {
		if n.Chapters[i].ID == id {
			n.Chapters = append(n.Chapters[:i], n.Chapters[i+1:]...)
			return nil
		}
	}
	return ErrChapterNotFound
}

// SaveSection appends s when s.ID is 0 and replaces the section with the same
// id otherwise.
func (c *Chapter) SaveSection(s Section) (Section, error) {
	s.Title = strings.TrimSpace(s.Title)
	if s.Title == "" {
		return Section{}, ErrSectionTitleEmpty
	}

	if s.ID == 0 {
		s.ID = nextID(c.Sections, func(sec Section) int { return sec.ID })
		c.Sections = append(c.Sections, s)
		return s, nil
	}

	for i := range c.Sections {
		if c.Sections[i].ID == s.ID {
			c.Sections[i] = s
			return s, nil
		}
	}
	return Section{}, ErrSectionNotFound
}

func (c *Chapter) RemoveSection(id int) error {
	for i := range c.Sections {
		if c.Sections[i].ID == id {
			c.Sections = append(c.Sections[:i], c.Sections[i+1:]...)
			return nil
		}
	}
	return ErrSectionNotFound
}
