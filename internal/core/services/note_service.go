package services

import (
	"context"
	"slices"
	"strings"

	"go.uber.org/zap"

	"github.com/comitanigiacomo/learnify-engine/internal/core/domain"
)

const defaultNoteImage = "https://placehold.co/300x200"

// SubjectLister yields the subjects a user has configured.
type SubjectLister interface {
	Subjects(ctx context.Context, userID string) ([]domain.Subject, error)
}

type NoteService struct {
	notes    *collection[[]domain.Note]
	subjects SubjectLister
}

func NewNoteService(store domain.DocumentStore, subjects SubjectLister, logger *zap.Logger) *NoteService {
	return &NoteService{
		notes:    newCollection(store, domain.KeyNotes, func() []domain.Note { return []domain.Note{} }, logger),
		subjects: subjects,
	}
}

type CreateNoteInput struct {
	UserID    string
	Title     string
	Content   string
	Subject   string
	Image     string
	ImageHint string
}

type UpdateNoteInput struct {
	ID        int
	UserID    string
	Title     *string
	Content   *string
	Subject   *string
	Image     *string
	ImageHint *string
}

// List returns the notes whose subject, or the category of that subject,
// equals filter. domain.AllSubjects and the empty string match every note.
func (s *NoteService) List(ctx context.Context, userID, filter string) ([]domain.Note, error) {
	notes, err := s.notes.get(ctx, userID)
	if err != nil {
		return nil, err
	}

	filter = strings.TrimSpace(filter)
	if filter == "" || filter == domain.AllSubjects {
		return notes, nil
	}

	categories := map[string]string{}
	if s.subjects != nil {
		subjects, err := s.subjects.Subjects(ctx, userID)
		if err != nil {
			return nil, err
		}
		for _, sub := range subjects {
			categories[sub.Name] = sub.Category
		}
	}

	matched := make([]domain.Note, 0, len(notes))
	for _, n := range notes {
		if n.Subject == filter || categories[n.Subject] == filter {
			matched = append(matched, n)
		}
	}
	return matched, nil
}

func (s *NoteService) Get(ctx context.Context, userID string, id int) (*domain.Note, error) {
	notes, err := s.notes.get(ctx, userID)
	if err != nil {
		return nil, err
	}
	return domain.FindNote(notes, id)
}

func (s *NoteService) Create(ctx context.Context, input CreateNoteInput) (*domain.Note, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, domain.ErrNoteTitleEmpty
	}

	var created domain.Note
	_, err := s.notes.update(ctx, input.UserID, func(notes *[]domain.Note) error {
		created = domain.Note{
			ID:        domain.NextNoteID(*notes),
			Title:     title,
			Content:   input.Content,
			Subject:   strings.TrimSpace(input.Subject),
			Image:     input.Image,
			ImageHint: input.ImageHint,
			Chapters:  []domain.Chapter{},
		}
		if created.Image == "" {
			created.Image = defaultNoteImage
		}
		*notes = append(*notes, created)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (s *NoteService) Update(ctx context.Context, input UpdateNoteInput) (*domain.Note, error) {
	var updated domain.Note
	err := s.editNote(ctx, input.UserID, input.ID, func(n *domain.Note) error {
		if input.Title != nil {
			title := strings.TrimSpace(*input.Title)
			if title == "" {
				return domain.ErrNoteTitleEmpty
			}
			n.Title = title
		}
		if input.Content != nil {
			n.Content = *input.Content
		}
		if input.Subject != nil {
			n.Subject = strings.TrimSpace(*input.Subject)
		}
		if input.Image != nil {
			n.Image = *input.Image
		}
		if input.ImageHint != nil {
			n.ImageHint = *input.ImageHint
		}
		updated = *n
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *NoteService) Delete(ctx context.Context, userID string, id int) error {
	_, err := s.notes.update(ctx, userID, func(notes *[]domain.Note) error {
		idx := slices.IndexFunc(*notes, func(n domain.Note) bool { return n.ID == id })
		if idx < 0 {
			return domain.ErrNoteNotFound
		}
		*notes = slices.Delete(*notes, idx, idx+1)
		return nil
	})
	return err
}

func (s *NoteService) GetChapter(ctx context.Context, userID string, noteID, chapterID int) (*domain.Chapter, error) {
	note, err := s.Get(ctx, userID, noteID)
	if err != nil {
		return nil, err
	}
	return note.Chapter(chapterID)
}

func (s *NoteService) AddChapter(ctx context.Context, userID string, noteID int, title string) (*domain.Chapter, error) {
	var created domain.Chapter
	err := s.editNote(ctx, userID, noteID, func(n *domain.Note) error {
		ch, err := n.AddChapter(title)
		created = ch
		return err
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (s *NoteService) RenameChapter(ctx context.Context, userID string, noteID, chapterID int, title string) (*domain.Chapter, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, domain.ErrChapterTitleEmpty
	}

	var renamed domain.Chapter
	err := s.editChapter(ctx, userID, noteID, chapterID, func(ch *domain.Chapter) error {
		ch.Title = title
		renamed = *ch
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &renamed, nil
}

func (s *NoteService) DeleteChapter(ctx context.Context, userID string, noteID, chapterID int) error {
	return s.editNote(ctx, userID, noteID, func(n *domain.Note) error {
		return n.RemoveChapter(chapterID)
	})
}

// SaveSection creates the section when section.ID is 0 and replaces it otherwise.
func (s *NoteService) SaveSection(ctx context.Context, userID string, noteID, chapterID int, section domain.Section) (*domain.Section, error) {
	var saved domain.Section
	err := s.editChapter(ctx, userID, noteID, chapterID, func(ch *domain.Chapter) error {
		sec, err := ch.SaveSection(section)
		saved = sec
		return err
	})
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

func (s *NoteService) DeleteSection(ctx context.Context, userID string, noteID, chapterID, sectionID int) error {
	return s.editChapter(ctx, userID, noteID, chapterID, func(ch *domain.Chapter) error {
		return ch.RemoveSection(sectionID)
	})
}

func (s *NoteService) editNote(ctx context.Context, userID string, noteID int, fn func(*domain.Note) error) error {
	_, err := s.notes.update(ctx, userID, func(notes *[]domain.Note) error {
		note, err := domain.FindNote(*notes, noteID)
		if err != nil {
			return err
		}
		return fn(note)
	})
	return err
}

func (s *NoteService) editChapter(ctx context.Context, userID string, noteID, chapterID int, fn func(*domain.Chapter) error) error {
	return s.editNote(ctx, userID, noteID, func(n *domain.Note) error {
		ch, err := n.Chapter(chapterID)
		if err != nil {
			return err
		}
		return fn(ch)
	})
}
