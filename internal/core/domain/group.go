package domain

import (
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrGroupNameEmpty        = errors.New("group name cannot be empty")
	ErrGroupNotFound         = errors.New("group not found")
	ErrNotGroupMember        = errors.New("user is not a member of this group")
	ErrAlreadyMember         = errors.New("user is already a member of this group")
	ErrSharedTaskFields      = errors.New("shared task title and assignee are required")
	ErrUnknownAssignee       = errors.New("assignee is not a member of this group")
	ErrInvalidSharedStatus   = errors.New("invalid shared task status (To Do, In Progress or Completed)")
	ErrSharedTaskNotFound    = errors.New("shared task not found")
	ErrEmptyMessage          = errors.New("message text or attachment is required")
	ErrGroupMemberIncomplete = errors.New("member user id and name are required")
)

// GroupPlaceholderImages is the rotation used when a member changes the group picture.
var GroupPlaceholderImages = []string{
	"/group-placeholder-1.png",
	"/group-placeholder-2.png",
	"/group-placeholder-3.png",
	"/group-placeholder-4.png",
}

const (
	NewGroupImage    = "/group-new.png"
	DefaultAvatar    = "/profile.png"
	GroupOwnerPrefix = "group:"
)

type SharedTaskStatus string

const (
	SharedToDo       SharedTaskStatus = "To Do"
	SharedInProgress SharedTaskStatus = "In Progress"
	SharedCompleted  SharedTaskStatus = "Completed"
)

type Member struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

type SharedTask struct {
	ID       int              `json:"id"`
	Title    string           `json:"title"`
	Status   SharedTaskStatus `json:"status"`
	Assignee string           `json:"assignee"`
	DueDate  time.Time        `json:"due_date"`
}

// SharedTaskPatch holds the fields to change; nil fields are left untouched.
type SharedTaskPatch struct {
	Title    *string
	Status   *string
	Assignee *string
	DueDate  *time.Time
}

type ChatMessage struct {
	UserID     string    `json:"user_id"`
	User       string    `json:"user"`
	Avatar     string    `json:"avatar"`
	Message    string    `json:"message"`
	Attachment string    `json:"attachment,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

type Group struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	Image     string        `json:"image"`
	ImageHint string        `json:"image_hint"`
	Members   []Member      `json:"members"`
	Tasks     []SharedTask  `json:"tasks"`
	Chat      []ChatMessage `json:"chat"`
	CreatedAt time.Time     `json:"created_at"`
}

// GroupOwner is the document owner id under which a group is stored.
func GroupOwner(groupID string) string {
	return GroupOwnerPrefix + groupID
}

func NewGroup(name string, creator Member) (*Group, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrGroupNameEmpty
	}
	if err := creator.validate(); err != nil {
		return nil, err
	}

	return &Group{
		ID:        uuid.NewString(),
		Name:      name,
		Image:     NewGroupImage,
		ImageHint: "new group",
		Members:   []Member{creator.withDefaults()},
		Tasks:     []SharedTask{},
		Chat:      []ChatMessage{},
		CreatedAt: time.Now().UTC(),
	}, nil
}

func (m Member) validate() error {
	if strings.TrimSpace(m.UserID) == "" || strings.TrimSpace(m.Name) == "" {
		return ErrGroupMemberIncomplete
	}
	return nil
}

func (m Member) withDefaults() Member {
	m.Name = strings.TrimSpace(m.Name)
	if m.Avatar == "" {
		m.Avatar = DefaultAvatar
	}
	return m
}

func (g Group) MembersCount() int {
	return len(g.Members)
}

func (g Group) Member(userID string) (Member, bool) {
	for _, m := range g.Members {
		if m.UserID == userID {
			return m, true
		}
	}
	return Member{}, false
}

func (g Group) IsMember(userID string) bool {
	_, ok := g.Member(userID)
	return ok
}

func (g *Group) Rename(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrGroupNameEmpty
	}
	g.Name = name
	return nil
}

// CyclePicture moves to the next placeholder image. A custom or initial image
// restarts the rotation from the first placeholder.
func (g *Group) CyclePicture() {
	current := slices.Index(GroupPlaceholderImages, g.Image)
	g.Image = GroupPlaceholderImages[(current+1)%len(GroupPlaceholderImages)]
}

func (g *Group) AddMember(m Member) error {
	if err := m.validate(); err != nil {
		return err
	}
	if g.IsMember(m.UserID) {
		return ErrAlreadyMember
	}
	g.Members = append(g.Members, m.withDefaults())
	return nil
}

func (g *Group) hasMemberNamed(name string) bool {
	for _, m := range g.Members {
		if m.Name == name {
			return true
		}
	}
	return false
}

func (g *Group) AddTask(title, assignee string, due time.Time) (SharedTask, error) {
	title = strings.TrimSpace(title)
	assignee = strings.TrimSpace(assignee)
	if title == "" || assignee == "" {
		return SharedTask{}, ErrSharedTaskFields
	}
	if !g.hasMemberNamed(assignee) {
		return SharedTask{}, ErrUnknownAssignee
	}

	task := SharedTask{
		ID:       nextID(g.Tasks, func(t SharedTask) int { return t.ID }),
		Title:    title,
		Status:   SharedToDo,
		Assignee: assignee,
		DueDate:  due.UTC(),
	}
	g.Tasks = append(g.Tasks, task)
	return task, nil
}

func (g *Group) UpdateTask(id int, patch SharedTaskPatch) (SharedTask, error) {
	idx := slices.IndexFunc(g.Tasks, func(t SharedTask) bool { return t.ID == id })
	if idx < 0 {
		return SharedTask{}, ErrSharedTaskNotFound
	}
	task := g.Tasks[idx]

	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if title == "" {
			return SharedTask{}, ErrSharedTaskFields
		}
		task.Title = title
	}
	if patch.Status != nil {
		switch s := SharedTaskStatus(*patch.Status); s {
		case SharedToDo, SharedInProgress, SharedCompleted:
			task.Status = s
		default:
			return SharedTask{}, ErrInvalidSharedStatus
		}
	}
	if patch.Assignee != nil {
		if !g.hasMemberNamed(*patch.Assignee) {
			return SharedTask{}, ErrUnknownAssignee
		}
		task.Assignee = *patch.Assignee
	}
	if patch.DueDate != nil {
		task.DueDate = patch.DueDate.UTC()
	}

	g.Tasks[idx] = task
	return task, nil
}

func (g *Group) PostMessage(sender Member, text, attachment string, now time.Time) (ChatMessage, error) {
	if strings.TrimSpace(text) == "" && strings.TrimSpace(attachment) == "" {
		return ChatMessage{}, ErrEmptyMessage
	}

	msg := ChatMessage{
		UserID:     sender.UserID,
		User:       sender.Name,
		Avatar:     sender.Avatar,
		Message:    text,
		Attachment: strings.TrimSpace(attachment),
		Timestamp:  now.UTC(),
	}
	g.Chat = append(g.Chat, msg)
	return msg, nil
}

const (
	EventGroupRenamed  = "group.renamed"
	EventGroupPicture  = "group.picture"
	EventMemberAdded   = "member.added"
	EventTaskAdded     = "task.added"
	EventTaskUpdated   = "task.updated"
	EventMessagePosted = "chat.message"
)

// GroupEvent is pushed to the live subscribers of a group.
type GroupEvent struct {
	Type    string `json:"type"`
	GroupID string `json:"group_id"`
	Data    any    `json:"data"`
}
