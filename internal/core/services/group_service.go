package services

import (
	"context"
	"fmt"
	"slices"
	"time"

	"go.uber.org/zap"

	"github.com/comitanigiacomo/learnify-engine/internal/core/domain"
)

// Broadcaster fans group events out to live subscribers. Delivery is best effort.
type Broadcaster interface {
	Broadcast(room string, event domain.GroupEvent)
}

type GroupService struct {
	groups      *collection[domain.Group]
	memberships *collection[[]string]
	users       domain.UserRepository
	broadcaster Broadcaster
	logger      *zap.Logger
	now         func() time.Time
}

func NewGroupService(store domain.DocumentStore, users domain.UserRepository, broadcaster Broadcaster, logger *zap.Logger) *GroupService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GroupService{
		groups:      newCollection(store, domain.KeyGroup, func() domain.Group { return domain.Group{} }, logger),
		memberships: newCollection(store, domain.KeyGroups, func() []string { return []string{} }, logger),
		users:       users,
		broadcaster: broadcaster,
		logger:      logger,
		now:         time.Now,
	}
}

func (s *GroupService) SetClock(now func() time.Time) {
	s.now = now
}

type AddSharedTaskInput struct {
	UserID   string
	GroupID  string
	Title    string
	Assignee string
	DueDate  time.Time
}

type UpdateSharedTaskInput struct {
	UserID  string
	GroupID string
	TaskID  int
	Patch   domain.SharedTaskPatch
}

type SendMessageInput struct {
	UserID     string
	GroupID    string
	Message    string
	Attachment string
}

// GroupRoom is the broadcast room of a group.
func GroupRoom(groupID string) string {
	return "group:" + groupID
}

func (s *GroupService) member(ctx context.Context, userID string) (domain.Member, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return domain.Member{}, err
	}
	return domain.Member{UserID: user.ID, Name: user.DisplayName, Avatar: domain.DefaultAvatar}, nil
}

func (s *GroupService) Create(ctx context.Context, userID, name string) (*domain.Group, error) {
	creator, err := s.member(ctx, userID)
	if err != nil {
		return nil, err
	}

	group, err := domain.NewGroup(name, creator)
	if err != nil {
		return nil, err
	}

	if _, err := s.groups.update(ctx, domain.GroupOwner(group.ID), func(g *domain.Group) error {
		*g = *group
		return nil
	}); err != nil {
		return nil, err
	}

	if err := s.join(ctx, userID, group.ID); err != nil {
		return nil, err
	}
	return group, nil
}

func (s *GroupService) join(ctx context.Context, userID, groupID string) error {
	_, err := s.memberships.update(ctx, userID, func(ids *[]string) error {
		if !slices.Contains(*ids, groupID) {
			*ids = append(*ids, groupID)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("record membership: %w", err)
	}
	return nil
}

// List returns the groups the user belongs to, oldest first.
func (s *GroupService) List(ctx context.Context, userID string) ([]domain.Group, error) {
	ids, err := s.memberships.get(ctx, userID)
	if err != nil {
		return nil, err
	}

	groups := make([]domain.Group, 0, len(ids))
	for _, id := range ids {
		g, err := s.groups.get(ctx, domain.GroupOwner(id))
		if err != nil {
			return nil, err
		}
		if g.ID == "" || !g.IsMember(userID) {
			s.logger.Debug("skipping stale group membership", zap.String("user_id", userID), zap.String("group_id", id))
			continue
		}
		groups = append(groups, g)
	}

	slices.SortStableFunc(groups, func(a, b domain.Group) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})
	return groups, nil
}

func (s *GroupService) Get(ctx context.Context, userID, groupID string) (*domain.Group, error) {
	g, err := s.groups.get(ctx, domain.GroupOwner(groupID))
	if err != nil {
		return nil, err
	}
	if g.ID == "" {
		return nil, domain.ErrGroupNotFound
	}
	if !g.IsMember(userID) {
		return nil, domain.ErrNotGroupMember
	}
	return &g, nil
}

// Authorize checks that the user may follow the group's live events.
func (s *GroupService) Authorize(ctx context.Context, userID, groupID string) error {
	_, err := s.Get(ctx, userID, groupID)
	return err
}

func (s *GroupService) Rename(ctx context.Context, userID, groupID, name string) (*domain.Group, error) {
	g, err := s.edit(ctx, userID, groupID, func(g *domain.Group) error {
		return g.Rename(name)
	})
	if err != nil {
		return nil, err
	}
	s.publish(g.ID, domain.EventGroupRenamed, map[string]string{"name": g.Name})
	return g, nil
}

func (s *GroupService) CyclePicture(ctx context.Context, userID, groupID string) (*domain.Group, error) {
	g, err := s.edit(ctx, userID, groupID, func(g *domain.Group) error {
		g.CyclePicture()
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.publish(g.ID, domain.EventGroupPicture, map[string]string{"image": g.Image})
	return g, nil
}

func (s *GroupService) AddMember(ctx context.Context, userID, groupID, newMemberID string) (*domain.Group, error) {
	newMember, err := s.member(ctx, newMemberID)
	if err != nil {
		return nil, err
	}

	g, err := s.edit(ctx, userID, groupID, func(g *domain.Group) error {
		return g.AddMember(newMember)
	})
	if err != nil {
		return nil, err
	}

	if err := s.join(ctx, newMemberID, groupID); err != nil {
		return nil, err
	}
	s.publish(g.ID, domain.EventMemberAdded, newMember)
	return g, nil
}

func (s *GroupService) AddTask(ctx context.Context, input AddSharedTaskInput) (*domain.SharedTask, error) {
	var created domain.SharedTask
	_, err := s.edit(ctx, input.UserID, input.GroupID, func(g *domain.Group) error {
		task, err := g.AddTask(input.Title, input.Assignee, input.DueDate)
		created = task
		return err
	})
	if err != nil {
		return nil, err
	}
	s.publish(input.GroupID, domain.EventTaskAdded, created)
	return &created, nil
}

func (s *GroupService) UpdateTask(ctx context.Context, input UpdateSharedTaskInput) (*domain.SharedTask, error) {
	var updated domain.SharedTask
	_, err := s.edit(ctx, input.UserID, input.GroupID, func(g *domain.Group) error {
		task, err := g.UpdateTask(input.TaskID, input.Patch)
		updated = task
		return err
	})
	if err != nil {
		return nil, err
	}
	s.publish(input.GroupID, domain.EventTaskUpdated, updated)
	return &updated, nil
}

func (s *GroupService) SendMessage(ctx context.Context, input SendMessageInput) (*domain.ChatMessage, error) {
	now := s.now()

	var posted domain.ChatMessage
	_, err := s.edit(ctx, input.UserID, input.GroupID, func(g *domain.Group) error {
		sender, _ := g.Member(input.UserID)
		msg, err := g.PostMessage(sender, input.Message, input.Attachment, now)
		posted = msg
		return err
	})
	if err != nil {
		return nil, err
	}
	s.publish(input.GroupID, domain.EventMessagePosted, posted)
	return &posted, nil
}

// edit applies fn to a group the user belongs to.
func (s *GroupService) edit(ctx context.Context, userID, groupID string, fn func(*domain.Group) error) (*domain.Group, error) {
	g, err := s.groups.update(ctx, domain.GroupOwner(groupID), func(g *domain.Group) error {
		if g.ID == "" {
			return domain.ErrGroupNotFound
		}
		if !g.IsMember(userID) {
			return domain.ErrNotGroupMember
		}
		return fn(g)
	})
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (s *GroupService) publish(groupID, eventType string, data any) {
	if s.broadcaster == nil {
		return
	}
	s.broadcaster.Broadcast(GroupRoom(groupID), domain.GroupEvent{
		Type:    eventType,
		GroupID: groupID,
		Data:    data,
	})
}
