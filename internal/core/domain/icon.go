package domain

import (
	"sort"
	"strings"
)

// IconName identifies one of the habit icons known to the clients.
type IconName string

const (
	IconTarget   IconName = "target"
	IconBookOpen IconName = "book-open"
	IconDumbbell IconName = "dumbbell"
	IconRepeat   IconName = "repeat"
	IconBrain    IconName = "brain"
	IconPencil   IconName = "pencil"
	IconMusic    IconName = "music"
	IconHeart    IconName = "heart"

	DefaultIcon = IconTarget
)

type IconInfo struct {
	Name  IconName `json:"name"`
	Label string   `json:"label"`
	Glyph string   `json:"glyph"`
}

var iconTable = map[IconName]IconInfo{
	IconTarget:   {Name: IconTarget, Label: "Target", Glyph: "🎯"},
	IconBookOpen: {Name: IconBookOpen, Label: "Reading", Glyph: "📖"},
	IconDumbbell: {Name: IconDumbbell, Label: "Workout", Glyph: "🏋"},
	IconRepeat:   {Name: IconRepeat, Label: "Review", Glyph: "🔁"},
	IconBrain:    {Name: IconBrain, Label: "Study", Glyph: "🧠"},
	IconPencil:   {Name: IconPencil, Label: "Writing", Glyph: "✏"},
	IconMusic:    {Name: IconMusic, Label: "Music", Glyph: "🎵"},
	IconHeart:    {Name: IconHeart, Label: "Health", Glyph: "❤"},
}

// ParseIcon maps a client supplied name to a known icon. Unknown or empty
// names resolve to DefaultIcon.
func ParseIcon(name string) IconName {
	n := IconName(strings.ToLower(strings.TrimSpace(name)))
	if _, ok := iconTable[n]; ok {
		return n
	}
	return DefaultIcon
}

func (n IconName) Info() IconInfo {
	if info, ok := iconTable[n]; ok {
		return info
	}
	return iconTable[DefaultIcon]
}

// Icons lists every known icon ordered by name.
func Icons() []IconInfo {
	list := make([]IconInfo, 0, len(iconTable))
	for _, info := range iconTable {
		list = append(list, info)
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].Name < list[j].Name
	})
	return list
}
