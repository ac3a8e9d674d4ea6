package models

// ChatSubscriptions maps a platform to the channels a chat follows there,
// in subscription order.
type ChatSubscriptions map[Platform][]string

// Document is the persisted state: who follows what, and the last observed
// live flag per "platform:channel".
type Document struct {
	Subscriptions map[string]ChatSubscriptions `json:"subscriptions"`
	LiveStatus    map[string]bool              `json:"liveStatus"`
}

func NewDocument() *Document {
	return &Document{
		Subscriptions: make(map[string]ChatSubscriptions),
		LiveStatus:    make(map[string]bool),
	}
}

func NewChatSubscriptions() ChatSubscriptions {
	subs := make(ChatSubscriptions, len(AllPlatforms))
	for _, p := range AllPlatforms {
		subs[p] = []string{}
	}
	return subs
}

// Empty reports whether the chat follows nothing on any platform.
func (c ChatSubscriptions) Empty() bool {
	for _, channels := range c {
		if len(channels) > 0 {
			return false
		}
	}
	return true
}

func StatusKey(platform Platform, channelID string) string {
	return string(platform) + ":" + channelID
}

type StoreStats struct {
	Chats         int `json:"chats"`
	Subscriptions int `json:"subscriptions"`
	Channels      int `json:"channels"`
}
