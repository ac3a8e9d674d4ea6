package models

import (
	"errors"
	"strings"
)

type Platform string

const (
	PlatformDouyu    Platform = "douyu"
	PlatformBilibili Platform = "bilibili"
	PlatformTwitch   Platform = "twitch"
)

var ErrUnknownPlatform = errors.New("unknown platform")

// AllPlatforms is the fixed order in which a poll cycle visits platforms.
var AllPlatforms = []Platform{PlatformDouyu, PlatformBilibili, PlatformTwitch}

var platformAliases = map[string]Platform{
	"douyu":    PlatformDouyu,
	"dy":       PlatformDouyu,
	"bilibili": PlatformBilibili,
	"bili":     PlatformBilibili,
	"bl":       PlatformBilibili,
	"twitch":   PlatformTwitch,
	"tw":       PlatformTwitch,
}

var platformTitles = map[Platform]string{
	PlatformDouyu:    "Douyu",
	PlatformBilibili: "Bilibili",
	PlatformTwitch:   "Twitch",
}

func ParsePlatform(s string) (Platform, error) {
	if p, ok := platformAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return p, nil
	}
	return "", ErrUnknownPlatform
}

func (p Platform) Valid() bool {
	_, ok := platformTitles[p]
	return ok
}

// Title is the human-facing platform name.
func (p Platform) Title() string {
	if t, ok := platformTitles[p]; ok {
		return t
	}
	return string(p)
}

func (p Platform) String() string {
	return string(p)
}
