package services

import "errors"

var (
	ErrUnsupportedPlatform = errors.New("unsupported platform")
	ErrInvalidChannel      = errors.New("invalid channel id")
	ErrChannelNotFound     = errors.New("channel not found")
)
