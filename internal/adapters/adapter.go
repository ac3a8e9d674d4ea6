package adapters

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"livenotify/internal/models"
)

// Adapter turns a platform channel id into a RoomInfo. Implementations hold
// no mutable state and may be called from several goroutines.
type Adapter interface {
	Platform() models.Platform
	NormalizeChannelID(raw string) (string, error)
	FetchRoomInfo(ctx context.Context, channelID string) (*models.RoomInfo, error)
}

type Reason string

const (
	ReasonNetwork   Reason = "network"
	ReasonNotFound  Reason = "not_found"
	ReasonMalformed Reason = "malformed"
	ReasonUpstream  Reason = "upstream"
	ReasonInvalidID Reason = "invalid_id"
)

type FetchError struct {
	Platform  models.Platform
	ChannelID string
	Reason    Reason
	Err       error
}

func (e *FetchError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s %s: %s", e.Platform, e.ChannelID, e.Reason)
	}
	return fmt.Sprintf("%s %s: %s: %v", e.Platform, e.ChannelID, e.Reason, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

func newFetchError(p models.Platform, channelID string, reason Reason, err error) *FetchError {
	return &FetchError{Platform: p, ChannelID: channelID, Reason: reason, Err: err}
}

// ReasonOf extracts the failure reason from any error in the chain. Errors
// that did not come from an adapter are reported as upstream failures.
func ReasonOf(err error) Reason {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Reason
	}
	return ReasonUpstream
}

// IsNotFound reports whether the platform said the channel does not exist.
func IsNotFound(err error) bool {
	return ReasonOf(err) == ReasonNotFound
}

var numericID = regexp.MustCompile(`^[0-9]{1,12}$`)

func normalizeNumeric(p models.Platform, raw string) (string, error) {
	id := trimChannel(raw)
	if !numericID.MatchString(id) {
		return "", newFetchError(p, raw, ReasonInvalidID, fmt.Errorf("room id must be numeric"))
	}
	return id, nil
}
