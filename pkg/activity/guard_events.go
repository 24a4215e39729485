package activity

import (
	"strings"
	"time"
)

// Verbs stamped on guard lifecycle events.
const (
	VerbGuardApplied  = "guard.applied"
	VerbGuardRestored = "guard.restored"

	guardObjectType = "ctxvars.guard"
)

// GuardEventInput describes the fields available when a guard emits a
// lifecycle event.
type GuardEventInput struct {
	GuardID    string
	Vars       []string
	ActorID    string
	UserID     string
	TenantID   string
	Channel    string
	Recipients []string
	Metadata   map[string]any
	OccurredAt time.Time
}

// BuildGuardAppliedEvent constructs a normalized event for a completed apply
// phase.
func BuildGuardAppliedEvent(input GuardEventInput) Event {
	return BuildGuardEvent(VerbGuardApplied, input)
}

// BuildGuardRestoredEvent constructs a normalized event for a completed
// restore phase.
func BuildGuardRestoredEvent(input GuardEventInput) Event {
	return BuildGuardEvent(VerbGuardRestored, input)
}

// BuildGuardEvent constructs an event with the given verb, recording the
// touched variable names in metadata.
func BuildGuardEvent(verb string, input GuardEventInput) Event {
	metadata := cloneMap(input.Metadata)
	if len(input.Vars) > 0 {
		if metadata == nil {
			metadata = map[string]any{}
		}
		metadata["vars"] = append([]string{}, input.Vars...)
	}

	recipients := input.Recipients
	if len(recipients) > 0 {
		recipients = append([]string{}, input.Recipients...)
	}

	objectID := strings.TrimSpace(input.GuardID)
	if objectID == "" {
		objectID = guardObjectType
	}

	return Event{
		Verb:       verb,
		ActorID:    strings.TrimSpace(input.ActorID),
		UserID:     strings.TrimSpace(input.UserID),
		TenantID:   strings.TrimSpace(input.TenantID),
		ObjectType: guardObjectType,
		ObjectID:   objectID,
		Channel:    strings.TrimSpace(input.Channel),
		Recipients: recipients,
		Metadata:   metadata,
		OccurredAt: input.OccurredAt,
	}
}
