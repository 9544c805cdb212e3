package logging

import (
	"context"
	"maps"
	"slices"
	"time"
)

type EventType string

type Severity int

const (
	SeverityDebug Severity = iota
	SeverityInfo
	SeverityWarn
	SeverityError
)

var severityNames = map[Severity]string{
	SeverityDebug: "debug",
	SeverityInfo:  "info",
	SeverityWarn:  "warn",
	SeverityError: "error",
}

func (s Severity) String() string {
	if name, ok := severityNames[s]; ok {
		return name
	}
	return "unknown"
}

// ParseSeverity maps a severity name back to its level.
func ParseSeverity(name string) (Severity, bool) {
	for sev, candidate := range severityNames {
		if candidate == name {
			return sev, true
		}
	}
	return SeverityInfo, false
}

type EntityKind string

const (
	EntityKindUnknown   EntityKind = "unknown"
	EntityKindCharacter EntityKind = "character"
	EntityKindEntity    EntityKind = "entity"
	EntityKindObject    EntityKind = "object"
)

type Event struct {
	Type     EventType      `json:"type"`
	Tick     uint64         `json:"tick"`
	Time     time.Time      `json:"time"`
	Actor    EntityRef      `json:"actor"`
	Targets  []EntityRef    `json:"targets,omitempty"`
	Severity Severity       `json:"severity"`
	Category string         `json:"category,omitempty"`
	Payload  any            `json:"payload,omitempty"`
	Extra    map[string]any `json:"extra,omitempty"`
	// TraceID ties together every event caused by one click.
	TraceID string `json:"traceId,omitempty"`
}

type EntityRef struct {
	ID   string     `json:"id"`
	Kind EntityKind `json:"kind"`
}

// CharacterRef names a player character.
func CharacterRef(id string) EntityRef {
	return EntityRef{ID: id, Kind: EntityKindCharacter}
}

const (
	CategoryNavigation  = "navigation"
	CategoryInteraction = "interaction"
)

type Publisher interface {
	Publish(ctx context.Context, event Event)
}

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, Event) {}

func NopPublisher() Publisher {
	return nopPublisher{}
}

type fieldPublisher struct {
	next   Publisher
	fields map[string]any
}

func (p *fieldPublisher) Publish(ctx context.Context, event Event) {
	if p.next == nil {
		return
	}
	p.next.Publish(ctx, mergeFields(event, p.fields))
}

// mergeFields copies fields into the event's Extra without overriding keys
// the event already carries.
func mergeFields(event Event, fields map[string]any) Event {
	if len(fields) == 0 {
		return event
	}
	event = cloneEvent(event)
	if event.Extra == nil {
		event.Extra = make(map[string]any, len(fields))
	}
	for k, v := range fields {
		if _, set := event.Extra[k]; !set {
			event.Extra[k] = v
		}
	}
	return event
}

func cloneEvent(event Event) Event {
	event.Targets = slices.Clone(event.Targets)
	event.Extra = maps.Clone(event.Extra)
	return event
}

// CloneEvent deep-copies the slices and maps of an event so sinks can keep it.
func CloneEvent(event Event) Event {
	return cloneEvent(event)
}

// WithFields decorates p so every event carries the given extra fields.
func WithFields(p Publisher, fields map[string]any) Publisher {
	switch {
	case p == nil:
		return NopPublisher()
	case len(fields) == 0:
		return p
	default:
		return &fieldPublisher{next: p, fields: maps.Clone(fields)}
	}
}
