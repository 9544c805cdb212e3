package sinks

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"strconv"
	"strings"

	"github.com/Raquellcesar/Raquellcesar.Stardew-sub001/logging"
)

// ConsoleSink prints one human readable line per event:
//
//	[navigation.path_computed] tick=12 actor=character:farmer info trace=... payload={...}
type ConsoleSink struct {
	out       *log.Logger
	showDebug bool
}

func NewConsoleSink(w io.Writer, cfg logging.ConsoleConfig) *ConsoleSink {
	return &ConsoleSink{out: log.New(w, "", log.LstdFlags), showDebug: cfg.ShowDebug}
}

func (s *ConsoleSink) Write(event logging.Event) error {
	if s.out == nil || (event.Severity == logging.SeverityDebug && !s.showDebug) {
		return nil
	}
	var line strings.Builder
	line.WriteString("[")
	line.WriteString(string(event.Type))
	line.WriteString("] tick=")
	line.WriteString(strconv.FormatUint(event.Tick, 10))
	field(&line, "actor", refString(event.Actor))
	line.WriteString(" ")
	line.WriteString(event.Severity.String())
	if len(event.Targets) > 0 {
		refs := make([]string, len(event.Targets))
		for i, ref := range event.Targets {
			refs[i] = refString(ref)
		}
		field(&line, "targets", strings.Join(refs, ","))
	}
	field(&line, "trace", event.TraceID)
	if event.Payload != nil {
		if data, err := json.Marshal(event.Payload); err == nil {
			field(&line, "payload", string(data))
		}
	}
	s.out.Print(line.String())
	return nil
}

func (s *ConsoleSink) Close(context.Context) error {
	return nil
}

func field(b *strings.Builder, key, value string) {
	if value == "" {
		return
	}
	b.WriteString(" ")
	b.WriteString(key)
	b.WriteString("=")
	b.WriteString(value)
}

func refString(ref logging.EntityRef) string {
	switch {
	case ref.ID == "":
		return string(ref.Kind)
	case ref.Kind == "":
		return ref.ID
	default:
		return string(ref.Kind) + ":" + ref.ID
	}
}
