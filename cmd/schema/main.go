// Command schema writes JSON schemas for the websocket protocol so clients can
// validate frames without reading the Go types.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/invopop/jsonschema"

	"github.com/Raquellcesar/Raquellcesar.Stardew-sub001/internal/net/proto"
)

type schemaDoc struct {
	file        string
	value       any
	title       string
	description string
}

var protocolDocs = []schemaDoc{
	{
		file:        "client_message.schema.json",
		value:       new(proto.ClientMessage),
		title:       "Click-to-move client message",
		description: "Input frames sent over /ws: clicks, held clicks, releases, resets, joystick and heartbeats",
	},
	{
		file:        "state_message.schema.json",
		value:       new(proto.StateMessage),
		title:       "Click-to-move state message",
		description: "Per-tick controller snapshot broadcast to every session",
	},
	{
		file:        "welcome_message.schema.json",
		value:       new(proto.WelcomeMessage),
		title:       "Click-to-move welcome message",
		description: "First frame after the websocket upgrade",
	},
}

func main() {
	outDir := flag.String("out", "", "directory to write the wire protocol JSON schemas")
	flag.Parse()
	if *outDir == "" {
		fmt.Fprintln(os.Stderr, "--out is required")
		os.Exit(2)
	}
	for name, schema := range buildSchemas() {
		if err := writeSchema(filepath.Join(*outDir, name), schema); err != nil {
			fmt.Fprintf(os.Stderr, "schema: %v\n", err)
			os.Exit(1)
		}
	}
}

func buildSchemas() map[string]*jsonschema.Schema {
	reflector := jsonschema.Reflector{AllowAdditionalProperties: true}
	out := make(map[string]*jsonschema.Schema, len(protocolDocs))
	for _, doc := range protocolDocs {
		schema := reflector.Reflect(doc.value)
		schema.Title = doc.title
		schema.Description = doc.description
		out[doc.file] = schema
	}
	return out
}

// writeSchema replaces outPath atomically through a temp file in the same
// directory.
func writeSchema(outPath string, schema *jsonschema.Schema) error {
	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", filepath.Base(outPath), err)
	}
	dir := filepath.Dir(outPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(outPath)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp schema: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmp.Name(), err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("chmod %s: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), outPath); err != nil {
		return fmt.Errorf("replace %s: %w", outPath, err)
	}
	return nil
}
