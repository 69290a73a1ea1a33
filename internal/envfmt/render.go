package envfmt

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/unkn0wn-root/envdesk/internal/envfile"
	"github.com/unkn0wn-root/envdesk/internal/errdef"
)

type Options struct {
	// IncludeDisabled adds disabled variables to the json object.
	IncludeDisabled bool
}

// Render serializes entries in the requested format.
func Render(entries []envfile.Entry, f Format, opts Options) (string, error) {
	switch f {
	case FormatEnv:
		return Env(entries), nil
	case FormatJSON:
		return JSONObject(entries, opts.IncludeDisabled)
	case FormatShell:
		return Shell(entries), nil
	case FormatFullJSON:
		return FullJSON(entries)
	}
	return "", errdef.New(errdef.CodeFormat, "unknown format %q", string(f))
}

// Env renders the native environment file form. Comments become "# text"
// lines or blank lines, variables without a key are dropped and disabled
// variables are written behind a leading "#".
func Env(entries []envfile.Entry) string {
	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		switch {
		case e.Kind == envfile.KindComment:
			if e.Key == "" {
				lines = append(lines, "")
			} else {
				lines = append(lines, "# "+e.Key)
			}
		case strings.TrimSpace(e.Key) != "":
			line := e.Key + "=" + quote(e.Value, " \n\"")
			if !e.Enabled {
				line = "#" + line
			}
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}

// Shell renders one export statement per enabled variable.
func Shell(entries []envfile.Entry) string {
	var lines []string
	for _, e := range entries {
		if e.Kind != envfile.KindVariable || !e.Enabled || strings.TrimSpace(e.Key) == "" {
			continue
		}
		lines = append(lines, "export "+e.Key+"="+quote(e.Value, " \n\"$"))
	}
	return strings.Join(lines, "\n")
}

func quote(value, triggers string) string {
	if !strings.ContainsAny(value, triggers) {
		return value
	}
	return `"` + strings.ReplaceAll(value, `"`, `\"`) + `"`
}

// JSONObject renders variables as a flat key/value object with two space
// indentation. A repeated key keeps the position of its first occurrence and
// the value of its last.
func JSONObject(entries []envfile.Entry, includeDisabled bool) (string, error) {
	var order []string
	values := make(map[string]string)
	for _, e := range entries {
		if e.Kind != envfile.KindVariable || strings.TrimSpace(e.Key) == "" {
			continue
		}
		if !e.Enabled && !includeDisabled {
			continue
		}
		if _, ok := values[e.Key]; !ok {
			order = append(order, e.Key)
		}
		values[e.Key] = e.Value
	}
	if len(order) == 0 {
		return "{}", nil
	}

	var b strings.Builder
	b.WriteString("{\n")
	for i, key := range order {
		k, err := encodeString(key)
		if err != nil {
			return "", err
		}
		v, err := encodeString(values[key])
		if err != nil {
			return "", err
		}
		b.WriteString("  ")
		b.WriteString(k)
		b.WriteString(": ")
		b.WriteString(v)
		if i < len(order)-1 {
			b.WriteString(",")
		}
		b.WriteString("\n")
	}
	b.WriteString("}")
	return b.String(), nil
}

// FullJSON renders the complete entry list, ids and disabled entries
// included, so it can be restored with DecodeFullJSON.
func FullJSON(entries []envfile.Entry) (string, error) {
	if entries == nil {
		entries = []envfile.Entry{}
	}
	return encode(entries, "  ")
}

// DecodeFullJSON reads a list produced by FullJSON. Entries without an id
// receive a fresh one and unknown kinds are rejected.
func DecodeFullJSON(data []byte) ([]envfile.Entry, error) {
	var entries []envfile.Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, errdef.Wrap(errdef.CodeParse, err, "decode full json")
	}
	seen := make(map[string]bool, len(entries))
	for i := range entries {
		switch entries[i].Kind {
		case envfile.KindVariable, envfile.KindComment:
		default:
			return nil, errdef.New(errdef.CodeParse, "entry %d: unknown type %q", i, string(entries[i].Kind))
		}
		if entries[i].ID == "" || seen[entries[i].ID] {
			entries[i].ID = envfile.NewID()
		}
		seen[entries[i].ID] = true
	}
	if entries == nil {
		entries = []envfile.Entry{}
	}
	return entries, nil
}

func encodeString(s string) (string, error) {
	return encode(s, "")
}

func encode(v any, indent string) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if indent != "" {
		enc.SetIndent("", indent)
	}
	if err := enc.Encode(v); err != nil {
		return "", errdef.Wrap(errdef.CodeFormat, err, "encode json")
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}
