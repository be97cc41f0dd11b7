package infra

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	wetwire "github.com/lex00/wetwire-aws-go"
	"gopkg.in/yaml.v3"
)

// Encode renders t as "json" or "yaml". YAML is produced from the JSON form so intrinsic
// functions keep their Fn:: keys.
func Encode(t *wetwire.Template, format string) ([]byte, error) {
	js, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal template: %w", err)
	}
	switch strings.ToLower(format) {
	case "", "json":
		return append(js, '\n'), nil
	case "yaml", "yml":
		var doc yaml.Node
		if err := yaml.Unmarshal(js, &doc); err != nil {
			return nil, fmt.Errorf("convert template: %w", err)
		}
		plain(&doc)
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(&doc); err != nil {
			return nil, fmt.Errorf("encode yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("unsupported format %q (want json or yaml)", format)
	}
}

// plain drops the flow/quoted styles inherited from the JSON source.
func plain(n *yaml.Node) {
	n.Style = 0
	for _, c := range n.Content {
		plain(c)
	}
}
