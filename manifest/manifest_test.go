package manifest

import (
	"strings"
	"testing"
)

const sample = `{
  "name": "plaza",
  "maxMemoryPages": 256,
  "scene": {
    "name": "plaza-root",
    "nodes": [
      {"name": "spawn", "translation": [0, 1, 0]},
      {"name": "kiosk", "static": true}
    ]
  },
  "scripts": [
    {
      "name": "greeter",
      "module": "greeter.wasm",
      "grants": [
        {"resource": "spawn", "access": "read"},
        {"resource": "kiosk", "access": "write"}
      ]
    }
  ]
}`

func TestParse(t *testing.T) {
	m, err := Parse([]byte(sample))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if m.Name != "plaza" || len(m.Scene.Nodes) != 2 || len(m.Scripts) != 1 {
		t.Fatalf("parsed manifest wrong: %+v", m)
	}

	// Zero-valued rotation and scale are defaulted.
	if m.Scene.Nodes[0].Rotation != [4]float32{0, 0, 0, 1} {
		t.Fatalf("rotation not defaulted: %v", m.Scene.Nodes[0].Rotation)
	}
	if m.Scene.Nodes[0].Scale != [3]float32{1, 1, 1} {
		t.Fatalf("scale not defaulted: %v", m.Scene.Nodes[0].Scale)
	}

	s, ok := m.FindScript("greeter")
	if !ok || len(s.Grants) != 2 {
		t.Fatalf("FindScript failed: %+v", s)
	}
}

func TestParseRejectsMissingName(t *testing.T) {
	if _, err := Parse([]byte(`{"scene": {}}`)); err == nil {
		t.Fatal("manifest without a name accepted")
	}
}

func TestParseRejectsBadAccess(t *testing.T) {
	bad := strings.Replace(sample, `"access": "read"`, `"access": "admin"`, 1)
	if _, err := Parse([]byte(bad)); err == nil {
		t.Fatal("unknown access level accepted")
	}
}

func TestParseRejectsMalformedJSON(t *testing.T) {
	if _, err := Parse([]byte(`{`)); err == nil {
		t.Fatal("malformed JSON accepted")
	}
}

func TestLoadReader(t *testing.T) {
	m, err := Load(strings.NewReader(sample))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if m.Scene.Nodes[1].Static != true {
		t.Fatal("static flag lost")
	}
}
