package utils

import (
	"testing"
)

func TestParseAIJSON(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantDest string
		wantErr  bool
	}{
		{name: "Pure JSON", input: `{"destination": "Rome", "budget": 300}`, wantDest: "Rome"},
		{name: "Markdown block", input: "Voici l'analyse :\n```json\n{\"destination\": \"Paris\"}\n```", wantDest: "Paris"},
		{name: "Surrounding prose", input: `Bien sûr ! {"destination": "Djerba", "duree": 5} Bon voyage.`, wantDest: "Djerba"},
		{name: "Trailing comma", input: `{"destination": "Tozeur", "personnes": 2,}`, wantDest: "Tozeur"},
		{name: "Unquoted keys", input: `{destination: "Sousse", budget: 150}`, wantDest: "Sousse"},
		{name: "Single quotes", input: `{'destination': 'Hammamet', 'interets': ['plage']}`, wantDest: "Hammamet"},
		{name: "Empty", input: "  ", wantErr: true},
		{name: "Plain text", input: "Je ne sais pas.", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got struct {
				Destination string `json:"destination"`
			}
			err := ParseAIJSON(tt.input, &got)

			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseAIJSON() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got.Destination != tt.wantDest {
				t.Errorf("destination = %q, want %q", got.Destination, tt.wantDest)
			}
		})
	}
}

func TestExtractFromMarkdown(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "JSON code block with json tag",
			input: "```json\n{\"test\": true}\n```",
			want:  `{"test": true}`,
		},
		{
			name:  "JSON code block without tag",
			input: "```\n{\"test\": true}\n```",
			want:  `{"test": true}`,
		},
		{
			name:  "No code block",
			input: `{"test": true}`,
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := extractFromMarkdown(tt.input)
			if got != tt.want {
				t.Errorf("extractFromMarkdown() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestExtractBalancedBraces(t *testing.T) {
	tests := []struct {
		name  string
		input string
		open  rune
		close rune
		want  string
	}{
		{
			name:  "Simple object",
			input: `{"a": 1}`,
			open:  '{',
			close: '}',
			want:  `{"a": 1}`,
		},
		{
			name:  "Nested objects",
			input: `{"a": {"b": 2}}`,
			open:  '{',
			close: '}',
			want:  `{"a": {"b": 2}}`,
		},
		{
			name:  "Object with string containing braces",
			input: `{"text": "Hello {world}"}`,
			open:  '{',
			close: '}',
			want:  `{"text": "Hello {world}"}`,
		},
		{
			name:  "Array",
			input: `[1, 2, 3]`,
			open:  '[',
			close: ']',
			want:  `[1, 2, 3]`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := extractBalancedBraces(tt.input, tt.open, tt.close)
			if got != tt.want {
				t.Errorf("extractBalancedBraces() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestValidateJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{
			name:  "Valid object",
			input: `{"test": true}`,
			want:  true,
		},
		{
			name:  "Valid array",
			input: `[1, 2, 3]`,
			want:  true,
		},
		{
			name:  "Invalid JSON",
			input: `{test: true}`,
			want:  false,
		},
		{
			name:  "Empty string",
			input: "",
			want:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ValidateJSON(tt.input)
			if got != tt.want {
				t.Errorf("ValidateJSON() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestExtractJSONObjects(t *testing.T) {
	input := `Here are two objects: {"a": 1} and {"b": {"c": 2}}, plus an array [1,2,3] and a broken { one`
	objects := ExtractJSONObjects(input)

	if len(objects) != 2 {
		t.Fatalf("ExtractJSONObjects() found %d objects, want 2: %v", len(objects), objects)
	}

	for i, object := range objects {
		if !ValidateJSON(object) {
			t.Errorf("Object %d is not valid JSON: %s", i, object)
		}
	}
}

func TestLastObjectWithKey(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantFound bool
		wantDest  any
	}{
		{
			name: "Example restated before the answer",
			input: `Format: {"destination": "Tunis", "budget": 100}
Réponse JSON: {"destination": "Rome", "budget": 300}`,
			wantFound: true,
			wantDest:  "Rome",
		},
		{
			name:      "Later object without the key is skipped",
			input:     `{"destination": "Paris"} puis {"note": "merci"}`,
			wantFound: true,
			wantDest:  "Paris",
		},
		{
			name:      "Null destination still counts",
			input:     `{"destination": null, "duree": 3}`,
			wantFound: true,
			wantDest:  nil,
		},
		{
			name:      "Invalid candidates only",
			input:     `{destination: Rome}`,
			wantFound: false,
		},
		{
			name:      "No braces",
			input:     "Simulation: Tu es un expert...",
			wantFound: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obj, found := LastObjectWithKey(tt.input, "destination")
			if found != tt.wantFound {
				t.Fatalf("LastObjectWithKey() found = %v, want %v", found, tt.wantFound)
			}
			if found && obj["destination"] != tt.wantDest {
				t.Errorf("destination = %v, want %v", obj["destination"], tt.wantDest)
			}
		})
	}
}

func TestParseObject(t *testing.T) {
	obj, err := ParseObject(`{'destination': 'Rome', 'duree': 3,}`)
	if err != nil {
		t.Fatalf("ParseObject() error = %v", err)
	}
	if obj["destination"] != "Rome" {
		t.Errorf("destination = %v, want Rome", obj["destination"])
	}

	obj, err = ParseObject("```json\n{\"budget\": 200}\n```")
	if err != nil || obj["budget"] == nil {
		t.Errorf("ParseObject() fenced object = %v, %v", obj, err)
	}

	for _, input := range []string{
		`Voici le budget estimé: {"budget": 200}`,
		`{"budget": 200} puis {"duree": 3}`,
		`{"budget": 200} merci`,
	} {
		if _, err := ParseObject(input); err == nil {
			t.Errorf("ParseObject(%q) accepted an object embedded in text", input)
		}
	}

	if _, err := ParseObject(`[1, 2, 3]`); err == nil {
		t.Error("ParseObject() accepted an array")
	}
	if _, err := ParseObject("pas de JSON ici"); err == nil {
		t.Error("ParseObject() accepted plain text")
	}
}

func TestTruncateString(t *testing.T) {
	if got := TruncateString("hôtel", 3); got != "hôt..." {
		t.Errorf("TruncateString() = %q, want rune-aware cut", got)
	}
	if got := TruncateString("abc", 5); got != "abc" {
		t.Errorf("TruncateString() = %q, want unchanged", got)
	}
}
