package tasks

import "testing"

const validRegistry = `version: 1
tasks:
  - name: start
    script: start
    project_root: /tmp/app
    command: [npm, run, start]
  - name: web
    script: web
    project_root: /tmp/app
    command: [npm, run, web]
`

func TestValidate_Valid(t *testing.T) {
	result, err := Validate([]byte(validRegistry))
	if err != nil {
		t.Fatalf("Validate() error: %v", err)
	}
	if !result.Valid {
		for _, issue := range result.Issues {
			t.Errorf("unexpected issue: %s (%s)", issue, issue.Keyword)
		}
	}
}

func TestValidate_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"wrong version", "version: 2\ntasks: []\n"},
		{"missing tasks", "version: 1\n"},
		{"bad task name", "version: 1\ntasks:\n  - name: Start!\n    script: start\n    project_root: /p\n    command: [npm]\n"},
		{"empty command", "version: 1\ntasks:\n  - name: start\n    script: start\n    project_root: /p\n    command: []\n"},
		{"unknown field", "version: 1\ntasks: []\nextra: true\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Validate([]byte(tt.data))
			if err != nil {
				t.Fatalf("Validate() unexpected error: %v", err)
			}
			if result.Valid {
				t.Fatal("expected invalid, got valid")
			}
			if len(result.Issues) == 0 {
				t.Error("expected at least one issue")
			}
			for _, issue := range result.Issues {
				if issue.Message == "" {
					t.Errorf("issue without message: %+v", issue)
				}
			}
		})
	}
}

func TestValidate_InvalidYAML(t *testing.T) {
	if _, err := Validate([]byte("version: [unclosed")); err == nil {
		t.Error("expected parse error for malformed YAML")
	}
}
