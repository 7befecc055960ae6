package cli

import (
	"io"
	"os"
	"path/filepath"
	"testing"
)

const validTemplateTOML = `
[template]
id = "smoke"
version = 1

[[template.sections]]
type = "hero"
version = 1

[[template.sections]]
type = "fullTextBand"
version = 1
`

const danglingTemplateTOML = `
[template]
id = "dangling"
version = 1

[[template.sections]]
type = "retired"
version = 1
`

func writeTemplate(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "template.toml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write template: %v", err)
	}
	return path
}

func TestValidateCommand(t *testing.T) {
	c := New(io.Discard, LogInfo)
	cmd := c.validateCommand()
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{writeTemplate(t, validTemplateTOML)})

	if err := cmd.Execute(); err != nil {
		t.Errorf("valid template rejected: %v", err)
	}
}

func TestValidateCommandRejectsUnknownSection(t *testing.T) {
	c := New(io.Discard, LogInfo)
	cmd := c.validateCommand()
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{writeTemplate(t, danglingTemplateTOML)})

	if err := cmd.Execute(); err == nil {
		t.Error("template with an unresolvable section reference accepted")
	}
}
