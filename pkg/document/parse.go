package document

import (
	"bytes"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"github.com/yuin/goldmark"
	meta "github.com/yuin/goldmark-meta"
	"github.com/yuin/goldmark/parser"
)

// Parse reads a document from raw markdown content. The frontmatter is
// extracted with goldmark-meta and decoded into a typed Metadata struct;
// missing name or description is a hard ParseError, not a skip.
func Parse(path string, class Class, content []byte) (*Document, error) {
	md := goldmark.New(
		goldmark.WithExtensions(meta.Meta),
	)

	var buf bytes.Buffer
	pctx := parser.NewContext()

	if err := md.Convert(content, &buf, parser.WithContext(pctx)); err != nil {
		return nil, &ParseError{Path: path, Reason: errors.Wrap(err, "invalid markdown").Error()}
	}

	metaData := meta.Get(pctx)
	if metaData == nil {
		return nil, &ParseError{Path: path, Reason: "missing frontmatter header"}
	}

	m, err := decodeMetadata(metaData)
	if err != nil {
		return nil, &ParseError{Path: path, Reason: err.Error()}
	}

	if m.Name == "" {
		return nil, &ParseError{Path: path, Reason: "missing required field 'name'"}
	}
	if m.Description == "" {
		return nil, &ParseError{Path: path, Reason: "missing required field 'description'"}
	}

	return &Document{
		Name:        m.Name,
		Description: m.Description,
		Class:       class,
		Globs:       m.Globs,
		AlwaysApply: m.AlwaysApply,
		Body:        stripFrontmatter(string(content)),
		Path:        path,
	}, nil
}

// decodeMetadata turns the raw frontmatter map into a typed Metadata.
// Weak typing lets a scalar `globs: "src/**"` decode as a one-element
// list, which corpora written by hand tend to contain.
func decodeMetadata(raw map[string]interface{}) (*Metadata, error) {
	var m Metadata
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &m,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to build frontmatter decoder")
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, errors.Wrap(err, "malformed frontmatter")
	}
	return &m, nil
}

// stripFrontmatter removes the leading "---" delimited header and
// returns the body.
func stripFrontmatter(content string) string {
	if !strings.HasPrefix(content, "---") {
		return content
	}

	lines := strings.Split(content, "\n")
	end := -1
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			end = i
			break
		}
	}
	if end == -1 {
		return content
	}

	return strings.TrimLeft(strings.Join(lines[end+1:], "\n"), "\n")
}
