package manifest

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// ErrMalformed is matched by every ParseError.
var ErrMalformed = errors.New("malformed manifest")

// ParseError names the first structural problem found in a manifest.
type ParseError struct {
	Detail string
}

func (e *ParseError) Error() string { return "malformed manifest: " + e.Detail }

func (e *ParseError) Unwrap() error { return ErrMalformed }

func malformed(format string, args ...any) error {
	return &ParseError{Detail: fmt.Sprintf(format, args...)}
}

// rawTool mirrors one manifest entry. Pointer fields distinguish a missing
// key from its zero value.
type rawTool struct {
	Title       *string `yaml:"title" validate:"required"`
	Description *string `yaml:"description" validate:"required"`
	Repo        *string `yaml:"repo" validate:"required"`
	NeedsRoot   *bool   `yaml:"needs_root" validate:"required"`
	Note        *string `yaml:"note"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("yaml"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Parse decodes a YAML list of tool mappings, preserving order. An empty
// list or empty document yields zero tools. Unknown keys are ignored; an
// empty list entry is malformed.
func Parse(text string) ([]Tool, error) {
	var raws []*rawTool
	if err := yaml.Unmarshal([]byte(text), &raws); err != nil {
		return nil, malformed("%s", yamlDetail(err))
	}

	tools := make([]Tool, 0, len(raws))
	seen := make(map[string]string, len(raws))
	for i, raw := range raws {
		if raw == nil {
			return nil, malformed("entry %d: not a mapping", i)
		}
		if err := validate.Struct(raw); err != nil {
			return nil, malformed("entry %d: %s", i, validationDetail(err))
		}

		title := *raw.Title
		if strings.TrimSpace(title) == "" {
			return nil, malformed("entry %d: title is empty", i)
		}
		slug := Slug(title)
		if prev, dup := seen[slug]; dup {
			return nil, malformed("entry %d: title %q maps to the same script as %q (%s.sh)", i, title, prev, slug)
		}
		seen[slug] = title

		tools = append(tools, Tool{
			Title:       title,
			Description: *raw.Description,
			Repo:        *raw.Repo,
			NeedsRoot:   *raw.NeedsRoot,
			Note:        raw.Note,
		})
	}
	return tools, nil
}

func yamlDetail(err error) string {
	var typeErr *yaml.TypeError
	if errors.As(err, &typeErr) && len(typeErr.Errors) > 0 {
		return typeErr.Errors[0]
	}
	return strings.TrimPrefix(err.Error(), "yaml: ")
}

func validationDetail(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		if fe.Tag() == "required" {
			return fmt.Sprintf("missing required field %q", fe.Field())
		}
		return fmt.Sprintf("field %q failed %q validation", fe.Field(), fe.Tag())
	}
	return err.Error()
}
