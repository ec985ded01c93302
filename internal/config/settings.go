package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"build-notifier/internal/domain/model"
)

// ErrInvalidSettings wraps every settings validation failure.
var ErrInvalidSettings = errors.New("invalid settings")

var validate = validator.New(validator.WithRequiredStructEnabled())

// ParseSettings decodes a YAML settings document and applies credential overrides
// from ZULIP_URL, ZULIP_EMAIL and ZULIP_API_KEY.
func ParseSettings(data []byte) (*model.Settings, error) {
	var s model.Settings
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode settings: %w", err)
	}

	s.Zulip.URL = getenvDefault("ZULIP_URL", s.Zulip.URL)
	s.Zulip.Email = getenvDefault("ZULIP_EMAIL", s.Zulip.Email)
	s.Zulip.APIKey = getenvDefault("ZULIP_API_KEY", s.Zulip.APIKey)
	return &s, nil
}

// LoadSettings reads, parses and validates the settings file at path.
func LoadSettings(path string) (*model.Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}
	s, err := ParseSettings(data)
	if err != nil {
		return nil, err
	}
	if err := Validate(s); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate reports settings that could never produce a deliverable message.
func Validate(s *model.Settings) error {
	if s == nil {
		return fmt.Errorf("%w: settings are empty", ErrInvalidSettings)
	}
	if err := validate.Struct(s); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return fmt.Errorf("%w: %s", ErrInvalidSettings, describe(verrs))
		}
		return fmt.Errorf("%w: %v", ErrInvalidSettings, err)
	}
	return nil
}

func describe(verrs validator.ValidationErrors) string {
	var buf bytes.Buffer
	for i, fe := range verrs {
		if i > 0 {
			buf.WriteString("; ")
		}
		fmt.Fprintf(&buf, "%s failed %q", fe.Namespace(), fe.Tag())
	}
	return buf.String()
}
