package model

// ZulipCredentials authenticate against the messaging server.
type ZulipCredentials struct {
	URL    string `yaml:"url" validate:"required,url"`
	Email  string `yaml:"email" validate:"required"`
	APIKey string `yaml:"api_key" validate:"required"`
}

// NotifierConfig holds the per-job destination overrides. Blank fields are unset.
type NotifierConfig struct {
	Stream string `yaml:"stream"`
	Topic  string `yaml:"topic"`
}

// GlobalConfig holds the process-wide notification defaults.
type GlobalConfig struct {
	Zulip       ZulipCredentials `yaml:"zulip"`
	Stream      string           `yaml:"stream" validate:"required"`
	Topic       string           `yaml:"topic"`
	HostURL     string           `yaml:"host_url"`
	SmartNotify bool             `yaml:"smart_notify"`
}

// Settings is an immutable snapshot of everything a notification reads.
type Settings struct {
	GlobalConfig `yaml:",inline"`
	Jobs         map[string]NotifierConfig `yaml:"jobs"`
}

// Job returns the overrides configured for a project, or a zero value.
func (s Settings) Job(project string) NotifierConfig {
	if s.Jobs == nil {
		return NotifierConfig{}
	}
	return s.Jobs[project]
}

// Message is a transport-agnostic stream message ready for delivery.
type Message struct {
	Stream  string
	Topic   string
	Content string
}
