package utils

// DownloadEntry is one item of a yaml batch list.
type DownloadEntry struct {
	URL         string `yaml:"url"`
	OutputPath  string `yaml:"output"`
	Connections int    `yaml:"connections,omitempty"`
}
