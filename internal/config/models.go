package config

// ClassifierConfig represents the configuration for the classifier
type ClassifierConfig struct {
	ModelPath string
}

// ServerConfig represents the configuration for the front-end server
type ServerConfig struct {
	FilterType        string
	ListenAddress     string
	SMTPListenAddress string
	BlockPhishing     bool
	StatusHeader      string
	ScoreHeader       string
	ReasonHeader      string
	RelayAddress      string
	RelayPort         int
	RelayEnabled      bool
	SubjectPrefix     string
	ModifySubject     bool
}

// GetClassifier returns the classifier configuration
func (c *Config) GetClassifier() ClassifierConfig {
	return ClassifierConfig{
		ModelPath: c.GetString("classifier.model_path"),
	}
}

// GetServer returns the server configuration
func (c *Config) GetServer() ServerConfig {
	return ServerConfig{
		FilterType:        c.GetString("server.filter_type"),
		ListenAddress:     c.GetString("server.listen_address"),
		SMTPListenAddress: c.GetString("server.smtp_listen_address"),
		BlockPhishing:     c.GetBool("server.block_phishing"),
		StatusHeader:      c.GetString("server.headers.status"),
		ScoreHeader:       c.GetString("server.headers.score"),
		ReasonHeader:      c.GetString("server.headers.reason"),
		RelayAddress:      c.GetString("server.relay.address"),
		RelayPort:         c.GetInt("server.relay.port"),
		RelayEnabled:      c.GetBool("server.relay.enabled"),
		SubjectPrefix:     c.GetString("server.subject_prefix"),
		ModifySubject:     c.GetBool("server.modify_subject"),
	}
}
