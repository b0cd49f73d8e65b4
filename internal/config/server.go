package config

import (
	"fmt"
	"strconv"
)

// Server defaults.
const (
	// DefaultPort is used when neither --port, PORT nor the config file set one.
	DefaultPort = 5000

	// DefaultIndexFile is served verbatim at "/".
	DefaultIndexFile = "index.html"

	// DefaultStaticDir holds the assets served under "/".
	DefaultStaticDir = "public"

	// PortEnv is the environment variable that overrides the port.
	PortEnv = "PORT"
)

// ServerConfig holds the options of the static page server.
type ServerConfig struct {
	// Port is the TCP port to listen on, on all interfaces.
	Port int

	// IndexFile is read on every request to "/".
	IndexFile string

	// StaticDir is the root of the static assets.
	StaticDir string

	// LogJSON switches request logs to JSON.
	LogJSON bool

	// Verbose enables debug logging.
	Verbose bool

	// ConfigFilePath is the explicit --config value, if any.
	ConfigFilePath string
}

// NewServerConfig creates a ServerConfig with default values.
func NewServerConfig() *ServerConfig {
	return &ServerConfig{
		Port:      DefaultPort,
		IndexFile: DefaultIndexFile,
		StaticDir: DefaultStaticDir,
	}
}

// ApplyFile copies the serve settings from f into c.
func (c *ServerConfig) ApplyFile(f *File) {
	if f == nil {
		return
	}
	if f.Serve.Port != 0 {
		c.Port = f.Serve.Port
	}
	if f.Serve.Index != "" {
		c.IndexFile = f.Serve.Index
	}
	if f.Serve.Static != "" {
		c.StaticDir = f.Serve.Static
	}
}

// ApplyEnv reads PORT through lookup (normally os.LookupEnv).
// An unset or empty PORT is ignored; a non-numeric one is an error.
func (c *ServerConfig) ApplyEnv(lookup func(string) (string, bool)) error {
	value, ok := lookup(PortEnv)
	if !ok || value == "" {
		return nil
	}

	port, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("%w: %s=%q", ErrInvalidPort, PortEnv, value)
	}
	c.Port = port
	return nil
}

// Addr returns the listen address for net/http.
func (c *ServerConfig) Addr() string {
	return ":" + strconv.Itoa(c.Port)
}

// Validate checks if the server configuration is valid.
func (c *ServerConfig) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return ErrInvalidPort
	}
	if c.IndexFile == "" {
		return ErrEmptyIndexFile
	}
	return nil
}
