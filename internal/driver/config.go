package driver

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/cassgate/cassgate/internal/cerr"
)

// SSLConfig carries the TLS material handed through the boundary. The
// bridge treats it as opaque pass-through; validation happens in the
// driver binding when the session connects.
type SSLConfig struct {
	// CACertPEM holds trusted certificates added by the caller.
	CACertPEM [][]byte `yaml:"-"`

	// CertPEM / KeyPEM hold the client identity, when client auth is on.
	CertPEM []byte `yaml:"-"`
	KeyPEM  []byte `yaml:"-"`

	// VerifyPeer requires a verified peer certificate.
	VerifyPeer bool `yaml:"verify_peer"`

	// VerifyHost additionally matches the peer identity against the host.
	VerifyHost bool `yaml:"verify_host"`

	// CACertFiles are file paths loaded at connect time (YAML config).
	CACertFiles []string `yaml:"ca_cert_files"`
}

// yamlClusterConfig is the on-disk schema. Timeouts are integer
// milliseconds, matching the units of the boundary setters.
type yamlClusterConfig struct {
	ContactPoints            []string   `yaml:"contact_points"`
	Port                     *int       `yaml:"port"`
	Keyspace                 string     `yaml:"keyspace"`
	Username                 string     `yaml:"username"`
	Password                 string     `yaml:"password"`
	ConnectTimeoutMs         *int       `yaml:"connect_timeout_ms"`
	RequestTimeoutMs         *int       `yaml:"request_timeout_ms"`
	Consistency              string     `yaml:"consistency"`
	NumConns                 *int       `yaml:"num_conns"`
	TCPNoDelay               *bool      `yaml:"tcp_no_delay"`
	DisableInitialHostLookup bool       `yaml:"disable_initial_host_lookup"`
	SSL                      *SSLConfig `yaml:"ssl"`
	DiagAddr                 string     `yaml:"diag_addr"`
}

// ClusterConfig holds all settings needed to connect a session.
// A cluster config is built and mutated by exactly one caller thread,
// then treated as read-only once a connect is issued.
type ClusterConfig struct {
	// ContactPoints are the initial hosts used to discover the cluster.
	ContactPoints []string

	// Port is the native-protocol port used for every contact point.
	Port int

	// Keyspace, when set, is used right after the session connects.
	Keyspace string

	// Credentials for password authentication. Empty disables auth.
	Username string
	Password string

	// Timeouts
	ConnectTimeout time.Duration // per-host connection establishment
	RequestTimeout time.Duration // client-side per-request deadline

	// Consistency is the default consistency applied to statements that
	// do not set their own.
	Consistency Consistency

	// NumConns is the number of connections opened per discovered host.
	NumConns int

	// TCPNoDelay disables Nagle batching on the wire.
	TCPNoDelay bool

	// DisableInitialHostLookup skips peer discovery and uses only the
	// contact points. Useful against single-node test clusters.
	DisableInitialHostLookup bool

	SSL *SSLConfig

	// DiagAddr, when non-empty, starts the diagnostics HTTP listener on
	// the shared runtime the first time a session connects.
	DiagAddr string
}

// DefaultClusterConfig returns the defaults documented in the published
// header: LOCAL_ONE consistency, 12 s request timeout, 5 s connect
// timeout, native port 9042, TCP_NODELAY on.
func DefaultClusterConfig() *ClusterConfig {
	return &ClusterConfig{
		Port:           9042,
		ConnectTimeout: 5 * time.Second,
		RequestTimeout: 12 * time.Second,
		Consistency:    ConsistencyLocalOne,
		NumConns:       1,
		TCPNoDelay:     true,
	}
}

// LoadClusterConfig reads a YAML cluster configuration file on top of
// the defaults. Unknown keys are rejected so typos fail loudly.
func LoadClusterConfig(path string) (*ClusterConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, cerr.Wrap(cerr.ErrLibBadParams, fmt.Sprintf("cannot read config %q", path), err)
	}
	return ParseClusterConfig(raw)
}

// ParseClusterConfig parses YAML cluster configuration bytes on top of
// the defaults. Unknown keys are rejected so typos fail loudly.
func ParseClusterConfig(raw []byte) (*ClusterConfig, error) {
	var y yamlClusterConfig
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&y); err != nil {
		return nil, cerr.Wrap(cerr.ErrLibBadParams, "invalid cluster config", err)
	}

	cfg := DefaultClusterConfig()
	cfg.ContactPoints = y.ContactPoints
	cfg.Keyspace = y.Keyspace
	cfg.Username = y.Username
	cfg.Password = y.Password
	cfg.DisableInitialHostLookup = y.DisableInitialHostLookup
	cfg.SSL = y.SSL
	cfg.DiagAddr = y.DiagAddr
	if y.Port != nil {
		cfg.Port = *y.Port
	}
	if y.ConnectTimeoutMs != nil {
		cfg.ConnectTimeout = time.Duration(*y.ConnectTimeoutMs) * time.Millisecond
	}
	if y.RequestTimeoutMs != nil {
		cfg.RequestTimeout = time.Duration(*y.RequestTimeoutMs) * time.Millisecond
	}
	if y.NumConns != nil {
		cfg.NumConns = *y.NumConns
	}
	if y.TCPNoDelay != nil {
		cfg.TCPNoDelay = *y.TCPNoDelay
	}
	if y.Consistency != "" {
		c, err := ParseConsistency(y.Consistency)
		if err != nil {
			return nil, err
		}
		cfg.Consistency = c
	}
	return cfg, nil
}

// ParseConsistency maps a consistency name (as spelled in config files
// and CQL) to its protocol value.
func ParseConsistency(s string) (Consistency, error) {
	for _, c := range []Consistency{
		ConsistencyAny, ConsistencyOne, ConsistencyTwo, ConsistencyThree,
		ConsistencyQuorum, ConsistencyAll, ConsistencyLocalQuorum,
		ConsistencyEachQuorum, ConsistencySerial, ConsistencyLocalSerial,
		ConsistencyLocalOne,
	} {
		if c.String() == s {
			return c, nil
		}
	}
	return 0, cerr.Newf(cerr.ErrLibBadParams, "unknown consistency %q", s)
}

// Validate checks the parts of the config the bridge can reject
// synchronously, before any connect is submitted.
func (cfg *ClusterConfig) Validate() error {
	if len(cfg.ContactPoints) == 0 {
		return cerr.New(cerr.ErrLibNoHostsAvailable, "no contact points configured")
	}
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return cerr.Newf(cerr.ErrLibBadParams, "invalid port %d", cfg.Port)
	}
	if (cfg.Username == "") != (cfg.Password == "") {
		return cerr.New(cerr.ErrLibBadParams, "username and password must be set together")
	}
	return nil
}
