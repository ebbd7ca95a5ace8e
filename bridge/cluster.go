package bridge

import (
	"strings"
	"time"

	"github.com/cassgate/cassgate/internal/cerr"
	"github.com/cassgate/cassgate/internal/driver"
	"github.com/cassgate/cassgate/internal/exec"
	"github.com/cassgate/cassgate/internal/handle"
)

// cluster pairs the connect-time configuration with a reference on the
// shared runtime, taken at allocation so the runtime outlives every
// session the cluster spawns.
type cluster struct {
	cfg *driver.ClusterConfig
	rt  *exec.Pool
}

// ClusterNew allocates a cluster configuration with the default
// settings: port 9042, 5 s connect timeout, 12 s request timeout,
// LOCAL_ONE consistency. Free with ClusterFree.
func ClusterNew() Handle {
	defer recoverLog()
	return reg.New(handle.KindCluster, &cluster{
		cfg: driver.DefaultClusterConfig(),
		rt:  exec.Acquire(),
	})
}

// ClusterFromYAML allocates a cluster configured from a YAML file laid
// over the defaults.
func ClusterFromYAML(path string) (h Handle, code cerr.Code) {
	defer recoverTo(&code)
	cfg, err := driver.LoadClusterConfig(path)
	if err != nil {
		return Nil, cerr.CodeOf(err)
	}
	return reg.New(handle.KindCluster, &cluster{cfg: cfg, rt: exec.Acquire()}), cerr.Ok
}

// ClusterFree releases the cluster configuration. Sessions already
// connected through it are unaffected.
func ClusterFree(h Handle) {
	defer recoverLog()
	obj, ok := reg.Release(h, handle.KindCluster)
	if !ok {
		return
	}
	obj.(*cluster).rt.Release()
}

func getCluster(h Handle) (*cluster, bool) {
	obj, ok := reg.Get(h, handle.KindCluster)
	if !ok {
		return nil, false
	}
	return obj.(*cluster), true
}

// ClusterSetContactPoints replaces the contact points with a
// comma-separated host list.
func ClusterSetContactPoints(h Handle, points string) (code cerr.Code) {
	defer recoverTo(&code)
	c, ok := getCluster(h)
	if !ok {
		return cerr.ErrLibBadParams
	}
	var hosts []string
	for _, p := range strings.Split(points, ",") {
		if p = strings.TrimSpace(p); p != "" {
			hosts = append(hosts, p)
		}
	}
	if len(hosts) == 0 {
		return cerr.ErrLibBadParams
	}
	c.cfg.ContactPoints = hosts
	return cerr.Ok
}

// ClusterSetPort sets the native-protocol port for every contact point.
func ClusterSetPort(h Handle, port int) (code cerr.Code) {
	defer recoverTo(&code)
	c, ok := getCluster(h)
	if !ok {
		return cerr.ErrLibBadParams
	}
	if port <= 0 || port > 65535 {
		return cerr.ErrLibBadParams
	}
	c.cfg.Port = port
	return cerr.Ok
}

// ClusterSetCredentials enables password authentication.
func ClusterSetCredentials(h Handle, username, password string) (code cerr.Code) {
	defer recoverTo(&code)
	c, ok := getCluster(h)
	if !ok {
		return cerr.ErrLibBadParams
	}
	c.cfg.Username = username
	c.cfg.Password = password
	return cerr.Ok
}

// ClusterSetConnectTimeout sets the per-host connect timeout in
// milliseconds.
func ClusterSetConnectTimeout(h Handle, ms int) (code cerr.Code) {
	defer recoverTo(&code)
	c, ok := getCluster(h)
	if !ok {
		return cerr.ErrLibBadParams
	}
	if ms <= 0 {
		return cerr.ErrLibBadParams
	}
	c.cfg.ConnectTimeout = time.Duration(ms) * time.Millisecond
	return cerr.Ok
}

// ClusterSetRequestTimeout sets the client-side request timeout in
// milliseconds.
func ClusterSetRequestTimeout(h Handle, ms int) (code cerr.Code) {
	defer recoverTo(&code)
	c, ok := getCluster(h)
	if !ok {
		return cerr.ErrLibBadParams
	}
	if ms <= 0 {
		return cerr.ErrLibBadParams
	}
	c.cfg.RequestTimeout = time.Duration(ms) * time.Millisecond
	return cerr.Ok
}

// ClusterSetKeyspace sets the keyspace used right after connect.
func ClusterSetKeyspace(h Handle, keyspace string) (code cerr.Code) {
	defer recoverTo(&code)
	c, ok := getCluster(h)
	if !ok {
		return cerr.ErrLibBadParams
	}
	c.cfg.Keyspace = keyspace
	return cerr.Ok
}

// ClusterSetConsistency sets the default consistency applied to
// statements that do not set their own.
func ClusterSetConsistency(h Handle, consistency driver.Consistency) (code cerr.Code) {
	defer recoverTo(&code)
	c, ok := getCluster(h)
	if !ok {
		return cerr.ErrLibBadParams
	}
	if consistency.String() == "UNKNOWN" {
		return cerr.ErrLibBadParams
	}
	c.cfg.Consistency = consistency
	return cerr.Ok
}

// ClusterSetSSL copies the SSL context's material into the cluster. The
// SSL handle stays owned by the caller and may be freed afterwards.
func ClusterSetSSL(h, ssl Handle) (code cerr.Code) {
	defer recoverTo(&code)
	c, ok := getCluster(h)
	if !ok {
		return cerr.ErrLibBadParams
	}
	obj, ok := reg.Get(ssl, handle.KindSSL)
	if !ok {
		return cerr.ErrLibBadParams
	}
	src := obj.(*driver.SSLConfig)
	cp := *src
	cp.CACertPEM = append([][]byte(nil), src.CACertPEM...)
	cp.CACertFiles = append([]string(nil), src.CACertFiles...)
	c.cfg.SSL = &cp
	return cerr.Ok
}

// cloneConfig snapshots the configuration at connect time so later
// cluster mutation cannot race the session.
func cloneConfig(cfg *driver.ClusterConfig) *driver.ClusterConfig {
	cp := *cfg
	cp.ContactPoints = append([]string(nil), cfg.ContactPoints...)
	if cfg.SSL != nil {
		ssl := *cfg.SSL
		ssl.CACertPEM = append([][]byte(nil), cfg.SSL.CACertPEM...)
		ssl.CACertFiles = append([]string(nil), cfg.SSL.CACertFiles...)
		cp.SSL = &ssl
	}
	return &cp
}

// Verify flag bits accepted by SslSetVerifyFlags.
const (
	SslVerifyNone         = 0
	SslVerifyPeerCert     = 1
	SslVerifyPeerIdentity = 2
)

// SslNew allocates an SSL context. Peer certificate verification is on
// by default; identity verification is off.
func SslNew() Handle {
	defer recoverLog()
	return reg.New(handle.KindSSL, &driver.SSLConfig{VerifyPeer: true})
}

// SslFree releases the SSL context.
func SslFree(h Handle) {
	defer recoverLog()
	reg.Release(h, handle.KindSSL)
}

func getSSL(h Handle) (*driver.SSLConfig, bool) {
	obj, ok := reg.Get(h, handle.KindSSL)
	if !ok {
		return nil, false
	}
	return obj.(*driver.SSLConfig), true
}

// SslAddTrustedCert adds a trusted CA certificate in PEM form. The bytes
// are copied; validation happens at connect time.
func SslAddTrustedCert(h Handle, pem string) (code cerr.Code) {
	defer recoverTo(&code)
	ssl, ok := getSSL(h)
	if !ok {
		return cerr.ErrLibBadParams
	}
	if pem == "" {
		return cerr.ErrLibBadParams
	}
	ssl.CACertPEM = append(ssl.CACertPEM, []byte(pem))
	return cerr.Ok
}

// SslSetCert sets the client certificate in PEM form.
func SslSetCert(h Handle, pem string) (code cerr.Code) {
	defer recoverTo(&code)
	ssl, ok := getSSL(h)
	if !ok {
		return cerr.ErrLibBadParams
	}
	if pem == "" {
		return cerr.ErrLibBadParams
	}
	ssl.CertPEM = []byte(pem)
	return cerr.Ok
}

// SslSetPrivateKey sets the client private key in PEM form.
func SslSetPrivateKey(h Handle, pem string) (code cerr.Code) {
	defer recoverTo(&code)
	ssl, ok := getSSL(h)
	if !ok {
		return cerr.ErrLibBadParams
	}
	if pem == "" {
		return cerr.ErrLibBadParams
	}
	ssl.KeyPEM = []byte(pem)
	return cerr.Ok
}

// SslSetVerifyFlags selects what is checked about the peer: the bitwise
// or of SslVerifyPeerCert and SslVerifyPeerIdentity, or SslVerifyNone.
func SslSetVerifyFlags(h Handle, flags int) (code cerr.Code) {
	defer recoverTo(&code)
	ssl, ok := getSSL(h)
	if !ok {
		return cerr.ErrLibBadParams
	}
	if flags&^(SslVerifyPeerCert|SslVerifyPeerIdentity) != 0 {
		return cerr.ErrLibBadParams
	}
	ssl.VerifyPeer = flags&SslVerifyPeerCert != 0
	ssl.VerifyHost = flags&SslVerifyPeerIdentity != 0
	return cerr.Ok
}
