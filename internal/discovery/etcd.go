package discovery

import (
	"bytes"
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/Ajpantuso/zone-grouper/internal/member"
	"github.com/Ajpantuso/zone-grouper/internal/util"
	clientv3 "go.etcd.io/etcd/client/v3"
	"go.uber.org/zap"
)

const localMetadataKey = "local"

// EtcdDiscovery reads per-member metadata documents stored as JSON objects
// under <prefix>/<member id>. Local metadata lives under <prefix>/local.
type EtcdDiscovery struct {
	kv        clientv3.KV
	logger    *zap.SugaredLogger
	keyPrefix string
	timeout   time.Duration
}

func NewEtcdDiscovery(kv clientv3.KV, logger *zap.SugaredLogger, keyPrefix string, timeout time.Duration) *EtcdDiscovery {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	return &EtcdDiscovery{
		kv:        kv,
		logger:    logger,
		keyPrefix: strings.TrimSuffix(keyPrefix, "/"),
		timeout:   timeout,
	}
}

func (d *EtcdDiscovery) DiscoverLocalMetadata(ctx context.Context) (map[string]any, error) {
	return d.read(ctx, localMetadataKey)
}

func (d *EtcdDiscovery) DiscoverMemberMetadata(ctx context.Context, m *member.Member) (map[string]any, error) {
	return d.read(ctx, m.ID())
}

func (d *EtcdDiscovery) read(ctx context.Context, name string) (map[string]any, error) {
	key := d.keyPrefix + "/" + name

	getCtx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	resp, err := d.kv.Get(getCtx, key)
	if err != nil {
		return nil, &util.DiscoveryError{Source: "etcd", Reason: fmt.Sprintf("reading %s", key), Err: err}
	}
	if len(resp.Kvs) == 0 {
		d.logger.Debugw("No metadata stored in etcd", "key", key)
		return map[string]any{}, nil
	}

	metadata, err := decodeMetadata(resp.Kvs[0].Value)
	if err != nil {
		return nil, &util.DiscoveryError{Source: "etcd", Reason: fmt.Sprintf("decoding %s", key), Err: err}
	}

	d.logger.Debugw("Discovered etcd metadata",
		"key", key,
		"entries", len(metadata),
	)

	return metadata, nil
}

// decodeMetadata parses a JSON object. Integral numbers become int64 and all
// other numbers float64. Null entries are dropped.
func decodeMetadata(data []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}

	metadata := make(map[string]any, len(raw))
	for k, v := range raw {
		if v == nil {
			continue
		}
		n, ok := v.(json.Number)
		if !ok {
			metadata[k] = v
			continue
		}
		if i, err := n.Int64(); err == nil {
			metadata[k] = i
		} else if f, err := n.Float64(); err == nil {
			metadata[k] = f
		} else {
			metadata[k] = n.String()
		}
	}
	return metadata, nil
}

// NewEtcdClient connects to the given endpoints. tlsConfig may be nil.
func NewEtcdClient(endpoints []string, dialTimeout time.Duration, tlsConfig *tls.Config) (*clientv3.Client, error) {
	if len(endpoints) == 0 {
		return nil, fmt.Errorf("no etcd endpoints provided")
	}

	client, err := clientv3.New(clientv3.Config{
		Endpoints:   endpoints,
		DialTimeout: dialTimeout,
		TLS:         tlsConfig,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create etcd client: %w", err)
	}
	return client, nil
}

// LoadTLSConfig loads a client certificate, key and CA bundle from files
func LoadTLSConfig(certPath, keyPath, caPath string) (*tls.Config, error) {
	cert, err := tls.LoadX509KeyPair(certPath, keyPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load client certificates: %w", err)
	}

	caCert, err := os.ReadFile(caPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read CA certificate: %w", err)
	}

	caCertPool := x509.NewCertPool()
	if !caCertPool.AppendCertsFromPEM(caCert) {
		return nil, fmt.Errorf("failed to parse CA certificate")
	}

	return &tls.Config{
		Certificates: []tls.Certificate{cert},
		RootCAs:      caCertPool,
	}, nil
}
