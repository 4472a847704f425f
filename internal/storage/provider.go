package storage

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
)

// EndpointConfig describes both endpoints a Provider can hand out.
type EndpointConfig struct {
	Remote S3Config
	Local  MinIOConfig
}

// EndpointProvider builds each backend on first use and reuses it afterwards.
type EndpointProvider struct {
	cfg    EndpointConfig
	logger *slog.Logger

	remoteOnce sync.Once
	remote     *S3Client
	remoteErr  error

	localOnce sync.Once
	local     *MinIOClient
	localErr  error
}

// NewEndpointProvider creates a Provider for cfg.
func NewEndpointProvider(cfg EndpointConfig, logger *slog.Logger) *EndpointProvider {
	if logger == nil {
		logger = slog.Default()
	}
	return &EndpointProvider{cfg: cfg, logger: logger}
}

// Store returns the local MinIO store when local is set, the S3 store otherwise.
func (p *EndpointProvider) Store(ctx context.Context, local bool) (ObjectStorage, error) {
	if local {
		p.localOnce.Do(func() {
			if p.cfg.Local.Endpoint == "" {
				p.localErr = Wrap(KindConfigInvalid, fmt.Errorf("local endpoint is not configured"))
				return
			}
			p.logger.DebugContext(ctx, "initializing local object store", "endpoint", p.cfg.Local.Endpoint)
			p.local, p.localErr = NewMinIOClient(p.cfg.Local)
		})
		if p.localErr != nil {
			return nil, p.localErr
		}
		return p.local, nil
	}

	p.remoteOnce.Do(func() {
		p.logger.DebugContext(ctx, "initializing remote object store", "region", p.cfg.Remote.Region, "endpoint", p.cfg.Remote.Endpoint)
		p.remote, p.remoteErr = NewS3Client(ctx, p.cfg.Remote)
	})
	if p.remoteErr != nil {
		return nil, p.remoteErr
	}
	return p.remote, nil
}
