package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/etherpad/eplite-go/eplite"
	"github.com/etherpad/eplite-go/internal/config"
	"github.com/etherpad/eplite-go/internal/dryrun"
	"github.com/etherpad/eplite-go/internal/iocontext"
	"github.com/etherpad/eplite-go/internal/outfmt"
	"github.com/etherpad/eplite-go/internal/retry"
)

type clientFactory struct {
	profile   string
	timeout   time.Duration
	userAgent string
	lenient   bool
	retry     retry.Config
}

func newClientFactory() *clientFactory {
	rc := retry.DefaultConfig()
	rc.MaxRetries = flags.Retries
	rc.Delay = flags.RetryDelay
	return &clientFactory{
		profile:   flags.Profile,
		timeout:   flags.Timeout,
		userAgent: fmt.Sprintf("eplite-go/%s", version),
		lenient:   flags.Lenient,
		retry:     rc,
	}
}

// client builds a Client for the resolved profile.
func (f *clientFactory) client() (*eplite.Client, error) {
	cfg, err := config.Resolve(f.profile)
	if err != nil {
		return nil, err
	}
	return f.newClient(cfg)
}

func (f *clientFactory) newClient(cfg config.ClientConfig) (*eplite.Client, error) {
	policy := eplite.MalformedStrict
	if f.lenient || cfg.Lenient {
		policy = eplite.MalformedLenient
	}
	return eplite.New(cfg.BaseURL, cfg.APIKey,
		eplite.WithTimeout(f.timeout),
		eplite.WithUserAgent(f.userAgent),
		eplite.WithMalformedPolicy(policy),
	)
}

// invoker wraps the client with retries for reads and dry-run previews
// for writes. Previews go to stderr when stdout carries structured output.
func (f *clientFactory) invoker(ctx context.Context) (eplite.Invoker, error) {
	client, err := f.client()
	if err != nil {
		return nil, err
	}
	ioStreams := iocontext.GetIO(ctx)
	previewOut := ioStreams.Out
	if outfmt.IsStructured(ctx) {
		previewOut = ioStreams.ErrOut
	}
	return dryrun.Wrap(retry.Wrap(client, f.retry), previewOut), nil
}
