// Package setup assembles the publication pipeline from configuration for
// process entry points.
package setup

import (
	"context"
	"errors"
	"fmt"

	"github.com/hashgraph-online/asset-publisher-go/pkg/chain"
	"github.com/hashgraph-online/asset-publisher-go/pkg/hederachain"
	"github.com/hashgraph-online/asset-publisher-go/pkg/logging"
	"github.com/hashgraph-online/asset-publisher-go/pkg/mint"
	"github.com/hashgraph-online/asset-publisher-go/pkg/pinning"
	"github.com/hashgraph-online/asset-publisher-go/pkg/publish"
	"github.com/hashgraph-online/asset-publisher-go/pkg/shared"
	"github.com/prometheus/client_golang/prometheus"
)

const MetricsNamespace = "assetpub"

type Options struct {
	// ConfigPath names the publisher config file; empty reads only the
	// environment.
	ConfigPath string
	// Registerer receives pipeline metrics; nil disables them.
	Registerer prometheus.Registerer
}

// Stack is a ready pipeline. Close releases the chain connection.
type Stack struct {
	Config       shared.PublisherConfig
	Operator     shared.OperatorConfig
	Logger       *logging.Logger
	Pinning      *pinning.Client
	Handle       *chain.Handle
	Orchestrator *mint.Orchestrator
}

func Open(ctx context.Context, options Options) (*Stack, error) {
	config, err := shared.LoadPublisherConfig(options.ConfigPath)
	if err != nil {
		return nil, err
	}
	operator, err := shared.OperatorConfigFromEnv()
	if err != nil {
		return nil, err
	}
	operator.Network = config.Network

	logger, err := logging.New(config.LogMode)
	if err != nil {
		return nil, err
	}

	pinClient, err := pinning.NewClient(pinning.Config{
		PinataJWT:       config.PinataJWT,
		PinataBaseURL:   config.PinataBaseURL,
		PublicUploadURL: config.PublicUploadURL,
		GatewayURL:      config.GatewayURL,
	})
	if err != nil {
		return nil, err
	}
	assembler, err := publish.NewAssembler(pinClient)
	if err != nil {
		return nil, err
	}

	signer, err := hederachain.KeySignerFromOperator(operator)
	if err != nil {
		return nil, err
	}
	handle := chain.NewHandle(func(ctx context.Context) (chain.Connection, error) {
		connection, err := hederachain.Dial(ctx, hederachain.Config{
			Network:       config.Network,
			MirrorBaseURL: config.MirrorBaseURL,
		}, signer)
		if err != nil {
			return nil, err
		}
		return connection, nil
	})
	connection, err := handle.Connection(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", config.Network, err)
	}

	submitter, err := chain.NewSubmitter(connection, signer, chain.SubmitterConfig{
		FinalizationTimeout: config.FinalizationTimeout,
		MetadataLimit:       config.MetadataLimit,
	})
	if err != nil {
		return nil, errors.Join(err, handle.Close())
	}

	var metrics mint.Metrics = mint.Noop{}
	if options.Registerer != nil {
		prom, err := mint.NewProm(MetricsNamespace, options.Registerer)
		if err != nil {
			return nil, errors.Join(err, handle.Close())
		}
		metrics = prom
	}

	orchestrator, err := mint.NewOrchestrator(mint.Config{
		Submitter: submitter,
		Publisher: assembler,
		Fetcher:   pinClient,
		Recipient: config.RecipientAccountID,
		Logger:    logger,
		Metrics:   metrics,
	})
	if err != nil {
		return nil, errors.Join(err, handle.Close())
	}

	logger.Info("pipeline ready",
		"network", config.Network,
		"operator", operator.AccountID,
		"pinning", pinClient.Strategy(),
	)
	return &Stack{
		Config:       config,
		Operator:     operator,
		Logger:       logger,
		Pinning:      pinClient,
		Handle:       handle,
		Orchestrator: orchestrator,
	}, nil
}

func (s *Stack) Close() error {
	err := s.Handle.Close()
	s.Logger.Sync()
	return err
}
