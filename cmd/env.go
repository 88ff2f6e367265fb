package cmd

import (
	"connecthub/internal/auth"
	"connecthub/internal/config"
	"connecthub/internal/connector"
	"connecthub/internal/credential"
	"connecthub/internal/oauth"
)

// env bundles the wired core components every command operates on.
type env struct {
	cfg    config.Config
	root   string
	store  *credential.Store
	docs   *connector.DocCache
	agg    *auth.Aggregator
	states *oauth.StateStore
	flow   *oauth.Flow
	ref    *oauth.Refresher
}

// buildEnv loads the configuration from configPath and wires the core
// components around the resolved connector root.
func buildEnv(configPath string) (*env, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	root := cfg.ResolveConnectorRoot(configPath)
	store := credential.NewStore(root)
	docs := connector.NewDocCache(connector.NewDocReader(root))
	states := oauth.NewStateStore()

	return &env{
		cfg:    cfg,
		root:   root,
		store:  store,
		docs:   docs,
		agg:    auth.NewAggregator(docs, store),
		states: states,
		flow:   oauth.NewFlow(store, states),
		ref:    oauth.NewRefresher(store),
	}, nil
}
