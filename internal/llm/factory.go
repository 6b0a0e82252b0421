package llm

// NewProvider builds one provider per model against a shared endpoint
// configuration.
func NewProvider(config ProviderConfig) Provider {
	return NewOpenRouterProvider(config)
}

// NewProviders expands a model list into one provider each.
func NewProviders(base ProviderConfig, models []string) []Provider {
	providers := make([]Provider, 0, len(models))
	for _, model := range models {
		cfg := base
		cfg.Model = model
		providers = append(providers, NewProvider(cfg))
	}
	return providers
}
