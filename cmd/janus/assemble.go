package main

import (
	"fmt"

	"renderhq/janus/pkg/audit"
	"renderhq/janus/pkg/config"
	"renderhq/janus/pkg/engine"
	"renderhq/janus/pkg/ledger"
	"renderhq/janus/pkg/notify"
	"renderhq/janus/pkg/rules"
	"renderhq/janus/pkg/rules/catalog"
	"renderhq/janus/pkg/storage"
)

// collaborators bundles the run dependencies the CLI assembles from config.
type collaborators struct {
	auditStore  audit.Storage
	ledgerStore ledger.Store
	engine      *engine.Engine
	metrics     *engine.Metrics
}

// close releases backend resources.
func (c *collaborators) close() {
	if c.auditStore != nil {
		c.auditStore.Close()
	}
	if c.ledgerStore != nil {
		c.ledgerStore.Close()
	}
}

// loadRuleSet loads the pattern catalog (file or built-in) and compiles it
// with the configured application packs.
func loadRuleSet(cfg *config.Config) (*rules.RuleSet, error) {
	var ruleList []rules.Rule
	if cfg.Rules.CatalogPath != "" {
		loaded, err := catalog.Load(cfg.Rules.CatalogPath)
		if err != nil {
			return nil, err
		}
		ruleList = loaded
	} else {
		ruleList = catalog.Default().Rules()
	}

	return rules.Compile(ruleList, rules.CompileOptions{
		CaseInsensitive: cfg.Rules.CaseInsensitive,
		Applications:    cfg.Rules.Applications,
	})
}

// assemble opens the audit and ledger backends and builds the engine. The
// caller owns the returned collaborators and must close them.
func assemble(cfg *config.Config, withMetrics bool) (*collaborators, error) {
	ruleSet, err := loadRuleSet(cfg)
	if err != nil {
		return nil, fmt.Errorf("loading pattern catalog: %w", err)
	}

	c := &collaborators{}

	switch cfg.Audit.Backend {
	case "memory":
		c.auditStore = audit.NewMemoryStorage()
	default:
		sqliteCfg := audit.DefaultSQLiteConfig()
		sqliteCfg.Path = cfg.Audit.Path
		c.auditStore, err = audit.NewSQLiteStorage(sqliteCfg)
		if err != nil {
			return nil, fmt.Errorf("opening audit log: %w", err)
		}
	}

	switch cfg.Ledger.Backend {
	case "memory":
		c.ledgerStore = ledger.NewMemoryStore()
	default:
		c.ledgerStore, err = ledger.NewSQLiteStore(cfg.Ledger.Path)
		if err != nil {
			c.close()
			return nil, fmt.Errorf("opening ledger: %w", err)
		}
	}

	if withMetrics {
		c.metrics = engine.NewMetrics(nil)
	}

	c.engine, err = engine.New(cfg, ruleSet, engine.Dependencies{
		Backend:     storage.NewLocal(),
		AuditStore:  c.auditStore,
		LedgerStore: c.ledgerStore,
		Notifier:    notify.NewLogNotifier(),
		Metrics:     c.metrics,
	})
	if err != nil {
		c.close()
		return nil, err
	}
	return c, nil
}
