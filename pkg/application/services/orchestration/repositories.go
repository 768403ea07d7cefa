package orchestration

import (
	"github.com/vsinha/eventprocure/pkg/infrastructure/repositories/memory"
	"github.com/vsinha/eventprocure/pkg/infrastructure/repositories/postgres"
)

// MemoryRepositories exposes an in-memory store as a repository bundle
func MemoryRepositories(store *memory.Store) Repositories {
	return Repositories{
		Events:         store.Events,
		Menus:          store.Menus,
		Catalog:        store.Catalog,
		Settings:       store.Catalog,
		Stock:          store.Stock,
		Ledger:         store.Ledger,
		EventOrders:    store.EventOrders,
		PurchaseOrders: store.PurchaseOrders,
	}
}

// PostgresRepositories exposes a postgres store as a repository bundle
func PostgresRepositories(store *postgres.Store) Repositories {
	return Repositories{
		Events:         store.Events,
		Menus:          store.Menus,
		Catalog:        store.Catalog,
		Settings:       store.Catalog,
		Stock:          store.Stock,
		Ledger:         store.Ledger,
		EventOrders:    store.EventOrders,
		PurchaseOrders: store.PurchaseOrders,
	}
}
