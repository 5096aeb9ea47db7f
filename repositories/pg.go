package repositories

import "budget-server/db"

// NewPgGateway wires every postgres repository onto database.
func NewPgGateway(database db.Database) *Gateway {
	return &Gateway{
		Users:         NewUserPgRepository(database),
		Households:    NewHouseholdPgRepository(database),
		Subscriptions: NewSubscriptionPgRepository(database),
		Envelopes:     NewEnvelopePgRepository(database),
		Transactions:  NewTransactionPgRepository(database),
		RefreshTokens: NewRefreshTokenPgRepository(database),
	}
}
