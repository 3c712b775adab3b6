package store

// Stores is the top-level container for all storage backends.
// Every backend must provide all three; the engine borrows them per account.
type Stores struct {
	Rules   RuleStore
	Configs ConfigStore
	Logs    ReplyLogStore
}
