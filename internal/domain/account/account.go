package account

// Account represents a brand's or creator's payment-account linkage.
// AccountID empty means disconnected; DisconnectedBy/On are set together
// when a linkage is removed and cleared together when one is created.
type Account struct {
	Name           string `json:"name,omitempty"`
	Email          string `json:"email,omitempty"`
	AccountID      string `json:"accountId,omitempty"`
	DisconnectedBy string `json:"disconnectedBy,omitempty"`
	DisconnectedOn string `json:"disconnectedOn,omitempty"`
}

// Connected reports whether the record has a live provider linkage.
func (a Account) Connected() bool {
	return a.AccountID != ""
}

// Linkage is the mutable connection state applied on link/unlink.
type Linkage struct {
	AccountID      string
	DisconnectedBy string
	DisconnectedOn string
}

// Link returns the linkage for a freshly connected account.
func Link(accountID string) Linkage {
	return Linkage{AccountID: accountID}
}

// Unlink returns the linkage for a disconnected account with its audit pair.
func Unlink(by, on string) Linkage {
	return Linkage{DisconnectedBy: by, DisconnectedOn: on}
}

// Apply writes the linkage onto the record. The audit pair always moves
// with the account id: linking clears it, unlinking stamps it.
func (l Linkage) Apply(a *Account) {
	a.AccountID = l.AccountID
	a.DisconnectedBy = l.DisconnectedBy
	a.DisconnectedOn = l.DisconnectedOn
}

// Registry provides durable access to the account collection. The brand
// is a singleton; creators are keyed by email and inserted on miss.
type Registry interface {
	// Brand returns the singleton brand record.
	Brand() (*Account, error)
	// CreatorByEmail returns the creator with the given email, or
	// shared.ErrNotFound.
	CreatorByEmail(email string) (*Account, error)
	// CreatorByAccountID returns the creator holding the given provider
	// account id, or shared.ErrNotFound.
	CreatorByAccountID(accountID string) (*Account, error)
	// UpdateBrand merges the linkage onto the brand record and persists.
	UpdateBrand(l Linkage) error
	// UpsertCreator merges the linkage onto the creator with the given
	// email, inserting the record when absent, and persists.
	UpsertCreator(email string, l Linkage) error
}
