package models

// SPV is a special purpose vehicle that holds assets.
type SPV struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Account is a counterparty or ledger account.
type Account struct {
	ID        string  `json:"id"`
	Reference string  `json:"reference"`
	Label     *string `json:"label"`
}

// ServiceProviderFeeType is a fee category payable to or from an account.
type ServiceProviderFeeType struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	FeeType   string `json:"feeType"`
	AccountID string `json:"accountId"`
}

// FixedIncomeType classifies fixed income assets, e.g. "Treasury Bill".
type FixedIncomeType struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// State is the whole portfolio document. Treat it as a value: ledger
// operations never modify a State they were given.
type State struct {
	Accounts                 []Account                `json:"accounts"`
	PrincipalLenderAccountID string                   `json:"principalLenderAccountId"`
	SPVs                     []SPV                    `json:"spvs"`
	ServiceProviderFeeTypes  []ServiceProviderFeeType `json:"serviceProviderFeeTypes"`
	FixedIncomeTypes         []FixedIncomeType        `json:"fixedIncomeTypes"`
	Portfolio                Portfolio                `json:"portfolio"`
	Transactions             []GroupTransaction       `json:"transactions"`
}

// NewState returns an empty state whose principal lender is the given account.
func NewState(principalLenderAccountID string) State {
	return State{
		Accounts:                 []Account{},
		PrincipalLenderAccountID: principalLenderAccountID,
		SPVs:                     []SPV{},
		ServiceProviderFeeTypes:  []ServiceProviderFeeType{},
		FixedIncomeTypes:         []FixedIncomeType{},
		Portfolio:                Portfolio{},
		Transactions:             []GroupTransaction{},
	}
}

// Clone returns a deep copy sharing no mutable memory with s.
func (s State) Clone() State {
	out := State{
		PrincipalLenderAccountID: s.PrincipalLenderAccountID,
		SPVs:                     append(make([]SPV, 0, len(s.SPVs)), s.SPVs...),
		ServiceProviderFeeTypes:  append(make([]ServiceProviderFeeType, 0, len(s.ServiceProviderFeeTypes)), s.ServiceProviderFeeTypes...),
		FixedIncomeTypes:         append(make([]FixedIncomeType, 0, len(s.FixedIncomeTypes)), s.FixedIncomeTypes...),
		Accounts:                 make([]Account, 0, len(s.Accounts)),
		Portfolio:                make(Portfolio, 0, len(s.Portfolio)),
		Transactions:             make([]GroupTransaction, 0, len(s.Transactions)),
	}
	for _, a := range s.Accounts {
		a.Label = cloneString(a.Label)
		out.Accounts = append(out.Accounts, a)
	}
	for _, a := range s.Portfolio {
		out.Portfolio = append(out.Portfolio, a.CloneAsset())
	}
	for _, t := range s.Transactions {
		out.Transactions = append(out.Transactions, t.Clone())
	}
	return out
}

func (s *State) FindSPV(id string) (int, bool) {
	for i := range s.SPVs {
		if s.SPVs[i].ID == id {
			return i, true
		}
	}
	return -1, false
}

func (s *State) FindAccount(id string) (int, bool) {
	for i := range s.Accounts {
		if s.Accounts[i].ID == id {
			return i, true
		}
	}
	return -1, false
}

func (s *State) FindServiceProviderFeeType(id string) (int, bool) {
	for i := range s.ServiceProviderFeeTypes {
		if s.ServiceProviderFeeTypes[i].ID == id {
			return i, true
		}
	}
	return -1, false
}

func (s *State) FindFixedIncomeType(id string) (int, bool) {
	for i := range s.FixedIncomeTypes {
		if s.FixedIncomeTypes[i].ID == id {
			return i, true
		}
	}
	return -1, false
}

func (s *State) FindAsset(id string) (int, bool) {
	for i := range s.Portfolio {
		if s.Portfolio[i].AssetID() == id {
			return i, true
		}
	}
	return -1, false
}

func (s *State) FindTransaction(id string) (int, bool) {
	for i := range s.Transactions {
		if s.Transactions[i].ID == id {
			return i, true
		}
	}
	return -1, false
}

// Asset returns the asset with the given id, or nil.
func (s *State) Asset(id string) Asset {
	if i, ok := s.FindAsset(id); ok {
		return s.Portfolio[i]
	}
	return nil
}

// CashAsset returns the first Cash asset and its index.
func (s *State) CashAsset() (*Cash, int) {
	for i, a := range s.Portfolio {
		if c, ok := a.(*Cash); ok {
			return c, i
		}
	}
	return nil, -1
}

// FixedIncomeAsset returns the fixed income asset with the given id, or nil.
func (s *State) FixedIncomeAsset(id string) *FixedIncome {
	if f, ok := s.Asset(id).(*FixedIncome); ok {
		return f
	}
	return nil
}

// TransactionsForAsset returns the transactions whose fixed income leg
// references assetID, in ledger order.
func (s *State) TransactionsForAsset(assetID string) []GroupTransaction {
	var out []GroupTransaction
	for _, t := range s.Transactions {
		if t.FixedIncomeAssetID() == assetID {
			out = append(out, t)
		}
	}
	return out
}
