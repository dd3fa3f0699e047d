package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// createMint creates a new mint. Faucet only.
// POST /treasury/mints
func (a *API) createMint(w http.ResponseWriter, r *http.Request) {
	if !a.faucet {
		ErrFaucetDisabled.Write(w)
		return
	}
	req := &NewMint{}
	if !decodeBody(w, r, req) {
		return
	}
	m, err := a.treasury.CreateMint(req.Decimals, req.Standard)
	if err != nil {
		errorFrom(err).Write(w)
		return
	}
	httpWriteJSON(w, m)
}

// mint returns a mint
// GET /treasury/mints/{address}
func (a *API) mint(w http.ResponseWriter, r *http.Request) {
	addr, ok := hexParam(w, chi.URLParam(r, AddressURLParam), ErrMalformedAddress)
	if !ok {
		return
	}
	m, err := a.treasury.Mint(addr)
	if err != nil {
		errorFrom(err).Write(w)
		return
	}
	httpWriteJSON(w, m)
}

// deposit issues tokens of an asset to an owner. Faucet only.
// POST /treasury/deposits
func (a *API) deposit(w http.ResponseWriter, r *http.Request) {
	if !a.faucet {
		ErrFaucetDisabled.Write(w)
		return
	}
	req := &Deposit{}
	if !decodeBody(w, r, req) {
		return
	}
	h, err := a.treasury.Deposit(req.Owner, req.Asset, req.Amount)
	if err != nil {
		errorFrom(err).Write(w)
		return
	}
	httpWriteJSON(w, &Holding{Address: h.Address, Owner: h.Owner, Asset: h.Asset, Amount: h.Amount})
}

// holding returns the balance of an asset owned by an address
// GET /treasury/holdings/{address}?asset=
func (a *API) holding(w http.ResponseWriter, r *http.Request) {
	owner, ok := hexParam(w, chi.URLParam(r, AddressURLParam), ErrMalformedAddress)
	if !ok {
		return
	}
	asset, ok := hexParam(w, r.URL.Query().Get("asset"), ErrMalformedAddress)
	if !ok {
		return
	}
	if _, err := a.treasury.Mint(asset); err != nil {
		errorFrom(err).Write(w)
		return
	}
	amount, err := a.treasury.Balance(owner, asset)
	if err != nil {
		errorFrom(err).Write(w)
		return
	}
	httpWriteJSON(w, &Holding{
		Address: a.treasury.HoldingAddress(owner, asset),
		Owner:   owner,
		Asset:   asset,
		Amount:  amount,
	})
}
