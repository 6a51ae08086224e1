package models

import "sync"

const defaultSiteCurrency = "USD"

var siteCurrency = struct {
	sync.RWMutex
	code string
}{code: defaultSiteCurrency}

// SetSiteCurrency sets the currency code this site uses, e.g. "NZD".
// The code is stored as given.
func SetSiteCurrency(code string) {
	siteCurrency.Lock()
	defer siteCurrency.Unlock()
	siteCurrency.code = code
}

// SiteCurrency returns the site currency in use.
func SiteCurrency() string {
	siteCurrency.RLock()
	defer siteCurrency.RUnlock()
	return siteCurrency.code
}
