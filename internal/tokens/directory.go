package tokens

import "strings"

// Directory indexes a loaded token list by address.
type Directory struct {
	list   []Token
	byAddr map[string]Token
}

// NewDirectory builds the index. When an address repeats, the first
// occurrence wins, matching FindByAddress.
func NewDirectory(list []Token) *Directory {
	d := &Directory{
		list:   list,
		byAddr: make(map[string]Token, len(list)),
	}
	for _, t := range list {
		if _, ok := d.byAddr[t.Address]; ok {
			continue
		}
		d.byAddr[t.Address] = t
	}
	return d
}

// Lookup returns the token with the given address.
func (d *Directory) Lookup(address string) (Token, bool) {
	t, ok := d.byAddr[address]
	return t, ok
}

// Len returns the number of distinct addresses.
func (d *Directory) Len() int {
	return len(d.byAddr)
}

// All returns the list in load order, duplicates included.
func (d *Directory) All() []Token {
	return d.list
}

// Search matches term against symbol and name, case-insensitive. An empty
// term returns every token. An exact address match is returned on its own.
func (d *Directory) Search(term string) []Token {
	raw := strings.TrimSpace(term)
	if raw == "" {
		return d.list
	}
	if t, ok := d.byAddr[raw]; ok {
		return []Token{t}
	}

	term = strings.ToLower(raw)

	var out []Token
	for _, t := range d.list {
		if containsFold(t.Symbol, term) || containsFold(t.Name, term) {
			out = append(out, t)
		}
	}
	return out
}

// Find resolves a user-entered token reference: an address first, then an
// exact symbol match (case-insensitive, first in load order).
func (d *Directory) Find(ref string) (Token, bool) {
	ref = strings.TrimSpace(ref)
	if t, ok := d.byAddr[ref]; ok {
		return t, true
	}
	for _, t := range d.list {
		if strings.EqualFold(t.Symbol, ref) {
			return t, true
		}
	}
	return Token{}, false
}
