package models

// BrazilianStates lists the 27 federative unit codes accepted in the
// registration form.
var BrazilianStates = []string{
	"AC", "AL", "AP", "AM", "BA", "CE", "DF", "ES", "GO", "MA", "MT", "MS", "MG",
	"PA", "PB", "PR", "PE", "PI", "RJ", "RN", "RS", "RO", "RR", "SC", "SP", "SE", "TO",
}

var stateSet = func() map[string]struct{} {
	set := make(map[string]struct{}, len(BrazilianStates))
	for _, uf := range BrazilianStates {
		set[uf] = struct{}{}
	}
	return set
}()

// ValidState reports whether code is a known federative unit. Callers are
// expected to upper-case and trim the code first.
func ValidState(code string) bool {
	_, ok := stateSet[code]
	return ok
}
