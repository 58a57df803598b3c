package validator

import "github.com/bookwright/bookwright/internal/api"

// BuiltIn returns the validators that ship with Bookwright. The engine
// registers these when auto-discovery is enabled; host applications can
// register additional implementations alongside them.
func BuiltIn(responder api.Responder) []Validator {
	return []Validator{
		NewProseQuality(responder),
		NewStructure(),
	}
}
