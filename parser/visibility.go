package parser

import (
	"go/token"
	"strings"

	"github.com/mlwelles/rttigen/model"
)

// visibilityForm is how an identifier is visible in Go source, before
// translation into the runtime's visibility tokens.
type visibilityForm int

const (
	formUnrecognized visibilityForm = iota
	formExported                    // exported, importable from anywhere
	formModule                      // exported, but inside an internal/ package
	formRestricted                  // exported, but reachable only through an unexported type
	formPackage                     // unexported
)

// translateVisibility maps a form onto the emitted token. Unrecognized forms
// become VisibilityUnknown; translation never fails.
func translateVisibility(f visibilityForm) model.Visibility {
	switch f {
	case formExported:
		return model.VisibilityPublic
	case formModule:
		return model.VisibilityCrate
	case formRestricted:
		return model.VisibilityRestricted
	case formPackage:
		return model.VisibilityInherited
	default:
		return model.VisibilityUnknown
	}
}

// declarationForm classifies a package-level type name.
func declarationForm(name, pkgPath string) visibilityForm {
	return memberForm(name, "", pkgPath)
}

// memberForm classifies a field name declared inside the type named
// enclosing. An empty enclosing name means a package-level identifier.
func memberForm(name, enclosing, pkgPath string) visibilityForm {
	switch {
	case name == "" || name == "_":
		return formUnrecognized
	case !token.IsExported(name):
		return formPackage
	case enclosing != "" && !token.IsExported(enclosing):
		return formRestricted
	case isInternalPath(pkgPath):
		return formModule
	default:
		return formExported
	}
}

func isInternalPath(pkgPath string) bool {
	for _, elem := range strings.Split(pkgPath, "/") {
		if elem == "internal" {
			return true
		}
	}
	return false
}
