package classfile

import (
	"strings"
	"unicode"

	"classlens/internal/metadata"
)

const constructorName = "<init>"

// routeAnnotations are the HTTP-route-mapping markers that classify a
// method as a REST endpoint. The set is fixed: it names wire-level
// framework annotations, not a user-tunable policy.
var routeAnnotations = map[string]bool{
	"org.springframework.web.bind.annotation.RequestMapping": true,
	"org.springframework.web.bind.annotation.GetMapping":     true,
	"org.springframework.web.bind.annotation.PostMapping":    true,
	"org.springframework.web.bind.annotation.PutMapping":     true,
	"org.springframework.web.bind.annotation.DeleteMapping":  true,
	"org.springframework.web.bind.annotation.PatchMapping":   true,
	"jakarta.ws.rs.GET":                                      true,
	"jakarta.ws.rs.POST":                                     true,
	"jakarta.ws.rs.PUT":                                      true,
	"jakarta.ws.rs.DELETE":                                   true,
	"jakarta.ws.rs.PATCH":                                    true,
	"javax.ws.rs.GET":                                        true,
	"javax.ws.rs.POST":                                       true,
	"javax.ws.rs.PUT":                                        true,
	"javax.ws.rs.DELETE":                                     true,
}

// categorize applies the behavioral classification rules in priority order.
// A route annotation outranks accessor naming: a handler shaped like a
// getter is still an endpoint.
func categorize(m *metadata.Method) metadata.MethodCategory {
	switch {
	case m.Name == constructorName:
		return metadata.CategoryConstructor
	case hasRouteAnnotation(m):
		return metadata.CategoryRestEndpoint
	case isGetter(m):
		return metadata.CategoryGetter
	case isSetter(m):
		return metadata.CategorySetter
	case isMainMethod(m):
		return metadata.CategoryEntryPoint
	default:
		return metadata.CategoryBusiness
	}
}

func isGetter(m *metadata.Method) bool {
	if len(m.Parameters) != 0 || m.IsVoid() {
		return false
	}
	return hasAccessorPrefix(m.Name, "get") || hasAccessorPrefix(m.Name, "is")
}

func isSetter(m *metadata.Method) bool {
	if len(m.Parameters) != 1 || !m.IsVoid() {
		return false
	}
	return hasAccessorPrefix(m.Name, "set")
}

// hasAccessorPrefix requires a property name after the prefix, so plain
// "get" or "is" stays BUSINESS.
func hasAccessorPrefix(name, prefix string) bool {
	if !strings.HasPrefix(name, prefix) || len(name) == len(prefix) {
		return false
	}
	return unicode.IsUpper(rune(name[len(prefix)]))
}

func hasRouteAnnotation(m *metadata.Method) bool {
	for _, a := range m.Annotations {
		if routeAnnotations[a] {
			return true
		}
	}
	return false
}

func isMainMethod(m *metadata.Method) bool {
	if m.Name != "main" || !m.Static || !m.IsVoid() {
		return false
	}
	if len(m.Parameters) != 1 || m.Parameters[0].Type != "java.lang.String[]" {
		return false
	}
	for _, mod := range m.AccessModifiers {
		if mod == "public" {
			return true
		}
	}
	return false
}

// OverloadedNames returns the method names a class exposes with two or more
// members, in encounter order.
func OverloadedNames(c *metadata.Class) []string {
	counts := make(map[string]int, len(c.Methods))
	var order []string
	for _, m := range c.Methods {
		if counts[m.Name] == 0 {
			order = append(order, m.Name)
		}
		counts[m.Name]++
	}

	var overloaded []string
	for _, name := range order {
		if counts[name] >= 2 {
			overloaded = append(overloaded, name)
		}
	}
	return overloaded
}
