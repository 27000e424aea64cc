// Package components classifies classes into architectural roles based on
// a closed annotation catalog. The catalog is plain data handed in by the
// caller; nothing here consults global state, so two detectors with
// different catalogs can run side by side.
package components

// Type is the architectural role of a detected component.
type Type string

const (
	TypeService       Type = "SERVICE"
	TypeController    Type = "CONTROLLER"
	TypeRepository    Type = "REPOSITORY"
	TypeEntity        Type = "ENTITY"
	TypeConfiguration Type = "CONFIGURATION"
	TypeOther         Type = "OTHER"
)

// Catalog maps annotation markers to roles. Stereotypes drives component
// classification; BeanMarkers names the method-level annotations that turn
// a configuration method into a bean factory.
type Catalog struct {
	Stereotypes map[string]Type
	BeanMarkers []string
}

// DefaultCatalog covers the common Spring and persistence markers. Config
// overrides extend or replace individual entries.
func DefaultCatalog() Catalog {
	return Catalog{
		Stereotypes: map[string]Type{
			"org.springframework.stereotype.Service":                       TypeService,
			"org.springframework.stereotype.Component":                     TypeService,
			"org.springframework.stereotype.Controller":                    TypeController,
			"org.springframework.web.bind.annotation.RestController":       TypeController,
			"org.springframework.stereotype.Repository":                    TypeRepository,
			"jakarta.persistence.Entity":                                   TypeEntity,
			"javax.persistence.Entity":                                     TypeEntity,
			"org.springframework.context.annotation.Configuration":         TypeConfiguration,
			"org.springframework.boot.autoconfigure.SpringBootApplication": TypeConfiguration,
		},
		BeanMarkers: []string{
			"org.springframework.context.annotation.Bean",
		},
	}
}

// WithOverrides returns a copy of the catalog with the given annotation ->
// role entries merged in. An override mapping to OTHER removes the marker.
func (cat Catalog) WithOverrides(overrides map[string]Type) Catalog {
	merged := Catalog{
		Stereotypes: make(map[string]Type, len(cat.Stereotypes)+len(overrides)),
		BeanMarkers: append([]string(nil), cat.BeanMarkers...),
	}
	for fqn, t := range cat.Stereotypes {
		merged.Stereotypes[fqn] = t
	}
	for fqn, t := range overrides {
		if t == TypeOther {
			delete(merged.Stereotypes, fqn)
			continue
		}
		merged.Stereotypes[fqn] = t
	}
	return merged
}
