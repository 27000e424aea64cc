package components

import (
	"reflect"
	"testing"

	"classlens/internal/metadata"
)

func annotated(fqn string, annotations ...string) *metadata.Class {
	return &metadata.Class{FullyQualifiedName: fqn, Annotations: annotations, Kind: metadata.KindClass}
}

func fixtureIndex() *metadata.Index {
	service := annotated("com.ex.UserService", "org.springframework.stereotype.Service")
	service.Fields = []metadata.Field{
		{Name: "repo", Type: "com.ex.UserRepository", Final: true},
		{Name: "cache", Type: "com.ex.Cache", Final: true},           // not a component
		{Name: "shared", Type: "com.ex.UserRepository", Static: true, Final: true}, // static excluded
	}

	controller := annotated("com.ex.UserController", "org.springframework.web.bind.annotation.RestController")
	controller.Fields = []metadata.Field{
		{Name: "service", Type: "com.ex.UserService", Final: true},
		{Name: "mutable", Type: "com.ex.UserService"}, // non-final excluded
	}

	repo := annotated("com.ex.UserRepository", "org.springframework.stereotype.Repository")
	entity := annotated("com.ex.User", "jakarta.persistence.Entity")
	config := annotated("com.ex.AppConfig", "org.springframework.context.annotation.Configuration")
	config.Methods = []metadata.Method{
		{Name: "dataSource", ReturnType: "javax.sql.DataSource",
			Annotations: []string{"org.springframework.context.annotation.Bean"}},
		{Name: "helper", ReturnType: "com.ex.Helper"},
	}
	plain := annotated("com.ex.Cache")

	return metadata.NewIndex([]*metadata.Class{service, controller, repo, entity, config, plain})
}

func TestDetectComponents(t *testing.T) {
	got := DetectComponents(fixtureIndex(), DefaultCatalog())

	want := []Component{
		{Class: "com.ex.AppConfig", Type: TypeConfiguration},
		{Class: "com.ex.User", Type: TypeEntity},
		{Class: "com.ex.UserController", Type: TypeController},
		{Class: "com.ex.UserRepository", Type: TypeRepository},
		{Class: "com.ex.UserService", Type: TypeService},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("DetectComponents() = %v, want %v", got, want)
	}
}

func TestDetectEntitiesAndConfigurations(t *testing.T) {
	idx := fixtureIndex()
	cat := DefaultCatalog()

	if got := DetectEntities(idx, cat); !reflect.DeepEqual(got, []string{"com.ex.User"}) {
		t.Errorf("DetectEntities() = %v", got)
	}
	if got := DetectConfigurations(idx, cat); !reflect.DeepEqual(got, []string{"com.ex.AppConfig"}) {
		t.Errorf("DetectConfigurations() = %v", got)
	}
}

func TestDetectDualRoleClass(t *testing.T) {
	dual := annotated("com.ex.PersistentConfig",
		"jakarta.persistence.Entity",
		"org.springframework.context.annotation.Configuration")
	idx := metadata.NewIndex([]*metadata.Class{dual})
	cat := DefaultCatalog()

	// Classify picks one role by priority, but the targeted lists match
	// each marker set on its own.
	if got := Classify(dual, cat); got != TypeEntity {
		t.Errorf("Classify() = %q, want ENTITY", got)
	}
	if got := DetectEntities(idx, cat); !reflect.DeepEqual(got, []string{"com.ex.PersistentConfig"}) {
		t.Errorf("DetectEntities() = %v", got)
	}
	if got := DetectConfigurations(idx, cat); !reflect.DeepEqual(got, []string{"com.ex.PersistentConfig"}) {
		t.Errorf("DetectConfigurations() = %v", got)
	}
}

func TestDetectBeans(t *testing.T) {
	got := DetectBeans(fixtureIndex(), DefaultCatalog())
	want := []Bean{{Class: "com.ex.AppConfig", Method: "dataSource", ReturnType: "javax.sql.DataSource"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("DetectBeans() = %v, want %v", got, want)
	}
}

func TestDetectBeansIgnoresNonConfigurationClasses(t *testing.T) {
	c := annotated("com.ex.NotConfig", "org.springframework.stereotype.Service")
	c.Methods = []metadata.Method{
		{Name: "makeThing", Annotations: []string{"org.springframework.context.annotation.Bean"}},
	}
	got := DetectBeans(metadata.NewIndex([]*metadata.Class{c}), DefaultCatalog())
	if len(got) != 0 {
		t.Errorf("DetectBeans() = %v, want none", got)
	}
}

func TestDetectDependencies(t *testing.T) {
	got := DetectDependencies(fixtureIndex(), DefaultCatalog())

	want := []Dependency{
		{From: "com.ex.UserController", To: "com.ex.UserService", Field: "service"},
		{From: "com.ex.UserService", To: "com.ex.UserRepository", Field: "repo"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("DetectDependencies() = %v, want %v", got, want)
	}
}

func TestClassifyUnmarked(t *testing.T) {
	c := annotated("com.ex.Plain", "com.ex.Irrelevant")
	if got := Classify(c, DefaultCatalog()); got != TypeOther {
		t.Errorf("Classify() = %q, want OTHER", got)
	}
}

func TestCatalogOverrides(t *testing.T) {
	cat := DefaultCatalog().WithOverrides(map[string]Type{
		"com.ex.custom.Worker":                   TypeService,
		"org.springframework.stereotype.Service": TypeOther,
	})

	custom := annotated("com.ex.Job", "com.ex.custom.Worker")
	if got := Classify(custom, cat); got != TypeService {
		t.Errorf("custom marker: Classify() = %q, want SERVICE", got)
	}

	spring := annotated("com.ex.Legacy", "org.springframework.stereotype.Service")
	if got := Classify(spring, cat); got != TypeOther {
		t.Errorf("removed marker: Classify() = %q, want OTHER", got)
	}
}
