package classfile

import (
	"reflect"
	"testing"

	"classlens/internal/metadata"
)

func method(name, ret string, paramTypes ...string) *metadata.Method {
	m := &metadata.Method{Name: name, ReturnType: ret, AccessModifiers: []string{"public"}}
	for i, typ := range paramTypes {
		m.Parameters = append(m.Parameters, metadata.Parameter{Name: "arg", Type: typ, Index: i})
	}
	return m
}

func TestCategorize(t *testing.T) {
	tests := []struct {
		name   string
		method *metadata.Method
		want   metadata.MethodCategory
	}{
		{"constructor", method("<init>", "void"), metadata.CategoryConstructor},
		{"getter", method("getName", "java.lang.String"), metadata.CategoryGetter},
		{"boolean getter", method("isActive", "boolean"), metadata.CategoryGetter},
		{"setter", method("setName", "void", "java.lang.String"), metadata.CategorySetter},
		{"plain business", method("transfer", "void", "long"), metadata.CategoryBusiness},
		// Prefix without a property name is not an accessor.
		{"bare get", method("get", "java.lang.String"), metadata.CategoryBusiness},
		{"bare is", method("is", "boolean"), metadata.CategoryBusiness},
		{"lowercase after prefix", method("getaway", "java.lang.String"), metadata.CategoryBusiness},
		// Shape mismatches fall through the accessor rules.
		{"void get", method("getNothing", "void"), metadata.CategoryBusiness},
		{"get with params", method("getUser", "com.example.User", "long"), metadata.CategoryBusiness},
		{"set returning value", method("setName", "java.lang.String", "java.lang.String"), metadata.CategoryBusiness},
		{"set without params", method("setUp", "void"), metadata.CategoryBusiness},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := categorize(tt.method); got != tt.want {
				t.Errorf("categorize(%s) = %q, want %q", tt.method.Name, got, tt.want)
			}
		})
	}
}

func TestCategorizeRestEndpoint(t *testing.T) {
	m := method("listUsers", "java.util.List")
	m.Annotations = []string{"org.springframework.web.bind.annotation.GetMapping"}
	if got := categorize(m); got != metadata.CategoryRestEndpoint {
		t.Errorf("categorize() = %q, want REST_ENDPOINT", got)
	}

	// Annotation evidence beats accessor naming: a getter-shaped handler
	// with a route mapping is an endpoint.
	g := method("getUsers", "java.util.List")
	g.Annotations = m.Annotations
	if got := categorize(g); got != metadata.CategoryRestEndpoint {
		t.Errorf("categorize() = %q, want REST_ENDPOINT", got)
	}
}

func TestCategorizeEntryPoint(t *testing.T) {
	m := method("main", "void", "java.lang.String[]")
	m.Static = true
	if got := categorize(m); got != metadata.CategoryEntryPoint {
		t.Errorf("categorize() = %q, want ENTRY_POINT", got)
	}

	nonStatic := method("main", "void", "java.lang.String[]")
	if got := categorize(nonStatic); got != metadata.CategoryBusiness {
		t.Errorf("non-static main = %q, want BUSINESS", got)
	}

	wrongParam := method("main", "void", "java.lang.String")
	wrongParam.Static = true
	if got := categorize(wrongParam); got != metadata.CategoryBusiness {
		t.Errorf("main(String) = %q, want BUSINESS", got)
	}

	private := method("main", "void", "java.lang.String[]")
	private.Static = true
	private.AccessModifiers = []string{"private"}
	if got := categorize(private); got != metadata.CategoryBusiness {
		t.Errorf("private main = %q, want BUSINESS", got)
	}
}

func TestOverloadedNames(t *testing.T) {
	c := &metadata.Class{
		Methods: []metadata.Method{
			{Name: "save"},
			{Name: "find"},
			{Name: "save"},
			{Name: "delete"},
			{Name: "find"},
			{Name: "save"},
		},
	}

	got := OverloadedNames(c)
	want := []string{"save", "find"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("OverloadedNames() = %v, want %v", got, want)
	}

	if names := OverloadedNames(&metadata.Class{}); names != nil {
		t.Errorf("OverloadedNames(empty) = %v, want nil", names)
	}
}
