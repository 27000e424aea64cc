package metadata

// ClassKind mirrors the JVM-level kind of a parsed type.
type ClassKind string

const (
	KindClass      ClassKind = "CLASS"
	KindInterface  ClassKind = "INTERFACE"
	KindEnum       ClassKind = "ENUM"
	KindAnnotation ClassKind = "ANNOTATION"
	KindRecord     ClassKind = "RECORD"
)

// MethodCategory is the behavioral classification assigned during extraction.
type MethodCategory string

const (
	CategoryConstructor  MethodCategory = "CONSTRUCTOR"
	CategoryGetter       MethodCategory = "GETTER"
	CategorySetter       MethodCategory = "SETTER"
	CategoryRestEndpoint MethodCategory = "REST_ENDPOINT"
	CategoryEntryPoint   MethodCategory = "ENTRY_POINT"
	CategoryBusiness     MethodCategory = "BUSINESS"
)

// Class is the complete structural record for one parsed class file.
// Values are immutable once extraction returns them; downstream stages
// only read. Field names are part of the export contract consumed by
// report and UI layers.
type Class struct {
	FullyQualifiedName string   `json:"fullyQualifiedName"`
	ClassName          string   `json:"className"`
	PackageName        string   `json:"packageName"`
	Kind               ClassKind `json:"classType"`
	SuperClass         string   `json:"superClass,omitempty"`
	Interfaces         []string `json:"interfaces,omitempty"`
	Annotations        []string `json:"annotations,omitempty"`
	AccessModifiers    []string `json:"accessModifiers,omitempty"`
	Fields             []Field  `json:"fields"`
	Methods            []Method `json:"methods"`
}

type Field struct {
	Name            string   `json:"name"`
	Type            string   `json:"type"`
	AccessModifiers []string `json:"accessModifiers,omitempty"`
	Annotations     []string `json:"annotations,omitempty"`
	Static          bool     `json:"static"`
	Final           bool     `json:"final"`
}

type Method struct {
	Name            string         `json:"methodName"`
	ReturnType      string         `json:"returnType"`
	Parameters      []Parameter    `json:"parameters"`
	AccessModifiers []string       `json:"accessModifiers,omitempty"`
	Annotations     []string       `json:"annotations,omitempty"`
	Invocations     []Call         `json:"invocations"`
	Static          bool           `json:"static"`
	Category        MethodCategory `json:"category"`
}

// Parameter name is best-effort: synthetic argN names are produced when the
// class file carries no MethodParameters or LocalVariableTable attribute.
type Parameter struct {
	Name  string `json:"name"`
	Type  string `json:"type"`
	Index int    `json:"index"`
}

// Call is one invocation site found in a method body. Owner is the
// name-resolved declaring type of the callee, not necessarily the dynamic
// receiver type. Line is 0 when no LineNumberTable data exists.
type Call struct {
	Owner  string `json:"owner"`
	Method string `json:"method"`
	Line   int    `json:"line,omitempty"`
}

// MethodID builds the canonical "Class#method" identifier used by the call
// graph. Overloads share one id on purpose: callee resolution is name-only.
func MethodID(fqn, method string) string {
	return fqn + "#" + method
}

// HasAnnotation reports whether the class carries the given fully-qualified
// annotation marker.
func (c *Class) HasAnnotation(fqn string) bool {
	for _, a := range c.Annotations {
		if a == fqn {
			return true
		}
	}
	return false
}

func (m *Method) HasAnnotation(fqn string) bool {
	for _, a := range m.Annotations {
		if a == fqn {
			return true
		}
	}
	return false
}

// IsVoid reports whether the method returns nothing.
func (m *Method) IsVoid() bool {
	return m.ReturnType == "void"
}
