package classfile

import (
	"testing"

	"classlens/internal/classfile/classfiletest"
	"classlens/internal/errors"
	"classlens/internal/metadata"
)

func TestExtractClassIdentity(t *testing.T) {
	data := classfiletest.NewClass("com.example.user.UserService").
		Super("com.example.core.BaseService").
		Implements("com.example.core.Lookup").
		Annotate("org.springframework.stereotype.Service").
		Bytes()

	c, err := Extract(data)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}

	if c.FullyQualifiedName != "com.example.user.UserService" {
		t.Errorf("FullyQualifiedName = %q", c.FullyQualifiedName)
	}
	if c.ClassName != "UserService" {
		t.Errorf("ClassName = %q", c.ClassName)
	}
	if c.PackageName != "com.example.user" {
		t.Errorf("PackageName = %q", c.PackageName)
	}
	if c.Kind != metadata.KindClass {
		t.Errorf("Kind = %q, want CLASS", c.Kind)
	}
	if c.SuperClass != "com.example.core.BaseService" {
		t.Errorf("SuperClass = %q", c.SuperClass)
	}
	if len(c.Interfaces) != 1 || c.Interfaces[0] != "com.example.core.Lookup" {
		t.Errorf("Interfaces = %v", c.Interfaces)
	}
	if !c.HasAnnotation("org.springframework.stereotype.Service") {
		t.Errorf("Annotations = %v, missing stereotype marker", c.Annotations)
	}
	if len(c.AccessModifiers) != 1 || c.AccessModifiers[0] != "public" {
		t.Errorf("AccessModifiers = %v", c.AccessModifiers)
	}
}

func TestExtractDefaultPackage(t *testing.T) {
	c, err := Extract(classfiletest.NewClass("Main").Bytes())
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if c.PackageName != "" {
		t.Errorf("PackageName = %q, want empty", c.PackageName)
	}
	if c.ClassName != "Main" {
		t.Errorf("ClassName = %q", c.ClassName)
	}
}

func TestExtractKinds(t *testing.T) {
	tests := []struct {
		name  string
		flags uint16
		want  metadata.ClassKind
	}{
		{"class", classfiletest.AccPublic, metadata.KindClass},
		{"interface", classfiletest.AccPublic | classfiletest.AccInterface | classfiletest.AccAbstract, metadata.KindInterface},
		{"enum", classfiletest.AccPublic | classfiletest.AccEnum, metadata.KindEnum},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := classfiletest.NewClass("com.example.T").Flags(tt.flags).Bytes()
			c, err := Extract(data)
			if err != nil {
				t.Fatalf("Extract() error = %v", err)
			}
			if c.Kind != tt.want {
				t.Errorf("Kind = %q, want %q", c.Kind, tt.want)
			}
		})
	}
}

func TestExtractFields(t *testing.T) {
	data := classfiletest.NewClass("com.example.Account").
		Field("repo", "com.example.AccountRepository", classfiletest.AccPrivate|classfiletest.AccFinal).
		Field("COUNT", "int", classfiletest.AccPublic|classfiletest.AccStatic).
		Field("tags", "java.lang.String[]", classfiletest.AccPrivate, "jakarta.persistence.Column").
		Bytes()

	c, err := Extract(data)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if len(c.Fields) != 3 {
		t.Fatalf("got %d fields, want 3", len(c.Fields))
	}

	repo := c.Fields[0]
	if repo.Type != "com.example.AccountRepository" || !repo.Final || repo.Static {
		t.Errorf("repo field = %+v", repo)
	}
	if len(repo.AccessModifiers) != 2 || repo.AccessModifiers[0] != "private" || repo.AccessModifiers[1] != "final" {
		t.Errorf("repo modifiers = %v", repo.AccessModifiers)
	}

	count := c.Fields[1]
	if !count.Static || count.Type != "int" {
		t.Errorf("COUNT field = %+v", count)
	}

	tags := c.Fields[2]
	if tags.Type != "java.lang.String[]" {
		t.Errorf("tags type = %q", tags.Type)
	}
	if len(tags.Annotations) != 1 || tags.Annotations[0] != "jakarta.persistence.Column" {
		t.Errorf("tags annotations = %v", tags.Annotations)
	}
}

func TestExtractMethodsAndCategories(t *testing.T) {
	b := classfiletest.NewClass("com.example.UserController")
	b.Method("<init>", "void").WithCode()
	b.Method("getName", "java.lang.String")
	b.Method("setName", "void", "java.lang.String")
	b.Method("getUsers", "java.util.List").
		Annotate("org.springframework.web.bind.annotation.GetMapping")
	b.Method("main", "void", "java.lang.String[]").
		Flags(classfiletest.AccPublic | classfiletest.AccStatic)
	b.Method("process", "void", "long", "java.lang.String")

	c, err := Extract(b.Bytes())
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if len(c.Methods) != 6 {
		t.Fatalf("got %d methods, want 6", len(c.Methods))
	}

	wantCategories := map[string]metadata.MethodCategory{
		"<init>":   metadata.CategoryConstructor,
		"getName":  metadata.CategoryGetter,
		"setName":  metadata.CategorySetter,
		"getUsers": metadata.CategoryRestEndpoint,
		"main":     metadata.CategoryEntryPoint,
		"process":  metadata.CategoryBusiness,
	}
	for _, m := range c.Methods {
		if m.Category != wantCategories[m.Name] {
			t.Errorf("method %q category = %q, want %q", m.Name, m.Category, wantCategories[m.Name])
		}
	}

	process := c.Methods[5]
	if process.ReturnType != "void" {
		t.Errorf("process return = %q", process.ReturnType)
	}
	if len(process.Parameters) != 2 {
		t.Fatalf("process parameters = %v", process.Parameters)
	}
	// No name attributes in the record, so synthetic names apply.
	if process.Parameters[0].Name != "arg0" || process.Parameters[0].Type != "long" {
		t.Errorf("param 0 = %+v", process.Parameters[0])
	}
	if process.Parameters[1].Name != "arg1" || process.Parameters[1].Index != 1 {
		t.Errorf("param 1 = %+v", process.Parameters[1])
	}
}

func TestExtractInvocations(t *testing.T) {
	b := classfiletest.NewClass("com.example.UserService")
	b.Method("findAll", "java.util.List").
		Call("com.example.UserRepository", "query", 42).
		Call("com.example.AuditLog", "record", 43)

	c, err := Extract(b.Bytes())
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}

	calls := c.Methods[0].Invocations
	if len(calls) != 2 {
		t.Fatalf("got %d invocations, want 2: %v", len(calls), calls)
	}
	if calls[0].Owner != "com.example.UserRepository" || calls[0].Method != "query" || calls[0].Line != 42 {
		t.Errorf("call 0 = %+v", calls[0])
	}
	if calls[1].Owner != "com.example.AuditLog" || calls[1].Method != "record" || calls[1].Line != 43 {
		t.Errorf("call 1 = %+v", calls[1])
	}
}

func TestExtractInvocationsWithoutLineTable(t *testing.T) {
	b := classfiletest.NewClass("com.example.Job")
	b.Method("run", "void").Call("com.example.Step", "execute", 0)

	c, err := Extract(b.Bytes())
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	calls := c.Methods[0].Invocations
	if len(calls) != 1 || calls[0].Line != 0 {
		t.Errorf("invocations = %v, want one call with line 0", calls)
	}
}

func TestExtractErrorCodes(t *testing.T) {
	if _, err := Extract([]byte{0x00, 0x01, 0x02, 0x03, 0x00, 0x00, 0x00, 0x34}); !errors.IsCode(err, errors.CodeParsing) {
		t.Errorf("bad magic: error = %v, want %s", err, errors.CodeParsing)
	}

	// Valid header but the record ends inside the constant pool.
	valid := classfiletest.NewClass("com.example.Cut").Bytes()
	if _, err := Extract(valid[:12]); !errors.IsCode(err, errors.CodeAnalysis) {
		t.Errorf("truncated pool: error = %v, want %s", err, errors.CodeAnalysis)
	}
}
