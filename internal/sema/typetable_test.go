package sema

import (
	"testing"

	"github.com/dfrunza/ashp4c-sub003/internal/types"
)

func TestTypeTableBaseTypeWidths(t *testing.T) {
	root, tables := typed(t, `bit<8> x; int y; varbit<32> z;`)
	decls := root.Decls()
	check := func(i int, former types.Former, width int) {
		id, ok := tables.TypeTable.Get(decls[i])
		if !ok {
			t.Fatalf("decl %d: no TypeTable entry", i)
		}
		ty := tables.Types.Get(id)
		if ty.Former != former {
			t.Errorf("decl %d: Former = %v, want %v", i, ty.Former, former)
		}
		if ty.Width != width {
			t.Errorf("decl %d: Width = %d, want %d", i, ty.Width, width)
		}
	}
	check(0, types.Bit, 8)
	check(1, types.Int, -1)
	check(2, types.Varbit, 32)
}

func TestTypeTablePlainIntReusesBuiltin(t *testing.T) {
	root, tables := typed(t, `int y;`)
	id, ok := tables.TypeTable.Get(root.Decls()[0])
	if !ok {
		t.Fatalf("no TypeTable entry for y")
	}
	if id != tables.Types.IntT {
		t.Errorf("plain int declaration should reuse the builtin IntT id, got a distinct id")
	}
}

func TestTypeTableFieldedTypeProductsAndFieldTypes(t *testing.T) {
	root, tables := typed(t, `
header Ethernet {
    bit<48> dst;
    bit<16> etherType;
}
`)
	hdr := root.Decls()[0]
	id, ok := tables.TypeTable.Get(hdr)
	if !ok {
		t.Fatalf("no TypeTable entry for Ethernet")
	}
	ty := tables.Types.Get(id)
	if ty.Former != types.Header || ty.Name != "Ethernet" {
		t.Fatalf("got Former=%v Name=%q, want Header(Ethernet)", ty.Former, ty.Name)
	}
	members := tables.Types.ProductMembers(ty.Fields)
	if len(members) != 2 {
		t.Fatalf("got %d field members, want 2", len(members))
	}
	fieldList := hdr.Child(0)
	dstField, etherField := fieldList.Child(0), fieldList.Child(1)

	dstID, ok := tables.TypeTable.Get(dstField)
	if !ok {
		t.Fatalf("expected a TypeTable entry for the dst field itself")
	}
	dstTy := tables.Types.Get(dstID)
	if dstTy.Former != types.Bit || dstTy.Width != 48 {
		t.Errorf("dst field type = %+v, want Bit(48)", dstTy)
	}

	etherID, ok := tables.TypeTable.Get(etherField)
	if !ok {
		t.Fatalf("expected a TypeTable entry for the etherType field itself")
	}
	etherTy := tables.Types.Get(etherID)
	if etherTy.Former != types.Bit || etherTy.Width != 16 {
		t.Errorf("etherType field type = %+v, want Bit(16)", etherTy)
	}

	for _, ref := range members {
		refTy := tables.Types.Get(ref)
		if refTy.Former != types.IdRef || refTy.RefNode == nil {
			t.Fatalf("Fields product member is not an IDREF: %+v", refTy)
		}
	}
}

func TestTypeTableEnumMembersTypeToTheEnumItself(t *testing.T) {
	root, tables := typed(t, `enum Color { RED, GREEN, BLUE }`)
	enumDecl := root.Decls()[0]
	enumID, ok := tables.TypeTable.Get(enumDecl)
	if !ok {
		t.Fatalf("no TypeTable entry for Color")
	}
	members := enumDecl.Child(0).Children()
	if len(members) != 3 {
		t.Fatalf("got %d members, want 3", len(members))
	}
	for _, m := range members {
		id, ok := tables.TypeTable.Get(m)
		if !ok {
			t.Fatalf("no TypeTable entry for enum member %q", m.Ident())
		}
		if id != enumID {
			t.Errorf("enum member %q types to %d, want the enum's own id %d", m.Ident(), id, enumID)
		}
	}
}

func TestTypeTableErrorDeclarationExtendsBuiltinInPlace(t *testing.T) {
	root, tables := typed(t, `error { BadPacket, Truncated }`)
	errDecl := root.Decls()[0]
	// ErrorDeclaration itself records the builtin's id too, since
	// declType always records something via b.set for the node it walks.
	id, ok := tables.TypeTable.Get(errDecl)
	if !ok || id != tables.Types.Error {
		t.Fatalf("error declaration's own TypeTable entry should be the builtin error id")
	}
	errTy := tables.Types.Get(tables.Types.Error)
	members := tables.Types.ProductMembers(errTy.Fields)
	if len(members) != 2 {
		t.Fatalf("got %d error members after extension, want 2", len(members))
	}
	for _, m := range errDecl.Child(0).Children() {
		memberID, ok := tables.TypeTable.Get(m)
		if !ok || memberID != tables.Types.Error {
			t.Errorf("error member %q should type to the builtin error id", m.Ident())
		}
	}
}

func TestTypeTableExternSplitsCtorsFromMethods(t *testing.T) {
	root, tables := typed(t, `
extern Checksum {
    Checksum();
    void update(in bit<16> data);
    bit<16> get();
}`)
	externDecl := root.Decls()[0]
	id, ok := tables.TypeTable.Get(externDecl)
	if !ok {
		t.Fatalf("no TypeTable entry for Checksum")
	}
	ty := tables.Types.Get(id)
	if ty.Former != types.Extern || ty.Name != "Checksum" {
		t.Fatalf("got Former=%v Name=%q, want Extern(Checksum)", ty.Former, ty.Name)
	}
	ctors := tables.Types.ProductMembers(ty.Ctors)
	methods := tables.Types.ProductMembers(ty.Methods)
	if len(ctors) != 1 {
		t.Fatalf("got %d ctors, want 1", len(ctors))
	}
	if len(methods) != 2 {
		t.Fatalf("got %d methods, want 2", len(methods))
	}
}

func TestTypeTableExternConstructorHasNoReturnType(t *testing.T) {
	root, tables := typed(t, `
extern Checksum {
    Checksum();
}`)
	externDecl := root.Decls()[0]
	ctor := externDecl.Child(0)
	id, ok := tables.TypeTable.Get(ctor)
	if !ok {
		t.Fatalf("no TypeTable entry for the constructor prototype")
	}
	ty := tables.Types.Get(id)
	if ty.Former != types.Function {
		t.Fatalf("got Former=%v, want Function", ty.Former)
	}
	if ty.Return != tables.Types.Void {
		t.Errorf("a constructor prototype (no declared return type) should default to Void, got %v", ty.Return)
	}
}

func TestTypeTableControlMethodsNameItsTablesAndActions(t *testing.T) {
	root, tables := typed(t, `
control C() {
    action drop() { }
    table forward {
        actions = { drop };
    }
    apply { forward.apply(); }
}`)
	controlDecl := root.Decls()[0]
	id, ok := tables.TypeTable.Get(controlDecl)
	if !ok {
		t.Fatalf("no TypeTable entry for control C")
	}
	ty := tables.Types.Get(id)
	if ty.Former != types.Control {
		t.Fatalf("got Former=%v, want Control", ty.Former)
	}
	methods := tables.Types.ProductMembers(ty.Methods)
	if len(methods) != 2 {
		t.Fatalf("got %d control-local methods (action+table), want 2", len(methods))
	}
}

func TestTypeTableParserCtorParamsDistinctFromApplyParams(t *testing.T) {
	root, tables := typed(t, `
extern Packet { Packet(); }
parser P(in Packet pkt)(bit<8> seed) {
    state start {
        transition accept;
    }
}
`)
	parserDecl := root.Decls()[1]
	id, ok := tables.TypeTable.Get(parserDecl)
	if !ok {
		t.Fatalf("no TypeTable entry for parser P")
	}
	ty := tables.Types.Get(id)
	if ty.Former != types.Parser {
		t.Fatalf("got Former=%v, want Parser", ty.Former)
	}
	applyMembers := tables.Types.ProductMembers(ty.Params)
	if len(applyMembers) != 1 {
		t.Fatalf("got %d apply params, want 1", len(applyMembers))
	}
	ctorMembers := tables.Types.ProductMembers(ty.Ctors)
	if len(ctorMembers) != 1 {
		t.Fatalf("got %d ctor params, want 1", len(ctorMembers))
	}
	ctorTy := tables.Types.Get(ctorMembers[0])
	if ctorTy.Former != types.IdRef || ctorTy.RefNode.DeclName() != "seed" {
		t.Errorf("ctor param member = %+v, want an IDREF to the seed parameter", ctorTy)
	}
}

func TestTypeTableControlWithoutCtorListHasEmptyCtorProduct(t *testing.T) {
	root, tables := typed(t, `
control C(in bit<8> x) {
    apply { }
}
`)
	controlDecl := root.Decls()[0]
	id, ok := tables.TypeTable.Get(controlDecl)
	if !ok {
		t.Fatalf("no TypeTable entry for control C")
	}
	ty := tables.Types.Get(id)
	if ty.Former != types.Control {
		t.Fatalf("got Former=%v, want Control", ty.Former)
	}
	if got := tables.Types.ProductMembers(ty.Ctors); len(got) != 0 {
		t.Errorf("got %d ctor params for a declaration with no constructor list, want 0", len(got))
	}
	if got := tables.Types.ProductMembers(ty.Params); len(got) != 1 {
		t.Errorf("got %d apply params, want 1", len(got))
	}
}

func TestTypeTableTypedefResolvesThroughToAliasedFormer(t *testing.T) {
	root, tables := typed(t, `
typedef bit<48> MacAddr;
MacAddr dst;
`)
	typedefDecl := root.Decls()[0]
	id, ok := tables.TypeTable.Get(typedefDecl)
	if !ok {
		t.Fatalf("no TypeTable entry for MacAddr")
	}
	ty := tables.Types.Get(id)
	if ty.Former != types.Typedef || ty.Name != "MacAddr" {
		t.Fatalf("got Former=%v Name=%q, want Typedef(MacAddr)", ty.Former, ty.Name)
	}
	eff := tables.Types.EffectiveType(id, tables.TypeTableLookup)
	effTy := tables.Types.Get(eff)
	if effTy.Former != types.Bit || effTy.Width != 48 {
		t.Errorf("effective type of MacAddr = %+v, want Bit(48)", effTy)
	}
}
